package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the collectors exported by the wizard.
type Metrics struct {
	Transitions *prometheus.CounterVec
	FieldSaves  *prometheus.CounterVec
	StoreOps    *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Transitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "intake_transitions_total",
				Help: "Total number of persisted step transitions",
			},
			[]string{"kind", "from"},
		),
		FieldSaves: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "intake_field_saves_total",
				Help: "Total number of live answer updates",
			},
			[]string{"field"},
		),
		StoreOps: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "intake_store_operation_duration_seconds",
				Help:    "Duration of record store operations",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation", "outcome"},
		),
	}
	if reg != nil {
		reg.MustRegister(m.Transitions, m.FieldSaves, m.StoreOps)
	}
	return m
}

// ObserveStore records the duration of a store operation started at start.
func (m *Metrics) ObserveStore(operation string, start time.Time, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.StoreOps.WithLabelValues(operation, outcome).Observe(time.Since(start).Seconds())
}
