package middleware

import (
	"context"
	"time"

	"github.com/aretw0/intake/pkg/domain"
	"github.com/aretw0/intake/pkg/observability"
	"github.com/aretw0/intake/pkg/ports"
)

type metricsMiddleware struct {
	next    ports.RecordStore
	metrics *observability.Metrics
}

// NewMetricsMiddleware records the duration and outcome of every store call.
func NewMetricsMiddleware(m *observability.Metrics) Middleware {
	return func(next ports.RecordStore) ports.RecordStore {
		return &metricsMiddleware{next: next, metrics: m}
	}
}

func (m *metricsMiddleware) Create(ctx context.Context) (string, error) {
	start := time.Now()
	id, err := m.next.Create(ctx)
	m.metrics.ObserveStore("create", start, err)
	return id, err
}

func (m *metricsMiddleware) Get(ctx context.Context, id string) (domain.Record, error) {
	start := time.Now()
	rec, err := m.next.Get(ctx, id)
	m.metrics.ObserveStore("get", start, err)
	return rec, err
}

func (m *metricsMiddleware) Patch(ctx context.Context, id string, patch domain.Patch) error {
	start := time.Now()
	err := m.next.Patch(ctx, id, patch)
	m.metrics.ObserveStore("patch", start, err)
	return err
}

func (m *metricsMiddleware) List(ctx context.Context) ([]domain.Summary, error) {
	start := time.Now()
	out, err := m.next.List(ctx)
	m.metrics.ObserveStore("list", start, err)
	return out, err
}
