package observability_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/aretw0/intake/pkg/domain"
	"github.com/aretw0/intake/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHooks_CountAndLog(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	reg := prometheus.NewRegistry()
	m := observability.NewMetrics(reg)

	hooks := observability.Hooks(logger, m)
	ctx := context.Background()

	hooks.OnTransition(ctx, &domain.TransitionEvent{Kind: domain.TransitionAdvance, RecordID: "1", From: domain.StepAge, To: domain.StepGender})
	hooks.OnTransition(ctx, &domain.TransitionEvent{Kind: domain.TransitionAdvance, RecordID: "2", From: domain.StepAge, To: domain.StepGender})
	hooks.OnTransition(ctx, &domain.TransitionEvent{Kind: domain.TransitionExit, RecordID: "1", From: domain.StepAge})
	hooks.OnFieldSave(ctx, &domain.FieldEvent{RecordID: "1", Field: domain.FieldAgeBracket})

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Transitions.WithLabelValues("advance", "age")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Transitions.WithLabelValues("exit", "age")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FieldSaves.WithLabelValues("age_bracket")))

	out := buf.String()
	assert.Contains(t, out, `"msg":"transition"`)
	assert.Contains(t, out, `"to":"gender"`)
	assert.Contains(t, out, `"field":"age_bracket"`)
}

func TestHooks_NilMetrics(t *testing.T) {
	hooks := observability.Hooks(slog.New(slog.DiscardHandler), nil)
	assert.NotPanics(t, func() {
		hooks.OnFieldSave(context.Background(), &domain.FieldEvent{RecordID: "1", Field: domain.FieldGenderIdentity})
	})
}

func TestMetrics_ObserveStore(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := observability.NewMetrics(reg)

	m.ObserveStore("get", time.Now(), nil)
	m.ObserveStore("get", time.Now(), errors.New("down"))

	families, err := reg.Gather()
	require.NoError(t, err)

	var found bool
	for _, f := range families {
		if f.GetName() == "intake_store_operation_duration_seconds" {
			found = true
			assert.Len(t, f.GetMetric(), 2)
		}
	}
	assert.True(t, found)
}

func TestCombine(t *testing.T) {
	var calls []string
	a := domain.LifecycleHooks{OnTransition: func(context.Context, *domain.TransitionEvent) { calls = append(calls, "a") }}
	b := domain.LifecycleHooks{
		OnTransition: func(context.Context, *domain.TransitionEvent) { calls = append(calls, "b") },
		OnFieldSave:  func(context.Context, *domain.FieldEvent) { calls = append(calls, "b-field") },
	}

	hooks := observability.Combine(a, b)
	hooks.OnTransition(context.Background(), &domain.TransitionEvent{})
	hooks.OnFieldSave(context.Background(), &domain.FieldEvent{})

	assert.Equal(t, []string{"a", "b", "b-field"}, calls)
}
