package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/intake/pkg/domain"
)

// Hooks returns lifecycle hooks that log each event and, when m is not nil,
// count it.
func Hooks(logger *slog.Logger, m *Metrics) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnTransition: func(ctx context.Context, e *domain.TransitionEvent) {
			attrs := []any{"kind", string(e.Kind), "application_id", e.RecordID, "from", e.From.String()}
			if e.To.Valid() {
				attrs = append(attrs, "to", e.To.String())
			}
			logger.InfoContext(ctx, "transition", attrs...)
			if m != nil {
				m.Transitions.WithLabelValues(string(e.Kind), e.From.String()).Inc()
			}
		},
		OnFieldSave: func(ctx context.Context, e *domain.FieldEvent) {
			logger.DebugContext(ctx, "field_save", "application_id", e.RecordID, "field", e.Field.String())
			if m != nil {
				m.FieldSaves.WithLabelValues(e.Field.String()).Inc()
			}
		},
	}
}

// Combine fans each event out to every set of hooks, in order.
func Combine(hooks ...domain.LifecycleHooks) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnTransition: func(ctx context.Context, e *domain.TransitionEvent) {
			for _, h := range hooks {
				if h.OnTransition != nil {
					h.OnTransition(ctx, e)
				}
			}
		},
		OnFieldSave: func(ctx context.Context, e *domain.FieldEvent) {
			for _, h := range hooks {
				if h.OnFieldSave != nil {
					h.OnFieldSave(ctx, e)
				}
			}
		},
	}
}
