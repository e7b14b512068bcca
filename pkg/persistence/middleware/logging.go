package middleware

import (
	"context"
	"log/slog"
	"time"

	"github.com/aretw0/intake/pkg/domain"
	"github.com/aretw0/intake/pkg/ports"
)

type loggingMiddleware struct {
	next   ports.RecordStore
	logger *slog.Logger
}

// NewLoggingMiddleware logs every store call at debug level, and failures at
// warn level. Patches are logged by field name only: answers are sensitive.
func NewLoggingMiddleware(logger *slog.Logger) Middleware {
	return func(next ports.RecordStore) ports.RecordStore {
		return &loggingMiddleware{next: next, logger: logger}
	}
}

func (m *loggingMiddleware) Create(ctx context.Context) (string, error) {
	start := time.Now()
	id, err := m.next.Create(ctx)
	m.log(ctx, "create", start, err, "application_id", id)
	return id, err
}

func (m *loggingMiddleware) Get(ctx context.Context, id string) (domain.Record, error) {
	start := time.Now()
	rec, err := m.next.Get(ctx, id)
	m.log(ctx, "get", start, err, "application_id", id)
	return rec, err
}

func (m *loggingMiddleware) Patch(ctx context.Context, id string, patch domain.Patch) error {
	start := time.Now()
	err := m.next.Patch(ctx, id, patch)
	m.log(ctx, "patch", start, err, "application_id", id, "fields", patch.Fields())
	return err
}

func (m *loggingMiddleware) List(ctx context.Context) ([]domain.Summary, error) {
	start := time.Now()
	out, err := m.next.List(ctx)
	m.log(ctx, "list", start, err, "count", len(out))
	return out, err
}

func (m *loggingMiddleware) log(ctx context.Context, op string, start time.Time, err error, attrs ...any) {
	attrs = append(attrs, "op", op, "duration", time.Since(start))
	if err != nil {
		m.logger.WarnContext(ctx, "store call failed", append(attrs, "err", err)...)
		return
	}
	m.logger.DebugContext(ctx, "store call", attrs...)
}
