package intake

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/aretw0/intake/internal/runtime"
	"github.com/aretw0/intake/pkg/domain"
	"github.com/aretw0/intake/pkg/persistence/middleware"
	"github.com/aretw0/intake/pkg/ports"
	"go.opentelemetry.io/otel/trace"
)

// Engine is the high-level entry point for the intake library.
// It wraps the internal runtime and provides a simplified API for consumers.
type Engine struct {
	runtime     *runtime.Engine
	store       ports.RecordStore
	hooks       domain.LifecycleHooks
	logger      *slog.Logger
	tracer      trace.Tracer
	middlewares []middleware.Middleware
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithTracer sets the OpenTelemetry tracer for operation spans.
// The global tracer provider is used by default.
func WithTracer(tracer trace.Tracer) Option {
	return func(e *Engine) {
		e.tracer = tracer
	}
}

// WithStoreMiddleware wraps the record store. The first middleware is the outermost.
func WithStoreMiddleware(mws ...middleware.Middleware) Option {
	return func(e *Engine) {
		e.middlewares = append(e.middlewares, mws...)
	}
}

// New initializes a new intake Engine over store.
func New(store ports.RecordStore, opts ...Option) (*Engine, error) {
	if store == nil {
		return nil, errors.New("intake: a record store is required")
	}

	eng := &Engine{store: store}
	for _, opt := range opts {
		opt(eng)
	}

	if eng.logger == nil {
		eng.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	eng.store = middleware.Chain(eng.store, eng.middlewares...)

	eng.runtime = runtime.NewEngine(
		eng.store,
		runtime.WithLifecycleHooks(eng.hooks),
		runtime.WithLogger(eng.logger),
		runtime.WithTracer(eng.tracer),
	)
	return eng, nil
}

// Start creates a new application positioned at the first step.
func (e *Engine) Start(ctx context.Context) (domain.Record, error) {
	return e.runtime.Start(ctx)
}

// Load fetches an application. Records with an unknown step fail with domain.ErrCorruptRecord.
func (e *Engine) Load(ctx context.Context, id string) (domain.Record, error) {
	return e.runtime.Load(ctx, id)
}

// SaveField stores one answer without moving the application.
func (e *Engine) SaveField(ctx context.Context, id string, field domain.Field, values []string) (domain.Record, error) {
	return e.runtime.SaveField(ctx, id, field, values)
}

// CommitStep stores the answer for step and advances to the next step in one write.
func (e *Engine) CommitStep(ctx context.Context, id string, step domain.Step, values []string) (domain.Record, error) {
	return e.runtime.CommitStep(ctx, id, step, values)
}

// Back moves the application one step earlier, or signals an exit from the first step.
func (e *Engine) Back(ctx context.Context, id string) (domain.Retreat, error) {
	return e.runtime.Back(ctx, id)
}

// Submit confirms the review step.
func (e *Engine) Submit(ctx context.Context, id string) (domain.Record, error) {
	return e.runtime.Submit(ctx, id)
}

// List returns the landing view summaries in creation order.
func (e *Engine) List(ctx context.Context) ([]domain.Summary, error) {
	return e.runtime.List(ctx)
}

// Store returns the record store in use, wrapped by any configured middleware.
func (e *Engine) Store() ports.RecordStore {
	return e.store
}
