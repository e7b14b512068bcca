package runtime

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/aretw0/intake/pkg/domain"
	"github.com/aretw0/intake/pkg/ports"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/aretw0/intake/internal/runtime"

// Engine is the progress state machine runner.
// Every operation is a single round trip against the store: read the record,
// decide the transition, issue at most one write. Nothing is cached between calls.
type Engine struct {
	store  ports.RecordStore
	hooks  domain.LifecycleHooks
	logger *slog.Logger
	tracer trace.Tracer
	now    func() time.Time
}

// EngineOption configures the Engine.
type EngineOption func(*Engine)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithTracer sets the tracer used for operation spans.
func WithTracer(tracer trace.Tracer) EngineOption {
	return func(e *Engine) {
		if tracer != nil {
			e.tracer = tracer
		}
	}
}

// WithClock overrides the event timestamp source.
func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// NewEngine creates a new engine over store.
func NewEngine(store ports.RecordStore, opts ...EngineOption) *Engine {
	e := &Engine{
		store:  store,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		tracer: otel.Tracer(tracerName),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Start creates a new application positioned at the first step.
func (e *Engine) Start(ctx context.Context) (rec domain.Record, err error) {
	ctx, span := e.tracer.Start(ctx, "intake.start")
	defer func() { endSpan(span, err) }()

	id, err := e.store.Create(ctx)
	if err != nil {
		return domain.Record{}, fmt.Errorf("failed to create application: %w", err)
	}
	span.SetAttributes(attribute.String("intake.application_id", id))
	e.logger.Info("application started", "application_id", id)
	return domain.NewRecord(id), nil
}

// Load fetches the application. A record whose step is outside the sequence
// is refused rather than repositioned.
func (e *Engine) Load(ctx context.Context, id string) (rec domain.Record, err error) {
	ctx, span := e.startSpan(ctx, "intake.load", id)
	defer func() { endSpan(span, err) }()

	return e.load(ctx, id)
}

func (e *Engine) load(ctx context.Context, id string) (domain.Record, error) {
	rec, err := e.store.Get(ctx, id)
	if err != nil {
		return domain.Record{}, fmt.Errorf("failed to load application %s: %w", id, err)
	}
	if !rec.CurrentStep.Valid() {
		return domain.Record{}, domain.CorruptRecordError(id, domain.ErrInvalidStep)
	}
	return rec, nil
}

// SaveField persists a single answer as soon as it changes. The current step
// is never touched.
func (e *Engine) SaveField(ctx context.Context, id string, field domain.Field, values []string) (rec domain.Record, err error) {
	ctx, span := e.startSpan(ctx, "intake.save_field", id)
	span.SetAttributes(attribute.String("intake.field", field.String()))
	defer func() { endSpan(span, err) }()

	rec, err = e.load(ctx, id)
	if err != nil {
		return domain.Record{}, err
	}
	if rec.Submitted {
		return domain.Record{}, domain.ErrSubmitted
	}

	patch, err := domain.AnswerPatch(field, values)
	if err != nil {
		return domain.Record{}, err
	}
	if !rec.Reached(field.Step()) {
		return domain.Record{}, fmt.Errorf("%w: %s is collected on %s, application is on %s",
			domain.ErrStepNotReached, field, field.Step(), rec.CurrentStep)
	}

	if err := e.store.Patch(ctx, id, patch); err != nil {
		return domain.Record{}, fmt.Errorf("failed to save %s: %w", field, err)
	}

	e.logger.Debug("answer saved", "application_id", id, "field", field.String())
	e.emitFieldSave(ctx, id, field)
	return patch.Apply(rec), nil
}

// CommitStep leaves step for the next one. The step's answer and the new
// position are written in the same patch.
func (e *Engine) CommitStep(ctx context.Context, id string, step domain.Step, values []string) (rec domain.Record, err error) {
	ctx, span := e.startSpan(ctx, "intake.commit_step", id)
	span.SetAttributes(attribute.String("intake.step", step.String()))
	defer func() { endSpan(span, err) }()

	if !step.Valid() {
		return domain.Record{}, domain.ErrInvalidStep
	}

	rec, err = e.load(ctx, id)
	if err != nil {
		return domain.Record{}, err
	}
	if rec.Submitted {
		return domain.Record{}, domain.ErrSubmitted
	}
	if rec.CurrentStep != step {
		return domain.Record{}, fmt.Errorf("%w: got %s, application is on %s", domain.ErrStepMismatch, step, rec.CurrentStep)
	}

	next, err := step.Next()
	if err != nil {
		return domain.Record{}, err
	}

	patch := domain.Patch{Step: &next}
	if field, ok := step.Field(); ok {
		answer, err := domain.AnswerPatch(field, values)
		if err != nil {
			return domain.Record{}, err
		}
		patch = patch.Merge(answer)
	}

	if err := e.store.Patch(ctx, id, patch); err != nil {
		return domain.Record{}, fmt.Errorf("failed to advance from %s: %w", step, err)
	}

	e.logger.Info("step committed", "application_id", id, "from", step.String(), "to", next.String())
	e.emitTransition(ctx, domain.TransitionAdvance, id, step, next)
	return patch.Apply(rec), nil
}

// Back moves the application one step earlier. From the first step it
// returns the exit signal and writes nothing. Answers are left untouched.
func (e *Engine) Back(ctx context.Context, id string) (ret domain.Retreat, err error) {
	ctx, span := e.startSpan(ctx, "intake.back", id)
	defer func() { endSpan(span, err) }()

	rec, err := e.load(ctx, id)
	if err != nil {
		return domain.Retreat{}, err
	}
	if rec.Submitted {
		return domain.Retreat{}, domain.ErrSubmitted
	}

	ret, err = rec.CurrentStep.Previous()
	if err != nil {
		return domain.Retreat{}, err
	}

	prev, ok := ret.Step()
	if !ok {
		e.logger.Info("application exited", "application_id", id, "from", rec.CurrentStep.String())
		e.emitTransition(ctx, domain.TransitionExit, id, rec.CurrentStep, 0)
		return ret, nil
	}

	if err := e.store.Patch(ctx, id, domain.Patch{Step: &prev}); err != nil {
		return domain.Retreat{}, fmt.Errorf("failed to move back from %s: %w", rec.CurrentStep, err)
	}

	e.logger.Info("step retreated", "application_id", id, "from", rec.CurrentStep.String(), "to", prev.String())
	e.emitTransition(ctx, domain.TransitionRetreat, id, rec.CurrentStep, prev)
	return ret, nil
}

// Submit confirms the review step. Submitting twice is a no-op.
func (e *Engine) Submit(ctx context.Context, id string) (rec domain.Record, err error) {
	ctx, span := e.startSpan(ctx, "intake.submit", id)
	defer func() { endSpan(span, err) }()

	rec, err = e.load(ctx, id)
	if err != nil {
		return domain.Record{}, err
	}
	if rec.Submitted {
		return rec, nil
	}
	if rec.CurrentStep != domain.StepReview {
		return domain.Record{}, fmt.Errorf("%w: submit requires %s, application is on %s",
			domain.ErrStepMismatch, domain.StepReview, rec.CurrentStep)
	}

	patch := domain.Patch{Submit: true}
	if err := e.store.Patch(ctx, id, patch); err != nil {
		return domain.Record{}, fmt.Errorf("failed to submit: %w", err)
	}

	e.logger.Info("application submitted", "application_id", id)
	e.emitTransition(ctx, domain.TransitionSubmit, id, rec.CurrentStep, 0)
	return patch.Apply(rec), nil
}

// List returns the landing view summaries.
func (e *Engine) List(ctx context.Context) (out []domain.Summary, err error) {
	ctx, span := e.tracer.Start(ctx, "intake.list")
	defer func() { endSpan(span, err) }()

	out, err = e.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	span.SetAttributes(attribute.Int("intake.count", len(out)))
	return out, nil
}

func (e *Engine) startSpan(ctx context.Context, name, id string) (context.Context, trace.Span) {
	return e.tracer.Start(ctx, name, trace.WithAttributes(attribute.String("intake.application_id", id)))
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
