package runtime_test

import (
	"context"
	"testing"

	"github.com/aretw0/intake/internal/runtime"
	"github.com/aretw0/intake/pkg/adapters/memory"
	"github.com/aretw0/intake/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestEngine_Spans(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	engine := runtime.NewEngine(memory.NewStore(), runtime.WithTracer(provider.Tracer("test")))
	ctx := context.Background()

	rec, err := engine.Start(ctx)
	require.NoError(t, err)
	_, err = engine.CommitStep(ctx, rec.ID, domain.StepGender, []string{"woman"})
	require.Error(t, err)

	spans := recorder.Ended()
	require.Len(t, spans, 2)

	assert.Equal(t, "intake.start", spans[0].Name())
	assert.Equal(t, codes.Unset, spans[0].Status().Code)

	commit := spans[1]
	assert.Equal(t, "intake.commit_step", commit.Name())
	assert.Equal(t, codes.Error, commit.Status().Code)
	assert.Contains(t, commit.Attributes(), attribute.String("intake.application_id", rec.ID))
	assert.Contains(t, commit.Attributes(), attribute.String("intake.step", "gender"))
}
