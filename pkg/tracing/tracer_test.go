package tracing_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/updraft-go/updraft/pkg/tracing"
)

func TestNew_RequiresServiceName(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	_, _, err := tracing.New(context.Background(), "",
		tracing.WithSpanExporter(exporter),
		tracing.WithGlobalRegistration(false),
	)
	assert.Error(t, err)
}

func TestNew_RejectsNilCustomExporter(t *testing.T) {
	_, _, err := tracing.New(context.Background(), "bot",
		tracing.WithSpanExporter(nil),
		tracing.WithGlobalRegistration(false),
	)
	assert.Error(t, err)
}

func TestNew_RejectsBadBatchConfig(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()

	_, _, err := tracing.New(context.Background(), "bot",
		tracing.WithSpanExporter(exporter),
		tracing.WithBatchSize(0),
		tracing.WithGlobalRegistration(false),
	)
	assert.Error(t, err)

	_, _, err = tracing.New(context.Background(), "bot",
		tracing.WithSpanExporter(exporter),
		tracing.WithBatchDelay(0),
		tracing.WithGlobalRegistration(false),
	)
	assert.Error(t, err)
}

func TestNew_TracerExportsSpans(t *testing.T) {
	tracer, exporter := newTestTracer(t)

	_, span := tracer.Start(context.Background(), "probe")
	span.End()

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "probe", spans[0].Name)
}

func TestNew_ShutdownFlushes(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tracer, shutdown, err := tracing.New(context.Background(), "bot",
		tracing.WithSpanExporter(exporter),
		tracing.WithGlobalRegistration(false),
	)
	require.NoError(t, err)

	_, span := tracer.Start(context.Background(), "probe")
	span.End()

	require.NoError(t, shutdown(context.Background()))
	assert.Len(t, exporter.GetSpans(), 1)
}

// Global registration is last-wins: the provider registered second
// governs tracers obtained from the global API afterwards.
func TestNew_LastRegistrationWins(t *testing.T) {
	prev := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	first := tracetest.NewInMemoryExporter()
	_, shutdownA, err := tracing.New(context.Background(), "bot-a",
		tracing.WithSpanExporter(first))
	require.NoError(t, err)
	t.Cleanup(func() { _ = shutdownA(context.Background()) })

	second := tracetest.NewInMemoryExporter()
	_, shutdownB, err := tracing.New(context.Background(), "bot-b",
		tracing.WithSpanExporter(second))
	require.NoError(t, err)
	t.Cleanup(func() { _ = shutdownB(context.Background()) })

	_, span := otel.Tracer("probe").Start(context.Background(), "probe")
	span.End()

	assert.Empty(t, first.GetSpans())
	require.Len(t, second.GetSpans(), 1)
}
