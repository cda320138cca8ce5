package tracing_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"

	"github.com/updraft-go/updraft/pkg/pipeline"
	"github.com/updraft-go/updraft/pkg/tracing"
)

// newTestTracer builds an isolated tracer backed by an in-memory
// exporter. Spans show up in the exporter as soon as they end.
func newTestTracer(t *testing.T) (trace.Tracer, *tracetest.InMemoryExporter) {
	t.Helper()

	exporter := tracetest.NewInMemoryExporter()
	tracer, shutdown, err := tracing.New(context.Background(), "test-bot",
		tracing.WithSpanExporter(exporter),
		tracing.WithGlobalRegistration(false),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = shutdown(context.Background())
	})
	return tracer, exporter
}

func parseUpdate(t *testing.T, raw string) pipeline.Update {
	t.Helper()
	u, err := pipeline.ParseUpdate([]byte(raw))
	require.NoError(t, err)
	return u
}

// okTransport answers every call with {"ok":true}.
func okTransport(ctx context.Context, method string, payload any) (json.RawMessage, error) {
	return json.RawMessage(`{"ok":true}`), nil
}

func spanByName(t *testing.T, spans tracetest.SpanStubs, name string) tracetest.SpanStub {
	t.Helper()
	for _, s := range spans {
		if s.Name == name {
			return s
		}
	}
	t.Fatalf("no span named %q among %d spans", name, len(spans))
	return tracetest.SpanStub{}
}

func attrValue(t *testing.T, attrs []attribute.KeyValue, key string) attribute.Value {
	t.Helper()
	for _, a := range attrs {
		if string(a.Key) == key {
			return a.Value
		}
	}
	t.Fatalf("attribute %q not found", key)
	return attribute.Value{}
}

func eventByName(t *testing.T, events []sdktrace.Event, name string) sdktrace.Event {
	t.Helper()
	for _, e := range events {
		if e.Name == name {
			return e
		}
	}
	t.Fatalf("event %q not found", name)
	return sdktrace.Event{}
}

func countEvents(events []sdktrace.Event, name string) int {
	n := 0
	for _, e := range events {
		if e.Name == name {
			n++
		}
	}
	return n
}
