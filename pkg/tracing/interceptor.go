package tracing

import (
	"context"
	"encoding/json"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/updraft-go/updraft/pkg/pipeline"
)

// SkipFunc decides whether an outbound call is forwarded without a span.
// Use it to keep noisy, high-volume calls (e.g. long polling) out of the
// trace stream.
type SkipFunc func(method string, payload any) bool

// Transformer wraps every outbound API call in a span named
// "api.<method>" with a request event carrying the serialized payload and
// a response event carrying the serialized result. Failed calls end the
// span with an error status; the call's error is never suppressed or
// transformed.
//
// This is the standalone variant: spans parent from the call's own
// context, so a call issued outside any update scope opens a new root.
// Middleware installs an update-scoped variant that parents from the
// update's active trace context instead.
func Transformer(tracer trace.Tracer, skip SkipFunc) pipeline.Transformer {
	return func(next pipeline.CallFunc) pipeline.CallFunc {
		return func(ctx context.Context, method string, payload any) (json.RawMessage, error) {
			if skip != nil && skip(method, payload) {
				return next(ctx, method, payload)
			}
			return traceCall(ctx, tracer, next, method, payload)
		}
	}
}

// traceCall runs one outbound call under a fresh span. The span always
// ends, whatever path the call exits on.
func traceCall(ctx context.Context, tracer trace.Tracer, next pipeline.CallFunc, method string, payload any) (resp json.RawMessage, err error) {
	ctx, span := tracer.Start(ctx, spanPrefixAPI+method,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String(attrAPIMethod, method)),
	)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	span.AddEvent(eventAPIRequest, trace.WithAttributes(
		attribute.String(attrBody, marshalBody(payload)),
	))

	resp, err = next(ctx, method, payload)
	if err != nil {
		return resp, err
	}

	span.AddEvent(eventAPIResponse, trace.WithAttributes(
		attribute.String(attrBody, marshalBody(resp)),
	))
	return resp, nil
}

// marshalBody serializes a payload or response for span events. Bodies
// that are already JSON pass through untouched.
func marshalBody(v any) string {
	switch b := v.(type) {
	case nil:
		return "null"
	case json.RawMessage:
		return string(b)
	case []byte:
		return string(b)
	}
	encoded, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(encoded)
}
