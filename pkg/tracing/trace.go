package tracing

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/updraft-go/updraft/pkg/pipeline"
)

// ExtensionKey is the pipeline extension slot Middleware attaches the
// per-update State under.
const ExtensionKey = "tracing"

// ErrNotInstrumented is returned by Trace when the update was not
// processed through the tracing middleware.
var ErrNotInstrumented = errors.New("tracing: update is not instrumented")

// State is the tracing state of one in-flight update: the tracer, the
// root span's identity, and the currently active trace context that
// implicit span parenting derives from. It is created by Middleware and
// discarded with the update's processing state.
type State struct {
	tracer trace.Tracer
	root   trace.SpanContext

	mu      sync.Mutex
	current context.Context
}

func newState(tracer trace.Tracer, ctx context.Context) *State {
	return &State{
		tracer:  tracer,
		root:    trace.SpanContextFromContext(ctx),
		current: ctx,
	}
}

// Tracer returns the tracer this update is instrumented with.
func (s *State) Tracer() trace.Tracer {
	return s.tracer
}

// RootSpanContext returns the identity of the update's root span.
func (s *State) RootSpanContext() trace.SpanContext {
	return s.root
}

// Current returns the currently active trace context: the root context,
// or the context of the most recently opened manual span.
func (s *State) Current() context.Context {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

func (s *State) setCurrent(ctx context.Context) {
	s.mu.Lock()
	s.current = ctx
	s.mu.Unlock()
}

// TraceID returns the update's trace ID for log correlation.
func (s *State) TraceID() string {
	if !s.root.IsValid() {
		return ""
	}
	return s.root.TraceID().String()
}

// SpanID returns the root span's ID for log correlation.
func (s *State) SpanID() string {
	if !s.root.IsValid() {
		return ""
	}
	return s.root.SpanID().String()
}

// Trace runs fn under a manual span named name, parented on the update's
// currently active context. The active context advances to the new span,
// so outbound calls made inside fn (and after it) nest under it. The span
// always ends when fn settles; fn's error is recorded and propagated.
//
// The active context is a single slot shared by the whole update. Two
// manual traces started concurrently without awaiting one another race on
// it, and calls from the first body may nest under the second span. Use
// TraceContext when a handler fans out.
func (s *State) Trace(name string, attrs map[string]any, fn func(span trace.Span) error) (err error) {
	ctx, span := s.tracer.Start(s.Current(), name,
		trace.WithAttributes(attributesFromMap(attrs)...),
	)
	s.setCurrent(ctx)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	return fn(span)
}

// TraceContext is Trace with explicit context threading: the span parents
// from ctx, fn receives the span's context, and the shared active-context
// slot is left alone. Safe for concurrent use within one update.
func (s *State) TraceContext(ctx context.Context, name string, attrs map[string]any, fn func(ctx context.Context, span trace.Span) error) (err error) {
	ctx, span := s.tracer.Start(ctx, name,
		trace.WithAttributes(attributesFromMap(attrs)...),
	)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	return fn(ctx, span)
}

// transformer is the update-scoped outbound-call interceptor. It parents
// call spans from the update's active context, so callers never pass one
// explicitly. A caller that threads a span of this update's trace itself
// (e.g. inside TraceContext) keeps it; spans from outside the update's
// trace, such as the host server's inbound request span, are ignored.
func (s *State) transformer(skip SkipFunc) pipeline.Transformer {
	return func(next pipeline.CallFunc) pipeline.CallFunc {
		return func(ctx context.Context, method string, payload any) (json.RawMessage, error) {
			if skip != nil && skip(method, payload) {
				return next(ctx, method, payload)
			}
			parent := ctx
			if sc := trace.SpanContextFromContext(ctx); !sc.IsValid() || sc.TraceID() != s.root.TraceID() {
				// Keep the caller's cancellation and deadlines, graft on
				// the update's active span as parent.
				parent = trace.ContextWithSpan(ctx, trace.SpanFromContext(s.Current()))
			}
			return traceCall(parent, s.tracer, next, method, payload)
		}
	}
}

// FromContext returns the tracing state the middleware attached to this
// update's processing context.
func FromContext(c *pipeline.Context) (*State, bool) {
	v, ok := c.Get(ExtensionKey)
	if !ok {
		return nil, false
	}
	state, ok := v.(*State)
	return state, ok
}

// Trace opens a manual span on the update's tracing state. It returns
// ErrNotInstrumented when the tracing middleware is not installed.
func Trace(c *pipeline.Context, name string, attrs map[string]any, fn func(span trace.Span) error) error {
	state, ok := FromContext(c)
	if !ok {
		return ErrNotInstrumented
	}
	return state.Trace(name, attrs, fn)
}

// Traced wraps a handler so its execution runs under a dedicated manual
// span. Pure convenience over Trace.
func Traced(name string, fn pipeline.HandlerFunc, attrs map[string]any) pipeline.HandlerFunc {
	return func(c *pipeline.Context) error {
		return Trace(c, name, attrs, func(trace.Span) error {
			return fn(c)
		})
	}
}
