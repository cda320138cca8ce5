package tracing

import (
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/updraft-go/updraft/pkg/pipeline"
)

// MiddlewareOption configures the update instrumenter.
type MiddlewareOption func(*middlewareConfig)

type middlewareConfig struct {
	skip      SkipFunc
	verbosity int
	diag      bool
}

// WithSkip keeps matching outbound calls out of the trace stream.
func WithSkip(skip SkipFunc) MiddlewareOption {
	return func(c *middlewareConfig) {
		c.skip = skip
	}
}

// WithLogVerbosity enables the OTel diagnostic logger at the given
// verbosity. Process-wide, applied once; later values are ignored.
func WithLogVerbosity(v int) MiddlewareOption {
	return func(c *middlewareConfig) {
		c.verbosity = v
		c.diag = true
	}
}

// Middleware instruments update processing: one root span per update,
// named "update.<type>", carrying the update type and raw body as
// attributes. It installs the update-scoped outbound-call interceptor and
// attaches a State to the processing context so handlers can open manual
// spans. The root span ends strictly after downstream processing settles;
// downstream errors are recorded on it and re-propagated.
//
// Each update is an independent top-level trace: the root span is
// detached from whatever ambient context the update arrived with.
func Middleware(tracer trace.Tracer, opts ...MiddlewareOption) pipeline.Middleware {
	cfg := &middlewareConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.diag {
		setDiagVerbosity(cfg.verbosity)
	}

	return func(next pipeline.HandlerFunc) pipeline.HandlerFunc {
		return func(c *pipeline.Context) (err error) {
			u := c.Update()

			ctx, root := tracer.Start(c.Context(), spanPrefixUpdate+u.Type,
				trace.WithNewRoot(),
				trace.WithAttributes(
					attribute.String(attrUpdateType, u.Type),
					attribute.String(attrUpdateBody, string(u.Raw)),
				),
			)
			defer func() {
				if err != nil {
					root.RecordError(err)
					root.SetStatus(codes.Error, err.Error())
				}
				root.End()
			}()

			state := newState(tracer, ctx)
			c.Set(ExtensionKey, state)
			c.UseTransformer(state.transformer(cfg.skip))

			return next(c)
		}
	}
}
