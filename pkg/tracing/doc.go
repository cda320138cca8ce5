// Package tracing instruments an update-driven bot pipeline with
// OpenTelemetry spans.
//
// New builds the span pipeline (exporter, resource, batch processor,
// global provider) and returns the tracer the other pieces share.
// Middleware opens one root span per inbound update and wires every
// outbound API call issued during that update into the trace as a child
// span, without handlers passing any context. Transformer does the same
// call wrapping standalone, for calls made outside any update. Trace and
// Traced give handlers manual, named spans that nest under whatever is
// active at the time.
//
// Basic wiring:
//
//	tracer, shutdown, err := tracing.New(ctx, "my-bot",
//		tracing.WithOTLPEndpoint("collector:4317"))
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer shutdown(context.Background())
//
//	chain := pipeline.NewChain(
//		tracing.Middleware(tracer),
//	)
package tracing
