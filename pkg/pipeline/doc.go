// Package pipeline defines the processing boundary an update-driven bot
// runs on: the inbound Update, the per-update processing Context with its
// outbound-call hook, and the middleware chain handlers are mounted on.
// Instrumentation (see pkg/tracing) plugs into this boundary without
// owning the chain or the transport behind the call hook.
package pipeline
