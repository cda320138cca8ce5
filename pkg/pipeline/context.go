package pipeline

import (
	"context"
	"encoding/json"
)

// CallFunc issues one outbound API call. Cancellation from the host rides
// the context; the pipeline passes it through unchanged. The returned
// payload is the raw response body, and any transport or API error is
// returned as-is.
type CallFunc func(ctx context.Context, method string, payload any) (json.RawMessage, error)

// Transformer wraps a CallFunc to observe or adjust outbound calls.
// Transformers compose; the one registered last runs first.
type Transformer func(next CallFunc) CallFunc

// HandlerFunc processes one update.
type HandlerFunc func(c *Context) error

// Middleware wraps a HandlerFunc to add behavior around update processing.
type Middleware func(next HandlerFunc) HandlerFunc

// Context is the per-update processing state handed to middlewares and
// handlers. It carries the inbound update, the outbound-call hook with
// its transformer stack, and an extension attachment point for
// middleware-owned state. A Context lives for exactly one update and is
// discarded with it.
type Context struct {
	ctx    context.Context
	update Update
	call   CallFunc
	ext    map[string]any
}

// NewContext builds the processing state for one update. call is the raw
// transport delegate; transformers registered later wrap it.
func NewContext(ctx context.Context, update Update, call CallFunc) *Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return &Context{
		ctx:    ctx,
		update: update,
		call:   call,
		ext:    make(map[string]any),
	}
}

// Context returns the context.Context the update arrived with.
func (c *Context) Context() context.Context {
	return c.ctx
}

// Update returns the inbound update.
func (c *Context) Update() Update {
	return c.update
}

// UseTransformer installs transformers on the outbound-call hook.
// Each transformer wraps the hook as it stood at registration time.
// Without a transport there is nothing to wrap: Call keeps returning
// ErrNoTransport rather than handing transformers a nil delegate.
func (c *Context) UseTransformer(transformers ...Transformer) {
	if c.call == nil {
		return
	}
	for _, t := range transformers {
		if t != nil {
			c.call = t(c.call)
		}
	}
}

// Call issues an outbound API call through the transformer stack using
// the update's own context.
func (c *Context) Call(method string, payload any) (json.RawMessage, error) {
	return c.CallContext(c.ctx, method, payload)
}

// CallContext is Call with an explicit context, for handlers that derive
// their own deadlines or carry a span context of their own.
func (c *Context) CallContext(ctx context.Context, method string, payload any) (json.RawMessage, error) {
	if c.call == nil {
		return nil, ErrNoTransport
	}
	return c.call(ctx, method, payload)
}

// Set attaches middleware-owned state to this update's processing.
func (c *Context) Set(key string, value any) {
	c.ext[key] = value
}

// Get retrieves state attached with Set.
func (c *Context) Get(key string) (any, bool) {
	v, ok := c.ext[key]
	return v, ok
}
