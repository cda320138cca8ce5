package pipeline

// Chain is an ordered middleware stack. Middlewares run in registration
// order: the first Use'd middleware is outermost. Each middleware is
// invoked at most once per update.
type Chain struct {
	middlewares []Middleware
}

// NewChain builds a chain with the given middlewares pre-registered.
func NewChain(middlewares ...Middleware) *Chain {
	c := &Chain{}
	c.Use(middlewares...)
	return c
}

// Use appends middlewares to the chain.
func (c *Chain) Use(middlewares ...Middleware) {
	for _, m := range middlewares {
		if m != nil {
			c.middlewares = append(c.middlewares, m)
		}
	}
}

// Then composes the chain around a final handler.
func (c *Chain) Then(handler HandlerFunc) HandlerFunc {
	for i := len(c.middlewares) - 1; i >= 0; i-- {
		handler = c.middlewares[i](handler)
	}
	return handler
}

// Handle runs one update through the chain into handler.
func (c *Chain) Handle(ctx *Context, handler HandlerFunc) error {
	if handler == nil {
		return ErrNilHandler
	}
	return c.Then(handler)(ctx)
}
