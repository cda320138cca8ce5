package pipeline

import "errors"

var (
	// ErrNoTransport is returned by Call when the Context was built
	// without an outbound transport delegate.
	ErrNoTransport = errors.New("pipeline: no outbound transport configured")

	// ErrNilHandler is returned by Chain.Handle when no handler is given.
	ErrNilHandler = errors.New("pipeline: nil handler")
)
