// Package store defines the Queue Store contract (spec §6, component
// C3): the persistence boundary the queue manager hands frames to when
// no subscriber is ready for them, and draws frames back from when a
// subscriber becomes available. This package is deliberately just the
// contract plus a shared error type; concrete backends live in
// sub-packages such as store/memstore.
package store

import (
	"github.com/pkg/errors"

	"github.com/pe2mbs/coilmq/frame"
)

// Store is the persistence backend a Manager delegates backlog to.
// All methods are synchronous and must be safe for concurrent use by
// multiple destinations; the queue manager treats each call as atomic
// and fatal-on-error to the public operation that triggered it.
type Store interface {
	// Enqueue persists f at the tail of destination's backlog.
	Enqueue(destination string, f *frame.Frame) error

	// Dequeue removes and returns the frame at the head of
	// destination's backlog, or (nil, nil) if there is none.
	Dequeue(destination string) (*frame.Frame, error)

	// HasFrames reports whether destination currently has backlog.
	HasFrames(destination string) bool

	// Frames returns a channel that yields every currently-backlogged
	// frame for destination, in order, removing each as it is sent.
	// The channel is closed once the backlog at call time is drained.
	Frames(destination string) (<-chan *frame.Frame, error)

	// Requeue returns f to the head of destination's backlog, so the
	// next Dequeue(destination) yields it again. Implementations must
	// not retain f itself — the caller may still hold a reference to a
	// frame it just handed to a subscriber's Deliver — so a conforming
	// backend clones f before storing it.
	Requeue(destination string, f *frame.Frame) error
}

// Error wraps a backend failure so callers can distinguish a store
// failure (spec §7: StoreError, propagated and fatal to the current
// public operation, but leaving state consistent) from a logic error
// raised by the queue manager itself.
type Error struct {
	cause error
	op    string
}

// NewError wraps cause as a store Error for the named operation.
func NewError(op string, cause error) error {
	if cause == nil {
		return nil
	}
	return &Error{cause: errors.WithStack(cause), op: op}
}

func (e *Error) Error() string {
	return "store: " + e.op + ": " + e.cause.Error()
}

// Unwrap exposes the underlying cause for errors.Is/errors.As.
func (e *Error) Unwrap() error {
	return e.cause
}
