package qmgr

import "github.com/pkg/errors"

// Sentinel errors surfaced by the queue manager (spec §7).
var (
	// ErrBadFrame is returned by Send when the frame has no
	// destination set. No state is changed.
	ErrBadFrame = errors.New("qmgr: frame has no destination")

	// ErrInternalInvariant indicates the reliable send path observed
	// a connection already holding a pending frame (violates I2).
	// Seeing this error means an upstream caller violated the
	// eligibility contract — it is not expected in normal operation.
	ErrInternalInvariant = errors.New("qmgr: connection already has a pending frame")
)
