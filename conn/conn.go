// Package conn provides the reference Connection collaborator (spec
// §6, component C4). It is adapted from the teacher's
// server/client.Conn: the same bounded, channel-based write path and
// close-once shape, with heart-beat timers and the STOMP wire state machine
// (stateFunc, CONNECT/SUBSCRIBE/ACK frame handlers) stripped out,
// since parsing the wire protocol is out of scope for this module —
// only the Connection contract the queue manager depends on survives.
package conn

import (
	"errors"
	"sync"
	"sync/atomic"

	"github.com/pe2mbs/coilmq/frame"
	"github.com/pe2mbs/coilmq/internal/logging"
)

// defaultBufferSize mirrors the teacher's maxPendingWrites: the
// maximum number of frames buffered for a client before it is
// considered too slow to keep up.
const defaultBufferSize = 16

// ErrClosed is returned by Deliver once the connection has been closed.
var ErrClosed = errors.New("conn: connection closed")

// ErrBackpressure is returned by Deliver when the connection's write
// buffer is full. The queue manager treats this the same as any other
// TransportError (spec §7): logged and swallowed, with recovery left
// to a subsequent Disconnect call from the transport layer.
var ErrBackpressure = errors.New("conn: write buffer full")

var nextID uint64

// Conn is the reference Connection implementation. A real transport
// (TCP accept loop, wire codec — both out of scope here) would
// construct one per client session, set Reliable accordingly, and
// drain Out() into the network connection; this package stops short
// of doing that itself.
type Conn struct {
	id       uint64
	reliable bool

	writeCh chan *frame.Frame
	closeCh chan struct{}
	once    sync.Once

	log *logging.Entry
}

// New creates a Conn. reliable marks whether the subscriber requires
// per-message ACK (spec glossary: "Reliable subscriber"). bufferSize
// overrides the default write-buffer depth when positive.
func New(reliable bool, bufferSize int) *Conn {
	if bufferSize <= 0 {
		bufferSize = defaultBufferSize
	}
	id := atomic.AddUint64(&nextID, 1)
	return &Conn{
		id:       id,
		reliable: reliable,
		writeCh:  make(chan *frame.Frame, bufferSize),
		closeCh:  make(chan struct{}),
		log:      logging.For("conn").WithField("conn_id", id),
	}
}

// ID returns a process-unique, monotonically assigned identifier,
// useful for logging and metrics labels. The queue manager itself
// never keys on this — it keys on the Conn pointer directly, per
// spec §9's guidance for languages with reference-equality map keys.
func (c *Conn) ID() uint64 {
	return c.id
}

// Reliable implements qmgr.Connection.
func (c *Conn) Reliable() bool {
	return c.reliable
}

// Deliver implements qmgr.Connection. It hands f to this connection's
// bounded write buffer without blocking: a full buffer means the
// consumer is too slow, which is reported as ErrBackpressure rather
// than stalling the queue manager's critical section.
func (c *Conn) Deliver(f *frame.Frame) error {
	select {
	case <-c.closeCh:
		return ErrClosed
	default:
	}

	select {
	case c.writeCh <- f:
		return nil
	case <-c.closeCh:
		return ErrClosed
	default:
		c.log.Warn("write buffer full, dropping frame for slow subscriber")
		return ErrBackpressure
	}
}

// Out returns the channel a transport writer drains delivered frames
// from. Close does not close this channel; it only makes further
// Deliver calls fail, and frames already buffered stay readable.
func (c *Conn) Out() <-chan *frame.Frame {
	return c.writeCh
}

// Close marks the connection closed. Idempotent. It does not, by
// itself, notify the queue manager — the transport layer (out of
// scope here) is expected to call Manager.Disconnect once it observes
// the underlying transport going away, per spec §4.10.
func (c *Conn) Close() {
	c.once.Do(func() {
		close(c.closeCh)
	})
}
