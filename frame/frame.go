// Package frame defines the wire-agnostic message representation that
// flows through the queue manager. Parsing and serializing the actual
// STOMP wire format is out of scope for this module; a Frame here is
// already a decoded, in-memory object.
package frame

import (
	"github.com/google/uuid"
)

// Frame commands relevant to queue manager dispatch. Other STOMP
// commands (CONNECT, heart-beats, ...) are handled above this layer
// and never reach the queue manager as Frame values.
const (
	SEND        = "SEND"
	MESSAGE     = "MESSAGE"
	ACK         = "ACK"
	NACK        = "NACK"
	SUBSCRIBE   = "SUBSCRIBE"
	UNSUBSCRIBE = "UNSUBSCRIBE"
	BEGIN       = "BEGIN"
	COMMIT      = "COMMIT"
	ABORT       = "ABORT"
	DISCONNECT  = "DISCONNECT"
)

// Header names the queue manager reads or writes directly.
const (
	Destination  = "destination"
	MessageId    = "message-id"
	Transaction  = "transaction"
	Subscription = "subscription"
	Ack          = "ack"
)

// Headers is the mutable header mapping carried by a Frame. Order is
// not meaningful to the queue manager (spec §3: "insertion order
// irrelevant" applies equally here), so a plain map is sufficient.
type Headers map[string]string

// Contains reports whether the named header is present, returning its
// value if so.
func (h Headers) Contains(name string) (string, bool) {
	v, ok := h[name]
	return v, ok
}

// Set assigns the named header, overwriting any existing value.
func (h Headers) Set(name, value string) {
	h[name] = value
}

// Remove deletes the named header, if present.
func (h Headers) Remove(name string) {
	delete(h, name)
}

// Frame is an opaque message object as described in spec §3: it
// carries a command tag, a header mapping, and an opaque body.
type Frame struct {
	Command string
	Headers Headers
	Body    []byte
}

// New creates a frame with the given command and an empty header map.
func New(command string) *Frame {
	return &Frame{
		Command: command,
		Headers: make(Headers),
	}
}

// Destination returns the frame's destination header, or "" if unset.
func (f *Frame) Destination() string {
	return f.Headers[Destination]
}

// MessageID returns the frame's message-id header, or "" if unset.
func (f *Frame) MessageID() string {
	return f.Headers[MessageId]
}

// NewID generates a fresh, universally unique message-id string.
func NewID() string {
	return uuid.NewString()
}

// Clone returns a shallow copy of f with its own Headers map, so that
// mutating the clone's headers (e.g. during requeue) never affects a
// frame another subscriber may already be holding.
func (f *Frame) Clone() *Frame {
	cp := &Frame{
		Command: f.Command,
		Headers: make(Headers, len(f.Headers)),
		Body:    f.Body,
	}
	for k, v := range f.Headers {
		cp.Headers[k] = v
	}
	return cp
}
