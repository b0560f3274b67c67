// Package qmgr implements the Queue Manager (spec §3, component C5):
// the dispatch core that ties together the Subscription registry R,
// the Pending table P, the Transaction buffer T, a Queue Store, and
// the subscriber/queue schedulers. It is translated line-for-line in
// spirit from the original Python source, coilmq's queue.QueueManager,
// with one structural change forced by the host language: Python's
// RLock is re-entrant (resend_transaction_frames recursively calls
// send while holding the lock); Go's sync.Mutex is not. Every public
// method here acquires the mutex exactly once and does its real work
// in a "Locked" helper; any method that needs to call another
// operation while still holding the lock calls that operation's
// Locked helper directly rather than re-entering the public API. This
// is the non-re-entrant redesign spec §9 explicitly allows.
package qmgr

import (
	"github.com/pe2mbs/coilmq/frame"
	"github.com/pe2mbs/coilmq/internal/logging"
	"github.com/pe2mbs/coilmq/internal/metrics"
	"github.com/pe2mbs/coilmq/scheduler"
	"github.com/pe2mbs/coilmq/store"

	"sync"
)

// Connection is the view of a subscriber the queue manager depends on
// (spec §3, component C4's contract). It is satisfied by *conn.Conn,
// or by any other transport's connection type that can report
// reliability and accept a frame without blocking.
type Connection interface {
	// Reliable reports whether this subscriber requires ACKs before
	// it may receive another frame on any destination.
	Reliable() bool

	// Deliver hands f to the connection. A non-nil error is a
	// TransportError (spec §7): logged by the caller and otherwise
	// swallowed — bookkeeping proceeds as though delivery succeeded,
	// since the transport is expected to eventually call Disconnect
	// once it notices the peer is gone.
	Deliver(f *frame.Frame) error
}

// Manager is the queue manager core. The zero value is not usable;
// construct one with New.
type Manager struct {
	mu sync.Mutex

	store          store.Store
	subScheduler   scheduler.SubscriberScheduler
	queueScheduler scheduler.QueueScheduler

	// registry is R: destination -> set of subscribed connections.
	registry map[string]map[Connection]struct{}

	// pending is P: connection -> the one frame awaiting its ACK.
	pending map[Connection]*frame.Frame

	// txFrames is T: connection -> transaction name -> frames ACKed
	// under that transaction, pending commit or abort.
	txFrames map[Connection]map[string][]*frame.Frame

	log            *logging.Entry
	metricsEnabled bool
}

// New builds a Manager backed by st. Without options it uses
// scheduler.FavorReliable and scheduler.Random, matching coilmq's
// defaults, with metrics enabled.
func New(st store.Store, opts ...Option) *Manager {
	m := &Manager{
		store:          st,
		subScheduler:   scheduler.FavorReliable{},
		queueScheduler: scheduler.Random{},
		registry:       make(map[string]map[Connection]struct{}),
		pending:        make(map[Connection]*frame.Frame),
		txFrames:       make(map[Connection]map[string][]*frame.Frame),
		log:            logging.For("qmgr"),
		metricsEnabled: true,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Subscribe registers c for destination (spec §4.2) and immediately
// attempts to drain any backlog onto it (spec §4.4).
func (m *Manager) Subscribe(c Connection, destination string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.subscribeLocked(c, destination)
}

func (m *Manager) subscribeLocked(c Connection, destination string) error {
	set, ok := m.registry[destination]
	if !ok {
		set = make(map[Connection]struct{})
		m.registry[destination] = set
	}
	set[c] = struct{}{}

	return m.sendBacklogLocked(c, destination)
}

// sendBacklogLocked implements spec §4.4's subscribe-time backlog
// drain. A reliable subscriber receives at most one frame (it must
// ACK before the next); an unreliable one receives the entire current
// backlog, since it can never appear in P to throttle it.
func (m *Manager) sendBacklogLocked(c Connection, destination string) error {
	if c.Reliable() {
		if _, busy := m.pending[c]; busy {
			// I2 already holds for this connection; a fresh
			// subscribe must not attempt a second delivery.
			return nil
		}
		f, err := m.store.Dequeue(destination)
		if err != nil {
			return store.NewError("dequeue", err)
		}
		if f != nil {
			return m.sendPathLocked(c, f)
		}
		return nil
	}

	ch, err := m.store.Frames(destination)
	if err != nil {
		return store.NewError("frames", err)
	}
	for f := range ch {
		if err := m.sendPathLocked(c, f); err != nil {
			return err
		}
	}
	return nil
}

// Unsubscribe removes c from destination's subscriber set (spec §4.3).
// Per the REDESIGN FLAG on unsubscribe-with-pending-frame: the frame
// in P (if any) is left exactly where it is — only a subsequent Ack or
// Disconnect resolves it.
func (m *Manager) Unsubscribe(c Connection, destination string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if set, ok := m.registry[destination]; ok {
		delete(set, c)
		if len(set) == 0 {
			delete(m.registry, destination)
		}
	}
}

// Send dispatches message (spec §4.5). If any subscriber on its
// destination is eligible (subscribed and not already awaiting an
// ACK), the scheduler picks one and the frame is delivered directly;
// otherwise it is persisted to the store.
func (m *Manager) Send(message *frame.Frame) error {
	if message.Destination() == "" {
		return ErrBadFrame
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sendLocked(message)
}

func (m *Manager) sendLocked(message *frame.Frame) error {
	message.Command = frame.MESSAGE
	if message.MessageID() == "" {
		message.Headers.Set(frame.MessageId, frame.NewID())
	}

	destination := message.Destination()
	eligible := m.eligibleLocked(destination)
	if len(eligible) == 0 {
		if err := m.store.Enqueue(destination, message); err != nil {
			return store.NewError("enqueue", err)
		}
		if m.metricsEnabled {
			metrics.FramesEnqueued.WithLabelValues(destination).Inc()
		}
		return nil
	}

	selected := m.chooseSubscriberLocked(eligible, message)
	return m.sendPathLocked(selected, message)
}

// eligibleLocked returns the subscribers to destination that are not
// currently holding a pending frame.
func (m *Manager) eligibleLocked(destination string) []Connection {
	set := m.registry[destination]
	if len(set) == 0 {
		return nil
	}
	out := make([]Connection, 0, len(set))
	for c := range set {
		if _, busy := m.pending[c]; !busy {
			out = append(out, c)
		}
	}
	return out
}

// chooseSubscriberLocked adapts the []Connection eligibility slice to
// the scheduler package's own minimal Connection interface — Go will
// not implicitly convert a []Connection to a []scheduler.Connection
// even though Connection structurally satisfies it, since slice types
// are not covariant. The reverse assertion is always safe here: every
// element placed in scs came from our own eligible slice, so the value
// the scheduler returns is always one of them.
func (m *Manager) chooseSubscriberLocked(eligible []Connection, msg *frame.Frame) Connection {
	scs := make([]scheduler.Connection, len(eligible))
	for i, c := range eligible {
		scs[i] = c
	}
	return m.subScheduler.Choose(scs, msg).(Connection)
}

// sendPathLocked implements spec §4.8, the single reliable send path
// used by both subscribe-time backlog drain and live dispatch. A
// reliable connection is recorded in P before delivery is attempted;
// a TransportError from Deliver is logged and otherwise swallowed —
// by contract the frame is considered delivered regardless.
func (m *Manager) sendPathLocked(c Connection, f *frame.Frame) error {
	if c.Reliable() {
		if _, busy := m.pending[c]; busy {
			return ErrInternalInvariant
		}
		m.pending[c] = f
		if m.metricsEnabled {
			metrics.PendingGauge.Set(float64(len(m.pending)))
		}
	}

	if m.metricsEnabled {
		metrics.FramesDelivered.WithLabelValues(f.Destination()).Inc()
	}

	if err := c.Deliver(f); err != nil {
		m.log.WithError(err).Warn("transport delivery failed; frame is still treated as delivered")
	}
	return nil
}

// Ack processes an ACK for f from c (spec §4.6). A mismatched
// message-id requeues the frame the manager actually had pending and
// is logged as a desync, not returned as an error — the client cannot
// act on it. An unknown (spurious) ACK is a silent no-op.
func (m *Manager) Ack(c Connection, f *frame.Frame, transaction string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	pending, ok := m.pending[c]
	if !ok {
		m.log.Debug("spurious ack ignored: connection has no pending frame")
		return nil
	}

	if pending.MessageID() != f.MessageID() {
		m.log.WithField("expected", pending.MessageID()).
			WithField("got", f.MessageID()).
			Warn("ack message-id mismatch; requeuing pending frame")
		if m.metricsEnabled {
			metrics.AckMismatches.Inc()
		}
		if err := m.store.Requeue(pending.Destination(), pending); err != nil {
			delete(m.pending, c)
			return store.NewError("requeue", err)
		}
	} else if m.metricsEnabled {
		metrics.FramesAcked.Inc()
	}

	if transaction != "" {
		if m.txFrames[c] == nil {
			m.txFrames[c] = make(map[string][]*frame.Frame)
		}
		m.txFrames[c][transaction] = append(m.txFrames[c][transaction], pending)
	}

	delete(m.pending, c)
	if m.metricsEnabled {
		metrics.PendingGauge.Set(float64(len(m.pending)))
	}

	return m.drainSubscriberBacklogLocked(c)
}

// drainSubscriberBacklogLocked implements spec §4.9: once a reliable
// subscriber's pending slot frees up, the queue scheduler picks one of
// its subscribed, backlogged destinations and the next frame is sent.
// A no-op if c has no subscriptions with backlog.
func (m *Manager) drainSubscriberBacklogLocked(c Connection) error {
	var candidates []string
	for destination, set := range m.registry {
		if _, ok := set[c]; !ok {
			continue
		}
		if m.store.HasFrames(destination) {
			candidates = append(candidates, destination)
		}
	}
	if len(candidates) == 0 {
		return nil
	}

	var sc scheduler.Connection = c
	destination, ok := m.queueScheduler.Choose(candidates, sc)
	if !ok {
		return nil
	}

	f, err := m.store.Dequeue(destination)
	if err != nil {
		return store.NewError("dequeue", err)
	}
	if f == nil {
		return nil
	}
	return m.sendPathLocked(c, f)
}

// ResendTransactionFrames re-dispatches every frame ACKed under
// transaction by c (spec §4.7), typically called on transaction
// abort. Each frame re-enters dispatch from scratch via the same
// sendLocked helper Send uses, and may land on a different
// subscriber. This is the recursive call coilmq's RLock allowed
// directly; here it is legal only because it calls the already-locked
// helper instead of re-entering Send itself.
func (m *Manager) ResendTransactionFrames(c Connection, transaction string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, f := range m.txFrames[c][transaction] {
		if err := m.sendLocked(f); err != nil {
			return err
		}
	}
	return nil
}

// ClearTransactionFrames discards the frames ACKed by c under
// transaction (spec §4.7, typically called on commit). Per the
// REDESIGN FLAG on NoSuchTransaction: clearing an unknown transaction
// is a silent no-op, matching coilmq's defaultdict-backed buffer
// rather than surfacing an error a caller can rarely act on.
func (m *Manager) ClearTransactionFrames(c Connection, transaction string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if txs, ok := m.txFrames[c]; ok {
		delete(txs, transaction)
		if len(txs) == 0 {
			delete(m.txFrames, c)
		}
	}
}

// Disconnect tears down all state held for c (spec §4.10): its
// pending frame, if any, is requeued to the store; it is removed from
// every destination's subscriber set; and its transaction buffer is
// dropped, per spec §9's resolved open question — in-flight
// transactional ACKs are lost on disconnect, matching coilmq's
// in-memory-only transaction store.
func (m *Manager) Disconnect(c Connection) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var reqErr error
	if f, ok := m.pending[c]; ok {
		if err := m.store.Requeue(f.Destination(), f); err != nil {
			reqErr = store.NewError("requeue", err)
		}
		delete(m.pending, c)
		if m.metricsEnabled {
			metrics.PendingGauge.Set(float64(len(m.pending)))
		}
	}

	for destination, set := range m.registry {
		if _, ok := set[c]; ok {
			delete(set, c)
			if len(set) == 0 {
				delete(m.registry, destination)
			}
		}
	}

	delete(m.txFrames, c)

	return reqErr
}
