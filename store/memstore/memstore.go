// Package memstore is the reference, in-memory Store implementation.
// It is not durable — a process restart loses all backlog — but it
// gives the queue manager a real, runnable collaborator to exercise
// end-to-end, and its enqueue/dequeue path is grounded on the
// segmented-slice FIFO used by go-amqp's internal queue package.
package memstore

import (
	"sync"

	"github.com/pe2mbs/coilmq/frame"
)

// defaultSegmentSize is the per-segment capacity of each destination's
// backlog queue. Chosen to keep typical backlogs in a single segment
// without over-allocating for destinations that never see backlog.
const defaultSegmentSize = 64

// destQueue is one destination's backlog: a small head-side overflow
// slice for requeued frames (which need head-of-line re-delivery) in
// front of the segmented main queue fed by ordinary Enqueue calls.
type destQueue struct {
	head []*frame.Frame
	main *segQueue[frame.Frame]
}

func newDestQueue() *destQueue {
	return &destQueue{main: newSegQueue[frame.Frame](defaultSegmentSize)}
}

func (d *destQueue) len() int {
	return len(d.head) + d.main.len()
}

func (d *destQueue) dequeue() *frame.Frame {
	if len(d.head) > 0 {
		f := d.head[0]
		d.head = d.head[1:]
		return f
	}
	return d.main.dequeue()
}

// requeue places f immediately ahead of anything else waiting,
// including previously-requeued frames, since the most recently
// desynchronized message is the one the engine is most likely to be
// retrying.
func (d *destQueue) requeue(f *frame.Frame) {
	d.head = append([]*frame.Frame{f}, d.head...)
}

// Store is the in-memory reference Store.
type Store struct {
	mu   sync.Mutex
	dest map[string]*destQueue
}

// New creates an empty in-memory Store.
func New() *Store {
	return &Store{dest: make(map[string]*destQueue)}
}

func (s *Store) queueFor(destination string) *destQueue {
	q, ok := s.dest[destination]
	if !ok {
		q = newDestQueue()
		s.dest[destination] = q
	}
	return q
}

// Enqueue implements store.Store.
func (s *Store) Enqueue(destination string, f *frame.Frame) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queueFor(destination).main.enqueue(f)
	return nil
}

// Dequeue implements store.Store.
func (s *Store) Dequeue(destination string) (*frame.Frame, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	q, ok := s.dest[destination]
	if !ok {
		return nil, nil
	}
	f := q.dequeue()
	if q.len() == 0 {
		delete(s.dest, destination)
	}
	return f, nil
}

// HasFrames implements store.Store.
func (s *Store) HasFrames(destination string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	q, ok := s.dest[destination]
	return ok && q.len() > 0
}

// Frames implements store.Store. The backlog present at call time is
// drained under the store's lock and streamed back on a pre-filled,
// already-closed channel — each frame is removed from the store
// before the caller can observe it on the channel, matching the
// "removed as yielded" contract without needing a background
// goroutine for what is, in this backend, a non-blocking producer.
func (s *Store) Frames(destination string) (<-chan *frame.Frame, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	q, ok := s.dest[destination]
	if !ok {
		ch := make(chan *frame.Frame)
		close(ch)
		return ch, nil
	}

	n := q.len()
	ch := make(chan *frame.Frame, n)
	for i := 0; i < n; i++ {
		ch <- q.dequeue()
	}
	close(ch)
	delete(s.dest, destination)
	return ch, nil
}

// Requeue implements store.Store. f is cloned before it is retained:
// the caller handed this frame to a subscriber's Deliver moments ago
// and may still hold or mutate it, so the copy sitting in the backlog
// must be independent.
func (s *Store) Requeue(destination string, f *frame.Frame) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queueFor(destination).requeue(f.Clone())
	return nil
}
