// Package scheduler provides the two pure, stateless choice functions
// the queue manager delegates to: which subscriber receives a given
// message (C1), and which backlogged destination a freed-up reliable
// subscriber drains next (C2).
//
// Both reference policies are ported from coilmq's
// FavorReliableSubscriberScheduler and RandomQueueScheduler. They are
// pure functions of their inputs and safe to share between queue
// managers, per spec §5 ("Schedulers must be pure/thread-safe").
package scheduler

import (
	"math/rand/v2"

	"github.com/pe2mbs/coilmq/frame"
)

// Connection is the minimal view of a subscriber a scheduler needs:
// whether it is a reliable (ACK-requiring) subscriber. It mirrors
// qmgr.Connection without importing that package, keeping scheduler
// dependency-free of the manager it serves.
type Connection interface {
	Reliable() bool
}

// SubscriberScheduler picks one connection out of a non-empty set of
// candidates for the given message. Implementations must not mutate
// subs and must be deterministic given their own internal state.
type SubscriberScheduler interface {
	Choose(subs []Connection, msg *frame.Frame) Connection
}

// QueueScheduler picks one destination out of a non-empty set of
// destinations known to have backlog for a single connection.
type QueueScheduler interface {
	Choose(dests []string, c Connection) (string, bool)
}

// FavorReliable is the reference SubscriberScheduler: it partitions
// candidates into reliable and non-reliable, and picks uniformly at
// random among the reliable ones if any exist, else uniformly at
// random among the rest. This biases delivery toward acknowledgeable
// subscribers so messages accumulate ACK feedback rather than being
// fired-and-forgotten.
type FavorReliable struct{}

// Choose implements SubscriberScheduler.
func (FavorReliable) Choose(subs []Connection, _ *frame.Frame) Connection {
	if len(subs) == 0 {
		return nil
	}

	var reliable []Connection
	var unreliable []Connection
	for _, c := range subs {
		if c.Reliable() {
			reliable = append(reliable, c)
		} else {
			unreliable = append(unreliable, c)
		}
	}

	if len(reliable) > 0 {
		return reliable[rand.IntN(len(reliable))]
	}
	return unreliable[rand.IntN(len(unreliable))]
}

// Random is the reference QueueScheduler: it picks a destination
// uniformly at random from the candidate set. Fairness at this level
// is explicitly only probabilistic; a production implementation may
// layer priority on top.
type Random struct{}

// Choose implements QueueScheduler.
func (Random) Choose(dests []string, _ Connection) (string, bool) {
	if len(dests) == 0 {
		return "", false
	}
	return dests[rand.IntN(len(dests))], true
}
