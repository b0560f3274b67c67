// Command coilmqd wires the queue manager core up to a concrete store
// and the ambient stack (config, logging, metrics) so the pieces have
// a real call site. It stops short of a TCP accept loop and wire
// codec — parsing the STOMP frame format over the network is out of
// scope for this module (spec §1's non-goals). It builds the store and
// the manager and logs readiness; no connection is created and nothing
// drives the manager in this build.
package main

import (
	"fmt"
	"math/rand/v2"
	"os"

	"github.com/pe2mbs/coilmq/config"
	"github.com/pe2mbs/coilmq/frame"
	"github.com/pe2mbs/coilmq/internal/logging"
	"github.com/pe2mbs/coilmq/qmgr"
	"github.com/pe2mbs/coilmq/scheduler"
	"github.com/pe2mbs/coilmq/store"
	"github.com/pe2mbs/coilmq/store/memstore"
)

var log = logging.For("cmd.coilmqd")

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, "coilmqd:", err)
		os.Exit(1)
	}
	logging.SetLevel(cfg.LogLevel)

	st, err := newStore(cfg.StoreBackend)
	if err != nil {
		log.WithError(err).Fatal("unsupported store backend")
	}

	mgr := qmgr.New(st,
		qmgr.WithSubscriberScheduler(newSubscriberScheduler(cfg.SubscriberScheduler)),
		qmgr.WithQueueScheduler(newQueueScheduler(cfg.QueueScheduler)),
		qmgr.WithMetrics(cfg.MetricsEnabled),
	)

	log.WithField("listen_addr", cfg.ListenAddr).
		WithField("store_backend", cfg.StoreBackend).
		Info("queue manager ready; no transport wired in this build")

	_ = mgr
}

func newStore(backend string) (store.Store, error) {
	switch backend {
	case "memory", "":
		return memstore.New(), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", backend)
	}
}

func newSubscriberScheduler(name string) scheduler.SubscriberScheduler {
	switch name {
	case "random":
		return randomSubscriberScheduler{}
	default:
		return scheduler.FavorReliable{}
	}
}

func newQueueScheduler(name string) scheduler.QueueScheduler {
	switch name {
	default:
		return scheduler.Random{}
	}
}

// randomSubscriberScheduler ignores reliability and picks uniformly,
// offered as the config-selectable alternative to FavorReliable.
type randomSubscriberScheduler struct{}

func (randomSubscriberScheduler) Choose(subs []scheduler.Connection, _ *frame.Frame) scheduler.Connection {
	if len(subs) == 0 {
		return nil
	}
	return subs[rand.IntN(len(subs))]
}
