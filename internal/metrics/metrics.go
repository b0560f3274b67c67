// Package metrics exposes the dispatch-activity counters the queue
// manager updates as it moves frames around. Registration follows the
// keda metrics-collector pattern of package-level collectors
// registered once via promauto/prometheus.MustRegister and updated
// from plain call sites, rather than threading a registry handle
// through every component.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// FramesEnqueued counts frames handed to the store because no
	// eligible subscriber was available at send time.
	FramesEnqueued = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "coilmq",
		Subsystem: "qmgr",
		Name:      "frames_enqueued_total",
		Help:      "Frames enqueued to the store because no subscriber was eligible.",
	}, []string{"destination"})

	// FramesDelivered counts frames handed to a connection's Deliver,
	// reliable or not.
	FramesDelivered = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "coilmq",
		Subsystem: "qmgr",
		Name:      "frames_delivered_total",
		Help:      "Frames handed to a subscriber connection for delivery.",
	}, []string{"destination"})

	// FramesAcked counts non-spurious ACKs processed.
	FramesAcked = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "coilmq",
		Subsystem: "qmgr",
		Name:      "frames_acked_total",
		Help:      "ACKs matched against a pending frame.",
	})

	// AckMismatches counts ACKs whose message-id did not match the
	// connection's pending frame.
	AckMismatches = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "coilmq",
		Subsystem: "qmgr",
		Name:      "ack_mismatches_total",
		Help:      "ACKs whose message-id did not match the pending frame.",
	})

	// PendingGauge tracks the current size of the pending-ACK table.
	PendingGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "coilmq",
		Subsystem: "qmgr",
		Name:      "pending_frames",
		Help:      "Current count of reliable subscribers awaiting ACK.",
	})
)
