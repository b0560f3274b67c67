package qmgr

import (
	"github.com/pe2mbs/coilmq/internal/logging"
	"github.com/pe2mbs/coilmq/scheduler"
)

// Option configures a Manager at construction time.
type Option func(*Manager)

// WithSubscriberScheduler overrides the default subscriber scheduler
// (scheduler.FavorReliable) used to pick among eligible subscribers at
// send time (spec §3, component C1).
func WithSubscriberScheduler(s scheduler.SubscriberScheduler) Option {
	return func(m *Manager) {
		m.subScheduler = s
	}
}

// WithQueueScheduler overrides the default queue scheduler
// (scheduler.Random) used to pick which backlogged destination a newly
// free subscriber drains next (spec §3, component C2).
func WithQueueScheduler(s scheduler.QueueScheduler) Option {
	return func(m *Manager) {
		m.queueScheduler = s
	}
}

// WithLogger overrides the component logger, e.g. to attach extra
// fields for a particular broker instance.
func WithLogger(log *logging.Entry) Option {
	return func(m *Manager) {
		m.log = log
	}
}

// WithMetrics toggles Prometheus instrumentation. Enabled by default.
// The collectors are registered once, at package level, and shared by
// every Manager; disabling only stops this Manager from updating them.
func WithMetrics(enabled bool) Option {
	return func(m *Manager) {
		m.metricsEnabled = enabled
	}
}
