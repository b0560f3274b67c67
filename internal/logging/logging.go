// Package logging provides the structured logger shared by the queue
// manager and its reference collaborators. The original coilmq core
// logs via Python's stdlib logging module at module scope
// ("%s.%s" % (__name__, self.__class__.__name__)); this is the
// idiomatic Go equivalent using a per-component logrus entry.
package logging

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Entry is a log line in progress, scoped to a component via For.
type Entry = logrus.Entry

// base is the process-wide root logger. Components should call For
// rather than use this directly, so every log line is tagged with its
// originating component.
var base = newBase()

func newBase() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return l
}

// SetLevel adjusts the verbosity of the root logger. Accepts any
// level name logrus.ParseLevel understands ("debug", "info", "warn",
// "error", ...); unrecognized names are silently ignored, matching
// the lenient spirit of the teacher's config-driven heartbeat/version
// parsing (invalid input falls back to a safe default rather than
// panicking at startup).
func SetLevel(name string) {
	if name == "" {
		return
	}
	lvl, err := logrus.ParseLevel(name)
	if err != nil {
		return
	}
	base.SetLevel(lvl)
}

// For returns a logger scoped to the named component, e.g.
// logging.For("qmgr") or logging.For("store.memstore").
func For(component string) *logrus.Entry {
	return base.WithField("component", component)
}
