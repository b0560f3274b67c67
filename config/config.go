// Package config loads the broker-wide settings cmd/coilmqd wires into
// a qmgr.Manager. It is grounded on the teacher's client.Config
// interface (consulted by server/client.Conn for heart-beat and auth
// settings), generalized here from a single connection's view to a
// whole process's, and loaded the idiomatic Go way: viper for
// layered config (defaults, file, environment) with pflag registering
// the command-line overrides viper reads from.
package config

import (
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds every broker-wide tunable. Zero value is not meaningful;
// use Load.
type Config struct {
	// ListenAddr is where a transport (out of scope here) would
	// accept client connections.
	ListenAddr string

	// StoreBackend selects the Queue Store implementation. Only
	// "memory" is implemented by this module.
	StoreBackend string

	// SubscriberScheduler selects component C1's policy:
	// "favor-reliable" (default) or "random".
	SubscriberScheduler string

	// QueueScheduler selects component C2's policy: "random" (default).
	QueueScheduler string

	// WriteBufferSize is the per-connection delivery buffer depth,
	// generalized from the teacher's maxPendingWrites constant.
	WriteBufferSize int

	// LogLevel is any level name logrus.ParseLevel accepts.
	LogLevel string

	// MetricsEnabled toggles Prometheus instrumentation.
	MetricsEnabled bool
}

func defaults() Config {
	return Config{
		ListenAddr:          ":61613",
		StoreBackend:        "memory",
		SubscriberScheduler: "favor-reliable",
		QueueScheduler:      "random",
		WriteBufferSize:     16,
		LogLevel:            "info",
		MetricsEnabled:      true,
	}
}

// Load builds a Config from, in increasing priority: built-in
// defaults, a config file (if present), environment variables
// prefixed COILMQ_, and command-line flags parsed from args.
func Load(args []string) (Config, error) {
	d := defaults()

	v := viper.New()
	v.SetConfigName("coilmqd")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/coilmq")
	v.SetEnvPrefix("coilmq")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("listen-addr", d.ListenAddr)
	v.SetDefault("store-backend", d.StoreBackend)
	v.SetDefault("subscriber-scheduler", d.SubscriberScheduler)
	v.SetDefault("queue-scheduler", d.QueueScheduler)
	v.SetDefault("write-buffer-size", d.WriteBufferSize)
	v.SetDefault("log-level", d.LogLevel)
	v.SetDefault("metrics-enabled", d.MetricsEnabled)

	fs := pflag.NewFlagSet("coilmqd", pflag.ContinueOnError)
	fs.String("listen-addr", d.ListenAddr, "address to accept STOMP connections on")
	fs.String("store-backend", d.StoreBackend, "queue store backend (memory)")
	fs.String("subscriber-scheduler", d.SubscriberScheduler, "subscriber scheduler (favor-reliable, random)")
	fs.String("queue-scheduler", d.QueueScheduler, "queue scheduler (random)")
	fs.Int("write-buffer-size", d.WriteBufferSize, "per-connection delivery buffer depth")
	fs.String("log-level", d.LogLevel, "log level (debug, info, warn, error)")
	fs.Bool("metrics-enabled", d.MetricsEnabled, "expose Prometheus metrics")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	if err := v.BindPFlags(fs); err != nil {
		return Config{}, err
	}

	if err := v.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			return Config{}, err
		}
	}

	return Config{
		ListenAddr:          v.GetString("listen-addr"),
		StoreBackend:        v.GetString("store-backend"),
		SubscriberScheduler: v.GetString("subscriber-scheduler"),
		QueueScheduler:      v.GetString("queue-scheduler"),
		WriteBufferSize:     v.GetInt("write-buffer-size"),
		LogLevel:            v.GetString("log-level"),
		MetricsEnabled:      v.GetBool("metrics-enabled"),
	}, nil
}
