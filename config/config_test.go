package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(nil)
	require.NoError(t, err)
	require.Equal(t, ":61613", cfg.ListenAddr)
	require.Equal(t, "memory", cfg.StoreBackend)
	require.Equal(t, "favor-reliable", cfg.SubscriberScheduler)
	require.True(t, cfg.MetricsEnabled)
}

func TestLoadFlagOverride(t *testing.T) {
	cfg, err := Load([]string{"--listen-addr=:12345", "--queue-scheduler=random", "--write-buffer-size=32"})
	require.NoError(t, err)
	require.Equal(t, ":12345", cfg.ListenAddr)
	require.Equal(t, "random", cfg.QueueScheduler)
	require.Equal(t, 32, cfg.WriteBufferSize)
}
