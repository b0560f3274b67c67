package conn

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pe2mbs/coilmq/frame"
)

func TestNewAssignsUniqueIDs(t *testing.T) {
	a := New(true, 0)
	b := New(false, 0)
	require.NotEqual(t, a.ID(), b.ID())
	require.True(t, a.Reliable())
	require.False(t, b.Reliable())
}

func TestDeliverAndDrain(t *testing.T) {
	c := New(true, 2)
	f := frame.New(frame.MESSAGE)

	require.NoError(t, c.Deliver(f))

	got := <-c.Out()
	require.Same(t, f, got)
}

func TestDeliverBackpressure(t *testing.T) {
	c := New(true, 1)
	require.NoError(t, c.Deliver(frame.New(frame.MESSAGE)))
	err := c.Deliver(frame.New(frame.MESSAGE))
	require.ErrorIs(t, err, ErrBackpressure)
}

func TestDeliverAfterCloseFails(t *testing.T) {
	c := New(true, 1)
	c.Close()
	err := c.Deliver(frame.New(frame.MESSAGE))
	require.ErrorIs(t, err, ErrClosed)

	// Close is idempotent.
	require.NotPanics(t, c.Close)
}
