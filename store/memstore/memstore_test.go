package memstore

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pe2mbs/coilmq/frame"
)

func TestEnqueueDequeueOrder(t *testing.T) {
	s := New()
	require.False(t, s.HasFrames("/queue/a"))

	m1 := frame.New(frame.MESSAGE)
	m1.Headers.Set(frame.MessageId, "m1")
	m2 := frame.New(frame.MESSAGE)
	m2.Headers.Set(frame.MessageId, "m2")

	require.NoError(t, s.Enqueue("/queue/a", m1))
	require.NoError(t, s.Enqueue("/queue/a", m2))
	require.True(t, s.HasFrames("/queue/a"))

	got, err := s.Dequeue("/queue/a")
	require.NoError(t, err)
	require.Equal(t, "m1", got.MessageID())

	got, err = s.Dequeue("/queue/a")
	require.NoError(t, err)
	require.Equal(t, "m2", got.MessageID())

	require.False(t, s.HasFrames("/queue/a"))
	got, err = s.Dequeue("/queue/a")
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestRequeueGoesToHead(t *testing.T) {
	s := New()

	m1 := frame.New(frame.MESSAGE)
	m1.Headers.Set(frame.MessageId, "m1")
	m2 := frame.New(frame.MESSAGE)
	m2.Headers.Set(frame.MessageId, "m2")

	require.NoError(t, s.Enqueue("/queue/a", m2))
	require.NoError(t, s.Requeue("/queue/a", m1))

	got, _ := s.Dequeue("/queue/a")
	require.Equal(t, "m1", got.MessageID())
	got, _ = s.Dequeue("/queue/a")
	require.Equal(t, "m2", got.MessageID())
}

func TestFramesDrainsAndRemoves(t *testing.T) {
	s := New()
	for _, id := range []string{"m1", "m2", "m3"} {
		f := frame.New(frame.MESSAGE)
		f.Headers.Set(frame.MessageId, id)
		require.NoError(t, s.Enqueue("/queue/a", f))
	}

	ch, err := s.Frames("/queue/a")
	require.NoError(t, err)

	var got []string
	for f := range ch {
		got = append(got, f.MessageID())
	}
	require.Equal(t, []string{"m1", "m2", "m3"}, got)

	require.False(t, s.HasFrames("/queue/a"))
	next, err := s.Dequeue("/queue/a")
	require.NoError(t, err)
	require.Nil(t, next)
}

func TestFramesOnEmptyDestinationClosesImmediately(t *testing.T) {
	s := New()
	ch, err := s.Frames("/queue/nope")
	require.NoError(t, err)
	_, ok := <-ch
	require.False(t, ok)
}
