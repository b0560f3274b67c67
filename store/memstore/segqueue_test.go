package memstore

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pe2mbs/coilmq/frame"
)

func TestSegQueueBasic(t *testing.T) {
	q := newSegQueue[frame.Frame](5)
	require.NotNil(t, q)

	v := q.dequeue()
	require.Nil(t, v)
	require.Zero(t, q.head)
	require.Zero(t, q.tail)

	one := frame.New(frame.SEND)
	q.enqueue(one)
	require.EqualValues(t, 1, q.tail)
	require.EqualValues(t, 1, q.len())

	v = q.dequeue()
	require.NotNil(t, v)
	require.Zero(t, q.len())
	require.Zero(t, q.tail)
	require.Same(t, one, v)

	v = q.dequeue()
	require.Nil(t, v)
}

func TestSegQueueNewSegment(t *testing.T) {
	const size = 5
	q := newSegQueue[frame.Frame](size)

	frames := make([]*frame.Frame, 0, size+1)
	for i := 0; i < size+1; i++ {
		f := frame.New(frame.SEND)
		frames = append(frames, f)
		q.enqueue(f)
	}

	require.NotNil(t, q.next)
	require.EqualValues(t, size+1, q.len())

	for i := 0; i < size+1; i++ {
		v := q.dequeue()
		require.Same(t, frames[i], v)
	}
	require.Zero(t, q.len())
}
