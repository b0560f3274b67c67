package frame

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewHasEmptyHeaders(t *testing.T) {
	f := New(SEND)
	require.Equal(t, SEND, f.Command)
	require.NotNil(t, f.Headers)
	require.Empty(t, f.Headers)
}

func TestHeadersContainsSetRemove(t *testing.T) {
	f := New(SEND)
	_, ok := f.Headers.Contains(Destination)
	require.False(t, ok)

	f.Headers.Set(Destination, "/queue/a")
	v, ok := f.Headers.Contains(Destination)
	require.True(t, ok)
	require.Equal(t, "/queue/a", v)
	require.Equal(t, "/queue/a", f.Destination())

	f.Headers.Remove(Destination)
	_, ok = f.Headers.Contains(Destination)
	require.False(t, ok)
}

func TestNewIDIsUniqueAndNonEmpty(t *testing.T) {
	a := NewID()
	b := NewID()
	require.NotEmpty(t, a)
	require.NotEmpty(t, b)
	require.NotEqual(t, a, b)
}

func TestCloneIsIndependent(t *testing.T) {
	f := New(SEND)
	f.Headers.Set(Destination, "/queue/a")
	f.Headers.Set(MessageId, "m1")

	cp := f.Clone()
	cp.Headers.Set(Destination, "/queue/b")

	require.Equal(t, "/queue/a", f.Destination())
	require.Equal(t, "/queue/b", cp.Destination())
	require.Equal(t, "m1", cp.MessageID())
}
