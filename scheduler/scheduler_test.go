package scheduler

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pe2mbs/coilmq/frame"
)

type stubConn struct{ reliable bool }

func (c stubConn) Reliable() bool { return c.reliable }

func TestFavorReliablePrefersReliableSubscribers(t *testing.T) {
	subs := []Connection{stubConn{reliable: false}, stubConn{reliable: true}}

	s := FavorReliable{}
	for i := 0; i < 20; i++ {
		chosen := s.Choose(subs, frame.New(frame.MESSAGE))
		require.True(t, chosen.Reliable())
	}
}

func TestFavorReliableFallsBackWhenNoneReliable(t *testing.T) {
	subs := []Connection{stubConn{reliable: false}, stubConn{reliable: false}}

	s := FavorReliable{}
	chosen := s.Choose(subs, frame.New(frame.MESSAGE))
	require.False(t, chosen.Reliable())
}

func TestFavorReliableEmptyReturnsNil(t *testing.T) {
	s := FavorReliable{}
	require.Nil(t, s.Choose(nil, frame.New(frame.MESSAGE)))
}

func TestRandomChoosesAmongCandidates(t *testing.T) {
	dests := []string{"/q/a", "/q/b", "/q/c"}
	s := Random{}

	for i := 0; i < 20; i++ {
		dest, ok := s.Choose(dests, stubConn{})
		require.True(t, ok)
		require.Contains(t, dests, dest)
	}
}

func TestRandomEmptyReturnsFalse(t *testing.T) {
	s := Random{}
	_, ok := s.Choose(nil, stubConn{})
	require.False(t, ok)
}
