package hub

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type chanSource struct {
	mu      sync.Mutex
	feeds   map[uint64]chan []byte
	stopped map[uint64]bool
}

func newChanSource() *chanSource {
	return &chanSource{feeds: map[uint64]chan []byte{}, stopped: map[uint64]bool{}}
}

func (s *chanSource) Subscribe(_ context.Context, roomID uint64) (<-chan []byte, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch := make(chan []byte, 4)
	s.feeds[roomID] = ch
	return ch, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if !s.stopped[roomID] {
			s.stopped[roomID] = true
			close(ch)
		}
	}
}

func (s *chanSource) feed(roomID uint64) chan []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.feeds[roomID]
}

func (s *chanSource) isStopped(roomID uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stopped[roomID]
}

func TestRoomMessagesReachWatchers(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	src := newChanSource()
	h := NewHub(src)
	h.Run(ctx)

	a, b, other := NewClient(3), NewClient(3), NewClient(4)
	h.RegisterClient(a)
	h.RegisterClient(b)
	h.RegisterClient(other)
	require.Equal(t, 2, h.RoomClientCount(3))

	src.feed(3) <- []byte(`{"type":"room_settled"}`)
	for _, c := range []*Client{a, b} {
		select {
		case msg := <-c.Send:
			require.JSONEq(t, `{"type":"room_settled"}`, string(msg))
		case <-time.After(time.Second):
			t.Fatal("message not delivered")
		}
	}
	require.Empty(t, other.Send)
}

func TestLastClientLeavingStopsSubscription(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	src := newChanSource()
	h := NewHub(src)
	h.Run(ctx)

	a, b := NewClient(1), NewClient(1)
	h.RegisterClient(a)
	h.RegisterClient(b)

	h.UnregisterClient(a)
	h.UnregisterClient(a)
	_, open := <-a.Send
	require.False(t, open)
	require.False(t, src.isStopped(1))

	h.UnregisterClient(b)
	require.Eventually(t, func() bool { return src.isStopped(1) }, time.Second, 10*time.Millisecond)
	require.Zero(t, h.RoomClientCount(1))
}

func TestClientsLeavingAfterShutdownDoNotBlock(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	src := newChanSource()
	h := NewHub(src)
	h.Run(ctx)

	c := NewClient(7)
	h.RegisterClient(c)
	cancel()

	var lateOpen bool
	done := make(chan struct{})
	go func() {
		h.UnregisterClient(c)
		late := NewClient(7)
		h.RegisterClient(late)
		_, lateOpen = <-late.Send
		h.UnregisterClient(late)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("client calls blocked after hub shutdown")
	}

	require.False(t, lateOpen)
	_, open := <-c.Send
	require.False(t, open)
	require.Zero(t, h.RoomClientCount(7))
	require.True(t, src.isStopped(7))
}
