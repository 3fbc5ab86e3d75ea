package live

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"bclub/backend/services/counter-service/internal/service"
)

type countingSource struct {
	calls atomic.Int64
}

func (s *countingSource) LiveSnapshot(context.Context) (*service.LiveSnapshot, error) {
	n := s.calls.Add(1)
	return &service.LiveSnapshot{ActiveCount: int(n), Tables: []service.LiveTable{}}, nil
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readSnapshot(t *testing.T, conn *websocket.Conn) service.LiveSnapshot {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	var snap service.LiveSnapshot
	require.NoError(t, json.Unmarshal(data, &snap))
	return snap
}

func TestSubscriberGetsSnapshotOnConnectAndBroadcasts(t *testing.T) {
	source := &countingSource{}
	hub := NewHub(source, 20*time.Millisecond, zap.NewNop())
	srv := httptest.NewServer(NewHandler(hub, time.Second, zap.NewNop()))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	conn := dial(t, srv)
	first := readSnapshot(t, conn)
	assert.Equal(t, 1, first.ActiveCount)
	assert.Eventually(t, func() bool { return hub.Count() == 1 }, time.Second, 5*time.Millisecond)

	go hub.Run(ctx)
	next := readSnapshot(t, conn)
	assert.Greater(t, next.ActiveCount, 1)
}

func TestHubForgetsClosedSubscribers(t *testing.T) {
	hub := NewHub(&countingSource{}, time.Hour, zap.NewNop())
	srv := httptest.NewServer(NewHandler(hub, time.Second, zap.NewNop()))
	defer srv.Close()

	conn := dial(t, srv)
	readSnapshot(t, conn)
	require.Eventually(t, func() bool { return hub.Count() == 1 }, time.Second, 5*time.Millisecond)

	require.NoError(t, conn.Close())
	assert.Eventually(t, func() bool { return hub.Count() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestRunDisconnectsOnShutdown(t *testing.T) {
	hub := NewHub(&countingSource{}, time.Hour, zap.NewNop())
	srv := httptest.NewServer(NewHandler(hub, time.Second, zap.NewNop()))
	defer srv.Close()

	conn := dial(t, srv)
	readSnapshot(t, conn)
	require.Eventually(t, func() bool { return hub.Count() == 1 }, time.Second, 5*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(done)
	}()
	cancel()
	<-done

	assert.Equal(t, 0, hub.Count())
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err := conn.ReadMessage()
	assert.Error(t, err)
}

func TestSendReportsFullBuffer(t *testing.T) {
	sub := NewSubscriber("slow", nil, time.Second, zap.NewNop(), nil)
	for i := 0; i < sendBuffer; i++ {
		require.True(t, sub.Send([]byte("x")))
	}
	assert.False(t, sub.Send([]byte("x")))
}
