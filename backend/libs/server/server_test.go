package server

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestOptionsDefaults(t *testing.T) {
	o := Options{}.withDefaults()
	assert.Equal(t, 15*time.Second, o.WriteTimeout)
	assert.Equal(t, 10*time.Second, o.ShutdownTimeout)

	o = Options{WriteTimeout: -1}.withDefaults()
	assert.Equal(t, time.Duration(0), o.WriteTimeout)

	o = Options{ReadTimeout: time.Second}.withDefaults()
	assert.Equal(t, time.Second, o.ReadTimeout)
}

func TestRunStopsOnCancel(t *testing.T) {
	s := New("127.0.0.1:0", http.NotFoundHandler(), zap.NewNop(), Options{})
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestRunReportsListenError(t *testing.T) {
	s := New("127.0.0.1:-1", http.NotFoundHandler(), zap.NewNop(), Options{})
	err := s.Run(context.Background())
	assert.Error(t, err)
}
