package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClientPings(t *testing.T) {
	mr := miniredis.RunT(t)
	require.NoError(t, mr.Set("k", "v"))

	client, err := NewClient(context.Background(), Options{Addr: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	got, err := client.Get(context.Background(), "k").Result()
	require.NoError(t, err)
	assert.Equal(t, "v", got)
}

func TestNewClientRejectsBadOptions(t *testing.T) {
	ctx := context.Background()

	_, err := NewClient(ctx, Options{Addr: "  "})
	assert.ErrorContains(t, err, "addr is empty")

	_, err = NewClient(ctx, Options{Addr: "localhost:6379", DB: -1})
	assert.ErrorContains(t, err, "db index")

	_, err = NewClient(ctx, Options{Addr: "localhost:6379", PoolSize: -2})
	assert.ErrorContains(t, err, "pool size")
}

func TestNewClientFailsWhenUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := NewClient(context.Background(), Options{Addr: addr, DialTimeout: 200 * time.Millisecond})
	assert.ErrorContains(t, err, "redis: ping")
}
