package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventCache_SeenAfterMark(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	cache := NewEventCache(client)
	ctx := context.Background()

	seen, err := cache.Seen(ctx, "stripe", "evt_1")
	require.NoError(t, err)
	assert.False(t, seen)

	require.NoError(t, cache.MarkSeen(ctx, "stripe", "evt_1", time.Hour))

	seen, err = cache.Seen(ctx, "stripe", "evt_1")
	require.NoError(t, err)
	assert.True(t, seen)

	// Same event id under another provider is a distinct key.
	seen, err = cache.Seen(ctx, "adyen", "evt_1")
	require.NoError(t, err)
	assert.False(t, seen)
}

func TestEventCache_TTLExpiry(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	cache := NewEventCache(client)
	ctx := context.Background()

	require.NoError(t, cache.MarkSeen(ctx, "stripe", "evt_ttl", time.Second))
	s.FastForward(2 * time.Second)

	seen, err := cache.Seen(ctx, "stripe", "evt_ttl")
	require.NoError(t, err)
	assert.False(t, seen)
}

func TestHealthCheck_Ping(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	hc := NewHealthCheck(client)

	require.NoError(t, hc.Ping(context.Background()))
	assert.Equal(t, "redis", hc.Name())
}
