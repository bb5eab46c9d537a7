package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestMemoryCache(maxKeys int) Cache {
	cfg := DefaultConfig()
	cfg.MaxKeys = maxKeys
	return NewMemoryCache(cfg, zap.NewNop())
}

func TestMemoryCache_SetGet(t *testing.T) {
	c := newTestMemoryCache(10)
	defer c.Close()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "handle:alice", "u-1", time.Minute))

	value, ok := c.Get(ctx, "handle:alice")
	assert.True(t, ok)
	assert.Equal(t, "u-1", value)

	_, ok = c.Get(ctx, "handle:bob")
	assert.False(t, ok)

	stats, err := c.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
	assert.InDelta(t, 0.5, stats.HitRatio, 0.001)
}

func TestMemoryCache_Expiry(t *testing.T) {
	c := newTestMemoryCache(10)
	defer c.Close()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", "v", 10*time.Millisecond))
	time.Sleep(25 * time.Millisecond)

	_, ok := c.Get(ctx, "k")
	assert.False(t, ok)
}

func TestMemoryCache_EvictsLeastRecentlyUsed(t *testing.T) {
	c := newTestMemoryCache(2)
	defer c.Close()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "a", "1", time.Minute))
	time.Sleep(2 * time.Millisecond)
	require.NoError(t, c.Set(ctx, "b", "2", time.Minute))
	time.Sleep(2 * time.Millisecond)

	// touch "a" so "b" becomes the eviction candidate
	_, ok := c.Get(ctx, "a")
	require.True(t, ok)

	require.NoError(t, c.Set(ctx, "c", "3", time.Minute))

	_, ok = c.Get(ctx, "b")
	assert.False(t, ok)
	_, ok = c.Get(ctx, "a")
	assert.True(t, ok)
	_, ok = c.Get(ctx, "c")
	assert.True(t, ok)
}

func TestMemoryCache_Delete(t *testing.T) {
	c := newTestMemoryCache(10)
	defer c.Close()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", "v", time.Minute))
	require.NoError(t, c.Delete(ctx, "k"))

	_, ok := c.Get(ctx, "k")
	assert.False(t, ok)
	assert.NoError(t, c.Health(ctx))
}

func TestNewCache_UnsupportedProvider(t *testing.T) {
	_, err := NewCache(&Config{Provider: "memcached"}, zap.NewNop())
	assert.Error(t, err)
}
