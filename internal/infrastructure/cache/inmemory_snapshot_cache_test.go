package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type snapshot struct {
	Total   int64  `json:"total"`
	Comment string `json:"comment"`
}

func TestInMemorySnapshotCache_SetAndGet(t *testing.T) {
	cache := NewInMemorySnapshotCache()
	defer cache.Close()
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "dashboard:snapshot", snapshot{Total: 42, Comment: "ok"}, time.Minute))

	var got snapshot
	hit, err := cache.Get(ctx, "dashboard:snapshot", &got)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, int64(42), got.Total)
	assert.Equal(t, "ok", got.Comment)
}

func TestInMemorySnapshotCache_Miss(t *testing.T) {
	cache := NewInMemorySnapshotCache()
	defer cache.Close()

	var got snapshot
	hit, err := cache.Get(context.Background(), "missing", &got)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestInMemorySnapshotCache_Expiration(t *testing.T) {
	cache := NewInMemorySnapshotCache()
	defer cache.Close()
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "short", snapshot{Total: 1}, time.Millisecond))
	time.Sleep(5 * time.Millisecond)

	var got snapshot
	hit, err := cache.Get(ctx, "short", &got)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestInMemorySnapshotCache_ZeroTTLNeverExpires(t *testing.T) {
	cache := NewInMemorySnapshotCache()
	defer cache.Close()
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "forever", snapshot{Total: 7}, 0))

	var got snapshot
	hit, err := cache.Get(ctx, "forever", &got)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, int64(7), got.Total)
}

func TestInMemorySnapshotCache_Delete(t *testing.T) {
	cache := NewInMemorySnapshotCache()
	defer cache.Close()
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "k", snapshot{Total: 3}, time.Minute))
	require.NoError(t, cache.Delete(ctx, "k"))

	var got snapshot
	hit, err := cache.Get(ctx, "k", &got)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestInMemorySnapshotCache_Stats(t *testing.T) {
	cache := NewInMemorySnapshotCache()
	defer cache.Close()
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "k", snapshot{}, time.Minute))

	var got snapshot
	_, _ = cache.Get(ctx, "k", &got)
	_, _ = cache.Get(ctx, "absent", &got)

	hits, misses := cache.GetStats()
	assert.Equal(t, int64(1), hits)
	assert.Equal(t, int64(1), misses)
}
