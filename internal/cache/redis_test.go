//go:build integration

package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Integration tests for the Redis cache.
// Run with: go test -v -tags=integration ./internal/cache/...

func setupTestCache(t *testing.T) (*RedisCache, context.Context) {
	ctx := context.Background()

	c, err := NewRedisCache(Config{
		Host: "localhost",
		Port: "6379",
		DB:   1,
	})
	require.NoError(t, err, "Failed to connect to test redis")

	return c, ctx
}

func TestCacheRoundtrip(t *testing.T) {
	c, ctx := setupTestCache(t)
	defer c.Close()

	key := "test:roundtrip:" + uuid.NewString()
	value := map[string]int{"home": 27, "away": 24}

	require.NoError(t, c.Set(ctx, key, value, time.Minute))
	defer c.Delete(ctx, key)

	var got map[string]int
	require.NoError(t, c.Get(ctx, key, &got))
	assert.Equal(t, value, got)
}

func TestCacheMiss(t *testing.T) {
	c, ctx := setupTestCache(t)
	defer c.Close()

	var got map[string]int
	err := c.Get(ctx, "test:missing:"+uuid.NewString(), &got)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCacheMiss), "Absent key should report a cache miss")
}

func TestCacheInvalidatePrefix(t *testing.T) {
	c, ctx := setupTestCache(t)
	defer c.Close()

	prefix := "test:edges:" + uuid.NewString() + ":"
	require.NoError(t, c.Set(ctx, prefix+"a", 1, time.Minute))
	require.NoError(t, c.Set(ctx, prefix+"b", 2, time.Minute))

	require.NoError(t, c.InvalidatePrefix(ctx, prefix))

	var got int
	err := c.Get(ctx, prefix+"a", &got)
	assert.True(t, errors.Is(err, ErrCacheMiss), "Invalidated key should miss")
	err = c.Get(ctx, prefix+"b", &got)
	assert.True(t, errors.Is(err, ErrCacheMiss), "Invalidated key should miss")
}
