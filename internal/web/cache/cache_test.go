package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	c := NewRedisCacheWithClient(client, DefaultConfig())
	t.Cleanup(func() { c.Close() })
	return c, mr
}

func setupTestMemory(t *testing.T) *MemoryCache {
	t.Helper()

	c := NewMemoryCache(DefaultConfig())
	t.Cleanup(func() { c.Close() })
	return c
}

// backends runs a test against every real backend
func backends(t *testing.T, fn func(t *testing.T, c Cache)) {
	t.Run("memory", func(t *testing.T) {
		fn(t, setupTestMemory(t))
	})
	t.Run("redis", func(t *testing.T) {
		c, _ := setupTestRedis(t)
		fn(t, c)
	})
}

func TestCache_SetGetDelete(t *testing.T) {
	backends(t, func(t *testing.T, c Cache) {
		ctx := context.Background()

		_, err := c.Get(ctx, "missing")
		assert.True(t, IsCacheMiss(err))

		require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))
		value, err := c.Get(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, []byte("v"), value)

		require.NoError(t, c.Delete(ctx, "k"))
		_, err = c.Get(ctx, "k")
		assert.True(t, IsCacheMiss(err))
	})
}

func TestCache_Clear(t *testing.T) {
	backends(t, func(t *testing.T, c Cache) {
		ctx := context.Background()

		require.NoError(t, c.Set(ctx, "a", []byte("1"), 0))
		require.NoError(t, c.Set(ctx, "b", []byte("2"), 0))
		require.NoError(t, c.Clear(ctx))

		_, err := c.Get(ctx, "a")
		assert.True(t, IsCacheMiss(err))
		_, err = c.Get(ctx, "b")
		assert.True(t, IsCacheMiss(err))
	})
}

func TestMemoryCache_Expiration(t *testing.T) {
	c := setupTestMemory(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", []byte("v"), 10*time.Millisecond))
	time.Sleep(20 * time.Millisecond)

	_, err := c.Get(ctx, "k")
	assert.True(t, IsCacheMiss(err))
}

func TestMemoryCache_CanceledContext(t *testing.T) {
	c := setupTestMemory(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, c.Set(ctx, "k", []byte("v"), 0), context.Canceled)
	_, err := c.Get(ctx, "k")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRedisCache_PrefixAndTTL(t *testing.T) {
	c, mr := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", []byte("v"), 0))
	assert.True(t, mr.Exists("querykit:k"))
	assert.Equal(t, 5*time.Minute, mr.TTL("querykit:k"))

	mr.FastForward(6 * time.Minute)
	_, err := c.Get(ctx, "k")
	assert.True(t, IsCacheMiss(err))
}

func TestRedisCache_ClearKeepsOtherKeys(t *testing.T) {
	c, mr := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, mr.Set("other:key", "x"))
	require.NoError(t, c.Set(ctx, "k", []byte("v"), 0))
	require.NoError(t, c.Clear(ctx))

	assert.True(t, mr.Exists("other:key"))
	assert.False(t, mr.Exists("querykit:k"))
}

func TestNewRedisCache_ConnectionError(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RedisAddr = "localhost:99999"

	_, err := NewRedisCache(cfg)
	assert.Error(t, err)
}

func TestNew(t *testing.T) {
	c, err := New(BackendMemory, DefaultConfig())
	require.NoError(t, err)
	assert.IsType(t, &MemoryCache{}, c)
	c.Close()

	c, err = New(BackendNone, DefaultConfig())
	require.NoError(t, err)
	require.NoError(t, c.Set(context.Background(), "k", []byte("v"), 0))
	_, err = c.Get(context.Background(), "k")
	assert.True(t, IsCacheMiss(err))

	mr := miniredis.RunT(t)
	cfg := DefaultConfig()
	cfg.RedisAddr = mr.Addr()
	c, err = New(BackendRedis, cfg)
	require.NoError(t, err)
	assert.IsType(t, &RedisCache{}, c)
	c.Close()

	_, err = New("memcached", DefaultConfig())
	assert.Error(t, err)
}

func TestIsCacheMiss(t *testing.T) {
	assert.True(t, IsCacheMiss(ErrCacheMiss{Key: "k"}))
	assert.False(t, IsCacheMiss(errors.New("boom")))
	assert.Equal(t, "cache miss: k", ErrCacheMiss{Key: "k"}.Error())
}
