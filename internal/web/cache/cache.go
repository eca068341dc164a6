// Package cache stores lookup-value lists between requests.
package cache

import (
	"context"
	"fmt"
	"time"
)

// Backend names accepted by New
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendNone   = "none"
)

// Cache defines the interface for all cache backends
type Cache interface {
	// Get retrieves a value, returning ErrCacheMiss when absent or expired
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value; a zero ttl uses the backend default
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a value
	Delete(ctx context.Context, key string) error

	// Clear removes every value under the cache prefix
	Clear(ctx context.Context) error

	// Close releases the backend
	Close() error
}

// Config holds configuration shared by the backends
type Config struct {
	// DefaultTTL is used when Set is called without a ttl
	DefaultTTL time.Duration
	// Prefix is prepended to all cache keys
	Prefix string
	// RedisAddr is the host:port of the Redis server
	RedisAddr string
}

// DefaultConfig returns the default cache configuration
func DefaultConfig() Config {
	return Config{
		DefaultTTL: 5 * time.Minute,
		Prefix:     "querykit:",
		RedisAddr:  "localhost:6379",
	}
}

// ErrCacheMiss is returned when a key is not found in the cache
type ErrCacheMiss struct {
	Key string
}

func (e ErrCacheMiss) Error() string {
	return "cache miss: " + e.Key
}

// IsCacheMiss checks if an error is a cache miss
func IsCacheMiss(err error) bool {
	_, ok := err.(ErrCacheMiss)
	return ok
}

// New creates the cache backend named by backend
func New(backend string, cfg Config) (Cache, error) {
	switch backend {
	case BackendMemory, "":
		return NewMemoryCache(cfg), nil
	case BackendRedis:
		return NewRedisCache(cfg)
	case BackendNone:
		return NoopCache{}, nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", backend)
	}
}

// NoopCache never stores anything
type NoopCache struct{}

func (NoopCache) Get(_ context.Context, key string) ([]byte, error) {
	return nil, ErrCacheMiss{Key: key}
}

func (NoopCache) Set(context.Context, string, []byte, time.Duration) error { return nil }

func (NoopCache) Delete(context.Context, string) error { return nil }

func (NoopCache) Clear(context.Context) error { return nil }

func (NoopCache) Close() error { return nil }
