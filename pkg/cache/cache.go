package cache

import (
	"context"
	"time"
)

// AgentCache is the caching interface shared by every API client in the
// agent. Implementations: MemoryCache (default), RedisCache, NoOpCache.
type AgentCache interface {
	// Set stores a value with a TTL. A ttl of 0 means no expiry.
	Set(ctx context.Context, key string, value string, ttl time.Duration) error

	// Get retrieves a value by key. Returns ErrCacheKeyNotFound for missing
	// or expired keys.
	Get(ctx context.Context, key string) (string, error)

	// Delete removes a key.
	Delete(ctx context.Context, key string) error

	// Exists checks whether a key is present and unexpired.
	Exists(ctx context.Context, key string) (bool, error)

	// Increment increments a counter key by 1 and returns the new value.
	Increment(ctx context.Context, key string) (int64, error)

	// Ping checks if the backend is reachable.
	Ping(ctx context.Context) error

	// Close releases backend resources.
	Close() error
}

// NoOpCache disables caching entirely; every lookup misses.
type NoOpCache struct{}

func (c *NoOpCache) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	return nil
}

func (c *NoOpCache) Get(ctx context.Context, key string) (string, error) {
	return "", ErrCacheKeyNotFound
}

func (c *NoOpCache) Delete(ctx context.Context, key string) error { return nil }

func (c *NoOpCache) Exists(ctx context.Context, key string) (bool, error) { return false, nil }

func (c *NoOpCache) Increment(ctx context.Context, key string) (int64, error) { return 0, nil }

func (c *NoOpCache) Ping(ctx context.Context) error { return nil }

func (c *NoOpCache) Close() error { return nil }
