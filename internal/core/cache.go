package core

import (
	"context"
	"time"
)

// Cache[T] defines the primitive operations for a key-value cache.
// T is the type of value stored in the cache.
type Cache[T any] interface {
	// Get returns ErrCacheMiss if the key does not exist or has expired.
	Get(ctx context.Context, key string) (T, error)
	Set(ctx context.Context, key string, value T, ttl time.Duration) error

	// MGet returns only the keys that exist and have not expired.
	MGet(ctx context.Context, keys []string) (map[string]T, error)
	MSet(ctx context.Context, values map[string]T, ttl time.Duration) error

	Delete(ctx context.Context, key string) error
	Close() error
	Health(ctx context.Context) error
}
