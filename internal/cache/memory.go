package cache

import (
	"context"
	"sync"
	"time"

	"github.com/go-authgate/oauthprovider/internal/core"
)

type cacheItem[T any] struct {
	value     T
	expiresAt time.Time
}

func (i cacheItem[T]) live(now time.Time) bool {
	return now.Before(i.expiresAt)
}

// Compile-time interface check.
var _ core.Cache[struct{}] = (*MemoryCache[struct{}])(nil)

// MemoryCache is a process-local cache for single-instance deployments.
// Expired entries are dropped when they are read or when a write finds them.
type MemoryCache[T any] struct {
	mu    sync.Mutex
	items map[string]cacheItem[T]
	now   func() time.Time
}

// NewMemoryCache creates a new memory cache instance.
func NewMemoryCache[T any]() *MemoryCache[T] {
	return &MemoryCache[T]{
		items: make(map[string]cacheItem[T]),
		now:   time.Now,
	}
}

func (m *MemoryCache[T]) Get(ctx context.Context, key string) (T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	item, ok := m.items[key]
	if !ok {
		var zero T
		return zero, ErrCacheMiss
	}
	if !item.live(m.now()) {
		delete(m.items, key)
		var zero T
		return zero, ErrCacheMiss
	}
	return item.value, nil
}

func (m *MemoryCache[T]) Set(ctx context.Context, key string, value T, ttl time.Duration) error {
	return m.MSet(ctx, map[string]T{key: value}, ttl)
}

func (m *MemoryCache[T]) MGet(ctx context.Context, keys []string) (map[string]T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	result := make(map[string]T, len(keys))
	for _, key := range keys {
		item, ok := m.items[key]
		if !ok {
			continue
		}
		if !item.live(now) {
			delete(m.items, key)
			continue
		}
		result[key] = item.value
	}
	return result, nil
}

func (m *MemoryCache[T]) MSet(ctx context.Context, values map[string]T, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	for key, item := range m.items {
		if !item.live(now) {
			delete(m.items, key)
		}
	}
	expiresAt := now.Add(ttl)
	for key, value := range values {
		m.items[key] = cacheItem[T]{value: value, expiresAt: expiresAt}
	}
	return nil
}

func (m *MemoryCache[T]) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.items, key)
	return nil
}

// Close drops every entry.
func (m *MemoryCache[T]) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.items = make(map[string]cacheItem[T])
	return nil
}

// Health always succeeds for the memory cache.
func (m *MemoryCache[T]) Health(ctx context.Context) error {
	return nil
}

// Len returns the number of stored entries, expired or not.
func (m *MemoryCache[T]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}
