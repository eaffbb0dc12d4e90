package cache

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"
)

type scopeEntry struct {
	DisplayName string
	Description string
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newClockedCache[T any]() (*MemoryCache[T], *fakeClock) {
	clock := &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	c := NewMemoryCache[T]()
	c.now = clock.Now
	return c, clock
}

func TestMemoryCache_GetSet(t *testing.T) {
	cache := NewMemoryCache[scopeEntry]()
	ctx := context.Background()

	want := scopeEntry{DisplayName: "Profile", Description: "Read your profile"}
	if err := cache.Set(ctx, "profile", want, time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	got, err := cache.Get(ctx, "profile")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != want {
		t.Errorf("Expected %+v, got %+v", want, got)
	}
}

func TestMemoryCache_GetMiss(t *testing.T) {
	cache := NewMemoryCache[scopeEntry]()

	_, err := cache.Get(context.Background(), "non-existent")
	if err != ErrCacheMiss {
		t.Errorf("Expected ErrCacheMiss, got %v", err)
	}
}

func TestMemoryCache_Expiration(t *testing.T) {
	cache, clock := newClockedCache[int64]()
	ctx := context.Background()

	if err := cache.Set(ctx, "expire-key", 100, time.Second); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if _, err := cache.Get(ctx, "expire-key"); err != nil {
		t.Fatalf("Get failed before expiration: %v", err)
	}

	clock.Advance(time.Second)

	if _, err := cache.Get(ctx, "expire-key"); err != ErrCacheMiss {
		t.Errorf("Expected ErrCacheMiss after expiration, got %v", err)
	}
	if n := cache.Len(); n != 0 {
		t.Errorf("Expected expired entry to be dropped, %d entries remain", n)
	}
}

func TestMemoryCache_ZeroTTLIsNotStored(t *testing.T) {
	cache := NewMemoryCache[int64]()
	ctx := context.Background()

	if err := cache.Set(ctx, "k", 1, 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if _, err := cache.Get(ctx, "k"); err != ErrCacheMiss {
		t.Errorf("Expected ErrCacheMiss, got %v", err)
	}
}

func TestMemoryCache_MGetMSet(t *testing.T) {
	cache := NewMemoryCache[scopeEntry]()
	ctx := context.Background()

	values := map[string]scopeEntry{
		"openid":  {DisplayName: "OpenID"},
		"profile": {DisplayName: "Profile"},
	}
	if err := cache.MSet(ctx, values, time.Minute); err != nil {
		t.Fatalf("MSet failed: %v", err)
	}

	got, err := cache.MGet(ctx, []string{"openid", "profile", "email"})
	if err != nil {
		t.Fatalf("MGet failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Expected 2 hits, got %d", len(got))
	}
	if got["profile"].DisplayName != "Profile" {
		t.Errorf("Unexpected profile entry: %+v", got["profile"])
	}
	if _, ok := got["email"]; ok {
		t.Error("Expected email to be missing")
	}
}

func TestMemoryCache_MSetSweepsExpired(t *testing.T) {
	cache, clock := newClockedCache[int64]()
	ctx := context.Background()

	_ = cache.Set(ctx, "old", 1, time.Second)
	clock.Advance(2 * time.Second)
	_ = cache.Set(ctx, "new", 2, time.Minute)

	if n := cache.Len(); n != 1 {
		t.Errorf("Expected 1 entry after sweep, got %d", n)
	}
}

func TestMemoryCache_DeleteAndClose(t *testing.T) {
	cache := NewMemoryCache[int64]()
	ctx := context.Background()

	_ = cache.Set(ctx, "a", 1, time.Minute)
	_ = cache.Set(ctx, "b", 2, time.Minute)

	if err := cache.Delete(ctx, "a"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := cache.Get(ctx, "a"); err != ErrCacheMiss {
		t.Errorf("Expected ErrCacheMiss after delete, got %v", err)
	}

	if err := cache.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if _, err := cache.Get(ctx, "b"); err != ErrCacheMiss {
		t.Errorf("Expected ErrCacheMiss after close, got %v", err)
	}
	if err := cache.Health(ctx); err != nil {
		t.Errorf("Health failed: %v", err)
	}
}

func TestMemoryCache_Concurrent(t *testing.T) {
	cache := NewMemoryCache[int64]()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprintf("key-%d", i%10)
			_ = cache.Set(ctx, key, int64(i), time.Minute)
			_, _ = cache.Get(ctx, key)
			_, _ = cache.MGet(ctx, []string{key, "other"})
		}(i)
	}
	wg.Wait()

	if n := cache.Len(); n != 10 {
		t.Errorf("Expected 10 keys, got %d", n)
	}
}
