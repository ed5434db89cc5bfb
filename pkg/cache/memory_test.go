package cache

import (
	"context"
	"testing"
	"time"
)

func newTestCache(t *testing.T) *MemoryCache {
	t.Helper()
	c := NewMemoryCache(&Options{
		DefaultTTL:      time.Minute,
		MaxEntries:      100,
		CleanupInterval: time.Hour,
	})
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestMemoryCache_SetGet(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	if err := c.Set(ctx, "plan:abc", []byte("value"), 0); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	got, err := c.Get(ctx, "plan:abc")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if string(got) != "value" {
		t.Errorf("expected 'value', got %q", got)
	}

	if _, err := c.Get(ctx, "missing"); err != ErrKeyNotFound {
		t.Errorf("expected ErrKeyNotFound, got %v", err)
	}
}

func TestMemoryCache_Expiry(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	if err := c.Set(ctx, "k", []byte("v"), 10*time.Millisecond); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	time.Sleep(20 * time.Millisecond)

	if _, err := c.Get(ctx, "k"); err != ErrKeyNotFound {
		t.Errorf("expected expired key to be a miss, got %v", err)
	}
}

func TestMemoryCache_GetWithTTL(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	if err := c.Set(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	val, ttl, err := c.GetWithTTL(ctx, "k")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if string(val) != "v" {
		t.Errorf("expected 'v', got %q", val)
	}
	if ttl <= 0 || ttl > time.Minute {
		t.Errorf("unexpected ttl %v", ttl)
	}
}

func TestMemoryCache_LRUEviction(t *testing.T) {
	c := NewMemoryCache(&Options{
		DefaultTTL:      time.Minute,
		MaxEntries:      2,
		CleanupInterval: time.Hour,
	})
	defer c.Close()
	ctx := context.Background()

	_ = c.Set(ctx, "a", []byte("1"), 0)
	time.Sleep(time.Millisecond)
	_ = c.Set(ctx, "b", []byte("2"), 0)
	time.Sleep(time.Millisecond)

	// Touch "a" so "b" becomes least recently used.
	if _, err := c.Get(ctx, "a"); err != nil {
		t.Fatalf("get failed: %v", err)
	}
	time.Sleep(time.Millisecond)

	_ = c.Set(ctx, "c", []byte("3"), 0)

	if ok, _ := c.Exists(ctx, "b"); ok {
		t.Error("expected 'b' to be evicted")
	}
	if ok, _ := c.Exists(ctx, "a"); !ok {
		t.Error("expected 'a' to survive eviction")
	}
}

func TestMemoryCache_DeleteByPattern(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	_ = c.Set(ctx, "plan:x", []byte("1"), 0)
	_ = c.Set(ctx, "plan:y", []byte("2"), 0)
	_ = c.Set(ctx, "ranking:x", []byte("3"), 0)

	n, err := c.DeleteByPattern(ctx, "plan:*")
	if err != nil {
		t.Fatalf("delete by pattern failed: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 deleted, got %d", n)
	}
	if ok, _ := c.Exists(ctx, "ranking:x"); !ok {
		t.Error("expected 'ranking:x' to survive")
	}
}

func TestMemoryCache_Stats(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	_ = c.Set(ctx, "plan:x", []byte("data"), 0)
	_, _ = c.Get(ctx, "plan:x")
	_, _ = c.Get(ctx, "missing")

	stats, err := c.Stats(ctx)
	if err != nil {
		t.Fatalf("stats failed: %v", err)
	}
	if stats.Hits != 1 || stats.Misses != 1 {
		t.Errorf("expected 1 hit / 1 miss, got %d / %d", stats.Hits, stats.Misses)
	}
	if stats.HitRate != 0.5 {
		t.Errorf("expected hit rate 0.5, got %v", stats.HitRate)
	}
	if stats.KeysByPrefix["plan"] != 1 {
		t.Errorf("expected one 'plan' key, got %d", stats.KeysByPrefix["plan"])
	}
	if stats.Backend != BackendMemory {
		t.Errorf("expected memory backend, got %s", stats.Backend)
	}
}

func TestMemoryCache_Closed(t *testing.T) {
	c := NewMemoryCache(nil)
	_ = c.Close()

	ctx := context.Background()
	if _, err := c.Get(ctx, "k"); err != ErrCacheClosed {
		t.Errorf("expected ErrCacheClosed, got %v", err)
	}
	if err := c.Set(ctx, "k", []byte("v"), 0); err != ErrCacheClosed {
		t.Errorf("expected ErrCacheClosed, got %v", err)
	}
	// Double close is a no-op.
	if err := c.Close(); err != nil {
		t.Errorf("expected nil on second close, got %v", err)
	}
}

func TestMatchPattern(t *testing.T) {
	tests := []struct {
		pattern string
		key     string
		want    bool
	}{
		{"*", "anything", true},
		{"plan:*", "plan:abc", true},
		{"plan:*", "ranking:abc", false},
		{"*:abc", "plan:abc", true},
		{"plan:*:x", "plan:deep:x", true},
		{"exact", "exact", true},
		{"exact", "other", false},
		{"ab*ab", "ab", false},
	}

	for _, tt := range tests {
		if got := matchPattern(tt.pattern, tt.key); got != tt.want {
			t.Errorf("matchPattern(%q, %q) = %v, want %v", tt.pattern, tt.key, got, tt.want)
		}
	}
}
