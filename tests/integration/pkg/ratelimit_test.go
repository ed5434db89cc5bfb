//go:build integration

package pkg_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"reconnect/pkg/ratelimit"
	"reconnect/tests/integration/testutil"
)

func newRedisLimiter(t *testing.T, requests int, window time.Duration) *ratelimit.RedisLimiter {
	t.Helper()
	addr := testutil.RequireRedis(t)

	limiter, err := ratelimit.NewRedisLimiter(&ratelimit.Config{
		Requests:  requests,
		Window:    window,
		Strategy:  ratelimit.StrategySlidingWindow,
		Backend:   ratelimit.BackendRedis,
		RedisAddr: addr,
	})
	if err != nil {
		t.Fatalf("NewRedisLimiter failed: %v", err)
	}
	testutil.Cleanup(t, func() { limiter.Close() })
	return limiter
}

func TestRedisLimiter_Basic(t *testing.T) {
	limiter := newRedisLimiter(t, 3, time.Minute)
	ctx, cancel := testutil.Context(t)
	defer cancel()

	key := testutil.UniqueKey(t, "limit")
	limiter.Reset(ctx, key)

	for i := 0; i < 3; i++ {
		allowed, err := limiter.Allow(ctx, key)
		if err != nil {
			t.Fatalf("Allow failed: %v", err)
		}
		if !allowed {
			t.Errorf("request %d should be allowed", i+1)
		}
	}

	allowed, err := limiter.Allow(ctx, key)
	if err != nil {
		t.Fatalf("Allow failed: %v", err)
	}
	if allowed {
		t.Error("request over the limit should be denied")
	}
}

func TestRedisLimiter_WindowRollover(t *testing.T) {
	limiter := newRedisLimiter(t, 1, time.Second)
	ctx, cancel := testutil.Context(t)
	defer cancel()

	key := testutil.UniqueKey(t, "limit-window")
	limiter.Reset(ctx, key)

	if allowed, _ := limiter.Allow(ctx, key); !allowed {
		t.Fatal("first request should be allowed")
	}
	if allowed, _ := limiter.Allow(ctx, key); allowed {
		t.Fatal("second request should be denied")
	}

	time.Sleep(1100 * time.Millisecond)

	if allowed, _ := limiter.Allow(ctx, key); !allowed {
		t.Error("request after window rollover should be allowed")
	}
}

func TestRedisLimiter_GetInfo(t *testing.T) {
	limiter := newRedisLimiter(t, 5, time.Minute)
	ctx, cancel := testutil.Context(t)
	defer cancel()

	key := testutil.UniqueKey(t, "limit-info")
	limiter.Reset(ctx, key)

	limiter.Allow(ctx, key)
	limiter.Allow(ctx, key)

	info, err := limiter.GetInfo(ctx, key)
	if err != nil {
		t.Fatalf("GetInfo failed: %v", err)
	}
	if info.Limit != 5 {
		t.Errorf("Limit = %d, want 5", info.Limit)
	}
	if info.Remaining != 3 {
		t.Errorf("Remaining = %d, want 3", info.Remaining)
	}
}

func TestRedisLimiter_Concurrent(t *testing.T) {
	limiter := newRedisLimiter(t, 50, time.Minute)
	ctx, cancel := testutil.Context(t)
	defer cancel()

	key := testutil.UniqueKey(t, "limit-concurrent")
	limiter.Reset(ctx, key)

	var allowed atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := limiter.Allow(ctx, key)
			if err == nil && ok {
				allowed.Add(1)
			}
		}()
	}
	wg.Wait()

	// The Lua script keeps the check-and-add atomic under contention.
	if got := allowed.Load(); got != 50 {
		t.Errorf("allowed = %d, want exactly 50", got)
	}
}

func TestRedisLimiter_Wait(t *testing.T) {
	limiter := newRedisLimiter(t, 1, time.Second)
	ctx, cancel := testutil.Context(t)
	defer cancel()

	key := testutil.UniqueKey(t, "limit-wait")
	limiter.Reset(ctx, key)

	if err := limiter.Wait(ctx, key); err != nil {
		t.Fatalf("first Wait failed: %v", err)
	}

	start := time.Now()
	if err := limiter.Wait(ctx, key); err != nil {
		t.Fatalf("second Wait failed: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 500*time.Millisecond {
		t.Errorf("second Wait returned after %v, expected to block for the window", elapsed)
	}

	shortCtx, shortCancel := context.WithTimeout(ctx, 50*time.Millisecond)
	defer shortCancel()
	limiter.Reset(ctx, key)
	limiter.Allow(ctx, key)
	if err := limiter.Wait(shortCtx, key); err == nil {
		t.Error("Wait with expired context should fail")
	}
}

func TestRedisLimiter_MultipleKeys(t *testing.T) {
	limiter := newRedisLimiter(t, 1, time.Minute)
	ctx, cancel := testutil.Context(t)
	defer cancel()

	keyA := testutil.UniqueKey(t, "limit-a")
	keyB := testutil.UniqueKey(t, "limit-b")
	limiter.Reset(ctx, keyA)
	limiter.Reset(ctx, keyB)

	if allowed, _ := limiter.Allow(ctx, keyA); !allowed {
		t.Error("key A should be allowed")
	}
	if allowed, _ := limiter.Allow(ctx, keyB); !allowed {
		t.Error("key B has its own window")
	}
	if allowed, _ := limiter.Allow(ctx, keyA); allowed {
		t.Error("key A should now be denied")
	}
}
