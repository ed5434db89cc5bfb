package benchmark

import (
	"context"
	"fmt"
	"testing"
	"time"

	"reconnect/pkg/ratelimit"
)

func newBenchLimiter(strategy string) *ratelimit.MemoryLimiter {
	return ratelimit.NewMemoryLimiter(&ratelimit.Config{
		Requests:        1_000_000,
		Window:          time.Minute,
		Strategy:        strategy,
		BurstSize:       100,
		CleanupInterval: time.Minute,
	})
}

func BenchmarkMemoryLimiter_Allow(b *testing.B) {
	limiter := newBenchLimiter(ratelimit.StrategyTokenBucket)
	defer limiter.Close()

	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		limiter.Allow(ctx, "bench-key")
	}
}

func BenchmarkMemoryLimiter_Allow_Parallel(b *testing.B) {
	limiter := newBenchLimiter(ratelimit.StrategyTokenBucket)
	defer limiter.Close()

	ctx := context.Background()

	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			limiter.Allow(ctx, "bench-key")
		}
	})
}

func BenchmarkMemoryLimiter_Allow_MultipleKeys(b *testing.B) {
	limiter := newBenchLimiter(ratelimit.StrategyTokenBucket)
	defer limiter.Close()

	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		limiter.Allow(ctx, fmt.Sprintf("client-%d", i%1000))
	}
}

func BenchmarkMemoryLimiter_SlidingWindow(b *testing.B) {
	limiter := ratelimit.NewMemoryLimiter(&ratelimit.Config{
		Requests:        1000,
		Window:          time.Minute,
		Strategy:        ratelimit.StrategySlidingWindow,
		CleanupInterval: time.Minute,
	})
	defer limiter.Close()

	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		// Spread across keys so the window never saturates.
		limiter.Allow(ctx, fmt.Sprintf("client-%d", i%10000))
	}
}

func BenchmarkMemoryLimiter_GetInfo(b *testing.B) {
	limiter := newBenchLimiter(ratelimit.StrategyTokenBucket)
	defer limiter.Close()

	ctx := context.Background()
	limiter.Allow(ctx, "bench-key")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		limiter.GetInfo(ctx, "bench-key")
	}
}

func BenchmarkMemoryLimiter_HighContention(b *testing.B) {
	limiter := newBenchLimiter(ratelimit.StrategyTokenBucket)
	defer limiter.Close()

	ctx := context.Background()

	b.SetParallelism(8)
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			limiter.Allow(ctx, "shared-key")
		}
	})
}
