// Package ratelimit provides request rate limiting with in-memory and
// Redis-backed implementations. The planner endpoints are CPU-bound
// (graph metrics on large networks in particular), so the service caps
// per-client request rates at the HTTP boundary.
package ratelimit

import (
	"context"
	"errors"
	"time"

	"reconnect/pkg/config"
)

// Standard errors returned by limiter operations.
var (
	ErrRateLimitExceeded = errors.New("rate limit exceeded")
	ErrLimiterClosed     = errors.New("limiter is closed")
)

// Limiting strategies.
const (
	StrategySlidingWindow = "sliding_window"
	StrategyTokenBucket   = "token_bucket"
)

// Backend types.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// Limiter decides whether a request identified by key may proceed.
type Limiter interface {
	// Allow reports whether one request is permitted for the key.
	Allow(ctx context.Context, key string) (bool, error)

	// AllowN reports whether n requests are permitted for the key.
	AllowN(ctx context.Context, key string, n int) (bool, error)

	// Wait blocks until a request is permitted or the context ends.
	Wait(ctx context.Context, key string) error

	// Reset clears the accumulated state for the key.
	Reset(ctx context.Context, key string) error

	// GetInfo returns the current limit state for the key.
	GetInfo(ctx context.Context, key string) (*LimitInfo, error)

	// Close releases limiter resources.
	Close() error
}

// LimitInfo describes the current state of a key's limit.
type LimitInfo struct {
	Limit      int           `json:"limit"`
	Remaining  int           `json:"remaining"`
	ResetAt    time.Time     `json:"reset_at"`
	RetryAfter time.Duration `json:"retry_after,omitempty"`
}

// Config holds rate limiter settings.
type Config struct {
	Enabled bool

	// Requests allowed per Window.
	Requests int
	Window   time.Duration

	// Strategy selects sliding_window or token_bucket.
	Strategy string

	// Backend selects memory or redis.
	Backend string

	// BurstSize extends the token bucket above Requests.
	BurstSize int

	// CleanupInterval controls eviction of idle in-memory buckets.
	CleanupInterval time.Duration

	// Redis connection settings, used when Backend is redis.
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// DefaultConfig returns the built-in limiter settings.
func DefaultConfig() *Config {
	return &Config{
		Requests:        100,
		Window:          time.Minute,
		Strategy:        StrategySlidingWindow,
		Backend:         BackendMemory,
		BurstSize:       10,
		CleanupInterval: 5 * time.Minute,
	}
}

// FromConfig maps the service configuration section onto limiter settings.
func FromConfig(cfg *config.RateLimitConfig) *Config {
	return &Config{
		Enabled:         cfg.Enabled,
		Requests:        cfg.Requests,
		Window:          cfg.Window,
		Strategy:        cfg.Strategy,
		Backend:         cfg.Backend,
		BurstSize:       cfg.BurstSize,
		CleanupInterval: cfg.CleanupInterval,
		RedisAddr:       cfg.RedisAddr,
		RedisPassword:   cfg.RedisPassword,
		RedisDB:         cfg.RedisDB,
	}
}

// New creates a limiter for the configured backend.
func New(cfg *Config) (Limiter, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	switch cfg.Backend {
	case BackendRedis:
		return NewRedisLimiter(cfg)
	default:
		return NewMemoryLimiter(cfg), nil
	}
}
