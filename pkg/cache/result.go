package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ResultCache wraps a Cache with JSON serialization for computed
// planner artifacts (plans, rankings, centrality reports). Entries are
// keyed by the topology fingerprint, so a change in the network
// invalidates naturally.
type ResultCache struct {
	cache      Cache
	defaultTTL time.Duration
}

// NewResultCache creates a result cache over the given backend.
func NewResultCache(cache Cache, defaultTTL time.Duration) *ResultCache {
	if defaultTTL <= 0 {
		defaultTTL = 10 * time.Minute
	}
	return &ResultCache{
		cache:      cache,
		defaultTTL: defaultTTL,
	}
}

// Get loads a cached result into out. The boolean reports whether the
// key was present. A corrupted entry is dropped and treated as a miss.
func (rc *ResultCache) Get(ctx context.Context, key string, out any) (bool, error) {
	data, err := rc.cache.Get(ctx, key)
	if err != nil {
		if errors.Is(err, ErrKeyNotFound) {
			return false, nil
		}
		return false, err
	}

	if err := json.Unmarshal(data, out); err != nil {
		_ = rc.cache.Delete(ctx, key) //nolint:errcheck // best effort cleanup
		return false, nil
	}

	return true, nil
}

// Set stores a result under the given key.
func (rc *ResultCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = rc.defaultTTL
	}

	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	return rc.cache.Set(ctx, key, data, ttl)
}

// Invalidate removes every cached artifact for the given fingerprint.
func (rc *ResultCache) Invalidate(ctx context.Context, fingerprint string) error {
	for _, pattern := range []string{
		fmt.Sprintf("%s:%s", prefixPlan, fingerprint),
		fmt.Sprintf("%s:%s", prefixRanking, fingerprint),
		fmt.Sprintf("%s:*:%s", prefixMetrics, fingerprint),
	} {
		if _, err := rc.cache.DeleteByPattern(ctx, pattern); err != nil {
			return err
		}
	}
	return nil
}

// InvalidateAll removes all cached planner artifacts.
func (rc *ResultCache) InvalidateAll(ctx context.Context) (int64, error) {
	var total int64
	for _, pattern := range []string{
		prefixPlan + ":*", prefixRanking + ":*", prefixMetrics + ":*",
	} {
		n, err := rc.cache.DeleteByPattern(ctx, pattern)
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}
