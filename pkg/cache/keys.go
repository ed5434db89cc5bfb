package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Key prefixes for the planner result caches.
const (
	prefixPlan    = "plan"
	prefixRanking = "ranking"
	prefixMetrics = "metrics"
)

// BuildPlanKey builds the cache key for a full reconnection plan.
func BuildPlanKey(fingerprint string) string {
	return fmt.Sprintf("%s:%s", prefixPlan, fingerprint)
}

// BuildRankingKey builds the cache key for a building ranking.
func BuildRankingKey(fingerprint string) string {
	return fmt.Sprintf("%s:%s", prefixRanking, fingerprint)
}

// BuildMetricsKey builds the cache key for a centrality computation
// over the graph identified by fingerprint.
func BuildMetricsKey(fingerprint, metric string) string {
	return fmt.Sprintf("%s:%s:%s", prefixMetrics, metric, fingerprint)
}

// QuickHash returns a full sha256 hex digest of the data.
func QuickHash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// ShortHash returns a 16-character hex digest of the data.
func ShortHash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:8])
}
