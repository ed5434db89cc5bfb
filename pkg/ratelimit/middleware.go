package ratelimit

import (
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"reconnect/pkg/logger"
)

// ClientIP extracts the caller address for limiter keying, preferring
// proxy headers over the socket peer.
func ClientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		// First hop is the original client.
		if idx := strings.IndexByte(fwd, ','); idx > 0 {
			return strings.TrimSpace(fwd[:idx])
		}
		return strings.TrimSpace(fwd)
	}
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// HTTPMiddleware limits requests per client IP. Paths in skip are
// exempt (health and metrics endpoints). Rejected requests get a 429
// with Retry-After and X-RateLimit headers.
func HTTPMiddleware(limiter Limiter, skip ...string) func(http.Handler) http.Handler {
	skipped := make(map[string]bool, len(skip))
	for _, p := range skip {
		skipped[p] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if limiter == nil || skipped[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}

			key := ClientIP(r)

			allowed, err := limiter.Allow(r.Context(), key)
			if err != nil {
				// Fail open. A broken limiter backend should not
				// take the planner down with it.
				logger.Log.Warn("rate limiter check failed", "error", err)
				next.ServeHTTP(w, r)
				return
			}

			if info, err := limiter.GetInfo(r.Context(), key); err == nil {
				w.Header().Set("X-RateLimit-Limit", strconv.Itoa(info.Limit))
				w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
			}

			if !allowed {
				retryAfter := time.Second
				if info, err := limiter.GetInfo(r.Context(), key); err == nil {
					if until := time.Until(info.ResetAt); until > retryAfter {
						retryAfter = until
					}
				}
				w.Header().Set("Retry-After", strconv.Itoa(int(retryAfter.Seconds()+0.5)))
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = w.Write([]byte(`{"error":{"code":"RATE_LIMITED","message":"too many requests"}}`))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
