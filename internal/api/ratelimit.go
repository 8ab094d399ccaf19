package api

import (
	"log/slog"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"

	domainerrors "github.com/gamestats/gamestats-server/internal/errors"
	"github.com/gamestats/gamestats-server/internal/metrics"
	"github.com/gamestats/gamestats-server/internal/ratelimit"
)

// Paths never subject to rate limiting.
var rateLimitExempt = []string{"/health", "/metrics", "/docs", "/openapi", "/schemas"}

// RateLimitMiddleware creates a middleware that rate limits requests by IP.
// Returns 429 Too Many Requests with a Retry-After header when limit is exceeded.
// Clients are keyed on RemoteAddr, which only reflects proxy headers when the
// server is configured to trust them.
func RateLimitMiddleware(limiter *ratelimit.KeyedRateLimiter, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isRateLimitExempt(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			key := getClientIP(r)
			if !limiter.Allow(key) {
				logger.Warn("Rate limit exceeded",
					"ip", key,
					"path", r.URL.Path,
				)
				metrics.RecordRateLimitHit(rateLimitEndpoint(r.URL.Path))

				retry := max(1, int(math.Ceil(limiter.RetryAfter(key).Seconds())))
				w.Header().Set("Retry-After", strconv.Itoa(retry))
				writeError(w, newAPIError(http.StatusTooManyRequests, "",
					domainerrors.ErrRateLimited.WithDetails(map[string]int{"retry_after_seconds": retry})))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// rateLimitEndpoint reduces a request path to a bounded metric label.
// Routing has not run yet, so the chi route pattern is not available.
func rateLimitEndpoint(path string) string {
	switch {
	case strings.HasPrefix(path, "/api/v1/"):
		section, _, _ := strings.Cut(strings.TrimPrefix(path, "/api/v1/"), "/")
		switch section {
		case "games", "top", "categories", "histogram", "scatter":
			return "/api/v1/" + section
		}
	case strings.HasPrefix(path, "/charts/"):
		return "/charts"
	}
	return "other"
}

func isRateLimitExempt(path string) bool {
	for _, prefix := range rateLimitExempt {
		if path == prefix || strings.HasPrefix(path, prefix+"/") || strings.HasPrefix(path, prefix+".") {
			return true
		}
	}
	return false
}

// getClientIP extracts the client IP from RemoteAddr, dropping the port.
func getClientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
