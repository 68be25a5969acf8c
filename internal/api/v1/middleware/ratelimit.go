package middleware

import (
	"net"
	"net/http"
	"strings"

	"github.com/mhkgpt/mhk-gpt/internal/config"
	"github.com/mhkgpt/mhk-gpt/pkg/httpext"
	"github.com/mhkgpt/mhk-gpt/pkg/ratelimit"
	"github.com/rs/zerolog/hlog"
)

// NewLimiter builds the per-client limiter for cfg, nil when limiting is disabled
func NewLimiter(cfg config.RateLimitConfig) *ratelimit.Limiter {
	if !cfg.Enabled {
		return nil
	}
	return ratelimit.NewLimiter(cfg.Window, cfg.MaxHits)
}

// RateLimit limits requests per client IP according to cfg
func RateLimit(limitKey string, cfg config.RateLimitConfig) func(http.Handler) http.Handler {
	return RateLimitWith(limitKey, NewLimiter(cfg))
}

// RateLimitWith limits requests per client IP with a limiter shared by other
// routes. A nil limiter lets every request through.
func RateLimitWith(limitKey string, limiter *ratelimit.Limiter) func(http.Handler) http.Handler {
	if limiter == nil {
		return func(next http.Handler) http.Handler { return next }
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := ClientIP(r)

			if !limiter.Allow(ip) {
				hlog.FromRequest(r).Warn().
					Str("client_ip", ip).
					Str("limit", limitKey).
					Msg("Rate limit exceeded")
				httpext.JsonError(w, "Rate limit exceeded", http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// ClientIP uses the first X-Forwarded-For hop if behind a proxy, otherwise the remote address
func ClientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		return strings.TrimSpace(first)
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
