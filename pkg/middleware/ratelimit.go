package middleware

import (
	"net"
	"net/http"
	"net/netip"
	"strings"

	"perfume-collection/pkg/ratelimit"
	"perfume-collection/pkg/utils"

	"go.uber.org/zap"
)

// RateLimit throttles requests per authenticated user, falling back to the
// client IP for anonymous callers. Forwarding headers are only believed
// when the connection comes from one of trustedProxies.
func RateLimit(limiter *ratelimit.KeyedRateLimiter, trustedProxies []netip.Prefix, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := "ip:" + clientIP(r, trustedProxies)
			if userID, ok := utils.GetUserIDFromContext(r.Context()); ok {
				key = "user:" + userID.String()
			}

			if !limiter.Allow(key) {
				logger.Warn("Rate limit exceeded",
					zap.String("key", key),
					zap.String("path", r.URL.Path))
				w.Header().Set("Retry-After", "1")
				utils.ResponseTooManyRequests(w, "Too many requests. Please try again later.")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// clientIP returns the connection address unless it is a trusted proxy.
// Behind a proxy it walks X-Forwarded-For from the right and returns the
// first hop that is not itself trusted, then falls back to X-Real-IP.
func clientIP(r *http.Request, trustedProxies []netip.Prefix) string {
	remote := r.RemoteAddr
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		remote = host
	}

	peer, err := netip.ParseAddr(remote)
	if err != nil || !isTrusted(peer, trustedProxies) {
		return remote
	}

	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		hops := strings.Split(xff, ",")
		for i := len(hops) - 1; i >= 0; i-- {
			hop, err := netip.ParseAddr(strings.TrimSpace(hops[i]))
			if err != nil {
				break
			}
			if !isTrusted(hop, trustedProxies) {
				return hop.Unmap().String()
			}
		}
	}

	if xri, err := netip.ParseAddr(strings.TrimSpace(r.Header.Get("X-Real-IP"))); err == nil {
		return xri.Unmap().String()
	}

	return remote
}

func isTrusted(addr netip.Addr, trustedProxies []netip.Prefix) bool {
	addr = addr.Unmap()
	for _, prefix := range trustedProxies {
		if prefix.Contains(addr) {
			return true
		}
	}
	return false
}
