// internal/adapters/in/http/middleware/ratelimit.go
package middleware

import (
	"encoding/json"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"boutique/internal/ratelimit"
)

// RateLimit applies a named preset per client address. Over-limit requests
// get 429 with Retry-After and the X-RateLimit-* headers.
func RateLimit(limiter *ratelimit.Limiter, preset ratelimit.Preset) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if limiter == nil {
				next.ServeHTTP(w, r)
				return
			}

			res := limiter.CheckPreset(preset, clientAddr(r))

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(preset.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(res.ResetAt.Unix(), 10))

			if !res.Allowed {
				retryAfter := int(time.Until(res.ResetAt).Seconds())
				if retryAfter < 1 {
					retryAfter = 1
				}
				w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_ = json.NewEncoder(w).Encode(map[string]string{"error": "too_many_requests"})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// clientAddr picks the limiter key for a request:
// X-Forwarded-For first hop, then X-Real-IP, then RemoteAddr.
//
// Headers are proxy-set and spoofable when the service is exposed directly;
// behind the load balancer they are authoritative. Unparseable input maps to
// "unknown" so such clients share one (tight) bucket instead of minting
// unlimited fresh keys.
func clientAddr(r *http.Request) string {
	if xff := strings.TrimSpace(r.Header.Get("X-Forwarded-For")); xff != "" {
		first := xff
		if i := strings.IndexByte(xff, ','); i >= 0 {
			first = xff[:i]
		}
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if rip := strings.TrimSpace(r.Header.Get("X-Real-IP")); rip != "" {
		return rip
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil || strings.TrimSpace(host) == "" {
		return "unknown"
	}
	return host
}
