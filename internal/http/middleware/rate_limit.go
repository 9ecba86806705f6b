package middleware

import (
	"net"
	"net/http"
	"strings"

	"github.com/sandnico/rsvp-service/internal/http/response"
	"github.com/sandnico/rsvp-service/internal/ratelimit"
	"github.com/sandnico/rsvp-service/pkg/logger"
)

// Operation classes keyed independently, so a client burning its write
// budget can still read the listing.
const (
	ClassWrite = "write"
	ClassRead  = "read"
)

// RateLimit guards a route with the given limiter, keying on the
// client's forwarded address plus the operation class. Store failures
// fail open: dropping a legitimate RSVP over a broken counter would be
// worse than letting one extra request through.
func RateLimit(limiter *ratelimit.Limiter, class string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := class + ":" + ClientKey(r)

			res, err := limiter.Check(r.Context(), key)
			if err != nil {
				logger.WarnContext(r.Context(), "Rate limit check failed, allowing request", "error", err, "key", key)
				next.ServeHTTP(w, r)
				return
			}

			if rlErr := res.Err(); rlErr != nil {
				logger.InfoContext(r.Context(), "Rate limited", "key", key, "error", rlErr, "reset_at", res.ResetAt)
				if class == ClassRead {
					response.RateLimitedMinimal(w)
				} else {
					response.RateLimited(w, res.ResetAt)
				}
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// ClientKey extracts the real client address from forwarded headers,
// falling back to a shared sentinel when nothing identifies the client.
// Unidentified clients are still rate-limited, just coarsely together.
func ClientKey(r *http.Request) string {
	if ip := clientIP(r); ip != "" {
		return ip
	}
	return "unknown"
}

func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if idx := strings.Index(xff, ","); idx != -1 {
			return strings.TrimSpace(xff[:idx])
		}
		return strings.TrimSpace(xff)
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}
