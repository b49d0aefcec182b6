package ratelimit

import (
	"encoding/json"
	"net"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// ClientKey derives the client identity for limiting. Behind a trusted
// reverse proxy the first X-Forwarded-For hop is the original client;
// otherwise the connection's remote host is authoritative.
func ClientKey(r *http.Request, trustProxy bool) string {
	if trustProxy {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			if ip := strings.TrimSpace(strings.Split(xff, ",")[0]); ip != "" {
				return ip
			}
		}
		if rip := strings.TrimSpace(r.Header.Get("X-Real-IP")); rip != "" {
			return rip
		}
	}
	host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr))
	if err == nil && host != "" {
		return host
	}
	if r.RemoteAddr != "" {
		return r.RemoteAddr
	}
	return "unknown"
}

// Middleware rejects over-limit clients with 429 before the request reaches
// the proxy. Store failures are logged and the request is allowed through so
// a broken limiter backend never takes the gateway down with it.
func (l *Limiter) Middleware(trustProxy bool, log *zap.Logger) func(http.Handler) http.Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := ClientKey(r, trustProxy)

			dec, err := l.Allow(r.Context(), key)
			if err != nil {
				log.Error("rate limit store failed", zap.Error(err), zap.String("client", key))
				next.ServeHTTP(w, r)
				return
			}
			if !dec.Allowed {
				log.Warn("rate limit exceeded",
					zap.String("client", key),
					zap.Int64("count", dec.Count),
					zap.Int64("max", l.Max()))
				retry := int(dec.RetryAfter.Seconds())
				if retry < 1 {
					retry = 1
				}
				w.Header().Set("Retry-After", strconv.Itoa(retry))
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_ = json.NewEncoder(w).Encode(map[string]any{
					"success":           false,
					"error":             "Too Many Requests",
					"message":           "Rate limit exceeded, please try again later",
					"retryAfterSeconds": retry,
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
