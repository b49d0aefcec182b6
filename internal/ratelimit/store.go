// Package ratelimit implements per-client fixed-window request limiting for
// the gateway. A Store tracks one window per client identity; the in-memory
// store is the default and a Redis-backed store is available when multiple
// gateway instances must share counters.
package ratelimit

import (
	"context"
	"time"
)

// Store tracks request counts per key within a fixed window. Increment
// returns the count including the current request and the time remaining
// until the window resets. Implementations must be safe for concurrent use
// and must increment atomically per key.
type Store interface {
	Increment(ctx context.Context, key string, window time.Duration) (count int64, retryAfter time.Duration, err error)
}
