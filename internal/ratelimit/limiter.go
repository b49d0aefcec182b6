package ratelimit

import (
	"context"
	"time"
)

// Decision is the outcome of evaluating one request against the limit.
type Decision struct {
	Allowed    bool
	Count      int64
	RetryAfter time.Duration
}

// Limiter applies a fixed ceiling of requests per window to each client key.
type Limiter struct {
	store  Store
	max    int64
	window time.Duration
}

func NewLimiter(store Store, max int, window time.Duration) *Limiter {
	return &Limiter{store: store, max: int64(max), window: window}
}

// Allow records the request against the client's current window and reports
// whether it may proceed. Request max+1 within one window is the first to be
// rejected.
func (l *Limiter) Allow(ctx context.Context, key string) (Decision, error) {
	count, retryAfter, err := l.store.Increment(ctx, key, l.window)
	if err != nil {
		return Decision{}, err
	}
	return Decision{
		Allowed:    count <= l.max,
		Count:      count,
		RetryAfter: retryAfter,
	}, nil
}

// Window returns the configured window length.
func (l *Limiter) Window() time.Duration { return l.window }

// Max returns the configured request ceiling per window.
func (l *Limiter) Max() int64 { return l.max }
