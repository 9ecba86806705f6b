// Package ratelimit implements fixed-window request counting per client
// key. A fixed window (not sliding) can admit close to twice the limit
// across a boundary burst; that looseness is accepted for an
// abuse-deterrence mechanism.
package ratelimit

import (
	"context"
	"time"

	"github.com/sandnico/rsvp-service/internal/domain"
)

// Result reports the outcome of one admission check.
type Result struct {
	Allowed   bool
	Remaining int
	ResetAt   time.Time
}

// Err converts a denial into the typed rate-limited error carrying the
// retry hint. Returns nil when the request was admitted.
func (r Result) Err() error {
	if r.Allowed {
		return nil
	}
	return &domain.RateLimitedError{
		RetryAfter: time.Until(r.ResetAt),
		ResetAt:    r.ResetAt,
	}
}

// Store counts requests per key within a window. Implementations are
// constructor-injected so tests get isolated instances instead of a
// shared module-level map.
type Store interface {
	// Incr bumps the counter for key, starting a fresh window when the
	// previous one has expired, and returns the new count and the
	// window's reset time.
	Incr(ctx context.Context, key string, window time.Duration) (count int, resetAt time.Time, err error)
}

// Limiter applies one policy (max requests per window) over a Store.
type Limiter struct {
	store  Store
	max    int
	window time.Duration
}

func New(store Store, max int, window time.Duration) *Limiter {
	return &Limiter{store: store, max: max, window: window}
}

// Check admits or denies one request for key.
func (l *Limiter) Check(ctx context.Context, key string) (Result, error) {
	count, resetAt, err := l.store.Incr(ctx, key, l.window)
	if err != nil {
		return Result{}, err
	}

	remaining := l.max - count
	if remaining < 0 {
		remaining = 0
	}
	return Result{
		Allowed:   count <= l.max,
		Remaining: remaining,
		ResetAt:   resetAt,
	}, nil
}
