package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandnico/rsvp-service/internal/domain"
)

func newTestStore(start time.Time) (*MemoryStore, *time.Time) {
	current := start
	s := NewMemoryStore()
	s.now = func() time.Time { return current }
	return s, &current
}

func TestLimiterFixedWindow(t *testing.T) {
	start := time.Date(2026, 5, 21, 12, 0, 0, 0, time.UTC)
	store, _ := newTestStore(start)
	limiter := New(store, 5, time.Minute)
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		res, err := limiter.Check(ctx, "write:203.0.113.7")
		require.NoError(t, err)
		assert.True(t, res.Allowed, "request %d should be admitted", i)
		assert.Equal(t, 5-i, res.Remaining)
		assert.Equal(t, start.Add(time.Minute), res.ResetAt)
	}

	// The 6th request within the window is denied.
	res, err := limiter.Check(ctx, "write:203.0.113.7")
	require.NoError(t, err)
	assert.False(t, res.Allowed)
	assert.Equal(t, 0, res.Remaining)
	assert.Equal(t, start.Add(time.Minute), res.ResetAt)
}

func TestLimiterDenialCarriesRetryHint(t *testing.T) {
	store, _ := newTestStore(time.Now())
	limiter := New(store, 1, time.Minute)
	ctx := context.Background()

	res, err := limiter.Check(ctx, "k")
	require.NoError(t, err)
	require.NoError(t, res.Err())

	res, err = limiter.Check(ctx, "k")
	require.NoError(t, err)

	var rlErr *domain.RateLimitedError
	require.ErrorAs(t, res.Err(), &rlErr)
	assert.Equal(t, res.ResetAt, rlErr.ResetAt)
	assert.Greater(t, rlErr.RetryAfter, time.Duration(0))
	assert.LessOrEqual(t, rlErr.RetryAfter, time.Minute)
}

func TestLimiterWindowReset(t *testing.T) {
	start := time.Date(2026, 5, 21, 12, 0, 0, 0, time.UTC)
	store, current := newTestStore(start)
	limiter := New(store, 2, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := limiter.Check(ctx, "k")
		require.NoError(t, err)
	}

	// First request after the window resets is admitted with a fresh
	// counter.
	*current = start.Add(61 * time.Second)
	res, err := limiter.Check(ctx, "k")
	require.NoError(t, err)
	assert.True(t, res.Allowed)
	assert.Equal(t, 1, res.Remaining)
	assert.Equal(t, current.Add(time.Minute), res.ResetAt)
}

func TestLimiterKeysAreIndependent(t *testing.T) {
	store, _ := newTestStore(time.Now())
	limiter := New(store, 1, time.Minute)
	ctx := context.Background()

	res, err := limiter.Check(ctx, "write:a")
	require.NoError(t, err)
	assert.True(t, res.Allowed)

	res, err = limiter.Check(ctx, "write:a")
	require.NoError(t, err)
	assert.False(t, res.Allowed)

	// A different key, and a different class for the same client, each
	// get their own window.
	res, err = limiter.Check(ctx, "write:b")
	require.NoError(t, err)
	assert.True(t, res.Allowed)

	res, err = limiter.Check(ctx, "read:a")
	require.NoError(t, err)
	assert.True(t, res.Allowed)
}

func TestMemoryStoreSweep(t *testing.T) {
	start := time.Now()
	store, current := newTestStore(start)
	ctx := context.Background()

	_, _, err := store.Incr(ctx, "expired", time.Minute)
	require.NoError(t, err)
	_, _, err = store.Incr(ctx, "live", time.Hour)
	require.NoError(t, err)

	*current = start.Add(2 * time.Minute)
	assert.Equal(t, 1, store.Sweep())

	store.mu.Lock()
	_, expiredPresent := store.counters["expired"]
	_, livePresent := store.counters["live"]
	store.mu.Unlock()
	assert.False(t, expiredPresent)
	assert.True(t, livePresent)
}
