package retry_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandnico/rsvp-service/pkg/retry"
)

type transientErr struct{ msg string }

func (e *transientErr) Error() string   { return e.msg }
func (e *transientErr) Transient() bool { return true }

type statusErr struct{ status int }

func (e *statusErr) Error() string   { return "http error" }
func (e *statusErr) StatusCode() int { return e.status }

func fastOptions(classifier func(error, int) bool) retry.Options {
	return retry.Options{
		MaxAttempts:   3,
		InitialDelay:  time.Millisecond,
		BackoffFactor: 2,
		MaxDelay:      5 * time.Millisecond,
		ShouldRetry:   classifier,
	}
}

func TestDoSucceedsFirstAttempt(t *testing.T) {
	attempts := 0
	err := retry.Do(context.Background(), fastOptions(func(error, int) bool { return true }), func(ctx context.Context) error {
		attempts++
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, attempts)
}

func TestDoNonRetryableFailsImmediately(t *testing.T) {
	sentinel := errors.New("constraint violated")
	attempts := 0

	err := retry.Do(context.Background(), fastOptions(func(error, int) bool { return false }), func(ctx context.Context) error {
		attempts++
		return sentinel
	})

	// Regardless of MaxAttempts, a non-retryable failure is surfaced
	// from the first attempt, unchanged.
	require.ErrorIs(t, err, sentinel)
	assert.Equal(t, 1, attempts)
}

func TestDoExhaustsAttempts(t *testing.T) {
	sentinel := errors.New("connection refused")
	attempts := 0

	err := retry.Do(context.Background(), fastOptions(func(error, int) bool { return true }), func(ctx context.Context) error {
		attempts++
		return sentinel
	})

	require.ErrorIs(t, err, sentinel)
	assert.Equal(t, 3, attempts)
}

func TestDoRecoversAfterTransientFailures(t *testing.T) {
	attempts := 0
	err := retry.Do(context.Background(), fastOptions(func(error, int) bool { return true }), func(ctx context.Context) error {
		attempts++
		if attempts < 3 {
			return errors.New("timeout")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestDoClassifierSeesAttemptNumber(t *testing.T) {
	var seen []int
	sentinel := errors.New("flaky")

	opts := fastOptions(func(_ error, attempt int) bool {
		seen = append(seen, attempt)
		return true
	})
	err := retry.Do(context.Background(), opts, func(ctx context.Context) error {
		return sentinel
	})

	require.ErrorIs(t, err, sentinel)
	assert.Equal(t, []int{1, 2, 3}, seen)
}

func TestDoRespectsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	opts := retry.Options{
		MaxAttempts:  5,
		InitialDelay: time.Minute,
		ShouldRetry:  func(error, int) bool { return true },
	}

	done := make(chan error, 1)
	go func() {
		done <- retry.Do(ctx, opts, func(ctx context.Context) error {
			return errors.New("always failing")
		})
	}()

	cancel()
	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("retry did not stop after cancellation")
	}
}

func TestStorageRetryable(t *testing.T) {
	assert.True(t, retry.StorageRetryable(&transientErr{msg: "connection reset"}, 1))
	assert.True(t, retry.StorageRetryable(context.DeadlineExceeded, 1))
	assert.False(t, retry.StorageRetryable(errors.New("duplicate key value"), 1))
}

func TestNetworkRetryable(t *testing.T) {
	assert.True(t, retry.NetworkRetryable(&statusErr{status: 500}, 1))
	assert.True(t, retry.NetworkRetryable(&statusErr{status: 503}, 1))
	assert.False(t, retry.NetworkRetryable(&statusErr{status: 400}, 1))
	assert.False(t, retry.NetworkRetryable(&statusErr{status: 404}, 1))
	assert.True(t, retry.NetworkRetryable(&transientErr{msg: "timeout"}, 1))
}
