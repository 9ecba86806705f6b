// Package retry wraps an operation with bounded re-execution and
// exponential backoff. Whether a failure is worth another attempt is
// decided by a pluggable classifier, so callers can distinguish
// transient faults from deterministic ones.
package retry

import (
	"context"
	"errors"
	"net"
	"time"

	backoff "github.com/sethvargo/go-retry"
)

const (
	DefaultMaxAttempts  = 3
	DefaultInitialDelay = time.Second
	DefaultBackoff      = 2.0
	DefaultMaxDelay     = 10 * time.Second
)

// Options configures a retry policy. The zero value gets the defaults
// above and a classifier that retries transient errors only.
type Options struct {
	MaxAttempts   int
	InitialDelay  time.Duration
	BackoffFactor float64
	MaxDelay      time.Duration

	// ShouldRetry is consulted after each failed attempt. Returning
	// false propagates the error immediately.
	ShouldRetry func(err error, attempt int) bool
}

func (o Options) withDefaults() Options {
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = DefaultMaxAttempts
	}
	if o.InitialDelay <= 0 {
		o.InitialDelay = DefaultInitialDelay
	}
	if o.BackoffFactor <= 0 {
		o.BackoffFactor = DefaultBackoff
	}
	if o.MaxDelay <= 0 {
		o.MaxDelay = DefaultMaxDelay
	}
	if o.ShouldRetry == nil {
		o.ShouldRetry = StorageRetryable
	}
	return o
}

// expBackoff yields initial*factor^(n-1) capped at max, and stops once
// maxAttempts operations have run. No jitter: concurrency here is low
// enough that synchronized retries are not a concern.
type expBackoff struct {
	opts    Options
	attempt int
}

func (b *expBackoff) Next() (time.Duration, bool) {
	b.attempt++
	if b.attempt >= b.opts.MaxAttempts {
		return 0, true
	}
	d := b.opts.InitialDelay
	for i := 1; i < b.attempt; i++ {
		d = time.Duration(float64(d) * b.opts.BackoffFactor)
		if d >= b.opts.MaxDelay {
			return b.opts.MaxDelay, false
		}
	}
	if d > b.opts.MaxDelay {
		d = b.opts.MaxDelay
	}
	return d, false
}

// Do runs op until it succeeds, the classifier rejects the error, or
// MaxAttempts is reached. The last error is returned unchanged so the
// caller sees the original cause.
func Do(ctx context.Context, opts Options, op func(ctx context.Context) error) error {
	opts = opts.withDefaults()

	attempt := 0
	return backoff.Do(ctx, &expBackoff{opts: opts}, func(ctx context.Context) error {
		attempt++
		err := op(ctx)
		if err == nil {
			return nil
		}
		if !opts.ShouldRetry(err, attempt) {
			return err
		}
		return backoff.RetryableError(err)
	})
}

// transient is implemented by errors that mark themselves as worth
// retrying, such as the storage layer's connection failures.
type transient interface {
	Transient() bool
}

// statusError is implemented by errors carrying an HTTP status code.
type statusError interface {
	StatusCode() int
}

// StorageRetryable retries only connection and timeout class failures.
// Validation and constraint violations are deterministic: re-attempting
// them either fails identically or masks a logic bug.
func StorageRetryable(err error, _ int) bool {
	var t transient
	if errors.As(err, &t) {
		return t.Transient()
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded)
}

// NetworkRetryable additionally retries server-side (5xx) failures.
// Client-shaped (4xx) errors are never retried.
func NetworkRetryable(err error, attempt int) bool {
	var se statusError
	if errors.As(err, &se) {
		return se.StatusCode() >= 500
	}
	return StorageRetryable(err, attempt)
}
