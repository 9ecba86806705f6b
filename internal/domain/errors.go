package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// FieldError is one user-fixable problem with a submitted field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError collects every field problem found in a submission so
// the UI can display them all at once. Deterministic, never retried.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, fmt.Sprintf("%s: %s", f.Field, f.Message))
	}
	return "invalid submission: " + strings.Join(msgs, ", ")
}

// ConflictError reports a uniqueness violation on the guest name. The
// coordinator resolves it internally via the update-by-name fallback;
// it only surfaces when that fallback itself fails.
type ConflictError struct {
	Name string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("a response with the name %q already exists", e.Name)
}

// TransientError wraps a connection or timeout class failure. Retried
// per policy, then surfaced as "please try again".
type TransientError struct {
	Op  string
	Err error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransientError) Unwrap() error { return e.Err }

// Transient marks the error retryable for the retry policy.
func (e *TransientError) Transient() bool { return true }

// NotFoundError reports that the targeted guest record no longer exists.
type NotFoundError struct {
	ID int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("guest %d not found", e.ID)
}

// ConfigurationError means the deployment itself is broken (missing
// schema, bad credentials). No amount of user retrying fixes it, so it
// gets an operator-facing message distinct from user-facing ones.
type ConfigurationError struct {
	Reason string
	Err    error
}

func (e *ConfigurationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("configuration: %s: %v", e.Reason, e.Err)
	}
	return "configuration: " + e.Reason
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// RateLimitedError carries the retry hint so the endpoint can answer
// with a 429 and a Retry-After header rather than a generic failure.
type RateLimitedError struct {
	RetryAfter time.Duration
	ResetAt    time.Time
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("rate limited, retry after %s", e.RetryAfter)
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}

func IsTransient(err error) bool {
	var te *TransientError
	return errors.As(err, &te)
}

func IsNotFound(err error) bool {
	var ne *NotFoundError
	return errors.As(err, &ne)
}

func IsConfiguration(err error) bool {
	var ce *ConfigurationError
	return errors.As(err, &ce)
}
