package response

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/sandnico/rsvp-service/internal/domain"
	"github.com/sandnico/rsvp-service/pkg/logger"
)

// ErrorResponse is the structured JSON error body.
type ErrorResponse struct {
	Error      string              `json:"error"`
	Code       string              `json:"code,omitempty"`
	Fields     []domain.FieldError `json:"fields,omitempty"`
	RetryAfter int                 `json:"retry_after,omitempty"` // seconds
}

// Common error codes
const (
	CodeInvalidInput  = "INVALID_INPUT"
	CodeUnauthorized  = "UNAUTHORIZED"
	CodeNotFound      = "NOT_FOUND"
	CodeConflict      = "CONFLICT"
	CodeRateLimit     = "RATE_LIMIT_EXCEEDED"
	CodeConfiguration = "CONFIGURATION_ERROR"
	CodeInternalError = "INTERNAL_ERROR"
)

func WriteJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error("Failed to encode response", "error", err)
	}
}

func WriteError(w http.ResponseWriter, statusCode int, message, code string) {
	WriteJSON(w, statusCode, ErrorResponse{Error: message, Code: code})
}

func BadRequest(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusBadRequest, message, CodeInvalidInput)
}

// ValidationFailed carries per-field messages so the form can mark each
// offending input.
func ValidationFailed(w http.ResponseWriter, ve *domain.ValidationError) {
	WriteJSON(w, http.StatusBadRequest, ErrorResponse{
		Error:  "Submission failed validation",
		Code:   CodeInvalidInput,
		Fields: ve.Fields,
	})
}

func Unauthorized(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusUnauthorized, message, CodeUnauthorized)
}

func NotFound(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusNotFound, message, CodeNotFound)
}

func Conflict(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusConflict, message, CodeConflict)
}

func InternalError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusInternalServerError, message, CodeInternalError)
}

// ConfigurationError signals the deployment is broken, distinct from the
// generic server error so operators recognize it.
func ConfigurationError(w http.ResponseWriter) {
	WriteError(w, http.StatusInternalServerError, "Service misconfigured, contact the operator", CodeConfiguration)
}

// RateLimited answers 429 with the Retry-After hint, never a generic
// failure, so the UI can show a countdown.
func RateLimited(w http.ResponseWriter, resetAt time.Time) {
	retryAfter := int(time.Until(resetAt).Seconds() + 0.999)
	if retryAfter < 1 {
		retryAfter = 1
	}
	w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
	WriteJSON(w, http.StatusTooManyRequests, ErrorResponse{
		Error:      "Too many requests, try again later",
		Code:       CodeRateLimit,
		RetryAfter: retryAfter,
	})
}

// RateLimitedMinimal is the read-path variant: reads are low-stakes, so
// the error body stays minimal.
func RateLimitedMinimal(w http.ResponseWriter) {
	WriteJSON(w, http.StatusTooManyRequests, ErrorResponse{
		Error: "Too many requests",
		Code:  CodeRateLimit,
	})
}
