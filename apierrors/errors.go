// Package apierrors defines the error taxonomy of the SDK. Every error kind
// carries machine-readable fields so calling code can branch without
// string-matching messages.
package apierrors

import (
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// ValidationError means a local input failed validation. No network call was
// made. Fields maps field names to detailed messages.
type ValidationError struct {
	Message string
	Fields  url.Values
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	keys := make([]string, 0, len(e.Fields))
	for key := range e.Fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	details := make([]string, 0, len(keys))
	for _, key := range keys {
		details = append(details, fmt.Sprintf("%s: %s", key, strings.Join(e.Fields[key], ", ")))
	}
	return fmt.Sprintf("%s (%s)", e.Message, strings.Join(details, "; "))
}

// NewValidation builds a ValidationError from a field error map.
func NewValidation(message string, fields url.Values) error {
	return &ValidationError{Message: message, Fields: fields}
}

// AuthError means the remote rejected the credentials or signature (401).
// Not retried - the caller must fix the credentials.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	return e.Message
}

// RateLimitError means the remote replied 429. RetryAfter is in seconds,
// Reset is the unix timestamp when the current window ends. A zero value for
// any field means the corresponding header was absent.
type RateLimitError struct {
	Message    string
	RetryAfter int
	Limit      int
	Remaining  int
	Reset      int64
}

func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("%s (retry after %d seconds)", e.Message, e.RetryAfter)
	}
	return e.Message
}

// APIError is any other non-2xx response, after retries were exhausted for
// retryable statuses. Response holds the raw body for diagnosis.
type APIError struct {
	Message    string
	StatusCode int
	Response   json.RawMessage
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (status %d): %s", e.StatusCode, e.Message)
}

// NetworkError is a transport-level failure (timeout, connection refused,
// DNS) after retries were exhausted. It wraps the low-level error.
type NetworkError struct {
	Message string
	Err     error
}

func (e *NetworkError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}
