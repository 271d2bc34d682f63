package ai

import (
	"fmt"
	"net/http"

	cerrors "github.com/mrz1836/customizer/internal/errors"
)

// APIError is a non-2xx response from the Messages API.
type APIError struct {
	StatusCode int
	Type       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Type != "" {
		return fmt.Sprintf("anthropic api status %d (%s): %s", e.StatusCode, e.Type, e.Message)
	}
	return fmt.Sprintf("anthropic api status %d: %s", e.StatusCode, e.Message)
}

// Unwrap maps the status to a sentinel so callers can use errors.Is.
func (e *APIError) Unwrap() error {
	if e.StatusCode == http.StatusTooManyRequests {
		return cerrors.ErrRateLimited
	}
	return cerrors.ErrLLMInvocation
}

// Transient reports whether the request may succeed if sent again. 529 is
// the API's "overloaded" status.
func (e *APIError) Transient() bool {
	return e.StatusCode == http.StatusTooManyRequests ||
		e.StatusCode == http.StatusRequestTimeout ||
		e.StatusCode >= http.StatusInternalServerError
}
