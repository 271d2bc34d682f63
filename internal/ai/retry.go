package ai

import (
	"context"
	"errors"
	"time"

	cerrors "github.com/mrz1836/customizer/internal/errors"
)

// errLimiterWait marks a local rate-limiter refusal. It is never retried.
var errLimiterWait = errors.New("rate limiter wait")

// timeSleep is a wrapper for time.After that can be overridden in tests.
//
//nolint:gochecknoglobals // Required for test mocking
var timeSleep = func(d time.Duration) <-chan time.Time {
	return time.After(d)
}

// isRetryable reports whether err is transient. Context errors, missing
// keys, client errors and undecodable bodies are final; API errors are
// retried by status; anything else (transport failures) is retried.
func isRetryable(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	if errors.Is(err, cerrors.ErrAPIKeyMissing) ||
		errors.Is(err, cerrors.ErrAIInvalidFormat) ||
		errors.Is(err, cerrors.ErrAIEmptyResponse) ||
		errors.Is(err, errLimiterWait) {
		return false
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Transient()
	}

	return true
}
