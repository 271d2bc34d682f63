package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Wrap adds context to errors at package boundaries.
// It returns nil if err is nil, allowing for safe inline usage.
//
// The wrapped error preserves the original error chain, enabling
// errors.Is() checks to continue working:
//
//	if err := store.Write(ctx, params, cfg, cs); err != nil {
//	    return errors.Wrap(err, "failed to write configuration")
//	}
//
// IMPORTANT: Only wrap errors at package boundaries to avoid
// overly nested error messages.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// Wrapf adds formatted context to errors at package boundaries.
// It returns nil if err is nil, allowing for safe inline usage.
//
//	return errors.Wrapf(err, "failed to sync module %s", moduleKey)
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	msg := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %w", msg, err)
}

// ValidationError collects every problem found while validating an input so
// callers can report them together. It unwraps to its sentinel.
type ValidationError struct {
	Sentinel error
	Details  []string
}

// NewValidationError returns nil when details is empty.
func NewValidationError(sentinel error, details []string) error {
	if len(details) == 0 {
		return nil
	}
	return &ValidationError{Sentinel: sentinel, Details: details}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Sentinel, strings.Join(e.Details, "; "))
}

func (e *ValidationError) Unwrap() error {
	return e.Sentinel
}

// Details returns the detail strings of the first ValidationError in the
// chain, or nil.
func Details(err error) []string {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Details
	}
	return nil
}
