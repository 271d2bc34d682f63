// Package ctxutil provides context helpers shared by the store, the sync engine
// and the request handlers.
package ctxutil

import (
	"context"
	"errors"
	"time"

	cerrors "github.com/mrz1836/customizer/internal/errors"
)

// Canceled returns the context error if ctx is done, nil otherwise.
// Used at function entry points before touching the filesystem or the network.
func Canceled(ctx context.Context) error {
	return ctx.Err()
}

// WithTimeout derives a context bounded by d. A non-positive d returns a
// cancelable context without a deadline.
func WithTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

// MapTimeout converts a deadline expiry into ErrRequestTimeout so callers can
// map it to a gateway-timeout response. Other errors pass through.
func MapTimeout(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, cerrors.ErrRequestTimeout) {
		return errors.Join(cerrors.ErrRequestTimeout, err)
	}
	return err
}
