package ai

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/mrz1836/customizer/internal/constants"
	"github.com/mrz1836/customizer/internal/ctxutil"
	"github.com/mrz1836/customizer/internal/domain"
)

// ExecuteFunc performs a single attempt of a request.
type ExecuteFunc func(ctx context.Context, req *domain.AIRequest) (*domain.AIResult, error)

// BaseRunner holds the timeout and retry policy shared by runners.
type BaseRunner struct {
	// Timeout is used when the request sets none.
	Timeout time.Duration

	// MaxAttempts is the total number of attempts, at least 1.
	MaxAttempts int

	// ErrType wraps the last error once retries are exhausted.
	ErrType error

	Logger zerolog.Logger
}

// ResolveTimeout determines the timeout to use for a request.
// Priority: request timeout > runner timeout > default timeout.
func (b *BaseRunner) ResolveTimeout(req *domain.AIRequest) time.Duration {
	if req.Timeout > 0 {
		return req.Timeout
	}
	if b.Timeout > 0 {
		return b.Timeout
	}
	return constants.DefaultAITimeout
}

// RunWithTimeout executes req with a timeout and retry handling. The result
// records the attempt count and total duration.
func (b *BaseRunner) RunWithTimeout(ctx context.Context, req *domain.AIRequest, execute ExecuteFunc) (*domain.AIResult, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return nil, err
	}

	runCtx, cancel := context.WithTimeout(ctx, b.ResolveTimeout(req))
	defer cancel()

	start := time.Now()
	result, attempts, err := b.runWithRetry(runCtx, req, execute)
	if err != nil {
		return nil, err
	}
	result.Attempts = attempts
	result.DurationMs = time.Since(start).Milliseconds()
	return result, nil
}

func (b *BaseRunner) maxAttempts() int {
	if b.MaxAttempts > 0 {
		return b.MaxAttempts
	}
	return constants.MaxRetryAttempts
}

// runWithRetry executes the request with exponential backoff. Only transient
// errors are retried; non-retryable errors return immediately.
func (b *BaseRunner) runWithRetry(ctx context.Context, req *domain.AIRequest, execute ExecuteFunc) (*domain.AIResult, int, error) {
	var lastErr error
	backoff := constants.InitialBackoff
	maxAttempts := b.maxAttempts()

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			b.Logger.Debug().
				Int("attempt", attempt).
				Int("max_attempts", maxAttempts).
				Msg("retrying AI request")
		}

		result, err := execute(ctx, req)
		if err == nil {
			if attempt > 1 {
				b.Logger.Info().
					Int("attempt", attempt).
					Msg("AI request succeeded after retry")
			}
			return result, attempt, nil
		}

		if !isRetryable(err) {
			b.Logger.Debug().
				Err(err).
				Int("attempt", attempt).
				Msg("AI request failed with non-retryable error")
			return nil, attempt, ctxutil.MapTimeout(err)
		}

		lastErr = err
		if attempt < maxAttempts {
			b.Logger.Warn().
				Err(err).
				Int("attempt", attempt).
				Int("max_attempts", maxAttempts).
				Dur("backoff", backoff).
				Msg("AI request failed, will retry after backoff")

			select {
			case <-ctx.Done():
				return nil, attempt, ctxutil.MapTimeout(ctx.Err())
			case <-timeSleep(backoff):
				backoff = nextBackoff(backoff)
			}
		}
	}

	b.Logger.Error().
		Err(lastErr).
		Int("max_attempts", maxAttempts).
		Msg("AI request failed after max retries")

	return nil, maxAttempts, fmt.Errorf("%w: max retries exceeded: %w", b.ErrType, lastErr)
}

func nextBackoff(d time.Duration) time.Duration {
	next := time.Duration(float64(d) * constants.BackoffMultiplier)
	if next > constants.MaxBackoff {
		return constants.MaxBackoff
	}
	return next
}
