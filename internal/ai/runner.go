// Package ai sends prompts to the Anthropic Messages API.
//
// Client implements Runner over net/http. Calls are rate limited, bounded
// by a timeout and retried with exponential backoff when the failure is
// transient (HTTP 429, 5xx, transport errors).
//
// IMPORTANT: This package may import internal/constants, internal/errors,
// internal/ctxutil and internal/domain. It MUST NOT import internal/customize,
// internal/httpapi or internal/cli.
package ai

import (
	"context"

	"github.com/mrz1836/customizer/internal/domain"
)

// Runner executes one LLM request (exported as ai.Runner).
//
// The context controls timeout and cancellation. Failures wrap
// errors.ErrLLMInvocation, errors.ErrRateLimited or errors.ErrAIEmptyResponse.
type Runner interface {
	Run(ctx context.Context, req *domain.AIRequest) (*domain.AIResult, error)
}

// RunnerFunc adapts a function to Runner.
type RunnerFunc func(ctx context.Context, req *domain.AIRequest) (*domain.AIResult, error)

// Run calls f.
func (f RunnerFunc) Run(ctx context.Context, req *domain.AIRequest) (*domain.AIResult, error) {
	return f(ctx, req)
}
