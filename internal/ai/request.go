package ai

import (
	"time"

	"github.com/mrz1836/customizer/internal/domain"
)

// RequestOption is a functional option for configuring an AIRequest.
type RequestOption func(*domain.AIRequest)

// NewAIRequest creates a new AIRequest with the given prompt and options.
//
// Example:
//
//	req := NewAIRequest(prompt,
//	    WithSystemPrompt(system),
//	    WithMaxTokens(1000),
//	    WithTemperature(0.7),
//	)
func NewAIRequest(prompt string, opts ...RequestOption) *domain.AIRequest {
	req := &domain.AIRequest{Prompt: prompt}
	for _, opt := range opts {
		opt(req)
	}
	return req
}

// WithModel overrides the client's model for this request.
func WithModel(model string) RequestOption {
	return func(req *domain.AIRequest) {
		req.Model = model
	}
}

// WithTimeout bounds the request including retries.
func WithTimeout(timeout time.Duration) RequestOption {
	return func(req *domain.AIRequest) {
		req.Timeout = timeout
	}
}

// WithSystemPrompt sets the system instruction.
func WithSystemPrompt(prompt string) RequestOption {
	return func(req *domain.AIRequest) {
		req.SystemPrompt = prompt
	}
}

// WithHistory sets prior conversation turns. System-role messages are
// skipped when the request is sent.
func WithHistory(history []domain.ChatMessage) RequestOption {
	return func(req *domain.AIRequest) {
		req.History = history
	}
}

// WithMaxTokens caps the response length.
func WithMaxTokens(n int) RequestOption {
	return func(req *domain.AIRequest) {
		req.MaxTokens = n
	}
}

// WithTemperature sets the sampling temperature.
func WithTemperature(t float64) RequestOption {
	return func(req *domain.AIRequest) {
		req.Temperature = domain.Float(t)
	}
}
