// Package domain provides shared domain types for the configuration customizer.
package domain

import "time"

// Role identifies the author of a chat message.
type Role string

// Chat roles.
const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// ChatMessage is one turn of a customization conversation.
type ChatMessage struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// AIRequest contains the parameters for one LLM call.
//
// Example JSON representation:
//
//	{
//	    "prompt": "Analyze this ERP module configuration...",
//	    "system_prompt": "You are an expert ERP Configuration Assistant...",
//	    "model": "claude-3-5-sonnet-20241022",
//	    "max_tokens": 4096,
//	    "temperature": 0.2,
//	    "timeout": "150s"
//	}
type AIRequest struct {
	// Prompt is the user message sent to the model.
	Prompt string `json:"prompt"`

	// SystemPrompt is sent as the system instruction when non-empty.
	SystemPrompt string `json:"system_prompt,omitempty"`

	// History is prepended to Prompt as prior turns.
	History []ChatMessage `json:"history,omitempty"`

	// Model overrides the client's default model.
	Model string `json:"model,omitempty"`

	// MaxTokens caps the response length. Zero uses the client default.
	MaxTokens int `json:"max_tokens,omitempty"`

	// Temperature controls sampling. Nil uses the provider default.
	Temperature *float64 `json:"temperature,omitempty"`

	// Timeout bounds the whole call including retries.
	Timeout time.Duration `json:"timeout"`
}

// AIResult captures the outcome of one LLM call.
type AIResult struct {
	// Output is the concatenated text content of the response.
	Output string `json:"output"`

	// Model is the model that produced the response.
	Model string `json:"model"`

	// StopReason is the provider's stop reason.
	StopReason string `json:"stop_reason,omitempty"`

	// InputTokens and OutputTokens report usage.
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`

	// DurationMs is how long the call took including retries.
	DurationMs int64 `json:"duration_ms"`

	// Attempts is how many HTTP attempts were made.
	Attempts int `json:"attempts"`
}

// Float returns a pointer to v, for optional numeric request fields.
func Float(v float64) *float64 {
	return &v
}
