package ai

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mrz1836/customizer/internal/domain"
	cerrors "github.com/mrz1836/customizer/internal/errors"
)

// messagesRequest is the Messages API request body.
type messagesRequest struct {
	Model       string           `json:"model"`
	MaxTokens   int              `json:"max_tokens"`
	System      string           `json:"system,omitempty"`
	Messages    []messageContent `json:"messages"`
	Temperature *float64         `json:"temperature,omitempty"`
}

type messageContent struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// messagesResponse is the subset of the Messages API response we read.
type messagesResponse struct {
	ID         string `json:"id"`
	Type       string `json:"type"`
	Model      string `json:"model"`
	StopReason string `json:"stop_reason"`
	Content    []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Usage struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

// errorResponse is the Messages API error body.
type errorResponse struct {
	Type  string `json:"type"`
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// buildMessages turns history plus prompt into alternating API messages.
// System turns are dropped and consecutive same-role turns are merged, since
// the API rejects both.
func buildMessages(req *domain.AIRequest) []messageContent {
	msgs := make([]messageContent, 0, len(req.History)+1)
	add := func(role domain.Role, content string) {
		if strings.TrimSpace(content) == "" {
			return
		}
		if n := len(msgs); n > 0 && msgs[n-1].Role == string(role) {
			msgs[n-1].Content += "\n\n" + content
			return
		}
		msgs = append(msgs, messageContent{Role: string(role), Content: content})
	}

	for _, m := range req.History {
		if m.Role == domain.RoleUser || m.Role == domain.RoleAssistant {
			add(m.Role, m.Content)
		}
	}
	add(domain.RoleUser, req.Prompt)

	// The conversation must open with a user turn.
	for len(msgs) > 0 && msgs[0].Role != string(domain.RoleUser) {
		msgs = msgs[1:]
	}
	return msgs
}

// parseMessagesResponse decodes a 2xx body into an AIResult.
func parseMessagesResponse(data []byte) (*domain.AIResult, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty body", cerrors.ErrAIEmptyResponse)
	}

	var resp messagesResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("%w: %w", cerrors.ErrAIInvalidFormat, err)
	}

	var text strings.Builder
	for _, c := range resp.Content {
		if c.Type == "text" {
			text.WriteString(c.Text)
		}
	}
	output := strings.TrimSpace(text.String())
	if output == "" {
		return nil, fmt.Errorf("%w: no text content (stop_reason %q)", cerrors.ErrAIEmptyResponse, resp.StopReason)
	}

	return &domain.AIResult{
		Output:       output,
		Model:        resp.Model,
		StopReason:   resp.StopReason,
		InputTokens:  resp.Usage.InputTokens,
		OutputTokens: resp.Usage.OutputTokens,
	}, nil
}

// parseAPIError builds an APIError from a non-2xx response.
func parseAPIError(status int, data []byte) *APIError {
	apiErr := &APIError{StatusCode: status}
	var body errorResponse
	if err := json.Unmarshal(data, &body); err == nil && body.Error.Message != "" {
		apiErr.Type = body.Error.Type
		apiErr.Message = body.Error.Message
		return apiErr
	}
	msg := strings.TrimSpace(string(data))
	if len(msg) > 200 {
		msg = msg[:200]
	}
	apiErr.Message = msg
	return apiErr
}
