package prompts

import (
	"bytes"
	"errors"
	"fmt"
)

// Render executes a prompt template with the provided data and returns the result.
// Data for the summary, conversation and finalize prompts is checked with
// ValidateData first.
//
// Example:
//
//	prompt, err := prompts.Render(prompts.Summary, prompts.SummaryData{
//	    Config: files.ConfigContent,
//	})
func Render(id PromptID, data any) (string, error) {
	tmpl, err := globalRegistry.get(id)
	if err != nil {
		return "", err
	}
	if err := ValidateData(id, data); err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", errors.Join(ErrTemplateExecution, fmt.Errorf("prompt %s: %w", id, err))
	}

	return buf.String(), nil
}

// ValidateData checks if the provided data is valid for the given prompt ID.
// This performs basic type checking and required field validation.
func ValidateData(id PromptID, data any) error {
	switch id {
	case Summary:
		d, ok := data.(SummaryData)
		if !ok {
			return fmt.Errorf("%w: expected SummaryData, got %T", ErrInvalidData, data)
		}
		if d.Config == "" {
			return fmt.Errorf("%w: Config is required", ErrInvalidData)
		}
	case Conversation:
		d, ok := data.(ConversationData)
		if !ok {
			return fmt.Errorf("%w: expected ConversationData, got %T", ErrInvalidData, data)
		}
		if d.Message == "" {
			return fmt.Errorf("%w: Message is required", ErrInvalidData)
		}
	case Finalize:
		d, ok := data.(FinalizeData)
		if !ok {
			return fmt.Errorf("%w: expected FinalizeData, got %T", ErrInvalidData, data)
		}
		if d.OrgKey == "" || d.CurrentConfig == "" {
			return fmt.Errorf("%w: OrgKey and CurrentConfig are required", ErrInvalidData)
		}
	}
	return nil
}
