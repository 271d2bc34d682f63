package cli

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mrz1836/customizer/internal/errors"
	"github.com/mrz1836/customizer/internal/testutil"
)

func TestIsValidOutputFormat(t *testing.T) {
	assert.True(t, IsValidOutputFormat("text"))
	assert.True(t, IsValidOutputFormat("json"))
	assert.False(t, IsValidOutputFormat("yaml"))
	assert.False(t, IsValidOutputFormat(""))
	assert.Equal(t, []string{OutputText, OutputJSON}, ValidOutputFormats())
}

func TestExitCodeForError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"invalid output format", fmt.Errorf("bad: %w", errors.ErrInvalidOutputFormat), ExitInvalidInput},
		{"missing parameters", errors.NewValidationError(errors.ErrMissingParameters, []string{"orgKey is required"}), ExitInvalidInput},
		{"invalid parameters", errors.NewValidationError(errors.ErrInvalidParameters, []string{"bad module"}), ExitInvalidInput},
		{"path traversal", fmt.Errorf("resolve: %w", errors.ErrPathTraversal), ExitInvalidInput},
		{"unknown flag", stderrors.New("unknown flag: --nope"), ExitInvalidInput},
		{"required flag", stderrors.New(`required flag(s) "org" not set`), ExitInvalidInput},
		{"arg count", stderrors.New("accepts 1 arg(s), received 0"), ExitInvalidInput},
		{"validation failed", fmt.Errorf("x.csv: %w", errors.ErrValidationFailed), ExitError},
		{"llm failure", fmt.Errorf("%w: %w", errors.ErrLLMInvocation, testutil.ErrMockLLM), ExitError},
		{"storage failure", testutil.ErrMockStorage, ExitError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCodeForError(tt.err))
		})
	}
}
