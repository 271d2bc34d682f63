package errors_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cerrors "github.com/mrz1836/customizer/internal/errors"
)

// testError is a custom error type used to test default branches
// in UserMessage and HTTPStatus without matching any sentinel.
type testError struct {
	msg string
}

func (e testError) Error() string {
	return e.msg
}

func TestWrap(t *testing.T) {
	t.Run("nil error returns nil", func(t *testing.T) {
		assert.NoError(t, cerrors.Wrap(nil, "context"))
		assert.NoError(t, cerrors.Wrapf(nil, "context %d", 1))
	})

	t.Run("preserves chain", func(t *testing.T) {
		err := cerrors.Wrapf(cerrors.ErrNoConfigurationFound, "module %s", "FM_X")
		require.Error(t, err)
		require.ErrorIs(t, err, cerrors.ErrNoConfigurationFound)
		assert.Equal(t, "module FM_X: no configuration found", err.Error())
	})
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, http.StatusOK},
		{"missing parameters", cerrors.ErrMissingParameters, http.StatusBadRequest},
		{"invalid parameters wrapped", fmt.Errorf("ctx: %w", cerrors.ErrInvalidParameters), http.StatusBadRequest},
		{"no configuration", cerrors.Wrap(cerrors.ErrNoConfigurationFound, "resolve"), http.StatusNotFound},
		{"missing configuration section", cerrors.ErrMissingConfigurationSection, http.StatusInternalServerError},
		{"timeout", cerrors.ErrRequestTimeout, http.StatusGatewayTimeout},
		{"unknown error", testError{msg: "disk full"}, http.StatusInternalServerError},
		{"validation error", cerrors.NewValidationError(cerrors.ErrInvalidParameters, []string{"bad"}), http.StatusBadRequest},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, cerrors.HTTPStatus(tc.err))
		})
	}
}

func TestUserMessage(t *testing.T) {
	assert.Empty(t, cerrors.UserMessage(nil))
	assert.Equal(t, "disk full", cerrors.UserMessage(testError{msg: "disk full"}))
	assert.Equal(t, "Configuration section is missing or empty.",
		cerrors.UserMessage(cerrors.Wrap(cerrors.ErrMissingConfigurationSection, "parse")))
}

func TestActionable(t *testing.T) {
	msg, action := cerrors.Actionable(cerrors.ErrLockTimeout)
	assert.NotEmpty(t, msg)
	assert.NotEmpty(t, action)

	msg, action = cerrors.Actionable(nil)
	assert.Empty(t, msg)
	assert.Empty(t, action)
}

func TestValidationError(t *testing.T) {
	t.Run("empty details is nil", func(t *testing.T) {
		assert.NoError(t, cerrors.NewValidationError(cerrors.ErrInvalidParameters, nil))
	})

	t.Run("details survive wrapping", func(t *testing.T) {
		err := cerrors.NewValidationError(cerrors.ErrMissingParameters, []string{"orgKey is required", "moduleKey is required"})
		wrapped := cerrors.Wrap(err, "validate")

		require.ErrorIs(t, wrapped, cerrors.ErrMissingParameters)
		assert.Equal(t, []string{"orgKey is required", "moduleKey is required"}, cerrors.Details(wrapped))
		assert.Contains(t, err.Error(), "orgKey is required; moduleKey is required")
	})

	t.Run("details of plain error", func(t *testing.T) {
		assert.Nil(t, cerrors.Details(errors.New("x")))
	})
}
