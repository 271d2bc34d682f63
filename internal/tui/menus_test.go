package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cerrors "github.com/mrz1836/customizer/internal/errors"
)

// Test binaries run without a terminal on stdin, so every prompt cancels.
func TestMenus_NoTerminal(t *testing.T) {
	if interactive() {
		t.Skip("stdin is a terminal")
	}

	_, err := Confirm("Apply changes?", "", true)
	require.ErrorIs(t, err, ErrMenuCanceled)

	_, err = Input("Message", "")
	require.ErrorIs(t, err, ErrMenuCanceled)

	_, err = Select("Module", []Option{{Label: "Staff Master", Value: "FM_STAFF_MASTER"}})
	require.ErrorIs(t, err, ErrMenuCanceled)
}

func TestSelect_NoOptions(t *testing.T) {
	_, err := Select("Module", nil)
	require.ErrorIs(t, err, cerrors.ErrEmptyValue)
}

func TestCustomizerTheme(t *testing.T) {
	theme := CustomizerTheme()
	require.NotNil(t, theme)
	assert.Equal(t, ColorPrimary, theme.Focused.Title.GetForeground())
}

func TestAdaptWidth(t *testing.T) {
	w := adaptWidth()
	assert.GreaterOrEqual(t, w, MinMenuWidth)
	assert.LessOrEqual(t, w, DefaultMenuWidth)
}
