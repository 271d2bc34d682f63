package tui

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"

	cerrors "github.com/mrz1836/customizer/internal/errors"
)

// ErrMenuCanceled is returned when the user aborts a prompt or no terminal
// is attached.
var ErrMenuCanceled = cerrors.ErrMenuCanceled

// Terminal layout constants.
const (
	// DefaultMenuWidth is used when the terminal size is unknown.
	DefaultMenuWidth = 80

	// TerminalEdgeMargin is left between menu content and the terminal edge.
	TerminalEdgeMargin = 4

	// MinMenuWidth is the narrowest usable menu.
	MinMenuWidth = 40
)

// Option is a selectable menu entry.
type Option struct {
	Label       string
	Description string
	Value       string
}

// interactive reports whether prompts can run. Tests and pipes have no TTY
// on stdin.
func interactive() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) //nolint:gosec // file descriptors fit in int
}

func adaptWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd())) //nolint:gosec // file descriptors fit in int
	if err != nil || width <= 0 {
		return DefaultMenuWidth
	}
	return max(min(width-TerminalEdgeMargin, DefaultMenuWidth), MinMenuWidth)
}

// runField runs a single-field form.
func runField(field huh.Field, errorContext string) error {
	if !interactive() {
		return ErrMenuCanceled
	}

	CheckNoColor()
	_, accessible := os.LookupEnv("ACCESSIBLE")

	form := huh.NewForm(huh.NewGroup(field)).
		WithTheme(CustomizerTheme()).
		WithWidth(adaptWidth()).
		WithAccessible(accessible)

	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return ErrMenuCanceled
		}
		return fmt.Errorf("%s: %w", errorContext, err)
	}
	return nil
}

// CustomizerTheme returns a huh theme using the semantic colors.
func CustomizerTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Base = t.Focused.Base.BorderForeground(ColorPrimary)
	t.Focused.Title = t.Focused.Title.Foreground(ColorPrimary)
	t.Focused.SelectSelector = t.Focused.SelectSelector.Foreground(ColorPrimary)
	t.Focused.SelectedOption = t.Focused.SelectedOption.Foreground(ColorPrimary)
	t.Focused.TextInput.Cursor = t.Focused.TextInput.Cursor.Foreground(ColorPrimary)
	t.Focused.FocusedButton = t.Focused.FocusedButton.Background(ColorPrimary)

	t.Focused.ErrorMessage = t.Focused.ErrorMessage.Foreground(ColorError)
	t.Focused.ErrorIndicator = t.Focused.ErrorIndicator.Foreground(ColorError)

	t.Blurred.Base = t.Blurred.Base.BorderForeground(ColorMuted)
	t.Blurred.Title = t.Blurred.Title.Foreground(ColorMuted)
	t.Focused.Description = t.Focused.Description.Foreground(ColorMuted)

	return t
}

// Confirm asks a yes/no question.
func Confirm(title, description string, defaultValue bool) (bool, error) {
	result := defaultValue
	field := huh.NewConfirm().
		Title(title).
		Description(description).
		Affirmative("Yes").
		Negative("No").
		Value(&result)

	if err := runField(field, "confirm"); err != nil {
		return false, err
	}
	return result, nil
}

// Input reads one line of text. An empty answer is returned as is.
func Input(title, placeholder string) (string, error) {
	var result string
	field := huh.NewInput().
		Title(title).
		Placeholder(placeholder).
		Value(&result)

	if err := runField(field, "input"); err != nil {
		return "", err
	}
	return result, nil
}

// Select presents a single-selection menu and returns the chosen Value.
func Select(title string, options []Option) (string, error) {
	if len(options) == 0 {
		return "", fmt.Errorf("select %q: %w", title, cerrors.ErrEmptyValue)
	}

	opts := make([]huh.Option[string], len(options))
	for i, o := range options {
		label := o.Label
		if o.Description != "" {
			label += " - " + o.Description
		}
		opts[i] = huh.NewOption(label, o.Value)
	}

	var result string
	field := huh.NewSelect[string]().
		Title(title).
		Options(opts...).
		Value(&result)

	if err := runField(field, "select"); err != nil {
		return "", err
	}
	return result, nil
}
