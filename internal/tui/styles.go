// Package tui provides terminal output components for the customizer CLI.
//
// All colors use lipgloss.AdaptiveColor for light/dark terminal support.
//
// # Semantic Colors
//
//   - ColorPrimary (Blue): active states and primary actions
//   - ColorSuccess (Green): completed writes and successful syncs
//   - ColorWarning (Yellow): skipped syncs and validation warnings
//   - ColorError (Red): failures
//   - ColorMuted (Gray): secondary text
//
// # NO_COLOR Support
//
// Call CheckNoColor() at the start of commands to respect the NO_COLOR
// environment variable. Colors are also disabled when TERM=dumb.
package tui

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/mrz1836/customizer/internal/domain"
)

//nolint:gochecknoglobals // Intentional package-level constants for TUI styling API
var (
	// ColorPrimary is blue, used for active states and primary actions.
	ColorPrimary = lipgloss.AdaptiveColor{Light: "#0087AF", Dark: "#00D7FF"}

	// ColorSuccess is green, used for success states.
	ColorSuccess = lipgloss.AdaptiveColor{Light: "#008700", Dark: "#00FF87"}

	// ColorWarning is yellow, used for warnings.
	ColorWarning = lipgloss.AdaptiveColor{Light: "#AF8700", Dark: "#FFD700"}

	// ColorError is red, used for errors.
	ColorError = lipgloss.AdaptiveColor{Light: "#AF0000", Dark: "#FF5F5F"}

	// ColorMuted is gray, used for secondary text.
	ColorMuted = lipgloss.AdaptiveColor{Light: "#585858", Dark: "#6C6C6C"}

	// StyleBold applies bold formatting to text.
	StyleBold = lipgloss.NewStyle().Bold(true)

	// StyleDim applies dim formatting to text.
	StyleDim = lipgloss.NewStyle().Faint(true)
)

// TableStyles holds lipgloss styles for table rendering.
type TableStyles struct {
	Header lipgloss.Style
	Cell   lipgloss.Style
	Dim    lipgloss.Style
}

// NewTableStyles creates styles for table rendering.
func NewTableStyles() *TableStyles {
	return &TableStyles{
		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#333333", Dark: "#DDDDDD"}),
		Cell: lipgloss.NewStyle(),
		Dim: lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#666666", Dark: "#888888"}),
	}
}

// OutputStyles holds common output styles.
type OutputStyles struct {
	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style
	Dim     lipgloss.Style
}

// NewOutputStyles creates common output styles.
func NewOutputStyles() *OutputStyles {
	return &OutputStyles{
		Success: lipgloss.NewStyle().
			Foreground(ColorSuccess).
			Bold(true),
		Error: lipgloss.NewStyle().
			Foreground(ColorError).
			Bold(true),
		Warning: lipgloss.NewStyle().
			Foreground(ColorWarning),
		Info: lipgloss.NewStyle().
			Foreground(ColorPrimary),
		Dim: lipgloss.NewStyle().
			Foreground(ColorMuted),
	}
}

// CheckNoColor respects the NO_COLOR environment variable.
func CheckNoColor() {
	if !HasColorSupport() {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
}

// HasColorSupport returns false if NO_COLOR is set (any value, including
// empty) or TERM=dumb. See https://no-color.org/.
func HasColorSupport() bool {
	if _, exists := os.LookupEnv("NO_COLOR"); exists {
		return false
	}
	return os.Getenv("TERM") != "dumb"
}

// GroupSyncIcon returns the status icon of a group sync outcome.
func GroupSyncIcon(status domain.GroupSyncStatus) string {
	switch status {
	case domain.GroupSyncCompleted:
		return "✓"
	case domain.GroupSyncSkipped:
		return "⚠"
	case domain.GroupSyncNotGrouped:
		return "○"
	default:
		return "?"
	}
}

// GroupSyncColor returns the semantic color of a group sync outcome.
func GroupSyncColor(status domain.GroupSyncStatus) lipgloss.AdaptiveColor {
	switch status {
	case domain.GroupSyncCompleted:
		return ColorSuccess
	case domain.GroupSyncSkipped:
		return ColorWarning
	default:
		return ColorMuted
	}
}

// TierColor returns the color used when printing a resolved tier.
func TierColor(tier domain.Tier) lipgloss.AdaptiveColor {
	switch tier {
	case domain.TierUser:
		return ColorSuccess
	case domain.TierIndustry:
		return ColorPrimary
	default:
		return ColorMuted
	}
}

// RenderGroupSync formats a group sync report as a single status line, for
// example "✓ group sync completed (STAFF: FM_STAFF_ATTENDANCE)".
func RenderGroupSync(r domain.GroupSyncReport) string {
	line := GroupSyncIcon(r.Status) + " group sync " + string(r.Status)
	switch {
	case r.GroupName != "" && len(r.SyncedModules) > 0:
		line += " (" + r.GroupName + ": " + strings.Join(r.SyncedModules, ", ") + ")"
	case r.GroupName != "":
		line += " (" + r.GroupName + ")"
	}
	if r.Reason != "" {
		line += ": " + r.Reason
	}
	return lipgloss.NewStyle().Foreground(GroupSyncColor(r.Status)).Render(line)
}
