package tui

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"

	cerrors "github.com/mrz1836/customizer/internal/errors"
)

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Output provides methods for structured output to a terminal or a pipe.
type Output interface {
	// Success prints a success message.
	Success(msg string)
	// Error prints an error with its suggested action, when one exists.
	Error(err error)
	// Warning prints a warning message.
	Warning(msg string)
	// Info prints an informational message.
	Info(msg string)
	// Table prints rows under headers.
	Table(headers []string, rows [][]string)
	// Markdown prints an assistant reply.
	Markdown(text string)
	// JSON outputs a value as formatted JSON.
	JSON(v any) error
	// Spinner starts a progress indicator for a long call.
	Spinner(ctx context.Context, msg string) Spinner
}

// NewOutput creates the output for format. Unknown formats fall back to text.
func NewOutput(w io.Writer, format string) Output {
	if format == FormatJSON {
		return NewJSONOutput(w)
	}
	return NewTTYOutput(w)
}

// ValidFormat reports whether format is a supported --output value.
func ValidFormat(format string) bool {
	return format == FormatText || format == FormatJSON
}

// TTYOutput provides styled terminal output using Lip Gloss.
type TTYOutput struct {
	w      io.Writer
	styles *OutputStyles
	table  *TableStyles
}

var _ Output = (*TTYOutput)(nil)

// NewTTYOutput creates a new TTYOutput. Respects NO_COLOR.
func NewTTYOutput(w io.Writer) *TTYOutput {
	CheckNoColor()

	return &TTYOutput{
		w:      w,
		styles: NewOutputStyles(),
		table:  NewTableStyles(),
	}
}

// Success outputs a success message with a ✓ icon.
func (o *TTYOutput) Success(msg string) {
	_, _ = fmt.Fprintln(o.w, o.styles.Success.Render("✓ "+msg))
}

// Error outputs an error with a ✗ icon. Known errors print their user
// message, validation details and a dim "▸ Try:" line.
func (o *TTYOutput) Error(err error) {
	msg, action := cerrors.Actionable(err)
	_, _ = fmt.Fprintln(o.w, o.styles.Error.Render("✗ "+msg))
	for _, d := range cerrors.Details(err) {
		_, _ = fmt.Fprintln(o.w, o.styles.Dim.Render("  • "+d))
	}
	if msg != err.Error() && len(cerrors.Details(err)) == 0 {
		_, _ = fmt.Fprintln(o.w, o.styles.Dim.Render("  "+err.Error()))
	}
	if action != "" {
		_, _ = fmt.Fprintln(o.w, o.styles.Dim.Render("  ▸ Try: "+action))
	}
}

// Warning outputs a warning message with a ⚠ icon.
func (o *TTYOutput) Warning(msg string) {
	_, _ = fmt.Fprintln(o.w, o.styles.Warning.Render("⚠ "+msg))
}

// Info outputs an informational message.
func (o *TTYOutput) Info(msg string) {
	_, _ = fmt.Fprintln(o.w, o.styles.Info.Render(msg))
}

// Table outputs tabular data with aligned columns.
func (o *TTYOutput) Table(headers []string, rows [][]string) {
	if len(headers) == 0 {
		return
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) {
				widths[i] = max(widths[i], runewidth.StringWidth(cell))
			}
		}
	}

	parts := make([]string, 0, len(headers))
	for i, h := range headers {
		parts = append(parts, o.table.Header.Render(padRight(h, widths[i])))
	}
	_, _ = fmt.Fprintln(o.w, strings.TrimRight(strings.Join(parts, "  "), " "))

	for _, row := range rows {
		parts = parts[:0]
		for i := range headers {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			parts = append(parts, o.table.Cell.Render(padRight(cell, widths[i])))
		}
		_, _ = fmt.Fprintln(o.w, strings.TrimRight(strings.Join(parts, "  "), " "))
	}
}

// Markdown renders text with glamour. Rendering failures print the text as is.
func (o *TTYOutput) Markdown(text string) {
	_, _ = fmt.Fprintln(o.w, RenderMarkdown(text))
}

// JSON outputs an arbitrary value as formatted JSON.
func (o *TTYOutput) JSON(v any) error {
	encoder := json.NewEncoder(o.w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// Spinner starts an animated spinner on the output writer.
func (o *TTYOutput) Spinner(ctx context.Context, msg string) Spinner {
	s := NewTerminalSpinner(o.w)
	s.Start(ctx, msg)
	return s
}

// padRight pads s with spaces to width terminal cells.
func padRight(s string, width int) string {
	n := runewidth.StringWidth(s)
	if n >= width {
		return s
	}
	return s + strings.Repeat(" ", width-n)
}

// JSONOutput emits every message as one JSON object per line.
type JSONOutput struct {
	encoder *json.Encoder
}

var _ Output = (*JSONOutput)(nil)

// NewJSONOutput creates a new JSONOutput.
func NewJSONOutput(w io.Writer) *JSONOutput {
	return &JSONOutput{encoder: json.NewEncoder(w)}
}

type jsonMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type jsonError struct {
	Type       string   `json:"type"`
	Message    string   `json:"message"`
	Error      string   `json:"error"`
	Details    []string `json:"details,omitempty"`
	Suggestion string   `json:"suggestion,omitempty"`
}

// Success outputs {"type":"success","message":...}.
func (o *JSONOutput) Success(msg string) {
	_ = o.encoder.Encode(jsonMessage{Type: "success", Message: msg})
}

// Error outputs the user message, raw error, details and suggestion.
func (o *JSONOutput) Error(err error) {
	msg, action := cerrors.Actionable(err)
	_ = o.encoder.Encode(jsonError{
		Type:       "error",
		Message:    msg,
		Error:      err.Error(),
		Details:    cerrors.Details(err),
		Suggestion: action,
	})
}

// Warning outputs {"type":"warning","message":...}.
func (o *JSONOutput) Warning(msg string) {
	_ = o.encoder.Encode(jsonMessage{Type: "warning", Message: msg})
}

// Info outputs {"type":"info","message":...}.
func (o *JSONOutput) Info(msg string) {
	_ = o.encoder.Encode(jsonMessage{Type: "info", Message: msg})
}

// Table outputs the rows as an array of header-keyed objects.
func (o *JSONOutput) Table(headers []string, rows [][]string) {
	result := make([]map[string]string, 0, len(rows))
	for _, row := range rows {
		obj := make(map[string]string, len(headers))
		for i, h := range headers {
			if i < len(row) {
				obj[h] = row[i]
			} else {
				obj[h] = ""
			}
		}
		result = append(result, obj)
	}
	_ = o.encoder.Encode(result)
}

// Markdown outputs {"type":"reply","message":...} with the raw text.
func (o *JSONOutput) Markdown(text string) {
	_ = o.encoder.Encode(jsonMessage{Type: "reply", Message: text})
}

// JSON outputs an arbitrary value as JSON.
func (o *JSONOutput) JSON(v any) error {
	return o.encoder.Encode(v)
}

// Spinner returns a no-op spinner.
func (o *JSONOutput) Spinner(_ context.Context, _ string) Spinner {
	return NoopSpinner{}
}
