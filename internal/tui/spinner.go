package tui

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/mattn/go-runewidth"
	"golang.org/x/term"
)

// Spinner is a progress indicator for a long-running call.
type Spinner interface {
	// Update replaces the message shown next to the animation.
	Update(msg string)
	// Stop halts the animation and clears its line.
	Stop()
}

// NoopSpinner is used when output is not a terminal.
type NoopSpinner struct{}

// Update does nothing.
func (NoopSpinner) Update(string) {}

// Stop does nothing.
func (NoopSpinner) Stop() {}

// ElapsedTimeThreshold is the duration after which elapsed time is shown.
// Finalize calls routinely take longer than this.
const ElapsedTimeThreshold = 10 * time.Second

// spinnerStyle is the bubbles spinner whose frames and rate are used.
var spinnerStyle = spinner.Dot //nolint:gochecknoglobals // animation definition

// safeWriter serializes writes from the animation goroutine and callers.
type safeWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (sw *safeWriter) Write(p []byte) (int, error) {
	sw.mu.Lock()
	defer sw.mu.Unlock()
	return sw.w.Write(p)
}

// TerminalSpinner animates a bubbles spinner on a single terminal line.
type TerminalSpinner struct {
	w       *safeWriter
	styles  *OutputStyles
	frames  []string
	fps     time.Duration
	message string
	started time.Time
	done    chan struct{}
	mu      sync.Mutex
	running bool
}

var _ Spinner = (*TerminalSpinner)(nil)

// NewTerminalSpinner creates a spinner that writes to w.
func NewTerminalSpinner(w io.Writer) *TerminalSpinner {
	return &TerminalSpinner{
		w:      &safeWriter{w: w},
		styles: NewOutputStyles(),
		frames: spinnerStyle.Frames,
		fps:    spinnerStyle.FPS,
	}
}

// Start begins the animation. Calling Start on a running spinner only
// updates the message.
func (s *TerminalSpinner) Start(ctx context.Context, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.message = message
	if s.running {
		return
	}
	s.running = true
	s.started = time.Now()
	s.done = make(chan struct{})

	done := s.done
	go s.animate(ctx, done)
}

// Update changes the message without restarting the animation.
func (s *TerminalSpinner) Update(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.message = message
}

// Stop halts the animation and clears the line. It is safe to call more
// than once.
func (s *TerminalSpinner) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	close(s.done)
	s.mu.Unlock()

	_, _ = fmt.Fprint(s.w, "\r\033[K")
}

func (s *TerminalSpinner) animate(ctx context.Context, done <-chan struct{}) {
	ticker := time.NewTicker(s.fps)
	defer ticker.Stop()

	frame := 0
	for {
		select {
		case <-done:
			return
		case <-ctx.Done():
			s.Stop()
			return
		case <-ticker.C:
			s.mu.Lock()
			if !s.running {
				s.mu.Unlock()
				return
			}
			msg := s.message
			if elapsed := time.Since(s.started); elapsed > ElapsedTimeThreshold {
				msg = fmt.Sprintf("%s (%ds)", msg, int(elapsed.Seconds()))
			}
			msg = truncateToWidth(msg, terminalWidth()-4)
			// Written under the lock so a frame never lands after Stop clears the line.
			_, _ = fmt.Fprintf(s.w, "\r\033[K%s %s", s.styles.Info.Render(s.frames[frame%len(s.frames)]), msg)
			s.mu.Unlock()
			frame++
		}
	}
}

// terminalWidth returns the stderr width, or 80.
func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stderr.Fd())) //nolint:gosec // file descriptors fit in int
	if err != nil || width <= 0 {
		return 80
	}
	return width
}

// truncateToWidth shortens s to maxWidth runes, ending in "...".
func truncateToWidth(s string, maxWidth int) string {
	if maxWidth <= 3 {
		return "..."
	}
	return runewidth.Truncate(s, maxWidth, "...")
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd())) //nolint:gosec // file descriptors fit in int
}
