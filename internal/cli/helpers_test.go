package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/mrz1836/customizer/internal/ai"
)

// testEnv isolates HOME, CUSTOMIZER_HOME and color detection, and returns a
// fresh data directory.
func testEnv(t *testing.T) string {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv(HomeEnvVar, t.TempDir())
	t.Setenv("NO_COLOR", "1")
	t.Setenv("ANTHROPIC_API_KEY", "")
	t.Cleanup(CloseLogFile)
	return t.TempDir()
}

// runCLI executes the root command with args and returns everything written
// to stdout and stderr.
func runCLI(t *testing.T, runner ai.Runner, stdin string, args ...string) (string, error) {
	t.Helper()
	s := &session{flags: &GlobalFlags{}, runner: runner}
	cmd := newSessionCmd(s, BuildInfo{Version: "1.0.0", Commit: "abc123", Date: "2026-01-01"})

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}
