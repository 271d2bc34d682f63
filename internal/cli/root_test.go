package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/customizer/internal/errors"
	"github.com/mrz1836/customizer/internal/modulegroup"
)

func TestFormatVersion(t *testing.T) {
	tests := []struct {
		name string
		info BuildInfo
		want string
	}{
		{
			name: "full build info",
			info: BuildInfo{Version: "1.2.3", Commit: "abc123", Date: "2026-01-01"},
			want: "1.2.3 (commit: abc123, built: 2026-01-01)",
		},
		{
			name: "empty build info",
			info: BuildInfo{},
			want: "dev (commit: none, built: unknown)",
		},
		{
			name: "version only",
			info: BuildInfo{Version: "0.1.0"},
			want: "0.1.0 (commit: none, built: unknown)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatVersion(tt.info))
		})
	}
}

func TestRootCommand_Help(t *testing.T) {
	testEnv(t)

	out, err := runCLI(t, nil, "")
	require.NoError(t, err)
	assert.Contains(t, out, "customizer resolves, edits and synchronizes")
	for _, sub := range []string{"serve", "chat", "finalize", "apply", "sync", "codeset", "backup"} {
		assert.Contains(t, out, sub)
	}
}

func TestRootCommand_Version(t *testing.T) {
	testEnv(t)

	out, err := runCLI(t, nil, "", "--version")
	require.NoError(t, err)
	assert.Contains(t, out, "1.0.0 (commit: abc123, built: 2026-01-01)")
}

func TestRootCommand_InvalidOutput(t *testing.T) {
	testEnv(t)

	_, err := runCLI(t, nil, "", "--output", "yaml", "modules")
	require.ErrorIs(t, err, errors.ErrInvalidOutputFormat)
	assert.Equal(t, ExitInvalidInput, ExitCodeForError(err))
}

func TestRootCommand_OutputFromEnv(t *testing.T) {
	testEnv(t)
	t.Setenv("CUSTOMIZER_OUTPUT", "json")

	out, err := runCLI(t, nil, "", "modules", "--type", "workforce")
	require.NoError(t, err)

	var modules []modulegroup.Module
	require.NoError(t, json.Unmarshal([]byte(out), &modules))
	require.NotEmpty(t, modules)
	for _, m := range modules {
		assert.Contains(t, m.Key, "FM_WORKFORCE_")
	}
}

func TestRootCommand_VerboseQuietExclusive(t *testing.T) {
	testEnv(t)

	_, err := runCLI(t, nil, "", "--verbose", "--quiet", "modules")
	require.Error(t, err)
	assert.Equal(t, ExitInvalidInput, ExitCodeForError(err))
}

func TestRootCommand_UnknownCommand(t *testing.T) {
	testEnv(t)

	_, err := runCLI(t, nil, "", "frobnicate")
	require.Error(t, err)
	assert.Equal(t, ExitInvalidInput, ExitCodeForError(err))
}
