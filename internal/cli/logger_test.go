package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/customizer/internal/config"
	"github.com/mrz1836/customizer/internal/constants"
)

func TestSelectLevel(t *testing.T) {
	tests := []struct {
		name           string
		verbose, quiet bool
		want           zerolog.Level
	}{
		{"default", false, false, zerolog.InfoLevel},
		{"verbose", true, false, zerolog.DebugLevel},
		{"quiet", false, true, zerolog.WarnLevel},
		{"verbose wins", true, true, zerolog.DebugLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, selectLevel(tt.verbose, tt.quiet))
		})
	}
}

func TestInitLoggerWithWriter(t *testing.T) {
	var buf bytes.Buffer
	logger := InitLoggerWithWriter(false, true, &buf)

	logger.Info().Msg("hidden")
	logger.Warn().Msg("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestLogFilePath(t *testing.T) {
	t.Run("customizer home", func(t *testing.T) {
		home := t.TempDir()
		t.Setenv(HomeEnvVar, home)

		path, err := LogFilePath(nil)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(home, constants.LogsDir, constants.LogFileName), path)
	})

	t.Run("configured file wins", func(t *testing.T) {
		t.Setenv(HomeEnvVar, t.TempDir())
		cfg := &config.Config{Log: config.LogConfig{File: "/var/log/customizer.log"}}

		path, err := LogFilePath(cfg)
		require.NoError(t, err)
		assert.Equal(t, "/var/log/customizer.log", path)
	})

	t.Run("user home", func(t *testing.T) {
		home := t.TempDir()
		t.Setenv(HomeEnvVar, "")
		t.Setenv("HOME", home)

		path, err := LogFilePath(nil)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(home, constants.CustomizerHome, constants.LogsDir, constants.LogFileName), path)
	})
}

func TestInitLogger_WritesFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv(HomeEnvVar, home)
	t.Cleanup(CloseLogFile)

	logger := InitLogger(false, false, nil)
	logger.Info().Str("module_key", "FM_WORKFORCE_OBJECT_WORKFORCELITE_ALL").Msg("file entry")
	CloseLogFile()

	data, err := os.ReadFile(filepath.Join(home, constants.LogsDir, constants.LogFileName)) //#nosec G304 -- test path
	require.NoError(t, err)
	assert.Contains(t, string(data), "file entry")
	assert.Contains(t, string(data), "FM_WORKFORCE_OBJECT_WORKFORCELITE_ALL")
}

func TestOrDefault(t *testing.T) {
	assert.Equal(t, 5, orDefault(0, 5))
	assert.Equal(t, 5, orDefault(-1, 5))
	assert.Equal(t, 3, orDefault(3, 5))
}
