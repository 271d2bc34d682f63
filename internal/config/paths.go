package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mrz1836/customizer/internal/constants"
	"github.com/mrz1836/customizer/internal/errors"
)

// GlobalConfigDir returns the path to the global configuration directory,
// typically ~/.customizer.
func GlobalConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "failed to get home directory")
	}
	return filepath.Join(home, constants.CustomizerHome), nil
}

// ProjectConfigDir returns the relative path to the project configuration directory.
func ProjectConfigDir() string {
	return constants.CustomizerHome
}

// GlobalConfigPath returns the full path to the global configuration file.
func GlobalConfigPath() (string, error) {
	dir, err := GlobalConfigDir()
	if err != nil {
		return "", fmt.Errorf("get global config path: %w", err)
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// ProjectConfigPath returns the relative path to the project configuration file.
func ProjectConfigPath() string {
	return filepath.Join(ProjectConfigDir(), "config.yaml")
}

// LogFilePath returns the configured log file, or the default under the
// global config directory.
func LogFilePath(cfg *Config) (string, error) {
	if cfg != nil && cfg.Log.File != "" {
		return cfg.Log.File, nil
	}
	dir, err := GlobalConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, constants.LogsDir, constants.LogFileName), nil
}
