// Package cli provides the command-line interface for customizer.
package cli

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mrz1836/customizer/internal/ai"
	"github.com/mrz1836/customizer/internal/config"
	"github.com/mrz1836/customizer/internal/errors"
)

// BuildInfo contains version information set at build time via ldflags.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// globalLogger is set during PersistentPreRunE and read through GetLogger.
var (
	globalLogger   zerolog.Logger //nolint:gochecknoglobals // CLI logger requires global access
	globalLoggerMu sync.RWMutex   //nolint:gochecknoglobals // Protects globalLogger
)

// GetLogger returns the logger initialized by the root command. Before
// PersistentPreRunE runs it is a zero-value logger that discards output.
func GetLogger() zerolog.Logger {
	globalLoggerMu.RLock()
	defer globalLoggerMu.RUnlock()
	return globalLogger
}

func setLogger(l zerolog.Logger) {
	globalLoggerMu.Lock()
	globalLogger = l
	globalLoggerMu.Unlock()
}

// session carries state shared by every command of one invocation.
type session struct {
	flags *GlobalFlags
	cfg   *config.Config

	// runner replaces the environment-configured LLM client when set.
	runner ai.Runner
}

// newRootCmd creates the root command and its subcommands.
func newRootCmd(flags *GlobalFlags, info BuildInfo) *cobra.Command {
	return newSessionCmd(&session{flags: flags}, info)
}

func newSessionCmd(s *session, info BuildInfo) *cobra.Command {
	v := viper.New()
	flags := s.flags

	cmd := &cobra.Command{
		Use:   "customizer",
		Short: "Customize ERP module configurations through conversation",
		Long: `customizer resolves, edits and synchronizes tabular module configurations.

A module's configuration is resolved from the user tier, then the industry
template, then the base template. Changes are written to the user tier and
propagated to the other modules of the same group.

Features:
  • Conversational customization backed by an LLM
  • Group sync across interdependent modules
  • Offline validation of configuration and codeset files
  • HTTP API for the browser client`,
		Version: formatVersion(info),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := BindGlobalFlags(v, cmd); err != nil {
				return fmt.Errorf("failed to bind flags: %w", err)
			}
			flags.Output = v.GetString("output")
			flags.DataDir = v.GetString("data_dir")

			if !IsValidOutputFormat(flags.Output) {
				return fmt.Errorf("%w: %q must be one of %v", errors.ErrInvalidOutputFormat, flags.Output, ValidOutputFormats())
			}

			cfg, err := config.LoadWithOverrides(cmd.Context(), &config.Config{
				Storage: config.StorageConfig{DataDir: flags.DataDir},
			})
			if err != nil {
				return err
			}
			s.cfg = cfg

			logger := InitLogger(flags.Verbose, flags.Quiet, cfg)
			setLogger(logger)
			cmd.SetContext(logger.WithContext(cmd.Context()))
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	AddGlobalFlags(cmd, flags)

	AddServeCommand(cmd, s)
	AddResolveCommand(cmd, s)
	AddShowCommand(cmd, s)
	AddValidateCommand(cmd, s)
	AddSyncCommand(cmd, s)
	AddApplyCommand(cmd, s)
	AddFinalizeCommand(cmd, s)
	AddChatCommand(cmd, s)
	AddCodesetCommand(cmd, s)
	AddGroupsCommand(cmd, s)
	AddModulesCommand(cmd, s)
	AddBackupCommand(cmd, s)
	AddConfigCommand(cmd, s)

	return cmd
}

// formatVersion creates the version string from build info.
func formatVersion(info BuildInfo) string {
	if info.Version == "" {
		info.Version = "dev"
	}
	if info.Commit == "" {
		info.Commit = "none"
	}
	if info.Date == "" {
		info.Date = "unknown"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", info.Version, info.Commit, info.Date)
}

// Execute runs the root command. Errors are printed in the selected output
// format before being returned.
func Execute(ctx context.Context, info BuildInfo) error {
	flags := &GlobalFlags{}
	//nolint:contextcheck // Cobra command pattern uses cmd.Context() internally
	cmd := newRootCmd(flags, info)
	defer CloseLogFile()

	err := cmd.ExecuteContext(ctx)
	if err != nil {
		newOutput(cmd.ErrOrStderr(), flags).Error(err)
	}
	return err
}
