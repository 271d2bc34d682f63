package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mrz1836/customizer/internal/customize"
	cerrors "github.com/mrz1836/customizer/internal/errors"
	"github.com/mrz1836/customizer/internal/tui"
)

// AddApplyCommand adds the apply command.
func AddApplyCommand(root *cobra.Command, s *session) {
	var (
		pf       paramFlags
		file     string
		codesets string
		yes      bool
	)

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Write a configuration to the user tier and sync its group",
		Long: `Write a configuration file (and optionally a codeset file) to a module's
user tier. The write is followed by backups, the mirror copy and group sync,
exactly as a confirmed chat session.

Structural problems and removed NEVER rows are reported as warnings; they
do not block the write.`,
		Example: `  customizer apply --org acme --module FM_STAFF_MASTER --industry retail --config new.csv
  cat new.csv | customizer apply --org acme --module FM_STAFF_MASTER --industry retail --config - --yes`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			params, err := pf.params()
			if err != nil {
				return err
			}
			config, err := readFile(cmd, "config", file)
			if err != nil {
				return err
			}
			var codesetContent string
			if codesets != "" {
				if codesetContent, err = readFile(cmd, "codesets", codesets); err != nil {
					return err
				}
			}

			if !yes {
				if err := confirmWrite(params.OrgKey, params.ModuleKey); err != nil {
					return err
				}
			}

			a, err := s.newApp(ctx)
			if err != nil {
				return err
			}
			defer closeApp(a, a.logger)

			info, err := a.svc.Apply(ctx, params, config, codesetContent)
			if err != nil {
				return err
			}
			out := s.output(cmd)
			if s.flags.Output == OutputJSON {
				return out.JSON(info)
			}
			printCommit(out, params.ModuleKey, info)
			return nil
		},
	}
	pf.register(cmd)
	cmd.Flags().StringVar(&file, "config", "", "configuration file to write, - for stdin (required)")
	cmd.Flags().StringVar(&codesets, "codesets", "", "codeset file to write")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")

	root.AddCommand(cmd)
}

// confirmWrite asks before overwriting a user configuration. Without a
// terminal the caller must pass --yes.
func confirmWrite(org, module string) error {
	ok, err := tui.Confirm(
		fmt.Sprintf("Write %s for %s?", module, org),
		"The user configuration is replaced and the module's group is synced.",
		false,
	)
	if errors.Is(err, tui.ErrMenuCanceled) {
		return fmt.Errorf("no confirmation (pass --yes when not on a terminal): %w", cerrors.ErrNotConfirmed)
	}
	if err != nil {
		return err
	}
	if !ok {
		return cerrors.ErrNotConfirmed
	}
	return nil
}

// printCommit reports the outcome of a write pipeline run.
func printCommit(out tui.Output, module string, info *customize.CommitInfo) {
	out.Success("wrote " + module + " to the user tier")
	if info.Codesets != "" {
		out.Success("wrote codeset values")
	}
	for _, w := range info.Warnings {
		out.Warning(w)
	}
	if len(info.Backups) > 0 {
		out.Info("backups: " + strings.Join(info.Backups, ", "))
	}
	if info.Mirrored {
		out.Info("mirrored to the secondary store")
	}
	out.Info(tui.RenderGroupSync(info.GroupSync))
}
