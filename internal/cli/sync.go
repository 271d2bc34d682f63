package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/mrz1836/customizer/internal/domain"
)

// AddSyncCommand adds the sync command.
func AddSyncCommand(root *cobra.Command, s *session) {
	var (
		pf       paramFlags
		from     string
		codesets string
	)

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Propagate a module's configuration to the rest of its group",
		Long: `Run group sync with a module's configuration as the source.

By default the module's current resolved configuration is the source. With
--from a file is used instead; the module itself is not written. Only the
siblings are updated: labels and types of matching rows are copied and NEW
rows are appended. NEVER rows of the siblings are left alone.`,
		Example: `  customizer sync --org acme --module FM_STAFF_MASTER --industry retail`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			params, err := pf.params()
			if err != nil {
				return err
			}
			a, err := s.newApp(ctx)
			if err != nil {
				return err
			}
			defer closeApp(a, a.logger)

			var seed domain.SyncConfig
			if from != "" {
				if seed.Config, err = readFile(cmd, "from", from); err != nil {
					return err
				}
			} else {
				files, err := a.store.Read(ctx, params)
				if err != nil {
					return err
				}
				seed.Config = files.ConfigContent
			}
			if codesets != "" {
				if seed.Codesets, err = readFile(cmd, "codesets", codesets); err != nil {
					return err
				}
			}

			result, err := a.engine.Run(ctx, params, seed)
			if err != nil {
				return err
			}

			out := s.output(cmd)
			if s.flags.Output == OutputJSON {
				return out.JSON(result)
			}
			if !result.Grouped {
				out.Info(params.ModuleKey + " is not part of a group, nothing to sync")
				return nil
			}

			rows := make([][]string, 0, len(result.Modules))
			for _, m := range result.Modules {
				rows = append(rows, []string{
					m.ModuleKey,
					m.Name,
					strconv.Itoa(len(m.Diff.Appended)),
					strconv.Itoa(len(m.Diff.Changed)),
				})
			}
			out.Table([]string{"MODULE", "NAME", "APPENDED", "CHANGED"}, rows)
			out.Success(fmt.Sprintf("synced %d module(s) of group %s in %s",
				len(result.Modules), result.Group, result.Elapsed.Round(time.Millisecond)))
			return nil
		},
	}
	pf.register(cmd)
	cmd.Flags().StringVar(&from, "from", "", "configuration file to use as the source")
	cmd.Flags().StringVar(&codesets, "codesets", "", "codeset file to write to every sibling")

	root.AddCommand(cmd)
}
