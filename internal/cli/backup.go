package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	cerrors "github.com/mrz1836/customizer/internal/errors"
)

// AddBackupCommand adds the backup command group.
func AddBackupCommand(root *cobra.Command, s *session) {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Manage backup copies of written configurations",
	}

	cleanup := &cobra.Command{
		Use:   "cleanup",
		Short: "Delete backups older than the retention period",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := s.newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer closeApp(a, a.logger)

			if a.backups == nil {
				return cerrors.ErrBackupsDisabled
			}
			removed, err := a.backups.Cleanup(cmd.Context())
			if err != nil {
				return err
			}

			out := s.output(cmd)
			if s.flags.Output == OutputJSON {
				return out.JSON(map[string]any{
					"removed":   removed,
					"retention": a.cfg.Backup.Retention.String(),
				})
			}
			out.Success(fmt.Sprintf("removed %d backup(s) older than %s", removed, a.cfg.Backup.Retention))
			return nil
		},
	}

	cmd.AddCommand(cleanup)
	root.AddCommand(cmd)
}
