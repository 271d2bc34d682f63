package cli

import (
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// AddConfigCommand adds the config command group.
func AddConfigCommand(root *cobra.Command, s *session) {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the effective configuration",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Print the merged configuration",
		Long: `Print the configuration after merging defaults, the global and project
config files, CUSTOMIZER_* environment variables and command-line flags.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logPath, err := LogFilePath(s.cfg)
			if err != nil {
				logPath = ""
			}

			if s.flags.Output == OutputJSON {
				return s.output(cmd).JSON(map[string]any{
					"config":   s.cfg,
					"log_file": logPath,
				})
			}

			data, err := yaml.Marshal(s.cfg)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if _, err := w.Write(data); err != nil {
				return err
			}
			if logPath != "" {
				_, err = w.Write([]byte("# log file: " + logPath + "\n"))
			}
			return err
		},
	}

	cmd.AddCommand(show)
	root.AddCommand(cmd)
}
