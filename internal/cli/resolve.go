package cli

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/mrz1836/customizer/internal/csvconfig"
	"github.com/mrz1836/customizer/internal/tui"
)

// AddResolveCommand adds the resolve command.
func AddResolveCommand(root *cobra.Command, s *session) {
	var pf paramFlags

	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Show which tier a module's configuration resolves from",
		Long: `Resolve a module through the user, industry and base tiers and print
the tier and file paths that would be read. Nothing is written.`,
		Example: `  customizer resolve --org acme --module FM_STAFF_MASTER --industry retail`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			params, err := pf.params()
			if err != nil {
				return err
			}
			a, err := s.newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer closeApp(a, a.logger)

			res, err := a.store.Resolve(cmd.Context(), params)
			if err != nil {
				return err
			}

			out := s.output(cmd)
			if s.flags.Output == OutputJSON {
				return out.JSON(res)
			}
			tier := lipgloss.NewStyle().Foreground(tui.TierColor(res.Tier)).Render(res.Tier.String())
			out.Info(params.ModuleKey + " resolves from the " + tier + " tier")
			out.Table([]string{"FILE", "PATH"}, [][]string{
				{"config", res.ConfigPath},
				{"codesets", res.CodesetPath},
			})
			return nil
		},
	}
	pf.register(cmd)

	root.AddCommand(cmd)
}

// AddShowCommand adds the show command.
func AddShowCommand(root *cobra.Command, s *session) {
	var (
		pf      paramFlags
		prepare bool
		raw     bool
	)

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print a module's resolved configuration",
		Long: `Print the rows of a module's resolved configuration.

With --prepare the module is loaded the way the chat flow loads it: the
template is copied into the user tier when no user copy exists yet.`,
		Example: `  customizer show --org acme --module FM_STAFF_MASTER --industry retail
  customizer show --org acme --module FM_STAFF_MASTER --industry retail --raw`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			params, err := pf.params()
			if err != nil {
				return err
			}
			a, err := s.newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer closeApp(a, a.logger)

			out := s.output(cmd)
			if prepare {
				from, err := a.store.Resolve(cmd.Context(), params)
				if err != nil {
					return err
				}
				res, err := a.svc.Load(cmd.Context(), params)
				if err != nil {
					return err
				}
				if !res.Exists {
					out.Success("copied the " + from.Tier.String() + " template into the user tier")
				}
			}

			files, err := a.store.Read(cmd.Context(), params)
			if err != nil {
				return err
			}
			if raw {
				_, err := cmd.OutOrStdout().Write([]byte(files.ConfigContent))
				return err
			}

			doc, err := csvconfig.Parse(files.ConfigContent, a.parseOpts...)
			if err != nil {
				return err
			}
			if s.flags.Output == OutputJSON {
				return out.JSON(map[string]any{"type": files.Tier, "config": doc.Rows()})
			}

			out.Info(params.ModuleKey + " (" + files.Tier.String() + " tier)")
			rows := make([][]string, 0, len(doc.Rows()))
			for _, r := range doc.Rows() {
				rows = append(rows, []string{r.FieldCode, r.Type, r.Data, r.Label, string(r.Marker())})
			}
			out.Table([]string{"FIELD", "TYPE", "DATA", "LABEL", "MARKER"}, rows)
			return nil
		},
	}
	pf.register(cmd)
	cmd.Flags().BoolVar(&prepare, "prepare", false, "copy the template into the user tier first")
	cmd.Flags().BoolVar(&raw, "raw", false, "print the file content unparsed")

	root.AddCommand(cmd)
}
