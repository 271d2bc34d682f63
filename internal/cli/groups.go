package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	cerrors "github.com/mrz1836/customizer/internal/errors"
	"github.com/mrz1836/customizer/internal/modulegroup"
)

// AddGroupsCommand adds the groups command.
func AddGroupsCommand(root *cobra.Command, s *session) {
	var module string

	cmd := &cobra.Command{
		Use:   "groups",
		Short: "List module groups",
		Long: `List the module groups kept consistent by group sync. With --module,
print only the group containing that module.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := s.newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer closeApp(a, a.logger)

			groups := a.registry.Groups()
			if module != "" {
				key := strings.ToUpper(strings.TrimSpace(module))
				g, _, ok := a.registry.Lookup(key)
				if !ok {
					return fmt.Errorf("%w: %s is not in any group", cerrors.ErrUnknownModule, key)
				}
				groups = []modulegroup.Group{g}
			}

			out := s.output(cmd)
			if s.flags.Output == OutputJSON {
				return out.JSON(groups)
			}
			rows := make([][]string, 0, len(groups)*3)
			for _, g := range groups {
				for _, m := range g.Members {
					rows = append(rows, []string{g.ID, string(m.Kind), m.Key, m.Name})
				}
			}
			out.Table([]string{"GROUP", "KIND", "MODULE", "NAME"}, rows)
			return nil
		},
	}
	cmd.Flags().StringVar(&module, "module", "", "show only the group containing this module")
	root.AddCommand(cmd)
}

// AddModulesCommand adds the modules command.
func AddModulesCommand(root *cobra.Command, s *session) {
	var moduleType, org string

	cmd := &cobra.Command{
		Use:   "modules",
		Short: "List known modules",
		Long: fmt.Sprintf(`List the module catalog. --type filters by module type, one of:
  %s

--org lists only the modules that organization has customized.`, strings.Join(modulegroup.ModuleTypes, ", ")),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			modules := modulegroup.Catalog()
			switch {
			case org != "":
				a, err := s.newApp(cmd.Context())
				if err != nil {
					return err
				}
				defer closeApp(a, a.logger)
				keys, err := a.store.ListUserModules(cmd.Context(), org)
				if err != nil {
					return err
				}
				modules = catalogEntries(keys)
			case moduleType != "":
				keys := modulegroup.ModulesByType(moduleType)
				if len(keys) == 0 {
					return cerrors.NewValidationError(cerrors.ErrInvalidParameters,
						[]string{fmt.Sprintf("unknown module type %q", moduleType)})
				}
				modules = catalogEntries(keys)
			}

			out := s.output(cmd)
			if s.flags.Output == OutputJSON {
				return out.JSON(modules)
			}
			rows := make([][]string, len(modules))
			for i, m := range modules {
				rows[i] = []string{m.Key, m.Label}
			}
			out.Table([]string{"MODULE", "LABEL"}, rows)
			return nil
		},
	}
	cmd.Flags().StringVar(&moduleType, "type", "", "module type, e.g. WORKFORCE")
	cmd.Flags().StringVar(&org, "org", "", "list modules customized by this organization")
	cmd.MarkFlagsMutuallyExclusive("type", "org")
	root.AddCommand(cmd)
}

func catalogEntries(keys []string) []modulegroup.Module {
	out := make([]modulegroup.Module, len(keys))
	for i, k := range keys {
		out[i] = modulegroup.Module{Key: k, Label: modulegroup.Label(k)}
	}
	return out
}
