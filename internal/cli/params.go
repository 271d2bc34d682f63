package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mrz1836/customizer/internal/domain"
	cerrors "github.com/mrz1836/customizer/internal/errors"
	"github.com/mrz1836/customizer/internal/modulegroup"
	"github.com/mrz1836/customizer/internal/validation"
)

// paramFlags are the flags identifying a customization context.
type paramFlags struct {
	org         string
	user        string
	module      string
	industry    string
	subIndustry string
}

func (p *paramFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&p.org, "org", "", "organization key (required)")
	cmd.Flags().StringVar(&p.user, "user", "", "user key, used for backup file names")
	cmd.Flags().StringVar(&p.module, "module", "", "module key or label, e.g. FM_STAFF_MASTER (required)")
	cmd.Flags().StringVar(&p.industry, "industry", "", "industry, e.g. retail (required)")
	cmd.Flags().StringVar(&p.subIndustry, "sub-industry", "", "sub-industry")
}

// params returns the validated ConfigParams. A module label from the
// catalog is accepted in place of its key.
func (p *paramFlags) params() (domain.ConfigParams, error) {
	module := p.module
	if key, ok := modulegroup.KeyForLabel(strings.TrimSpace(module)); ok {
		module = key
	}
	params := domain.ConfigParams{
		OrgKey:      p.org,
		UserKey:     p.user,
		ModuleKey:   module,
		Industry:    p.industry,
		SubIndustry: p.subIndustry,
	}.Normalize()
	if err := validation.Params(params); err != nil {
		return domain.ConfigParams{}, err
	}
	return params, nil
}

// readFile reads a file named by a flag. "-" reads stdin.
func readFile(cmd *cobra.Command, flag, path string) (string, error) {
	if path == "" {
		return "", cerrors.NewValidationError(cerrors.ErrMissingParameters, []string{"--" + flag + " is required"})
	}
	if path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path) //#nosec G304 -- path is a command-line argument
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(data), nil
}
