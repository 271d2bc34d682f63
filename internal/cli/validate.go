package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mrz1836/customizer/internal/codeset"
	"github.com/mrz1836/customizer/internal/csvconfig"
	cerrors "github.com/mrz1836/customizer/internal/errors"
	"github.com/mrz1836/customizer/internal/validation"
)

// validationReport is the result of validate.
type validationReport struct {
	File     string   `json:"file"`
	Valid    bool     `json:"valid"`
	Problems []string `json:"problems,omitempty"`
}

// AddValidateCommand adds the validate command.
func AddValidateCommand(root *cobra.Command, s *session) {
	var (
		strict   bool
		against  string
		codesets string
		org      string
	)

	cmd := &cobra.Command{
		Use:   "validate <config.csv>",
		Short: "Check a configuration file offline",
		Long: `Parse a configuration file and check its structure: contiguous field
codes, consistent column counts and known customization markers.

  --strict    also require every line to have the header's column count
  --against   compare with a previous version; NEVER rows must be unchanged
  --codesets  also check a codeset file's hierarchy and organization header`,
		Example: `  customizer validate users/acme/FM_STAFF_MASTER/config.csv
  customizer validate new.csv --against old.csv
  customizer validate config.csv --codesets codesetvalues.csv --org acme`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := s.newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer closeApp(a, a.logger)

			content, err := readFile(cmd, "config", args[0])
			if err != nil {
				return err
			}

			var problems []error
			doc, err := csvconfig.Parse(content, a.parseOpts...)
			if err != nil {
				return err
			}
			problems = append(problems, csvconfig.ValidateStructure(doc))
			if strict {
				problems = append(problems, validation.CSVStructure(content))
			}
			if against != "" {
				before, err := readFile(cmd, "against", against)
				if err != nil {
					return err
				}
				prev, err := csvconfig.Parse(before, a.parseOpts...)
				if err != nil {
					return fmt.Errorf("%s: %w", against, err)
				}
				problems = append(problems, csvconfig.ValidateNeverRows(prev, doc))
			}
			if codesets != "" {
				problems = append(problems, validateCodesets(cmd, codesets, org))
			}

			report := validationReport{File: args[0], Valid: true}
			for _, p := range problems {
				if p == nil {
					continue
				}
				report.Valid = false
				report.Problems = append(report.Problems, problemLines(p)...)
			}

			out := s.output(cmd)
			if s.flags.Output == OutputJSON {
				if err := out.JSON(report); err != nil {
					return err
				}
			} else {
				for _, p := range report.Problems {
					out.Warning(p)
				}
			}
			if !report.Valid {
				return fmt.Errorf("%s: %d problem(s): %w", args[0], len(report.Problems), cerrors.ErrValidationFailed)
			}
			if s.flags.Output != OutputJSON {
				out.Success(args[0] + " is valid")
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "require uniform column counts on every line")
	cmd.Flags().StringVar(&against, "against", "", "previous version to check NEVER rows against")
	cmd.Flags().StringVar(&codesets, "codesets", "", "codeset file to check")
	cmd.Flags().StringVar(&org, "org", "", "organization key the codeset header must carry")

	root.AddCommand(cmd)
}

// validateCodesets checks hierarchy and, with an org key, the header.
func validateCodesets(cmd *cobra.Command, path, org string) error {
	raw, err := readFile(cmd, "codesets", path)
	if err != nil {
		return err
	}
	doc, err := codeset.Parse(raw)
	if err != nil {
		return err
	}
	errs := []error{codeset.ValidateHierarchy(doc)}
	if org != "" {
		errs = append(errs, codeset.VerifyHeader(raw, org))
	}
	return errors.Join(errs...)
}

// problemLines flattens joined and validation errors into one line each.
func problemLines(err error) []string {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		var lines []string
		for _, e := range joined.Unwrap() {
			lines = append(lines, problemLines(e)...)
		}
		return lines
	}
	if details := cerrors.Details(err); len(details) > 0 {
		return details
	}
	return []string{err.Error()}
}
