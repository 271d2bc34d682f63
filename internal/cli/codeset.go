package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mrz1836/customizer/internal/codeset"
	cerrors "github.com/mrz1836/customizer/internal/errors"
	"github.com/mrz1836/customizer/internal/store"
)

// AddCodesetCommand adds the codeset command group.
func AddCodesetCommand(root *cobra.Command, s *session) {
	cmd := &cobra.Command{
		Use:   "codeset",
		Short: "Inspect and normalize codeset files",
	}
	cmd.AddCommand(newCodesetVerifyCmd(s), newCodesetNormalizeCmd(s))
	root.AddCommand(cmd)
}

func newCodesetVerifyCmd(s *session) *cobra.Command {
	var org string

	cmd := &cobra.Command{
		Use:   "verify <codesetvalues.csv>",
		Short: "Check a codeset file's hierarchy and organization header",
		Long: `Check that every entry below the first level has a parent, codes are
uppercase and unique per type, and, with --org, that every codeset header
line carries the organization key instead of the template placeholder.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readFile(cmd, "file", args[0])
			if err != nil {
				return err
			}
			doc, err := codeset.Parse(raw)
			if err != nil {
				return err
			}

			checks := []error{codeset.ValidateHierarchy(doc)}
			if org != "" {
				checks = append(checks, codeset.VerifyHeader(raw, org))
			}
			report := validationReport{File: args[0], Valid: true}
			if err := errors.Join(checks...); err != nil {
				report.Valid = false
				report.Problems = problemLines(err)
			}

			out := s.output(cmd)
			if s.flags.Output == OutputJSON {
				if err := out.JSON(report); err != nil {
					return err
				}
			} else {
				counts := make(map[string]int)
				for _, e := range doc.Entries() {
					counts[e.Type]++
				}
				rows := make([][]string, 0, len(counts))
				for _, t := range codeset.Types(doc) {
					rows = append(rows, []string{t, strconv.Itoa(counts[t])})
				}
				out.Table([]string{"TYPE", "ENTRIES"}, rows)
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
	cmd.Flags().StringVar(&org, "org", "", "organization key the header must carry")
	return cmd
}

func newCodesetNormalizeCmd(s *session) *cobra.Command {
	var (
		org       string
		write     string
		hierarchy bool
	)

	cmd := &cobra.Command{
		Use:   "normalize <codesetvalues.csv>",
		Short: "Rewrite a codeset file in the form written to the user tier",
		Long: `Normalize codes (uppercase, underscores) and descriptions (title case),
replace the header placeholder with the organization key and print the
result. By default numbered entries are converted to the
type,code,description,,org form; --hierarchy keeps the numbered layout and
renumbers it.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if org == "" {
				return cerrors.NewValidationError(cerrors.ErrMissingParameters, []string{"--org is required"})
			}
			raw, err := readFile(cmd, "file", args[0])
			if err != nil {
				return err
			}
			doc, err := codeset.Parse(raw)
			if err != nil {
				return err
			}
			for _, e := range doc.Entries() {
				e.Code = codeset.NormalizeCode(e.Code)
				e.Description = codeset.NormalizeDescription(e.Description)
			}

			out := s.output(cmd)
			if err := codeset.ValidateHierarchy(doc); err != nil {
				for _, p := range problemLines(err) {
					out.Warning(p)
				}
			}

			var result string
			if hierarchy {
				result = codeset.SerializeHierarchy(doc, org)
			} else {
				result = codeset.Serialize(doc, org)
			}

			if write == "" {
				_, err := cmd.OutOrStdout().Write([]byte(result))
				return err
			}
			if err := store.AtomicWrite(write, []byte(result), 0o600); err != nil {
				return err
			}
			out.Success("wrote " + write)
			return nil
		},
	}
	cmd.Flags().StringVar(&org, "org", "", "organization key (required)")
	cmd.Flags().StringVar(&write, "write", "", "write the result to this file instead of stdout")
	cmd.Flags().BoolVar(&hierarchy, "hierarchy", false, "keep the numbered hierarchy layout")
	return cmd
}
