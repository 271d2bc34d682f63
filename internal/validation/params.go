// Package validation checks request parameters and raw CSV content before
// they reach the store or the LLM.
package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/mrz1836/customizer/internal/domain"
	cerrors "github.com/mrz1836/customizer/internal/errors"
)

//nolint:gochecknoglobals // Compiled once
var (
	orgKeyPattern    = regexp.MustCompile(`^[a-zA-Z0-9._-]+$`)
	moduleKeyPattern = regexp.MustCompile(`^[A-Z_]+$`)
	emailPattern     = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// Params checks the identity of a request. Missing required fields fail with
// ErrMissingParameters; malformed ones with ErrInvalidParameters. Every
// problem is listed in the error's details.
func Params(p domain.ConfigParams) error {
	var missing, invalid []string

	for _, f := range []struct{ name, value string }{
		{"orgKey", p.OrgKey},
		{"moduleKey", p.ModuleKey},
		{"industry", p.Industry},
	} {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name+" is required")
		}
	}

	if p.OrgKey != "" && !orgKeyPattern.MatchString(p.OrgKey) {
		invalid = append(invalid, "Organization key contains invalid characters")
	}
	if p.ModuleKey != "" && !moduleKeyPattern.MatchString(p.ModuleKey) {
		invalid = append(invalid, "Module key must be uppercase with underscores only")
	}
	if p.UserKey != "" && !emailPattern.MatchString(p.UserKey) {
		invalid = append(invalid, "User key must be a valid email address")
	}

	if len(missing) > 0 {
		return cerrors.NewValidationError(cerrors.ErrMissingParameters, append(missing, invalid...))
	}
	return cerrors.NewValidationError(cerrors.ErrInvalidParameters, invalid)
}

// Keys checks only orgKey and moduleKey, for lookups that need no industry.
func Keys(orgKey, moduleKey string) error {
	var details []string
	if strings.TrimSpace(orgKey) == "" {
		details = append(details, "orgKey is required")
	}
	if strings.TrimSpace(moduleKey) == "" {
		details = append(details, "moduleKey is required")
	}
	if len(details) > 0 {
		return cerrors.NewValidationError(cerrors.ErrMissingParameters, details)
	}

	if !orgKeyPattern.MatchString(orgKey) {
		details = append(details, "Organization key contains invalid characters")
	}
	if !moduleKeyPattern.MatchString(moduleKey) {
		details = append(details, "Module key must be uppercase with underscores only")
	}
	return cerrors.NewValidationError(cerrors.ErrInvalidParameters, details)
}

// CSVStructure checks that content has a header and at least one data row
// and that every non-blank line has the header's column count. Lines are
// trimmed and blank lines ignored.
func CSVStructure(content string) error {
	if strings.TrimSpace(content) == "" {
		return cerrors.NewValidationError(cerrors.ErrInvalidStructure, []string{"CSV content is empty"})
	}

	var lines []string
	for _, line := range strings.Split(content, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) < 2 {
		return cerrors.NewValidationError(cerrors.ErrInvalidStructure,
			[]string{"CSV must contain header and at least one data row"})
	}

	var details []string
	headerCols := strings.Count(lines[0], ",") + 1
	for i, line := range lines[1:] {
		if strings.Count(line, ",")+1 != headerCols {
			details = append(details, fmt.Sprintf("Row %d has incorrect number of columns", i+2))
		}
	}
	return cerrors.NewValidationError(cerrors.ErrInvalidStructure, details)
}
