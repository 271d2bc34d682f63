package codeset

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	cerrors "github.com/mrz1836/customizer/internal/errors"
)

// PathSeparator joins ancestor codes in a parent path.
const PathSeparator = "#"

//nolint:gochecknoglobals // Compiled once
var (
	levelPattern = regexp.MustCompile(`^Level_(\d{3})$`)
	codePattern  = regexp.MustCompile(`^[A-Z0-9_]+$`)
	codeStrip    = regexp.MustCompile(`[^A-Z0-9_]+`)
)

// LevelNumber parses Level_XXX.
func LevelNumber(level string) (int, bool) {
	m := levelPattern.FindStringSubmatch(level)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	return n, err == nil && n > 0
}

// FormatLevel renders n as Level_XXX.
func FormatLevel(n int) string {
	return fmt.Sprintf("Level_%03d", n)
}

// ValidateHierarchy checks the hierarchical entries of doc: levels are
// well-formed, codes are uppercase and unique within their type and every
// non-root entry's parent path resolves to an entry on the level above.
// Orphans are reported with ErrCodesetOrphan, other problems with
// ErrInvalidStructure.
func ValidateHierarchy(doc *Document) error {
	var orphans, problems []string

	type key struct{ typ, path string }
	parents := make(map[key]int)
	seen := make(map[string]bool)

	for _, e := range doc.Entries() {
		if e.Normalized {
			continue
		}

		if !codePattern.MatchString(e.Code) {
			problems = append(problems, fmt.Sprintf("%s: code %q must be uppercase with underscores", e.Type, e.Code))
		}
		id := e.Type + "\x00" + e.Code
		if seen[id] {
			problems = append(problems, fmt.Sprintf("%s: duplicate code %q", e.Type, e.Code))
		}
		seen[id] = true

		level, ok := LevelNumber(e.Level)
		if !ok {
			problems = append(problems, fmt.Sprintf("%s/%s: invalid level %q", e.Type, e.Code, e.Level))
			continue
		}

		if level == 1 {
			if e.ParentPath != "" && e.ParentPath != e.Type {
				problems = append(problems, fmt.Sprintf("%s/%s: root parent path must be %q", e.Type, e.Code, e.Type))
			}
		} else if parents[key{e.Type, e.ParentPath}] != level-1 {
			orphans = append(orphans, fmt.Sprintf("%s/%s: parent %q not found on %s",
				e.Type, e.Code, e.ParentPath, FormatLevel(level-1)))
		}

		path := e.ParentPath
		if level == 1 {
			path = e.Type
		}
		parents[key{e.Type, path + PathSeparator + e.Code}] = level
	}

	return errors.Join(
		cerrors.NewValidationError(cerrors.ErrCodesetOrphan, orphans),
		cerrors.NewValidationError(cerrors.ErrInvalidStructure, problems),
	)
}

// NormalizeCode converts free text into an uppercase underscore code.
func NormalizeCode(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	s = strings.NewReplacer(" ", "_", "-", "_").Replace(s)
	s = codeStrip.ReplaceAllString(s, "")
	return strings.Trim(s, "_")
}

// NormalizeDescription converts a description to title case. A Caser is
// stateful, so one is built per call.
func NormalizeDescription(s string) string {
	return cases.Title(language.English).String(strings.TrimSpace(s))
}

// Types returns the distinct entry types in first-seen order.
func Types(doc *Document) []string {
	var out []string
	seen := make(map[string]bool)
	for _, e := range doc.Entries() {
		if !seen[e.Type] {
			seen[e.Type] = true
			out = append(out, e.Type)
		}
	}
	return out
}
