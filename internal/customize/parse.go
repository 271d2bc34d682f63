package customize

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/mrz1836/customizer/internal/codeset"
	"github.com/mrz1836/customizer/internal/constants"
	cerrors "github.com/mrz1836/customizer/internal/errors"
)

//nolint:gochecknoglobals // Compiled once
var (
	bracketLine   = regexp.MustCompile(`(?m)^\s*[\[\]]\s*`)
	sectionMarker = regexp.MustCompile(`(?im)^(CONFIGURATION|CODESETS):`)
	changedLine   = regexp.MustCompile(`(?im)^[ \t]*CODESETS_CHANGED:[ \t]*([A-Za-z]+)[ \t]*$`)
	quoteConcat   = regexp.MustCompile(`'\s*\+\s*'`)
)

// Proposal is a parsed LLM finalization response.
type Proposal struct {
	// Configuration is the proposed configuration CSV with the module line
	// rewritten for the organization.
	Configuration string `json:"config"`

	// Codesets is the proposed codeset CSV. Empty when HasCodesets is false.
	Codesets string `json:"codesets,omitempty"`

	// HasCodesets reports whether the response carried a CODESETS: section.
	HasCodesets bool `json:"-"`

	// CodesetsChanged reports whether the codesets should be written.
	CodesetsChanged bool `json:"codesetsChanged"`

	// signaled is true when the response carried a CODESETS_CHANGED line.
	signaled bool
}

// ExtractContent undoes the string-literal artifacts models sometimes emit:
// quoted concatenations ('a' + 'b') become a space and literal \n sequences
// become newlines.
func ExtractContent(text string) string {
	text = quoteConcat.ReplaceAllString(text, " ")
	return strings.ReplaceAll(text, `\n`, "\n")
}

// ParseResponse splits an LLM response into its CONFIGURATION: and CODESETS:
// sections. Lines made of a lone bracket are stripped, CRLF is normalized and
// empty lines are dropped. The module line of the configuration gets cell B
// "Customization" and cell C orgKey; every codeset header row gets orgKey in
// its organization cell. A CODESETS_CHANGED: true|false line, if present,
// sets CodesetsChanged.
//
// Returns ErrMissingConfigurationSection when the configuration section is
// absent or empty.
func ParseResponse(text, orgKey string) (*Proposal, error) {
	clean := strings.ReplaceAll(text, "\r\n", "\n")
	clean = bracketLine.ReplaceAllString(clean, "")

	p := &Proposal{}
	if m := changedLine.FindStringSubmatch(clean); m != nil {
		if v, err := strconv.ParseBool(strings.ToLower(m[1])); err == nil {
			p.CodesetsChanged = v
			p.signaled = true
		}
		clean = changedLine.ReplaceAllString(clean, "")
	}

	for _, section := range splitSections(clean) {
		section = strings.TrimSpace(section)
		marker := sectionMarker.FindString(section)
		body := strings.TrimSpace(section[len(marker):])
		lines := nonEmptyLines(body)

		switch strings.ToUpper(marker) {
		case "CONFIGURATION:":
			for i, line := range lines {
				lines[i] = rewriteCell(line, "module", map[int]string{
					1: constants.CustomizationLabel,
					2: orgKey,
				})
			}
			p.Configuration = strings.Join(lines, "\n")
		case "CODESETS:":
			for i, line := range lines {
				lines[i] = rewriteCell(line, "codeset", map[int]string{codeset.OrgCell: orgKey})
			}
			p.Codesets = strings.Join(lines, "\n")
			p.HasCodesets = true
		}
	}

	if p.Configuration == "" {
		return nil, cerrors.ErrMissingConfigurationSection
	}
	if !p.HasCodesets {
		p.CodesetsChanged = false
	}
	return p, nil
}

// CompareCodesets decides CodesetsChanged from content when the response
// carried no explicit signal: the codesets changed when a section exists and
// differs from current, ignoring blank lines and surrounding whitespace.
func (p *Proposal) CompareCodesets(current string) {
	if p.signaled || !p.HasCodesets {
		return
	}
	p.CodesetsChanged = strings.Join(nonEmptyLines(p.Codesets), "\n") !=
		strings.Join(nonEmptyLines(strings.ReplaceAll(current, "\r\n", "\n")), "\n")
}

// splitSections cuts text at every section marker. Text before the first
// marker is discarded.
func splitSections(text string) []string {
	idx := sectionMarker.FindAllStringIndex(text, -1)
	sections := make([]string, 0, len(idx))
	for i, loc := range idx {
		end := len(text)
		if i+1 < len(idx) {
			end = idx[i+1][0]
		}
		sections = append(sections, text[loc[0]:end])
	}
	return sections
}

func nonEmptyLines(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) != "" {
			out = append(out, line)
		}
	}
	return out
}

// rewriteCell sets cells of line when its first cell equals label,
// case-insensitively, padding the row as needed.
func rewriteCell(line, label string, cells map[int]string) string {
	parts := strings.Split(line, ",")
	if !strings.EqualFold(strings.TrimSpace(parts[0]), label) {
		return line
	}
	for idx, v := range cells {
		for len(parts) <= idx {
			parts = append(parts, "")
		}
		parts[idx] = v
	}
	return strings.Join(parts, ",")
}
