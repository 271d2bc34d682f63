// Package codeset parses and serializes the hierarchical codeset CSV and
// enforces the organization-key header contract.
//
// A template file looks like:
//
//	codeset,Type,application,Name,FIELDMOBI_DEFAULT,
//
//	field,Type,Level,Parent Path,Code,Description
//	1,DEPT,Level_001,DEPT,SALES,Sales
//	2,DEPT,Level_002,DEPT#SALES,NORTH,North Region
//
// On write, numbered lines are normalized to type,code,description,,orgKey
// and the placeholder header cell is replaced by the organization key.
package codeset

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/mrz1836/customizer/internal/constants"
	cerrors "github.com/mrz1836/customizer/internal/errors"
)

// OrgCell is the zero-based cell of a codeset header row holding the organization key.
const OrgCell = 4

//nolint:gochecknoglobals // Compiled once
var numberedLine = regexp.MustCompile(`^\d+`)

// Entry is one codeset value.
type Entry struct {
	Seq         int
	Type        string
	Level       string
	ParentPath  string
	Code        string
	Description string

	// Normalized entries were read in type,code,description,,org form and
	// carry no level or parent path.
	Normalized bool
}

// Line is either an entry or a verbatim line.
type Line struct {
	Entry *Entry
	Raw   string
}

// Document is a parsed codeset file.
type Document struct {
	// Header is the first line.
	Header string

	// Lines are the remaining lines in file order.
	Lines []Line

	TrailingNewline bool
}

// Parse reads a codeset file. Numbered lines become entries; lines already in
// normalized form after the column-header line become normalized entries;
// everything else is kept verbatim.
func Parse(raw string) (*Document, error) {
	text := strings.ReplaceAll(raw, "\r\n", "\n")
	doc := &Document{}
	if strings.TrimSpace(text) == "" {
		return doc, nil
	}
	if strings.HasSuffix(text, "\n") {
		doc.TrailingNewline = true
		text = strings.TrimSuffix(text, "\n")
	}

	lines := strings.Split(text, "\n")
	doc.Header = lines[0]

	pastColumns := false
	for _, line := range lines[1:] {
		cells := splitTrim(line)
		switch {
		case strings.TrimSpace(line) == "":
			doc.Lines = append(doc.Lines, Line{Raw: line})
		case numberedLine.MatchString(cells[0]):
			e, err := entryFromNumbered(cells)
			if err != nil {
				return nil, err
			}
			doc.Lines = append(doc.Lines, Line{Entry: e})
		case strings.EqualFold(cells[0], "field"):
			pastColumns = true
			doc.Lines = append(doc.Lines, Line{Raw: line})
		case pastColumns && len(cells) >= 5 && cells[3] == "":
			doc.Lines = append(doc.Lines, Line{Entry: &Entry{
				Type:        cells[0],
				Code:        cells[1],
				Description: cells[2],
				Normalized:  true,
			}})
		default:
			doc.Lines = append(doc.Lines, Line{Raw: line})
		}
	}

	return doc, nil
}

func entryFromNumbered(cells []string) (*Entry, error) {
	if len(cells) < 6 {
		return nil, fmt.Errorf("codeset line %q has %d columns, want 6: %w",
			strings.Join(cells, ","), len(cells), cerrors.ErrMalformedDocument)
	}
	seq, _ := strconv.Atoi(numberedLine.FindString(cells[0]))
	return &Entry{
		Seq:         seq,
		Type:        cells[1],
		Level:       cells[2],
		ParentPath:  cells[3],
		Code:        cells[4],
		Description: cells[5],
	}, nil
}

// Entries returns the entries in file order. The pointers alias the document.
func (d *Document) Entries() []*Entry {
	out := make([]*Entry, 0, len(d.Lines))
	for _, l := range d.Lines {
		if l.Entry != nil {
			out = append(out, l.Entry)
		}
	}
	return out
}

// Serialize writes the normalized form: the header with the organization key
// substituted, every entry as type,code,description,,orgKey, and verbatim
// lines with the placeholder replaced.
func Serialize(doc *Document, orgKey string) string {
	lines := make([]string, 0, len(doc.Lines)+1)
	lines = append(lines, substituteHeader(doc.Header, orgKey))
	for _, l := range doc.Lines {
		if l.Entry != nil {
			lines = append(lines, strings.Join([]string{l.Entry.Type, l.Entry.Code, l.Entry.Description, "", orgKey}, ","))
			continue
		}
		lines = append(lines, substituteHeader(l.Raw, orgKey))
	}

	out := strings.Join(lines, "\n")
	if doc.TrailingNewline {
		out += "\n"
	}
	return out
}

// SerializeHierarchy writes the template form seq,type,level,parentPath,code,description
// with sequence numbers regenerated from 1. Normalized entries, which have no
// level, are written in normalized form.
func SerializeHierarchy(doc *Document, orgKey string) string {
	Renumber(doc)

	lines := make([]string, 0, len(doc.Lines)+1)
	lines = append(lines, substituteHeader(doc.Header, orgKey))
	for _, l := range doc.Lines {
		e := l.Entry
		switch {
		case e == nil:
			lines = append(lines, substituteHeader(l.Raw, orgKey))
		case e.Normalized:
			lines = append(lines, strings.Join([]string{e.Type, e.Code, e.Description, "", orgKey}, ","))
		default:
			lines = append(lines, strings.Join([]string{
				strconv.Itoa(e.Seq), e.Type, e.Level, e.ParentPath, e.Code, e.Description,
			}, ","))
		}
	}

	out := strings.Join(lines, "\n")
	if doc.TrailingNewline {
		out += "\n"
	}
	return out
}

// Renumber assigns sequence numbers 1..n to hierarchical entries in file order.
func Renumber(doc *Document) {
	n := 0
	for _, e := range doc.Entries() {
		if e.Normalized {
			continue
		}
		n++
		e.Seq = n
	}
}

// ApplyOrgKey rewrites codeset header rows of raw text without parsing
// entries: every line whose first cell is "codeset" gets its organization
// cell set to orgKey, and the placeholder token is replaced on the first line.
func ApplyOrgKey(raw, orgKey string) string {
	lines := strings.Split(raw, "\n")
	for i, line := range lines {
		if i == 0 {
			line = strings.ReplaceAll(line, constants.OrgKeyPlaceholder, orgKey)
		}
		lines[i] = setOrgCell(line, orgKey)
	}
	return strings.Join(lines, "\n")
}

// VerifyHeader checks that every codeset-labeled row of raw carries orgKey in
// its organization cell and that no placeholder survives in the header.
func VerifyHeader(raw, orgKey string) error {
	text := strings.ReplaceAll(raw, "\r\n", "\n")
	lines := strings.Split(text, "\n")
	if len(lines) > 0 && strings.Contains(lines[0], constants.OrgKeyPlaceholder) {
		return fmt.Errorf("header still carries %s: %w", constants.OrgKeyPlaceholder, cerrors.ErrHeaderIntegrity)
	}

	for i, line := range lines {
		cells := strings.Split(line, ",")
		if !strings.EqualFold(strings.TrimSpace(cells[0]), "codeset") {
			continue
		}
		got := ""
		if len(cells) > OrgCell {
			got = strings.TrimSpace(cells[OrgCell])
		}
		if got != orgKey {
			return fmt.Errorf("line %d: organization cell is %q, want %q: %w", i+1, got, orgKey, cerrors.ErrHeaderIntegrity)
		}
	}
	return nil
}

func substituteHeader(line, orgKey string) string {
	if orgKey == "" {
		return line
	}
	return setOrgCell(strings.ReplaceAll(line, constants.OrgKeyPlaceholder, orgKey), orgKey)
}

// setOrgCell sets the organization cell of a codeset-labeled row.
func setOrgCell(line, orgKey string) string {
	cells := strings.Split(line, ",")
	if !strings.EqualFold(strings.TrimSpace(cells[0]), "codeset") {
		return line
	}
	for len(cells) <= OrgCell {
		cells = append(cells, "")
	}
	cells[OrgCell] = orgKey
	return strings.Join(cells, ",")
}

func splitTrim(line string) []string {
	cells := strings.Split(line, ",")
	for i := range cells {
		cells[i] = strings.TrimSpace(cells[i])
	}
	return cells
}
