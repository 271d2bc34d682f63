package csvconfig

import (
	"fmt"
	"strings"

	"github.com/mrz1836/customizer/internal/constants"
	cerrors "github.com/mrz1836/customizer/internal/errors"
)

// ColumnPolicy decides what happens when a row's cell count differs from the
// field-header line's.
type ColumnPolicy string

// Column policies.
const (
	// ColumnPolicyPad accepts the row as-is. Short rows are padded on demand
	// and long rows keep their extra cells.
	ColumnPolicyPad ColumnPolicy = "pad"

	// ColumnPolicyReject fails the parse with ErrMalformedDocument.
	ColumnPolicyReject ColumnPolicy = "reject"
)

// ParseColumnPolicy converts a config string into a ColumnPolicy.
func ParseColumnPolicy(s string) (ColumnPolicy, error) {
	switch ColumnPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case ColumnPolicyPad, "":
		return ColumnPolicyPad, nil
	case ColumnPolicyReject:
		return ColumnPolicyReject, nil
	default:
		return "", fmt.Errorf("%w: %q", cerrors.ErrConfigInvalidColumnPolicy, s)
	}
}

// Option configures Parse.
type Option func(*parseOptions)

type parseOptions struct {
	layout Layout
	policy ColumnPolicy
}

// WithLayout selects the column layout.
func WithLayout(l Layout) Option {
	return func(o *parseOptions) { o.layout = l }
}

// WithColumnPolicy selects the column-count policy.
func WithColumnPolicy(p ColumnPolicy) Option {
	return func(o *parseOptions) { o.policy = p }
}

// Entry is one line after the header block: either a field row or a line
// kept verbatim (blank lines and non-field lines).
type Entry struct {
	Row *Row
	Raw string
}

// IsRow reports whether the entry holds a field row.
func (e Entry) IsRow() bool {
	return e.Row != nil
}

// Document is a parsed configuration file.
type Document struct {
	// Headers are the lines up to and including the field-header line.
	Headers []string

	// Entries are the lines after the header block in file order.
	Entries []Entry

	// Layout is the column layout rows were parsed with.
	Layout Layout

	// TrailingNewline records whether the input ended with a newline.
	TrailingNewline bool
}

// Parse splits raw into header lines and entries.
//
// The header block ends at the first line whose first cell is "Field Code" or
// "fieldCode". Lines after it are rows when their first cell is a field code;
// anything else, including blank lines, is kept verbatim in place.
func Parse(raw string, opts ...Option) (*Document, error) {
	o := parseOptions{layout: LayoutV1, policy: ColumnPolicyPad}
	for _, opt := range opts {
		opt(&o)
	}

	text := strings.ReplaceAll(raw, "\r\n", "\n")
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("empty input: %w", cerrors.ErrMalformedDocument)
	}

	doc := &Document{Layout: o.layout}
	if strings.HasSuffix(text, "\n") {
		doc.TrailingNewline = true
		text = strings.TrimSuffix(text, "\n")
	}
	lines := strings.Split(text, "\n")

	headerIdx := -1
	for i, line := range lines {
		if isFieldHeader(line) {
			headerIdx = i
			break
		}
	}
	if headerIdx < 0 {
		return nil, fmt.Errorf("no field-header line: %w", cerrors.ErrMalformedDocument)
	}

	doc.Headers = append([]string(nil), lines[:headerIdx+1]...)
	headerCols := len(splitCells(lines[headerIdx]))

	for i, line := range lines[headerIdx+1:] {
		if strings.TrimSpace(line) == "" {
			doc.Entries = append(doc.Entries, Entry{Raw: line})
			continue
		}
		cells := splitCells(line)
		if !IsFieldCode(cells[0]) {
			doc.Entries = append(doc.Entries, Entry{Raw: line})
			continue
		}
		if o.policy == ColumnPolicyReject && len(cells) != headerCols {
			return nil, fmt.Errorf("line %d has %d columns, header has %d: %w",
				headerIdx+i+2, len(cells), headerCols, cerrors.ErrMalformedDocument)
		}
		doc.Entries = append(doc.Entries, Entry{Row: rowFromCells(cells, o.layout)})
	}

	return doc, nil
}

// Serialize renders doc back into CSV text. Rows shorter than the field-header
// line are padded with empty cells to its width. When orgKey is non-empty the
// module identity line gets cell B set to "Customization" and cell C to orgKey.
func Serialize(doc *Document, orgKey string) string {
	var b strings.Builder

	headers := doc.Headers
	if orgKey != "" {
		headers = append([]string(nil), doc.Headers...)
		if idx := moduleLineIndex(headers); idx >= 0 {
			headers[idx] = rewriteModuleLine(headers[idx], orgKey)
		}
	}

	cols := doc.ColumnCount()
	lines := make([]string, 0, len(headers)+len(doc.Entries))
	lines = append(lines, headers...)
	for _, e := range doc.Entries {
		if e.Row != nil {
			lines = append(lines, strings.Join(e.Row.cells(doc.Layout, cols), ","))
			continue
		}
		lines = append(lines, e.Raw)
	}

	b.WriteString(strings.Join(lines, "\n"))
	if doc.TrailingNewline {
		b.WriteString("\n")
	}
	return b.String()
}

// ApplyOrgKey rewrites the module identity line of raw CSV text without
// parsing rows. Lines whose first cell is "module" get cell B set to
// "Customization" and cell C to orgKey.
func ApplyOrgKey(raw, orgKey string) string {
	lines := strings.Split(raw, "\n")
	for i, line := range lines {
		cells := splitCells(strings.TrimSuffix(line, "\r"))
		if strings.EqualFold(strings.TrimSpace(cells[0]), "module") {
			lines[i] = rewriteModuleLine(line, orgKey)
		}
	}
	return strings.Join(lines, "\n")
}

// Rows returns the field rows in file order. The pointers alias the document.
func (d *Document) Rows() []*Row {
	rows := make([]*Row, 0, len(d.Entries))
	for _, e := range d.Entries {
		if e.Row != nil {
			rows = append(rows, e.Row)
		}
	}
	return rows
}

// ColumnCount returns the cell count of the field-header line.
func (d *Document) ColumnCount() int {
	if len(d.Headers) == 0 {
		return 0
	}
	return len(splitCells(d.Headers[len(d.Headers)-1]))
}

// ModuleLine returns the cells of the module identity line, or nil.
func (d *Document) ModuleLine() []string {
	idx := moduleLineIndex(d.Headers)
	if idx < 0 {
		return nil
	}
	return splitCells(d.Headers[idx])
}

// AppendRow adds r after the last field row so trailing blank or free-form
// lines stay at the end of the file.
func (d *Document) AppendRow(r *Row) {
	last := -1
	for i, e := range d.Entries {
		if e.Row != nil {
			last = i
		}
	}
	entry := Entry{Row: r}
	if last < 0 || last == len(d.Entries)-1 {
		d.Entries = append(d.Entries, entry)
		return
	}
	d.Entries = append(d.Entries, Entry{})
	copy(d.Entries[last+2:], d.Entries[last+1:])
	d.Entries[last+1] = entry
}

// NextFieldCode returns the field code following the highest one in use.
func (d *Document) NextFieldCode() string {
	maxN := 0
	for _, r := range d.Rows() {
		if n, ok := FieldCodeNumber(r.FieldCode); ok && n > maxN {
			maxN = n
		}
	}
	return FormatFieldCode(maxN + 1)
}

// FindByData returns every row whose data key equals key.
func (d *Document) FindByData(key string) []*Row {
	var out []*Row
	for _, r := range d.Rows() {
		if r.DataKey() == key {
			out = append(out, r)
		}
	}
	return out
}

// Clone returns a deep copy.
func (d *Document) Clone() *Document {
	c := &Document{
		Headers:         append([]string(nil), d.Headers...),
		Entries:         make([]Entry, len(d.Entries)),
		Layout:          d.Layout,
		TrailingNewline: d.TrailingNewline,
	}
	for i, e := range d.Entries {
		if e.Row != nil {
			c.Entries[i] = Entry{Row: e.Row.Clone()}
			continue
		}
		c.Entries[i] = Entry{Raw: e.Raw}
	}
	return c
}

func splitCells(line string) []string {
	return strings.Split(line, ",")
}

func isFieldHeader(line string) bool {
	first := strings.ToLower(strings.TrimSpace(splitCells(line)[0]))
	return first == "field code" || first == "fieldcode"
}

// moduleLineIndex finds the module identity line: first cell "module", or
// failing that the first header line mentioning "Application".
func moduleLineIndex(headers []string) int {
	for i, h := range headers {
		if strings.EqualFold(strings.TrimSpace(splitCells(h)[0]), "module") {
			return i
		}
	}
	for i, h := range headers {
		if strings.Contains(h, "Application") {
			return i
		}
	}
	return -1
}

func rewriteModuleLine(line, orgKey string) string {
	cr := strings.HasSuffix(line, "\r")
	cells := splitCells(strings.TrimSuffix(line, "\r"))
	for len(cells) < 3 {
		cells = append(cells, "")
	}
	cells[1] = constants.CustomizationLabel
	cells[2] = orgKey
	out := strings.Join(cells, ",")
	if cr {
		out += "\r"
	}
	return out
}
