package csvconfig

import (
	"regexp"
	"strconv"
	"strings"
)

// Marker is the per-row customization status stored in the last layout column.
type Marker string

// Customization markers. An empty marker means the column was blank.
const (
	MarkerNone   Marker = "NONE"
	MarkerChange Marker = "CHANGE"
	MarkerNew    Marker = "NEW"
	MarkerRemove Marker = "REMOVE"
	MarkerNever  Marker = "NEVER"
)

// Valid reports whether m is one of the known markers or blank.
func (m Marker) Valid() bool {
	switch m {
	case "", MarkerNone, MarkerChange, MarkerNew, MarkerRemove, MarkerNever:
		return true
	default:
		return false
	}
}

//nolint:gochecknoglobals // Compiled once
var fieldCodePattern = regexp.MustCompile(`(?i)^field_?code(\d+)$`)

// IsFieldCode reports whether s names a field row, such as fieldCode045.
func IsFieldCode(s string) bool {
	return fieldCodePattern.MatchString(strings.TrimSpace(s))
}

// FieldCodeNumber returns the numeric suffix of a field code.
func FieldCodeNumber(s string) (int, bool) {
	m := fieldCodePattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

// FormatFieldCode renders n as a field code with three-digit padding.
func FormatFieldCode(n int) string {
	return "fieldCode" + leftPad(strconv.Itoa(n), 3)
}

func leftPad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat("0", width-len(s)) + s
}

// Row is one field definition. Field values are kept verbatim so that
// serialization reproduces the input byte for byte.
type Row struct {
	FieldCode     string `json:"fieldCode"`
	Type          string `json:"type"`
	Data          string `json:"data"`
	Label         string `json:"label"`
	AccessLevel   string `json:"access_level"`
	Message       string `json:"message"`
	Default       string `json:"default"`
	Validation    string `json:"validation"`
	ListType      string `json:"list_type"`
	ListValue     string `json:"list_value"`
	MultiGroup    string `json:"multi_group"`
	Hidden        string `json:"hidden"`
	LinkSetup     string `json:"link_setup"`
	UpdateSetup   string `json:"update_setup"`
	Filter        string `json:"filter"`
	Search        string `json:"search"`
	Sort          string `json:"sort"`
	Mobile        string `json:"mobile"`
	Detail        string `json:"detail"`
	Create        string `json:"create"`
	Edit          string `json:"edit"`
	Select        string `json:"select"`
	List          string `json:"list"`
	Map           string `json:"map"`
	Card          string `json:"card"`
	Report        string `json:"report"`
	Customization string `json:"customization"`

	// Extra holds cells past the layout width.
	Extra []string `json:"extra,omitempty"`

	// width is the cell count the row was parsed with.
	width int
}

// Marker returns the normalized customization marker.
func (r *Row) Marker() Marker {
	return Marker(strings.ToUpper(strings.TrimSpace(r.Customization)))
}

// SetMarker overwrites the customization column.
func (r *Row) SetMarker(m Marker) {
	r.Customization = string(m)
}

// DataKey returns the trimmed data key used to match rows across modules.
func (r *Row) DataKey() string {
	return strings.TrimSpace(r.Data)
}

// Width returns the number of cells the row serializes to.
func (r *Row) Width() int {
	return r.width
}

// Clone returns a deep copy.
func (r *Row) Clone() *Row {
	c := *r
	if r.Extra != nil {
		c.Extra = append([]string(nil), r.Extra...)
	}
	return &c
}

// EqualExceptFieldCode reports whether every cell other than the field code matches.
func (r *Row) EqualExceptFieldCode(o *Row, layout Layout) bool {
	a, b := r.Clone(), o.Clone()
	a.FieldCode, b.FieldCode = "", ""
	ac, bc := a.cells(layout, 0), b.cells(layout, 0)
	trim := func(cells []string) []string {
		for len(cells) > 0 && cells[len(cells)-1] == "" {
			cells = cells[:len(cells)-1]
		}
		return cells
	}
	ac, bc = trim(ac), trim(bc)
	if len(ac) != len(bc) {
		return false
	}
	for i := range ac {
		if ac[i] != bc[i] {
			return false
		}
	}
	return true
}

// rowFromCells maps positional cells into a Row.
func rowFromCells(cells []string, layout Layout) *Row {
	r := &Row{width: len(cells)}
	for _, s := range layout.slots(r) {
		if s.index < len(cells) {
			*s.value = cells[s.index]
		}
	}
	if len(cells) > layout.Width {
		r.Extra = append([]string(nil), cells[layout.Width:]...)
	}
	return r
}

// cells renders the row positionally. The result is at least as wide as the
// row was parsed and as minWidth, and wider only when a named field past
// that width is set.
func (r *Row) cells(layout Layout, minWidth int) []string {
	n := max(r.width, minWidth)
	if extra := layout.Width + len(r.Extra); len(r.Extra) > 0 && extra > n {
		n = extra
	}
	for _, s := range layout.slots(r) {
		if *s.value != "" && s.index+1 > n {
			n = s.index + 1
		}
	}

	out := make([]string, n)
	for _, s := range layout.slots(r) {
		if s.index < n {
			out[s.index] = *s.value
		}
	}
	for i, v := range r.Extra {
		out[layout.Width+i] = v
	}
	return out
}

// NewRow builds a row with the given width, padding with empty cells.
func NewRow(width int) *Row {
	return &Row{width: width}
}
