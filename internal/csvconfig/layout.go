// Package csvconfig parses and serializes the fixed-layout module configuration CSV.
//
// A configuration file is a handful of header lines (an optional blank line,
// the module identity line, the access line and the field-header line)
// followed by one row per field. Rows are positional: the meaning of a cell
// depends only on its column index, described by a Layout.
package csvconfig

// Layout maps row fields to zero-based column indexes. It is versioned
// separately from Row so a format change touches one table.
type Layout struct {
	Version string

	FieldCode     int
	Type          int
	Data          int
	Label         int
	AccessLevel   int
	Message       int
	Default       int
	Validation    int
	ListType      int
	ListValue     int
	MultiGroup    int
	Hidden        int
	LinkSetup     int
	UpdateSetup   int
	Filter        int
	Search        int
	Sort          int
	Mobile        int
	Detail        int
	Create        int
	Edit          int
	Select        int
	List          int
	Map           int
	Card          int
	Report        int
	Customization int

	// Width is the number of columns the layout names.
	Width int
}

// LayoutV1 is the 27-column layout; the customization marker is column 27 (1-indexed).
//
//nolint:gochecknoglobals // Immutable layout table
var LayoutV1 = Layout{
	Version:       "v1",
	FieldCode:     0,
	Type:          1,
	Data:          2,
	Label:         3,
	AccessLevel:   4,
	Message:       5,
	Default:       6,
	Validation:    7,
	ListType:      8,
	ListValue:     9,
	MultiGroup:    10,
	Hidden:        11,
	LinkSetup:     12,
	UpdateSetup:   13,
	Filter:        14,
	Search:        15,
	Sort:          16,
	Mobile:        17,
	Detail:        18,
	Create:        19,
	Edit:          20,
	Select:        21,
	List:          22,
	Map:           23,
	Card:          24,
	Report:        25,
	Customization: 26,
	Width:         27,
}

// slots pairs each layout index with the row field it addresses.
func (l Layout) slots(r *Row) []fieldSlot {
	return []fieldSlot{
		{l.FieldCode, &r.FieldCode},
		{l.Type, &r.Type},
		{l.Data, &r.Data},
		{l.Label, &r.Label},
		{l.AccessLevel, &r.AccessLevel},
		{l.Message, &r.Message},
		{l.Default, &r.Default},
		{l.Validation, &r.Validation},
		{l.ListType, &r.ListType},
		{l.ListValue, &r.ListValue},
		{l.MultiGroup, &r.MultiGroup},
		{l.Hidden, &r.Hidden},
		{l.LinkSetup, &r.LinkSetup},
		{l.UpdateSetup, &r.UpdateSetup},
		{l.Filter, &r.Filter},
		{l.Search, &r.Search},
		{l.Sort, &r.Sort},
		{l.Mobile, &r.Mobile},
		{l.Detail, &r.Detail},
		{l.Create, &r.Create},
		{l.Edit, &r.Edit},
		{l.Select, &r.Select},
		{l.List, &r.List},
		{l.Map, &r.Map},
		{l.Card, &r.Card},
		{l.Report, &r.Report},
		{l.Customization, &r.Customization},
	}
}

type fieldSlot struct {
	index int
	value *string
}
