package csvconfig

import (
	"fmt"

	cerrors "github.com/mrz1836/customizer/internal/errors"
)

// ValidateStructure checks that field codes form a contiguous sequence and
// markers are known. Rows wider than the field-header line are reported;
// shorter rows are not, since Serialize pads them. All problems are reported
// together.
func ValidateStructure(d *Document) error {
	var details []string

	cols := d.ColumnCount()
	prev := 0
	for i, r := range d.Rows() {
		n, ok := FieldCodeNumber(r.FieldCode)
		switch {
		case !ok:
			details = append(details, fmt.Sprintf("row %d: invalid field code %q", i+1, r.FieldCode))
		case i > 0 && n != prev+1:
			details = append(details, fmt.Sprintf("row %d: field code %s breaks the sequence after %s",
				i+1, r.FieldCode, FormatFieldCode(prev)))
		}
		prev = n

		if w := len(r.cells(d.Layout, cols)); cols > 0 && w != cols {
			details = append(details, fmt.Sprintf("row %d: %d columns, expected %d", i+1, w, cols))
		}
		if !r.Marker().Valid() {
			details = append(details, fmt.Sprintf("row %d: unknown customization marker %q", i+1, r.Customization))
		}
	}

	return cerrors.NewValidationError(cerrors.ErrInvalidStructure, details)
}

// ValidateNeverRows checks that every NEVER row of before is still present in
// after and differs at most in its field code. Rows are matched by data key,
// or by position when the data key is blank.
func ValidateNeverRows(before, after *Document) error {
	var details []string

	afterRows := after.Rows()
	for i, r := range before.Rows() {
		if r.Marker() != MarkerNever {
			continue
		}

		var match *Row
		if key := r.DataKey(); key != "" {
			if found := after.FindByData(key); len(found) > 0 {
				match = found[0]
			}
		} else if i < len(afterRows) {
			match = afterRows[i]
		}

		switch {
		case match == nil:
			details = append(details, fmt.Sprintf("NEVER field %s was removed", r.FieldCode))
		case !r.EqualExceptFieldCode(match, before.Layout):
			details = append(details, fmt.Sprintf("NEVER field %s was modified", r.FieldCode))
		}
	}

	return cerrors.NewValidationError(cerrors.ErrInvalidStructure, details)
}
