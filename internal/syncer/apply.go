// Package syncer propagates field changes from an edited module to the other
// modules of its configuration group.
//
// Rows are matched across modules by their data key. New source rows are
// appended to siblings that lack them; label, list type and list value are
// copied onto every matching sibling row. Nothing is ever removed or reordered.
package syncer

import (
	"github.com/mrz1836/customizer/internal/csvconfig"
)

// Synced field names as reported in a Diff.
const (
	FieldLabel     = "label"
	FieldListType  = "list_type"
	FieldListValue = "list_value"
)

// FieldChange records one copied value.
type FieldChange struct {
	FieldCode string `json:"fieldCode"`
	Data      string `json:"data"`
	Field     string `json:"field"`
	Old       string `json:"old"`
	New       string `json:"new"`
}

// Diff is what Apply changed in a target.
type Diff struct {
	// Appended lists the data keys of rows appended to the target.
	Appended []string `json:"appended,omitempty"`

	// Changed lists every copied field value.
	Changed []FieldChange `json:"changed,omitempty"`
}

// Empty reports whether Apply changed nothing.
func (d Diff) Empty() bool {
	return len(d.Appended) == 0 && len(d.Changed) == 0
}

// Apply returns a copy of target updated from source, and what changed.
//
//  1. Every source row marked NEW whose data key is absent from the target is
//     appended, numbered after the target's last field code, marked NEW.
//  2. For every source row with a data key, every target row sharing the key
//     receives the source's non-empty label, list_type and list_value where
//     they differ, and is marked CHANGE if anything was copied.
//
// Target rows marked NEVER are left alone. Neither input is modified.
func Apply(source, target *csvconfig.Document) (*csvconfig.Document, Diff) {
	out := target.Clone()
	var diff Diff

	for _, src := range source.Rows() {
		if src.Marker() != csvconfig.MarkerNew {
			continue
		}
		key := src.DataKey()
		if key == "" || src.FieldCode == "" || len(out.FindByData(key)) > 0 {
			continue
		}

		row := src.Clone()
		row.FieldCode = out.NextFieldCode()
		row.SetMarker(csvconfig.MarkerNew)
		out.AppendRow(row)
		diff.Appended = append(diff.Appended, key)
	}

	for _, src := range source.Rows() {
		key := src.DataKey()
		if key == "" {
			continue
		}
		for _, dst := range out.FindByData(key) {
			if dst.Marker() == csvconfig.MarkerNever {
				continue
			}
			changes := copyFields(src, dst)
			if len(changes) == 0 {
				continue
			}
			dst.SetMarker(csvconfig.MarkerChange)
			diff.Changed = append(diff.Changed, changes...)
		}
	}

	return out, diff
}

func copyFields(src, dst *csvconfig.Row) []FieldChange {
	var changes []FieldChange
	for _, f := range []struct {
		name     string
		from, to *string
	}{
		{FieldLabel, &src.Label, &dst.Label},
		{FieldListType, &src.ListType, &dst.ListType},
		{FieldListValue, &src.ListValue, &dst.ListValue},
	} {
		if *f.from == "" || *f.from == *f.to {
			continue
		}
		changes = append(changes, FieldChange{
			FieldCode: dst.FieldCode,
			Data:      dst.DataKey(),
			Field:     f.name,
			Old:       *f.to,
			New:       *f.from,
		})
		*f.to = *f.from
	}
	return changes
}
