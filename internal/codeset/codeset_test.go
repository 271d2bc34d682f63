package codeset

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cerrors "github.com/mrz1836/customizer/internal/errors"
)

const template = `codeset,Type,application,Name,FIELDMOBI_DEFAULT,

field,Type,Level,Parent Path,Code,Description
1,DEPT,Level_001,DEPT,SALES,Sales
2,DEPT,Level_002,DEPT#SALES,NORTH,North Region
3,SHIFT,Level_001,SHIFT,DAY,Day Shift
`

// TestParse tests entry extraction from the template form.
func TestParse(t *testing.T) {
	doc, err := Parse(template)
	require.NoError(t, err)

	assert.True(t, doc.TrailingNewline)
	entries := doc.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, Entry{Seq: 2, Type: "DEPT", Level: "Level_002", ParentPath: "DEPT#SALES", Code: "NORTH", Description: "North Region"}, *entries[1])
	assert.Equal(t, []string{"DEPT", "SHIFT"}, Types(doc))
}

// TestParse_Empty tests that an empty file yields an empty document.
func TestParse_Empty(t *testing.T) {
	doc, err := Parse("")
	require.NoError(t, err)
	assert.Empty(t, doc.Entries())
}

// TestParse_ShortNumberedLine tests malformed numbered lines.
func TestParse_ShortNumberedLine(t *testing.T) {
	_, err := Parse("codeset,Type,application,Name,acme,\n1,DEPT,Level_001")
	require.ErrorIs(t, err, cerrors.ErrMalformedDocument)
}

// TestSerialize tests the normalized output and organization-key substitution.
func TestSerialize(t *testing.T) {
	doc, err := Parse(template)
	require.NoError(t, err)

	out := Serialize(doc, "acme")
	want := `codeset,Type,application,Name,acme,

field,Type,Level,Parent Path,Code,Description
DEPT,SALES,Sales,,acme
DEPT,NORTH,North Region,,acme
SHIFT,DAY,Day Shift,,acme
`
	assert.Equal(t, want, out)
	require.NoError(t, VerifyHeader(out, "acme"))

	t.Run("idempotent on normalized input", func(t *testing.T) {
		again, err := Parse(out)
		require.NoError(t, err)
		assert.Len(t, again.Entries(), 3)
		assert.Equal(t, out, Serialize(again, "acme"))
	})

	t.Run("org key change rewrites every entry", func(t *testing.T) {
		again, err := Parse(out)
		require.NoError(t, err)
		moved := Serialize(again, "globex")
		require.NoError(t, VerifyHeader(moved, "globex"))
		assert.NotContains(t, moved, "acme")
	})
}

// TestSerializeHierarchy tests sequence regeneration.
func TestSerializeHierarchy(t *testing.T) {
	doc, err := Parse(template)
	require.NoError(t, err)

	// Drop the first entry; numbers must close the gap.
	doc.Lines = append(doc.Lines[:2], doc.Lines[3:]...)

	out := SerializeHierarchy(doc, "acme")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Equal(t, "1,DEPT,Level_002,DEPT#SALES,NORTH,North Region", lines[3])
	assert.Equal(t, "2,SHIFT,Level_001,SHIFT,DAY,Day Shift", lines[4])
}

// TestVerifyHeader tests header integrity checks.
func TestVerifyHeader(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		org     string
		wantErr bool
	}{
		{name: "matching", raw: "codeset,Type,application,Name,acme,", org: "acme"},
		{name: "placeholder left", raw: "codeset,Type,application,Name,FIELDMOBI_DEFAULT,", org: "acme", wantErr: true},
		{name: "other org", raw: "codeset,Type,application,Name,globex,", org: "acme", wantErr: true},
		{name: "short row", raw: "codeset,Type", org: "acme", wantErr: true},
		{name: "second codeset row", raw: "codeset,a,b,c,acme,\nCodeset,a,b,c,x,", org: "acme", wantErr: true},
		{name: "no codeset rows", raw: "key,value\n", org: "acme"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := VerifyHeader(tc.raw, tc.org)
			if tc.wantErr {
				require.ErrorIs(t, err, cerrors.ErrHeaderIntegrity)
				return
			}
			require.NoError(t, err)
		})
	}
}

// TestApplyOrgKey tests text-level header rewriting.
func TestApplyOrgKey(t *testing.T) {
	got := ApplyOrgKey("codeset,Type,application,Name,FIELDMOBI_DEFAULT,\nfield,Type\n1,A,Level_001,A,X,Y", "acme")
	assert.Equal(t, "codeset,Type,application,Name,acme,\nfield,Type\n1,A,Level_001,A,X,Y", got)
}

// TestValidateHierarchy tests parent resolution and code rules.
func TestValidateHierarchy(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		doc, err := Parse(template)
		require.NoError(t, err)
		require.NoError(t, ValidateHierarchy(doc))
	})

	t.Run("orphan", func(t *testing.T) {
		doc, err := Parse(template + "4,DEPT,Level_003,DEPT#SALES#SOUTH,EAST,East\n")
		require.NoError(t, err)

		err = ValidateHierarchy(doc)
		require.ErrorIs(t, err, cerrors.ErrCodesetOrphan)
		assert.NotErrorIs(t, err, cerrors.ErrInvalidStructure)
	})

	t.Run("parent two levels up", func(t *testing.T) {
		doc, err := Parse("h\n1,DEPT,Level_001,DEPT,SALES,Sales\n2,DEPT,Level_003,DEPT#SALES,NORTH,North\n")
		require.NoError(t, err)

		err = ValidateHierarchy(doc)
		require.ErrorIs(t, err, cerrors.ErrCodesetOrphan)
		assert.Contains(t, err.Error(), "Level_002")
	})

	t.Run("bad code and duplicate", func(t *testing.T) {
		doc, err := Parse(template + "4,SHIFT,Level_001,SHIFT,DAY,Again\n5,SHIFT,Level_001,SHIFT,night,Night\n")
		require.NoError(t, err)

		err = ValidateHierarchy(doc)
		require.ErrorIs(t, err, cerrors.ErrInvalidStructure)
		assert.Contains(t, err.Error(), "duplicate code")
		assert.Contains(t, err.Error(), "uppercase")
	})

	t.Run("bad level", func(t *testing.T) {
		doc, err := Parse("h\n1,A,Level_1,A,X,Y")
		require.NoError(t, err)
		require.ErrorIs(t, ValidateHierarchy(doc), cerrors.ErrInvalidStructure)
	})
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "RAW_MATERIALS", NormalizeCode(" raw-materials! "))
	assert.Equal(t, "NIGHT_SHIFT", NormalizeCode("Night Shift"))
	assert.Equal(t, "North Region", NormalizeDescription("  nORTH region "))

	n, ok := LevelNumber("Level_002")
	require.True(t, ok)
	assert.Equal(t, 2, n)
	assert.Equal(t, "Level_010", FormatLevel(10))
	_, ok = LevelNumber("Level_000")
	assert.False(t, ok)
}
