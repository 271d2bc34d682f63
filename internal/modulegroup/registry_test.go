package modulegroup

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cerrors "github.com/mrz1836/customizer/internal/errors"
)

// TestDefault_Lookup tests the built-in table.
func TestDefault_Lookup(t *testing.T) {
	reg := Default()

	group, siblings, ok := reg.Lookup("FM_MATERIAL_OBJECT_PRODUCTLITE_MANAGER")
	require.True(t, ok)
	assert.Equal(t, "Product Group", group.Name)
	require.Len(t, siblings, 2)
	assert.Equal(t, "FM_MATERIAL_OBJECT_INVENTORYLITE_ALL", siblings[0].Key)
	assert.Equal(t, KindUpdates, siblings[1].Kind)

	_, siblings, ok = reg.Lookup("FM_WORKFORCE_UPDATE_EXPENSELITE_ALL")
	require.True(t, ok)
	assert.Len(t, siblings, 2)

	_, _, ok = reg.Lookup("FM_ACCOUNTS_OPEN_CLOSURELITE_ALL")
	assert.False(t, ok, "ungrouped modules report not found")
}

// TestRegistry_Immutable tests that callers cannot mutate the registry.
func TestRegistry_Immutable(t *testing.T) {
	reg := Default()

	group, _, ok := reg.Lookup("FM_SALES_OBJECT_LEADSLITE_ALL")
	require.True(t, ok)
	group.Members[0].Name = "mutated"

	again, _, _ := reg.Lookup("FM_SALES_OBJECT_LEADSLITE_ALL")
	assert.Equal(t, "Leads Master", again.Members[0].Name)
}

// TestNewRegistry_Duplicate tests the single-group invariant.
func TestNewRegistry_Duplicate(t *testing.T) {
	_, err := NewRegistry(
		Group{ID: "A", Name: "A", Members: []Member{{Key: "FM_X"}}},
		Group{ID: "B", Name: "B", Members: []Member{{Key: "FM_X"}}},
	)
	require.ErrorIs(t, err, cerrors.ErrDuplicateGroupMember)

	_, err = NewRegistry(Group{ID: "A", Name: "A", Members: []Member{{Key: "FM_X"}, {Key: "FM_X"}}})
	require.ErrorIs(t, err, cerrors.ErrDuplicateGroupMember)

	assert.Panics(t, func() {
		MustRegistry(Group{Members: []Member{{Key: "K"}, {Key: "K"}}})
	})
}

// TestRegistry_Groups tests listing.
func TestRegistry_Groups(t *testing.T) {
	reg := Default()
	groups := reg.Groups()

	require.Len(t, groups, 4)
	assert.Equal(t, "ASSET", groups[0].ID)
	assert.Equal(t, 10, reg.Len())

	m, ok := groups[0].Member("FM_ASSETS_OBJECT_ASSETLITE_ALL")
	require.True(t, ok)
	assert.Equal(t, KindMaster, m.Kind)
}

// TestLoadFile tests YAML overrides.
func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "groups.yaml")
	content := `groups:
  - id: TEST
    name: Test Group
    members:
      - {key: FM_A, name: A, kind: MASTER}
      - {key: FM_B, name: B, kind: UPDATES}
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	reg, err := LoadFile(path)
	require.NoError(t, err)

	group, siblings, ok := reg.Lookup("FM_B")
	require.True(t, ok)
	assert.Equal(t, "Test Group", group.Name)
	assert.Equal(t, []Member{{Key: "FM_A", Name: "A", Kind: KindMaster}}, siblings)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
