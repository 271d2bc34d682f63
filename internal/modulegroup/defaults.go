package modulegroup

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Default returns the built-in group table.
func Default() Registry {
	return MustRegistry(DefaultGroups()...)
}

// DefaultGroups returns a fresh copy of the built-in group definitions.
func DefaultGroups() []Group {
	return []Group{
		{
			ID:   "PRODUCT",
			Name: "Product Group",
			Members: []Member{
				{Key: "FM_MATERIAL_OBJECT_PRODUCTLITE_MANAGER", Name: "Product Master", Kind: KindMaster},
				{Key: "FM_MATERIAL_OBJECT_INVENTORYLITE_ALL", Name: "Inventory Transactions", Kind: KindTransactions},
				{Key: "FM_MATERIAL_UPDATE_INVENTORYLITE_ALL", Name: "Inventory Updates", Kind: KindUpdates},
			},
		},
		{
			ID:   "ASSET",
			Name: "Asset Group",
			Members: []Member{
				{Key: "FM_ASSETS_OBJECT_ASSETLITE_ALL", Name: "Asset Master", Kind: KindMaster},
				{Key: "FM_ASSETS_OBJECT_PRODUCTLITE_ALL", Name: "Asset Transactions", Kind: KindTransactions},
			},
		},
		{
			ID:   "LEADS",
			Name: "Leads Group",
			Members: []Member{
				{Key: "FM_SALES_OBJECT_LEADSLITE_ALL", Name: "Leads Master", Kind: KindMaster},
				{Key: "FM_SALES_UPDATE_LEADSLITE_ALL", Name: "Leads Updates", Kind: KindUpdates},
			},
		},
		{
			ID:   "WORKFORCE",
			Name: "Workforce Management",
			Members: []Member{
				{Key: "FM_WORKFORCE_OBJECT_WORKFORCELITE_ALL", Name: "Workforce Master", Kind: KindMaster},
				{Key: "FM_WORKFORCE_UPDATE_ATTENDANCELITE_ALL", Name: "Attendance Reporting", Kind: KindUpdates},
				{Key: "FM_WORKFORCE_UPDATE_EXPENSELITE_ALL", Name: "Expense Reporting", Kind: KindUpdates},
			},
		},
	}
}

// groupFile is the YAML shape of a group override file.
type groupFile struct {
	Groups []Group `yaml:"groups"`
}

// LoadFile builds a registry from a YAML file of the form:
//
//	groups:
//	  - id: PRODUCT
//	    name: Product Group
//	    members:
//	      - {key: FM_MATERIAL_OBJECT_PRODUCTLITE_MANAGER, name: Product Master, kind: MASTER}
//
// The file replaces the built-in table; it is read once at startup.
func LoadFile(path string) (Registry, error) {
	data, err := os.ReadFile(path) //#nosec G304 -- path comes from operator configuration
	if err != nil {
		return Registry{}, fmt.Errorf("failed to read group file: %w", err)
	}

	var f groupFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return Registry{}, fmt.Errorf("failed to parse group file: %w", err)
	}
	return NewRegistry(f.Groups...)
}
