package modulegroup

import (
	"regexp"
	"sort"
	"strings"
)

// Module is a catalog entry: a module key and its display label.
type Module struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// catalog lists every known module in display order.
//
//nolint:gochecknoglobals // Static catalog
var catalog = []Module{
	// System administration
	{"FM_SYSADMIN_OBJECT_DEPARTMENTLITE_ADMIN", "Departments"},
	{"FM_SYSADMIN_OBJECT_REGIONLITE_ADMIN", "Regions"},
	{"FM_SYSADMIN_OBJECT_TEAMSLITE_ADMIN", "Teams"},
	{"FM_SYSADMIN_OBJECT_USERLITE_ADMIN", "Users"},
	{"FM_SYSADMIN_OBJECT_SUBSCRIPTIONLITE_ADMIN", "Subscription"},
	{"FM_SYSADMIN_OBJECT_LOCATIONLITE_ADMIN", "Locations"},
	{"FM_SYSADMIN_OBJECT_PROJECTLITE_ADMIN", "Projects"},
	{"FM_SYSADMIN_OBJECT_PRODUCTLITE_MANAGER", "Products and Services"},
	{"FM_PARTNER_OBJECT_PARTNERLITE_ALL", "Business Partners"},

	// Workforce
	{"FM_WORKFORCE_OBJECT_WORKFORCELITE_ALL", "Workforce Master"},
	{"FM_WORKFORCE_UPDATE_ATTENDANCELITE_ALL", "Attendance Reporting"},
	{"FM_WORKFORCE_UPDATE_EXPENSELITE_ALL", "Expense Reporting"},
	{"FM_WORKFORCE_CONTROL_EXPENSES_ALL", "Expense Claims"},
	{"FM_WORKFORCE_SUMMARY_DAILYLITE_TEAMLEAD", "Daily Work Summary"},
	{"FM_WORKFORCE_SUMMARY_MONTHLYLITE_TEAMLEAD", "Monthly Activity Summary"},
	{"FM_WORKFORCE_STATUS_MESSAGES_ALL", "The Beeline"},
	{"FM_WORKFORCE_OPEN_EXPENSES_ALL", "Outstanding Employee Claims"},

	// Service
	{"FM_WORKFORCE_OBJECT_CATEGORYLITE_ALL", "Service Master"},
	{"FM_WORKFORCE_ACTIVITIES_WORKLITE_ALL", "Service Assignment"},
	{"FM_WORKFORCE_UPDATE_WORKLITE_ALL", "Service Updates"},
	{"FM_SERVICE_SUMMARY_MONTHLYLITE_TEAMLEAD", "Monthly Activity Summary"},

	// Assets
	{"FM_ASSETS_OBJECT_CATEGORYLITE_ALL", "Asset Category Master"},
	{"FM_ASSETS_OBJECT_ASSETSLITE_ALL", "Asset List"},
	{"FM_ASSETS_ACTIVITIES_ASSETSLITE_ALL", "Asset Activity Assignment"},
	{"FM_ASSETS_UPDATE_ASSETSLITE_ALL", "Asset Activity Updates"},
	{"FM_ASSETS_SUMMARY_INVENTORYLITE_ALL", "Asset Balance"},

	// Material and inventory
	{"FM_MATERIAL_OBJECT_PRODUCTLITE_MANAGER", "Product Master"},
	{"FM_MATERIAL_SETUP_INVENTORYLITE_MANAGER", "Opening Stock and Inventory Setup"},
	{"FM_MATERIAL_OPEN_INVENTORYLITE_MANAGER", "Opening Stock and Inventory Setup"},
	{"FM_MATERIAL_SUMMARY_INVENTORYLITE_ALL", "Stock Balance"},
	{"FM_MATERIAL_SUMMARY_STORAGEINVENTORYLITE_ALL", "Storage-wise Stock Balance"},
	{"FM_MATERIAL_ACTIVITIES_INVENTORYLITE_ALL", "Material Activity Assignment"},
	{"FM_MATERIAL_UPDATE_INVENTORYLITE_ALL", "Material Activity Updates"},
	{"FM_MATERIAL_TRANSACTIONS_INVENTORYLITE_ALL", "Stock Transactions"},

	// Customers
	{"FM_CUSTOMER_OBJECT_PARTNERLITE_ALL", "Customer Account Master"},
	{"FM_CUSTOMER_ASSIGNMENT_PARTNERLITE_ALL", "Customer Assignment"},
	{"FM_CUSTOMER_REPORTING_PARTNERLITE_ALL", "Customer Updates"},
	{"FM_CUSTOMER_ACTIVITIES_ENQUIRYLITE_ALL", "Enquiries"},
	{"FM_CUSTOMER_UPDATE_ENQUIRYLITE_ALL", "Enquiry Updates"},
	{"FM_CUSTOMER_ACTIVITIES_ORDERLITE_ALL", "Sales Orders"},
	{"FM_CUSTOMER_UPDATE_PLANNINGLITE_ALL", "Sales Order Milestones and Planning"},
	{"FM_CUSTOMER_CONTROL_INVOICELITE_ALL", "Customer Invoices (AR)"},
	{"FM_CUSTOMER_SUMMARY_SALESLITE_ALL", "Monthly Customer Summary"},
	{"FM_CUSTOMER_OPEN_INVOICELITE_ALL", "Outstanding Customer Invoices"},

	// Vendors
	{"FM_VENDOR_OBJECT_PARTNERLITE_ALL", "Vendor Account Master"},
	{"FM_VENDOR_ACTIVITIES_ORDERLITE_ALL", "Purchase Orders"},
	{"FM_VENDOR_UPDATE_PLANNINGLITE_ALL", "Purchase Order Milestones and Planning"},
	{"FM_VENDOR_CONTROL_INVOICELITE_ALL", "Vendor Invoices (AP)"},
	{"FM_VENDOR_SUMMARY_PURCHASELITE_ALL", "Monthly Vendor Summary"},
	{"FM_VENDOR_OPEN_INVOICELITE_ALL", "Outstanding Vendor Invoices"},

	// Work orders
	{"FM_WORKORDER_ACTIVITIES_ORDERLITE_ALL", "Work Orders"},
	{"FM_WORKORDER_UPDATE_PLANNINGLITE_ALL", "Work Order Milestones and Planning"},
	{"FM_WORKORDER_UPDATE_CHARGEBACKLITE_ALL", "Internal Charge Backs"},

	// Cash and bank
	{"FM_CASHBANK_OBJECT_CASHBANKLITE_MANAGER", "Cash Bank Master"},
	{"FM_CASHBANK_TRANSACTIONS_CASHBANKLITE_MANAGER", "Cash Bank Transactions"},
	{"FM_CASHBANK_UPDATE_OTHERLITE_MANAGER", "Other Cash Bank Updates"},
	{"FM_CASHBANK_UPDATE_RECEIPTSLITE_MANAGER", "Customer Receipts"},
	{"FM_CASHBANK_UPDATE_VENPAYMENTSLITE_MANAGER", "Vendor Payments"},
	{"FM_CASHBANK_UPDATE_EMPPAYMENTSLITE_MANAGER", "Expense Payments"},

	// Accounting
	{"FM_ACCOUNTS_OBJECT_CHARGESLITE_MANAGER", "Charge Codes"},
	{"FM_ACCOUNTS_UPDATE_FINDATALITE_ALL", "Ledger Updates"},
	{"FM_ACCOUNTS_CONTROL_BALANCELITE_ALL", "Control Balances"},
	{"FM_ACCOUNTS_SUMMARY_BALANCELITE_ALL", "Financial Periodic Balances"},
	{"FM_ACCOUNTS_TRANSACTIONS_FINDATALITE_ALL", "Financial Transactions"},
	{"FM_ACCOUNTS_OPENCONTROL_BALANCELITE_ALL", "Open Control Balances"},
	{"FM_ACCOUNTS_OPENSUMMARY_BALANCELITE_ALL", "Open Financial Balances (GL)"},
	{"FM_ACCOUNTS_OPEN_CLOSURELITE_ALL", "Year End Closure"},
}

// ModuleTypes are the categories LabelsByType reports on.
//
//nolint:gochecknoglobals // Static list
var ModuleTypes = []string{"SYSADMIN", "WORKFORCE", "ASSETS", "MATERIAL", "CUSTOMER", "VENDOR", "WORKORDER", "CASHBANK", "ACCOUNTS"}

//nolint:gochecknoglobals // Built once from catalog
var (
	labels   = buildLabels()
	replacer = buildReplacer()
)

func buildLabels() map[string]string {
	m := make(map[string]string, len(catalog))
	for _, mod := range catalog {
		m[mod.Key] = mod.Label
	}
	return m
}

// buildReplacer matches any catalog key as a whole word, longest key first
// so no key is partially replaced by a shorter one.
func buildReplacer() *regexp.Regexp {
	keys := make([]string, 0, len(catalog))
	for _, mod := range catalog {
		keys = append(keys, regexp.QuoteMeta(mod.Key))
	}
	sort.Slice(keys, func(i, j int) bool { return len(keys[i]) > len(keys[j]) })
	return regexp.MustCompile(`\b(?:` + strings.Join(keys, "|") + `)\b`)
}

// Catalog returns every known module in display order.
func Catalog() []Module {
	return append([]Module(nil), catalog...)
}

// Label returns the display label of key, or key itself when unknown.
func Label(key string) string {
	if l, ok := labels[key]; ok {
		return l
	}
	return key
}

// KeyForLabel returns the first module key whose label is label.
func KeyForLabel(label string) (string, bool) {
	for _, mod := range catalog {
		if mod.Label == label {
			return mod.Key, true
		}
	}
	return "", false
}

// IsModuleCode reports whether s is a known module key.
func IsModuleCode(s string) bool {
	_, ok := labels[s]
	return ok
}

// ModulesByType returns the keys containing FM_<TYPE>_.
func ModulesByType(moduleType string) []string {
	needle := "FM_" + strings.ToUpper(moduleType) + "_"
	var out []string
	for _, mod := range catalog {
		if strings.Contains(mod.Key, needle) {
			out = append(out, mod.Key)
		}
	}
	return out
}

// LabelsByType returns the labels of every module type in ModuleTypes.
func LabelsByType() map[string][]string {
	out := make(map[string][]string, len(ModuleTypes))
	for _, t := range ModuleTypes {
		keys := ModulesByType(t)
		ls := make([]string, len(keys))
		for i, k := range keys {
			ls[i] = labels[k]
		}
		out[t] = ls
	}
	return out
}

// ReplaceModuleCodes substitutes every module key in content with its label.
func ReplaceModuleCodes(content string) string {
	return replacer.ReplaceAllStringFunc(content, Label)
}
