package services

// ImportField describes one column in a catalog import template.
type ImportField struct {
	Key          string // internal name, matches PocketBase field name
	Label        string // human-readable header shown in Excel
	Description  string // shown on the Instructions sheet
	FormatRule   string // e.g. "number", "one of the category values", ""
	ExampleValue string
	Required     bool
}

// CatalogImportFields returns the ordered column list for line item
// template imports.
func CatalogImportFields() []ImportField {
	return []ImportField{
		{Key: "name", Label: "Name", Description: "Catalog entry name", ExampleValue: "Install Kitchen Faucet", Required: true},
		{Key: "description", Label: "Description", Description: "Longer description shown on quotes", ExampleValue: "Remove old faucet, install new single-handle faucet"},
		{Key: "category", Label: "Category", Description: "Trade category (select from dropdown)", FormatRule: "One of: general, plumbing, electrical, flooring, roofing, hvac", ExampleValue: "plumbing", Required: true},
		{Key: "unit", Label: "Unit", Description: "Unit of measure", ExampleValue: "each", Required: true},
		{Key: "base_price", Label: "Base Price", Description: "Flat price per unit, if any", FormatRule: "Non-negative number", ExampleValue: "0"},
		{Key: "labor_hours", Label: "Labor Hours", Description: "Labor hours per unit", FormatRule: "Non-negative number", ExampleValue: "2"},
		{Key: "material_cost", Label: "Material Cost", Description: "Material cost per unit", FormatRule: "Non-negative number", ExampleValue: "150"},
		{Key: "markup_percent", Label: "Markup %", Description: "Contractor margin percentage", FormatRule: "Non-negative number", ExampleValue: "20"},
	}
}

// UnitOptions returns the list of unit-of-measure options.
var UnitOptions = []string{
	"each",
	"hour",
	"day",
	"sqft",
	"sqyd",
	"lnft",
	"gallon",
	"lot",
	"set",
	"room",
	"fixture",
	"panel",
	"roll",
	"bag",
	"box",
}

// CategoryOptions returns the category values as strings, for dropdowns.
func CategoryOptions() []string {
	out := make([]string, len(Categories))
	for i, c := range Categories {
		out[i] = string(c)
	}
	return out
}
