package services

import (
	"encoding/json"
	"fmt"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// LaborRatesFromRecord reads a contractor record's rate configuration.
// The category_rates field holds a JSON object of category -> hourly rate;
// a malformed or empty value degrades to the global rate alone.
func LaborRatesFromRecord(rec *core.Record) LaborRates {
	rates := LaborRates{
		GlobalRate:    rec.GetFloat("global_labor_rate"),
		CategoryRates: map[Category]float64{},
	}

	raw := rec.GetString("category_rates")
	if raw == "" {
		return rates
	}

	var parsed map[string]float64
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return rates
	}
	for cat, rate := range parsed {
		if ValidCategory(cat) {
			rates.CategoryRates[Category(cat)] = rate
		}
	}
	return rates
}

// TemplateFromRecord converts a line_item_templates record into a catalog
// Template.
func TemplateFromRecord(rec *core.Record) Template {
	return Template{
		ID:            rec.Id,
		Name:          rec.GetString("name"),
		Description:   rec.GetString("description"),
		Category:      Category(rec.GetString("category")),
		Unit:          rec.GetString("unit"),
		BasePrice:     rec.GetFloat("base_price"),
		LaborHours:    rec.GetFloat("labor_hours"),
		MaterialCost:  rec.GetFloat("material_cost"),
		MarkupPercent: rec.GetFloat("markup_percent"),
		Active:        rec.GetBool("active"),
	}
}

// CatalogFromStore loads a contractor's full template catalog, sorted by
// name. Inactive templates are included; matching skips them itself.
func CatalogFromStore(app *pocketbase.PocketBase, contractorID string) ([]Template, error) {
	records, err := app.FindRecordsByFilter(
		"line_item_templates",
		"contractor = {:contractorId}",
		"name",
		0,
		0,
		map[string]any{"contractorId": contractorID},
	)
	if err != nil {
		return nil, fmt.Errorf("could not load template catalog: %w", err)
	}

	catalog := make([]Template, 0, len(records))
	for _, rec := range records {
		catalog = append(catalog, TemplateFromRecord(rec))
	}
	return catalog, nil
}
