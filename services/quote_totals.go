package services

import (
	"fmt"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// QuoteTotals holds the aggregated figures for a quote.
type QuoteTotals struct {
	LaborTotal     float64
	MaterialsTotal float64
	MarkupTotal    float64
	GrandTotal     float64
}

// ItemForTotals is the slice of a line item the aggregator cares about.
type ItemForTotals struct {
	LaborCost     float64
	MaterialTotal float64
	MarkupAmount  float64
	Total         float64
	Deleted       bool
}

// CalcQuoteTotals sums the non-deleted line items of a quote. Soft-deleted
// items stay in the collection but contribute nothing.
func CalcQuoteTotals(items []ItemForTotals) QuoteTotals {
	var totals QuoteTotals
	for _, item := range items {
		if item.Deleted {
			continue
		}
		totals.LaborTotal += item.LaborCost
		totals.MaterialsTotal += item.MaterialTotal
		totals.MarkupTotal += item.MarkupAmount
		totals.GrandTotal += item.Total
	}
	return totals
}

// ItemForTotalsFromRecord extracts the aggregation fields from a
// quote_line_items record.
func ItemForTotalsFromRecord(rec *core.Record) ItemForTotals {
	return ItemForTotals{
		LaborCost:     rec.GetFloat("labor_cost"),
		MaterialTotal: rec.GetFloat("material_total"),
		MarkupAmount:  rec.GetFloat("markup_amount"),
		Total:         rec.GetFloat("total"),
		Deleted:       rec.GetBool("deleted"),
	}
}

// RecalcQuoteTotal recomputes a quote's stored total from its line items
// and saves it. The stored total is always derived, never authoritative;
// this runs after every mutation that can change an included item.
func RecalcQuoteTotal(app *pocketbase.PocketBase, quoteID string) (QuoteTotals, error) {
	totals, err := QuoteTotalsFromStore(app, quoteID)
	if err != nil {
		return QuoteTotals{}, err
	}

	quote, err := app.FindRecordById("quotes", quoteID)
	if err != nil {
		return QuoteTotals{}, fmt.Errorf("quote not found: %w", err)
	}

	quote.Set("total", totals.GrandTotal)
	if err := app.Save(quote); err != nil {
		return QuoteTotals{}, fmt.Errorf("save quote total: %w", err)
	}

	return totals, nil
}

// QuoteTotalsFromStore loads a quote's line items and aggregates them
// without writing anything back.
func QuoteTotalsFromStore(app *pocketbase.PocketBase, quoteID string) (QuoteTotals, error) {
	records, err := app.FindRecordsByFilter(
		"quote_line_items",
		"quote = {:quoteId}",
		"sort_order",
		0,
		0,
		map[string]any{"quoteId": quoteID},
	)
	if err != nil {
		return QuoteTotals{}, fmt.Errorf("load line items: %w", err)
	}

	items := make([]ItemForTotals, 0, len(records))
	for _, rec := range records {
		items = append(items, ItemForTotalsFromRecord(rec))
	}
	return CalcQuoteTotals(items), nil
}
