package services

import (
	"fmt"

	"github.com/pocketbase/pocketbase"
)

// ExportRow represents a single line item row in a quote export.
type ExportRow struct {
	Index            string
	Description      string
	Qty              float64
	Unit             string
	LaborCost        float64
	MaterialTotal    float64
	MarkupAmount     float64
	Total            float64
	Note             string
	IsManuallyPriced bool
}

// ExportData holds everything needed to render a quote export.
type ExportData struct {
	Title          string
	Number         string
	Status         string
	ContractorName string
	ClientName     string
	CreatedDate    string
	ExpiresDate    string
	Rows           []ExportRow
	Totals         QuoteTotals
	AmountInWords  string
}

// BuildQuoteExportData loads a quote with its related records and builds
// the export snapshot. Soft-deleted line items are left out entirely;
// the totals are recomputed from the included rows rather than trusting
// the stored quote total.
func BuildQuoteExportData(app *pocketbase.PocketBase, quoteID string) (ExportData, error) {
	quote, err := app.FindRecordById("quotes", quoteID)
	if err != nil {
		return ExportData{}, fmt.Errorf("quote not found: %w", err)
	}

	data := ExportData{
		Title:       "Quote " + quote.GetString("number"),
		Number:      quote.GetString("number"),
		Status:      string(NormalizeStatus(quote.GetString("status"))),
		CreatedDate: quote.GetDateTime("created").Time().Format("2006-01-02"),
	}
	if expires := quote.GetDateTime("expires_at"); !expires.Time().IsZero() {
		data.ExpiresDate = expires.Time().Format("2006-01-02")
	}

	if contractor, err := app.FindRecordById("contractors", quote.GetString("contractor")); err == nil {
		data.ContractorName = contractor.GetString("name")
	}
	if client, err := app.FindRecordById("clients", quote.GetString("client")); err == nil {
		data.ClientName = client.GetString("name")
	}

	records, err := app.FindRecordsByFilter(
		"quote_line_items",
		"quote = {:quoteId}",
		"sort_order",
		0,
		0,
		map[string]any{"quoteId": quoteID},
	)
	if err != nil {
		return ExportData{}, fmt.Errorf("load line items: %w", err)
	}

	var items []ItemForTotals
	index := 0
	for _, rec := range records {
		if rec.GetBool("deleted") {
			continue
		}
		index++
		items = append(items, ItemForTotalsFromRecord(rec))
		data.Rows = append(data.Rows, ExportRow{
			Index:            fmt.Sprintf("%d", index),
			Description:      rec.GetString("description"),
			Qty:              rec.GetFloat("quantity"),
			Unit:             rec.GetString("unit"),
			LaborCost:        rec.GetFloat("labor_cost"),
			MaterialTotal:    rec.GetFloat("material_total"),
			MarkupAmount:     rec.GetFloat("markup_amount"),
			Total:            rec.GetFloat("total"),
			Note:             rec.GetString("note"),
			IsManuallyPriced: rec.GetBool("is_manually_priced"),
		})
	}

	data.Totals = CalcQuoteTotals(items)
	data.AmountInWords = AmountToWords(data.Totals.GrandTotal)
	return data, nil
}
