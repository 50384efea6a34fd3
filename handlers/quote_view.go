package handlers

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"quoteworks/services"
)

// lineItemJSON is the wire shape for a quote line item.
type lineItemJSON struct {
	ID                   string  `json:"id"`
	SortOrder            int     `json:"sort_order"`
	Template             string  `json:"template,omitempty"`
	Description          string  `json:"description"`
	Quantity             float64 `json:"quantity"`
	Unit                 string  `json:"unit"`
	UnitPrice            float64 `json:"unit_price"`
	LaborHours           float64 `json:"labor_hours"`
	LaborRate            float64 `json:"labor_rate"`
	LaborCost            float64 `json:"labor_cost"`
	MaterialCost         float64 `json:"material_cost"`
	MaterialTotal        float64 `json:"material_total"`
	MarkupPercent        float64 `json:"markup_percent"`
	MarkupAmount         float64 `json:"markup_amount"`
	Subtotal             float64 `json:"subtotal"`
	Total                float64 `json:"total"`
	Deleted              bool    `json:"deleted"`
	Note                 string  `json:"note,omitempty"`
	ExtractionConfidence float64 `json:"extraction_confidence,omitempty"`
	IsManuallyPriced     bool    `json:"is_manually_priced"`
}

func lineItemToJSON(rec *core.Record) lineItemJSON {
	return lineItemJSON{
		ID:                   rec.Id,
		SortOrder:            rec.GetInt("sort_order"),
		Template:             rec.GetString("template"),
		Description:          rec.GetString("description"),
		Quantity:             rec.GetFloat("quantity"),
		Unit:                 rec.GetString("unit"),
		UnitPrice:            rec.GetFloat("unit_price"),
		LaborHours:           rec.GetFloat("labor_hours"),
		LaborRate:            rec.GetFloat("labor_rate"),
		LaborCost:            rec.GetFloat("labor_cost"),
		MaterialCost:         rec.GetFloat("material_cost"),
		MaterialTotal:        rec.GetFloat("material_total"),
		MarkupPercent:        rec.GetFloat("markup_percent"),
		MarkupAmount:         rec.GetFloat("markup_amount"),
		Subtotal:             rec.GetFloat("subtotal"),
		Total:                rec.GetFloat("total"),
		Deleted:              rec.GetBool("deleted"),
		Note:                 rec.GetString("note"),
		ExtractionConfidence: rec.GetFloat("extraction_confidence"),
		IsManuallyPriced:     rec.GetBool("is_manually_priced"),
	}
}

// quoteViewJSON is a quote header with its items and recomputed totals.
type quoteViewJSON struct {
	quoteJSON
	Items  []lineItemJSON       `json:"items"`
	Totals services.QuoteTotals `json:"totals"`
}

// HandleQuoteView handles GET /quotes/{id}
// Totals are recomputed from the live line items rather than read from the
// stored header.
func HandleQuoteView(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		id := e.Request.PathValue("id")

		quote, err := app.FindRecordById("quotes", id)
		if err != nil {
			return apiError(e, http.StatusNotFound, "Quote not found")
		}

		items, err := app.FindRecordsByFilter(
			"quote_line_items",
			"quote = {:quoteId}",
			"sort_order",
			0,
			0,
			map[string]any{"quoteId": id},
		)
		if err != nil {
			log.Printf("quote_view: HandleQuoteView: could not load items: %v", err)
			return apiError(e, http.StatusInternalServerError, "Could not load quote items")
		}

		out := quoteViewJSON{quoteJSON: quoteToJSON(quote)}
		forTotals := make([]services.ItemForTotals, 0, len(items))
		for _, rec := range items {
			out.Items = append(out.Items, lineItemToJSON(rec))
			forTotals = append(forTotals, services.ItemForTotalsFromRecord(rec))
		}
		out.Totals = services.CalcQuoteTotals(forTotals)
		out.Total = out.Totals.GrandTotal

		return e.JSON(http.StatusOK, out)
	}
}

// HandleQuoteList handles GET /quotes?contractor= or ?client=
func HandleQuoteList(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		contractorID := e.Request.URL.Query().Get("contractor")
		clientID := e.Request.URL.Query().Get("client")

		filter := "id != ''"
		params := map[string]any{}
		switch {
		case contractorID != "":
			filter = "contractor = {:contractorId}"
			params["contractorId"] = contractorID
		case clientID != "":
			filter = "client = {:clientId}"
			params["clientId"] = clientID
		}

		records, err := app.FindRecordsByFilter("quotes", filter, "-created", 0, 0, params)
		if err != nil {
			log.Printf("quote_view: HandleQuoteList: query failed: %v", err)
			return apiError(e, http.StatusInternalServerError, "Could not load quotes")
		}

		out := make([]quoteJSON, 0, len(records))
		for _, rec := range records {
			out = append(out, quoteToJSON(rec))
		}
		return e.JSON(http.StatusOK, out)
	}
}

// HandleQuoteDelete handles DELETE /quotes/{id}
// Only drafts may be deleted; anything already sent stays on record.
func HandleQuoteDelete(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := RequireRole(e, services.RoleContractor); err != nil {
			return err
		}
		id := e.Request.PathValue("id")

		quote, err := app.FindRecordById("quotes", id)
		if err != nil {
			return apiError(e, http.StatusNotFound, "Quote not found")
		}
		if services.NormalizeStatus(quote.GetString("status")) != services.StatusDraft {
			return apiError(e, http.StatusConflict, "Only draft quotes can be deleted")
		}

		if err := app.Delete(quote); err != nil {
			log.Printf("quote_view: HandleQuoteDelete: could not delete: %v", err)
			return apiError(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		return e.JSON(http.StatusOK, map[string]string{"deleted": id})
	}
}
