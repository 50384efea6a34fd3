package handlers

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"quoteworks/services"
)

// HandleQuoteExtract handles POST /quotes/import/extract
// Forwards an uploaded work order PDF to the extraction service and returns
// the extracted line items for review before reconciliation.
func HandleQuoteExtract(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := RequireRole(e, services.RoleContractor); err != nil {
			return err
		}

		// Parse multipart form (max 10MB)
		if err := e.Request.ParseMultipartForm(10 << 20); err != nil {
			return apiError(e, http.StatusBadRequest, "File too large or invalid form data")
		}

		file, header, err := e.Request.FormFile("file")
		if err != nil {
			return apiError(e, http.StatusBadRequest, "Please select a file to upload")
		}
		defer file.Close()

		client := services.NewExtractionClient()
		result, err := client.Extract(e.Request.Context(), header.Filename, file)
		if err != nil {
			log.Printf("quote_import: HandleQuoteExtract: extraction failed: %v", err)
			return apiError(e, http.StatusBadGateway, "Extraction service is unavailable")
		}

		return e.JSON(http.StatusOK, result)
	}
}

// HandleQuoteFromExtraction handles POST /work-orders/{id}/quotes/from-extraction
// Reconciles extracted line items against the contractor's catalog and
// builds a draft quote from the confident matches. Lines the catalog could
// not cover come back in the response for manual pricing.
func HandleQuoteFromExtraction(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := RequireRole(e, services.RoleContractor); err != nil {
			return err
		}
		workOrderID := e.Request.PathValue("id")
		actor := GetActor(e.Request)

		workOrder, err := app.FindRecordById("work_orders", workOrderID)
		if err != nil {
			return apiError(e, http.StatusNotFound, "Work order not found")
		}
		contractor, err := app.FindRecordById("contractors", actor.UID)
		if err != nil {
			return apiError(e, http.StatusForbidden, "Unknown contractor")
		}

		var req struct {
			Title     string                       `json:"title"`
			Threshold float64                      `json:"threshold"`
			LineItems []services.ExtractedLineItem `json:"line_items"`
		}
		if err := e.BindBody(&req); err != nil {
			return apiError(e, http.StatusBadRequest, "Invalid request body")
		}
		if len(req.LineItems) == 0 {
			return apiError(e, http.StatusBadRequest, "No line items to reconcile")
		}
		threshold := req.Threshold
		if threshold <= 0 || threshold >= 1 {
			threshold = services.DefaultMatchThreshold
		}

		catalog, err := services.CatalogFromStore(app, actor.UID)
		if err != nil {
			log.Printf("quote_import: HandleQuoteFromExtraction: could not load catalog: %v", err)
			return apiError(e, http.StatusInternalServerError, "Could not load template catalog")
		}
		rates := services.LaborRatesFromRecord(contractor)

		result := services.Reconcile(req.LineItems, catalog, rates, services.NewTokenMatcher(catalog), threshold)

		number, err := services.GenerateQuoteNumber(app, actor.UID, time.Now())
		if err != nil {
			log.Printf("quote_import: HandleQuoteFromExtraction: could not generate number: %v", err)
			return apiError(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		quotesCol, err := app.FindCollectionByNameOrId("quotes")
		if err != nil {
			log.Printf("quote_import: HandleQuoteFromExtraction: could not find quotes collection: %v", err)
			return apiError(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}
		itemsCol, err := app.FindCollectionByNameOrId("quote_line_items")
		if err != nil {
			log.Printf("quote_import: HandleQuoteFromExtraction: could not find quote_line_items collection: %v", err)
			return apiError(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		title := strings.TrimSpace(req.Title)
		if title == "" {
			title = workOrder.GetString("title")
		}

		quote := core.NewRecord(quotesCol)
		quote.Set("work_order", workOrderID)
		quote.Set("contractor", actor.UID)
		quote.Set("client", workOrder.GetString("client"))
		quote.Set("number", number)
		quote.Set("title", title)
		quote.Set("status", string(services.StatusDraft))
		quote.Set("total", 0.0)
		if err := app.Save(quote); err != nil {
			log.Printf("quote_import: HandleQuoteFromExtraction: could not save quote: %v", err)
			return apiError(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		for i, item := range result.Priced {
			if err := savePricedItem(app, itemsCol, quote.Id, i+1, item); err != nil {
				log.Printf("quote_import: HandleQuoteFromExtraction: could not save item %q: %v", item.Description, err)
				return apiError(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
			}
		}

		totals, err := services.RecalcQuoteTotal(app, quote.Id)
		if err != nil {
			log.Printf("quote_import: HandleQuoteFromExtraction: could not save total: %v", err)
		} else {
			quote.Set("total", totals.GrandTotal)
		}

		return e.JSON(http.StatusCreated, map[string]any{
			"quote":           quoteToJSON(quote),
			"matched_count":   result.MatchedCount,
			"unmatched_count": result.UnmatchedCount,
			"unmatched":       result.Unmatched,
		})
	}
}

// HandleQuoteResolveLineItem handles POST /quotes/{id}/line-items/resolve
// Prices a line the reconciliation could not match, from figures the
// contractor supplies, and appends it to the quote.
func HandleQuoteResolveLineItem(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := RequireRole(e, services.RoleContractor); err != nil {
			return err
		}
		quoteID := e.Request.PathValue("id")

		quote, err := loadEditableQuote(app, e, quoteID)
		if quote == nil {
			return err
		}
		contractor, err := app.FindRecordById("contractors", quote.GetString("contractor"))
		if err != nil {
			return apiError(e, http.StatusNotFound, "Contractor not found")
		}

		var req struct {
			Description   string  `json:"description"`
			Quantity      float64 `json:"quantity"`
			Confidence    float64 `json:"confidence"`
			Category      string  `json:"category"`
			Unit          string  `json:"unit"`
			BasePrice     float64 `json:"base_price"`
			LaborHours    float64 `json:"labor_hours"`
			MaterialCost  float64 `json:"material_cost"`
			MarkupPercent float64 `json:"markup_percent"`
		}
		if err := e.BindBody(&req); err != nil {
			return apiError(e, http.StatusBadRequest, "Invalid request body")
		}

		req.Description = strings.TrimSpace(req.Description)
		if req.Description == "" {
			return apiError(e, http.StatusBadRequest, "Description is required")
		}
		if req.Quantity <= 0 {
			return apiError(e, http.StatusBadRequest, "Quantity must be greater than zero")
		}
		if !services.ValidCategory(req.Category) {
			return apiError(e, http.StatusBadRequest, "Unknown category")
		}

		item := services.UnmatchedItem{
			Description: req.Description,
			Quantity:    req.Quantity,
			Confidence:  req.Confidence,
		}
		pricing := services.ManualPricing{
			Category:      services.Category(req.Category),
			Unit:          req.Unit,
			BasePrice:     req.BasePrice,
			LaborHours:    req.LaborHours,
			MaterialCost:  req.MaterialCost,
			MarkupPercent: req.MarkupPercent,
		}
		priced := services.PriceUnmatched(item, pricing, services.LaborRatesFromRecord(contractor))

		itemsCol, err := app.FindCollectionByNameOrId("quote_line_items")
		if err != nil {
			log.Printf("quote_import: HandleQuoteResolveLineItem: could not find collection: %v", err)
			return apiError(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		record := core.NewRecord(itemsCol)
		record.Set("quote", quoteID)
		record.Set("sort_order", getNextSortOrder(app, quoteID))
		fillPricedItem(record, priced)
		if err := app.Save(record); err != nil {
			log.Printf("quote_import: HandleQuoteResolveLineItem: could not save: %v", err)
			return apiError(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		if err := finalizeQuoteEdit(app, e, quote); err != nil {
			return err
		}
		return e.JSON(http.StatusCreated, lineItemToJSON(record))
	}
}

// savePricedItem persists one reconciled item as a quote line item.
func savePricedItem(app *pocketbase.PocketBase, col *core.Collection, quoteID string, sortOrder int, item services.PricedItem) error {
	record := core.NewRecord(col)
	record.Set("quote", quoteID)
	record.Set("sort_order", sortOrder)
	fillPricedItem(record, item)
	return app.Save(record)
}

func fillPricedItem(record *core.Record, item services.PricedItem) {
	record.Set("template", item.TemplateID)
	record.Set("description", item.Description)
	record.Set("unit", item.Unit)
	record.Set("extraction_confidence", item.Confidence)
	record.Set("is_manually_priced", item.IsManuallyPriced)
	applyBreakdown(record, item.Inputs, item.Breakdown)
}
