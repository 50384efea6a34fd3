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

// getNextSortOrder queries the existing line items for a quote and returns
// the next sort_order value.
func getNextSortOrder(app *pocketbase.PocketBase, quoteID string) int {
	existing, err := app.FindRecordsByFilter(
		"quote_line_items",
		"quote = {:quoteId}",
		"-sort_order",
		1,
		0,
		map[string]any{"quoteId": quoteID},
	)
	if err != nil || len(existing) == 0 {
		return 1
	}
	return existing[0].GetInt("sort_order") + 1
}

// loadEditableQuote loads a quote and verifies the actor may edit its items
// in the current status. Expired quotes under review are frozen.
func loadEditableQuote(app *pocketbase.PocketBase, e *core.RequestEvent, quoteID string) (*core.Record, error) {
	quote, err := app.FindRecordById("quotes", quoteID)
	if err != nil {
		return nil, apiError(e, http.StatusNotFound, "Quote not found")
	}

	actor := GetActor(e.Request)
	status := services.NormalizeStatus(quote.GetString("status"))
	if !services.Editable(status, actor.Role) {
		return nil, apiError(e, http.StatusConflict, "Quote is not editable in its current status")
	}
	if status != services.StatusDraft && services.Expired(quote.GetDateTime("expires_at").Time(), time.Now()) {
		return nil, apiError(e, http.StatusConflict, "Quote has expired")
	}
	return quote, nil
}

// finalizeQuoteEdit recomputes the stored quote total after an item
// mutation and, when the edit came from the client side, moves the quote
// from pending review to client_edited.
func finalizeQuoteEdit(app *pocketbase.PocketBase, e *core.RequestEvent, quote *core.Record) error {
	actor := GetActor(e.Request)
	status := services.NormalizeStatus(quote.GetString("status"))
	if actor.Role == services.RoleClient && status == services.StatusPendingClientReview {
		quote.Set("status", string(services.StatusClientEdited))
	}

	totals, err := services.QuoteTotalsFromStore(app, quote.Id)
	if err != nil {
		log.Printf("quote_line_items: finalizeQuoteEdit: could not recompute totals: %v", err)
		return apiError(e, http.StatusInternalServerError, "Could not recompute quote total")
	}
	quote.Set("total", totals.GrandTotal)

	if err := app.Save(quote); err != nil {
		log.Printf("quote_line_items: finalizeQuoteEdit: could not save quote: %v", err)
		return apiError(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
	}
	return nil
}

// applyBreakdown writes the pricing inputs and computed figures onto a
// line item record.
func applyBreakdown(record *core.Record, in services.CostInputs, b services.CostBreakdown) {
	record.Set("quantity", in.Quantity)
	record.Set("labor_hours", in.LaborHours)
	record.Set("labor_rate", in.LaborRate)
	record.Set("labor_cost", b.LaborCost)
	record.Set("material_cost", in.MaterialCost)
	record.Set("material_total", b.MaterialTotal)
	record.Set("markup_percent", in.MarkupPercent)
	record.Set("markup_amount", b.MarkupAmount)
	record.Set("subtotal", b.Subtotal)
	record.Set("total", b.Total)
}

// lineItemForm is the request body for adding or repricing a line item.
// With a template id, the template's figures fill anything left unset.
// A positive unit_price instead prices the line flat: quantity times price,
// no labor or markup.
type lineItemForm struct {
	Template      string  `json:"template"`
	Description   string  `json:"description"`
	Quantity      float64 `json:"quantity"`
	Unit          string  `json:"unit"`
	UnitPrice     float64 `json:"unit_price"`
	Category      string  `json:"category"`
	BasePrice     float64 `json:"base_price"`
	LaborHours    float64 `json:"labor_hours"`
	LaborRate     float64 `json:"labor_rate"`
	MaterialCost  float64 `json:"material_cost"`
	MarkupPercent float64 `json:"markup_percent"`
}

// resolveLineItemPricing turns a form into inputs and a breakdown, applying
// template figures and the contractor's labor rates where needed.
func resolveLineItemPricing(app *pocketbase.PocketBase, quote *core.Record, form *lineItemForm) (services.CostInputs, services.CostBreakdown, string) {
	if form.Template != "" {
		tpl, err := app.FindRecordById("line_item_templates", form.Template)
		if err != nil || tpl.GetString("contractor") != quote.GetString("contractor") {
			return services.CostInputs{}, services.CostBreakdown{}, "Template not found"
		}
		t := services.TemplateFromRecord(tpl)
		if form.Description == "" {
			form.Description = t.Name
		}
		if form.Unit == "" {
			form.Unit = t.Unit
		}
		if form.Category == "" {
			form.Category = string(t.Category)
		}
		if form.BasePrice == 0 {
			form.BasePrice = t.BasePrice
		}
		if form.LaborHours == 0 {
			form.LaborHours = t.LaborHours
		}
		if form.MaterialCost == 0 {
			form.MaterialCost = t.MaterialCost
		}
		if form.MarkupPercent == 0 {
			form.MarkupPercent = t.MarkupPercent
		}
	}

	if form.UnitPrice > 0 {
		in := services.CostInputs{Quantity: form.Quantity, BasePrice: form.UnitPrice}
		return in, services.CalcFlatLineItem(form.Quantity, form.UnitPrice), ""
	}

	rate := form.LaborRate
	if rate == 0 {
		contractor, err := app.FindRecordById("contractors", quote.GetString("contractor"))
		if err == nil {
			rate = services.LaborRatesFromRecord(contractor).RateFor(services.Category(form.Category))
		}
	}

	in := services.CostInputs{
		Quantity:      form.Quantity,
		BasePrice:     form.BasePrice,
		LaborHours:    form.LaborHours,
		LaborRate:     rate,
		MaterialCost:  form.MaterialCost,
		MarkupPercent: form.MarkupPercent,
	}
	return in, services.CalcLineItem(in), ""
}

// HandleQuoteAddLineItem handles POST /quotes/{id}/line-items
func HandleQuoteAddLineItem(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		quoteID := e.Request.PathValue("id")

		quote, err := loadEditableQuote(app, e, quoteID)
		if quote == nil {
			return err
		}

		var form lineItemForm
		if err := e.BindBody(&form); err != nil {
			return apiError(e, http.StatusBadRequest, "Invalid request body")
		}

		form.Description = strings.TrimSpace(form.Description)
		if form.Template == "" && form.Description == "" {
			return apiError(e, http.StatusBadRequest, "Description is required")
		}
		if form.Quantity <= 0 {
			return apiError(e, http.StatusBadRequest, "Quantity must be greater than zero")
		}

		inputs, breakdown, msg := resolveLineItemPricing(app, quote, &form)
		if msg != "" {
			return apiError(e, http.StatusBadRequest, msg)
		}

		col, err := app.FindCollectionByNameOrId("quote_line_items")
		if err != nil {
			log.Printf("quote_line_items: HandleQuoteAddLineItem: could not find collection: %v", err)
			return apiError(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		record := core.NewRecord(col)
		record.Set("quote", quoteID)
		record.Set("sort_order", getNextSortOrder(app, quoteID))
		record.Set("template", form.Template)
		record.Set("description", form.Description)
		record.Set("unit", form.Unit)
		record.Set("unit_price", form.UnitPrice)
		applyBreakdown(record, inputs, breakdown)

		if err := app.Save(record); err != nil {
			log.Printf("quote_line_items: HandleQuoteAddLineItem: could not save: %v", err)
			return apiError(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		if err := finalizeQuoteEdit(app, e, quote); err != nil {
			return err
		}
		return e.JSON(http.StatusCreated, lineItemToJSON(record))
	}
}

// HandleQuoteEditLineItem handles PATCH /quotes/{id}/line-items/{itemId}
// The item is repriced through the calculator from the submitted figures.
func HandleQuoteEditLineItem(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		quoteID := e.Request.PathValue("id")
		itemID := e.Request.PathValue("itemId")

		quote, err := loadEditableQuote(app, e, quoteID)
		if quote == nil {
			return err
		}

		record, err := app.FindRecordById("quote_line_items", itemID)
		if err != nil || record.GetString("quote") != quoteID {
			return apiError(e, http.StatusNotFound, "Line item not found")
		}

		var form lineItemForm
		if err := e.BindBody(&form); err != nil {
			return apiError(e, http.StatusBadRequest, "Invalid request body")
		}

		form.Description = strings.TrimSpace(form.Description)
		if form.Description == "" {
			form.Description = record.GetString("description")
		}
		if form.Quantity <= 0 {
			return apiError(e, http.StatusBadRequest, "Quantity must be greater than zero")
		}

		inputs, breakdown, msg := resolveLineItemPricing(app, quote, &form)
		if msg != "" {
			return apiError(e, http.StatusBadRequest, msg)
		}

		record.Set("description", form.Description)
		if form.Unit != "" {
			record.Set("unit", form.Unit)
		}
		record.Set("unit_price", form.UnitPrice)
		applyBreakdown(record, inputs, breakdown)

		if err := app.Save(record); err != nil {
			log.Printf("quote_line_items: HandleQuoteEditLineItem: could not save: %v", err)
			return apiError(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		if err := finalizeQuoteEdit(app, e, quote); err != nil {
			return err
		}
		return e.JSON(http.StatusOK, lineItemToJSON(record))
	}
}

// HandleQuoteToggleLineItem handles POST /quotes/{id}/line-items/{itemId}/toggle-delete
// Soft-deletes or restores an item. Deleted items keep their figures but
// stop counting toward the quote total.
func HandleQuoteToggleLineItem(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		quoteID := e.Request.PathValue("id")
		itemID := e.Request.PathValue("itemId")

		quote, err := loadEditableQuote(app, e, quoteID)
		if quote == nil {
			return err
		}

		record, err := app.FindRecordById("quote_line_items", itemID)
		if err != nil || record.GetString("quote") != quoteID {
			return apiError(e, http.StatusNotFound, "Line item not found")
		}

		record.Set("deleted", !record.GetBool("deleted"))
		if err := app.Save(record); err != nil {
			log.Printf("quote_line_items: HandleQuoteToggleLineItem: could not save: %v", err)
			return apiError(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		if err := finalizeQuoteEdit(app, e, quote); err != nil {
			return err
		}
		return e.JSON(http.StatusOK, lineItemToJSON(record))
	}
}

// HandleQuoteLineItemNote handles POST /quotes/{id}/line-items/{itemId}/note
func HandleQuoteLineItemNote(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		quoteID := e.Request.PathValue("id")
		itemID := e.Request.PathValue("itemId")

		quote, err := loadEditableQuote(app, e, quoteID)
		if quote == nil {
			return err
		}

		record, err := app.FindRecordById("quote_line_items", itemID)
		if err != nil || record.GetString("quote") != quoteID {
			return apiError(e, http.StatusNotFound, "Line item not found")
		}

		var req struct {
			Note string `json:"note"`
		}
		if err := e.BindBody(&req); err != nil {
			return apiError(e, http.StatusBadRequest, "Invalid request body")
		}

		record.Set("note", strings.TrimSpace(req.Note))
		if err := app.Save(record); err != nil {
			log.Printf("quote_line_items: HandleQuoteLineItemNote: could not save: %v", err)
			return apiError(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		if err := finalizeQuoteEdit(app, e, quote); err != nil {
			return err
		}
		return e.JSON(http.StatusOK, lineItemToJSON(record))
	}
}
