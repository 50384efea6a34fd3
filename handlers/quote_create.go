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

// quoteJSON is the wire shape for a quote header.
type quoteJSON struct {
	ID         string  `json:"id"`
	WorkOrder  string  `json:"work_order"`
	Contractor string  `json:"contractor"`
	Client     string  `json:"client"`
	Number     string  `json:"number"`
	Title      string  `json:"title"`
	Status     string  `json:"status"`
	Total      float64 `json:"total"`
	ExpiresAt  string  `json:"expires_at"`
	Created    string  `json:"created"`
}

func quoteToJSON(rec *core.Record) quoteJSON {
	return quoteJSON{
		ID:         rec.Id,
		WorkOrder:  rec.GetString("work_order"),
		Contractor: rec.GetString("contractor"),
		Client:     rec.GetString("client"),
		Number:     rec.GetString("number"),
		Title:      rec.GetString("title"),
		Status:     string(services.NormalizeStatus(rec.GetString("status"))),
		Total:      rec.GetFloat("total"),
		ExpiresAt:  rec.GetString("expires_at"),
		Created:    rec.GetString("created"),
	}
}

// HandleQuoteCreate handles POST /work-orders/{id}/quotes
// Creates a draft quote for the work order, owned by the acting contractor.
func HandleQuoteCreate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
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
		if _, err := app.FindRecordById("contractors", actor.UID); err != nil {
			return apiError(e, http.StatusForbidden, "Unknown contractor")
		}

		var req struct {
			Title     string `json:"title"`
			ExpiresAt string `json:"expires_at"`
		}
		if err := e.BindBody(&req); err != nil {
			return apiError(e, http.StatusBadRequest, "Invalid request body")
		}

		req.Title = strings.TrimSpace(req.Title)
		if req.Title == "" {
			req.Title = workOrder.GetString("title")
		}
		if req.ExpiresAt != "" {
			if _, err := time.Parse(time.RFC3339, req.ExpiresAt); err != nil {
				return apiError(e, http.StatusBadRequest, "expires_at must be an RFC 3339 timestamp")
			}
		}

		number, err := services.GenerateQuoteNumber(app, actor.UID, time.Now())
		if err != nil {
			log.Printf("quote_create: HandleQuoteCreate: could not generate number: %v", err)
			return apiError(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		col, err := app.FindCollectionByNameOrId("quotes")
		if err != nil {
			log.Printf("quote_create: HandleQuoteCreate: could not find quotes collection: %v", err)
			return apiError(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		record := core.NewRecord(col)
		record.Set("work_order", workOrderID)
		record.Set("contractor", actor.UID)
		record.Set("client", workOrder.GetString("client"))
		record.Set("number", number)
		record.Set("title", req.Title)
		record.Set("status", string(services.StatusDraft))
		record.Set("total", 0.0)
		record.Set("expires_at", req.ExpiresAt)

		if err := app.Save(record); err != nil {
			log.Printf("quote_create: HandleQuoteCreate: could not save: %v", err)
			return apiError(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		return e.JSON(http.StatusCreated, quoteToJSON(record))
	}
}
