package handlers

import (
	"log"
	"net/http"
	"strings"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// workOrderJSON is the wire shape for a work order.
type workOrderJSON struct {
	ID          string `json:"id"`
	Client      string `json:"client"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
	Created     string `json:"created"`
}

func workOrderToJSON(rec *core.Record) workOrderJSON {
	return workOrderJSON{
		ID:          rec.Id,
		Client:      rec.GetString("client"),
		Title:       rec.GetString("title"),
		Description: rec.GetString("description"),
		Status:      rec.GetString("status"),
		Created:     rec.GetString("created"),
	}
}

// HandleWorkOrderList handles GET /work-orders
// An optional ?client= query filters by client.
func HandleWorkOrderList(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		clientID := e.Request.URL.Query().Get("client")

		filter := "id != ''"
		params := map[string]any{}
		if clientID != "" {
			filter = "client = {:clientId}"
			params["clientId"] = clientID
		}

		records, err := app.FindRecordsByFilter("work_orders", filter, "-created", 0, 0, params)
		if err != nil {
			log.Printf("work_orders: HandleWorkOrderList: query failed: %v", err)
			return apiError(e, http.StatusInternalServerError, "Could not load work orders")
		}

		out := make([]workOrderJSON, 0, len(records))
		for _, rec := range records {
			out = append(out, workOrderToJSON(rec))
		}
		return e.JSON(http.StatusOK, out)
	}
}

// HandleWorkOrderCreate handles POST /work-orders
func HandleWorkOrderCreate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var req struct {
			Client      string `json:"client"`
			Title       string `json:"title"`
			Description string `json:"description"`
		}
		if err := e.BindBody(&req); err != nil {
			return apiError(e, http.StatusBadRequest, "Invalid request body")
		}

		req.Title = strings.TrimSpace(req.Title)
		if req.Title == "" {
			return apiError(e, http.StatusBadRequest, "Title is required")
		}
		if _, err := app.FindRecordById("clients", req.Client); err != nil {
			return apiError(e, http.StatusBadRequest, "Client not found")
		}

		col, err := app.FindCollectionByNameOrId("work_orders")
		if err != nil {
			log.Printf("work_orders: HandleWorkOrderCreate: could not find collection: %v", err)
			return apiError(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		record := core.NewRecord(col)
		record.Set("client", req.Client)
		record.Set("title", req.Title)
		record.Set("description", strings.TrimSpace(req.Description))
		record.Set("status", "open")

		if err := app.Save(record); err != nil {
			log.Printf("work_orders: HandleWorkOrderCreate: could not save: %v", err)
			return apiError(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		return e.JSON(http.StatusCreated, workOrderToJSON(record))
	}
}

// HandleWorkOrderView handles GET /work-orders/{id}
func HandleWorkOrderView(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		id := e.Request.PathValue("id")

		record, err := app.FindRecordById("work_orders", id)
		if err != nil {
			return apiError(e, http.StatusNotFound, "Work order not found")
		}
		return e.JSON(http.StatusOK, workOrderToJSON(record))
	}
}
