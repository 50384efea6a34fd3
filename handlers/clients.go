package handlers

import (
	"log"
	"net/http"
	"strings"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"quoteworks/services"
)

type clientJSON struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

func clientToJSON(rec *core.Record) clientJSON {
	return clientJSON{
		ID:    rec.Id,
		Name:  rec.GetString("name"),
		Email: rec.GetString("email"),
		Phone: rec.GetString("phone"),
	}
}

// HandleClientList handles GET /clients
func HandleClientList(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		records, err := app.FindRecordsByFilter("clients", "id != ''", "name", 0, 0, nil)
		if err != nil {
			log.Printf("clients: HandleClientList: query failed: %v", err)
			return apiError(e, http.StatusInternalServerError, "Could not load clients")
		}

		out := make([]clientJSON, 0, len(records))
		for _, rec := range records {
			out = append(out, clientToJSON(rec))
		}
		return e.JSON(http.StatusOK, out)
	}
}

// HandleClientCreate handles POST /clients
func HandleClientCreate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var req struct {
			Name  string `json:"name"`
			Email string `json:"email"`
			Phone string `json:"phone"`
		}
		if err := e.BindBody(&req); err != nil {
			return apiError(e, http.StatusBadRequest, "Invalid request body")
		}

		req.Name = strings.TrimSpace(req.Name)
		if req.Name == "" {
			return apiError(e, http.StatusBadRequest, "Name is required")
		}
		if req.Email != "" && !services.ValidateEmail(req.Email) {
			return apiError(e, http.StatusBadRequest, "Invalid email address")
		}
		if req.Phone != "" && !services.ValidatePhone(req.Phone) {
			return apiError(e, http.StatusBadRequest, "Invalid phone number")
		}

		col, err := app.FindCollectionByNameOrId("clients")
		if err != nil {
			log.Printf("clients: HandleClientCreate: could not find collection: %v", err)
			return apiError(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		record := core.NewRecord(col)
		record.Set("name", req.Name)
		record.Set("email", strings.TrimSpace(req.Email))
		record.Set("phone", strings.TrimSpace(req.Phone))

		if err := app.Save(record); err != nil {
			log.Printf("clients: HandleClientCreate: could not save: %v", err)
			return apiError(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		return e.JSON(http.StatusCreated, clientToJSON(record))
	}
}
