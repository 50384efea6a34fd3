package handlers

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"quoteworks/services"
)

// ratesJSON is the wire shape for a contractor's labor rate configuration.
type ratesJSON struct {
	GlobalRate    float64            `json:"global_rate"`
	CategoryRates map[string]float64 `json:"category_rates"`
}

// HandleRatesView handles GET /contractors/{contractorId}/rates
func HandleRatesView(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		contractorID := e.Request.PathValue("contractorId")

		contractor, err := app.FindRecordById("contractors", contractorID)
		if err != nil {
			return apiError(e, http.StatusNotFound, "Contractor not found")
		}

		rates := services.LaborRatesFromRecord(contractor)
		out := ratesJSON{
			GlobalRate:    rates.GlobalRate,
			CategoryRates: map[string]float64{},
		}
		for cat, rate := range rates.CategoryRates {
			out.CategoryRates[string(cat)] = rate
		}
		return e.JSON(http.StatusOK, out)
	}
}

// HandleRatesUpdate handles PUT /contractors/{contractorId}/rates
func HandleRatesUpdate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := RequireContractorSelf(e); err != nil {
			return err
		}
		contractorID := e.Request.PathValue("contractorId")

		contractor, err := app.FindRecordById("contractors", contractorID)
		if err != nil {
			return apiError(e, http.StatusNotFound, "Contractor not found")
		}

		var req ratesJSON
		if err := e.BindBody(&req); err != nil {
			return apiError(e, http.StatusBadRequest, "Invalid request body")
		}

		if req.GlobalRate < 0 {
			return apiError(e, http.StatusBadRequest, "Global rate must be zero or greater")
		}
		for cat, rate := range req.CategoryRates {
			if !services.ValidCategory(cat) {
				return apiError(e, http.StatusBadRequest, "Unknown category: "+cat)
			}
			if rate < 0 {
				return apiError(e, http.StatusBadRequest, "Rate for "+cat+" must be zero or greater")
			}
		}

		contractor.Set("global_labor_rate", req.GlobalRate)
		contractor.Set("category_rates", req.CategoryRates)

		if err := app.Save(contractor); err != nil {
			log.Printf("rates: HandleRatesUpdate: could not save: %v", err)
			return apiError(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		return e.JSON(http.StatusOK, req)
	}
}
