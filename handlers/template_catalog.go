package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"quoteworks/services"
)

// templateJSON is the wire shape for a catalog template.
type templateJSON struct {
	ID            string  `json:"id"`
	Contractor    string  `json:"contractor"`
	Name          string  `json:"name"`
	Description   string  `json:"description"`
	Category      string  `json:"category"`
	Unit          string  `json:"unit"`
	BasePrice     float64 `json:"base_price"`
	LaborHours    float64 `json:"labor_hours"`
	MaterialCost  float64 `json:"material_cost"`
	MarkupPercent float64 `json:"markup_percent"`
	Active        bool    `json:"active"`
}

func templateToJSON(rec *core.Record) templateJSON {
	return templateJSON{
		ID:            rec.Id,
		Contractor:    rec.GetString("contractor"),
		Name:          rec.GetString("name"),
		Description:   rec.GetString("description"),
		Category:      rec.GetString("category"),
		Unit:          rec.GetString("unit"),
		BasePrice:     rec.GetFloat("base_price"),
		LaborHours:    rec.GetFloat("labor_hours"),
		MaterialCost:  rec.GetFloat("material_cost"),
		MarkupPercent: rec.GetFloat("markup_percent"),
		Active:        rec.GetBool("active"),
	}
}

type templateForm struct {
	Name          string  `json:"name"`
	Description   string  `json:"description"`
	Category      string  `json:"category"`
	Unit          string  `json:"unit"`
	BasePrice     float64 `json:"base_price"`
	LaborHours    float64 `json:"labor_hours"`
	MaterialCost  float64 `json:"material_cost"`
	MarkupPercent float64 `json:"markup_percent"`
}

func (f *templateForm) validate() (string, bool) {
	f.Name = strings.TrimSpace(f.Name)
	f.Unit = strings.TrimSpace(f.Unit)
	if f.Name == "" {
		return "Name is required", false
	}
	if !services.ValidCategory(f.Category) {
		return "Unknown category", false
	}
	if f.Unit == "" {
		return "Unit is required", false
	}
	if f.BasePrice < 0 || f.LaborHours < 0 || f.MaterialCost < 0 || f.MarkupPercent < 0 {
		return "Pricing figures must be zero or greater", false
	}
	return "", true
}

// HandleTemplateList handles GET /contractors/{contractorId}/templates
func HandleTemplateList(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		contractorID := e.Request.PathValue("contractorId")

		if _, err := app.FindRecordById("contractors", contractorID); err != nil {
			return apiError(e, http.StatusNotFound, "Contractor not found")
		}

		records, err := app.FindRecordsByFilter(
			"line_item_templates",
			"contractor = {:contractorId}",
			"name",
			0,
			0,
			map[string]any{"contractorId": contractorID},
		)
		if err != nil {
			log.Printf("template_catalog: HandleTemplateList: query failed: %v", err)
			return apiError(e, http.StatusInternalServerError, "Could not load templates")
		}

		out := make([]templateJSON, 0, len(records))
		for _, rec := range records {
			out = append(out, templateToJSON(rec))
		}
		return e.JSON(http.StatusOK, out)
	}
}

// HandleTemplateCreate handles POST /contractors/{contractorId}/templates
func HandleTemplateCreate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := RequireContractorSelf(e); err != nil {
			return err
		}
		contractorID := e.Request.PathValue("contractorId")

		if _, err := app.FindRecordById("contractors", contractorID); err != nil {
			return apiError(e, http.StatusNotFound, "Contractor not found")
		}

		var form templateForm
		if err := e.BindBody(&form); err != nil {
			return apiError(e, http.StatusBadRequest, "Invalid request body")
		}
		if msg, ok := form.validate(); !ok {
			return apiError(e, http.StatusBadRequest, msg)
		}

		col, err := app.FindCollectionByNameOrId("line_item_templates")
		if err != nil {
			log.Printf("template_catalog: HandleTemplateCreate: could not find collection: %v", err)
			return apiError(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		record := core.NewRecord(col)
		record.Set("contractor", contractorID)
		applyTemplateForm(record, form)
		record.Set("active", true)

		if err := app.Save(record); err != nil {
			log.Printf("template_catalog: HandleTemplateCreate: could not save: %v", err)
			return apiError(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		return e.JSON(http.StatusCreated, templateToJSON(record))
	}
}

// HandleTemplateUpdate handles PATCH /contractors/{contractorId}/templates/{id}
func HandleTemplateUpdate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := RequireContractorSelf(e); err != nil {
			return err
		}

		record, err := findContractorTemplate(app, e)
		if err != nil {
			return apiError(e, http.StatusNotFound, "Template not found")
		}

		var form templateForm
		if err := e.BindBody(&form); err != nil {
			return apiError(e, http.StatusBadRequest, "Invalid request body")
		}
		if msg, ok := form.validate(); !ok {
			return apiError(e, http.StatusBadRequest, msg)
		}

		applyTemplateForm(record, form)

		if err := app.Save(record); err != nil {
			log.Printf("template_catalog: HandleTemplateUpdate: could not save: %v", err)
			return apiError(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		return e.JSON(http.StatusOK, templateToJSON(record))
	}
}

// HandleTemplateDeactivate handles POST /contractors/{contractorId}/templates/{id}/deactivate
// A deactivated template stops matching during import but keeps its history.
func HandleTemplateDeactivate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := RequireContractorSelf(e); err != nil {
			return err
		}

		record, err := findContractorTemplate(app, e)
		if err != nil {
			return apiError(e, http.StatusNotFound, "Template not found")
		}

		record.Set("active", false)
		if err := app.Save(record); err != nil {
			log.Printf("template_catalog: HandleTemplateDeactivate: could not save: %v", err)
			return apiError(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		return e.JSON(http.StatusOK, templateToJSON(record))
	}
}

// HandleTemplateDelete handles DELETE /contractors/{contractorId}/templates/{id}
func HandleTemplateDelete(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := RequireContractorSelf(e); err != nil {
			return err
		}

		record, err := findContractorTemplate(app, e)
		if err != nil {
			return apiError(e, http.StatusNotFound, "Template not found")
		}

		if err := app.Delete(record); err != nil {
			log.Printf("template_catalog: HandleTemplateDelete: could not delete: %v", err)
			return apiError(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		return e.JSON(http.StatusOK, map[string]string{"deleted": record.Id})
	}
}

func applyTemplateForm(record *core.Record, form templateForm) {
	record.Set("name", form.Name)
	record.Set("description", strings.TrimSpace(form.Description))
	record.Set("category", form.Category)
	record.Set("unit", form.Unit)
	record.Set("base_price", form.BasePrice)
	record.Set("labor_hours", form.LaborHours)
	record.Set("material_cost", form.MaterialCost)
	record.Set("markup_percent", form.MarkupPercent)
}

// findContractorTemplate loads the template from the path and verifies it
// belongs to the contractor in the path.
func findContractorTemplate(app *pocketbase.PocketBase, e *core.RequestEvent) (*core.Record, error) {
	contractorID := e.Request.PathValue("contractorId")
	id := e.Request.PathValue("id")

	record, err := app.FindRecordById("line_item_templates", id)
	if err != nil {
		return nil, err
	}
	if record.GetString("contractor") != contractorID {
		return nil, errors.New("template does not belong to contractor")
	}
	return record, nil
}
