package handlers

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"quoteworks/services"
)

// HandleCatalogTemplateDownload handles GET /contractors/{contractorId}/templates/import/template
// Serves the blank import spreadsheet with headers, droplists and instructions.
func HandleCatalogTemplateDownload(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		excelBytes, err := services.GenerateCatalogTemplate()
		if err != nil {
			log.Printf("catalog_import: failed to generate template: %v", err)
			return apiError(e, http.StatusInternalServerError, "Failed to generate template")
		}

		e.Response.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		e.Response.Header().Set("Content-Disposition", `attachment; filename="catalog_import_template.xlsx"`)
		e.Response.Write(excelBytes)
		return nil
	}
}

// HandleCatalogValidate handles POST /contractors/{contractorId}/templates/import
// Receives a file upload and validates it. Parsed rows come back in the
// response when every row is clean, ready to submit to the commit endpoint.
func HandleCatalogValidate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := RequireRole(e, services.RoleContractor); err != nil {
			return err
		}
		contractorID := e.Request.PathValue("contractorId")

		if _, err := app.FindRecordById("contractors", contractorID); err != nil {
			return apiError(e, http.StatusNotFound, "Contractor not found")
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

		result, err := services.ValidateCatalogFile(file, header.Filename)
		if err != nil {
			log.Printf("catalog_import: HandleCatalogValidate: %v", err)
			return apiError(e, http.StatusBadRequest, err.Error())
		}

		out := map[string]any{
			"total_rows": result.TotalRows,
			"valid_rows": result.ValidRows,
			"error_rows": result.ErrorRows,
			"errors":     result.Errors,
		}
		if result.ErrorRows == 0 {
			out["rows"] = result.ParsedRows
		}
		return e.JSON(http.StatusOK, out)
	}
}

// HandleCatalogCommit handles POST /contractors/{contractorId}/templates/import/commit
// Creates catalog templates from previously validated rows.
func HandleCatalogCommit(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := RequireContractorSelf(e); err != nil {
			return err
		}
		contractorID := e.Request.PathValue("contractorId")

		if _, err := app.FindRecordById("contractors", contractorID); err != nil {
			return apiError(e, http.StatusNotFound, "Contractor not found")
		}

		var req struct {
			Rows []map[string]string `json:"rows"`
		}
		if err := e.BindBody(&req); err != nil {
			return apiError(e, http.StatusBadRequest, "Invalid request body")
		}
		if len(req.Rows) == 0 {
			return apiError(e, http.StatusBadRequest, "No rows to import")
		}

		col, err := app.FindCollectionByNameOrId("line_item_templates")
		if err != nil {
			log.Printf("catalog_import: HandleCatalogCommit: could not find collection: %v", err)
			return apiError(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		created := 0
		for i, row := range req.Rows {
			if row["name"] == "" || !services.ValidCategory(row["category"]) || row["unit"] == "" {
				return apiError(e, http.StatusBadRequest, fmt.Sprintf("Row %d is invalid; re-run validation", i+1))
			}

			record := core.NewRecord(col)
			record.Set("contractor", contractorID)
			record.Set("name", row["name"])
			record.Set("description", row["description"])
			record.Set("category", row["category"])
			record.Set("unit", row["unit"])
			record.Set("base_price", parsedNumber(row["base_price"]))
			record.Set("labor_hours", parsedNumber(row["labor_hours"]))
			record.Set("material_cost", parsedNumber(row["material_cost"]))
			record.Set("markup_percent", parsedNumber(row["markup_percent"]))
			record.Set("active", true)

			if err := app.Save(record); err != nil {
				log.Printf("catalog_import: HandleCatalogCommit: could not save row %d: %v", i+1, err)
				return apiError(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
			}
			created++
		}

		return e.JSON(http.StatusCreated, map[string]int{"created": created})
	}
}

// HandleCatalogErrorReport handles POST /contractors/{contractorId}/templates/import/errors
// Turns the validation errors from a failed upload into a downloadable report.
func HandleCatalogErrorReport(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var req struct {
			Errors []services.ValidationError `json:"errors"`
		}
		if err := e.BindBody(&req); err != nil {
			return apiError(e, http.StatusBadRequest, "Invalid request body")
		}
		if len(req.Errors) == 0 {
			return apiError(e, http.StatusBadRequest, "No errors to report")
		}

		excelBytes, err := services.GenerateErrorReport(req.Errors)
		if err != nil {
			log.Printf("catalog_import: failed to generate error report: %v", err)
			return apiError(e, http.StatusInternalServerError, "Failed to generate error report")
		}

		filename := fmt.Sprintf("import_errors_%s.xlsx", time.Now().Format("20060102_150405"))

		e.Response.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
		e.Response.Write(excelBytes)
		return nil
	}
}

// HandleCatalogExport handles GET /contractors/{contractorId}/templates/export
func HandleCatalogExport(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		contractorID := e.Request.PathValue("contractorId")

		data, err := services.BuildCatalogExportData(app, contractorID)
		if err != nil {
			log.Printf("catalog_import: failed to build catalog export: %v", err)
			return apiError(e, http.StatusNotFound, "Contractor not found")
		}

		excelBytes, err := services.GenerateCatalogExcel(data)
		if err != nil {
			log.Printf("catalog_import: failed to generate catalog export: %v", err)
			return apiError(e, http.StatusInternalServerError, "Failed to generate export")
		}

		e.Response.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		e.Response.Header().Set("Content-Disposition", `attachment; filename="template_catalog.xlsx"`)
		e.Response.Write(excelBytes)
		return nil
	}
}

// parsedNumber converts an already validated numeric cell to a float.
func parsedNumber(s string) float64 {
	v, _ := services.ParseNonNegative(s)
	return v
}
