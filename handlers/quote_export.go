package handlers

import (
	"fmt"
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"quoteworks/services"
)

// HandleQuoteExportExcel handles GET /quotes/{id}/export/excel
func HandleQuoteExportExcel(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		id := e.Request.PathValue("id")
		if id == "" {
			return apiError(e, http.StatusBadRequest, "Missing quote ID")
		}

		data, err := services.BuildQuoteExportData(app, id)
		if err != nil {
			log.Printf("quote_export: failed to build data: %v", err)
			return apiError(e, http.StatusNotFound, "Quote not found")
		}

		excelBytes, err := services.GenerateExcel(data)
		if err != nil {
			log.Printf("quote_export: failed to generate Excel: %v", err)
			return apiError(e, http.StatusInternalServerError, "Failed to generate Excel file")
		}

		filename := fmt.Sprintf("%s.xlsx", sanitizeFilename(data.Number))

		e.Response.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
		e.Response.Write(excelBytes)
		return nil
	}
}

// HandleQuoteExportPDF handles GET /quotes/{id}/export/pdf
func HandleQuoteExportPDF(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		id := e.Request.PathValue("id")
		if id == "" {
			return apiError(e, http.StatusBadRequest, "Missing quote ID")
		}

		data, err := services.BuildQuoteExportData(app, id)
		if err != nil {
			log.Printf("quote_export: failed to build data: %v", err)
			return apiError(e, http.StatusNotFound, "Quote not found")
		}

		pdfBytes, err := services.GeneratePDF(data)
		if err != nil {
			log.Printf("quote_export: failed to generate PDF: %v", err)
			return apiError(e, http.StatusInternalServerError, "Failed to generate PDF")
		}

		filename := fmt.Sprintf("%s.pdf", sanitizeFilename(data.Number))

		e.Response.Header().Set("Content-Type", "application/pdf")
		e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
		e.Response.Write(pdfBytes)
		return nil
	}
}
