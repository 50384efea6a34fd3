package main

import (
	"log"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"quoteworks/collections"
	"quoteworks/handlers"
)

func main() {
	app := pocketbase.New()

	// Create collections, seed data and run migrations on startup
	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		collections.Setup(app)
		if err := collections.Seed(app); err != nil {
			log.Printf("Warning: seed data failed: %v", err)
		}
		if err := collections.MigrateLegacyApprovedStatus(app); err != nil {
			log.Printf("Warning: status migration failed: %v", err)
		}
		if err := collections.MigrateStaleQuoteTotals(app); err != nil {
			log.Printf("Warning: quote totals migration failed: %v", err)
		}
		return se.Next()
	})

	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		// Every API route requires the identity headers
		se.Router.BindFunc(handlers.ActorMiddleware(app))

		// ── Clients ──────────────────────────────────────────────
		se.Router.GET("/clients", handlers.HandleClientList(app))
		se.Router.POST("/clients", handlers.HandleClientCreate(app))

		// ── Work orders ──────────────────────────────────────────
		se.Router.GET("/work-orders", handlers.HandleWorkOrderList(app))
		se.Router.POST("/work-orders", handlers.HandleWorkOrderCreate(app))
		se.Router.GET("/work-orders/{id}", handlers.HandleWorkOrderView(app))

		// ── Template catalog ─────────────────────────────────────
		se.Router.GET("/contractors/{contractorId}/templates", handlers.HandleTemplateList(app))
		se.Router.POST("/contractors/{contractorId}/templates", handlers.HandleTemplateCreate(app))
		se.Router.PATCH("/contractors/{contractorId}/templates/{id}", handlers.HandleTemplateUpdate(app))
		se.Router.POST("/contractors/{contractorId}/templates/{id}/deactivate", handlers.HandleTemplateDeactivate(app))
		se.Router.DELETE("/contractors/{contractorId}/templates/{id}", handlers.HandleTemplateDelete(app))

		// Catalog import: template download, validate, commit, error report
		se.Router.GET("/contractors/{contractorId}/templates/import/template", handlers.HandleCatalogTemplateDownload(app))
		se.Router.POST("/contractors/{contractorId}/templates/import", handlers.HandleCatalogValidate(app))
		se.Router.POST("/contractors/{contractorId}/templates/import/commit", handlers.HandleCatalogCommit(app))
		se.Router.POST("/contractors/{contractorId}/templates/import/errors", handlers.HandleCatalogErrorReport(app))

		// Catalog export
		se.Router.GET("/contractors/{contractorId}/templates/export", handlers.HandleCatalogExport(app))

		// ── Labor rates ──────────────────────────────────────────
		se.Router.GET("/contractors/{contractorId}/rates", handlers.HandleRatesView(app))
		se.Router.PUT("/contractors/{contractorId}/rates", handlers.HandleRatesUpdate(app))

		// ── Quotes ───────────────────────────────────────────────
		se.Router.GET("/quotes", handlers.HandleQuoteList(app))
		se.Router.POST("/work-orders/{id}/quotes", handlers.HandleQuoteCreate(app))
		se.Router.POST("/work-orders/{id}/quotes/from-extraction", handlers.HandleQuoteFromExtraction(app))
		se.Router.POST("/quotes/import/extract", handlers.HandleQuoteExtract(app))

		// ── Quote line items ─────────────────────────────────────
		se.Router.POST("/quotes/{id}/line-items", handlers.HandleQuoteAddLineItem(app))
		se.Router.POST("/quotes/{id}/line-items/resolve", handlers.HandleQuoteResolveLineItem(app))
		se.Router.PATCH("/quotes/{id}/line-items/{itemId}", handlers.HandleQuoteEditLineItem(app))
		se.Router.POST("/quotes/{id}/line-items/{itemId}/toggle-delete", handlers.HandleQuoteToggleLineItem(app))
		se.Router.POST("/quotes/{id}/line-items/{itemId}/note", handlers.HandleQuoteLineItemNote(app))

		// ── Quote status actions ─────────────────────────────────
		se.Router.POST("/quotes/{id}/send", handlers.HandleQuoteSend(app))
		se.Router.POST("/quotes/{id}/accept", handlers.HandleQuoteAccept(app))
		se.Router.POST("/quotes/{id}/reject", handlers.HandleQuoteReject(app))
		se.Router.POST("/quotes/{id}/reapprove", handlers.HandleQuoteReapprove(app))

		// ── Quote exports ────────────────────────────────────────
		se.Router.GET("/quotes/{id}/export/excel", handlers.HandleQuoteExportExcel(app))
		se.Router.GET("/quotes/{id}/export/pdf", handlers.HandleQuoteExportPDF(app))

		// Quote view (after specific /quotes/* routes)
		se.Router.GET("/quotes/{id}", handlers.HandleQuoteView(app))
		se.Router.DELETE("/quotes/{id}", handlers.HandleQuoteDelete(app))

		return se.Next()
	})

	if err := app.Start(); err != nil {
		log.Fatal(err)
	}
}
