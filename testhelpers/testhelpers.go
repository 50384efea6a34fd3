// Package testhelpers provides utilities for testing PocketBase-based applications.
package testhelpers

import (
	"strings"
	"testing"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"quoteworks/collections"
)

// NewTestApp creates a PocketBase instance backed by a temporary directory.
// It bootstraps the app and runs collections.Setup to create all tables.
// The temporary directory is cleaned up automatically when the test finishes.
func NewTestApp(t *testing.T) *pocketbase.PocketBase {
	t.Helper()

	tmpDir := t.TempDir()
	app := pocketbase.NewWithConfig(pocketbase.Config{
		DefaultDataDir: tmpDir,
	})

	if err := app.Bootstrap(); err != nil {
		t.Fatalf("failed to bootstrap test app: %v", err)
	}

	collections.Setup(app)

	return app
}

// CreateTestContractor creates a contractor record with the given name and returns it.
func CreateTestContractor(t *testing.T, app *pocketbase.PocketBase, name string) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("contractors")
	if err != nil {
		t.Fatalf("failed to find contractors collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("name", name)
	record.Set("reference_code", "TST")
	record.Set("global_labor_rate", 75.0)
	record.Set("category_rates", map[string]float64{"plumbing": 95})

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test contractor: %v", err)
	}

	return record
}

// CreateTestClient creates a client record with the given name and returns it.
func CreateTestClient(t *testing.T, app *pocketbase.PocketBase, name string) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("clients")
	if err != nil {
		t.Fatalf("failed to find clients collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("name", name)
	record.Set("email", "client@example.com")
	record.Set("phone", "5035550100")

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test client: %v", err)
	}

	return record
}

// CreateTestWorkOrder creates a work order record linked to a client.
func CreateTestWorkOrder(t *testing.T, app *pocketbase.PocketBase, clientID, title string) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("work_orders")
	if err != nil {
		t.Fatalf("failed to find work_orders collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("client", clientID)
	record.Set("title", title)
	record.Set("status", "open")

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test work order: %v", err)
	}

	return record
}

// CreateTestQuote creates a quote record in the given status and returns it.
func CreateTestQuote(t *testing.T, app *pocketbase.PocketBase, workOrderID, contractorID, clientID, status string) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("quotes")
	if err != nil {
		t.Fatalf("failed to find quotes collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("work_order", workOrderID)
	record.Set("contractor", contractorID)
	record.Set("client", clientID)
	record.Set("number", "QW-TST-2026-001")
	record.Set("title", "Test Quote")
	record.Set("status", status)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test quote: %v", err)
	}

	return record
}

// CreateTestTemplate creates a line item template record for a contractor.
func CreateTestTemplate(t *testing.T, app *pocketbase.PocketBase, contractorID, name, category string) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("line_item_templates")
	if err != nil {
		t.Fatalf("failed to find line_item_templates collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("contractor", contractorID)
	record.Set("name", name)
	record.Set("category", category)
	record.Set("unit", "each")
	record.Set("base_price", 0.0)
	record.Set("labor_hours", 2.0)
	record.Set("material_cost", 100.0)
	record.Set("markup_percent", 20.0)
	record.Set("active", true)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test template: %v", err)
	}

	return record
}

// CreateTestLineItem creates a quote line item with precomputed amounts.
// laborCost, materialTotal and markupAmount are stored as given; total is
// their sum.
func CreateTestLineItem(t *testing.T, app *pocketbase.PocketBase, quoteID string, sortOrder int, description string, laborCost, materialTotal, markupAmount float64) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("quote_line_items")
	if err != nil {
		t.Fatalf("failed to find quote_line_items collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("quote", quoteID)
	record.Set("sort_order", sortOrder)
	record.Set("description", description)
	record.Set("quantity", 1.0)
	record.Set("unit", "each")
	record.Set("labor_cost", laborCost)
	record.Set("material_total", materialTotal)
	record.Set("markup_amount", markupAmount)
	record.Set("subtotal", laborCost+materialTotal)
	record.Set("total", laborCost+materialTotal+markupAmount)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test line item: %v", err)
	}

	return record
}

// AssertJSONContains checks that body contains all specified fragments.
func AssertJSONContains(t *testing.T, body string, fragments ...string) {
	t.Helper()

	for _, frag := range fragments {
		if !strings.Contains(body, frag) {
			t.Errorf("expected JSON to contain %q, but it was not found\nbody (first 500 chars): %s",
				frag, truncate(body, 500))
		}
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
