package services_test

import (
	"testing"

	"quoteworks/services"
	"quoteworks/testhelpers"
)

func TestRecalcQuoteTotal_RewritesStaleTotal(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	contractor := testhelpers.CreateTestContractor(t, app, "Totals Contractor")
	client := testhelpers.CreateTestClient(t, app, "Totals Client")
	wo := testhelpers.CreateTestWorkOrder(t, app, client.Id, "Totals WO")
	quote := testhelpers.CreateTestQuote(t, app, wo.Id, contractor.Id, client.Id, "draft")

	testhelpers.CreateTestLineItem(t, app, quote.Id, 1, "Kept item", 1500, 400, 100)
	removed := testhelpers.CreateTestLineItem(t, app, quote.Id, 2, "Removed item", 500, 200, 50)
	removed.Set("deleted", true)
	if err := app.Save(removed); err != nil {
		t.Fatalf("failed to soft-delete item: %v", err)
	}

	quote.Set("total", 99999.0)
	if err := app.Save(quote); err != nil {
		t.Fatalf("failed to save stale total: %v", err)
	}

	totals, err := services.RecalcQuoteTotal(app, quote.Id)
	if err != nil {
		t.Fatalf("RecalcQuoteTotal returned error: %v", err)
	}
	if totals.GrandTotal != 2000 {
		t.Errorf("grand total = %v, want 2000", totals.GrandTotal)
	}
	if totals.LaborTotal != 1500 || totals.MaterialsTotal != 400 || totals.MarkupTotal != 100 {
		t.Errorf("unexpected breakdown: %+v", totals)
	}

	stored, err := app.FindRecordById("quotes", quote.Id)
	if err != nil {
		t.Fatalf("failed to reload quote: %v", err)
	}
	if stored.GetFloat("total") != 2000 {
		t.Errorf("stored total = %v, want 2000", stored.GetFloat("total"))
	}
}

func TestRecalcQuoteTotal_UnknownQuote(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	if _, err := services.RecalcQuoteTotal(app, "missing123"); err == nil {
		t.Error("expected error for unknown quote")
	}
}
