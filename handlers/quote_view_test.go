package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"quoteworks/services"
	"quoteworks/testhelpers"
)

func TestHandleQuoteView_RecomputesTotals(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	fx := newQuoteFixture(t, app, "draft")
	testhelpers.CreateTestLineItem(t, app, fx.Quote.Id, 1, "Framing", 1500, 300, 200)
	deleted := testhelpers.CreateTestLineItem(t, app, fx.Quote.Id, 2, "Removed work", 400, 50, 50)
	deleted.Set("deleted", true)
	if err := app.Save(deleted); err != nil {
		t.Fatalf("failed to soft-delete item: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/quotes/"+fx.Quote.Id, nil)
	req.SetPathValue("id", fx.Quote.Id)
	req = withActor(req, fx.Contractor.Id, services.RoleContractor)
	rec := httptest.NewRecorder()

	if err := HandleQuoteView(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}

	var out quoteViewJSON
	decodeJSON(t, rec, &out)
	if len(out.Items) != 2 {
		t.Fatalf("expected 2 items in view, got %d", len(out.Items))
	}
	// Deleted items stay visible but do not count toward the total
	if out.Totals.GrandTotal != 2000 {
		t.Errorf("grand total = %v, want 2000", out.Totals.GrandTotal)
	}
	if out.Total != 2000 {
		t.Errorf("header total = %v, want 2000", out.Total)
	}
}

func TestHandleQuoteView_NormalizesLegacyStatus(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	fx := newQuoteFixture(t, app, "approved")

	req := httptest.NewRequest(http.MethodGet, "/quotes/"+fx.Quote.Id, nil)
	req.SetPathValue("id", fx.Quote.Id)
	req = withActor(req, fx.Contractor.Id, services.RoleContractor)
	rec := httptest.NewRecorder()

	if err := HandleQuoteView(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}

	var out quoteViewJSON
	decodeJSON(t, rec, &out)
	if out.Status != "accepted" {
		t.Errorf("status = %q, want accepted", out.Status)
	}
}

func TestHandleQuoteList_FiltersByContractor(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	fx := newQuoteFixture(t, app, "draft")
	other := testhelpers.CreateTestContractor(t, app, "Other Contractor")
	testhelpers.CreateTestQuote(t, app, fx.WorkOrder.Id, other.Id, fx.Client.Id, "draft")

	req := httptest.NewRequest(http.MethodGet, "/quotes?contractor="+fx.Contractor.Id, nil)
	req = withActor(req, fx.Contractor.Id, services.RoleContractor)
	rec := httptest.NewRecorder()

	if err := HandleQuoteList(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}

	var out []quoteJSON
	decodeJSON(t, rec, &out)
	if len(out) != 1 {
		t.Fatalf("expected 1 quote, got %d", len(out))
	}
	if out[0].Contractor != fx.Contractor.Id {
		t.Errorf("contractor = %q, want %q", out[0].Contractor, fx.Contractor.Id)
	}
}

func TestHandleQuoteDelete_DraftOnly(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	fx := newQuoteFixture(t, app, "draft")

	req := httptest.NewRequest(http.MethodDelete, "/quotes/"+fx.Quote.Id, nil)
	req.SetPathValue("id", fx.Quote.Id)
	req = withActor(req, fx.Contractor.Id, services.RoleContractor)
	rec := httptest.NewRecorder()

	if err := HandleQuoteDelete(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}

	if _, err := app.FindRecordById("quotes", fx.Quote.Id); err == nil {
		t.Error("draft quote should be deleted")
	}
}

func TestHandleQuoteDelete_RejectsSentQuote(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	fx := newQuoteFixture(t, app, "pending_client_review")

	req := httptest.NewRequest(http.MethodDelete, "/quotes/"+fx.Quote.Id, nil)
	req.SetPathValue("id", fx.Quote.Id)
	req = withActor(req, fx.Contractor.Id, services.RoleContractor)
	rec := httptest.NewRecorder()

	HandleQuoteDelete(app)(newTestRequestEvent(app, req, rec))

	if rec.Code != http.StatusConflict {
		t.Errorf("expected status 409, got %d", rec.Code)
	}
	if _, err := app.FindRecordById("quotes", fx.Quote.Id); err != nil {
		t.Error("sent quote should not be deleted")
	}
}
