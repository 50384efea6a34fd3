package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"quoteworks/services"
	"quoteworks/testhelpers"
)

func TestHandleQuoteCreate(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	contractor := testhelpers.CreateTestContractor(t, app, "Quote Contractor")
	client := testhelpers.CreateTestClient(t, app, "Quote Client")
	wo := testhelpers.CreateTestWorkOrder(t, app, client.Id, "Fix the deck")

	req := jsonRequest(t, http.MethodPost, "/work-orders/"+wo.Id+"/quotes", map[string]string{
		"title": "Deck repair quote",
	})
	req.SetPathValue("id", wo.Id)
	req = withActor(req, contractor.Id, services.RoleContractor)
	rec := httptest.NewRecorder()

	if err := HandleQuoteCreate(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var out quoteJSON
	decodeJSON(t, rec, &out)
	if out.Status != "draft" {
		t.Errorf("status = %q, want draft", out.Status)
	}
	if out.Client != client.Id {
		t.Errorf("client = %q, want %q", out.Client, client.Id)
	}
	if !strings.HasPrefix(out.Number, "QW-TST-") {
		t.Errorf("number = %q, want QW-TST- prefix", out.Number)
	}
	if out.Total != 0 {
		t.Errorf("total = %v, want 0", out.Total)
	}
}

func TestHandleQuoteCreate_TitleDefaultsToWorkOrder(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	contractor := testhelpers.CreateTestContractor(t, app, "Quote Contractor")
	client := testhelpers.CreateTestClient(t, app, "Quote Client")
	wo := testhelpers.CreateTestWorkOrder(t, app, client.Id, "Gutter cleaning")

	req := jsonRequest(t, http.MethodPost, "/work-orders/"+wo.Id+"/quotes", map[string]string{})
	req.SetPathValue("id", wo.Id)
	req = withActor(req, contractor.Id, services.RoleContractor)
	rec := httptest.NewRecorder()

	if err := HandleQuoteCreate(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}

	var out quoteJSON
	decodeJSON(t, rec, &out)
	if out.Title != "Gutter cleaning" {
		t.Errorf("title = %q, want %q", out.Title, "Gutter cleaning")
	}
}

func TestHandleQuoteCreate_RejectsClientRole(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	client := testhelpers.CreateTestClient(t, app, "Quote Client")
	wo := testhelpers.CreateTestWorkOrder(t, app, client.Id, "Client quote attempt")

	req := jsonRequest(t, http.MethodPost, "/work-orders/"+wo.Id+"/quotes", map[string]string{})
	req.SetPathValue("id", wo.Id)
	req = withActor(req, client.Id, services.RoleClient)
	rec := httptest.NewRecorder()

	HandleQuoteCreate(app)(newTestRequestEvent(app, req, rec))

	if rec.Code != http.StatusForbidden {
		t.Errorf("expected status 403, got %d", rec.Code)
	}
}

func TestHandleQuoteCreate_BadExpiry(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	contractor := testhelpers.CreateTestContractor(t, app, "Quote Contractor")
	client := testhelpers.CreateTestClient(t, app, "Quote Client")
	wo := testhelpers.CreateTestWorkOrder(t, app, client.Id, "Expiry order")

	req := jsonRequest(t, http.MethodPost, "/work-orders/"+wo.Id+"/quotes", map[string]string{
		"expires_at": "next Tuesday",
	})
	req.SetPathValue("id", wo.Id)
	req = withActor(req, contractor.Id, services.RoleContractor)
	rec := httptest.NewRecorder()

	HandleQuoteCreate(app)(newTestRequestEvent(app, req, rec))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", rec.Code)
	}
}
