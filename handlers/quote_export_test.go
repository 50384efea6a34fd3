package handlers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"quoteworks/services"
	"quoteworks/testhelpers"
)

func TestHandleQuoteExportExcel(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	fx := newQuoteFixture(t, app, "pending_client_review")
	testhelpers.CreateTestLineItem(t, app, fx.Quote.Id, 1, "Framing", 1500, 300, 200)

	req := httptest.NewRequest(http.MethodGet, "/quotes/"+fx.Quote.Id+"/export/excel", nil)
	req.SetPathValue("id", fx.Quote.Id)
	req = withActor(req, fx.Contractor.Id, services.RoleContractor)
	rec := httptest.NewRecorder()

	if err := HandleQuoteExportExcel(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	ct := rec.Header().Get("Content-Type")
	if ct != "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet" {
		t.Errorf("unexpected content type %q", ct)
	}
	cd := rec.Header().Get("Content-Disposition")
	if !strings.Contains(cd, "QW-TST-2026-001.xlsx") {
		t.Errorf("unexpected content disposition %q", cd)
	}
	// xlsx files are zip archives
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("PK")) {
		t.Error("response does not look like an xlsx file")
	}
}

func TestHandleQuoteExportPDF(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	fx := newQuoteFixture(t, app, "accepted")
	testhelpers.CreateTestLineItem(t, app, fx.Quote.Id, 1, "Framing", 1500, 300, 200)

	req := httptest.NewRequest(http.MethodGet, "/quotes/"+fx.Quote.Id+"/export/pdf", nil)
	req.SetPathValue("id", fx.Quote.Id)
	req = withActor(req, fx.Client.Id, services.RoleClient)
	rec := httptest.NewRecorder()

	if err := HandleQuoteExportPDF(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	if rec.Header().Get("Content-Type") != "application/pdf" {
		t.Errorf("unexpected content type %q", rec.Header().Get("Content-Type"))
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF-")) {
		t.Error("response does not look like a PDF")
	}
}

func TestHandleQuoteExportExcel_NotFound(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/quotes/missing/export/excel", nil)
	req.SetPathValue("id", "missing")
	req = withActor(req, "uid1", services.RoleContractor)
	rec := httptest.NewRecorder()

	HandleQuoteExportExcel(app)(newTestRequestEvent(app, req, rec))

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", rec.Code)
	}
}
