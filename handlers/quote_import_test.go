package handlers

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"quoteworks/services"
	"quoteworks/testhelpers"
)

func TestHandleQuoteExtract_ProxiesService(t *testing.T) {
	extractor := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"lineItems": [{"description": "Install sink", "quantity": 1}]}`))
	}))
	defer extractor.Close()
	t.Setenv("EXTRACTION_SERVICE_URL", extractor.URL)

	app := testhelpers.NewTestApp(t)
	contractor := testhelpers.CreateTestContractor(t, app, "Import Contractor")

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "workorder.pdf")
	if err != nil {
		t.Fatalf("failed to create form file: %v", err)
	}
	fw.Write([]byte("%PDF-1.4 fake"))
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/quotes/import/extract", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req = withActor(req, contractor.Id, services.RoleContractor)
	rec := httptest.NewRecorder()

	if err := HandleQuoteExtract(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var out services.ExtractionResult
	decodeJSON(t, rec, &out)
	if len(out.LineItems) != 1 || out.LineItems[0].Description != "Install sink" {
		t.Errorf("unexpected extraction result: %+v", out)
	}
}

func TestHandleQuoteExtract_ServiceDown(t *testing.T) {
	t.Setenv("EXTRACTION_SERVICE_URL", "http://127.0.0.1:1")

	app := testhelpers.NewTestApp(t)
	contractor := testhelpers.CreateTestContractor(t, app, "Import Contractor")

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, _ := mw.CreateFormFile("file", "workorder.pdf")
	fw.Write([]byte("%PDF-1.4 fake"))
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/quotes/import/extract", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req = withActor(req, contractor.Id, services.RoleContractor)
	rec := httptest.NewRecorder()

	HandleQuoteExtract(app)(newTestRequestEvent(app, req, rec))

	if rec.Code != http.StatusBadGateway {
		t.Errorf("expected status 502, got %d", rec.Code)
	}
}

func TestHandleQuoteFromExtraction(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	contractor := testhelpers.CreateTestContractor(t, app, "Import Contractor")
	client := testhelpers.CreateTestClient(t, app, "Import Client")
	wo := testhelpers.CreateTestWorkOrder(t, app, client.Id, "Bathroom refresh")
	testhelpers.CreateTestTemplate(t, app, contractor.Id, "Install kitchen sink", "plumbing")

	req := jsonRequest(t, http.MethodPost, "/work-orders/"+wo.Id+"/quotes/from-extraction", map[string]any{
		"line_items": []map[string]any{
			{"description": "Install kitchen sink", "quantity": 1},
			{"description": "Exotic custom skylight", "quantity": 2},
		},
	})
	req.SetPathValue("id", wo.Id)
	req = withActor(req, contractor.Id, services.RoleContractor)
	rec := httptest.NewRecorder()

	if err := HandleQuoteFromExtraction(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var out struct {
		Quote          quoteJSON                `json:"quote"`
		MatchedCount   int                      `json:"matched_count"`
		UnmatchedCount int                      `json:"unmatched_count"`
		Unmatched      []services.UnmatchedItem `json:"unmatched"`
	}
	decodeJSON(t, rec, &out)

	if out.MatchedCount != 1 {
		t.Errorf("matched count = %d, want 1", out.MatchedCount)
	}
	if out.UnmatchedCount != 1 || len(out.Unmatched) != 1 {
		t.Fatalf("unmatched count = %d (%d items), want 1", out.UnmatchedCount, len(out.Unmatched))
	}
	if out.Unmatched[0].Description != "Exotic custom skylight" {
		t.Errorf("unmatched description = %q", out.Unmatched[0].Description)
	}
	if out.Quote.Status != "draft" {
		t.Errorf("quote status = %q, want draft", out.Quote.Status)
	}

	// The matched line landed on the quote with the template's pricing:
	// 2h at the 95 plumbing rate + 100 materials = 290, +20% = 348
	items, err := app.FindRecordsByFilter(
		"quote_line_items",
		"quote = {:quoteId}",
		"sort_order", 0, 0,
		map[string]any{"quoteId": out.Quote.ID},
	)
	if err != nil || len(items) != 1 {
		t.Fatalf("expected 1 line item, got %d (err %v)", len(items), err)
	}
	if got := items[0].GetFloat("total"); got != 348 {
		t.Errorf("item total = %v, want 348", got)
	}
	if items[0].GetBool("is_manually_priced") {
		t.Error("matched item should not be flagged manually priced")
	}

	quote, _ := app.FindRecordById("quotes", out.Quote.ID)
	if quote.GetFloat("total") != 348 {
		t.Errorf("quote total = %v, want 348", quote.GetFloat("total"))
	}
}

func TestHandleQuoteFromExtraction_NoItems(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	contractor := testhelpers.CreateTestContractor(t, app, "Import Contractor")
	client := testhelpers.CreateTestClient(t, app, "Import Client")
	wo := testhelpers.CreateTestWorkOrder(t, app, client.Id, "Empty import")

	req := jsonRequest(t, http.MethodPost, "/work-orders/"+wo.Id+"/quotes/from-extraction", map[string]any{
		"line_items": []map[string]any{},
	})
	req.SetPathValue("id", wo.Id)
	req = withActor(req, contractor.Id, services.RoleContractor)
	rec := httptest.NewRecorder()

	HandleQuoteFromExtraction(app)(newTestRequestEvent(app, req, rec))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", rec.Code)
	}
}

func TestHandleQuoteResolveLineItem(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	fx := newQuoteFixture(t, app, "draft")

	req := jsonRequest(t, http.MethodPost, "/quotes/"+fx.Quote.Id+"/line-items/resolve", map[string]any{
		"description":    "Exotic custom skylight",
		"quantity":       3.0,
		"confidence":     0.4,
		"category":       "general",
		"unit":           "each",
		"labor_hours":    4.0,
		"material_cost":  80.0,
		"markup_percent": 15.0,
	})
	req.SetPathValue("id", fx.Quote.Id)
	req = withActor(req, fx.Contractor.Id, services.RoleContractor)
	rec := httptest.NewRecorder()

	if err := HandleQuoteResolveLineItem(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var out lineItemJSON
	decodeJSON(t, rec, &out)
	if !out.IsManuallyPriced {
		t.Error("resolved item should be flagged manually priced")
	}
	// labor 4h * 75 global rate * qty 3 = 900, materials 80*3 = 240,
	// subtotal 1140, +15% markup = 1311
	if out.Total != 1311 {
		t.Errorf("total = %v, want 1311", out.Total)
	}
	if out.ExtractionConfidence != 0.4 {
		t.Errorf("confidence = %v, want 0.4", out.ExtractionConfidence)
	}
}

func TestHandleQuoteResolveLineItem_UnknownCategory(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	fx := newQuoteFixture(t, app, "draft")

	req := jsonRequest(t, http.MethodPost, "/quotes/"+fx.Quote.Id+"/line-items/resolve", map[string]any{
		"description": "Mystery work",
		"quantity":    1.0,
		"category":    "alchemy",
	})
	req.SetPathValue("id", fx.Quote.Id)
	req = withActor(req, fx.Contractor.Id, services.RoleContractor)
	rec := httptest.NewRecorder()

	HandleQuoteResolveLineItem(app)(newTestRequestEvent(app, req, rec))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", rec.Code)
	}
}
