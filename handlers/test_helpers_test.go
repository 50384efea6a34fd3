package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"quoteworks/services"
	"quoteworks/testhelpers"
)

// newTestRequestEvent creates a RequestEvent suitable for handler tests.
func newTestRequestEvent(app *pocketbase.PocketBase, req *http.Request, rec *httptest.ResponseRecorder) *core.RequestEvent {
	e := &core.RequestEvent{}
	e.App = app
	e.Request = req
	e.Response = rec
	return e
}

// withActor attaches an actor to the request context the way the
// middleware would.
func withActor(req *http.Request, uid string, role services.Role) *http.Request {
	ctx := context.WithValue(req.Context(), ActorKey, Actor{UID: uid, Role: role})
	return req.WithContext(ctx)
}

// jsonRequest builds a request with a JSON-encoded body.
func jsonRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()

	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("failed to marshal request body: %v", err)
	}
	req := httptest.NewRequest(method, target, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// quoteFixture bundles the records most quote handler tests need.
type quoteFixture struct {
	Contractor *core.Record
	Client     *core.Record
	WorkOrder  *core.Record
	Quote      *core.Record
}

// newQuoteFixture creates a contractor, client, work order and a quote in
// the given status.
func newQuoteFixture(t *testing.T, app *pocketbase.PocketBase, status string) quoteFixture {
	t.Helper()

	contractor := testhelpers.CreateTestContractor(t, app, "Fixture Contracting")
	client := testhelpers.CreateTestClient(t, app, "Fixture Properties")
	wo := testhelpers.CreateTestWorkOrder(t, app, client.Id, "Fixture Work Order")
	quote := testhelpers.CreateTestQuote(t, app, wo.Id, contractor.Id, client.Id, status)
	return quoteFixture{Contractor: contractor, Client: client, WorkOrder: wo, Quote: quote}
}

// decodeJSON unmarshals a recorded response body into dst.
func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()

	if err := json.Unmarshal(rec.Body.Bytes(), dst); err != nil {
		t.Fatalf("failed to decode response JSON: %v\nbody: %s", err, rec.Body.String())
	}
}
