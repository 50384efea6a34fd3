package collections_test

import (
	"testing"

	"quoteworks/collections"
	"quoteworks/testhelpers"

	"github.com/pocketbase/pocketbase/core"
)

// expectedCollections is the full list of collections that Setup() must create.
var expectedCollections = []string{
	"contractors",
	"clients",
	"work_orders",
	"line_item_templates",
	"quotes",
	"quote_line_items",
	"projects",
}

func TestSetup_AllCollectionsExist(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	for _, name := range expectedCollections {
		col, err := app.FindCollectionByNameOrId(name)
		if err != nil {
			t.Errorf("collection %q not found after Setup(): %v", name, err)
			continue
		}
		if col.Name != name {
			t.Errorf("expected collection name %q, got %q", name, col.Name)
		}
	}
}

func TestSetup_Idempotent(t *testing.T) {
	app := testhelpers.NewTestApp(t) // Setup() already called once via NewTestApp

	// Collect IDs from first run
	ids := make(map[string]string)
	for _, name := range expectedCollections {
		col, _ := app.FindCollectionByNameOrId(name)
		ids[name] = col.Id
	}

	// Run Setup() again
	collections.Setup(app)

	// IDs should not change
	for _, name := range expectedCollections {
		col, err := app.FindCollectionByNameOrId(name)
		if err != nil {
			t.Errorf("collection %q missing after second Setup(): %v", name, err)
			continue
		}
		if col.Id != ids[name] {
			t.Errorf("collection %q was recreated: id %q != %q", name, col.Id, ids[name])
		}
	}
}

func TestSetup_QuoteStatusValues(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	col, err := app.FindCollectionByNameOrId("quotes")
	if err != nil {
		t.Fatalf("quotes collection not found: %v", err)
	}

	field, ok := col.Fields.GetByName("status").(*core.SelectField)
	if !ok {
		t.Fatalf("expected quotes.status to be a select field")
	}

	// The legacy "approved" value must remain accepted by the schema so
	// pre-migration records still load.
	want := []string{"draft", "pending_client_review", "client_edited", "accepted", "rejected", "approved"}
	for _, v := range want {
		found := false
		for _, have := range field.Values {
			if have == v {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("quotes.status missing value %q", v)
		}
	}
}

func TestSetup_LineItemCascadeDelete(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	contractor := testhelpers.CreateTestContractor(t, app, "Cascade Contractor")
	client := testhelpers.CreateTestClient(t, app, "Cascade Client")
	wo := testhelpers.CreateTestWorkOrder(t, app, client.Id, "Cascade WO")
	quote := testhelpers.CreateTestQuote(t, app, wo.Id, contractor.Id, client.Id, "draft")
	item := testhelpers.CreateTestLineItem(t, app, quote.Id, 1, "Cascade item", 100, 50, 30)

	if err := app.Delete(quote); err != nil {
		t.Fatalf("failed to delete quote: %v", err)
	}

	if _, err := app.FindRecordById("quote_line_items", item.Id); err == nil {
		t.Errorf("expected line item to be cascade-deleted with its quote")
	}
}
