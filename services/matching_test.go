package services

import (
	"math"
	"testing"
)

func testCatalog() []Template {
	return []Template{
		{
			ID:            "tpl_faucet",
			Name:          "Install Kitchen Faucet",
			Description:   "Remove old faucet, install new single-handle kitchen faucet",
			Category:      CategoryPlumbing,
			Unit:          "each",
			LaborHours:    2,
			MaterialCost:  150,
			MarkupPercent: 20,
			Active:        true,
		},
		{
			ID:            "tpl_outlet",
			Name:          "Replace Electrical Outlet",
			Description:   "Replace standard duplex outlet",
			Category:      CategoryElectrical,
			Unit:          "each",
			LaborHours:    0.5,
			MaterialCost:  12,
			MarkupPercent: 30,
			Active:        true,
		},
		{
			ID:       "tpl_retired",
			Name:     "Install Kitchen Sink",
			Category: CategoryPlumbing,
			Unit:     "each",
			Active:   false,
		},
	}
}

func TestTokenMatcherExactName(t *testing.T) {
	m := NewTokenMatcher(testCatalog())

	match := m.Match("Install Kitchen Faucet")
	if match == nil {
		t.Fatal("expected a match for exact template name")
	}
	if match.TemplateID != "tpl_faucet" {
		t.Errorf("matched %q, want tpl_faucet", match.TemplateID)
	}
	if match.Confidence != 1.0 {
		t.Errorf("exact name confidence = %v, want 1.0", match.Confidence)
	}
}

func TestTokenMatcherCaseAndPunctuation(t *testing.T) {
	m := NewTokenMatcher(testCatalog())

	match := m.Match("install kitchen faucet!")
	if match == nil || match.TemplateID != "tpl_faucet" || match.Confidence != 1.0 {
		t.Errorf("normalized exact match failed: %+v", match)
	}
}

func TestTokenMatcherPartialOverlap(t *testing.T) {
	m := NewTokenMatcher(testCatalog())

	match := m.Match("faucet replacement in kitchen")
	if match == nil {
		t.Fatal("expected a partial match")
	}
	if match.TemplateID != "tpl_faucet" {
		t.Errorf("matched %q, want tpl_faucet", match.TemplateID)
	}
	if match.Confidence <= 0 || match.Confidence >= 1.0 {
		t.Errorf("partial match confidence = %v, want in (0, 1)", match.Confidence)
	}
}

func TestTokenMatcherNoMatch(t *testing.T) {
	m := NewTokenMatcher(testCatalog())

	if match := m.Match("paint bedroom walls"); match != nil {
		t.Errorf("expected nil match, got %+v", match)
	}
	if match := m.Match(""); match != nil {
		t.Errorf("expected nil match for empty description, got %+v", match)
	}
}

func TestTokenMatcherSkipsInactiveTemplates(t *testing.T) {
	m := NewTokenMatcher(testCatalog())

	match := m.Match("Install Kitchen Sink")
	if match != nil && match.TemplateID == "tpl_retired" {
		t.Errorf("matched inactive template: %+v", match)
	}
}

func TestReconcile(t *testing.T) {
	catalog := testCatalog()
	rates := LaborRates{
		GlobalRate:    75,
		CategoryRates: map[Category]float64{CategoryPlumbing: 95},
	}
	extracted := []ExtractedLineItem{
		{Description: "Install Kitchen Faucet", Quantity: 1},
		{Description: "custom tile mosaic backsplash", Quantity: 3},
	}

	result := Reconcile(extracted, catalog, rates, NewTokenMatcher(catalog), DefaultMatchThreshold)

	if result.MatchedCount != 1 || result.UnmatchedCount != 1 {
		t.Fatalf("counts = %d matched / %d unmatched, want 1 / 1",
			result.MatchedCount, result.UnmatchedCount)
	}

	priced := result.Priced[0]
	if priced.TemplateID != "tpl_faucet" {
		t.Errorf("priced against %q, want tpl_faucet", priced.TemplateID)
	}
	if priced.IsManuallyPriced {
		t.Error("auto-matched item must not be flagged manually priced")
	}
	// 2h x 95/h (plumbing rate) + 150 material = 340; +20% markup = 408.
	if math.Abs(priced.Breakdown.Total-408) > 1e-9 {
		t.Errorf("priced total = %v, want 408", priced.Breakdown.Total)
	}
	if priced.Inputs.LaborRate != 95 {
		t.Errorf("labor rate = %v, want plumbing override 95", priced.Inputs.LaborRate)
	}

	unmatched := result.Unmatched[0]
	if unmatched.Description != "custom tile mosaic backsplash" {
		t.Errorf("unexpected unmatched item: %+v", unmatched)
	}
	if unmatched.Quantity != 3 {
		t.Errorf("unmatched quantity = %v, want 3", unmatched.Quantity)
	}
}

func TestReconcileThresholdBoundary(t *testing.T) {
	catalog := testCatalog()
	rates := LaborRates{GlobalRate: 75}

	// A fixed-confidence matcher pins the score exactly at the threshold;
	// at-threshold items must go to manual pricing.
	atThreshold := matcherFunc(func(string) *TemplateMatch {
		return &TemplateMatch{TemplateID: "tpl_outlet", Confidence: DefaultMatchThreshold}
	})
	result := Reconcile([]ExtractedLineItem{{Description: "outlet", Quantity: 1}},
		catalog, rates, atThreshold, DefaultMatchThreshold)
	if result.UnmatchedCount != 1 {
		t.Errorf("at-threshold item should be unmatched, got %+v", result)
	}
	if result.Unmatched[0].Confidence != DefaultMatchThreshold {
		t.Errorf("unmatched confidence = %v, want %v",
			result.Unmatched[0].Confidence, DefaultMatchThreshold)
	}

	aboveThreshold := matcherFunc(func(string) *TemplateMatch {
		return &TemplateMatch{TemplateID: "tpl_outlet", Confidence: DefaultMatchThreshold + 0.01}
	})
	result = Reconcile([]ExtractedLineItem{{Description: "outlet", Quantity: 1}},
		catalog, rates, aboveThreshold, DefaultMatchThreshold)
	if result.MatchedCount != 1 {
		t.Errorf("above-threshold item should be matched, got %+v", result)
	}
}

func TestReconcileUnknownTemplateID(t *testing.T) {
	// A matcher pointing at a template absent from the catalog must not
	// crash the import; the item falls back to manual pricing.
	rogue := matcherFunc(func(string) *TemplateMatch {
		return &TemplateMatch{TemplateID: "tpl_gone", Confidence: 0.99}
	})
	result := Reconcile([]ExtractedLineItem{{Description: "anything", Quantity: 2}},
		testCatalog(), LaborRates{GlobalRate: 75}, rogue, DefaultMatchThreshold)
	if result.UnmatchedCount != 1 || result.MatchedCount != 0 {
		t.Errorf("dangling template id should yield unmatched, got %+v", result)
	}
}

func TestPriceUnmatched(t *testing.T) {
	item := UnmatchedItem{Description: "custom tile mosaic backsplash", Quantity: 3, Confidence: 0.2}
	pricing := ManualPricing{
		Category:      CategoryFlooring,
		Unit:          "sqft",
		LaborHours:    4,
		MaterialCost:  80,
		MarkupPercent: 15,
	}
	rates := LaborRates{GlobalRate: 60}

	priced := PriceUnmatched(item, pricing, rates)

	if !priced.IsManuallyPriced {
		t.Error("manually priced item must carry IsManuallyPriced")
	}
	if priced.Description != item.Description || priced.Quantity != 3 {
		t.Errorf("item identity lost: %+v", priced)
	}
	// (4h x 60 + 80) x 3 = 960; +15% = 1104.
	if math.Abs(priced.Breakdown.Total-1104) > 1e-9 {
		t.Errorf("manual total = %v, want 1104", priced.Breakdown.Total)
	}
	if priced.Unit != "sqft" || priced.Category != CategoryFlooring {
		t.Errorf("manual pricing metadata lost: %+v", priced)
	}
}

// matcherFunc adapts a plain function into a TemplateMatcher.
type matcherFunc func(string) *TemplateMatch

func (f matcherFunc) Match(description string) *TemplateMatch { return f(description) }
