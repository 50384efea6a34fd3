package services

import "strings"

// DefaultMatchThreshold is the confidence at or below which an extracted
// item is surfaced for manual pricing instead of being auto-converted.
const DefaultMatchThreshold = 0.6

// ExtractedLineItem is one line returned by the PDF extraction service.
type ExtractedLineItem struct {
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
}

// Template is a contractor's reusable catalog entry used to pre-fill a
// line item's pricing.
type Template struct {
	ID            string
	Name          string
	Description   string
	Category      Category
	Unit          string
	BasePrice     float64
	LaborHours    float64
	MaterialCost  float64
	MarkupPercent float64
	Active        bool
}

// TemplateMatch is a single catalog match with its confidence in [0, 1].
type TemplateMatch struct {
	TemplateID string
	Confidence float64
}

// TemplateMatcher maps an extracted line description to a catalog entry.
// Implementations are interchangeable strategies; a nil result means no
// plausible match at all.
type TemplateMatcher interface {
	Match(description string) *TemplateMatch
}

// PricedItem is a reconciled line ready to become a quote line item.
type PricedItem struct {
	TemplateID       string
	Description      string
	Quantity         float64
	Unit             string
	Category         Category
	Confidence       float64
	IsManuallyPriced bool
	Inputs           CostInputs
	Breakdown        CostBreakdown
}

// UnmatchedItem is an extracted line nothing in the catalog covered with
// enough confidence. It exists only during the import flow, until a human
// supplies pricing or discards it.
type UnmatchedItem struct {
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	Confidence  float64 `json:"confidence"`
}

// ReconcileResult splits extracted lines into auto-priced and unmatched.
type ReconcileResult struct {
	Priced         []PricedItem
	Unmatched      []UnmatchedItem
	MatchedCount   int
	UnmatchedCount int
}

// Reconcile matches each extracted line against the catalog and prices
// confident matches through the cost calculator with the matched
// template's figures and the contractor's labor rates. Lines at or below
// the threshold come back as UnmatchedItems for manual pricing.
func Reconcile(extracted []ExtractedLineItem, catalog []Template, rates LaborRates, matcher TemplateMatcher, threshold float64) ReconcileResult {
	byID := make(map[string]Template, len(catalog))
	for _, tpl := range catalog {
		byID[tpl.ID] = tpl
	}

	var result ReconcileResult
	for _, line := range extracted {
		match := matcher.Match(line.Description)
		if match == nil || match.Confidence <= threshold {
			confidence := 0.0
			if match != nil {
				confidence = match.Confidence
			}
			result.Unmatched = append(result.Unmatched, UnmatchedItem{
				Description: line.Description,
				Quantity:    line.Quantity,
				Confidence:  confidence,
			})
			result.UnmatchedCount++
			continue
		}

		tpl, ok := byID[match.TemplateID]
		if !ok {
			result.Unmatched = append(result.Unmatched, UnmatchedItem{
				Description: line.Description,
				Quantity:    line.Quantity,
				Confidence:  match.Confidence,
			})
			result.UnmatchedCount++
			continue
		}

		inputs := CostInputs{
			Quantity:      line.Quantity,
			BasePrice:     tpl.BasePrice,
			LaborHours:    tpl.LaborHours,
			LaborRate:     rates.RateFor(tpl.Category),
			MaterialCost:  tpl.MaterialCost,
			MarkupPercent: tpl.MarkupPercent,
		}
		result.Priced = append(result.Priced, PricedItem{
			TemplateID:  tpl.ID,
			Description: line.Description,
			Quantity:    line.Quantity,
			Unit:        tpl.Unit,
			Category:    tpl.Category,
			Confidence:  match.Confidence,
			Inputs:      inputs,
			Breakdown:   CalcLineItem(inputs),
		})
		result.MatchedCount++
	}
	return result
}

// ManualPricing is the human-supplied pricing for an unmatched item.
type ManualPricing struct {
	Category      Category
	Unit          string
	BasePrice     float64
	LaborHours    float64
	MaterialCost  float64
	MarkupPercent float64
}

// PriceUnmatched runs a manually priced item through the same cost
// calculator and flags the result as manually priced.
func PriceUnmatched(item UnmatchedItem, pricing ManualPricing, rates LaborRates) PricedItem {
	inputs := CostInputs{
		Quantity:      item.Quantity,
		BasePrice:     pricing.BasePrice,
		LaborHours:    pricing.LaborHours,
		LaborRate:     rates.RateFor(pricing.Category),
		MaterialCost:  pricing.MaterialCost,
		MarkupPercent: pricing.MarkupPercent,
	}
	return PricedItem{
		Description:      item.Description,
		Quantity:         item.Quantity,
		Unit:             pricing.Unit,
		Category:         pricing.Category,
		Confidence:       item.Confidence,
		IsManuallyPriced: true,
		Inputs:           inputs,
		Breakdown:        CalcLineItem(inputs),
	}
}

// TokenMatcher is the default TemplateMatcher: normalized token overlap
// between the extracted description and each template's name and
// description. An exact normalized name match scores 1.0. Inactive
// templates are never matched.
type TokenMatcher struct {
	templates []tokenizedTemplate
}

type tokenizedTemplate struct {
	id     string
	name   string
	tokens map[string]struct{}
}

// NewTokenMatcher indexes the active templates of a catalog.
func NewTokenMatcher(catalog []Template) *TokenMatcher {
	m := &TokenMatcher{}
	for _, tpl := range catalog {
		if !tpl.Active {
			continue
		}
		tokens := make(map[string]struct{})
		for _, tok := range tokenize(tpl.Name + " " + tpl.Description) {
			tokens[tok] = struct{}{}
		}
		m.templates = append(m.templates, tokenizedTemplate{
			id:     tpl.ID,
			name:   normalize(tpl.Name),
			tokens: tokens,
		})
	}
	return m
}

// Match returns the best-scoring template, or nil when no template
// shares a single token with the description.
func (m *TokenMatcher) Match(description string) *TemplateMatch {
	queryTokens := tokenize(description)
	if len(queryTokens) == 0 {
		return nil
	}
	query := normalize(description)

	var best *TemplateMatch
	for _, tpl := range m.templates {
		score := m.score(tpl, query, queryTokens)
		if score <= 0 {
			continue
		}
		if best == nil || score > best.Confidence {
			best = &TemplateMatch{TemplateID: tpl.id, Confidence: score}
		}
	}
	return best
}

func (m *TokenMatcher) score(tpl tokenizedTemplate, query string, queryTokens []string) float64 {
	if query == tpl.name {
		return 1.0
	}

	overlap := 0
	for _, tok := range queryTokens {
		if _, ok := tpl.tokens[tok]; ok {
			overlap++
		}
	}
	if overlap == 0 {
		return 0
	}

	denom := len(queryTokens)
	if len(tpl.tokens) > denom {
		denom = len(tpl.tokens)
	}
	// Cap below 1.0 so only an exact name match is fully confident.
	score := float64(overlap) / float64(denom)
	if score > 0.95 {
		score = 0.95
	}
	return score
}

func normalize(s string) string {
	return strings.Join(tokenize(s), " ")
}

func tokenize(s string) []string {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !('a' <= r && r <= 'z') && !('0' <= r && r <= '9')
	})
	out := fields[:0]
	for _, f := range fields {
		if len(f) > 1 || (len(f) == 1 && f[0] >= '0' && f[0] <= '9') {
			out = append(out, f)
		}
	}
	return out
}
