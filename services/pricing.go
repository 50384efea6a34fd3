// Package services provides the quote pricing engine: line item cost
// calculation, quote aggregation, status lifecycle rules and extracted-item
// reconciliation.
package services

// Category identifies a trade category for templates and labor rates.
type Category string

const (
	CategoryGeneral    Category = "general"
	CategoryPlumbing   Category = "plumbing"
	CategoryElectrical Category = "electrical"
	CategoryFlooring   Category = "flooring"
	CategoryRoofing    Category = "roofing"
	CategoryHVAC       Category = "hvac"
)

// Categories lists every valid trade category, in display order.
var Categories = []Category{
	CategoryGeneral,
	CategoryPlumbing,
	CategoryElectrical,
	CategoryFlooring,
	CategoryRoofing,
	CategoryHVAC,
}

// ValidCategory reports whether s names a known category.
func ValidCategory(s string) bool {
	for _, c := range Categories {
		if string(c) == s {
			return true
		}
	}
	return false
}

// LaborRates holds a contractor's hourly rates: one global rate plus
// optional per-category overrides.
type LaborRates struct {
	GlobalRate    float64
	CategoryRates map[Category]float64
}

// RateFor returns the hourly rate for a category, falling back to the
// global rate when no category-specific rate is configured.
func (r LaborRates) RateFor(category Category) float64 {
	if rate, ok := r.CategoryRates[category]; ok && rate > 0 {
		return rate
	}
	return r.GlobalRate
}

// CostInputs are the pricing figures for a structured line item. Zero
// values contribute nothing; callers may leave any field unset.
type CostInputs struct {
	Quantity      float64
	BasePrice     float64
	LaborHours    float64
	LaborRate     float64
	MaterialCost  float64 // per unit
	MarkupPercent float64
}

// CostBreakdown is the fully computed price of a line item.
// Total = Subtotal + MarkupAmount always holds, and
// Subtotal = LaborCost + MaterialTotal + BaseTotal.
type CostBreakdown struct {
	LaborCost     float64
	MaterialTotal float64
	BaseTotal     float64
	Subtotal      float64
	MarkupAmount  float64
	Total         float64
}

// CalcLineItem prices a structured line item from its inputs. Negative
// inputs are clamped to zero before computation, so a malformed field
// degrades to a zero contribution instead of a negative price.
func CalcLineItem(in CostInputs) CostBreakdown {
	qty := clampNonNegative(in.Quantity)
	laborHours := clampNonNegative(in.LaborHours)
	laborRate := clampNonNegative(in.LaborRate)
	materialCost := clampNonNegative(in.MaterialCost)
	basePrice := clampNonNegative(in.BasePrice)
	markup := clampNonNegative(in.MarkupPercent)

	laborCost := laborHours * laborRate * qty
	materialTotal := materialCost * qty
	baseTotal := basePrice * qty
	subtotal := laborCost + materialTotal + baseTotal
	markupAmount := subtotal * markup / 100

	return CostBreakdown{
		LaborCost:     laborCost,
		MaterialTotal: materialTotal,
		BaseTotal:     baseTotal,
		Subtotal:      subtotal,
		MarkupAmount:  markupAmount,
		Total:         subtotal + markupAmount,
	}
}

// CalcFlatLineItem prices a manual line item where the user entered a
// unit price directly. The breakdown fields stay zero; only the total
// is meaningful.
func CalcFlatLineItem(qty, unitPrice float64) CostBreakdown {
	qty = clampNonNegative(qty)
	unitPrice = clampNonNegative(unitPrice)
	return CostBreakdown{Total: qty * unitPrice}
}

func clampNonNegative(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
