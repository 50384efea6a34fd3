package services

import (
	"math"
	"testing"
)

func TestCalcLineItem(t *testing.T) {
	tests := []struct {
		name   string
		in     CostInputs
		expect CostBreakdown
	}{
		{
			"labor and material with markup",
			CostInputs{Quantity: 1, LaborHours: 20, LaborRate: 75, MaterialCost: 500, MarkupPercent: 25},
			CostBreakdown{LaborCost: 1500, MaterialTotal: 500, Subtotal: 2000, MarkupAmount: 500, Total: 2500},
		},
		{
			"base price only",
			CostInputs{Quantity: 3, BasePrice: 120},
			CostBreakdown{BaseTotal: 360, Subtotal: 360, Total: 360},
		},
		{
			"base price combined with labor and material",
			CostInputs{Quantity: 2, BasePrice: 100, LaborHours: 1, LaborRate: 50, MaterialCost: 25, MarkupPercent: 10},
			CostBreakdown{LaborCost: 100, MaterialTotal: 50, BaseTotal: 200, Subtotal: 350, MarkupAmount: 35, Total: 385},
		},
		{
			"all fields absent",
			CostInputs{Quantity: 5},
			CostBreakdown{},
		},
		{
			"zero quantity zeroes everything",
			CostInputs{Quantity: 0, LaborHours: 20, LaborRate: 75, MaterialCost: 500, MarkupPercent: 25},
			CostBreakdown{},
		},
		{
			"negative inputs clamp to zero",
			CostInputs{Quantity: 2, LaborHours: -4, LaborRate: 60, MaterialCost: -10, BasePrice: 50, MarkupPercent: -15},
			CostBreakdown{BaseTotal: 100, Subtotal: 100, Total: 100},
		},
		{
			"markup without labor",
			CostInputs{Quantity: 4, MaterialCost: 25, MarkupPercent: 50},
			CostBreakdown{MaterialTotal: 100, Subtotal: 100, MarkupAmount: 50, Total: 150},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalcLineItem(tt.in)
			if got != tt.expect {
				t.Errorf("CalcLineItem(%+v) = %+v, want %+v", tt.in, got, tt.expect)
			}
		})
	}
}

// The identities Total = Subtotal + MarkupAmount and
// Subtotal = LaborCost + MaterialTotal + BaseTotal must hold for any
// non-negative inputs.
func TestCalcLineItemIdentities(t *testing.T) {
	inputs := []CostInputs{
		{Quantity: 1, LaborHours: 20, LaborRate: 75, MaterialCost: 500, MarkupPercent: 25},
		{Quantity: 2.5, BasePrice: 99.99, LaborHours: 0.5, LaborRate: 85, MaterialCost: 12.34, MarkupPercent: 17.5},
		{Quantity: 7, MaterialCost: 3.33},
		{Quantity: 0.25, BasePrice: 1000, MarkupPercent: 100},
	}

	for _, in := range inputs {
		got := CalcLineItem(in)
		if math.Abs(got.Total-(got.Subtotal+got.MarkupAmount)) > 1e-9 {
			t.Errorf("total identity broken for %+v: %+v", in, got)
		}
		if math.Abs(got.Subtotal-(got.LaborCost+got.MaterialTotal+got.BaseTotal)) > 1e-9 {
			t.Errorf("subtotal identity broken for %+v: %+v", in, got)
		}
	}
}

func TestCalcFlatLineItem(t *testing.T) {
	tests := []struct {
		name      string
		qty       float64
		unitPrice float64
		expect    float64
	}{
		{"manual line item", 6, 75, 450},
		{"zero qty", 0, 75, 0},
		{"zero price", 6, 0, 0},
		{"negative clamps", -6, 75, 0},
		{"decimal", 2.5, 10.10, 25.25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalcFlatLineItem(tt.qty, tt.unitPrice)
			if math.Abs(got.Total-tt.expect) > 1e-9 {
				t.Errorf("CalcFlatLineItem(%v, %v).Total = %v, want %v",
					tt.qty, tt.unitPrice, got.Total, tt.expect)
			}
			if got.LaborCost != 0 || got.MaterialTotal != 0 || got.BaseTotal != 0 ||
				got.Subtotal != 0 || got.MarkupAmount != 0 {
				t.Errorf("CalcFlatLineItem(%v, %v) breakdown should be zero, got %+v",
					tt.qty, tt.unitPrice, got)
			}
		})
	}
}

func TestLaborRatesRateFor(t *testing.T) {
	rates := LaborRates{
		GlobalRate: 75,
		CategoryRates: map[Category]float64{
			CategoryPlumbing:   95,
			CategoryElectrical: 110,
		},
	}

	tests := []struct {
		category Category
		expect   float64
	}{
		{CategoryPlumbing, 95},
		{CategoryElectrical, 110},
		{CategoryGeneral, 75},
		{CategoryRoofing, 75},
	}

	for _, tt := range tests {
		if got := rates.RateFor(tt.category); got != tt.expect {
			t.Errorf("RateFor(%s) = %v, want %v", tt.category, got, tt.expect)
		}
	}

	empty := LaborRates{GlobalRate: 50}
	if got := empty.RateFor(CategoryHVAC); got != 50 {
		t.Errorf("RateFor with no overrides = %v, want 50", got)
	}
}

func TestValidCategory(t *testing.T) {
	for _, c := range Categories {
		if !ValidCategory(string(c)) {
			t.Errorf("ValidCategory(%q) = false, want true", c)
		}
	}
	if ValidCategory("landscaping") {
		t.Error("ValidCategory(\"landscaping\") = true, want false")
	}
	if ValidCategory("") {
		t.Error("ValidCategory(\"\") = true, want false")
	}
}
