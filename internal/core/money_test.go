package core_test

import (
	"errors"
	"math"
	"testing"

	"lumix-backoffice/internal/core"
)

func TestComputeInvoice_KnownBreakdown(t *testing.T) {
	// quantity=2, unitPrice=100, taxRate=10, discountRate=5:
	// subtotal=200, discount=10, taxable=190, tax=19, total=209.
	lines, totals, err := core.ComputeInvoice([]core.LineItemInput{
		{Description: "Consulting", Quantity: 2, UnitPrice: 100, TaxRate: 10, DiscountRate: 5},
	})
	if err != nil {
		t.Fatalf("ComputeInvoice: %v", err)
	}
	l := lines[0]
	if l.Subtotal != 200 {
		t.Errorf("subtotal = %v, want 200", l.Subtotal)
	}
	if l.Discount != 10 {
		t.Errorf("discount = %v, want 10", l.Discount)
	}
	if l.Taxable != 190 {
		t.Errorf("taxable = %v, want 190", l.Taxable)
	}
	if l.Tax != 19 {
		t.Errorf("tax = %v, want 19", l.Tax)
	}
	if l.Total != 209 {
		t.Errorf("line total = %v, want 209", l.Total)
	}
	if totals.Total != 209 {
		t.Errorf("invoice total = %v, want 209", totals.Total)
	}
}

func TestComputeInvoice_TotalsInvariant(t *testing.T) {
	// total == subtotal − discountTotal + taxTotal within 1e-9, and the
	// sum of line totals matches the aggregate with no penny rounding.
	batches := [][]core.LineItemInput{
		{
			{Description: "A", Quantity: 3, UnitPrice: 19.99, TaxRate: 21, DiscountRate: 0},
			{Description: "B", Quantity: 0.5, UnitPrice: 120, TaxRate: 9, DiscountRate: 12.5},
			{Description: "C", Quantity: 7, UnitPrice: 0.07, TaxRate: 0, DiscountRate: 3},
		},
		{
			{Description: "Single", Quantity: 1, UnitPrice: 0.01},
		},
		{
			{Description: "Bulk", Quantity: 1000, UnitPrice: 1.1, TaxRate: 19.6, DiscountRate: 2.75},
			{Description: "Bulk 2", Quantity: 999, UnitPrice: 3.33, TaxRate: 5.5, DiscountRate: 0},
		},
	}

	for _, items := range batches {
		lines, totals, err := core.ComputeInvoice(items)
		if err != nil {
			t.Fatalf("ComputeInvoice(%v): %v", items, err)
		}

		reconstructed := totals.Subtotal - totals.DiscountTotal + totals.TaxTotal
		if math.Abs(totals.Total-reconstructed) > 1e-9 {
			t.Errorf("total %v != subtotal−discount+tax %v", totals.Total, reconstructed)
		}

		var lineSum float64
		for _, l := range lines {
			lineSum += l.Total
		}
		if math.Abs(totals.Total-lineSum) > 1e-9 {
			t.Errorf("total %v != sum of line totals %v", totals.Total, lineSum)
		}
	}
}

func TestComputeInvoice_RejectsInvalidBatches(t *testing.T) {
	tests := []struct {
		name  string
		items []core.LineItemInput
	}{
		{"empty batch", nil},
		{
			"zero quantity",
			[]core.LineItemInput{
				{Description: "ok", Quantity: 1, UnitPrice: 10},
				{Description: "bad", Quantity: 0, UnitPrice: 10},
			},
		},
		{
			"negative quantity",
			[]core.LineItemInput{{Description: "bad", Quantity: -2, UnitPrice: 10}},
		},
		{
			"NaN quantity",
			[]core.LineItemInput{{Description: "bad", Quantity: math.NaN(), UnitPrice: 10}},
		},
		{
			// Inf × price with a 100% discount yields Inf − Inf = NaN
			// totals; the batch must be rejected before it gets there.
			"infinite quantity",
			[]core.LineItemInput{{Description: "bad", Quantity: math.Inf(1), UnitPrice: 10, DiscountRate: 100}},
		},
		{
			"infinite unit price",
			[]core.LineItemInput{{Description: "bad", Quantity: 1, UnitPrice: math.Inf(1)}},
		},
		{
			"negative unit price",
			[]core.LineItemInput{{Description: "bad", Quantity: 1, UnitPrice: -0.01}},
		},
		{
			"blank description",
			[]core.LineItemInput{{Description: "  ", Quantity: 1, UnitPrice: 10}},
		},
		{
			"zero total",
			[]core.LineItemInput{{Description: "free", Quantity: 1, UnitPrice: 0}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := core.ComputeInvoice(tt.items)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			var verr *core.ValidationError
			if !errors.As(err, &verr) {
				t.Errorf("expected *ValidationError, got %T: %v", err, err)
			}
		})
	}
}

func TestComputeInvoice_NoPartialAcceptance(t *testing.T) {
	lines, _, err := core.ComputeInvoice([]core.LineItemInput{
		{Description: "good", Quantity: 1, UnitPrice: 50},
		{Description: "", Quantity: 1, UnitPrice: 50},
	})
	if err == nil {
		t.Fatal("expected error for batch containing an invalid line")
	}
	if lines != nil {
		t.Errorf("expected no lines on rejection, got %d", len(lines))
	}
}
