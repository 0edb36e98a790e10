package core

import (
	"fmt"
	"math"
	"strings"
)

// LineItemInput is one billable row as submitted by the caller.
type LineItemInput struct {
	Description  string  `json:"description"`
	Quantity     float64 `json:"quantity"`
	UnitPrice    float64 `json:"unitPrice"`
	TaxRate      float64 `json:"taxRate"`      // percentage, 0–100 expected
	DiscountRate float64 `json:"discountRate"` // percentage, 0–100 expected
}

// LineBreakdown is the computed view of a single line item.
type LineBreakdown struct {
	Description  string
	Quantity     float64
	UnitPrice    float64
	TaxRate      float64
	DiscountRate float64
	Subtotal     float64 // quantity × unitPrice
	Discount     float64 // subtotal × discountRate/100
	Taxable      float64 // subtotal − discount
	Tax          float64 // taxable × taxRate/100
	Total        float64 // taxable + tax
}

// InvoiceTotals aggregates a batch of line breakdowns.
// Total == Subtotal − DiscountTotal + TaxTotal holds to within
// floating-point tolerance because no intermediate rounding occurs;
// amounts are rendered to two decimals only at presentation time.
type InvoiceTotals struct {
	Subtotal      float64
	DiscountTotal float64
	TaxTotal      float64
	Total         float64
}

// ComputeInvoice validates a line-item batch and produces per-line
// breakdowns and aggregate totals. The whole batch is rejected on the
// first pass if any item is invalid — there is no partial acceptance.
func ComputeInvoice(items []LineItemInput) ([]LineBreakdown, InvoiceTotals, error) {
	if len(items) == 0 {
		return nil, InvoiceTotals{}, NewValidationError("invoice must have at least one line item")
	}

	var bad []string
	for i, item := range items {
		if strings.TrimSpace(item.Description) == "" {
			bad = append(bad, fmt.Sprintf("items[%d].description", i))
		}
		if math.IsInf(item.Quantity, 0) || !(item.Quantity > 0) {
			bad = append(bad, fmt.Sprintf("items[%d].quantity", i))
		}
		if math.IsNaN(item.UnitPrice) || math.IsInf(item.UnitPrice, 0) || item.UnitPrice < 0 {
			bad = append(bad, fmt.Sprintf("items[%d].unitPrice", i))
		}
	}
	if len(bad) > 0 {
		return nil, InvoiceTotals{}, NewValidationError("invalid line items", bad...)
	}

	lines := make([]LineBreakdown, len(items))
	var totals InvoiceTotals
	for i, item := range items {
		subtotal := item.Quantity * item.UnitPrice
		discount := subtotal * (item.DiscountRate / 100)
		taxable := subtotal - discount
		tax := taxable * (item.TaxRate / 100)

		lines[i] = LineBreakdown{
			Description:  item.Description,
			Quantity:     item.Quantity,
			UnitPrice:    item.UnitPrice,
			TaxRate:      item.TaxRate,
			DiscountRate: item.DiscountRate,
			Subtotal:     subtotal,
			Discount:     discount,
			Taxable:      taxable,
			Tax:          tax,
			Total:        taxable + tax,
		}

		totals.Subtotal += subtotal
		totals.DiscountTotal += discount
		totals.TaxTotal += tax
		totals.Total += taxable + tax
	}

	if math.IsNaN(totals.Total) || math.IsInf(totals.Total, 0) || totals.Total <= 0 {
		return nil, InvoiceTotals{}, NewValidationError("invoice total must be positive")
	}
	return lines, totals, nil
}
