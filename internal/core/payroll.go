package core

import (
	"fmt"
	"math"
)

// PayrollItemInput is one employee row in a create-payroll-run request.
// Mapping hours worked × hourly rate into a gross figure happens in the
// calling workflow; this component only aggregates the triples it is
// given.
type PayrollItemInput struct {
	EmployeeID int     `json:"employeeId"`
	Gross      float64 `json:"gross"`
	Tax        float64 `json:"tax"`
	Deductions float64 `json:"deductions"`
}

// PayrollTotals are the plain sums across a run's items, with no
// cross-item adjustment.
type PayrollTotals struct {
	Gross      float64
	Tax        float64
	Deductions float64
	Net        float64
}

// ComputePayrollItems validates per-employee gross/tax/deduction
// triples and computes net = gross − tax − deductions. Net is not
// floored at zero: deductions plus tax exceeding gross is a legitimate
// clawback. Rejects the whole batch on any invalid item.
func ComputePayrollItems(items []PayrollItemInput) ([]PayrollItem, PayrollTotals, error) {
	if len(items) == 0 {
		return nil, PayrollTotals{}, NewValidationError("payroll run must include at least one employee")
	}

	var bad []string
	for i, item := range items {
		if item.EmployeeID <= 0 {
			bad = append(bad, fmt.Sprintf("items[%d].employeeId", i))
		}
		if math.IsNaN(item.Gross) || math.IsInf(item.Gross, 0) {
			bad = append(bad, fmt.Sprintf("items[%d].gross", i))
		}
	}
	if len(bad) > 0 {
		return nil, PayrollTotals{}, NewValidationError("invalid payroll item data", bad...)
	}

	computed := make([]PayrollItem, len(items))
	var totals PayrollTotals
	for i, item := range items {
		net := item.Gross - item.Tax - item.Deductions
		computed[i] = PayrollItem{
			EmployeeID: item.EmployeeID,
			Gross:      item.Gross,
			Tax:        item.Tax,
			Deductions: item.Deductions,
			Net:        net,
		}
		totals.Gross += item.Gross
		totals.Tax += item.Tax
		totals.Deductions += item.Deductions
		totals.Net += net
	}
	return computed, totals, nil
}
