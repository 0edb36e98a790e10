package app

import "lumix-backoffice/internal/core"

// CreateInvoiceRequest is the input for the invoice dispatch pipeline.
// Items carry raw line inputs; totals are always recomputed server-side.
type CreateInvoiceRequest struct {
	ClientName  string               `json:"clientName"`
	ClientEmail string               `json:"clientEmail"`
	Currency    string               `json:"currency"`
	DueDate     *string              `json:"dueDate,omitempty"`
	Notes       string               `json:"notes,omitempty"`
	Items       []core.LineItemInput `json:"items"`
}

// CreatePayrollRunRequest is the input for creating a draft payroll run.
type CreatePayrollRunRequest struct {
	RunDate   string                  `json:"runDate"`
	Frequency string                  `json:"frequency"`
	Currency  string                  `json:"currency"`
	Items     []core.PayrollItemInput `json:"items"`
}
