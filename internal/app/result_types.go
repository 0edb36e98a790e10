package app

import "lumix-backoffice/internal/core"

// InvoiceDispatchResult is returned by CreateInvoice once the invoice
// is persisted and the notification email has gone out.
type InvoiceDispatchResult struct {
	InvoiceID int           `json:"invoiceId"`
	Invoice   *core.Invoice `json:"invoice"`
}
