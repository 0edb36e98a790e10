package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"lumix-backoffice/internal/core"
)

type errorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	RequestID string `json:"request_id,omitempty"`
	// InvoiceID is set when the invoice was persisted before the failure,
	// so clients can avoid re-submitting and double-billing.
	InvoiceID int `json:"invoice_id,omitempty"`
}

// writeError writes a structured JSON error response.
func writeError(w http.ResponseWriter, r *http.Request, message, code string, status int) {
	writeErrorWithInvoice(w, r, message, code, status, 0)
}

func writeErrorWithInvoice(w http.ResponseWriter, r *http.Request, message, code string, status, invoiceID int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	resp := errorResponse{
		Error:     message,
		Code:      code,
		RequestID: requestIDFromContext(r.Context()),
		InvoiceID: invoiceID,
	}
	_ = json.NewEncoder(w).Encode(resp)
}

// writeAppError maps service errors to HTTP responses. Delivery failures
// return 502 because the fault lies with the upstream email provider, not
// this server; the invoice id rides along in both the 502 and the
// render-failure 500 when one exists.
func writeAppError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *core.ValidationError
	var aerr *core.AuthorizationError
	var derr *core.DeliveryError
	var rerr *core.RenderError
	var perr *core.PersistenceError

	switch {
	case errors.As(err, &verr):
		writeError(w, r, verr.Error(), "VALIDATION_FAILED", http.StatusBadRequest)
	case errors.As(err, &aerr):
		writeError(w, r, aerr.Error(), "FORBIDDEN", http.StatusForbidden)
	case errors.As(err, &derr):
		writeErrorWithInvoice(w, r, derr.Error(), "DELIVERY_FAILED", http.StatusBadGateway, derr.InvoiceID)
	case errors.As(err, &rerr):
		writeErrorWithInvoice(w, r, rerr.Error(), "RENDER_FAILED", http.StatusInternalServerError, rerr.InvoiceID)
	case errors.As(err, &perr):
		writeError(w, r, perr.Error(), "PERSISTENCE_FAILED", http.StatusInternalServerError)
	default:
		writeError(w, r, err.Error(), "INTERNAL_ERROR", http.StatusInternalServerError)
	}
}

// writeJSON writes a JSON response with status 200.
func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// writePDF writes rendered document bytes as a download.
func writePDF(w http.ResponseWriter, filename string, data []byte) {
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	_, _ = w.Write(data)
}
