package web

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"lumix-backoffice/internal/app"

	"github.com/go-chi/chi/v5"
)

// createInvoice handles POST /api/invoices — the full dispatch pipeline:
// compute, persist, render, email.
func (h *Handler) createInvoice(w http.ResponseWriter, r *http.Request) {
	user, err := h.currentUser(r)
	if err != nil {
		writeError(w, r, "not authenticated", "UNAUTHORIZED", http.StatusUnauthorized)
		return
	}

	var req app.CreateInvoiceRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.svc.CreateInvoice(r.Context(), user, req)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// listInvoices handles GET /api/invoices.
func (h *Handler) listInvoices(w http.ResponseWriter, r *http.Request) {
	claims := authFromContext(r.Context())
	invoices, err := h.svc.ListInvoices(r.Context(), claims.CompanyID)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	type response struct {
		Invoices any `json:"invoices"`
	}
	writeJSON(w, response{Invoices: invoices})
}

// getInvoice handles GET /api/invoices/{id}.
func (h *Handler) getInvoice(w http.ResponseWriter, r *http.Request) {
	claims := authFromContext(r.Context())
	id, err := urlID(r)
	if err != nil {
		writeError(w, r, "invalid invoice id", "BAD_REQUEST", http.StatusBadRequest)
		return
	}

	invoice, err := h.svc.GetInvoice(r.Context(), claims.CompanyID, id)
	if err != nil {
		writeError(w, r, "invoice not found", "NOT_FOUND", http.StatusNotFound)
		return
	}
	writeJSON(w, invoice)
}

// invoicePDF handles GET /api/invoices/{id}/pdf.
func (h *Handler) invoicePDF(w http.ResponseWriter, r *http.Request) {
	claims := authFromContext(r.Context())
	id, err := urlID(r)
	if err != nil {
		writeError(w, r, "invalid invoice id", "BAD_REQUEST", http.StatusBadRequest)
		return
	}

	data, err := h.svc.RenderInvoicePDF(r.Context(), claims.CompanyID, id)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writePDF(w, "invoice-"+chi.URLParam(r, "id")+".pdf", data)
}

// exportInvoices handles POST /api/invoices/export — a PDF listing of
// the company's invoices, optionally narrowed to specific ids.
func (h *Handler) exportInvoices(w http.ResponseWriter, r *http.Request) {
	claims := authFromContext(r.Context())

	// An empty body means "export everything".
	var req struct {
		IDs []int `json:"ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, r, "invalid JSON body: "+err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return
	}

	data, err := h.svc.ExportInvoices(r.Context(), claims.CompanyID, req.IDs)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writePDF(w, "invoices-export.pdf", data)
}
