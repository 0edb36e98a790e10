package web

import (
	"net/http"

	"lumix-backoffice/internal/app"
	"lumix-backoffice/internal/core"

	"github.com/go-chi/chi/v5"
)

// listPayrollRuns handles GET /api/payroll/runs.
func (h *Handler) listPayrollRuns(w http.ResponseWriter, r *http.Request) {
	claims := authFromContext(r.Context())
	runs, err := h.svc.ListPayrollRuns(r.Context(), claims.CompanyID)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	type response struct {
		Runs any `json:"runs"`
	}
	writeJSON(w, response{Runs: runs})
}

// createPayrollRun handles POST /api/payroll/runs.
func (h *Handler) createPayrollRun(w http.ResponseWriter, r *http.Request) {
	claims := authFromContext(r.Context())

	var req app.CreatePayrollRunRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	run, err := h.svc.CreatePayrollRun(r.Context(), claims.CompanyID, req)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	type response struct {
		RunID int              `json:"runId"`
		Run   *core.PayrollRun `json:"run"`
	}
	writeJSON(w, response{RunID: run.ID, Run: run})
}

// getPayrollRun handles GET /api/payroll/runs/{id}.
func (h *Handler) getPayrollRun(w http.ResponseWriter, r *http.Request) {
	claims := authFromContext(r.Context())
	id, err := urlID(r)
	if err != nil {
		writeError(w, r, "invalid payroll run id", "BAD_REQUEST", http.StatusBadRequest)
		return
	}

	run, err := h.svc.GetPayrollRun(r.Context(), claims.CompanyID, id)
	if err != nil {
		writeError(w, r, "payroll run not found", "NOT_FOUND", http.StatusNotFound)
		return
	}
	writeJSON(w, run)
}

// payrollRunPDF handles GET /api/payroll/runs/{id}/pdf.
func (h *Handler) payrollRunPDF(w http.ResponseWriter, r *http.Request) {
	claims := authFromContext(r.Context())
	id, err := urlID(r)
	if err != nil {
		writeError(w, r, "invalid payroll run id", "BAD_REQUEST", http.StatusBadRequest)
		return
	}

	data, err := h.svc.RenderPayrollRunPDF(r.Context(), claims.CompanyID, id)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writePDF(w, "payroll-run-"+chi.URLParam(r, "id")+".pdf", data)
}

// getPayrollSettings handles GET /api/payroll/settings.
func (h *Handler) getPayrollSettings(w http.ResponseWriter, r *http.Request) {
	claims := authFromContext(r.Context())
	settings, err := h.svc.GetPayrollSettings(r.Context(), claims.CompanyID)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, settings)
}

// updatePayrollSettings handles PUT /api/payroll/settings.
func (h *Handler) updatePayrollSettings(w http.ResponseWriter, r *http.Request) {
	claims := authFromContext(r.Context())

	var settings core.PayrollSettings
	if !decodeJSON(w, r, &settings) {
		return
	}

	updated, err := h.svc.UpdatePayrollSettings(r.Context(), claims.CompanyID, settings)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, updated)
}
