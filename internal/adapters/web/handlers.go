package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"lumix-backoffice/internal/app"

	"github.com/go-chi/chi/v5"
)

// Handler holds the ApplicationService and the chi router.
type Handler struct {
	svc       app.ApplicationService
	router    chi.Router
	jwtSecret string
}

// NewHandler creates and wires the chi router with all routes.
func NewHandler(svc app.ApplicationService, allowedOrigins, jwtSecret string) http.Handler {
	h := &Handler{svc: svc, jwtSecret: jwtSecret}

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(Logger)
	r.Use(Recoverer)
	r.Use(CORS(allowedOrigins))

	// ── Public ────────────────────────────────────────────────────────────────
	r.Get("/api/health", h.health)
	r.Post("/api/auth/login", h.login)
	r.Post("/api/auth/logout", h.logout)

	// ── Protected API routes (401 JSON if unauthenticated) ───────────────────
	r.Group(func(r chi.Router) {
		r.Use(h.RequireAuth)
		r.Use(RequestBodyLimit(1 << 20)) // 1 MB

		r.Get("/api/auth/me", h.me)
		r.Get("/api/dashboard/summary", h.dashboardSummary)

		// Invoices are immutable: create, read and export only.
		r.Get("/api/invoices", h.listInvoices)
		r.Post("/api/invoices", h.requireManager(h.createInvoice))
		r.Get("/api/invoices/{id}", h.getInvoice)
		r.Get("/api/invoices/{id}/pdf", h.invoicePDF)
		r.Post("/api/invoices/export", h.requireManager(h.exportInvoices))

		r.Get("/api/payroll/runs", h.listPayrollRuns)
		r.Post("/api/payroll/runs", h.requireManager(h.createPayrollRun))
		r.Get("/api/payroll/runs/{id}", h.getPayrollRun)
		r.Get("/api/payroll/runs/{id}/pdf", h.payrollRunPDF)
		r.Get("/api/payroll/settings", h.getPayrollSettings)
		r.Put("/api/payroll/settings", h.requireManager(h.updatePayrollSettings))

		r.Get("/api/clients", h.listClients)
		r.Post("/api/clients", h.requireManager(h.createClient))
		r.Put("/api/clients/{id}", h.requireManager(h.updateClient))

		r.Get("/api/employees", h.listEmployees)
		r.Post("/api/employees", h.requireManager(h.createEmployee))
		r.Put("/api/employees/{id}", h.requireManager(h.updateEmployee))
		r.Delete("/api/employees/{id}", h.requireManager(h.deleteEmployee))

		r.Get("/api/company", h.getCompany)
		r.Put("/api/company", h.requireManager(h.updateCompany))

		r.Post("/api/time/clock-in", h.clockIn)
		r.Post("/api/time/clock-out", h.clockOut)
		r.Post("/api/time/break-start", h.startBreak)
		r.Post("/api/time/break-end", h.endBreak)
		r.Get("/api/time/status", h.timeStatus)
		r.Get("/api/time/entries", h.timeEntries)
		r.Get("/api/time/summary", h.timeSummary)
		r.Get("/api/time/summary/export", h.timeSummaryExport)

		r.Get("/api/reports/sales", h.salesReport)
	})

	h.router = r
	return r
}

// health returns service liveness.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	type response struct {
		Status string `json:"status"`
	}
	writeJSON(w, response{Status: "ok"})
}

// decodeJSON decodes the request body into v and returns false + writes an appropriate
// error response on failure. Returns HTTP 413 when the body exceeds the size limit set
// by RequestBodyLimit middleware; HTTP 400 for all other decode errors.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeError(w, r, "request body too large", "REQUEST_TOO_LARGE", http.StatusRequestEntityTooLarge)
			return false
		}
		writeError(w, r, "invalid JSON body: "+err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return false
	}
	return true
}
