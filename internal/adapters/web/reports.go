package web

import "net/http"

// salesReport handles GET /api/reports/sales.
func (h *Handler) salesReport(w http.ResponseWriter, r *http.Request) {
	claims := authFromContext(r.Context())
	report, err := h.svc.GetSalesReport(r.Context(), claims.CompanyID)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, report)
}

// dashboardSummary handles GET /api/dashboard/summary.
func (h *Handler) dashboardSummary(w http.ResponseWriter, r *http.Request) {
	user, err := h.currentUser(r)
	if err != nil {
		writeError(w, r, "not authenticated", "UNAUTHORIZED", http.StatusUnauthorized)
		return
	}
	summary, err := h.svc.GetDashboardSummary(r.Context(), user)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, summary)
}
