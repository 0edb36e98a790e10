package web

import (
	"net/http"

	"lumix-backoffice/internal/core"
)

// Clients, employees and company settings are simple CRUD surfaces; the
// handlers stay thin and let the services validate.

func (h *Handler) listClients(w http.ResponseWriter, r *http.Request) {
	claims := authFromContext(r.Context())
	clients, err := h.svc.ListClients(r.Context(), claims.CompanyID)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	type response struct {
		Clients any `json:"clients"`
	}
	writeJSON(w, response{Clients: clients})
}

func (h *Handler) createClient(w http.ResponseWriter, r *http.Request) {
	claims := authFromContext(r.Context())

	var input core.ClientInput
	if !decodeJSON(w, r, &input) {
		return
	}

	client, err := h.svc.CreateClient(r.Context(), claims.CompanyID, input)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, client)
}

func (h *Handler) updateClient(w http.ResponseWriter, r *http.Request) {
	claims := authFromContext(r.Context())
	id, err := urlID(r)
	if err != nil {
		writeError(w, r, "invalid client id", "BAD_REQUEST", http.StatusBadRequest)
		return
	}

	var input core.ClientInput
	if !decodeJSON(w, r, &input) {
		return
	}

	client, err := h.svc.UpdateClient(r.Context(), claims.CompanyID, id, input)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, client)
}

func (h *Handler) listEmployees(w http.ResponseWriter, r *http.Request) {
	claims := authFromContext(r.Context())
	employees, err := h.svc.ListEmployees(r.Context(), claims.CompanyID)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	type response struct {
		Employees any `json:"employees"`
	}
	writeJSON(w, response{Employees: employees})
}

func (h *Handler) createEmployee(w http.ResponseWriter, r *http.Request) {
	claims := authFromContext(r.Context())

	var input core.EmployeeInput
	if !decodeJSON(w, r, &input) {
		return
	}

	employee, err := h.svc.CreateEmployee(r.Context(), claims.CompanyID, input)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, employee)
}

func (h *Handler) updateEmployee(w http.ResponseWriter, r *http.Request) {
	claims := authFromContext(r.Context())
	id, err := urlID(r)
	if err != nil {
		writeError(w, r, "invalid employee id", "BAD_REQUEST", http.StatusBadRequest)
		return
	}

	var input core.EmployeeInput
	if !decodeJSON(w, r, &input) {
		return
	}

	employee, err := h.svc.UpdateEmployee(r.Context(), claims.CompanyID, id, input)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, employee)
}

func (h *Handler) deleteEmployee(w http.ResponseWriter, r *http.Request) {
	claims := authFromContext(r.Context())
	id, err := urlID(r)
	if err != nil {
		writeError(w, r, "invalid employee id", "BAD_REQUEST", http.StatusBadRequest)
		return
	}

	if err := h.svc.DeleteEmployee(r.Context(), claims.CompanyID, id); err != nil {
		writeAppError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) getCompany(w http.ResponseWriter, r *http.Request) {
	claims := authFromContext(r.Context())
	company, err := h.svc.GetCompany(r.Context(), claims.CompanyID)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, company)
}

func (h *Handler) updateCompany(w http.ResponseWriter, r *http.Request) {
	claims := authFromContext(r.Context())

	var input core.CompanyInput
	if !decodeJSON(w, r, &input) {
		return
	}

	company, err := h.svc.UpdateCompany(r.Context(), claims.CompanyID, input)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, company)
}
