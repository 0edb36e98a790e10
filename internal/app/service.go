package app

import (
	"context"

	"lumix-backoffice/internal/core"
)

// ApplicationService is the single interface the web adapter calls. It
// decouples presentation from business logic. Implementations must
// contain no HTTP types and no display logic of any kind.
type ApplicationService interface {
	// AuthenticateUser verifies credentials and returns the user on success.
	AuthenticateUser(ctx context.Context, username, password string) (*core.User, error)

	// GetUser returns the user profile by ID.
	GetUser(ctx context.Context, userID int) (*core.User, error)

	// CreateInvoice runs the full dispatch pipeline: validate the line
	// items, compute totals, persist invoice + items, render the PDF and
	// email it to the client. A failure after persistence returns an
	// error that still carries the new invoice's id.
	CreateInvoice(ctx context.Context, user *core.User, req CreateInvoiceRequest) (*InvoiceDispatchResult, error)

	// GetInvoice returns one invoice with its line items.
	GetInvoice(ctx context.Context, companyID, invoiceID int) (*core.Invoice, error)

	// ListInvoices returns invoice summaries, newest first.
	ListInvoices(ctx context.Context, companyID int) ([]core.InvoiceSummary, error)

	// ExportInvoices renders a PDF listing of the company's invoices.
	// ids narrows the export; pass nil for all invoices.
	ExportInvoices(ctx context.Context, companyID int, ids []int) ([]byte, error)

	// RenderInvoicePDF renders the single-invoice document, identical to
	// the one attached to the dispatch email.
	RenderInvoicePDF(ctx context.Context, companyID, invoiceID int) ([]byte, error)

	// CreatePayrollRun validates and persists a draft payroll run with
	// per-employee net amounts and run totals.
	CreatePayrollRun(ctx context.Context, companyID int, req CreatePayrollRunRequest) (*core.PayrollRun, error)

	// GetPayrollRun returns one run with its items.
	GetPayrollRun(ctx context.Context, companyID, runID int) (*core.PayrollRun, error)

	// ListPayrollRuns returns the most recent runs, newest first.
	ListPayrollRuns(ctx context.Context, companyID int) ([]core.PayrollRun, error)

	// RenderPayrollRunPDF renders the payslip summary for one run.
	RenderPayrollRunPDF(ctx context.Context, companyID, runID int) ([]byte, error)

	GetPayrollSettings(ctx context.Context, companyID int) (*core.PayrollSettings, error)
	UpdatePayrollSettings(ctx context.Context, companyID int, settings core.PayrollSettings) (*core.PayrollSettings, error)

	ListClients(ctx context.Context, companyID int) ([]core.Client, error)
	CreateClient(ctx context.Context, companyID int, input core.ClientInput) (*core.Client, error)
	UpdateClient(ctx context.Context, companyID, clientID int, input core.ClientInput) (*core.Client, error)

	ListEmployees(ctx context.Context, companyID int) ([]core.Employee, error)
	CreateEmployee(ctx context.Context, companyID int, input core.EmployeeInput) (*core.Employee, error)
	UpdateEmployee(ctx context.Context, companyID, employeeID int, input core.EmployeeInput) (*core.Employee, error)
	DeleteEmployee(ctx context.Context, companyID, employeeID int) error

	GetCompany(ctx context.Context, companyID int) (*core.Company, error)
	UpdateCompany(ctx context.Context, companyID int, input core.CompanyInput) (*core.Company, error)

	// Clock operations act on the calling user's own timesheet.
	ClockIn(ctx context.Context, user *core.User) (*core.TimeEntry, error)
	ClockOut(ctx context.Context, user *core.User) (*core.TimeEntry, error)
	StartBreak(ctx context.Context, user *core.User) (*core.TimeBreak, error)
	EndBreak(ctx context.Context, user *core.User) (*core.TimeBreak, error)
	TimeStatus(ctx context.Context, user *core.User) (*core.TimeStatus, error)

	// TimeEntries and TimeSummary widen visibility by role: admins and
	// managers see the whole company, everyone else sees themselves.
	TimeEntries(ctx context.Context, user *core.User) ([]core.TimeEntry, error)
	TimeSummary(ctx context.Context, user *core.User, start, end string) ([]core.TimeSummaryRow, error)

	GetSalesReport(ctx context.Context, companyID int) (*core.SalesReport, error)
	GetDashboardSummary(ctx context.Context, user *core.User) (*core.DashboardSummary, error)
}
