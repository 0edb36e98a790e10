package app

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"lumix-backoffice/internal/core"
	"lumix-backoffice/internal/mail"
)

// Renderer produces the PDF documents served and emailed by the app.
type Renderer interface {
	RenderInvoice(inv *core.Invoice, companyName string) ([]byte, error)
	RenderExportBatch(batch core.ExportBatch) ([]byte, error)
	RenderPayrollRun(run *core.PayrollRun, companyName string) ([]byte, error)
}

type appService struct {
	users     core.UserService
	invoices  core.InvoiceService
	payroll   core.PayrollService
	clients   core.ClientService
	employees core.EmployeeService
	company   core.CompanyService
	timesheet core.TimesheetService
	reports   core.ReportingService
	renderer  Renderer
	mailer    mail.Mailer
	now       func() time.Time
}

// NewAppService constructs an appService that satisfies ApplicationService.
func NewAppService(
	users core.UserService,
	invoices core.InvoiceService,
	payroll core.PayrollService,
	clients core.ClientService,
	employees core.EmployeeService,
	company core.CompanyService,
	timesheet core.TimesheetService,
	reports core.ReportingService,
	renderer Renderer,
	mailer mail.Mailer,
) ApplicationService {
	return &appService{
		users:     users,
		invoices:  invoices,
		payroll:   payroll,
		clients:   clients,
		employees: employees,
		company:   company,
		timesheet: timesheet,
		reports:   reports,
		renderer:  renderer,
		mailer:    mailer,
		now:       time.Now,
	}
}

func (s *appService) AuthenticateUser(ctx context.Context, username, password string) (*core.User, error) {
	return s.users.Authenticate(ctx, username, password)
}

func (s *appService) GetUser(ctx context.Context, userID int) (*core.User, error) {
	return s.users.GetByID(ctx, userID)
}

// CreateInvoice is the dispatch pipeline. Stages run strictly in order:
// validate, compute, persist, render, notify. Nothing is written before
// compute succeeds; errors after persistence carry the invoice id.
func (s *appService) CreateInvoice(ctx context.Context, user *core.User, req CreateInvoiceRequest) (*InvoiceDispatchResult, error) {
	clientName := strings.TrimSpace(req.ClientName)
	clientEmail := strings.TrimSpace(req.ClientEmail)
	if clientName == "" || clientEmail == "" {
		return nil, core.NewValidationError("client name and email are required")
	}

	lines, totals, err := core.ComputeInvoice(req.Items)
	if err != nil {
		return nil, err
	}

	company, err := s.company.GetCompany(ctx, user.CompanyID)
	if err != nil {
		return nil, err
	}
	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = company.BaseCurrency
	}

	inv, err := s.invoices.CreateInvoice(ctx, user.CompanyID, core.NewInvoice{
		ClientName:  clientName,
		ClientEmail: clientEmail,
		Currency:    currency,
		DueDate:     req.DueDate,
		Notes:       req.Notes,
		Lines:       lines,
		Totals:      totals,
	})
	if err != nil {
		return nil, err
	}

	document, err := s.renderer.RenderInvoice(inv, company.Name)
	if err != nil {
		var rerr *core.RenderError
		if !errors.As(err, &rerr) {
			err = &core.RenderError{InvoiceID: inv.ID, Err: err}
		}
		return nil, err
	}

	if err := s.mailer.Send(ctx, invoiceEmail(user, inv, document)); err != nil {
		return nil, &core.DeliveryError{InvoiceID: inv.ID, Err: err}
	}

	return &InvoiceDispatchResult{InvoiceID: inv.ID, Invoice: inv}, nil
}

// invoiceEmail builds the client notification with the rendered invoice
// attached.
func invoiceEmail(user *core.User, inv *core.Invoice, document []byte) mail.Message {
	sender := user.FullName
	if sender == "" {
		sender = "Lumix"
	}
	amount := emailAmount(inv.Amount, inv.Currency)
	dueLabel := "No due date"
	if inv.DueDate != nil && *inv.DueDate != "" {
		if t, err := time.Parse("2006-01-02", *inv.DueDate); err == nil {
			dueLabel = t.Format("Jan 2, 2006")
		} else {
			dueLabel = *inv.DueDate
		}
	}

	var text strings.Builder
	fmt.Fprintf(&text, "Hi %s,\n\n", inv.ClientName)
	fmt.Fprintf(&text, "An invoice has been created for %s.\nDue date: %s\n\n", amount, dueLabel)
	if inv.Notes != "" {
		fmt.Fprintf(&text, "Notes: %s\n\n", inv.Notes)
	}
	fmt.Fprintf(&text, "Thanks,\n%s", sender)

	var html strings.Builder
	fmt.Fprintf(&html, "<p>Hi %s,</p>", inv.ClientName)
	fmt.Fprintf(&html, "<p>An invoice has been created for <strong>%s</strong>.</p>", amount)
	fmt.Fprintf(&html, "<p>Due date: %s</p>", dueLabel)
	if inv.Notes != "" {
		fmt.Fprintf(&html, "<p>Notes: %s</p>", inv.Notes)
	}
	fmt.Fprintf(&html, "<p>Thanks,<br />%s</p>", sender)

	return mail.Message{
		To:      []string{inv.ClientEmail},
		Subject: fmt.Sprintf("Invoice %s from %s", inv.InvoiceNumber, sender),
		Text:    text.String(),
		HTML:    html.String(),
		Attachments: []mail.Attachment{
			{Filename: fmt.Sprintf("invoice-%s.pdf", inv.InvoiceNumber), Content: document},
		},
	}
}

func emailAmount(amount float64, currency string) string {
	symbol := ""
	switch currency {
	case "EUR":
		symbol = "€"
	case "USD":
		symbol = "$"
	}
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return symbol + "0.00"
	}
	return fmt.Sprintf("%s%.2f", symbol, amount)
}

func (s *appService) GetInvoice(ctx context.Context, companyID, invoiceID int) (*core.Invoice, error) {
	return s.invoices.GetInvoice(ctx, companyID, invoiceID)
}

func (s *appService) ListInvoices(ctx context.Context, companyID int) ([]core.InvoiceSummary, error) {
	return s.invoices.ListInvoices(ctx, companyID, nil)
}

func (s *appService) ExportInvoices(ctx context.Context, companyID int, ids []int) ([]byte, error) {
	company, err := s.company.GetCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	summaries, err := s.invoices.ListInvoices(ctx, companyID, ids)
	if err != nil {
		return nil, err
	}
	return s.renderer.RenderExportBatch(core.ExportBatch{
		CompanyName: company.Name,
		GeneratedAt: s.now(),
		Invoices:    summaries,
	})
}

func (s *appService) RenderInvoicePDF(ctx context.Context, companyID, invoiceID int) ([]byte, error) {
	company, err := s.company.GetCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	inv, err := s.invoices.GetInvoice(ctx, companyID, invoiceID)
	if err != nil {
		return nil, err
	}
	return s.renderer.RenderInvoice(inv, company.Name)
}

func (s *appService) CreatePayrollRun(ctx context.Context, companyID int, req CreatePayrollRunRequest) (*core.PayrollRun, error) {
	if req.RunDate == "" || req.Frequency == "" || req.Currency == "" {
		return nil, core.NewValidationError("missing payroll run details")
	}
	items, totals, err := core.ComputePayrollItems(req.Items)
	if err != nil {
		return nil, err
	}
	return s.payroll.CreateRun(ctx, companyID, core.NewPayrollRun{
		RunDate:   req.RunDate,
		Frequency: req.Frequency,
		Currency:  req.Currency,
		Items:     items,
		Totals:    totals,
	})
}

func (s *appService) GetPayrollRun(ctx context.Context, companyID, runID int) (*core.PayrollRun, error) {
	return s.payroll.GetRun(ctx, companyID, runID)
}

func (s *appService) ListPayrollRuns(ctx context.Context, companyID int) ([]core.PayrollRun, error) {
	return s.payroll.ListRuns(ctx, companyID, 0)
}

func (s *appService) RenderPayrollRunPDF(ctx context.Context, companyID, runID int) ([]byte, error) {
	company, err := s.company.GetCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	run, err := s.payroll.GetRun(ctx, companyID, runID)
	if err != nil {
		return nil, err
	}
	return s.renderer.RenderPayrollRun(run, company.Name)
}

func (s *appService) GetPayrollSettings(ctx context.Context, companyID int) (*core.PayrollSettings, error) {
	return s.payroll.GetSettings(ctx, companyID)
}

func (s *appService) UpdatePayrollSettings(ctx context.Context, companyID int, settings core.PayrollSettings) (*core.PayrollSettings, error) {
	return s.payroll.UpdateSettings(ctx, companyID, settings)
}

func (s *appService) ListClients(ctx context.Context, companyID int) ([]core.Client, error) {
	return s.clients.GetClients(ctx, companyID)
}

func (s *appService) CreateClient(ctx context.Context, companyID int, input core.ClientInput) (*core.Client, error) {
	return s.clients.CreateClient(ctx, companyID, input)
}

func (s *appService) UpdateClient(ctx context.Context, companyID, clientID int, input core.ClientInput) (*core.Client, error) {
	return s.clients.UpdateClient(ctx, companyID, clientID, input)
}

func (s *appService) ListEmployees(ctx context.Context, companyID int) ([]core.Employee, error) {
	return s.employees.GetEmployees(ctx, companyID)
}

func (s *appService) CreateEmployee(ctx context.Context, companyID int, input core.EmployeeInput) (*core.Employee, error) {
	return s.employees.CreateEmployee(ctx, companyID, input)
}

func (s *appService) UpdateEmployee(ctx context.Context, companyID, employeeID int, input core.EmployeeInput) (*core.Employee, error) {
	return s.employees.UpdateEmployee(ctx, companyID, employeeID, input)
}

func (s *appService) DeleteEmployee(ctx context.Context, companyID, employeeID int) error {
	return s.employees.DeleteEmployee(ctx, companyID, employeeID)
}

func (s *appService) GetCompany(ctx context.Context, companyID int) (*core.Company, error) {
	return s.company.GetCompany(ctx, companyID)
}

func (s *appService) UpdateCompany(ctx context.Context, companyID int, input core.CompanyInput) (*core.Company, error) {
	return s.company.UpdateCompany(ctx, companyID, input)
}

func (s *appService) ClockIn(ctx context.Context, user *core.User) (*core.TimeEntry, error) {
	return s.timesheet.ClockIn(ctx, user.CompanyID, user.ID)
}

func (s *appService) ClockOut(ctx context.Context, user *core.User) (*core.TimeEntry, error) {
	return s.timesheet.ClockOut(ctx, user.ID)
}

func (s *appService) StartBreak(ctx context.Context, user *core.User) (*core.TimeBreak, error) {
	return s.timesheet.StartBreak(ctx, user.ID)
}

func (s *appService) EndBreak(ctx context.Context, user *core.User) (*core.TimeBreak, error) {
	return s.timesheet.EndBreak(ctx, user.ID)
}

func (s *appService) TimeStatus(ctx context.Context, user *core.User) (*core.TimeStatus, error) {
	return s.timesheet.Status(ctx, user.ID)
}

func (s *appService) TimeEntries(ctx context.Context, user *core.User) ([]core.TimeEntry, error) {
	return s.timesheet.Entries(ctx, user.CompanyID, user.ID, user.Role)
}

func (s *appService) TimeSummary(ctx context.Context, user *core.User, start, end string) ([]core.TimeSummaryRow, error) {
	return s.timesheet.Summary(ctx, user.CompanyID, user.ID, user.Role, start, end)
}

func (s *appService) GetSalesReport(ctx context.Context, companyID int) (*core.SalesReport, error) {
	return s.reports.GetSalesReport(ctx, companyID)
}

func (s *appService) GetDashboardSummary(ctx context.Context, user *core.User) (*core.DashboardSummary, error) {
	return s.reports.GetDashboardSummary(ctx, user.CompanyID, user)
}
