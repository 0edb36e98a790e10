package core

import "time"

// Role is the access level attached to every authenticated request.
// Admins and managers may mutate company data; viewers are read-only.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleViewer  Role = "viewer"
)

// CanManage reports whether the role is allowed to perform mutating
// operations (create invoices, run payroll, edit records).
func (r Role) CanManage() bool {
	return r == RoleAdmin || r == RoleManager
}

type Company struct {
	ID                 int       `json:"id"`
	Name               string    `json:"name"`
	BaseCurrency       string    `json:"base_currency"`
	PayrollFrequency   string    `json:"payroll_frequency"`
	PayrollCurrency    string    `json:"payroll_currency"`
	PayrollNextRunDate *string   `json:"payroll_next_run_date,omitempty"`
	CashBalance        float64   `json:"cash_balance"`
	NextPayrollTotal   float64   `json:"next_payroll_total"`
	NextPayrollDate    *string   `json:"next_payroll_date,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
}

type Client struct {
	ID        int       `json:"id"`
	CompanyID int       `json:"company_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

type Employee struct {
	ID         int       `json:"id"`
	CompanyID  int       `json:"company_id"`
	FullName   string    `json:"full_name"`
	Team       string    `json:"team"`
	Role       string    `json:"role"` // "Admin" or "Employee"
	HourlyRate float64   `json:"hourly_rate"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}

type InvoiceStatus string

const (
	InvoiceStatusPending InvoiceStatus = "pending"
	InvoiceStatusOverdue InvoiceStatus = "overdue"
	InvoiceStatusPaid    InvoiceStatus = "paid"
)

// Invoice is immutable once created: there are no update operations.
// Status transitions (pending→overdue, pending→paid) are owned by
// external collaborators and never computed here.
type Invoice struct {
	ID            int           `json:"id"`
	CompanyID     int           `json:"company_id"`
	InvoiceNumber string        `json:"invoice_number"`
	ClientName    string        `json:"client_name"`
	ClientEmail   string        `json:"client_email"`
	Currency      string        `json:"currency"`
	DueDate       *string       `json:"due_date,omitempty"`
	Notes         string        `json:"notes,omitempty"`
	Subtotal      float64       `json:"subtotal"`
	DiscountTotal float64       `json:"discount_total"`
	TaxTotal      float64       `json:"tax_total"`
	Amount        float64       `json:"amount"`
	Status        InvoiceStatus `json:"status"`
	Items         []InvoiceItem `json:"items,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
}

type InvoiceItem struct {
	ID           int     `json:"id"`
	InvoiceID    int     `json:"invoice_id"`
	Description  string  `json:"description"`
	Quantity     float64 `json:"quantity"`
	UnitPrice    float64 `json:"unit_price"`
	TaxRate      float64 `json:"tax_rate"`
	DiscountRate float64 `json:"discount_rate"`
	LineTotal    float64 `json:"line_total"`
}

// InvoiceSummary is the flattened row used for listings and the export
// batch.
type InvoiceSummary struct {
	ID            int           `json:"id"`
	InvoiceNumber string        `json:"invoice_number"`
	ClientName    string        `json:"client_name"`
	Amount        float64       `json:"amount"`
	Currency      string        `json:"currency"`
	Status        InvoiceStatus `json:"status"`
	DueDate       *string       `json:"due_date,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
}

// ExportBatch is a filtered, ordered set of invoice summaries assembled
// for a single PDF render. It is never persisted.
type ExportBatch struct {
	CompanyName string
	GeneratedAt time.Time
	Invoices    []InvoiceSummary
}

type PayrollRunStatus string

const PayrollRunStatusDraft PayrollRunStatus = "draft"

type PayrollRun struct {
	ID              int              `json:"id"`
	CompanyID       int              `json:"company_id"`
	RunDate         string           `json:"run_date"`
	Frequency       string           `json:"frequency"`
	Currency        string           `json:"currency"`
	Status          PayrollRunStatus `json:"status"`
	TotalGross      float64          `json:"total_gross"`
	TotalTax        float64          `json:"total_tax"`
	TotalDeductions float64          `json:"total_deductions"`
	TotalNet        float64          `json:"total_net"`
	Items           []PayrollItem    `json:"items,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
}

type PayrollItem struct {
	ID           int     `json:"id"`
	PayrollRunID int     `json:"payroll_run_id"`
	EmployeeID   int     `json:"employee_id"`
	EmployeeName string  `json:"employee_name,omitempty"`
	Gross        float64 `json:"gross"`
	Tax          float64 `json:"tax"`
	Deductions   float64 `json:"deductions"`
	Net          float64 `json:"net"`
}

// PayrollSettings lives on the companies row.
type PayrollSettings struct {
	Frequency   string  `json:"payroll_frequency"`
	Currency    string  `json:"payroll_currency"`
	NextRunDate *string `json:"payroll_next_run_date,omitempty"`
}

type TimeEntryStatus string

const (
	TimeEntryOpen   TimeEntryStatus = "open"
	TimeEntryClosed TimeEntryStatus = "closed"
)

type TimeEntry struct {
	ID              int             `json:"id"`
	CompanyID       int             `json:"company_id"`
	UserID          int             `json:"user_id"`
	StartTime       time.Time       `json:"start_time"`
	EndTime         *time.Time      `json:"end_time,omitempty"`
	DurationMinutes int             `json:"duration_minutes"`
	BreakMinutes    int             `json:"break_minutes"`
	NetMinutes      int             `json:"net_minutes"`
	Status          TimeEntryStatus `json:"status"`
}

type TimeBreak struct {
	ID              int             `json:"id"`
	TimeEntryID     int             `json:"time_entry_id"`
	StartTime       time.Time       `json:"start_time"`
	EndTime         *time.Time      `json:"end_time,omitempty"`
	DurationMinutes int             `json:"duration_minutes"`
	Status          TimeEntryStatus `json:"status"`
}

// TimeSummaryRow aggregates closed net minutes per user.
type TimeSummaryRow struct {
	UserID   int    `json:"user_id"`
	FullName string `json:"full_name"`
	Minutes  int    `json:"minutes"`
}
