package core

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// ProductSales aggregates invoiced units and revenue per line-item
// description.
type ProductSales struct {
	Name    string  `json:"name"`
	Units   float64 `json:"units"`
	Revenue float64 `json:"revenue"`
}

// SalesReport ranks products by revenue. WorstSellers is ordered
// ascending so the weakest product comes first.
type SalesReport struct {
	BestSellers  []ProductSales `json:"bestSellers"`
	WorstSellers []ProductSales `json:"worstSellers"`
	AvgUnitPrice float64        `json:"avgUnitPrice"`
}

// KPI is one headline card on the dashboard.
type KPI struct {
	Label string `json:"label"`
	Value string `json:"value"`
	Note  string `json:"note"`
}

type DashboardInvoice struct {
	ID     int           `json:"id"`
	Client string        `json:"client"`
	Due    string        `json:"due"`
	Amount string        `json:"amount"`
	Status InvoiceStatus `json:"status"`
}

type DashboardEmployee struct {
	Name string `json:"name"`
	Team string `json:"team"`
	Role string `json:"role"`
}

// DashboardSummary is the landing-page payload: headline KPIs plus the
// five most recent invoices and employees.
type DashboardSummary struct {
	EmployeeName string              `json:"employeeName"`
	Role         Role                `json:"role"`
	KPIs         []KPI               `json:"kpis"`
	Invoices     []DashboardInvoice  `json:"invoices"`
	Employees    []DashboardEmployee `json:"employees"`
}

// ReportingService provides read-only aggregate queries.
type ReportingService interface {
	GetSalesReport(ctx context.Context, companyID int) (*SalesReport, error)
	GetDashboardSummary(ctx context.Context, companyID int, user *User) (*DashboardSummary, error)
}

type reportingService struct {
	pool    *pgxpool.Pool
	printer *message.Printer
}

func NewReportingService(pool *pgxpool.Pool) ReportingService {
	return &reportingService{pool: pool, printer: message.NewPrinter(language.English)}
}

func (s *reportingService) GetSalesReport(ctx context.Context, companyID int) (*SalesReport, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT ii.description, ii.quantity, ii.unit_price, ii.line_total
		FROM invoice_items ii
		JOIN invoices i ON i.id = ii.invoice_id
		WHERE i.company_id = $1
	`, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query sales data: %w", err)
	}
	defer rows.Close()

	type aggregate struct {
		units   float64
		revenue float64
	}
	totals := make(map[string]*aggregate)
	var names []string
	var weightedUnitPrice, unitCount float64

	for rows.Next() {
		var description string
		var quantity, unitPrice, lineTotal float64
		if err := rows.Scan(&description, &quantity, &unitPrice, &lineTotal); err != nil {
			return nil, fmt.Errorf("failed to scan sales row: %w", err)
		}
		if description == "" {
			description = "Unnamed"
		}
		agg, ok := totals[description]
		if !ok {
			agg = &aggregate{}
			totals[description] = agg
			names = append(names, description)
		}
		agg.units += quantity
		agg.revenue += lineTotal
		weightedUnitPrice += unitPrice * quantity
		unitCount += quantity
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sales row iteration error: %w", err)
	}

	products := make([]ProductSales, 0, len(names))
	for _, name := range names {
		products = append(products, ProductSales{
			Name:    name,
			Units:   totals[name].units,
			Revenue: totals[name].revenue,
		})
	}
	sort.SliceStable(products, func(i, j int) bool {
		return products[i].Revenue > products[j].Revenue
	})

	report := &SalesReport{
		BestSellers:  topN(products, 5),
		WorstSellers: bottomN(products, 5),
	}
	if unitCount > 0 {
		report.AvgUnitPrice = weightedUnitPrice / unitCount
	}
	return report, nil
}

// topN returns up to n leading entries of a revenue-descending list.
func topN(products []ProductSales, n int) []ProductSales {
	if len(products) < n {
		n = len(products)
	}
	return append([]ProductSales(nil), products[:n]...)
}

// bottomN returns up to n trailing entries, reversed so the lowest
// revenue comes first.
func bottomN(products []ProductSales, n int) []ProductSales {
	if len(products) < n {
		n = len(products)
	}
	out := make([]ProductSales, 0, n)
	for i := len(products) - 1; i >= len(products)-n; i-- {
		out = append(out, products[i])
	}
	return out
}

func (s *reportingService) GetDashboardSummary(ctx context.Context, companyID int, user *User) (*DashboardSummary, error) {
	var cashBalance, payrollTotal float64
	var payrollDate *string
	err := s.pool.QueryRow(ctx, `
		SELECT cash_balance, next_payroll_total, next_payroll_date::text
		FROM companies
		WHERE id = $1
	`, companyID).Scan(&cashBalance, &payrollTotal, &payrollDate)
	if err != nil {
		return nil, fmt.Errorf("failed to load company for dashboard: %w", err)
	}

	invoices, outstandingCount, outstandingTotal, err := s.recentInvoices(ctx, companyID)
	if err != nil {
		return nil, err
	}
	employees, err := s.recentEmployees(ctx, companyID)
	if err != nil {
		return nil, err
	}

	nextRun := "TBD"
	if payrollDate != nil {
		nextRun = formatDashboardDate(*payrollDate)
	}

	return &DashboardSummary{
		EmployeeName: user.FullName,
		Role:         user.Role,
		KPIs: []KPI{
			{
				Label: "Cash balance",
				Value: s.money(cashBalance),
				Note:  "Updated daily",
			},
			{
				Label: "Outstanding invoices",
				Value: s.money(outstandingTotal),
				Note:  fmt.Sprintf("%d invoices open", outstandingCount),
			},
			{
				Label: "Payroll scheduled",
				Value: s.money(payrollTotal),
				Note:  fmt.Sprintf("Next run on %s", nextRun),
			},
			{
				Label: "Active employees",
				Value: fmt.Sprintf("%d", len(employees)),
				Note:  "Active seats",
			},
		},
		Invoices:  invoices,
		Employees: employees,
	}, nil
}

func (s *reportingService) recentInvoices(ctx context.Context, companyID int) ([]DashboardInvoice, int, float64, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, client_name, due_date::text, amount, status
		FROM invoices
		WHERE company_id = $1
		ORDER BY created_at DESC
		LIMIT 5
	`, companyID)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("failed to query dashboard invoices: %w", err)
	}
	defer rows.Close()

	var invoices []DashboardInvoice
	var outstandingCount int
	var outstandingTotal float64
	for rows.Next() {
		var id int
		var client string
		var dueDate *string
		var amount float64
		var status InvoiceStatus
		if err := rows.Scan(&id, &client, &dueDate, &amount, &status); err != nil {
			return nil, 0, 0, fmt.Errorf("failed to scan dashboard invoice: %w", err)
		}
		due := "Due soon"
		switch {
		case dueDate != nil:
			due = "Due " + formatDashboardDate(*dueDate)
		case status == InvoiceStatusPaid:
			due = "Paid"
		}
		if status != InvoiceStatusPaid {
			outstandingCount++
			outstandingTotal += amount
		}
		invoices = append(invoices, DashboardInvoice{
			ID:     id,
			Client: client,
			Due:    due,
			Amount: s.money(amount),
			Status: status,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, 0, 0, fmt.Errorf("dashboard invoice row iteration error: %w", err)
	}
	return invoices, outstandingCount, outstandingTotal, nil
}

func (s *reportingService) recentEmployees(ctx context.Context, companyID int) ([]DashboardEmployee, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT full_name, COALESCE(team, ''), role
		FROM employees
		WHERE company_id = $1
		ORDER BY created_at DESC
		LIMIT 5
	`, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query dashboard employees: %w", err)
	}
	defer rows.Close()

	var employees []DashboardEmployee
	for rows.Next() {
		var e DashboardEmployee
		if err := rows.Scan(&e.Name, &e.Team, &e.Role); err != nil {
			return nil, fmt.Errorf("failed to scan dashboard employee: %w", err)
		}
		if e.Team == "" {
			e.Team = "Team"
		}
		employees = append(employees, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("dashboard employee row iteration error: %w", err)
	}
	return employees, nil
}

func (s *reportingService) money(amount float64) string {
	return s.printer.Sprintf("$%.2f", amount)
}

func formatDashboardDate(iso string) string {
	t, err := time.Parse("2006-01-02", iso)
	if err != nil {
		return iso
	}
	return t.Format("Jan 2, 2006")
}
