package core_test

import (
	"context"
	"math"
	"testing"

	"lumix-backoffice/internal/core"
)

func TestReportingService_SalesReport(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	invoices := core.NewInvoiceService(pool)
	reports := core.NewReportingService(pool)
	ctx := context.Background()

	lines, totals := computeTestInvoice(t, []core.LineItemInput{
		{Description: "Consulting", Quantity: 10, UnitPrice: 150},
		{Description: "Hosting", Quantity: 4, UnitPrice: 45},
		{Description: "Consulting", Quantity: 2, UnitPrice: 150},
	})
	if _, err := invoices.CreateInvoice(ctx, 1, core.NewInvoice{
		ClientName: "Acme Corp", Currency: "USD", Lines: lines, Totals: totals,
	}); err != nil {
		t.Fatalf("CreateInvoice failed: %v", err)
	}

	report, err := reports.GetSalesReport(ctx, 1)
	if err != nil {
		t.Fatalf("GetSalesReport failed: %v", err)
	}
	if len(report.BestSellers) != 2 {
		t.Fatalf("BestSellers has %d products, want 2", len(report.BestSellers))
	}
	top := report.BestSellers[0]
	if top.Name != "Consulting" {
		t.Errorf("Top seller = %q, want Consulting", top.Name)
	}
	if math.Abs(top.Units-12) > 1e-9 {
		t.Errorf("Consulting units = %v, want 12 across both lines", top.Units)
	}
	if report.WorstSellers[0].Name != "Hosting" {
		t.Errorf("Worst seller = %q, want Hosting", report.WorstSellers[0].Name)
	}

	// Weighted average: (10*150 + 4*45 + 2*150) / 16
	wantAvg := (10*150.0 + 4*45.0 + 2*150.0) / 16.0
	if math.Abs(report.AvgUnitPrice-wantAvg) > 1e-9 {
		t.Errorf("AvgUnitPrice = %v, want %v", report.AvgUnitPrice, wantAvg)
	}
}

func TestReportingService_SalesReportEmptyCompany(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	report, err := core.NewReportingService(pool).GetSalesReport(context.Background(), 1)
	if err != nil {
		t.Fatalf("GetSalesReport failed: %v", err)
	}
	if len(report.BestSellers) != 0 || len(report.WorstSellers) != 0 {
		t.Errorf("Empty company produced sellers: %+v", report)
	}
	if report.AvgUnitPrice != 0 {
		t.Errorf("AvgUnitPrice = %v, want 0 with no sales", report.AvgUnitPrice)
	}
}

func TestReportingService_DashboardSummary(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	users := core.NewUserService(pool)
	invoices := core.NewInvoiceService(pool)
	reports := core.NewReportingService(pool)
	ctx := context.Background()

	admin, err := users.GetByID(ctx, 1)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}

	lines, totals := computeTestInvoice(t, []core.LineItemInput{
		{Description: "Retainer", Quantity: 1, UnitPrice: 2000},
	})
	if _, err := invoices.CreateInvoice(ctx, 1, core.NewInvoice{
		ClientName: "Acme Corp", Currency: "USD", Lines: lines, Totals: totals,
	}); err != nil {
		t.Fatalf("CreateInvoice failed: %v", err)
	}

	summary, err := reports.GetDashboardSummary(ctx, 1, admin)
	if err != nil {
		t.Fatalf("GetDashboardSummary failed: %v", err)
	}
	if summary.EmployeeName != "Avery Admin" {
		t.Errorf("EmployeeName = %q", summary.EmployeeName)
	}
	if summary.Role != core.RoleAdmin {
		t.Errorf("Role = %q, want admin", summary.Role)
	}
	if len(summary.KPIs) != 4 {
		t.Fatalf("Dashboard has %d KPIs, want 4", len(summary.KPIs))
	}
	if summary.KPIs[1].Label != "Outstanding invoices" {
		t.Errorf("Second KPI label = %q", summary.KPIs[1].Label)
	}
	if summary.KPIs[1].Note != "1 invoices open" {
		t.Errorf("Outstanding note = %q, want \"1 invoices open\"", summary.KPIs[1].Note)
	}
	if len(summary.Invoices) != 1 {
		t.Errorf("Dashboard lists %d invoices, want 1", len(summary.Invoices))
	}
	if len(summary.Employees) != 2 {
		t.Errorf("Dashboard lists %d employees, want 2", len(summary.Employees))
	}
}
