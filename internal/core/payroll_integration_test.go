package core_test

import (
	"context"
	"errors"
	"math"
	"testing"

	"lumix-backoffice/internal/core"
)

func TestPayrollService_CreateRun(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	svc := core.NewPayrollService(pool)
	ctx := context.Background()

	items, totals, err := core.ComputePayrollItems([]core.PayrollItemInput{
		{EmployeeID: 1, Gross: 4200, Tax: 900, Deductions: 150},
		{EmployeeID: 2, Gross: 5500, Tax: 1300, Deductions: 0},
	})
	if err != nil {
		t.Fatalf("ComputePayrollItems failed: %v", err)
	}

	run, err := svc.CreateRun(ctx, 1, core.NewPayrollRun{
		RunDate:   "2026-09-30",
		Frequency: "monthly",
		Currency:  "USD",
		Items:     items,
		Totals:    totals,
	})
	if err != nil {
		t.Fatalf("CreateRun failed: %v", err)
	}

	if run.Status != core.PayrollRunStatusDraft {
		t.Errorf("Run status = %q, want draft", run.Status)
	}
	if math.Abs(run.TotalNet-totals.Net) > 1e-9 {
		t.Errorf("Stored total net = %v, want %v", run.TotalNet, totals.Net)
	}
	if len(run.Items) != 2 {
		t.Fatalf("Run has %d items, want 2", len(run.Items))
	}
	if run.Items[0].EmployeeName != "Jordan Reyes" {
		t.Errorf("First item employee = %q, want Jordan Reyes", run.Items[0].EmployeeName)
	}

	listed, err := svc.ListRuns(ctx, 1, 0)
	if err != nil {
		t.Fatalf("ListRuns failed: %v", err)
	}
	if len(listed) != 1 || listed[0].ID != run.ID {
		t.Errorf("ListRuns = %v, want the single created run", listed)
	}
}

func TestPayrollService_RejectsForeignEmployee(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	svc := core.NewPayrollService(pool)
	ctx := context.Background()

	items, totals, err := core.ComputePayrollItems([]core.PayrollItemInput{
		{EmployeeID: 1, Gross: 4200, Tax: 900, Deductions: 150},
		{EmployeeID: 4040, Gross: 1000, Tax: 0, Deductions: 0},
	})
	if err != nil {
		t.Fatalf("ComputePayrollItems failed: %v", err)
	}

	_, err = svc.CreateRun(ctx, 1, core.NewPayrollRun{
		RunDate: "2026-09-30", Frequency: "monthly", Currency: "USD",
		Items: items, Totals: totals,
	})
	if err == nil {
		t.Fatal("Expected run with unknown employee to be rejected")
	}
	var verr *core.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Expected ValidationError, got %T: %v", err, err)
	}

	// The rejected run must leave nothing behind.
	runs, err := svc.ListRuns(ctx, 1, 0)
	if err != nil {
		t.Fatalf("ListRuns failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("Found %d orphaned payroll runs after rejected create", len(runs))
	}
}

func TestPayrollService_Settings(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	svc := core.NewPayrollService(pool)
	ctx := context.Background()

	settings, err := svc.GetSettings(ctx, 1)
	if err != nil {
		t.Fatalf("GetSettings failed: %v", err)
	}
	if settings.Frequency != "monthly" || settings.Currency != "USD" {
		t.Errorf("Seed settings = %+v, want monthly/USD", settings)
	}

	next := "2026-10-15"
	updated, err := svc.UpdateSettings(ctx, 1, core.PayrollSettings{
		Frequency: "biweekly", Currency: "EUR", NextRunDate: &next,
	})
	if err != nil {
		t.Fatalf("UpdateSettings failed: %v", err)
	}
	if updated.Frequency != "biweekly" || updated.Currency != "EUR" {
		t.Errorf("Updated settings = %+v", updated)
	}
	if updated.NextRunDate == nil || *updated.NextRunDate != next {
		t.Errorf("Updated next run date = %v, want %q", updated.NextRunDate, next)
	}

	if _, err := svc.UpdateSettings(ctx, 1, core.PayrollSettings{}); err == nil {
		t.Error("Expected empty settings update to be rejected")
	}
}
