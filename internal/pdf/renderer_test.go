package pdf

import (
	"bytes"
	"fmt"
	"math"
	"testing"
	"time"

	"lumix-backoffice/internal/core"
)

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		amount   float64
		currency string
		want     string
	}{
		{1234.5, "EUR", "€1234.50"},
		{1234.5, "USD", "$1234.50"},
		{1234.5, "GBP", "1234.50"},
		{0, "USD", "$0.00"},
		{-120.25, "EUR", "€-120.25"},
		{math.NaN(), "USD", "$0.00"},
		{math.Inf(1), "EUR", "€0.00"},
		{math.Inf(-1), "", "0.00"},
	}
	for _, tt := range tests {
		if got := formatAmount(tt.amount, tt.currency); got != tt.want {
			t.Errorf("formatAmount(%v, %q) = %q, want %q", tt.amount, tt.currency, got, tt.want)
		}
	}
}

func TestAdvanceRow(t *testing.T) {
	y, newPage := advanceRow(100)
	if newPage || y != 116 {
		t.Errorf("advanceRow(100) = (%v, %v), want (116, false)", y, newPage)
	}

	// Crossing the break threshold resets to the top of a new page.
	y, newPage = advanceRow(750)
	if !newPage || y != 50 {
		t.Errorf("advanceRow(750) = (%v, %v), want (50, true)", y, newPage)
	}

	// Landing exactly on the threshold does not break.
	y, newPage = advanceRow(744)
	if newPage || y != 760 {
		t.Errorf("advanceRow(744) = (%v, %v), want (760, false)", y, newPage)
	}
}

func TestAdvanceRow_WalksWholePage(t *testing.T) {
	y := resetY
	rows := 0
	for {
		var newPage bool
		y, newPage = advanceRow(y)
		if newPage {
			break
		}
		rows++
		if rows > 100 {
			t.Fatal("advanceRow never triggered a page break")
		}
	}
	// (760 - 50) / 16 rows fit between reset and break.
	if want := 44; rows != want {
		t.Errorf("Rows per page = %d, want %d", rows, want)
	}
}

// pageCount counts page objects in the raw PDF output. Page streams are
// compressed, so object headers are the only reliable text to scan for.
func pageCount(t *testing.T, out []byte) int {
	t.Helper()
	return bytes.Count(out, []byte("/Type /Page")) - bytes.Count(out, []byte("/Type /Pages"))
}

func exportBatch(n int) core.ExportBatch {
	batch := core.ExportBatch{
		CompanyName: "Test Company",
		GeneratedAt: time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC),
	}
	for i := 0; i < n; i++ {
		batch.Invoices = append(batch.Invoices, core.InvoiceSummary{
			ID:            i + 1,
			InvoiceNumber: fmt.Sprintf("INV-20260901-%04d", 1000+i),
			ClientName:    "Acme Corp",
			Amount:        100 + float64(i),
			Currency:      "EUR",
			Status:        core.InvoiceStatusPending,
		})
	}
	return batch
}

func TestRenderExportBatch_SinglePage(t *testing.T) {
	out, err := NewRenderer().RenderExportBatch(exportBatch(10))
	if err != nil {
		t.Fatalf("RenderExportBatch failed: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF")) {
		t.Fatal("Output does not start with a PDF header")
	}
	if got := pageCount(t, out); got != 1 {
		t.Errorf("10-row export spans %d pages, want 1", got)
	}
}

func TestRenderExportBatch_BreaksAcrossPages(t *testing.T) {
	out, err := NewRenderer().RenderExportBatch(exportBatch(120))
	if err != nil {
		t.Fatalf("RenderExportBatch failed: %v", err)
	}
	if got := pageCount(t, out); got < 2 {
		t.Errorf("120-row export spans %d pages, want at least 2", got)
	}
}

func TestRenderExportBatch_EmptyBatch(t *testing.T) {
	out, err := NewRenderer().RenderExportBatch(exportBatch(0))
	if err != nil {
		t.Fatalf("RenderExportBatch with no invoices failed: %v", err)
	}
	if got := pageCount(t, out); got != 1 {
		t.Errorf("Empty export spans %d pages, want 1 (header only)", got)
	}
}

func TestRenderInvoice(t *testing.T) {
	due := "2026-10-01"
	inv := &core.Invoice{
		ID:            7,
		InvoiceNumber: "INV-20260901-4242",
		ClientName:    "Acme Corp",
		Currency:      "USD",
		DueDate:       &due,
		Notes:         "Net 30",
		Subtotal:      200,
		TaxTotal:      40,
		Amount:        240,
		Items: []core.InvoiceItem{
			{Description: "Consulting", Quantity: 2, UnitPrice: 100, LineTotal: 240},
		},
	}

	out, err := NewRenderer().RenderInvoice(inv, "Test Company")
	if err != nil {
		t.Fatalf("RenderInvoice failed: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF")) {
		t.Fatal("Output does not start with a PDF header")
	}
	if got := pageCount(t, out); got != 1 {
		t.Errorf("Single invoice spans %d pages, want 1", got)
	}
}

func TestRenderPayrollRun(t *testing.T) {
	run := &core.PayrollRun{
		RunDate:   "2026-09-30",
		Frequency: "monthly",
		Currency:  "EUR",
		Items: []core.PayrollItem{
			{EmployeeName: "Jordan Reyes", Gross: 4200, Tax: 900, Deductions: 150, Net: 3150},
			{EmployeeName: "Sam Okafor", Gross: 5500, Tax: 1300, Net: 4200},
		},
		TotalGross: 9700, TotalTax: 2200, TotalDeductions: 150, TotalNet: 7350,
	}

	out, err := NewRenderer().RenderPayrollRun(run, "Test Company")
	if err != nil {
		t.Fatalf("RenderPayrollRun failed: %v", err)
	}
	if got := pageCount(t, out); got != 1 {
		t.Errorf("Two-line payroll run spans %d pages, want 1", got)
	}
}
