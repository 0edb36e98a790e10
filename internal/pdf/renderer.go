// Package pdf renders invoices, export batches and payroll runs as A4
// PDF documents. All three documents share one table geometry so the
// output stays visually consistent across surfaces.
package pdf

import (
	"bytes"
	"fmt"
	"math"
	"time"

	"github.com/jung-kurt/gofpdf"

	"lumix-backoffice/internal/core"
)

// Page geometry in points. A row that would land past breakY moves to a
// fresh page with the cursor reset to resetY.
const (
	pageMargin = 40.0
	rowHeight  = 16.0
	breakY     = 760.0
	resetY     = 50.0
)

// Table column x positions shared by every document.
const (
	colLeft   = 40.0
	colSecond = 130.0
	colAmount = 320.0
	colStatus = 410.0
	colRight  = 480.0

	amountWidth = 80.0
)

type Renderer struct{}

func NewRenderer() *Renderer {
	return &Renderer{}
}

// advanceRow moves the cursor past one row, reporting whether the next
// row needs a fresh page.
func advanceRow(y float64) (next float64, newPage bool) {
	y += rowHeight
	if y > breakY {
		return resetY, true
	}
	return y, false
}

// formatAmount renders a money value with the currency's symbol and two
// decimals. Non-finite values render as zero rather than "NaN".
func formatAmount(amount float64, currency string) string {
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

func formatDueDate(due *string) string {
	if due == nil || *due == "" {
		return "-"
	}
	if t, err := time.Parse("2006-01-02", *due); err == nil {
		return t.Format("Jan 2, 2006")
	}
	return *due
}

type document struct {
	pdf *gofpdf.Fpdf
	tr  func(string) string
	y   float64
}

func newDocument() *document {
	pdf := gofpdf.New("P", "pt", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	// Row placement is managed here; gofpdf must not break pages on its own.
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()
	return &document{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor(""), y: pageMargin}
}

func (d *document) title(text string) {
	d.pdf.SetFont("Helvetica", "B", 18)
	d.cell(colLeft, 400, text, "L")
	d.y += 24
}

func (d *document) metaLine(text string) {
	d.pdf.SetFont("Helvetica", "", 11)
	d.cell(colLeft, 400, text, "L")
	d.y += 14
}

func (d *document) cell(x, width float64, text, align string) {
	d.pdf.SetXY(x, d.y)
	d.pdf.CellFormat(width, rowHeight, d.tr(text), "", 0, align, false, 0, "")
}

func (d *document) nextRow() {
	next, newPage := advanceRow(d.y)
	if newPage {
		d.pdf.AddPage()
	}
	d.y = next
}

func (d *document) bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := d.pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// RenderInvoice produces the single-invoice document attached to the
// dispatch email.
func (r *Renderer) RenderInvoice(inv *core.Invoice, companyName string) ([]byte, error) {
	d := newDocument()

	d.title("Invoice " + inv.InvoiceNumber)
	d.metaLine("Company: " + companyName)
	d.metaLine("Client: " + inv.ClientName)
	d.metaLine("Due: " + formatDueDate(inv.DueDate))
	d.y += rowHeight

	d.pdf.SetFont("Helvetica", "B", 10)
	d.cell(colLeft, 180, "Description", "L")
	d.cell(colAmount, 50, "Qty", "R")
	d.cell(colStatus-30, 60, "Unit", "R")
	d.cell(colRight-30, 60, "Total", "R")
	d.y += 14

	d.pdf.SetFont("Helvetica", "", 10)
	for _, item := range inv.Items {
		d.cell(colLeft, 260, item.Description, "L")
		d.cell(colAmount, 50, fmt.Sprintf("%g", item.Quantity), "R")
		d.cell(colStatus-30, 60, formatAmount(item.UnitPrice, inv.Currency), "R")
		d.cell(colRight-30, 60, formatAmount(item.LineTotal, inv.Currency), "R")
		d.nextRow()
	}

	d.y += rowHeight
	for _, line := range []struct {
		label string
		value float64
	}{
		{"Subtotal", inv.Subtotal},
		{"Discount", inv.DiscountTotal},
		{"Tax", inv.TaxTotal},
		{"Total", inv.Amount},
	} {
		if line.label == "Total" {
			d.pdf.SetFont("Helvetica", "B", 10)
		}
		d.cell(colAmount, 80, line.label, "L")
		d.cell(colRight-30, 60, formatAmount(line.value, inv.Currency), "R")
		d.nextRow()
	}

	if inv.Notes != "" {
		d.y += rowHeight
		d.pdf.SetFont("Helvetica", "I", 10)
		d.cell(colLeft, 440, "Notes: "+inv.Notes, "L")
	}

	out, err := d.bytes()
	if err != nil {
		return nil, &core.RenderError{InvoiceID: inv.ID, Err: err}
	}
	return out, nil
}

// RenderExportBatch produces the multi-invoice listing downloaded from
// the invoices screen.
func (r *Renderer) RenderExportBatch(batch core.ExportBatch) ([]byte, error) {
	d := newDocument()

	d.title("Invoices export")
	d.metaLine("Company: " + batch.CompanyName)
	d.metaLine("Generated: " + batch.GeneratedAt.Format("Jan 2, 2006 3:04 PM"))
	d.y += rowHeight

	d.pdf.SetFont("Helvetica", "B", 10)
	d.cell(colLeft, 80, "Invoice", "L")
	d.cell(colSecond, 170, "Client", "L")
	d.cell(colAmount, amountWidth, "Amount", "R")
	d.cell(colStatus, 60, "Status", "L")
	d.cell(colRight, 80, "Due", "L")
	d.y += 14

	d.pdf.SetFont("Helvetica", "", 10)
	for _, inv := range batch.Invoices {
		currency := inv.Currency
		if currency == "" {
			currency = "EUR"
		}
		d.cell(colLeft, 80, inv.InvoiceNumber, "L")
		d.cell(colSecond, 170, inv.ClientName, "L")
		d.cell(colAmount, amountWidth, formatAmount(inv.Amount, currency), "R")
		d.cell(colStatus, 60, string(inv.Status), "L")
		d.cell(colRight, 80, formatDueDate(inv.DueDate), "L")
		d.nextRow()
	}

	out, err := d.bytes()
	if err != nil {
		return nil, &core.RenderError{Err: err}
	}
	return out, nil
}

// RenderPayrollRun produces the payslip summary for one payroll run.
func (r *Renderer) RenderPayrollRun(run *core.PayrollRun, companyName string) ([]byte, error) {
	d := newDocument()

	d.title("Payroll run " + run.RunDate)
	d.metaLine("Company: " + companyName)
	d.metaLine(fmt.Sprintf("Frequency: %s  Currency: %s", run.Frequency, run.Currency))
	d.y += rowHeight

	d.pdf.SetFont("Helvetica", "B", 10)
	d.cell(colLeft, 170, "Employee", "L")
	d.cell(colAmount-70, amountWidth, "Gross", "R")
	d.cell(colAmount+10, amountWidth, "Tax", "R")
	d.cell(colStatus, amountWidth-10, "Deductions", "R")
	d.cell(colRight, amountWidth-5, "Net", "R")
	d.y += 14

	d.pdf.SetFont("Helvetica", "", 10)
	for _, item := range run.Items {
		d.cell(colLeft, 170, item.EmployeeName, "L")
		d.cell(colAmount-70, amountWidth, formatAmount(item.Gross, run.Currency), "R")
		d.cell(colAmount+10, amountWidth, formatAmount(item.Tax, run.Currency), "R")
		d.cell(colStatus, amountWidth-10, formatAmount(item.Deductions, run.Currency), "R")
		d.cell(colRight, amountWidth-5, formatAmount(item.Net, run.Currency), "R")
		d.nextRow()
	}

	d.y += rowHeight
	d.pdf.SetFont("Helvetica", "B", 10)
	d.cell(colLeft, 170, "Totals", "L")
	d.cell(colAmount-70, amountWidth, formatAmount(run.TotalGross, run.Currency), "R")
	d.cell(colAmount+10, amountWidth, formatAmount(run.TotalTax, run.Currency), "R")
	d.cell(colStatus, amountWidth-10, formatAmount(run.TotalDeductions, run.Currency), "R")
	d.cell(colRight, amountWidth-5, formatAmount(run.TotalNet, run.Currency), "R")

	out, err := d.bytes()
	if err != nil {
		return nil, &core.RenderError{Err: err}
	}
	return out, nil
}
