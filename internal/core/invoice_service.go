package core

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// numberingAttempts bounds the retry-on-conflict loop for invoice
// numbers. Each attempt uses a fresh random suffix.
const numberingAttempts = 3

// NewInvoice is a fully computed invoice ready for persistence.
// Callers obtain Lines and Totals from ComputeInvoice first.
type NewInvoice struct {
	ClientName  string
	ClientEmail string
	Currency    string
	DueDate     *string
	Notes       string
	Lines       []LineBreakdown
	Totals      InvoiceTotals
}

// InvoiceService persists invoices and serves company-scoped reads.
type InvoiceService interface {
	// CreateInvoice writes the header and all line items in one
	// transaction and assigns an invoice number, retrying with a new
	// random suffix if the number collides with an existing one.
	CreateInvoice(ctx context.Context, companyID int, inv NewInvoice) (*Invoice, error)
	GetInvoice(ctx context.Context, companyID, invoiceID int) (*Invoice, error)
	// ListInvoices returns summaries newest-first. ids narrows the
	// result to the given invoice ids; pass nil for all invoices.
	ListInvoices(ctx context.Context, companyID int, ids []int) ([]InvoiceSummary, error)
}

type invoiceService struct {
	pool *pgxpool.Pool

	mu  sync.Mutex
	rng *rand.Rand
}

func NewInvoiceService(pool *pgxpool.Pool) InvoiceService {
	return &invoiceService{
		pool: pool,
		rng:  rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (s *invoiceService) nextNumber(now time.Time) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return NewInvoiceNumber(now, s.rng)
}

func (s *invoiceService) CreateInvoice(ctx context.Context, companyID int, inv NewInvoice) (*Invoice, error) {
	if len(inv.Lines) == 0 {
		return nil, NewValidationError("invoice must have at least one line item")
	}

	var lastErr error
	for attempt := 0; attempt < numberingAttempts; attempt++ {
		number := s.nextNumber(time.Now())
		invoiceID, err := s.insertInvoice(ctx, companyID, number, inv)
		if err != nil {
			if isUniqueViolation(err) {
				lastErr = err
				continue
			}
			return nil, &PersistenceError{Op: "create invoice", Err: err}
		}
		return s.GetInvoice(ctx, companyID, invoiceID)
	}
	return nil, &PersistenceError{
		Op:  "create invoice",
		Err: fmt.Errorf("invoice number collision persisted after %d attempts: %w", numberingAttempts, lastErr),
	}
}

// insertInvoice writes header + items atomically. A failure anywhere
// rolls back the whole invoice — no headless headers are left behind.
func (s *invoiceService) insertInvoice(ctx context.Context, companyID int, number string, inv NewInvoice) (int, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var invoiceID int
	err = tx.QueryRow(ctx, `
		INSERT INTO invoices (company_id, invoice_number, client_name, client_email, currency,
		                      due_date, notes, subtotal, discount_total, tax_total, amount, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id
	`, companyID, number, inv.ClientName, inv.ClientEmail, inv.Currency,
		inv.DueDate, inv.Notes, inv.Totals.Subtotal, inv.Totals.DiscountTotal,
		inv.Totals.TaxTotal, inv.Totals.Total, string(InvoiceStatusPending)).Scan(&invoiceID)
	if err != nil {
		return 0, fmt.Errorf("failed to insert invoice header: %w", err)
	}

	for i, line := range inv.Lines {
		_, err = tx.Exec(ctx, `
			INSERT INTO invoice_items (invoice_id, line_number, description, quantity, unit_price,
			                           tax_rate, discount_rate, line_total)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, invoiceID, i+1, line.Description, line.Quantity, line.UnitPrice,
			line.TaxRate, line.DiscountRate, line.Total)
		if err != nil {
			return 0, fmt.Errorf("failed to insert invoice item %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit invoice creation: %w", err)
	}
	return invoiceID, nil
}

func (s *invoiceService) GetInvoice(ctx context.Context, companyID, invoiceID int) (*Invoice, error) {
	var inv Invoice
	err := s.pool.QueryRow(ctx, `
		SELECT id, company_id, invoice_number, client_name, client_email, currency,
		       due_date::text, COALESCE(notes, ''), subtotal, discount_total, tax_total,
		       amount, status, created_at
		FROM invoices
		WHERE id = $1 AND company_id = $2
	`, invoiceID, companyID).Scan(
		&inv.ID, &inv.CompanyID, &inv.InvoiceNumber, &inv.ClientName, &inv.ClientEmail,
		&inv.Currency, &inv.DueDate, &inv.Notes, &inv.Subtotal, &inv.DiscountTotal,
		&inv.TaxTotal, &inv.Amount, &inv.Status, &inv.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("invoice %d not found", invoiceID)
		}
		return nil, fmt.Errorf("failed to fetch invoice %d: %w", invoiceID, err)
	}

	rows, err := s.pool.Query(ctx, `
		SELECT id, invoice_id, description, quantity, unit_price, tax_rate, discount_rate, line_total
		FROM invoice_items
		WHERE invoice_id = $1
		ORDER BY line_number
	`, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to query invoice items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item InvoiceItem
		if err := rows.Scan(&item.ID, &item.InvoiceID, &item.Description, &item.Quantity,
			&item.UnitPrice, &item.TaxRate, &item.DiscountRate, &item.LineTotal); err != nil {
			return nil, fmt.Errorf("failed to scan invoice item: %w", err)
		}
		inv.Items = append(inv.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("invoice item row iteration error: %w", err)
	}
	return &inv, nil
}

func (s *invoiceService) ListInvoices(ctx context.Context, companyID int, ids []int) ([]InvoiceSummary, error) {
	query := `
		SELECT id, invoice_number, client_name, amount, currency, status, due_date::text, created_at
		FROM invoices
		WHERE company_id = $1
	`
	args := []any{companyID}
	if len(ids) > 0 {
		query += " AND id = ANY($2)"
		args = append(args, ids)
	}
	query += " ORDER BY created_at DESC"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query invoices: %w", err)
	}
	defer rows.Close()

	var summaries []InvoiceSummary
	for rows.Next() {
		var sum InvoiceSummary
		if err := rows.Scan(&sum.ID, &sum.InvoiceNumber, &sum.ClientName, &sum.Amount,
			&sum.Currency, &sum.Status, &sum.DueDate, &sum.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan invoice summary: %w", err)
		}
		summaries = append(summaries, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("invoice summary row iteration error: %w", err)
	}
	return summaries, nil
}

// isUniqueViolation reports whether err is a PostgreSQL unique
// constraint violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
