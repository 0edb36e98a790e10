package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewPayrollRun is a validated, computed run ready for persistence.
type NewPayrollRun struct {
	RunDate   string
	Frequency string
	Currency  string
	Items     []PayrollItem
	Totals    PayrollTotals
}

// PayrollService persists payroll runs and the company payroll
// settings.
type PayrollService interface {
	// CreateRun writes the run and all items in one transaction: a
	// failed item insert rolls the run back, never leaving an orphaned
	// run record.
	CreateRun(ctx context.Context, companyID int, run NewPayrollRun) (*PayrollRun, error)
	GetRun(ctx context.Context, companyID, runID int) (*PayrollRun, error)
	ListRuns(ctx context.Context, companyID, limit int) ([]PayrollRun, error)
	GetSettings(ctx context.Context, companyID int) (*PayrollSettings, error)
	UpdateSettings(ctx context.Context, companyID int, settings PayrollSettings) (*PayrollSettings, error)
}

type payrollService struct {
	pool *pgxpool.Pool
}

func NewPayrollService(pool *pgxpool.Pool) PayrollService {
	return &payrollService{pool: pool}
}

func (s *payrollService) CreateRun(ctx context.Context, companyID int, run NewPayrollRun) (*PayrollRun, error) {
	if len(run.Items) == 0 {
		return nil, NewValidationError("payroll run must include at least one employee")
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, &PersistenceError{Op: "create payroll run", Err: err}
	}
	defer tx.Rollback(ctx)

	// Every item must reference an employee of this company.
	for i, item := range run.Items {
		var exists bool
		err := tx.QueryRow(ctx,
			"SELECT EXISTS (SELECT 1 FROM employees WHERE id = $1 AND company_id = $2)",
			item.EmployeeID, companyID,
		).Scan(&exists)
		if err != nil {
			return nil, &PersistenceError{Op: "verify payroll employee", Err: err}
		}
		if !exists {
			return nil, NewValidationError("invalid payroll item data", fmt.Sprintf("items[%d].employeeId", i))
		}
	}

	var runID int
	err = tx.QueryRow(ctx, `
		INSERT INTO payroll_runs (company_id, run_date, frequency, currency, status,
		                          total_gross, total_tax, total_deductions, total_net)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`, companyID, run.RunDate, run.Frequency, run.Currency, string(PayrollRunStatusDraft),
		run.Totals.Gross, run.Totals.Tax, run.Totals.Deductions, run.Totals.Net).Scan(&runID)
	if err != nil {
		return nil, &PersistenceError{Op: "insert payroll run", Err: err}
	}

	for i, item := range run.Items {
		_, err = tx.Exec(ctx, `
			INSERT INTO payroll_items (payroll_run_id, employee_id, gross, tax, deductions, net)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, runID, item.EmployeeID, item.Gross, item.Tax, item.Deductions, item.Net)
		if err != nil {
			return nil, &PersistenceError{Op: fmt.Sprintf("insert payroll item %d", i+1), Err: err}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, &PersistenceError{Op: "commit payroll run", Err: err}
	}
	return s.GetRun(ctx, companyID, runID)
}

func (s *payrollService) GetRun(ctx context.Context, companyID, runID int) (*PayrollRun, error) {
	var run PayrollRun
	err := s.pool.QueryRow(ctx, `
		SELECT id, company_id, run_date::text, frequency, currency, status,
		       total_gross, total_tax, total_deductions, total_net, created_at
		FROM payroll_runs
		WHERE id = $1 AND company_id = $2
	`, runID, companyID).Scan(
		&run.ID, &run.CompanyID, &run.RunDate, &run.Frequency, &run.Currency, &run.Status,
		&run.TotalGross, &run.TotalTax, &run.TotalDeductions, &run.TotalNet, &run.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("payroll run %d not found", runID)
		}
		return nil, fmt.Errorf("failed to fetch payroll run %d: %w", runID, err)
	}

	rows, err := s.pool.Query(ctx, `
		SELECT pi.id, pi.payroll_run_id, pi.employee_id, e.full_name,
		       pi.gross, pi.tax, pi.deductions, pi.net
		FROM payroll_items pi
		JOIN employees e ON e.id = pi.employee_id
		WHERE pi.payroll_run_id = $1
		ORDER BY pi.id
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query payroll items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item PayrollItem
		if err := rows.Scan(&item.ID, &item.PayrollRunID, &item.EmployeeID, &item.EmployeeName,
			&item.Gross, &item.Tax, &item.Deductions, &item.Net); err != nil {
			return nil, fmt.Errorf("failed to scan payroll item: %w", err)
		}
		run.Items = append(run.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("payroll item row iteration error: %w", err)
	}
	return &run, nil
}

func (s *payrollService) ListRuns(ctx context.Context, companyID, limit int) ([]PayrollRun, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.pool.Query(ctx, `
		SELECT id, company_id, run_date::text, frequency, currency, status,
		       total_gross, total_tax, total_deductions, total_net, created_at
		FROM payroll_runs
		WHERE company_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, companyID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query payroll runs: %w", err)
	}
	defer rows.Close()

	var runs []PayrollRun
	for rows.Next() {
		var run PayrollRun
		if err := rows.Scan(&run.ID, &run.CompanyID, &run.RunDate, &run.Frequency, &run.Currency,
			&run.Status, &run.TotalGross, &run.TotalTax, &run.TotalDeductions, &run.TotalNet,
			&run.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan payroll run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("payroll run row iteration error: %w", err)
	}
	return runs, nil
}

func (s *payrollService) GetSettings(ctx context.Context, companyID int) (*PayrollSettings, error) {
	var settings PayrollSettings
	err := s.pool.QueryRow(ctx, `
		SELECT payroll_frequency, payroll_currency, payroll_next_run_date::text
		FROM companies
		WHERE id = $1
	`, companyID).Scan(&settings.Frequency, &settings.Currency, &settings.NextRunDate)
	if err != nil {
		return nil, fmt.Errorf("failed to load payroll settings: %w", err)
	}
	return &settings, nil
}

func (s *payrollService) UpdateSettings(ctx context.Context, companyID int, settings PayrollSettings) (*PayrollSettings, error) {
	if settings.Frequency == "" || settings.Currency == "" {
		return nil, NewValidationError("missing payroll settings")
	}
	var updated PayrollSettings
	err := s.pool.QueryRow(ctx, `
		UPDATE companies
		SET payroll_frequency = $1, payroll_currency = $2, payroll_next_run_date = $3
		WHERE id = $4
		RETURNING payroll_frequency, payroll_currency, payroll_next_run_date::text
	`, settings.Frequency, settings.Currency, settings.NextRunDate, companyID).Scan(
		&updated.Frequency, &updated.Currency, &updated.NextRunDate,
	)
	if err != nil {
		return nil, &PersistenceError{Op: "update payroll settings", Err: err}
	}
	return &updated, nil
}
