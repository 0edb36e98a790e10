package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CompanyInput carries the editable company settings.
type CompanyInput struct {
	Name         string `json:"name"`
	BaseCurrency string `json:"base_currency"`
}

type CompanyService interface {
	GetCompany(ctx context.Context, companyID int) (*Company, error)
	UpdateCompany(ctx context.Context, companyID int, input CompanyInput) (*Company, error)
}

type companyService struct {
	pool *pgxpool.Pool
}

func NewCompanyService(pool *pgxpool.Pool) CompanyService {
	return &companyService{pool: pool}
}

func (s *companyService) GetCompany(ctx context.Context, companyID int) (*Company, error) {
	var c Company
	err := s.pool.QueryRow(ctx, `
		SELECT id, name, base_currency, payroll_frequency, payroll_currency,
		       payroll_next_run_date::text, cash_balance, next_payroll_total,
		       next_payroll_date::text, created_at
		FROM companies
		WHERE id = $1
	`, companyID).Scan(
		&c.ID, &c.Name, &c.BaseCurrency, &c.PayrollFrequency, &c.PayrollCurrency,
		&c.PayrollNextRunDate, &c.CashBalance, &c.NextPayrollTotal, &c.NextPayrollDate,
		&c.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("company %d not found", companyID)
		}
		return nil, fmt.Errorf("failed to fetch company %d: %w", companyID, err)
	}
	return &c, nil
}

func (s *companyService) UpdateCompany(ctx context.Context, companyID int, input CompanyInput) (*Company, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, NewValidationError("company name is required")
	}
	currency := strings.ToUpper(strings.TrimSpace(input.BaseCurrency))
	if currency == "" {
		return nil, NewValidationError("base currency is required")
	}

	_, err := s.pool.Exec(ctx, `
		UPDATE companies
		SET name = $1, base_currency = $2
		WHERE id = $3
	`, name, currency, companyID)
	if err != nil {
		return nil, &PersistenceError{Op: "update company", Err: err}
	}
	return s.GetCompany(ctx, companyID)
}
