package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// EmployeeInput carries caller-supplied employee fields. Role must be
// "Admin" or "Employee"; blank role and status get defaults.
type EmployeeInput struct {
	FullName   string  `json:"full_name"`
	Team       string  `json:"team"`
	Role       string  `json:"role"`
	HourlyRate float64 `json:"hourly_rate"`
	Status     string  `json:"status"`
}

func (in *EmployeeInput) normalize() error {
	in.FullName = strings.TrimSpace(in.FullName)
	if in.FullName == "" {
		return NewValidationError("employee name is required")
	}
	in.Team = strings.TrimSpace(in.Team)
	in.Role = strings.TrimSpace(in.Role)
	if in.Role == "" {
		in.Role = "Employee"
	}
	if in.Role != "Admin" && in.Role != "Employee" {
		return NewValidationError("role must be Admin or Employee")
	}
	in.Status = strings.TrimSpace(in.Status)
	if in.Status == "" {
		in.Status = "active"
	}
	return nil
}

type EmployeeService interface {
	CreateEmployee(ctx context.Context, companyID int, input EmployeeInput) (*Employee, error)
	UpdateEmployee(ctx context.Context, companyID, employeeID int, input EmployeeInput) (*Employee, error)
	DeleteEmployee(ctx context.Context, companyID, employeeID int) error
	GetEmployees(ctx context.Context, companyID int) ([]Employee, error)
}

type employeeService struct {
	pool *pgxpool.Pool
}

func NewEmployeeService(pool *pgxpool.Pool) EmployeeService {
	return &employeeService{pool: pool}
}

func (s *employeeService) CreateEmployee(ctx context.Context, companyID int, input EmployeeInput) (*Employee, error) {
	if err := input.normalize(); err != nil {
		return nil, err
	}

	var e Employee
	err := s.pool.QueryRow(ctx, `
		INSERT INTO employees (company_id, full_name, team, role, hourly_rate, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, company_id, full_name, COALESCE(team, ''), role, hourly_rate, status, created_at
	`, companyID, input.FullName, input.Team, input.Role, input.HourlyRate, input.Status).Scan(
		&e.ID, &e.CompanyID, &e.FullName, &e.Team, &e.Role, &e.HourlyRate, &e.Status, &e.CreatedAt,
	)
	if err != nil {
		return nil, &PersistenceError{Op: "create employee", Err: err}
	}
	return &e, nil
}

func (s *employeeService) UpdateEmployee(ctx context.Context, companyID, employeeID int, input EmployeeInput) (*Employee, error) {
	if err := input.normalize(); err != nil {
		return nil, err
	}

	var e Employee
	err := s.pool.QueryRow(ctx, `
		UPDATE employees
		SET full_name = $1, team = $2, role = $3, hourly_rate = $4, status = $5
		WHERE id = $6 AND company_id = $7
		RETURNING id, company_id, full_name, COALESCE(team, ''), role, hourly_rate, status, created_at
	`, input.FullName, input.Team, input.Role, input.HourlyRate, input.Status,
		employeeID, companyID).Scan(
		&e.ID, &e.CompanyID, &e.FullName, &e.Team, &e.Role, &e.HourlyRate, &e.Status, &e.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("employee %d not found", employeeID)
		}
		return nil, &PersistenceError{Op: "update employee", Err: err}
	}
	return &e, nil
}

func (s *employeeService) DeleteEmployee(ctx context.Context, companyID, employeeID int) error {
	tag, err := s.pool.Exec(ctx,
		"DELETE FROM employees WHERE id = $1 AND company_id = $2",
		employeeID, companyID,
	)
	if err != nil {
		return &PersistenceError{Op: "delete employee", Err: err}
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("employee %d not found", employeeID)
	}
	return nil
}

func (s *employeeService) GetEmployees(ctx context.Context, companyID int) ([]Employee, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, company_id, full_name, COALESCE(team, ''), role, hourly_rate, status, created_at
		FROM employees
		WHERE company_id = $1
		ORDER BY full_name
	`, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query employees: %w", err)
	}
	defer rows.Close()

	var employees []Employee
	for rows.Next() {
		var e Employee
		if err := rows.Scan(&e.ID, &e.CompanyID, &e.FullName, &e.Team, &e.Role,
			&e.HourlyRate, &e.Status, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("employee row iteration error: %w", err)
	}
	return employees, nil
}
