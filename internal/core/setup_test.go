package core_test

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

// setupTestDB connects to the dedicated test database, truncates every
// table and seeds one company with two users, one client and two
// employees. Sequences restart, so seeded ids are deterministic:
// company 1, users 1 (admin) and 2 (viewer), client 1, employees 1-2.
func setupTestDB(t *testing.T) *pgxpool.Pool {
	_ = godotenv.Load("../../.env")

	// Use a dedicated TEST database to avoid wiping the live app database.
	// Set TEST_DATABASE_URL in your .env or environment to run integration tests.
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set — skipping integration test to protect live database")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("Failed to hash seed password: %v", err)
	}

	_, err = pool.Exec(ctx, `
		TRUNCATE TABLE time_breaks, time_entries, payroll_items, payroll_runs,
			invoice_items, invoices, employees, clients, users, companies
			RESTART IDENTITY CASCADE;

		INSERT INTO companies (name, base_currency, payroll_frequency, payroll_currency, cash_balance, next_payroll_total)
		VALUES ('Test Company', 'USD', 'monthly', 'USD', 120000, 0);

		INSERT INTO clients (company_id, name, email) VALUES
		(1, 'Acme Corp', 'billing@acme.test');

		INSERT INTO employees (company_id, full_name, team, role, hourly_rate, status) VALUES
		(1, 'Jordan Reyes', 'Engineering', 'Employee', 42, 'active'),
		(1, 'Sam Okafor', 'Finance', 'Admin', 55, 'active');
	`)
	if err != nil {
		t.Fatalf("Failed to seed test database: %v", err)
	}

	_, err = pool.Exec(ctx, `
		INSERT INTO users (company_id, username, email, full_name, password_hash, role, is_active) VALUES
		(1, 'admin', 'admin@test.local', 'Avery Admin', $1, 'admin', true),
		(1, 'viewer', 'viewer@test.local', 'Val Viewer', $1, 'viewer', true)
	`, string(hash))
	if err != nil {
		t.Fatalf("Failed to seed test users: %v", err)
	}

	return pool
}
