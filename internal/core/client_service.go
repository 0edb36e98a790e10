package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ClientInput carries caller-supplied client fields.
type ClientInput struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type ClientService interface {
	CreateClient(ctx context.Context, companyID int, input ClientInput) (*Client, error)
	UpdateClient(ctx context.Context, companyID, clientID int, input ClientInput) (*Client, error)
	GetClients(ctx context.Context, companyID int) ([]Client, error)
}

type clientService struct {
	pool *pgxpool.Pool
}

func NewClientService(pool *pgxpool.Pool) ClientService {
	return &clientService{pool: pool}
}

func (s *clientService) CreateClient(ctx context.Context, companyID int, input ClientInput) (*Client, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, NewValidationError("client name is required")
	}

	var c Client
	err := s.pool.QueryRow(ctx, `
		INSERT INTO clients (company_id, name, email)
		VALUES ($1, $2, $3)
		RETURNING id, company_id, name, COALESCE(email, ''), created_at
	`, companyID, name, strings.TrimSpace(input.Email)).Scan(
		&c.ID, &c.CompanyID, &c.Name, &c.Email, &c.CreatedAt,
	)
	if err != nil {
		return nil, &PersistenceError{Op: "create client", Err: err}
	}
	return &c, nil
}

func (s *clientService) UpdateClient(ctx context.Context, companyID, clientID int, input ClientInput) (*Client, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, NewValidationError("client name is required")
	}

	var c Client
	err := s.pool.QueryRow(ctx, `
		UPDATE clients
		SET name = $1, email = $2
		WHERE id = $3 AND company_id = $4
		RETURNING id, company_id, name, COALESCE(email, ''), created_at
	`, name, strings.TrimSpace(input.Email), clientID, companyID).Scan(
		&c.ID, &c.CompanyID, &c.Name, &c.Email, &c.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("client %d not found", clientID)
		}
		return nil, &PersistenceError{Op: "update client", Err: err}
	}
	return &c, nil
}

func (s *clientService) GetClients(ctx context.Context, companyID int) ([]Client, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, company_id, name, COALESCE(email, ''), created_at
		FROM clients
		WHERE company_id = $1
		ORDER BY name
	`, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query clients: %w", err)
	}
	defer rows.Close()

	var clients []Client
	for rows.Next() {
		var c Client
		if err := rows.Scan(&c.ID, &c.CompanyID, &c.Name, &c.Email, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan client: %w", err)
		}
		clients = append(clients, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("client row iteration error: %w", err)
	}
	return clients, nil
}
