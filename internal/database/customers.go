package database

import (
	"context"
	"strings"

	"invoice_back_end/internal/models"
)

const customerColumns = `id, name, email, password_hash, phone, billing_address, role, created_at`

func (s *Store) CreateCustomer(ctx context.Context, c *models.Customer) error {
	if c.Role == "" {
		c.Role = models.RoleCustomer
	}
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO customers (name, email, password_hash, phone, billing_address, role)
		 VALUES ($1, $2, $3, $4, $5, $6) RETURNING id, created_at`,
		c.Name, strings.ToLower(c.Email), c.PasswordHash, c.Phone, c.BillingAddress, c.Role,
	).Scan(&c.ID, &c.CreatedAt)
	return translateErr(err)
}

func (s *Store) GetCustomerByEmail(ctx context.Context, email string) (*models.Customer, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+customerColumns+` FROM customers WHERE email = $1`, strings.ToLower(email))
	return scanCustomer(row)
}

func (s *Store) GetCustomer(ctx context.Context, id int64) (*models.Customer, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+customerColumns+` FROM customers WHERE id = $1`, id)
	return scanCustomer(row)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCustomer(row rowScanner) (*models.Customer, error) {
	var c models.Customer
	if err := row.Scan(&c.ID, &c.Name, &c.Email, &c.PasswordHash, &c.Phone, &c.BillingAddress, &c.Role, &c.CreatedAt); err != nil {
		return nil, translateErr(err)
	}
	return &c, nil
}
