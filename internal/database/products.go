package database

import (
	"context"

	"invoice_back_end/internal/models"
)

func (s *Store) ListProducts(ctx context.Context) ([]models.Product, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, category, description, unit_price FROM products ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		var p models.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Category, &p.Description, &p.UnitPrice); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (s *Store) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	var p models.Product
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, category, description, unit_price FROM products WHERE id = $1`, id,
	).Scan(&p.ID, &p.Name, &p.Category, &p.Description, &p.UnitPrice)
	if err != nil {
		return nil, translateErr(err)
	}
	return &p, nil
}
