package database

import (
	"context"
	"fmt"

	"invoice_back_end/internal/models"
	"invoice_back_end/internal/utils"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS customers (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		phone TEXT NOT NULL DEFAULT '',
		billing_address TEXT NOT NULL DEFAULT '',
		role TEXT NOT NULL DEFAULT 'customer',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS products (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		category TEXT NOT NULL,
		description TEXT NOT NULL,
		unit_price NUMERIC(18,2) NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		id BIGSERIAL PRIMARY KEY,
		customer_id BIGINT NOT NULL REFERENCES customers(id),
		order_number TEXT NOT NULL,
		order_date TIMESTAMPTZ NOT NULL,
		status TEXT NOT NULL,
		total_amount NUMERIC(18,2) NOT NULL,
		created_date TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS orders_customer_idx ON orders (customer_id)`,
	`CREATE TABLE IF NOT EXISTS order_items (
		id BIGSERIAL PRIMARY KEY,
		order_id BIGINT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
		product_id BIGINT NOT NULL REFERENCES products(id),
		quantity INT NOT NULL CHECK (quantity > 0),
		unit_price NUMERIC(18,2) NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS payments (
		id BIGSERIAL PRIMARY KEY,
		order_id BIGINT NOT NULL UNIQUE REFERENCES orders(id) ON DELETE CASCADE,
		amount_paid NUMERIC(18,2) NOT NULL,
		payment_method TEXT NOT NULL,
		payment_status TEXT NOT NULL,
		payment_date TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS templates (
		id BIGSERIAL PRIMARY KEY,
		name VARCHAR(200) NOT NULL,
		html_content TEXT NOT NULL,
		template_type INT NOT NULL CHECK (template_type BETWEEN 1 AND 7),
		created_date TIMESTAMPTZ NOT NULL,
		created_by TEXT NOT NULL,
		update_date TIMESTAMPTZ,
		update_by TEXT
	)`,
}

// Migrate crée les tables si elles n'existent pas
func (s *Store) Migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration: %w", err)
		}
	}
	return nil
}

type seedCustomer struct {
	models.Customer
	Password string
}

var seedCustomers = []seedCustomer{
	{Customer: models.Customer{Name: "Teboho Mokgosi", Email: "mokgositeboho77@gmail.com", Phone: "1234567890", BillingAddress: "123 Main Str", Role: models.RoleCustomer}, Password: "Password123"},
	{Customer: models.Customer{Name: "John Doe", Email: "johndoe@gmail.com", Phone: "0987654321", BillingAddress: "456 Park West", Role: models.RoleCustomer}, Password: "Password123"},
	{Customer: models.Customer{Name: "Admin", Email: "admin@example.com", Phone: "1112223333", BillingAddress: "Admin HQ", Role: models.RoleAdmin}, Password: "admin"},
}

// SeedProducts est le catalogue fixe, inséré une seule fois
var SeedProducts = []models.Product{
	{Name: "Apple iPhone 16", Category: "Smartphones", Description: "The latest Apple iPhone featuring the A18 Bionic chip, 5G connectivity, and an advanced dual-camera system.", UnitPrice: decimal.RequireFromString("18499.99")},
	{Name: "Samsung Galaxy S25", Category: "Smartphones", Description: "A high-end smartphone with a 6.3-inch display, Snapdragon Elite processor, and a versatile triple-camera setup.", UnitPrice: decimal.RequireFromString("15699.00")},
	{Name: "Sony WH-1000XM4 Headphones", Category: "Audio", Description: "Industry-leading noise-canceling headphones with superior sound quality and long battery life.", UnitPrice: decimal.RequireFromString("1349.99")},
	{Name: "Dell XPS 13 Laptop", Category: "Computers", Description: "A sleek and powerful ultrabook featuring a 13.4-inch display, Intel Core i7 processor, and fast SSD storage.", UnitPrice: decimal.RequireFromString("18999.99")},
	{Name: "Xbox Series S 512 GB", Category: "Video Game Consoles", Description: "a digital-focused, next-generation gaming console known for its compact size, delivering high-speed performance with a custom SSD and competitive price point.", UnitPrice: decimal.RequireFromString("7999.99")},
}

// Seed insère clients, produits et modèles de facture par défaut dans les tables vides
func (s *Store) Seed(ctx context.Context, log *logrus.Logger) error {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM customers`).Scan(&count); err != nil {
		return err
	}
	if count == 0 {
		for _, sc := range seedCustomers {
			hash, err := utils.HashPassword(sc.Password)
			if err != nil {
				return err
			}
			c := sc.Customer
			c.PasswordHash = hash
			if err := s.CreateCustomer(ctx, &c); err != nil {
				return fmt.Errorf("seed client %s: %w", c.Email, err)
			}
		}
		log.WithField("count", len(seedCustomers)).Info("🌱 Clients initialisés")
	}

	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`).Scan(&count); err != nil {
		return err
	}
	if count == 0 {
		for _, p := range SeedProducts {
			if _, err := s.db.ExecContext(ctx,
				`INSERT INTO products (name, category, description, unit_price) VALUES ($1, $2, $3, $4)`,
				p.Name, p.Category, p.Description, p.UnitPrice); err != nil {
				return fmt.Errorf("seed produit %s: %w", p.Name, err)
			}
		}
		log.WithField("count", len(SeedProducts)).Info("🌱 Catalogue initialisé")
	}

	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM templates`).Scan(&count); err != nil {
		return err
	}
	if count == 0 {
		for _, t := range DefaultTemplates() {
			tmpl := t
			if err := s.CreateTemplate(ctx, &tmpl); err != nil {
				return fmt.Errorf("seed modèle %s: %w", t.Name, err)
			}
		}
		log.Info("🌱 Modèles de facture par défaut créés")
	}
	return nil
}
