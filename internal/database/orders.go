package database

import (
	"context"
	"database/sql"
	"fmt"

	"invoice_back_end/internal/models"

	"github.com/lib/pq"
)

const orderColumns = `id, customer_id, order_number, order_date, status, total_amount, created_date`

// CreateOrder persiste la commande et ses lignes dans une seule transaction
func (s *Store) CreateOrder(ctx context.Context, order *models.Order) error {
	return s.execTx(ctx, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx,
			`INSERT INTO orders (customer_id, order_number, order_date, status, total_amount, created_date)
			 VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
			order.CustomerID, order.OrderNumber, order.OrderDate, order.Status, order.TotalAmount, order.CreatedAt,
		).Scan(&order.ID)
		if err != nil {
			return fmt.Errorf("failed to create order: %w", translateErr(err))
		}

		for i := range order.Items {
			item := &order.Items[i]
			item.OrderID = order.ID
			err := tx.QueryRowContext(ctx,
				`INSERT INTO order_items (order_id, product_id, quantity, unit_price)
				 VALUES ($1, $2, $3, $4) RETURNING id`,
				item.OrderID, item.ProductID, item.Quantity, item.UnitPrice,
			).Scan(&item.ID)
			if err != nil {
				return fmt.Errorf("failed to insert item %d: %w", i, translateErr(err))
			}
		}
		return nil
	})
}

// GetOrder retourne la commande avec ses lignes et le nom des produits
func (s *Store) GetOrder(ctx context.Context, id int64) (*models.Order, error) {
	var o models.Order
	err := s.db.QueryRowContext(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id).
		Scan(&o.ID, &o.CustomerID, &o.OrderNumber, &o.OrderDate, &o.Status, &o.TotalAmount, &o.CreatedAt)
	if err != nil {
		return nil, translateErr(err)
	}

	items, err := s.itemsForOrders(ctx, []int64{o.ID})
	if err != nil {
		return nil, err
	}
	o.Items = items[o.ID]
	return &o, nil
}

func (s *Store) ListOrdersByCustomer(ctx context.Context, customerID int64) ([]models.Order, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE customer_id = $1 ORDER BY created_date DESC, id DESC`, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []models.Order
	var ids []int64
	for rows.Next() {
		var o models.Order
		if err := rows.Scan(&o.ID, &o.CustomerID, &o.OrderNumber, &o.OrderDate, &o.Status, &o.TotalAmount, &o.CreatedAt); err != nil {
			return nil, err
		}
		orders = append(orders, o)
		ids = append(ids, o.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return orders, nil
	}

	items, err := s.itemsForOrders(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		orders[i].Items = items[orders[i].ID]
	}
	return orders, nil
}

func (s *Store) itemsForOrders(ctx context.Context, orderIDs []int64) (map[int64][]models.OrderItem, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT oi.id, oi.order_id, oi.product_id, p.name, oi.quantity, oi.unit_price
		 FROM order_items oi JOIN products p ON p.id = oi.product_id
		 WHERE oi.order_id = ANY($1) ORDER BY oi.id`, pq.Array(orderIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make(map[int64][]models.OrderItem, len(orderIDs))
	for rows.Next() {
		var it models.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.ProductName, &it.Quantity, &it.UnitPrice); err != nil {
			return nil, err
		}
		items[it.OrderID] = append(items[it.OrderID], it)
	}
	return items, rows.Err()
}
