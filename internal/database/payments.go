package database

import (
	"context"
	"database/sql"
	"fmt"

	"invoice_back_end/internal/models"
)

// RecordPayment met à jour le statut de la commande et insère le paiement dans la même transaction
func (s *Store) RecordPayment(ctx context.Context, orderStatus string, payment *models.Payment) error {
	return s.execTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `UPDATE orders SET status = $1 WHERE id = $2`, orderStatus, payment.OrderID)
		if err != nil {
			return fmt.Errorf("failed to update order status: %w", err)
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return ErrNotFound
		}

		err = tx.QueryRowContext(ctx,
			`INSERT INTO payments (order_id, amount_paid, payment_method, payment_status, payment_date)
			 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
			payment.OrderID, payment.AmountPaid, payment.PaymentMethod, payment.PaymentStatus, payment.PaymentDate,
		).Scan(&payment.ID)
		if err != nil {
			return fmt.Errorf("failed to insert payment: %w", translateErr(err))
		}
		return nil
	})
}

func (s *Store) GetPaymentByOrder(ctx context.Context, orderID int64) (*models.Payment, error) {
	var p models.Payment
	err := s.db.QueryRowContext(ctx,
		`SELECT id, order_id, amount_paid, payment_method, payment_status, payment_date
		 FROM payments WHERE order_id = $1`, orderID,
	).Scan(&p.ID, &p.OrderID, &p.AmountPaid, &p.PaymentMethod, &p.PaymentStatus, &p.PaymentDate)
	if err != nil {
		return nil, translateErr(err)
	}
	return &p, nil
}
