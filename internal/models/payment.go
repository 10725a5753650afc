package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	PaymentStatusSuccess = "Success"
	PaymentStatusFailed  = "Failed"
	PaymentStatusPending = "Pending"
)

type Payment struct {
	ID            int64           `json:"id"`
	OrderID       int64           `json:"orderId"`
	AmountPaid    decimal.Decimal `json:"amountPaid"`
	PaymentMethod string          `json:"paymentMethod"`
	PaymentStatus string          `json:"paymentStatus"`
	PaymentDate   time.Time       `json:"paymentDate"`
}
