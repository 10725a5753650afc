package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"invoice_back_end/internal/database"
	"invoice_back_end/internal/models"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type PaymentStore interface {
	RecordPayment(ctx context.Context, orderStatus string, payment *models.Payment) error
	GetPaymentByOrder(ctx context.Context, orderID int64) (*models.Payment, error)
}

// InvoiceDeliverer génère la facture d'une commande et l'envoie au client
type InvoiceDeliverer interface {
	DeliverInvoice(ctx context.Context, orderID int64) error
}

// PaymentView est ce que la page de paiement affiche
type PaymentView struct {
	OrderID     int64           `json:"orderId"`
	OrderNumber string          `json:"orderNumber"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	Status      string          `json:"status"`
}

type PaymentService struct {
	orders   OrderStore
	payments PaymentStore
	gateways *GatewayRegistry
	invoices InvoiceDeliverer
	audit    Auditor
	log      *logrus.Logger
	now      func() time.Time
}

func NewPaymentService(orders OrderStore, payments PaymentStore, gateways *GatewayRegistry, invoices InvoiceDeliverer, audit Auditor, log *logrus.Logger) *PaymentService {
	return &PaymentService{
		orders:   orders,
		payments: payments,
		gateways: gateways,
		invoices: invoices,
		audit:    audit,
		log:      log,
		now:      time.Now,
	}
}

func (s *PaymentService) PaymentView(ctx context.Context, orderID int64) (*PaymentView, error) {
	order, err := s.orders.GetOrder(ctx, orderID)
	if errors.Is(err, database.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &PaymentView{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		TotalAmount: order.TotalAmount,
		Status:      order.Status,
	}, nil
}

// Pay enregistre le paiement puis déclenche la facture et l'email, de manière synchrone.
// Un échec de facture ou d'email est renvoyé mais n'annule pas le paiement.
func (s *PaymentService) Pay(ctx context.Context, who models.Identity, orderID int64, method string) (*models.Payment, error) {
	if strings.TrimSpace(method) == "" {
		return nil, &ValidationError{Fields: map[string]string{"paymentMethod": "Payment method is required."}}
	}

	order, err := s.orders.GetOrder(ctx, orderID)
	if errors.Is(err, database.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lecture commande %d: %w", orderID, err)
	}

	outcome, err := s.gateways.Resolve(method).Charge(ctx, order, method)
	if err != nil {
		return nil, fmt.Errorf("passerelle de paiement: %w", err)
	}

	payment := &models.Payment{
		OrderID:       order.ID,
		AmountPaid:    order.TotalAmount,
		PaymentMethod: method,
		PaymentStatus: outcome.PaymentStatus,
		PaymentDate:   s.now().UTC(),
	}

	err = s.payments.RecordPayment(ctx, outcome.OrderStatus, payment)
	s.audit.Record(ctx, auditEntry(who, ActionPaymentProcess, ResourcePayment, strconv.FormatInt(order.ID, 10), err))
	switch {
	case errors.Is(err, database.ErrDuplicate):
		return nil, ErrAlreadyPaid
	case errors.Is(err, database.ErrNotFound):
		return nil, ErrNotFound
	case err != nil:
		return nil, fmt.Errorf("enregistrement paiement: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"order_id":       order.ID,
		"payment_method": method,
		"payment_status": payment.PaymentStatus,
		"order_status":   outcome.OrderStatus,
		"amount":         payment.AmountPaid.StringFixed(2),
	}).Info("💳 Paiement enregistré")

	if err := s.invoices.DeliverInvoice(ctx, order.ID); err != nil {
		return payment, fmt.Errorf("envoi facture commande %d: %w", order.ID, err)
	}
	return payment, nil
}
