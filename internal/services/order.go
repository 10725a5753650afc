package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"invoice_back_end/internal/database"
	"invoice_back_end/internal/models"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type OrderStore interface {
	CreateOrder(ctx context.Context, order *models.Order) error
	GetOrder(ctx context.Context, id int64) (*models.Order, error)
	ListOrdersByCustomer(ctx context.Context, customerID int64) ([]models.Order, error)
}

// LineRequest est une ligne soumise par le client (produit, quantité)
type LineRequest struct {
	ProductID int64
	Quantity  int
}

type OrderService struct {
	orders   OrderStore
	products ProductStore
	audit    Auditor
	log      *logrus.Logger
	now      func() time.Time
}

func NewOrderService(orders OrderStore, products ProductStore, audit Auditor, log *logrus.Logger) *OrderService {
	return &OrderService{orders: orders, products: products, audit: audit, log: log, now: time.Now}
}

// CreateOrder crée une commande "Pending" à partir des prix actuels du catalogue.
// Les lignes de quantité <= 0 ou de produit inconnu sont ignorées.
func (s *OrderService) CreateOrder(ctx context.Context, who models.Identity, lines []LineRequest) (*models.Order, error) {
	if who.IsZero() {
		return nil, ErrForbidden
	}
	if len(lines) == 0 {
		return nil, ErrEmptyOrder
	}

	now := s.now().UTC()
	order := &models.Order{
		CustomerID:  who.CustomerID,
		OrderNumber: fmt.Sprintf("ORD-%d", now.UnixNano()),
		OrderDate:   now,
		Status:      models.OrderStatusPending,
		CreatedAt:   now,
		TotalAmount: decimal.Zero,
		Items:       make([]models.OrderItem, 0, len(lines)),
	}

	for _, line := range lines {
		if line.Quantity <= 0 {
			continue
		}
		product, err := s.products.GetProduct(ctx, line.ProductID)
		if err != nil {
			if errors.Is(err, database.ErrNotFound) {
				s.log.WithField("product_id", line.ProductID).Debug("ℹ️ Produit inconnu ignoré")
				continue
			}
			return nil, fmt.Errorf("lecture produit %d: %w", line.ProductID, err)
		}

		item := models.OrderItem{
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    line.Quantity,
			UnitPrice:   product.UnitPrice,
		}
		order.TotalAmount = order.TotalAmount.Add(item.Total())
		order.Items = append(order.Items, item)
	}

	err := s.orders.CreateOrder(ctx, order)
	s.audit.Record(ctx, auditEntry(who, ActionOrderCreate, ResourceOrder, strconv.FormatInt(order.ID, 10), err))
	if err != nil {
		return nil, fmt.Errorf("enregistrement commande: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"order_id":     order.ID,
		"order_number": order.OrderNumber,
		"customer_id":  order.CustomerID,
		"total_amount": order.TotalAmount.StringFixed(2),
		"items_count":  len(order.Items),
	}).Info("🛒 Commande créée")
	return order, nil
}

func (s *OrderService) ListOrders(ctx context.Context, who models.Identity) ([]models.Order, error) {
	if who.IsZero() {
		return nil, ErrForbidden
	}
	return s.orders.ListOrdersByCustomer(ctx, who.CustomerID)
}

func (s *OrderService) GetOrder(ctx context.Context, id int64) (*models.Order, error) {
	order, err := s.orders.GetOrder(ctx, id)
	if errors.Is(err, database.ErrNotFound) {
		return nil, ErrNotFound
	}
	return order, err
}
