package services

import (
	"context"
	"strings"

	"invoice_back_end/internal/models"
)

// PaymentOutcome est le résultat d'un paiement : statut de commande et statut de paiement
type PaymentOutcome struct {
	OrderStatus   string
	PaymentStatus string
}

// Gateway décide de l'issue d'un paiement pour une commande
type Gateway interface {
	Charge(ctx context.Context, order *models.Order, method string) (PaymentOutcome, error)
}

// SimulatedGateway : PAYPAL échoue, COD reste en attente, tout le reste réussit
type SimulatedGateway struct{}

func (SimulatedGateway) Charge(_ context.Context, _ *models.Order, method string) (PaymentOutcome, error) {
	switch strings.ToUpper(strings.TrimSpace(method)) {
	case "PAYPAL":
		return PaymentOutcome{OrderStatus: models.OrderStatusCancelled, PaymentStatus: models.PaymentStatusFailed}, nil
	case "COD":
		return PaymentOutcome{OrderStatus: models.OrderStatusPending, PaymentStatus: models.PaymentStatusPending}, nil
	default:
		return PaymentOutcome{OrderStatus: models.OrderStatusCompleted, PaymentStatus: models.PaymentStatusSuccess}, nil
	}
}

// GatewayRegistry associe un nom de méthode (insensible à la casse) à une passerelle
type GatewayRegistry struct {
	fallback Gateway
	byMethod map[string]Gateway
}

func NewGatewayRegistry(fallback Gateway) *GatewayRegistry {
	return &GatewayRegistry{fallback: fallback, byMethod: map[string]Gateway{}}
}

func (r *GatewayRegistry) Register(method string, g Gateway) {
	r.byMethod[strings.ToUpper(strings.TrimSpace(method))] = g
}

func (r *GatewayRegistry) Resolve(method string) Gateway {
	if g, ok := r.byMethod[strings.ToUpper(strings.TrimSpace(method))]; ok {
		return g
	}
	return r.fallback
}
