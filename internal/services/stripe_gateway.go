package services

import (
	"context"
	"fmt"
	"strings"

	"invoice_back_end/internal/models"

	"github.com/sirupsen/logrus"
	"github.com/stripe/stripe-go/v83"
	"github.com/stripe/stripe-go/v83/paymentintent"
)

// StripeGateway crée et confirme un PaymentIntent Stripe pour le total de la commande
type StripeGateway struct {
	currency      string
	paymentMethod string
	log           *logrus.Logger
}

func NewStripeGateway(secretKey, currency string, log *logrus.Logger) *StripeGateway {
	stripe.Key = secretKey
	return &StripeGateway{
		currency:      strings.ToLower(currency),
		paymentMethod: "pm_card_visa",
		log:           log,
	}
}

func (g *StripeGateway) Charge(_ context.Context, order *models.Order, _ string) (PaymentOutcome, error) {
	params := &stripe.PaymentIntentParams{
		Amount:        stripe.Int64(order.TotalAmount.Shift(2).Round(0).IntPart()),
		Currency:      stripe.String(g.currency),
		PaymentMethod: stripe.String(g.paymentMethod),
		Confirm:       stripe.Bool(true),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled:        stripe.Bool(true),
			AllowRedirects: stripe.String("never"),
		},
	}
	params.AddMetadata("order_id", fmt.Sprintf("%d", order.ID))
	params.AddMetadata("order_number", order.OrderNumber)

	intent, err := paymentintent.New(params)
	if err != nil {
		// Refus de carte : la commande est annulée, pas d'erreur technique
		g.log.WithError(err).WithField("order_id", order.ID).Warn("💳 Paiement Stripe refusé")
		return PaymentOutcome{OrderStatus: models.OrderStatusCancelled, PaymentStatus: models.PaymentStatusFailed}, nil
	}

	g.log.WithFields(logrus.Fields{"order_id": order.ID, "intent": intent.ID, "status": intent.Status}).Info("💳 PaymentIntent Stripe")
	return stripeOutcome(intent.Status), nil
}

func stripeOutcome(status stripe.PaymentIntentStatus) PaymentOutcome {
	switch status {
	case stripe.PaymentIntentStatusSucceeded:
		return PaymentOutcome{OrderStatus: models.OrderStatusCompleted, PaymentStatus: models.PaymentStatusSuccess}
	case stripe.PaymentIntentStatusProcessing,
		stripe.PaymentIntentStatusRequiresAction,
		stripe.PaymentIntentStatusRequiresCapture,
		stripe.PaymentIntentStatusRequiresConfirmation:
		return PaymentOutcome{OrderStatus: models.OrderStatusPending, PaymentStatus: models.PaymentStatusPending}
	default:
		return PaymentOutcome{OrderStatus: models.OrderStatusCancelled, PaymentStatus: models.PaymentStatusFailed}
	}
}
