package database

import (
	"fmt"
	"time"

	"invoice_back_end/internal/models"
)

const invoiceLayout = `<!DOCTYPE html>
<html lang="en">
<head>
	<meta charset="UTF-8">
	<title>Invoice {OrderNumber}</title>
</head>
<body style="font-family: Arial, sans-serif; background-color: #f9f9f9; padding: 20px;">
	<div style="max-width: 720px; margin: auto; background-color: white; padding: 24px; border-radius: 10px;">
		<h2 style="color: #333;">%s</h2>
		<p>Dear {CustomerName},</p>
		<p>%s</p>
		<p><strong>Order number:</strong> {OrderNumber}<br>
		<strong>Order date:</strong> {OrderDate}<br>
		<strong>Status:</strong> {OrderStatus}</p>
		<table style="width: 100%%; border-collapse: collapse; margin: 20px 0;">
			<thead>
				<tr style="background-color: #f0f0f0;">
					<th style="padding:12px; border:1px solid #ddd; text-align:left;">Product</th>
					<th style="padding:12px; border:1px solid #ddd; text-align:left;">Quantity</th>
					<th style="padding:12px; border:1px solid #ddd; text-align:left;">Unit price</th>
					<th style="padding:12px; border:1px solid #ddd; text-align:left;">Total</th>
				</tr>
			</thead>
			<tbody>
				{ProductList}
			</tbody>
		</table>
		<p style="font-weight: bold;">Total: {TotalAmount}</p>
		<p>Payment: {PaymentMethod} ({PaymentStatus}) on {PaymentDate}</p>
		<div>{PaymentQR}</div>
		<p style="margin-top: 30px; color: #555;">Best regards,<br><strong>My Estore App</strong></p>
	</div>
</body>
</html>`

// DefaultTemplates retourne les modèles de facture des trois issues de commande
func DefaultTemplates() []models.Template {
	now := time.Now().UTC()
	build := func(name string, tt models.TemplateType, title, intro string) models.Template {
		return models.Template{
			Name:         name,
			HTMLContent:  fmt.Sprintf(invoiceLayout, title, intro),
			TemplateType: tt,
			CreatedDate:  now,
			CreatedBy:    "System",
		}
	}

	return []models.Template{
		build("Order completed invoice", models.TemplateOrderCompletion,
			"Invoice - Order Completed", "Thank you for your order. Your payment was received and your order is complete."),
		build("Order cancelled invoice", models.TemplateOrderCancelled,
			"Invoice - Order Cancelled", "Unfortunately your payment failed and the order has been cancelled."),
		build("Order pending invoice", models.TemplateOrderPending,
			"Invoice - Order Pending", "Your order has been received and is awaiting payment."),
	}
}
