package services

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"strings"

	"invoice_back_end/internal/config"
	"invoice_back_end/internal/models"

	"github.com/sirupsen/logrus"
	"github.com/wneessen/go-mail"
)

const invoiceAttachmentName = "OrderInvoice.pdf"

type Attachment struct {
	Filename    string
	ContentType string
	Data        []byte
}

type Email struct {
	ToName      string
	ToEmail     string
	Subject     string
	HTMLBody    string
	Attachments []Attachment
}

// Mailer envoie un email ; aucune relance en cas d'échec
type Mailer interface {
	Send(ctx context.Context, msg Email) error
}

type SMTPMailer struct {
	cfg config.EmailSettings
	log *logrus.Logger
}

func NewSMTPMailer(cfg config.EmailSettings, log *logrus.Logger) *SMTPMailer {
	return &SMTPMailer{cfg: cfg, log: log}
}

func (m *SMTPMailer) Send(ctx context.Context, e Email) error {
	msg := mail.NewMsg()

	if err := msg.FromFormat(m.cfg.SenderName, m.cfg.SenderEmail); err != nil {
		return fmt.Errorf("expéditeur invalide: %w", err)
	}
	if err := msg.AddToFormat(e.ToName, e.ToEmail); err != nil {
		return fmt.Errorf("destinataire invalide: %w", err)
	}
	msg.Subject(e.Subject)
	msg.SetBodyString(mail.TypeTextHTML, e.HTMLBody)

	for _, a := range e.Attachments {
		if err := msg.AttachReader(a.Filename, bytes.NewReader(a.Data),
			mail.WithFileContentType(mail.ContentType(a.ContentType))); err != nil {
			return fmt.Errorf("pièce jointe %s: %w", a.Filename, err)
		}
	}

	username := m.cfg.Username
	if username == "" {
		username = m.cfg.SenderEmail
	}

	client, err := mail.NewClient(m.cfg.SMTPServer,
		mail.WithPort(m.cfg.SMTPPort),
		mail.WithSMTPAuth(mail.SMTPAuthLogin),
		mail.WithUsername(username),
		mail.WithPassword(m.cfg.Password),
		mail.WithTLSPolicy(mail.TLSMandatory),
	)
	if err != nil {
		return fmt.Errorf("client SMTP: %w", err)
	}

	m.log.WithFields(logrus.Fields{"to": e.ToEmail, "subject": e.Subject}).Info("📤 Envoi de l'e-mail")
	return client.DialAndSendWithContext(ctx, msg)
}

// statusCategory ramène un statut de commande à Completed, Cancelled ou Pending
func statusCategory(status string) string {
	switch {
	case strings.EqualFold(status, models.OrderStatusCompleted):
		return models.OrderStatusCompleted
	case strings.EqualFold(status, models.OrderStatusCancelled):
		return models.OrderStatusCancelled
	default:
		return models.OrderStatusPending
	}
}

func BuildEmailSubject(order *models.Order) string {
	return fmt.Sprintf("Your Order Invoice - Order #%s %s", order.OrderNumber, statusCategory(order.Status))
}

func BuildEmailBody(order *models.Order, customerName, signature string) string {
	name := html.EscapeString(customerName)
	number := html.EscapeString(order.OrderNumber)
	sign := html.EscapeString(signature)

	switch statusCategory(order.Status) {
	case models.OrderStatusCompleted:
		return fmt.Sprintf("Dear %s,<br/><br/>"+
			"Thank you for your order. Your order #%s has been completed successfully. "+
			"Please find attached your invoice.<br/><br/>Best regards,<br/>%s", name, number, sign)
	case models.OrderStatusCancelled:
		return fmt.Sprintf("Dear %s,<br/><br/>"+
			"We regret to inform you that your order #%s has been cancelled. "+
			"Please contact our support for further details.<br/><br/>Best regards,<br/>%s", name, number, sign)
	default:
		return fmt.Sprintf("Dear %s,<br/><br/>"+
			"Please find attached your invoice for order #%s.<br/><br/>Best regards,<br/>%s", name, number, sign)
	}
}
