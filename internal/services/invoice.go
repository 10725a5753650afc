package services

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strconv"
	"strings"
	"time"

	"invoice_back_end/internal/database"
	"invoice_back_end/internal/models"
	"invoice_back_end/internal/utils"

	"github.com/sirupsen/logrus"
)

const invoiceDateLayout = "January 02, 2006"

const productCell = "<td style='padding:12px; border:1px solid #ddd;'>%s</td>"

// Placeholder décrit un jeton substituable dans le HTML d'un modèle
type Placeholder struct {
	Token       string `json:"token"`
	Description string `json:"description"`
}

// InvoicePlaceholders liste les jetons reconnus par BuildHTML, dans l'ordre d'affichage
func InvoicePlaceholders() []Placeholder {
	return []Placeholder{
		{"{CustomerName}", "Customer name (HTML-escaped)."},
		{"{OrderNumber}", "Order number, e.g. ORD-1741950000000000000."},
		{"{OrderDate}", "Order date, e.g. March 14, 2025."},
		{"{OrderStatus}", "Order status: Pending, Completed or Cancelled."},
		{"{ProductList}", "Table rows only (one <tr> per item: name, quantity, unit price, total). The template must open and close its own <table> and <tbody> around it."},
		{"{TotalAmount}", "Order total with currency symbol."},
		{"{PaymentStatus}", "Payment status; left as is until the order is paid."},
		{"{PaymentMethod}", "Payment method as submitted; left as is until the order is paid."},
		{"{PaymentDate}", "Payment date; left as is until the order is paid."},
		{"{PaymentQR}", "SEPA payment QR code image, empty when no company IBAN is configured."},
	}
}

type CustomerLookup interface {
	GetCustomer(ctx context.Context, id int64) (*models.Customer, error)
}

type TemplateLookup interface {
	FirstTemplateByType(ctx context.Context, tt models.TemplateType) (*models.Template, error)
}

// InvoiceOptions : paramètres de présentation et de lien des factures
type InvoiceOptions struct {
	CurrencySymbol string
	SenderName     string
	BaseURL        string
	LinkSecret     []byte
	CompanyName    string
	CompanyIBAN    string
	CompanyBIC     string
}

type InvoiceService struct {
	orders    OrderStore
	customers CustomerLookup
	payments  PaymentStore
	templates TemplateLookup
	renderer  PDFRenderer
	mailer    Mailer
	archive   InvoiceArchive
	audit     Auditor
	opts      InvoiceOptions
	log       *logrus.Logger
	now       func() time.Time
}

// NewInvoiceService : archive peut être nil (MinIO non configuré)
func NewInvoiceService(
	orders OrderStore,
	customers CustomerLookup,
	payments PaymentStore,
	templates TemplateLookup,
	renderer PDFRenderer,
	mailer Mailer,
	archive InvoiceArchive,
	audit Auditor,
	opts InvoiceOptions,
	log *logrus.Logger,
) *InvoiceService {
	if opts.CurrencySymbol == "" {
		opts.CurrencySymbol = "R"
	}
	return &InvoiceService{
		orders:    orders,
		customers: customers,
		payments:  payments,
		templates: templates,
		renderer:  renderer,
		mailer:    mailer,
		archive:   archive,
		audit:     audit,
		opts:      opts,
		log:       log,
		now:       time.Now,
	}
}

// TemplateTypeFor associe le statut de commande au type de modèle (insensible à la casse)
func TemplateTypeFor(status string) models.TemplateType {
	switch statusCategory(status) {
	case models.OrderStatusCompleted:
		return models.TemplateOrderCompletion
	case models.OrderStatusCancelled:
		return models.TemplateOrderCancelled
	default:
		return models.TemplateOrderPending
	}
}

type invoiceData struct {
	order    *models.Order
	customer *models.Customer
	payment  *models.Payment
}

func (s *InvoiceService) load(ctx context.Context, orderID int64) (*invoiceData, error) {
	order, err := s.orders.GetOrder(ctx, orderID)
	if errors.Is(err, database.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lecture commande %d: %w", orderID, err)
	}

	customer, err := s.customers.GetCustomer(ctx, order.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("lecture client %d: %w", order.CustomerID, err)
	}

	payment, err := s.payments.GetPaymentByOrder(ctx, orderID)
	if errors.Is(err, database.ErrNotFound) {
		payment = nil
	} else if err != nil {
		return nil, fmt.Errorf("lecture paiement %d: %w", orderID, err)
	}

	return &invoiceData{order: order, customer: customer, payment: payment}, nil
}

// BuildHTML produit le HTML de la facture ; même état, même résultat
func (s *InvoiceService) BuildHTML(ctx context.Context, orderID int64) (string, error) {
	data, err := s.load(ctx, orderID)
	if err != nil {
		return "", err
	}
	return s.buildHTML(ctx, data)
}

func (s *InvoiceService) buildHTML(ctx context.Context, data *invoiceData) (string, error) {
	tt := TemplateTypeFor(data.order.Status)
	tpl, err := s.templates.FirstTemplateByType(ctx, tt)
	if errors.Is(err, database.ErrNotFound) {
		return "", fmt.Errorf("%w: %s", ErrTemplateMissing, tt)
	}
	if err != nil {
		return "", fmt.Errorf("lecture modèle %s: %w", tt, err)
	}

	order := data.order
	pairs := []string{
		"{CustomerName}", html.EscapeString(data.customer.Name),
		"{OrderDate}", order.OrderDate.Format(invoiceDateLayout),
		"{OrderNumber}", html.EscapeString(order.OrderNumber),
		"{OrderStatus}", html.EscapeString(order.Status),
		"{ProductList}", s.productRows(order.Items),
		"{TotalAmount}", utils.FormatCurrency(order.TotalAmount, s.opts.CurrencySymbol),
		"{PaymentQR}", s.paymentQR(order),
	}
	if p := data.payment; p != nil {
		pairs = append(pairs,
			"{PaymentStatus}", html.EscapeString(p.PaymentStatus),
			"{PaymentMethod}", html.EscapeString(p.PaymentMethod),
			"{PaymentDate}", p.PaymentDate.Format(invoiceDateLayout),
		)
	}

	// Un seul passage : une valeur substituée n'est jamais ré-interprétée comme jeton
	return strings.NewReplacer(pairs...).Replace(tpl.HTMLContent), nil
}

func (s *InvoiceService) productRows(items []models.OrderItem) string {
	var b strings.Builder
	for _, item := range items {
		b.WriteString("<tr>")
		fmt.Fprintf(&b, productCell, html.EscapeString(item.ProductName))
		fmt.Fprintf(&b, productCell, strconv.Itoa(item.Quantity))
		fmt.Fprintf(&b, productCell, utils.FormatCurrency(item.UnitPrice, s.opts.CurrencySymbol))
		fmt.Fprintf(&b, productCell, utils.FormatCurrency(item.Total(), s.opts.CurrencySymbol))
		b.WriteString("</tr>")
	}
	return b.String()
}

func (s *InvoiceService) paymentQR(order *models.Order) string {
	if s.opts.CompanyIBAN == "" {
		return ""
	}
	uri, err := utils.GenerateSepaQR(s.opts.CompanyIBAN, s.opts.CompanyBIC, s.opts.CompanyName, order.OrderNumber, order.TotalAmount)
	if err != nil {
		s.log.WithError(err).WithField("order_id", order.ID).Warn("⚠️ QR code de paiement non généré")
		return ""
	}
	return fmt.Sprintf(`<img src="%s" alt="QR" width="160" height="160"/>`, uri)
}

// Generate rend la facture en PDF et l'archive si possible
func (s *InvoiceService) Generate(ctx context.Context, orderID int64) ([]byte, error) {
	data, err := s.load(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return s.render(ctx, data)
}

func (s *InvoiceService) render(ctx context.Context, data *invoiceData) ([]byte, error) {
	content, err := s.buildHTML(ctx, data)
	if err != nil {
		return nil, err
	}

	pdf, err := s.renderer.RenderPDF(ctx, content)
	if err != nil {
		return nil, fmt.Errorf("rendu PDF commande %d: %w", data.order.ID, err)
	}

	if s.archive != nil {
		if err := s.archive.Store(ctx, data.order.OrderNumber, pdf); err != nil {
			s.log.WithError(err).WithField("order_id", data.order.ID).Warn("⚠️ Archivage de la facture échoué")
		}
	}
	return pdf, nil
}

// Send envoie un PDF déjà rendu au client de la commande
func (s *InvoiceService) Send(ctx context.Context, orderID int64, pdf []byte) error {
	data, err := s.load(ctx, orderID)
	if err != nil {
		return err
	}
	return s.send(ctx, data, pdf)
}

func (s *InvoiceService) send(ctx context.Context, data *invoiceData, pdf []byte) error {
	body := BuildEmailBody(data.order, data.customer.Name, s.opts.SenderName)
	if link, err := s.tokenLink(data.order.ID); err == nil && link != "" {
		body += fmt.Sprintf(`<br/><br/><a href="%s">Download your invoice</a>`, html.EscapeString(link))
	}

	err := s.mailer.Send(ctx, Email{
		ToName:   data.customer.Name,
		ToEmail:  data.customer.Email,
		Subject:  BuildEmailSubject(data.order),
		HTMLBody: body,
		Attachments: []Attachment{{
			Filename:    invoiceAttachmentName,
			ContentType: "application/pdf",
			Data:        pdf,
		}},
	})

	who := models.Identity{CustomerID: data.customer.ID, Name: data.customer.Name, Email: data.customer.Email}
	s.audit.Record(ctx, auditEntry(who, ActionInvoiceSend, ResourceOrder, strconv.FormatInt(data.order.ID, 10), err))
	if err != nil {
		return fmt.Errorf("envoi email commande %d: %w", data.order.ID, err)
	}
	return nil
}

// DeliverInvoice rend la facture puis l'envoie par email
func (s *InvoiceService) DeliverInvoice(ctx context.Context, orderID int64) error {
	data, err := s.load(ctx, orderID)
	if err != nil {
		return err
	}
	pdf, err := s.render(ctx, data)
	if err != nil {
		return err
	}
	return s.send(ctx, data, pdf)
}

// Link renvoie un lien de téléchargement : URL MinIO signée si l'archive existe, sinon lien avec jeton
func (s *InvoiceService) Link(ctx context.Context, orderID int64) (string, error) {
	order, err := s.orders.GetOrder(ctx, orderID)
	if errors.Is(err, database.ErrNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}

	if s.archive != nil {
		u, err := s.archive.SignedURL(ctx, order.OrderNumber)
		if err == nil {
			return u, nil
		}
		s.log.WithError(err).WithField("order_id", orderID).Warn("⚠️ URL signée MinIO indisponible, lien avec jeton")
	}
	return s.tokenLink(orderID)
}

func (s *InvoiceService) tokenLink(orderID int64) (string, error) {
	if len(s.opts.LinkSecret) == 0 {
		return "", nil
	}
	token, err := utils.GenerateInvoiceToken(s.opts.LinkSecret, orderID, s.now())
	if err != nil {
		return "", err
	}
	base := strings.TrimRight(s.opts.BaseURL, "/")
	return fmt.Sprintf("%s/Order/GenerateInvoice/%d?token=%s", base, orderID, token), nil
}

// VerifyLinkToken vérifie qu'un jeton de lien correspond bien à la commande
func (s *InvoiceService) VerifyLinkToken(orderID int64, token string) bool {
	if token == "" || len(s.opts.LinkSecret) == 0 {
		return false
	}
	id, err := utils.ParseInvoiceToken(s.opts.LinkSecret, token)
	return err == nil && id == orderID
}

// OrderOwner renvoie le client propriétaire de la commande
func (s *InvoiceService) OrderOwner(ctx context.Context, orderID int64) (int64, error) {
	order, err := s.orders.GetOrder(ctx, orderID)
	if errors.Is(err, database.ErrNotFound) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, err
	}
	return order.CustomerID, nil
}
