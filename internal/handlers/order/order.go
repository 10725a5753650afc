package order

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"invoice_back_end/internal/handlers"
	"invoice_back_end/internal/middleware"
	"invoice_back_end/internal/models"
	"invoice_back_end/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type OrderService interface {
	CreateOrder(ctx context.Context, who models.Identity, lines []services.LineRequest) (*models.Order, error)
	ListOrders(ctx context.Context, who models.Identity) ([]models.Order, error)
	GetOrder(ctx context.Context, id int64) (*models.Order, error)
}

type Catalog interface {
	List(ctx context.Context) ([]models.Product, error)
}

type PaymentService interface {
	PaymentView(ctx context.Context, orderID int64) (*services.PaymentView, error)
	Pay(ctx context.Context, who models.Identity, orderID int64, method string) (*models.Payment, error)
}

type InvoiceService interface {
	Generate(ctx context.Context, orderID int64) ([]byte, error)
	Send(ctx context.Context, orderID int64, pdf []byte) error
	Link(ctx context.Context, orderID int64) (string, error)
	VerifyLinkToken(orderID int64, token string) bool
	OrderOwner(ctx context.Context, orderID int64) (int64, error)
}

type Handler struct {
	orders       OrderService
	catalog      Catalog
	payments     PaymentService
	invoices     InvoiceService
	requireToken bool
	log          *logrus.Logger
}

// NewHandler : requireToken=true ferme l'accès anonyme à GenerateInvoice
func NewHandler(orders OrderService, catalog Catalog, payments PaymentService, invoices InvoiceService, requireToken bool, log *logrus.Logger) *Handler {
	return &Handler{
		orders:       orders,
		catalog:      catalog,
		payments:     payments,
		invoices:     invoices,
		requireToken: requireToken,
		log:          log,
	}
}

type lineForm struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

// Formulaire : tableaux parallèles productId/quantity ; JSON : orderItems
type createForm struct {
	OrderItems []lineForm `form:"-" json:"orderItems"`
	ProductIDs []int64    `form:"productId" json:"-"`
	Quantities []int      `form:"quantity" json:"-"`
}

func (f createForm) lines() []services.LineRequest {
	lines := make([]services.LineRequest, 0, len(f.OrderItems)+len(f.ProductIDs))
	for _, l := range f.OrderItems {
		lines = append(lines, services.LineRequest{ProductID: l.ProductID, Quantity: l.Quantity})
	}
	for i, id := range f.ProductIDs {
		qty := 0
		if i < len(f.Quantities) {
			qty = f.Quantities[i]
		}
		lines = append(lines, services.LineRequest{ProductID: id, Quantity: qty})
	}
	return lines
}

type paymentForm struct {
	OrderID       int64  `form:"orderId" json:"orderId" binding:"required,gt=0"`
	PaymentMethod string `form:"paymentMethod" json:"paymentMethod" binding:"required"`
}

func identity(c *gin.Context) models.Identity {
	who, _ := middleware.CurrentIdentity(c)
	return who
}

// GET /Order
func (h *Handler) Index(c *gin.Context) {
	orders, err := h.orders.ListOrders(c.Request.Context(), identity(c))
	if err != nil {
		handlers.RespondError(c, h.log, err)
		return
	}
	if orders == nil {
		orders = []models.Order{}
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

// GET /Order/Create
func (h *Handler) CreateForm(c *gin.Context) {
	products, err := h.catalog.List(c.Request.Context())
	if err != nil {
		handlers.RespondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

// POST /Order/Create
func (h *Handler) Create(c *gin.Context) {
	var form createForm
	if err := c.ShouldBind(&form); err != nil {
		handlers.BadRequest(c, err)
		return
	}

	order, err := h.orders.CreateOrder(c.Request.Context(), identity(c), form.lines())
	if err != nil {
		handlers.RespondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"order":    order,
		"redirect": fmt.Sprintf("/Order/Payment?orderId=%d", order.ID),
	})
}

// GET /Order/Payment?orderId=
func (h *Handler) PaymentForm(c *gin.Context) {
	orderID, ok := handlers.ParamID(c, "orderId")
	if !ok {
		return
	}
	view, err := h.payments.PaymentView(c.Request.Context(), orderID)
	if err != nil {
		handlers.RespondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// POST /Order/Payment
func (h *Handler) Payment(c *gin.Context) {
	var form paymentForm
	if err := c.ShouldBind(&form); err != nil {
		handlers.BadRequest(c, err)
		return
	}

	payment, err := h.payments.Pay(c.Request.Context(), identity(c), form.OrderID, form.PaymentMethod)
	if err != nil {
		// paiement déjà enregistré si payment != nil : l'échec facture/email remonte en 500
		handlers.RespondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"payment":  payment,
		"redirect": fmt.Sprintf("/Order/OrderPlaced/%d", form.OrderID),
	})
}

// GET /Order/OrderPlaced/:orderId
func (h *Handler) OrderPlaced(c *gin.Context) {
	orderID, ok := handlers.ParamID(c, "orderId")
	if !ok {
		return
	}
	order, err := h.orders.GetOrder(c.Request.Context(), orderID)
	if err != nil {
		handlers.RespondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// GET /Order/GenerateInvoice/:orderId?sendEmail=false
func (h *Handler) GenerateInvoice(c *gin.Context) {
	orderID, ok := handlers.ParamID(c, "orderId")
	if !ok {
		return
	}
	ctx := c.Request.Context()

	if !h.authorizeInvoice(c, orderID) {
		return
	}

	pdf, err := h.invoices.Generate(ctx, orderID)
	if err != nil {
		handlers.RespondError(c, h.log, err)
		return
	}

	if sendEmail, _ := strconv.ParseBool(c.Query("sendEmail")); sendEmail {
		if err := h.invoices.Send(ctx, orderID, pdf); err != nil {
			handlers.RespondError(c, h.log, err)
			return
		}
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="OrderInvoice_%d.pdf"`, orderID))
	c.Data(http.StatusOK, "application/pdf", pdf)
}

// authorizeInvoice : accès anonyme conservé par défaut, jeton ou propriétaire exigé sinon
func (h *Handler) authorizeInvoice(c *gin.Context, orderID int64) bool {
	who, hasSession := middleware.CurrentIdentity(c)

	if !h.requireToken {
		if !hasSession {
			h.log.WithFields(logrus.Fields{
				"order_id":  orderID,
				"client_ip": c.ClientIP(),
			}).Warn("⚠️ Facture générée sans session (accès anonyme autorisé)")
		}
		return true
	}

	if h.invoices.VerifyLinkToken(orderID, c.Query("token")) {
		return true
	}

	if hasSession {
		if who.IsAdmin() {
			return true
		}
		owner, err := h.invoices.OrderOwner(c.Request.Context(), orderID)
		if err != nil {
			handlers.RespondError(c, h.log, err)
			return false
		}
		if owner == who.CustomerID {
			return true
		}
	}

	c.JSON(http.StatusForbidden, gin.H{"error": "Lien de facture invalide ou expiré"})
	return false
}

// GET /Order/InvoiceLink/:orderId
func (h *Handler) InvoiceLink(c *gin.Context) {
	orderID, ok := handlers.ParamID(c, "orderId")
	if !ok {
		return
	}
	ctx := c.Request.Context()

	who := identity(c)
	if !who.IsAdmin() {
		owner, err := h.invoices.OrderOwner(ctx, orderID)
		if err != nil {
			handlers.RespondError(c, h.log, err)
			return
		}
		if owner != who.CustomerID {
			handlers.RespondError(c, h.log, services.ErrForbidden)
			return
		}
	}

	link, err := h.invoices.Link(ctx, orderID)
	if err != nil {
		handlers.RespondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orderId": orderID, "url": link})
}
