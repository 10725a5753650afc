package order

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"invoice_back_end/internal/middleware"
	"invoice_back_end/internal/models"
	"invoice_back_end/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var jane = models.Identity{CustomerID: 7, Name: "Jane", Email: "jane@example.com", Role: models.RoleCustomer}

type stubOrders struct {
	lines []services.LineRequest
	who   models.Identity
}

func (s *stubOrders) CreateOrder(_ context.Context, who models.Identity, lines []services.LineRequest) (*models.Order, error) {
	if len(lines) == 0 {
		return nil, services.ErrEmptyOrder
	}
	s.lines, s.who = lines, who
	return &models.Order{ID: 42, CustomerID: who.CustomerID, OrderNumber: "ORD-1", Status: models.OrderStatusPending}, nil
}

func (s *stubOrders) ListOrders(context.Context, models.Identity) ([]models.Order, error) {
	return nil, nil
}

func (s *stubOrders) GetOrder(_ context.Context, id int64) (*models.Order, error) {
	if id != 42 {
		return nil, services.ErrNotFound
	}
	return &models.Order{ID: 42, OrderNumber: "ORD-1"}, nil
}

type stubCatalog struct{}

func (stubCatalog) List(context.Context) ([]models.Product, error) {
	return []models.Product{{ID: 1, Name: "Apple iPhone 16", UnitPrice: decimal.RequireFromString("18499.99")}}, nil
}

type stubPayments struct {
	method      string
	err         error
	deliveryErr error
}

func (s *stubPayments) PaymentView(_ context.Context, orderID int64) (*services.PaymentView, error) {
	if orderID != 42 {
		return nil, services.ErrNotFound
	}
	return &services.PaymentView{OrderID: 42, OrderNumber: "ORD-1", TotalAmount: decimal.NewFromInt(10)}, nil
}

func (s *stubPayments) Pay(_ context.Context, _ models.Identity, orderID int64, method string) (*models.Payment, error) {
	s.method = method
	if s.err != nil {
		return nil, s.err
	}
	return &models.Payment{OrderID: orderID, PaymentMethod: method, PaymentStatus: models.PaymentStatusSuccess}, s.deliveryErr
}

type stubInvoices struct {
	sent  int
	owner int64
}

func (s *stubInvoices) Generate(_ context.Context, orderID int64) ([]byte, error) {
	if orderID != 42 {
		return nil, services.ErrNotFound
	}
	return []byte("%PDF-1.4 fake"), nil
}

func (s *stubInvoices) Send(context.Context, int64, []byte) error {
	s.sent++
	return nil
}

func (s *stubInvoices) Link(_ context.Context, orderID int64) (string, error) {
	return "http://localhost/Order/GenerateInvoice/42?token=abc", nil
}

func (s *stubInvoices) VerifyLinkToken(orderID int64, token string) bool {
	return orderID == 42 && token == "good"
}

func (s *stubInvoices) OrderOwner(context.Context, int64) (int64, error) {
	return s.owner, nil
}

type fixture struct {
	router   *gin.Engine
	orders   *stubOrders
	payments *stubPayments
	invoices *stubInvoices
}

func newFixture(requireToken bool, session *models.Identity) *fixture {
	gin.SetMode(gin.TestMode)
	log := logrus.New()
	log.SetOutput(io.Discard)

	f := &fixture{orders: &stubOrders{}, payments: &stubPayments{}, invoices: &stubInvoices{owner: jane.CustomerID}}
	h := NewHandler(f.orders, stubCatalog{}, f.payments, f.invoices, requireToken, log)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		if session != nil {
			middleware.SetIdentity(c, *session)
		}
		c.Next()
	})
	r.GET("/Order", h.Index)
	r.GET("/Order/Create", h.CreateForm)
	r.POST("/Order/Create", h.Create)
	r.GET("/Order/Payment", h.PaymentForm)
	r.POST("/Order/Payment", h.Payment)
	r.GET("/Order/OrderPlaced/:orderId", h.OrderPlaced)
	r.GET("/Order/GenerateInvoice/:orderId", h.GenerateInvoice)
	r.GET("/Order/InvoiceLink/:orderId", h.InvoiceLink)
	f.router = r
	return f
}

func (f *fixture) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func TestCreate_FormArrays(t *testing.T) {
	f := newFixture(false, &jane)

	form := url.Values{"productId": {"1", "3"}, "quantity": {"2", "1"}}
	req := httptest.NewRequest(http.MethodPost, "/Order/Create", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := f.do(req)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, []services.LineRequest{{ProductID: 1, Quantity: 2}, {ProductID: 3, Quantity: 1}}, f.orders.lines)
	assert.Equal(t, jane, f.orders.who)
	assert.Contains(t, w.Body.String(), "/Order/Payment?orderId=42")
}

func TestCreate_JSON(t *testing.T) {
	f := newFixture(false, &jane)

	req := httptest.NewRequest(http.MethodPost, "/Order/Create",
		strings.NewReader(`{"orderItems":[{"productId":1,"quantity":2},{"productId":5,"quantity":0}]}`))
	req.Header.Set("Content-Type", "application/json")
	w := f.do(req)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Len(t, f.orders.lines, 2)
}

func TestCreate_Empty(t *testing.T) {
	f := newFixture(false, &jane)

	req := httptest.NewRequest(http.MethodPost, "/Order/Create", strings.NewReader(`{"orderItems":[]}`))
	req.Header.Set("Content-Type", "application/json")
	w := f.do(req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "orderItems")
}

func TestPayment(t *testing.T) {
	f := newFixture(false, &jane)

	form := url.Values{"orderId": {"42"}, "paymentMethod": {"visa"}}
	req := httptest.NewRequest(http.MethodPost, "/Order/Payment", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := f.do(req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "visa", f.payments.method)
	assert.Contains(t, w.Body.String(), "/Order/OrderPlaced/42")
}

func TestPayment_Errors(t *testing.T) {
	f := newFixture(false, &jane)

	req := httptest.NewRequest(http.MethodPost, "/Order/Payment", strings.NewReader(`{"orderId":42}`))
	req.Header.Set("Content-Type", "application/json")
	assert.Equal(t, http.StatusBadRequest, f.do(req).Code)

	f.payments.err = services.ErrNotFound
	req = httptest.NewRequest(http.MethodPost, "/Order/Payment", strings.NewReader(`{"orderId":9,"paymentMethod":"visa"}`))
	req.Header.Set("Content-Type", "application/json")
	assert.Equal(t, http.StatusNotFound, f.do(req).Code)

	f.payments.err = errors.New("envoi email: smtp down")
	req = httptest.NewRequest(http.MethodPost, "/Order/Payment", strings.NewReader(`{"orderId":42,"paymentMethod":"visa"}`))
	req.Header.Set("Content-Type", "application/json")
	assert.Equal(t, http.StatusInternalServerError, f.do(req).Code)
}

func TestPayment_InvoiceDeliveryFailureIsServerError(t *testing.T) {
	f := newFixture(false, &jane)
	f.payments.deliveryErr = errors.New("envoi email: smtp down")

	req := httptest.NewRequest(http.MethodPost, "/Order/Payment", strings.NewReader(`{"orderId":42,"paymentMethod":"visa"}`))
	req.Header.Set("Content-Type", "application/json")
	w := f.do(req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "visa", f.payments.method)
	assert.NotContains(t, w.Body.String(), "/Order/OrderPlaced/42")
}

func TestPaymentForm_AndOrderPlaced(t *testing.T) {
	f := newFixture(false, &jane)

	assert.Equal(t, http.StatusOK, f.do(httptest.NewRequest(http.MethodGet, "/Order/Payment?orderId=42", nil)).Code)
	assert.Equal(t, http.StatusNotFound, f.do(httptest.NewRequest(http.MethodGet, "/Order/Payment?orderId=7", nil)).Code)
	assert.Equal(t, http.StatusNotFound, f.do(httptest.NewRequest(http.MethodGet, "/Order/Payment?orderId=abc", nil)).Code)
	assert.Equal(t, http.StatusOK, f.do(httptest.NewRequest(http.MethodGet, "/Order/OrderPlaced/42", nil)).Code)
	assert.Equal(t, http.StatusNotFound, f.do(httptest.NewRequest(http.MethodGet, "/Order/OrderPlaced/43", nil)).Code)
}

func TestIndex_EmptyList(t *testing.T) {
	f := newFixture(false, &jane)

	w := f.do(httptest.NewRequest(http.MethodGet, "/Order", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"orders":[]}`, w.Body.String())
}

func TestGenerateInvoice_AnonymousAllowedByDefault(t *testing.T) {
	f := newFixture(false, nil)

	w := f.do(httptest.NewRequest(http.MethodGet, "/Order/GenerateInvoice/42?sendEmail=true", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "OrderInvoice_42.pdf")
	assert.Equal(t, 1, f.invoices.sent)
}

func TestGenerateInvoice_SendEmailFlagParsing(t *testing.T) {
	tests := []struct {
		value string
		sent  int
	}{
		{"True", 1},
		{"TRUE", 1},
		{"1", 1},
		{"false", 0},
		{"yes", 0},
		{"", 0},
	}

	for _, tt := range tests {
		t.Run("sendEmail="+tt.value, func(t *testing.T) {
			f := newFixture(false, &jane)

			w := f.do(httptest.NewRequest(http.MethodGet, "/Order/GenerateInvoice/42?sendEmail="+tt.value, nil))

			require.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tt.sent, f.invoices.sent)
		})
	}
}

func TestGenerateInvoice_MissingOrder(t *testing.T) {
	f := newFixture(false, nil)

	w := f.do(httptest.NewRequest(http.MethodGet, "/Order/GenerateInvoice/99", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGenerateInvoice_TokenRequired(t *testing.T) {
	anonymous := newFixture(true, nil)
	assert.Equal(t, http.StatusForbidden, anonymous.do(httptest.NewRequest(http.MethodGet, "/Order/GenerateInvoice/42", nil)).Code)
	assert.Equal(t, http.StatusForbidden, anonymous.do(httptest.NewRequest(http.MethodGet, "/Order/GenerateInvoice/42?token=bad", nil)).Code)
	assert.Equal(t, http.StatusOK, anonymous.do(httptest.NewRequest(http.MethodGet, "/Order/GenerateInvoice/42?token=good", nil)).Code)

	owner := newFixture(true, &jane)
	assert.Equal(t, http.StatusOK, owner.do(httptest.NewRequest(http.MethodGet, "/Order/GenerateInvoice/42", nil)).Code)

	john := models.Identity{CustomerID: 8, Name: "John", Role: models.RoleCustomer}
	stranger := newFixture(true, &john)
	assert.Equal(t, http.StatusForbidden, stranger.do(httptest.NewRequest(http.MethodGet, "/Order/GenerateInvoice/42", nil)).Code)
}

func TestInvoiceLink_OwnerOnly(t *testing.T) {
	owner := newFixture(false, &jane)
	w := owner.do(httptest.NewRequest(http.MethodGet, "/Order/InvoiceLink/42", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "token=abc")

	john := models.Identity{CustomerID: 8, Name: "John", Role: models.RoleCustomer}
	stranger := newFixture(false, &john)
	assert.Equal(t, http.StatusForbidden, stranger.do(httptest.NewRequest(http.MethodGet, "/Order/InvoiceLink/42", nil)).Code)
}
