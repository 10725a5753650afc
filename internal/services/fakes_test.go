package services

import (
	"context"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"invoice_back_end/internal/database"
	"invoice_back_end/internal/models"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func fixedClock() time.Time {
	return time.Date(2025, time.March, 14, 9, 30, 0, 0, time.UTC)
}

// memStore implémente tous les stores en mémoire, avec les mêmes erreurs que PostgreSQL
type memStore struct {
	mu        sync.Mutex
	nextID    int64
	customers map[int64]*models.Customer
	products  map[int64]*models.Product
	orders    map[int64]*models.Order
	payments  map[int64]*models.Payment
	templates map[int64]*models.Template
}

func newMemStore() *memStore {
	return &memStore{
		customers: map[int64]*models.Customer{},
		products:  map[int64]*models.Product{},
		orders:    map[int64]*models.Order{},
		payments:  map[int64]*models.Payment{},
		templates: map[int64]*models.Template{},
	}
}

func (m *memStore) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *memStore) seedCatalog() {
	m.products[1] = &models.Product{ID: 1, Name: "Apple iPhone 16", Category: "Smartphones", UnitPrice: decimal.RequireFromString("18499.99")}
	m.products[2] = &models.Product{ID: 2, Name: "Samsung Galaxy S25", Category: "Smartphones", UnitPrice: decimal.RequireFromString("15699.00")}
	m.products[3] = &models.Product{ID: 3, Name: "Sony WH-1000XM4 Headphones", Category: "Audio", UnitPrice: decimal.RequireFromString("1349.99")}
	m.nextID = 100
}

func (m *memStore) seedTemplates() {
	for _, t := range database.DefaultTemplates() {
		t := t
		t.ID = m.id()
		m.templates[t.ID] = &t
	}
}

func (m *memStore) CreateCustomer(_ context.Context, c *models.Customer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.customers {
		if existing.Email == strings.ToLower(c.Email) {
			return database.ErrDuplicate
		}
	}
	c.ID = m.id()
	c.Email = strings.ToLower(c.Email)
	cp := *c
	m.customers[c.ID] = &cp
	return nil
}

func (m *memStore) GetCustomerByEmail(_ context.Context, email string) (*models.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.customers {
		if c.Email == strings.ToLower(email) {
			cp := *c
			return &cp, nil
		}
	}
	return nil, database.ErrNotFound
}

func (m *memStore) GetCustomer(_ context.Context, id int64) (*models.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.customers[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *memStore) ListProducts(_ context.Context) ([]models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Product, 0, len(m.products))
	for _, p := range m.products {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memStore) GetProduct(_ context.Context, id int64) (*models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *memStore) CreateOrder(_ context.Context, o *models.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	o.ID = m.id()
	for i := range o.Items {
		o.Items[i].ID = m.id()
		o.Items[i].OrderID = o.ID
	}
	cp := *o
	cp.Items = append([]models.OrderItem(nil), o.Items...)
	m.orders[o.ID] = &cp
	return nil
}

func (m *memStore) GetOrder(_ context.Context, id int64) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	cp := *o
	cp.Items = append([]models.OrderItem(nil), o.Items...)
	return &cp, nil
}

func (m *memStore) ListOrdersByCustomer(_ context.Context, customerID int64) ([]models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Order
	for _, o := range m.orders {
		if o.CustomerID == customerID {
			out = append(out, *o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (m *memStore) RecordPayment(_ context.Context, orderStatus string, p *models.Payment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[p.OrderID]
	if !ok {
		return database.ErrNotFound
	}
	if _, paid := m.payments[p.OrderID]; paid {
		return database.ErrDuplicate
	}
	o.Status = orderStatus
	p.ID = m.id()
	cp := *p
	m.payments[p.OrderID] = &cp
	return nil
}

func (m *memStore) GetPaymentByOrder(_ context.Context, orderID int64) (*models.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.payments[orderID]
	if !ok {
		return nil, database.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *memStore) ListTemplates(_ context.Context) ([]models.Template, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Template, 0, len(m.templates))
	for _, t := range m.templates {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memStore) GetTemplate(_ context.Context, id int64) (*models.Template, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.templates[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (m *memStore) FirstTemplateByType(ctx context.Context, tt models.TemplateType) (*models.Template, error) {
	all, _ := m.ListTemplates(ctx)
	for _, t := range all {
		if t.TemplateType == tt {
			t := t
			return &t, nil
		}
	}
	return nil, database.ErrNotFound
}

func (m *memStore) CreateTemplate(_ context.Context, t *models.Template) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t.ID = m.id()
	cp := *t
	m.templates[t.ID] = &cp
	return nil
}

func (m *memStore) UpdateTemplate(_ context.Context, t *models.Template) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.templates[t.ID]; !ok {
		return database.ErrNotFound
	}
	cp := *t
	m.templates[t.ID] = &cp
	return nil
}

func (m *memStore) DeleteTemplate(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.templates[id]; !ok {
		return database.ErrNotFound
	}
	delete(m.templates, id)
	return nil
}

// recordingAuditor garde les entrées d'audit pour les assertions
type recordingAuditor struct {
	mu      sync.Mutex
	entries []models.AuditLog
}

func (a *recordingAuditor) Record(_ context.Context, e models.AuditLog) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.entries = append(a.entries, e)
}

func (a *recordingAuditor) actions() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]string, 0, len(a.entries))
	for _, e := range a.entries {
		out = append(out, e.Action)
	}
	return out
}

// fakeRenderer renvoie le HTML reçu préfixé d'un en-tête PDF
type fakeRenderer struct {
	inputs []string
	err    error
}

func (r *fakeRenderer) RenderPDF(_ context.Context, html string) ([]byte, error) {
	r.inputs = append(r.inputs, html)
	if r.err != nil {
		return nil, r.err
	}
	return []byte("%PDF-1.4\n" + html), nil
}

type fakeMailer struct {
	sent []Email
	err  error
}

func (m *fakeMailer) Send(_ context.Context, e Email) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, e)
	return nil
}

type fakeArchive struct {
	stored map[string][]byte
	err    error
}

func (a *fakeArchive) Store(_ context.Context, orderNumber string, pdf []byte) error {
	if a.err != nil {
		return a.err
	}
	if a.stored == nil {
		a.stored = map[string][]byte{}
	}
	a.stored[orderNumber] = pdf
	return nil
}

func (a *fakeArchive) SignedURL(_ context.Context, orderNumber string) (string, error) {
	if a.err != nil {
		return "", a.err
	}
	return "https://minio.local/invoices/" + orderNumber + ".pdf?X-Amz-Signature=abc", nil
}
