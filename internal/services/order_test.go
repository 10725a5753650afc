package services

import (
	"context"
	"strings"
	"testing"

	"invoice_back_end/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOrderService(store *memStore) *OrderService {
	svc := NewOrderService(store, store, NopAuditor{}, quietLogger())
	svc.now = fixedClock
	return svc
}

var jane = models.Identity{CustomerID: 7, Name: "Jane", Email: "jane@example.com", Role: models.RoleCustomer}

func TestCreateOrder_FiltersLinesAndSumsTotal(t *testing.T) {
	store := newMemStore()
	store.seedCatalog()
	svc := newOrderService(store)

	order, err := svc.CreateOrder(context.Background(), jane, []LineRequest{
		{ProductID: 1, Quantity: 2},
		{ProductID: 2, Quantity: 0},
		{ProductID: 3, Quantity: 1},
		{ProductID: 99, Quantity: 4},
		{ProductID: 2, Quantity: -3},
	})
	require.NoError(t, err)

	require.Len(t, order.Items, 2)
	assert.Equal(t, int64(1), order.Items[0].ProductID)
	assert.Equal(t, int64(3), order.Items[1].ProductID)

	want := decimal.RequireFromString("18499.99").Mul(decimal.NewFromInt(2)).
		Add(decimal.RequireFromString("1349.99"))
	assert.True(t, want.Equal(order.TotalAmount), "total %s", order.TotalAmount)

	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, jane.CustomerID, order.CustomerID)
	assert.True(t, strings.HasPrefix(order.OrderNumber, "ORD-"))
	assert.Equal(t, fixedClock(), order.OrderDate)

	stored, err := store.GetOrder(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Items, 2)
}

func TestCreateOrder_SnapshotsPrice(t *testing.T) {
	store := newMemStore()
	store.seedCatalog()
	svc := newOrderService(store)

	order, err := svc.CreateOrder(context.Background(), jane, []LineRequest{{ProductID: 2, Quantity: 1}})
	require.NoError(t, err)

	store.products[2].UnitPrice = decimal.NewFromInt(1)

	stored, err := store.GetOrder(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, "15699.00", stored.Items[0].UnitPrice.StringFixed(2))
}

func TestCreateOrder_EmptyList(t *testing.T) {
	svc := newOrderService(newMemStore())

	_, err := svc.CreateOrder(context.Background(), jane, nil)
	assert.ErrorIs(t, err, ErrEmptyOrder)
}

func TestCreateOrder_AllLinesSkippedStillPersists(t *testing.T) {
	store := newMemStore()
	store.seedCatalog()
	svc := newOrderService(store)

	order, err := svc.CreateOrder(context.Background(), jane, []LineRequest{{ProductID: 1, Quantity: 0}})
	require.NoError(t, err)
	assert.Empty(t, order.Items)
	assert.True(t, order.TotalAmount.IsZero())
	assert.Len(t, store.orders, 1)
}

func TestCreateOrder_RequiresIdentity(t *testing.T) {
	svc := newOrderService(newMemStore())

	_, err := svc.CreateOrder(context.Background(), models.Identity{}, []LineRequest{{ProductID: 1, Quantity: 1}})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestListAndGetOrders(t *testing.T) {
	store := newMemStore()
	store.seedCatalog()
	svc := newOrderService(store)
	ctx := context.Background()

	mine, err := svc.CreateOrder(ctx, jane, []LineRequest{{ProductID: 1, Quantity: 1}})
	require.NoError(t, err)
	other := models.Identity{CustomerID: 8, Name: "John"}
	_, err = svc.CreateOrder(ctx, other, []LineRequest{{ProductID: 3, Quantity: 1}})
	require.NoError(t, err)

	orders, err := svc.ListOrders(ctx, jane)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, mine.ID, orders[0].ID)

	got, err := svc.GetOrder(ctx, mine.ID)
	require.NoError(t, err)
	assert.Equal(t, mine.OrderNumber, got.OrderNumber)

	_, err = svc.GetOrder(ctx, 12345)
	assert.ErrorIs(t, err, ErrNotFound)
}
