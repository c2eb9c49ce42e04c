package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookheaven-backend/internal/config"
	"bookheaven-backend/internal/domains/order/model"
	"bookheaven-backend/internal/domains/order/repository"
	"bookheaven-backend/internal/shared/pagination"
)

func fixture() ServiceInterface {
	day := func(d int) time.Time { return time.Date(2026, 3, d, 10, 0, 0, 0, time.UTC) }
	price := decimal.RequireFromString

	orders := []model.Order{
		{
			ID: "o1", OrderNumber: "BH-1001", UserID: "alice", Status: model.OrderStatusPending, CreatedAt: day(1),
			Items: []model.OrderItem{
				{EditionID: "e-dune", Title: "Dune", Quantity: 2, UnitPrice: price("10.50")},
				{EditionID: "e-emma", Title: "Emma", Quantity: 1, UnitPrice: price("7.25")},
			},
		},
		{
			ID: "o2", OrderNumber: "BH-1002", UserID: "alice", Status: model.OrderStatusDelivered, CreatedAt: day(2),
			Items: []model.OrderItem{{EditionID: "e-mort", Title: "Mort", Quantity: 1, UnitPrice: price("8")}},
		},
		{
			ID: "o3", OrderNumber: "BH-1003", UserID: "bob", Status: model.OrderStatusPending, CreatedAt: day(3),
			Items: []model.OrderItem{{EditionID: "e-dune", Title: "Dune", Quantity: 1, UnitPrice: price("10.50")}},
		},
	}
	cfg := config.SearchConfig{DefaultLimit: 20, MaxLimit: 100}
	return NewOrderService(repository.NewMemoryOrderRepository(orders...), cfg)
}

func orderIDs(orders []model.Order) []string {
	var ids []string
	for _, o := range orders {
		ids = append(ids, o.ID)
	}
	return ids
}

func TestListUserOrders_ScopedToOwner(t *testing.T) {
	t.Parallel()
	svc := fixture()

	result, err := svc.ListUserOrders(context.Background(), "alice", model.SearchOrdersRequest{})
	require.NoError(t, err)
	assert.Equal(t, []string{"o2", "o1"}, orderIDs(result.Items))
	assert.Equal(t, 2, result.Pagination.Total)

	// totals are exact decimals
	assert.True(t, result.Items[1].Total.Equal(decimal.RequireFromString("28.25")))
	assert.Len(t, result.Items[1].Items, 2)
}

func TestListUserOrders_SearchItemTitleAndStatus(t *testing.T) {
	t.Parallel()
	svc := fixture()
	ctx := context.Background()

	result, err := svc.ListUserOrders(ctx, "alice", model.SearchOrdersRequest{Search: "dune"})
	require.NoError(t, err)
	assert.Equal(t, []string{"o1"}, orderIDs(result.Items))
	// the matching order keeps all of its items
	assert.Len(t, result.Items[0].Items, 2)

	result, err = svc.ListUserOrders(ctx, "alice", model.SearchOrdersRequest{Status: "delivered"})
	require.NoError(t, err)
	assert.Equal(t, []string{"o2"}, orderIDs(result.Items))

	result, err = svc.ListUserOrders(ctx, "alice", model.SearchOrdersRequest{Search: "bh-1003"})
	require.NoError(t, err)
	assert.Empty(t, result.Items)
	assert.True(t, result.Pagination.IsEmpty())
}

func TestListUserOrders_InvalidStatus(t *testing.T) {
	t.Parallel()
	svc := fixture()

	_, err := svc.ListUserOrders(context.Background(), "alice", model.SearchOrdersRequest{Status: "lost"})
	assert.ErrorIs(t, err, model.ErrInvalidRequest)
}

func TestListAllOrders_Paginates(t *testing.T) {
	t.Parallel()
	svc := fixture()

	req := model.SearchOrdersRequest{Params: pagination.Params{Page: 2, Limit: 2}}
	result, err := svc.ListAllOrders(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, []string{"o1"}, orderIDs(result.Items))
	assert.Equal(t, pagination.Meta{Page: 2, Limit: 2, Total: 3, PageCount: 2}, result.Pagination)
}

func TestCancelOrder(t *testing.T) {
	t.Parallel()
	svc := fixture()
	ctx := context.Background()
	req := model.CancelOrderRequest{Reason: "changed my mind"}

	// someone else's order looks missing
	_, err := svc.CancelOrder(ctx, "bob", "o1", req)
	assert.ErrorIs(t, err, model.ErrOrderNotFound)

	_, err = svc.CancelOrder(ctx, "alice", "o2", req)
	assert.ErrorIs(t, err, model.ErrOrderCannotCancel)

	order, err := svc.CancelOrder(ctx, "alice", "o1", req)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusCancelled, order.Status)
	require.NotNil(t, order.CancellationReason)
	assert.Equal(t, "changed my mind", *order.CancellationReason)

	_, err = svc.CancelOrder(ctx, "alice", "o1", req)
	assert.ErrorIs(t, err, model.ErrOrderCannotCancel)
}

func TestCancelOrder_ReasonRequired(t *testing.T) {
	t.Parallel()
	svc := fixture()

	_, err := svc.CancelOrder(context.Background(), "alice", "o1", model.CancelOrderRequest{})
	assert.ErrorIs(t, err, model.ErrInvalidRequest)
}
