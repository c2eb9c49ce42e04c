package service

import (
	"context"

	"bookheaven-backend/internal/domains/order/model"
	"bookheaven-backend/internal/querybuilder"
)

type ServiceInterface interface {
	// ListUserOrders searches the user's own orders
	ListUserOrders(ctx context.Context, userID string, req model.SearchOrdersRequest) (*querybuilder.Result[model.Order], error)

	// ListAllOrders searches every order (admin)
	ListAllOrders(ctx context.Context, req model.SearchOrdersRequest) (*querybuilder.Result[model.Order], error)

	// CancelOrder cancels the user's pending or confirmed order
	CancelOrder(ctx context.Context, userID, orderID string, req model.CancelOrderRequest) (*model.Order, error)
}
