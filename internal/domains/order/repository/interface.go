package repository

import (
	"context"

	"bookheaven-backend/internal/domains/order/model"
)

// =====================================================
// ORDER REPOSITORY INTERFACE
// =====================================================

type OrderRepository interface {
	// Search returns the order x item rows of the orders on the page
	Search(ctx context.Context, filter model.Filter) ([]model.JoinedRow, error)

	// Count returns the number of distinct orders matching filter
	Count(ctx context.Context, filter model.Filter) (int, error)

	// CancelOrder cancels the user's order when its status allows it. The
	// owner and status checks run in the same statement as the update.
	CancelOrder(ctx context.Context, userID, orderID, reason string) (*model.Order, error)
}
