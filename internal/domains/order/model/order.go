package model

import (
	"time"

	"github.com/shopspring/decimal"

	"bookheaven-backend/internal/querybuilder"
)

// OrderStatus represents order status
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusConfirmed  OrderStatus = "confirmed"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipping   OrderStatus = "shipping"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
	OrderStatusReturned   OrderStatus = "returned"
)

func (os OrderStatus) IsValid() bool {
	switch os {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusProcessing,
		OrderStatusShipping, OrderStatusDelivered, OrderStatusCancelled, OrderStatusReturned:
		return true
	}
	return false
}

func (os OrderStatus) String() string {
	return string(os)
}

// CancellableStatuses are the statuses a customer may cancel from
func CancellableStatuses() []OrderStatus {
	return []OrderStatus{OrderStatusPending, OrderStatusConfirmed}
}

// CanCancel checks if order can be cancelled by the customer
func (os OrderStatus) CanCancel() bool {
	for _, s := range CancellableStatuses() {
		if os == s {
			return true
		}
	}
	return false
}

type OrderItem struct {
	EditionID string          `json:"edition_id"`
	Title     string          `json:"title"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// Subtotal = unit price x quantity
func (i OrderItem) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

type Order struct {
	ID                 string          `json:"id"`
	OrderNumber        string          `json:"order_number"`
	UserID             string          `json:"user_id"`
	Status             OrderStatus     `json:"status"`
	Total              decimal.Decimal `json:"total"`
	CancellationReason *string         `json:"cancellation_reason,omitempty"`
	CancelledAt        *time.Time      `json:"cancelled_at,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
	Items              []OrderItem     `json:"items"`
}

// ItemsTotal sums item subtotals
func (o Order) ItemsTotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.Subtotal())
	}
	return total
}

// =====================================================
// SEARCH
// =====================================================

const (
	ColOrderID     = "o.id"
	ColOrderNumber = "o.order_number"
	ColUserID      = "o.user_id"
	ColStatus      = "o.status"
	ColItemTitle   = "oi.title"
)

// Filter narrows an order search. An empty UserID searches every user's orders.
type Filter struct {
	UserID string
	Status OrderStatus
	Search string
	Limit  int
	Offset int
}

// Predicate is the row-level filter. The owner predicate is part of it, so
// both the page and the count are scoped in the same statement.
func (f Filter) Predicate() *querybuilder.Predicate {
	var owner, status any
	if f.UserID != "" {
		owner = f.UserID
	}
	if f.Status != "" {
		status = string(f.Status)
	}
	return querybuilder.Where(
		querybuilder.Equals(ColUserID, owner),
		querybuilder.Equals(ColStatus, status),
		querybuilder.TextSearch(f.Search, ColOrderNumber, ColItemTitle),
	)
}

// JoinedRow is one order x item row
type JoinedRow struct {
	OrderID            string
	OrderNumber        string
	UserID             string
	Status             OrderStatus
	Total              decimal.Decimal
	CancellationReason *string
	CancelledAt        *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
	EditionID          *string
	Title              *string
	Quantity           *int
	UnitPrice          decimal.NullDecimal
}

func (r JoinedRow) Value(column string) (string, bool) {
	switch column {
	case ColOrderID:
		return r.OrderID, true
	case ColOrderNumber:
		return r.OrderNumber, true
	case ColUserID:
		return r.UserID, true
	case ColStatus:
		return string(r.Status), true
	case ColItemTitle:
		if r.Title == nil {
			return "", false
		}
		return *r.Title, true
	}
	return "", false
}

// Fold collapses order x item rows into orders
func Fold(rows []JoinedRow) []Order {
	type folded struct {
		order Order
		items *querybuilder.UniqueList[string, OrderItem]
	}
	folder := querybuilder.NewFolder[string, folded]()

	for _, row := range rows {
		f := folder.Upsert(row.OrderID, func() folded {
			return folded{
				order: Order{
					ID:                 row.OrderID,
					OrderNumber:        row.OrderNumber,
					UserID:             row.UserID,
					Status:             row.Status,
					Total:              row.Total,
					CancellationReason: row.CancellationReason,
					CancelledAt:        row.CancelledAt,
					CreatedAt:          row.CreatedAt,
					UpdatedAt:          row.UpdatedAt,
				},
				items: querybuilder.NewUniqueList[string, OrderItem](),
			}
		})

		if row.EditionID != nil {
			item := OrderItem{EditionID: *row.EditionID, UnitPrice: row.UnitPrice.Decimal}
			if row.Title != nil {
				item.Title = *row.Title
			}
			if row.Quantity != nil {
				item.Quantity = *row.Quantity
			}
			f.items.Add(item.EditionID, item)
		}
	}

	orders := make([]Order, 0, folder.Len())
	for _, f := range folder.Values() {
		o := f.order
		o.Items = f.items.Items()
		orders = append(orders, o)
	}
	return orders
}
