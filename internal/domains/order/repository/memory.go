package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"bookheaven-backend/internal/domains/order/model"
)

type memoryOrderRepository struct {
	mu     sync.Mutex
	orders []model.Order
	now    func() time.Time
}

// NewMemoryOrderRepository creates a repository over orders. Total is
// recomputed from the items.
func NewMemoryOrderRepository(orders ...model.Order) OrderRepository {
	r := &memoryOrderRepository{now: time.Now}
	for _, o := range orders {
		o.Total = o.ItemsTotal()
		r.orders = append(r.orders, o)
	}
	sort.SliceStable(r.orders, func(i, j int) bool {
		if !r.orders[i].CreatedAt.Equal(r.orders[j].CreatedAt) {
			return r.orders[i].CreatedAt.After(r.orders[j].CreatedAt)
		}
		return r.orders[i].ID < r.orders[j].ID
	})
	return r
}

func rows(o model.Order) []model.JoinedRow {
	base := model.JoinedRow{
		OrderID:            o.ID,
		OrderNumber:        o.OrderNumber,
		UserID:             o.UserID,
		Status:             o.Status,
		Total:              o.Total,
		CancellationReason: o.CancellationReason,
		CancelledAt:        o.CancelledAt,
		CreatedAt:          o.CreatedAt,
		UpdatedAt:          o.UpdatedAt,
	}
	if len(o.Items) == 0 {
		return []model.JoinedRow{base}
	}

	out := make([]model.JoinedRow, 0, len(o.Items))
	for i := range o.Items {
		item := o.Items[i]
		row := base
		row.EditionID, row.Title, row.Quantity = &item.EditionID, &item.Title, &item.Quantity
		row.UnitPrice.Decimal, row.UnitPrice.Valid = item.UnitPrice, true
		out = append(out, row)
	}
	return out
}

func (r *memoryOrderRepository) matching(filter model.Filter) [][]model.JoinedRow {
	pred := filter.Predicate()

	var matched [][]model.JoinedRow
	for _, o := range r.orders {
		orderRows := rows(o)
		for _, row := range orderRows {
			if pred.Match(row) {
				matched = append(matched, orderRows)
				break
			}
		}
	}
	return matched
}

func (r *memoryOrderRepository) Search(_ context.Context, filter model.Filter) ([]model.JoinedRow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	matched := r.matching(filter)
	if filter.Offset >= len(matched) {
		return nil, nil
	}
	end := len(matched)
	if filter.Limit > 0 && filter.Offset+filter.Limit < end {
		end = filter.Offset + filter.Limit
	}

	var out []model.JoinedRow
	for _, orderRows := range matched[filter.Offset:end] {
		out = append(out, orderRows...)
	}
	return out, nil
}

func (r *memoryOrderRepository) Count(_ context.Context, filter model.Filter) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.matching(filter)), nil
}

func (r *memoryOrderRepository) CancelOrder(_ context.Context, userID, orderID, reason string) (*model.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.orders {
		o := &r.orders[i]
		if o.ID != orderID || o.UserID != userID {
			continue
		}
		if !o.Status.CanCancel() {
			return nil, model.NewOrderCannotCancelError(o.Status)
		}

		now := r.now()
		o.Status = model.OrderStatusCancelled
		o.CancellationReason = &reason
		o.CancelledAt = &now
		o.UpdatedAt = now

		cancelled := *o
		cancelled.Items = nil
		return &cancelled, nil
	}
	return nil, model.ErrOrderNotFound
}
