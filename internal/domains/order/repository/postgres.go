package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"

	"bookheaven-backend/internal/domains/order/model"
	"bookheaven-backend/internal/querybuilder"
)

type postgresOrderRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresOrderRepository(pool *pgxpool.Pool) OrderRepository {
	return &postgresOrderRepository{pool: pool}
}

const orderJoins = `
	FROM orders o
	LEFT JOIN order_items oi ON oi.order_id = o.id
`

func buildSearchQuery(filter model.Filter) (string, []any) {
	args := querybuilder.NewArgs(1)
	where := filter.Predicate().Render(args)
	limit := args.Add(filter.Limit)
	offset := args.Add(filter.Offset)

	query := fmt.Sprintf(`
		WITH page AS (
			SELECT o.id, o.created_at
			%s
			WHERE %s
			GROUP BY o.id, o.created_at
			ORDER BY o.created_at DESC, o.id
			LIMIT %s OFFSET %s
		)
		SELECT
			o.id::text, o.order_number, o.user_id::text, o.status, o.total,
			o.cancellation_reason, o.cancelled_at, o.created_at, o.updated_at,
			oi.edition_id::text, oi.title, oi.quantity, oi.unit_price
		FROM page p
		JOIN orders o ON o.id = p.id
		LEFT JOIN order_items oi ON oi.order_id = o.id
		ORDER BY p.created_at DESC, p.id, oi.title
	`, orderJoins, where, limit, offset)

	return query, args.Values()
}

func buildCountQuery(filter model.Filter) (string, []any) {
	where, args := filter.Predicate().SQL(1)
	return fmt.Sprintf(`SELECT COUNT(DISTINCT o.id) %s WHERE %s`, orderJoins, where), args
}

func (r *postgresOrderRepository) Search(ctx context.Context, filter model.Filter) ([]model.JoinedRow, error) {
	query, args := buildSearchQuery(filter)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search orders: %w", err)
	}
	defer rows.Close()

	var result []model.JoinedRow
	for rows.Next() {
		var row model.JoinedRow
		if err := rows.Scan(
			&row.OrderID, &row.OrderNumber, &row.UserID, &row.Status, &row.Total,
			&row.CancellationReason, &row.CancelledAt, &row.CreatedAt, &row.UpdatedAt,
			&row.EditionID, &row.Title, &row.Quantity, &row.UnitPrice,
		); err != nil {
			return nil, fmt.Errorf("failed to scan order row: %w", err)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate order rows: %w", err)
	}

	return result, nil
}

func (r *postgresOrderRepository) Count(ctx context.Context, filter model.Filter) (int, error) {
	query, args := buildCountQuery(filter)

	var total int
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count orders: %w", err)
	}
	return total, nil
}

func (r *postgresOrderRepository) CancelOrder(ctx context.Context, userID, orderID, reason string) (*model.Order, error) {
	statuses := make([]string, 0, len(model.CancellableStatuses()))
	for _, s := range model.CancellableStatuses() {
		statuses = append(statuses, s.String())
	}

	query := `
		UPDATE orders
		SET status = $4,
			cancellation_reason = $5,
			cancelled_at = NOW(),
			updated_at = NOW()
		WHERE id = $1 AND user_id = $2 AND status = ANY($3)
		RETURNING id::text, order_number, user_id::text, status, total,
			cancellation_reason, cancelled_at, created_at, updated_at
	`

	var o model.Order
	err := r.pool.QueryRow(ctx, query,
		orderID, userID, pq.Array(statuses), model.OrderStatusCancelled, reason,
	).Scan(
		&o.ID, &o.OrderNumber, &o.UserID, &o.Status, &o.Total,
		&o.CancellationReason, &o.CancelledAt, &o.CreatedAt, &o.UpdatedAt,
	)
	if err == nil {
		return &o, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("failed to cancel order: %w", err)
	}

	// Nothing updated: report why. This read never writes.
	var status model.OrderStatus
	err = r.pool.QueryRow(ctx,
		`SELECT status FROM orders WHERE id = $1 AND user_id = $2`, orderID, userID,
	).Scan(&status)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get order status: %w", err)
	}
	return nil, model.NewOrderCannotCancelError(status)
}
