package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"bookheaven-backend/internal/domains/tag/model"
	"bookheaven-backend/internal/querybuilder"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) RepositoryInterface {
	return &postgresRepository{pool: pool}
}

const tagJoins = `
	FROM tags t
	LEFT JOIN book_work_tags wt ON wt.tag_id = t.id
	LEFT JOIN book_work_authors wa ON wa.work_id = wt.work_id
`

func buildSearchQuery(criteria querybuilder.Criteria) (string, []any) {
	args := querybuilder.NewArgs(1)
	where := model.Predicate(criteria).Render(args)
	limit := args.Add(criteria.Limit)
	offset := args.Add(criteria.Offset)

	query := fmt.Sprintf(`
		SELECT t.id::text, t.name, COUNT(DISTINCT bt.work_id) AS book_count
		FROM tags t
		LEFT JOIN book_work_tags bt ON bt.tag_id = t.id
		WHERE t.id IN (SELECT t.id %s WHERE %s)
		GROUP BY t.id, t.name
		ORDER BY t.name, t.id
		LIMIT %s OFFSET %s
	`, tagJoins, where, limit, offset)

	return query, args.Values()
}

func buildCountQuery(criteria querybuilder.Criteria) (string, []any) {
	where, args := model.Predicate(criteria).SQL(1)
	return fmt.Sprintf(`SELECT COUNT(DISTINCT t.id) %s WHERE %s`, tagJoins, where), args
}

func (r *postgresRepository) Search(ctx context.Context, criteria querybuilder.Criteria) ([]model.Tag, error) {
	query, args := buildSearchQuery(criteria)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search tags: %w", err)
	}
	defer rows.Close()

	var tags []model.Tag
	for rows.Next() {
		var t model.Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.BookCount); err != nil {
			return nil, fmt.Errorf("failed to scan tag: %w", err)
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

func (r *postgresRepository) Count(ctx context.Context, criteria querybuilder.Criteria) (int, error) {
	query, args := buildCountQuery(criteria)

	var total int
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count tags: %w", err)
	}
	return total, nil
}
