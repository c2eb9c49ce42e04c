package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"bookheaven-backend/internal/domains/author/model"
	"bookheaven-backend/internal/querybuilder"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) RepositoryInterface {
	return &postgresRepository{pool: pool}
}

const authorJoins = `
	FROM authors a
	LEFT JOIN book_work_authors wa ON wa.author_id = a.id
	LEFT JOIN book_works w ON w.id = wa.work_id
	LEFT JOIN book_work_tags wt ON wt.work_id = w.id
`

func buildSearchQuery(criteria querybuilder.Criteria) (string, []any) {
	args := querybuilder.NewArgs(1)
	where := model.Predicate(criteria).Render(args)
	limit := args.Add(criteria.Limit)
	offset := args.Add(criteria.Offset)

	query := fmt.Sprintf(`
		WITH page AS (
			SELECT a.id, a.name
			%s
			WHERE %s
			GROUP BY a.id, a.name
			ORDER BY a.name, a.id
			LIMIT %s OFFSET %s
		)
		SELECT a.id::text, a.name, a.biography, w.id::text, w.title
		FROM page p
		JOIN authors a ON a.id = p.id
		LEFT JOIN book_work_authors wa ON wa.author_id = a.id
		LEFT JOIN book_works w ON w.id = wa.work_id
		ORDER BY p.name, p.id, w.title
	`, authorJoins, where, limit, offset)

	return query, args.Values()
}

func buildCountQuery(criteria querybuilder.Criteria) (string, []any) {
	where, args := model.Predicate(criteria).SQL(1)
	return fmt.Sprintf(`SELECT COUNT(DISTINCT a.id) %s WHERE %s`, authorJoins, where), args
}

func (r *postgresRepository) Search(ctx context.Context, criteria querybuilder.Criteria) ([]model.JoinedRow, error) {
	query, args := buildSearchQuery(criteria)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search authors: %w", err)
	}
	defer rows.Close()

	var result []model.JoinedRow
	for rows.Next() {
		var row model.JoinedRow
		if err := rows.Scan(&row.AuthorID, &row.Name, &row.Biography, &row.WorkID, &row.WorkTitle); err != nil {
			return nil, fmt.Errorf("failed to scan author row: %w", err)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate author rows: %w", err)
	}

	return result, nil
}

func (r *postgresRepository) Count(ctx context.Context, criteria querybuilder.Criteria) (int, error) {
	query, args := buildCountQuery(criteria)

	var total int
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count authors: %w", err)
	}
	return total, nil
}
