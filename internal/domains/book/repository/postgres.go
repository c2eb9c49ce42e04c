package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"bookheaven-backend/internal/domains/book/model"
	"bookheaven-backend/internal/querybuilder"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) RepositoryInterface {
	return &postgresRepository{pool: pool}
}

// bookJoins fans an edition out to one row per author x tag
const bookJoins = `
	FROM book_editions e
	JOIN book_works w ON w.id = e.work_id
	LEFT JOIN book_work_authors wa ON wa.work_id = w.id
	LEFT JOIN authors a ON a.id = wa.author_id
	LEFT JOIN book_work_tags wt ON wt.work_id = w.id
	LEFT JOIN tags t ON t.id = wt.tag_id
`

// buildSearchQuery pages distinct edition ids under the row predicate, then
// joins every author and tag of those editions
func buildSearchQuery(criteria querybuilder.Criteria) (string, []any) {
	args := querybuilder.NewArgs(1)
	where := model.Predicate(criteria).Render(args)
	limit := args.Add(criteria.Limit)
	offset := args.Add(criteria.Offset)

	query := fmt.Sprintf(`
		WITH page AS (
			SELECT e.id, e.title
			%s
			WHERE %s
			GROUP BY e.id, e.title
			ORDER BY e.title, e.id
			LIMIT %s OFFSET %s
		)
		SELECT
			e.id::text, e.work_id::text, e.title, e.edition_label, e.publisher, e.isbn,
			e.price, e.like_count,
			w.title, w.original_title, w.description,
			a.id::text, a.name, t.id::text, t.name
		FROM page p
		JOIN book_editions e ON e.id = p.id
		JOIN book_works w ON w.id = e.work_id
		LEFT JOIN book_work_authors wa ON wa.work_id = w.id
		LEFT JOIN authors a ON a.id = wa.author_id
		LEFT JOIN book_work_tags wt ON wt.work_id = w.id
		LEFT JOIN tags t ON t.id = wt.tag_id
		ORDER BY p.title, p.id, a.name, t.name
	`, bookJoins, where, limit, offset)

	return query, args.Values()
}

func buildCountQuery(criteria querybuilder.Criteria) (string, []any) {
	where, args := model.Predicate(criteria).SQL(1)
	return fmt.Sprintf(`SELECT COUNT(DISTINCT e.id) %s WHERE %s`, bookJoins, where), args
}

func (r *postgresRepository) Search(ctx context.Context, criteria querybuilder.Criteria) ([]model.JoinedRow, error) {
	query, args := buildSearchQuery(criteria)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search books: %w", err)
	}
	defer rows.Close()

	var result []model.JoinedRow
	for rows.Next() {
		var row model.JoinedRow
		if err := rows.Scan(
			&row.EditionID, &row.WorkID, &row.Title, &row.EditionLabel, &row.Publisher, &row.ISBN,
			&row.Price, &row.LikeCount,
			&row.WorkTitle, &row.OriginalTitle, &row.Description,
			&row.AuthorID, &row.AuthorName, &row.TagID, &row.TagName,
		); err != nil {
			return nil, fmt.Errorf("failed to scan book row: %w", err)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate book rows: %w", err)
	}

	return result, nil
}

func (r *postgresRepository) Count(ctx context.Context, criteria querybuilder.Criteria) (int, error) {
	query, args := buildCountQuery(criteria)

	var total int
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count books: %w", err)
	}
	return total, nil
}
