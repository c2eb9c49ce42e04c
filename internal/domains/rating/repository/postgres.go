package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"bookheaven-backend/internal/domains/rating/model"
)

// =====================================================
// POSTGRES REPOSITORY IMPLEMENTATION
// =====================================================

type postgresRatingRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRatingRepository(pool *pgxpool.Pool) RatingRepository {
	return &postgresRatingRepository{pool: pool}
}

func (r *postgresRatingRepository) Upsert(ctx context.Context, rating *model.Rating) error {
	// ratings_user_work_edition_key is UNIQUE NULLS NOT DISTINCT, so a
	// work-level rating (edition NULL) conflicts with itself too
	query := `
		INSERT INTO ratings (id, work_id, edition_id, user_id, value, review, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		ON CONFLICT (user_id, work_id, edition_id) DO UPDATE SET
			value = EXCLUDED.value,
			review = EXCLUDED.review,
			updated_at = NOW()
		RETURNING id::text, like_count, created_at, updated_at
	`

	err := r.pool.QueryRow(ctx, query,
		uuid.NewString(), rating.WorkID, rating.EditionID, rating.UserID, rating.Value, rating.Review,
	).Scan(&rating.ID, &rating.LikeCount, &rating.CreatedAt, &rating.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return model.ErrWorkNotFound
		}
		return fmt.Errorf("failed to upsert rating: %w", err)
	}

	return nil
}

func (r *postgresRatingRepository) ListByWork(ctx context.Context, workID string, limit, offset int) ([]model.Rating, error) {
	query := `
		SELECT id::text, work_id::text, edition_id::text, user_id::text,
			value, review, like_count, created_at, updated_at
		FROM ratings
		WHERE work_id = $1
		ORDER BY updated_at DESC, id
		LIMIT $2 OFFSET $3
	`

	rows, err := r.pool.Query(ctx, query, workID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list ratings: %w", err)
	}
	defer rows.Close()

	var ratings []model.Rating
	for rows.Next() {
		var rt model.Rating
		if err := rows.Scan(
			&rt.ID, &rt.WorkID, &rt.EditionID, &rt.UserID,
			&rt.Value, &rt.Review, &rt.LikeCount, &rt.CreatedAt, &rt.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan rating: %w", err)
		}
		ratings = append(ratings, rt)
	}

	return ratings, rows.Err()
}

func (r *postgresRatingRepository) CountByWork(ctx context.Context, workID string) (int, error) {
	var total int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM ratings WHERE work_id = $1`, workID).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to count ratings: %w", err)
	}
	return total, nil
}

func (r *postgresRatingRepository) Breakdown(ctx context.Context, workID string) (map[int]int, error) {
	query := `
		SELECT value, COUNT(*) AS count
		FROM ratings
		WHERE work_id = $1
		GROUP BY value
	`

	rows, err := r.pool.Query(ctx, query, workID)
	if err != nil {
		return nil, fmt.Errorf("failed to get rating breakdown: %w", err)
	}
	defer rows.Close()

	breakdown := make(map[int]int)
	for rows.Next() {
		var value, count int
		if err := rows.Scan(&value, &count); err != nil {
			return nil, fmt.Errorf("failed to scan breakdown: %w", err)
		}
		breakdown[value] = count
	}

	return breakdown, rows.Err()
}

func (r *postgresRatingRepository) Delete(ctx context.Context, userID, ratingID string) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM ratings WHERE id = $1 AND user_id = $2`, ratingID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete rating: %w", err)
	}
	if result.RowsAffected() == 0 {
		return model.ErrRatingNotFound
	}
	return nil
}
