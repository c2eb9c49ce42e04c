package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"bookheaven-backend/internal/domains/like/model"
	"bookheaven-backend/pkg/database"
)

// =====================================================
// POSTGRES REPOSITORY IMPLEMENTATION
// =====================================================

type postgresLikeRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresLikeRepository(pool *pgxpool.Pool) LikeRepository {
	return &postgresLikeRepository{pool: pool}
}

func (r *postgresLikeRepository) CheckLiked(ctx context.Context, userID string, subject model.Subject) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM likes
			WHERE user_id = $1 AND subject_kind = $2 AND subject_id = $3
		)
	`

	var liked bool
	if err := r.pool.QueryRow(ctx, query, userID, subject.Kind, subject.ID).Scan(&liked); err != nil {
		return false, fmt.Errorf("failed to check like: %w", err)
	}
	return liked, nil
}

func (r *postgresLikeRepository) GetStatus(ctx context.Context, userID string, subject model.Subject) (*model.Status, error) {
	// table name comes from the closed SubjectKind set, never from input
	query := fmt.Sprintf(`
		SELECT p.like_count,
			EXISTS (
				SELECT 1 FROM likes l
				WHERE l.user_id = $1 AND l.subject_kind = $2 AND l.subject_id = p.id
			)
		FROM %s p
		WHERE p.id = $3
	`, subject.Kind.Table())

	status := &model.Status{Subject: subject}
	err := r.pool.QueryRow(ctx, query, userID, subject.Kind, subject.ID).Scan(&status.LikeCount, &status.Liked)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrSubjectNotFound
		}
		return nil, fmt.Errorf("failed to get like status: %w", err)
	}
	return status, nil
}

func (r *postgresLikeRepository) ToggleLiked(ctx context.Context, userID string, subject model.Subject) (*model.Status, error) {
	table := subject.Kind.Table()

	return database.WithTransactionResult(ctx, r.pool, func(tx pgx.Tx) (*model.Status, error) {
		// Step 1: lock the parent row so concurrent toggles serialise on it
		var count int
		lockSQL := fmt.Sprintf(`SELECT like_count FROM %s WHERE id = $1 FOR UPDATE`, table)
		if err := tx.QueryRow(ctx, lockSQL, subject.ID).Scan(&count); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, model.ErrSubjectNotFound
			}
			return nil, fmt.Errorf("failed to lock like subject: %w", err)
		}

		// Step 2: unlike if a row exists, like otherwise
		result, err := tx.Exec(ctx, `
			DELETE FROM likes
			WHERE user_id = $1 AND subject_kind = $2 AND subject_id = $3
		`, userID, subject.Kind, subject.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to delete like: %w", err)
		}

		liked := result.RowsAffected() == 0
		delta := -1
		if liked {
			delta = 1
			if _, err := tx.Exec(ctx, `
				INSERT INTO likes (user_id, subject_kind, subject_id, created_at)
				VALUES ($1, $2, $3, NOW())
			`, userID, subject.Kind, subject.ID); err != nil {
				return nil, fmt.Errorf("failed to insert like: %w", err)
			}
		}

		// Step 3: keep the denormalised count in step
		updateSQL := fmt.Sprintf(`
			UPDATE %s SET like_count = GREATEST(like_count + $2, 0)
			WHERE id = $1
			RETURNING like_count
		`, table)
		if err := tx.QueryRow(ctx, updateSQL, subject.ID, delta).Scan(&count); err != nil {
			return nil, fmt.Errorf("failed to update like count: %w", err)
		}

		return &model.Status{Subject: subject, Liked: liked, LikeCount: count}, nil
	})
}

func (r *postgresLikeRepository) ReconcileCounts(ctx context.Context, kind model.SubjectKind) (int64, error) {
	query := fmt.Sprintf(`
		UPDATE %s p
		SET like_count = c.actual
		FROM (
			SELECT p2.id, COUNT(l.user_id) AS actual
			FROM %s p2
			LEFT JOIN likes l ON l.subject_kind = $1 AND l.subject_id = p2.id
			GROUP BY p2.id
		) c
		WHERE p.id = c.id AND p.like_count <> c.actual
	`, kind.Table(), kind.Table())

	result, err := r.pool.Exec(ctx, query, kind)
	if err != nil {
		return 0, fmt.Errorf("failed to reconcile %s like counts: %w", kind, err)
	}
	return result.RowsAffected(), nil
}
