package repository

import (
	"context"

	"bookheaven-backend/internal/domains/rating/model"
)

type RatingRepository interface {
	// Upsert inserts the rating or overwrites the row for (user, work, edition)
	Upsert(ctx context.Context, rating *model.Rating) error

	// ListByWork returns one page of a work's ratings, newest first
	ListByWork(ctx context.Context, workID string, limit, offset int) ([]model.Rating, error)

	// CountByWork counts a work's ratings
	CountByWork(ctx context.Context, workID string) (int, error)

	// Breakdown returns value -> count for a work
	Breakdown(ctx context.Context, workID string) (map[int]int, error)

	// Delete removes the user's own rating
	Delete(ctx context.Context, userID, ratingID string) error
}
