package service

import (
	"context"

	"bookheaven-backend/internal/domains/rating/model"
	"bookheaven-backend/internal/querybuilder"
)

type ServiceInterface interface {
	// Upsert creates or overwrites the user's rating
	Upsert(ctx context.Context, userID string, req model.UpsertRatingRequest) (*model.Rating, error)

	// ListByWork returns one page of a work's ratings
	ListByWork(ctx context.Context, workID string, req model.ListRatingsRequest) (*querybuilder.Result[model.Rating], error)

	// Statistics returns the total, average and breakdown of a work's ratings
	Statistics(ctx context.Context, workID string) (*model.Statistics, error)

	// Delete removes the user's own rating
	Delete(ctx context.Context, userID, ratingID string) error
}
