package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"bookheaven-backend/internal/config"
	"bookheaven-backend/internal/domains/rating/model"
	"bookheaven-backend/internal/domains/rating/repository"
	"bookheaven-backend/internal/querybuilder"
)

type ratingService struct {
	repo repository.RatingRepository
	cfg  config.SearchConfig
}

func NewRatingService(repo repository.RatingRepository, cfg config.SearchConfig) ServiceInterface {
	return &ratingService{repo: repo, cfg: cfg}
}

func (s *ratingService) Upsert(ctx context.Context, userID string, req model.UpsertRatingRequest) (*model.Rating, error) {
	if err := req.Validate(); err != nil {
		return nil, model.NewInvalidRatingError(err)
	}

	rating := &model.Rating{
		WorkID:    req.WorkID,
		EditionID: req.EditionID,
		UserID:    userID,
		Value:     req.Value,
		Review:    req.Review,
	}
	if err := s.repo.Upsert(ctx, rating); err != nil {
		if errors.Is(err, model.ErrWorkNotFound) {
			return nil, model.NewWorkNotFoundError(req.WorkID)
		}
		return nil, fmt.Errorf("upsert rating: %w", err)
	}

	log.Info().
		Str("user_id", userID).
		Str("work_id", req.WorkID).
		Int("value", req.Value).
		Msg("rating saved")

	return rating, nil
}

func (s *ratingService) ListByWork(ctx context.Context, workID string, req model.ListRatingsRequest) (*querybuilder.Result[model.Rating], error) {
	params := req.Params.Clamp(s.cfg.DefaultLimit, s.cfg.MaxLimit)
	criteria := querybuilder.Criteria{Limit: params.Limit, Offset: params.Offset()}

	ratings, total, err := querybuilder.Paginate(ctx,
		func(ctx context.Context) ([]model.Rating, error) {
			return s.repo.ListByWork(ctx, workID, criteria.Limit, criteria.Offset)
		},
		func(ctx context.Context) (int, error) { return s.repo.CountByWork(ctx, workID) },
	)
	if err != nil {
		return nil, err
	}

	result := querybuilder.NewResult(ratings, criteria, total)
	return &result, nil
}

func (s *ratingService) Statistics(ctx context.Context, workID string) (*model.Statistics, error) {
	breakdown, err := s.repo.Breakdown(ctx, workID)
	if err != nil {
		return nil, err
	}
	stats := model.NewStatistics(workID, breakdown)
	return &stats, nil
}

func (s *ratingService) Delete(ctx context.Context, userID, ratingID string) error {
	if err := s.repo.Delete(ctx, userID, ratingID); err != nil {
		if errors.Is(err, model.ErrRatingNotFound) {
			return model.NewRatingNotFoundError()
		}
		return fmt.Errorf("delete rating: %w", err)
	}
	return nil
}
