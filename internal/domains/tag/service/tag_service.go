package service

import (
	"context"

	"github.com/rs/zerolog/log"

	"bookheaven-backend/internal/config"
	"bookheaven-backend/internal/domains/tag/model"
	"bookheaven-backend/internal/domains/tag/repository"
	"bookheaven-backend/internal/querybuilder"
	"bookheaven-backend/pkg/cache"
)

type ServiceInterface interface {
	SearchTags(ctx context.Context, criteria querybuilder.Criteria) (*querybuilder.Result[model.Tag], error)
}

type tagService struct {
	repo  repository.RepositoryInterface
	cache cache.Cache
	cfg   config.SearchConfig
}

func NewTagService(repo repository.RepositoryInterface, c cache.Cache, cfg config.SearchConfig) ServiceInterface {
	return &tagService{repo: repo, cache: c, cfg: cfg}
}

func (s *tagService) SearchTags(ctx context.Context, criteria querybuilder.Criteria) (*querybuilder.Result[model.Tag], error) {
	if err := criteria.Validate(); err != nil {
		return nil, model.NewInvalidCriteriaError(err)
	}
	criteria = criteria.WithDefaults(s.cfg.DefaultLimit, s.cfg.MaxLimit)

	cacheKey := cache.TagSearchKey(criteria)
	if s.cache != nil {
		var cached querybuilder.Result[model.Tag]
		if found, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && found {
			return &cached, nil
		}
	}

	tags, total, err := querybuilder.Paginate(ctx,
		func(ctx context.Context) ([]model.Tag, error) { return s.repo.Search(ctx, criteria) },
		func(ctx context.Context) (int, error) { return s.repo.Count(ctx, criteria) },
	)
	if err != nil {
		return nil, err
	}

	result := querybuilder.NewResult(tags, criteria, total)
	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, result, s.cfg.CacheTTL); err != nil {
			log.Warn().Err(err).Str("key", cacheKey).Msg("tag search cache SET failed")
		}
	}

	return &result, nil
}
