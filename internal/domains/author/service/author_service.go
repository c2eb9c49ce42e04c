package service

import (
	"context"

	"github.com/rs/zerolog/log"

	"bookheaven-backend/internal/config"
	"bookheaven-backend/internal/domains/author/model"
	"bookheaven-backend/internal/domains/author/repository"
	"bookheaven-backend/internal/querybuilder"
	"bookheaven-backend/pkg/cache"
)

type ServiceInterface interface {
	SearchAuthors(ctx context.Context, criteria querybuilder.Criteria) (*querybuilder.Result[model.Author], error)
}

type authorService struct {
	repo  repository.RepositoryInterface
	cache cache.Cache
	cfg   config.SearchConfig
}

func NewAuthorService(repo repository.RepositoryInterface, c cache.Cache, cfg config.SearchConfig) ServiceInterface {
	return &authorService{repo: repo, cache: c, cfg: cfg}
}

func (s *authorService) SearchAuthors(ctx context.Context, criteria querybuilder.Criteria) (*querybuilder.Result[model.Author], error) {
	if err := criteria.Validate(); err != nil {
		return nil, model.NewInvalidCriteriaError(err)
	}
	criteria = criteria.WithDefaults(s.cfg.DefaultLimit, s.cfg.MaxLimit)

	cacheKey := cache.AuthorSearchKey(criteria)
	if s.cache != nil {
		var cached querybuilder.Result[model.Author]
		if found, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && found {
			return &cached, nil
		}
	}

	rows, total, err := querybuilder.Paginate(ctx,
		func(ctx context.Context) ([]model.JoinedRow, error) { return s.repo.Search(ctx, criteria) },
		func(ctx context.Context) (int, error) { return s.repo.Count(ctx, criteria) },
	)
	if err != nil {
		return nil, err
	}

	result := querybuilder.NewResult(model.Fold(rows), criteria, total)
	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, result, s.cfg.CacheTTL); err != nil {
			log.Warn().Err(err).Str("key", cacheKey).Msg("author search cache SET failed")
		}
	}

	return &result, nil
}
