package service

import (
	"context"

	"github.com/rs/zerolog/log"

	"bookheaven-backend/internal/config"
	"bookheaven-backend/internal/domains/book/model"
	"bookheaven-backend/internal/domains/book/repository"
	"bookheaven-backend/internal/querybuilder"
	"bookheaven-backend/pkg/cache"
)

type BookService struct {
	repo  repository.RepositoryInterface
	cache cache.Cache
	cfg   config.SearchConfig
}

func NewBookService(repo repository.RepositoryInterface, c cache.Cache, cfg config.SearchConfig) ServiceInterface {
	return &BookService{repo: repo, cache: c, cfg: cfg}
}

func (s *BookService) SearchBooks(ctx context.Context, criteria querybuilder.Criteria) (*querybuilder.Result[model.Edition], error) {
	if err := criteria.Validate(); err != nil {
		return nil, model.NewInvalidCriteriaError(err)
	}
	criteria = criteria.WithDefaults(s.cfg.DefaultLimit, s.cfg.MaxLimit)

	// Step 1: read-through cache
	cacheKey := cache.BookSearchKey(criteria)
	var cached querybuilder.Result[model.Edition]
	if s.cache != nil {
		found, err := s.cache.Get(ctx, cacheKey, &cached)
		if err != nil {
			log.Warn().Err(err).Str("key", cacheKey).Msg("book search cache GET failed")
		} else if found {
			return &cached, nil
		}
	}

	// Step 2: page and count run concurrently over the same predicate
	rows, total, err := querybuilder.Paginate(ctx,
		func(ctx context.Context) ([]model.JoinedRow, error) { return s.repo.Search(ctx, criteria) },
		func(ctx context.Context) (int, error) { return s.repo.Count(ctx, criteria) },
	)
	if err != nil {
		return nil, err
	}

	// Step 3: fold fanned-out rows into editions
	result := querybuilder.NewResult(model.Fold(rows), criteria, total)

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, result, s.cfg.CacheTTL); err != nil {
			log.Warn().Err(err).Str("key", cacheKey).Msg("book search cache SET failed")
		}
	}

	return &result, nil
}
