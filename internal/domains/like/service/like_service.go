package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"bookheaven-backend/internal/domains/like/model"
	"bookheaven-backend/internal/domains/like/repository"
	"bookheaven-backend/pkg/cache"
)

type likeService struct {
	repo  repository.LikeRepository
	cache cache.Cache
}

func NewLikeService(repo repository.LikeRepository, c cache.Cache) ServiceInterface {
	return &likeService{repo: repo, cache: c}
}

func (s *likeService) GetStatus(ctx context.Context, userID string, subject model.Subject) (*model.Status, error) {
	if err := validateSubject(subject); err != nil {
		return nil, err
	}

	status, err := s.repo.GetStatus(ctx, userID, subject)
	if err != nil {
		return nil, mapRepoError(subject, err)
	}
	return status, nil
}

func (s *likeService) Toggle(ctx context.Context, userID string, subject model.Subject) (*model.Status, error) {
	if err := validateSubject(subject); err != nil {
		return nil, err
	}

	status, err := s.repo.ToggleLiked(ctx, userID, subject)
	if err != nil {
		return nil, mapRepoError(subject, err)
	}

	if subject.Kind == model.SubjectEdition {
		s.invalidateBookSearch(ctx)
	}

	log.Info().
		Str("user_id", userID).
		Str("kind", string(subject.Kind)).
		Str("subject_id", subject.ID).
		Bool("liked", status.Liked).
		Msg("like toggled")

	return status, nil
}

func (s *likeService) Reconcile(ctx context.Context, kinds ...model.SubjectKind) ([]model.ReconcileResult, error) {
	if len(kinds) == 0 {
		kinds = model.SubjectKinds()
	}

	results := make([]model.ReconcileResult, 0, len(kinds))
	for _, kind := range kinds {
		if kind.Table() == "" {
			return results, model.NewInvalidSubjectError(string(kind))
		}

		updated, err := s.repo.ReconcileCounts(ctx, kind)
		if err != nil {
			return results, fmt.Errorf("reconcile %s: %w", kind, err)
		}
		results = append(results, model.ReconcileResult{Kind: kind, Updated: updated})

		if kind == model.SubjectEdition && updated > 0 {
			s.invalidateBookSearch(ctx)
		}
	}

	return results, nil
}

// invalidateBookSearch drops cached book pages, which carry edition like counts
func (s *likeService) invalidateBookSearch(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeletePattern(ctx, cache.BookSearchPattern); err != nil {
		log.Warn().Err(err).Msg("failed to invalidate book search cache")
	}
}

func validateSubject(subject model.Subject) error {
	if subject.Kind.Table() == "" || subject.ID == "" {
		return model.NewInvalidSubjectError(string(subject.Kind))
	}
	return nil
}

func mapRepoError(subject model.Subject, err error) error {
	if errors.Is(err, model.ErrSubjectNotFound) {
		return model.NewSubjectNotFoundError(subject)
	}
	return fmt.Errorf("like repository: %w", err)
}
