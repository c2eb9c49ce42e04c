// Package toggle keeps a like/favourite flag in the optimistic cache
package toggle

import (
	"context"

	"bookheaven-backend/internal/optimistic"
)

const DefaultErrorMessage = "Failed to update like"

// Collaborator is the persistence API for one kind of subject
type Collaborator interface {
	CheckLiked(ctx context.Context, subjectID string) (bool, error)
	ToggleLiked(ctx context.Context, subjectID string) error
}

// LikeState is the cached value. ServerLiked is what the last fetch returned;
// the display count is derived from the difference.
type LikeState struct {
	Liked       bool
	ServerLiked bool
}

// Count is the display-only count for a known base count. It is never sent
// to the collaborator.
func (s LikeState) Count(base int) int {
	count := base
	if s.Liked {
		count++
	}
	if s.ServerLiked {
		count--
	}
	if count < 0 {
		return 0
	}
	return count
}

// Config parameterises a Toggle
type Config struct {
	SubjectID string
	// BaseCount is the like count the subject was loaded with
	BaseCount int
	// KeyPrefix separates subject kinds in the cache, e.g. "likes:edition"
	KeyPrefix string
	// ErrorMessage overrides DefaultErrorMessage
	ErrorMessage string
}

// Toggle is one subject's like button
type Toggle struct {
	cfg     Config
	collab  Collaborator
	engine  *optimistic.Engine
	mutator *optimistic.Mutator[LikeState, struct{}]
}

func New(engine *optimistic.Engine, collab Collaborator, cfg Config) *Toggle {
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = "likes"
	}
	t := &Toggle{cfg: cfg, collab: collab, engine: engine}

	t.mutator = optimistic.NewMutator(engine, optimistic.Spec[LikeState, struct{}]{
		Key: optimistic.Key{cfg.KeyPrefix, cfg.SubjectID},
		Validate: func(LikeState, struct{}) error {
			if cfg.SubjectID == "" {
				return optimistic.NewValidationError("subject_id", "is required")
			}
			return nil
		},
		Apply: func(current LikeState, _ struct{}) LikeState {
			return LikeState{Liked: !current.Liked, ServerLiked: current.ServerLiked}
		},
		Commit: func(ctx context.Context, _ LikeState, _ struct{}) error {
			return collab.ToggleLiked(ctx, cfg.SubjectID)
		},
		Message: func(struct{}, error) string {
			if cfg.ErrorMessage != "" {
				return cfg.ErrorMessage
			}
			return DefaultErrorMessage
		},
	})
	return t
}

func (t *Toggle) Key() optimistic.Key {
	return t.mutator.Key()
}

// State returns the cached state, seeding it from CheckLiked when needed
func (t *Toggle) State(ctx context.Context) (LikeState, error) {
	return optimistic.Query(ctx, t.engine.Cache(), t.Key(), func(ctx context.Context) (LikeState, error) {
		liked, err := t.collab.CheckLiked(ctx, t.cfg.SubjectID)
		if err != nil {
			return LikeState{}, err
		}
		return LikeState{Liked: liked, ServerLiked: liked}, nil
	})
}

func (t *Toggle) Liked(ctx context.Context) (bool, error) {
	s, err := t.State(ctx)
	return s.Liked, err
}

// Count returns the display count for the current state
func (t *Toggle) Count(ctx context.Context) (int, error) {
	s, err := t.State(ctx)
	if err != nil {
		return t.cfg.BaseCount, err
	}
	return s.Count(t.cfg.BaseCount), nil
}

// Toggle flips the like optimistically and confirms it with the collaborator
func (t *Toggle) Toggle(ctx context.Context) (optimistic.Outcome, error) {
	if _, err := t.State(ctx); err != nil {
		return optimistic.Rejected, err
	}
	return t.mutator.Mutate(ctx, struct{}{})
}
