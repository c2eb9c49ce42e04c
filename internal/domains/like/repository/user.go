package repository

import (
	"context"

	"bookheaven-backend/internal/domains/like/model"
	"bookheaven-backend/internal/domains/like/toggle"
)

// UserLikes binds a LikeRepository to one user and subject kind so it can
// serve as a like toggle's collaborator
type UserLikes struct {
	repo   LikeRepository
	userID string
	kind   model.SubjectKind
}

var _ toggle.Collaborator = (*UserLikes)(nil)

func ForUser(repo LikeRepository, userID string, kind model.SubjectKind) *UserLikes {
	return &UserLikes{repo: repo, userID: userID, kind: kind}
}

func (u *UserLikes) CheckLiked(ctx context.Context, subjectID string) (bool, error) {
	return u.repo.CheckLiked(ctx, u.userID, model.Subject{Kind: u.kind, ID: subjectID})
}

func (u *UserLikes) ToggleLiked(ctx context.Context, subjectID string) error {
	_, err := u.repo.ToggleLiked(ctx, u.userID, model.Subject{Kind: u.kind, ID: subjectID})
	return err
}
