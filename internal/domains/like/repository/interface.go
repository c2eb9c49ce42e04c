package repository

import (
	"context"

	"bookheaven-backend/internal/domains/like/model"
)

// =====================================================
// LIKE REPOSITORY INTERFACE
// =====================================================

type LikeRepository interface {
	// CheckLiked reports whether userID likes subject
	CheckLiked(ctx context.Context, userID string, subject model.Subject) (bool, error)

	// GetStatus returns liked state and the parent's like_count
	GetStatus(ctx context.Context, userID string, subject model.Subject) (*model.Status, error)

	// ToggleLiked inserts or deletes the like row and adjusts the parent
	// like_count in the same transaction. Returns the new status.
	ToggleLiked(ctx context.Context, userID string, subject model.Subject) (*model.Status, error)

	// ReconcileCounts rewrites like_count on parents of kind from the like rows.
	// Returns the number of parents whose count drifted.
	ReconcileCounts(ctx context.Context, kind model.SubjectKind) (int64, error)
}
