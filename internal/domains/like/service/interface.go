package service

import (
	"context"

	"bookheaven-backend/internal/domains/like/model"
)

// =====================================================
// LIKE SERVICE INTERFACE
// =====================================================

type ServiceInterface interface {
	// GetStatus returns whether the user likes subject and its like count
	GetStatus(ctx context.Context, userID string, subject model.Subject) (*model.Status, error)

	// Toggle likes or unlikes subject for the user
	Toggle(ctx context.Context, userID string, subject model.Subject) (*model.Status, error)

	// Reconcile rewrites drifted like counts. No kinds means all kinds.
	Reconcile(ctx context.Context, kinds ...model.SubjectKind) ([]model.ReconcileResult, error)
}
