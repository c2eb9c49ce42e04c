package repository

import (
	"context"

	"bookheaven-backend/internal/domains/author/model"
	"bookheaven-backend/internal/querybuilder"
)

type RepositoryInterface interface {
	// Search returns the joined rows of the authors on the requested page
	Search(ctx context.Context, criteria querybuilder.Criteria) ([]model.JoinedRow, error)

	// Count returns the number of distinct authors matching criteria
	Count(ctx context.Context, criteria querybuilder.Criteria) (int, error)
}
