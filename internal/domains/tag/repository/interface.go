package repository

import (
	"context"

	"bookheaven-backend/internal/domains/tag/model"
	"bookheaven-backend/internal/querybuilder"
)

type RepositoryInterface interface {
	// Search returns the tags on the requested page with their book counts
	Search(ctx context.Context, criteria querybuilder.Criteria) ([]model.Tag, error)

	// Count returns the number of distinct tags matching criteria
	Count(ctx context.Context, criteria querybuilder.Criteria) (int, error)
}
