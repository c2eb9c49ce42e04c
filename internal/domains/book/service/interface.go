package service

import (
	"context"

	"bookheaven-backend/internal/domains/book/model"
	"bookheaven-backend/internal/querybuilder"
)

type ServiceInterface interface {
	// SearchBooks returns one page of editions with nested work, authors and tags
	SearchBooks(ctx context.Context, criteria querybuilder.Criteria) (*querybuilder.Result[model.Edition], error)
}
