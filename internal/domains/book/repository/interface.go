package repository

import (
	"context"

	"bookheaven-backend/internal/domains/book/model"
	"bookheaven-backend/internal/querybuilder"
)

// =====================================================
// BOOK SEARCH REPOSITORY INTERFACE
// =====================================================

type RepositoryInterface interface {
	// Search returns every joined row of the editions on the requested page.
	// Editions are paged by id, so a page never splits one edition's rows.
	Search(ctx context.Context, criteria querybuilder.Criteria) ([]model.JoinedRow, error)

	// Count returns the number of distinct editions matching criteria
	Count(ctx context.Context, criteria querybuilder.Criteria) (int, error)
}
