package repository

import (
	"context"

	"bookheaven-backend/internal/domains/shelf/model"
)

// =====================================================
// SHELF REPOSITORY INTERFACE
// =====================================================

// ShelfRepository persists shelves and shelf items. Every write takes the
// owner id and applies it in the same statement as the target id.
type ShelfRepository interface {
	// ========================================
	// SHELVES
	// ========================================

	// FetchShelvesWithItems lists the owner's shelves with their items.
	// A non-empty names list restricts the result to those shelves.
	FetchShelvesWithItems(ctx context.Context, ownerID string, names []string) ([]model.Shelf, error)

	// UpsertShelf creates or updates a shelf keyed on (owner, name)
	UpsertShelf(ctx context.Context, shelf *model.Shelf) error

	// DeleteShelf deletes a shelf owned by ownerID
	DeleteShelf(ctx context.Context, ownerID, shelfID string) error

	// EnsureSystemShelves creates any missing system shelf for the owner
	EnsureSystemShelves(ctx context.Context, ownerID string) error

	// ========================================
	// ITEMS
	// ========================================

	// CreateShelfItem puts key on the owner's shelf called shelfName and
	// returns the shelf's items
	CreateShelfItem(ctx context.Context, ownerID string, key model.ItemKey, shelfName string, notes *string) ([]model.ShelfItem, error)

	// DeleteShelfItem removes key from the owner's shelf. Reports whether a row was deleted.
	DeleteShelfItem(ctx context.Context, ownerID, shelfID string, key model.ItemKey) (bool, error)

	// MoveShelfItem moves key between two of the owner's shelves in one transaction
	MoveShelfItem(ctx context.Context, ownerID string, key model.ItemKey, fromShelfID, toShelfName string) error
}
