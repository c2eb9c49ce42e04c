package service

import (
	"context"

	"bookheaven-backend/internal/domains/shelf/membership"
	"bookheaven-backend/internal/domains/shelf/model"
)

// =====================================================
// SHELF SERVICE INTERFACE
// =====================================================

type ServiceInterface interface {
	// ListShelves lists the user's shelves with items, creating system shelves on first use
	ListShelves(ctx context.Context, userID string, req model.ListShelvesRequest) ([]model.ShelfResponse, error)

	// UpsertShelf creates or updates a shelf by name
	UpsertShelf(ctx context.Context, userID string, req model.UpsertShelfRequest) (*model.ShelfResponse, error)

	// DeleteShelf deletes a custom shelf
	DeleteShelf(ctx context.Context, userID, shelfID string) error

	// AddItem puts a book on a shelf
	AddItem(ctx context.Context, userID string, req model.AddItemRequest) ([]model.ShelfItem, error)

	// RemoveItem takes a book off a shelf
	RemoveItem(ctx context.Context, userID, shelfID string, req model.RemoveItemRequest) error

	// MoveItem moves a book between shelves atomically
	MoveItem(ctx context.Context, userID string, req model.MoveItemRequest) error

	// SelectShelf applies add/remove/move resolution for a shelf selection
	SelectShelf(ctx context.Context, userID string, req model.SelectShelfRequest) (*membership.State, error)
}
