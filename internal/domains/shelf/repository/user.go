package repository

import (
	"context"

	"bookheaven-backend/internal/domains/shelf/membership"
	"bookheaven-backend/internal/domains/shelf/model"
)

// UserShelves binds a ShelfRepository to one owner so it can serve as the
// membership cache's collaborator
type UserShelves struct {
	repo    ShelfRepository
	ownerID string
}

var (
	_ membership.Collaborator = (*UserShelves)(nil)
	_ membership.Mover        = (*UserShelves)(nil)
)

func ForUser(repo ShelfRepository, ownerID string) *UserShelves {
	return &UserShelves{repo: repo, ownerID: ownerID}
}

func (u *UserShelves) FetchShelvesWithItems(ctx context.Context, systemShelfNames []string) ([]model.Shelf, error) {
	return u.repo.FetchShelvesWithItems(ctx, u.ownerID, systemShelfNames)
}

func (u *UserShelves) CreateShelfItem(ctx context.Context, key model.ItemKey, shelfName string) ([]model.ShelfItem, error) {
	return u.repo.CreateShelfItem(ctx, u.ownerID, key, shelfName, nil)
}

func (u *UserShelves) DeleteShelfItem(ctx context.Context, shelfID string, key model.ItemKey) (bool, error) {
	return u.repo.DeleteShelfItem(ctx, u.ownerID, shelfID, key)
}

func (u *UserShelves) MoveShelfItem(ctx context.Context, key model.ItemKey, fromShelfID, toShelfName string) error {
	return u.repo.MoveShelfItem(ctx, u.ownerID, key, fromShelfID, toShelfName)
}
