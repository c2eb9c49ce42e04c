package repository

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"bookheaven-backend/internal/domains/shelf/model"
)

// memoryShelfRepository keeps shelves in process. Used by tests and local runs
// without a database.
type memoryShelfRepository struct {
	mu      sync.Mutex
	shelves []model.Shelf
	now     func() time.Time
}

func NewMemoryShelfRepository(seed ...model.Shelf) ShelfRepository {
	r := &memoryShelfRepository{now: time.Now}
	for _, s := range seed {
		s.Items = slices.Clone(s.Items)
		r.shelves = append(r.shelves, s)
	}
	return r
}

func (r *memoryShelfRepository) FetchShelvesWithItems(_ context.Context, ownerID string, names []string) ([]model.Shelf, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := []model.Shelf{}
	for _, s := range r.shelves {
		if s.OwnerID != ownerID {
			continue
		}
		if len(names) > 0 && !slices.Contains(names, s.Name) {
			continue
		}
		s.Items = append([]model.ShelfItem{}, s.Items...)
		out = append(out, s)
	}
	return out, nil
}

func (r *memoryShelfRepository) UpsertShelf(_ context.Context, shelf *model.Shelf) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	if i := r.findLocked(shelf.OwnerID, func(s model.Shelf) bool { return s.Name == shelf.Name }); i >= 0 {
		r.shelves[i].IsPublic = shelf.IsPublic
		r.shelves[i].Description = shelf.Description
		r.shelves[i].UpdatedAt = now
		shelf.ID = r.shelves[i].ID
		shelf.LikeCount = r.shelves[i].LikeCount
		shelf.CreatedAt = r.shelves[i].CreatedAt
		shelf.UpdatedAt = now
		return nil
	}

	if shelf.ID == "" {
		shelf.ID = uuid.NewString()
	}
	shelf.CreatedAt, shelf.UpdatedAt = now, now
	stored := *shelf
	stored.Items = nil
	r.shelves = append(r.shelves, stored)
	return nil
}

func (r *memoryShelfRepository) DeleteShelf(_ context.Context, ownerID, shelfID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.findLocked(ownerID, func(s model.Shelf) bool { return s.ID == shelfID })
	if i < 0 {
		return model.ErrShelfNotFound
	}
	r.shelves = slices.Delete(r.shelves, i, i+1)
	return nil
}

func (r *memoryShelfRepository) EnsureSystemShelves(ctx context.Context, ownerID string) error {
	for _, name := range model.SystemShelfNames() {
		r.mu.Lock()
		exists := r.findLocked(ownerID, func(s model.Shelf) bool { return s.Name == name }) >= 0
		r.mu.Unlock()
		if exists {
			continue
		}
		if err := r.UpsertShelf(ctx, &model.Shelf{OwnerID: ownerID, Name: name}); err != nil {
			return err
		}
	}
	return nil
}

func (r *memoryShelfRepository) CreateShelfItem(_ context.Context, ownerID string, key model.ItemKey, shelfName string, notes *string) ([]model.ShelfItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.insertLocked(ownerID, key, shelfName, notes); err != nil {
		return nil, err
	}
	i := r.findLocked(ownerID, func(s model.Shelf) bool { return s.Name == shelfName })
	return slices.Clone(r.shelves[i].Items), nil
}

func (r *memoryShelfRepository) DeleteShelfItem(_ context.Context, ownerID, shelfID string, key model.ItemKey) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.removeLocked(ownerID, shelfID, key)
	return ok, nil
}

func (r *memoryShelfRepository) MoveShelfItem(_ context.Context, ownerID string, key model.ItemKey, fromShelfID, toShelfName string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// both steps happen under one lock, so the move is all or nothing
	if r.findLocked(ownerID, func(s model.Shelf) bool { return s.Name == toShelfName }) < 0 {
		return model.ErrShelfNotFound
	}
	removed, ok := r.removeLocked(ownerID, fromShelfID, key)
	if !ok {
		return model.ErrShelfItemNotFound
	}
	if err := r.insertLocked(ownerID, key, toShelfName, removed.Notes); err != nil {
		r.restoreLocked(removed)
		return err
	}
	return nil
}

// =====================================================
// HELPERS (caller holds r.mu)
// =====================================================

func (r *memoryShelfRepository) findLocked(ownerID string, match func(model.Shelf) bool) int {
	for i, s := range r.shelves {
		if s.OwnerID == ownerID && match(s) {
			return i
		}
	}
	return -1
}

func (r *memoryShelfRepository) insertLocked(ownerID string, key model.ItemKey, shelfName string, notes *string) error {
	i := r.findLocked(ownerID, func(s model.Shelf) bool { return s.Name == shelfName })
	if i < 0 {
		return model.ErrShelfNotFound
	}
	if r.shelves[i].Contains(key) {
		return model.ErrShelfItemExists
	}
	r.shelves[i].Items = append(slices.Clone(r.shelves[i].Items), model.ShelfItem{
		ShelfID:   r.shelves[i].ID,
		WorkID:    key.WorkID,
		EditionID: key.EditionID,
		Notes:     notes,
		AddedAt:   r.now(),
	})
	return nil
}

func (r *memoryShelfRepository) removeLocked(ownerID, shelfID string, key model.ItemKey) (model.ShelfItem, bool) {
	i := r.findLocked(ownerID, func(s model.Shelf) bool { return s.ID == shelfID })
	if i < 0 {
		return model.ShelfItem{}, false
	}
	j := slices.IndexFunc(r.shelves[i].Items, key.Matches)
	if j < 0 {
		return model.ShelfItem{}, false
	}
	removed := r.shelves[i].Items[j]
	r.shelves[i].Items = slices.Delete(slices.Clone(r.shelves[i].Items), j, j+1)
	return removed, true
}

func (r *memoryShelfRepository) restoreLocked(item model.ShelfItem) {
	for i := range r.shelves {
		if r.shelves[i].ID == item.ShelfID {
			r.shelves[i].Items = append(slices.Clone(r.shelves[i].Items), item)
			return
		}
	}
}
