package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"bookheaven-backend/internal/domains/shelf/membership"
	"bookheaven-backend/internal/domains/shelf/model"
	"bookheaven-backend/internal/domains/shelf/repository"
)

// =====================================================
// SERVICE IMPLEMENTATION
// =====================================================

type shelfService struct {
	shelfRepo repository.ShelfRepository
}

func NewShelfService(shelfRepo repository.ShelfRepository) ServiceInterface {
	return &shelfService{shelfRepo: shelfRepo}
}

// =====================================================
// SHELVES
// =====================================================

func (s *shelfService) ListShelves(ctx context.Context, userID string, req model.ListShelvesRequest) ([]model.ShelfResponse, error) {
	// Step 1: make sure the four system shelves exist
	if err := s.shelfRepo.EnsureSystemShelves(ctx, userID); err != nil {
		return nil, err
	}

	// Step 2: load
	var names []string
	if req.SystemOnly {
		names = model.SystemShelfNames()
	}
	shelves, err := s.shelfRepo.FetchShelvesWithItems(ctx, userID, names)
	if err != nil {
		return nil, err
	}

	out := make([]model.ShelfResponse, 0, len(shelves))
	for _, shelf := range shelves {
		out = append(out, model.ToShelfResponse(shelf))
	}
	return out, nil
}

func (s *shelfService) UpsertShelf(ctx context.Context, userID string, req model.UpsertShelfRequest) (*model.ShelfResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, model.NewInvalidShelfError(err)
	}

	shelf := &model.Shelf{
		OwnerID:     userID,
		Name:        req.Name,
		IsPublic:    req.IsPublic,
		Description: req.Description,
	}
	if err := s.shelfRepo.UpsertShelf(ctx, shelf); err != nil {
		return nil, err
	}

	resp := model.ToShelfResponse(*shelf)
	return &resp, nil
}

func (s *shelfService) DeleteShelf(ctx context.Context, userID, shelfID string) error {
	// Step 1: system shelves are permanent
	shelves, err := s.shelfRepo.FetchShelvesWithItems(ctx, userID, nil)
	if err != nil {
		return err
	}
	i := model.FindByID(shelves, shelfID)
	if i < 0 {
		return model.NewShelfNotFoundError(shelfID)
	}
	if _, system := shelves[i].Kind(); system {
		return model.NewSystemShelfError(shelves[i].Name)
	}

	// Step 2: delete, still scoped to the owner
	if err := s.shelfRepo.DeleteShelf(ctx, userID, shelfID); err != nil {
		return mapRepoError(err, shelfID)
	}

	log.Info().Str("user_id", userID).Str("shelf_id", shelfID).Msg("shelf deleted")
	return nil
}

// =====================================================
// ITEMS
// =====================================================

func (s *shelfService) AddItem(ctx context.Context, userID string, req model.AddItemRequest) ([]model.ShelfItem, error) {
	if err := req.Validate(); err != nil {
		return nil, model.NewInvalidShelfError(err)
	}

	items, err := s.shelfRepo.CreateShelfItem(ctx, userID, req.Key(), req.ShelfName, req.Notes)
	if err != nil {
		return nil, mapRepoError(err, req.ShelfName)
	}
	return items, nil
}

func (s *shelfService) RemoveItem(ctx context.Context, userID, shelfID string, req model.RemoveItemRequest) error {
	if err := req.Validate(); err != nil {
		return model.NewInvalidShelfError(err)
	}

	deleted, err := s.shelfRepo.DeleteShelfItem(ctx, userID, shelfID, model.ItemKey{WorkID: req.WorkID})
	if err != nil {
		return mapRepoError(err, shelfID)
	}
	if !deleted {
		return model.NewShelfItemNotFoundError()
	}
	return nil
}

func (s *shelfService) MoveItem(ctx context.Context, userID string, req model.MoveItemRequest) error {
	if err := req.Validate(); err != nil {
		return model.NewInvalidShelfError(err)
	}

	if err := s.shelfRepo.MoveShelfItem(ctx, userID, req.Key(), req.FromShelfID, req.ToShelfName); err != nil {
		return mapRepoError(err, req.ToShelfName)
	}
	return nil
}

func (s *shelfService) SelectShelf(ctx context.Context, userID string, req model.SelectShelfRequest) (*membership.State, error) {
	if err := req.Validate(); err != nil {
		return nil, model.NewInvalidShelfError(err)
	}

	// Step 1: derive where the book is now
	shelves, err := s.shelfRepo.FetchShelvesWithItems(ctx, userID, nil)
	if err != nil {
		return nil, err
	}
	key := req.Key()
	state := membership.Derive(shelves, key)
	if model.FindByName(shelves, req.ShelfName) < 0 {
		return nil, model.NewShelfNotFoundError(req.ShelfName)
	}

	// Step 2: apply the resolved intent
	intent := membership.Resolve(state, req.ShelfName)
	switch intent.Action {
	case membership.Add:
		_, err = s.shelfRepo.CreateShelfItem(ctx, userID, key, intent.ToShelf, nil)
	case membership.Remove:
		var deleted bool
		deleted, err = s.shelfRepo.DeleteShelfItem(ctx, userID, intent.FromShelfID, key)
		if err == nil && !deleted {
			err = model.ErrShelfItemNotFound
		}
	case membership.Move:
		err = s.shelfRepo.MoveShelfItem(ctx, userID, key, intent.FromShelfID, intent.ToShelf)
	}
	if err != nil {
		return nil, mapRepoError(err, req.ShelfName)
	}

	// Step 3: report the new placement
	next := membership.State{}
	if intent.Action != membership.Remove {
		i := model.FindByName(shelves, intent.ToShelf)
		next = membership.State{CurrentShelf: shelves[i].Name, CurrentShelfID: shelves[i].ID, IsBookmarked: true}
	}

	log.Debug().
		Str("user_id", userID).
		Str("work_id", key.WorkID).
		Str("action", intent.Action.String()).
		Msg("shelf selection applied")
	return &next, nil
}

// mapRepoError wraps repository sentinels in ShelfError
func mapRepoError(err error, shelf string) error {
	switch {
	case errors.Is(err, model.ErrShelfNotFound):
		return model.NewShelfNotFoundError(shelf)
	case errors.Is(err, model.ErrShelfItemExists):
		return model.NewShelfItemExistsError()
	case errors.Is(err, model.ErrShelfItemNotFound):
		return model.NewShelfItemNotFoundError()
	}
	return fmt.Errorf("shelf operation failed: %w", err)
}
