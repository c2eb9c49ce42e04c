package repository

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookheaven-backend/internal/domains/shelf/membership"
	"bookheaven-backend/internal/domains/shelf/model"
	"bookheaven-backend/internal/optimistic"
)

func TestEnsureSystemShelves_Idempotent(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryShelfRepository()

	require.NoError(t, repo.EnsureSystemShelves(ctx, "u1"))
	require.NoError(t, repo.EnsureSystemShelves(ctx, "u1"))

	shelves, err := repo.FetchShelvesWithItems(ctx, "u1", nil)
	require.NoError(t, err)
	require.Len(t, shelves, 4)
	for i, kind := range model.SystemShelves() {
		assert.Equal(t, kind.Name(), shelves[i].Name)
	}
}

func TestUpsertShelf_KeyedOnOwnerAndName(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryShelfRepository()

	first := &model.Shelf{OwnerID: "u1", Name: "Favourites"}
	require.NoError(t, repo.UpsertShelf(ctx, first))

	desc := "the best ones"
	second := &model.Shelf{OwnerID: "u1", Name: "Favourites", IsPublic: true, Description: &desc}
	require.NoError(t, repo.UpsertShelf(ctx, second))
	assert.Equal(t, first.ID, second.ID)

	other := &model.Shelf{OwnerID: "u2", Name: "Favourites"}
	require.NoError(t, repo.UpsertShelf(ctx, other))
	assert.NotEqual(t, first.ID, other.ID)

	shelves, err := repo.FetchShelvesWithItems(ctx, "u1", nil)
	require.NoError(t, err)
	require.Len(t, shelves, 1)
	assert.True(t, shelves[0].IsPublic)
}

func TestDeleteShelf_ScopedToOwner(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryShelfRepository(model.Shelf{ID: "s1", OwnerID: "u1", Name: "Mine"})

	err := repo.DeleteShelf(ctx, "u2", "s1")
	assert.ErrorIs(t, err, model.ErrShelfNotFound)

	require.NoError(t, repo.DeleteShelf(ctx, "u1", "s1"))
}

func TestDeleteShelfItem_ScopedToOwner(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryShelfRepository(model.Shelf{
		ID: "s1", OwnerID: "u1", Name: "Read",
		Items: []model.ShelfItem{{ShelfID: "s1", WorkID: "w1"}},
	})
	key := model.ItemKey{WorkID: "w1"}

	deleted, err := repo.DeleteShelfItem(ctx, "u2", "s1", key)
	require.NoError(t, err)
	assert.False(t, deleted)

	deleted, err = repo.DeleteShelfItem(ctx, "u1", "s1", key)
	require.NoError(t, err)
	assert.True(t, deleted)
}

func TestCreateShelfItem_OneRowPerWork(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryShelfRepository()
	require.NoError(t, repo.EnsureSystemShelves(ctx, "u1"))
	hardcover, paperback := "e-hard", "e-paper"

	items, err := repo.CreateShelfItem(ctx, "u1", model.ItemKey{WorkID: "w1", EditionID: &hardcover}, "Read", nil)
	require.NoError(t, err)
	require.Len(t, items, 1)

	_, err = repo.CreateShelfItem(ctx, "u1", model.ItemKey{WorkID: "w1", EditionID: &paperback}, "Read", nil)
	assert.ErrorIs(t, err, model.ErrShelfItemExists)

	_, err = repo.CreateShelfItem(ctx, "u1", model.ItemKey{WorkID: "w1"}, "Read", nil)
	assert.ErrorIs(t, err, model.ErrShelfItemExists)

	shelves, err := repo.FetchShelvesWithItems(ctx, "u1", []string{"Read"})
	require.NoError(t, err)
	require.Len(t, shelves[0].Items, 1)
	assert.Equal(t, &hardcover, shelves[0].Items[0].EditionID)
}

func TestMoveShelfItem_UnknownDestinationKeepsItem(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryShelfRepository(model.Shelf{
		ID: "s1", OwnerID: "u1", Name: "Read",
		Items: []model.ShelfItem{{ShelfID: "s1", WorkID: "w1"}},
	})

	err := repo.MoveShelfItem(ctx, "u1", model.ItemKey{WorkID: "w1"}, "s1", "Nowhere")
	assert.ErrorIs(t, err, model.ErrShelfNotFound)

	shelves, err := repo.FetchShelvesWithItems(ctx, "u1", nil)
	require.NoError(t, err)
	assert.Len(t, shelves[0].Items, 1)
}

func TestForUser_DrivesMembershipWithAtomicMove(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryShelfRepository()
	require.NoError(t, repo.EnsureSystemShelves(ctx, "u1"))

	engine := optimistic.NewEngine(optimistic.NewCache(zerolog.Nop()), nil, zerolog.Nop())
	book := model.ItemKey{WorkID: "w1"}
	m := membership.New(engine, ForUser(repo, "u1"), "u1", book, "Dune",
		membership.WithSystemShelves(model.SystemShelfNames()...))

	_, err := m.Select(ctx, model.Read.Name())
	require.NoError(t, err)
	_, err = m.Select(ctx, model.WantToRead.Name())
	require.NoError(t, err)

	stored, err := repo.FetchShelvesWithItems(ctx, "u1", nil)
	require.NoError(t, err)
	state := membership.Derive(stored, book)
	assert.Equal(t, model.WantToRead.Name(), state.CurrentShelf)

	cached, err := m.State(ctx)
	require.NoError(t, err)
	assert.Equal(t, state, cached)

	// selecting it again takes it off
	_, err = m.Select(ctx, model.WantToRead.Name())
	require.NoError(t, err)
	stored, err = repo.FetchShelvesWithItems(ctx, "u1", nil)
	require.NoError(t, err)
	assert.False(t, membership.Derive(stored, book).IsBookmarked)
}
