package membership_test

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"bookheaven-backend/internal/domains/shelf/membership"
	"bookheaven-backend/internal/domains/shelf/model"
	"bookheaven-backend/internal/optimistic"
)

const owner = "user-1"

var bookB = model.ItemKey{WorkID: "work-b"}

// MockCollaborator is a mock implementation of membership.Collaborator
type MockCollaborator struct {
	mock.Mock
}

func (m *MockCollaborator) FetchShelvesWithItems(ctx context.Context, names []string) ([]model.Shelf, error) {
	args := m.Called(ctx, names)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Shelf), args.Error(1)
}

func (m *MockCollaborator) CreateShelfItem(ctx context.Context, key model.ItemKey, shelfName string) ([]model.ShelfItem, error) {
	args := m.Called(ctx, key, shelfName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ShelfItem), args.Error(1)
}

func (m *MockCollaborator) DeleteShelfItem(ctx context.Context, shelfID string, key model.ItemKey) (bool, error) {
	args := m.Called(ctx, shelfID, key)
	return args.Bool(0), args.Error(1)
}

// MockMover adds the atomic move to MockCollaborator
type MockMover struct {
	MockCollaborator
}

func (m *MockMover) MoveShelfItem(ctx context.Context, key model.ItemKey, fromShelfID, toShelfName string) error {
	args := m.Called(ctx, key, fromShelfID, toShelfName)
	return args.Error(0)
}

func systemShelves() []model.Shelf {
	return []model.Shelf{
		{ID: "s-want", Name: model.WantToRead.Name()},
		{ID: "s-reading", Name: model.CurrentlyReading.Name()},
		{ID: "s-read", Name: model.Read.Name()},
		{ID: "s-dnf", Name: model.DidNotFinish.Name()},
	}
}

// bookOnRead places bookB on the "Read" shelf
func bookOnRead() []model.Shelf {
	shelves := systemShelves()
	shelves[2].Items = []model.ShelfItem{{ShelfID: "s-read", WorkID: bookB.WorkID}}
	return shelves
}

type recorder struct {
	notes []optimistic.Notification
}

func (r *recorder) Notify(n optimistic.Notification) { r.notes = append(r.notes, n) }

func newEngine() (*optimistic.Engine, *recorder) {
	rec := &recorder{}
	return optimistic.NewEngine(optimistic.NewCache(zerolog.Nop()), rec, zerolog.Nop()), rec
}

func TestResolve(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		state  membership.State
		shelf  string
		action membership.Action
	}{
		{"not bookmarked adds", membership.State{}, "Read", membership.Add},
		{"same shelf removes", membership.State{CurrentShelf: "Read", CurrentShelfID: "s-read", IsBookmarked: true}, "Read", membership.Remove},
		{"other shelf moves", membership.State{CurrentShelf: "Read", CurrentShelfID: "s-read", IsBookmarked: true}, "Want to Read", membership.Move},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.action, membership.Resolve(tt.state, tt.shelf).Action)
		})
	}
}

func TestSelect_Add(t *testing.T) {
	t.Parallel()

	// Arrange
	ctx := context.Background()
	engine, _ := newEngine()
	collab := new(MockCollaborator)
	collab.On("FetchShelvesWithItems", mock.Anything, []string(nil)).Return(systemShelves(), nil).Once()

	m := membership.New(engine, collab, owner, bookB, "Book B")
	collab.On("CreateShelfItem", mock.Anything, bookB, "Read").
		Run(func(args mock.Arguments) {
			// the optimistic write is already visible while the call is in flight
			state, err := m.State(ctx)
			require.NoError(t, err)
			assert.Equal(t, "Read", state.CurrentShelf)
		}).
		Return([]model.ShelfItem{{ShelfID: "s-read", WorkID: bookB.WorkID}}, nil).Once()

	// Act
	outcome, err := m.Select(ctx, "Read")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, optimistic.Committed, outcome)
	state, err := m.State(ctx)
	require.NoError(t, err)
	assert.True(t, state.IsBookmarked)
	assert.Equal(t, "s-read", state.CurrentShelfID)
	collab.AssertExpectations(t)
}

func TestSelect_CurrentShelfTogglesOff(t *testing.T) {
	t.Parallel()

	// Arrange
	ctx := context.Background()
	engine, _ := newEngine()
	collab := new(MockCollaborator)
	collab.On("FetchShelvesWithItems", mock.Anything, []string(nil)).Return(bookOnRead(), nil).Once()
	collab.On("DeleteShelfItem", mock.Anything, "s-read", bookB).Return(true, nil).Once()

	m := membership.New(engine, collab, owner, bookB, "Book B")

	// Act
	outcome, err := m.Select(ctx, "Read")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, optimistic.Committed, outcome)
	state, err := m.State(ctx)
	require.NoError(t, err)
	assert.False(t, state.IsBookmarked)
	collab.AssertExpectations(t)
	collab.AssertNotCalled(t, "CreateShelfItem", mock.Anything, mock.Anything, mock.Anything)
}

func TestSelect_MoveIsDeleteThenCreate(t *testing.T) {
	t.Parallel()

	// Arrange
	ctx := context.Background()
	engine, _ := newEngine()
	collab := new(MockCollaborator)
	var calls []string
	collab.On("FetchShelvesWithItems", mock.Anything, []string(nil)).Return(bookOnRead(), nil).Once()
	collab.On("DeleteShelfItem", mock.Anything, "s-read", bookB).
		Run(func(mock.Arguments) { calls = append(calls, "delete") }).
		Return(true, nil).Once()
	collab.On("CreateShelfItem", mock.Anything, bookB, "Want to Read").
		Run(func(mock.Arguments) { calls = append(calls, "create") }).
		Return([]model.ShelfItem{{ShelfID: "s-want", WorkID: bookB.WorkID}}, nil).Once()

	m := membership.New(engine, collab, owner, bookB, "Book B")

	// Act
	outcome, err := m.Select(ctx, "Want to Read")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, optimistic.Committed, outcome)
	assert.Equal(t, []string{"delete", "create"}, calls)

	state, err := m.State(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Want to Read", state.CurrentShelf)
	collab.AssertExpectations(t)
}

func TestSelect_MoveCreateFailureLeavesPartialWindow(t *testing.T) {
	t.Parallel()

	// Arrange
	ctx := context.Background()
	engine, rec := newEngine()
	collab := new(MockCollaborator)
	collab.On("FetchShelvesWithItems", mock.Anything, []string(nil)).Return(bookOnRead(), nil).Once()
	collab.On("DeleteShelfItem", mock.Anything, "s-read", bookB).Return(true, nil).Once()
	collab.On("CreateShelfItem", mock.Anything, bookB, "Want to Read").Return(nil, errors.New("timeout")).Once()

	m := membership.New(engine, collab, owner, bookB, "Book B")

	// Act
	outcome, err := m.Select(ctx, "Want to Read")

	// Assert: the cache is back on "Read" although the store already lost the row
	assert.Equal(t, optimistic.RolledBack, outcome)
	assert.True(t, optimistic.IsPartial(err))

	cached, ok := engine.Cache().Get(membership.CacheKey(owner))
	require.True(t, ok)
	assert.Equal(t, "Read", membership.Derive(cached.([]model.Shelf), bookB).CurrentShelf)
	assert.True(t, engine.Cache().IsStale(membership.CacheKey(owner)))

	require.Len(t, rec.notes, 1)
	assert.Equal(t, `Failed to move "Book B" to Want to Read`, rec.notes[0].Message)

	// the next read refetches and sees the store as it is
	collab.On("FetchShelvesWithItems", mock.Anything, []string(nil)).Return(systemShelves(), nil).Once()
	state, err := m.State(ctx)
	require.NoError(t, err)
	assert.False(t, state.IsBookmarked)
	collab.AssertExpectations(t)
}

func TestSelect_MoveUsesAtomicMover(t *testing.T) {
	t.Parallel()

	// Arrange
	ctx := context.Background()
	engine, _ := newEngine()
	collab := new(MockMover)
	collab.On("FetchShelvesWithItems", mock.Anything, []string(nil)).Return(bookOnRead(), nil).Once()
	collab.On("MoveShelfItem", mock.Anything, bookB, "s-read", "Did Not Finish").Return(nil).Once()

	m := membership.New(engine, collab, owner, bookB, "Book B")

	// Act
	outcome, err := m.Select(ctx, "Did Not Finish")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, optimistic.Committed, outcome)
	collab.AssertNotCalled(t, "DeleteShelfItem", mock.Anything, mock.Anything, mock.Anything)
	collab.AssertNotCalled(t, "CreateShelfItem", mock.Anything, mock.Anything, mock.Anything)
	collab.AssertExpectations(t)
}

func TestSelect_UnknownShelfIsRejected(t *testing.T) {
	t.Parallel()

	// Arrange
	ctx := context.Background()
	engine, rec := newEngine()
	collab := new(MockCollaborator)
	collab.On("FetchShelvesWithItems", mock.Anything, []string(nil)).Return(systemShelves(), nil).Once()

	m := membership.New(engine, collab, owner, bookB, "Book B")

	// Act
	outcome, err := m.Select(ctx, "Favourites")

	// Assert
	assert.Equal(t, optimistic.Rejected, outcome)
	assert.True(t, optimistic.IsValidation(err))
	assert.ErrorIs(t, err, model.ErrShelfNotFound)
	assert.Len(t, rec.notes, 1)
	collab.AssertExpectations(t)
}

func TestSelect_DeleteReportingNothingRollsBack(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	engine, _ := newEngine()
	collab := new(MockCollaborator)
	collab.On("FetchShelvesWithItems", mock.Anything, []string(nil)).Return(bookOnRead(), nil).Once()
	collab.On("DeleteShelfItem", mock.Anything, "s-read", bookB).Return(false, nil).Once()

	m := membership.New(engine, collab, owner, bookB, "Book B")
	outcome, err := m.Select(ctx, "Read")

	assert.Equal(t, optimistic.RolledBack, outcome)
	assert.ErrorIs(t, err, model.ErrShelfItemNotFound)
}

func TestSelect_SnapshotIsNotMutated(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	engine, _ := newEngine()
	original := bookOnRead()
	collab := new(MockCollaborator)
	collab.On("FetchShelvesWithItems", mock.Anything, []string(nil)).Return(original, nil).Once()
	collab.On("DeleteShelfItem", mock.Anything, "s-read", bookB).Return(true, nil).Once()
	collab.On("CreateShelfItem", mock.Anything, bookB, "Currently Reading").Return([]model.ShelfItem{}, nil).Once()

	m := membership.New(engine, collab, owner, bookB, "Book B")
	_, err := m.Select(ctx, "Currently Reading")
	require.NoError(t, err)

	assert.Len(t, original[2].Items, 1)
	assert.Empty(t, original[1].Items)
}

// =====================================================
// IN-MEMORY STORE
// =====================================================

// store is a collaborator backed by a map, used to check placement
// invariants over long selection sequences
type store struct {
	shelves []model.Shelf
}

func (s *store) FetchShelvesWithItems(_ context.Context, _ []string) ([]model.Shelf, error) {
	out := make([]model.Shelf, len(s.shelves))
	for i, sh := range s.shelves {
		out[i] = sh
		out[i].Items = append([]model.ShelfItem(nil), sh.Items...)
	}
	return out, nil
}

func (s *store) CreateShelfItem(_ context.Context, key model.ItemKey, shelfName string) ([]model.ShelfItem, error) {
	i := model.FindByName(s.shelves, shelfName)
	if i < 0 {
		return nil, model.ErrShelfNotFound
	}
	if s.shelves[i].Contains(key) {
		return nil, model.ErrShelfItemExists
	}
	item := model.ShelfItem{ShelfID: s.shelves[i].ID, WorkID: key.WorkID, EditionID: key.EditionID}
	s.shelves[i].Items = append(s.shelves[i].Items, item)
	return []model.ShelfItem{item}, nil
}

func (s *store) DeleteShelfItem(_ context.Context, shelfID string, key model.ItemKey) (bool, error) {
	i := model.FindByID(s.shelves, shelfID)
	if i < 0 {
		return false, nil
	}
	for j, item := range s.shelves[i].Items {
		if key.Matches(item) {
			s.shelves[i].Items = append(s.shelves[i].Items[:j:j], s.shelves[i].Items[j+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func holders(shelves []model.Shelf, key model.ItemKey) int {
	n := 0
	for _, s := range shelves {
		if s.Contains(key) {
			n++
		}
	}
	return n
}

func TestSelect_BookIsOnAtMostOneShelf(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	engine, _ := newEngine()
	st := &store{shelves: systemShelves()}
	names := model.SystemShelfNames()
	books := []model.ItemKey{{WorkID: "w1"}, {WorkID: "w2"}, {WorkID: "w3"}}

	members := make([]*membership.Membership, len(books))
	for i, b := range books {
		members[i] = membership.New(engine, st, owner, b, b.WorkID)
	}

	rng := rand.New(rand.NewSource(42))
	for step := 0; step < 200; step++ {
		i := rng.Intn(len(books))
		_, err := members[i].Select(ctx, names[rng.Intn(len(names))])
		require.NoError(t, err)

		cached, err := members[i].Shelves(ctx)
		require.NoError(t, err)
		for _, b := range books {
			assert.LessOrEqual(t, holders(cached, b), 1, "cache, step %d", step)
			assert.LessOrEqual(t, holders(st.shelves, b), 1, "store, step %d", step)
			assert.Equal(t, holders(st.shelves, b), holders(cached, b), "cache matches store, step %d", step)
		}
	}
}
