// Package membership keeps one book's shelf placement in the optimistic cache.
//
// Selecting a shelf resolves to one of three intents against the cached
// shelves-with-items list: add when the book is on no shelf, remove when the
// selected shelf is the current one, move otherwise.
package membership

import (
	"context"
	"slices"

	"bookheaven-backend/internal/domains/shelf/model"
	"bookheaven-backend/internal/optimistic"
)

// Collaborator is the persistence API the shelf cache talks to
type Collaborator interface {
	FetchShelvesWithItems(ctx context.Context, systemShelfNames []string) ([]model.Shelf, error)
	CreateShelfItem(ctx context.Context, key model.ItemKey, shelfName string) ([]model.ShelfItem, error)
	DeleteShelfItem(ctx context.Context, shelfID string, key model.ItemKey) (bool, error)
}

// Mover is implemented by collaborators that can move an item between
// shelves in one atomic call. Without it a move is delete then create.
type Mover interface {
	MoveShelfItem(ctx context.Context, key model.ItemKey, fromShelfID, toShelfName string) error
}

// Action is the resolved meaning of a shelf selection
type Action int

const (
	Add Action = iota + 1
	Remove
	Move
)

func (a Action) String() string {
	switch a {
	case Add:
		return "add"
	case Remove:
		return "remove"
	case Move:
		return "move"
	}
	return "unknown"
}

// State is the book's derived placement
type State struct {
	CurrentShelf   string
	CurrentShelfID string
	IsBookmarked   bool
}

// Derive scans shelves for the shelf holding key
func Derive(shelves []model.Shelf, key model.ItemKey) State {
	for _, s := range shelves {
		if s.Contains(key) {
			return State{CurrentShelf: s.Name, CurrentShelfID: s.ID, IsBookmarked: true}
		}
	}
	return State{}
}

// Intent is a resolved selection
type Intent struct {
	Action      Action
	FromShelf   string
	FromShelfID string
	ToShelf     string
}

// Resolve turns a shelf selection into an intent. Selecting the current shelf
// is always a removal.
func Resolve(state State, shelfName string) Intent {
	switch {
	case !state.IsBookmarked:
		return Intent{Action: Add, ToShelf: shelfName}
	case state.CurrentShelf == shelfName:
		return Intent{Action: Remove, FromShelf: state.CurrentShelf, FromShelfID: state.CurrentShelfID}
	default:
		return Intent{
			Action:      Move,
			FromShelf:   state.CurrentShelf,
			FromShelfID: state.CurrentShelfID,
			ToShelf:     shelfName,
		}
	}
}

// Option configures a Membership
type Option func(*Membership)

// WithSystemShelves restricts the fetched shelves to the given names
func WithSystemShelves(names ...string) Option {
	return func(m *Membership) {
		m.systemShelfNames = names
	}
}

// Membership tracks one book against one user's shelves
type Membership struct {
	collab           Collaborator
	engine           *optimistic.Engine
	item             model.ItemKey
	title            string
	systemShelfNames []string
	mutator          *optimistic.Mutator[[]model.Shelf, Intent]
}

// New creates a Membership for item. Every Membership of the same owner shares
// one cache entry, so a move made for one book is visible to all of them.
func New(engine *optimistic.Engine, collab Collaborator, ownerID string, item model.ItemKey, title string, opts ...Option) *Membership {
	m := &Membership{
		collab: collab,
		engine: engine,
		item:   item,
		title:  title,
	}
	for _, opt := range opts {
		opt(m)
	}

	m.mutator = optimistic.NewMutator(engine, optimistic.Spec[[]model.Shelf, Intent]{
		Key:      CacheKey(ownerID),
		Validate: m.validate,
		Apply:    m.apply,
		Commit:   m.commit,
		Message:  m.message,
	})
	return m
}

// CacheKey is the cache entry holding ownerID's shelves
func CacheKey(ownerID string) optimistic.Key {
	return optimistic.Key{"shelves", ownerID}
}

// Shelves returns the cached shelves, fetching them when absent or stale
func (m *Membership) Shelves(ctx context.Context) ([]model.Shelf, error) {
	return optimistic.Query(ctx, m.engine.Cache(), m.mutator.Key(), func(ctx context.Context) ([]model.Shelf, error) {
		return m.collab.FetchShelvesWithItems(ctx, m.systemShelfNames)
	})
}

// State returns the book's current placement
func (m *Membership) State(ctx context.Context) (State, error) {
	shelves, err := m.Shelves(ctx)
	if err != nil {
		return State{}, err
	}
	return Derive(shelves, m.item), nil
}

// Select applies a shelf selection for the book
func (m *Membership) Select(ctx context.Context, shelfName string) (optimistic.Outcome, error) {
	state, err := m.State(ctx)
	if err != nil {
		return optimistic.Rejected, err
	}
	return m.mutator.Mutate(ctx, Resolve(state, shelfName))
}

// =====================================================
// MUTATION STEPS
// =====================================================

func (m *Membership) validate(shelves []model.Shelf, in Intent) error {
	if m.item.WorkID == "" {
		return optimistic.NewValidationError("work_id", "is required")
	}
	if in.Action == Remove || in.Action == Move {
		if in.FromShelfID == "" {
			return optimistic.NewValidationError("shelf", "current shelf has no id")
		}
	}
	if in.Action == Add || in.Action == Move {
		if model.FindByName(shelves, in.ToShelf) < 0 {
			return &optimistic.ValidationError{
				Field:   "shelf",
				Message: model.NewShelfNotFoundError(in.ToShelf).Message,
				Err:     model.ErrShelfNotFound,
			}
		}
	}
	return nil
}

// apply never writes into current: it is the rollback snapshot
func (m *Membership) apply(current []model.Shelf, in Intent) []model.Shelf {
	next := slices.Clone(current)

	if in.Action == Remove || in.Action == Move {
		if i := model.FindByID(next, in.FromShelfID); i >= 0 {
			next[i].Items = slices.DeleteFunc(slices.Clone(next[i].Items), m.item.Matches)
		}
	}
	if in.Action == Add || in.Action == Move {
		if i := model.FindByName(next, in.ToShelf); i >= 0 {
			next[i].Items = append(slices.Clone(next[i].Items), model.ShelfItem{
				ShelfID:   next[i].ID,
				WorkID:    m.item.WorkID,
				EditionID: m.item.EditionID,
			})
		}
	}
	return next
}

func (m *Membership) commit(ctx context.Context, _ []model.Shelf, in Intent) error {
	switch in.Action {
	case Add:
		_, err := m.collab.CreateShelfItem(ctx, m.item, in.ToShelf)
		return err

	case Remove:
		return m.delete(ctx, in.FromShelfID)

	case Move:
		if mover, ok := m.collab.(Mover); ok {
			return mover.MoveShelfItem(ctx, m.item, in.FromShelfID, in.ToShelf)
		}

		// Step 1: delete from the current shelf
		if err := m.delete(ctx, in.FromShelfID); err != nil {
			return err
		}

		// Step 2: create on the destination. The delete above is not undone.
		if _, err := m.collab.CreateShelfItem(ctx, m.item, in.ToShelf); err != nil {
			return &optimistic.PartialFailure{
				Completed: []string{"delete from " + in.FromShelf},
				Failed:    "create on " + in.ToShelf,
				Err:       err,
			}
		}
		return nil
	}
	return optimistic.NewValidationError("action", "unknown")
}

func (m *Membership) delete(ctx context.Context, shelfID string) error {
	deleted, err := m.collab.DeleteShelfItem(ctx, shelfID, m.item)
	if err != nil {
		return err
	}
	if !deleted {
		return model.NewShelfItemNotFoundError()
	}
	return nil
}

func (m *Membership) message(in Intent, _ error) string {
	switch in.Action {
	case Add:
		return optimistic.FailureMessage("add", m.title, "to", in.ToShelf)
	case Remove:
		return optimistic.FailureMessage("remove", m.title, "from", in.FromShelf)
	case Move:
		return optimistic.FailureMessage("move", m.title, "to", in.ToShelf)
	}
	return ""
}
