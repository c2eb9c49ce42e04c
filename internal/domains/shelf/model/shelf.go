package model

import (
	"time"
)

// =====================================================
// SHELF KIND
// =====================================================

// ShelfKind is one of the four system shelves every user owns.
// Custom shelves have no kind.
type ShelfKind int

const (
	WantToRead ShelfKind = iota + 1
	CurrentlyReading
	Read
	DidNotFinish
)

var systemKinds = []ShelfKind{WantToRead, CurrentlyReading, Read, DidNotFinish}

// Name returns the shelf name used in storage
func (k ShelfKind) Name() string {
	switch k {
	case WantToRead:
		return "Want to Read"
	case CurrentlyReading:
		return "Currently Reading"
	case Read:
		return "Read"
	case DidNotFinish:
		return "Did Not Finish"
	}
	return ""
}

// Icon returns the icon identifier clients render next to the shelf
func (k ShelfKind) Icon() string {
	switch k {
	case WantToRead:
		return "bookmark"
	case CurrentlyReading:
		return "book-open"
	case Read:
		return "check-circle"
	case DidNotFinish:
		return "x-circle"
	}
	return "library"
}

func (k ShelfKind) String() string {
	return k.Name()
}

// ParseShelfKind maps a shelf name to its kind
func ParseShelfKind(name string) (ShelfKind, bool) {
	for _, k := range systemKinds {
		if k.Name() == name {
			return k, true
		}
	}
	return 0, false
}

// SystemShelves returns the system kinds in display order
func SystemShelves() []ShelfKind {
	out := make([]ShelfKind, len(systemKinds))
	copy(out, systemKinds)
	return out
}

// SystemShelfNames returns the names of the system shelves in display order
func SystemShelfNames() []string {
	names := make([]string, 0, len(systemKinds))
	for _, k := range systemKinds {
		names = append(names, k.Name())
	}
	return names
}

// =====================================================
// ENTITIES
// =====================================================

// ItemKey identifies a book on a shelf. A work is on a shelf at most once,
// whatever edition was saved; shelf_items is keyed by (shelf_id, work_id).
type ItemKey struct {
	WorkID    string  `json:"work_id"`
	EditionID *string `json:"edition_id,omitempty"`
}

// Matches reports whether item holds the same work
func (k ItemKey) Matches(item ShelfItem) bool {
	return item.WorkID == k.WorkID
}

type ShelfItem struct {
	ShelfID   string    `json:"shelf_id"`
	WorkID    string    `json:"work_id"`
	EditionID *string   `json:"edition_id,omitempty"`
	Notes     *string   `json:"notes,omitempty"`
	AddedAt   time.Time `json:"added_at"`
}

type Shelf struct {
	ID          string      `json:"id"`
	OwnerID     string      `json:"owner_id"`
	Name        string      `json:"name"`
	IsPublic    bool        `json:"is_public"`
	Description *string     `json:"description,omitempty"`
	LikeCount   int         `json:"like_count"`
	Items       []ShelfItem `json:"items"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// Kind returns the system kind of the shelf, if any
func (s Shelf) Kind() (ShelfKind, bool) {
	return ParseShelfKind(s.Name)
}

// Icon falls back to the generic library icon for custom shelves
func (s Shelf) Icon() string {
	k, _ := s.Kind()
	return k.Icon()
}

// Contains reports whether the shelf holds key's work
func (s Shelf) Contains(key ItemKey) bool {
	for _, item := range s.Items {
		if key.Matches(item) {
			return true
		}
	}
	return false
}

// FindByName returns the index of the shelf called name, or -1
func FindByName(shelves []Shelf, name string) int {
	for i := range shelves {
		if shelves[i].Name == name {
			return i
		}
	}
	return -1
}

// FindByID returns the index of the shelf with id, or -1
func FindByID(shelves []Shelf, id string) int {
	for i := range shelves {
		if shelves[i].ID == id {
			return i
		}
	}
	return -1
}
