package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// =====================================================
// REQUEST DTOs
// =====================================================

// UpsertShelfRequest creates or updates a shelf by name
type UpsertShelfRequest struct {
	Name        string  `json:"name"`
	IsPublic    bool    `json:"is_public"`
	Description *string `json:"description"`
}

func (req UpsertShelfRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.Name, validation.Required, validation.RuneLength(1, 100)),
		validation.Field(&req.Description, validation.NilOrNotEmpty, validation.RuneLength(0, 1000)),
	)
}

// AddItemRequest puts a book on the shelf called ShelfName
type AddItemRequest struct {
	WorkID    string  `json:"work_id"`
	EditionID *string `json:"edition_id"`
	ShelfName string  `json:"shelf_name"`
	Notes     *string `json:"notes"`
}

func (req AddItemRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.WorkID, validation.Required, is.UUID),
		validation.Field(&req.EditionID, validation.NilOrNotEmpty, is.UUID),
		validation.Field(&req.ShelfName, validation.Required),
		validation.Field(&req.Notes, validation.RuneLength(0, 2000)),
	)
}

func (req AddItemRequest) Key() ItemKey {
	return ItemKey{WorkID: req.WorkID, EditionID: req.EditionID}
}

// RemoveItemRequest takes a book off a shelf
type RemoveItemRequest struct {
	WorkID string `json:"work_id" form:"work_id"`
}

func (req RemoveItemRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.WorkID, validation.Required, is.UUID),
	)
}

// MoveItemRequest moves a book from one shelf to another
type MoveItemRequest struct {
	WorkID      string  `json:"work_id"`
	EditionID   *string `json:"edition_id"`
	FromShelfID string  `json:"from_shelf_id"`
	ToShelfName string  `json:"to_shelf_name"`
}

func (req MoveItemRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.WorkID, validation.Required, is.UUID),
		validation.Field(&req.EditionID, validation.NilOrNotEmpty, is.UUID),
		validation.Field(&req.FromShelfID, validation.Required, is.UUID),
		validation.Field(&req.ToShelfName, validation.Required),
	)
}

func (req MoveItemRequest) Key() ItemKey {
	return ItemKey{WorkID: req.WorkID, EditionID: req.EditionID}
}

// SelectShelfRequest is a shelf picker selection: add, remove or move
// depending on where the book currently is
type SelectShelfRequest struct {
	WorkID    string  `json:"work_id"`
	EditionID *string `json:"edition_id"`
	ShelfName string  `json:"shelf_name"`
}

func (req SelectShelfRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.WorkID, validation.Required, is.UUID),
		validation.Field(&req.EditionID, validation.NilOrNotEmpty, is.UUID),
		validation.Field(&req.ShelfName, validation.Required),
	)
}

func (req SelectShelfRequest) Key() ItemKey {
	return ItemKey{WorkID: req.WorkID, EditionID: req.EditionID}
}

// ListShelvesRequest filters the shelves listing by name
type ListShelvesRequest struct {
	SystemOnly bool `form:"system"`
}

// ShelfResponse adds display fields to a shelf
type ShelfResponse struct {
	Shelf
	Icon     string `json:"icon"`
	IsSystem bool   `json:"is_system"`
}

func ToShelfResponse(s Shelf) ShelfResponse {
	_, system := s.Kind()
	if s.Items == nil {
		s.Items = []ShelfItem{}
	}
	return ShelfResponse{Shelf: s, Icon: s.Icon(), IsSystem: system}
}
