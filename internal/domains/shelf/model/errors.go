package model

import (
	"errors"
	"fmt"
)

// Error codes
const (
	ErrCodeShelfNotFound     = "SHELF001"
	ErrCodeShelfItemExists   = "SHELF002"
	ErrCodeShelfItemNotFound = "SHELF003"
	ErrCodeSystemShelf       = "SHELF004"
	ErrCodeInvalidShelf      = "SHELF005"
)

// Errors
var (
	ErrShelfNotFound     = errors.New("shelf not found")
	ErrShelfItemExists   = errors.New("book is already on this shelf")
	ErrShelfItemNotFound = errors.New("book is not on this shelf")
	ErrSystemShelf       = errors.New("system shelves cannot be deleted")
)

// ShelfError custom error type
type ShelfError struct {
	Code    string
	Message string
	Err     error
}

func (e *ShelfError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ShelfError) Unwrap() error {
	return e.Err
}

// Error constructors
func NewShelfNotFoundError(name string) *ShelfError {
	return &ShelfError{
		Code:    ErrCodeShelfNotFound,
		Message: fmt.Sprintf("Shelf %q not found", name),
		Err:     ErrShelfNotFound,
	}
}

func NewShelfItemExistsError() *ShelfError {
	return &ShelfError{
		Code:    ErrCodeShelfItemExists,
		Message: "Book is already on this shelf",
		Err:     ErrShelfItemExists,
	}
}

func NewShelfItemNotFoundError() *ShelfError {
	return &ShelfError{
		Code:    ErrCodeShelfItemNotFound,
		Message: "Book is not on this shelf",
		Err:     ErrShelfItemNotFound,
	}
}

func NewSystemShelfError(name string) *ShelfError {
	return &ShelfError{
		Code:    ErrCodeSystemShelf,
		Message: fmt.Sprintf("Shelf %q is a system shelf", name),
		Err:     ErrSystemShelf,
	}
}

func NewInvalidShelfError(err error) *ShelfError {
	return &ShelfError{
		Code:    ErrCodeInvalidShelf,
		Message: "Invalid shelf request",
		Err:     err,
	}
}
