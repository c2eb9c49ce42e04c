package model

import (
	"errors"
	"fmt"
)

// Error codes
const (
	ErrCodeInvalidCriteria = "BOOK001"
)

var ErrInvalidCriteria = errors.New("invalid search criteria")

// BookError custom error type
type BookError struct {
	Code    string
	Message string
	Err     error
}

func (e *BookError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *BookError) Unwrap() error {
	return e.Err
}

func NewInvalidCriteriaError(err error) *BookError {
	return &BookError{
		Code:    ErrCodeInvalidCriteria,
		Message: err.Error(),
		Err:     ErrInvalidCriteria,
	}
}
