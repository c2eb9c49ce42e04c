package model

import (
	"errors"
	"fmt"
)

// Error codes
const (
	ErrCodeInvalidSubject  = "LIKE001"
	ErrCodeSubjectNotFound = "LIKE002"
)

// Errors
var (
	ErrInvalidSubject  = errors.New("invalid like subject")
	ErrSubjectNotFound = errors.New("like subject not found")
)

// LikeError custom error type
type LikeError struct {
	Code    string
	Message string
	Err     error
}

func (e *LikeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *LikeError) Unwrap() error {
	return e.Err
}

func NewInvalidSubjectError(kind string) *LikeError {
	return &LikeError{
		Code:    ErrCodeInvalidSubject,
		Message: fmt.Sprintf("Cannot like a %q", kind),
		Err:     ErrInvalidSubject,
	}
}

func NewSubjectNotFoundError(s Subject) *LikeError {
	return &LikeError{
		Code:    ErrCodeSubjectNotFound,
		Message: fmt.Sprintf("%s %s not found", s.Kind, s.ID),
		Err:     ErrSubjectNotFound,
	}
}
