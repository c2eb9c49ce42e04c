package optimistic

import (
	"errors"
	"fmt"
	"strings"
)

// ErrCacheClosed is returned by Query after the cache was torn down
var ErrCacheClosed = errors.New("optimistic cache is closed")

// ValidationError rejects a mutation locally, before any cache write or
// collaborator call. It is never retried.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
	}
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewValidationError builds a ValidationError for field
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// CollaboratorFailure wraps an error returned by the backing store during a
// mutation. The cache has already been rolled back and marked stale.
type CollaboratorFailure struct {
	Key     Key
	Message string
	Err     error
}

func (e *CollaboratorFailure) Error() string {
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *CollaboratorFailure) Unwrap() error {
	return e.Err
}

// PartialFailure is a multi-step mutation where some steps reached the store
// before a later one failed. The store is left as the completed steps made it;
// nothing is compensated. Only a refetch reconciles the cache with it.
type PartialFailure struct {
	Completed []string
	Failed    string
	Err       error
}

func (e *PartialFailure) Error() string {
	return fmt.Sprintf("%s failed after %s succeeded: %v",
		e.Failed, strings.Join(e.Completed, ", "), e.Err)
}

func (e *PartialFailure) Unwrap() error {
	return e.Err
}

// IsValidation reports whether err is (or wraps) a ValidationError
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// IsPartial reports whether err is (or wraps) a PartialFailure
func IsPartial(err error) bool {
	var p *PartialFailure
	return errors.As(err, &p)
}
