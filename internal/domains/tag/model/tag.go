package model

import (
	"errors"
	"fmt"

	"bookheaven-backend/internal/querybuilder"
)

type Tag struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	BookCount int    `json:"book_count"`
}

const (
	ColTagID    = "t.id"
	ColName     = "t.name"
	ColWorkID   = "wt.work_id"
	ColAuthorID = "wa.author_id"
)

// FilterRow is one tag x tagged work x work author row
type FilterRow struct {
	TagID    string
	Name     string
	WorkID   *string
	AuthorID *string
}

func (r FilterRow) Value(column string) (string, bool) {
	switch column {
	case ColTagID:
		return r.TagID, true
	case ColName:
		return r.Name, true
	case ColWorkID:
		if r.WorkID == nil {
			return "", false
		}
		return *r.WorkID, true
	case ColAuthorID:
		if r.AuthorID == nil {
			return "", false
		}
		return *r.AuthorID, true
	}
	return "", false
}

func Predicate(c querybuilder.Criteria) *querybuilder.Predicate {
	return querybuilder.Where(
		querybuilder.TextSearch(c.Search, ColName),
		querybuilder.AnyOf(ColTagID, c.TagIDs),
		querybuilder.AnyOf(ColWorkID, c.BookWorkIDs),
		querybuilder.AnyOf(ColAuthorID, c.AuthorIDs),
	)
}

const ErrCodeInvalidCriteria = "TAG001"

var ErrInvalidCriteria = errors.New("invalid search criteria")

type TagError struct {
	Code    string
	Message string
	Err     error
}

func (e *TagError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *TagError) Unwrap() error {
	return e.Err
}

func NewInvalidCriteriaError(err error) *TagError {
	return &TagError{Code: ErrCodeInvalidCriteria, Message: err.Error(), Err: ErrInvalidCriteria}
}
