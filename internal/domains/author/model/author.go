package model

import (
	"errors"
	"fmt"

	"bookheaven-backend/internal/querybuilder"
)

// WorkRef is a work written by an author
type WorkRef struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

type Author struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Biography *string   `json:"biography,omitempty"`
	Works     []WorkRef `json:"works"`
}

// Column names as aliased in the search queries
const (
	ColAuthorID  = "a.id"
	ColName      = "a.name"
	ColBiography = "a.biography"
	ColWorkID    = "w.id"
	ColWorkTitle = "w.title"
	ColTagID     = "wt.tag_id"
)

// SearchColumns are matched by free-text search
var SearchColumns = []string{ColName, ColBiography}

// JoinedRow is one author x work x work-tag row
type JoinedRow struct {
	AuthorID  string
	Name      string
	Biography *string
	WorkID    *string
	WorkTitle *string
	TagID     *string
}

func (r JoinedRow) Value(column string) (string, bool) {
	switch column {
	case ColAuthorID:
		return r.AuthorID, true
	case ColName:
		return r.Name, true
	case ColBiography:
		return deref(r.Biography)
	case ColWorkID:
		return deref(r.WorkID)
	case ColWorkTitle:
		return deref(r.WorkTitle)
	case ColTagID:
		return deref(r.TagID)
	}
	return "", false
}

func deref(s *string) (string, bool) {
	if s == nil {
		return "", false
	}
	return *s, true
}

// Predicate is the row-level filter for criteria
func Predicate(c querybuilder.Criteria) *querybuilder.Predicate {
	return querybuilder.Where(
		querybuilder.TextSearch(c.Search, SearchColumns...),
		querybuilder.AnyOf(ColAuthorID, c.AuthorIDs),
		querybuilder.AnyOf(ColWorkID, c.BookWorkIDs),
		querybuilder.AnyOf(ColTagID, c.TagIDs),
	)
}

// Fold collapses joined rows into authors with de-duplicated works
func Fold(rows []JoinedRow) []Author {
	type folded struct {
		author Author
		works  *querybuilder.UniqueList[string, WorkRef]
	}
	folder := querybuilder.NewFolder[string, folded]()

	for _, row := range rows {
		f := folder.Upsert(row.AuthorID, func() folded {
			return folded{
				author: Author{ID: row.AuthorID, Name: row.Name, Biography: row.Biography},
				works:  querybuilder.NewUniqueList[string, WorkRef](),
			}
		})
		if row.WorkID != nil {
			title, _ := deref(row.WorkTitle)
			f.works.Add(*row.WorkID, WorkRef{ID: *row.WorkID, Title: title})
		}
	}

	authors := make([]Author, 0, folder.Len())
	for _, f := range folder.Values() {
		a := f.author
		a.Works = f.works.Items()
		authors = append(authors, a)
	}
	return authors
}

// =====================================================
// ERRORS
// =====================================================

const ErrCodeInvalidCriteria = "AUTHOR001"

var ErrInvalidCriteria = errors.New("invalid search criteria")

type AuthorError struct {
	Code    string
	Message string
	Err     error
}

func (e *AuthorError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AuthorError) Unwrap() error {
	return e.Err
}

func NewInvalidCriteriaError(err error) *AuthorError {
	return &AuthorError{Code: ErrCodeInvalidCriteria, Message: err.Error(), Err: ErrInvalidCriteria}
}
