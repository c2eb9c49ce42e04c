package model

import (
	"github.com/shopspring/decimal"

	"bookheaven-backend/internal/querybuilder"
)

// Author is the nested author of a work
type Author struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Tag is the nested tag of a work
type Tag struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Work is the abstract book shared by its editions
type Work struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	OriginalTitle *string  `json:"original_title,omitempty"`
	Description   *string  `json:"description,omitempty"`
	Authors       []Author `json:"authors"`
	Tags          []Tag    `json:"tags"`
}

// Edition is the root entity of a book search
type Edition struct {
	ID           string          `json:"id"`
	Title        string          `json:"title"`
	EditionLabel *string         `json:"edition_label,omitempty"`
	Publisher    *string         `json:"publisher,omitempty"`
	ISBN         *string         `json:"isbn,omitempty"`
	Price        decimal.Decimal `json:"price"`
	LikeCount    int             `json:"like_count"`
	Work         Work            `json:"work"`
}

// =====================================================
// JOINED ROWS
// =====================================================

// Column names as aliased in the search queries
const (
	ColEditionTitle  = "e.title"
	ColEditionLabel  = "e.edition_label"
	ColPublisher     = "e.publisher"
	ColWorkID        = "w.id"
	ColWorkTitle     = "w.title"
	ColOriginalTitle = "w.original_title"
	ColWorkDesc      = "w.description"
	ColAuthorID      = "a.id"
	ColAuthorName    = "a.name"
	ColTagID         = "t.id"
	ColTagName       = "t.name"
)

// SearchColumns are the text columns a search token may match
var SearchColumns = []string{
	ColEditionTitle,
	ColWorkTitle,
	ColOriginalTitle,
	ColWorkDesc,
	ColPublisher,
	ColEditionLabel,
	ColAuthorName,
	ColTagName,
}

// JoinedRow is one edition x author x tag row. Author and tag columns are
// NULL for works without authors or tags.
type JoinedRow struct {
	EditionID     string
	WorkID        string
	Title         string
	EditionLabel  *string
	Publisher     *string
	ISBN          *string
	Price         decimal.Decimal
	LikeCount     int
	WorkTitle     string
	OriginalTitle *string
	Description   *string
	AuthorID      *string
	AuthorName    *string
	TagID         *string
	TagName       *string
}

// Value implements querybuilder.Record
func (r JoinedRow) Value(column string) (string, bool) {
	switch column {
	case ColEditionTitle:
		return r.Title, true
	case ColEditionLabel:
		return deref(r.EditionLabel)
	case ColPublisher:
		return deref(r.Publisher)
	case ColWorkID:
		return r.WorkID, true
	case ColWorkTitle:
		return r.WorkTitle, true
	case ColOriginalTitle:
		return deref(r.OriginalTitle)
	case ColWorkDesc:
		return deref(r.Description)
	case ColAuthorID:
		return deref(r.AuthorID)
	case ColAuthorName:
		return deref(r.AuthorName)
	case ColTagID:
		return deref(r.TagID)
	case ColTagName:
		return deref(r.TagName)
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
		querybuilder.AnyOf(ColTagID, c.TagIDs),
		querybuilder.AnyOf(ColAuthorID, c.AuthorIDs),
		querybuilder.AnyOf(ColWorkID, c.BookWorkIDs),
	)
}

// =====================================================
// FOLDING
// =====================================================

type folded struct {
	edition Edition
	authors *querybuilder.UniqueList[string, Author]
	tags    *querybuilder.UniqueList[string, Tag]
}

// Fold collapses joined rows into editions in first-seen order. Each author
// and tag appears once per edition however many rows repeat it.
func Fold(rows []JoinedRow) []Edition {
	folder := querybuilder.NewFolder[string, folded]()

	for _, row := range rows {
		f := folder.Upsert(row.EditionID, func() folded {
			return folded{
				edition: Edition{
					ID:           row.EditionID,
					Title:        row.Title,
					EditionLabel: row.EditionLabel,
					Publisher:    row.Publisher,
					ISBN:         row.ISBN,
					Price:        row.Price,
					LikeCount:    row.LikeCount,
					Work: Work{
						ID:            row.WorkID,
						Title:         row.WorkTitle,
						OriginalTitle: row.OriginalTitle,
						Description:   row.Description,
					},
				},
				authors: querybuilder.NewUniqueList[string, Author](),
				tags:    querybuilder.NewUniqueList[string, Tag](),
			}
		})

		if row.AuthorID != nil {
			f.authors.Add(*row.AuthorID, Author{ID: *row.AuthorID, Name: derefOr(row.AuthorName)})
		}
		if row.TagID != nil {
			f.tags.Add(*row.TagID, Tag{ID: *row.TagID, Name: derefOr(row.TagName)})
		}
	}

	values := folder.Values()
	editions := make([]Edition, 0, len(values))
	for _, f := range values {
		e := f.edition
		e.Work.Authors = f.authors.Items()
		e.Work.Tags = f.tags.Items()
		editions = append(editions, e)
	}
	return editions
}

func derefOr(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
