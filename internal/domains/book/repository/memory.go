package repository

import (
	"context"
	"sort"
	"sync"

	"bookheaven-backend/internal/domains/book/model"
	"bookheaven-backend/internal/querybuilder"
)

// memoryRepository evaluates the same row predicate as the SQL queries over
// an in-process catalog
type memoryRepository struct {
	mu       sync.RWMutex
	editions []model.Edition
}

// NewMemoryRepository creates a repository over editions. Each edition's
// Work.Authors and Work.Tags describe its joins.
func NewMemoryRepository(editions ...model.Edition) RepositoryInterface {
	sorted := append([]model.Edition(nil), editions...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Title != sorted[j].Title {
			return sorted[i].Title < sorted[j].Title
		}
		return sorted[i].ID < sorted[j].ID
	})
	return &memoryRepository{editions: sorted}
}

// Rows expands an edition into its LEFT JOIN rows
func Rows(e model.Edition) []model.JoinedRow {
	base := model.JoinedRow{
		EditionID:     e.ID,
		WorkID:        e.Work.ID,
		Title:         e.Title,
		EditionLabel:  e.EditionLabel,
		Publisher:     e.Publisher,
		ISBN:          e.ISBN,
		Price:         e.Price,
		LikeCount:     e.LikeCount,
		WorkTitle:     e.Work.Title,
		OriginalTitle: e.Work.OriginalTitle,
		Description:   e.Work.Description,
	}

	authors := []*model.Author{nil}
	if len(e.Work.Authors) > 0 {
		authors = authors[:0]
		for i := range e.Work.Authors {
			authors = append(authors, &e.Work.Authors[i])
		}
	}
	tags := []*model.Tag{nil}
	if len(e.Work.Tags) > 0 {
		tags = tags[:0]
		for i := range e.Work.Tags {
			tags = append(tags, &e.Work.Tags[i])
		}
	}

	rows := make([]model.JoinedRow, 0, len(authors)*len(tags))
	for _, a := range authors {
		for _, t := range tags {
			row := base
			if a != nil {
				row.AuthorID, row.AuthorName = &a.ID, &a.Name
			}
			if t != nil {
				row.TagID, row.TagName = &t.ID, &t.Name
			}
			rows = append(rows, row)
		}
	}
	return rows
}

// matching returns the editions with at least one row matching criteria
func (r *memoryRepository) matching(criteria querybuilder.Criteria) [][]model.JoinedRow {
	pred := model.Predicate(criteria)

	var matched [][]model.JoinedRow
	for _, e := range r.editions {
		rows := Rows(e)
		for _, row := range rows {
			if pred.Match(row) {
				matched = append(matched, rows)
				break
			}
		}
	}
	return matched
}

func (r *memoryRepository) Search(_ context.Context, criteria querybuilder.Criteria) ([]model.JoinedRow, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := r.matching(criteria)
	if criteria.Offset >= len(matched) {
		return nil, nil
	}
	end := len(matched)
	if criteria.Limit > 0 && criteria.Offset+criteria.Limit < end {
		end = criteria.Offset + criteria.Limit
	}

	var result []model.JoinedRow
	for _, rows := range matched[criteria.Offset:end] {
		result = append(result, rows...)
	}
	return result, nil
}

func (r *memoryRepository) Count(_ context.Context, criteria querybuilder.Criteria) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.matching(criteria)), nil
}
