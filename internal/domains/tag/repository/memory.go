package repository

import (
	"context"
	"sort"

	"bookheaven-backend/internal/domains/tag/model"
	"bookheaven-backend/internal/querybuilder"
)

type memoryRepository struct {
	tags        []model.Tag
	tagWorks    map[string][]string
	workAuthors map[string][]string
}

// NewMemoryRepository creates a read-only repository. tagWorks maps a tag id
// to the works carrying it and workAuthors maps a work id to its authors.
// BookCount is derived from tagWorks.
func NewMemoryRepository(tags []model.Tag, tagWorks, workAuthors map[string][]string) RepositoryInterface {
	sorted := make([]model.Tag, 0, len(tags))
	for _, t := range tags {
		t.BookCount = len(tagWorks[t.ID])
		sorted = append(sorted, t)
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Name != sorted[j].Name {
			return sorted[i].Name < sorted[j].Name
		}
		return sorted[i].ID < sorted[j].ID
	})
	return &memoryRepository{tags: sorted, tagWorks: tagWorks, workAuthors: workAuthors}
}

func (r *memoryRepository) rows(t model.Tag) []model.FilterRow {
	base := model.FilterRow{TagID: t.ID, Name: t.Name}
	works := r.tagWorks[t.ID]
	if len(works) == 0 {
		return []model.FilterRow{base}
	}

	var rows []model.FilterRow
	for i := range works {
		row := base
		row.WorkID = &works[i]

		authors := r.workAuthors[works[i]]
		if len(authors) == 0 {
			rows = append(rows, row)
			continue
		}
		for j := range authors {
			withAuthor := row
			withAuthor.AuthorID = &authors[j]
			rows = append(rows, withAuthor)
		}
	}
	return rows
}

func (r *memoryRepository) matching(criteria querybuilder.Criteria) []model.Tag {
	pred := model.Predicate(criteria)

	var matched []model.Tag
	for _, t := range r.tags {
		for _, row := range r.rows(t) {
			if pred.Match(row) {
				matched = append(matched, t)
				break
			}
		}
	}
	return matched
}

func (r *memoryRepository) Search(_ context.Context, criteria querybuilder.Criteria) ([]model.Tag, error) {
	matched := r.matching(criteria)
	if criteria.Offset >= len(matched) {
		return nil, nil
	}
	end := len(matched)
	if criteria.Limit > 0 && criteria.Offset+criteria.Limit < end {
		end = criteria.Offset + criteria.Limit
	}
	return matched[criteria.Offset:end], nil
}

func (r *memoryRepository) Count(_ context.Context, criteria querybuilder.Criteria) (int, error) {
	return len(r.matching(criteria)), nil
}
