package repository

import (
	"context"
	"sort"

	"bookheaven-backend/internal/domains/author/model"
	"bookheaven-backend/internal/querybuilder"
)

type memoryRepository struct {
	authors  []model.Author
	workTags map[string][]string
}

// NewMemoryRepository creates a read-only repository over authors. workTags
// maps a work id to its tag ids for the tag filter.
func NewMemoryRepository(authors []model.Author, workTags map[string][]string) RepositoryInterface {
	sorted := append([]model.Author(nil), authors...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Name != sorted[j].Name {
			return sorted[i].Name < sorted[j].Name
		}
		return sorted[i].ID < sorted[j].ID
	})
	return &memoryRepository{authors: sorted, workTags: workTags}
}

// filterRows expands an author into author x work x tag rows
func (r *memoryRepository) filterRows(a model.Author) []model.JoinedRow {
	base := model.JoinedRow{AuthorID: a.ID, Name: a.Name, Biography: a.Biography}
	if len(a.Works) == 0 {
		return []model.JoinedRow{base}
	}

	var rows []model.JoinedRow
	for i := range a.Works {
		w := &a.Works[i]
		row := base
		row.WorkID, row.WorkTitle = &w.ID, &w.Title

		tags := r.workTags[w.ID]
		if len(tags) == 0 {
			rows = append(rows, row)
			continue
		}
		for j := range tags {
			tagged := row
			tagged.TagID = &tags[j]
			rows = append(rows, tagged)
		}
	}
	return rows
}

// pageRows are the rows the page query returns: one per author x work
func pageRows(a model.Author) []model.JoinedRow {
	base := model.JoinedRow{AuthorID: a.ID, Name: a.Name, Biography: a.Biography}
	if len(a.Works) == 0 {
		return []model.JoinedRow{base}
	}
	rows := make([]model.JoinedRow, 0, len(a.Works))
	for i := range a.Works {
		row := base
		row.WorkID, row.WorkTitle = &a.Works[i].ID, &a.Works[i].Title
		rows = append(rows, row)
	}
	return rows
}

func (r *memoryRepository) matching(criteria querybuilder.Criteria) []model.Author {
	pred := model.Predicate(criteria)

	var matched []model.Author
	for _, a := range r.authors {
		for _, row := range r.filterRows(a) {
			if pred.Match(row) {
				matched = append(matched, a)
				break
			}
		}
	}
	return matched
}

func (r *memoryRepository) Search(_ context.Context, criteria querybuilder.Criteria) ([]model.JoinedRow, error) {
	matched := r.matching(criteria)
	if criteria.Offset >= len(matched) {
		return nil, nil
	}
	end := len(matched)
	if criteria.Limit > 0 && criteria.Offset+criteria.Limit < end {
		end = criteria.Offset + criteria.Limit
	}

	var rows []model.JoinedRow
	for _, a := range matched[criteria.Offset:end] {
		rows = append(rows, pageRows(a)...)
	}
	return rows, nil
}

func (r *memoryRepository) Count(_ context.Context, criteria querybuilder.Criteria) (int, error) {
	return len(r.matching(criteria)), nil
}
