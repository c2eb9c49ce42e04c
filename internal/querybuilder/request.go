package querybuilder

import (
	"strings"

	"bookheaven-backend/internal/shared/pagination"
)

// SearchParams is the query string shared by the public search endpoints.
// Id lists accept repeated keys (?tags=a&tags=b) and comma separated values.
type SearchParams struct {
	Search  string   `form:"search"`
	Tags    []string `form:"tags"`
	Authors []string `form:"authors"`
	Works   []string `form:"works"`
	pagination.Params
}

// Criteria converts page based params into limit/offset criteria
func (p SearchParams) Criteria(defaultLimit, maxLimit int) Criteria {
	params := p.Params.Clamp(defaultLimit, maxLimit)
	return Criteria{
		Search:      strings.TrimSpace(p.Search),
		TagIDs:      splitIDs(p.Tags),
		AuthorIDs:   splitIDs(p.Authors),
		BookWorkIDs: splitIDs(p.Works),
		Limit:       params.Limit,
		Offset:      params.Offset(),
	}
}

func splitIDs(values []string) []string {
	var ids []string
	for _, v := range values {
		for _, id := range strings.Split(v, ",") {
			if id = strings.TrimSpace(id); id != "" {
				ids = append(ids, id)
			}
		}
	}
	return ids
}

// Result is one page of folded search results
type Result[T any] struct {
	Items      []T             `json:"items"`
	Pagination pagination.Meta `json:"pagination"`
}

// NewResult builds the page for criteria and the distinct root total
func NewResult[T any](items []T, c Criteria, total int) Result[T] {
	if items == nil {
		items = []T{}
	}
	return Result[T]{
		Items:      items,
		Pagination: pagination.FromOffset(c.Limit, c.Offset, total),
	}
}
