package querybuilder

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
	maxSearchLen = 200
)

// Criteria is the SAQB input shared by every search endpoint
type Criteria struct {
	Search      string   `json:"search,omitempty" form:"search"`
	TagIDs      []string `json:"tags_ids,omitempty" form:"tags"`
	AuthorIDs   []string `json:"authors_ids,omitempty" form:"authors"`
	BookWorkIDs []string `json:"book_works_ids,omitempty" form:"works"`
	Limit       int      `json:"limit" form:"limit"`
	Offset      int      `json:"offset" form:"offset"`
}

// Validate rejects malformed criteria before any query is issued
func (c Criteria) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Search, validation.RuneLength(0, maxSearchLen)),
		validation.Field(&c.TagIDs, validation.Each(validation.Required)),
		validation.Field(&c.AuthorIDs, validation.Each(validation.Required)),
		validation.Field(&c.BookWorkIDs, validation.Each(validation.Required)),
		validation.Field(&c.Limit, validation.Min(0)),
		validation.Field(&c.Offset, validation.Min(0)),
	)
}

// WithDefaults fills a missing limit and caps it at maxLimit
func (c Criteria) WithDefaults(defaultLimit, maxLimit int) Criteria {
	if defaultLimit < 1 {
		defaultLimit = DefaultLimit
	}
	if c.Limit < 1 {
		c.Limit = defaultLimit
	}
	if maxLimit > 0 && c.Limit > maxLimit {
		c.Limit = maxLimit
	}
	if c.Offset < 0 {
		c.Offset = 0
	}
	return c
}

// HasFilters reports whether any filter narrows the result
func (c Criteria) HasFilters() bool {
	return len(Tokenize(c.Search)) > 0 ||
		len(c.TagIDs) > 0 ||
		len(c.AuthorIDs) > 0 ||
		len(c.BookWorkIDs) > 0
}
