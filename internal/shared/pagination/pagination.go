package pagination

// =====================================================
// PAGINATION METADATA
// =====================================================

// Meta is the pagination block returned with every list response
type Meta struct {
	Page      int `json:"page"`
	Limit     int `json:"limit"`
	Total     int `json:"total"`
	PageCount int `json:"page_count"`
}

// Empty is the "no results" sentinel. Page and limit are not shown for it.
var Empty = Meta{}

// IsEmpty reports whether meta describes an empty result set
func (m Meta) IsEmpty() bool {
	return m.Total <= 0
}

// Normalize clamps page/limit to >= 1 and recomputes PageCount from Total.
// A caller-supplied PageCount is never trusted.
func Normalize(m Meta) Meta {
	if m.Total <= 0 {
		return Empty
	}

	page := m.Page
	if page < 1 {
		page = 1
	}
	limit := m.Limit
	if limit < 1 {
		limit = 1
	}

	return Meta{
		Page:      page,
		Limit:     limit,
		Total:     m.Total,
		PageCount: PageCount(m.Total, limit),
	}
}

// PageCount = ceil(total / limit)
func PageCount(total, limit int) int {
	if total <= 0 || limit <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}

// FromOffset builds normalized meta for a limit/offset query
func FromOffset(limit, offset, total int) Meta {
	if limit < 1 {
		limit = 1
	}
	if offset < 0 {
		offset = 0
	}
	return Normalize(Meta{
		Page:  offset/limit + 1,
		Limit: limit,
		Total: total,
	})
}

// Offset converts a 1-based page into a row offset
func Offset(page, limit int) int {
	if page < 1 || limit < 1 {
		return 0
	}
	return (page - 1) * limit
}

// =====================================================
// REQUEST PARAMS
// =====================================================

// Params is bound from ?page=&limit= query strings
type Params struct {
	Page  int `form:"page" json:"page"`
	Limit int `form:"limit" json:"limit"`
}

// Clamp fills defaults and caps the page size
func (p Params) Clamp(defaultLimit, maxLimit int) Params {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = defaultLimit
	}
	if maxLimit > 0 && p.Limit > maxLimit {
		p.Limit = maxLimit
	}
	return p
}

// Offset returns the row offset for the params
func (p Params) Offset() int {
	return Offset(p.Page, p.Limit)
}
