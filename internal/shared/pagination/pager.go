package pagination

import "fmt"

// Nav is a navigation intent from a pagination control
type Nav int

const (
	First Nav = iota
	Previous
	Next
	Last
)

func (n Nav) String() string {
	switch n {
	case First:
		return "first"
	case Previous:
		return "previous"
	case Next:
		return "next"
	case Last:
		return "last"
	default:
		return fmt.Sprintf("nav(%d)", int(n))
	}
}

// Navigate returns the target page for nav, clamped to [1, PageCount].
// Returns 0 for an empty result set.
func Navigate(m Meta, nav Nav) int {
	m = Normalize(m)
	if m.IsEmpty() {
		return 0
	}

	var target int
	switch nav {
	case First:
		target = 1
	case Previous:
		target = m.Page - 1
	case Next:
		target = m.Page + 1
	case Last:
		target = m.PageCount
	default:
		target = m.Page
	}

	return clamp(target, 1, m.PageCount)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Pager drives a pagination control. It owns the normalized meta and reports
// page/limit changes to the consumer callbacks.
type Pager struct {
	meta          Meta
	OnPageChange  func(page int)
	OnLimitChange func(limit int)
}

// NewPager normalizes meta and wires the callbacks. Nil callbacks are allowed.
func NewPager(meta Meta, onPageChange, onLimitChange func(int)) *Pager {
	return &Pager{
		meta:          Normalize(meta),
		OnPageChange:  onPageChange,
		OnLimitChange: onLimitChange,
	}
}

// Meta returns the current normalized meta
func (p *Pager) Meta() Meta {
	return p.meta
}

// Go applies a navigation intent and reports the clamped page.
// Nothing is reported for an empty result set.
func (p *Pager) Go(nav Nav) int {
	page := Navigate(p.meta, nav)
	if page == 0 {
		return 0
	}

	p.meta.Page = page
	if p.OnPageChange != nil {
		p.OnPageChange(page)
	}
	return page
}

// SetLimit changes the page size, recomputes PageCount and reports the new limit.
// The current page is reset to 1 since old page numbers are meaningless.
func (p *Pager) SetLimit(limit int) int {
	if limit < 1 {
		limit = 1
	}

	if !p.meta.IsEmpty() {
		p.meta = Normalize(Meta{Page: 1, Limit: limit, Total: p.meta.Total})
	}
	if p.OnLimitChange != nil {
		p.OnLimitChange(limit)
	}
	return limit
}
