// Package querybuilder composes optional search filters into one SQL predicate
// and folds fanned-out joined rows back into de-duplicated entities.
//
// A Predicate starts from an always-true base and ANDs an ordered list of
// optional fragments. The same predicate renders to SQL (with $n placeholders
// for pgx) and evaluates in memory, so the page query, the count query and the
// memory repositories used in tests all agree on what matches.
package querybuilder

import (
	"fmt"
	"strings"
)

// Record is one joined row for in-memory evaluation.
// Value returns ok=false when the column is NULL or absent.
type Record interface {
	Value(column string) (string, bool)
}

// RecordFunc adapts a function to Record
type RecordFunc func(column string) (string, bool)

func (f RecordFunc) Value(column string) (string, bool) { return f(column) }

// MapRecord is a Record backed by a column -> value map
type MapRecord map[string]string

func (m MapRecord) Value(column string) (string, bool) {
	v, ok := m[column]
	return v, ok
}

// Args collects positional arguments and hands out $n placeholders
type Args struct {
	first  int
	values []any
}

// NewArgs starts numbering placeholders at first (1 for a fresh query)
func NewArgs(first int) *Args {
	if first < 1 {
		first = 1
	}
	return &Args{first: first}
}

// Add appends v and returns its placeholder
func (a *Args) Add(v any) string {
	a.values = append(a.values, v)
	return fmt.Sprintf("$%d", a.first+len(a.values)-1)
}

// Values returns the collected arguments in placeholder order
func (a *Args) Values() []any {
	return a.values
}

// Next returns the placeholder index the next Add will use
func (a *Args) Next() int {
	return a.first + len(a.values)
}

// Fragment is one optional condition of a predicate
type Fragment interface {
	Render(args *Args) string
	Match(r Record) bool
}

// Predicate is an ordered AND-fold of fragments over an always-true base
type Predicate struct {
	fragments []Fragment
}

// Where builds a predicate from fragments, skipping nil ones
func Where(fragments ...Fragment) *Predicate {
	p := &Predicate{}
	for _, f := range fragments {
		p.And(f)
	}
	return p
}

// And appends f. A nil fragment (an absent filter) is skipped.
func (p *Predicate) And(f Fragment) *Predicate {
	if f == nil {
		return p
	}
	p.fragments = append(p.fragments, f)
	return p
}

// Len is the number of non-trivial fragments
func (p *Predicate) Len() int {
	return len(p.fragments)
}

// Render writes the predicate using args for placeholders
func (p *Predicate) Render(args *Args) string {
	clauses := make([]string, 0, len(p.fragments)+1)
	clauses = append(clauses, "TRUE")
	for _, f := range p.fragments {
		clauses = append(clauses, f.Render(args))
	}
	return strings.Join(clauses, " AND ")
}

// SQL renders the predicate with placeholders starting at $first
func (p *Predicate) SQL(first int) (string, []any) {
	args := NewArgs(first)
	clause := p.Render(args)
	return clause, args.Values()
}

// Match evaluates the predicate against one joined row
func (p *Predicate) Match(r Record) bool {
	for _, f := range p.fragments {
		if !f.Match(r) {
			return false
		}
	}
	return true
}
