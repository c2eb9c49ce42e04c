package querybuilder

import (
	"fmt"
	"strings"

	"github.com/lib/pq"
)

// Tokenize trims q and splits it on whitespace, dropping empty tokens
func Tokenize(q string) []string {
	return strings.Fields(strings.TrimSpace(q))
}

// likeEscaper escapes ILIKE metacharacters (backslash is the default escape)
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// =====================================================
// FREE-TEXT SEARCH
// =====================================================

type textSearch struct {
	tokens  []string
	columns []string
}

// TextSearch matches when every token is a case-insensitive substring of at
// least one of columns. Tokens may match different columns.
// Returns nil when q has no tokens or no columns are given.
func TextSearch(q string, columns ...string) Fragment {
	tokens := Tokenize(q)
	if len(tokens) == 0 || len(columns) == 0 {
		return nil
	}
	return &textSearch{tokens: tokens, columns: columns}
}

func (t *textSearch) Render(args *Args) string {
	groups := make([]string, 0, len(t.tokens))
	for _, tok := range t.tokens {
		ph := args.Add("%" + likeEscaper.Replace(tok) + "%")

		ors := make([]string, 0, len(t.columns))
		for _, col := range t.columns {
			ors = append(ors, fmt.Sprintf("%s ILIKE %s", col, ph))
		}
		groups = append(groups, "("+strings.Join(ors, " OR ")+")")
	}
	return strings.Join(groups, " AND ")
}

func (t *textSearch) Match(r Record) bool {
	for _, tok := range t.tokens {
		needle := strings.ToLower(tok)
		found := false
		for _, col := range t.columns {
			v, ok := r.Value(col)
			if ok && strings.Contains(strings.ToLower(v), needle) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// =====================================================
// MULTI-VALUE ID FILTER
// =====================================================

type anyOf struct {
	column string
	ids    []string
	set    map[string]struct{}
}

// AnyOf matches rows whose column is one of ids. Returns nil for an empty list.
func AnyOf(column string, ids []string) Fragment {
	if len(ids) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return &anyOf{column: column, ids: ids, set: set}
}

func (a *anyOf) Render(args *Args) string {
	return fmt.Sprintf("%s = ANY(%s)", a.column, args.Add(pq.Array(a.ids)))
}

func (a *anyOf) Match(r Record) bool {
	v, ok := r.Value(a.column)
	if !ok {
		return false
	}
	_, hit := a.set[v]
	return hit
}

// =====================================================
// EQUALITY (ownership scoping, status filters)
// =====================================================

type equals struct {
	column string
	value  any
}

// Equals matches column = value. A nil value yields a nil fragment.
func Equals(column string, value any) Fragment {
	if value == nil {
		return nil
	}
	return &equals{column: column, value: value}
}

func (e *equals) Render(args *Args) string {
	return fmt.Sprintf("%s = %s", e.column, args.Add(e.value))
}

func (e *equals) Match(r Record) bool {
	v, ok := r.Value(e.column)
	return ok && v == fmt.Sprint(e.value)
}
