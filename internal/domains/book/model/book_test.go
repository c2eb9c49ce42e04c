package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookheaven-backend/internal/querybuilder"
)

func ptr(s string) *string { return &s }

// Folding rows that repeat the same author and tag ids keeps one copy of each
func TestFold_IdempotentAccumulation(t *testing.T) {
	row := func(author, tag string) JoinedRow {
		return JoinedRow{
			EditionID: "e1", WorkID: "w1", Title: "Dune", WorkTitle: "Dune",
			AuthorID: ptr(author), AuthorName: ptr("Frank " + author),
			TagID: ptr(tag), TagName: ptr(tag),
		}
	}
	rows := []JoinedRow{
		row("a1", "t1"), row("a1", "t2"), row("a1", "t1"),
		row("a2", "t1"), row("a2", "t2"), row("a1", "t2"),
		{EditionID: "e2", WorkID: "w2", Title: "Emma", WorkTitle: "Emma"},
	}

	editions := Fold(rows)

	require.Len(t, editions, 2)
	assert.Equal(t, "e1", editions[0].ID)
	assert.Equal(t, []Author{{ID: "a1", Name: "Frank a1"}, {ID: "a2", Name: "Frank a2"}}, editions[0].Work.Authors)
	assert.Equal(t, []Tag{{ID: "t1", Name: "t1"}, {ID: "t2", Name: "t2"}}, editions[0].Work.Tags)

	assert.Equal(t, "e2", editions[1].ID)
	assert.NotNil(t, editions[1].Work.Authors)
	assert.Empty(t, editions[1].Work.Authors)
}

func TestFold_Empty(t *testing.T) {
	assert.Empty(t, Fold(nil))
}

func TestJoinedRow_NullColumns(t *testing.T) {
	row := JoinedRow{Title: "Dune"}

	v, ok := row.Value(ColEditionTitle)
	assert.True(t, ok)
	assert.Equal(t, "Dune", v)

	_, ok = row.Value(ColAuthorName)
	assert.False(t, ok)
	_, ok = row.Value("x.unknown")
	assert.False(t, ok)
}

func TestPredicate_SkipsAbsentFilters(t *testing.T) {
	assert.Zero(t, Predicate(criteriaWith("")).Len())
	assert.Equal(t, 1, Predicate(criteriaWith("dune")).Len())
}

func criteriaWith(search string) querybuilder.Criteria {
	return querybuilder.Criteria{Search: search}
}
