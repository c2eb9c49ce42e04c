package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookheaven-backend/internal/domains/author/model"
	"bookheaven-backend/internal/querybuilder"
)

func bio(s string) *string { return &s }

func fixture() RepositoryInterface {
	authors := []model.Author{
		{
			ID: "author1", Name: "J.K. Rowling", Biography: bio("British author of the Harry Potter fantasy series"),
			Works: []model.WorkRef{{ID: "w-hp1", Title: "Philosopher's Stone"}, {ID: "w-hp2", Title: "Chamber of Secrets"}},
		},
		{
			ID: "author2", Name: "George Orwell", Biography: bio("English novelist and essayist"),
			Works: []model.WorkRef{{ID: "w-1984", Title: "Nineteen Eighty-Four"}},
		},
		{
			ID: "author3", Name: "Shirley Jackson", Biography: bio("American writer known for horror and mystery"),
			Works: []model.WorkRef{{ID: "w-hill", Title: "The Haunting of Hill House"}},
		},
	}
	workTags := map[string][]string{
		"w-hp1":  {"t-fantasy", "t-children"},
		"w-hp2":  {"t-fantasy"},
		"w-1984": {"t-dystopia"},
		"w-hill": {"t-horror", "t-gothic"},
	}
	return NewMemoryRepository(authors, workTags)
}

func search(t *testing.T, c querybuilder.Criteria) ([]model.Author, int) {
	t.Helper()
	repo := fixture()
	ctx := context.Background()

	rows, total, err := querybuilder.Paginate(ctx,
		func(ctx context.Context) ([]model.JoinedRow, error) { return repo.Search(ctx, c) },
		func(ctx context.Context) (int, error) { return repo.Count(ctx, c) },
	)
	require.NoError(t, err)
	return model.Fold(rows), total
}

func TestSearch_MatchesName(t *testing.T) {
	authors, total := search(t, querybuilder.Criteria{Search: "rowling", Limit: 20})

	assert.Equal(t, 1, total)
	require.Len(t, authors, 1)
	assert.Equal(t, "author1", authors[0].ID)
	assert.Len(t, authors[0].Works, 2)
}

func TestSearch_MatchesBiography(t *testing.T) {
	authors, total := search(t, querybuilder.Criteria{Search: "horror", Limit: 20})

	assert.Equal(t, 1, total)
	require.Len(t, authors, 1)
	assert.Equal(t, "author3", authors[0].ID)
}

func TestSearch_TagFilterDoesNotMultiplyCount(t *testing.T) {
	authors, total := search(t, querybuilder.Criteria{TagIDs: []string{"t-fantasy", "t-children"}, Limit: 20})

	assert.Equal(t, 1, total)
	require.Len(t, authors, 1)
	assert.Equal(t, "author1", authors[0].ID)
	assert.Len(t, authors[0].Works, 2)
}

func TestSearch_WorkFilterAndPaging(t *testing.T) {
	_, total := search(t, querybuilder.Criteria{BookWorkIDs: []string{"w-1984", "w-hill"}, Limit: 20})
	assert.Equal(t, 2, total)

	// sorted by name: Orwell, Rowling, Jackson -> George, J.K., Shirley
	authors, total := search(t, querybuilder.Criteria{Limit: 1, Offset: 1})
	assert.Equal(t, 3, total)
	require.Len(t, authors, 1)
	assert.Equal(t, "author1", authors[0].ID)
}

func TestBuildQueries(t *testing.T) {
	c := querybuilder.Criteria{Search: "king", TagIDs: []string{"t1"}, Limit: 5}

	count, args := buildCountQuery(c)
	assert.Contains(t, count, "COUNT(DISTINCT a.id)")
	assert.Contains(t, count, "(a.name ILIKE $1 OR a.biography ILIKE $1)")
	assert.Contains(t, count, "wt.tag_id = ANY($2)")
	assert.Len(t, args, 2)

	page, args := buildSearchQuery(c)
	assert.Contains(t, page, "LIMIT $3 OFFSET $4")
	assert.Len(t, args, 4)
}
