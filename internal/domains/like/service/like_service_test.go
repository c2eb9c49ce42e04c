package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookheaven-backend/internal/domains/like/model"
	"bookheaven-backend/internal/domains/like/repository"
	"bookheaven-backend/pkg/cache"
)

var (
	edition = model.Subject{Kind: model.SubjectEdition, ID: "e1"}
	shelf   = model.Subject{Kind: model.SubjectShelf, ID: "s1"}
)

func newService(t *testing.T) (ServiceInterface, *cache.Memory) {
	t.Helper()
	repo := repository.NewMemoryLikeRepository(map[model.Subject]int{edition: 3, shelf: 0})
	mem := cache.NewMemory()
	return NewLikeService(repo, mem), mem
}

func TestToggle_LikeThenUnlike(t *testing.T) {
	t.Parallel()
	svc, _ := newService(t)
	ctx := context.Background()

	status, err := svc.Toggle(ctx, "u1", edition)
	require.NoError(t, err)
	assert.True(t, status.Liked)
	assert.Equal(t, 4, status.LikeCount)

	status, err = svc.Toggle(ctx, "u1", edition)
	require.NoError(t, err)
	assert.False(t, status.Liked)
	assert.Equal(t, 3, status.LikeCount)
}

func TestToggle_EditionInvalidatesBookSearch(t *testing.T) {
	t.Parallel()
	svc, mem := newService(t)
	ctx := context.Background()

	require.NoError(t, mem.Set(ctx, cache.BookSearchKey("q"), []string{"page"}, time.Minute))
	require.NoError(t, mem.Set(ctx, cache.TagSearchKey("q"), []string{"page"}, time.Minute))

	_, err := svc.Toggle(ctx, "u1", edition)
	require.NoError(t, err)

	var page []string
	found, err := mem.Get(ctx, cache.BookSearchKey("q"), &page)
	require.NoError(t, err)
	assert.False(t, found)

	found, err = mem.Get(ctx, cache.TagSearchKey("q"), &page)
	require.NoError(t, err)
	assert.True(t, found)
}

func TestToggle_ShelfKeepsBookSearch(t *testing.T) {
	t.Parallel()
	svc, mem := newService(t)
	ctx := context.Background()

	require.NoError(t, mem.Set(ctx, cache.BookSearchKey("q"), 1, time.Minute))
	_, err := svc.Toggle(ctx, "u1", shelf)
	require.NoError(t, err)
	assert.Equal(t, 1, mem.Len())
}

func TestToggle_UnknownSubject(t *testing.T) {
	t.Parallel()
	svc, _ := newService(t)

	_, err := svc.Toggle(context.Background(), "u1", model.Subject{Kind: model.SubjectReview, ID: "missing"})
	var likeErr *model.LikeError
	require.True(t, errors.As(err, &likeErr))
	assert.Equal(t, model.ErrCodeSubjectNotFound, likeErr.Code)
}

func TestGetStatus_InvalidSubject(t *testing.T) {
	t.Parallel()
	svc, _ := newService(t)

	_, err := svc.GetStatus(context.Background(), "u1", model.Subject{Kind: "author", ID: "a1"})
	assert.ErrorIs(t, err, model.ErrInvalidSubject)

	_, err = svc.GetStatus(context.Background(), "u1", model.Subject{Kind: model.SubjectShelf})
	assert.ErrorIs(t, err, model.ErrInvalidSubject)
}

func TestReconcile_AllKinds(t *testing.T) {
	t.Parallel()
	svc, _ := newService(t)

	results, err := svc.Reconcile(context.Background())
	require.NoError(t, err)
	require.Len(t, results, len(model.SubjectKinds()))

	// edition was seeded with 3 likes but has no like rows
	assert.Equal(t, model.ReconcileResult{Kind: model.SubjectEdition, Updated: 1}, results[0])
	assert.Equal(t, int64(0), results[1].Updated)
}

func TestReconcile_DriftedEditionsInvalidateBookSearch(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, mem := newService(t)
	require.NoError(t, mem.Set(ctx, cache.BookSearchKey("q"), []string{"page"}, time.Minute))

	// shelves are already in step, so book pages survive
	_, err := svc.Reconcile(ctx, model.SubjectShelf)
	require.NoError(t, err)
	var page []string
	found, err := mem.Get(ctx, cache.BookSearchKey("q"), &page)
	require.NoError(t, err)
	assert.True(t, found)

	results, err := svc.Reconcile(ctx, model.SubjectEdition)
	require.NoError(t, err)
	require.Equal(t, int64(1), results[0].Updated)
	found, err = mem.Get(ctx, cache.BookSearchKey("q"), &page)
	require.NoError(t, err)
	assert.False(t, found)

	// a second pass finds nothing to fix and leaves the cache alone
	require.NoError(t, mem.Set(ctx, cache.BookSearchKey("q"), []string{"page"}, time.Minute))
	results, err = svc.Reconcile(ctx, model.SubjectEdition)
	require.NoError(t, err)
	require.Equal(t, int64(0), results[0].Updated)
	found, err = mem.Get(ctx, cache.BookSearchKey("q"), &page)
	require.NoError(t, err)
	assert.True(t, found)
}

func TestReconcile_RejectsUnknownKind(t *testing.T) {
	t.Parallel()
	svc, _ := newService(t)

	_, err := svc.Reconcile(context.Background(), "author")
	assert.ErrorIs(t, err, model.ErrInvalidSubject)
}
