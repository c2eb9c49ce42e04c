package optimistic

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu    sync.Mutex
	notes []Notification
}

func (r *recorder) Notify(n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notes = append(r.notes, n)
}

func (r *recorder) messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.notes))
	for _, n := range r.notes {
		out = append(out, n.Message)
	}
	return out
}

func newEngine() (*Engine, *recorder) {
	rec := &recorder{}
	return NewEngine(NewCache(zerolog.Nop()), rec, zerolog.Nop()), rec
}

// counter spec: state is an int, intent is a delta
func counterSpec(key Key, commit func(ctx context.Context, current, delta int) error) Spec[int, int] {
	return Spec[int, int]{
		Key:    key,
		Apply:  func(current, delta int) int { return current + delta },
		Commit: commit,
		Message: func(delta int, _ error) string {
			return FailureMessage("add", "counter", "to", "total")
		},
	}
}

func TestMutate_OptimisticWriteVisibleBeforeCommit(t *testing.T) {
	engine, rec := newEngine()
	key := Key{"counter", "1"}
	engine.Cache().Set(key, 10)

	var seen any
	var phase Phase
	m := NewMutator(engine, counterSpec(key, func(ctx context.Context, current, delta int) error {
		seen, _ = engine.Cache().Get(key)
		phase = engine.Cache().Phase(key)
		assert.Equal(t, 10, current, "commit receives the snapshot")
		return nil
	}))

	outcome, err := m.Mutate(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, Committed, outcome)
	assert.Equal(t, 15, seen)
	assert.Equal(t, PhaseOptimistic, phase)

	v, _ := engine.Cache().Get(key)
	assert.Equal(t, 15, v)
	assert.False(t, engine.Cache().IsStale(key), "success does not force a refetch")
	assert.Equal(t, PhaseIdle, engine.Cache().Phase(key))
	assert.Empty(t, rec.messages())
}

func TestMutate_RollbackOnFailure(t *testing.T) {
	engine, rec := newEngine()
	key := Key{"counter", "1"}
	engine.Cache().Set(key, 10)

	boom := errors.New("network down")
	m := NewMutator(engine, counterSpec(key, func(ctx context.Context, current, delta int) error {
		return boom
	}))

	outcome, err := m.Mutate(context.Background(), 5)
	assert.Equal(t, RolledBack, outcome)
	assert.ErrorIs(t, err, boom)

	var cf *CollaboratorFailure
	require.ErrorAs(t, err, &cf)
	assert.Equal(t, `Failed to add "counter" to total`, cf.Message)

	v, _ := engine.Cache().Get(key)
	assert.Equal(t, 10, v)
	assert.True(t, engine.Cache().IsStale(key))
	assert.Equal(t, []string{`Failed to add "counter" to total`}, rec.messages())
}

func TestMutate_RollbackRemovesEntryThatDidNotExist(t *testing.T) {
	engine, _ := newEngine()
	key := Key{"counter", "new"}

	m := NewMutator(engine, counterSpec(key, func(ctx context.Context, current, delta int) error {
		return errors.New("nope")
	}))

	_, err := m.Mutate(context.Background(), 1)
	require.Error(t, err)

	_, ok := engine.Cache().Get(key)
	assert.False(t, ok)
	assert.True(t, engine.Cache().IsStale(key))
}

func TestMutate_ValidationRejectsWithoutSideEffects(t *testing.T) {
	engine, rec := newEngine()
	key := Key{"counter", "1"}
	engine.Cache().Set(key, 10)

	called := false
	spec := counterSpec(key, func(ctx context.Context, current, delta int) error {
		called = true
		return nil
	})
	spec.Validate = func(current, delta int) error {
		if delta == 0 {
			return NewValidationError("delta", "must not be zero")
		}
		return nil
	}

	outcome, err := NewMutator(engine, spec).Mutate(context.Background(), 0)
	assert.Equal(t, Rejected, outcome)
	assert.True(t, IsValidation(err))
	assert.False(t, called)

	v, _ := engine.Cache().Get(key)
	assert.Equal(t, 10, v)
	assert.False(t, engine.Cache().IsStale(key))
	assert.Len(t, rec.messages(), 1)
}

func TestMutate_PartialFailureIsVisible(t *testing.T) {
	engine, _ := newEngine()
	key := Key{"counter", "1"}
	engine.Cache().Set(key, 1)

	m := NewMutator(engine, counterSpec(key, func(ctx context.Context, current, delta int) error {
		return &PartialFailure{Completed: []string{"delete"}, Failed: "create", Err: errors.New("timeout")}
	}))

	_, err := m.Mutate(context.Background(), 1)
	assert.True(t, IsPartial(err))
}

func TestQuery_CachesUntilInvalidated(t *testing.T) {
	cache := NewCache(zerolog.Nop())
	key := Key{"value"}
	fetches := 0
	fetch := func(ctx context.Context) (string, error) {
		fetches++
		return "v", nil
	}

	for i := 0; i < 3; i++ {
		v, err := Query(context.Background(), cache, key, fetch)
		require.NoError(t, err)
		assert.Equal(t, "v", v)
	}
	assert.Equal(t, 1, fetches)

	cache.Invalidate(key)
	_, err := Query(context.Background(), cache, key, fetch)
	require.NoError(t, err)
	assert.Equal(t, 2, fetches)
	assert.False(t, cache.IsStale(key))
}

func TestQuery_MutationCancelsInFlightRefetch(t *testing.T) {
	engine, _ := newEngine()
	cache := engine.Cache()
	key := Key{"counter", "1"}

	started := make(chan struct{})
	release := make(chan struct{})
	var fetchCtxErr error

	done := make(chan int)
	go func() {
		v, err := Query(context.Background(), cache, key, func(ctx context.Context) (int, error) {
			close(started)
			<-release
			fetchCtxErr = ctx.Err()
			return 1, nil // stale server value
		})
		assert.NoError(t, err)
		done <- v
	}()

	<-started
	m := NewMutator(engine, counterSpec(key, func(ctx context.Context, current, delta int) error { return nil }))
	_, err := m.Mutate(context.Background(), 41)
	require.NoError(t, err)
	close(release)

	select {
	case v := <-done:
		assert.Equal(t, 41, v, "reader sees the optimistic value, not the stale fetch")
	case <-time.After(2 * time.Second):
		t.Fatal("query did not return")
	}
	assert.ErrorIs(t, fetchCtxErr, context.Canceled)

	v, _ := cache.Get(key)
	assert.Equal(t, 41, v)
}

type queryResult struct {
	value int
	err   error
}

func TestQuery_ConcurrentReadersShareOneFetch(t *testing.T) {
	cache := NewCache(zerolog.Nop())
	key := Key{"shelves", "u1"}

	started := make(chan struct{})
	release := make(chan struct{})
	var mu sync.Mutex
	fetches := 0
	fetch := func(ctx context.Context) (int, error) {
		mu.Lock()
		fetches++
		first := fetches == 1
		mu.Unlock()
		if first {
			close(started)
		}
		select {
		case <-release:
			return 7, nil
		case <-ctx.Done():
			return 0, ctx.Err()
		}
	}

	first := make(chan queryResult, 1)
	go func() {
		v, err := Query(context.Background(), cache, key, fetch)
		first <- queryResult{v, err}
	}()
	<-started

	second := make(chan queryResult, 1)
	go func() {
		v, err := Query(context.Background(), cache, key, fetch)
		second <- queryResult{v, err}
	}()

	// let the second reader reach the wait before the fetch completes
	time.Sleep(20 * time.Millisecond)
	close(release)

	for _, ch := range []chan queryResult{first, second} {
		select {
		case res := <-ch:
			require.NoError(t, res.err)
			assert.Equal(t, 7, res.value)
		case <-time.After(2 * time.Second):
			t.Fatal("reader did not return")
		}
	}

	mu.Lock()
	assert.Equal(t, 1, fetches)
	mu.Unlock()
	v, ok := cache.Get(key)
	require.True(t, ok)
	assert.Equal(t, 7, v)
}

func TestQuery_ReaderCancellationDoesNotCancelFetch(t *testing.T) {
	cache := NewCache(zerolog.Nop())
	key := Key{"likes", "edition", "e1"}

	started := make(chan struct{})
	release := make(chan struct{})
	fetch := func(ctx context.Context) (int, error) {
		close(started)
		select {
		case <-release:
			return 3, nil
		case <-ctx.Done():
			return 0, ctx.Err()
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	leaving := make(chan error, 1)
	go func() {
		_, err := Query(ctx, cache, key, fetch)
		leaving <- err
	}()
	<-started

	staying := make(chan queryResult, 1)
	go func() {
		v, err := Query(context.Background(), cache, key, func(context.Context) (int, error) {
			return 0, errors.New("joined reader must not fetch")
		})
		staying <- queryResult{v, err}
	}()

	cancel()
	assert.ErrorIs(t, <-leaving, context.Canceled)

	close(release)
	select {
	case res := <-staying:
		require.NoError(t, res.err)
		assert.Equal(t, 3, res.value)
	case <-time.After(2 * time.Second):
		t.Fatal("reader did not return")
	}
}

func TestQuery_FetchErrorPropagates(t *testing.T) {
	cache := NewCache(zerolog.Nop())
	boom := errors.New("db down")

	_, err := Query(context.Background(), cache, Key{"x"}, func(ctx context.Context) (int, error) {
		return 0, boom
	})
	assert.ErrorIs(t, err, boom)
}

func TestCache_SubscribersSeeOptimisticAndRollback(t *testing.T) {
	engine, _ := newEngine()
	key := Key{"counter", "1"}
	engine.Cache().Set(key, 1)

	var seen []any
	unsubscribe := engine.Cache().Subscribe(key, func(v any) { seen = append(seen, v) })

	m := NewMutator(engine, counterSpec(key, func(ctx context.Context, current, delta int) error {
		return errors.New("fail")
	}))
	_, _ = m.Mutate(context.Background(), 1)

	assert.Equal(t, []any{2, 1}, seen)

	unsubscribe()
	engine.Cache().Set(key, 9)
	assert.Len(t, seen, 2)
}

func TestCache_CloseRejectsQueries(t *testing.T) {
	cache := NewCache(zerolog.Nop())
	cache.Set(Key{"a"}, 1)
	cache.Close()

	_, ok := cache.Get(Key{"a"})
	assert.False(t, ok)

	_, err := Query(context.Background(), cache, Key{"a"}, func(ctx context.Context) (int, error) { return 1, nil })
	assert.ErrorIs(t, err, ErrCacheClosed)
}

func TestFailureMessage(t *testing.T) {
	assert.Equal(t, `Failed to move "Dune" to Read`, FailureMessage("move", "Dune", "to", "Read"))
	assert.Equal(t, `Failed to like "Dune"`, FailureMessage("like", "Dune", "", ""))
}

func TestKey_String(t *testing.T) {
	assert.Equal(t, "likes:edition:e1", Key{"likes", "edition", "e1"}.String())
}
