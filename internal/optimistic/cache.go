// Package optimistic implements an optimistic mutation cache: a keyed
// client-side store whose values are overwritten with a predicted result
// before the backing store confirms a change, then either kept or rolled back.
//
// The cache is an explicit object. Create one per session with NewCache, hand
// it to whatever owns UI state, and Close it when the session ends.
package optimistic

import (
	"context"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// Key identifies one cache entry. Keys are string tuples such as
// {"shelves", userID} or {"likes", "edition", editionID}.
type Key []string

func (k Key) String() string {
	return strings.Join(k, ":")
}

func (k Key) id() string {
	return strings.Join(k, "\x00")
}

// Phase is the per-key mutation state:
// Idle -> Optimistic -> {Committed | RolledBack} -> Idle
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseOptimistic
	PhaseCommitted
	PhaseRolledBack
)

func (p Phase) String() string {
	switch p {
	case PhaseOptimistic:
		return "optimistic"
	case PhaseCommitted:
		return "committed"
	case PhaseRolledBack:
		return "rolled_back"
	default:
		return "idle"
	}
}

// refetch is one in-flight Query fetch. Every reader of the key waits on
// done; value and err are set before done is closed.
type refetch struct {
	cancel    context.CancelFunc
	cancelled bool
	done      chan struct{}
	value     any
	err       error
}

type entry struct {
	value   any
	present bool
	stale   bool
	phase   Phase
	refetch *refetch
	subs    map[int]func(value any)
}

// Cache is a process-wide keyed store. Writes are last-write-wins; the mutex
// only keeps the map memory-safe and does not serialize logical mutations.
type Cache struct {
	mu      sync.Mutex
	entries map[string]*entry
	nextSub int
	closed  bool
	logger  zerolog.Logger
}

// NewCache creates an empty cache
func NewCache(logger zerolog.Logger) *Cache {
	return &Cache{
		entries: make(map[string]*entry),
		logger:  logger.With().Str("component", "optimistic_cache").Logger(),
	}
}

// entryLocked returns the entry for key, creating it. Caller holds c.mu.
func (c *Cache) entryLocked(key Key) *entry {
	id := key.id()
	e, ok := c.entries[id]
	if !ok {
		e = &entry{}
		c.entries[id] = e
	}
	return e
}

func subscribers(e *entry) []func(any) {
	if len(e.subs) == 0 {
		return nil
	}
	out := make([]func(any), 0, len(e.subs))
	for _, fn := range e.subs {
		out = append(out, fn)
	}
	return out
}

// Get returns the cached value for key
func (c *Cache) Get(key Key) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key.id()]
	if !ok || !e.present {
		return nil, false
	}
	return e.value, true
}

// Set overwrites the value for key, clears its stale mark and notifies subscribers
func (c *Cache) Set(key Key, value any) {
	c.mu.Lock()
	e := c.entryLocked(key)
	e.value = value
	e.present = true
	e.stale = false
	subs := subscribers(e)
	c.mu.Unlock()

	for _, fn := range subs {
		fn(value)
	}
}

// Delete drops the value for key. Subscribers receive nil.
func (c *Cache) Delete(key Key) {
	c.mu.Lock()
	e, ok := c.entries[key.id()]
	if !ok {
		c.mu.Unlock()
		return
	}
	e.value = nil
	e.present = false
	subs := subscribers(e)
	c.mu.Unlock()

	for _, fn := range subs {
		fn(nil)
	}
}

// Invalidate marks key stale so the next Query refetches it
func (c *Cache) Invalidate(key Key) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entryLocked(key).stale = true
	c.logger.Debug().Str("key", key.String()).Msg("cache entry invalidated")
}

// IsStale reports whether key was invalidated and not yet refetched
func (c *Cache) IsStale(key Key) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key.id()]
	return ok && e.stale
}

// Phase returns the mutation phase of key
func (c *Cache) Phase(key Key) Phase {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key.id()]; ok {
		return e.phase
	}
	return PhaseIdle
}

func (c *Cache) setPhase(key Key, p Phase) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entryLocked(key).phase = p
}

// CancelRefetch cancels an in-flight Query fetch for key. The fetch result,
// whenever it arrives, is discarded. Reports whether a fetch was cancelled.
func (c *Cache) CancelRefetch(key Key) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key.id()]
	if !ok || e.refetch == nil {
		return false
	}
	e.refetch.cancelled = true
	e.refetch.cancel()
	e.refetch = nil
	return true
}

// Subscribe registers fn to observe every write to key. The returned
// function unregisters it.
func (c *Cache) Subscribe(key Key, fn func(value any)) func() {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := c.entryLocked(key)
	if e.subs == nil {
		e.subs = make(map[int]func(any))
	}
	id := c.nextSub
	c.nextSub++
	e.subs[id] = fn

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(e.subs, id)
	}
}

// Close cancels every in-flight refetch and drops all entries
func (c *Cache) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, e := range c.entries {
		if e.refetch != nil {
			e.refetch.cancelled = true
			e.refetch.cancel()
			e.refetch = nil
		}
	}
	c.entries = make(map[string]*entry)
	c.closed = true
}

// =====================================================
// TYPED READ
// =====================================================

// Fetcher loads the authoritative value for a key
type Fetcher[S any] func(ctx context.Context) (S, error)

// Query returns the cached value for key, fetching it when absent or stale.
// Concurrent readers of the same key share one fetch. The fetch is detached
// from the callers' cancellation: a caller whose ctx ends stops waiting, but
// only a mutation on the key (CancelRefetch) or Close cancels the fetch. A
// cancelled fetch never overwrites the cache and its readers get the value
// the mutation wrote instead.
func Query[S any](ctx context.Context, c *Cache, key Key, fetch Fetcher[S]) (S, error) {
	var zero S

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return zero, ErrCacheClosed
	}
	e := c.entryLocked(key)
	if e.present && !e.stale {
		v := e.value
		c.mu.Unlock()
		return as[S](v), nil
	}

	rf := e.refetch
	if rf == nil {
		fctx, cancel := context.WithCancel(context.WithoutCancel(ctx))
		rf = &refetch{cancel: cancel, done: make(chan struct{})}
		e.refetch = rf
		go c.runFetch(fctx, key, e, rf, func(ctx context.Context) (any, error) { return fetch(ctx) })
	}
	c.mu.Unlock()

	select {
	case <-rf.done:
	case <-ctx.Done():
		return zero, ctx.Err()
	}
	if rf.err != nil {
		return zero, rf.err
	}
	return as[S](rf.value), nil
}

// runFetch loads key and publishes the result to every reader waiting on rf
func (c *Cache) runFetch(ctx context.Context, key Key, e *entry, rf *refetch, fetch func(context.Context) (any, error)) {
	value, err := fetch(ctx)
	rf.cancel()

	c.mu.Lock()
	if e.refetch == rf {
		e.refetch = nil
	}
	if rf.cancelled {
		switch {
		case e.present:
			rf.value = e.value
		case err != nil:
			rf.err = err
		default:
			rf.err = context.Canceled
		}
		c.mu.Unlock()
		close(rf.done)

		c.logger.Debug().Str("key", key.String()).Msg("refetch superseded by mutation")
		return
	}
	if err != nil {
		rf.err = err
		c.mu.Unlock()
		close(rf.done)
		return
	}

	e.value = value
	e.present = true
	e.stale = false
	rf.value = value
	subs := subscribers(e)
	c.mu.Unlock()

	for _, fn := range subs {
		fn(value)
	}
	close(rf.done)
}

func as[S any](v any) S {
	s, _ := v.(S)
	return s
}
