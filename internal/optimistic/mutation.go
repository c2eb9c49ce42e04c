package optimistic

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
)

// Outcome is how a single Mutate call ended
type Outcome int

const (
	// Rejected: validation failed, nothing was written or sent
	Rejected Outcome = iota
	// Committed: the collaborator accepted the change, the optimistic value stays
	Committed
	// RolledBack: the collaborator failed, the snapshot was restored
	RolledBack
)

func (o Outcome) String() string {
	switch o {
	case Committed:
		return "committed"
	case RolledBack:
		return "rolled_back"
	default:
		return "rejected"
	}
}

// Engine binds a cache to a notifier. Specialisations share one engine per session.
type Engine struct {
	cache    *Cache
	notifier Notifier
	logger   zerolog.Logger
}

// NewEngine creates an engine. A nil notifier falls back to logging.
func NewEngine(cache *Cache, notifier Notifier, logger zerolog.Logger) *Engine {
	if notifier == nil {
		notifier = LogNotifier{Logger: logger}
	}
	return &Engine{
		cache:    cache,
		notifier: notifier,
		logger:   logger.With().Str("component", "optimistic_engine").Logger(),
	}
}

func (e *Engine) Cache() *Cache {
	return e.cache
}

// Spec describes one kind of mutation over state S driven by intent I.
// Apply must return a new value and never modify current in place: current is
// the rollback snapshot.
type Spec[S, I any] struct {
	Key Key

	// Validate runs before anything else. Optional.
	Validate func(current S, intent I) error

	// Apply computes the optimistic next state
	Apply func(current S, intent I) S

	// Commit performs the state-changing collaborator call
	Commit func(ctx context.Context, current S, intent I) error

	// Message renders the failure notification for intent
	Message func(intent I, err error) string
}

// Mutator runs the snapshot -> speculative apply -> commit-or-revert protocol
type Mutator[S, I any] struct {
	engine *Engine
	spec   Spec[S, I]
}

func NewMutator[S, I any](engine *Engine, spec Spec[S, I]) *Mutator[S, I] {
	return &Mutator[S, I]{engine: engine, spec: spec}
}

func (m *Mutator[S, I]) Key() Key {
	return m.spec.Key
}

// Mutate applies intent optimistically and confirms it with the collaborator.
//
// The optimistic write is visible to readers before Commit is called. On
// failure the exact pre-mutation value is restored, the user is notified and
// the key is marked stale. Every failure is returned as well as notified.
func (m *Mutator[S, I]) Mutate(ctx context.Context, intent I) (Outcome, error) {
	cache := m.engine.cache
	key := m.spec.Key

	raw, present := cache.Get(key)
	snapshot := as[S](raw)

	// Step 1: local validation, no side effects
	if m.spec.Validate != nil {
		if err := m.spec.Validate(snapshot, intent); err != nil {
			var verr *ValidationError
			if !errors.As(err, &verr) {
				verr = &ValidationError{Message: err.Error(), Err: err}
			}
			m.engine.notifier.Notify(Notification{
				Key:     key,
				Level:   LevelError,
				Message: m.message(intent, verr),
				Err:     verr,
			})
			return Rejected, verr
		}
	}

	// Step 2: stop a refetch from clobbering the optimistic write, then apply
	cache.CancelRefetch(key)
	next := m.spec.Apply(snapshot, intent)
	cache.Set(key, next)
	cache.setPhase(key, PhaseOptimistic)
	m.engine.logger.Debug().Str("key", key.String()).Msg("optimistic write applied")

	// Step 3: confirm with the collaborator
	err := m.spec.Commit(ctx, snapshot, intent)
	if err == nil {
		cache.setPhase(key, PhaseCommitted)
		cache.setPhase(key, PhaseIdle)
		return Committed, nil
	}

	// Step 4: revert to the snapshot and force a refetch on next read
	if present {
		cache.Set(key, snapshot)
	} else {
		cache.Delete(key)
	}
	cache.Invalidate(key)
	cache.setPhase(key, PhaseRolledBack)

	msg := m.message(intent, err)
	m.engine.logger.Warn().
		Err(err).
		Str("key", key.String()).
		Bool("partial", IsPartial(err)).
		Msg("optimistic write rolled back")
	m.engine.notifier.Notify(Notification{
		Key:     key,
		Level:   LevelError,
		Message: msg,
		Err:     err,
	})

	cache.setPhase(key, PhaseIdle)
	return RolledBack, &CollaboratorFailure{Key: key, Message: msg, Err: err}
}

func (m *Mutator[S, I]) message(intent I, err error) string {
	if m.spec.Message != nil {
		if msg := m.spec.Message(intent, err); msg != "" {
			return msg
		}
	}
	return "Failed to save changes"
}
