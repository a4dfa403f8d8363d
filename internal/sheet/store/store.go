// Package store holds the single current character state and fans changes
// out to subscribers. It is owned by the composition root and injected where
// needed.
package store

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/louisbranch/kisheet/internal/sheet/character"
	"github.com/louisbranch/kisheet/internal/sheet/storage"
)

// Updater derives the next state from the previous one.
type Updater func(prev character.State) character.State

// Normalizer adjusts a state before it is committed.
type Normalizer func(character.State) character.State

// Listener receives every committed state.
type Listener func(character.State)

// Option adjusts a single write.
type Option func(*writeOptions)

type writeOptions struct {
	skipSave bool
}

// SkipSave commits the write in memory without persisting it.
func SkipSave() Option {
	return func(o *writeOptions) { o.skipSave = true }
}

// Store is a versioned holder for the current character state. Every write
// replaces the state wholesale. It is safe for concurrent use; writes are
// persisted in commit order.
type Store struct {
	persister   storage.StateStore
	normalizers []Normalizer

	// writeMu orders commit and persist across writers.
	writeMu   sync.Mutex
	mu        sync.RWMutex
	state     character.State
	version   uint64
	listeners map[uint64]Listener
	nextID    uint64
}

// New returns a store holding the default state. A nil persister keeps
// state in memory only. normalizers run in order on every committed state,
// including the one read by Load.
func New(persister storage.StateStore, normalizers ...Normalizer) *Store {
	s := &Store{
		persister:   persister,
		normalizers: normalizers,
		listeners:   map[uint64]Listener{},
	}
	s.state = s.normalize(character.Default())
	return s
}

// Get returns the current state.
func (s *Store) Get() character.State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Version counts committed writes.
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// Subscribe registers fn for every subsequent commit and returns a function
// that removes it.
func (s *Store) Subscribe(fn Listener) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

// Set commits update(current). The result is sanitized and normalized,
// persisted unless SkipSave is given, and announced to subscribers. A
// persistence failure is returned after the in-memory commit.
func (s *Store) Set(ctx context.Context, update Updater, opts ...Option) error {
	return s.Update(ctx, func(prev character.State) (character.State, error) {
		return update(prev), nil
	}, opts...)
}

// Update is Set for updaters that can refuse the change. When update
// returns an error nothing is committed and the error is returned as is.
func (s *Store) Update(ctx context.Context, update func(prev character.State) (character.State, error), opts ...Option) error {
	var o writeOptions
	for _, opt := range opts {
		opt(&o)
	}

	s.writeMu.Lock()
	s.mu.Lock()
	next, err := update(s.state)
	if err != nil {
		s.mu.Unlock()
		s.writeMu.Unlock()
		return err
	}
	next = s.normalize(next)
	s.state = next
	s.version++
	listeners := s.snapshotListeners()
	s.mu.Unlock()

	if !o.skipSave {
		err = s.persist(ctx, next)
	}
	s.writeMu.Unlock()

	for _, fn := range listeners {
		fn(next)
	}
	return err
}

// Replace commits state as the new current state.
func (s *Store) Replace(ctx context.Context, state character.State, opts ...Option) error {
	return s.Set(ctx, func(character.State) character.State { return state }, opts...)
}

// Reset commits the default state.
func (s *Store) Reset(ctx context.Context) error {
	return s.Replace(ctx, character.Default())
}

// Load reads the persisted state. Missing or malformed data is replaced by
// defaults. The normalized result is written back so new fields are
// persisted. Subscribers are not notified.
func (s *Store) Load(ctx context.Context) error {
	state := character.Default()
	if s.persister != nil {
		raw, err := s.persister.LoadState(ctx)
		switch {
		case errors.Is(err, storage.ErrNotFound):
		case err != nil:
			return fmt.Errorf("load state: %w", err)
		default:
			normalized, err := character.Normalize(raw)
			if err != nil {
				log.Printf("stored state is malformed, using defaults: %v", err)
			}
			state = normalized
		}
	}

	state = s.normalize(state)
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	s.mu.Lock()
	s.state = state
	s.version++
	s.mu.Unlock()
	return s.persist(ctx, state)
}

// Export renders the current state as indented JSON.
func (s *Store) Export() ([]byte, error) {
	return character.Export(s.Get())
}

func (s *Store) persist(ctx context.Context, state character.State) error {
	if s.persister == nil {
		return nil
	}
	payload, err := character.Export(state)
	if err != nil {
		return err
	}
	if err := s.persister.SaveState(ctx, payload); err != nil {
		return fmt.Errorf("persist state: %w", err)
	}
	return nil
}

// normalize sanitizes state and then applies the normalizers.
func (s *Store) normalize(state character.State) character.State {
	state = character.Sanitize(state)
	for _, fn := range s.normalizers {
		state = fn(state)
	}
	return state
}

// snapshotListeners must be called with mu held.
func (s *Store) snapshotListeners() []Listener {
	out := make([]Listener, 0, len(s.listeners))
	for id := uint64(0); id < s.nextID; id++ {
		if fn, ok := s.listeners[id]; ok {
			out = append(out, fn)
		}
	}
	return out
}
