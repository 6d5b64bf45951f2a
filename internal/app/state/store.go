// Package state holds the per-page entity lists backing the console views.
package state

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
	"github.com/yigit/communityadmin/internal/app/models"
	"github.com/yigit/communityadmin/internal/pkg/apperrors"
	"github.com/yigit/communityadmin/internal/pkg/notify"
)

// FetchFunc loads the full list of a store
type FetchFunc[T models.Entity] func(ctx context.Context) ([]T, error)

// Store is the entity state container of one page: the current list plus a
// loading flag. Fetch replaces the list wholesale; local mutators patch it.
type Store[T models.Entity] struct {
	name     string
	fetch    FetchFunc[T]
	life     *Lifetime
	notifier notify.Notifier
	log      zerolog.Logger

	mu      sync.RWMutex
	items   []T
	loading bool
	gen     uint64
}

// NewStore creates an empty store. fetch may be nil for stores filled only locally.
func NewStore[T models.Entity](name string, fetch FetchFunc[T], life *Lifetime, notifier notify.Notifier, log zerolog.Logger) *Store[T] {
	if life == nil {
		life = NewLifetime(context.Background())
	}
	return &Store[T]{
		name:     name,
		fetch:    fetch,
		life:     life,
		notifier: notifier,
		log:      log.With().Str("store", name).Logger(),
		items:    []T{},
	}
}

// Name returns the store name
func (s *Store[T]) Name() string { return s.name }

// Lifetime returns the lifetime the store is bound to
func (s *Store[T]) Lifetime() *Lifetime { return s.life }

// Items returns a copy of the current list
func (s *Store[T]) Items() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clone(s.items)
}

// Loading reports whether a fetch is in flight
func (s *Store[T]) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Len returns the number of items
func (s *Store[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Find returns the item with id
func (s *Store[T]) Find(id string) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, it := range s.items {
		if it.GetID() == id {
			return it, true
		}
	}
	var zero T
	return zero, false
}

// Fetch replaces the list with the server's. On failure the list is cleared and
// the error surfaced; a response without the expected shape counts as empty.
// Results arriving after the lifetime closed, or after a newer fetch started,
// are dropped.
func (s *Store[T]) Fetch(ctx context.Context) error {
	if s.fetch == nil {
		return nil
	}

	s.mu.Lock()
	s.gen++
	gen := s.gen
	s.loading = true
	s.mu.Unlock()

	ctx, cancel := s.life.Bind(ctx)
	defer cancel()

	items, err := s.fetch(ctx)

	if s.life.Closed() {
		s.mu.Lock()
		if gen == s.gen {
			s.loading = false
		}
		s.mu.Unlock()
		s.log.Debug().Msg("Discarding fetch result of closed view")
		return apperrors.NewCanceledError("fetch "+s.name, context.Canceled)
	}

	s.mu.Lock()
	if gen != s.gen {
		s.mu.Unlock()
		s.log.Debug().Msg("Discarding superseded fetch result")
		return nil
	}
	s.loading = false

	switch {
	case err == nil:
		s.items = nonNil(items)
		s.mu.Unlock()
		return nil

	case apperrors.KindOf(err) == apperrors.KindDataShape:
		s.items = nonNil(items)
		s.mu.Unlock()
		s.log.Warn().Err(err).Msg("Unexpected response shape, showing empty result")
		return nil

	default:
		s.items = []T{}
		s.mu.Unlock()
		if s.notifier != nil {
			s.notifier.Error(err)
		}
		return err
	}
}

// Refresh is Fetch under the name child views use
func (s *Store[T]) Refresh(ctx context.Context) error {
	return s.Fetch(ctx)
}

// Append adds item at the end of the list
func (s *Store[T]) Append(item T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, item)
}

// RemoveByID drops every item with id and reports whether any was removed
func (s *Store[T]) RemoveByID(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := make([]T, 0, len(s.items))
	for _, it := range s.items {
		if it.GetID() != id {
			kept = append(kept, it)
		}
	}
	removed := len(kept) != len(s.items)
	s.items = kept
	return removed
}

// PatchByID applies patch to the item with id in place
func (s *Store[T]) PatchByID(id string, patch func(*T)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].GetID() == id {
			patch(&s.items[i])
			return true
		}
	}
	return false
}

// Replace swaps the item with id for item
func (s *Store[T]) Replace(id string, item T) bool {
	return s.PatchByID(id, func(t *T) { *t = item })
}

// Set replaces the whole list without a fetch
func (s *Store[T]) Set(items []T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = clone(nonNil(items))
}

// Snapshot captures the list for a later Restore
func (s *Store[T]) Snapshot() []T {
	return s.Items()
}

// Restore puts a snapshot back
func (s *Store[T]) Restore(snapshot []T) {
	s.Set(snapshot)
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

func clone[T any](items []T) []T {
	out := make([]T, len(items))
	copy(out, items)
	return out
}
