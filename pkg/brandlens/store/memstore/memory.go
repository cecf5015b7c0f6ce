package memstore

import (
	"context"
	"fmt"
	"sync"

	"github.com/cognicore/brandlens/pkg/brandlens/internalerr"
	"github.com/cognicore/brandlens/pkg/brandlens/mention"
	"github.com/cognicore/brandlens/pkg/brandlens/store"
)

// Store is the in-memory implementation of store.Store. It is the default
// backing for a single run: mentions live for the run and are discarded
// with it.
type Store struct {
	mu       sync.RWMutex
	order    []string
	byID     map[string]mention.Mention
	dim      int
	sealed   bool
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		byID: make(map[string]mention.Mention),
	}
}

// Close implements store.Store.
func (s *Store) Close() error { return nil }

// Add validates and appends a mention, enforcing a constant embedding
// dimension across the run.
func (s *Store) Add(ctx context.Context, m mention.Mention) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := m.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sealed {
		return fmt.Errorf("%w: cannot add mention %s", internalerr.ErrStoreSealed, m.ID)
	}
	if _, ok := s.byID[m.ID]; ok {
		return fmt.Errorf("%w: duplicate mention id %s", internalerr.ErrInvalidInput, m.ID)
	}
	if s.dim == 0 {
		s.dim = len(m.Embedding)
	} else if len(m.Embedding) != s.dim {
		return fmt.Errorf("%w: mention %s embedding dimension %d, run dimension %d",
			internalerr.ErrInvalidInput, m.ID, len(m.Embedding), s.dim)
	}

	s.byID[m.ID] = m.Clone()
	s.order = append(s.order, m.ID)
	return nil
}

// Seal marks the store read-only.
func (s *Store) Seal(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sealed = true
	return nil
}

// Sealed reports whether the store accepts further mentions.
func (s *Store) Sealed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sealed
}

// Get returns a copy of the mention with the given id.
func (s *Store) Get(ctx context.Context, id string) (mention.Mention, bool, error) {
	if err := ctx.Err(); err != nil {
		return mention.Mention{}, false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.byID[id]
	if !ok {
		return mention.Mention{}, false, nil
	}
	return m.Clone(), true, nil
}

// All returns copies of every mention in insertion order.
func (s *Store) All(ctx context.Context) ([]mention.Mention, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]mention.Mention, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.byID[id].Clone())
	}
	return out, nil
}

// Len reports the number of stored mentions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

// Dimension reports the run's embedding dimension (0 when empty).
func (s *Store) Dimension() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dim
}

var _ store.Store = (*Store)(nil)
