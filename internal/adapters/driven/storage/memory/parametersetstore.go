package memory

import (
	"context"
	"slices"
	"sort"
	"sync"

	"github.com/custodia-labs/paramframe/internal/core/domain"
	"github.com/custodia-labs/paramframe/internal/core/ports/driven"
)

// Ensure ParameterSetStore implements the interface.
var _ driven.ParameterSetStore = (*ParameterSetStore)(nil)

// ParameterSetStore is an in-memory implementation of driven.ParameterSetStore.
type ParameterSetStore struct {
	mu     sync.RWMutex
	byName map[string]domain.ParameterSet
}

// NewParameterSetStore creates a new in-memory parameter set store.
func NewParameterSetStore() *ParameterSetStore {
	return &ParameterSetStore{
		byName: make(map[string]domain.ParameterSet),
	}
}

// Save stores a set, replacing any entry with the same name.
func (s *ParameterSetStore) Save(_ context.Context, ps domain.ParameterSet) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ps.ParameterIDs = slices.Clone(ps.ParameterIDs)
	s.byName[ps.Name] = ps
	return nil
}

// Get retrieves a set by name.
func (s *ParameterSetStore) Get(_ context.Context, name string) (*domain.ParameterSet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ps, ok := s.byName[name]
	if !ok {
		return nil, domain.ErrNotFound
	}
	ps.ParameterIDs = slices.Clone(ps.ParameterIDs)
	return &ps, nil
}

// GetByID retrieves a set by id.
// Sets with identical members share an id; the first by name is returned.
func (s *ParameterSetStore) GetByID(_ context.Context, id string) (*domain.ParameterSet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var found *domain.ParameterSet
	for name := range s.byName {
		ps := s.byName[name]
		if ps.ID != id {
			continue
		}
		if found == nil || ps.Name < found.Name {
			found = &ps
		}
	}
	if found == nil {
		return nil, domain.ErrNotFound
	}
	found.ParameterIDs = slices.Clone(found.ParameterIDs)
	return found, nil
}

// List returns every set, sorted by name.
func (s *ParameterSetStore) List(_ context.Context) ([]domain.ParameterSet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.ParameterSet, 0, len(s.byName))
	for _, ps := range s.byName {
		ps.ParameterIDs = slices.Clone(ps.ParameterIDs)
		out = append(out, ps)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
