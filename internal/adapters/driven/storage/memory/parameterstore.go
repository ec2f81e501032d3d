package memory

import (
	"context"
	"slices"
	"sort"
	"sync"

	"github.com/custodia-labs/paramframe/internal/core/domain"
	"github.com/custodia-labs/paramframe/internal/core/ports/driven"
)

// Ensure ParameterStore implements the interface.
var _ driven.ParameterStore = (*ParameterStore)(nil)

// ParameterStore is an in-memory implementation of driven.ParameterStore.
type ParameterStore struct {
	mu     sync.RWMutex
	byName map[string]*domain.ProcessedParameter
}

// NewParameterStore creates a new in-memory parameter store.
func NewParameterStore() *ParameterStore {
	return &ParameterStore{
		byName: make(map[string]*domain.ProcessedParameter),
	}
}

// Save stores a parameter, replacing any entry with the same name.
func (s *ParameterStore) Save(_ context.Context, p *domain.ProcessedParameter) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byName[p.Parameter.Name] = copyParameter(p)
	return nil
}

// Get retrieves a parameter by name.
func (s *ParameterStore) Get(_ context.Context, name string) (*domain.ProcessedParameter, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.byName[name]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return copyParameter(p), nil
}

// GetByID retrieves a parameter by content id.
// If several names hold identical content, the first by name is returned.
func (s *ParameterStore) GetByID(_ context.Context, id string) (*domain.ProcessedParameter, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var found *domain.ProcessedParameter
	for _, p := range s.byName {
		if p.Parameter.ID != id {
			continue
		}
		if found == nil || p.Parameter.Name < found.Parameter.Name {
			found = p
		}
	}
	if found == nil {
		return nil, domain.ErrNotFound
	}
	return copyParameter(found), nil
}

// List returns every parameter, sorted by name.
func (s *ParameterStore) List(_ context.Context) ([]*domain.ProcessedParameter, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*domain.ProcessedParameter, 0, len(s.byName))
	for _, p := range s.byName {
		out = append(out, copyParameter(p))
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Parameter.Name < out[j].Parameter.Name
	})
	return out, nil
}

func copyParameter(p *domain.ProcessedParameter) *domain.ProcessedParameter {
	return &domain.ProcessedParameter{
		Parameter:  p.Parameter,
		Attributes: slices.Clone(p.Attributes),
		Values:     slices.Clone(p.Values),
	}
}
