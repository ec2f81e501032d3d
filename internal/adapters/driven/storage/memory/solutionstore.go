package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/paramframe/internal/core/domain"
	"github.com/custodia-labs/paramframe/internal/core/ports/driven"
)

// Ensure SolutionStore implements the interface.
var _ driven.SolutionStore = (*SolutionStore)(nil)

// SolutionStore is an in-memory implementation of driven.SolutionStore.
type SolutionStore struct {
	mu        sync.RWMutex
	solutions map[string]domain.Solution
	// links is keyed by solution id, then parameter set id.
	links map[string]map[string]domain.SolutionParameterSet
}

// NewSolutionStore creates a new in-memory solution store.
func NewSolutionStore() *SolutionStore {
	return &SolutionStore{
		solutions: make(map[string]domain.Solution),
		links:     make(map[string]map[string]domain.SolutionParameterSet),
	}
}

// Save stores or replaces a solution.
func (s *SolutionStore) Save(_ context.Context, sol domain.Solution) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.solutions[sol.ID] = sol
	return nil
}

// Get retrieves a solution by id.
func (s *SolutionStore) Get(_ context.Context, id string) (*domain.Solution, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sol, ok := s.solutions[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &sol, nil
}

// GetByName retrieves a solution by name.
// If several solutions share a name, the lowest id is returned.
func (s *SolutionStore) GetByName(_ context.Context, name string) (*domain.Solution, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var found *domain.Solution
	for id := range s.solutions {
		sol := s.solutions[id]
		if sol.Name != name {
			continue
		}
		if found == nil || sol.ID < found.ID {
			found = &sol
		}
	}
	if found == nil {
		return nil, domain.ErrNotFound
	}
	return found, nil
}

// List returns every solution, sorted by name.
func (s *SolutionStore) List(_ context.Context) ([]domain.Solution, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Solution, 0, len(s.solutions))
	for _, sol := range s.solutions {
		out = append(out, sol)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// SaveLink stores or replaces a solution-parameter-set link.
func (s *SolutionStore) SaveLink(_ context.Context, link domain.SolutionParameterSet) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.links[link.SolutionID] == nil {
		s.links[link.SolutionID] = make(map[string]domain.SolutionParameterSet)
	}
	s.links[link.SolutionID][link.ParameterSetID] = link
	return nil
}

// GetLink retrieves the link between a solution and a set.
func (s *SolutionStore) GetLink(_ context.Context, solutionID, parameterSetID string) (*domain.SolutionParameterSet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	link, ok := s.links[solutionID][parameterSetID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &link, nil
}

// Links returns every link of a solution, oldest first.
func (s *SolutionStore) Links(_ context.Context, solutionID string) ([]domain.SolutionParameterSet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.SolutionParameterSet, 0, len(s.links[solutionID]))
	for _, link := range s.links[solutionID] {
		out = append(out, link)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].InsertedAt.Equal(out[j].InsertedAt) {
			return out[i].InsertedAt.Before(out[j].InsertedAt)
		}
		return out[i].ParameterSetID < out[j].ParameterSetID
	})
	return out, nil
}
