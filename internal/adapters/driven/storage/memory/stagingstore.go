package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/paramframe/internal/core/domain"
	"github.com/custodia-labs/paramframe/internal/core/ports/driven"
)

// Ensure StagingStore implements the interface.
var _ driven.StagingStore = (*StagingStore)(nil)

// StagingStore is an in-memory implementation of driven.StagingStore.
type StagingStore struct {
	mu      sync.RWMutex
	entries map[string]*domain.StagedSolution
}

// NewStagingStore creates a new in-memory staging store.
func NewStagingStore() *StagingStore {
	return &StagingStore{
		entries: make(map[string]*domain.StagedSolution),
	}
}

// Put replaces the entry for staged.SolutionID.
func (s *StagingStore) Put(_ context.Context, staged *domain.StagedSolution) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[staged.SolutionID] = copyStaged(staged)
	return nil
}

// Get retrieves the entry for a solution.
func (s *StagingStore) Get(_ context.Context, solutionID string) (*domain.StagedSolution, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	staged, ok := s.entries[solutionID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return copyStaged(staged), nil
}

// Delete removes the entry for a solution.
func (s *StagingStore) Delete(_ context.Context, solutionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, solutionID)
	return nil
}

// SolutionIDs lists solutions with an entry, sorted.
func (s *StagingStore) SolutionIDs(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.entries))
	for id := range s.entries {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func copyStaged(src *domain.StagedSolution) *domain.StagedSolution {
	dst := domain.NewStagedSolution(src.SolutionID)
	for table, bySet := range src.Tables {
		for setID, rows := range bySet {
			cloned := make([]domain.Record, len(rows))
			for i, r := range rows {
				cloned[i] = r.Clone()
			}
			dst.Add(table, setID, cloned...)
		}
	}
	return dst
}
