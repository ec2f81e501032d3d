package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/paramframe/internal/core/domain"
	"github.com/custodia-labs/paramframe/internal/core/ports/driven"
	"github.com/custodia-labs/paramframe/internal/core/ports/driving"
	"github.com/custodia-labs/paramframe/internal/digest"
	"github.com/custodia-labs/paramframe/internal/logger"
	"github.com/custodia-labs/paramframe/internal/namegen"
)

// Ensure ParameterSetService implements the interface.
var _ driving.ParameterSetComposer = (*ParameterSetService)(nil)

// ParameterSetService composes registered parameters into ordered sets.
type ParameterSetService struct {
	params driven.ParameterStore
	sets   driven.ParameterSetStore
	names  *namegen.Generator
}

// NewParameterSetService creates a new parameter set service.
// A nil generator falls back to an unseeded one.
func NewParameterSetService(
	params driven.ParameterStore,
	sets driven.ParameterSetStore,
	names *namegen.Generator,
) *ParameterSetService {
	if names == nil {
		names = namegen.New(0)
	}
	return &ParameterSetService{
		params: params,
		sets:   sets,
		names:  names,
	}
}

// ParameterSetID computes a set id from member parameter ids in order.
func ParameterSetID(parameterIDs []string) string {
	return digest.Of(strings.Join(parameterIDs, ""))
}

// MakeParameterSet creates and stores a set from member names.
func (s *ParameterSetService) MakeParameterSet(
	ctx context.Context,
	name, description string,
	members []string,
) (*domain.ParameterSet, error) {
	if s.params == nil || s.sets == nil {
		return nil, domain.ErrNotImplemented
	}

	var resolved []*domain.ProcessedParameter
	if members == nil {
		all, err := s.params.List(ctx)
		if err != nil {
			return nil, err
		}
		resolved = all
	} else {
		resolved = make([]*domain.ProcessedParameter, 0, len(members))
		for _, m := range members {
			p, err := s.params.Get(ctx, m)
			if err != nil {
				return nil, fmt.Errorf("parameter %q: %w", m, err)
			}
			resolved = append(resolved, p)
		}
	}

	// Committed rows are keyed by parameter id, so members must differ in content.
	ids := make([]string, 0, len(resolved))
	owner := make(map[string]string, len(resolved))
	for _, p := range resolved {
		if prev, dup := owner[p.Parameter.ID]; dup {
			return nil, fmt.Errorf("%w: parameters %q and %q have identical content",
				domain.ErrInvalidInput, prev, p.Parameter.Name)
		}
		owner[p.Parameter.ID] = p.Parameter.Name
		ids = append(ids, p.Parameter.ID)
	}

	if name == "" {
		name = s.names.Next()
	}
	ps := domain.ParameterSet{
		ID:           ParameterSetID(ids),
		Name:         name,
		Description:  description,
		ParameterIDs: ids,
	}
	if err := s.sets.Save(ctx, ps); err != nil {
		return nil, fmt.Errorf("saving parameter set %q: %w", name, err)
	}
	logger.Debug("parameter set %q (%s) with %d members", ps.Name, ps.ID, len(ids))
	return &ps, nil
}

// Get retrieves a set by name.
func (s *ParameterSetService) Get(ctx context.Context, name string) (*domain.ParameterSet, error) {
	if s.sets == nil {
		return nil, domain.ErrNotImplemented
	}
	return s.sets.Get(ctx, name)
}

// GetByID retrieves a set by id.
func (s *ParameterSetService) GetByID(ctx context.Context, id string) (*domain.ParameterSet, error) {
	if s.sets == nil {
		return nil, domain.ErrNotImplemented
	}
	return s.sets.GetByID(ctx, id)
}

// List returns every set, sorted by name.
func (s *ParameterSetService) List(ctx context.Context) ([]domain.ParameterSet, error) {
	if s.sets == nil {
		return nil, domain.ErrNotImplemented
	}
	return s.sets.List(ctx)
}

// resolveParameterSet looks a set up by id or name.
func resolveParameterSet(
	ctx context.Context,
	sets driven.ParameterSetStore,
	ref domain.ParameterSetRef,
) (*domain.ParameterSet, error) {
	if ref.IsZero() {
		return nil, fmt.Errorf("%w: parameter set id or name required", domain.ErrInvalidInput)
	}
	if ref.ID != "" {
		ps, err := sets.GetByID(ctx, ref.ID)
		if err != nil {
			return nil, fmt.Errorf("parameter set %s: %w", ref.ID, err)
		}
		return ps, nil
	}
	ps, err := sets.Get(ctx, ref.Name)
	if err != nil {
		return nil, fmt.Errorf("parameter set %q: %w", ref.Name, err)
	}
	return ps, nil
}
