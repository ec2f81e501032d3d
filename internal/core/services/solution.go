package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/paramframe/internal/core/domain"
	"github.com/custodia-labs/paramframe/internal/core/ports/driven"
	"github.com/custodia-labs/paramframe/internal/core/ports/driving"
	"github.com/custodia-labs/paramframe/internal/digest"
	"github.com/custodia-labs/paramframe/internal/logger"
)

// Ensure SolutionService implements the interface.
var _ driving.SolutionManager = (*SolutionService)(nil)

// SolutionService manages solutions and the deployment status of the
// parameter sets linked to them.
type SolutionService struct {
	solutions driven.SolutionStore
	sets      driven.ParameterSetStore
	now       func() time.Time
}

// NewSolutionService creates a new solution service.
func NewSolutionService(solutions driven.SolutionStore, sets driven.ParameterSetStore) *SolutionService {
	return &SolutionService{
		solutions: solutions,
		sets:      sets,
		now:       time.Now,
	}
}

// SetClock replaces the time source used for link timestamps.
func (s *SolutionService) SetClock(now func() time.Time) {
	s.now = now
}

// AddSolutionDescription creates or overwrites a solution.
func (s *SolutionService) AddSolutionDescription(ctx context.Context, in domain.SolutionInput) (*domain.Solution, error) {
	if s.solutions == nil {
		return nil, domain.ErrNotImplemented
	}
	id := in.ID
	if id == "" {
		id = digest.Of(uuid.NewString() + in.Name)
	}
	sol := domain.Solution{
		ID:              id,
		Name:            domain.TruncateSolutionName(in.Name),
		Description:     in.Description,
		DeploymentDate:  in.DeploymentDate,
		DeprecationDate: in.DeprecationDate,
		Maintainers:     in.Maintainers,
	}
	if err := s.solutions.Save(ctx, sol); err != nil {
		return nil, fmt.Errorf("saving solution %q: %w", sol.Name, err)
	}
	logger.Debug("solution %q (%s) saved", sol.Name, sol.ID)
	return &sol, nil
}

// UpdateSolutionDescription applies a partial update to an existing solution.
func (s *SolutionService) UpdateSolutionDescription(
	ctx context.Context,
	id string,
	update domain.SolutionUpdate,
) (*domain.Solution, error) {
	if s.solutions == nil {
		return nil, domain.ErrNotImplemented
	}
	existing, err := s.solutions.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("solution %s: %w", id, err)
	}
	sol := update.Apply(*existing)
	if err := s.solutions.Save(ctx, sol); err != nil {
		return nil, fmt.Errorf("saving solution %q: %w", sol.Name, err)
	}
	return &sol, nil
}

// AddParameterSetToSolution links a set to a solution in STAGING.
func (s *SolutionService) AddParameterSetToSolution(
	ctx context.Context,
	solRef domain.SolutionRef,
	setRef domain.ParameterSetRef,
) (*domain.SolutionParameterSet, error) {
	if s.solutions == nil || s.sets == nil {
		return nil, domain.ErrNotImplemented
	}
	sol, err := s.Get(ctx, solRef)
	if err != nil {
		return nil, err
	}
	set, err := resolveParameterSet(ctx, s.sets, setRef)
	if err != nil {
		return nil, err
	}

	if _, err := s.solutions.GetLink(ctx, sol.ID, set.ID); err == nil {
		return nil, fmt.Errorf("%w: parameter set %s already linked to solution %s",
			domain.ErrAlreadyExists, set.ID, sol.ID)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	link := domain.SolutionParameterSet{
		SolutionID:     sol.ID,
		ParameterSetID: set.ID,
		Status:         domain.StatusStaging,
		InsertedAt:     s.now().UTC(),
	}
	if err := s.solutions.SaveLink(ctx, link); err != nil {
		return nil, fmt.Errorf("saving link: %w", err)
	}
	logger.Debug("linked parameter set %q to solution %q", set.Name, sol.Name)
	return &link, nil
}

// ChangeStatusFromStagingToProduction promotes a linked set.
func (s *SolutionService) ChangeStatusFromStagingToProduction(
	ctx context.Context,
	sol domain.SolutionRef,
	set domain.ParameterSetRef,
	remote bool,
) (*domain.SolutionParameterSet, error) {
	return s.transition(ctx, sol, set, remote, domain.StatusStaging, domain.StatusProduction)
}

// ChangeStatusFromProductionToArchived archives a linked set.
func (s *SolutionService) ChangeStatusFromProductionToArchived(
	ctx context.Context,
	sol domain.SolutionRef,
	set domain.ParameterSetRef,
	remote bool,
) (*domain.SolutionParameterSet, error) {
	return s.transition(ctx, sol, set, remote, domain.StatusProduction, domain.StatusArchived)
}

func (s *SolutionService) transition(
	ctx context.Context,
	solRef domain.SolutionRef,
	setRef domain.ParameterSetRef,
	remote bool,
	from, to domain.DeploymentStatus,
) (*domain.SolutionParameterSet, error) {
	if remote {
		return nil, fmt.Errorf("%w: remote status transitions", domain.ErrNotImplemented)
	}
	if s.solutions == nil || s.sets == nil {
		return nil, domain.ErrNotImplemented
	}
	sol, err := s.Get(ctx, solRef)
	if err != nil {
		return nil, err
	}
	set, err := resolveParameterSet(ctx, s.sets, setRef)
	if err != nil {
		return nil, err
	}
	link, err := s.solutions.GetLink(ctx, sol.ID, set.ID)
	if err != nil {
		return nil, fmt.Errorf("link %s/%s: %w", sol.ID, set.ID, err)
	}
	if link.Status != from {
		return nil, fmt.Errorf("%w: parameter set %s is %s, expected %s",
			domain.ErrStateTransition, set.ID, link.Status, from)
	}
	link.Status = to
	if err := s.solutions.SaveLink(ctx, *link); err != nil {
		return nil, fmt.Errorf("saving link: %w", err)
	}
	logger.Info("parameter set %q in solution %q: %s -> %s", set.Name, sol.Name, from, to)
	return link, nil
}

// Get resolves a solution by id or name.
func (s *SolutionService) Get(ctx context.Context, ref domain.SolutionRef) (*domain.Solution, error) {
	if s.solutions == nil {
		return nil, domain.ErrNotImplemented
	}
	return resolveSolution(ctx, s.solutions, ref)
}

// resolveSolution looks a solution up by id or name.
func resolveSolution(ctx context.Context, store driven.SolutionStore, ref domain.SolutionRef) (*domain.Solution, error) {
	if ref.IsZero() {
		return nil, fmt.Errorf("%w: solution id or name required", domain.ErrInvalidInput)
	}
	if ref.ID != "" {
		sol, err := store.Get(ctx, ref.ID)
		if err != nil {
			return nil, fmt.Errorf("solution %s: %w", ref.ID, err)
		}
		return sol, nil
	}
	sol, err := store.GetByName(ctx, ref.Name)
	if err != nil {
		return nil, fmt.Errorf("solution %q: %w", ref.Name, err)
	}
	return sol, nil
}

// List returns every solution, sorted by name.
func (s *SolutionService) List(ctx context.Context) ([]domain.Solution, error) {
	if s.solutions == nil {
		return nil, domain.ErrNotImplemented
	}
	return s.solutions.List(ctx)
}

// Links returns the parameter set links of a solution, oldest first.
func (s *SolutionService) Links(ctx context.Context, solutionID string) ([]domain.SolutionParameterSet, error) {
	if s.solutions == nil {
		return nil, domain.ErrNotImplemented
	}
	return s.solutions.Links(ctx, solutionID)
}

