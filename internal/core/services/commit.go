package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/paramframe/internal/core/domain"
	"github.com/custodia-labs/paramframe/internal/core/ports/driven"
	"github.com/custodia-labs/paramframe/internal/core/ports/driving"
	"github.com/custodia-labs/paramframe/internal/logger"
)

// Ensure CommitService implements the interface.
var _ driving.CommitStager = (*CommitService)(nil)

// CommitService builds Commit Staging Store entries from the local registry.
type CommitService struct {
	params    driven.ParameterStore
	sets      driven.ParameterSetStore
	solutions driven.SolutionStore
	staging   driven.StagingStore
}

// NewCommitService creates a new commit service.
func NewCommitService(
	params driven.ParameterStore,
	sets driven.ParameterSetStore,
	solutions driven.SolutionStore,
	staging driven.StagingStore,
) *CommitService {
	return &CommitService{
		params:    params,
		sets:      sets,
		solutions: solutions,
		staging:   staging,
	}
}

// CommitSolution replaces the staging entry of a solution with the rows
// of the given sets. An empty set list commits every linked set.
func (s *CommitService) CommitSolution(
	ctx context.Context,
	solRef domain.SolutionRef,
	setRefs []domain.ParameterSetRef,
) (*domain.StagedSolution, error) {
	if s.params == nil || s.sets == nil || s.solutions == nil || s.staging == nil {
		return nil, domain.ErrNotImplemented
	}
	sol, err := resolveSolution(ctx, s.solutions, solRef)
	if err != nil {
		return nil, err
	}

	if len(setRefs) == 0 {
		links, err := s.solutions.Links(ctx, sol.ID)
		if err != nil {
			return nil, err
		}
		for _, l := range links {
			setRefs = append(setRefs, domain.ParameterSetRef{ID: l.ParameterSetID})
		}
	}

	staged := domain.NewStagedSolution(sol.ID)
	for _, ref := range setRefs {
		ps, err := resolveParameterSet(ctx, s.sets, ref)
		if err != nil {
			return nil, err
		}
		link, err := s.solutions.GetLink(ctx, sol.ID, ps.ID)
		if err != nil {
			return nil, fmt.Errorf("parameter set %q is not linked to solution %q: %w", ps.Name, sol.Name, err)
		}
		if err := s.stageSet(ctx, staged, *sol, *link, *ps); err != nil {
			return nil, err
		}
	}
	staged.Normalize()

	if err := s.staging.Put(ctx, staged); err != nil {
		return nil, fmt.Errorf("staging solution %q: %w", sol.Name, err)
	}
	logger.Info("committed %d parameter sets of solution %q", len(setRefs), sol.Name)
	return staged, nil
}

func (s *CommitService) stageSet(
	ctx context.Context,
	staged *domain.StagedSolution,
	sol domain.Solution,
	link domain.SolutionParameterSet,
	ps domain.ParameterSet,
) error {
	staged.Add(domain.TableSolutionDescription, ps.ID, domain.SolutionRecord(sol))
	staged.Add(domain.TableSolutionParameterSet, ps.ID, domain.LinkRecord(link))
	staged.Add(domain.TableParameterSet, ps.ID, domain.MembershipRecords(ps)...)
	staged.Add(domain.TableParameterSetDescription, ps.ID, domain.ParameterSetDescriptionRecord(ps))

	for _, pid := range ps.ParameterIDs {
		p, err := s.params.GetByID(ctx, pid)
		if err != nil {
			return fmt.Errorf("member %s of parameter set %q: %w", pid, ps.Name, err)
		}
		staged.Add(domain.TableParameterDescription, ps.ID, domain.ParameterRecord(p.Parameter))
		for _, a := range p.Attributes {
			staged.Add(domain.TableParameterAttribute, ps.ID, domain.AttributeRecord(a))
		}
		for _, v := range p.Values {
			staged.Add(domain.TableAttributeValues, ps.ID, domain.ValueRecord(v))
		}
	}
	return nil
}

// Staged returns the staging entry of a solution.
func (s *CommitService) Staged(ctx context.Context, solutionID string) (*domain.StagedSolution, error) {
	if s.staging == nil {
		return nil, domain.ErrNotImplemented
	}
	staged, err := s.staging.Get(ctx, solutionID)
	if err != nil {
		return nil, fmt.Errorf("staged solution %s: %w", solutionID, err)
	}
	return staged, nil
}
