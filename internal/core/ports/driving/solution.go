package driving

import (
	"context"

	"github.com/custodia-labs/paramframe/internal/core/domain"
)

// SolutionManager manages solutions and the lifecycle of their parameter sets.
type SolutionManager interface {
	// AddSolutionDescription creates or overwrites a solution.
	AddSolutionDescription(ctx context.Context, in domain.SolutionInput) (*domain.Solution, error)

	// UpdateSolutionDescription applies a partial update to an existing solution.
	UpdateSolutionDescription(ctx context.Context, id string, update domain.SolutionUpdate) (*domain.Solution, error)

	// AddParameterSetToSolution links a set to a solution in STAGING.
	AddParameterSetToSolution(
		ctx context.Context,
		sol domain.SolutionRef,
		set domain.ParameterSetRef,
	) (*domain.SolutionParameterSet, error)

	// ChangeStatusFromStagingToProduction promotes a linked set.
	// Remote transitions are not supported.
	ChangeStatusFromStagingToProduction(
		ctx context.Context,
		sol domain.SolutionRef,
		set domain.ParameterSetRef,
		remote bool,
	) (*domain.SolutionParameterSet, error)

	// ChangeStatusFromProductionToArchived archives a linked set.
	// Remote transitions are not supported.
	ChangeStatusFromProductionToArchived(
		ctx context.Context,
		sol domain.SolutionRef,
		set domain.ParameterSetRef,
		remote bool,
	) (*domain.SolutionParameterSet, error)

	// Get resolves a solution by id or name.
	Get(ctx context.Context, ref domain.SolutionRef) (*domain.Solution, error)

	// List returns every solution, sorted by name.
	List(ctx context.Context) ([]domain.Solution, error)

	// Links returns the parameter set links of a solution, oldest first.
	Links(ctx context.Context, solutionID string) ([]domain.SolutionParameterSet, error)
}
