package driven

import (
	"context"

	"github.com/custodia-labs/paramframe/internal/core/domain"
)

// ParameterStore holds processed parameters keyed by logical name.
type ParameterStore interface {
	// Save stores a parameter, replacing any entry with the same name.
	Save(ctx context.Context, p *domain.ProcessedParameter) error

	// Get retrieves a parameter by name.
	Get(ctx context.Context, name string) (*domain.ProcessedParameter, error)

	// GetByID retrieves a parameter by content id.
	GetByID(ctx context.Context, id string) (*domain.ProcessedParameter, error)

	// List returns every parameter, sorted by name.
	List(ctx context.Context) ([]*domain.ProcessedParameter, error)
}

// ParameterSetStore holds parameter sets keyed by name.
type ParameterSetStore interface {
	// Save stores a set, replacing any entry with the same name.
	Save(ctx context.Context, ps domain.ParameterSet) error

	// Get retrieves a set by name.
	Get(ctx context.Context, name string) (*domain.ParameterSet, error)

	// GetByID retrieves a set by id.
	GetByID(ctx context.Context, id string) (*domain.ParameterSet, error)

	// List returns every set, sorted by name.
	List(ctx context.Context) ([]domain.ParameterSet, error)
}

// SolutionStore holds solutions and their parameter set links.
type SolutionStore interface {
	// Save stores or replaces a solution.
	Save(ctx context.Context, s domain.Solution) error

	// Get retrieves a solution by id.
	Get(ctx context.Context, id string) (*domain.Solution, error)

	// GetByName retrieves a solution by name.
	GetByName(ctx context.Context, name string) (*domain.Solution, error)

	// List returns every solution, sorted by name.
	List(ctx context.Context) ([]domain.Solution, error)

	// SaveLink stores or replaces a solution-parameter-set link.
	SaveLink(ctx context.Context, link domain.SolutionParameterSet) error

	// GetLink retrieves the link between a solution and a set.
	GetLink(ctx context.Context, solutionID, parameterSetID string) (*domain.SolutionParameterSet, error)

	// Links returns every link of a solution, oldest first.
	Links(ctx context.Context, solutionID string) ([]domain.SolutionParameterSet, error)
}

// StagingStore is the Commit Staging Store: one entry per solution.
type StagingStore interface {
	// Put replaces the entry for staged.SolutionID.
	Put(ctx context.Context, staged *domain.StagedSolution) error

	// Get retrieves the entry for a solution.
	Get(ctx context.Context, solutionID string) (*domain.StagedSolution, error)

	// Delete removes the entry for a solution.
	Delete(ctx context.Context, solutionID string) error

	// SolutionIDs lists solutions with an entry, sorted.
	SolutionIDs(ctx context.Context) ([]string, error)
}
