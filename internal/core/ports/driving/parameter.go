package driving

import (
	"context"

	"github.com/custodia-labs/paramframe/internal/core/domain"
)

// ParameterRegistry turns files into processed parameters and keeps them by name.
type ParameterRegistry interface {
	// ProcessParametersFromFiles processes files in dir.
	// With nil names every regular file is processed, named after its base
	// name without extension. Descriptions, when given, align with names.
	ProcessParametersFromFiles(
		ctx context.Context,
		dir string,
		names, descriptions []string,
	) ([]*domain.ProcessedParameter, error)

	// ProcessFile processes a single file under the given logical name.
	ProcessFile(ctx context.Context, path, name, description string) (*domain.ProcessedParameter, error)

	// Get retrieves a parameter by name.
	Get(ctx context.Context, name string) (*domain.ProcessedParameter, error)

	// GetByID retrieves a parameter by content id.
	GetByID(ctx context.Context, id string) (*domain.ProcessedParameter, error)

	// List returns every registered parameter, sorted by name.
	List(ctx context.Context) ([]*domain.ProcessedParameter, error)
}

// ParameterSetComposer groups registered parameters into ordered sets.
type ParameterSetComposer interface {
	// MakeParameterSet creates a set from member names.
	// An empty name is replaced by a generated one. Nil members means
	// every registered parameter, sorted by name.
	MakeParameterSet(ctx context.Context, name, description string, members []string) (*domain.ParameterSet, error)

	// Get retrieves a set by name.
	Get(ctx context.Context, name string) (*domain.ParameterSet, error)

	// GetByID retrieves a set by id.
	GetByID(ctx context.Context, id string) (*domain.ParameterSet, error)

	// List returns every set, sorted by name.
	List(ctx context.Context) ([]domain.ParameterSet, error)
}
