package driving

import (
	"context"

	"github.com/custodia-labs/paramframe/internal/core/domain"
)

// CommitStager snapshots solutions into the Commit Staging Store.
type CommitStager interface {
	// CommitSolution replaces the staging entry of a solution with the
	// denormalized rows of the given linked parameter sets.
	CommitSolution(ctx context.Context, sol domain.SolutionRef, sets []domain.ParameterSetRef) (*domain.StagedSolution, error)

	// Staged returns the staging entry of a solution.
	Staged(ctx context.Context, solutionID string) (*domain.StagedSolution, error)
}

// SyncEngine moves staging entries to and from a connector.
type SyncEngine interface {
	// PushSolution writes the staged rows of the given sets to the connector
	// and commits. An empty set list pushes every staged set.
	PushSolution(ctx context.Context, sol domain.SolutionRef, sets []domain.ParameterSetRef) error

	// PullSolution fetches a solution's sets from the connector and
	// rebuilds its staging entry.
	PullSolution(ctx context.Context, solutionID string, parameterSetIDs []string) (*domain.StagedSolution, error)
}

// Reconstructor writes the parameters of a staged set back to files.
type Reconstructor interface {
	// ReconstructParameterSet writes each member parameter into outputDir
	// under its original file name and returns the written paths.
	ReconstructParameterSet(
		ctx context.Context,
		sol domain.SolutionRef,
		set domain.ParameterSetRef,
		outputDir string,
	) ([]string, error)
}
