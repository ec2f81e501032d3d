package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/paramframe/internal/codec"
	"github.com/custodia-labs/paramframe/internal/core/domain"
	"github.com/custodia-labs/paramframe/internal/core/ports/driven"
	"github.com/custodia-labs/paramframe/internal/namegen"
)

// Stores groups the local stores the engine works on.
type Stores struct {
	Parameters    driven.ParameterStore
	ParameterSets driven.ParameterSetStore
	Solutions     driven.SolutionStore
	Staging       driven.StagingStore
}

// Engine wires every service over one set of stores.
type Engine struct {
	Parameters    *ParameterService
	ParameterSets *ParameterSetService
	Solutions     *SolutionService
	Commits       *CommitService
	Sync          *SyncService
	Reconstruct   *ReconstructService

	stores Stores
}

// NewEngine creates an engine. connector may be nil when push and pull
// are not needed.
func NewEngine(
	stores Stores,
	c *codec.Codec,
	names *namegen.Generator,
	connector driven.Connector,
	database string,
) *Engine {
	if c == nil {
		c = codec.New()
	}
	return &Engine{
		Parameters:    NewParameterService(c, stores.Parameters),
		ParameterSets: NewParameterSetService(stores.Parameters, stores.ParameterSets, names),
		Solutions:     NewSolutionService(stores.Solutions, stores.ParameterSets),
		Commits:       NewCommitService(stores.Parameters, stores.ParameterSets, stores.Solutions, stores.Staging),
		Sync: NewSyncService(connector, database, stores.Staging,
			stores.Parameters, stores.ParameterSets, stores.Solutions),
		Reconstruct: NewReconstructService(c, stores.Staging, stores.Solutions),
		stores:      stores,
	}
}

// Snapshot captures the content of every store.
func (e *Engine) Snapshot(ctx context.Context) (*domain.State, error) {
	state := &domain.State{}

	params, err := e.stores.Parameters.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing parameters: %w", err)
	}
	for _, p := range params {
		state.Parameters = append(state.Parameters, *p)
	}

	if state.ParameterSets, err = e.stores.ParameterSets.List(ctx); err != nil {
		return nil, fmt.Errorf("listing parameter sets: %w", err)
	}

	if state.Solutions, err = e.stores.Solutions.List(ctx); err != nil {
		return nil, fmt.Errorf("listing solutions: %w", err)
	}
	for _, sol := range state.Solutions {
		links, err := e.stores.Solutions.Links(ctx, sol.ID)
		if err != nil {
			return nil, fmt.Errorf("listing links of %s: %w", sol.ID, err)
		}
		state.Links = append(state.Links, links...)
	}

	ids, err := e.stores.Staging.SolutionIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing staged solutions: %w", err)
	}
	for _, id := range ids {
		staged, err := e.stores.Staging.Get(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("reading staged solution %s: %w", id, err)
		}
		state.Staged = append(state.Staged, *staged)
	}
	return state, nil
}

// Restore loads a snapshot into the stores, overwriting entries with the
// same keys.
func (e *Engine) Restore(ctx context.Context, state *domain.State) error {
	if state == nil {
		return nil
	}
	for i := range state.Parameters {
		if err := e.stores.Parameters.Save(ctx, &state.Parameters[i]); err != nil {
			return fmt.Errorf("restoring parameter: %w", err)
		}
	}
	for _, ps := range state.ParameterSets {
		if err := e.stores.ParameterSets.Save(ctx, ps); err != nil {
			return fmt.Errorf("restoring parameter set: %w", err)
		}
	}
	for _, sol := range state.Solutions {
		if err := e.stores.Solutions.Save(ctx, sol); err != nil {
			return fmt.Errorf("restoring solution: %w", err)
		}
	}
	for _, link := range state.Links {
		if err := e.stores.Solutions.SaveLink(ctx, link); err != nil {
			return fmt.Errorf("restoring link: %w", err)
		}
	}
	for i := range state.Staged {
		if err := e.stores.Staging.Put(ctx, &state.Staged[i]); err != nil {
			return fmt.Errorf("restoring staged solution: %w", err)
		}
	}
	return nil
}
