package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/custodia-labs/paramframe/internal/codec"
	"github.com/custodia-labs/paramframe/internal/core/domain"
	"github.com/custodia-labs/paramframe/internal/core/ports/driven"
	"github.com/custodia-labs/paramframe/internal/core/ports/driving"
	"github.com/custodia-labs/paramframe/internal/logger"
)

// Ensure ReconstructService implements the interface.
var _ driving.Reconstructor = (*ReconstructService)(nil)

// ReconstructService writes staged parameter sets back to files.
type ReconstructService struct {
	codec     *codec.Codec
	staging   driven.StagingStore
	solutions driven.SolutionStore
}

// NewReconstructService creates a new reconstruct service.
// solutions is optional and only used to resolve solution names.
func NewReconstructService(
	c *codec.Codec,
	staging driven.StagingStore,
	solutions driven.SolutionStore,
) *ReconstructService {
	if c == nil {
		c = codec.New()
	}
	return &ReconstructService{
		codec:     c,
		staging:   staging,
		solutions: solutions,
	}
}

// ReconstructParameterSet writes each member of a staged set into
// outputDir under its original file name.
func (s *ReconstructService) ReconstructParameterSet(
	ctx context.Context,
	solRef domain.SolutionRef,
	setRef domain.ParameterSetRef,
	outputDir string,
) ([]string, error) {
	if s.staging == nil {
		return nil, domain.ErrNotImplemented
	}
	staged, err := findStaged(ctx, s.staging, s.solutions, solRef)
	if err != nil {
		return nil, err
	}
	setID, err := stagedParameterSetID(staged, setRef)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	params := make(map[string]*domain.ProcessedParameter)
	for _, p := range stagedParameters(staged, setID) {
		params[p.Parameter.ID] = p
	}

	var written []string
	for _, pid := range staged.MemberIDs(setID) {
		p, ok := params[pid]
		if !ok {
			return written, fmt.Errorf("%w: parameter %s has no description row", domain.ErrReconstruction, pid)
		}
		content, err := s.codec.ReconstructFile(p.Parameter.FileType, p.Values, p.Attributes)
		if err != nil {
			return written, fmt.Errorf("parameter %q: %w", p.Parameter.Name, err)
		}
		name := filepath.Base(p.Parameter.SourceFileName)
		if p.Parameter.SourceFileName == "" {
			name = p.Parameter.Name
		}
		path := filepath.Join(outputDir, name)
		if err := os.WriteFile(path, content, 0o600); err != nil {
			return written, fmt.Errorf("writing %s: %w", path, err)
		}
		logger.Debug("reconstructed %q into %s", p.Parameter.Name, path)
		written = append(written, path)
	}
	return written, nil
}

// findStaged finds the staging entry for a solution reference. A name is
// resolved through the solution store when one is given, then through the
// solution_description rows of every staged entry.
func findStaged(
	ctx context.Context,
	staging driven.StagingStore,
	solutions driven.SolutionStore,
	ref domain.SolutionRef,
) (*domain.StagedSolution, error) {
	if ref.IsZero() {
		return nil, fmt.Errorf("%w: solution id or name required", domain.ErrInvalidInput)
	}
	id := ref.ID
	if id == "" && solutions != nil {
		sol, err := solutions.GetByName(ctx, ref.Name)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		if sol != nil {
			id = sol.ID
		}
	}
	if id != "" {
		staged, err := staging.Get(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("staged solution %s: %w", ref, err)
		}
		return staged, nil
	}

	ids, err := staging.SolutionIDs(ctx)
	if err != nil {
		return nil, err
	}
	for _, candidate := range ids {
		staged, err := staging.Get(ctx, candidate)
		if err != nil {
			return nil, err
		}
		for _, setID := range staged.ParameterSetIDs() {
			for _, r := range staged.Rows(domain.TableSolutionDescription, setID) {
				if r[domain.ColSolutionName] == ref.Name {
					return staged, nil
				}
			}
		}
	}
	return nil, fmt.Errorf("staged solution %q: %w", ref.Name, domain.ErrNotFound)
}

// stagedParameterSetID resolves a set reference against a staging entry.
// Names are matched through parameter_set_description rows.
func stagedParameterSetID(staged *domain.StagedSolution, ref domain.ParameterSetRef) (string, error) {
	if ref.IsZero() {
		return "", fmt.Errorf("%w: parameter set id or name required", domain.ErrInvalidInput)
	}
	if ref.ID != "" {
		if !staged.HasParameterSet(ref.ID) {
			return "", fmt.Errorf("parameter set %s in staged solution %s: %w",
				ref.ID, staged.SolutionID, domain.ErrNotFound)
		}
		return ref.ID, nil
	}
	for _, setID := range staged.ParameterSetIDs() {
		for _, r := range staged.Rows(domain.TableParameterSetDescription, setID) {
			if r[domain.ColParameterSetName] == ref.Name {
				return setID, nil
			}
		}
	}
	return "", fmt.Errorf("parameter set %q in staged solution %s: %w", ref.Name, staged.SolutionID, domain.ErrNotFound)
}
