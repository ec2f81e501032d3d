package services

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/custodia-labs/paramframe/internal/core/domain"
	"github.com/custodia-labs/paramframe/internal/core/ports/driven"
	"github.com/custodia-labs/paramframe/internal/core/ports/driving"
	"github.com/custodia-labs/paramframe/internal/logger"
)

// Ensure SyncService implements the interface.
var _ driving.SyncEngine = (*SyncService)(nil)

// SyncService pushes staging entries to a connector and pulls them back.
type SyncService struct {
	connector driven.Connector
	database  string
	staging   driven.StagingStore

	// Local registry, refreshed after a pull. Any of these may be nil.
	params    driven.ParameterStore
	sets      driven.ParameterSetStore
	solutions driven.SolutionStore
}

// NewSyncService creates a new sync service.
// database is passed to the connector on every fetch.
func NewSyncService(
	connector driven.Connector,
	database string,
	staging driven.StagingStore,
	params driven.ParameterStore,
	sets driven.ParameterSetStore,
	solutions driven.SolutionStore,
) *SyncService {
	return &SyncService{
		connector: connector,
		database:  database,
		staging:   staging,
		params:    params,
		sets:      sets,
		solutions: solutions,
	}
}

// PushSolution writes the staged rows of the given sets to the connector,
// one table at a time in push order, then commits. A failure part way
// leaves earlier tables written; nothing is rolled back.
func (s *SyncService) PushSolution(
	ctx context.Context,
	solRef domain.SolutionRef,
	setRefs []domain.ParameterSetRef,
) error {
	if s.connector == nil || s.staging == nil {
		return domain.ErrNotImplemented
	}

	// 1. Find the staging entry
	staged, err := s.stagedFor(ctx, solRef)
	if err != nil {
		return err
	}

	// 2. Resolve the sets to push
	setIDs := staged.ParameterSetIDs()
	if len(setRefs) > 0 {
		setIDs = make([]string, 0, len(setRefs))
		for _, ref := range setRefs {
			id, err := stagedParameterSetID(staged, ref)
			if err != nil {
				return err
			}
			setIDs = append(setIDs, id)
		}
	}

	// 3. Write every table, parents first
	logger.Section("Push")
	for _, t := range domain.Tables {
		rows := domain.UniqueRows(t, staged.Flatten(t, setIDs))
		if len(rows) == 0 {
			continue
		}
		if err := s.connector.AddEntries(ctx, t, rows); err != nil {
			return fmt.Errorf("%w: adding %s entries: %w", domain.ErrConnector, t, err)
		}
		logger.Debug("pushed %d rows to %s", len(rows), t)
	}

	// 4. Commit
	if err := s.connector.Commit(ctx); err != nil {
		return fmt.Errorf("%w: commit: %w", domain.ErrConnector, err)
	}
	logger.Info("pushed %d parameter sets of solution %s", len(setIDs), staged.SolutionID)
	return nil
}

// PullSolution fetches a solution's sets from the connector in three
// cascading stages and rebuilds its staging entry. With no set ids every
// set linked to the solution is pulled.
func (s *SyncService) PullSolution(
	ctx context.Context,
	solutionID string,
	parameterSetIDs []string,
) (*domain.StagedSolution, error) {
	if s.connector == nil || s.staging == nil {
		return nil, domain.ErrNotImplemented
	}
	if solutionID == "" {
		return nil, fmt.Errorf("%w: solution id required", domain.ErrInvalidInput)
	}
	logger.Section("Pull")

	// Stage 1: the solution and its links
	solFilter := domain.Filter{domain.ColSolutionID: {solutionID}}
	if err := s.fetch(ctx, solFilter); err != nil {
		return nil, err
	}
	solutions, err := s.get(ctx, domain.TableSolutionDescription, solFilter)
	if err != nil {
		return nil, err
	}
	if len(solutions) == 0 {
		return nil, fmt.Errorf("solution %s: %w", solutionID, domain.ErrNotFound)
	}
	linkFilter := domain.Filter{domain.ColSolutionID: {solutionID}}
	if len(parameterSetIDs) > 0 {
		linkFilter[domain.ColParameterSetID] = parameterSetIDs
	}
	links, err := s.get(ctx, domain.TableSolutionParameterSet, linkFilter)
	if err != nil {
		return nil, err
	}
	setIDs := columnValues(links, domain.ColParameterSetID)
	for _, id := range parameterSetIDs {
		if !slices.Contains(setIDs, id) {
			return nil, fmt.Errorf("parameter set %s of solution %s: %w", id, solutionID, domain.ErrNotFound)
		}
	}
	logger.Debug("stage 1: %d links", len(links))

	// Stage 2: set membership and descriptions
	var memberships, setDescriptions []domain.Record
	if len(setIDs) > 0 {
		setFilter := domain.Filter{domain.ColParameterSetID: setIDs}
		if err := s.fetch(ctx, setFilter); err != nil {
			return nil, err
		}
		if memberships, err = s.get(ctx, domain.TableParameterSet, setFilter); err != nil {
			return nil, err
		}
		if setDescriptions, err = s.get(ctx, domain.TableParameterSetDescription, setFilter); err != nil {
			return nil, err
		}
	}
	parameterIDs := columnValues(memberships, domain.ColParameterID)
	logger.Debug("stage 2: %d sets, %d parameters", len(setIDs), len(parameterIDs))

	// Stage 3: parameter descriptions, trees and values
	var descriptions, attributes, values []domain.Record
	if len(parameterIDs) > 0 {
		paramFilter := domain.Filter{domain.ColParameterID: parameterIDs}
		if err := s.fetch(ctx, paramFilter); err != nil {
			return nil, err
		}
		if descriptions, err = s.get(ctx, domain.TableParameterDescription, paramFilter); err != nil {
			return nil, err
		}
		if attributes, err = s.get(ctx, domain.TableParameterAttribute, paramFilter); err != nil {
			return nil, err
		}
		attributeIDs := columnValues(attributes, domain.ColAttributeID)
		if len(attributeIDs) > 0 {
			valueFilter := domain.Filter{domain.ColAttributeID: attributeIDs}
			if err := s.fetch(ctx, valueFilter); err != nil {
				return nil, err
			}
			if values, err = s.get(ctx, domain.TableAttributeValues, valueFilter); err != nil {
				return nil, err
			}
		}
	}
	logger.Debug("stage 3: %d attributes, %d values", len(attributes), len(values))

	// Rebuild the entry by ownership
	staged := rebuildStaged(solutionID, setIDs, pulledRows{
		solutions:       solutions,
		links:           links,
		memberships:     memberships,
		setDescriptions: setDescriptions,
		descriptions:    descriptions,
		attributes:      attributes,
		values:          values,
	})
	if err := s.staging.Put(ctx, staged); err != nil {
		return nil, fmt.Errorf("staging solution %s: %w", solutionID, err)
	}
	if err := s.refreshRegistry(ctx, staged); err != nil {
		return nil, err
	}
	logger.Info("pulled %d parameter sets of solution %s", len(setIDs), solutionID)
	return staged, nil
}

func (s *SyncService) fetch(ctx context.Context, filter domain.Filter) error {
	if err := s.connector.FetchEntries(ctx, filter, s.database); err != nil {
		return fmt.Errorf("%w: fetching entries: %w", domain.ErrConnector, err)
	}
	return nil
}

func (s *SyncService) get(ctx context.Context, t domain.Table, filter domain.Filter) ([]domain.Record, error) {
	rows, err := s.connector.GetEntries(ctx, t, filter, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s entries: %w", domain.ErrConnector, t, err)
	}
	return rows, nil
}

// stagedFor finds the staging entry for a solution reference.
// A name is resolved through the local registry first, then through the
// solution_description rows of every staged entry.
func (s *SyncService) stagedFor(ctx context.Context, ref domain.SolutionRef) (*domain.StagedSolution, error) {
	return findStaged(ctx, s.staging, s.solutions, ref)
}

// pulledRows holds everything fetched for one pull.
type pulledRows struct {
	solutions       []domain.Record
	links           []domain.Record
	memberships     []domain.Record
	setDescriptions []domain.Record
	descriptions    []domain.Record
	attributes      []domain.Record
	values          []domain.Record
}

// rebuildStaged distributes pulled rows to the sets that own them:
// set rows by parameter_set_id, parameter rows through membership, value
// rows through the attribute rows of member parameters. Solution rows
// belong to every set.
func rebuildStaged(solutionID string, setIDs []string, rows pulledRows) *domain.StagedSolution {
	staged := domain.NewStagedSolution(solutionID)

	bySet := func(records []domain.Record) map[string][]domain.Record {
		out := make(map[string][]domain.Record)
		for _, r := range records {
			out[r[domain.ColParameterSetID]] = append(out[r[domain.ColParameterSetID]], r)
		}
		return out
	}
	byParam := func(records []domain.Record) map[string][]domain.Record {
		out := make(map[string][]domain.Record)
		for _, r := range records {
			out[r[domain.ColParameterID]] = append(out[r[domain.ColParameterID]], r)
		}
		return out
	}
	links := bySet(rows.links)
	members := bySet(rows.memberships)
	setDescriptions := bySet(rows.setDescriptions)
	descriptions := byParam(rows.descriptions)
	attributes := byParam(rows.attributes)
	values := make(map[string][]domain.Record, len(rows.values))
	for _, r := range rows.values {
		values[r[domain.ColAttributeID]] = append(values[r[domain.ColAttributeID]], r)
	}

	for _, setID := range setIDs {
		staged.Add(domain.TableSolutionDescription, setID, rows.solutions...)
		staged.Add(domain.TableSolutionParameterSet, setID, links[setID]...)
		staged.Add(domain.TableParameterSet, setID, members[setID]...)
		staged.Add(domain.TableParameterSetDescription, setID, setDescriptions[setID]...)
		for _, m := range members[setID] {
			pid := m[domain.ColParameterID]
			staged.Add(domain.TableParameterDescription, setID, descriptions[pid]...)
			staged.Add(domain.TableParameterAttribute, setID, attributes[pid]...)
			for _, a := range attributes[pid] {
				staged.Add(domain.TableAttributeValues, setID, values[a[domain.ColAttributeID]]...)
			}
		}
	}
	staged.Normalize()
	return staged
}

// refreshRegistry saves what a pull brought back into the local stores
// so the pulled sets can be promoted, committed and reconstructed by name.
func (s *SyncService) refreshRegistry(ctx context.Context, staged *domain.StagedSolution) error {
	var errs []error
	for _, setID := range staged.ParameterSetIDs() {
		if s.solutions != nil {
			for _, r := range staged.Rows(domain.TableSolutionDescription, setID) {
				errs = append(errs, s.solutions.Save(ctx, domain.SolutionFromRecord(r)))
			}
			for _, r := range staged.Rows(domain.TableSolutionParameterSet, setID) {
				link, err := domain.LinkFromRecord(r)
				if err != nil {
					errs = append(errs, err)
					continue
				}
				errs = append(errs, s.solutions.SaveLink(ctx, link))
			}
		}
		if s.sets != nil {
			ps := domain.ParameterSet{ID: setID, ParameterIDs: staged.MemberIDs(setID)}
			if desc := staged.Rows(domain.TableParameterSetDescription, setID); len(desc) > 0 {
				ps.Name = desc[0][domain.ColParameterSetName]
				ps.Description = desc[0][domain.ColParameterSetDescription]
			}
			if ps.Name != "" {
				errs = append(errs, s.sets.Save(ctx, ps))
			}
		}
		if s.params != nil {
			for _, p := range stagedParameters(staged, setID) {
				errs = append(errs, s.params.Save(ctx, p))
			}
		}
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("refreshing local registry: %w", err)
	}
	return nil
}

// stagedParameters rebuilds the processed parameters of a staged set.
func stagedParameters(staged *domain.StagedSolution, setID string) []*domain.ProcessedParameter {
	values := make(map[string]domain.AttributeValue)
	for _, r := range staged.Rows(domain.TableAttributeValues, setID) {
		v := domain.ValueFromRecord(r)
		values[v.AttributeID] = v
	}
	attributes := make(map[string][]domain.ParameterAttribute)
	for _, r := range staged.Rows(domain.TableParameterAttribute, setID) {
		a := domain.AttributeFromRecord(r)
		attributes[a.ParameterID] = append(attributes[a.ParameterID], a)
	}

	var out []*domain.ProcessedParameter
	for _, r := range staged.Rows(domain.TableParameterDescription, setID) {
		param := domain.ParameterFromRecord(r)
		p := &domain.ProcessedParameter{Parameter: param, Attributes: attributes[param.ID]}
		for _, a := range p.Attributes {
			if v, ok := values[a.AttributeID]; ok {
				p.Values = append(p.Values, v)
			}
		}
		out = append(out, p)
	}
	return out
}

// columnValues returns the distinct values of col in rows, in first-seen order.
func columnValues(rows []domain.Record, col string) []string {
	seen := make(map[string]struct{}, len(rows))
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		v, ok := r[col]
		if !ok {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
