package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/custodia-labs/paramframe/internal/codec"
	"github.com/custodia-labs/paramframe/internal/core/domain"
	"github.com/custodia-labs/paramframe/internal/core/ports/driven"
	"github.com/custodia-labs/paramframe/internal/core/ports/driving"
	"github.com/custodia-labs/paramframe/internal/logger"
)

// Ensure ParameterService implements the interface.
var _ driving.ParameterRegistry = (*ParameterService)(nil)

// ParameterService is the parameter registry: it encodes files with the
// tree codec and keeps the results by logical name.
type ParameterService struct {
	codec *codec.Codec
	store driven.ParameterStore
}

// NewParameterService creates a new parameter service.
func NewParameterService(c *codec.Codec, store driven.ParameterStore) *ParameterService {
	if c == nil {
		c = codec.New()
	}
	return &ParameterService{
		codec: c,
		store: store,
	}
}

// ProcessParametersFromFiles processes files in dir and registers them.
func (s *ParameterService) ProcessParametersFromFiles(
	ctx context.Context,
	dir string,
	names, descriptions []string,
) ([]*domain.ProcessedParameter, error) {
	if s.store == nil {
		return nil, domain.ErrNotImplemented
	}

	files, err := listFiles(dir)
	if err != nil {
		return nil, err
	}

	if names == nil {
		names = make([]string, 0, len(files))
		for _, f := range files {
			names = append(names, baseName(f))
		}
	}
	if descriptions != nil && len(descriptions) != len(names) {
		return nil, fmt.Errorf("%w: %d descriptions for %d names",
			domain.ErrInvalidInput, len(descriptions), len(names))
	}

	byName := make(map[string]string, len(files))
	for _, f := range files {
		if _, dup := byName[baseName(f)]; !dup {
			byName[baseName(f)] = f
		}
	}

	logger.Section("Process")
	out := make([]*domain.ProcessedParameter, 0, len(names))
	for i, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		file, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("%w: no file for parameter %q in %s", domain.ErrNotFound, name, dir)
		}
		description := ""
		if descriptions != nil {
			description = descriptions[i]
		}
		p, err := s.ProcessFile(ctx, filepath.Join(dir, file), name, description)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// ProcessFile processes a single file under the given logical name.
func (s *ParameterService) ProcessFile(
	ctx context.Context,
	path, name, description string,
) (*domain.ProcessedParameter, error) {
	if s.store == nil {
		return nil, domain.ErrNotImplemented
	}
	if name == "" {
		name = baseName(path)
	}
	p, err := s.codec.ProcessFile(path, name, description)
	if err != nil {
		return nil, err
	}
	if err := s.store.Save(ctx, p); err != nil {
		return nil, fmt.Errorf("saving parameter %q: %w", name, err)
	}
	logger.Debug("processed %s as %q (%s, %d nodes)", path, name, p.Parameter.FileType, len(p.Values))
	return p, nil
}

// Get retrieves a parameter by name.
func (s *ParameterService) Get(ctx context.Context, name string) (*domain.ProcessedParameter, error) {
	if s.store == nil {
		return nil, domain.ErrNotImplemented
	}
	return s.store.Get(ctx, name)
}

// GetByID retrieves a parameter by content id.
func (s *ParameterService) GetByID(ctx context.Context, id string) (*domain.ProcessedParameter, error) {
	if s.store == nil {
		return nil, domain.ErrNotImplemented
	}
	return s.store.GetByID(ctx, id)
}

// List returns every registered parameter, sorted by name.
func (s *ParameterService) List(ctx context.Context) ([]*domain.ProcessedParameter, error) {
	if s.store == nil {
		return nil, domain.ErrNotImplemented
	}
	return s.store.List(ctx)
}

// listFiles returns the regular files in dir, sorted by name.
func listFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading directory %s: %w", dir, err)
	}
	files := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Type().IsRegular() {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)
	return files, nil
}

// baseName strips the directory and extension from a file name.
func baseName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
