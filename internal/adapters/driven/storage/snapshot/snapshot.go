// Package snapshot persists engine state to a single CBOR file so the CLI
// keeps its registry, solutions and staging entries between invocations.
package snapshot

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fxamacker/cbor/v2"

	"github.com/custodia-labs/paramframe/internal/core/domain"
	"github.com/custodia-labs/paramframe/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.StateStore = (*Store)(nil)

// version is written into every file; Load rejects other versions.
const version = 1

// file is the on-disk layout.
type file struct {
	Version int          `cbor:"1,keyasint"`
	State   domain.State `cbor:"2,keyasint"`
}

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error
	encOpts := cbor.CoreDetEncOptions()
	encOpts.Time = cbor.TimeRFC3339Nano
	encMode, err = encOpts.EncMode()
	if err != nil {
		panic("snapshot: CBOR encoder initialization failed: " + err.Error())
	}
	decMode, err = cbor.DecOptions{}.DecMode()
	if err != nil {
		panic("snapshot: CBOR decoder initialization failed: " + err.Error())
	}
}

// Store reads and writes the snapshot file.
type Store struct {
	mu   sync.Mutex
	path string
}

// New creates a store backed by the file at path.
func New(path string) *Store {
	return &Store{path: path}
}

// Path returns the snapshot file path.
func (s *Store) Path() string {
	return s.path
}

// Load reads the snapshot. A missing file yields an empty state.
func (s *Store) Load(_ context.Context) (*domain.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return &domain.State{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}

	var f file
	if err := decMode.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: decoding snapshot %s: %w", domain.ErrInvalidInput, s.path, err)
	}
	if f.Version != version {
		return nil, fmt.Errorf("%w: snapshot version %d, expected %d", domain.ErrInvalidInput, f.Version, version)
	}
	return &f.State, nil
}

// Save replaces the snapshot. The file is written to a temporary name
// and renamed so a crash never leaves a partial snapshot.
func (s *Store) Save(_ context.Context, state *domain.State) error {
	if state == nil {
		return fmt.Errorf("%w: nil state", domain.ErrInvalidInput)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := encMode.Marshal(file{Version: version, State: *state})
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("creating snapshot directory: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replacing snapshot: %w", err)
	}
	return nil
}
