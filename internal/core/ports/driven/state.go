package driven

import (
	"context"

	"github.com/custodia-labs/paramframe/internal/core/domain"
)

// StateStore persists a snapshot of engine state between processes.
type StateStore interface {
	// Load reads the last saved snapshot.
	// Returns an empty state if nothing has been saved yet.
	Load(ctx context.Context) (*domain.State, error)

	// Save replaces the saved snapshot.
	Save(ctx context.Context, state *domain.State) error
}
