package driven

import (
	"context"

	"github.com/custodia-labs/paramframe/internal/core/domain"
)

// Connector moves denormalized rows to and from an external store.
// The store has no join capability; callers cascade fetches themselves.
//
// Calls may block on network round-trips. Connectors do not retry;
// callers needing resilience wrap the connector.
type Connector interface {
	// AddEntries stages rows for table. They become durable on Commit.
	AddEntries(ctx context.Context, table domain.Table, entries []domain.Record) error

	// GetEntries reads rows of table from the connector's local cache,
	// filled by FetchEntries. returnFields limits the columns returned;
	// nil returns every column.
	GetEntries(ctx context.Context, table domain.Table, filters domain.Filter, returnFields []string) ([]domain.Record, error)

	// FetchEntries pulls rows matching filters from the remote into the
	// local cache. Only tables having at least one filter column are
	// fetched. An empty databaseName selects the connector's default.
	FetchEntries(ctx context.Context, filters domain.Filter, databaseName string) error

	// Commit flushes staged rows to durable remote storage.
	Commit(ctx context.Context) error

	// Close releases resources.
	Close() error
}
