// Package memory provides an in-process connector. Remote tables live in
// maps keyed by database name, which makes it the reference connector for
// tests and for single-process use.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/custodia-labs/paramframe/internal/adapters/driven/connector/rowcache"
	"github.com/custodia-labs/paramframe/internal/core/domain"
	"github.com/custodia-labs/paramframe/internal/core/ports/driven"
)

// Ensure Connector implements the interface.
var _ driven.Connector = (*Connector)(nil)

// DefaultDatabase is used when no database name is given.
const DefaultDatabase = "default"

// Connector keeps remote tables in memory.
// AddEntries buffers rows until Commit; FetchEntries copies matching
// committed rows into a local cache read by GetEntries.
type Connector struct {
	mu       sync.Mutex
	database string
	remote   map[string]map[domain.Table]map[string]domain.Record
	pending  map[domain.Table][]domain.Record
	cache    *rowcache.Cache
	closed   bool
}

// New creates a connector writing to database.
func New(database string) *Connector {
	if database == "" {
		database = DefaultDatabase
	}
	return &Connector{
		database: database,
		remote:   make(map[string]map[domain.Table]map[string]domain.Record),
		pending:  make(map[domain.Table][]domain.Record),
		cache:    rowcache.New(),
	}
}

// AddEntries buffers rows for table until the next Commit.
func (c *Connector) AddEntries(_ context.Context, table domain.Table, rows []domain.Record) error {
	if !table.IsValid() {
		return fmt.Errorf("%w: table %q", domain.ErrInvalidInput, table)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return domain.ErrConnectorClosed
	}
	for _, r := range rows {
		c.pending[table] = append(c.pending[table], r.Clone())
	}
	return nil
}

// GetEntries returns cached rows of table matching filter.
func (c *Connector) GetEntries(
	_ context.Context,
	table domain.Table,
	filter domain.Filter,
	returnFields []string,
) ([]domain.Record, error) {
	if !table.IsValid() {
		return nil, fmt.Errorf("%w: table %q", domain.ErrInvalidInput, table)
	}
	c.mu.Lock()
	closed := c.closed
	c.mu.Unlock()
	if closed {
		return nil, domain.ErrConnectorClosed
	}
	return c.cache.Get(table, filter, returnFields), nil
}

// FetchEntries copies committed rows matching filter into the cache.
// Only tables having at least one filter column are read.
func (c *Connector) FetchEntries(_ context.Context, filter domain.Filter, databaseName string) error {
	if databaseName == "" {
		databaseName = c.database
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return domain.ErrConnectorClosed
	}
	tables := c.remote[databaseName]
	for _, t := range domain.Tables {
		if !filter.AppliesTo(t) {
			continue
		}
		for _, r := range tables[t] {
			if filter.Match(t, r) {
				c.cache.Put(t, r)
			}
		}
	}
	return nil
}

// Commit upserts buffered rows into the connector's database.
func (c *Connector) Commit(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return domain.ErrConnectorClosed
	}
	tables := c.remote[c.database]
	if tables == nil {
		tables = make(map[domain.Table]map[string]domain.Record)
		c.remote[c.database] = tables
	}
	for t, rows := range c.pending {
		if tables[t] == nil {
			tables[t] = make(map[string]domain.Record)
		}
		for _, r := range rows {
			tables[t][t.RowKey(r)] = r
		}
	}
	c.pending = make(map[domain.Table][]domain.Record)
	return nil
}

// Close releases the connector. Further calls fail with ErrConnectorClosed.
func (c *Connector) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.pending = nil
	c.cache.Reset()
	return nil
}

// Committed returns the committed rows of a table in database, sorted by
// row key.
func (c *Connector) Committed(database string, table domain.Table) []domain.Record {
	c.mu.Lock()
	defer c.mu.Unlock()
	rows := c.remote[database][table]
	keys := make([]string, 0, len(rows))
	for k := range rows {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]domain.Record, 0, len(keys))
	for _, k := range keys {
		out = append(out, rows[k].Clone())
	}
	return out
}
