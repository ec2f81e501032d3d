package badger

import (
	"context"
	"fmt"
	"sync"

	"github.com/dgraph-io/badger/v4"

	"github.com/custodia-labs/paramframe/internal/adapters/driven/connector/rowcache"
	"github.com/custodia-labs/paramframe/internal/core/domain"
	"github.com/custodia-labs/paramframe/internal/core/ports/driven"
	"github.com/custodia-labs/paramframe/internal/logger"
)

// Ensure Connector implements the interface.
var _ driven.Connector = (*Connector)(nil)

// DefaultDatabase is used when no database name is given.
const DefaultDatabase = "default"

type pendingRow struct {
	key   []byte
	value []byte
}

// Connector stores remote tables in BadgerDB.
// AddEntries encodes rows immediately and holds them until Commit writes
// them in one batch.
type Connector struct {
	mu       sync.Mutex
	db       *badger.DB
	database string
	pending  []pendingRow
	cache    *rowcache.Cache
}

// New opens a BadgerDB connector.
func New(cfg Config) (*Connector, error) {
	if cfg.Database == "" {
		cfg.Database = DefaultDatabase
	}
	db, err := open(cfg)
	if err != nil {
		return nil, err
	}
	return &Connector{
		db:       db,
		database: cfg.Database,
		cache:    rowcache.New(),
	}, nil
}

func tablePrefix(database string, t domain.Table) []byte {
	return []byte(database + "/" + string(t) + "/")
}

func rowKey(database string, t domain.Table, r domain.Record) []byte {
	return append(tablePrefix(database, t), t.RowKey(r)...)
}

// AddEntries encodes rows of table and buffers them until Commit.
func (c *Connector) AddEntries(_ context.Context, table domain.Table, rows []domain.Record) error {
	if !table.IsValid() {
		return fmt.Errorf("%w: table %q", domain.ErrInvalidInput, table)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.db == nil {
		return domain.ErrConnectorClosed
	}
	for _, r := range rows {
		value, err := encodeRecord(r.Project(table.Columns()))
		if err != nil {
			return err
		}
		c.pending = append(c.pending, pendingRow{key: rowKey(c.database, table, r), value: value})
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
	closed := c.db == nil
	c.mu.Unlock()
	if closed {
		return nil, domain.ErrConnectorClosed
	}
	return c.cache.Get(table, filter, returnFields), nil
}

// FetchEntries scans every table having a filter column and caches the
// matching rows.
func (c *Connector) FetchEntries(ctx context.Context, filter domain.Filter, databaseName string) error {
	if databaseName == "" {
		databaseName = c.database
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.db == nil {
		return domain.ErrConnectorClosed
	}

	return c.db.View(func(txn *badger.Txn) error {
		for _, t := range domain.Tables {
			if !filter.AppliesTo(t) {
				continue
			}
			if err := ctx.Err(); err != nil {
				return err
			}
			prefix := tablePrefix(databaseName, t)
			opts := badger.DefaultIteratorOptions
			opts.Prefix = prefix
			it := txn.NewIterator(opts)
			for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
				value, err := it.Item().ValueCopy(nil)
				if err != nil {
					it.Close()
					return fmt.Errorf("reading %s: %w", t, err)
				}
				r, err := decodeRecord(value)
				if err != nil {
					it.Close()
					return fmt.Errorf("reading %s: %w", t, err)
				}
				if filter.Match(t, r) {
					c.cache.Put(t, r)
				}
			}
			it.Close()
		}
		return nil
	})
}

// Commit writes buffered rows in one batch.
func (c *Connector) Commit(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.db == nil {
		return domain.ErrConnectorClosed
	}
	if len(c.pending) == 0 {
		return nil
	}

	wb := c.db.NewWriteBatch()
	defer wb.Cancel()
	for _, p := range c.pending {
		if err := wb.Set(p.key, p.value); err != nil {
			return fmt.Errorf("batching write: %w", err)
		}
	}
	if err := wb.Flush(); err != nil {
		return fmt.Errorf("flushing batch: %w", err)
	}
	logger.Debug("badger: committed %d rows to %s", len(c.pending), c.database)
	c.pending = nil
	return nil
}

// Close discards uncommitted rows and closes the database.
func (c *Connector) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.db == nil {
		return nil
	}
	err := c.db.Close()
	c.db = nil
	c.pending = nil
	c.cache.Reset()
	return err
}
