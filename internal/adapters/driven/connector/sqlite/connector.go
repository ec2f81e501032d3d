package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/paramframe/internal/adapters/driven/connector/rowcache"
	"github.com/custodia-labs/paramframe/internal/adapters/driven/connector/sqlite/migrations"
	"github.com/custodia-labs/paramframe/internal/core/domain"
	"github.com/custodia-labs/paramframe/internal/core/ports/driven"
	"github.com/custodia-labs/paramframe/internal/logger"
)

// Ensure Connector implements the interface.
var _ driven.Connector = (*Connector)(nil)

// DefaultDatabase is used when no database name is given.
const DefaultDatabase = "default"

// maxParams keeps IN lists under SQLite's bound-parameter limit.
const maxParams = 500

// Connector stores remote tables in SQLite.
type Connector struct {
	mu       sync.Mutex
	db       *sql.DB
	tx       *sql.Tx
	path     string
	database string
	cache    *rowcache.Cache
}

// New opens (creating if needed) the database file at path and runs
// migrations. database names the logical database rows are committed to.
func New(path, database string) (*Connector, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: sqlite path required", domain.ErrInvalidInput)
	}
	if database == "" {
		database = DefaultDatabase
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	c := &Connector{
		db:       db,
		path:     path,
		database: database,
		cache:    rowcache.New(),
	}
	if err := c.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return c, nil
}

// Path returns the database file path.
func (c *Connector) Path() string {
	return c.path
}

// migrate runs all pending migrations.
func (c *Connector) migrate(fsys fs.FS) error {
	_, err := c.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := c.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			upFiles = append(upFiles, entry.Name())
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// "001_initial.up.sql" -> 1
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := c.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := c.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
		logger.Debug("sqlite: applied migration %s", name)
	}

	return nil
}

// AddEntries upserts rows into table inside the open transaction.
func (c *Connector) AddEntries(ctx context.Context, table domain.Table, rows []domain.Record) error {
	if !table.IsValid() {
		return fmt.Errorf("%w: table %q", domain.ErrInvalidInput, table)
	}
	if len(rows) == 0 {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.db == nil {
		return domain.ErrConnectorClosed
	}

	if c.tx == nil {
		tx, err := c.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("beginning transaction: %w", err)
		}
		c.tx = tx
	}

	cols := table.Columns()
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(cols)+1), ", ")
	//nolint:gosec // G201: table and column names come from the fixed schema.
	query := fmt.Sprintf("INSERT OR REPLACE INTO %s (db, %s) VALUES (%s)",
		table, strings.Join(cols, ", "), placeholders)
	stmt, err := c.tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("preparing insert into %s: %w", table, err)
	}
	defer stmt.Close()

	args := make([]any, len(cols)+1)
	for _, r := range rows {
		args[0] = c.database
		for i, col := range cols {
			args[i+1] = r[col]
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("inserting into %s: %w", table, err)
		}
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

// FetchEntries loads committed rows matching filter into the cache.
// Only tables having at least one filter column are queried.
func (c *Connector) FetchEntries(ctx context.Context, filter domain.Filter, databaseName string) error {
	if databaseName == "" {
		databaseName = c.database
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.db == nil {
		return domain.ErrConnectorClosed
	}

	for _, t := range domain.Tables {
		if !filter.AppliesTo(t) {
			continue
		}
		rows, err := c.query(ctx, t, filter, databaseName)
		if err != nil {
			return err
		}
		c.cache.Put(t, rows...)
	}
	return nil
}

// query selects rows of t in databaseName. The first applicable filter
// column drives the SQL IN clause in batches; the full filter is then
// applied in memory.
func (c *Connector) query(
	ctx context.Context,
	t domain.Table,
	filter domain.Filter,
	databaseName string,
) ([]domain.Record, error) {
	var driver string
	for _, col := range t.Columns() {
		if _, ok := filter[col]; ok {
			driver = col
			break
		}
	}
	values := filter[driver]
	cols := t.Columns()

	var out []domain.Record
	for start := 0; start < len(values); start += maxParams {
		end := min(start+maxParams, len(values))
		batch := values[start:end]

		args := make([]any, 0, len(batch)+1)
		args = append(args, databaseName)
		for _, v := range batch {
			args = append(args, v)
		}
		//nolint:gosec // G201: table and column names come from the fixed schema.
		query := fmt.Sprintf("SELECT %s FROM %s WHERE db = ? AND %s IN (%s)",
			strings.Join(cols, ", "), t, driver,
			strings.TrimSuffix(strings.Repeat("?, ", len(batch)), ", "))

		rows, err := c.db.QueryContext(ctx, query, args...)
		if err != nil {
			return nil, fmt.Errorf("querying %s: %w", t, err)
		}
		scanned, err := scanRows(rows, cols)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", t, err)
		}
		for _, r := range scanned {
			if filter.Match(t, r) {
				out = append(out, r)
			}
		}
	}
	return out, nil
}

func scanRows(rows *sql.Rows, cols []string) ([]domain.Record, error) {
	defer rows.Close()
	var out []domain.Record
	values := make([]string, len(cols))
	dest := make([]any, len(cols))
	for i := range values {
		dest[i] = &values[i]
	}
	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		r := make(domain.Record, len(cols))
		for i, col := range cols {
			r[col] = values[i]
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Commit commits the open transaction. Without pending writes it is a no-op.
func (c *Connector) Commit(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.db == nil {
		return domain.ErrConnectorClosed
	}
	if c.tx == nil {
		return nil
	}
	err := c.tx.Commit()
	c.tx = nil
	if err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// Close rolls back uncommitted writes and closes the database.
func (c *Connector) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.db == nil {
		return nil
	}
	var errs []error
	if c.tx != nil {
		if err := c.tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			errs = append(errs, err)
		}
		c.tx = nil
	}
	errs = append(errs, c.db.Close())
	c.db = nil
	c.cache.Reset()
	return errors.Join(errs...)
}
