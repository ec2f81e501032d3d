// Package rowcache holds rows fetched from a remote store so connectors
// can answer GetEntries locally.
package rowcache

import (
	"sort"
	"sync"

	"github.com/custodia-labs/paramframe/internal/core/domain"
)

// Cache is a per-table row cache keyed by row key. Safe for concurrent use.
type Cache struct {
	mu   sync.RWMutex
	rows map[domain.Table]map[string]domain.Record
}

// New creates an empty cache.
func New() *Cache {
	return &Cache{rows: make(map[domain.Table]map[string]domain.Record)}
}

// Put inserts or replaces rows of table t.
func (c *Cache) Put(t domain.Table, rows ...domain.Record) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.rows[t] == nil {
		c.rows[t] = make(map[string]domain.Record)
	}
	for _, r := range rows {
		c.rows[t][t.RowKey(r)] = r.Clone()
	}
}

// Get returns the cached rows of t matching filter, projected onto
// fields and sorted by row key.
func (c *Cache) Get(t domain.Table, filter domain.Filter, fields []string) []domain.Record {
	c.mu.RLock()
	defer c.mu.RUnlock()
	keys := make([]string, 0, len(c.rows[t]))
	for k, r := range c.rows[t] {
		if filter.Match(t, r) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	out := make([]domain.Record, 0, len(keys))
	for _, k := range keys {
		out = append(out, c.rows[t][k].Project(fields))
	}
	return out
}

// Len returns the number of cached rows of t.
func (c *Cache) Len(t domain.Table) int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.rows[t])
}

// Reset drops every cached row.
func (c *Cache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rows = make(map[domain.Table]map[string]domain.Record)
}
