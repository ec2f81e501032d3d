package connector

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/paramframe/internal/adapters/driven/connector/badger"
	"github.com/custodia-labs/paramframe/internal/adapters/driven/connector/memory"
	"github.com/custodia-labs/paramframe/internal/adapters/driven/connector/ratelimit"
	"github.com/custodia-labs/paramframe/internal/adapters/driven/connector/sqlite"
	"github.com/custodia-labs/paramframe/internal/core/domain"
)

func TestOpen_Types(t *testing.T) {
	tests := []struct {
		name     string
		settings domain.ConnectorSettings
		check    func(t *testing.T, conn any)
	}{
		{
			name:     "empty type is memory",
			settings: domain.ConnectorSettings{},
			check: func(t *testing.T, conn any) {
				assert.IsType(t, &memory.Connector{}, conn)
			},
		},
		{
			name:     "sqlite",
			settings: domain.ConnectorSettings{Type: domain.ConnectorSQLite},
			check: func(t *testing.T, conn any) {
				assert.IsType(t, &sqlite.Connector{}, conn)
			},
		},
		{
			name:     "badger",
			settings: domain.ConnectorSettings{Type: domain.ConnectorBadger, Path: "store"},
			check: func(t *testing.T, conn any) {
				assert.IsType(t, &badger.Connector{}, conn)
			},
		},
		{
			name:     "rate limited",
			settings: domain.ConnectorSettings{Type: domain.ConnectorMemory, RateLimit: 5, Burst: 2},
			check: func(t *testing.T, conn any) {
				assert.IsType(t, &ratelimit.Connector{}, conn)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn, err := Open(tt.settings, t.TempDir())
			require.NoError(t, err)
			defer conn.Close()
			tt.check(t, conn)
		})
	}
}

func TestOpen_SQLiteDefaultPath(t *testing.T) {
	dir := t.TempDir()
	conn, err := Open(domain.ConnectorSettings{Type: domain.ConnectorSQLite}, dir)
	require.NoError(t, err)
	defer conn.Close()

	sc, ok := conn.(*sqlite.Connector)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(dir, DefaultSQLiteFile), sc.Path())
}

func TestOpen_UnknownType(t *testing.T) {
	_, err := Open(domain.ConnectorSettings{Type: "postgres"}, t.TempDir())
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestOpen_RoundTrip(t *testing.T) {
	ctx := context.Background()
	conn, err := Open(domain.ConnectorSettings{Type: domain.ConnectorSQLite, Database: "test"}, t.TempDir())
	require.NoError(t, err)
	defer conn.Close()

	row := domain.Record{
		domain.ColSolutionID:   "s1",
		domain.ColSolutionName: "pricing",
	}
	require.NoError(t, conn.AddEntries(ctx, domain.TableSolutionDescription, []domain.Record{row}))
	require.NoError(t, conn.Commit(ctx))

	filter := domain.Filter{domain.ColSolutionID: {"s1"}}
	require.NoError(t, conn.FetchEntries(ctx, filter, ""))
	rows, err := conn.GetEntries(ctx, domain.TableSolutionDescription, filter, []string{domain.ColSolutionName})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "pricing", rows[0][domain.ColSolutionName])
}

func TestResolvePath(t *testing.T) {
	abs := filepath.Join(t.TempDir(), "x.db")
	assert.Equal(t, abs, resolvePath(abs, "/data", "remote.db"))
	assert.Equal(t, filepath.Join("/data", "remote.db"), resolvePath("", "/data", "remote.db"))
	assert.Equal(t, filepath.Join("/data", "a.db"), resolvePath("a.db", "/data", "remote.db"))
	assert.Equal(t, "a.db", resolvePath("a.db", "", "remote.db"))
}
