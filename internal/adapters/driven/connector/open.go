package connector

import (
	"fmt"
	"path/filepath"

	"github.com/custodia-labs/paramframe/internal/adapters/driven/connector/badger"
	"github.com/custodia-labs/paramframe/internal/adapters/driven/connector/memory"
	"github.com/custodia-labs/paramframe/internal/adapters/driven/connector/ratelimit"
	"github.com/custodia-labs/paramframe/internal/adapters/driven/connector/sqlite"
	"github.com/custodia-labs/paramframe/internal/core/domain"
	"github.com/custodia-labs/paramframe/internal/core/ports/driven"
)

// Default locations under the data directory.
const (
	DefaultSQLiteFile = "remote.db"
	DefaultBadgerDir  = "remote"
)

// Open creates the connector selected by settings, throttled when a rate
// limit is set. Empty or relative paths resolve against dataDir.
func Open(settings domain.ConnectorSettings, dataDir string) (driven.Connector, error) {
	var conn driven.Connector
	switch settings.Type {
	case domain.ConnectorMemory, "":
		conn = memory.New(settings.Database)
	case domain.ConnectorSQLite:
		c, err := sqlite.New(resolvePath(settings.Path, dataDir, DefaultSQLiteFile), settings.Database)
		if err != nil {
			return nil, fmt.Errorf("opening sqlite connector: %w", err)
		}
		conn = c
	case domain.ConnectorBadger:
		c, err := badger.New(badger.Config{
			Path:       resolvePath(settings.Path, dataDir, DefaultBadgerDir),
			SyncWrites: true,
			Database:   settings.Database,
		})
		if err != nil {
			return nil, fmt.Errorf("opening badger connector: %w", err)
		}
		conn = c
	default:
		return nil, fmt.Errorf("%w: connector type %q", domain.ErrInvalidInput, settings.Type)
	}

	return ratelimit.Wrap(conn, ratelimit.Config{
		RequestsPerSecond: settings.RateLimit,
		BurstSize:         settings.Burst,
	}), nil
}

func resolvePath(path, dataDir, fallback string) string {
	if path == "" {
		path = fallback
	}
	if filepath.IsAbs(path) || dataDir == "" {
		return path
	}
	return filepath.Join(dataDir, path)
}
