package domain

// ConnectorType selects the connector adapter used by push and pull.
type ConnectorType string

// Available connector types.
const (
	// ConnectorMemory keeps remote tables in process memory.
	ConnectorMemory ConnectorType = "memory"

	// ConnectorSQLite stores remote tables in a SQLite database file.
	ConnectorSQLite ConnectorType = "sqlite"

	// ConnectorBadger stores remote tables in a BadgerDB directory.
	ConnectorBadger ConnectorType = "badger"
)

// IsValid returns true if the connector type is recognised.
func (t ConnectorType) IsValid() bool {
	switch t {
	case ConnectorMemory, ConnectorSQLite, ConnectorBadger:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (t ConnectorType) String() string {
	return string(t)
}

// Default codec limits.
const (
	DefaultChunkSize = 255
	DefaultMaxDepth  = 512
)

// CodecSettings configures the tree codec.
type CodecSettings struct {
	// ChunkSize is the number of units per chunk for chunked content.
	ChunkSize int `validate:"min=1"`

	// MaxDepth bounds the nesting depth of structured content.
	MaxDepth int `validate:"min=1"`
}

// NameSettings configures generated parameter set names.
type NameSettings struct {
	// Seed makes generated names deterministic. Zero means random.
	Seed int64
}

// ConnectorSettings configures the external connector.
type ConnectorSettings struct {
	Type ConnectorType `validate:"required,oneof=memory sqlite badger"`

	// Path is the database file (sqlite) or directory (badger).
	// Empty or relative paths resolve against the data directory.
	Path string

	// Database names the logical database passed to FetchEntries.
	Database string

	// RateLimit caps connector calls per second. Zero disables throttling.
	RateLimit float64 `validate:"gte=0"`

	// Burst is the token bucket size when RateLimit is set.
	Burst int `validate:"gte=0"`
}

// StateSettings configures where engine state is persisted between runs.
type StateSettings struct {
	Path string
}

// Settings is the full application configuration.
type Settings struct {
	Codec     CodecSettings
	Names     NameSettings
	Connector ConnectorSettings
	State     StateSettings
}

// DefaultSettings returns settings with sensible defaults.
// Paths are left empty and resolved against the data directory by callers.
func DefaultSettings() Settings {
	return Settings{
		Codec: CodecSettings{
			ChunkSize: DefaultChunkSize,
			MaxDepth:  DefaultMaxDepth,
		},
		Connector: ConnectorSettings{
			Type:  ConnectorSQLite,
			Burst: 1,
		},
	}
}
