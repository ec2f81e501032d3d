package badger

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/paramframe/internal/core/domain"
)

func setupTestConnector(t *testing.T) *Connector {
	t.Helper()
	c, err := New(InMemoryConfig())
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func valueRow(id, value string) domain.Record {
	return domain.Record{
		domain.ColAttributeID:        id,
		domain.ColAttributeName:      "0",
		domain.ColAttributeValue:     value,
		domain.ColAttributeValueType: "chunk",
	}
}

func TestEncodeRecord_RoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		record domain.Record
		format byte
	}{
		{"small", domain.Record{"k": "x"}, formatRaw},
		{"compressible", valueRow("a2", strings.Repeat("abc", 500)), formatZstd},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			encoded, err := encodeRecord(tt.record)
			require.NoError(t, err)
			assert.Equal(t, tt.format, encoded[0])

			decoded, err := decodeRecord(encoded)
			require.NoError(t, err)
			assert.Equal(t, tt.record, decoded)
		})
	}
}

func TestDecodeRecord_Invalid(t *testing.T) {
	_, err := decodeRecord(nil)
	assert.Error(t, err)

	_, err = decodeRecord([]byte{9, 1, 2})
	assert.Error(t, err)
}

func TestOpen_RequiresPath(t *testing.T) {
	_, err := New(Config{})
	assert.Error(t, err)
}

func TestConnector_AddCommitFetch(t *testing.T) {
	ctx := context.Background()
	c := setupTestConnector(t)

	rows := []domain.Record{valueRow("a1", "x"), valueRow("a2", "y"), valueRow("a3", "z")}
	require.NoError(t, c.AddEntries(ctx, domain.TableAttributeValues, rows))

	require.NoError(t, c.FetchEntries(ctx, domain.Filter{domain.ColAttributeID: {"a1"}}, ""))
	got, err := c.GetEntries(ctx, domain.TableAttributeValues, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, got, "nothing visible before commit")

	require.NoError(t, c.Commit(ctx))
	require.NoError(t, c.FetchEntries(ctx, domain.Filter{domain.ColAttributeID: {"a1", "a3"}}, ""))
	got, err = c.GetEntries(ctx, domain.TableAttributeValues, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []domain.Record{rows[0], rows[2]}, got)
}

func TestConnector_DatabasesAreSeparate(t *testing.T) {
	ctx := context.Background()
	c := setupTestConnector(t)

	require.NoError(t, c.AddEntries(ctx, domain.TableAttributeValues, []domain.Record{valueRow("a1", "x")}))
	require.NoError(t, c.Commit(ctx))

	require.NoError(t, c.FetchEntries(ctx, domain.Filter{domain.ColAttributeID: {"a1"}}, "elsewhere"))
	got, err := c.GetEntries(ctx, domain.TableAttributeValues, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestConnector_PersistsOnDisk(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	c, err := New(Config{Path: dir, Database: "prod"})
	require.NoError(t, err)
	require.NoError(t, c.AddEntries(ctx, domain.TableAttributeValues, []domain.Record{valueRow("a1", "x")}))
	require.NoError(t, c.Commit(ctx))
	require.NoError(t, c.Close())

	reopened, err := New(Config{Path: dir, Database: "prod"})
	require.NoError(t, err)
	defer reopened.Close()

	require.NoError(t, reopened.FetchEntries(ctx, domain.Filter{domain.ColAttributeID: {"a1"}}, ""))
	got, err := reopened.GetEntries(ctx, domain.TableAttributeValues, nil, []string{domain.ColAttributeValue})
	require.NoError(t, err)
	assert.Equal(t, []domain.Record{{domain.ColAttributeValue: "x"}}, got)
}

func TestConnector_Closed(t *testing.T) {
	ctx := context.Background()
	c := setupTestConnector(t)
	require.NoError(t, c.Close())
	require.NoError(t, c.Close())

	assert.ErrorIs(t, c.AddEntries(ctx, domain.TableAttributeValues, nil), domain.ErrConnectorClosed)
	assert.ErrorIs(t, c.Commit(ctx), domain.ErrConnectorClosed)
	assert.ErrorIs(t, c.FetchEntries(ctx, nil, ""), domain.ErrConnectorClosed)
}
