package services

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	memconn "github.com/custodia-labs/paramframe/internal/adapters/driven/connector/memory"
	"github.com/custodia-labs/paramframe/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/paramframe/internal/codec"
	"github.com/custodia-labs/paramframe/internal/core/domain"
	"github.com/custodia-labs/paramframe/internal/namegen"
)

// fixedTime is the clock used for link timestamps in tests.
var fixedTime = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func newMemoryStores() Stores {
	return Stores{
		Parameters:    memory.NewParameterStore(),
		ParameterSets: memory.NewParameterSetStore(),
		Solutions:     memory.NewSolutionStore(),
		Staging:       memory.NewStagingStore(),
	}
}

// newTestEngine returns an engine over fresh memory stores talking to conn.
// A nil conn gets a new memory connector.
func newTestEngine(t *testing.T, conn *memconn.Connector) (*Engine, *memconn.Connector) {
	t.Helper()
	if conn == nil {
		conn = memconn.New("")
	}
	e := NewEngine(newMemoryStores(), codec.New(), namegen.New(7), conn, "")
	e.Solutions.SetClock(func() time.Time { return fixedTime })
	return e, conn
}

// fixtureFiles are the contents written by writeFixtures.
func fixtureFiles(t *testing.T) map[string][]byte {
	t.Helper()
	obj, err := codec.MarshalObject(map[string]any{"k": "v", "n": 1})
	require.NoError(t, err)
	return map[string][]byte{
		"config.yaml": []byte("a: 1\nb:\n  - 2\n  - 3\nc:\n  d: x\n"),
		"notes.txt":   []byte(strings.Repeat("abcdefghij", 60)),
		"blob.bin":    {0x00, 0x01, 0x02, 0xfe, 0xff},
		"obj.cbor":    obj,
	}
}

// writeFixtures writes one file of every type into a temp directory.
func writeFixtures(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range fixtureFiles(t) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), content, 0o600))
	}
	return dir
}

// seed processes the fixtures and creates a solution with two linked
// sets that share the config parameter.
func seed(t *testing.T, e *Engine) (*domain.Solution, *domain.ParameterSet, *domain.ParameterSet) {
	t.Helper()
	ctx := context.Background()

	_, err := e.Parameters.ProcessParametersFromFiles(ctx, writeFixtures(t), nil, nil)
	require.NoError(t, err)

	first, err := e.ParameterSets.MakeParameterSet(ctx, "first", "config and notes", []string{"config", "notes"})
	require.NoError(t, err)
	second, err := e.ParameterSets.MakeParameterSet(ctx, "second", "", []string{"blob", "obj", "config"})
	require.NoError(t, err)

	sol, err := e.Solutions.AddSolutionDescription(ctx, domain.SolutionInput{
		Name:        "pricing",
		Description: "pricing models",
		Maintainers: "ops",
	})
	require.NoError(t, err)

	for _, ps := range []*domain.ParameterSet{first, second} {
		_, err := e.Solutions.AddParameterSetToSolution(ctx,
			domain.SolutionRef{ID: sol.ID}, domain.ParameterSetRef{Name: ps.Name})
		require.NoError(t, err)
	}
	return sol, first, second
}
