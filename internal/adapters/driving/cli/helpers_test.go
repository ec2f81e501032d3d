package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	memconn "github.com/custodia-labs/paramframe/internal/adapters/driven/connector/memory"
	"github.com/custodia-labs/paramframe/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/paramframe/internal/codec"
	"github.com/custodia-labs/paramframe/internal/core/services"
	"github.com/custodia-labs/paramframe/internal/namegen"
)

// setupTestServices wires every command to an engine over memory stores.
func setupTestServices() func() {
	stores := services.Stores{
		Parameters:    memory.NewParameterStore(),
		ParameterSets: memory.NewParameterSetStore(),
		Solutions:     memory.NewSolutionStore(),
		Staging:       memory.NewStagingStore(),
	}
	e := services.NewEngine(stores, codec.New(), namegen.New(1), memconn.New(""), "")
	SetServices(Services{
		Parameters:    e.Parameters,
		ParameterSets: e.ParameterSets,
		Solutions:     e.Solutions,
		Commits:       e.Commits,
		Sync:          e.Sync,
		Reconstruct:   e.Reconstruct,
		Settings:      services.NewSettingsService(memory.NewConfigStore()),
	})
	return func() {
		SetServices(Services{})
	}
}

// executeCommand runs the root command with args and returns its output.
func executeCommand(args ...string) (string, error) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()
	return buf.String(), err
}

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
	}
	return dir
}
