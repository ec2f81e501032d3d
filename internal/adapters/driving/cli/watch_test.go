package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatchCmd_Flags(t *testing.T) {
	assert.Equal(t, "watch [dir]", watchCmd.Use)
	assert.NotNil(t, watchCmd.Flags().Lookup("debounce"))
	assert.NotNil(t, watchCmd.Flags().Lookup("set"))
}

func TestReprocess_ProcessesChangedFiles(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	dir := writeFiles(t, map[string]string{"a.txt": "one"})
	buf := new(bytes.Buffer)
	c := &cobra.Command{}
	c.SetOut(buf)

	require.NoError(t, reprocess(context.Background(), c, dir, []string{filepath.Join(dir, "a.txt")}))
	first, err := parameterRegistry.Get(context.Background(), "a")
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("two"), 0o600))
	require.NoError(t, reprocess(context.Background(), c, dir, []string{filepath.Join(dir, "a.txt")}))
	second, err := parameterRegistry.Get(context.Background(), "a")
	require.NoError(t, err)

	assert.NotEqual(t, first.Parameter.ID, second.Parameter.ID)
	assert.Contains(t, buf.String(), "a.txt -> ")
}

func TestReprocess_RebuildsSetAndCheckpoints(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	checkpoints := 0
	checkpoint = func() error {
		checkpoints++
		return nil
	}
	watchSet = "live"
	defer func() { watchSet = "" }()

	dir := writeFiles(t, map[string]string{
		"a.txt":   "one",
		"b.yaml":  "k: v\n",
		".hidden": "skip",
	})
	c := &cobra.Command{}
	c.SetOut(new(bytes.Buffer))

	require.NoError(t, reprocess(context.Background(), c, dir, []string{filepath.Join(dir, "a.txt")}))

	ps, err := setComposer.Get(context.Background(), "live")
	require.NoError(t, err)
	assert.Len(t, ps.ParameterIDs, 2)
	assert.Equal(t, 1, checkpoints)
}
