package cli

import (
	"errors"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/paramframe/internal/core/domain"
	"github.com/custodia-labs/paramframe/internal/digest"
)

func TestRootCmd_HasSubcommands(t *testing.T) {
	commands := rootCmd.Commands()
	names := make([]string, 0, len(commands))
	for _, c := range commands {
		names = append(names, c.Name())
	}

	for _, want := range []string{
		"process", "parameter", "set", "solution", "commit",
		"push", "pull", "reconstruct", "watch", "settings", "version",
	} {
		assert.Contains(t, names, want)
	}
}

func TestRootCmd_SetupAndTeardown(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	var gotDir string
	tornDown := false
	SetSetup(func(dir string) (Services, func() error, error) {
		gotDir = dir
		return Services{Solutions: solutionManager}, func() error {
			tornDown = true
			return nil
		}, nil
	})
	defer SetSetup(nil)

	_, err := executeCommand("solution", "list", "--data-dir", "/tmp/pf")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/pf", gotDir)
	assert.True(t, tornDown)
}

func TestRootCmd_SetupError(t *testing.T) {
	SetSetup(func(string) (Services, func() error, error) {
		return Services{}, nil, errors.New("bad config")
	})
	defer SetSetup(nil)

	_, err := executeCommand("solution", "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad config")
}

func TestCommands_NotConfigured(t *testing.T) {
	SetServices(Services{})

	tests := [][]string{
		{"parameter", "list"},
		{"set", "list"},
		{"solution", "list"},
		{"commit", "pricing"},
		{"push", "pricing"},
		{"pull", "pricing"},
		{"reconstruct", "pricing", "core"},
		{"settings", "show"},
	}

	for _, args := range tests {
		t.Run(args[0], func(t *testing.T) {
			_, err := executeCommand(args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "not configured")
		})
	}
}

func TestRefs(t *testing.T) {
	id := digest.Of("x")

	assert.Equal(t, domain.SolutionRef{ID: id}, solutionRef(id))
	assert.Equal(t, domain.SolutionRef{Name: "pricing"}, solutionRef("pricing"))
	assert.Equal(t, domain.ParameterSetRef{ID: id}, setRef(id))
	assert.Equal(t, domain.ParameterSetRef{Name: "core"}, setRef("core"))
	assert.Nil(t, setRefs(nil))
	assert.Equal(t, []domain.ParameterSetRef{{Name: "a"}, {ID: id}}, setRefs([]string{"a", id}))
}

func TestShortID(t *testing.T) {
	assert.Equal(t, "abc", shortID("abc"))
	assert.Equal(t, "0123456789ab", shortID("0123456789abcdef"))
}

func TestSolutionUpdate_RequiresAField(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	c := &cobra.Command{}
	var f solutionFlags
	addSolutionFlags(c, &f)

	err := runSolutionUpdate(c, []string{"sol-1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nothing to update")
}
