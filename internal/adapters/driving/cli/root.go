// Package cli provides the command-line interface for paramframe.
package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/paramframe/internal/core/ports/driving"
	"github.com/custodia-labs/paramframe/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

// Services used by commands. Set by SetServices or by the Setup hook.
var (
	parameterRegistry driving.ParameterRegistry
	setComposer       driving.ParameterSetComposer
	solutionManager   driving.SolutionManager
	commitStager      driving.CommitStager
	syncEngine        driving.SyncEngine
	reconstructor     driving.Reconstructor
	settingsService   driving.SettingsService
	checkpoint        func() error
)

// Services groups the driving ports commands call.
type Services struct {
	Parameters    driving.ParameterRegistry
	ParameterSets driving.ParameterSetComposer
	Solutions     driving.SolutionManager
	Commits       driving.CommitStager
	Sync          driving.SyncEngine
	Reconstruct   driving.Reconstructor
	Settings      driving.SettingsService

	// Checkpoint persists engine state mid-command. Optional.
	Checkpoint func() error
}

// Setup builds the services for one run from the data directory.
// The returned cleanup runs after a successful command.
type Setup func(dataDir string) (Services, func() error, error)

var (
	verbose  bool
	dataDir  string
	setup    Setup
	teardown func() error
)

var rootCmd = &cobra.Command{
	Use:   "paramframe",
	Short: "Decompose configuration files into versioned parameter sets",
	Long: `paramframe processes configuration and data files into content-addressed
attribute trees, groups them into parameter sets, attaches the sets to
solutions with a STAGING -> PRODUCTION -> ARCHIVED lifecycle, and pushes
and pulls them through a row-oriented connector.`,
	SilenceUsage:       true,
	PersistentPreRunE:  preRun,
	PersistentPostRunE: postRun,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug output")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "data directory (default ~/.paramframe)")
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// SetServices installs the services used by commands.
func SetServices(s Services) {
	parameterRegistry = s.Parameters
	setComposer = s.ParameterSets
	solutionManager = s.Solutions
	commitStager = s.Commits
	syncEngine = s.Sync
	reconstructor = s.Reconstruct
	settingsService = s.Settings
	checkpoint = s.Checkpoint
}

// SetSetup installs the hook that builds services before each command.
func SetSetup(fn Setup) {
	setup = fn
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func preRun(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)
	if setup == nil || cmd == versionCmd {
		return nil
	}
	services, cleanup, err := setup(dataDir)
	if err != nil {
		return fmt.Errorf("initialising: %w", err)
	}
	SetServices(services)
	teardown = cleanup
	return nil
}

func postRun(_ *cobra.Command, _ []string) error {
	if teardown == nil {
		return nil
	}
	err := teardown()
	teardown = nil
	return err
}

// errNotConfigured reports a service missing from the current setup.
func errNotConfigured(name string) error {
	return errors.New(name + " service not configured")
}
