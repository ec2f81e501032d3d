package cli

import (
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/paramframe/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and change codec, connector and state settings.

Settings are stored in config.toml in the data directory.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	Args:  cobra.NoArgs,
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Change a setting",
	Long: `Changes a single setting. The result is validated before it is saved.

Keys:
  codec.chunk_size      units per chunk for text and binary content
  codec.max_depth       maximum nesting depth of structured content
  namegen.seed          seed for generated set names (0 = random)
  connector.type        memory, sqlite or badger
  connector.path        database file (sqlite) or directory (badger)
  connector.database    logical database name
  connector.rate_limit  connector calls per second (0 = unlimited)
  connector.burst       burst size when rate limited
  state.path            engine state file`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

var settingsResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore default settings",
	Args:  cobra.NoArgs,
	RunE:  runSettingsReset,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsResetCmd)
	rootCmd.AddCommand(settingsCmd)
}

// settingSetters apply a textual value to one settings field.
var settingSetters = map[string]func(s *domain.Settings, v string) error{
	"codec.chunk_size": func(s *domain.Settings, v string) error {
		return parseInt(v, &s.Codec.ChunkSize)
	},
	"codec.max_depth": func(s *domain.Settings, v string) error {
		return parseInt(v, &s.Codec.MaxDepth)
	},
	"namegen.seed": func(s *domain.Settings, v string) error {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return err
		}
		s.Names.Seed = n
		return nil
	},
	"connector.type": func(s *domain.Settings, v string) error {
		s.Connector.Type = domain.ConnectorType(v)
		return nil
	},
	"connector.path": func(s *domain.Settings, v string) error {
		s.Connector.Path = v
		return nil
	},
	"connector.database": func(s *domain.Settings, v string) error {
		s.Connector.Database = v
		return nil
	},
	"connector.rate_limit": func(s *domain.Settings, v string) error {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return err
		}
		s.Connector.RateLimit = f
		return nil
	},
	"connector.burst": func(s *domain.Settings, v string) error {
		return parseInt(v, &s.Connector.Burst)
	},
	"state.path": func(s *domain.Settings, v string) error {
		s.State.Path = v
		return nil
	},
}

func parseInt(v string, dst *int) error {
	n, err := strconv.Atoi(v)
	if err != nil {
		return err
	}
	*dst = n
	return nil
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errNotConfigured("settings")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Codec]")
	cmd.Printf("  Chunk size: %d\n", settings.Codec.ChunkSize)
	cmd.Printf("  Max depth: %d\n", settings.Codec.MaxDepth)
	cmd.Println()

	cmd.Println("[Names]")
	if settings.Names.Seed == 0 {
		cmd.Println("  Seed: random")
	} else {
		cmd.Printf("  Seed: %d\n", settings.Names.Seed)
	}
	cmd.Println()

	cmd.Println("[Connector]")
	cmd.Printf("  Type: %s\n", settings.Connector.Type)
	switch {
	case settings.Connector.Path != "":
		cmd.Printf("  Path: %s\n", settings.Connector.Path)
	case settings.Connector.Type != domain.ConnectorMemory:
		cmd.Println("  Path: (data directory)")
	}
	if settings.Connector.Database != "" {
		cmd.Printf("  Database: %s\n", settings.Connector.Database)
	}
	if settings.Connector.RateLimit > 0 {
		cmd.Printf("  Rate limit: %g/s (burst %d)\n", settings.Connector.RateLimit, settings.Connector.Burst)
	} else {
		cmd.Println("  Rate limit: none")
	}
	cmd.Println()

	cmd.Println("[State]")
	if settings.State.Path != "" {
		cmd.Printf("  Path: %s\n", settings.State.Path)
	} else {
		cmd.Println("  Path: (data directory)")
	}
	cmd.Println()

	if err := settingsService.Validate(settings); err != nil {
		cmd.Printf("Warning: %v\n", err)
	} else {
		cmd.Println("Configuration is valid.")
	}
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errNotConfigured("settings")
	}

	key, value := args[0], args[1]
	apply, ok := settingSetters[key]
	if !ok {
		return fmt.Errorf("unknown setting %q (known: %v)", key, settingKeys())
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	if err := apply(settings, value); err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}
	if err := settingsService.Save(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	cmd.Printf("Set %s to %s\n", key, value)
	return nil
}

func runSettingsReset(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	defaults := settingsService.GetDefaults()
	if err := settingsService.Save(&defaults); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	cmd.Println("Settings restored to defaults.")
	return nil
}

func settingKeys() []string {
	keys := make([]string, 0, len(settingSetters))
	for k := range settingSetters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
