package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/paramframe/internal/adapters/driving/watch"
	"github.com/custodia-labs/paramframe/internal/logger"
)

var (
	watchDebounce time.Duration
	watchSet      string
)

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Reprocess files whenever they change",
	Long: `Watches a directory and reprocesses changed files as parameters named
after their base name. With --set the named parameter set is rebuilt from
every file in the directory after each change.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", watch.DefaultDebounce, "quiet period before reprocessing")
	watchCmd.Flags().StringVar(&watchSet, "set", "", "parameter set to rebuild after each change")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if parameterRegistry == nil {
		return errNotConfigured("parameter")
	}
	if watchSet != "" && setComposer == nil {
		return errNotConfigured("parameter set")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dir := args[0]
	w := watch.New(dir, watchDebounce, func(ctx context.Context, paths []string) error {
		return reprocess(ctx, cmd, dir, paths)
	})
	cmd.Printf("Watching %s (Ctrl+C to stop)...\n", dir)
	return w.Run(ctx)
}

// reprocess handles one batch of changed files.
func reprocess(ctx context.Context, cmd *cobra.Command, dir string, paths []string) error {
	for _, path := range paths {
		p, err := parameterRegistry.ProcessFile(ctx, path, "", "")
		if err != nil {
			return fmt.Errorf("reprocessing %s: %w", path, err)
		}
		cmd.Printf("  %s -> %s\n", filepath.Base(path), shortID(p.Parameter.ID))
	}

	if watchSet != "" {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return fmt.Errorf("reading %s: %w", dir, err)
		}
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			if !e.Type().IsRegular() || strings.HasPrefix(e.Name(), ".") {
				continue
			}
			name := strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))
			if _, err := parameterRegistry.Get(ctx, name); err != nil {
				logger.Debug("processing %s before rebuilding %s", e.Name(), watchSet)
				if _, err := parameterRegistry.ProcessFile(ctx, filepath.Join(dir, e.Name()), name, ""); err != nil {
					return fmt.Errorf("processing %s: %w", e.Name(), err)
				}
			}
			names = append(names, name)
		}
		ps, err := setComposer.MakeParameterSet(ctx, watchSet, "", names)
		if err != nil {
			return fmt.Errorf("rebuilding parameter set %s: %w", watchSet, err)
		}
		cmd.Printf("  parameter set %s -> %s\n", ps.Name, shortID(ps.ID))
	}

	if checkpoint != nil {
		return checkpoint()
	}
	return nil
}
