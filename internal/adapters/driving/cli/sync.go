package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/paramframe/internal/core/domain"
	"github.com/custodia-labs/paramframe/internal/digest"
)

var commitCmd = &cobra.Command{
	Use:   "commit [solution] [parameter-set...]",
	Short: "Stage parameter sets of a solution for push",
	Long: `Replaces the staging entry of a solution with the rows of the given
attached parameter sets. Without sets every attached set is committed.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCommit,
}

var pushCmd = &cobra.Command{
	Use:   "push [solution] [parameter-set...]",
	Short: "Push staged parameter sets to the connector",
	Long: `Writes the staged rows of the given sets to the connector, parents
first, then commits. Without sets every staged set is pushed.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runPush,
}

var pullCmd = &cobra.Command{
	Use:   "pull [solution] [parameter-set...]",
	Short: "Pull parameter sets of a solution from the connector",
	Long: `Fetches a solution's parameter sets from the connector and rebuilds
its staging entry and the local registry. Without sets every set attached
on the remote is pulled. Names are resolved locally; on a fresh data
directory pass ids.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runPull,
}

func init() {
	rootCmd.AddCommand(commitCmd)
	rootCmd.AddCommand(pushCmd)
	rootCmd.AddCommand(pullCmd)
}

func runCommit(cmd *cobra.Command, args []string) error {
	if commitStager == nil {
		return errNotConfigured("commit")
	}

	staged, err := commitStager.CommitSolution(context.Background(), solutionRef(args[0]), setRefs(args[1:]))
	if err != nil {
		return fmt.Errorf("commit failed: %w", err)
	}

	cmd.Printf("Committed %d parameter sets of %s.\n", len(staged.ParameterSetIDs()), args[0])
	for _, t := range domain.Tables {
		cmd.Printf("  %-28s %d rows\n", t, len(staged.Flatten(t, staged.ParameterSetIDs())))
	}
	return nil
}

func runPush(cmd *cobra.Command, args []string) error {
	if syncEngine == nil {
		return errNotConfigured("sync")
	}

	cmd.Printf("Pushing %s...\n", args[0])
	if err := syncEngine.PushSolution(context.Background(), solutionRef(args[0]), setRefs(args[1:])); err != nil {
		return fmt.Errorf("push failed: %w", err)
	}
	cmd.Printf("Solution %s pushed successfully.\n", args[0])
	return nil
}

func runPull(cmd *cobra.Command, args []string) error {
	if syncEngine == nil {
		return errNotConfigured("sync")
	}

	ctx := context.Background()
	solutionID, err := resolveSolutionID(ctx, args[0])
	if err != nil {
		return err
	}
	setIDs := make([]string, 0, len(args)-1)
	for _, a := range args[1:] {
		id, err := resolveSetID(ctx, a)
		if err != nil {
			return err
		}
		setIDs = append(setIDs, id)
	}

	cmd.Printf("Pulling %s...\n", args[0])
	staged, err := syncEngine.PullSolution(ctx, solutionID, setIDs)
	if err != nil {
		return fmt.Errorf("pull failed: %w", err)
	}
	cmd.Printf("Pulled %d parameter sets of %s.\n", len(staged.ParameterSetIDs()), args[0])
	return nil
}

// resolveSolutionID returns arg if it is an id, else looks the name up.
func resolveSolutionID(ctx context.Context, arg string) (string, error) {
	if digest.Valid(arg) {
		return arg, nil
	}
	if solutionManager == nil {
		return "", errNotConfigured("solution")
	}
	sol, err := solutionManager.Get(ctx, domain.SolutionRef{Name: arg})
	if err != nil {
		return "", fmt.Errorf("failed to resolve solution: %w", err)
	}
	return sol.ID, nil
}

// resolveSetID returns arg if it is an id, else looks the name up.
func resolveSetID(ctx context.Context, arg string) (string, error) {
	if digest.Valid(arg) {
		return arg, nil
	}
	if setComposer == nil {
		return "", errNotConfigured("parameter set")
	}
	ps, err := setComposer.Get(ctx, arg)
	if err != nil {
		return "", fmt.Errorf("failed to resolve parameter set: %w", err)
	}
	return ps.ID, nil
}
