package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/paramframe/internal/core/domain"
)

// solutionFlags holds the descriptive fields shared by add and update.
type solutionFlags struct {
	id              string
	name            string
	description     string
	deploymentDate  string
	deprecationDate string
	maintainers     string
}

var (
	solutionAddFlags    solutionFlags
	solutionUpdateFlags solutionFlags
	transitionRemote    bool
)

var solutionCmd = &cobra.Command{
	Use:   "solution",
	Short: "Manage solutions and the lifecycle of their parameter sets",
}

var solutionAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a solution",
	Long: `Creates a solution. Without --id an identifier is generated; with an
existing --id the solution is overwritten.`,
	Args: cobra.NoArgs,
	RunE: runSolutionAdd,
}

var solutionUpdateCmd = &cobra.Command{
	Use:   "update [solution-id]",
	Short: "Update fields of a solution",
	Long:  `Updates only the fields whose flags are given.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runSolutionUpdate,
}

var solutionAttachCmd = &cobra.Command{
	Use:   "attach [solution] [parameter-set]",
	Short: "Attach a parameter set to a solution in STAGING",
	Args:  cobra.ExactArgs(2),
	RunE:  runSolutionAttach,
}

var solutionPromoteCmd = &cobra.Command{
	Use:   "promote [solution] [parameter-set]",
	Short: "Move a parameter set from STAGING to PRODUCTION",
	Args:  cobra.ExactArgs(2),
	RunE:  runSolutionPromote,
}

var solutionArchiveCmd = &cobra.Command{
	Use:   "archive [solution] [parameter-set]",
	Short: "Move a parameter set from PRODUCTION to ARCHIVED",
	Args:  cobra.ExactArgs(2),
	RunE:  runSolutionArchive,
}

var solutionListCmd = &cobra.Command{
	Use:   "list",
	Short: "List solutions",
	Args:  cobra.NoArgs,
	RunE:  runSolutionList,
}

var solutionShowCmd = &cobra.Command{
	Use:   "show [solution]",
	Short: "Show a solution and its parameter sets",
	Args:  cobra.ExactArgs(1),
	RunE:  runSolutionShow,
}

func init() {
	addSolutionFlags(solutionAddCmd, &solutionAddFlags)
	solutionAddCmd.Flags().StringVar(&solutionAddFlags.id, "id", "", "solution id (generated when empty)")
	addSolutionFlags(solutionUpdateCmd, &solutionUpdateFlags)

	for _, c := range []*cobra.Command{solutionPromoteCmd, solutionArchiveCmd} {
		c.Flags().BoolVar(&transitionRemote, "remote", false, "apply the transition on the remote (not supported)")
	}

	solutionCmd.AddCommand(solutionAddCmd)
	solutionCmd.AddCommand(solutionUpdateCmd)
	solutionCmd.AddCommand(solutionAttachCmd)
	solutionCmd.AddCommand(solutionPromoteCmd)
	solutionCmd.AddCommand(solutionArchiveCmd)
	solutionCmd.AddCommand(solutionListCmd)
	solutionCmd.AddCommand(solutionShowCmd)
	rootCmd.AddCommand(solutionCmd)
}

func addSolutionFlags(c *cobra.Command, f *solutionFlags) {
	c.Flags().StringVarP(&f.name, "name", "n", "", "solution name")
	c.Flags().StringVarP(&f.description, "description", "d", "", "solution description")
	c.Flags().StringVar(&f.deploymentDate, "deployment-date", "", "deployment date")
	c.Flags().StringVar(&f.deprecationDate, "deprecation-date", "", "deprecation date")
	c.Flags().StringVar(&f.maintainers, "maintainers", "", "maintainers")
}

func runSolutionAdd(cmd *cobra.Command, _ []string) error {
	if solutionManager == nil {
		return errNotConfigured("solution")
	}

	f := solutionAddFlags
	sol, err := solutionManager.AddSolutionDescription(context.Background(), domain.SolutionInput{
		ID:              f.id,
		Name:            f.name,
		Description:     f.description,
		DeploymentDate:  f.deploymentDate,
		DeprecationDate: f.deprecationDate,
		Maintainers:     f.maintainers,
	})
	if err != nil {
		return fmt.Errorf("failed to add solution: %w", err)
	}

	cmd.Printf("Solution %s saved.\n", sol.Name)
	cmd.Printf("  ID: %s\n", sol.ID)
	return nil
}

func runSolutionUpdate(cmd *cobra.Command, args []string) error {
	if solutionManager == nil {
		return errNotConfigured("solution")
	}

	f := solutionUpdateFlags
	changed := cmd.Flags().Changed
	var update domain.SolutionUpdate
	if changed("name") {
		update.Name = &f.name
	}
	if changed("description") {
		update.Description = &f.description
	}
	if changed("deployment-date") {
		update.DeploymentDate = &f.deploymentDate
	}
	if changed("deprecation-date") {
		update.DeprecationDate = &f.deprecationDate
	}
	if changed("maintainers") {
		update.Maintainers = &f.maintainers
	}
	if update.IsEmpty() {
		return errors.New("nothing to update: pass at least one field flag")
	}

	sol, err := solutionManager.UpdateSolutionDescription(context.Background(), args[0], update)
	if err != nil {
		return fmt.Errorf("failed to update solution: %w", err)
	}
	cmd.Printf("Solution %s updated.\n", sol.Name)
	return nil
}

func runSolutionAttach(cmd *cobra.Command, args []string) error {
	if solutionManager == nil {
		return errNotConfigured("solution")
	}

	link, err := solutionManager.AddParameterSetToSolution(context.Background(), solutionRef(args[0]), setRef(args[1]))
	if err != nil {
		return fmt.Errorf("failed to attach parameter set: %w", err)
	}
	cmd.Printf("Parameter set %s attached to %s as %s.\n", shortID(link.ParameterSetID), args[0], link.Status)
	return nil
}

func runSolutionPromote(cmd *cobra.Command, args []string) error {
	if solutionManager == nil {
		return errNotConfigured("solution")
	}

	link, err := solutionManager.ChangeStatusFromStagingToProduction(
		context.Background(), solutionRef(args[0]), setRef(args[1]), transitionRemote)
	if err != nil {
		return fmt.Errorf("failed to promote parameter set: %w", err)
	}
	cmd.Printf("Parameter set %s is now %s.\n", args[1], link.Status)
	return nil
}

func runSolutionArchive(cmd *cobra.Command, args []string) error {
	if solutionManager == nil {
		return errNotConfigured("solution")
	}

	link, err := solutionManager.ChangeStatusFromProductionToArchived(
		context.Background(), solutionRef(args[0]), setRef(args[1]), transitionRemote)
	if err != nil {
		return fmt.Errorf("failed to archive parameter set: %w", err)
	}
	cmd.Printf("Parameter set %s is now %s.\n", args[1], link.Status)
	return nil
}

func runSolutionList(cmd *cobra.Command, _ []string) error {
	if solutionManager == nil {
		return errNotConfigured("solution")
	}

	solutions, err := solutionManager.List(context.Background())
	if err != nil {
		return fmt.Errorf("failed to list solutions: %w", err)
	}
	if len(solutions) == 0 {
		cmd.Println("No solutions.")
		return nil
	}

	for i := range solutions {
		cmd.Printf("  %-32s %s\n", solutions[i].Name, solutions[i].ID)
	}
	cmd.Printf("\nTotal: %d solutions\n", len(solutions))
	return nil
}

func runSolutionShow(cmd *cobra.Command, args []string) error {
	if solutionManager == nil {
		return errNotConfigured("solution")
	}

	ctx := context.Background()
	sol, err := solutionManager.Get(ctx, solutionRef(args[0]))
	if err != nil {
		return fmt.Errorf("failed to get solution: %w", err)
	}
	links, err := solutionManager.Links(ctx, sol.ID)
	if err != nil {
		return fmt.Errorf("failed to list parameter sets: %w", err)
	}

	cmd.Printf("Solution: %s\n\n", sol.Name)
	cmd.Printf("  ID:          %s\n", sol.ID)
	if sol.Description != "" {
		cmd.Printf("  Description: %s\n", sol.Description)
	}
	if sol.DeploymentDate != "" {
		cmd.Printf("  Deployed:    %s\n", sol.DeploymentDate)
	}
	if sol.DeprecationDate != "" {
		cmd.Printf("  Deprecated:  %s\n", sol.DeprecationDate)
	}
	if sol.Maintainers != "" {
		cmd.Printf("  Maintainers: %s\n", sol.Maintainers)
	}

	if len(links) == 0 {
		cmd.Println("\n  No parameter sets attached.")
		return nil
	}
	cmd.Println("\n  Parameter sets:")
	for _, l := range links {
		name := shortID(l.ParameterSetID)
		if setComposer != nil {
			if ps, err := setComposer.GetByID(ctx, l.ParameterSetID); err == nil {
				name = ps.Name
			}
		}
		cmd.Printf("    %-32s %-10s %s\n", name, l.Status, l.InsertedAt.Format("2006-01-02 15:04:05"))
	}
	return nil
}
