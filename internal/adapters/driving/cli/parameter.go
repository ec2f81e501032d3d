package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	processNames        []string
	processDescriptions []string
)

var processCmd = &cobra.Command{
	Use:   "process [dir]",
	Short: "Process files into parameters",
	Long: `Processes the regular files of a directory into parameters.

Without --name every file is processed and named after its base name.
With --name only the named files are processed, in the order given;
--description values align with the names.`,
	Args: cobra.ExactArgs(1),
	RunE: runProcess,
}

var parameterCmd = &cobra.Command{
	Use:   "parameter",
	Short: "Inspect registered parameters",
}

var parameterListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered parameters",
	Args:  cobra.NoArgs,
	RunE:  runParameterList,
}

var parameterShowCmd = &cobra.Command{
	Use:   "show [name]",
	Short: "Show a registered parameter",
	Args:  cobra.ExactArgs(1),
	RunE:  runParameterShow,
}

func init() {
	processCmd.Flags().StringSliceVar(&processNames, "name", nil, "parameter names to process (base names)")
	processCmd.Flags().StringSliceVar(&processDescriptions, "description", nil, "descriptions aligned with --name")
	rootCmd.AddCommand(processCmd)

	parameterCmd.AddCommand(parameterListCmd)
	parameterCmd.AddCommand(parameterShowCmd)
	rootCmd.AddCommand(parameterCmd)
}

func runProcess(cmd *cobra.Command, args []string) error {
	if parameterRegistry == nil {
		return errNotConfigured("parameter")
	}

	var names, descriptions []string
	if cmd.Flags().Changed("name") {
		names = processNames
	}
	if cmd.Flags().Changed("description") {
		descriptions = processDescriptions
	}

	params, err := parameterRegistry.ProcessParametersFromFiles(context.Background(), args[0], names, descriptions)
	if err != nil {
		return fmt.Errorf("failed to process parameters: %w", err)
	}

	for _, p := range params {
		cmd.Printf("  %-24s %s  %s\n", p.Parameter.Name, shortID(p.Parameter.ID), p.Parameter.FileType)
	}
	cmd.Printf("Processed %d parameters.\n", len(params))
	return nil
}

func runParameterList(cmd *cobra.Command, _ []string) error {
	if parameterRegistry == nil {
		return errNotConfigured("parameter")
	}

	params, err := parameterRegistry.List(context.Background())
	if err != nil {
		return fmt.Errorf("failed to list parameters: %w", err)
	}
	if len(params) == 0 {
		cmd.Println("No parameters registered.")
		return nil
	}

	for _, p := range params {
		cmd.Printf("  %-24s %s  %-16s %s\n",
			p.Parameter.Name, shortID(p.Parameter.ID), p.Parameter.FileType, p.Parameter.SourceFileName)
	}
	cmd.Printf("\nTotal: %d parameters\n", len(params))
	return nil
}

func runParameterShow(cmd *cobra.Command, args []string) error {
	if parameterRegistry == nil {
		return errNotConfigured("parameter")
	}

	p, err := parameterRegistry.Get(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("failed to get parameter: %w", err)
	}

	cmd.Printf("Parameter: %s\n\n", p.Parameter.Name)
	cmd.Printf("  ID:          %s\n", p.Parameter.ID)
	cmd.Printf("  File:        %s\n", p.Parameter.SourceFileName)
	cmd.Printf("  Type:        %s\n", p.Parameter.FileType)
	if p.Parameter.Description != "" {
		cmd.Printf("  Description: %s\n", p.Parameter.Description)
	}
	cmd.Printf("  Nodes:       %d\n", len(p.Values))
	return nil
}
