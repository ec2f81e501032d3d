package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var reconstructOutput string

var reconstructCmd = &cobra.Command{
	Use:   "reconstruct [solution] [parameter-set]",
	Short: "Write a staged parameter set back to files",
	Long: `Rebuilds every parameter of a staged parameter set and writes it to the
output directory under its original file name.`,
	Args: cobra.ExactArgs(2),
	RunE: runReconstruct,
}

func init() {
	reconstructCmd.Flags().StringVarP(&reconstructOutput, "output", "o", ".", "output directory")
	rootCmd.AddCommand(reconstructCmd)
}

func runReconstruct(cmd *cobra.Command, args []string) error {
	if reconstructor == nil {
		return errNotConfigured("reconstruct")
	}

	written, err := reconstructor.ReconstructParameterSet(
		context.Background(), solutionRef(args[0]), setRef(args[1]), reconstructOutput)
	if err != nil {
		return fmt.Errorf("reconstruct failed: %w", err)
	}

	for _, path := range written {
		cmd.Printf("  %s\n", path)
	}
	cmd.Printf("Wrote %d files.\n", len(written))
	return nil
}
