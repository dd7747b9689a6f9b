package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "siteplanner",
		Short: "Constraint-aware site layout optimizer",
	}

	rootCmd.AddCommand(optimizeCmd())
	rootCmd.AddCommand(validateCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func optimizeCmd() *cobra.Command {
	var (
		seed         uint64
		strategy     string
		alternatives int
	)

	cmd := &cobra.Command{
		Use:   "optimize [scenario.yaml]",
		Short: "Run the placement search and emit the best layout as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runOptimize(args[0], seed, strategy, alternatives)
		},
	}

	cmd.Flags().Uint64Var(&seed, "seed", 0, "random seed (0 keeps the scenario's)")
	cmd.Flags().StringVar(&strategy, "strategy", "", "initialization strategy: random, grid, heuristic")
	cmd.Flags().IntVar(&alternatives, "alternatives", -1, "number of alternative layouts to return")
	return cmd
}

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [scenario.yaml]",
		Short: "Validate a scenario's seed layout without optimizing",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runValidate(args[0])
		},
	}
}
