package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/planweave/wallgeom"
)

var buildOutput string

var buildCmd = &cobra.Command{
	Use:   "build <plan-file>",
	Short: "Build wall solids from a plan file",
	Long: `Parse a plan file, build every wall solid, resolve junctions and
print a summary. With --output the resolved network is written as JSON.

Examples:
  wallplan build plan.wp
  wallplan build plan.wp -o resolved.json`,
	Args: cobra.ExactArgs(1),
	RunE: runBuild,
}

func init() {
	rootCmd.AddCommand(buildCmd)

	buildCmd.Flags().StringVarP(&buildOutput, "output", "o", "",
		"write resolved network JSON to this path")
}

func runBuild(cmd *cobra.Command, args []string) error {
	eng, network, err := loadNetwork(args[0])
	if err != nil {
		return err
	}

	result := eng.ResolveNetwork(network)

	fmt.Printf("Walls:         %d\n", len(network.Walls))
	fmt.Printf("Junctions:     %d\n", len(result.Intersections))
	fmt.Printf("Health:        %s\n", result.Report.Health)
	fmt.Printf("Accuracy:      %.3f\n", result.Report.Overall.Accuracy)
	fmt.Printf("Manufacturable:%.3f\n", result.Report.Overall.Manufacturability)

	for _, warn := range result.Warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", warn)
	}
	for _, n := range result.Notifications {
		fmt.Fprintf(os.Stderr, "fallback: %s -> %s\n", n.Operation, n.FallbackMethod)
	}
	for _, geoErr := range result.Errors {
		fmt.Fprintf(os.Stderr, "error: %v\n", geoErr)
	}

	if buildOutput != "" {
		data, err := wallgeom.MarshalWallNetwork(network)
		if err != nil {
			return fmt.Errorf("failed to serialize network: %w", err)
		}
		if err := os.WriteFile(buildOutput, data, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", buildOutput, err)
		}
		fmt.Printf("Wrote %s\n", buildOutput)
	}

	if len(result.Errors) > 0 {
		return fmt.Errorf("%d walls failed to resolve", len(result.Errors))
	}
	return nil
}
