package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <plan-file>",
	Short: "Validate a plan file and report quality",
	Long: `Parse a plan file, build every wall and run the full validation
pass. Exits non-zero when any wall is invalid after repair.

Examples:
  wallplan validate plan.wp
  wallplan validate --no-repair plan.wp`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	eng, network, err := loadNetwork(args[0])
	if err != nil {
		return err
	}

	result := eng.ResolveNetwork(network)
	report := result.Report

	fmt.Printf("Health: %s\n", report.Health)
	invalid := 0
	for id, res := range report.WallResults {
		if res.IsValid {
			continue
		}
		invalid++
		fmt.Printf("wall %s: INVALID\n", id)
		for _, issue := range res.Errors {
			fmt.Printf("  [%s] %s: %s\n", issue.Severity, issue.Rule, issue.Message)
		}
	}
	for _, issue := range report.NetworkResult.Errors {
		fmt.Printf("network: [%s] %s: %s\n", issue.Severity, issue.Rule, issue.Message)
	}
	for i, rec := range report.Recommendations {
		fmt.Printf("%d. %s\n", i+1, rec)
	}

	if invalid > 0 {
		return fmt.Errorf("%d of %d walls invalid", invalid, report.WallCount)
	}
	fmt.Printf("All %d walls valid.\n", report.WallCount)
	return nil
}
