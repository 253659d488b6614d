package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/restud-replication-packages/restud/internal/checks"
	"github.com/restud-replication-packages/restud/internal/output"
)

var checkCmd = &cobra.Command{
	Use:   "check [path]",
	Short: "Run package hygiene checks",
	Long: `Check the package checkout at the given path (default: current
directory) for common problems: missing or invalid report, missing
README, empty files from a truncated extraction, and files too large
to commit.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "."
		if len(args) == 1 {
			path = args[0]
		}
		return checkRun(path)
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func checkRun(path string) error {
	checker := checks.NewChecker()
	results := checker.Run(path)

	failed := 0
	for _, c := range results {
		if c.Passed {
			ui.Success("%s: %s", c.Name, c.Detail)
		} else {
			ui.Error("%s: %s", c.Name, c.Detail)
			failed++
		}
	}

	fmt.Fprintln(ui.Out)
	if failed > 0 {
		return fmt.Errorf("%d of %d checks failed", failed, len(results))
	}
	ui.Info("All %d checks passed for %s", len(results), output.Cyan(packageName(path)))
	return nil
}
