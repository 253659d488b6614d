package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/restud-replication-packages/restud/internal/output"
	"github.com/restud-replication-packages/restud/internal/report"
)

var statusCmd = &cobra.Command{
	Use:   "status [path]",
	Short: "Show review status for a package checkout",
	Long: `Show the review state of the package checkout at the given path
(default: current directory): current branch and round, report status,
rule answers, and whether the package is accepted.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "."
		if len(args) == 1 {
			path = args[0]
		}
		return statusRun(path)
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func statusRun(path string) error {
	svc, _, err := newWorkflow()
	if err != nil {
		return err
	}

	st, err := svc.PackageStatus(path)
	if err != nil {
		return err
	}

	fmt.Fprintf(ui.Out, "%s", output.Cyan(packageName(path)))
	if st.Branch != "" {
		fmt.Fprintf(ui.Out, " %s", output.Yellow("("+st.Branch+")"))
	}
	fmt.Fprintf(ui.Out, " report:%s", output.ReportStatusColor(string(st.ReportStatus)))
	if st.Accepted {
		fmt.Fprintf(ui.Out, " %s", output.Green("accepted"))
	}
	fmt.Fprintln(ui.Out)

	if st.Round == 0 {
		ui.Info("No review rounds yet; the package has not been downloaded for review.")
	} else {
		ui.Info("Current round: %d", st.Round)
	}

	// Rule-by-rule table when a valid report exists.
	rec, err := report.Load(filepath.Join(path, report.Filename))
	if err != nil {
		ui.VerboseLog("No readable report: %v", err)
		return nil
	}
	if len(rec.Rules) == 0 {
		return nil
	}

	fmt.Fprintln(ui.Out)
	table := ui.Table([]string{"Rule", "Answer", "Comment"})
	for _, rule := range rec.Rules {
		comment := rule.Comment
		if len(comment) > 60 {
			comment = comment[:57] + "..."
		}
		table.Append([]string{
			rule.ID,
			output.AnswerColor(string(rule.Answer)),
			comment,
		})
	}
	table.Render()

	return nil
}
