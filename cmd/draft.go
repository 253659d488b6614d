package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/restud-replication-packages/restud/internal/llm"
	"github.com/restud-replication-packages/restud/internal/report"
)

var draftCmd = &cobra.Command{
	Use:   "draft [path]",
	Short: "Draft the praise paragraph for a report with an LLM",
	Long: `Draft a suggestion for the report's optional praise paragraph from
the rules the package already passes. The suggestion is printed for the
operator to edit into report.yaml by hand; nothing is written.

Requires ANTHROPIC_API_KEY environment variable or anthropic.api_key in config.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "."
		if len(args) == 1 {
			path = args[0]
		}
		return draftRun(path)
	},
}

func init() {
	rootCmd.AddCommand(draftCmd)
}

func draftRun(path string) error {
	apiKey := viper.GetString("anthropic.api_key")
	if apiKey == "" {
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	if apiKey == "" {
		return fmt.Errorf("ANTHROPIC_API_KEY not set (set env var or anthropic.api_key in config)")
	}

	rec, err := report.Load(filepath.Join(path, report.Filename))
	if err != nil {
		return err
	}
	if len(rec.Rules) == 0 {
		return fmt.Errorf("report has no evaluated rules yet; nothing to praise")
	}

	model := viper.GetString("anthropic.model")
	ui.Info("Drafting praise paragraph with %s...", model)

	client := llm.NewClient(apiKey, model)
	praise, err := client.DraftPraise(context.Background(), rec)
	if err != nil {
		return fmt.Errorf("draft praise: %w", err)
	}

	fmt.Fprintln(ui.Out)
	fmt.Fprintln(ui.Out, praise)
	fmt.Fprintln(ui.Out)
	ui.Info("Edit this into the metadata.praise field of %s if you like it.", report.Filename)

	return nil
}
