package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/restud-replication-packages/restud/internal/output"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history [package]",
	Short: "Show tracked packages and render history",
	Long: `Without arguments, list all tracked packages. With a package name,
show that package's render history: every response and acceptance
notice produced, with round and template.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 1 {
			return historyPackageRun(args[0])
		}
		return historyOverviewRun()
	},
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Maximum renders to show")
	rootCmd.AddCommand(historyCmd)
}

func historyOverviewRun() error {
	s, err := getStore()
	if err != nil {
		return err
	}
	ctx := context.Background()

	packages, err := s.ListPackages(ctx)
	if err != nil {
		return err
	}

	if len(packages) == 0 {
		ui.Info("No packages tracked yet. Rendering a response registers the package.")
		return nil
	}

	table := ui.Table([]string{"Package", "Archive record", "Accepted", "Last update"})
	for _, p := range packages {
		accepted := ""
		if p.Accepted {
			accepted = output.Green("yes")
		}
		record := p.ZenodoRecord
		if record == "" {
			record = output.Dim("none")
		}
		table.Append([]string{
			output.Cyan(p.Name),
			record,
			accepted,
			p.UpdatedAt.Format("2006-01-02"),
		})
	}
	table.Render()

	return nil
}

func historyPackageRun(name string) error {
	s, err := getStore()
	if err != nil {
		return err
	}
	ctx := context.Background()

	pkg, err := s.GetPackageByName(ctx, name)
	if err != nil {
		return err
	}

	renders, err := s.ListRenders(ctx, pkg.ID, historyLimit)
	if err != nil {
		return err
	}

	if len(renders) == 0 {
		ui.Info("No renders recorded for %s.", name)
		return nil
	}

	fmt.Fprintf(ui.Out, "Render history for %s:\n\n", output.Cyan(name))
	table := ui.Table([]string{"When", "Round", "Kind", "Template"})
	for _, r := range renders {
		table.Append([]string{
			r.CreatedAt.Format("2006-01-02 15:04"),
			fmt.Sprintf("%d", r.Round),
			string(r.Kind),
			r.TemplateID,
		})
	}
	table.Render()

	return nil
}
