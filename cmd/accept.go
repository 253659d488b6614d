package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/restud-replication-packages/restud/internal/models"
	"github.com/restud-replication-packages/restud/internal/zenodo"
)

var acceptOutput string

var acceptCmd = &cobra.Command{
	Use:   "accept [path]",
	Short: "Render the acceptance notice for a package",
	Long: `Render the acceptance correspondence for the package checkout at the
given path (default: current directory).

Acceptance requires a report with no rules answered "no". The rendered
text is written to accept.txt, recorded in the render history, and the
package's archive-community membership is checked afterwards.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "."
		if len(args) == 1 {
			path = args[0]
		}
		return acceptRun(path)
	},
}

func init() {
	acceptCmd.Flags().StringVarP(&acceptOutput, "output", "o", "accept.txt", "Output file for the rendered acceptance")
	rootCmd.AddCommand(acceptCmd)
}

func acceptRun(path string) error {
	svc, _, err := newWorkflow()
	if err != nil {
		return err
	}

	res, err := svc.RenderAccept(path)
	if err != nil {
		return err
	}

	if dryRun {
		ui.DryRunMsg("Would write %s (round %d, template %s)", acceptOutput, res.Round, res.Template)
		fmt.Fprintln(ui.Out)
		fmt.Fprint(ui.Out, res.Text)
		return nil
	}

	outPath := filepath.Join(path, acceptOutput)
	if err := os.WriteFile(outPath, []byte(res.Text), 0644); err != nil {
		return fmt.Errorf("write acceptance: %w", err)
	}

	recordRender(path, res.Round, models.RenderKindAccept, res.Template, res.Text)

	ui.Success("Acceptance rendered for round %d (template %s): %s", res.Round, res.Template, outPath)
	ui.Info("Remember to commit %s and tag the release as accepted.", acceptOutput)

	// Acceptance is the trigger point for the community-membership
	// check; a failed check only warns, the acceptance text stands.
	checkCommunity(path)
	return nil
}

// checkCommunity verifies that the package's archive record belongs to
// the journal's community.
func checkCommunity(path string) {
	data, err := os.ReadFile(filepath.Join(path, zenodo.RecordFile))
	if err != nil {
		ui.Warning("No %s file; skipping community check", zenodo.RecordFile)
		return
	}

	recordID, err := zenodo.ExtractRecordID(strings.TrimSpace(string(data)))
	if err != nil {
		ui.Warning("Community check skipped: %v", err)
		return
	}

	client := zenodo.NewClient(viper.GetString("zenodo.base_url"))
	community := viper.GetString("zenodo.community")

	member, err := client.InCommunity(context.Background(), recordID, community)
	if err != nil {
		ui.Warning("Community check failed: %v", err)
		return
	}

	if member {
		ui.Success("Record %s is part of the %s community", recordID, community)
	} else {
		ui.Warning("Record %s is NOT part of the %s community; accept it on the archive service", recordID, community)
	}
}
