package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/restud-replication-packages/restud/internal/models"
	"github.com/restud-replication-packages/restud/internal/render"
)

var reportOutput string

var reportCmd = &cobra.Command{
	Use:   "report [path]",
	Short: "Render the revision-request response for a package",
	Long: `Render the revision-request correspondence for the package checkout
at the given path (default: current directory).

The template is chosen from the current review round: round 1 uses the
first-contact response, later rounds the follow-up response. A "no"
answer on the restricted-data rule routes to the restricted-data
variant instead. The rendered text is written to response.txt and
recorded in the render history.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "."
		if len(args) == 1 {
			path = args[0]
		}
		return reportRun(path)
	},
}

func init() {
	reportCmd.Flags().StringVarP(&reportOutput, "output", "o", "response.txt", "Output file for the rendered response")
	rootCmd.AddCommand(reportCmd)
}

func reportRun(path string) error {
	svc, _, err := newWorkflow()
	if err != nil {
		return err
	}

	res, err := svc.RenderResponse(path)
	if err != nil {
		return err
	}

	if dryRun {
		ui.DryRunMsg("Would write %s (round %d, template %s)", reportOutput, res.Round, res.Template)
		fmt.Fprintln(ui.Out)
		fmt.Fprint(ui.Out, res.Text)
		return nil
	}

	outPath := filepath.Join(path, reportOutput)
	if err := os.WriteFile(outPath, []byte(res.Text), 0644); err != nil {
		return fmt.Errorf("write response: %w", err)
	}

	recordRender(path, res.Round, models.RenderKindResponse, res.Template, res.Text)

	ui.Success("Response rendered for round %d (template %s): %s", res.Round, res.Template, outPath)
	return nil
}

// recordRender saves a render in the history, registering the package
// on first sight. History is ancillary: failures warn, never abort.
func recordRender(path string, round int, kind models.RenderKind, tmpl render.TemplateID, text string) {
	s, err := getStore()
	if err != nil {
		ui.Warning("Render history unavailable: %v", err)
		return
	}
	ctx := context.Background()

	name := packageName(path)
	pkg, err := s.GetPackageByName(ctx, name)
	if err != nil {
		abs, _ := filepath.Abs(path)
		pkg = &models.Package{Name: name, Path: abs}
		if err := s.CreatePackage(ctx, pkg); err != nil {
			ui.Warning("Could not register package %s: %v", name, err)
			return
		}
	}

	r := &models.Render{
		PackageID:  pkg.ID,
		Round:      round,
		Kind:       kind,
		TemplateID: string(tmpl),
		Output:     text,
	}
	if err := s.CreateRender(ctx, r); err != nil {
		ui.Warning("Could not record render: %v", err)
	}
}

// packageName derives the package name from the checkout directory,
// which matches the repository and manuscript naming convention.
func packageName(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Base(path)
	}
	return filepath.Base(abs)
}
