package cmd

import (
	"github.com/spf13/cobra"
)

var snippetsCmd = &cobra.Command{
	Use:   "snippets",
	Short: "List the snippet library",
	Long: `List the reusable text fragments that report entries can reference
by id instead of repeating canned prose.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return snippetsRun()
	},
}

func init() {
	rootCmd.AddCommand(snippetsCmd)
}

func snippetsRun() error {
	lib, err := loadSnippets()
	if err != nil {
		return err
	}

	if lib.Len() == 0 {
		ui.Info("Snippet library is empty.")
		return nil
	}

	table := ui.Table([]string{"ID", "Text"})
	for _, id := range lib.IDs() {
		text, err := lib.Resolve(id)
		if err != nil {
			continue
		}
		if len(text) > 80 {
			text = text[:77] + "..."
		}
		table.Append([]string{id, text})
	}
	table.Render()

	return nil
}
