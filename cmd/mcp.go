package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/restud-replication-packages/restud/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP stdio server for assistant integration",
	Long: `Start an MCP (Model Context Protocol) server on stdio.

This lets an assistant query review status and preview correspondence
without touching the working tree. Configure with:

  {
    "mcpServers": {
      "restud": { "command": "restud", "args": ["mcp"] }
    }
  }

Available tools: restud_report_status, restud_render_response,
restud_render_accept, restud_list_snippets`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return mcpRun()
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func mcpRun() error {
	svc, lib, err := newWorkflow()
	if err != nil {
		return err
	}

	srv := mcp.NewServer(svc, lib)
	return srv.ServeStdio(context.Background())
}
