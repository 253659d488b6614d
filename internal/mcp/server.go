package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/restud-replication-packages/restud/internal/snippets"
	"github.com/restud-replication-packages/restud/internal/workflow"
)

// Server exposes the review workflow as MCP tools, so an assistant can
// inspect report status and preview correspondence. All tools are
// read-only: nothing is written to disk or committed.
type Server struct {
	svc *workflow.Service
	lib *snippets.Library
}

// NewServer creates the MCP server wrapper.
func NewServer(svc *workflow.Service, lib *snippets.Library) *Server {
	return &Server{svc: svc, lib: lib}
}

// MCPServer returns a configured mcp-go server with all tools registered.
func (s *Server) MCPServer() *server.MCPServer {
	srv := server.NewMCPServer("restud", "1.0.0", server.WithToolCapabilities(true))

	srv.AddTool(s.reportStatusTool())
	srv.AddTool(s.renderResponseTool())
	srv.AddTool(s.renderAcceptTool())
	srv.AddTool(s.listSnippetsTool())

	return srv
}

// ServeStdio starts the stdio transport, blocking until ctx is cancelled.
func (s *Server) ServeStdio(ctx context.Context) error {
	srv := s.MCPServer()
	stdioServer := server.NewStdioServer(srv)
	return stdioServer.Listen(ctx, os.Stdin, os.Stdout)
}

// ---------------------------------------------------------------------------
// Tool definitions and handlers
// ---------------------------------------------------------------------------

// restud_report_status
func (s *Server) reportStatusTool() (mcp.Tool, server.ToolHandlerFunc) {
	tool := mcp.NewTool("restud_report_status",
		mcp.WithDescription("Get review status for a replication package checkout: current round, report status (good/issues/unknown), current branch, and whether the package is accepted."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Path to the package checkout")),
	)
	return tool, s.handleReportStatus
}

func (s *Server) handleReportStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: path"), nil
	}

	st, err := s.svc.PackageStatus(path)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("package status: %v", err)), nil
	}

	out := struct {
		Round        int    `json:"round"`
		ReportStatus string `json:"report_status"`
		Branch       string `json:"branch"`
		Accepted     bool   `json:"accepted"`
	}{
		Round:        st.Round,
		ReportStatus: string(st.ReportStatus),
		Branch:       st.Branch,
		Accepted:     st.Accepted,
	}

	data, err := json.Marshal(out)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("marshal status: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// restud_render_response
func (s *Server) renderResponseTool() (mcp.Tool, server.ToolHandlerFunc) {
	tool := mcp.NewTool("restud_render_response",
		mcp.WithDescription("Render the revision-request correspondence for a package checkout and return the text. Does not write any file."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Path to the package checkout")),
	)
	return tool, s.handleRenderResponse
}

func (s *Server) handleRenderResponse(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: path"), nil
	}

	res, err := s.svc.RenderResponse(path)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("render response: %v", err)), nil
	}
	return mcp.NewToolResultText(res.Text), nil
}

// restud_render_accept
func (s *Server) renderAcceptTool() (mcp.Tool, server.ToolHandlerFunc) {
	tool := mcp.NewTool("restud_render_accept",
		mcp.WithDescription("Render the acceptance correspondence for a package checkout and return the text. Fails if the report still has failing rules. Does not write any file."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Path to the package checkout")),
	)
	return tool, s.handleRenderAccept
}

func (s *Server) handleRenderAccept(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: path"), nil
	}

	res, err := s.svc.RenderAccept(path)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("render accept: %v", err)), nil
	}
	return mcp.NewToolResultText(res.Text), nil
}

// restud_list_snippets
func (s *Server) listSnippetsTool() (mcp.Tool, server.ToolHandlerFunc) {
	tool := mcp.NewTool("restud_list_snippets",
		mcp.WithDescription("List the snippet library: reusable text fragments that report entries can reference by id."),
	)
	return tool, s.handleListSnippets
}

func (s *Server) handleListSnippets(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	out := make(map[string]string, s.lib.Len())
	for _, id := range s.lib.IDs() {
		text, err := s.lib.Resolve(id)
		if err != nil {
			continue
		}
		out[id] = text
	}

	data, err := json.Marshal(out)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("marshal snippets: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
