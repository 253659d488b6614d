package mcp

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	mcpgo "github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/restud-replication-packages/restud/internal/render"
	"github.com/restud-replication-packages/restud/internal/report"
	"github.com/restud-replication-packages/restud/internal/snippets"
	"github.com/restud-replication-packages/restud/internal/workflow"
)

// fakeGit is a canned-response git client.
type fakeGit struct {
	branches []string
	branch   string
	tags     []string
}

func (f *fakeGit) RepoRoot(path string) (string, error)      { return path, nil }
func (f *fakeGit) CurrentBranch(path string) (string, error) { return f.branch, nil }
func (f *fakeGit) BranchList(path string) ([]string, error)  { return f.branches, nil }
func (f *fakeGit) TagList(path string) ([]string, error)     { return f.tags, nil }
func (f *fakeGit) IsDirty(path string) (bool, error)         { return false, nil }

func (f *fakeGit) HasTag(path, tag string) (bool, error) {
	for _, t := range f.tags {
		if t == tag {
			return true, nil
		}
	}
	return false, nil
}

func newTestServer(t *testing.T, g *fakeGit, lib *snippets.Library) *Server {
	t.Helper()
	r, err := render.New()
	require.NoError(t, err)
	return NewServer(workflow.NewService(g, r, lib), lib)
}

// callToolReq builds a mcpgo.CallToolRequest with the given name and arguments.
func callToolReq(name string, args map[string]any) mcpgo.CallToolRequest {
	return mcpgo.CallToolRequest{
		Params: mcpgo.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
}

// resultText extracts the concatenated text from a CallToolResult.
func resultText(t *testing.T, result *mcpgo.CallToolResult) string {
	t.Helper()
	var b strings.Builder
	for _, c := range result.Content {
		tc, ok := c.(mcpgo.TextContent)
		if ok {
			b.WriteString(tc.Text)
		}
	}
	return b.String()
}

func writeReport(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, report.Filename), []byte(content), 0644))
}

func TestReportStatusTool(t *testing.T) {
	dir := t.TempDir()
	writeReport(t, dir, `
rules:
  - {id: data-1, text: Data documented., answer: yes}
`)

	g := &fakeGit{branches: []string{"main", "version1"}, branch: "version1"}
	srv := newTestServer(t, g, snippets.New(nil))

	result, err := srv.handleReportStatus(context.Background(), callToolReq("restud_report_status", map[string]any{"path": dir}))
	require.NoError(t, err)
	assert.False(t, result.IsError)

	var out struct {
		Round        int    `json:"round"`
		ReportStatus string `json:"report_status"`
		Branch       string `json:"branch"`
		Accepted     bool   `json:"accepted"`
	}
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &out))
	assert.Equal(t, 1, out.Round)
	assert.Equal(t, "good", out.ReportStatus)
	assert.Equal(t, "version1", out.Branch)
	assert.False(t, out.Accepted)
}

func TestReportStatusTool_MissingPath(t *testing.T) {
	srv := newTestServer(t, &fakeGit{}, snippets.New(nil))

	result, err := srv.handleReportStatus(context.Background(), callToolReq("restud_report_status", nil))
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestRenderResponseTool(t *testing.T) {
	dir := t.TempDir()
	writeReport(t, dir, `
rules:
  - {id: data-1, text: Data missing., answer: no}
metadata: {salutation: Dr. Smith, title: T, author: A}
`)

	srv := newTestServer(t, &fakeGit{branches: []string{"version1"}}, snippets.New(nil))

	result, err := srv.handleRenderResponse(context.Background(), callToolReq("restud_render_response", map[string]any{"path": dir}))
	require.NoError(t, err)
	assert.False(t, result.IsError)
	assert.Contains(t, resultText(t, result), "Dear Dr. Smith,")
}

func TestRenderAcceptTool_FailingRules(t *testing.T) {
	dir := t.TempDir()
	writeReport(t, dir, `
rules:
  - {id: data-1, text: Data missing., answer: no}
metadata: {salutation: S, title: T, author: A}
`)

	srv := newTestServer(t, &fakeGit{branches: []string{"version1"}}, snippets.New(nil))

	result, err := srv.handleRenderAccept(context.Background(), callToolReq("restud_render_accept", map[string]any{"path": dir}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestListSnippetsTool(t *testing.T) {
	lib := snippets.New(map[string]string{
		"set-seed": "Please set the seed.",
	})
	srv := newTestServer(t, &fakeGit{}, lib)

	result, err := srv.handleListSnippets(context.Background(), callToolReq("restud_list_snippets", nil))
	require.NoError(t, err)
	assert.False(t, result.IsError)

	var out map[string]string
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &out))
	assert.Equal(t, "Please set the seed.", out["set-seed"])
}

func TestMCPServerRegistersTools(t *testing.T) {
	srv := newTestServer(t, &fakeGit{}, snippets.New(nil))
	assert.NotNil(t, srv.MCPServer())
}
