// Package git wraps the read-only git surface the workflow needs:
// branch and tag listing for round tracking, and the current branch for
// status display. All write operations (commit, push, tagging) stay
// with the operator.
package git

import (
	"fmt"
	"os/exec"
	"strings"
)

// Client defines the git operations used by the review workflow.
// All methods take a path parameter so commands can run against any
// package checkout.
type Client interface {
	RepoRoot(path string) (string, error)
	CurrentBranch(path string) (string, error)
	BranchList(path string) ([]string, error)
	TagList(path string) ([]string, error)
	HasTag(path, tag string) (bool, error)
	IsDirty(path string) (bool, error)
}

// RealClient implements Client using real git commands.
type RealClient struct{}

// NewClient returns a new RealClient.
func NewClient() *RealClient {
	return &RealClient{}
}

func gitCmd(path string, args ...string) (string, error) {
	fullArgs := append([]string{"-C", path}, args...)
	out, err := exec.Command("git", fullArgs...).Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return "", fmt.Errorf("git %s: %s", strings.Join(args, " "), strings.TrimSpace(string(exitErr.Stderr)))
		}
		return "", fmt.Errorf("git %s: %w", strings.Join(args, " "), err)
	}
	return strings.TrimSpace(string(out)), nil
}

func splitLines(out string) []string {
	if out == "" {
		return nil
	}
	var lines []string
	for _, line := range strings.Split(out, "\n") {
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

func (c *RealClient) RepoRoot(path string) (string, error) {
	return gitCmd(path, "rev-parse", "--show-toplevel")
}

func (c *RealClient) CurrentBranch(path string) (string, error) {
	return gitCmd(path, "rev-parse", "--abbrev-ref", "HEAD")
}

// BranchList returns local and remote-tracking branch names. Remote
// names keep their "origin/" prefix; the version tracker strips it.
func (c *RealClient) BranchList(path string) ([]string, error) {
	out, err := gitCmd(path, "branch", "--all", "--format=%(refname:short)")
	if err != nil {
		return nil, err
	}
	var branches []string
	for _, line := range splitLines(out) {
		if strings.HasSuffix(line, "/HEAD") {
			continue
		}
		branches = append(branches, line)
	}
	return branches, nil
}

func (c *RealClient) TagList(path string) ([]string, error) {
	out, err := gitCmd(path, "tag", "--list")
	if err != nil {
		return nil, err
	}
	return splitLines(out), nil
}

func (c *RealClient) HasTag(path, tag string) (bool, error) {
	out, err := gitCmd(path, "tag", "--list", tag)
	if err != nil {
		return false, err
	}
	return out == tag, nil
}

func (c *RealClient) IsDirty(path string) (bool, error) {
	out, err := gitCmd(path, "status", "--porcelain")
	if err != nil {
		return false, err
	}
	return out != "", nil
}
