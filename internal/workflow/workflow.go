// Package workflow composes the render pipeline: load and validate the
// report, determine the current round from git markers, select the
// template, and render. One linear pass per invocation, no state kept
// between calls.
package workflow

import (
	"fmt"
	"path/filepath"

	"github.com/restud-replication-packages/restud/internal/git"
	"github.com/restud-replication-packages/restud/internal/render"
	"github.com/restud-replication-packages/restud/internal/report"
	"github.com/restud-replication-packages/restud/internal/snippets"
	"github.com/restud-replication-packages/restud/internal/version"
)

// RestrictedDataRule is the checklist rule whose "no" answer routes the
// response to the restricted-data template regardless of round.
const RestrictedDataRule = "data-0"

// Service renders correspondence for a package checkout.
type Service struct {
	git      git.Client
	renderer *render.Renderer
	lib      *snippets.Library
}

// NewService creates a workflow service with the given collaborators.
func NewService(gc git.Client, r *render.Renderer, lib *snippets.Library) *Service {
	return &Service{git: gc, renderer: r, lib: lib}
}

// Result holds one successful render.
type Result struct {
	Text     string
	Round    int
	Template render.TemplateID
	Record   *report.Record
}

// currentRound derives the round from the package's branch markers and
// cross-checks it against the report's own round field. The report is
// wrong, not the branches: a mismatch is surfaced, never corrected.
func (s *Service) currentRound(path string, rec *report.Record) (int, error) {
	branches, err := s.git.BranchList(path)
	if err != nil {
		return 0, fmt.Errorf("list branches: %w", err)
	}
	round, err := version.RequireCurrentRound(branches)
	if err != nil {
		return 0, err
	}
	if rec.Metadata.Round != 0 && rec.Metadata.Round != round {
		return 0, fmt.Errorf("report says round %d but package is on round %d; fix metadata.round in %s",
			rec.Metadata.Round, round, report.Filename)
	}
	return round, nil
}

func (s *Service) load(path string) (*report.Record, error) {
	return report.Load(filepath.Join(path, report.Filename))
}

// RenderResponse renders the revision-request correspondence for the
// package at path. A "no" on the restricted-data rule (or the explicit
// metadata flag) overrides round-based selection with the
// restricted-data template.
func (s *Service) RenderResponse(path string) (*Result, error) {
	rec, err := s.load(path)
	if err != nil {
		return nil, err
	}

	round, err := s.currentRound(path, rec)
	if err != nil {
		return nil, err
	}

	var id render.TemplateID
	answer, _ := rec.RuleAnswer(RestrictedDataRule)
	if answer == report.AnswerNo || rec.Metadata.NeedsRestrictedDataProcess {
		id = render.TemplateNeedRP
	} else {
		id, err = version.SelectTemplate(version.ActionResponse, round)
		if err != nil {
			return nil, err
		}
	}

	text, err := s.renderer.Render(id, rec, s.lib)
	if err != nil {
		return nil, err
	}

	return &Result{Text: text, Round: round, Template: id, Record: rec}, nil
}

// RenderAccept renders the acceptance notice. A record with failing
// rules cannot be accepted.
func (s *Service) RenderAccept(path string) (*Result, error) {
	rec, err := s.load(path)
	if err != nil {
		return nil, err
	}

	if !rec.Acceptable() {
		return nil, fmt.Errorf("report has rules answered \"no\"; resolve them before accepting")
	}

	round, err := s.currentRound(path, rec)
	if err != nil {
		return nil, err
	}

	id, err := version.SelectTemplate(version.ActionAccept, round)
	if err != nil {
		return nil, err
	}

	text, err := s.renderer.Render(id, rec, s.lib)
	if err != nil {
		return nil, err
	}

	return &Result{Text: text, Round: round, Template: id, Record: rec}, nil
}

// Status gathers the package's review state for the status surface.
type Status struct {
	Round        int
	ReportStatus report.Status
	Accepted     bool
	Branch       string
}

// PackageStatus inspects the checkout at path. A missing or invalid
// report is not fatal here; status reports what it can see.
func (s *Service) PackageStatus(path string) (*Status, error) {
	branches, err := s.git.BranchList(path)
	if err != nil {
		return nil, fmt.Errorf("list branches: %w", err)
	}

	st := &Status{
		Round:        version.CurrentRound(branches),
		ReportStatus: report.StatusUnknown,
	}

	if branch, err := s.git.CurrentBranch(path); err == nil {
		st.Branch = branch
	}
	if accepted, err := s.git.HasTag(path, "accepted"); err == nil {
		st.Accepted = accepted
	}
	if rec, err := s.load(path); err == nil {
		st.ReportStatus = rec.ReportStatus()
	}

	return st, nil
}
