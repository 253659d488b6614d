// Package report defines the reviewer's report record: the structured,
// human-edited findings for one review round of a replication package.
package report

import "fmt"

// Answer is a reviewer's verdict on a single DCAS checklist rule.
type Answer string

const (
	AnswerYes   Answer = "yes"
	AnswerNo    Answer = "no"
	AnswerMaybe Answer = "maybe"
)

// Rule is one Data and Code Availability Standard checklist item.
type Rule struct {
	ID      string `yaml:"id"`
	Text    string `yaml:"text"`
	Answer  Answer `yaml:"answer"`
	Comment string `yaml:"comment"`
}

// Request is an item the author must address. It carries either free
// text or a snippet id, never both.
type Request struct {
	Text    string `yaml:"text"`
	Snippet string `yaml:"snippet"`
}

// Recommendation is a non-blocking improvement suggestion.
type Recommendation struct {
	Text    string `yaml:"text"`
	Snippet string `yaml:"snippet"`
	Comment string `yaml:"comment"`
}

// Metadata holds flags and correspondence fields used by template
// conditionals.
type Metadata struct {
	Round                      int    `yaml:"round"`
	NeedsRestrictedDataProcess bool   `yaml:"needs_restricted_data_process"`
	ConfidentialData           bool   `yaml:"confidential_data"`
	Author                     string `yaml:"author"`
	Salutation                 string `yaml:"salutation"`
	Title                      string `yaml:"title"`
	ManuscriptID               string `yaml:"manuscript_id"`
	Praise                     string `yaml:"praise"`
}

// Record is a validated report. It is created fresh per review round,
// read once per render, and never mutated by the rendering core.
type Record struct {
	Rules           []Rule
	Requests        []Request
	Recommendations []Recommendation
	Metadata        Metadata

	rulesPresent bool
}

// HasRules reports whether the rules section was present in the source
// file at all. An empty-but-present section is distinct from an absent
// one: the renderer rejects the latter.
func (r *Record) HasRules() bool {
	return r.rulesPresent
}

// RuleAnswer returns the answer for a rule id, if that rule exists.
func (r *Record) RuleAnswer(id string) (Answer, bool) {
	for _, rule := range r.Rules {
		if rule.ID == id {
			return rule.Answer, true
		}
	}
	return "", false
}

// Acceptable reports whether the record has no failing rules. Any "no"
// answer marks the package as not yet acceptable.
func (r *Record) Acceptable() bool {
	for _, rule := range r.Rules {
		if rule.Answer == AnswerNo {
			return false
		}
	}
	return true
}

// Status summarizes a record for the status surface.
type Status string

const (
	StatusGood    Status = "good"    // rules present, none answered "no"
	StatusIssues  Status = "issues"  // at least one "no" answer
	StatusUnknown Status = "unknown" // no rules evaluated yet
)

// ReportStatus classifies the record.
func (r *Record) ReportStatus() Status {
	if len(r.Rules) == 0 {
		return StatusUnknown
	}
	if !r.Acceptable() {
		return StatusIssues
	}
	return StatusGood
}

// ValidationError reports a malformed report record. It is surfaced to
// the operator before any rendering attempt; fixing it requires editing
// the source file.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid report: %s: %s", e.Field, e.Reason)
}
