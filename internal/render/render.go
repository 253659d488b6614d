// Package render turns a validated report record into outgoing
// correspondence text by executing a round-appropriate template.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"text/template"

	"github.com/restud-replication-packages/restud/internal/report"
	"github.com/restud-replication-packages/restud/internal/snippets"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

// TemplateID names one of the correspondence templates.
type TemplateID string

const (
	TemplateResponse1 TemplateID = "response1"       // first-round revision request
	TemplateResponse2 TemplateID = "response2"       // follow-up revision request
	TemplateAccept1   TemplateID = "accept1"         // first-round acceptance
	TemplateAccept2   TemplateID = "accept2"         // follow-up acceptance
	TemplateNeedRP    TemplateID = "response-needrp" // restricted-data process required
)

// TemplateNotFoundError reports an unknown template id. This is a
// configuration error in the surrounding orchestration, not an
// operator mistake.
type TemplateNotFoundError struct {
	ID TemplateID
}

func (e *TemplateNotFoundError) Error() string {
	return fmt.Sprintf("template not found: %s", e.ID)
}

// MissingFieldError reports a required top-level report section that is
// absent. Optional sections never trigger it.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("report is missing required section: %s", e.Field)
}

// item is a numbered correspondence line with an optional parenthetical.
type item struct {
	Number  int
	Text    string
	Comment string
}

// context is the data handed to a template. Everything is resolved
// before execution; templates see final prose only.
type context struct {
	Author           string
	Salutation       string
	Title            string
	ManuscriptID     string
	Praise           string
	Round            int
	ConfidentialData bool
	FailedRules      []item
	Requests         []item
	Recommendations  []item
}

// Renderer executes correspondence templates. Construct once per
// invocation; it holds no state across Render calls.
type Renderer struct {
	tmpl *template.Template
}

func funcMap() template.FuncMap {
	return template.FuncMap{
		"plural": func(n int, singular, plural string) string {
			if n == 1 {
				return singular
			}
			return plural
		},
		"items": formatItems,
	}
}

// formatItems renders a list of items as correspondence lines. A single
// item is written plain; two or more become a numbered list. A comment
// becomes a parenthetical suffix only when non-empty.
func formatItems(list []item) string {
	var b strings.Builder
	for i, it := range list {
		if i > 0 {
			b.WriteString("\n")
		}
		if len(list) > 1 {
			fmt.Fprintf(&b, "%d. ", it.Number)
		}
		b.WriteString(it.Text)
		if it.Comment != "" {
			fmt.Fprintf(&b, " (%s)", it.Comment)
		}
	}
	return b.String()
}

// New returns a Renderer using the built-in templates.
func New() (*Renderer, error) {
	sub, err := fs.Sub(templatesFS, "templates")
	if err != nil {
		return nil, err
	}
	return newFromFS(sub)
}

// NewFromDir returns a Renderer using template files from a directory,
// for installations that maintain their own correspondence wording.
func NewFromDir(dir string) (*Renderer, error) {
	if _, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("templates dir: %w", err)
	}
	return newFromFS(os.DirFS(dir))
}

func newFromFS(fsys fs.FS) (*Renderer, error) {
	tmpl, err := template.New("correspondence").Funcs(funcMap()).ParseFS(fsys, "*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

// Render produces the correspondence text for a template id. The record
// must come from report.Validate. Rendering is all-or-nothing: on any
// error the returned string is empty.
func (r *Renderer) Render(id TemplateID, rec *report.Record, lib *snippets.Library) (string, error) {
	t := r.tmpl.Lookup(string(id) + ".tmpl")
	if t == nil {
		return "", &TemplateNotFoundError{ID: id}
	}

	if !rec.HasRules() {
		return "", &MissingFieldError{Field: "rules"}
	}

	ctx, err := buildContext(rec, lib)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, ctx); err != nil {
		return "", fmt.Errorf("render %s: %w", id, err)
	}
	return buf.String(), nil
}

// buildContext resolves snippet references and collects failing rules.
// Rule comments are looked up in the library opportunistically: a
// comment that happens to be a known snippet id expands, anything else
// stays verbatim. Requests and recommendations reference snippets
// explicitly, so a missing id there is an error.
func buildContext(rec *report.Record, lib *snippets.Library) (*context, error) {
	ctx := &context{
		Author:           rec.Metadata.Author,
		Salutation:       rec.Metadata.Salutation,
		Title:            rec.Metadata.Title,
		ManuscriptID:     rec.Metadata.ManuscriptID,
		Praise:           rec.Metadata.Praise,
		Round:            rec.Metadata.Round,
		ConfidentialData: rec.Metadata.ConfidentialData,
	}

	for _, rule := range rec.Rules {
		if rule.Answer == report.AnswerYes {
			continue
		}
		comment := rule.Comment
		if lib != nil && comment != "" {
			if text, err := lib.Resolve(comment); err == nil {
				comment = text
			}
		}
		ctx.FailedRules = append(ctx.FailedRules, item{
			Number:  len(ctx.FailedRules) + 1,
			Text:    rule.Text,
			Comment: comment,
		})
	}

	for _, req := range rec.Requests {
		text, err := resolveText(req.Text, req.Snippet, lib)
		if err != nil {
			return nil, err
		}
		ctx.Requests = append(ctx.Requests, item{
			Number: len(ctx.Requests) + 1,
			Text:   text,
		})
	}

	for _, rc := range rec.Recommendations {
		text, err := resolveText(rc.Text, rc.Snippet, lib)
		if err != nil {
			return nil, err
		}
		ctx.Recommendations = append(ctx.Recommendations, item{
			Number:  len(ctx.Recommendations) + 1,
			Text:    text,
			Comment: rc.Comment,
		})
	}

	return ctx, nil
}

func resolveText(text, snippet string, lib *snippets.Library) (string, error) {
	if snippet == "" {
		return text, nil
	}
	if lib == nil {
		return "", &snippets.UnknownSnippetError{ID: snippet}
	}
	return lib.Resolve(snippet)
}
