package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/restud-replication-packages/restud/internal/report"
)

func TestBuildPraisePrompt(t *testing.T) {
	rec := &report.Record{
		Rules: []report.Rule{
			{ID: "data-1", Text: "All data are provided.", Answer: report.AnswerYes},
			{ID: "code-2", Text: "A master script exists.", Answer: report.AnswerNo},
		},
		Metadata: report.Metadata{Title: "Weather and Growth"},
	}

	system, user := buildPraisePrompt(rec)

	assert.Contains(t, system, "praise")
	assert.Contains(t, system, "replication package")

	assert.Contains(t, user, "Manuscript title: Weather and Growth")
	assert.Contains(t, user, "All data are provided.: yes")
	assert.Contains(t, user, "A master script exists.: no")
}

func TestBuildPraisePrompt_NoTitle(t *testing.T) {
	rec := &report.Record{
		Rules: []report.Rule{
			{ID: "data-1", Text: "Data documented.", Answer: report.AnswerYes},
		},
	}

	_, user := buildPraisePrompt(rec)
	assert.NotContains(t, user, "Manuscript title")
	assert.Contains(t, user, "Checklist results:")
}
