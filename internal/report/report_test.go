package report

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_FullRecord(t *testing.T) {
	data := []byte(`
rules:
  - id: data-1
    text: All data are provided.
    answer: yes
  - id: code-2
    text: Code runs from a master script.
    answer: no
    comment: run.sh only covers Tables 1-3
requests:
  - text: Please add the missing scripts.
  - snippet: relative-paths
recommendations:
  - text: Consider adding a Docker file.
    comment: optional
metadata:
  round: 1
  author: The Data Editor
  salutation: Dr. Smith
  title: Economic Growth and Weather
`)

	rec, err := Validate(data)
	require.NoError(t, err)

	assert.True(t, rec.HasRules())
	assert.Len(t, rec.Rules, 2)
	assert.Len(t, rec.Requests, 2)
	assert.Len(t, rec.Recommendations, 1)
	assert.Equal(t, 1, rec.Metadata.Round)
	assert.Equal(t, "Dr. Smith", rec.Metadata.Salutation)

	answer, ok := rec.RuleAnswer("code-2")
	assert.True(t, ok)
	assert.Equal(t, AnswerNo, answer)

	_, ok = rec.RuleAnswer("missing")
	assert.False(t, ok)
}

func TestValidate_BadAnswer(t *testing.T) {
	data := []byte(`
rules:
  - id: data-1
    text: All data are provided.
    answer: maybe-not
`)
	_, err := Validate(data)
	require.Error(t, err)

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "rules[0].answer", vErr.Field)
}

func TestValidate_MissingAnswer(t *testing.T) {
	data := []byte(`
rules:
  - id: data-1
    text: All data are provided.
`)
	_, err := Validate(data)

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "rules[0]", vErr.Field)
}

func TestValidate_ScalarWhereSequenceExpected(t *testing.T) {
	data := []byte(`
rules: all good
`)
	_, err := Validate(data)

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "rules", vErr.Field)
}

func TestValidate_AbsentVersusEmptySections(t *testing.T) {
	// Absent rules section: record loads, but HasRules is false.
	rec, err := Validate([]byte(`
metadata:
  round: 1
`))
	require.NoError(t, err)
	assert.False(t, rec.HasRules())

	// Explicitly empty rules section is present.
	rec, err = Validate([]byte(`
rules:
metadata:
  round: 1
`))
	require.NoError(t, err)
	assert.True(t, rec.HasRules())
	assert.Empty(t, rec.Rules)

	rec, err = Validate([]byte(`
rules: []
`))
	require.NoError(t, err)
	assert.True(t, rec.HasRules())
}

func TestValidate_TextSnippetExclusive(t *testing.T) {
	_, err := Validate([]byte(`
rules: []
requests:
  - text: Please fix paths.
    snippet: relative-paths
`))
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "requests[0]", vErr.Field)

	_, err = Validate([]byte(`
rules: []
recommendations:
  - comment: has neither
`))
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "recommendations[0]", vErr.Field)
}

func TestValidate_NegativeRound(t *testing.T) {
	_, err := Validate([]byte(`
rules: []
metadata:
  round: -1
`))
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "metadata.round", vErr.Field)
}

func TestValidate_MalformedYAML(t *testing.T) {
	_, err := Validate([]byte("rules: [unclosed"))
	var vErr *ValidationError
	assert.ErrorAs(t, err, &vErr)
}

func TestAcceptableAndStatus(t *testing.T) {
	rec := &Record{Rules: []Rule{
		{ID: "a", Answer: AnswerYes},
		{ID: "b", Answer: AnswerMaybe},
	}}
	assert.True(t, rec.Acceptable(), "maybe does not block acceptance")
	assert.Equal(t, StatusGood, rec.ReportStatus())

	rec.Rules = append(rec.Rules, Rule{ID: "c", Answer: AnswerNo})
	assert.False(t, rec.Acceptable())
	assert.Equal(t, StatusIssues, rec.ReportStatus())

	empty := &Record{}
	assert.True(t, empty.Acceptable())
	assert.Equal(t, StatusUnknown, empty.ReportStatus())
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, Filename)
	require.NoError(t, os.WriteFile(path, []byte("rules: []\n"), 0644))

	rec, err := Load(path)
	require.NoError(t, err)
	assert.True(t, rec.HasRules())

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}
