package report

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Filename is the conventional report file name inside a package repo.
const Filename = "report.yaml"

// rawRecord keeps the list sections as yaml nodes so that "absent",
// "empty sequence", and "wrong type" stay distinguishable during
// validation.
type rawRecord struct {
	Rules           yaml.Node `yaml:"rules"`
	Requests        yaml.Node `yaml:"requests"`
	Recommendations yaml.Node `yaml:"recommendations"`
	Metadata        Metadata  `yaml:"metadata"`
}

// Load reads and validates a report file.
func Load(path string) (*Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read report: %w", err)
	}
	return Validate(data)
}

// Validate parses raw YAML into a Record, enforcing the record schema.
// It is the required precondition for rendering: the renderer only
// accepts records produced here.
func Validate(data []byte) (*Record, error) {
	var raw rawRecord
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, &ValidationError{Field: "report", Reason: err.Error()}
	}

	rec := &Record{Metadata: raw.Metadata}

	if raw.Metadata.Round < 0 {
		return nil, &ValidationError{Field: "metadata.round", Reason: "must not be negative"}
	}

	present, err := decodeSequence(&raw.Rules, "rules", &rec.Rules)
	if err != nil {
		return nil, err
	}
	rec.rulesPresent = present

	if _, err := decodeSequence(&raw.Requests, "requests", &rec.Requests); err != nil {
		return nil, err
	}
	if _, err := decodeSequence(&raw.Recommendations, "recommendations", &rec.Recommendations); err != nil {
		return nil, err
	}

	for i, rule := range rec.Rules {
		switch rule.Answer {
		case AnswerYes, AnswerNo, AnswerMaybe:
		case "":
			return nil, &ValidationError{
				Field:  fmt.Sprintf("rules[%d]", i),
				Reason: "missing answer",
			}
		default:
			return nil, &ValidationError{
				Field:  fmt.Sprintf("rules[%d].answer", i),
				Reason: fmt.Sprintf("%q is not one of yes, no, maybe", rule.Answer),
			}
		}
	}

	for i, req := range rec.Requests {
		if err := checkTextOrSnippet(fmt.Sprintf("requests[%d]", i), req.Text, req.Snippet); err != nil {
			return nil, err
		}
	}
	for i, rc := range rec.Recommendations {
		if err := checkTextOrSnippet(fmt.Sprintf("recommendations[%d]", i), rc.Text, rc.Snippet); err != nil {
			return nil, err
		}
	}

	return rec, nil
}

// decodeSequence decodes a list section into out. Returns whether the
// section was present. A scalar or mapping where a sequence is expected
// is a validation error, not a parse error.
func decodeSequence[T any](node *yaml.Node, field string, out *[]T) (bool, error) {
	switch node.Kind {
	case 0:
		return false, nil // absent
	case yaml.SequenceNode:
		if err := node.Decode(out); err != nil {
			return true, &ValidationError{Field: field, Reason: err.Error()}
		}
		return true, nil
	case yaml.ScalarNode:
		if node.Tag == "!!null" {
			return true, nil // explicit empty section
		}
		return true, &ValidationError{Field: field, Reason: "must be a sequence of objects, not a scalar"}
	default:
		return true, &ValidationError{Field: field, Reason: "must be a sequence of objects"}
	}
}

func checkTextOrSnippet(field, text, snippet string) error {
	if text == "" && snippet == "" {
		return &ValidationError{Field: field, Reason: "needs either text or snippet"}
	}
	if text != "" && snippet != "" {
		return &ValidationError{Field: field, Reason: "text and snippet are mutually exclusive"}
	}
	return nil
}
