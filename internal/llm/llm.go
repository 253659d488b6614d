package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/restud-replication-packages/restud/internal/report"
)

// Client wraps the Anthropic API for drafting correspondence text.
type Client struct {
	api   *anthropic.Client
	model anthropic.Model
}

// NewClient creates an LLM client with the given API key and model.
func NewClient(apiKey, model string) *Client {
	opts := []option.RequestOption{}
	if apiKey != "" {
		opts = append(opts, option.WithAPIKey(apiKey))
	}
	client := anthropic.NewClient(opts...)
	return &Client{
		api:   &client,
		model: anthropic.Model(model),
	}
}

// buildPraisePrompt constructs the system and user prompts for drafting
// the optional praise paragraph of a report.
func buildPraisePrompt(rec *report.Record) (system string, user string) {
	system = `You draft a short, sincere "praise" paragraph for a data editor's letter to the authors of an academic replication package. You are given the checklist results of the package review.

Rules:
- One paragraph, 2-3 sentences, plain text only
- Mention concrete strengths visible in the checklist (items answered "yes")
- Never mention failing items, the checklist itself, or the review process
- Professional but warm tone, addressed to the authors ("your package")
- Return the paragraph only, no preamble, no markdown`

	var sb strings.Builder
	if rec.Metadata.Title != "" {
		sb.WriteString("Manuscript title: ")
		sb.WriteString(rec.Metadata.Title)
		sb.WriteString("\n\n")
	}
	sb.WriteString("Checklist results:\n")
	for _, rule := range rec.Rules {
		fmt.Fprintf(&sb, "- %s: %s\n", rule.Text, rule.Answer)
	}
	user = sb.String()
	return
}

// DraftPraise asks the LLM for a praise paragraph based on the rules the
// package passed. The result is a suggestion for the report's praise
// field; the operator edits and saves it by hand.
func (c *Client) DraftPraise(ctx context.Context, rec *report.Record) (string, error) {
	systemPrompt, userPrompt := buildPraisePrompt(rec)

	msg, err := c.api.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     c.model,
		MaxTokens: 1024,
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userPrompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic API call: %w", err)
	}

	var text string
	for _, block := range msg.Content {
		if block.Type == "text" {
			text = block.Text
			break
		}
	}
	if text == "" {
		return "", fmt.Errorf("no text content in API response")
	}

	return strings.TrimSpace(text), nil
}
