package judge

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/kaptinlin/jsonrepair"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"go.opentelemetry.io/otel/attribute"
)

// LLMJudge asks a chat model whether two names refer to the same
// organization. It handles the cases string comparison can't: acronyms,
// alternate names, and near-miss distinct organizations. Any error or a
// low-confidence answer falls back to the string judge, so a flaky or
// uncertain model can only ever make results better.
type LLMJudge struct {
	client   openai.Client
	model    openai.ChatModel
	fallback StringJudge
}

func NewLLMJudge(apiKey, model string) *LLMJudge {
	return &LLMJudge{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		model:  openai.ChatModel(model),
	}
}

const judgePromptTemplate = `Determine if these refer to the SAME organization:

Source A:
- Name: %q
- URL: %s

Source B:
- Listing title: %q
- Listing URL: %s

Rules:
- Acronyms may match full names (e.g., "OCCRP" = "Organized Crime and Corruption Reporting Project")
- Common names may match official names (e.g., "Crisis Group" = "International Crisis Group")
- Very similar but distinct organizations are NOT matches (e.g., "Unite America" is not "Unite America First")
- A parent organization is NOT its subsidiary (e.g., "NBC" is not "NBC News")

Respond with ONLY a JSON object, no markdown, no extra text:
{
  "is_match": true or false,
  "confidence": "high", "medium", or "low",
  "reasoning": "one-sentence explanation"
}`

func (j *LLMJudge) JudgeMatch(ctx context.Context, query SourceInfo, candidate Candidate) (Decision, error) {
	ctx, span := tracer.Start(ctx, "LLMJudge.JudgeMatch")
	defer span.End()

	span.SetAttributes(
		attribute.String("query", query.Name),
		attribute.String("candidate", candidate.Title),
	)

	prompt := fmt.Sprintf(
		judgePromptTemplate,
		query.Name, query.Url,
		candidate.Title, candidate.Url,
	)

	var decision Decision
	err := j.complete(ctx, prompt, &decision)
	if err != nil {
		slog.WarnContext(ctx, "llm judge failed, falling back to string matching",
			"query", query.Name, "err", err)
		span.RecordError(err)
		return j.fallback.JudgeMatch(ctx, query, candidate)
	}
	if decision.Confidence != ConfidenceHigh && decision.Confidence != ConfidenceMedium {
		slog.DebugContext(ctx, "llm judge uncertain, falling back to string matching",
			"query", query.Name, "reasoning", decision.Reasoning)
		return j.fallback.JudgeMatch(ctx, query, candidate)
	}

	span.SetAttributes(attribute.Bool("matched", decision.IsMatch))
	return decision, nil
}

const listingPromptTemplate = `You are an expert on %s, which rates news and media sources.

Source to look up:
- Name: %q
- Domain: %s

Based on your knowledge:
1. Does %s likely have a rating page for this source?
2. If yes, what exact name does it use for the source?
3. What is your confidence?

Respond ONLY with valid JSON, no markdown code blocks:
{
  "has_listing": true or false,
  "name": "exact name the site uses" or null,
  "confidence": "high", "medium", or "low",
  "reasoning": "brief explanation"
}`

// SuggestListing asks the model whether siteName covers the source and
// under what exact name. Unlike JudgeMatch there is no deterministic
// fallback; callers treat an error as "no suggestion".
func (j *LLMJudge) SuggestListingOn(ctx context.Context, siteName string, query SourceInfo) (Listing, error) {
	ctx, span := tracer.Start(ctx, "LLMJudge.SuggestListing")
	defer span.End()

	prompt := fmt.Sprintf(
		listingPromptTemplate,
		siteName,
		query.Name, query.Url,
		siteName,
	)

	var listing Listing
	if err := j.complete(ctx, prompt, &listing); err != nil {
		span.RecordError(err)
		return Listing{}, err
	}
	return listing, nil
}

func (j *LLMJudge) complete(ctx context.Context, prompt string, out any) error {
	resp, err := j.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Model: j.model,
	})
	if err != nil {
		return err
	}
	if len(resp.Choices) == 0 {
		return fmt.Errorf("chat completion returned no choices")
	}
	return decodeModelJSON(resp.Choices[0].Message.Content, out)
}

// decodeModelJSON parses a model reply that is supposed to be bare
// JSON, tolerating markdown fences and minor syntax damage.
func decodeModelJSON(content string, out any) error {
	content = strings.TrimSpace(content)
	content = strings.ReplaceAll(content, "```json", "")
	content = strings.ReplaceAll(content, "```", "")
	content = strings.TrimSpace(content)

	repaired, err := jsonrepair.JSONRepair(content)
	if err != nil {
		return fmt.Errorf("repair model json: %w", err)
	}
	if err := json.Unmarshal([]byte(repaired), out); err != nil {
		return fmt.Errorf("parse model json: %w", err)
	}
	return nil
}
