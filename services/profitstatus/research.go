package profitstatus

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"infosources-backend/services/judge"

	"github.com/kaptinlin/jsonrepair"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var tracer = otel.Tracer("infosources.services.profitstatus")

const (
	maxAttempts = 3
	// progress is flushed to disk every batchSize sources
	batchSize = 50
)

// Finding is the model's answer for one source.
type Finding struct {
	ProfitStatus Status `json:"profit_status"`
	Confidence   string `json:"confidence"`
	Reasoning    string `json:"brief_reasoning"`
}

type Researcher struct {
	client openai.Client
	model  openai.ChatModel
}

func NewResearcher(apiKey, model string) *Researcher {
	return &Researcher{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		model:  openai.ChatModel(model),
	}
}

const researchPromptTemplate = `Research the organization %q (%s) and determine its profit status.

Respond ONLY with a valid JSON object in this EXACT format with NO other text:
{
  "profit_status": "one of: non-profit, for-profit, government, mixed, or unknown",
  "confidence": "high, medium, or low",
  "brief_reasoning": "one sentence explanation"
}

DO NOT include any text outside the JSON. DO NOT use markdown code blocks.`

// ResearchSource asks the model about one source, retrying up to three
// times. Exhausted retries yield StatusUnknown rather than an error so
// a long run never dies on one stubborn source.
func (r *Researcher) ResearchSource(ctx context.Context, source judge.SourceInfo) Finding {
	ctx, span := tracer.Start(ctx, "ResearchSource")
	defer span.End()
	span.SetAttributes(attribute.String("source", source.Name))

	prompt := fmt.Sprintf(researchPromptTemplate, source.Name, source.Url)

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(2 * time.Second):
			case <-ctx.Done():
				return unknownFinding(ctx.Err())
			}
		}

		finding, err := r.ask(ctx, prompt)
		if err == nil {
			span.SetAttributes(attribute.String("status", string(finding.ProfitStatus)))
			return finding
		}
		lastErr = err
		slog.WarnContext(ctx, "research attempt failed",
			"source", source.Name, "attempt", attempt+1, "err", err)
	}
	span.RecordError(lastErr)
	return unknownFinding(lastErr)
}

func unknownFinding(err error) Finding {
	return Finding{
		ProfitStatus: StatusUnknown,
		Confidence:   "low",
		Reasoning:    fmt.Sprintf("research failed: %v", err),
	}
}

func (r *Researcher) ask(ctx context.Context, prompt string) (Finding, error) {
	resp, err := r.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Model: r.model,
	})
	if err != nil {
		return Finding{}, err
	}
	if len(resp.Choices) == 0 {
		return Finding{}, fmt.Errorf("chat completion returned no choices")
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	content = strings.ReplaceAll(content, "```json", "")
	content = strings.ReplaceAll(content, "```", "")

	repaired, err := jsonrepair.JSONRepair(strings.TrimSpace(content))
	if err != nil {
		return Finding{}, fmt.Errorf("repair model json: %w", err)
	}
	var finding Finding
	if err := json.Unmarshal([]byte(repaired), &finding); err != nil {
		return Finding{}, fmt.Errorf("parse model json: %w", err)
	}
	if finding.ProfitStatus == "" {
		finding.ProfitStatus = StatusUnknown
	}
	return finding, nil
}

// Progress maps source keys to completed findings so an interrupted
// research run can resume where it stopped.
type Progress map[string]Finding

func LoadProgress(path string) (Progress, error) {
	contents, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Progress{}, nil
	}
	if err != nil {
		return nil, err
	}
	var progress Progress
	if err := json.Unmarshal(contents, &progress); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return progress, nil
}

func (p Progress) Save(path string) error {
	contents, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, contents, 0644)
}

// ResearchAll fills in the profit_status, confidence, and reasoning
// keys of every record that lacks a conclusive status, saving progress
// every batch and on completion. Records already present in the
// progress file are reused without another model call.
func (r *Researcher) ResearchAll(ctx context.Context, records []map[string]string, progressPath string) error {
	progress, err := LoadProgress(progressPath)
	if err != nil {
		return err
	}

	processed := 0
	for _, record := range records {
		if err := ctx.Err(); err != nil {
			return err
		}

		name := record["name"]
		url := record["url"]
		if name == "" {
			continue
		}
		if status := Status(record["profit_status"]); status != "" && status != StatusUnknown {
			continue
		}

		key := name + "|" + url
		finding, done := progress[key]
		if !done {
			finding = r.ResearchSource(ctx, judge.SourceInfo{Name: name, Url: url})
			progress[key] = finding
			processed++
		}

		record["profit_status"] = string(finding.ProfitStatus)
		record["profit_confidence"] = finding.Confidence
		record["profit_reasoning"] = finding.Reasoning

		if processed > 0 && processed%batchSize == 0 {
			if err := progress.Save(progressPath); err != nil {
				slog.WarnContext(ctx, "progress save failed", "err", err)
			}
		}
	}
	return progress.Save(progressPath)
}
