package judge

import (
	"context"
	"fmt"

	"infosources-backend/lib/textutil"

	"go.opentelemetry.io/otel/attribute"
)

// StringJudge decides matches with deterministic name comparison. It is
// the judge of last resort: always available, never errors, and always
// reports high confidence since its answer is reproducible.
type StringJudge struct{}

func (StringJudge) JudgeMatch(ctx context.Context, query SourceInfo, candidate Candidate) (Decision, error) {
	_, span := tracer.Start(ctx, "StringJudge.JudgeMatch")
	defer span.End()

	matched := textutil.MatchNames(query.Name, candidate.Title)
	span.SetAttributes(
		attribute.String("query", query.Name),
		attribute.String("candidate", candidate.Title),
		attribute.Bool("matched", matched),
	)

	return Decision{
		IsMatch:    matched,
		Confidence: ConfidenceHigh,
		Reasoning:  fmt.Sprintf("string comparison of %q and %q", query.Name, candidate.Title),
	}, nil
}
