package judge

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/stretchr/testify/require"
)

func TestStringJudge(t *testing.T) {
	j := StringJudge{}
	ctx := context.Background()

	for _, tt := range []struct {
		name      string
		candidate string
		matched   bool
	}{
		{"Reuters", "Reuters", true},
		{"The Daily Signal", "Daily Signal", true},
		{"NBC", "NBC News", false},
		{"Unite America", "Unite America First", false},
	} {
		decision, err := j.JudgeMatch(ctx, SourceInfo{Name: tt.name}, Candidate{Title: tt.candidate})
		require.NoError(t, err)
		require.Equal(t, tt.matched, decision.IsMatch, "%q vs %q", tt.name, tt.candidate)
		require.Equal(t, ConfidenceHigh, decision.Confidence)
	}
}

func TestDecodeModelJSON(t *testing.T) {
	var decision Decision
	err := decodeModelJSON("```json\n{\"is_match\": true, \"confidence\": \"high\", \"reasoning\": \"same org\"}\n```", &decision)
	require.NoError(t, err)
	require.True(t, decision.IsMatch)
	require.Equal(t, ConfidenceHigh, decision.Confidence)

	// trailing comma gets repaired rather than rejected
	var listing Listing
	err = decodeModelJSON(`{"has_listing": true, "name": "The Dispatch", "confidence": "medium",}`, &listing)
	require.NoError(t, err)
	require.True(t, listing.HasListing)
	require.Equal(t, "The Dispatch", listing.Name)
}

func TestLLMJudgeFallsBackOnError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	j := NewLLMJudge("test-key", "gpt-4o-mini")
	j.client = openai.NewClient(
		option.WithAPIKey("test-key"),
		option.WithBaseURL(server.URL),
		option.WithMaxRetries(0),
	)

	decision, err := j.JudgeMatch(context.Background(),
		SourceInfo{Name: "Reuters"}, Candidate{Title: "Reuters"})
	require.NoError(t, err)
	require.True(t, decision.IsMatch)
	require.Equal(t, ConfidenceHigh, decision.Confidence)
}

func TestLLMJudgeFallsBackOnLowConfidence(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"choices": [{"message": {
				"role": "assistant",
				"content": "{\"is_match\": true, \"confidence\": \"low\", \"reasoning\": \"unsure\"}"
			}}]
		}`))
	}))
	defer server.Close()

	j := NewLLMJudge("test-key", "gpt-4o-mini")
	j.client = openai.NewClient(
		option.WithAPIKey("test-key"),
		option.WithBaseURL(server.URL),
		option.WithMaxRetries(0),
	)

	// model said match at low confidence; string comparison disagrees
	// and should win
	decision, err := j.JudgeMatch(context.Background(),
		SourceInfo{Name: "NBC"}, Candidate{Title: "NBC News"})
	require.NoError(t, err)
	require.False(t, decision.IsMatch)
}
