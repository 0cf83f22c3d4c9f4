// Package judge decides whether a source name and a rating-site listing
// refer to the same organization.
package judge

import (
	"context"

	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("infosources.services.judge")

type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// Candidate is a listing found on a rating site.
type Candidate struct {
	// Title is the listing's page title with site branding stripped.
	Title string
	// Url is the listing's page url.
	Url string
}

type Decision struct {
	IsMatch    bool       `json:"is_match"`
	Confidence Confidence `json:"confidence"`
	Reasoning  string     `json:"reasoning"`
}

// Listing is a judge's assessment of whether a site covers a source at
// all, and under what name (without having a candidate page in hand).
type Listing struct {
	HasListing bool       `json:"has_listing"`
	Name       string     `json:"name"`
	Confidence Confidence `json:"confidence"`
	Reasoning  string     `json:"reasoning"`
}

// MatchJudge validates search candidates against the source they were
// found for. SourceInfo carries whatever else the workflow knows about
// the source (its url, mainly).
type MatchJudge interface {
	JudgeMatch(ctx context.Context, query SourceInfo, candidate Candidate) (Decision, error)
}

// ListingSuggester extends a judge with the ability to suggest the name
// a site lists a source under. Judges without background knowledge
// (the string judge) don't implement it.
type ListingSuggester interface {
	SuggestListingOn(ctx context.Context, siteName string, query SourceInfo) (Listing, error)
}

type SourceInfo struct {
	Name string
	Url  string
}
