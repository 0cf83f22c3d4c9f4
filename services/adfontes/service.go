// Package adfontes scrapes bias and reliability ratings from
// adfontesmedia.com review pages.
package adfontes

import (
	"context"
	"fmt"

	"infosources-backend/services/judge"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("infosources.services.adfontes")

const (
	BaseUrl  = "https://adfontesmedia.com"
	SiteName = "Ad Fontes Media"

	// pageMarker appears on every review page directly above the
	// numeric scores; structural pages never carry it.
	pageMarker = "Overall Score"
)

// Rating holds the four fields a review page carries: categorical
// labels plus numeric scores. Bias scores are signed (negative = left
// of center); reliability scores are 0-64. Empty fields were not
// present on the page.
type Rating struct {
	BiasLabel        string
	ReliabilityLabel string
	BiasScore        string
	ReliabilityScore string
}

// Columns maps the rating fields to their spreadsheet column names.
func (r Rating) Columns() map[string]string {
	return map[string]string{
		"adfontes_bias_label":        r.BiasLabel,
		"adfontes_reliability_label": r.ReliabilityLabel,
		"adfontes_bias_score":        r.BiasScore,
		"adfontes_reliability_score": r.ReliabilityScore,
	}
}

type Service struct {
	client  *resty.Client
	judge   judge.MatchJudge
	baseUrl string
}

func NewService(client *resty.Client, matchJudge judge.MatchJudge) Service {
	return Service{
		client:  client,
		judge:   matchJudge,
		baseUrl: BaseUrl,
	}
}

// ErrNotFound reports that no review page exists for the source. The
// workflow treats it as an outcome, not a failure.
var ErrNotFound = fmt.Errorf("no review page found")

// Lookup finds and scrapes the review page for a source. When the
// direct search fails and the judge can suggest listings, the search is
// retried once under the name the judge believes the site uses.
// Returns ErrNotFound when neither phase locates a validated page.
func (s Service) Lookup(ctx context.Context, source judge.SourceInfo) (Rating, error) {
	ctx, span := tracer.Start(ctx, "Lookup")
	defer span.End()
	span.SetAttributes(attribute.String("source", source.Name))

	pageUrl, body, err := s.search(ctx, source.Name, source)
	if err == ErrNotFound {
		pageUrl, body, err = s.retryWithSuggestedName(ctx, source)
	}
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return Rating{}, err
	}
	span.SetAttributes(attribute.String("page", pageUrl))

	return extractRating(body)
}

func (s Service) retryWithSuggestedName(ctx context.Context, source judge.SourceInfo) (string, string, error) {
	suggester, ok := s.judge.(judge.ListingSuggester)
	if !ok {
		return "", "", ErrNotFound
	}

	listing, err := suggester.SuggestListingOn(ctx, SiteName, source)
	if err != nil || !listing.HasListing {
		return "", "", ErrNotFound
	}
	if listing.Name == "" || listing.Name == source.Name {
		return "", "", ErrNotFound
	}
	return s.search(ctx, listing.Name, source)
}
