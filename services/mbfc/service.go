// Package mbfc scrapes bias, factual-reporting and credibility ratings
// from mediabiasfactcheck.com review pages.
package mbfc

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"infosources-backend/lib/fieldextract"
	"infosources-backend/lib/htmlutil"
	"infosources-backend/lib/textutil"
	"infosources-backend/services/judge"

	"github.com/PuerkitoBio/goquery"
	"github.com/antzucaro/matchr"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("infosources.services.mbfc")

const BaseUrl = "https://mediabiasfactcheck.com/"

// pageMarker distinguishes a review page from the site's 404 page,
// which also returns status 200.
const pageMarker = "Bias Rating:"

var titleSuffixRegex = regexp.MustCompile(`(?i)\s*-\s*Media Bias/Fact Check.*$`)

// Rating holds the three fields a review page carries. Empty fields
// were not present on the page.
type Rating struct {
	Bias        string
	Factual     string
	Credibility string
}

// Columns maps the rating fields to their spreadsheet column names.
func (r Rating) Columns() map[string]string {
	return map[string]string{
		"mbfc_bias":               r.Bias,
		"mbfc_factual":            r.Factual,
		"mbfc_credibility_rating": r.Credibility,
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

// Lookup finds and scrapes the review page for a source. It returns
// ErrNotFound when no review page could be located or validated.
func (s Service) Lookup(ctx context.Context, source judge.SourceInfo) (Rating, error) {
	ctx, span := tracer.Start(ctx, "Lookup")
	defer span.End()
	span.SetAttributes(attribute.String("source", source.Name))

	pageUrl, body, err := s.findPage(ctx, source)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return Rating{}, err
	}
	span.SetAttributes(attribute.String("page", pageUrl))

	rating, err := extractRating(body)
	if err != nil {
		return Rating{}, err
	}
	return rating, nil
}

// ErrNotFound reports that no review page exists for the source. The
// workflow treats it as an outcome, not a failure.
var ErrNotFound = fmt.Errorf("no review page found")

// findPage guesses review URLs from the source name slug and the domain
// slug, in that order. A guess counts when the page carries the review
// marker and its heading passes the match judge.
func (s Service) findPage(ctx context.Context, source judge.SourceInfo) (string, string, error) {
	var slugs []string
	if nameSlug := textutil.Slug(source.Name); nameSlug != "" {
		slugs = append(slugs, nameSlug)
	}
	if domain := textutil.ExtractDomain(source.Url); domain != "" {
		domainSlug := strings.ReplaceAll(domain, ".", "-")
		if len(slugs) == 0 || domainSlug != slugs[0] {
			slugs = append(slugs, domainSlug)
		}
	}

	for _, slug := range slugs {
		pageUrl := s.baseUrl + slug + "/"
		res, err := s.client.R().SetContext(ctx).Get(pageUrl)
		if err != nil {
			continue
		}
		body := res.String()
		if res.StatusCode() != 200 || !strings.Contains(body, pageMarker) {
			continue
		}

		title, err := pageTitle(body)
		if err != nil || title == "" {
			continue
		}
		decision, err := s.judge.JudgeMatch(ctx, source, judge.Candidate{
			Title: title,
			Url:   pageUrl,
		})
		if err != nil {
			return "", "", err
		}
		if decision.IsMatch {
			return pageUrl, body, nil
		}
		slog.DebugContext(ctx, "review page rejected",
			"source", source.Name,
			"page_title", title,
			"similarity", matchr.JaroWinkler(source.Name, title, true),
		)
	}
	return "", "", ErrNotFound
}

// pageTitle pulls the source name out of a review page: the page-title
// heading when present, otherwise the document title with the site
// branding suffix removed.
func pageTitle(body string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return "", err
	}
	title := htmlutil.Heading(doc, "page-title")
	return strings.TrimSpace(titleSuffixRegex.ReplaceAllString(title, "")), nil
}

var ratingLabels = []fieldextract.Label{
	{Key: "bias", Text: "Bias Rating"},
	{Key: "factual", Text: "Factual Reporting"},
	{Key: "credibility", Text: "MBFC Credibility Rating"},
	// some review pages drop the prefix
	{Key: "credibility", Text: "Credibility", Reject: "MBFC"},
}

// extractRating line-scans the page text for the three rating fields
// and strips numeric score parentheticals from the values.
func extractRating(body string) (Rating, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return Rating{}, err
	}
	text := htmlutil.FlattenText(doc.Selection, "\n")
	fields := fieldextract.ScanLines(text, ratingLabels)

	return Rating{
		Bias:        textutil.CleanRating(fields["bias"]),
		Factual:     textutil.CleanRating(fields["factual"]),
		Credibility: textutil.CleanRating(fields["credibility"]),
	}, nil
}
