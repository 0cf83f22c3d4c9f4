package adfontes

import (
	"context"
	"log/slog"
	"net/url"
	"regexp"
	"strings"

	"infosources-backend/lib/htmlutil"
	"infosources-backend/lib/textutil"
	"infosources-backend/services/judge"

	"github.com/PuerkitoBio/goquery"
	"github.com/antzucaro/matchr"
)

// maxCandidates caps how many search hits get fetched and validated
// per term.
const maxCandidates = 5

// reviewUrlSlug is the path fragment every source review page shares.
const reviewUrlSlug = "bias-and-reliability"

// structural pages that contain the review slug without being reviews
var excludedPathPatterns = []string{
	"/category/",
	"/about/",
	"/tag/",
	"/author/",
	"/page/",
	"/wp-content/",
	"/wp-admin/",
	"/contact/",
	"/search/",
	"/interactive-media-bias-chart/",
}

// IsReviewUrl reports whether a URL points at a source review page
// rather than a category, blog, or other structural page.
func IsReviewUrl(rawurl string) bool {
	lower := strings.ToLower(rawurl)
	if !strings.Contains(lower, "adfontesmedia.com") {
		return false
	}
	if !strings.Contains(lower, reviewUrlSlug) {
		return false
	}
	for _, pattern := range excludedPathPatterns {
		if strings.Contains(lower, pattern) {
			return false
		}
	}
	return true
}

// search runs the WordPress site search for each term derived from
// name, fetching and validating candidate review pages until one passes
// the match judge. Candidates are judged against the name being
// searched, so a suggested alternate name is validated as itself.
func (s Service) search(ctx context.Context, name string, source judge.SourceInfo) (string, string, error) {
	query := judge.SourceInfo{Name: name, Url: source.Url}
	for _, term := range textutil.SearchTerms(name, source.Url) {
		res, err := s.client.R().
			SetContext(ctx).
			Get(s.baseUrl + "/?s=" + url.QueryEscape(term))
		if err != nil || res.StatusCode() != 200 {
			continue
		}

		candidates := parseSearchResults(ctx, res.String())
		if len(candidates) > maxCandidates {
			candidates = candidates[:maxCandidates]
		}

		for _, candidateUrl := range candidates {
			pageUrl, body, ok := s.validateCandidate(ctx, query, candidateUrl)
			if ok {
				return pageUrl, body, nil
			}
		}
	}
	return "", "", ErrNotFound
}

func (s Service) validateCandidate(ctx context.Context, query judge.SourceInfo, candidateUrl string) (string, string, bool) {
	res, err := s.client.R().SetContext(ctx).Get(candidateUrl)
	if err != nil || res.StatusCode() != 200 {
		return "", "", false
	}
	body := res.String()
	if !strings.Contains(body, pageMarker) {
		return "", "", false
	}

	title, err := pageTitle(body)
	if err != nil || title == "" {
		return "", "", false
	}

	decision, err := s.judge.JudgeMatch(ctx, query, judge.Candidate{
		Title: title,
		Url:   candidateUrl,
	})
	if err != nil || !decision.IsMatch {
		slog.DebugContext(ctx, "candidate rejected",
			"source", query.Name,
			"candidate", title,
			"similarity", matchr.JaroWinkler(query.Name, title, true),
		)
		return "", "", false
	}
	return candidateUrl, body, true
}

// parseSearchResults pulls candidate review URLs out of a WordPress
// search results page. Results normally sit in <article> elements; two
// fallbacks cover themes with different markup.
func parseSearchResults(ctx context.Context, body string) []string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil
	}

	var urls []string
	seen := map[string]bool{}
	add := func(href string) {
		if IsReviewUrl(href) && !seen[href] {
			seen[href] = true
			urls = append(urls, href)
		}
	}

	doc.Find("article").Each(func(_ int, article *goquery.Selection) {
		if href, ok := article.Find("a[href]").First().Attr("href"); ok {
			add(href)
		}
	})
	if len(urls) > 0 {
		return urls
	}

	for _, class := range []string{"search-results", "entry-title", "post-title"} {
		doc.Find("."+class).Each(func(_ int, el *goquery.Selection) {
			if href, ok := el.Find("a[href]").First().Attr("href"); ok {
				add(href)
			}
		})
	}
	if len(urls) > 0 {
		return urls
	}

	for _, anchor := range htmlutil.GetAnchors(ctx, doc.Selection) {
		add(anchor.Href)
	}
	return urls
}

var (
	titleSuffixRegex = regexp.MustCompile(`(?i)\s*bias\s+and\s+reliability.*$`)
	titleSiteRegex   = regexp.MustCompile(`\s*\|.*$`)
)

// pageTitle recovers the source name from a review page heading like
// "The Daily Signal Bias and Reliability | Ad Fontes Media".
func pageTitle(body string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return "", err
	}
	title := htmlutil.Heading(doc, "page-title")
	title = titleSiteRegex.ReplaceAllString(title, "")
	title = titleSuffixRegex.ReplaceAllString(title, "")
	return strings.TrimSpace(title), nil
}
