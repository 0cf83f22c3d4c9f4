package adfontes

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"infosources-backend/lib/testutil"
	"infosources-backend/services/judge"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/require"
)

const reviewPage = `<html>
<head><title>The Daily Signal Bias and Reliability | Ad Fontes Media</title></head>
<body>
<h1 class="page-title">The Daily Signal Bias and Reliability</h1>
<div class="elementor-widget-container">
<p><b>Bias:</b> Skews Right</p>
<p><b>Reliability:</b> Reliable, Analysis/Fact Reporting</p>
</div>
<div>
<h2>Overall Score</h2>
<p><b>Reliability:</b> 33.44</p>
<p><b>Bias:</b> 11.08</p>
</div>
</body>
</html>`

func searchPage(links ...string) string {
	var b strings.Builder
	b.WriteString("<html><body>")
	for _, link := range links {
		fmt.Fprintf(&b, `<article><a href=%q>result</a></article>`, link)
	}
	b.WriteString("</body></html>")
	return b.String()
}

func testService(t *testing.T, handler http.Handler) (Service, *httptest.Server) {
	_, cleanup := testutil.SetupService(t, testutil.ServiceParams{Name: "adfontes"})
	t.Cleanup(cleanup)

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	s := NewService(resty.New(), judge.StringJudge{})
	s.baseUrl = server.URL
	return s, server
}

func TestLookup(t *testing.T) {
	var server *httptest.Server
	s, server := testService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Query().Get("s") != "":
			// the fragment satisfies the domain check in IsReviewUrl
			// while keeping the request on the test server
			w.Write([]byte(searchPage(
				server.URL + "/the-daily-signal-bias-and-reliability/#adfontesmedia.com",
			)))
		case r.URL.Path == "/the-daily-signal-bias-and-reliability/":
			w.Write([]byte(reviewPage))
		default:
			http.NotFound(w, r)
		}
	}))

	rating, err := s.Lookup(context.Background(), judge.SourceInfo{
		Name: "The Daily Signal",
		Url:  "https://dailysignal.com",
	})
	require.NoError(t, err)
	require.Equal(t, Rating{
		BiasLabel:        "Skews Right",
		ReliabilityLabel: "Reliable, Analysis/Fact Reporting",
		BiasScore:        "11.08",
		ReliabilityScore: "33.44",
	}, rating)
}

func TestLookupNotFound(t *testing.T) {
	s, _ := testService(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(searchPage()))
	}))

	_, err := s.Lookup(context.Background(), judge.SourceInfo{
		Name: "Some Unknown Blog",
		Url:  "https://unknown.example",
	})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestSearchStopsAfterFirstValidatedTerm(t *testing.T) {
	const occrpPage = `<html><body>
<h1 class="page-title">Organized Crime and Corruption Reporting Project Bias and Reliability</h1>
<h2>Overall Score</h2>
<p>Bias: -2.30</p>
<p>Reliability: 43.12</p>
</body></html>`

	searches := 0
	var server *httptest.Server
	s, server := testService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Query().Get("s") != "":
			searches++
			w.Write([]byte(searchPage(
				server.URL + "/occrp-bias-and-reliability/#adfontesmedia.com",
			)))
		case r.URL.Path == "/occrp-bias-and-reliability/":
			w.Write([]byte(occrpPage))
		default:
			http.NotFound(w, r)
		}
	}))

	rating, err := s.Lookup(context.Background(), judge.SourceInfo{
		Name: "Organized Crime and Corruption Reporting Project (OCCRP)",
		Url:  "https://occrp.org",
	})
	require.NoError(t, err)
	require.Equal(t, "-2.30", rating.BiasScore)

	// the name yields several search terms (full name, acronym, domain
	// stem), but the first one validated: no further searches go out
	require.Equal(t, 1, searches)
}

func TestIsReviewUrl(t *testing.T) {
	valid := []string{
		"https://adfontesmedia.com/the-daily-signal-bias-and-reliability/",
		"https://adfontesmedia.com/nbc-news-bias-and-reliability",
	}
	invalid := []string{
		"https://adfontesmedia.com/about/",
		"https://adfontesmedia.com/interactive-media-bias-chart/",
		"https://adfontesmedia.com/category/bias-and-reliability/",
		"https://adfontesmedia.com/tag/bias-and-reliability/",
		"https://example.com/nbc-news-bias-and-reliability/",
	}
	for _, u := range valid {
		require.True(t, IsReviewUrl(u), u)
	}
	for _, u := range invalid {
		require.False(t, IsReviewUrl(u), u)
	}
}

func TestParseSearchResultsFallsBackToAllAnchors(t *testing.T) {
	// no <article> wrappers, no known wrapper classes
	body := `<html><body>
<p><a href="https://adfontesmedia.com/npr-bias-and-reliability/">NPR</a></p>
<p><a href="https://adfontesmedia.com/about/">About</a></p>
</body></html>`

	urls := parseSearchResults(context.Background(), body)
	require.Equal(t, []string{"https://adfontesmedia.com/npr-bias-and-reliability/"}, urls)
}

func TestExtractRatingOverviewSentence(t *testing.T) {
	page := `<html><body>
<p>Ad Fontes Media rates NPR in the Middle category of bias
and as Reliable, Analysis/Fact Reporting in terms of reliability.</p>
<h2>Overall Score</h2>
<p>Reliability: 44.97</p>
<p>Bias: -1.41</p>
</body></html>`

	rating, err := extractRating(page)
	require.NoError(t, err)
	require.Equal(t, Rating{
		BiasLabel:        "Middle",
		ReliabilityLabel: "Reliable, Analysis/Fact Reporting",
		BiasScore:        "-1.41",
		ReliabilityScore: "44.97",
	}, rating)
}

func TestPageTitle(t *testing.T) {
	title, err := pageTitle(reviewPage)
	require.NoError(t, err)
	require.Equal(t, "The Daily Signal", title)
}

// suggestingJudge never matches directly but knows the site's name for
// the source, exercising the second search phase.
type suggestingJudge struct {
	judge.StringJudge
	suggestion string
}

func (j suggestingJudge) SuggestListingOn(_ context.Context, _ string, _ judge.SourceInfo) (judge.Listing, error) {
	return judge.Listing{
		HasListing: true,
		Name:       j.suggestion,
		Confidence: judge.ConfidenceHigh,
	}, nil
}

func TestLookupRetriesWithSuggestedName(t *testing.T) {
	var server *httptest.Server
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Query().Get("s") == "The Associated Press":
			w.Write([]byte(searchPage(
				server.URL + "/the-associated-press-bias-and-reliability/#adfontesmedia.com",
			)))
		case r.URL.Query().Get("s") != "":
			w.Write([]byte(searchPage()))
		case r.URL.Path == "/the-associated-press-bias-and-reliability/":
			w.Write([]byte(`<html><body>
<h1 class="page-title">The Associated Press Bias and Reliability</h1>
<h2>Overall Score</h2>
<p>Bias: -1.20</p>
<p>Reliability: 45.51</p>
</body></html>`))
		default:
			http.NotFound(w, r)
		}
	})
	server = httptest.NewServer(handler)
	t.Cleanup(server.Close)

	s := NewService(resty.New(), suggestingJudge{suggestion: "The Associated Press"})
	s.baseUrl = server.URL

	rating, err := s.Lookup(context.Background(), judge.SourceInfo{
		// the direct search under this name finds nothing
		Name: "AP Newswire",
		Url:  "https://apnews.com",
	})
	require.NoError(t, err)
	require.Equal(t, "-1.20", rating.BiasScore)
}
