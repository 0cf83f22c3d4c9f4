package textutil

import (
	"net/url"
	"regexp"
	"strings"
)

var (
	acronymRegex  = regexp.MustCompile(`\(([A-Z]{2,})\)`)
	slugCharRegex = regexp.MustCompile(`[^a-z0-9\s-]`)
	slugDashRegex = regexp.MustCompile(`-+`)
)

// ExtractDomain returns the host part of a URL without a leading "www.".
// Scheme-less inputs like "bbc.com" are handled by falling back to the
// parsed path. Unparseable input yields "".
func ExtractDomain(rawurl string) string {
	parsed, err := url.Parse(strings.TrimSpace(rawurl))
	if err != nil {
		return ""
	}
	domain := parsed.Host
	if domain == "" {
		domain = parsed.Path
	}
	return strings.TrimPrefix(domain, "www.")
}

// DomainStem strips the last dot-separated segment from a domain:
// "acleddata.com" becomes "acleddata".
func DomainStem(domain string) string {
	if i := strings.LastIndex(domain, "."); i >= 0 {
		return domain[:i]
	}
	return domain
}

// Slug converts a source name into the hyphenated form used in review
// page URLs: "The Daily Signal" becomes "the-daily-signal".
func Slug(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = slugCharRegex.ReplaceAllString(s, "")
	s = whitespaceRegex.ReplaceAllString(s, "-")
	return slugDashRegex.ReplaceAllString(s, "-")
}

// SearchTerms builds the ordered list of queries to try when looking a
// source up on a rating site, deduplicated case-insensitively:
//
//  1. the full name
//  2. a "The "-prefixed variant, when the name lacks the article
//  3. a parenthesized acronym, when the name carries one
//  4. the domain stem of the source URL
//
// Later entries are broader fallbacks; callers stop at the first term
// that yields a validated page.
func SearchTerms(name, rawurl string) []string {
	var terms []string
	seen := map[string]struct{}{}
	add := func(t string) {
		t = strings.TrimSpace(t)
		if t == "" {
			return
		}
		key := strings.ToLower(t)
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		terms = append(terms, t)
	}

	add(name)
	if !strings.HasPrefix(strings.ToLower(name), "the ") {
		add("The " + name)
	}
	if m := acronymRegex.FindStringSubmatch(name); m != nil {
		add(m[1])
	}
	if domain := ExtractDomain(rawurl); domain != "" {
		add(DomainStem(domain))
	}
	return terms
}
