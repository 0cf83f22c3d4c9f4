// Package profitstatus classifies information sources as non-profit,
// for-profit, government, or unknown. A pattern classifier handles the
// clear-cut cases offline; a research mode asks a chat model about the
// rest.
package profitstatus

import (
	"regexp"
	"strings"

	"infosources-backend/lib/textutil"
)

type Status string

const (
	StatusNonProfit  Status = "non-profit"
	StatusForProfit  Status = "for-profit"
	StatusGovernment Status = "government"
	StatusMixed      Status = "mixed"
	StatusUnknown    Status = "unknown"
)

var governmentDomainPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\.gov$`),
	regexp.MustCompile(`house\.gov`),
	regexp.MustCompile(`senate\.gov`),
	regexp.MustCompile(`congress\.gov`),
	regexp.MustCompile(`department of`),
	regexp.MustCompile(`ministry of`),
	regexp.MustCompile(`bureau of`),
	regexp.MustCompile(`office of`),
	regexp.MustCompile(`customs and border`),
	regexp.MustCompile(`veterans affairs`),
	regexp.MustCompile(`homeland security`),
}

var nonprofitKeywords = []string{
	"institute", "foundation", "center", "society", "association",
	"council", "coalition", "project", "organization", "archive",
	"research", "policy", "studies", "watch", "international",
	"endowment", "commission",
}

var forprofitIndicators = []string{
	"news", "times", "post", "journal", "magazine", "media",
	"broadcasting", "network", "press", "wire", "daily",
	"inc.", "corp", "corporation", "company", "llc", "ltd",
}

// knownStatuses are manual overrides for organizations the keyword
// heuristics get wrong. Matched as substrings of the lowercased name.
var knownStatuses = map[string]Status{
	"congressional research service":           StatusGovernment,
	"white house":                              StatusGovernment,
	"us customs and border protection":         StatusGovernment,
	"department of health and human services":  StatusGovernment,
	"small business administration":            StatusGovernment,
	"national science foundation":              StatusGovernment,
	"department of veterans affairs":           StatusGovernment,
	"associated press":                         StatusForProfit,
	"reuters":                                  StatusForProfit,
	"politico":                                 StatusForProfit,
	"the hill":                                 StatusForProfit,
	"newsmax":                                  StatusForProfit,
	"newsweek":                                 StatusForProfit,
	"foreign policy":                           StatusForProfit,
	"propublica":                               StatusNonProfit,
	"pew research":                             StatusNonProfit,
	"brookings institute":                      StatusNonProfit,
	"heritage foundation":                      StatusNonProfit,
	"amnesty international":                    StatusNonProfit,
	"freedom house":                            StatusNonProfit,
	"transparency international":               StatusNonProfit,
	"human rights watch":                       StatusNonProfit,
	"aclu":                                     StatusNonProfit,
	"american civil liberties union":           StatusNonProfit,
}

// Classify determines the profit status of a source from its name and
// domain alone. Domain signals win over name signals; StatusUnknown
// means the heuristics have no opinion and the source is a candidate
// for the research mode.
func Classify(name, url string) Status {
	if status := classifyByDomain(url); status != StatusUnknown {
		return status
	}
	return classifyByName(name)
}

func classifyByDomain(url string) Status {
	domain := strings.ToLower(textutil.ExtractDomain(url))
	if domain == "" {
		return StatusUnknown
	}
	for _, pattern := range governmentDomainPatterns {
		if pattern.MatchString(domain) {
			return StatusGovernment
		}
	}
	// educational institutions are almost always non-profit
	if strings.HasSuffix(domain, ".edu") {
		return StatusNonProfit
	}
	return StatusUnknown
}

func classifyByName(name string) Status {
	lower := strings.ToLower(name)

	for known, status := range knownStatuses {
		if strings.Contains(lower, known) {
			return status
		}
	}

	if containsAny(lower, "house ", "senate ", "committee", "commission") &&
		containsAny(lower, "house", "senate", "congressional", "joint") {
		return StatusGovernment
	}

	nonprofitScore := countAny(lower, nonprofitKeywords)
	forprofitScore := countAny(lower, forprofitIndicators)
	switch {
	case nonprofitScore >= 2:
		return StatusNonProfit
	case forprofitScore >= 1:
		return StatusForProfit
	case nonprofitScore >= 1:
		return StatusNonProfit
	}
	return StatusUnknown
}

func containsAny(s string, needles ...string) bool {
	for _, needle := range needles {
		if strings.Contains(s, needle) {
			return true
		}
	}
	return false
}

func countAny(s string, needles []string) int {
	count := 0
	for _, needle := range needles {
		if strings.Contains(s, needle) {
			count++
		}
	}
	return count
}
