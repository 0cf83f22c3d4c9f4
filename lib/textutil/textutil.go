// Package textutil holds the name normalization and fuzzy matching logic
// shared by every enrichment workflow.
package textutil

import (
	"regexp"
	"strings"
)

// DefaultMatchThreshold is the minimum Jaccard word-set similarity
// accepted for names longer than two words.
const DefaultMatchThreshold = 0.7

var (
	nameCharRegex   = regexp.MustCompile(`[^a-z0-9\s-]`)
	whitespaceRegex = regexp.MustCompile(`\s+`)
	parenGroupRegex = regexp.MustCompile(`\s*\([^)]*\)`)
)

// NormalizeName reduces a source name to a canonical comparison form:
// lowercase, with everything outside letters/digits/spaces/hyphens removed
// and runs of whitespace collapsed. Normalizing an already normalized name
// is a no-op.
func NormalizeName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = nameCharRegex.ReplaceAllString(name, "")
	name = whitespaceRegex.ReplaceAllString(name, " ")
	return strings.TrimSpace(name)
}

// MatchNames reports whether two source names refer to the same
// organization, using DefaultMatchThreshold for the word-set comparison.
func MatchNames(query, candidate string) bool {
	return MatchNamesThreshold(query, candidate, DefaultMatchThreshold)
}

// MatchNamesThreshold applies a cascade of strategies from strictest to
// loosest, stopping at the first decisive one:
//
//  1. exact equality of the normalized forms
//  2. substring containment, when the normalized lengths are within 30%
//     of each other
//  3. for queries of one or two words: exact word-set equality
//  4. otherwise: Jaccard similarity of the word sets >= threshold
//
// Short names (acronyms, single-word outlets) go through strategy 3 so
// that partial overlap can never match them; longer names tolerate extra
// qualifier words and reordering through strategy 4.
func MatchNamesThreshold(query, candidate string, threshold float64) bool {
	a := NormalizeName(query)
	b := NormalizeName(candidate)

	if a == b {
		return true
	}

	maxLen := max(len(a), len(b), 1)
	lenDiffRatio := float64(abs(len(a)-len(b))) / float64(maxLen)
	if lenDiffRatio < 0.3 && (strings.Contains(a, b) || strings.Contains(b, a)) {
		return true
	}

	queryWords := wordSet(a)
	candidateWords := wordSet(b)

	if len(queryWords) <= 2 {
		return equalSets(queryWords, candidateWords)
	}

	if len(queryWords) > 0 && len(candidateWords) > 0 {
		return jaccard(queryWords, candidateWords) >= threshold
	}
	return false
}

// CleanRating strips a parenthesized score annotation from a rating
// value: "HIGH (1.8)" becomes "HIGH". Values without a parenthetical pass
// through unchanged.
func CleanRating(rating string) string {
	if rating == "" {
		return rating
	}
	if loc := parenGroupRegex.FindStringIndex(rating); loc != nil {
		rating = rating[:loc[0]] + rating[loc[1]:]
	}
	return strings.Join(strings.Fields(rating), " ")
}

func wordSet(s string) map[string]struct{} {
	words := strings.Fields(s)
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

func equalSets(a, b map[string]struct{}) bool {
	if len(a) != len(b) {
		return false
	}
	for w := range a {
		if _, ok := b[w]; !ok {
			return false
		}
	}
	return true
}

func jaccard(a, b map[string]struct{}) float64 {
	intersection := 0
	for w := range a {
		if _, ok := b[w]; ok {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
