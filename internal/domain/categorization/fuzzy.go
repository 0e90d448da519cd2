package categorization

import (
	"strings"
	"unicode"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// minFuzzyPattern excludes short keywords, which produce too many near misses.
const minFuzzyPattern = 5

// FuzzyMatch is a keyword matched approximately.
type FuzzyMatch struct {
	Pattern  string
	Category string
	Priority int
	Score    int // 0-100, 100 is identical
	Distance int // Levenshtein distance
}

// FuzzyMatcher scores description words against keywords, catching typos such as
// "SWIGY" for "SWIGGY".
type FuzzyMatcher struct {
	keywords []Keyword
}

func NewFuzzyMatcher(keywords []Keyword) *FuzzyMatcher {
	fm := &FuzzyMatcher{}
	for _, k := range keywords {
		pattern := strings.ToUpper(strings.TrimSpace(k.Pattern))
		if len(pattern) < minFuzzyPattern || strings.Contains(pattern, " ") {
			continue
		}
		k.Pattern = pattern
		fm.keywords = append(fm.keywords, k)
	}
	return fm
}

// Match returns the keyword with the best score at or above threshold. Each word of description
// is scored separately.
func (fm *FuzzyMatcher) Match(description string, threshold int) (FuzzyMatch, bool) {
	words := strings.FieldsFunc(strings.ToUpper(description), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	var (
		best  FuzzyMatch
		found bool
	)
	for _, k := range fm.keywords {
		for _, w := range words {
			if len(w) < minFuzzyPattern-1 {
				continue
			}
			score := fuzzyScore(w, k.Pattern)
			if score < threshold {
				continue
			}
			if !found || score > best.Score || (score == best.Score && k.Priority > best.Priority) {
				best = FuzzyMatch{
					Pattern:  k.Pattern,
					Category: k.Category,
					Priority: k.Priority,
					Score:    score,
					Distance: levenshteinDistance(w, k.Pattern),
				}
				found = true
			}
		}
	}
	return best, found
}

// fuzzyScore rates the similarity of two upper-cased strings from 0 to 100 using containment,
// Levenshtein distance and the fuzzysearch rank, keeping the best.
func fuzzyScore(s1, s2 string) int {
	if s1 == s2 {
		return 100
	}
	if strings.Contains(s1, s2) {
		return 75 + (25 * len(s2) / len(s1))
	}
	if strings.Contains(s2, s1) {
		return 75 + (25 * len(s1) / len(s2))
	}

	maxLen := max(len(s1), len(s2))
	if maxLen == 0 {
		return 0
	}
	levScore := 100 * (maxLen - levenshteinDistance(s1, s2)) / maxLen

	rankScore := 0
	if rank := fuzzy.RankMatch(s2, s1); rank >= 0 && rank < len(s1) {
		rankScore = 60 - (rank * 40 / len(s1))
	}

	return max(levScore, rankScore)
}

// levenshteinDistance is the rune edit distance between s1 and s2.
func levenshteinDistance(s1, s2 string) int {
	r1, r2 := []rune(s1), []rune(s2)
	if len(r1) == 0 {
		return len(r2)
	}
	if len(r2) == 0 {
		return len(r1)
	}

	prev := make([]int, len(r2)+1)
	curr := make([]int, len(r2)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(r1); i++ {
		curr[0] = i
		for j := 1; j <= len(r2); j++ {
			cost := 1
			if r1[i-1] == r2[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(r2)]
}
