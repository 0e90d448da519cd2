package categorization

import (
	"strings"
	"unicode"

	"github.com/cloudflare/ahocorasick"
)

// shortPattern is the length at or below which a keyword must match a whole word, so that
// "ola" does not match "coca cola" and "rent" does not match "current".
const shortPattern = 4

// Match is a keyword hit.
type Match struct {
	Pattern  string
	Category string
	Priority int
}

// Engine matches all keywords against a description in one pass using Aho-Corasick.
// An Engine is immutable after construction and safe for concurrent use.
type Engine struct {
	matcher  *ahocorasick.Matcher
	patterns []string
	// metadata[i] holds every keyword sharing patterns[i].
	metadata [][]Match
}

// NewEngine builds the matcher. Patterns are matched case-insensitively.
func NewEngine(keywords []Keyword) *Engine {
	e := &Engine{}

	index := make(map[string]int, len(keywords))
	for _, k := range keywords {
		pattern := strings.ToUpper(strings.TrimSpace(k.Pattern))
		if pattern == "" || k.Category == "" {
			continue
		}
		m := Match{Pattern: pattern, Category: k.Category, Priority: k.Priority}
		if i, ok := index[pattern]; ok {
			e.metadata[i] = append(e.metadata[i], m)
			continue
		}
		index[pattern] = len(e.patterns)
		e.patterns = append(e.patterns, pattern)
		e.metadata = append(e.metadata, []Match{m})
	}

	if len(e.patterns) > 0 {
		e.matcher = ahocorasick.NewStringMatcher(e.patterns)
	}
	return e
}

// Match returns the best keyword found in description: the highest priority, then the longest
// pattern.
func (e *Engine) Match(description string) (Match, bool) {
	if e.matcher == nil {
		return Match{}, false
	}

	text := strings.ToUpper(description)
	var (
		best  Match
		found bool
	)
	for _, idx := range e.matcher.Match([]byte(text)) {
		if idx < 0 || idx >= len(e.metadata) {
			continue
		}
		pattern := e.patterns[idx]
		if len(pattern) <= shortPattern && !containsWord(text, pattern) {
			continue
		}
		for _, m := range e.metadata[idx] {
			if !found || m.Priority > best.Priority ||
				(m.Priority == best.Priority && len(m.Pattern) > len(best.Pattern)) {
				best, found = m, true
			}
		}
	}
	return best, found
}

// PatternCount returns the number of distinct patterns loaded.
func (e *Engine) PatternCount() int {
	return len(e.patterns)
}

// containsWord reports whether word occurs in text delimited by non-letters.
func containsWord(text, word string) bool {
	for start := 0; ; {
		i := strings.Index(text[start:], word)
		if i < 0 {
			return false
		}
		i += start
		end := i + len(word)
		if !letterBefore(text, i) && !letterAt(text, end) {
			return true
		}
		start = i + 1
	}
}

func letterBefore(s string, i int) bool {
	if i == 0 {
		return false
	}
	r := rune(s[i-1])
	return r < 0x80 && unicode.IsLetter(r)
}

func letterAt(s string, i int) bool {
	if i >= len(s) {
		return false
	}
	r := rune(s[i])
	return r < 0x80 && unicode.IsLetter(r)
}

// DefaultThreshold is the minimum fuzzy score accepted by Categorizer.
const DefaultThreshold = 70

// Categorizer combines the exact keyword engine with the fuzzy fallback.
type Categorizer struct {
	engine    *Engine
	fuzzy     *FuzzyMatcher
	threshold int
}

// NewCategorizer builds a categorizer over keywords. A nil slice uses DefaultKeywords.
func NewCategorizer(keywords []Keyword) *Categorizer {
	if keywords == nil {
		keywords = DefaultKeywords
	}
	return &Categorizer{
		engine:    NewEngine(keywords),
		fuzzy:     NewFuzzyMatcher(keywords),
		threshold: DefaultThreshold,
	}
}

// Categorize returns the category for description, or false when neither matcher is confident.
func (c *Categorizer) Categorize(description string) (string, bool) {
	if m, ok := c.engine.Match(description); ok {
		return m.Category, true
	}
	if m, ok := c.fuzzy.Match(description, c.threshold); ok {
		return m.Category, true
	}
	return "", false
}
