package normalizer

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DefaultCategory is used when a transaction carries no tag.
const DefaultCategory = "Other"

var tagPattern = regexp.MustCompile(`(?i)(?:tag:\s*)?#\s*([A-Za-z][A-Za-z0-9]*)`)

// ExtractTag returns the first "#Food" or "Tag: #Food" style token in text, title-cased.
func ExtractTag(text string) (string, bool) {
	m := tagPattern.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return TitleTag(m[1]), true
}

// TitleTag title-cases a category label, e.g. "food delivery" becomes "Food Delivery".
func TitleTag(s string) string {
	s = strings.TrimSpace(spacePattern.ReplaceAllString(s, " "))
	// Casers keep state, so one is built per call.
	return cases.Title(language.English).String(s)
}

// Category picks the category for a unit: an explicit column value first, then an inline tag,
// then DefaultCategory.
func Category(column, text string) string {
	if c := strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(column), "#")); c != "" {
		return TitleTag(c)
	}
	if tag, ok := ExtractTag(text); ok {
		return tag
	}
	return DefaultCategory
}
