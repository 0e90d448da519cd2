// Package normalizer cleans the free text of a transaction into a description and category.
package normalizer

import (
	"regexp"
	"strings"
	"unicode"
)

const (
	// MaxDescriptionLength is measured in runes.
	MaxDescriptionLength = 50
	DefaultDescription   = "Expense"
)

var (
	spacePattern    = regexp.MustCompile(`\s+`)
	paidToPrefix    = regexp.MustCompile(`(?i)paid to `)
	trailingRefNums = regexp.MustCompile(`\s+\d{10,}$`)
)

// CleanDescription collapses whitespace, trims non-alphanumeric characters from both ends and
// truncates to MaxDescriptionLength runes. An empty result becomes DefaultDescription.
func CleanDescription(s string) string {
	s = spacePattern.ReplaceAllString(s, " ")
	s = strings.TrimFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	if r := []rune(s); len(r) > MaxDescriptionLength {
		s = strings.TrimRightFunc(string(r[:MaxDescriptionLength]), unicode.IsSpace)
	}
	if s == "" {
		return DefaultDescription
	}
	return s
}

// CleanNarration prepares a tabular description cell: every "Paid to " is removed and a
// trailing long reference number is dropped.
func CleanNarration(s string) string {
	s = paidToPrefix.ReplaceAllString(s, "")
	s = trailingRefNums.ReplaceAllString(strings.TrimSpace(s), "")
	return strings.TrimSpace(s)
}
