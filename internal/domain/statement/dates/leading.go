package dates

import (
	"regexp"
	"strings"
)

var leadingDate = regexp.MustCompile(
	`^(\d{4}-\d{2}-\d{2}|\d{2}[-/]\d{2}[-/]\d{4}|\d{1,2}\s+[A-Za-z]+,?\s+\d{4}|[A-Za-z]+\s+\d{1,2},?\s+\d{4}|\d{1,2}\s+[A-Za-z]{3})`,
)

// LeadingDate returns the date-looking token at the start of line.
// Tokens with a month name only count when the name is a real month, so lines such as
// "12 items" do not start a transaction block.
func LeadingDate(line string) (string, bool) {
	m := leadingDate.FindString(strings.TrimSpace(line))
	if m == "" {
		return "", false
	}
	if word := firstWord(m); word != "" {
		if _, ok := LookupMonth(word); !ok {
			return "", false
		}
	}
	return m, true
}

// firstWord returns the first run of letters in s.
func firstWord(s string) string {
	start := -1
	for i, r := range s {
		isLetter := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
		switch {
		case isLetter && start < 0:
			start = i
		case !isLetter && start >= 0:
			return s[start:i]
		}
	}
	if start >= 0 {
		return s[start:]
	}
	return ""
}
