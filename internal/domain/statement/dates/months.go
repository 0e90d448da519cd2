// Package dates resolves the date tokens found in wallet and bank statements.
package dates

import (
	"strings"
	"time"
)

// monthTable is keyed by the lower-cased three letter prefix of an English month name.
// It is never written after init; use LookupMonth.
var monthTable = map[string]time.Month{
	"jan": time.January,
	"feb": time.February,
	"mar": time.March,
	"apr": time.April,
	"may": time.May,
	"jun": time.June,
	"jul": time.July,
	"aug": time.August,
	"sep": time.September,
	"oct": time.October,
	"nov": time.November,
	"dec": time.December,
}

// LookupMonth matches a month name on its first three letters, case-insensitively.
// "Sept", "SEP" and "September" all resolve to time.September.
func LookupMonth(name string) (time.Month, bool) {
	name = strings.TrimSpace(name)
	if len(name) < 3 {
		return 0, false
	}
	m, ok := monthTable[strings.ToLower(name[:3])]
	return m, ok
}

// makeDate builds a UTC midnight date and rejects values that time.Date would normalize,
// such as 31 February.
func makeDate(year int, month time.Month, day int) (time.Time, bool) {
	if year < 1 || month < time.January || month > time.December || day < 1 || day > 31 {
		return time.Time{}, false
	}
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if t.Day() != day || t.Month() != month {
		return time.Time{}, false
	}
	return t, true
}
