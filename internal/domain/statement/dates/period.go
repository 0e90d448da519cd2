package dates

import (
	"regexp"
	"strconv"
	"time"
)

// Period is the statement range printed in a document banner, e.g. "1 Apr'25 - 21 Jan'26".
type Period struct {
	Start time.Time
	End   time.Time
}

var periodPattern = regexp.MustCompile(
	`(\d{1,2})\s*([A-Za-z]{3,9})\s*['\x{2018}\x{2019}]\s*(\d{2})\s*[-\x{2013}\x{2014}]+\s*(\d{1,2})\s*([A-Za-z]{3,9})\s*['\x{2018}\x{2019}]\s*(\d{2})`,
)

// DetectPeriod returns the first statement period found in text.
func DetectPeriod(text string) (Period, bool) {
	m := periodPattern.FindStringSubmatch(text)
	if m == nil {
		return Period{}, false
	}

	start, ok := periodBound(m[1], m[2], m[3])
	if !ok {
		return Period{}, false
	}
	end, ok := periodBound(m[4], m[5], m[6])
	if !ok || end.Before(start) {
		return Period{}, false
	}

	return Period{Start: start, End: end}, true
}

func periodBound(day, month, year string) (time.Time, bool) {
	d, err := strconv.Atoi(day)
	if err != nil {
		return time.Time{}, false
	}
	mon, ok := LookupMonth(month)
	if !ok {
		return time.Time{}, false
	}
	y, err := strconv.Atoi(year)
	if err != nil {
		return time.Time{}, false
	}
	return makeDate(2000+y, mon, d)
}

// yearFor picks the year for a month that was printed without one.
func (p Period) yearFor(month time.Month) int {
	if month >= p.Start.Month() {
		return p.Start.Year()
	}
	return p.End.Year()
}
