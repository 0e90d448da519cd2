package dates

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// YearPolicy decides the year of a "D Mon" token when the document has no statement period.
type YearPolicy int

const (
	// YearPolicyRollback uses the current year unless the month is more than two months
	// ahead of the current month, in which case the previous year is used.
	YearPolicyRollback YearPolicy = iota
	// YearPolicyCurrent always uses the current year.
	YearPolicyCurrent
)

func (p YearPolicy) String() string {
	switch p {
	case YearPolicyCurrent:
		return "current"
	default:
		return "rollback"
	}
}

// ParseYearPolicy maps a configuration value to a YearPolicy.
func ParseYearPolicy(s string) (YearPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "rollback":
		return YearPolicyRollback, nil
	case "current":
		return YearPolicyCurrent, nil
	default:
		return YearPolicyRollback, fmt.Errorf("unknown year policy %q", s)
	}
}

// rollbackWindow is how many months ahead of "now" a yearless date may fall before it is
// attributed to the previous year.
const rollbackWindow = 2

var (
	timeSuffix    = regexp.MustCompile(`,?\s+\d{1,2}:\d{2}(?::\d{2})?(?:\s*(?i:am|pm))?$`)
	isoDate       = regexp.MustCompile(`^(\d{4})-(\d{1,2})-(\d{1,2})(?:$|[T\s])`)
	dayMonthYear  = regexp.MustCompile(`^(\d{1,2})\s+([A-Za-z]+)\.?,?\s+(\d{4})$`)
	monthDayYear  = regexp.MustCompile(`^([A-Za-z]+)\.?\s+(\d{1,2}),?\s+(\d{4})$`)
	dayMonth      = regexp.MustCompile(`^(\d{1,2})\s+([A-Za-z]+)\.?$`)
	separatorFold = strings.NewReplacer(".", "-", "/", "-")
)

// Resolver turns textual date tokens into calendar dates.
// A Resolver is safe for concurrent use.
type Resolver struct {
	now    func() time.Time
	policy YearPolicy
	period *Period
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithClock replaces time.Now as the source of the current date.
func WithClock(now func() time.Time) Option {
	return func(r *Resolver) {
		if now != nil {
			r.now = now
		}
	}
}

// WithYearPolicy sets the policy for yearless dates outside a statement period.
func WithYearPolicy(p YearPolicy) Option {
	return func(r *Resolver) {
		r.policy = p
	}
}

// NewResolver creates a resolver using the wall clock and YearPolicyRollback by default.
func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{
		now:    time.Now,
		policy: YearPolicyRollback,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// WithPeriod returns a copy of r that infers missing years from the statement period.
func (r *Resolver) WithPeriod(p Period) *Resolver {
	cp := *r
	cp.period = &p
	return &cp
}

// Policy reports the configured year policy.
func (r *Resolver) Policy() YearPolicy {
	return r.policy
}

// Resolve parses text as a date. The second result is false when no supported pattern
// produces a valid calendar date.
func (r *Resolver) Resolve(text string) (time.Time, bool) {
	s := strings.TrimSpace(text)
	if s == "" {
		return time.Time{}, false
	}
	s = strings.TrimSpace(timeSuffix.ReplaceAllString(s, ""))
	normalized := separatorFold.Replace(s)

	if strings.Contains(normalized, "-") && len(normalized) >= 10 {
		if m := isoDate.FindStringSubmatch(normalized); m != nil {
			if t, ok := makeDate(atoi(m[1]), time.Month(atoi(m[2])), atoi(m[3])); ok {
				return t, true
			}
		}
	}

	if m := dayMonthYear.FindStringSubmatch(s); m != nil {
		if mon, ok := LookupMonth(m[2]); ok {
			return makeDate(atoi(m[3]), mon, atoi(m[1]))
		}
	}

	if m := monthDayYear.FindStringSubmatch(s); m != nil {
		if mon, ok := LookupMonth(m[1]); ok {
			return makeDate(atoi(m[3]), mon, atoi(m[2]))
		}
	}

	if m := dayMonth.FindStringSubmatch(s); m != nil {
		if mon, ok := LookupMonth(m[2]); ok {
			return makeDate(r.inferYear(mon), mon, atoi(m[1]))
		}
	}

	return resolveNumeric(normalized)
}

func (r *Resolver) inferYear(month time.Month) int {
	if r.period != nil {
		return r.period.yearFor(month)
	}

	now := r.now()
	if r.policy == YearPolicyCurrent {
		return now.Year()
	}
	if int(month)-int(now.Month()) > rollbackWindow {
		return now.Year() - 1
	}
	return now.Year()
}

// resolveNumeric handles P1-P2-P3 triples, preferring day-month-year when ambiguous.
func resolveNumeric(normalized string) (time.Time, bool) {
	parts := strings.Split(normalized, "-")
	if len(parts) != 3 {
		return time.Time{}, false
	}

	var p [3]int
	for i, part := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return time.Time{}, false
		}
		p[i] = v
	}

	year := p[2]
	if year < 100 {
		year += 2000
	}

	switch {
	case p[0] > 12:
		return makeDate(year, time.Month(p[1]), p[0])
	case p[1] > 12:
		return makeDate(year, time.Month(p[0]), p[1])
	default:
		return makeDate(year, time.Month(p[1]), p[0])
	}
}

func atoi(s string) int {
	v, _ := strconv.Atoi(s)
	return v
}
