package candidate

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/FACorreiaa/statement-ingest/internal/domain/statement/amount"
	"github.com/FACorreiaa/statement-ingest/internal/domain/statement/dates"
	"github.com/FACorreiaa/statement-ingest/internal/domain/statement/normalizer"
)

// Draft holds the raw fields of one transaction unit before cleanup.
type Draft struct {
	DateText    string
	Amount      decimal.Decimal
	IsDebit     bool
	Description string
	// Category is an explicit category value, e.g. from a tag column. It wins over inline tags.
	Category  string
	Reference string
	// Text is the full text of the unit, searched for inline "#Tag" tokens.
	Text string
}

// minorUnits is the stored precision of an amount. Rounding happens before validation so a
// candidate that rounds to zero is never accepted.
const minorUnits = 2

// Builder turns drafts and text blocks into candidates.
type Builder struct {
	resolver *dates.Resolver
}

func NewBuilder(resolver *dates.Resolver) *Builder {
	if resolver == nil {
		resolver = dates.NewResolver()
	}
	return &Builder{resolver: resolver}
}

// WithPeriod returns a builder whose yearless dates follow the statement period.
func (b *Builder) WithPeriod(p dates.Period) *Builder {
	return &Builder{resolver: b.resolver.WithPeriod(p)}
}

// Build cleans a draft into a candidate. The second result is Candidate.Valid.
func (b *Builder) Build(d Draft) (Candidate, bool) {
	c := Candidate{
		Amount:      d.Amount.Round(minorUnits),
		IsDebit:     d.IsDebit,
		Description: normalizer.CleanDescription(d.Description),
		Category:    normalizer.Category(d.Category, d.Text),
		Reference:   strings.TrimSpace(d.Reference),
	}
	if t, ok := b.resolver.Resolve(d.DateText); ok {
		c.Date = t
	}
	return c, c.Valid()
}

// FromBlock builds a candidate from a date-anchored block of PDF lines. The first line must
// start with the date token.
func (b *Builder) FromBlock(lines []string) (Candidate, bool) {
	if len(lines) == 0 {
		return Candidate{}, false
	}

	dateText, ok := dates.LeadingDate(lines[0])
	if !ok {
		return Candidate{}, false
	}
	date, ok := b.resolver.Resolve(dateText)
	if !ok {
		return Candidate{}, false
	}

	text := strings.Join(lines, "\n")
	res := amount.Extract(text, date.Day())
	if res.Income {
		return Candidate{}, false
	}

	description := res.Payee
	if description == "" {
		description = normalizer.PayeeBeforeAmount(lines)
	}

	c := Candidate{
		Date:        date,
		Amount:      res.Amount.Round(minorUnits),
		IsDebit:     res.IsDebit,
		Description: normalizer.CleanDescription(description),
		Category:    normalizer.Category("", text),
	}
	return c, c.Valid()
}
