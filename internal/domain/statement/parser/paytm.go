package parser

import (
	"regexp"

	"github.com/shopspring/decimal"

	"github.com/FACorreiaa/statement-ingest/internal/domain/statement/amount"
	"github.com/FACorreiaa/statement-ingest/internal/domain/statement/candidate"
)

const paytmWindow = 14

var (
	paytmMarkers  = []string{"Date &", "Transaction Details", "Passbook Payments History"}
	paytmDateLine = regexp.MustCompile(`^\d{1,2}\s+[A-Za-z]{3}(?:,?\s+\d{4})?`)
	paytmTag      = regexp.MustCompile(`#\s*([A-Za-z]+)`)
	paytmAmount   = regexp.MustCompile(`(?i)(?:\brs\.?|₹)\s*(\d[\d,]*(?:\.\d{1,2})?)`)
)

// paytmStrategy reads Paytm passbook statements. Dates are often printed without a year, in
// which case the statement period in the banner decides it.
type paytmStrategy struct{}

func (paytmStrategy) segment(lines []string) []Block {
	return segmentWindowed(lines, paytmMarkers, paytmDateLine, paytmWindow)
}

func (paytmStrategy) build(b *candidate.Builder, blk Block) (candidate.Candidate, bool) {
	dateText := paytmDateLine.FindString(blk[0])

	var (
		payee    string
		category string
		isDebit  bool
		amt      decimal.Decimal
	)
	for _, line := range blockBody(blk, dateText) {
		if receivedLine.MatchString(line) {
			return candidate.Candidate{}, false
		}
		if m := paidToLine.FindStringSubmatch(line); m != nil {
			isDebit = true
			payee = payeeFromLine(m[1])
		}
		if m := paytmTag.FindStringSubmatch(line); m != nil && category == "" {
			category = m[1]
		}
		if m := paytmAmount.FindStringSubmatch(line); m != nil && amt.IsZero() {
			amt = amount.ParseCell(m[1])
		}
	}

	if payee == "" {
		return candidate.Candidate{}, false
	}

	return b.Build(candidate.Draft{
		DateText:    dateText,
		Amount:      amt,
		IsDebit:     isDebit,
		Description: payee,
		Category:    category,
	})
}
