package parser

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/FACorreiaa/statement-ingest/internal/domain/statement/amount"
	"github.com/FACorreiaa/statement-ingest/internal/domain/statement/candidate"
)

const gpayWindow = 9

var (
	gpayMarkers  = []string{"Date & time", "Transaction details"}
	gpayDateLine = regexp.MustCompile(`^\d{1,2}\s+[A-Za-z]{3},?\s+\d{4}`)

	// blockStop ends a provider block at the next date-looking line.
	blockStop = regexp.MustCompile(`^\d{1,2}\s+[A-Za-z]{3}`)

	paidToLine     = regexp.MustCompile(`(?i)\bpaid\s+to\s+(.+)`)
	receivedLine   = regexp.MustCompile(`(?i)\breceived\s+from\b`)
	markedTrailing = regexp.MustCompile(`(?i)(?:₹|\brs\.?|\binr)\s*(\d[\d,]*(?:\.\d{1,2})?)\s*$`)
	bareAmountLine = regexp.MustCompile(`^(\d[\d,]*(?:\.\d{1,2})?)$`)
)

// gpayStrategy reads Google Pay statements: a transaction section starts after the table
// header and each "01 Jul, 2025" line opens a block of up to gpayWindow lines.
type gpayStrategy struct{}

func (gpayStrategy) segment(lines []string) []Block {
	return segmentWindowed(lines, gpayMarkers, gpayDateLine, gpayWindow)
}

func (gpayStrategy) build(b *candidate.Builder, blk Block) (candidate.Candidate, bool) {
	dateText := gpayDateLine.FindString(blk[0])

	var (
		payee   string
		isDebit bool
		amt     decimal.Decimal
		marked  bool
	)
	for _, line := range blockBody(blk, dateText) {
		if receivedLine.MatchString(line) {
			return candidate.Candidate{}, false
		}
		if m := paidToLine.FindStringSubmatch(line); m != nil {
			isDebit = true
			payee = payeeFromLine(m[1])
		}
		if strings.Contains(line, "Transaction ID") || strings.Contains(line, "Paid by") {
			continue
		}

		// A currency-marked amount beats a bare number; otherwise the first one found wins.
		if m := markedTrailing.FindStringSubmatch(line); m != nil && !marked {
			if v := amount.ParseCell(m[1]); v.IsPositive() {
				amt, marked = v, true
			}
		} else if m := bareAmountLine.FindStringSubmatch(line); m != nil && amt.IsZero() {
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
	})
}

// segmentWindowed skips lines up to the first section marker, then opens a block at each line
// matching opener. A block holds at most window lines after its opener and ends early at the
// next date-looking line. Every line is visited once.
func segmentWindowed(lines, markers []string, opener *regexp.Regexp, window int) []Block {
	var blocks []Block
	for i := sectionStart(lines, markers); i < len(lines); {
		if !opener.MatchString(lines[i]) {
			i++
			continue
		}

		blk := Block{lines[i]}
		j := i + 1
		for ; j < len(lines) && j <= i+window; j++ {
			if blockStop.MatchString(lines[j]) {
				break
			}
			blk = append(blk, lines[j])
		}
		blocks = append(blocks, blk)
		i = j
	}
	return blocks
}

// sectionStart returns the index after the first marker line, or 0 when the document has no
// marker.
func sectionStart(lines, markers []string) int {
	for i, line := range lines {
		for _, m := range markers {
			if strings.Contains(line, m) {
				return i + 1
			}
		}
	}
	return 0
}

// blockBody returns the lines of blk with the date token removed from the first one.
func blockBody(blk Block, dateText string) []string {
	body := make([]string, 0, len(blk))
	if rest := strings.TrimSpace(strings.TrimPrefix(blk[0], dateText)); rest != "" {
		body = append(body, rest)
	}
	return append(body, blk[1:]...)
}

// payeeFromLine cuts the text after "Paid to" at a UPI marker, a "#" tag or a trailing amount.
func payeeFromLine(s string) string {
	if i := strings.Index(s, "UPI"); i >= 0 {
		s = s[:i]
	}
	if i := strings.Index(s, "#"); i >= 0 {
		s = s[:i]
	}
	s = markedTrailing.ReplaceAllString(strings.TrimSpace(s), "")
	return strings.TrimSpace(s)
}
