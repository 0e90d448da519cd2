// Package amount finds monetary values in statement text and decides the direction of a
// transaction.
package amount

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// maxLooseAmount bounds numbers picked up without a currency marker.
var maxLooseAmount = decimal.NewFromInt(10_000_000)

var (
	currencyAmount = regexp.MustCompile(`(?i)(?:₹|\brs\.?|\binr)\s*(\d[\d,]*(?:\.\d{1,2})?)`)
	negativeAmount = regexp.MustCompile(`(?i)-\s*(?:₹|rs\.?|inr)\s*(\d[\d,]*(?:\.\d{1,2})?)`)
	looseNumber    = regexp.MustCompile(`\d+(?:[.,:]\d+)*`)

	payeePhrase = regexp.MustCompile(
		`(?im)\b(?:money\s+sent\s+to|paid\s+successfully\s+to|paid\s+to|sent\s+to)\s*:?\s*(.+?)(?:\s+(?:debit|credit|rs\b|inr\b|transaction|txn|ref)|\s*₹|$)`,
	)
	payeeBoilerplate = regexp.MustCompile(`(?i)\b(?:transaction\s+id|txn\s+id|ref\.?\s*no|upi|debited\s+from)\b`)

	incomePhrase = regexp.MustCompile(`(?i)\breceived\s+from\b`)
	// forcedDebit matches anywhere in the unit regardless of case: "Debit", "DEBITED", "/dr".
	forcedDebit = regexp.MustCompile(`(?i)debit|/dr|\sdr(?:\s|$)`)
)

// Result is what Extract found in one transaction unit.
type Result struct {
	Amount  decimal.Decimal
	IsDebit bool
	// Payee is the counterparty named after a "Paid to" style phrase, empty when none was found.
	Payee string
	// Income is set when the unit describes money received. Such units are skipped.
	Income bool
}

// OK reports whether the unit qualifies as an expense.
func (r Result) OK() bool {
	return !r.Income && r.IsDebit && r.Amount.IsPositive()
}

// Extract scans the joined text of a transaction unit. dayOfMonth is the day the unit is dated
// on, or 0 when unknown; the loose numeric fallback avoids picking it as the amount.
func Extract(text string, dayOfMonth int) Result {
	if incomePhrase.MatchString(text) {
		return Result{Income: true}
	}

	var res Result

	if m := payeePhrase.FindStringSubmatch(text); m != nil {
		res.IsDebit = true
		res.Payee = cleanPayee(m[1])
	}
	if forcedDebit.MatchString(text) {
		res.IsDebit = true
	}

	if m := negativeAmount.FindStringSubmatch(text); m != nil {
		if v, ok := parseToken(m[1]); ok && v.IsPositive() {
			res.Amount = v
			res.IsDebit = true
			return res
		}
	}

	if amounts := CurrencyAmounts(text); len(amounts) > 0 {
		res.Amount = amounts[0]
		return res
	}

	if res.IsDebit {
		if v, ok := looseAmount(text, dayOfMonth); ok {
			res.Amount = v
		}
	}

	return res
}

// CurrencyAmounts returns every positive currency-marked value in text, in order.
func CurrencyAmounts(text string) []decimal.Decimal {
	matches := currencyAmount.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil
	}

	out := make([]decimal.Decimal, 0, len(matches))
	for _, m := range matches {
		if v, ok := parseToken(m[1]); ok && v.IsPositive() {
			out = append(out, v)
		}
	}
	return out
}

// HasCurrencyAmount reports whether s carries a currency-marked value.
func HasCurrencyAmount(s string) bool {
	return len(CurrencyAmounts(s)) > 0
}

// looseAmount picks an amount from unmarked numbers. Times and calendar years are ignored.
// The first decimal value wins; otherwise the last value that is not the day of the month.
func looseAmount(text string, dayOfMonth int) (decimal.Decimal, bool) {
	var values []decimal.Decimal
	for _, tok := range looseNumber.FindAllString(text, -1) {
		if strings.Contains(tok, ":") {
			continue
		}
		v, ok := parseToken(tok)
		if !ok {
			continue
		}
		if len(tok) == 4 && v.GreaterThan(decimal.NewFromInt(1900)) && v.LessThan(decimal.NewFromInt(2100)) {
			continue
		}
		if !v.IsPositive() || !v.LessThan(maxLooseAmount) {
			continue
		}
		values = append(values, v)
	}

	for _, v := range values {
		if !v.IsInteger() {
			return v, true
		}
	}

	day := decimal.NewFromInt(int64(dayOfMonth))
	for i := len(values) - 1; i >= 0; i-- {
		if !values[i].Equal(day) {
			return values[i], true
		}
	}
	return decimal.Zero, false
}

// parseToken reads a number that uses ',' as a thousands separator.
func parseToken(tok string) (decimal.Decimal, bool) {
	v, err := decimal.NewFromString(strings.ReplaceAll(tok, ",", ""))
	if err != nil {
		return decimal.Zero, false
	}
	return v, true
}

func cleanPayee(s string) string {
	if loc := payeeBoilerplate.FindStringIndex(s); loc != nil {
		s = s[:loc[0]]
	}
	return strings.TrimSpace(s)
}
