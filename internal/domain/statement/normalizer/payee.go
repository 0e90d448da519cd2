package normalizer

import (
	"strings"

	"github.com/FACorreiaa/statement-ingest/internal/domain/statement/amount"
	"github.com/FACorreiaa/statement-ingest/internal/domain/statement/dates"
)

// PayeeBeforeAmount returns the line just before the first line carrying a currency-marked
// amount. Lines mentioning "Date" or "Time", lines of two characters or fewer and date lines
// are rejected, in which case the result is empty.
func PayeeBeforeAmount(lines []string) string {
	for i, line := range lines {
		if !amount.HasCurrencyAmount(line) {
			continue
		}
		if i == 0 {
			return ""
		}

		prev := strings.TrimSpace(lines[i-1])
		if len(prev) <= 2 || strings.Contains(prev, "Date") || strings.Contains(prev, "Time") {
			return ""
		}
		if _, isDate := dates.LeadingDate(prev); isDate {
			return ""
		}
		return prev
	}
	return ""
}
