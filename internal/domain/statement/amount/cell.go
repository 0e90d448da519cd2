package amount

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var currencyPrefix = regexp.MustCompile(`(?i)₹|\brs\.?|\binr\b`)

// ParseCell reads a tabular amount cell such as "1,250.00", "₹ 500" or "-75".
// Everything except digits, '.' and '-' is dropped; cells that still do not parse become zero.
func ParseCell(s string) decimal.Decimal {
	s = currencyPrefix.ReplaceAllString(s, "")

	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return decimal.Zero
	}

	v, err := decimal.NewFromString(b.String())
	if err != nil {
		return decimal.Zero
	}
	return v
}

