// Package candidate assembles extracted statement fields into expense candidates.
package candidate

import (
	"time"

	"github.com/shopspring/decimal"
)

// Candidate is an extracted transaction that has not been persisted yet.
type Candidate struct {
	Date        time.Time       `json:"date"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	IsDebit     bool            `json:"is_debit"`
	// Reference is the provider's own transaction id, when the export has one.
	Reference string `json:"reference,omitempty"`
}

// Valid reports whether c may be persisted as an expense.
func (c Candidate) Valid() bool {
	return c.IsDebit && c.Amount.IsPositive() && !c.Date.IsZero()
}
