// Package money formats statement amounts for display. Arithmetic runs on integer minor units
// through go-money so totals never drift.
package money

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// INR is the currency of every supported wallet export.
const INR = "INR"

// Money is a monetary value in minor units with its currency.
type Money struct {
	m *money.Money
}

// New creates a value from minor units (paise for INR).
func New(amountMinor int64, currencyCode string) *Money {
	return &Money{m: money.New(amountMinor, currencyCode)}
}

// NewFromDecimal rounds amount to the currency's minor unit.
func NewFromDecimal(amount decimal.Decimal, currencyCode string) *Money {
	fraction := 2
	if c := money.GetCurrency(currencyCode); c != nil {
		fraction = c.Fraction
	}
	minor := amount.Shift(int32(fraction)).Round(0).IntPart()
	return New(minor, currencyCode)
}

func Zero(currencyCode string) *Money {
	return New(0, currencyCode)
}

// Sum totals amounts in one currency.
func Sum(currencyCode string, amounts ...decimal.Decimal) *Money {
	total := Zero(currencyCode)
	for _, a := range amounts {
		// Same currency on both sides, Add cannot fail.
		total, _ = total.Add(NewFromDecimal(a, currencyCode))
	}
	return total
}

// FormatINR renders amount as rupees, e.g. "₹1,234.50".
func FormatINR(amount decimal.Decimal) string {
	return NewFromDecimal(amount, INR).Display()
}

// Amount returns the value in minor units.
func (m *Money) Amount() int64 {
	if m == nil || m.m == nil {
		return 0
	}
	return m.m.Amount()
}

func (m *Money) Currency() string {
	if m == nil || m.m == nil {
		return ""
	}
	return m.m.Currency().Code
}

func (m *Money) IsZero() bool {
	return m.Amount() == 0
}

// Add returns m + other. Mixing currencies is an error.
func (m *Money) Add(other *Money) (*Money, error) {
	sum, err := m.m.Add(other.m)
	if err != nil {
		return nil, err
	}
	return &Money{m: sum}, nil
}

// Display formats the value with the currency symbol and grouping.
func (m *Money) Display() string {
	if m == nil || m.m == nil {
		return ""
	}
	return m.m.Display()
}

func (m *Money) String() string {
	return m.Display()
}

// ToDecimal converts back to major units.
func (m *Money) ToDecimal() decimal.Decimal {
	if m == nil || m.m == nil {
		return decimal.Zero
	}
	return decimal.New(m.m.Amount(), -int32(m.m.Currency().Fraction))
}
