package amount

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestExtract(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		day     int
		amount  string
		isDebit bool
		payee   string
	}{
		{
			name:    "paid to with rs marker",
			text:    "15 Jan, 2024\nPaid to Amit Traders\nRs.250\nTransaction ID 123456",
			day:     15,
			amount:  "250",
			isDebit: true,
			payee:   "Amit Traders",
		},
		{
			name:    "rupee sign with thousands separator",
			text:    "Paid to Croma Retail ₹1,249.50",
			amount:  "1249.50",
			isDebit: true,
			payee:   "Croma Retail",
		},
		{
			name:    "payee truncated at upi marker",
			text:    "Paid to Swiggy UPI Ref 998877\nINR 320",
			amount:  "320",
			isDebit: true,
			payee:   "Swiggy",
		},
		{
			name:    "money sent to",
			text:    "Money Sent to Priya Sharma\n₹ 500",
			amount:  "500",
			isDebit: true,
			payee:   "Priya Sharma",
		},
		{
			name:    "paid successfully to",
			text:    "Paid Successfully to Zomato DEBIT ₹410",
			amount:  "410",
			isDebit: true,
			payee:   "Zomato",
		},
		{
			name:    "first currency amount wins",
			text:    "Paid to Store Rs 120 Balance Rs 5,000",
			amount:  "120",
			isDebit: true,
			payee:   "Store",
		},
		{
			name:    "negative marker overrides",
			text:    "Cashback Rs 20 Purchase -₹750.00",
			amount:  "750.00",
			isDebit: true,
		},
		{
			name:    "forced debit without payee",
			text:    "15/01/2024 NEFT/DR/ACME Ltd INR 1200",
			day:     15,
			amount:  "1200",
			isDebit: true,
		},
		{
			name:    "mixed case debit marker",
			text:    "15 Jan 2024 Card purchase Debit Rs 120.00",
			day:     15,
			amount:  "120.00",
			isDebit: true,
		},
		{
			name:    "lower case dr path",
			text:    "15 Jan 2024 NEFT/dr/Big Bazaar Rs 99",
			day:     15,
			amount:  "99",
			isDebit: true,
		},
		{
			name:    "debited suffix",
			text:    "ATM withdrawal DEBITED Rs 500",
			amount:  "500",
			isDebit: true,
		},
		{
			name:    "debited from",
			text:    "Electricity Bill Debited from HDFC Bank Rs. 899",
			amount:  "899",
			isDebit: true,
		},
		{
			name:    "loose decimal preferred",
			text:    "19 Jan 2026 10:42 Paid to Tea Stall 35.50 18",
			day:     19,
			amount:  "35.50",
			isDebit: true,
			payee:   "Tea Stall 35.50 18",
		},
		{
			name:    "loose skips year time and day",
			text:    "19 Jan 2026 10:42 Paid to Tea Stall 40",
			day:     19,
			amount:  "40",
			isDebit: true,
			payee:   "Tea Stall 40",
		},
		{
			name:    "loose takes last value that is not the day",
			text:    "Paid to Kiosk 60 19",
			day:     19,
			amount:  "60",
			isDebit: true,
			payee:   "Kiosk 60 19",
		},
		{
			name:   "no direction means no loose scan",
			text:   "Opening balance 4500",
			amount: "0",
		},
		{
			name:   "credit without marker is not a debit",
			text:   "Refund CREDIT Rs 99",
			amount: "99",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Extract(tt.text, tt.day)
			assert.False(t, got.Income)
			assert.True(t, dec(tt.amount).Equal(got.Amount), "amount: want %s got %s", tt.amount, got.Amount)
			assert.Equal(t, tt.isDebit, got.IsDebit)
			assert.Equal(t, tt.payee, got.Payee)
		})
	}
}

func TestExtract_Income(t *testing.T) {
	got := Extract("12 Feb 2024\nReceived from Jane\n₹2,000", 12)
	assert.True(t, got.Income)
	assert.False(t, got.IsDebit)
	assert.False(t, got.OK())
}

func TestResult_OK(t *testing.T) {
	assert.True(t, Result{Amount: dec("1"), IsDebit: true}.OK())
	assert.False(t, Result{Amount: dec("0"), IsDebit: true}.OK())
	assert.False(t, Result{Amount: dec("10"), IsDebit: false}.OK())
}

func TestCurrencyAmounts(t *testing.T) {
	got := CurrencyAmounts("Rs 10 then INR 2,500.5 and ₹0 and Mrs 40 and hrs 3")
	require.Len(t, got, 2)
	assert.True(t, dec("10").Equal(got[0]))
	assert.True(t, dec("2500.5").Equal(got[1]))

	assert.True(t, HasCurrencyAmount("₹99"))
	assert.False(t, HasCurrencyAmount("Amit Traders"))
}

func TestParseCell(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"500", "500"},
		{"1,250.00", "1250"},
		{"₹ 1,249.50", "1249.5"},
		{"Rs. 80", "80"},
		{"INR 42", "42"},
		{"-75", "-75"},
		{"", "0"},
		{"-", "0"},
		{"n/a", "0"},
		{"2024-01-15", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := ParseCell(tt.in)
			assert.True(t, dec(tt.want).Equal(got), "want %s got %s", tt.want, got)
		})
	}
}
