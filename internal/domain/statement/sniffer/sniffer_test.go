package sniffer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindHeader(t *testing.T) {
	t.Run("skips banner rows", func(t *testing.T) {
		rows := [][]string{
			{"HDFC BANK Ltd."},
			{"Statement date: 01/02/2024"},
			{"Account No", "XXXX1234"},
			{" Date ", "Narration", "Withdrawal Amt.", "Deposit Amt."},
			{"15/01/24", "UPI-SWIGGY", "250.00", ""},
		}

		h, ok := FindHeader(rows)
		require.True(t, ok)
		assert.Equal(t, 3, h.Index)
		assert.Equal(t, []string{"date", "narration", "withdrawal amt.", "deposit amt."}, h.Labels)
		assert.Len(t, h.Fingerprint, 64)
	})

	t.Run("dt column", func(t *testing.T) {
		h, ok := FindHeader([][]string{{"DT", "AMOUNT"}})
		require.True(t, ok)
		assert.Equal(t, 0, h.Index)
	})

	t.Run("contained date label", func(t *testing.T) {
		h, ok := FindHeader([][]string{{"Txn Date", "Amount", "Description"}})
		require.True(t, ok)
		assert.Equal(t, "txn date", h.Labels[0])
	})

	t.Run("byte order mark on first cell", func(t *testing.T) {
		h, ok := FindHeader([][]string{{"\uFEFFDate", "Amount"}})
		require.True(t, ok)
		assert.Equal(t, "date", h.Labels[0])
	})

	t.Run("no header", func(t *testing.T) {
		_, ok := FindHeader([][]string{{"a", "b"}, {"1", "2"}})
		assert.False(t, ok)
	})

	t.Run("fingerprint ignores case and punctuation", func(t *testing.T) {
		a, _ := FindHeader([][]string{{"Date", "Withdrawal Amt."}})
		b, _ := FindHeader([][]string{{"DATE", "withdrawal amt"}})
		assert.Equal(t, a.Fingerprint, b.Fingerprint)
	})
}

func TestDetectDelimiter(t *testing.T) {
	tests := []struct {
		name string
		text string
		want rune
	}{
		{"comma", "Date,Amount,Narration\n2024-01-15,500,Coffee", ','},
		{"semicolon", "Date;Amount;Narration\r\n15/01/2024;500;Coffee", ';'},
		{"tab", "Date\tAmount\tNarration\n15/01/2024\t500\tCoffee", '\t'},
		{"pipe", "Date|Amount|Narration", '|'},
		{"single column", "Date", ','},
		{"comma inside text", "Bank, Ltd\nDate;Amount;Narration;Ref\n1;2;3;4", ';'},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectDelimiter(tt.text))
		})
	}
}

func TestClassifyHeaders(t *testing.T) {
	tests := []struct {
		name   string
		labels []string
		want   Layout
	}{
		{"phonepe banner cell", []string{"date", "phonepe", "amount"}, LayoutPhonePe},
		{"phonepe signature", []string{"date", "transaction id", "provider reference id", "amount"}, LayoutPhonePe},
		{"gpay banner cell", []string{"date", "google pay"}, LayoutGooglePay},
		{"gpay signature", []string{"date", "transaction id", "status", "amount"}, LayoutGooglePay},
		{"paytm wallet id", []string{"date", "wallet txn id", "debit"}, LayoutPaytm},
		{"paytm signature", []string{"date", "activity", "debit", "credit"}, LayoutPaytm},
		{"generic", []string{"date", "narration", "debit", "credit"}, LayoutGeneric},
		{"empty", nil, LayoutGeneric},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyHeaders(tt.labels))
		})
	}
}

func TestClassifyBanner(t *testing.T) {
	tests := []struct {
		text string
		want Layout
	}{
		{"Transaction statement\nGoogle Pay\n...", LayoutGooglePay},
		{"googlepay.com", LayoutGooglePay},
		{"Paytm Statement for 1 Apr'25 - 21 Jan'26", LayoutPaytm},
		{"PASSBOOK PAYMENTS HISTORY", LayoutPaytm},
		{"PhonePe transaction statement", LayoutPhonePe},
		{"HDFC Bank statement", LayoutGeneric},
	}

	for _, tt := range tests {
		t.Run(tt.want.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyBanner(tt.text))
		})
	}
}

func TestDetectFormat(t *testing.T) {
	assert.Equal(t, FormatPDF, DetectFormat("statement.PDF"))
	assert.Equal(t, FormatXLSX, DetectFormat("/tmp/passbook.xlsx"))
	assert.Equal(t, FormatCSV, DetectFormat("export.csv"))
	assert.Equal(t, FormatCSV, DetectFormat("export.txt"))
	assert.Equal(t, FormatCSV, DetectFormat("noext"))
	assert.Equal(t, "xlsx", FormatXLSX.String())
}

func TestInferColumns(t *testing.T) {
	t.Run("bank export", func(t *testing.T) {
		c := InferColumns([]string{"date", "narration", "chq./ref.no.", "value dt", "withdrawal amt.", "deposit amt.", "closing balance"})
		assert.Equal(t, 0, c.Date)
		assert.Equal(t, 1, c.Description)
		assert.Equal(t, 2, c.Reference)
		assert.Equal(t, 4, c.Debit)
		assert.Equal(t, 5, c.Credit)
		assert.Equal(t, -1, c.Amount)
		assert.Equal(t, -1, c.Direction)
	})

	t.Run("amount with direction", func(t *testing.T) {
		c := InferColumns([]string{"txn date", "description", "amount", "dr/cr", "utr", "tags"})
		assert.Equal(t, 0, c.Date)
		assert.Equal(t, 1, c.Description)
		assert.Equal(t, 2, c.Amount)
		assert.Equal(t, 3, c.Direction)
		assert.Equal(t, 4, c.Reference)
		assert.Equal(t, 5, c.Category)
	})

	t.Run("debit credit narration", func(t *testing.T) {
		c := InferColumns([]string{"date", "debit", "credit", "narration"})
		assert.Equal(t, 1, c.Debit)
		assert.Equal(t, 2, c.Credit)
		assert.Equal(t, 3, c.Description)
	})
}

func TestColumnsFor(t *testing.T) {
	t.Run("phonepe", func(t *testing.T) {
		labels := []string{"date", "transaction id", "provider reference id", "type", "amount", "status", "remarks"}
		c := ColumnsFor(LayoutPhonePe, labels)
		assert.Equal(t, 0, c.Date)
		assert.Equal(t, 1, c.Reference)
		assert.Equal(t, 3, c.Direction)
		assert.Equal(t, 4, c.Amount)
		assert.Equal(t, 5, c.Status)
		assert.Equal(t, 6, c.Description)
	})

	t.Run("paytm", func(t *testing.T) {
		labels := []string{"date", "activity", "source/destination", "wallet txn id", "comment", "debit", "credit", "status", "tags"}
		c := ColumnsFor(LayoutPaytm, labels)
		assert.Equal(t, 2, c.Description)
		assert.Equal(t, 3, c.Reference)
		assert.Equal(t, 5, c.Debit)
		assert.Equal(t, 6, c.Credit)
		assert.Equal(t, 7, c.Status)
		assert.Equal(t, 8, c.Category)
	})

	t.Run("gpay", func(t *testing.T) {
		labels := []string{"date", "title", "transaction id", "amount", "status"}
		c := ColumnsFor(LayoutGooglePay, labels)
		assert.Equal(t, 1, c.Description)
		assert.Equal(t, 2, c.Reference)
		assert.Equal(t, 3, c.Amount)
		assert.Equal(t, -1, c.Debit)
	})
}
