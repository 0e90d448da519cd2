package parser

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/FACorreiaa/statement-ingest/internal/domain/statement/candidate"
	"github.com/FACorreiaa/statement-ingest/internal/domain/statement/dates"
	"github.com/FACorreiaa/statement-ingest/internal/domain/statement/sniffer"
)

func newTestParser() *Parser {
	resolver := dates.NewResolver(dates.WithClock(func() time.Time {
		return time.Date(2026, time.January, 25, 9, 0, 0, 0, time.UTC)
	}))
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewParser(candidate.NewBuilder(resolver), logger)
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestExtract_CSV(t *testing.T) {
	p := newTestParser()

	t.Run("debit row", func(t *testing.T) {
		data := []byte("Date,Debit,Credit,Narration\n2024-01-15,500,,Coffee Shop\n")

		res, err := p.Extract(data, "statement.csv")
		require.NoError(t, err)
		assert.Equal(t, sniffer.FormatCSV, res.Format)
		assert.Equal(t, sniffer.LayoutGeneric, res.Layout)
		require.Len(t, res.Candidates, 1)

		c := res.Candidates[0]
		assert.Equal(t, day(2024, time.January, 15), c.Date)
		assert.True(t, decimal.NewFromInt(500).Equal(c.Amount))
		assert.True(t, c.IsDebit)
		assert.Equal(t, "Coffee Shop", c.Description)
		assert.Equal(t, "Other", c.Category)
	})

	t.Run("credit row is income", func(t *testing.T) {
		data := []byte("Date,Debit,Credit,Narration\n2024-01-16,,2000,Salary\n")

		res, err := p.Extract(data, "statement.csv")
		require.NoError(t, err)
		assert.Empty(t, res.Candidates)
		assert.Equal(t, 1, res.Units)
		assert.Equal(t, 1, res.Dropped)
	})

	t.Run("amount and type columns", func(t *testing.T) {
		data := []byte("Txn Date,Particulars,Amount,Dr/Cr,Ref No\n" +
			"2024-02-10,Paid to Grocer 9876543210,1200.50,DR,R1\n" +
			"2024-02-11,Refund,300,CR,R2\n")

		res, err := p.Extract(data, "bank.csv")
		require.NoError(t, err)
		require.Len(t, res.Candidates, 1)
		assert.Equal(t, "Grocer", res.Candidates[0].Description)
		assert.Equal(t, "R1", res.Candidates[0].Reference)
		assert.True(t, decimal.RequireFromString("1200.50").Equal(res.Candidates[0].Amount))
	})

	t.Run("semicolon delimiter with byte order mark", func(t *testing.T) {
		data := []byte("\xEF\xBB\xBFDate;Debit;Narration;Tag\n2024-03-01;75.25;Metro card;#travel\n")

		res, err := p.Extract(data, "export.csv")
		require.NoError(t, err)
		require.Len(t, res.Candidates, 1)
		assert.Equal(t, "Metro card", res.Candidates[0].Description)
		assert.Equal(t, "Travel", res.Candidates[0].Category)
	})

	t.Run("latin-1 bytes are decoded", func(t *testing.T) {
		data := []byte("Date,Debit,Narration\n2024-03-02,90,Caf\xe9 Nero\n")

		res, err := p.Extract(data, "export.csv")
		require.NoError(t, err)
		require.Len(t, res.Candidates, 1)
		assert.Equal(t, "Café Nero", res.Candidates[0].Description)
	})

	t.Run("banner period resolves yearless dates", func(t *testing.T) {
		data := []byte("Statement 1 Apr'25 - 21 Jan'26\nDate,Debit,Narration\n19 Dec,100,Tea\n2 Jan,40,Bus\n")

		res, err := p.Extract(data, "export.csv")
		require.NoError(t, err)
		require.Len(t, res.Candidates, 2)
		assert.Equal(t, day(2025, time.December, 19), res.Candidates[0].Date)
		assert.Equal(t, day(2026, time.January, 2), res.Candidates[1].Date)
	})

	t.Run("blank rows are not units", func(t *testing.T) {
		data := []byte("Date,Debit,Narration\n,,\n-,-,-\n2024-03-03,10,Tea\n")

		res, err := p.Extract(data, "export.csv")
		require.NoError(t, err)
		assert.Equal(t, 1, res.Units)
		assert.Len(t, res.Candidates, 1)
	})

	t.Run("unparseable date drops the row", func(t *testing.T) {
		data := []byte("Date,Debit,Narration\nyesterday,10,Tea\n")

		res, err := p.Extract(data, "export.csv")
		require.NoError(t, err)
		assert.Empty(t, res.Candidates)
		assert.Equal(t, 1, res.Dropped)
	})
}

func TestExtract_ProviderCSV(t *testing.T) {
	p := newTestParser()

	t.Run("phonepe", func(t *testing.T) {
		data := []byte("Date,Transaction ID,Provider Reference ID,Type,Amount,Description,Status\n" +
			"2024-02-01,T1,P1,DEBIT,₹250,Paid to Ravi,SUCCESS\n" +
			"2024-02-02,T2,P2,DEBIT,₹99,Paid to Shop,FAILED\n" +
			"2024-02-03,T3,P3,CREDIT,₹500,Received from Asha,SUCCESS\n")

		res, err := p.Extract(data, "phonepe.csv")
		require.NoError(t, err)
		assert.Equal(t, sniffer.LayoutPhonePe, res.Layout)
		require.Len(t, res.Candidates, 1)
		assert.Equal(t, "Ravi", res.Candidates[0].Description)
		assert.Equal(t, "T1", res.Candidates[0].Reference)
		assert.Equal(t, 3, res.Units)
		assert.Equal(t, 2, res.Dropped)
	})

	t.Run("google pay", func(t *testing.T) {
		data := []byte("Date,Description,Amount,Status,Transaction ID\n" +
			"2024-03-05,Sent to Kiran,250.00,Completed,G1\n" +
			"2024-03-06,Refund,+99,Completed,G2\n" +
			"2024-03-07,Netflix,-649,Completed,G3\n")

		res, err := p.Extract(data, "gpay.csv")
		require.NoError(t, err)
		assert.Equal(t, sniffer.LayoutGooglePay, res.Layout)
		require.Len(t, res.Candidates, 2)
		assert.Equal(t, "Sent to Kiran", res.Candidates[0].Description)
		assert.True(t, decimal.NewFromInt(649).Equal(res.Candidates[1].Amount))
		assert.Equal(t, "G3", res.Candidates[1].Reference)
	})

	t.Run("paytm", func(t *testing.T) {
		data := []byte("Date,Activity,Source/Destination,Wallet Txn ID,Debit,Credit,Status,Tags\n" +
			"2024-04-01,Paid,Chai Point,W1,-120,,SUCCESS,#Food\n" +
			"2024-04-02,Added,Bank,W2,,500,SUCCESS,\n")

		res, err := p.Extract(data, "paytm.csv")
		require.NoError(t, err)
		assert.Equal(t, sniffer.LayoutPaytm, res.Layout)
		require.Len(t, res.Candidates, 1)

		c := res.Candidates[0]
		assert.Equal(t, "Chai Point", c.Description)
		assert.Equal(t, "Food", c.Category)
		assert.Equal(t, "W1", c.Reference)
		assert.True(t, decimal.NewFromInt(120).Equal(c.Amount))
	})
}

func TestExtract_XLSX(t *testing.T) {
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{"Date", "Debit", "Credit", "Narration"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]interface{}{"2024-01-15", "500", "", "Coffee Shop"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A3", &[]interface{}{"2024-01-16", "", "2000", "Salary"}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	res, err := newTestParser().Extract(buf.Bytes(), "statement.xlsx")
	require.NoError(t, err)
	assert.Equal(t, sniffer.FormatXLSX, res.Format)
	require.Len(t, res.Candidates, 1)
	assert.Equal(t, "Coffee Shop", res.Candidates[0].Description)
}

func TestExtract_Errors(t *testing.T) {
	p := newTestParser()

	t.Run("empty", func(t *testing.T) {
		_, err := p.Extract(nil, "statement.csv")
		assert.ErrorIs(t, err, ErrEmptyDocument)
	})

	t.Run("whitespace only", func(t *testing.T) {
		_, err := p.Extract([]byte("\n\n  \n"), "statement.csv")
		assert.ErrorIs(t, err, ErrEmptyDocument)
	})

	t.Run("no header", func(t *testing.T) {
		_, err := p.Extract([]byte("foo,bar\n1,2\n"), "statement.csv")
		assert.ErrorIs(t, err, ErrUnreadableDocument)
		assert.ErrorIs(t, err, sniffer.ErrNoHeadersFound)
	})

	t.Run("broken pdf", func(t *testing.T) {
		_, err := p.Extract([]byte("definitely not a pdf"), "statement.pdf")
		assert.ErrorIs(t, err, ErrUnreadableDocument)
	})

	t.Run("broken xlsx", func(t *testing.T) {
		_, err := p.Extract([]byte("PK not really"), "statement.xlsx")
		assert.ErrorIs(t, err, ErrUnreadableDocument)
	})
}

func TestExtract_RowLimit(t *testing.T) {
	p := newTestParser().WithMaxBlocks(1)
	data := []byte("Date,Debit,Narration\n2024-01-01,10,Tea\n2024-01-02,20,Coffee\n")

	res, err := p.Extract(data, "statement.csv")
	require.NoError(t, err)
	assert.True(t, res.Truncated)
	assert.Len(t, res.Candidates, 1)
}

func TestExtractLines_Generic(t *testing.T) {
	lines := []string{
		"Account Statement",
		"15 Jan, 2024",
		"Paid to Amit Traders",
		"Rs.250",
		"Transaction ID 123456",
		"16 Jan, 2024",
		"Received from Jane",
		"Rs.1,000",
	}

	res := newTestParser().ExtractLines(lines)
	assert.Equal(t, sniffer.LayoutGeneric, res.Layout)
	assert.Equal(t, 2, res.Units)
	require.Len(t, res.Candidates, 1)

	c := res.Candidates[0]
	assert.Equal(t, day(2024, time.January, 15), c.Date)
	assert.True(t, decimal.NewFromInt(250).Equal(c.Amount))
	assert.Equal(t, "Amit Traders", c.Description)
}

func TestExtractLines_GooglePay(t *testing.T) {
	lines := []string{
		"Google Pay",
		"Transaction statement",
		"Date & time Transaction details Amount",
		"01 Jul, 2025",
		"10:15 AM",
		"Paid to Zomato Ltd ₹450.00",
		"UPI Transaction ID: 5123",
		"Paid by HDFC Bank 1234",
		"02 Jul, 2025",
		"Received from Rahul ₹1,000",
		"03 Jul, 2025 Paid to Big Bazaar",
		"12:00 PM",
		"₹ 1,250.50",
	}

	res := newTestParser().ExtractLines(lines)
	assert.Equal(t, sniffer.LayoutGooglePay, res.Layout)
	assert.Equal(t, 3, res.Units)
	assert.Equal(t, 1, res.Dropped)
	require.Len(t, res.Candidates, 2)

	assert.Equal(t, "Zomato Ltd", res.Candidates[0].Description)
	assert.True(t, decimal.RequireFromString("450").Equal(res.Candidates[0].Amount))
	assert.Equal(t, day(2025, time.July, 1), res.Candidates[0].Date)

	assert.Equal(t, "Big Bazaar", res.Candidates[1].Description)
	assert.True(t, decimal.RequireFromString("1250.50").Equal(res.Candidates[1].Amount))
}

func TestExtractLines_Paytm(t *testing.T) {
	lines := []string{
		"Paytm Statement for 1 Apr'25 - 21 Jan'26",
		"Passbook Payments History",
		"Date & Time Transaction Details Amount",
		"19 Dec",
		"8:30 PM",
		"Paid to Chai Point",
		"UPI Ref No: 998877",
		"#Food",
		"- Rs.120",
		"3 Jan",
		"Received from Mom",
		"+ Rs.5,000",
		"5 Jan",
		"Paid to Uber India",
		"Rs.349.50",
	}

	res := newTestParser().ExtractLines(lines)
	assert.Equal(t, sniffer.LayoutPaytm, res.Layout)
	assert.Equal(t, 3, res.Units)
	require.Len(t, res.Candidates, 2)

	first := res.Candidates[0]
	assert.Equal(t, day(2025, time.December, 19), first.Date)
	assert.Equal(t, "Chai Point", first.Description)
	assert.Equal(t, "Food", first.Category)
	assert.True(t, decimal.NewFromInt(120).Equal(first.Amount))

	second := res.Candidates[1]
	assert.Equal(t, day(2026, time.January, 5), second.Date)
	assert.Equal(t, "Uber India", second.Description)
	assert.Equal(t, "Other", second.Category)
}

func TestExtractLines_BlockLimit(t *testing.T) {
	lines := []string{
		"15 Jan, 2024", "Paid to A", "Rs.10",
		"16 Jan, 2024", "Paid to B", "Rs.20",
		"17 Jan, 2024", "Paid to C", "Rs.30",
	}

	res := newTestParser().WithMaxBlocks(2).ExtractLines(lines)
	assert.True(t, res.Truncated)
	assert.Equal(t, 2, res.Units)
	assert.Len(t, res.Candidates, 2)
}

func TestReadCSVRows_KeepsGoodRecords(t *testing.T) {
	rows, rowErrs, err := ReadCSVRows([]byte("Date,Debit\r\n2024-01-01,10\r\n2024-01-02,20\r\n"))
	require.NoError(t, err)
	assert.Empty(t, rowErrs)
	assert.Len(t, rows, 3)
	assert.Equal(t, []string{"2024-01-02", "20"}, rows[2])
}

func TestTransactionSheet(t *testing.T) {
	assert.Equal(t, "Passbook", transactionSheet([]string{"Summary", "Passbook"}))
	assert.Equal(t, "Summary", transactionSheet([]string{"Summary", "Other"}))
	assert.Empty(t, transactionSheet(nil))
}
