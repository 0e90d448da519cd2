package parser

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/FACorreiaa/statement-ingest/internal/domain/statement/amount"
	"github.com/FACorreiaa/statement-ingest/internal/domain/statement/candidate"
	"github.com/FACorreiaa/statement-ingest/internal/domain/statement/normalizer"
	"github.com/FACorreiaa/statement-ingest/internal/domain/statement/sniffer"
)

// extractRows interprets every row below the header as one transaction.
func (p *Parser) extractRows(header sniffer.TableHeader, rows [][]string) *Result {
	layout := sniffer.ClassifyHeaders(header.Labels)
	cols := sniffer.ColumnsFor(layout, header.Labels)
	builder := p.builderFor(bannerText(rows[:header.Index]))

	p.logger.Debug("detected table layout",
		slog.String("layout", layout.String()),
		slog.Int("header_row", header.Index),
		slog.String("fingerprint", header.Fingerprint))

	res := &Result{Layout: layout}
	for i := header.Index + 1; i < len(rows); i++ {
		row := rows[i]
		if isBlankRow(row) {
			continue
		}
		if res.Units >= p.maxBlocks {
			p.logger.Warn("document exceeds row limit, truncating", slog.Int("limit", p.maxBlocks))
			res.Truncated = true
			break
		}
		res.Units++

		c, ok, err := processRow(builder, layout, cols, row)
		if err != nil {
			rowErr := RowError{Row: i + 1, Message: err.Error()}
			res.RowErrors = append(res.RowErrors, rowErr)
			res.Dropped++
			p.logger.Debug("skipped row", slog.Any("error", rowErr))
			continue
		}
		if !ok {
			res.Dropped++
			continue
		}
		res.Candidates = append(res.Candidates, c)
	}

	return res
}

// processRow builds one candidate. A panic while reading the row is reported as an error so the
// remaining rows are still processed.
func processRow(b *candidate.Builder, layout sniffer.Layout, cols sniffer.Columns, row []string) (c candidate.Candidate, ok bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			c, ok, err = candidate.Candidate{}, false, fmt.Errorf("panic while parsing row: %v", r)
		}
	}()

	d, keep := draftFor(layout, cols, row)
	if !keep {
		return candidate.Candidate{}, false, nil
	}
	c, ok = b.Build(d)
	return c, ok, nil
}

// draftFor applies the per-layout column rules. The second result is false for rows that are
// not completed debits: failed payments and income.
func draftFor(layout sniffer.Layout, cols sniffer.Columns, row []string) (candidate.Draft, bool) {
	cell := func(idx int) string {
		if idx < 0 || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	if status := strings.ToLower(cell(cols.Status)); status != "" &&
		!strings.Contains(status, "success") && !strings.Contains(status, "completed") {
		return candidate.Draft{}, false
	}

	d := candidate.Draft{
		DateText:  cell(cols.Date),
		Category:  cell(cols.Category),
		Reference: cell(cols.Reference),
		Text:      strings.Join(row, " "),
	}
	desc := cell(cols.Description)

	switch layout {
	case sniffer.LayoutPhonePe:
		d.Amount = amount.ParseCell(cell(cols.Amount))
		if dir := strings.ToLower(cell(cols.Direction)); dir != "" {
			d.IsDebit = strings.Contains(dir, "debit") || strings.Contains(dir, "dr")
			d.Amount = d.Amount.Abs()
		} else {
			d.IsDebit = d.Amount.IsPositive()
		}

	case sniffer.LayoutGooglePay:
		raw := cell(cols.Amount)
		d.IsDebit = strings.Contains(raw, "-")
		d.Amount = amount.ParseCell(strings.ReplaceAll(raw, "-", "")).Abs()
		lower := strings.ToLower(desc)
		if strings.HasPrefix(lower, "sent to") || strings.HasPrefix(lower, "paid to") {
			d.IsDebit = true
		}

	case sniffer.LayoutPaytm:
		d.Amount = amount.ParseCell(cell(cols.Debit)).Abs()
		d.IsDebit = d.Amount.IsPositive()

	default:
		if debit := amount.ParseCell(cell(cols.Debit)).Abs(); debit.IsPositive() {
			d.Amount, d.IsDebit = debit, true
			break
		}
		if !amount.ParseCell(cell(cols.Credit)).IsZero() {
			return candidate.Draft{}, false
		}
		if cols.Amount >= 0 {
			d.Amount = amount.ParseCell(cell(cols.Amount))
			if dir := strings.ToLower(cell(cols.Direction)); dir != "" {
				d.IsDebit = strings.Contains(dir, "dr") || strings.Contains(dir, "debit")
				d.Amount = d.Amount.Abs()
			} else {
				d.IsDebit = true
			}
		}
	}

	d.Description = normalizer.CleanNarration(desc)
	return d, true
}

// isBlankRow reports rows with no cells, only blank cells or only "-" placeholders.
func isBlankRow(row []string) bool {
	for _, cell := range row {
		if c := strings.TrimSpace(cell); c != "" && c != "-" {
			return false
		}
	}
	return true
}

func bannerText(rows [][]string) string {
	var sb strings.Builder
	for _, row := range rows {
		sb.WriteString(strings.Join(row, " "))
		sb.WriteByte('\n')
	}
	return sb.String()
}
