// Package parser turns uploaded statement files into expense candidates.
// PDFs are read as text and segmented into date-anchored blocks; CSV and XLSX files are read as
// tables and interpreted row by row.
package parser

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/FACorreiaa/statement-ingest/internal/domain/statement/candidate"
	"github.com/FACorreiaa/statement-ingest/internal/domain/statement/dates"
	"github.com/FACorreiaa/statement-ingest/internal/domain/statement/sniffer"
)

// MaxBlocks caps the transaction units considered in one document.
const MaxBlocks = 100_000

var (
	ErrUnreadableDocument = errors.New("unreadable document")
	ErrEmptyDocument      = errors.New("document contains no data")
)

// RowError describes a tabular row that was skipped.
type RowError struct {
	Row     int
	Message string
}

func (e RowError) Error() string {
	return fmt.Sprintf("row %d: %s", e.Row, e.Message)
}

// Result is the outcome of extracting one document.
type Result struct {
	Format     sniffer.Format
	Layout     sniffer.Layout
	Candidates []candidate.Candidate
	// Units is the number of blocks or data rows examined.
	Units int
	// Dropped counts units that did not yield a valid debit.
	Dropped   int
	RowErrors []RowError
	// Truncated is set when the document had more than the block limit.
	Truncated bool
}

// Parser extracts candidates from statement files. A Parser holds no per-document state and
// may be shared.
type Parser struct {
	builder   *candidate.Builder
	logger    *slog.Logger
	maxBlocks int
}

// NewParser creates a parser that builds candidates with builder.
func NewParser(builder *candidate.Builder, logger *slog.Logger) *Parser {
	if builder == nil {
		builder = candidate.NewBuilder(nil)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Parser{
		builder:   builder,
		logger:    logger,
		maxBlocks: MaxBlocks,
	}
}

// WithMaxBlocks returns a copy of p with a different unit limit.
func (p *Parser) WithMaxBlocks(n int) *Parser {
	cp := *p
	if n > 0 {
		cp.maxBlocks = n
	}
	return &cp
}

// Extract reads data using the format implied by filename.
// Decoding failures are wrapped in ErrUnreadableDocument.
func (p *Parser) Extract(data []byte, filename string) (*Result, error) {
	if len(data) == 0 {
		return nil, ErrEmptyDocument
	}

	format := sniffer.DetectFormat(filename)
	switch format {
	case sniffer.FormatPDF:
		lines, err := ExtractPDFText(data)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrUnreadableDocument, err)
		}
		if len(lines) == 0 {
			return nil, ErrEmptyDocument
		}
		res := p.ExtractLines(lines)
		res.Format = format
		return res, nil

	case sniffer.FormatXLSX:
		rows, err := ReadXLSXRows(data)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrUnreadableDocument, err)
		}
		return p.extractTable(format, rows, nil)

	default:
		rows, rowErrs, err := ReadCSVRows(data)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrUnreadableDocument, err)
		}
		return p.extractTable(format, rows, rowErrs)
	}
}

// ExtractLines runs the PDF strategies over already-extracted text lines.
func (p *Parser) ExtractLines(lines []string) *Result {
	lines = cleanLines(lines)
	text := joinLines(lines)

	layout := sniffer.ClassifyBanner(text)
	builder := p.builderFor(text)
	strat := strategyFor(layout)

	res := &Result{Format: sniffer.FormatPDF, Layout: layout}

	blocks := strat.segment(lines)
	if len(blocks) > p.maxBlocks {
		p.logger.Warn("document exceeds block limit, truncating",
			slog.Int("blocks", len(blocks)),
			slog.Int("limit", p.maxBlocks))
		blocks = blocks[:p.maxBlocks]
		res.Truncated = true
	}

	for _, blk := range blocks {
		res.Units++
		c, ok := strat.build(builder, blk)
		if !ok {
			res.Dropped++
			p.logger.Debug("dropped block", slog.String("layout", layout.String()), slog.String("first_line", blk[0]))
			continue
		}
		res.Candidates = append(res.Candidates, c)
	}

	p.logger.Debug("extracted pdf text",
		slog.String("layout", layout.String()),
		slog.Int("lines", len(lines)),
		slog.Int("blocks", res.Units),
		slog.Int("candidates", len(res.Candidates)))

	return res
}

func (p *Parser) extractTable(format sniffer.Format, rows [][]string, rowErrs []RowError) (*Result, error) {
	if len(rows) == 0 {
		return nil, ErrEmptyDocument
	}

	header, ok := sniffer.FindHeader(rows)
	if !ok {
		return nil, fmt.Errorf("%w: %w", ErrUnreadableDocument, sniffer.ErrNoHeadersFound)
	}

	res := p.extractRows(header, rows)
	res.Format = format
	res.RowErrors = append(rowErrs, res.RowErrors...)
	return res, nil
}

// builderFor returns a builder that infers yearless dates from the statement period printed in
// text, if any.
func (p *Parser) builderFor(text string) *candidate.Builder {
	if period, ok := dates.DetectPeriod(text); ok {
		p.logger.Debug("detected statement period",
			slog.Time("start", period.Start),
			slog.Time("end", period.End))
		return p.builder.WithPeriod(period)
	}
	return p.builder
}
