// Package service runs statement uploads end to end: extraction, categorization, deduplication
// and persistence.
package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/statement-ingest/internal/domain/statement/candidate"
	"github.com/FACorreiaa/statement-ingest/internal/domain/statement/dates"
	"github.com/FACorreiaa/statement-ingest/internal/domain/statement/parser"
	"github.com/FACorreiaa/statement-ingest/internal/domain/statement/repository"
	"github.com/FACorreiaa/statement-ingest/internal/domain/statement/sniffer"
	"github.com/FACorreiaa/statement-ingest/pkg/storage"
)

const tracerName = "github.com/FACorreiaa/statement-ingest/internal/domain/statement/service"

var ErrMissingUser = errors.New("missing user identity")

// IngestionResult summarizes one upload.
type IngestionResult struct {
	// TotalFound counts valid debit candidates.
	TotalFound int      `json:"total_found"`
	Inserted   int      `json:"inserted"`
	Skipped    int      `json:"skipped"`
	Warnings   []string `json:"warnings,omitempty"`
}

// Extraction is the outcome of reading one document without persisting anything.
type Extraction struct {
	Format     string                `json:"format"`
	Layout     string                `json:"layout"`
	Candidates []candidate.Candidate `json:"candidates"`
	Warnings   []string              `json:"warnings,omitempty"`
}

// Archiver stores raw uploads.
type Archiver interface {
	Upload(ctx context.Context, userID, filename, contentType string, r io.Reader) (*storage.FileInfo, error)
}

// StatementService orchestrates statement ingestion
type StatementService struct {
	repo        repository.ExpenseRepository
	parser      *parser.Parser
	categorizer Categorizer // optional
	archive     Archiver    // optional
	metrics     *Metrics    // optional
	tracer      trace.Tracer
	logger      *slog.Logger
}

// NewStatementService creates a new statement service
func NewStatementService(repo repository.ExpenseRepository, logger *slog.Logger) *StatementService {
	if logger == nil {
		logger = slog.Default()
	}
	return &StatementService{
		repo:   repo,
		parser: parser.NewParser(nil, logger),
		tracer: otel.Tracer(tracerName),
		logger: logger,
	}
}

// WithResolver makes yearless dates resolve through r.
func (s *StatementService) WithResolver(r *dates.Resolver) *StatementService {
	s.parser = parser.NewParser(candidate.NewBuilder(r), s.logger)
	return s
}

// WithCategorizer enables keyword categorization of untagged candidates.
func (s *StatementService) WithCategorizer(c Categorizer) *StatementService {
	s.categorizer = c
	return s
}

// WithArchive stores every upload before it is parsed.
func (s *StatementService) WithArchive(a Archiver) *StatementService {
	s.archive = a
	return s
}

// WithMetrics adds Prometheus counters to the service.
func (s *StatementService) WithMetrics(m *Metrics) *StatementService {
	s.metrics = m
	return s
}

// WithTracer replaces the global tracer.
func (s *StatementService) WithTracer(t trace.Tracer) *StatementService {
	s.tracer = t
	return s
}

// ExtractCandidates previews a document. Unreadable and empty documents are returned as errors.
func (s *StatementService) ExtractCandidates(ctx context.Context, data []byte, filename string) ([]candidate.Candidate, error) {
	ex, err := s.Extract(ctx, data, filename)
	if err != nil {
		return nil, err
	}
	return ex.Candidates, nil
}

// Extract reads a document and returns its valid debit candidates with any warnings about the
// document itself.
func (s *StatementService) Extract(ctx context.Context, data []byte, filename string) (*Extraction, error) {
	ctx, span := s.tracer.Start(ctx, "StatementService.Extract", trace.WithAttributes(
		attribute.String("statement.filename", filename),
		attribute.Int("statement.bytes", len(data)),
	))
	defer span.End()

	res, err := s.parser.Extract(data, filename)
	if err != nil {
		if errors.Is(err, parser.ErrUnreadableDocument) {
			s.metrics.documentUnreadable()
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "extraction failed")
		return nil, err
	}

	s.metrics.documentParsed(res.Format.String(), res.Layout.String())
	span.SetAttributes(
		attribute.String("statement.format", res.Format.String()),
		attribute.String("statement.layout", res.Layout.String()),
		attribute.Int("statement.units", res.Units),
		attribute.Int("statement.candidates", len(res.Candidates)),
	)

	for _, rowErr := range res.RowErrors {
		s.logger.DebugContext(ctx, "skipped unreadable row", slog.Any("error", rowErr))
	}

	if n := categorize(s.categorizer, res.Candidates); n > 0 {
		s.logger.DebugContext(ctx, "categorized candidates", slog.Int("count", n))
	}

	return &Extraction{
		Format:     res.Format.String(),
		Layout:     res.Layout.String(),
		Candidates: res.Candidates,
		Warnings:   warningsFor(res),
	}, nil
}

// ParseAndIngest extracts a document and persists its debits for userID. Unreadable or empty
// documents give an empty result with a warning rather than an error.
func (s *StatementService) ParseAndIngest(ctx context.Context, data []byte, filename, userID string) (*IngestionResult, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrMissingUser
	}

	ctx, span := s.tracer.Start(ctx, "StatementService.ParseAndIngest")
	defer span.End()

	s.archiveUpload(ctx, data, filename, userID)

	ex, err := s.Extract(ctx, data, filename)
	if err != nil {
		if errors.Is(err, parser.ErrUnreadableDocument) || errors.Is(err, parser.ErrEmptyDocument) {
			s.logger.WarnContext(ctx, "statement could not be read",
				slog.String("filename", filename),
				slog.Any("error", err))
			return &IngestionResult{Warnings: []string{DocumentWarning(err)}}, nil
		}
		return nil, fmt.Errorf("failed to extract statement: %w", err)
	}

	result := s.Ingest(ctx, userID, ex.Candidates)
	result.Warnings = append(result.Warnings, ex.Warnings...)

	span.SetAttributes(
		attribute.Int("statement.total_found", result.TotalFound),
		attribute.Int("statement.inserted", result.Inserted),
		attribute.Int("statement.skipped", result.Skipped),
	)
	s.logger.InfoContext(ctx, "statement ingested",
		slog.String("filename", filename),
		slog.String("layout", ex.Layout),
		slog.Int("total_found", result.TotalFound),
		slog.Int("inserted", result.Inserted),
		slog.Int("skipped", result.Skipped))

	return &result, nil
}

// Ingest deduplicates and persists candidates in input order. Invalid candidates are never
// inserted. A cancelled context stops the loop and the partial result is returned.
func (s *StatementService) Ingest(ctx context.Context, userID string, cands []candidate.Candidate) IngestionResult {
	valid := make([]candidate.Candidate, 0, len(cands))
	for _, c := range cands {
		if !c.Valid() {
			s.logger.DebugContext(ctx, "dropping invalid candidate",
				slog.String("description", c.Description),
				slog.String("amount", c.Amount.String()),
				slog.Bool("is_debit", c.IsDebit))
			continue
		}
		valid = append(valid, c)
	}

	result := IngestionResult{TotalFound: len(valid)}
	ids := identities(valid)

	for i, c := range valid {
		if err := ctx.Err(); err != nil {
			s.logger.WarnContext(ctx, "ingestion cancelled",
				slog.Int("processed", i),
				slog.Int("total", len(valid)),
				slog.Any("error", err))
			break
		}

		exists, err := s.repo.ExistsByIdentity(ctx, userID, ids[i])
		if err != nil {
			// The unique constraint still rejects a duplicate insert.
			s.logger.WarnContext(ctx, "failed to check expense identity", slog.Any("error", err))
		} else if exists {
			result.Skipped++
			continue
		}

		_, err = s.repo.Insert(ctx, &repository.Expense{
			UserID:        userID,
			Amount:        c.Amount,
			Category:      c.Category,
			Date:          c.Date,
			Notes:         c.Description,
			TransactionID: ids[i],
		})
		switch {
		case err == nil:
			result.Inserted++
		case errors.Is(err, repository.ErrDuplicateExpense):
			result.Skipped++
		case ctx.Err() != nil:
			s.logger.WarnContext(ctx, "ingestion cancelled during insert", slog.Any("error", err))
			s.metrics.candidatesIngested(result.Inserted, result.Skipped)
			return result
		default:
			s.logger.WarnContext(ctx, "failed to insert expense",
				slog.String("transaction_id", ids[i]),
				slog.Any("error", err))
			result.Skipped++
		}
	}

	s.metrics.candidatesIngested(result.Inserted, result.Skipped)
	return result
}

// archiveUpload stores the raw upload. Failures are logged and never fail the upload.
func (s *StatementService) archiveUpload(ctx context.Context, data []byte, filename, userID string) {
	if s.archive == nil {
		return
	}

	info, err := s.archive.Upload(ctx, userID, filename, contentType(filename), bytes.NewReader(data))
	if err != nil {
		s.logger.WarnContext(ctx, "failed to archive upload",
			slog.String("filename", filename),
			slog.Any("error", err))
		return
	}
	s.logger.DebugContext(ctx, "archived upload", slog.String("file_id", info.ID.String()))
}

func contentType(filename string) string {
	switch sniffer.DetectFormat(filename) {
	case sniffer.FormatPDF:
		return "application/pdf"
	case sniffer.FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "text/csv"
	}
}

func warningsFor(res *parser.Result) []string {
	var warnings []string
	if res.Truncated {
		warnings = append(warnings, fmt.Sprintf("statement is too long; only the first %d transactions were read", res.Units))
	}
	if n := len(res.RowErrors); n > 0 {
		warnings = append(warnings, fmt.Sprintf("%d rows could not be read and were skipped", n))
	}
	if res.Units > 0 && len(res.Candidates) == 0 {
		warnings = append(warnings, "no debit transactions found")
	}
	return warnings
}

// DocumentWarning describes why a document produced no transactions.
func DocumentWarning(err error) string {
	if errors.Is(err, parser.ErrEmptyDocument) {
		return "statement is empty"
	}
	return "statement could not be read: " + err.Error()
}
