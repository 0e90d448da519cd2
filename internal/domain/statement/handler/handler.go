// Package handler exposes statement preview and import over HTTP.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/FACorreiaa/statement-ingest/internal/domain/statement/candidate"
	"github.com/FACorreiaa/statement-ingest/internal/domain/statement/parser"
	"github.com/FACorreiaa/statement-ingest/internal/domain/statement/service"
	"github.com/FACorreiaa/statement-ingest/pkg/money"
)

const (
	DefaultMaxUploadBytes = 10 << 20
	fileField             = "file"
)

// StatementService is the part of service.StatementService the handler calls.
type StatementService interface {
	Extract(ctx context.Context, data []byte, filename string) (*service.Extraction, error)
	ParseAndIngest(ctx context.Context, data []byte, filename, userID string) (*service.IngestionResult, error)
}

// PreviewResponse is returned by POST /v1/statements/preview.
type PreviewResponse struct {
	Format     string                `json:"format,omitempty"`
	Layout     string                `json:"layout,omitempty"`
	Candidates []candidate.Candidate `json:"candidates"`
	Count      int                   `json:"count"`
	Total      string                `json:"total"`
	Warnings   []string              `json:"warnings,omitempty"`
}

// StatementHandler handles statement uploads
type StatementHandler struct {
	svc            StatementService
	maxUploadBytes int64
	logger         *slog.Logger
}

// NewStatementHandler creates a new statement handler
func NewStatementHandler(svc StatementService, logger *slog.Logger) *StatementHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &StatementHandler{
		svc:            svc,
		maxUploadBytes: DefaultMaxUploadBytes,
		logger:         logger,
	}
}

// WithMaxUploadBytes caps the request body size.
func (h *StatementHandler) WithMaxUploadBytes(n int64) *StatementHandler {
	if n > 0 {
		h.maxUploadBytes = n
	}
	return h
}

// Preview handles POST /v1/statements/preview. Unreadable documents give an empty candidate list
// with a warning.
func (h *StatementHandler) Preview(w http.ResponseWriter, r *http.Request) {
	data, filename, ok := h.readUpload(w, r)
	if !ok {
		return
	}

	ex, err := h.svc.Extract(r.Context(), data, filename)
	if err != nil {
		if errors.Is(err, parser.ErrUnreadableDocument) || errors.Is(err, parser.ErrEmptyDocument) {
			WriteJSON(w, http.StatusOK, PreviewResponse{
				Candidates: []candidate.Candidate{},
				Total:      money.Zero(money.INR).Display(),
				Warnings:   []string{service.DocumentWarning(err)},
			})
			return
		}
		h.logger.ErrorContext(r.Context(), "failed to preview statement", slog.Any("error", err))
		WriteError(w, http.StatusInternalServerError, "failed to read statement")
		return
	}

	amounts := make([]decimal.Decimal, len(ex.Candidates))
	for i, c := range ex.Candidates {
		amounts[i] = c.Amount
	}
	total := money.Sum(money.INR, amounts...)

	cands := ex.Candidates
	if cands == nil {
		cands = []candidate.Candidate{}
	}
	WriteJSON(w, http.StatusOK, PreviewResponse{
		Format:     ex.Format,
		Layout:     ex.Layout,
		Candidates: cands,
		Count:      len(cands),
		Total:      total.Display(),
		Warnings:   ex.Warnings,
	})
}

// Import handles POST /v1/statements/import for the authenticated user.
func (h *StatementHandler) Import(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		WriteError(w, http.StatusUnauthorized, "unauthenticated")
		return
	}

	data, filename, ok := h.readUpload(w, r)
	if !ok {
		return
	}

	result, err := h.svc.ParseAndIngest(r.Context(), data, filename, userID)
	if err != nil {
		if errors.Is(err, service.ErrMissingUser) {
			WriteError(w, http.StatusUnauthorized, "unauthenticated")
			return
		}
		h.logger.ErrorContext(r.Context(), "failed to import statement",
			slog.String("filename", filename),
			slog.Any("error", err))
		WriteError(w, http.StatusInternalServerError, "failed to import statement")
		return
	}

	WriteJSON(w, http.StatusOK, result)
}

// Health handles GET /healthz.
func (h *StatementHandler) Health(w http.ResponseWriter, _ *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// readUpload reads the multipart file field. On failure the response is already written.
func (h *StatementHandler) readUpload(w http.ResponseWriter, r *http.Request) ([]byte, string, bool) {
	if r.ContentLength > h.maxUploadBytes {
		WriteError(w, http.StatusRequestEntityTooLarge, "statement is too large")
		return nil, "", false
	}
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)

	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			WriteError(w, http.StatusRequestEntityTooLarge, "statement is too large")
			return nil, "", false
		}
		WriteError(w, http.StatusBadRequest, "invalid multipart form")
		return nil, "", false
	}

	file, header, err := r.FormFile(fileField)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "no file uploaded, use form field 'file'")
		return nil, "", false
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		h.logger.WarnContext(r.Context(), "failed to read upload", slog.Any("error", err))
		WriteError(w, http.StatusBadRequest, "failed to read upload")
		return nil, "", false
	}
	return data, header.Filename, true
}

// WriteJSON writes a JSON response.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// WriteError writes a JSON error response.
func WriteError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, map[string]string{"error": message})
}
