package parser

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/FACorreiaa/statement-ingest/internal/domain/statement/sniffer"
)

// ReadCSVRows decodes a delimited text export into rows. The delimiter is sniffed from the first
// lines. Malformed records are reported as row errors and reading continues with the next record.
func ReadCSVRows(data []byte) ([][]string, []RowError, error) {
	text := normalizeText(data)
	if strings.TrimSpace(text) == "" {
		return nil, nil, nil
	}

	r := csv.NewReader(strings.NewReader(text))
	r.Comma = sniffer.DetectDelimiter(text)
	r.LazyQuotes = true
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	var (
		rows    [][]string
		rowErrs []RowError
	)
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if !errors.As(err, &parseErr) {
				return nil, rowErrs, fmt.Errorf("failed to read CSV: %w", err)
			}
			rowErrs = append(rowErrs, RowError{Row: parseErr.StartLine, Message: parseErr.Err.Error()})
			continue
		}
		rows = append(rows, record)
	}

	if len(rows) == 0 && len(rowErrs) > 0 {
		return nil, rowErrs, fmt.Errorf("no readable CSV records: %w", rowErrs[0])
	}
	return rows, rowErrs, nil
}
