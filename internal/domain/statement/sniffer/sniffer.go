// Package sniffer inspects statement framing: the CSV delimiter, the header row of a table and
// the provider banner of a PDF. It produces a closed Layout used to pick an extraction strategy.
package sniffer

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"unicode"
)

// headerScanLimit bounds how many leading lines are inspected when guessing the delimiter.
const headerScanLimit = 20

var ErrNoHeadersFound = errors.New("could not find data headers")

// TableHeader is the header row of a tabular statement.
type TableHeader struct {
	// Index is the 0-based row index of the header; rows above it are banner text.
	Index int
	// Labels are the lower-cased, trimmed column labels.
	Labels []string
	// Fingerprint is a SHA256 of the normalized labels, stable across exports of one provider.
	Fingerprint string
}

// FindHeader returns the first row that names a date column. A cell equal to "date",
// "transaction date" or "dt" qualifies. A cell merely containing "date" only counts on rows
// with at least two labels, so one-cell banners such as "Statement date: 01/02/2024" are skipped.
func FindHeader(rows [][]string) (TableHeader, bool) {
	for i, row := range rows {
		labels := make([]string, len(row))
		exact, partial, nonEmpty := false, false, 0
		for j, cell := range row {
			label := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(cell, "\uFEFF")))
			labels[j] = label
			if label == "" {
				continue
			}
			nonEmpty++
			switch {
			case label == "date" || label == "transaction date" || label == "dt":
				exact = true
			case strings.Contains(label, "date"):
				partial = true
			}
		}
		if exact || (partial && nonEmpty >= 2) {
			return TableHeader{
				Index:       i,
				Labels:      labels,
				Fingerprint: generateFingerprint(labels),
			}, true
		}
	}
	return TableHeader{}, false
}

// DetectDelimiter guesses the field delimiter from the leading lines of a delimited file.
// Comma is returned when nothing else is more frequent.
func DetectDelimiter(text string) rune {
	lines := strings.SplitN(text, "\n", headerScanLimit+1)
	if len(lines) > headerScanLimit {
		lines = lines[:headerScanLimit]
	}

	counts := make(map[rune]int)
	for _, line := range lines {
		d, count := detectDelimiter(strings.TrimRight(line, "\r"))
		if d != 0 {
			counts[d] += count
		}
	}

	best, bestCount := ',', counts[',']
	for _, d := range []rune{';', '\t', '|'} {
		if counts[d] > bestCount {
			best, bestCount = d, counts[d]
		}
	}
	return best
}

func detectDelimiter(line string) (rune, int) {
	delimiters := []rune{';', '\t', ',', '|'}
	bestDelimiter := rune(0)
	bestCount := 0
	for _, d := range delimiters {
		count := strings.Count(line, string(d))
		if count > bestCount {
			bestCount = count
			bestDelimiter = d
		}
	}
	return bestDelimiter, bestCount
}

// generateFingerprint hashes the letters and digits of each label, joined with '|'.
func generateFingerprint(labels []string) string {
	var normalized []string
	for _, h := range labels {
		clean := strings.Map(func(r rune) rune {
			if unicode.IsLetter(r) || unicode.IsDigit(r) {
				return unicode.ToLower(r)
			}
			return -1
		}, h)
		if clean != "" {
			normalized = append(normalized, clean)
		}
	}

	hash := sha256.Sum256([]byte(strings.Join(normalized, "|")))
	return hex.EncodeToString(hash[:])
}
