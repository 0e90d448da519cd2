package parser

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ExtractPDFText returns the text lines of every page, top to bottom. The pdf library panics on
// some malformed files; such panics are returned as errors.
func ExtractPDFText(data []byte) (lines []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			lines = nil
			err = fmt.Errorf("PDF library crashed: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}

	numPages := r.NumPage()
	if numPages == 0 {
		return nil, fmt.Errorf("PDF has no pages")
	}

	for i := 1; i <= numPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}

		rows, err := page.GetTextByRow()
		if err == nil && len(rows) > 0 {
			for _, row := range rows {
				parts := make([]string, 0, len(row.Content))
				for _, word := range row.Content {
					parts = append(parts, word.S)
				}
				lines = append(lines, strings.Join(parts, " "))
			}
			continue
		}

		// Pages whose rows cannot be grouped still expose their plain text.
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		lines = append(lines, strings.Split(normalizeText([]byte(text)), "\n")...)
	}

	return cleanLines(lines), nil
}
