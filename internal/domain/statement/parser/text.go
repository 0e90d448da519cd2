package parser

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// normalizeText decodes uploaded bytes to a string with '\n' line endings. A UTF-8 byte order
// mark is dropped and input that is not valid UTF-8 is read as Latin-1.
func normalizeText(data []byte) string {
	data = bytes.TrimPrefix(data, utf8BOM)

	if !utf8.Valid(data) {
		if decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data); err == nil {
			data = decoded
		}
	}

	s := strings.ReplaceAll(string(data), "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

// cleanLines trims every line and drops the empty ones.
func cleanLines(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		for _, part := range strings.Split(line, "\n") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func joinLines(lines []string) string {
	return strings.Join(lines, "\n")
}
