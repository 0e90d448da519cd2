package sniffer

import (
	"path/filepath"
	"slices"
	"strings"
)

// Layout names a recognizable statement format.
type Layout int

const (
	LayoutGeneric Layout = iota
	LayoutPhonePe
	LayoutGooglePay
	LayoutPaytm
)

func (l Layout) String() string {
	switch l {
	case LayoutPhonePe:
		return "phonepe"
	case LayoutGooglePay:
		return "gpay"
	case LayoutPaytm:
		return "paytm"
	default:
		return "generic"
	}
}

// ClassifyHeaders maps header labels to a provider layout. Labels must already be lower-cased
// and trimmed, as returned by FindHeader.
func ClassifyHeaders(labels []string) Layout {
	has := func(label string) bool { return slices.Contains(labels, label) }

	switch {
	case has("phonepe") || (has("transaction id") && has("provider reference id")):
		return LayoutPhonePe
	case has("google pay") || (has("transaction id") && has("status") && has("amount")):
		return LayoutGooglePay
	case has("wallet txn id") || (has("debit") && has("credit") && has("activity")):
		return LayoutPaytm
	default:
		return LayoutGeneric
	}
}

// ClassifyBanner picks a layout from the full text of a PDF statement.
func ClassifyBanner(text string) Layout {
	lower := strings.ToLower(text)

	switch {
	case strings.Contains(lower, "google pay") || strings.Contains(lower, "googlepay"):
		return LayoutGooglePay
	case strings.Contains(lower, "paytm") || strings.Contains(lower, "passbook payments"):
		return LayoutPaytm
	case strings.Contains(lower, "phonepe"):
		return LayoutPhonePe
	default:
		return LayoutGeneric
	}
}

// Format is the container format of an upload.
type Format int

const (
	FormatCSV Format = iota
	FormatPDF
	FormatXLSX
)

func (f Format) String() string {
	switch f {
	case FormatPDF:
		return "pdf"
	case FormatXLSX:
		return "xlsx"
	default:
		return "csv"
	}
}

// DetectFormat selects the extraction path from the filename extension.
// Unknown or missing extensions are read as CSV.
func DetectFormat(filename string) Format {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return FormatPDF
	case ".xlsx":
		return FormatXLSX
	default:
		return FormatCSV
	}
}
