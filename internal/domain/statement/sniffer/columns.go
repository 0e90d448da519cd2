package sniffer

import "strings"

// Columns holds the index of each column role, -1 when the table has no such column.
type Columns struct {
	Date        int
	Amount      int // single signed or unsigned amount
	Debit       int
	Credit      int // populated credit marks income
	Direction   int // "type", "cr/dr" or "dr/cr"
	Description int
	Reference   int
	Category    int
	Status      int
}

func noColumns() Columns {
	return Columns{
		Date:        -1,
		Amount:      -1,
		Debit:       -1,
		Credit:      -1,
		Direction:   -1,
		Description: -1,
		Reference:   -1,
		Category:    -1,
		Status:      -1,
	}
}

// ColumnsFor resolves column roles for a classified table.
func ColumnsFor(layout Layout, labels []string) Columns {
	switch layout {
	case LayoutPhonePe:
		c := noColumns()
		c.Date = indexContaining(labels, "date")
		c.Amount = indexContaining(labels, "amount")
		c.Direction = indexContaining(labels, "type", "cr/dr")
		c.Description = indexContaining(labels, "description", "remarks", "note")
		c.Reference = indexEqual(labels, "transaction id")
		c.Status = indexContaining(labels, "status")
		c.Category = indexContaining(labels, "category", "tag")
		return c
	case LayoutGooglePay:
		c := noColumns()
		c.Date = indexContaining(labels, "date")
		c.Amount = indexContaining(labels, "amount")
		c.Description = indexContaining(labels, "description", "title")
		c.Reference = indexEqual(labels, "transaction id")
		c.Status = indexContaining(labels, "status")
		c.Category = indexContaining(labels, "category", "tag")
		return c
	case LayoutPaytm:
		c := noColumns()
		c.Date = indexContaining(labels, "date")
		c.Debit = indexContaining(labels, "debit")
		c.Credit = indexContaining(labels, "credit")
		c.Description = indexContaining(labels, "source", "destination")
		if c.Description == -1 {
			c.Description = indexContaining(labels, "activity")
		}
		c.Reference = indexEqual(labels, "wallet txn id")
		c.Status = indexContaining(labels, "status")
		c.Category = indexContaining(labels, "category", "tag")
		return c
	default:
		return InferColumns(labels)
	}
}

// InferColumns guesses column roles for tables without a known provider signature.
// The first column matching a role keeps it.
func InferColumns(labels []string) Columns {
	c := noColumns()

	for i, label := range labels {
		h := strings.ToLower(strings.TrimSpace(label))
		if h == "" {
			continue
		}

		switch {
		case c.Date == -1 && (strings.Contains(h, "date") || h == "dt"):
			c.Date = i
		case c.Direction == -1 && (h == "type" || strings.Contains(h, "dr/cr") || strings.Contains(h, "cr/dr") ||
			strings.HasSuffix(h, " type")):
			c.Direction = i
		case c.Debit == -1 && (strings.Contains(h, "debit") || strings.Contains(h, "withdrawal")):
			c.Debit = i
		case c.Credit == -1 && (strings.Contains(h, "credit") || strings.Contains(h, "deposit")):
			c.Credit = i
		case c.Amount == -1 && strings.Contains(h, "amount"):
			c.Amount = i
		case c.Reference == -1 && isReferenceLabel(h):
			c.Reference = i
		case c.Description == -1 && containsAny(h, "desc", "particular", "narration", "remarks", "details"):
			c.Description = i
		case c.Category == -1 && containsAny(h, "category", "tag"):
			c.Category = i
		case c.Status == -1 && strings.Contains(h, "status"):
			c.Status = i
		}
	}

	return c
}

func isReferenceLabel(h string) bool {
	switch {
	case h == "ref" || strings.HasPrefix(h, "ref ") || strings.HasPrefix(h, "ref.") || strings.Contains(h, "reference"):
		return true
	case containsAny(h, "utr", "cheque", "chq", "transaction id", "txn id"):
		return true
	}
	return false
}

// indexContaining returns the first label containing any of the fragments.
func indexContaining(labels []string, fragments ...string) int {
	for i, label := range labels {
		if containsAny(label, fragments...) {
			return i
		}
	}
	return -1
}

func indexEqual(labels []string, want string) int {
	for i, label := range labels {
		if label == want {
			return i
		}
	}
	return -1
}

func containsAny(s string, fragments ...string) bool {
	for _, f := range fragments {
		if strings.Contains(s, f) {
			return true
		}
	}
	return false
}
