package service

import (
	"github.com/FACorreiaa/statement-ingest/internal/domain/statement/candidate"
	"github.com/FACorreiaa/statement-ingest/internal/domain/statement/normalizer"
)

// Categorizer suggests a category from a description.
type Categorizer interface {
	Categorize(description string) (string, bool)
}

// categorize fills in categories for candidates that carried no tag. Explicit tags are never
// overridden.
func categorize(c Categorizer, cands []candidate.Candidate) int {
	if c == nil {
		return 0
	}

	changed := 0
	for i := range cands {
		if cands[i].Category != normalizer.DefaultCategory {
			continue
		}
		if category, ok := c.Categorize(cands[i].Description); ok && category != "" {
			cands[i].Category = category
			changed++
		}
	}
	return changed
}
