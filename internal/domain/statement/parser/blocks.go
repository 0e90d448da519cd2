package parser

import (
	"github.com/FACorreiaa/statement-ingest/internal/domain/statement/candidate"
	"github.com/FACorreiaa/statement-ingest/internal/domain/statement/dates"
	"github.com/FACorreiaa/statement-ingest/internal/domain/statement/sniffer"
)

// Block is the ordered text lines believed to describe one transaction. The first line carries
// the date.
type Block []string

// strategy segments PDF lines into blocks and turns each block into a candidate.
type strategy interface {
	segment(lines []string) []Block
	build(b *candidate.Builder, blk Block) (candidate.Candidate, bool)
}

// strategies is the closed set of PDF strategies. Layouts without an entry use the generic
// scanner.
var strategies = map[sniffer.Layout]strategy{
	sniffer.LayoutGeneric:   genericStrategy{},
	sniffer.LayoutPhonePe:   genericStrategy{},
	sniffer.LayoutGooglePay: gpayStrategy{},
	sniffer.LayoutPaytm:     paytmStrategy{},
}

func strategyFor(layout sniffer.Layout) strategy {
	if s, ok := strategies[layout]; ok {
		return s
	}
	return genericStrategy{}
}

// genericStrategy starts a block at every line that begins with a date. Lines before the first
// date are banner text.
type genericStrategy struct{}

func (genericStrategy) segment(lines []string) []Block {
	var (
		blocks []Block
		open   Block
	)
	for _, line := range lines {
		if _, ok := dates.LeadingDate(line); ok {
			if len(open) > 0 {
				blocks = append(blocks, open)
			}
			open = Block{line}
			continue
		}
		if len(open) > 0 {
			open = append(open, line)
		}
	}
	if len(open) > 0 {
		blocks = append(blocks, open)
	}
	return blocks
}

func (genericStrategy) build(b *candidate.Builder, blk Block) (candidate.Candidate, bool) {
	return b.FromBlock(blk)
}
