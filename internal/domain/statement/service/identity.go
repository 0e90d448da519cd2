package service

import (
	"crypto/sha256"
	"encoding/hex"
	"runtime"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/FACorreiaa/statement-ingest/internal/domain/statement/candidate"
)

// maxIdentityLength matches the transaction_id column.
const maxIdentityLength = 255

// Identity returns the deduplication key of c: the provider reference when present, otherwise a
// sha256 over the date, the amount and the description. Equal tuples always give equal keys.
func Identity(c candidate.Candidate) string {
	if ref := strings.TrimSpace(c.Reference); ref != "" {
		return truncateUTF8(ref, maxIdentityLength)
	}

	parts := []string{
		"date:" + c.Date.UTC().Format(time.RFC3339),
		"amount:" + c.Amount.StringFixed(2),
		"description:" + c.Description,
	}
	sum := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(sum[:])
}

// identities computes Identity for every candidate on a GOMAXPROCS-sized worker pool. The result
// is index-aligned with cands.
func identities(cands []candidate.Candidate) []string {
	ids := make([]string, len(cands))
	if len(cands) == 0 {
		return ids
	}

	workerCount := min(runtime.GOMAXPROCS(0), len(cands))
	if workerCount < 1 {
		workerCount = 1
	}

	jobs := make(chan int, workerCount*4)
	var wg sync.WaitGroup
	for range workerCount {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				ids[i] = Identity(cands[i])
			}
		}()
	}

	for i := range cands {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return ids
}

// truncateUTF8 cuts s to at most n bytes without splitting a rune.
func truncateUTF8(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
