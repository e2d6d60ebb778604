// Package unresolved drops pending items that the next day's detail log
// shows were actually handled.
package unresolved

import (
	"context"
	"strings"
	"time"

	"work-report-rag/config"
	"work-report-rag/internal/core/chunk"
	"work-report-rag/internal/core/filter"
	"work-report-rag/internal/core/index"
	"work-report-rag/pkg/logger"
)

const nextDayLookupLimit = 10

// Filter removes pending candidates completed on the following day.
type Filter struct {
	Index     index.VectorIndex
	Threshold float64 // word overlap above which an item counts as handled
}

func New(idx index.VectorIndex, threshold float64) *Filter {
	if threshold <= 0 {
		threshold = 0.5
	}
	return &Filter{Index: idx, Threshold: threshold}
}

// Apply checks each candidate against the owner's detail chunks dated one
// day later and drops it when the word overlap exceeds the threshold.
// Lookups fail open: a candidate with an unparseable date or a failed
// lookup is kept.
func (f *Filter) Apply(ctx context.Context, owner string, candidates []chunk.SearchResult) []chunk.SearchResult {
	kept := make([]chunk.SearchResult, 0, len(candidates))
	for _, cand := range candidates {
		if f.handledNextDay(ctx, owner, cand) {
			continue
		}
		kept = append(kept, cand)
	}
	return kept
}

func (f *Filter) handledNextDay(ctx context.Context, owner string, cand chunk.SearchResult) bool {
	day, err := time.Parse("2006-01-02", cand.Meta.Date)
	if err != nil {
		return false
	}
	nextDay := day.AddDate(0, 0, 1).Format("2006-01-02")

	var clauses []filter.Expr
	if owner != "" {
		clauses = append(clauses, filter.Eq{Field: filter.FieldOwner, Value: owner})
	}
	clauses = append(clauses,
		filter.Eq{Field: filter.FieldDate, Value: nextDay},
		filter.Eq{Field: filter.FieldChunkType, Value: string(chunk.TypeDetail)},
	)

	hits, err := f.Index.Get(ctx, filter.And{Children: clauses}, nextDayLookupLimit)
	if err != nil {
		logger.WithFields(map[string]interface{}{
			"module":   config.ModuleSearch,
			"owner":    owner,
			"chunk_id": cand.ChunkID,
			"error":    err,
		}).Warnf("next-day lookup failed, keeping candidate")
		return false
	}

	for _, h := range hits {
		if wordOverlap(cand.Text, h.Text) > f.Threshold {
			return true
		}
	}
	return false
}

// wordOverlap is |words(a) ∩ words(b)| / |words(a)|, over whitespace-split
// word sets.
func wordOverlap(a, b string) float64 {
	aWords := wordSet(a)
	if len(aWords) == 0 {
		return 0
	}
	bWords := wordSet(b)
	common := 0
	for w := range aWords {
		if bWords[w] {
			common++
		}
	}
	return float64(common) / float64(len(aWords))
}

func wordSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, w := range strings.Fields(s) {
		set[w] = true
	}
	return set
}
