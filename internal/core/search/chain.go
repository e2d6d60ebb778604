// Package search wires the retrieval passes into one pipeline: keyword
// analysis, filtered vector search, rerank, dedup, intent-specific
// post-passes and answer generation.
package search

import (
	"context"
	"sync"
	"time"

	"work-report-rag/internal/core/analyzer"
	"work-report-rag/internal/core/chunk"
	"work-report-rag/internal/core/rerank"
	"work-report-rag/internal/core/retriever"
	"work-report-rag/internal/core/stats"
	"work-report-rag/internal/core/unresolved"
)

// Chain holds the pipeline stages. All stages are stateless between
// queries; a single Chain serves concurrent requests.
type Chain struct {
	Retriever          *retriever.Service
	Unresolved         *unresolved.Filter
	Stats              *stats.Aggregator
	TopK               int
	FallbackWindowDays int
}

// Retrieve runs the full retrieval pipeline for one query. An explicit
// dateRange overrides whatever the analyzer detects in the query text.
// refDate anchors relative expressions like "this week".
func (c *Chain) Retrieve(ctx context.Context, query, owner string, dateRange *analyzer.DateRange, refDate time.Time) ([]chunk.SearchResult, error) {
	kw := analyzer.ExtractKeywords(query, refDate)
	if dateRange != nil {
		kw.DateRange = dateRange
		kw.SingleDate = ""
	}

	results, err := c.Retriever.Retrieve(ctx, query, kw, owner, c.fallbackWindow(refDate), c.TopK)
	if err != nil {
		return nil, err
	}

	results = rerank.BoostEntities(results, kw.EntityNames)
	results = rerank.BoostLexical(results, query)
	results = rerank.Dedup(results)

	if kw.IsUnresolvedQuery && c.Unresolved != nil {
		results = c.Unresolved.Apply(ctx, owner, results)
	}
	return rerank.Cutoff(results, c.TopK, kw), nil
}

// RetrieveMulti runs several rewordings of the same information need
// concurrently and merges the results: input order, deduplicated, then
// truncated to limit. A sub-query failure fails the whole call.
func (c *Chain) RetrieveMulti(ctx context.Context, queries []string, owner string, dateRange *analyzer.DateRange, refDate time.Time, limit int) ([]chunk.SearchResult, error) {
	perQuery := make([][]chunk.SearchResult, len(queries))
	errs := make([]error, len(queries))

	var wg sync.WaitGroup
	for i, q := range queries {
		wg.Add(1)
		go func(i int, q string) {
			defer wg.Done()
			perQuery[i], errs[i] = c.Retrieve(ctx, q, owner, dateRange, refDate)
		}(i, q)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	var merged []chunk.SearchResult
	for _, rs := range perQuery {
		merged = append(merged, rs...)
	}
	merged = rerank.Dedup(merged)
	if limit > 0 && len(merged) > limit {
		merged = merged[:limit]
	}
	return merged, nil
}

// fallbackWindow is the trailing date window applied when a query names
// no date at all. Entity queries bypass it inside the filter builder.
func (c *Chain) fallbackWindow(refDate time.Time) *analyzer.DateRange {
	days := c.FallbackWindowDays
	if days <= 0 {
		days = 365
	}
	end := time.Date(refDate.Year(), refDate.Month(), refDate.Day(), 0, 0, 0, 0, time.UTC)
	return &analyzer.DateRange{Start: end.AddDate(0, 0, -(days - 1)), End: end}
}
