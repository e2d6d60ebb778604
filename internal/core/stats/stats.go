// Package stats answers counting questions ("which day had the most
// consultations") by scanning the full date window instead of a top-k
// similarity sample.
package stats

import (
	"context"
	"sort"
	"strings"

	"work-report-rag/internal/core/analyzer"
	"work-report-rag/internal/core/chunk"
	"work-report-rag/internal/core/filter"
	"work-report-rag/internal/core/index"
)

const (
	sampleDetailLimit = 10
	sampleTextRunes   = 100
)

// Detail is a sample chunk backing an aggregate count.
type Detail struct {
	Date     string `json:"date"`
	Text     string `json:"text"`
	Category string `json:"category"`
}

// Aggregate is the result of a daily-count scan. The sum of DateCounts
// equals the number of matching chunks.
type Aggregate struct {
	DateCounts    map[string]int `json:"date_counts"`
	MaxDate       string         `json:"max_date"`
	MaxCount      int            `json:"max_count"`
	SampleDetails []Detail       `json:"sample_details"`
}

// Aggregator counts category mentions per day over detail chunks.
type Aggregator struct {
	Index index.VectorIndex
	Limit int // max chunks fetched per scan
}

func New(idx index.VectorIndex, limit int) *Aggregator {
	if limit <= 0 {
		limit = 10000
	}
	return &Aggregator{Index: idx, Limit: limit}
}

// CategoryKeyword picks the category to count from the query vocabulary.
func CategoryKeyword(query string) string {
	if strings.Contains(query, "상담") {
		return "상담"
	}
	if strings.Contains(query, "업무") {
		return "업무"
	}
	return "상담"
}

// CollectDailyCounts fetches every detail chunk of the owner in the date
// range and counts, per date, the chunks whose category or text mentions
// the keyword. Ties on the maximum resolve to the earliest date.
func (a *Aggregator) CollectDailyCounts(ctx context.Context, owner string, r analyzer.DateRange, categoryKeyword string) (Aggregate, error) {
	var clauses []filter.Expr
	if owner != "" {
		clauses = append(clauses, filter.Eq{Field: filter.FieldOwner, Value: owner})
	}
	clauses = append(clauses,
		filter.Eq{Field: filter.FieldChunkType, Value: string(chunk.TypeDetail)},
		filter.In{Field: filter.FieldDate, Values: r.Days()},
	)

	hits, err := a.Index.Get(ctx, filter.And{Children: clauses}, a.Limit)
	if err != nil {
		return Aggregate{}, err
	}

	agg := Aggregate{DateCounts: make(map[string]int)}
	for _, h := range hits {
		if !mentions(h, categoryKeyword) {
			continue
		}
		agg.DateCounts[h.Meta.Date]++
		if len(agg.SampleDetails) < sampleDetailLimit {
			agg.SampleDetails = append(agg.SampleDetails, Detail{
				Date:     h.Meta.Date,
				Text:     truncate(h.Text, sampleTextRunes),
				Category: h.Meta.Category,
			})
		}
	}

	dates := make([]string, 0, len(agg.DateCounts))
	for d := range agg.DateCounts {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	for _, d := range dates {
		if agg.DateCounts[d] > agg.MaxCount {
			agg.MaxCount = agg.DateCounts[d]
			agg.MaxDate = d
		}
	}
	return agg, nil
}

func mentions(h chunk.Hit, keyword string) bool {
	return strings.Contains(h.Meta.Category, keyword) ||
		strings.Contains(strings.ToLower(h.Text), keyword)
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
