package search

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"work-report-rag/internal/core/analyzer"
	"work-report-rag/internal/core/answer"
	"work-report-rag/internal/core/chunk"
	"work-report-rag/internal/core/stats"
)

const (
	noResultsMessage          = "해당 기간의 업무일지에서 관련 내용을 찾지 못했습니다."
	noUnresolvedMessage       = "최근 미종결 업무는 없습니다."
	statsNoDateRangeMessage   = "집계할 기간을 찾지 못했습니다. 기간을 함께 말씀해 주세요."
	statsNoMatchesMessageTmpl = "%s ~ %s 기간에 '%s' 관련 업무 기록이 없습니다."
)

// Response is the final answer payload for one question.
type Response struct {
	Answer     string               `json:"answer"`
	Sources    []chunk.SearchResult `json:"sources"`
	HasResults bool                 `json:"has_results"`
	Stats      *stats.Aggregate     `json:"stats,omitempty"`
}

// Answer resolves one question end to end. Statistical questions with a
// date window are answered by counting, everything else by retrieval plus
// generation.
func (c *Chain) Answer(ctx context.Context, gen answer.Generator, query, owner string, dateRange *analyzer.DateRange, refDate time.Time) (Response, error) {
	kw := analyzer.ExtractKeywords(query, refDate)
	if dateRange == nil {
		dateRange = statisticalRange(kw)
	}

	if kw.IsStatisticalQuery && c.Stats != nil {
		if dateRange == nil {
			return Response{Answer: statsNoDateRangeMessage}, nil
		}
		return c.answerStatistical(ctx, query, owner, *dateRange)
	}

	results, err := c.Retrieve(ctx, query, owner, dateRange, refDate)
	if err != nil {
		return Response{}, err
	}
	if len(results) == 0 {
		msg := noResultsMessage
		if kw.IsUnresolvedQuery {
			msg = noUnresolvedMessage
		}
		return Response{Answer: msg}, nil
	}

	text, err := gen.Generate(ctx, query, FormatContext(results), kw.IsUnresolvedQuery)
	if err != nil {
		return Response{}, err
	}
	return Response{Answer: text, Sources: results, HasResults: true}, nil
}

func statisticalRange(kw analyzer.SearchKeywords) *analyzer.DateRange {
	if kw.DateRange != nil {
		return kw.DateRange
	}
	if kw.SingleDate != "" {
		if d, err := time.Parse("2006-01-02", kw.SingleDate); err == nil {
			return &analyzer.DateRange{Start: d, End: d}
		}
	}
	return nil
}

func (c *Chain) answerStatistical(ctx context.Context, query, owner string, r analyzer.DateRange) (Response, error) {
	keyword := stats.CategoryKeyword(query)
	agg, err := c.Stats.CollectDailyCounts(ctx, owner, r, keyword)
	if err != nil {
		return Response{}, err
	}

	start := r.Start.Format("2006-01-02")
	end := r.End.Format("2006-01-02")
	if agg.MaxCount == 0 {
		return Response{
			Answer: fmt.Sprintf(statsNoMatchesMessageTmpl, start, end, keyword),
			Stats:  &agg,
		}, nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s ~ %s 기간에 '%s' 관련 업무가 가장 많은 날은 %s이며, 총 %d건입니다.\n",
		start, end, keyword, agg.MaxDate, agg.MaxCount)

	dates := make([]string, 0, len(agg.DateCounts))
	for d := range agg.DateCounts {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	for _, d := range dates {
		fmt.Fprintf(&b, "- %s: %d건\n", d, agg.DateCounts[d])
	}

	sources := make([]chunk.SearchResult, 0, len(agg.SampleDetails))
	for _, detail := range agg.SampleDetails {
		sources = append(sources, chunk.SearchResult{
			ChunkType: chunk.TypeDetail,
			Text:      detail.Text,
			Meta:      chunk.Metadata{Date: detail.Date, Category: detail.Category, ChunkType: chunk.TypeDetail},
		})
	}

	return Response{
		Answer:     strings.TrimRight(b.String(), "\n"),
		Sources:    sources,
		HasResults: true,
		Stats:      &agg,
	}, nil
}
