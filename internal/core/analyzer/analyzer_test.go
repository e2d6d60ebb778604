package analyzer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"work-report-rag/internal/core/chunk"
)

// 2025-11-12 is a Wednesday.
var base = time.Date(2025, 11, 12, 0, 0, 0, 0, time.UTC)

func TestExtractKeywordsExplicitDate(t *testing.T) {
	kw := ExtractKeywords("2025년 11월 3일에 뭐 했지?", base)
	assert.Equal(t, "2025-11-03", kw.SingleDate)
	assert.Nil(t, kw.DateRange)
}

func TestExtractKeywordsISODate(t *testing.T) {
	kw := ExtractKeywords("2025-11-03 업무 내역", base)
	assert.Equal(t, "2025-11-03", kw.SingleDate)
}

func TestExtractKeywordsMonthDayUsesBaseYear(t *testing.T) {
	kw := ExtractKeywords("11월 3일 상담 내역", base)
	assert.Equal(t, "2025-11-03", kw.SingleDate)
}

func TestExtractKeywordsInvalidDateFallsThrough(t *testing.T) {
	// Feb 30 does not exist; the relative-week rule should still apply.
	kw := ExtractKeywords("2월 30일 아니 이번주에 뭐 했지?", base)
	require.NotNil(t, kw.DateRange)
	assert.Equal(t, "2025-11-10", kw.DateRange.Start.Format("2006-01-02"))
	assert.Equal(t, "2025-11-14", kw.DateRange.End.Format("2006-01-02"))
}

func TestExtractKeywordsExplicitDateBeatsThisWeek(t *testing.T) {
	kw := ExtractKeywords("이번주 2025년 11월 3일 업무", base)
	assert.Equal(t, "2025-11-03", kw.SingleDate)
	assert.Nil(t, kw.DateRange)
}

func TestExtractKeywordsThisWeek(t *testing.T) {
	kw := ExtractKeywords("이번주에 뭐 했지?", base)
	require.NotNil(t, kw.DateRange)
	assert.Equal(t, "2025-11-10", kw.DateRange.Start.Format("2006-01-02"))
	assert.Equal(t, "2025-11-14", kw.DateRange.End.Format("2006-01-02"))
}

func TestExtractKeywordsLastWeek(t *testing.T) {
	kw := ExtractKeywords("지난주 미종결 업무 알려줘", base)
	require.NotNil(t, kw.DateRange)
	assert.Equal(t, "2025-11-03", kw.DateRange.Start.Format("2006-01-02"))
	assert.Equal(t, "2025-11-07", kw.DateRange.End.Format("2006-01-02"))
	assert.True(t, kw.IsUnresolvedQuery)
	assert.Equal(t, []chunk.Type{chunk.TypePending}, kw.ChunkTypes)
}

func TestExtractKeywordsThisMonth(t *testing.T) {
	kw := ExtractKeywords("이번달 실적 정리해줘", base)
	require.NotNil(t, kw.DateRange)
	assert.Equal(t, "2025-11-01", kw.DateRange.Start.Format("2006-01-02"))
	assert.Equal(t, "2025-11-30", kw.DateRange.End.Format("2006-01-02"))
}

func TestExtractKeywordsLastMonth(t *testing.T) {
	kw := ExtractKeywords("지난달에 상담 몇 건 했지?", base)
	require.NotNil(t, kw.DateRange)
	assert.Equal(t, "2025-10-01", kw.DateRange.Start.Format("2006-01-02"))
	assert.Equal(t, "2025-10-31", kw.DateRange.End.Format("2006-01-02"))
}

func TestExtractKeywordsNoDate(t *testing.T) {
	kw := ExtractKeywords("김영희 고객 보장분석 언제 했지?", base)
	assert.Nil(t, kw.DateRange)
	assert.Empty(t, kw.SingleDate)
	assert.Equal(t, []string{"김영희"}, kw.EntityNames)
}

func TestExtractKeywordsChunkTypes(t *testing.T) {
	cases := []struct {
		query string
		types []chunk.Type
	}{
		{"미종결 업무 알려줘", []chunk.Type{chunk.TypePending}},
		{"이번주 전체 요약해줘", []chunk.Type{chunk.TypeSummary}},
		{"내일 일정 알려줘", []chunk.Type{chunk.TypePlanNote}},
		{"김영희 고객 상담 내역", []chunk.Type{chunk.TypeDetail, chunk.TypePending, chunk.TypePlanNote}},
	}
	for _, tc := range cases {
		kw := ExtractKeywords(tc.query, base)
		assert.Equal(t, tc.types, kw.ChunkTypes, tc.query)
	}
}

func TestExtractKeywordsIntentFlags(t *testing.T) {
	kw := ExtractKeywords("상담이 가장 많이 몰린 날짜는?", base)
	assert.True(t, kw.IsStatisticalQuery)
	assert.False(t, kw.IsComparisonQuery)

	kw = ExtractKeywords("지난주와 이번주 상담 건수 비교해줘", base)
	assert.True(t, kw.IsComparisonQuery)

	kw = ExtractKeywords("10월 vs 11월 실적", base)
	assert.True(t, kw.IsComparisonQuery)
}

func TestExtractKeywordsDeterministic(t *testing.T) {
	q := "지난주 김영희 고객 미종결 업무 비교해줘"
	first := ExtractKeywords(q, base)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, ExtractKeywords(q, base))
	}
}

func TestDateRangeDays(t *testing.T) {
	r := DateRange{
		Start: time.Date(2025, 11, 3, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2025, 11, 5, 0, 0, 0, 0, time.UTC),
	}
	assert.Equal(t, []string{"2025-11-03", "2025-11-04", "2025-11-05"}, r.Days())
}
