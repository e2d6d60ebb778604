package stats

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"work-report-rag/internal/core/analyzer"
	"work-report-rag/internal/core/chunk"
	"work-report-rag/internal/core/filter"
)

type fakeIndex struct {
	hits   []chunk.Hit
	getErr error
	preds  []filter.Expr
}

func (f *fakeIndex) Search(ctx context.Context, vector []float32, topK int, pred filter.Expr) ([]chunk.Hit, error) {
	return nil, errors.New("not used")
}

func (f *fakeIndex) Get(ctx context.Context, pred filter.Expr, limit int) ([]chunk.Hit, error) {
	f.preds = append(f.preds, pred)
	return f.hits, f.getErr
}

func detail(date, text, category string) chunk.Hit {
	return chunk.Hit{
		Text: text,
		Meta: chunk.Metadata{Date: date, ChunkType: chunk.TypeDetail, Category: category},
	}
}

func weekRange() analyzer.DateRange {
	return analyzer.DateRange{
		Start: time.Date(2025, 11, 10, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2025, 11, 14, 0, 0, 0, 0, time.UTC),
	}
}

func TestCategoryKeyword(t *testing.T) {
	assert.Equal(t, "상담", CategoryKeyword("상담이 가장 많은 날은?"))
	assert.Equal(t, "업무", CategoryKeyword("업무가 몰린 요일은?"))
	assert.Equal(t, "상담", CategoryKeyword("가장 바쁜 날은?"))
}

func TestCollectDailyCounts(t *testing.T) {
	idx := &fakeIndex{hits: []chunk.Hit{
		detail("2025-11-10", "김영희 고객 상담", "상담"),
		detail("2025-11-10", "박철수 고객 상담", "상담"),
		detail("2025-11-11", "보장분석 상담 진행", ""),
		detail("2025-11-12", "내부 회의", "회의"),
	}}
	agg, err := New(idx, 10000).CollectDailyCounts(context.Background(), "kim", weekRange(), "상담")
	require.NoError(t, err)

	assert.Equal(t, map[string]int{"2025-11-10": 2, "2025-11-11": 1}, agg.DateCounts)
	assert.Equal(t, "2025-11-10", agg.MaxDate)
	assert.Equal(t, 2, agg.MaxCount)

	total := 0
	for _, c := range agg.DateCounts {
		total += c
	}
	assert.Equal(t, 3, total)
	assert.Len(t, agg.SampleDetails, 3)
}

func TestCollectDailyCountsTieResolvesToEarliestDate(t *testing.T) {
	idx := &fakeIndex{hits: []chunk.Hit{
		detail("2025-11-12", "상담 A", "상담"),
		detail("2025-11-10", "상담 B", "상담"),
	}}
	agg, err := New(idx, 10000).CollectDailyCounts(context.Background(), "kim", weekRange(), "상담")
	require.NoError(t, err)
	assert.Equal(t, "2025-11-10", agg.MaxDate)
	assert.Equal(t, 1, agg.MaxCount)
}

func TestCollectDailyCountsScansDetailChunksOnly(t *testing.T) {
	idx := &fakeIndex{}
	_, err := New(idx, 10000).CollectDailyCounts(context.Background(), "kim", weekRange(), "상담")
	require.NoError(t, err)
	require.Len(t, idx.preds, 1)

	and := idx.preds[0].(filter.And)
	assert.Contains(t, and.Children, filter.Expr(filter.Eq{Field: filter.FieldOwner, Value: "kim"}))
	assert.Contains(t, and.Children, filter.Expr(filter.Eq{Field: filter.FieldChunkType, Value: "detail"}))
}

func TestCollectDailyCountsPropagatesError(t *testing.T) {
	idx := &fakeIndex{getErr: errors.New("index down")}
	_, err := New(idx, 10000).CollectDailyCounts(context.Background(), "kim", weekRange(), "상담")
	assert.Error(t, err)
}

func TestTruncate(t *testing.T) {
	long := make([]rune, 120)
	for i := range long {
		long[i] = '가'
	}
	got := truncate(string(long), 100)
	assert.Equal(t, 103, len([]rune(got)))
	assert.Equal(t, "...", got[len(got)-3:])
}
