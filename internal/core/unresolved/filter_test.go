package unresolved

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"work-report-rag/internal/core/chunk"
	"work-report-rag/internal/core/filter"
)

type fakeIndex struct {
	// detail texts per date
	detailsByDate map[string][]string
	getErr        error
	gets          []filter.Expr
}

func (f *fakeIndex) Search(ctx context.Context, vector []float32, topK int, pred filter.Expr) ([]chunk.Hit, error) {
	return nil, errors.New("not used")
}

func (f *fakeIndex) Get(ctx context.Context, pred filter.Expr, limit int) ([]chunk.Hit, error) {
	f.gets = append(f.gets, pred)
	if f.getErr != nil {
		return nil, f.getErr
	}
	date := ""
	if and, ok := pred.(filter.And); ok {
		for _, c := range and.Children {
			if eq, ok := c.(filter.Eq); ok && eq.Field == filter.FieldDate {
				date = eq.Value
			}
		}
	}
	var hits []chunk.Hit
	for _, text := range f.detailsByDate[date] {
		hits = append(hits, chunk.Hit{Text: text, Meta: chunk.Metadata{Date: date, ChunkType: chunk.TypeDetail}})
	}
	return hits, nil
}

func pending(id, date, text string) chunk.SearchResult {
	return chunk.SearchResult{
		ChunkID:   id,
		ChunkType: chunk.TypePending,
		Text:      text,
		Meta:      chunk.Metadata{Date: date, ChunkType: chunk.TypePending},
	}
}

func TestApplyDropsHandledItem(t *testing.T) {
	idx := &fakeIndex{detailsByDate: map[string][]string{
		"2025-11-11": {"김영희 고객 보장분석 자료 전달 완료"},
	}}
	f := New(idx, 0.5)

	in := []chunk.SearchResult{
		pending("a", "2025-11-10", "김영희 고객 보장분석 자료 전달"),
		pending("b", "2025-11-10", "박철수 고객 추가 상담 일정 조율"),
	}
	got := f.Apply(context.Background(), "kim", in)
	require.Len(t, got, 1)
	assert.Equal(t, "b", got[0].ChunkID)
}

func TestApplyExactThresholdIsKept(t *testing.T) {
	// overlap is exactly 0.5; only strictly greater overlap drops
	idx := &fakeIndex{detailsByDate: map[string][]string{
		"2025-11-11": {"보장분석 완료"},
	}}
	f := New(idx, 0.5)

	in := []chunk.SearchResult{pending("a", "2025-11-10", "보장분석 전달")}
	got := f.Apply(context.Background(), "kim", in)
	assert.Len(t, got, 1)
}

func TestApplyUnparseableDateKept(t *testing.T) {
	idx := &fakeIndex{}
	f := New(idx, 0.5)

	in := []chunk.SearchResult{pending("a", "unknown", "보장분석 전달")}
	got := f.Apply(context.Background(), "kim", in)
	assert.Len(t, got, 1)
	assert.Empty(t, idx.gets)
}

func TestApplyLookupErrorFailsOpen(t *testing.T) {
	idx := &fakeIndex{getErr: errors.New("index down")}
	f := New(idx, 0.5)

	in := []chunk.SearchResult{pending("a", "2025-11-10", "보장분석 전달")}
	got := f.Apply(context.Background(), "kim", in)
	assert.Len(t, got, 1)
}

func TestApplyQueriesNextDayDetails(t *testing.T) {
	idx := &fakeIndex{}
	f := New(idx, 0.5)

	f.Apply(context.Background(), "kim", []chunk.SearchResult{pending("a", "2025-11-30", "보장분석 전달")})
	require.Len(t, idx.gets, 1)

	and := idx.gets[0].(filter.And)
	assert.Contains(t, and.Children, filter.Expr(filter.Eq{Field: filter.FieldOwner, Value: "kim"}))
	assert.Contains(t, and.Children, filter.Expr(filter.Eq{Field: filter.FieldDate, Value: "2025-12-01"}))
	assert.Contains(t, and.Children, filter.Expr(filter.Eq{Field: filter.FieldChunkType, Value: "detail"}))
}

func TestWordOverlap(t *testing.T) {
	assert.Equal(t, 1.0, wordOverlap("a b", "a b c"))
	assert.Equal(t, 0.5, wordOverlap("a b", "a c"))
	assert.Equal(t, 0.0, wordOverlap("", "a"))
}
