package retriever

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

type fakeEmbedder struct {
	vector []float32
	err    error
}

func (f fakeEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	return f.vector, f.err
}

type searchCall struct {
	topK int
	pred filter.Expr
}

type fakeIndex struct {
	calls []searchCall
	// hits returned per successive Search call; fewer entries than calls
	// means empty results for the remainder
	perCall [][]chunk.Hit
	err     error
}

func (f *fakeIndex) Search(ctx context.Context, vector []float32, topK int, pred filter.Expr) ([]chunk.Hit, error) {
	f.calls = append(f.calls, searchCall{topK: topK, pred: pred})
	if f.err != nil {
		return nil, f.err
	}
	if len(f.calls) <= len(f.perCall) {
		return f.perCall[len(f.calls)-1], nil
	}
	return []chunk.Hit{}, nil
}

func (f *fakeIndex) Get(ctx context.Context, pred filter.Expr, limit int) ([]chunk.Hit, error) {
	return nil, errors.New("not used")
}

var testBase = time.Date(2025, 11, 12, 0, 0, 0, 0, time.UTC)

func kwFor(query string) analyzer.SearchKeywords {
	return analyzer.ExtractKeywords(query, testBase)
}

func TestRetrieveFullFilterHit(t *testing.T) {
	idx := &fakeIndex{perCall: [][]chunk.Hit{{
		{ChunkID: "c1", Text: "hello", Distance: 1.0},
	}}}
	svc := New(idx, fakeEmbedder{vector: []float32{0.1}}, 10000)

	results, err := svc.Retrieve(context.Background(), "이번주 업무", kwFor("이번주 업무"), "kim", nil, 5)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 0.5, results[0].Score)
	assert.Len(t, idx.calls, 1)
}

func TestRetrieveRelaxesAtMostTwice(t *testing.T) {
	idx := &fakeIndex{}
	svc := New(idx, fakeEmbedder{vector: []float32{0.1}}, 10000)

	results, err := svc.Retrieve(context.Background(), "이번주 미종결", kwFor("이번주 미종결"), "kim", nil, 5)
	require.NoError(t, err)
	assert.Empty(t, results)
	require.Len(t, idx.calls, 3)

	// step 2 drops the date clause, step 3 keeps only the owner
	assert.IsType(t, filter.And{}, idx.calls[0].pred)
	assert.IsType(t, filter.And{}, idx.calls[1].pred)
	assert.Equal(t, filter.Eq{Field: filter.FieldOwner, Value: "kim"}, idx.calls[2].pred)
}

func TestRetrieveSecondStepHitStopsLadder(t *testing.T) {
	idx := &fakeIndex{perCall: [][]chunk.Hit{
		{},
		{{ChunkID: "c2", Text: "found", Distance: 0.0}},
	}}
	svc := New(idx, fakeEmbedder{vector: []float32{0.1}}, 10000)

	results, err := svc.Retrieve(context.Background(), "지난주 업무", kwFor("지난주 업무"), "kim", nil, 5)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 1.0, results[0].Score)
	assert.Len(t, idx.calls, 2)
}

func TestRetrieveEmbeddingFailure(t *testing.T) {
	idx := &fakeIndex{}
	svc := New(idx, fakeEmbedder{err: errors.New("quota exceeded")}, 10000)

	_, err := svc.Retrieve(context.Background(), "업무", kwFor("업무"), "kim", nil, 5)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEmbedding)
	assert.Empty(t, idx.calls)
}

func TestRetrieveIndexFailureNotMaskedByRelaxation(t *testing.T) {
	idx := &fakeIndex{err: errors.New("dimension mismatch")}
	svc := New(idx, fakeEmbedder{vector: []float32{0.1}}, 10000)

	_, err := svc.Retrieve(context.Background(), "업무", kwFor("업무"), "kim", nil, 5)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrIndex)
	assert.Len(t, idx.calls, 1)
}

func TestWidenTopK(t *testing.T) {
	// x5 with a floor of 500, x50 for entity queries, capped at max
	assert.Equal(t, 500, widenTopK(5, false, 10000))
	assert.Equal(t, 1000, widenTopK(200, false, 10000))
	assert.Equal(t, 500, widenTopK(5, true, 10000))
	assert.Equal(t, 1000, widenTopK(20, true, 10000))
	assert.Equal(t, 10000, widenTopK(500, true, 10000))
}

func TestRetrieveEntityQueryWidensTopK(t *testing.T) {
	idx := &fakeIndex{perCall: [][]chunk.Hit{{{ChunkID: "c1", Text: "x"}}}}
	svc := New(idx, fakeEmbedder{vector: []float32{0.1}}, 10000)

	kw := kwFor("김영희 고객 보장분석 언제 했지?")
	require.NotEmpty(t, kw.EntityNames)
	_, err := svc.Retrieve(context.Background(), "김영희 고객 보장분석 언제 했지?", kw, "kim", nil, 20)
	require.NoError(t, err)
	assert.Equal(t, 1000, idx.calls[0].topK)
}
