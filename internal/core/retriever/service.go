// Package retriever runs the filtered candidate search: widen the top-k,
// embed the query, and walk a fixed relaxation ladder until the index
// returns something.
package retriever

import (
	"context"
	"fmt"

	"work-report-rag/config"
	"work-report-rag/internal/core/analyzer"
	"work-report-rag/internal/core/chunk"
	"work-report-rag/internal/core/embed"
	"work-report-rag/internal/core/filter"
	"work-report-rag/internal/core/index"
	"work-report-rag/pkg/logger"
)

// Service retrieves scored candidates from the vector index.
type Service struct {
	Index         index.VectorIndex
	Embedder      embed.Embedder
	MaxCandidates int
}

func New(idx index.VectorIndex, emb embed.Embedder, maxCandidates int) *Service {
	if maxCandidates <= 0 {
		maxCandidates = 10000
	}
	return &Service{Index: idx, Embedder: emb, MaxCandidates: maxCandidates}
}

// Retrieve embeds the query and searches with the full predicate, relaxing
// the filter at most twice when nothing matches: first the date clause is
// dropped, then everything but the owner. An empty result after the
// loosest predicate is a valid answer, not an error.
func (s *Service) Retrieve(ctx context.Context, query string, kw analyzer.SearchKeywords, owner string, fallback *analyzer.DateRange, topK int) ([]chunk.SearchResult, error) {
	k := widenTopK(topK, len(kw.EntityNames) > 0, s.MaxCandidates)

	vector, err := s.Embedder.EmbedText(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEmbedding, err)
	}

	ladder := []struct {
		name string
		pred filter.Expr
		k    int
	}{
		{"full", filter.Build(kw, owner, fallback), k},
		{"no_dates", filter.WithoutDates(kw.ChunkTypes, owner), min(k*2, s.MaxCandidates)},
		{"minimal", filter.Minimal(owner), min(k*3, s.MaxCandidates)},
	}

	for _, step := range ladder {
		hits, err := s.Index.Search(ctx, vector, step.k, step.pred)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrIndex, err)
		}
		if len(hits) > 0 {
			return score(hits), nil
		}
		logger.WithFields(map[string]interface{}{
			"module": config.ModuleRetriever,
			"owner":  owner,
			"step":   step.name,
		}).Info("search empty, relaxing filter")
	}
	return []chunk.SearchResult{}, nil
}

// widenTopK over-fetches so the rerank and dedup passes have material to
// work with. Entity queries search the whole log history and need a far
// wider net.
func widenTopK(topK int, hasEntities bool, maxCandidates int) int {
	factor := 5
	if hasEntities {
		factor = 50
	}
	k := topK * factor
	if k < 500 {
		k = 500
	}
	if k > maxCandidates {
		k = maxCandidates
	}
	return k
}

// score converts index distances to relevance scores in (0,1].
func score(hits []chunk.Hit) []chunk.SearchResult {
	out := make([]chunk.SearchResult, len(hits))
	for i, h := range hits {
		out[i] = chunk.SearchResult{
			ChunkID:   h.ChunkID,
			DocID:     h.Meta.DocID,
			ChunkType: h.Meta.ChunkType,
			Text:      h.Text,
			Score:     1 / (1 + float64(h.Distance)),
			Meta:      h.Meta,
		}
	}
	return out
}
