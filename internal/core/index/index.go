// Package index abstracts the vector store behind two operations: filtered
// similarity search and filtered metadata retrieval.
package index

import (
	"context"

	"work-report-rag/internal/core/chunk"
	"work-report-rag/internal/core/filter"
)

// VectorIndex is the retrieval pipeline's view of the vector store.
// Implementations must treat a nil predicate as match-all.
type VectorIndex interface {
	// Search returns up to topK nearest neighbors of vector among chunks
	// matching pred, ordered by ascending distance.
	Search(ctx context.Context, vector []float32, topK int, pred filter.Expr) ([]chunk.Hit, error)

	// Get returns up to limit chunks matching pred without similarity
	// ranking. Used for next-day lookups and full date-window scans.
	Get(ctx context.Context, pred filter.Expr, limit int) ([]chunk.Hit, error)
}
