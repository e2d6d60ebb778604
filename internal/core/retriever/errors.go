package retriever

import "errors"

var (
	// ErrEmbedding marks a failure to embed the query text. Fatal for the
	// query; there is no meaningful fallback without a vector.
	ErrEmbedding = errors.New("query embedding failed")

	// ErrIndex marks a vector index failure. Never masked by filter
	// relaxation; an index error and an empty result are different things.
	ErrIndex = errors.New("vector index failed")
)
