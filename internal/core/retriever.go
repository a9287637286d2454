package core

import (
	"context"
	"fmt"

	"github.com/docuchat-ai/docuchat/internal/index"
)

// Retriever wraps the vector index: it embeds a query in the primary space
// and returns the nearest chunks, unscored from the pipeline's perspective.
type Retriever struct {
	index index.Searcher
	topK  int
}

func NewRetriever(idx index.Searcher, topK int) *Retriever {
	if topK <= 0 {
		topK = 10
	}
	return &Retriever{index: idx, topK: topK}
}

// Retrieve returns the candidate chunks for a query, in index similarity
// order. An empty index yields an empty, non-nil slice. Failures of the
// embedding provider or the index surface as retrieval stage errors; there
// is no retry at this layer.
func (r *Retriever) Retrieve(ctx context.Context, query string, embed Embedder) ([]Chunk, error) {
	vectors, err := embed.Embed(ctx, []string{query})
	if err != nil {
		return nil, stageError(StageRetrieval, fmt.Errorf("failed to embed query: %w", err))
	}
	if len(vectors) == 0 {
		return nil, stageError(StageRetrieval, fmt.Errorf("embedding provider returned no vector for query"))
	}

	hits, err := r.index.Search(ctx, vectors[0], r.topK)
	if err != nil {
		return nil, stageError(StageRetrieval, fmt.Errorf("vector index search failed: %w", err))
	}

	chunks := make([]Chunk, 0, len(hits))
	for _, hit := range hits {
		chunks = append(chunks, Chunk{Text: hit.Text, Source: hit.Source})
	}
	return chunks, nil
}
