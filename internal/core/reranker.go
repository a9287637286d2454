package core

import (
	"context"
	"fmt"
	"sort"

	"github.com/docuchat-ai/docuchat/internal/vectormath"
)

// RerankLimit caps how many candidates the reranker returns.
const RerankLimit = 5

// Reranker rescores retrieval candidates against the query in a secondary
// embedding space, independent of the space used for retrieval. Retrieval
// optimizes recall over the whole corpus; this pass optimizes precision on
// the small candidate set.
type Reranker struct{}

func NewReranker() *Reranker {
	return &Reranker{}
}

// Rerank scores each candidate by the inner product of its secondary-space
// embedding with the query's, sorts descending (stable, so exact ties keep
// retrieval order) and truncates to RerankLimit. An empty candidate set
// returns an empty slice without any embedding calls.
func (rr *Reranker) Rerank(ctx context.Context, query string, candidates []Chunk, embed Embedder) ([]RankedChunk, error) {
	if len(candidates) == 0 {
		return []RankedChunk{}, nil
	}

	queryVectors, err := embed.Embed(ctx, []string{query})
	if err != nil {
		return nil, stageError(StageRerank, fmt.Errorf("failed to embed query: %w", err))
	}
	if len(queryVectors) == 0 {
		return nil, stageError(StageRerank, fmt.Errorf("embedding provider returned no vector for query"))
	}

	texts := make([]string, len(candidates))
	for i, c := range candidates {
		texts[i] = c.Text
	}
	candidateVectors, err := embed.Embed(ctx, texts)
	if err != nil {
		return nil, stageError(StageRerank, fmt.Errorf("failed to embed %d candidates: %w", len(candidates), err))
	}
	if len(candidateVectors) != len(candidates) {
		return nil, stageError(StageRerank, fmt.Errorf("expected %d candidate vectors, got %d", len(candidates), len(candidateVectors)))
	}

	ranked := make([]RankedChunk, len(candidates))
	for i, c := range candidates {
		// Embeddings are pre-normalized by the model, so the inner
		// product is the cosine similarity.
		score, err := vectormath.Dot(queryVectors[0], candidateVectors[i])
		if err != nil {
			return nil, stageError(StageRerank, fmt.Errorf("failed to score candidate %d: %w", i, err))
		}
		ranked[i] = RankedChunk{Chunk: c, Score: score}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	if len(ranked) > RerankLimit {
		ranked = ranked[:RerankLimit]
	}
	return ranked, nil
}
