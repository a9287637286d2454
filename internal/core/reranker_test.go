package core

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chunksOf(texts ...string) []Chunk {
	chunks := make([]Chunk, len(texts))
	for i, t := range texts {
		chunks[i] = Chunk{Text: t}
	}
	return chunks
}

func TestRerankOrdersByScoreDescending(t *testing.T) {
	embed := &fakeEmbedder{vectors: map[string][]float32{
		"query": {1},
		"cat":   {0.2},
		"dog":   {0.9},
		"bird":  {0.5},
	}}

	ranked, err := NewReranker().Rerank(context.Background(), "query", chunksOf("cat", "dog", "bird"), embed)
	require.NoError(t, err)
	require.Len(t, ranked, 3)
	assert.Equal(t, "dog", ranked[0].Text)
	assert.Equal(t, "bird", ranked[1].Text)
	assert.Equal(t, "cat", ranked[2].Text)
	assert.Greater(t, ranked[0].Score, ranked[1].Score)
}

func TestRerankStableOnTies(t *testing.T) {
	// Duplicate top score: first-seen "cat" must stay ahead of "bird".
	embed := &fakeEmbedder{vectors: map[string][]float32{
		"query": {1},
		"cat":   {0.9},
		"dog":   {0.5},
		"bird":  {0.9},
	}}

	ranked, err := NewReranker().Rerank(context.Background(), "query", chunksOf("cat", "dog", "bird"), embed)
	require.NoError(t, err)
	require.Len(t, ranked, 3)
	assert.Equal(t, "cat", ranked[0].Text)
	assert.Equal(t, "bird", ranked[1].Text)
	assert.Equal(t, "dog", ranked[2].Text)
}

func TestRerankCapsResults(t *testing.T) {
	for _, n := range []int{0, 1, 4, 5, 6, 12} {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			texts := make([]string, n)
			vectors := map[string][]float32{"query": {1}}
			for i := range texts {
				texts[i] = fmt.Sprintf("candidate-%d", i)
				vectors[texts[i]] = []float32{float32(i)}
			}
			embed := &fakeEmbedder{vectors: vectors}

			ranked, err := NewReranker().Rerank(context.Background(), "query", chunksOf(texts...), embed)
			require.NoError(t, err)

			want := n
			if want > RerankLimit {
				want = RerankLimit
			}
			assert.Len(t, ranked, want)
		})
	}
}

func TestRerankEmptyInputSkipsEmbedding(t *testing.T) {
	embed := &fakeEmbedder{}

	ranked, err := NewReranker().Rerank(context.Background(), "query", nil, embed)
	require.NoError(t, err)
	assert.NotNil(t, ranked)
	assert.Empty(t, ranked)
	assert.Zero(t, embed.calls, "empty candidate set must not hit the embedding service")
}

func TestRerankEmbeddingFailure(t *testing.T) {
	embed := &fakeEmbedder{err: errBoom}

	_, err := NewReranker().Rerank(context.Background(), "query", chunksOf("cat"), embed)
	require.Error(t, err)

	var stageErr *StageError
	require.ErrorAs(t, err, &stageErr)
	assert.Equal(t, StageRerank, stageErr.Stage)
}
