// Package core implements the retrieval-rerank-generate pipeline: embedding
// a query, pulling candidate chunks from the vector index, rescoring them in
// a second embedding space, assembling a bounded context block, and asking
// the chat model for a grounded answer while tracking per-session history.
package core

import "context"

// Chunk is a unit of indexed text as seen by the pipeline.
type Chunk struct {
	Text   string
	Source map[string]string
}

// RankedChunk is a Chunk annotated with a rerank relevance score. Only the
// reranker produces these; sequences are ordered by Score descending with
// ties kept in retrieval order.
type RankedChunk struct {
	Chunk
	Score float64
}

// Turn is one conversation message, Role "user" or "assistant".
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Embedder converts texts into fixed-dimension vectors in one embedding
// space. The pipeline uses two independent instances: one for the primary
// (retrieval) space and one for the secondary (rerank) space.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// ChatModel produces a completion for the given system instruction,
// conversation history and user message.
type ChatModel interface {
	Complete(ctx context.Context, system string, history []Turn, user string) (string, error)
}

// Providers bundles the credential-scoped model clients for one request.
// They are constructed from the request's API key and discarded afterwards;
// nothing here may be cached across requests.
type Providers struct {
	Primary Embedder
	Rerank  Embedder
	Chat    ChatModel
}
