// Package index defines the vector index boundary: storage of embedded
// chunks and nearest-neighbor search over them. Implementations are opaque
// nearest-neighbor services; scoring beyond cosine order happens upstream.
package index

import "context"

// Hit is a chunk returned by a nearest-neighbor search, in similarity order.
type Hit struct {
	Text   string
	Source map[string]string
	Score  float32
}

// Point is an embedded chunk to be stored in the index.
type Point struct {
	ID     string
	Vector []float32
	Text   string
	Source map[string]string
}

// Searcher is the read side of the index, all the query pipeline needs.
type Searcher interface {
	// Search returns up to limit hits nearest to vector, best first.
	// An empty index yields an empty, non-nil slice.
	Search(ctx context.Context, vector []float32, limit int) ([]Hit, error)
}

// Index adds the ingestion side: full delete-and-recreate rebuilds plus
// bulk upserts.
type Index interface {
	Searcher

	// Rebuild drops all stored points and reconfigures the index for the
	// given vector dimension. It is NOT safe to run concurrently with
	// in-flight searches: a query racing a rebuild may observe a partially
	// populated or missing index.
	Rebuild(ctx context.Context, dimension int) error

	// Upsert stores the given points. Vector dimensions must match the
	// dimension the index was last rebuilt with.
	Upsert(ctx context.Context, points []Point) error

	Close() error
}
