// Package ingest loads documents, splits them into overlapping chunks,
// embeds the chunks in the primary embedding space and rebuilds the vector
// index with them. Rebuilds replace the entire index (full delete and
// recreate, no incremental upsert), so queries running concurrently with an
// ingestion may observe a partially populated index.
package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/docuchat-ai/docuchat/internal/core"
	"github.com/docuchat-ai/docuchat/internal/index"
)

const embedBatchSize = 64

// Ingestor drives one ingestion run against an index.
type Ingestor struct {
	index     index.Index
	embed     core.Embedder
	dimension int
	chunkSize int
	overlap   int
	log       zerolog.Logger
}

func NewIngestor(idx index.Index, embed core.Embedder, dimension int, log zerolog.Logger) *Ingestor {
	return &Ingestor{
		index:     idx,
		embed:     embed,
		dimension: dimension,
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
		log:       log,
	}
}

// IngestFile loads a .txt or .md file, chunks it, embeds the chunks and
// replaces the index contents with them. source labels the chunks' origin
// in their metadata; empty means the file path. Returns the number of
// chunks indexed.
func (ing *Ingestor) IngestFile(ctx context.Context, path, source string) (int, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".txt" && ext != ".md" {
		return 0, fmt.Errorf("unsupported file format %q (expected .txt or .md)", ext)
	}

	contentBytes, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("failed to read %s: %w", path, err)
	}

	chunks := SplitText(string(contentBytes), ing.chunkSize, ing.overlap)
	if len(chunks) == 0 {
		return 0, fmt.Errorf("no chunks produced from %s", path)
	}
	ing.log.Info().Int("chunks", len(chunks)).Str("file", path).Msg("split document")

	if source == "" {
		source = path
	}

	if err := ing.index.Rebuild(ctx, ing.dimension); err != nil {
		return 0, fmt.Errorf("failed to rebuild index: %w", err)
	}

	indexed := 0
	for start := 0; start < len(chunks); start += embedBatchSize {
		end := start + embedBatchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		batch := chunks[start:end]

		vectors, err := ing.embed.Embed(ctx, batch)
		if err != nil {
			return indexed, fmt.Errorf("failed to embed chunks %d-%d: %w", start, end-1, err)
		}
		if len(vectors) != len(batch) {
			return indexed, fmt.Errorf("expected %d embeddings, got %d", len(batch), len(vectors))
		}

		points := make([]index.Point, len(batch))
		for i, text := range batch {
			if len(vectors[i]) != ing.dimension {
				// Hard failure: a mismatched vector would poison the index.
				return indexed, fmt.Errorf("embedding dimension %d does not match index dimension %d", len(vectors[i]), ing.dimension)
			}
			points[i] = index.Point{
				ID:     uuid.NewString(),
				Vector: vectors[i],
				Text:   text,
				Source: map[string]string{"source": source},
			}
		}

		if err := ing.index.Upsert(ctx, points); err != nil {
			return indexed, fmt.Errorf("failed to upsert chunks %d-%d: %w", start, end-1, err)
		}
		indexed += len(points)
		ing.log.Info().Int("indexed", indexed).Int("total", len(chunks)).Msg("ingestion progress")
	}

	return indexed, nil
}
