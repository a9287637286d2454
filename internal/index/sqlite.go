package index

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"

	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"github.com/docuchat-ai/docuchat/internal/vectormath"
)

// SQLiteIndex is a local vector index backed by a SQLite file. Embeddings
// are stored as JSON and searched with a brute-force cosine scan, which is
// fine for corpora of a few thousand chunks.
type SQLiteIndex struct {
	db *sql.DB
}

func NewSQLite(dataSourceName string) (*SQLiteIndex, error) {
	db, err := sql.Open("sqlite3", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err = db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	idx := &SQLiteIndex{db: db}
	if err = idx.initSchema(); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return idx, nil
}

func (s *SQLiteIndex) initSchema() error {
	schema := `
    CREATE TABLE IF NOT EXISTS chunks (
        id TEXT PRIMARY KEY, -- UUID
        text TEXT NOT NULL,
        source_json TEXT,
        embedding_json TEXT NOT NULL -- JSON string of []float32
    );

    CREATE TABLE IF NOT EXISTS index_meta (
        key TEXT PRIMARY KEY,
        value INTEGER NOT NULL
    );
    `
	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteIndex) dimension(ctx context.Context) (int, error) {
	var dim int
	err := s.db.QueryRowContext(ctx, "SELECT value FROM index_meta WHERE key = 'dimension'").Scan(&dim)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read index dimension: %w", err)
	}
	return dim, nil
}

func (s *SQLiteIndex) Search(ctx context.Context, vector []float32, limit int) ([]Hit, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.QueryContext(ctx, "SELECT text, source_json, embedding_json FROM chunks")
	if err != nil {
		return nil, fmt.Errorf("failed to query chunks: %w", err)
	}
	defer rows.Close()

	hits := make([]Hit, 0, limit)
	for rows.Next() {
		var text, sourceJSON, embeddingJSON string
		if err := rows.Scan(&text, &sourceJSON, &embeddingJSON); err != nil {
			return nil, fmt.Errorf("failed to scan chunk row: %w", err)
		}

		var embedding []float32
		if err := json.Unmarshal([]byte(embeddingJSON), &embedding); err != nil {
			return nil, fmt.Errorf("failed to unmarshal embedding: %w", err)
		}

		similarity, err := vectormath.CosineSimilarity(vector, embedding)
		if err != nil {
			return nil, fmt.Errorf("failed to score chunk: %w", err)
		}

		source := map[string]string{}
		if sourceJSON != "" {
			if err := json.Unmarshal([]byte(sourceJSON), &source); err != nil {
				return nil, fmt.Errorf("failed to unmarshal chunk source: %w", err)
			}
		}

		hits = append(hits, Hit{Text: text, Source: source, Score: float32(similarity)})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate chunks: %w", err)
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Score > hits[j].Score
	})
	if len(hits) > limit {
		hits = hits[:limit]
	}
	return hits, nil
}

// Rebuild wipes the chunk table and records the new dimension, mirroring
// the remote backend's delete-and-recreate semantics.
func (s *SQLiteIndex) Rebuild(ctx context.Context, dimension int) error {
	if dimension <= 0 {
		return fmt.Errorf("invalid vector dimension %d", dimension)
	}
	if _, err := s.db.ExecContext(ctx, "DELETE FROM chunks"); err != nil {
		return fmt.Errorf("failed to clear chunks: %w", err)
	}
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO index_meta (key, value) VALUES ('dimension', ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		dimension)
	if err != nil {
		return fmt.Errorf("failed to record index dimension: %w", err)
	}
	return nil
}

func (s *SQLiteIndex) Upsert(ctx context.Context, points []Point) error {
	if len(points) == 0 {
		return nil
	}

	dim, err := s.dimension(ctx)
	if err != nil {
		return err
	}

	stmt, err := s.db.PrepareContext(ctx,
		"INSERT OR REPLACE INTO chunks (id, text, source_json, embedding_json) VALUES (?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare chunk insert: %w", err)
	}
	defer stmt.Close()

	for _, p := range points {
		if dim > 0 && len(p.Vector) != dim {
			return fmt.Errorf("embedding dimension %d does not match index dimension %d", len(p.Vector), dim)
		}
		embeddingJSON, err := json.Marshal(p.Vector)
		if err != nil {
			return fmt.Errorf("failed to marshal embedding: %w", err)
		}
		sourceJSON, err := json.Marshal(p.Source)
		if err != nil {
			return fmt.Errorf("failed to marshal chunk source: %w", err)
		}
		if _, err := stmt.ExecContext(ctx, p.ID, p.Text, string(sourceJSON), string(embeddingJSON)); err != nil {
			return fmt.Errorf("failed to insert chunk %s: %w", p.ID, err)
		}
	}
	return nil
}

func (s *SQLiteIndex) Close() error {
	return s.db.Close()
}
