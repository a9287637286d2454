package index

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	qd "github.com/qdrant/go-client/qdrant"
)

// QdrantIndex stores chunks in a Qdrant collection with cosine distance.
type QdrantIndex struct {
	client     *qd.Client
	collection string
}

// QdrantConfig holds connection details for a Qdrant cluster.
type QdrantConfig struct {
	// URL of the Qdrant gRPC endpoint, e.g. "http://localhost:6334".
	URL        string
	APIKey     string
	Collection string
}

// NewQdrant connects to a Qdrant cluster. The collection is created lazily
// by Rebuild; searching a collection that was never built is an error
// surfaced by Qdrant itself.
func NewQdrant(cfg QdrantConfig) (*QdrantIndex, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("qdrant URL is required")
	}
	if cfg.Collection == "" {
		cfg.Collection = "documents"
	}

	parsedURL, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid qdrant URL: %w", err)
	}

	port := 6334
	if parsedURL.Port() != "" {
		p, err := strconv.Atoi(parsedURL.Port())
		if err != nil {
			return nil, fmt.Errorf("invalid qdrant port: %w", err)
		}
		port = p
	}

	client, err := qd.NewClient(&qd.Config{
		Host:   parsedURL.Hostname(),
		Port:   port,
		APIKey: cfg.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create qdrant client: %w", err)
	}

	return &QdrantIndex{client: client, collection: cfg.Collection}, nil
}

func (q *QdrantIndex) Search(ctx context.Context, vector []float32, limit int) ([]Hit, error) {
	if limit <= 0 {
		limit = 10
	}
	lim := uint64(limit)

	points, err := q.client.Query(ctx, &qd.QueryPoints{
		CollectionName: q.collection,
		Query:          qd.NewQuery(vector...),
		Limit:          &lim,
		WithPayload:    qd.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("qdrant search failed: %w", err)
	}

	hits := make([]Hit, 0, len(points))
	for _, point := range points {
		hits = append(hits, convertScoredPoint(point))
	}
	return hits, nil
}

// Rebuild drops the collection and recreates it with the given dimension.
// Queries racing the rebuild may see a missing or half-filled collection.
func (q *QdrantIndex) Rebuild(ctx context.Context, dimension int) error {
	if dimension <= 0 {
		return fmt.Errorf("invalid vector dimension %d", dimension)
	}

	exists, err := q.client.CollectionExists(ctx, q.collection)
	if err != nil {
		return fmt.Errorf("failed to check collection %s: %w", q.collection, err)
	}
	if exists {
		if err := q.client.DeleteCollection(ctx, q.collection); err != nil {
			return fmt.Errorf("failed to delete collection %s: %w", q.collection, err)
		}
	}

	err = q.client.CreateCollection(ctx, &qd.CreateCollection{
		CollectionName: q.collection,
		VectorsConfig: qd.NewVectorsConfig(&qd.VectorParams{
			Size:     uint64(dimension),
			Distance: qd.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("failed to create collection %s: %w", q.collection, err)
	}
	return nil
}

func (q *QdrantIndex) Upsert(ctx context.Context, points []Point) error {
	if len(points) == 0 {
		return nil
	}

	qdPoints := make([]*qd.PointStruct, 0, len(points))
	for _, p := range points {
		payload := map[string]*qd.Value{
			"text": qd.NewValueString(p.Text),
		}
		for key, value := range p.Source {
			payload[key] = qd.NewValueString(value)
		}

		qdPoints = append(qdPoints, &qd.PointStruct{
			Id: &qd.PointId{
				PointIdOptions: &qd.PointId_Uuid{Uuid: p.ID},
			},
			Vectors: &qd.Vectors{
				VectorsOptions: &qd.Vectors_Vector{
					Vector: &qd.Vector{Data: p.Vector},
				},
			},
			Payload: payload,
		})
	}

	wait := true
	_, err := q.client.Upsert(ctx, &qd.UpsertPoints{
		CollectionName: q.collection,
		Points:         qdPoints,
		Wait:           &wait,
	})
	if err != nil {
		return fmt.Errorf("failed to upsert %d points to collection %s: %w", len(points), q.collection, err)
	}
	return nil
}

func (q *QdrantIndex) Close() error {
	return q.client.Close()
}

func convertScoredPoint(point *qd.ScoredPoint) Hit {
	hit := Hit{
		Score:  point.Score,
		Source: map[string]string{},
	}
	for key, value := range point.Payload {
		text := value.GetStringValue()
		if key == "text" {
			hit.Text = text
			continue
		}
		if text != "" {
			hit.Source[key] = text
		}
	}
	return hit
}
