package rag

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/qdrant/go-client/qdrant"
)

// QdrantConfig holds connection parameters for a Qdrant vector store instance.
type QdrantConfig struct {
	// Host is the Qdrant server hostname (default: localhost).
	Host string

	// Port is the Qdrant gRPC port (default: 6334).
	Port int

	// Collection is the Qdrant collection name to use.
	Collection string

	// VectorSize is the dimensionality of the embeddings stored in this collection.
	VectorSize uint64

	// APIKey is the optional Qdrant API key for authenticated clusters.
	APIKey string

	// UseTLS enables TLS for the gRPC connection.
	UseTLS bool
}

// QdrantStore implements VectorStore backed by a Qdrant instance. Passage
// identifiers of the form "id_{n}" map to numeric Qdrant point IDs; the
// passage text and source tag live in the point payload.
type QdrantStore struct {
	// client is the underlying Qdrant gRPC client.
	client *qdrant.Client

	// cfg holds the resolved configuration for this store.
	cfg *QdrantConfig
}

// NewQdrantStore creates a new QdrantStore, ensuring the target collection
// exists (creating it if necessary), and returns a ready-to-use VectorStore.
func NewQdrantStore(ctx context.Context, cfg *QdrantConfig) (*QdrantStore, error) {
	if cfg.Host == "" {
		cfg.Host = "localhost"
	}
	if cfg.Port == 0 {
		cfg.Port = 6334
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   cfg.Host,
		Port:   cfg.Port,
		APIKey: cfg.APIKey,
		UseTLS: cfg.UseTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("qdrant: failed to create client: %w", err)
	}

	store := &QdrantStore{client: client, cfg: cfg}
	if err := store.ensureCollection(ctx); err != nil {
		return nil, err
	}

	return store, nil
}

// ensureCollection creates the Qdrant collection if it does not already exist.
func (s *QdrantStore) ensureCollection(ctx context.Context) error {
	exists, err := s.client.CollectionExists(ctx, s.cfg.Collection)
	if err != nil {
		return fmt.Errorf("qdrant: failed to check collection existence: %w", err)
	}
	if exists {
		return nil
	}

	err = s.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: s.cfg.Collection,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     s.cfg.VectorSize,
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("qdrant: failed to create collection %q: %w", s.cfg.Collection, err)
	}

	return nil
}

// Upsert stores a batch of passages with their pre-computed embeddings.
func (s *QdrantStore) Upsert(ctx context.Context, passages []Passage, embeddings [][]float32) error {
	if len(passages) != len(embeddings) {
		return fmt.Errorf("qdrant: %d passages but %d embeddings", len(passages), len(embeddings))
	}

	points := make([]*qdrant.PointStruct, 0, len(passages))
	for i, p := range passages {
		num, err := passageNum(p.ID)
		if err != nil {
			return err
		}
		points = append(points, &qdrant.PointStruct{
			Id:      qdrant.NewIDNum(num),
			Vectors: qdrant.NewVectors(embeddings[i]...),
			Payload: qdrant.NewValueMap(map[string]interface{}{
				"text":   p.Text,
				"source": p.Source,
			}),
		})
	}

	_, err := s.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: s.cfg.Collection,
		Points:         points,
	})
	if err != nil {
		return fmt.Errorf("qdrant: upsert failed: %w", err)
	}

	return nil
}

// Search performs a cosine similarity search and returns the top-k passages,
// most similar first (Qdrant's own ordering — no secondary tie-break).
func (s *QdrantStore) Search(ctx context.Context, queryEmbedding []float32, topK int) ([]Passage, error) {
	limit := uint64(topK) //nolint:gosec // topK is a small positive constant
	results, err := s.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: s.cfg.Collection,
		Query:          qdrant.NewQuery(queryEmbedding...),
		Limit:          &limit,
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("qdrant: search failed: %w", err)
	}

	passages := make([]Passage, 0, len(results))
	for _, r := range results {
		p := Passage{
			ID:    PassageID(int(r.Id.GetNum())), //nolint:gosec // point IDs are corpus indices
			Score: r.Score,
		}
		if payload := r.Payload; payload != nil {
			if v, ok := payload["text"]; ok {
				p.Text = v.GetStringValue()
			}
			if v, ok := payload["source"]; ok {
				p.Source = v.GetStringValue()
			}
		}
		passages = append(passages, p)
	}

	return passages, nil
}

// ListIDs returns the identifiers of every passage in the collection.
// The corpus is bounded by a single study upload, so an exact count followed
// by one scroll covers it.
func (s *QdrantStore) ListIDs(ctx context.Context) ([]string, error) {
	count, err := s.client.Count(ctx, &qdrant.CountPoints{
		CollectionName: s.cfg.Collection,
		Exact:          qdrant.PtrOf(true),
	})
	if err != nil {
		return nil, fmt.Errorf("qdrant: count failed: %w", err)
	}
	if count == 0 {
		return nil, nil
	}

	limit := uint32(count) //nolint:gosec // corpus size is bounded by one upload
	points, err := s.client.Scroll(ctx, &qdrant.ScrollPoints{
		CollectionName: s.cfg.Collection,
		Limit:          &limit,
	})
	if err != nil {
		return nil, fmt.Errorf("qdrant: scroll failed: %w", err)
	}

	ids := make([]string, 0, len(points))
	for _, pt := range points {
		ids = append(ids, PassageID(int(pt.Id.GetNum()))) //nolint:gosec // point IDs are corpus indices
	}
	return ids, nil
}

// Delete removes passages from the collection by their IDs.
func (s *QdrantStore) Delete(ctx context.Context, ids []string) error {
	pointIDs := make([]*qdrant.PointId, 0, len(ids))
	for _, id := range ids {
		num, err := passageNum(id)
		if err != nil {
			return err
		}
		pointIDs = append(pointIDs, qdrant.NewIDNum(num))
	}

	_, err := s.client.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: s.cfg.Collection,
		Points:         qdrant.NewPointsSelector(pointIDs...),
	})
	if err != nil {
		return fmt.Errorf("qdrant: delete failed: %w", err)
	}

	return nil
}

// Close closes the underlying Qdrant gRPC connection.
func (s *QdrantStore) Close() error {
	return s.client.Close()
}

// Client exposes the underlying gRPC client for readiness probes.
func (s *QdrantStore) Client() *qdrant.Client {
	return s.client
}

// passageNum converts a passage identifier ("id_{n}") to its numeric point ID.
func passageNum(id string) (uint64, error) {
	raw, ok := strings.CutPrefix(id, "id_")
	if !ok {
		return 0, fmt.Errorf("qdrant: malformed passage id %q", id)
	}
	num, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("qdrant: malformed passage id %q: %w", id, err)
	}
	return num, nil
}
