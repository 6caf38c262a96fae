package rag

import (
	"context"
	"fmt"
	"sync"
)

// CorpusStore owns the one logical corpus of study passages. It combines an
// Embedder and a VectorStore to support full corpus replacement on ingest and
// similarity queries during generation. The corpus is global: Replace deletes
// every existing passage before inserting the new ones — old and new material
// are never merged.
type CorpusStore struct {
	// embedder converts passage and query text to dense vectors.
	embedder Embedder

	// store persists passage embeddings and performs similarity search.
	store VectorStore

	// mu serializes Replace calls so two concurrent ingests cannot interleave
	// their delete and insert phases. Query does not take the lock — a
	// generate racing an ingest observes whatever the store holds at that
	// instant ("last replace wins").
	mu sync.Mutex
}

// NewCorpusStore constructs a CorpusStore from the given Embedder and VectorStore.
func NewCorpusStore(embedder Embedder, store VectorStore) (*CorpusStore, error) {
	if embedder == nil {
		return nil, fmt.Errorf("rag: embedder must not be nil")
	}
	if store == nil {
		return nil, fmt.Errorf("rag: store must not be nil")
	}
	return &CorpusStore{embedder: embedder, store: store}, nil
}

// Replace atomically swaps the corpus for the given chunks: every passage
// currently stored is deleted, then the chunks are inserted as passages with
// sequential identifiers ("id_0" …) and the user-upload source tag. Returns
// the number of passages inserted.
//
// An empty chunk slice is a no-op: nothing is deleted, nothing is inserted,
// and the previous corpus stays queryable.
func (c *CorpusStore) Replace(ctx context.Context, chunks []string) (int, error) {
	if len(chunks) == 0 {
		return 0, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	existing, err := c.store.ListIDs(ctx)
	if err != nil {
		return 0, fmt.Errorf("rag: listing current corpus failed: %w", err)
	}
	if len(existing) > 0 {
		if err := c.store.Delete(ctx, existing); err != nil {
			return 0, fmt.Errorf("rag: deleting current corpus failed: %w", err)
		}
	}

	embeddings, err := c.embedder.Embed(ctx, chunks)
	if err != nil {
		return 0, fmt.Errorf("rag: embedding chunks failed: %w", err)
	}
	if len(embeddings) != len(chunks) {
		return 0, fmt.Errorf("rag: expected %d embeddings, got %d", len(chunks), len(embeddings))
	}

	passages := make([]Passage, 0, len(chunks))
	for i, chunk := range chunks {
		passages = append(passages, Passage{
			ID:     PassageID(i),
			Text:   chunk,
			Source: SourceUserUpload,
		})
	}

	if err := c.store.Upsert(ctx, passages, embeddings); err != nil {
		return 0, fmt.Errorf("rag: inserting new corpus failed: %w", err)
	}

	return len(passages), nil
}

// Query embeds the topic and returns the k most similar passages,
// most similar first. Fewer than k passages are returned when the corpus
// is smaller than k; an empty corpus yields an empty result, not an error.
func (c *CorpusStore) Query(ctx context.Context, topic string, k int) ([]Passage, error) {
	embeddings, err := c.embedder.Embed(ctx, []string{topic})
	if err != nil {
		return nil, fmt.Errorf("rag: embedding topic failed: %w", err)
	}
	if len(embeddings) == 0 {
		return nil, fmt.Errorf("rag: embedder returned empty result for topic")
	}

	passages, err := c.store.Search(ctx, embeddings[0], k)
	if err != nil {
		return nil, fmt.Errorf("rag: similarity search failed: %w", err)
	}

	return passages, nil
}

// Close releases the underlying vector store.
func (c *CorpusStore) Close() error {
	return c.store.Close()
}

// PassageID returns the corpus-sequential identifier for chunk index i.
func PassageID(i int) string {
	return fmt.Sprintf("id_%d", i)
}
