// Package rag defines the interfaces for the retrieval side of the study
// pipeline: vector storage, text embedding, and passage retrieval.
// Concrete implementations (Qdrant, etc.) satisfy these interfaces so the
// study layer never depends on a specific backend.
package rag

import (
	"context"
)

// SourceUserUpload is the source tag recorded on every passage indexed from
// user-submitted study material. The store holds a single corpus, so all
// passages currently carry this tag.
const SourceUserUpload = "user_upload"

// Passage is one indexed unit of study material.
type Passage struct {
	// ID is the stable identifier of this passage within the current corpus
	// ("id_0" … "id_{n-1}", assigned in chunk order on ingest).
	ID string

	// Text is the raw text content of the passage.
	Text string

	// Source is the origin tag of the passage (see SourceUserUpload).
	Source string

	// Score is the similarity score assigned during retrieval (0.0–1.0).
	// Zero value means the score was not computed.
	Score float32
}

// VectorStore is the interface for persisting and searching passage embeddings.
// Implementations must be safe to call from multiple goroutines.
type VectorStore interface {
	// Upsert stores or updates a batch of passages with their pre-computed
	// embeddings. The embeddings slice must be parallel to passages —
	// embeddings[i] is the vector for passages[i].
	Upsert(ctx context.Context, passages []Passage, embeddings [][]float32) error

	// Search performs a semantic similarity search and returns the top-k
	// most relevant passages for the given query embedding, most similar first.
	Search(ctx context.Context, queryEmbedding []float32, topK int) ([]Passage, error)

	// ListIDs returns the IDs of every passage currently stored.
	ListIDs(ctx context.Context) ([]string, error)

	// Delete removes passages by their IDs.
	Delete(ctx context.Context, ids []string) error

	// Close releases any resources held by the store.
	Close() error
}

// Embedder is the interface for converting text into dense vector embeddings.
// Implementations must be safe to call from multiple goroutines.
type Embedder interface {
	// Embed converts a batch of texts into their corresponding embeddings.
	// The returned slice is parallel to the input slice.
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// PassageQuerier is the similarity-search capability consumed by the
// retriever. *CorpusStore satisfies it; tests inject a fake.
type PassageQuerier interface {
	// Query returns the k passages most similar to topic, most similar first.
	Query(ctx context.Context, topic string, k int) ([]Passage, error)
}
