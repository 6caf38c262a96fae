package rag

import (
	"context"
	"fmt"
	"strings"
)

// DefaultTopK is the number of passages retrieved per topic query. The prompt
// contract embeds exactly this many passages (or fewer when the corpus is
// smaller).
const DefaultTopK = 2

// ContextRetriever turns a topic query into the context string embedded in
// generation prompts: the top-k most similar passages joined by a blank line.
type ContextRetriever struct {
	// corpus performs the similarity query.
	corpus PassageQuerier

	// topK is the number of passages to retrieve per query.
	topK int
}

// NewContextRetriever constructs a ContextRetriever over the given corpus.
// topK falls back to DefaultTopK when zero or negative.
func NewContextRetriever(corpus PassageQuerier, topK int) (*ContextRetriever, error) {
	if corpus == nil {
		return nil, fmt.Errorf("rag: corpus must not be nil")
	}
	if topK <= 0 {
		topK = DefaultTopK
	}
	return &ContextRetriever{corpus: corpus, topK: topK}, nil
}

// Retrieve returns the context string for the given topic. A corpus smaller
// than topK yields a shorter context, down to the empty string for an empty
// corpus — that is not an error at this layer. Store failures propagate.
func (r *ContextRetriever) Retrieve(ctx context.Context, topic string) (string, error) {
	passages, err := r.corpus.Query(ctx, topic, r.topK)
	if err != nil {
		return "", fmt.Errorf("rag: retrieve failed: %w", err)
	}

	texts := make([]string, 0, len(passages))
	for _, p := range passages {
		texts = append(texts, p.Text)
	}

	return strings.Join(texts, "\n\n"), nil
}
