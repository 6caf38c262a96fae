package ingestion

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/54b3r/crambot-go/internal/logging"
)

// CorpusReplacer is the corpus capability the pipeline needs: full
// replacement of the indexed passages. *rag.CorpusStore satisfies it.
type CorpusReplacer interface {
	// Replace swaps the whole corpus for the given chunks and returns the
	// inserted count. An empty chunk slice is a no-op returning 0.
	Replace(ctx context.Context, chunks []string) (int, error)
}

// Pipeline orchestrates the chunk → replace-corpus flow for submitted study
// material.
type Pipeline struct {
	// corpus receives the chunked passages.
	corpus CorpusReplacer
}

// NewPipeline constructs a Pipeline over the given corpus.
func NewPipeline(corpus CorpusReplacer) (*Pipeline, error) {
	if corpus == nil {
		return nil, fmt.Errorf("ingestion: corpus must not be nil")
	}
	return &Pipeline{corpus: corpus}, nil
}

// Ingest chunks the submitted text and replaces the corpus with the result,
// returning the number of passages indexed. A submission that chunks to
// nothing (blank text) leaves the previous corpus in place and returns 0.
// Length bounds on the raw text are the caller's concern, not the pipeline's.
func (p *Pipeline) Ingest(ctx context.Context, text string) (int, error) {
	chunks := Chunk(text)

	count, err := p.corpus.Replace(ctx, chunks)
	if err != nil {
		return 0, fmt.Errorf("ingestion: corpus replace failed: %w", err)
	}

	logging.FromContext(ctx).Info("corpus replaced",
		slog.Int("chunks", count),
	)

	return count, nil
}
