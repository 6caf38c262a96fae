package rag

import (
	"context"
	"fmt"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// Fakes
// ---------------------------------------------------------------------------

// fakeEmbedder returns a deterministic one-dimensional vector per text.
type fakeEmbedder struct {
	// err, when set, is returned from every Embed call.
	err error
}

func (f *fakeEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{float32(len(texts[i]))}
	}
	return out, nil
}

// memStore is an in-memory VectorStore that records the order of mutating
// calls so tests can assert delete-before-insert semantics.
type memStore struct {
	// passages maps passage ID to its stored passage.
	passages map[string]Passage
	// calls records mutating operations in order ("delete", "upsert").
	calls []string
	// searchResult is returned verbatim from Search.
	searchResult []Passage
	// err, when set, is returned from every method.
	err error
}

func newMemStore() *memStore {
	return &memStore{passages: make(map[string]Passage)}
}

func (m *memStore) Upsert(_ context.Context, passages []Passage, embeddings [][]float32) error {
	if m.err != nil {
		return m.err
	}
	if len(passages) != len(embeddings) {
		return fmt.Errorf("memStore: %d passages, %d embeddings", len(passages), len(embeddings))
	}
	m.calls = append(m.calls, "upsert")
	for _, p := range passages {
		m.passages[p.ID] = p
	}
	return nil
}

func (m *memStore) Search(_ context.Context, _ []float32, topK int) ([]Passage, error) {
	if m.err != nil {
		return nil, m.err
	}
	if len(m.searchResult) > topK {
		return m.searchResult[:topK], nil
	}
	return m.searchResult, nil
}

func (m *memStore) ListIDs(_ context.Context) ([]string, error) {
	if m.err != nil {
		return nil, m.err
	}
	ids := make([]string, 0, len(m.passages))
	for id := range m.passages {
		ids = append(ids, id)
	}
	return ids, nil
}

func (m *memStore) Delete(_ context.Context, ids []string) error {
	if m.err != nil {
		return m.err
	}
	m.calls = append(m.calls, "delete")
	for _, id := range ids {
		delete(m.passages, id)
	}
	return nil
}

func (m *memStore) Close() error { return nil }

func newTestCorpus(t *testing.T, store VectorStore) *CorpusStore {
	t.Helper()
	c, err := NewCorpusStore(&fakeEmbedder{}, store)
	if err != nil {
		t.Fatalf("NewCorpusStore: %v", err)
	}
	return c
}

// ---------------------------------------------------------------------------
// Replace
// ---------------------------------------------------------------------------

func Test_Replace_AssignsSequentialIDsAndSourceTag(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	c := newTestCorpus(t, store)

	n, err := c.Replace(context.Background(), []string{"Mars is red.", "Jupiter is large."})
	if err != nil {
		t.Fatalf("replace: %v", err)
	}
	if n != 2 {
		t.Fatalf("count: want 2, got %d", n)
	}

	for i, text := range []string{"Mars is red.", "Jupiter is large."} {
		id := PassageID(i)
		p, ok := store.passages[id]
		if !ok {
			t.Fatalf("passage %s missing from store", id)
		}
		if p.Text != text {
			t.Errorf("passage %s text: want %q, got %q", id, text, p.Text)
		}
		if p.Source != SourceUserUpload {
			t.Errorf("passage %s source: want %q, got %q", id, SourceUserUpload, p.Source)
		}
	}
}

func Test_Replace_ReplacesNeverMerges(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	c := newTestCorpus(t, store)
	ctx := context.Background()

	if _, err := c.Replace(ctx, []string{"a", "b", "c"}); err != nil {
		t.Fatalf("first replace: %v", err)
	}
	n, err := c.Replace(ctx, []string{"x"})
	if err != nil {
		t.Fatalf("second replace: %v", err)
	}
	if n != 1 {
		t.Fatalf("count: want 1, got %d", n)
	}

	if len(store.passages) != 1 {
		t.Fatalf("corpus: want 1 passage after replace, got %d", len(store.passages))
	}
	if got := store.passages[PassageID(0)].Text; got != "x" {
		t.Errorf("surviving passage: want %q, got %q", "x", got)
	}
	if want := []string{"upsert", "delete", "upsert"}; strings.Join(store.calls, ",") != strings.Join(want, ",") {
		t.Errorf("call order: want %v, got %v", want, store.calls)
	}
}

func Test_Replace_EmptyChunksLeavesCorpusUntouched(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	c := newTestCorpus(t, store)
	ctx := context.Background()

	if _, err := c.Replace(ctx, []string{"keep me"}); err != nil {
		t.Fatalf("seed replace: %v", err)
	}

	n, err := c.Replace(ctx, nil)
	if err != nil {
		t.Fatalf("empty replace: %v", err)
	}
	if n != 0 {
		t.Errorf("count: want 0, got %d", n)
	}
	if len(store.passages) != 1 {
		t.Errorf("prior corpus must survive an empty ingest, got %d passages", len(store.passages))
	}
	// No delete may have been issued for the empty ingest.
	if got := strings.Join(store.calls, ","); got != "upsert" {
		t.Errorf("calls: want just the seed upsert, got %v", store.calls)
	}
}

func Test_Replace_StoreFailurePropagates(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	store.err = fmt.Errorf("connection refused")
	c := newTestCorpus(t, store)

	if _, err := c.Replace(context.Background(), []string{"a"}); err == nil {
		t.Fatal("expected store failure to propagate")
	}
}

// ---------------------------------------------------------------------------
// Query
// ---------------------------------------------------------------------------

func Test_Query_ReturnsStoreOrdering(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	store.searchResult = []Passage{
		{ID: "id_1", Text: "most similar", Score: 0.9},
		{ID: "id_0", Text: "less similar", Score: 0.4},
	}
	c := newTestCorpus(t, store)

	got, err := c.Query(context.Background(), "mars", 2)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(got) != 2 || got[0].Text != "most similar" {
		t.Errorf("query must preserve the store's similarity ordering, got %+v", got)
	}
}

func Test_Query_EmbedderFailurePropagates(t *testing.T) {
	t.Parallel()

	c, err := NewCorpusStore(&fakeEmbedder{err: fmt.Errorf("model unavailable")}, newMemStore())
	if err != nil {
		t.Fatalf("NewCorpusStore: %v", err)
	}

	if _, err := c.Query(context.Background(), "mars", 2); err == nil {
		t.Fatal("expected embedder failure to propagate")
	}
}

func Test_NewCorpusStore_NilDeps(t *testing.T) {
	t.Parallel()

	if _, err := NewCorpusStore(nil, newMemStore()); err == nil {
		t.Error("expected error for nil embedder")
	}
	if _, err := NewCorpusStore(&fakeEmbedder{}, nil); err == nil {
		t.Error("expected error for nil store")
	}
}
