package retrieval

import (
	"context"
	"fmt"
	"testing"
)

func TestHybridRetriever_EmptyCorpusIsNotAnError(t *testing.T) {
	retriever := NewVectorRetriever(&stubEmbedder{queryVec: []float32{1, 0}})
	h := NewHybridRetriever(retriever, NewReranker(&stubProvider{}))

	results, err := h.Retrieve(context.Background(), "q", nil)
	if err != nil {
		t.Fatalf("empty corpus must not error: %v", err)
	}
	if results == nil {
		t.Fatal("expected an empty slice, got nil")
	}
	if len(results) != 0 {
		t.Errorf("got %d results, want 0", len(results))
	}
}

func TestHybridRetriever_TopNTruncation(t *testing.T) {
	vectors := make(map[string][]float32)
	texts := make([]string, 0, 15)
	for i := 0; i < 15; i++ {
		text := fmt.Sprintf("block %02d", i)
		texts = append(texts, text)
		vectors[text] = []float32{float32(i+1) / 16, 0}
	}
	retriever := NewVectorRetriever(&stubEmbedder{queryVec: []float32{1, 0}, vectors: vectors})
	if err := retriever.AddDocument(context.Background(), "doc", testDocument(texts...)); err != nil {
		t.Fatalf("AddDocument: %v", err)
	}

	// the rerank reply covers no blocks, so the vector ordering survives
	h := NewHybridRetriever(retriever, NewReranker(&stubProvider{reply: `{"block_rankings": []}`}))

	results, err := h.Retrieve(context.Background(), "q", nil)
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if len(results) != h.topN {
		t.Fatalf("got %d results, want %d", len(results), h.topN)
	}
	if results[0].Text != "block 14" {
		t.Errorf("best block got %q, want the most similar one", results[0].Text)
	}
}

func TestHybridRetriever_RerankReordersSample(t *testing.T) {
	vectors := map[string][]float32{
		"vector favourite": {0.95, 0},
		"model favourite":  {0.2, 0},
	}
	retriever := NewVectorRetriever(&stubEmbedder{queryVec: []float32{1, 0}, vectors: vectors})
	if err := retriever.AddDocument(context.Background(), "doc", testDocument("vector favourite", "model favourite")); err != nil {
		t.Fatalf("AddDocument: %v", err)
	}

	provider := &stubProvider{reply: `{"block_rankings": [
		{"block_id": 0, "relevance_score": 0.05},
		{"block_id": 1, "relevance_score": 0.95}
	]}`}
	h := NewHybridRetriever(retriever, NewReranker(provider))

	results, err := h.Retrieve(context.Background(), "q", nil)
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if results[0].Text != "model favourite" {
		t.Errorf("rerank did not reorder: first block is %q", results[0].Text)
	}
}
