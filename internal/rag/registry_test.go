package rag

import (
	"context"
	"testing"
	"time"

	"github.com/akolanti/DocQA/internal/domain/commonModels"
	"github.com/akolanti/DocQA/internal/rag/llm"
)

type noopEmbedder struct{}

func (noopEmbedder) GetEmbedding(ctx context.Context, query string) ([]float32, error) {
	return []float32{1, 0}, nil
}

func (noopEmbedder) BatchEmbedding(ctx context.Context, chunks []string) ([][]float32, error) {
	out := make([][]float32, len(chunks))
	for i := range out {
		out[i] = []float32{1, 0}
	}
	return out, nil
}

type noopProvider struct{}

func (noopProvider) Complete(ctx context.Context, systemPrompt, userPrompt string, schema *llm.ResponseSchema) (string, error) {
	return "{}", nil
}

func registryDocument(id, name string, at time.Time) commonModels.Document {
	return commonModels.Document{
		MetaInfo: commonModels.MetaInfo{
			DocumentID:   id,
			DocumentName: name,
			IngestedAt:   at,
		},
		Content: commonModels.DocumentContent{
			Chunks: []commonModels.Chunk{{Text: "text", Page: 1}},
			Pages:  1,
		},
	}
}

func TestRegistry_DomainIsolation(t *testing.T) {
	r := NewRegistry(noopEmbedder{}, noopProvider{})
	now := time.Now()

	r.RecordDocument(commonModels.DomainStock, registryDocument("doc-1", "Stock Doc", now))
	r.RecordDocument(commonModels.DomainMedical, registryDocument("doc-2", "Medical Doc", now))

	if got := len(r.ListDocuments(commonModels.DomainStock)); got != 1 {
		t.Errorf("stock domain has %d documents, want 1", got)
	}
	if got := len(r.ListDocuments(commonModels.DomainMedical)); got != 1 {
		t.Errorf("medical domain has %d documents, want 1", got)
	}

	r.Clear(commonModels.DomainStock)
	if got := len(r.ListDocuments(commonModels.DomainStock)); got != 0 {
		t.Errorf("cleared domain still lists %d documents", got)
	}
	if got := len(r.ListDocuments(commonModels.DomainMedical)); got != 1 {
		t.Errorf("clearing one domain touched another, %d documents left", got)
	}
}

func TestRegistry_ListDocumentsOrdered(t *testing.T) {
	r := NewRegistry(noopEmbedder{}, noopProvider{})
	base := time.Now()

	r.RecordDocument(commonModels.DomainUniversal, registryDocument("doc-later", "Later", base.Add(time.Hour)))
	r.RecordDocument(commonModels.DomainUniversal, registryDocument("doc-earlier", "Earlier", base))

	docs := r.ListDocuments(commonModels.DomainUniversal)
	if len(docs) != 2 {
		t.Fatalf("got %d documents, want 2", len(docs))
	}
	if docs[0].DocumentID != "doc-earlier" || docs[1].DocumentID != "doc-later" {
		t.Errorf("documents not ordered by ingestion time: %v, %v", docs[0].DocumentID, docs[1].DocumentID)
	}
}

func TestRegistry_BeginIngestConflict(t *testing.T) {
	r := NewRegistry(noopEmbedder{}, noopProvider{})

	if err := r.BeginIngest(commonModels.DomainUniversal, "doc-1"); err != nil {
		t.Fatalf("first ingest refused: %v", err)
	}
	if err := r.BeginIngest(commonModels.DomainUniversal, "doc-1"); err == nil {
		t.Fatal("concurrent ingest of the same document must be refused")
	}
	// a different document is fine while the first is building
	if err := r.BeginIngest(commonModels.DomainUniversal, "doc-2"); err != nil {
		t.Errorf("unrelated ingest refused: %v", err)
	}

	r.EndIngest(commonModels.DomainUniversal, "doc-1")
	if err := r.BeginIngest(commonModels.DomainUniversal, "doc-1"); err != nil {
		t.Errorf("ingest refused after the slot was released: %v", err)
	}
}

func TestRegistry_HybridIsPerDomain(t *testing.T) {
	r := NewRegistry(noopEmbedder{}, noopProvider{})

	if r.Hybrid(commonModels.DomainStock) == nil {
		t.Fatal("expected a retriever for the domain")
	}
	if r.Hybrid(commonModels.DomainStock) != r.Hybrid(commonModels.DomainStock) {
		t.Error("same domain must reuse its retriever")
	}
	if r.Hybrid(commonModels.DomainStock) == r.Hybrid(commonModels.DomainMedical) {
		t.Error("different domains must not share a retriever")
	}
}
