package rag

import (
	"fmt"
	"sort"
	"sync"

	"github.com/akolanti/DocQA/internal/domain/commonModels"
	"github.com/akolanti/DocQA/internal/rag/embedding"
	"github.com/akolanti/DocQA/internal/rag/llm"
	"github.com/akolanti/DocQA/internal/rag/retrieval"
)

// domainContext is everything one domain owns: its retriever, its document
// records and the in-flight flags that serialize ingestion per document.
type domainContext struct {
	hybrid   *retrieval.HybridRetriever
	records  map[string]commonModels.DocumentRecord
	building map[string]bool
}

// Registry hands out per-domain retrieval state. Domains are fully
// isolated: clearing one tears down its retriever and records without
// touching any other.
type Registry struct {
	mu       sync.Mutex
	domains  map[commonModels.Domain]*domainContext
	embedder embedding.Embedder
	provider llm.Provider
}

func NewRegistry(embedder embedding.Embedder, provider llm.Provider) *Registry {
	return &Registry{
		domains:  make(map[commonModels.Domain]*domainContext),
		embedder: embedder,
		provider: provider,
	}
}

func (r *Registry) domain(d commonModels.Domain) *domainContext {
	r.mu.Lock()
	defer r.mu.Unlock()
	dc, ok := r.domains[d]
	if !ok {
		retriever := retrieval.NewVectorRetriever(r.embedder)
		dc = &domainContext{
			hybrid:   retrieval.NewHybridRetriever(retriever, retrieval.NewReranker(r.provider)),
			records:  make(map[string]commonModels.DocumentRecord),
			building: make(map[string]bool),
		}
		r.domains[d] = dc
	}
	return dc
}

func (r *Registry) Hybrid(d commonModels.Domain) *retrieval.HybridRetriever {
	return r.domain(d).hybrid
}

// BeginIngest reserves a document id for ingestion. A second ingestion of
// the same id while the first is still building is refused - index builds
// for one document must be serialized.
func (r *Registry) BeginIngest(d commonModels.Domain, documentID string) error {
	dc := r.domain(d)
	r.mu.Lock()
	defer r.mu.Unlock()
	if dc.building[documentID] {
		return fmt.Errorf("document %s is already being ingested", documentID)
	}
	dc.building[documentID] = true
	return nil
}

func (r *Registry) EndIngest(d commonModels.Domain, documentID string) {
	dc := r.domain(d)
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(dc.building, documentID)
}

// RecordDocument registers the document's metadata after its index is built.
func (r *Registry) RecordDocument(d commonModels.Domain, doc commonModels.Document) {
	dc := r.domain(d)
	r.mu.Lock()
	defer r.mu.Unlock()
	dc.records[doc.MetaInfo.DocumentID] = commonModels.DocumentRecord{
		DocumentID:   doc.MetaInfo.DocumentID,
		DocumentName: doc.MetaInfo.DocumentName,
		Filename:     doc.MetaInfo.OriginalFilename,
		ChunksCount:  len(doc.Content.Chunks),
		PagesCount:   doc.Content.Pages,
		IngestedAt:   doc.MetaInfo.IngestedAt,
	}
}

func (r *Registry) ListDocuments(d commonModels.Domain) []commonModels.DocumentRecord {
	dc := r.domain(d)
	r.mu.Lock()
	defer r.mu.Unlock()
	records := make([]commonModels.DocumentRecord, 0, len(dc.records))
	for _, rec := range dc.records {
		records = append(records, rec)
	}
	sort.Slice(records, func(a, b int) bool {
		return records[a].IngestedAt.Before(records[b].IngestedAt)
	})
	return records
}

// Clear tears down one domain. The next use of the domain starts from an
// empty retriever.
func (r *Registry) Clear(d commonModels.Domain) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.domains, d)
}
