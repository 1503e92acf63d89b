package retrieval

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"unicode/utf8"

	"github.com/akolanti/DocQA/internal/config"
	"github.com/akolanti/DocQA/internal/domain/commonModels"
	"github.com/akolanti/DocQA/internal/rag/embedding"
	"github.com/akolanti/DocQA/internal/rag/llm"
	"github.com/akolanti/DocQA/pkg/logger_i"
)

// indexedChunk keeps the index position aligned with the chunk it embeds,
// so empty chunks can be skipped without shifting pages around.
type indexedChunk struct {
	text string
	page int
}

// VectorRetriever owns one flat index per document. Indexes are immutable
// after build, so queries against already-registered documents are safe
// while another document is being added.
type VectorRetriever struct {
	mu       sync.RWMutex
	embedder embedding.Embedder
	indexes  map[string]*flatIndex
	chunks   map[string][]indexedChunk
	logger   *logger_i.Logger
}

func NewVectorRetriever(embedder embedding.Embedder) *VectorRetriever {
	return &VectorRetriever{
		embedder: embedder,
		indexes:  make(map[string]*flatIndex),
		chunks:   make(map[string][]indexedChunk),
		logger:   logger_i.NewLogger("VectorRetriever"),
	}
}

// AddDocument embeds every non-empty chunk (truncated to the embedding input
// limit), builds a fresh index and registers it. Nothing is registered when
// any step fails - a failed add leaves the retriever exactly as it was.
func (r *VectorRetriever) AddDocument(ctx context.Context, documentID string, doc commonModels.Document) error {
	kept := make([]indexedChunk, 0, len(doc.Content.Chunks))
	for _, c := range doc.Content.Chunks {
		text := truncateText(c.Text, config.MaxEmbeddingInputChars)
		if text == "" {
			continue
		}
		kept = append(kept, indexedChunk{text: text, page: c.Page})
	}
	if len(kept) == 0 {
		return &EmptyDocumentError{DocumentID: documentID}
	}

	vectors, err := r.embedChunks(ctx, kept)
	if err != nil {
		return err
	}
	// chunk/vector alignment is what makes hit positions resolvable back to
	// pages; do not trust every embedder to report a short batch as an error
	if len(vectors) != len(kept) {
		return fmt.Errorf("embedder returned %d vectors for %d chunks of document %s", len(vectors), len(kept), documentID)
	}

	index, err := newFlatIndex(documentID, vectors)
	if err != nil {
		return err
	}

	r.mu.Lock()
	r.indexes[documentID] = index
	r.chunks[documentID] = kept
	r.mu.Unlock()

	r.logger.Info("Indexed document", "documentId", documentID, "chunks", len(kept))
	return nil
}

func (r *VectorRetriever) embedChunks(ctx context.Context, kept []indexedChunk) ([][]float32, error) {
	texts := make([]string, len(kept))
	for i, c := range kept {
		texts[i] = c.text
	}

	vectors := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += config.EmbeddingBatchSize {
		end := start + config.EmbeddingBatchSize
		if end > len(texts) {
			end = len(texts)
		}
		batch := texts[start:end]

		var batchVectors [][]float32
		err := llm.CallWithRetry(ctx, r.logger, "chunk_embedding", func() error {
			var callErr error
			batchVectors, callErr = r.embedder.BatchEmbedding(ctx, batch)
			return callErr
		})
		if err != nil {
			return nil, err
		}
		vectors = append(vectors, batchVectors...)
	}
	return vectors, nil
}

// Retrieve embeds the query once, searches each requested document's index
// bounded by min(topN, chunk count), then merges and sorts by similarity.
func (r *VectorRetriever) Retrieve(ctx context.Context, query string, documentIDs []string, topN int) ([]commonModels.RetrievalResult, error) {
	if len(documentIDs) == 0 {
		documentIDs = r.DocumentIDs()
	}
	if len(documentIDs) == 0 {
		return nil, ErrNoDocuments
	}

	var queryVector []float32
	err := llm.CallWithRetry(ctx, r.logger, "query_embedding", func() error {
		var callErr error
		queryVector, callErr = r.embedder.GetEmbedding(ctx, query)
		return callErr
	})
	if err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var allResults []commonModels.RetrievalResult
	for _, docID := range documentIDs {
		index, ok := r.indexes[docID]
		if !ok {
			continue
		}
		chunks := r.chunks[docID]

		for _, h := range index.search(queryVector, topN) {
			allResults = append(allResults, commonModels.RetrievalResult{
				DocumentID: docID,
				Page:       chunks[h.position].page,
				Text:       chunks[h.position].text,
				Distance:   h.score,
			})
		}
	}

	sort.SliceStable(allResults, func(a, b int) bool {
		return allResults[a].Distance > allResults[b].Distance
	})
	if len(allResults) > topN {
		allResults = allResults[:topN]
	}
	return allResults, nil
}

func (r *VectorRetriever) DocumentIDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.indexes))
	for id := range r.indexes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (r *VectorRetriever) DocumentCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.indexes)
}

func (r *VectorRetriever) ChunkCount(documentID string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if index, ok := r.indexes[documentID]; ok {
		return index.size()
	}
	return 0
}

func (r *VectorRetriever) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.indexes = make(map[string]*flatIndex)
	r.chunks = make(map[string][]indexedChunk)
}

func truncateText(text string, limit int) string {
	if len(text) <= limit {
		return text
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut]
}
