package retrieval

import (
	"context"
	"errors"

	"github.com/akolanti/DocQA/internal/config"
	"github.com/akolanti/DocQA/internal/domain/commonModels"
	"github.com/akolanti/DocQA/pkg/logger_i"
)

// HybridRetriever runs the two retrieval stages in order: a wide vector
// search over the requested documents, then a model rerank that narrows the
// sample down to the blocks handed to answer generation.
type HybridRetriever struct {
	retriever  *VectorRetriever
	reranker   *Reranker
	sampleSize int
	topN       int
	logger     *logger_i.Logger
}

func NewHybridRetriever(retriever *VectorRetriever, reranker *Reranker) *HybridRetriever {
	return &HybridRetriever{
		retriever:  retriever,
		reranker:   reranker,
		sampleSize: config.RetrievalSampleSize,
		topN:       config.RetrievalTopN,
		logger:     logger_i.NewLogger("HybridRetriever"),
	}
}

// Retrieve returns the top blocks for the question ordered by combined
// score. An empty corpus yields an empty slice, not an error - the caller
// turns that into a structured no-answer result.
func (h *HybridRetriever) Retrieve(ctx context.Context, question string, documentIDs []string) ([]commonModels.RetrievalResult, error) {
	sample, err := h.retriever.Retrieve(ctx, question, documentIDs, h.sampleSize)
	if err != nil {
		if errors.Is(err, ErrNoDocuments) {
			h.logger.Warn("Retrieval over empty corpus", "question", question)
			return []commonModels.RetrievalResult{}, nil
		}
		return nil, err
	}
	if len(sample) == 0 {
		return []commonModels.RetrievalResult{}, nil
	}

	reranked, err := h.reranker.Rerank(ctx, question, sample)
	if err != nil {
		return nil, err
	}
	if len(reranked) > h.topN {
		reranked = reranked[:h.topN]
	}
	return reranked, nil
}

func (h *HybridRetriever) Retriever() *VectorRetriever {
	return h.retriever
}
