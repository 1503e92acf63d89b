package retrieval

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/akolanti/DocQA/internal/config"
	"github.com/akolanti/DocQA/internal/domain/commonModels"
	"github.com/akolanti/DocQA/internal/rag/llm"
	"github.com/akolanti/DocQA/pkg/logger_i"
)

const rerankSystemPrompt = `You are a relevance judge for a document retrieval system.
You are given a question and a numbered list of text blocks extracted from documents.
Rate how relevant each block is to answering the question on a scale from 0.0 to 1.0,
where 1.0 means the block directly answers the question and 0.0 means it is unrelated.

Respond with a JSON object of this exact shape and nothing else:
{
  "block_rankings": [
    {"block_id": <int, id of the block>, "relevance_score": <number between 0.0 and 1.0>}
  ]
}
Include one entry for every block you were given.`

type blockRanking struct {
	BlockID        int     `json:"block_id"`
	RelevanceScore float64 `json:"relevance_score"`
}

type rerankResponse struct {
	BlockRankings []blockRanking `json:"block_rankings"`
}

// Reranker asks the completion model to score retrieved blocks against the
// question and blends those scores with the vector similarity.
type Reranker struct {
	provider  llm.Provider
	batchSize int
	llmWeight float64
	logger    *logger_i.Logger
}

func NewReranker(provider llm.Provider) *Reranker {
	return &Reranker{
		provider:  provider,
		batchSize: config.RerankBatchSize,
		llmWeight: config.LLMWeight,
		logger:    logger_i.NewLogger("Reranker"),
	}
}

// Rerank deduplicates the candidates by text, scores them in batches and
// returns them sorted by combined score. A batch whose response cannot be
// parsed keeps relevance 0 for its blocks instead of failing the question.
func (rr *Reranker) Rerank(ctx context.Context, question string, candidates []commonModels.RetrievalResult) ([]commonModels.RetrievalResult, error) {
	unique := dedupByText(candidates)

	for start := 0; start < len(unique); start += rr.batchSize {
		end := start + rr.batchSize
		if end > len(unique) {
			end = len(unique)
		}
		batch := unique[start:end]

		scores, err := rr.scoreBatch(ctx, question, batch)
		if err != nil {
			return nil, err
		}
		for i := range batch {
			batch[i].RelevanceScore = scores[i]
			batch[i].CombinedScore = rr.combine(scores[i], batch[i].Distance)
		}
	}

	stableSortByCombined(unique)
	return unique, nil
}

func (rr *Reranker) scoreBatch(ctx context.Context, question string, batch []commonModels.RetrievalResult) ([]float64, error) {
	var raw string
	err := llm.CallWithRetry(ctx, rr.logger, "rerank", func() error {
		var callErr error
		raw, callErr = rr.provider.Complete(ctx, rerankSystemPrompt, rerankUserPrompt(question, batch), nil)
		return callErr
	})
	if err != nil {
		return nil, err
	}

	scores := make([]float64, len(batch))
	object, err := llm.ExtractJSONObject(raw)
	if err != nil {
		rr.logger.Warn("Rerank response held no JSON, scoring batch as zero", "error", err)
		return scores, nil
	}
	var parsed rerankResponse
	if err := json.Unmarshal(object, &parsed); err != nil {
		rr.logger.Warn("Malformed rerank response, scoring batch as zero", "error", err)
		return scores, nil
	}

	seen := make(map[int]bool, len(parsed.BlockRankings))
	for _, ranking := range parsed.BlockRankings {
		if ranking.BlockID < 0 || ranking.BlockID >= len(batch) {
			rr.logger.Warn("Rerank ranking references unknown block", "blockId", ranking.BlockID)
			continue
		}
		scores[ranking.BlockID] = clamp01(ranking.RelevanceScore)
		seen[ranking.BlockID] = true
	}
	for i := range batch {
		if !seen[i] {
			rr.logger.Warn("Rerank response missed a block, keeping zero score", "blockId", i)
		}
	}
	return scores, nil
}

func (rr *Reranker) combine(relevance, distance float64) float64 {
	return clamp01(rr.llmWeight*relevance + (1-rr.llmWeight)*normalizedSimilarity(distance))
}

func rerankUserPrompt(question string, batch []commonModels.RetrievalResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Question: %s\n\nText blocks:\n", question)
	for i, r := range batch {
		fmt.Fprintf(&b, "\nBlock %d:\n\"\"\"%s\"\"\"\n", i, r.Text)
	}
	return b.String()
}

// normalizedSimilarity maps an inner-product similarity in [-1, 1] onto
// [0, 1] so it can be blended with the model's relevance score.
func normalizedSimilarity(distance float64) float64 {
	return clamp01((distance + 1) / 2)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func stableSortByCombined(results []commonModels.RetrievalResult) {
	sort.SliceStable(results, func(a, b int) bool {
		return results[a].CombinedScore > results[b].CombinedScore
	})
}

func dedupByText(results []commonModels.RetrievalResult) []commonModels.RetrievalResult {
	seen := make(map[string]bool, len(results))
	unique := make([]commonModels.RetrievalResult, 0, len(results))
	for _, r := range results {
		if seen[r.Text] {
			continue
		}
		seen[r.Text] = true
		unique = append(unique, r)
	}
	return unique
}
