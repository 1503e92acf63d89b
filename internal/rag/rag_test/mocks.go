package rag_test

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/akolanti/DocQA/internal/domain/commonModels"
	"github.com/akolanti/DocQA/internal/domain/jobModel"
	"github.com/akolanti/DocQA/internal/rag/llm"
)

// MockEmbedder implements embedding.Embedder
type MockEmbedder struct {
	// Control fields to simulate different behaviors
	OnGetEmbedding   func(ctx context.Context, query string) ([]float32, error)
	OnBatchEmbedding func(ctx context.Context, chunks []string) ([][]float32, error)
}

func (m *MockEmbedder) GetEmbedding(ctx context.Context, query string) ([]float32, error) {
	if m.OnGetEmbedding != nil {
		return m.OnGetEmbedding(ctx, query)
	}
	return []float32{1, 0}, nil
}

func (m *MockEmbedder) BatchEmbedding(ctx context.Context, chunks []string) ([][]float32, error) {
	if m.OnBatchEmbedding != nil {
		return m.OnBatchEmbedding(ctx, chunks)
	}
	// dummy unit vectors matching chunk count
	vectors := make([][]float32, len(chunks))
	for i := range vectors {
		vectors[i] = []float32{1, 0}
	}
	return vectors, nil
}

const mockAnswerReply = `{
  "step_by_step_analysis": "mocked analysis",
  "reasoning_summary": "mocked summary",
  "relevant_pages": [1],
  "final_answer": "mocked answer"
}`

const mockRerankReply = `{"block_rankings": [
  {"block_id": 0, "relevance_score": 0.9},
  {"block_id": 1, "relevance_score": 0.8},
  {"block_id": 2, "relevance_score": 0.7},
  {"block_id": 3, "relevance_score": 0.6},
  {"block_id": 4, "relevance_score": 0.5},
  {"block_id": 5, "relevance_score": 0.4},
  {"block_id": 6, "relevance_score": 0.3},
  {"block_id": 7, "relevance_score": 0.2},
  {"block_id": 8, "relevance_score": 0.1},
  {"block_id": 9, "relevance_score": 0.1}
]}`

// MockProvider implements llm.Provider. The default routes rerank calls
// (recognizable by the block_rankings shape in the system prompt) and answer
// calls to canned, well-formed replies.
type MockProvider struct {
	OnComplete func(ctx context.Context, systemPrompt string, userPrompt string, schema *llm.ResponseSchema) (string, error)

	mu    sync.Mutex
	calls int
}

func (m *MockProvider) Complete(ctx context.Context, systemPrompt string, userPrompt string, schema *llm.ResponseSchema) (string, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	if m.OnComplete != nil {
		return m.OnComplete(ctx, systemPrompt, userPrompt, schema)
	}
	if strings.Contains(systemPrompt, "block_rankings") {
		return mockRerankReply, nil
	}
	return mockAnswerReply, nil
}

func (m *MockProvider) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// MockConverter implements convert.Converter
type MockConverter struct {
	OnConvert func(ctx context.Context, path string) ([]commonModels.RawPage, error)
}

func (m *MockConverter) Convert(ctx context.Context, path string) ([]commonModels.RawPage, error) {
	if m.OnConvert != nil {
		return m.OnConvert(ctx, path)
	}
	return []commonModels.RawPage{
		{Number: 1, Content: "The company reported revenue of 100 million for the fiscal year."},
		{Number: 2, Content: "The board approved a dividend of 2 dollars per share."},
	}, nil
}

// MockAnswerCache implements vectorDB.AnswerCache
type MockAnswerCache struct {
	OnGetCachedAnswer func(ctx context.Context, domain commonModels.Domain, queryVector []float32) (*commonModels.Answer, bool, error)
	OnSaveToCache     func(ctx context.Context, domain commonModels.Domain, id string, vector []float32, answer *commonModels.Answer) error
	OnResetDomain     func(ctx context.Context, domain commonModels.Domain) error

	mu     sync.Mutex
	resets int
}

func (m *MockAnswerCache) GetCachedAnswer(ctx context.Context, domain commonModels.Domain, queryVector []float32) (*commonModels.Answer, bool, error) {
	if m.OnGetCachedAnswer != nil {
		return m.OnGetCachedAnswer(ctx, domain, queryVector)
	}
	return nil, false, nil
}

func (m *MockAnswerCache) SaveToCache(ctx context.Context, domain commonModels.Domain, id string, vector []float32, answer *commonModels.Answer) error {
	if m.OnSaveToCache != nil {
		return m.OnSaveToCache(ctx, domain, id, vector, answer)
	}
	return nil
}

func (m *MockAnswerCache) ResetDomain(ctx context.Context, domain commonModels.Domain) error {
	m.mu.Lock()
	m.resets++
	m.mu.Unlock()
	if m.OnResetDomain != nil {
		return m.OnResetDomain(ctx, domain)
	}
	return nil
}

func (m *MockAnswerCache) Resets() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.resets
}

// MockAnswerStore implements jobModel.AnswerStore
type MockAnswerStore struct {
	mu      sync.Mutex
	batches map[string][]jobModel.BatchAnswer
	saveErr error
}

func (m *MockAnswerStore) SaveBatchAnswers(ctx context.Context, batchId string, answers []jobModel.BatchAnswer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	if m.batches == nil {
		m.batches = make(map[string][]jobModel.BatchAnswer)
	}
	m.batches[batchId] = answers
	return nil
}

func (m *MockAnswerStore) GetBatchAnswers(ctx context.Context, batchId string) ([]jobModel.BatchAnswer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	answers, ok := m.batches[batchId]
	if !ok {
		return nil, errors.New("batch not found")
	}
	return answers, nil
}
