package rag_test

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/akolanti/DocQA/internal/config"
	"github.com/akolanti/DocQA/internal/domain/commonModels"
	"github.com/akolanti/DocQA/internal/domain/jobModel"
	"github.com/akolanti/DocQA/internal/rag"
	"github.com/akolanti/DocQA/internal/rag/answer"
	"github.com/akolanti/DocQA/internal/rag/llm"
	"github.com/akolanti/DocQA/internal/rag/vectorDB"
)

func newTestService(embedder *MockEmbedder, provider *MockProvider, converter *MockConverter, cache *MockAnswerCache, answers jobModel.AnswerStore) rag.Service {
	// typed nil must not become a non-nil interface value
	var cacheDep vectorDB.AnswerCache
	if cache != nil {
		cacheDep = cache
	}
	registry := rag.NewRegistry(embedder, provider)
	return rag.NewService(registry, answer.NewGenerator(provider), embedder, converter, cacheDep, answers)
}

func testContext() context.Context {
	return context.WithValue(context.Background(), config.TRACE_ID_KEY, "test-trace")
}

func ingestTestDocument(t *testing.T, s rag.Service, domain string) jobModel.Job {
	t.Helper()

	path := filepath.Join(t.TempDir(), "report.pdf")
	if err := os.WriteFile(path, []byte("placeholder upload"), 0644); err != nil {
		t.Fatalf("writing upload file: %v", err)
	}

	job := jobModel.Job{
		Id:      "ingest-job-1",
		JobType: jobModel.JobTypeIngest,
		JobPayload: jobModel.JobPayload{
			Domain:         domain,
			DocumentName:   "Annual Report 2025",
			IngestFileName: "report.pdf",
			IngestURL:      path,
		},
	}
	result := s.IngestDocument(testContext(), job)
	if result.Status == jobModel.JobStatusError {
		t.Fatalf("ingestion failed: %+v", result.Error)
	}
	return result
}

func TestProcessRequest_Scenarios(t *testing.T) {
	tests := []struct {
		name           string
		domain         string
		kind           string
		ingestFirst    bool
		cache          *MockAnswerCache
		setupMocks     func(e *MockEmbedder, p *MockProvider)
		expectedStep   jobModel.InternalStatus
		expectedStatus jobModel.JobStatus
		expectedAnswer any
		expectedErr    string
		expectedCode   int
	}{
		{
			name:           "Success_Full_Flow",
			domain:         "annual_report",
			kind:           "string",
			ingestFirst:    true,
			setupMocks:     func(e *MockEmbedder, p *MockProvider) {},
			expectedStep:   jobModel.Complete,
			expectedAnswer: "mocked answer",
		},
		{
			name:   "Success_Cache_Hit",
			domain: "annual_report",
			kind:   "string",
			cache: &MockAnswerCache{
				OnGetCachedAnswer: func(ctx context.Context, d commonModels.Domain, v []float32) (*commonModels.Answer, bool, error) {
					return &commonModels.Answer{FinalAnswer: "cached answer", RelevantPages: []int{3}}, true, nil
				},
			},
			setupMocks:     func(e *MockEmbedder, p *MockProvider) {},
			expectedStep:   jobModel.Complete,
			expectedAnswer: "cached answer",
		},
		{
			name:           "Empty_Corpus_Structured_No_Answer",
			domain:         "medical",
			kind:           "number",
			setupMocks:     func(e *MockEmbedder, p *MockProvider) {},
			expectedStep:   jobModel.Complete,
			expectedAnswer: "N/A",
		},
		{
			name:        "Failure_Answer_Generation",
			domain:      "annual_report",
			kind:        "string",
			ingestFirst: true,
			setupMocks: func(e *MockEmbedder, p *MockProvider) {
				p.OnComplete = func(ctx context.Context, sys, user string, schema *llm.ResponseSchema) (string, error) {
					if strings.Contains(sys, "block_rankings") {
						return mockRerankReply, nil
					}
					return "", errors.New("provider down")
				}
			},
			expectedStatus: jobModel.JobStatusError,
			expectedErr:    "ANSWER_FAILURE",
			expectedCode:   http.StatusInternalServerError,
		},
		{
			name:           "Bad_Request_Unknown_Domain",
			domain:         "poetry",
			kind:           "string",
			setupMocks:     func(e *MockEmbedder, p *MockProvider) {},
			expectedStatus: jobModel.JobStatusError,
			expectedErr:    "BAD_REQUEST",
			expectedCode:   http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mEmbed := &MockEmbedder{}
			mProvider := &MockProvider{}
			s := newTestService(mEmbed, mProvider, &MockConverter{}, tt.cache, nil)

			if tt.ingestFirst {
				ingestTestDocument(t, s, "annual_report")
			}
			tt.setupMocks(mEmbed, mProvider)

			job := jobModel.Job{
				Id:      "test-job",
				JobType: jobModel.JobTypeQuery,
				JobPayload: jobModel.JobPayload{
					Question: "What was the revenue?",
					Domain:   tt.domain,
					Kind:     tt.kind,
				},
			}

			result := s.ProcessRequest(testContext(), job)

			if result.Status != tt.expectedStatus {
				t.Errorf("Status got %v, want %v", result.Status, tt.expectedStatus)
			}
			if tt.expectedStep != "" && result.CurrentStep != tt.expectedStep {
				t.Errorf("Step got %v, want %v", result.CurrentStep, tt.expectedStep)
			}

			if tt.expectedAnswer != nil {
				if result.JobPayload.Answer == nil {
					t.Fatal("expected an answer, got nil")
				}
				if result.JobPayload.Answer.FinalAnswer != tt.expectedAnswer {
					t.Errorf("Answer got %v, want %v", result.JobPayload.Answer.FinalAnswer, tt.expectedAnswer)
				}
			}

			if tt.expectedErr != "" {
				if result.Error.Message != tt.expectedErr {
					t.Errorf("Error message got %s, want %s", result.Error.Message, tt.expectedErr)
				}
				if result.Error.Code != tt.expectedCode {
					t.Errorf("Error code got %d, want %d", result.Error.Code, tt.expectedCode)
				}
			}
		})
	}
}

func TestProcessRequest_CacheHitSkipsPipeline(t *testing.T) {
	cache := &MockAnswerCache{
		OnGetCachedAnswer: func(ctx context.Context, d commonModels.Domain, v []float32) (*commonModels.Answer, bool, error) {
			return &commonModels.Answer{FinalAnswer: "cached"}, true, nil
		},
	}
	mProvider := &MockProvider{}
	s := newTestService(&MockEmbedder{}, mProvider, &MockConverter{}, cache, nil)

	job := jobModel.Job{
		Id:         "cached-job",
		JobPayload: jobModel.JobPayload{Question: "anything", Domain: "universal", Kind: "string"},
	}
	result := s.ProcessRequest(testContext(), job)

	if result.Status == jobModel.JobStatusError {
		t.Fatalf("unexpected error: %+v", result.Error)
	}
	if got := mProvider.Calls(); got != 0 {
		t.Errorf("cache hit still made %d model calls", got)
	}
}

func TestIngestDocument_Scenarios(t *testing.T) {
	tests := []struct {
		name           string
		converter      *MockConverter
		setupMocks     func(e *MockEmbedder)
		expectedStatus jobModel.JobStatus
		expectedErr    string
	}{
		{
			name:           "Ingestion_Success",
			converter:      &MockConverter{},
			setupMocks:     func(e *MockEmbedder) {},
			expectedStatus: jobModel.JobStatusComplete,
		},
		{
			name: "Failure_Conversion",
			converter: &MockConverter{
				OnConvert: func(ctx context.Context, path string) ([]commonModels.RawPage, error) {
					return nil, errors.New("corrupt file")
				},
			},
			setupMocks:     func(e *MockEmbedder) {},
			expectedStatus: jobModel.JobStatusError,
			expectedErr:    "CONVERSION_FAILURE",
		},
		{
			name:      "Failure_Embedding",
			converter: &MockConverter{},
			setupMocks: func(e *MockEmbedder) {
				e.OnBatchEmbedding = func(ctx context.Context, chunks []string) ([][]float32, error) {
					return nil, errors.New("api limit")
				}
			},
			expectedStatus: jobModel.JobStatusError,
			expectedErr:    "INGESTION_FAILURE",
		},
		{
			name: "Failure_Empty_Document",
			converter: &MockConverter{
				OnConvert: func(ctx context.Context, path string) ([]commonModels.RawPage, error) {
					return []commonModels.RawPage{{Number: 1, Content: "   \n\t  "}}, nil
				},
			},
			setupMocks:     func(e *MockEmbedder) {},
			expectedStatus: jobModel.JobStatusError,
			expectedErr:    "INGESTION_FAILURE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mEmbed := &MockEmbedder{}
			tt.setupMocks(mEmbed)
			s := newTestService(mEmbed, &MockProvider{}, tt.converter, nil, nil)

			path := filepath.Join(t.TempDir(), "upload.pdf")
			if err := os.WriteFile(path, []byte("placeholder"), 0644); err != nil {
				t.Fatalf("writing upload file: %v", err)
			}

			job := jobModel.Job{
				Id:      "ingest-job-1",
				JobType: jobModel.JobTypeIngest,
				JobPayload: jobModel.JobPayload{
					Domain:         "universal",
					DocumentName:   "Uploaded Doc",
					IngestFileName: "upload.pdf",
					IngestURL:      path,
				},
			}
			result := s.IngestDocument(testContext(), job)

			if result.Status != tt.expectedStatus {
				t.Errorf("Status got %v, want %v", result.Status, tt.expectedStatus)
			}
			if tt.expectedErr != "" && result.Error.Message != tt.expectedErr {
				t.Errorf("Error message got %s, want %s", result.Error.Message, tt.expectedErr)
			}

			if tt.expectedStatus == jobModel.JobStatusComplete {
				if result.JobPayload.IngestResult == nil {
					t.Fatal("expected an ingest result")
				}
				if result.JobPayload.IngestResult.PagesCount != 2 {
					t.Errorf("PagesCount got %d, want 2", result.JobPayload.IngestResult.PagesCount)
				}
				if docs := s.ListDocuments(commonModels.DomainUniversal); len(docs) != 1 {
					t.Errorf("ListDocuments got %d records, want 1", len(docs))
				}
			}
		})
	}
}

func TestProcessBatch_MixedResults(t *testing.T) {
	store := &MockAnswerStore{}
	s := newTestService(&MockEmbedder{}, &MockProvider{}, &MockConverter{}, nil, store)
	ingestTestDocument(t, s, "universal")

	job := jobModel.Job{
		Id:      "batch-job-1",
		JobType: jobModel.JobTypeBatch,
		JobPayload: jobModel.JobPayload{
			Domain: "universal",
			Questions: []jobModel.BatchQuestion{
				{Text: "What did the board approve?", Kind: "string"},
				{Text: "How fast is light?", Kind: "velocity"},
			},
		},
	}
	result := s.ProcessBatch(testContext(), job)

	if result.Status == jobModel.JobStatusError {
		t.Fatalf("batch failed: %+v", result.Error)
	}
	if len(result.JobPayload.BatchAnswers) != 2 {
		t.Fatalf("got %d batch answers, want 2", len(result.JobPayload.BatchAnswers))
	}
	if result.JobPayload.BatchAnswers[0].Answer == nil {
		t.Error("first question should have an answer")
	}
	if result.JobPayload.BatchAnswers[1].Error == "" {
		t.Error("unknown answer kind should fail its slot")
	}
	if result.JobPayload.BatchAnswers[1].Answer != nil {
		t.Error("failed slot should carry no answer")
	}

	stored, err := store.GetBatchAnswers(testContext(), "batch-job-1")
	if err != nil {
		t.Fatalf("answers were not persisted: %v", err)
	}
	if len(stored) != 2 {
		t.Errorf("stored %d answers, want 2", len(stored))
	}
}

func TestClearDomain(t *testing.T) {
	cache := &MockAnswerCache{}
	s := newTestService(&MockEmbedder{}, &MockProvider{}, &MockConverter{}, cache, nil)
	ingestTestDocument(t, s, "stock")

	if err := s.ClearDomain(testContext(), commonModels.DomainStock); err != nil {
		t.Fatalf("ClearDomain failed: %v", err)
	}
	if docs := s.ListDocuments(commonModels.DomainStock); len(docs) != 0 {
		t.Errorf("domain still holds %d documents after clear", len(docs))
	}
	if cache.Resets() != 1 {
		t.Errorf("answer cache reset %d times, want 1", cache.Resets())
	}
}
