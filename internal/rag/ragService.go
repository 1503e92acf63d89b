package rag

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/akolanti/DocQA/internal/adapter/utils"
	"github.com/akolanti/DocQA/internal/config"
	"github.com/akolanti/DocQA/internal/domain/commonModels"
	"github.com/akolanti/DocQA/internal/domain/jobModel"
	"github.com/akolanti/DocQA/internal/metrics"
	"github.com/akolanti/DocQA/internal/rag/answer"
	"github.com/akolanti/DocQA/internal/rag/convert"
	"github.com/akolanti/DocQA/internal/rag/embedding"
	"github.com/akolanti/DocQA/internal/rag/splitter"
	"github.com/akolanti/DocQA/internal/rag/vectorDB"
	"github.com/akolanti/DocQA/pkg/logger_i"
)

/*
ARCHITECTURE NOTE: OPAQUE INTERFACE PATTERN
---------------------------------------------------------

1. Service (Interface):
  - Real work happens down low bruh
  - This is the PUBLIC contract.
  - It defines the "behavior" (what the worker can do).
  - We expose this to keep the worker decoupled from our specific logic.

2. service (Private Struct):
  - down low stuff
  - This is the PRIVATE implementation.
  - It holds the "state" (registry, converter, cache and LLM clients).
  - It is lowercase to prevent external packages from accessing our
    internal dependencies directly.

3. Pointer Receiver (*service):
  - By defining methods on (*service), the struct IMPLICITLY satisfies
    the Service interface.
  - if it quacks like a duck, -it's a duck (Duck Typing)

4. Dependency Injection (NewService):
  - This constructor links the private struct to the public interface.
  - It allows us to swap real collaborators for mocks during testing
    without changing the worker's code.
*/

// Service Worker will only call this service - it doesn't need to know the
// retriever, converter or the answer cache
type Service interface {
	ProcessRequest(ctx context.Context, job jobModel.Job) jobModel.Job
	ProcessBatch(ctx context.Context, job jobModel.Job) jobModel.Job
	IngestDocument(ctx context.Context, job jobModel.Job) jobModel.Job

	ListDocuments(domain commonModels.Domain) []commonModels.DocumentRecord
	ClearDomain(ctx context.Context, domain commonModels.Domain) error
}

type service struct {
	registry    *Registry
	generator   *answer.Generator
	embedder    embedding.Embedder
	converter   convert.Converter
	answerCache vectorDB.AnswerCache
	answerStore jobModel.AnswerStore
	logger      *logger_i.Logger
}

// NewService constructor. answerCache may be nil (no qdrant available) -
// every question is then answered fresh.
func NewService(registry *Registry, generator *answer.Generator, em embedding.Embedder, converter convert.Converter, cache vectorDB.AnswerCache, answers jobModel.AnswerStore) Service {
	return &service{
		registry:    registry,
		generator:   generator,
		embedder:    em,
		converter:   converter,
		answerCache: cache,
		answerStore: answers,
		logger:      logger_i.NewLogger("RAG Service :"),
	}
}

func (s *service) ProcessRequest(ctx context.Context, jobt jobModel.Job) jobModel.Job {
	inMethodLogger := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY).(string), "JobId", jobt.Id)

	domain, kind, err := parseDomainAndKind(jobt.JobPayload.Domain, jobt.JobPayload.Kind)
	if err != nil {
		return s.jobError(jobt, err, "BAD_REQUEST", false)
	}

	ans, err := s.answerQuestion(ctx, inMethodLogger, &jobt, domain, kind, jobt.JobPayload.Question, jobt.JobPayload.DocumentIDs)
	if err != nil {
		return s.jobError(jobt, err, "ANSWER_FAILURE", true)
	}
	return returnOutput(jobt, ans)
}

// answerQuestion is the full pipeline for one question: cache check, hybrid
// retrieval, answer generation, background cache save.
func (s *service) answerQuestion(ctx context.Context, log *logger_i.Logger, job *jobModel.Job, domain commonModels.Domain, kind commonModels.AnswerKind, question string, documentIDs []string) (*commonModels.Answer, error) {
	var questionVector []float32
	if s.answerCache != nil {
		vec, err := s.executeEmbeddingStep(ctx, log, job, question)
		if err != nil {
			// cache is best effort, the retriever embeds the question itself
			log.Warn("Question embedding for cache failed", "error", err)
		} else {
			questionVector = vec
			if cached, found := s.executeCacheCheckStep(ctx, log, job, domain, questionVector); found {
				return cached, nil
			}
		}
	}

	results, err := s.executeRetrievalStep(ctx, log, job, domain, question, documentIDs)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		log.Warn("No context retrieved, returning structured no-answer", "domain", domain)
		return answer.NoContextAnswer(kind), nil
	}

	ans, err := s.executeAnswerStep(ctx, log, job, question, results, domain, kind)
	if err != nil {
		return nil, err
	}

	if s.answerCache != nil && questionVector != nil {
		go func() {
			saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), config.ExternalCallTimeout)
			defer cancel()
			if err := s.answerCache.SaveToCache(saveCtx, domain, utils.GetNewUUID(), questionVector, ans); err != nil {
				s.logger.Error("Failed to save to cache", "error", err)
			}
		}()
	}

	return ans, nil
}

// ProcessBatch answers every question in the payload with bounded
// parallelism. Per-question failures land in that question's slot; the
// batch itself only fails when persisting the results fails.
func (s *service) ProcessBatch(ctx context.Context, jobt jobModel.Job) jobModel.Job {
	inMethodLogger := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY).(string), "JobId", jobt.Id)

	domain, _, err := parseDomainAndKind(jobt.JobPayload.Domain, "")
	if err != nil {
		return s.jobError(jobt, err, "BAD_REQUEST", false)
	}

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("batch_answering", time.Since(start)) }()

	questions := jobt.JobPayload.Questions
	results := make([]jobModel.BatchAnswer, len(questions))

	var wg sync.WaitGroup
	semaphore := make(chan struct{}, config.BatchParallelRequests)
	for i, q := range questions {
		wg.Add(1)
		go func(slot int, q jobModel.BatchQuestion) {
			defer wg.Done()
			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			result := jobModel.BatchAnswer{Question: q.Text, Kind: q.Kind}
			kind, err := commonModels.ParseAnswerKind(q.Kind)
			if err == nil {
				jobCopy := jobt
				var ans *commonModels.Answer
				ans, err = s.answerQuestion(ctx, inMethodLogger, &jobCopy, domain, kind, q.Text, jobt.JobPayload.DocumentIDs)
				result.Answer = ans
			}
			if err != nil {
				inMethodLogger.Error("Batch question failed", "question", q.Text, "error", err)
				result.Error = err.Error()
			}
			results[slot] = result
		}(i, q)
	}
	wg.Wait()

	jobt.JobPayload.BatchAnswers = results
	if s.answerStore != nil {
		if err := s.answerStore.SaveBatchAnswers(ctx, jobt.Id, results); err != nil {
			return s.jobError(jobt, err, "ANSWER_STORE_FAILURE", true)
		}
	}
	jobt.CurrentStep = jobModel.Complete
	return jobt
}

func (s *service) IngestDocument(ctx context.Context, job jobModel.Job) jobModel.Job {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("document_ingestion", time.Since(start)) }()
	inMethodLogger := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY).(string), "JobId", job.Id)

	domain, _, err := parseDomainAndKind(job.JobPayload.Domain, "")
	if err != nil {
		return s.jobError(job, err, "BAD_REQUEST", false)
	}

	job.CurrentStep = jobModel.IngestConvert
	rawPages, err := s.executeConvertStep(ctx, inMethodLogger, job.JobPayload.IngestURL)
	if err != nil {
		return s.jobError(job, err, "CONVERSION_FAILURE", true)
	}

	doc := splitter.Split(rawPages, job.JobPayload.DocumentName, job.JobPayload.IngestFileName)
	documentID := doc.MetaInfo.DocumentID
	inMethodLogger.Debug("Document split", "documentId", documentID, "chunks", len(doc.Content.Chunks), "pages", doc.Content.Pages)

	if err := s.registry.BeginIngest(domain, documentID); err != nil {
		return s.jobError(job, err, "INGESTION_CONFLICT", false)
	}
	defer s.registry.EndIngest(domain, documentID)

	job.CurrentStep = jobModel.IngestProcessing
	if err := s.registry.Hybrid(domain).Retriever().AddDocument(ctx, documentID, doc); err != nil {
		return s.jobError(job, err, "INGESTION_FAILURE", true)
	}
	s.registry.RecordDocument(domain, doc)
	metrics.IncrementDocumentsIngested(string(domain))

	if err := os.Remove(job.JobPayload.IngestURL); err != nil {
		inMethodLogger.Error("Error removing uploaded file", "error", err)
	}

	job.JobPayload.IngestResult = &commonModels.IngestResult{
		DocumentID:   documentID,
		Filename:     job.JobPayload.IngestFileName,
		DocumentName: doc.MetaInfo.DocumentName,
		Status:       "success",
		ChunksCount:  len(doc.Content.Chunks),
		PagesCount:   doc.Content.Pages,
	}
	job.CurrentStep = jobModel.Complete
	job.Status = jobModel.JobStatusComplete
	return job
}

func (s *service) ListDocuments(domain commonModels.Domain) []commonModels.DocumentRecord {
	return s.registry.ListDocuments(domain)
}

// ClearDomain tears down the domain's documents, retriever and cached
// answers. Other domains are untouched.
func (s *service) ClearDomain(ctx context.Context, domain commonModels.Domain) error {
	s.registry.Clear(domain)
	if s.answerCache != nil {
		if err := s.answerCache.ResetDomain(ctx, domain); err != nil {
			return fmt.Errorf("clearing answer cache: %w", err)
		}
	}
	s.logger.Info("Cleared domain", "domain", domain)
	return nil
}

func parseDomainAndKind(rawDomain, rawKind string) (commonModels.Domain, commonModels.AnswerKind, error) {
	domain, err := commonModels.ParseDomain(rawDomain)
	if err != nil {
		return "", "", err
	}
	kind, err := commonModels.ParseAnswerKind(rawKind)
	if err != nil {
		return "", "", err
	}
	return domain, kind, nil
}
