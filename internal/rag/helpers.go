package rag

import (
	"context"
	"net/http"
	"time"

	"github.com/akolanti/DocQA/internal/domain/commonModels"
	"github.com/akolanti/DocQA/internal/domain/jobModel"
	"github.com/akolanti/DocQA/internal/metrics"
	"github.com/akolanti/DocQA/pkg/logger_i"
)

func returnOutput(job jobModel.Job, ans *commonModels.Answer) jobModel.Job {
	job.JobPayload.Answer = ans
	job.CurrentStep = jobModel.Complete
	return job
}

func logOutput(job jobModel.Job, status jobModel.InternalStatus, log *logger_i.Logger) jobModel.Job {
	job.CurrentStep = status
	log.Debug("ProcessRequest", "Current Status", job.CurrentStep)
	return job
}

func (s *service) jobError(job jobModel.Job, err error, message string, canRetry bool) jobModel.Job {
	s.logger.Error(message, "error", err)

	code := http.StatusInternalServerError
	if !canRetry {
		code = http.StatusBadRequest
	}
	job.Error = jobModel.JobError{
		Code:    code,
		Message: message,
		Retry:   canRetry,
	}
	job.Status = jobModel.JobStatusError
	return job
}

func (s *service) executeEmbeddingStep(ctx context.Context, log *logger_i.Logger, job *jobModel.Job, question string) ([]float32, error) {
	*job = logOutput(*job, jobModel.EmbeddingAPICall, log)

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("embedding", time.Since(start)) }()

	return s.embedder.GetEmbedding(ctx, question)
}

func (s *service) executeCacheCheckStep(ctx context.Context, log *logger_i.Logger, job *jobModel.Job, domain commonModels.Domain, emb []float32) (*commonModels.Answer, bool) {
	*job = logOutput(*job, jobModel.CacheCall, log)

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("cache_lookup", time.Since(start)) }()

	ans, found, _ := s.answerCache.GetCachedAnswer(ctx, domain, emb)
	if found {
		metrics.IncrementAnswerCacheHits(string(domain))
	}
	return ans, found
}

func (s *service) executeRetrievalStep(ctx context.Context, log *logger_i.Logger, job *jobModel.Job, domain commonModels.Domain, question string, documentIDs []string) ([]commonModels.RetrievalResult, error) {
	*job = logOutput(*job, jobModel.RetrievalCall, log)

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("hybrid_retrieval", time.Since(start)) }()

	return s.registry.Hybrid(domain).Retrieve(ctx, question, documentIDs)
}

func (s *service) executeAnswerStep(ctx context.Context, log *logger_i.Logger, job *jobModel.Job, question string, results []commonModels.RetrievalResult, domain commonModels.Domain, kind commonModels.AnswerKind) (*commonModels.Answer, error) {
	*job = logOutput(*job, jobModel.AnswerCall, log)

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("answer_generation", time.Since(start)) }()

	return s.generator.Answer(ctx, question, results, domain, kind)
}

func (s *service) executeConvertStep(ctx context.Context, log *logger_i.Logger, path string) ([]commonModels.RawPage, error) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("document_conversion", time.Since(start)) }()

	log.Debug("Converting document", "path", path)
	return s.converter.Convert(ctx, path)
}
