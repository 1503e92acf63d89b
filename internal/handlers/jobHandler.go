package handlers

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/akolanti/DocQA/internal/api"
	"github.com/akolanti/DocQA/internal/config"
	"github.com/akolanti/DocQA/internal/domain/commonModels"
	"github.com/akolanti/DocQA/internal/domain/jobModel"
	"github.com/akolanti/DocQA/internal/job"
	"github.com/akolanti/DocQA/internal/metrics"
	"github.com/akolanti/DocQA/internal/rag"
	"github.com/akolanti/DocQA/pkg/logger_i"
)

var (
	handlerInstance *JobHandler //private singleton
	once            sync.Once
	logJH           *logger_i.Logger
)

type JobHandler struct {
	service    *job.Service
	ragService rag.Service
}

func InitJobHandler(jobService *job.Service, ragService rag.Service) {
	once.Do(func() {
		handlerInstance = &JobHandler{service: jobService, ragService: ragService}

		logJH = logger_i.NewLogger("JobHandler")
		logRH = logger_i.NewLogger("RequestHandler")
		logJH.Info("Starting job handler")
	})

}

func CreateNewJob(newJob newJobData) {
	logJH.With("traceId", newJob.traceId, "job id", newJob.id)
	logJH.Info("To create new job")
	handlerInstance.pushToJobChannel(newJob)
}

func GetJobStatus(id string, traceId string) (result jobModel.Job, isFound bool) {
	ctxC := context.WithValue(context.Background(), config.TRACE_ID_KEY, traceId)
	if handlerInstance != nil {
		return handlerInstance.service.JobStore.GetJob(ctxC, id)
	}
	return result, false
}

// GetStoredBatchAnswers looks a batch up in the answer store, for callers
// polling after the job record itself expired.
func GetStoredBatchAnswers(id string, traceId string) ([]jobModel.BatchAnswer, bool) {
	if handlerInstance == nil || handlerInstance.service.AnswerStore == nil {
		return nil, false
	}
	ctxC := context.WithValue(context.Background(), config.TRACE_ID_KEY, traceId)
	answers, err := handlerInstance.service.AnswerStore.GetBatchAnswers(ctxC, id)
	if err != nil || len(answers) == 0 {
		return nil, false
	}
	return answers, true
}

func ListDomainDocuments(domain commonModels.Domain) []commonModels.DocumentRecord {
	if handlerInstance == nil {
		return nil
	}
	return handlerInstance.ragService.ListDocuments(domain)
}

func ClearDomain(ctx context.Context, domain commonModels.Domain) error {
	if handlerInstance == nil {
		return nil
	}
	return handlerInstance.ragService.ClearDomain(ctx, domain)
}

func ValidateAskRequest(askReq api.AskRequest) bool {
	if handlerInstance == nil {
		return false
	}
	if askReq.Question == "" {
		return false
	}
	if _, err := commonModels.ParseDomain(askReq.Domain); err != nil {
		return false
	}
	if _, err := commonModels.ParseAnswerKind(askReq.Kind); err != nil {
		return false
	}
	return true
}

func ValidateBatchRequest(batchReq api.BatchRequest) bool {
	if handlerInstance == nil {
		return false
	}
	if len(batchReq.Questions) == 0 {
		return false
	}
	if _, err := commonModels.ParseDomain(batchReq.Domain); err != nil {
		return false
	}
	for _, q := range batchReq.Questions {
		if q.Text == "" {
			return false
		}
		if _, err := commonModels.ParseAnswerKind(q.Kind); err != nil {
			return false
		}
	}
	return true
}

// private methods
func (h *JobHandler) pushToJobChannel(newJob newJobData) {

	_job := jobModel.Job{}
	_job.Id = newJob.id
	_job.CreatedTime = time.Now()
	_job.TraceId = newJob.traceId
	_job.Status = jobModel.JobStatusQueued
	_job.JobPayload.Domain = newJob.domain

	switch {
	case newJob.isIngest:
		_job.CurrentStep = jobModel.IngestInit
		_job.JobType = jobModel.JobTypeIngest
		_job.JobPayload.IngestFileName = newJob.fileName
		_job.JobPayload.IngestURL = newJob.documentSource
		_job.JobPayload.DocumentName = newJob.documentName

	case newJob.isBatch:
		_job.CurrentStep = jobModel.QuestionInit
		_job.JobType = jobModel.JobTypeBatch
		_job.JobPayload.DocumentIDs = newJob.documentIDs
		for _, q := range newJob.questions {
			_job.JobPayload.Questions = append(_job.JobPayload.Questions, jobModel.BatchQuestion{
				Text: q.Text,
				Kind: q.Kind,
			})
		}

	default:
		_job.JobType = jobModel.JobTypeQuery
		_job.CurrentStep = jobModel.QuestionInit
		_job.JobPayload.Question = newJob.question
		_job.JobPayload.Kind = newJob.kind
		_job.JobPayload.DocumentIDs = newJob.documentIDs
	}

	//metrics
	metrics.IncrementJobsInQueue()

	h.service.JobChannel <- _job //this is a blocking send to prevent the system from being overwhelmed
	logJH.Info("Created new job")

	//we will start a new worker every 10 requests - can also be configured
	// or
	//for performance - a new worker is added for ingestion and batch type jobs
	//both involve batch processing which might take time - external system call
	//worker will be removed if it has idle time - so it should be ok
	//this also allows us to only keep 1 worker running at most times therefore cutting resource spend

	accurateCount := atomic.AddInt64(&h.service.RequestCount, 1) //after sending a request increment counter
	if accurateCount%config.RequestsPerNewWorkerCount == 0 || _job.JobType == jobModel.JobTypeIngest || _job.JobType == jobModel.JobTypeBatch {
		metrics.StartDispatcherSignalCount() //metrics
		logJH.Debug("Worker count ", accurateCount)
		h.service.DispatcherChannel <- true
	}
}
