package jobModel

import (
	"context"
	"time"

	"github.com/akolanti/DocQA/internal/domain/commonModels"
)

type JobStatus string
type InternalStatus string

type JobType string

const (
	JobStatusQueued   JobStatus = "QUEUED"
	JobStatusRunning  JobStatus = "RUNNING"
	JobStatusComplete JobStatus = "COMPLETE"
	JobStatusError    JobStatus = "Error"

	QuestionInit     InternalStatus = "Init"
	CacheCall        InternalStatus = "CacheCall"
	RetrievalCall    InternalStatus = "Retrieval"
	RerankCall       InternalStatus = "Rerank"
	AnswerCall       InternalStatus = "Answer"
	EmbeddingAPICall InternalStatus = "EmbeddingAPI"

	IngestInit       InternalStatus = "IngestInit"
	IngestConvert    InternalStatus = "IngestConvert"
	IngestProcessing InternalStatus = "IngestProcessing"
	Error            InternalStatus = "Error"

	Complete InternalStatus = "Complete"

	JobTypeQuery  JobType = "Query"
	JobTypeIngest JobType = "Ingest"
	JobTypeBatch  JobType = "Batch"
)

type Job struct {
	Id          string         `json:"id"`
	TraceId     string         `json:"trace_id"`
	JobType     JobType        `json:"job_type"`
	JobPayload  JobPayload     `json:"job_payload"`
	Error       JobError       `json:"error,omitempty"`
	CreatedTime time.Time      `json:"created_time"`
	EndTime     time.Time      `json:"end_time,omitempty"`
	Status      JobStatus      `json:"status"`
	CurrentStep InternalStatus `json:"current_step"`
}

type JobError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Retry   bool   `json:"retry"`
}

type BatchQuestion struct {
	Text string `json:"text"`
	Kind string `json:"kind,omitempty"`
}

type BatchAnswer struct {
	Question string               `json:"question"`
	Kind     string               `json:"kind"`
	Answer   *commonModels.Answer `json:"answer,omitempty"`
	Error    string               `json:"error,omitempty"`
}

type JobPayload struct {
	Domain string `json:"domain,omitempty"`

	//query jobs
	Question    string               `json:"question,omitempty"`
	Kind        string               `json:"kind,omitempty"`
	DocumentIDs []string             `json:"document_ids,omitempty"`
	Answer      *commonModels.Answer `json:"answer,omitempty"`

	//batch jobs
	Questions    []BatchQuestion `json:"questions,omitempty"`
	BatchAnswers []BatchAnswer   `json:"batch_answers,omitempty"`

	//ingest jobs
	IngestFileName string                     `json:"ingest_file_name,omitempty"`
	IngestURL      string                     `json:"ingest_url,omitempty"`
	DocumentName   string                     `json:"document_name,omitempty"`
	IngestResult   *commonModels.IngestResult `json:"ingest_result,omitempty"`
}

type JobStore interface {
	GetJob(ctx context.Context, jobId string) (Job, bool)
	SaveJob(ctx context.Context, job Job) error
	DeleteJob(ctx context.Context, jobID string)
}

// AnswerStore keeps the answers produced by batch jobs so callers can fetch
// them after the job record itself expires.
type AnswerStore interface {
	SaveBatchAnswers(ctx context.Context, batchId string, answers []BatchAnswer) error
	GetBatchAnswers(ctx context.Context, batchId string) ([]BatchAnswer, error)
}
