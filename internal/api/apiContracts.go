package api

import (
	"time"

	"github.com/akolanti/DocQA/internal/domain/commonModels"
)

type JobExternalStatus string

const (
	JobStatusError JobExternalStatus = "Error"
)

type JobResponse struct {
	Id        string            `json:"id" example:"job_cz109"`
	Result    Result            `json:"result"`
	Error     *JobOutgoingError `json:"error,omitempty"`
	StartTime time.Time         `json:"start_time"`
	EndTime   time.Time         `json:"end_time,omitempty"`
}

type JobOutgoingError struct {
	Code    int    `json:"code" example:"400"`
	Message string `json:"message" example:"Job not found"`
	Retry   bool   `json:"can_retry" example:"false"`
}

// AnswerResponse is the structured answer returned for a completed
// question, batch entry or the corresponding status poll.
type AnswerResponse struct {
	Question string               `json:"question"`
	Kind     string               `json:"kind,omitempty"`
	Answer   *commonModels.Answer `json:"answer,omitempty"`
	Error    string               `json:"error,omitempty"`
}

type Result struct {
	Status       string                     `json:"status"`
	Answer       *AnswerResponse            `json:"answer,omitempty"`
	BatchAnswers []AnswerResponse           `json:"batch_answers,omitempty"`
	IngestResult *commonModels.IngestResult `json:"ingest_result,omitempty"`
}

type InitJobResponse struct {
	Id        string `json:"id"`
	StatusURL string `json:"status_url"`
}

type DocumentListResponse struct {
	Domain    string                        `json:"domain"`
	Documents []commonModels.DocumentRecord `json:"documents"`
}

// requests---------------------

type AskRequest struct {
	Question    string   `json:"question" validate:"required"`
	Domain      string   `json:"domain,omitempty" example:"annual_report"`
	Kind        string   `json:"kind,omitempty" example:"number"`
	DocumentIDs []string `json:"document_ids,omitempty"`
}

type BatchQuestionRequest struct {
	Text string `json:"text" validate:"required"`
	Kind string `json:"kind,omitempty" example:"boolean"`
}

type BatchRequest struct {
	Domain      string                 `json:"domain,omitempty" example:"annual_report"`
	Questions   []BatchQuestionRequest `json:"questions" validate:"required"`
	DocumentIDs []string               `json:"document_ids,omitempty"`
}

type JobStatusRequest struct {
	JobId string `json:"job_id" validate:"required"`
}

type IngestDocumentRequest struct {
	DocumentName string `json:"document_name" validate:"required"`
	Domain       string `json:"domain,omitempty"`
}
