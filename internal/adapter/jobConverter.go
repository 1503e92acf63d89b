package adapter

import (
	"fmt"
	"time"

	"github.com/akolanti/DocQA/internal/api"
	"github.com/akolanti/DocQA/internal/domain/jobModel"
)

func ToInitJobResponse(id string) api.InitJobResponse {
	return api.InitJobResponse{
		Id:        id,
		StatusURL: fmt.Sprintf("status/%s", id), //pass "status/job.Id"
	}
}

func ToAPIResponse(job jobModel.Job) api.JobResponse {

	var errorPtr *api.JobOutgoingError
	if job.Error.Message != "" || job.Error.Code != 0 {
		errorPtr = &api.JobOutgoingError{
			Code:    job.Error.Code,
			Message: job.Error.Message,
			Retry:   job.Error.Retry,
		}
	}

	result := api.Result{
		Status:       string(job.Status),
		Answer:       toAnswerResponse(job.JobPayload),
		BatchAnswers: toBatchAnswers(job.JobPayload.BatchAnswers),
		IngestResult: job.JobPayload.IngestResult,
	}

	return api.JobResponse{
		Id:        job.Id,
		StartTime: job.CreatedTime,
		EndTime:   job.EndTime,
		Error:     errorPtr,
		Result:    result,
	}
}

func toAnswerResponse(payload jobModel.JobPayload) *api.AnswerResponse {
	if payload.Answer == nil {
		return nil
	}

	return &api.AnswerResponse{
		Question: payload.Question,
		Kind:     payload.Kind,
		Answer:   payload.Answer,
	}
}

func toBatchAnswers(answers []jobModel.BatchAnswer) []api.AnswerResponse {
	if len(answers) == 0 {
		return nil
	}
	out := make([]api.AnswerResponse, len(answers))
	for i, a := range answers {
		out[i] = api.AnswerResponse{
			Question: a.Question,
			Kind:     a.Kind,
			Answer:   a.Answer,
			Error:    a.Error,
		}
	}
	return out
}

func BadRequest(id string, error string, code int) api.JobResponse {
	return api.JobResponse{
		Id:        id,
		StartTime: time.Time{},
		EndTime:   time.Time{},
		Result: api.Result{
			Status: string(api.JobStatusError),
		},
		Error: &api.JobOutgoingError{
			Code:    code,
			Message: error,
			Retry:   false,
		},
	}
}
