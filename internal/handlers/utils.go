package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/akolanti/DocQA/internal/adapter"
	"github.com/akolanti/DocQA/internal/adapter/utils"
	"github.com/akolanti/DocQA/internal/api"
	"github.com/akolanti/DocQA/internal/config"
	"github.com/akolanti/DocQA/internal/domain/jobModel"
)

func writeJsonResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but can't send a clean status code now
		logRH.Error("Error encoding response: %v", err)
	}
}

func validateId(id string, traceId string) (result jobModel.Job, isFound bool) {
	if id == "" {
		logRH.Warn("Empty Job ID")
		return jobModel.Job{}, false
	}
	return GetJobStatus(id, traceId)
}

func validateContext(ctx context.Context) bool {
	logRH.With("traceId:", ctx.Value(config.TRACE_ID_KEY).(string))
	if ctx.Err() != nil {
		logRH.Warn("context error", ctx.Err())
		return false
	}

	select {
	case <-ctx.Done():
		logRH.Warn("context cancelled")
		return false
	default:
		return true

	}
}

func WriteErrorResponse(w http.ResponseWriter, httpCode int, id string, error string) {
	writeJsonResponse(w, httpCode, adapter.BadRequest(id, error, httpCode))
}

func getTargetDirectory() (string, string) {
	root, err := os.Getwd()
	if err != nil {
		return "", "Storage Error"
	}

	targetDir := filepath.Join(root, "temporary_data")
	if err := os.MkdirAll(targetDir, 0750); err != nil {
		return "", "Storage Error"
	}
	return targetDir, ""
}

func chiURLParam(r *http.Request, key string) string {
	return utils.GetChiURLParam(r, key)
}

func traceIdOf(r *http.Request) string {
	return r.Context().Value(config.TRACE_ID_KEY).(string)
}

func processQuestionJob(request *http.Request, w http.ResponseWriter, requestData api.AskRequest) {
	newJob := newJobData{
		id:          utils.GetNewUUID(),
		traceId:     traceIdOf(request),
		question:    requestData.Question,
		kind:        requestData.Kind,
		domain:      requestData.Domain,
		documentIDs: requestData.DocumentIDs,
	}
	CreateNewJob(newJob)
	writeJsonResponse(w, http.StatusAccepted, adapter.ToInitJobResponse(newJob.id))
}

func processBatchJob(request *http.Request, w http.ResponseWriter, requestData api.BatchRequest) {
	newJob := newJobData{
		id:          utils.GetNewUUID(),
		traceId:     traceIdOf(request),
		isBatch:     true,
		domain:      requestData.Domain,
		documentIDs: requestData.DocumentIDs,
		questions:   requestData.Questions,
	}
	CreateNewJob(newJob)
	writeJsonResponse(w, http.StatusAccepted, adapter.ToInitJobResponse(newJob.id))
}

func processIngestJob(request *http.Request, w http.ResponseWriter, docName string, domain string, fileName string, docPath string) {
	newJob := newJobData{
		id:             utils.GetNewUUID(),
		traceId:        traceIdOf(request),
		isIngest:       true,
		domain:         domain,
		documentName:   docName,
		fileName:       fileName,
		documentSource: docPath,
	}
	CreateNewJob(newJob)
	writeJsonResponse(w, http.StatusAccepted, adapter.ToInitJobResponse(newJob.id))
}

// batchAnswersJob reconstructs a minimal completed job from stored batch
// answers so the status endpoint can render them uniformly.
func batchAnswersJob(id string, answers []jobModel.BatchAnswer) jobModel.Job {
	return jobModel.Job{
		Id:      id,
		JobType: jobModel.JobTypeBatch,
		Status:  jobModel.JobStatusComplete,
		EndTime: time.Time{},
		JobPayload: jobModel.JobPayload{
			BatchAnswers: answers,
		},
	}
}
