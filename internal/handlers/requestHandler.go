package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/akolanti/DocQA/internal/adapter"
	"github.com/akolanti/DocQA/internal/api"
	"github.com/akolanti/DocQA/internal/domain/commonModels"
	"github.com/akolanti/DocQA/pkg/logger_i"
)

var logRH *logger_i.Logger

// technically i dont need this
// but i want to eventually remove jobHandler from handlers and set it in another package
// so in anticipation for that this struct exists
type newJobData struct {
	id             string
	traceId        string
	isBatch        bool
	question       string
	kind           string
	domain         string
	documentIDs    []string
	questions      []api.BatchQuestionRequest
	isIngest       bool
	documentName   string
	fileName       string
	documentSource string
}

func GetHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	return
}

// AskHandler godoc
// @Summary      Ask a question over ingested documents
// @Description  Accepts a question with optional domain, answer kind and document filter, queues a background answering job, and returns a job ID to track status.
// @Tags         Questions
// @Accept       json
// @Produce      json
// @Param        request  body      api.AskRequest       true  "Question, domain and answer kind"
// @Success      202      {object}  api.InitJobResponse  "Job successfully created"
// @Failure      400      {object}  api.JobResponse      "Invalid request data"
// @Router       /ask [post]
func AskHandler(w http.ResponseWriter, request *http.Request) {

	if validateContext(request.Context()) {

		var requestData api.AskRequest
		defer func(Body io.ReadCloser) {
			err := Body.Close()
			if err != nil {
				logRH.Error("Couldn't close the Ask handler reader :", err)
			}
		}(request.Body)
		if err := json.NewDecoder(request.Body).Decode(&requestData); err != nil || !ValidateAskRequest(requestData) {

			logRH.Warn("Bad Ask Request: ", "error:", err, "request data:", requestData)
			WriteErrorResponse(w, http.StatusBadRequest, "", "Bad Request")
			return
		}

		processQuestionJob(request, w, requestData)
		return
	}
	logRH.Warn("Invalid Context by request ", request.RemoteAddr)
}

// BatchHandler godoc
// @Summary      Ask a batch of questions
// @Description  Accepts a list of questions answered with bounded parallelism. Returns a job ID; the answers land on the status endpoint when the batch completes.
// @Tags         Questions
// @Accept       json
// @Produce      json
// @Param        request  body      api.BatchRequest     true  "Questions with per-question answer kinds"
// @Success      202      {object}  api.InitJobResponse  "Job successfully created"
// @Failure      400      {object}  api.JobResponse      "Invalid request data"
// @Router       /batch [post]
func BatchHandler(w http.ResponseWriter, request *http.Request) {

	if validateContext(request.Context()) {

		var requestData api.BatchRequest
		defer request.Body.Close()
		if err := json.NewDecoder(request.Body).Decode(&requestData); err != nil || !ValidateBatchRequest(requestData) {

			logRH.Warn("Bad Batch Request: ", "error:", err)
			WriteErrorResponse(w, http.StatusBadRequest, "", "Bad Request")
			return
		}

		processBatchJob(request, w, requestData)
		return
	}
	logRH.Warn("Invalid Context by request ", request.RemoteAddr)
}

// GetStatusHandler godoc
// @Summary      Get job status
// @Description  Retrieves the current status of a specific job using its ID. Completed jobs carry their answer, batch answers or ingest result.
// @Tags         Job Status
// @Accept       json
// @Produce      json
// @Param        id   path      string  true  "Job ID "
// @Success      200  {object}  api.JobResponse   "Successful retrieval of job status"
// @Failure      404  {object}  api.JobResponse   "Job not found (returns Error object within JobResponse)"
// @Router       /status/{id} [get]
func GetStatusHandler(w http.ResponseWriter, r *http.Request) {
	if validateContext(r.Context()) {
		//use chi get the url id
		idString := chiURLParam(r, "id")
		result, isFound := validateId(idString, traceIdOf(r))

		logRH.Debug("Get Status Request:", "URL path", r.URL.Path)
		if !isFound {
			// the job record may have expired while its batch answers live on
			if answers, ok := GetStoredBatchAnswers(idString, traceIdOf(r)); ok {
				writeJsonResponse(w, http.StatusOK, adapter.ToAPIResponse(batchAnswersJob(idString, answers)))
				return
			}
			WriteErrorResponse(w, http.StatusNotFound, idString, "Job not found")
			return
		}

		writeJsonResponse(w, http.StatusOK, adapter.ToAPIResponse(result))
	}
}

// ListDocumentsHandler godoc
// @Summary      List ingested documents
// @Description  Lists the documents currently registered in one domain.
// @Tags         Documents
// @Produce      json
// @Param        domain  query     string  false  "Domain, defaults to universal"
// @Success      200     {object}  api.DocumentListResponse
// @Failure      400     {object}  api.JobResponse "Unknown domain"
// @Router       /documents [get]
func ListDocumentsHandler(w http.ResponseWriter, r *http.Request) {
	if validateContext(r.Context()) {
		domain, err := commonModels.ParseDomain(r.URL.Query().Get("domain"))
		if err != nil {
			WriteErrorResponse(w, http.StatusBadRequest, "", err.Error())
			return
		}
		writeJsonResponse(w, http.StatusOK, api.DocumentListResponse{
			Domain:    string(domain),
			Documents: ListDomainDocuments(domain),
		})
	}
}

// ClearDomainHandler godoc
// @Summary      Clear a domain
// @Description  Removes every document, index and cached answer of one domain. Other domains are untouched.
// @Tags         Documents
// @Produce      json
// @Param        domain  query     string  false  "Domain, defaults to universal"
// @Success      200     {object}  map[string]string
// @Failure      400     {object}  api.JobResponse "Unknown domain"
// @Router       /documents [delete]
func ClearDomainHandler(w http.ResponseWriter, r *http.Request) {
	if validateContext(r.Context()) {
		domain, err := commonModels.ParseDomain(r.URL.Query().Get("domain"))
		if err != nil {
			WriteErrorResponse(w, http.StatusBadRequest, "", err.Error())
			return
		}
		if err := ClearDomain(r.Context(), domain); err != nil {
			WriteErrorResponse(w, http.StatusInternalServerError, "", "Failed to clear domain")
			return
		}
		writeJsonResponse(w, http.StatusOK, map[string]string{"domain": string(domain), "status": "cleared"})
	}
}

// PostIngestHandler handles the uploading of PDF or DOCX documents for ingestion.
// @Summary      Upload a document for ingestion
// @Description  Receives a file via multipart/form-data, saves it to a temporary directory, and queues an ingestion job.
// @Tags         Ingestion
// @Accept       multipart/form-data
// @Produce      json
// @Param        document_name  formData  string  true   "The display name of the document"
// @Param        domain         formData  string  false  "Domain the document belongs to, defaults to universal"
// @Param        document       formData  file    true   "The PDF or DOCX file to upload"
// @Success      202  {object}  api.InitJobResponse "Accepted - returns job id"
// @Failure      400  {object}  api.JobResponse "Bad Request - Missing fields or file too large"
// @Failure      500  {object}  api.JobResponse "Internal Server Error - Storage or Write Error"
// @Router       /ingest [post]
func PostIngestHandler(w http.ResponseWriter, r *http.Request) {
	if validateContext(r.Context()) {

		targetDir, errString := getTargetDirectory()

		if errString != "" {
			logRH.Error("Couldn't get target directory :", "err", errString)
			WriteErrorResponse(w, http.StatusInternalServerError, "", errString)
		}

		const maxUploadSize = 32 << 20 //32mb
		err := r.ParseMultipartForm(maxUploadSize)
		if err != nil {
			WriteErrorResponse(w, http.StatusBadRequest, "", "File too large or bad request")
			return
		}

		//process request
		docName := r.FormValue("document_name")
		if docName == "" {
			WriteErrorResponse(w, http.StatusBadRequest, "", "document_name is required")
			return
		}
		domain := r.FormValue("domain")
		if _, err := commonModels.ParseDomain(domain); err != nil {
			WriteErrorResponse(w, http.StatusBadRequest, docName, err.Error())
			return
		}

		//get the document name the user uploads
		fileReader, fileMetadata, err := r.FormFile("document")
		if err != nil {
			WriteErrorResponse(w, http.StatusBadRequest, docName, "Could not retrieve file")
			return
		}
		defer fileReader.Close()

		filename := fmt.Sprintf("%d-%s", time.Now().UnixNano(), fileMetadata.Filename)
		tempFilePath := filepath.Join(targetDir, filename)
		destinationFileWriter, err := os.Create(tempFilePath)
		if err != nil {
			WriteErrorResponse(w, http.StatusInternalServerError, docName, "Storage error")
			return
		}
		defer destinationFileWriter.Close()

		if _, err := io.Copy(destinationFileWriter, fileReader); err != nil {
			WriteErrorResponse(w, http.StatusInternalServerError, docName, "Write error")
			return
		}
		processIngestJob(r, w, docName, domain, fileMetadata.Filename, tempFilePath)
		return
	}
	logRH.Warn("Invalid Context by request ", r.RemoteAddr)
}
