package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/quantcommander/QuantAPI/internal/adapter"
	"github.com/quantcommander/QuantAPI/internal/adapter/utils"
	"github.com/quantcommander/QuantAPI/internal/api"
	"github.com/quantcommander/QuantAPI/internal/config"
	"github.com/quantcommander/QuantAPI/internal/domain/jobModel"
	"github.com/quantcommander/QuantAPI/pkg/logger_i"
)

var logRH *logger_i.Logger

// carries everything the job channel needs, regardless of job type
type newJobData struct {
	id             string
	chatId         string
	message        string
	isNewChat      bool
	traceId        string
	jobType        jobModel.JobType
	documentName   string
	documentSource string
}

func GetHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	return
}

// ChatHandler godoc
// @Summary      Start a new chat job
// @Description  Accepts a message, initializes a background processing job, and returns a job ID to track status.
// @Tags         Messaging
// @Accept       json
// @Produce      json
// @Param        request  body      api.ChatRequest      true  "Chat Message and optional Chat ID"
// @Success      202      {object}  api.InitJobResponse  "Job successfully created"
// @Failure      400      {object}  api.JobResponse      "Invalid request data or chat ID"
// @Router       /chat [post]
func ChatHandler(w http.ResponseWriter, request *http.Request) {

	if validateContext(request.Context()) {

		var requestData api.ChatRequest
		defer func(Body io.ReadCloser) {
			err := Body.Close()
			if err != nil {
				logRH.Error("Couldn't close the Chat handler reader :", err)
			}
		}(request.Body)
		if err := json.NewDecoder(request.Body).Decode(&requestData); err != nil || !ValidateChatRequest(requestData) {

			logRH.Warn("Bad Chat Request: ", "error:", err, "request data:", requestData)
			WriteErrorResponse(w, http.StatusBadRequest, requestData.ChatID, "Bad Request")
			return
		}
		processNewJobData(request, w, requestData, jobModel.JobTypeQuery, "", "")
		return
	}
	logRH.Warn("Invalid Context by request ", request.RemoteAddr)
}

// GetStatusHandler godoc
// @Summary      Get job status
// @Description  Retrieves the current status of a specific job using its ID.
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
		idString := utils.GetChiURLParam(r, "id")
		result, isFound := validateId(idString, traceIdFromContext(r))

		logRH.Debug("Get Status Request:", "URL path", r.URL.Path)
		if !isFound {
			WriteErrorResponse(w, http.StatusNotFound, idString, "Job not found")
			return
		}

		writeJsonResponse(w, http.StatusOK, adapter.ToAPIResponse(result))
	}
}

// PostIngestHandler handles the uploading of PDF or DOCX documents for RAG ingestion.
// @Summary      Upload a document for ingestion
// @Description  Receives a file via multipart/form-data, saves it to a temporary directory, and queues an ingestion job.
// @Tags         Ingestion
// @Accept       multipart/form-data
// @Produce      json
// @Param        document_name  formData  string  true  "The display name of the document"
// @Param        document       formData  file    true  "The PDF or DOCX file to upload"
// @Success      202  {object}  api.InitJobResponse "Accepted - returns job_id"
// @Failure      400  {object}  api.JobResponse "Bad Request - Missing fields or file too large"
// @Failure      500  {object}  api.JobResponse "Internal Server Error - Storage or Write Error"
// @Router       /ingest [post]
func PostIngestHandler(w http.ResponseWriter, r *http.Request) {
	if validateContext(r.Context()) {

		err := r.ParseMultipartForm(config.MaxDocumentUploadSize)
		if err != nil {
			WriteErrorResponse(w, http.StatusBadRequest, "", "File too large or bad request")
			return
		}

		docName := r.FormValue("document_name")
		if docName == "" {
			WriteErrorResponse(w, http.StatusBadRequest, "", "document_name is required")
			return
		}

		fileReader, fileMetadata, err := r.FormFile("document")
		if err != nil {
			WriteErrorResponse(w, http.StatusBadRequest, docName, "Could not retrieve file")
			return
		}
		defer fileReader.Close()

		tempFilePath, errString := saveUploadedFile(fileReader, fileMetadata.Filename)
		if errString != "" {
			WriteErrorResponse(w, http.StatusInternalServerError, docName, errString)
			return
		}

		processNewJobData(r, w, api.ChatRequest{}, jobModel.JobTypeIngest, docName, tempFilePath)
		return
	}
	logRH.Warn("Invalid Context by request ", r.RemoteAddr)
}

// PostDatasetHandler handles CSV uploads for structured analysis.
// @Summary      Upload a CSV dataset
// @Description  Receives a CSV via multipart/form-data, saves it to a temporary directory, and queues a dataset load job. An optional chatID scopes the dataset to one conversation.
// @Tags         Datasets
// @Accept       multipart/form-data
// @Produce      json
// @Param        dataset_name  formData  string  true   "The display name of the dataset"
// @Param        chatID        formData  string  false  "Chat to attach the dataset to"
// @Param        dataset       formData  file    true   "The CSV file to upload"
// @Success      202  {object}  api.InitJobResponse "Accepted - returns job_id"
// @Failure      400  {object}  api.JobResponse "Bad Request - Missing fields, wrong extension or file too large"
// @Failure      500  {object}  api.JobResponse "Internal Server Error - Storage or Write Error"
// @Router       /dataset [post]
func PostDatasetHandler(w http.ResponseWriter, r *http.Request) {
	if validateContext(r.Context()) {

		err := r.ParseMultipartForm(config.MaxDatasetUploadBytes)
		if err != nil {
			WriteErrorResponse(w, http.StatusBadRequest, "", "File too large or bad request")
			return
		}

		datasetName := r.FormValue("dataset_name")
		if datasetName == "" {
			WriteErrorResponse(w, http.StatusBadRequest, "", "dataset_name is required")
			return
		}

		fileReader, fileMetadata, err := r.FormFile("dataset")
		if err != nil {
			WriteErrorResponse(w, http.StatusBadRequest, datasetName, "Could not retrieve file")
			return
		}
		defer fileReader.Close()

		if !strings.EqualFold(filepath.Ext(fileMetadata.Filename), ".csv") {
			WriteErrorResponse(w, http.StatusBadRequest, datasetName, "Only .csv files are accepted")
			return
		}

		tempFilePath, errString := saveUploadedFile(fileReader, fileMetadata.Filename)
		if errString != "" {
			WriteErrorResponse(w, http.StatusInternalServerError, datasetName, errString)
			return
		}

		requestData := api.ChatRequest{ChatID: r.FormValue("chatID")}
		processNewJobData(r, w, requestData, jobModel.JobTypeDataset, datasetName, tempFilePath)
		return
	}
	logRH.Warn("Invalid Context by request ", r.RemoteAddr)
}

func saveUploadedFile(fileReader multipart.File, originalName string) (string, string) {
	targetDir, errString := getTargetDirectory()
	if errString != "" {
		logRH.Error("Couldn't get target directory :", "err", errString)
		return "", errString
	}

	filename := fmt.Sprintf("%d-%s", time.Now().UnixNano(), originalName)
	tempFilePath := filepath.Join(targetDir, filename)
	destinationFileWriter, err := os.Create(tempFilePath)
	if err != nil {
		return "", "Storage error"
	}
	defer destinationFileWriter.Close()

	if _, err := io.Copy(destinationFileWriter, fileReader); err != nil {
		return "", "Write error"
	}
	return tempFilePath, ""
}
