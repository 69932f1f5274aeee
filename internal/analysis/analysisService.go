package analysis

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/quantcommander/QuantAPI/internal/config"
	"github.com/quantcommander/QuantAPI/internal/dataset"
	"github.com/quantcommander/QuantAPI/internal/domain/jobModel"
	"github.com/quantcommander/QuantAPI/internal/metrics"
	"github.com/quantcommander/QuantAPI/internal/query"
	"github.com/quantcommander/QuantAPI/internal/rag"
	"github.com/quantcommander/QuantAPI/pkg/logger_i"
)

// Service is what the worker calls for every job type. It decides whether a
// chat message is a structured analysis request or a plain document question,
// and owns the per-chat datasets either way.
type Service interface {
	ProcessMessage(ctx context.Context, job jobModel.Job, messageHistory []string) jobModel.Job
	IngestDocument(ctx context.Context, job jobModel.Job) jobModel.Job
	LoadDataset(ctx context.Context, job jobModel.Job) jobModel.Job
}

type service struct {
	ragService rag.Service
	datasets   *dataset.Store
	logger     *logger_i.Logger
}

// NewService constructor. ragService may be nil when no llm backend is up;
// structured analysis still works, only enhancement and doc questions degrade.
func NewService(ragService rag.Service, datasets *dataset.Store) Service {
	return &service{
		ragService: ragService,
		datasets:   datasets,
		logger:     logger_i.NewLogger("Analysis Service :"),
	}
}

func (s *service) ProcessMessage(ctx context.Context, job jobModel.Job, messageHistory []string) jobModel.Job {
	inMethodLogger := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "JobId", job.Id)

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("analysis_process_message", time.Since(start)) }()

	question := job.JobPayload.Question
	job.CurrentStep = jobModel.IntentParse

	if query.IsTopBottomQuery(question) {
		intent := query.ParseTopBottomQuery(question)
		metrics.CountIntentMatch(string(intent.Direction))
		inMethodLogger.Debug("intent matched", "direction", intent.Direction, "count", intent.Count, "groupBy", intent.GroupBy)
		return s.runTopBottom(ctx, job, intent, messageHistory)
	}

	if group, ok := isVarianceQuery(question); ok {
		inMethodLogger.Debug("variance intent matched", "groupBy", group)
		return s.runVariance(ctx, job, group, messageHistory)
	}

	//plain document question, straight to RAG
	if s.ragService == nil {
		return s.jobError(job, errors.New("no llm backend configured"), "NO_RAG_BACKEND", false)
	}
	return s.ragService.ProcessRequest(ctx, job, messageHistory)
}

func (s *service) runTopBottom(ctx context.Context, job jobModel.Job, intent query.ParsedIntent, messageHistory []string) jobModel.Job {
	job.CurrentStep = jobModel.DatasetAnalysis

	d, ok := s.datasets.Get(job.ChatId)
	if !ok {
		return returnOutput(job, noDatasetAnswer)
	}

	result, err := d.TopN(intent)
	if err != nil {
		var colErr *dataset.ColumnError
		if errors.As(err, &colErr) {
			return returnOutput(job, columnSuggestionAnswer(colErr))
		}
		return s.jobError(job, err, "DATASET_ANALYSIS_FAILURE", false)
	}

	job.JobPayload.Analysis = formatTopN(d, result)
	return s.finishAnalysis(ctx, job, messageHistory)
}

func (s *service) runVariance(ctx context.Context, job jobModel.Job, groupBy string, messageHistory []string) jobModel.Job {
	job.CurrentStep = jobModel.DatasetAnalysis

	d, ok := s.datasets.Get(job.ChatId)
	if !ok {
		return returnOutput(job, noDatasetAnswer)
	}

	result, err := d.Variance(groupBy)
	if err != nil {
		var colErr *dataset.ColumnError
		if errors.As(err, &colErr) {
			return returnOutput(job, columnSuggestionAnswer(colErr))
		}
		//missing actual/plan columns is a user-facing answer, not a failure
		return returnOutput(job, "I could not run a variance analysis on this dataset: "+err.Error())
	}

	job.JobPayload.Analysis = formatVariance(d, result)
	return s.finishAnalysis(ctx, job, messageHistory)
}

// finishAnalysis hands the rendered analysis to the llm for a conversational
// wrap when enhancement is on, and falls back to the raw rendering whenever
// the llm path is down or errors.
func (s *service) finishAnalysis(ctx context.Context, job jobModel.Job, messageHistory []string) jobModel.Job {
	if !config.EnableRAGEnhancement || s.ragService == nil {
		return returnOutput(job, job.JobPayload.Analysis)
	}

	enhanced := s.ragService.ProcessRequest(ctx, job, messageHistory)
	if enhanced.Status == jobModel.JobStatusError || enhanced.JobPayload.Answer == "" {
		s.logger.Error("rag enhancement failed, answering with raw analysis", "jobId", job.Id)
		return returnOutput(job, job.JobPayload.Analysis)
	}
	return enhanced
}

func (s *service) IngestDocument(ctx context.Context, job jobModel.Job) jobModel.Job {
	if s.ragService == nil {
		return s.jobError(job, errors.New("no llm backend configured"), "NO_RAG_BACKEND", false)
	}
	return s.ragService.IngestDocument(ctx, job)
}

func (s *service) LoadDataset(ctx context.Context, job jobModel.Job) jobModel.Job {
	inMethodLogger := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "JobId", job.Id)

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("dataset_load", time.Since(start)) }()

	job.CurrentStep = jobModel.DatasetLoading

	d, err := dataset.LoadCSV(job.JobPayload.DatasetPath, job.JobPayload.DatasetName)
	if err != nil {
		return s.jobError(job, err, "DATASET_LOAD_FAILURE", false)
	}

	s.datasets.Put(job.ChatId, d)

	if err = os.Remove(job.JobPayload.DatasetPath); err != nil {
		inMethodLogger.Error("Error removing uploaded file", "error", err)
	}

	inMethodLogger.Info("dataset loaded", "name", d.Name, "rows", len(d.Rows), "columns", len(d.Columns))
	return returnOutput(job, formatDatasetSummary(d))
}

func returnOutput(job jobModel.Job, ans string) jobModel.Job {
	job.JobPayload.Answer = ans
	job.CurrentStep = jobModel.Complete
	return job
}

func (s *service) jobError(job jobModel.Job, err error, message string, canRetry bool) jobModel.Job {
	s.logger.Error(message, "error", err)

	job.Error = jobModel.JobError{
		Code:    http.StatusInternalServerError,
		Message: "Internal Server Error",
		Retry:   canRetry,
	}
	job.Status = jobModel.JobStatusError
	return job
}
