package analysis_test

import (
	"context"

	"github.com/quantcommander/QuantAPI/internal/domain/jobModel"
)

// MockRAG implements rag.Service
type MockRAG struct {
	OnProcessRequest func(ctx context.Context, job jobModel.Job, history []string) jobModel.Job
	OnIngestDocument func(ctx context.Context, job jobModel.Job) jobModel.Job
}

func (m *MockRAG) ProcessRequest(ctx context.Context, job jobModel.Job, history []string) jobModel.Job {
	if m.OnProcessRequest != nil {
		return m.OnProcessRequest(ctx, job, history)
	}
	job.JobPayload.Answer = "mocked rag answer"
	job.CurrentStep = jobModel.Complete
	return job
}

func (m *MockRAG) IngestDocument(ctx context.Context, job jobModel.Job) jobModel.Job {
	if m.OnIngestDocument != nil {
		return m.OnIngestDocument(ctx, job)
	}
	job.Status = jobModel.JobStatusComplete
	return job
}
