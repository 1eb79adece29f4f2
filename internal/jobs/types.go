// Package jobs defines the asynchronous scan-job contracts. Queue and store
// implementations are pluggable; internal/jobs/inmemory covers
// single-instance deployments.
package jobs

import (
	"context"
	"time"

	"github.com/dvloznov/expense-scanner/internal/pipeline"
)

// JobType represents the type of job to be executed.
type JobType string

const (
	// JobTypeScanDocument represents a document scanning job.
	JobTypeScanDocument JobType = "scan_document"
)

// JobStatus represents the current status of a job.
type JobStatus string

const (
	JobStatusPending   JobStatus = "pending"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
	JobStatusRetrying  JobStatus = "retrying"
)

// ScanDocumentJob asks a worker to run the extraction pipeline over a stored
// document.
type ScanDocumentJob struct {
	// JobID is the unique identifier for this job.
	JobID string `json:"job_id"`

	// StorageHandle is the opaque retrieval handle of the document bytes.
	StorageHandle string `json:"storage_handle"`

	// MimeType of the stored document.
	MimeType string `json:"mime_type"`

	// Status is the current status of the job.
	Status JobStatus `json:"status"`

	CreatedAt   time.Time  `json:"created_at"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	// Error contains error details if the job failed.
	Error string `json:"error,omitempty"`

	// Result holds the pipeline output once the job completed.
	Result *pipeline.Result `json:"result,omitempty"`

	RetryCount int `json:"retry_count"`
	MaxRetries int `json:"max_retries"`
}

// Job is a generic interface for all job types.
type Job interface {
	GetID() string
	GetType() JobType
	GetStatus() JobStatus
}

// GetID implements the Job interface.
func (j *ScanDocumentJob) GetID() string {
	return j.JobID
}

// GetType implements the Job interface.
func (j *ScanDocumentJob) GetType() JobType {
	return JobTypeScanDocument
}

// GetStatus implements the Job interface.
func (j *ScanDocumentJob) GetStatus() JobStatus {
	return j.Status
}

// Publisher defines the interface for publishing jobs to a queue.
type Publisher interface {
	// PublishScanDocument publishes a document scanning job.
	PublishScanDocument(ctx context.Context, job *ScanDocumentJob) error

	// Close closes the publisher and releases resources.
	Close() error
}

// Consumer defines the interface for consuming jobs from a queue.
type Consumer interface {
	// Start begins consuming jobs; handler is called for each job.
	Start(ctx context.Context, handler JobHandler) error

	// Stop stops consuming and waits for in-flight jobs to complete.
	Stop(ctx context.Context) error
}

// JobHandler processes a job. A returned error marks the job failed and
// eligible for retry.
type JobHandler func(ctx context.Context, job Job) error

// JobStore tracks job state across the job lifecycle.
type JobStore interface {
	SaveJob(ctx context.Context, job *ScanDocumentJob) error
	GetJob(ctx context.Context, jobID string) (*ScanDocumentJob, error)
	ListJobs(ctx context.Context, filter JobFilter) ([]*ScanDocumentJob, error)
	UpdateJobStatus(ctx context.Context, jobID string, status JobStatus, errorMsg string) error
}

// JobFilter defines filtering criteria for listing jobs.
type JobFilter struct {
	// StorageHandle filters jobs by document handle.
	StorageHandle string

	// Status filters jobs by status.
	Status JobStatus

	// Limit limits the number of results.
	Limit int

	// Offset for pagination.
	Offset int
}
