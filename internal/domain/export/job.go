package export

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopfront/exporter/internal/domain/shared"
)

// JobStatus represents the status of an export job
type JobStatus string

const (
	JobStatusPending   JobStatus = "PENDING"
	JobStatusRendering JobStatus = "RENDERING"
	JobStatusCompleted JobStatus = "COMPLETED"
	JobStatusFailed    JobStatus = "FAILED"
)

// IsValid checks if the JobStatus is a valid value
func (s JobStatus) IsValid() bool {
	switch s {
	case JobStatusPending, JobStatusRendering, JobStatusCompleted, JobStatusFailed:
		return true
	}
	return false
}

// String returns the string representation of JobStatus
func (s JobStatus) String() string {
	return string(s)
}

// IsTerminal returns true if this is a terminal status (no further transitions)
func (s JobStatus) IsTerminal() bool {
	return s == JobStatusCompleted || s == JobStatusFailed
}

// CanTransitionTo checks if the status can transition to the target status
func (s JobStatus) CanTransitionTo(target JobStatus) bool {
	switch s {
	case JobStatusPending:
		return target == JobStatusRendering || target == JobStatusFailed
	case JobStatusRendering:
		return target == JobStatusCompleted || target == JobStatusFailed
	case JobStatusCompleted, JobStatusFailed:
		return false
	}
	return false
}

// SourceKind identifies where the captured content came from.
type SourceKind string

const (
	SourceOrder SourceKind = "ORDER" // rendered from an order document
	SourceHTML  SourceKind = "HTML"  // caller-supplied markup
	SourcePage  SourceKind = "PAGE"  // live on-screen region of an existing page
)

// Job records one run of the export pipeline. Each export call owns exactly
// one job; concurrent exports never share a job or any other mutable state.
type Job struct {
	ID           uuid.UUID
	Source       SourceKind
	OrderID      string // set for SourceOrder jobs
	FileName     string
	Paper        PaperSize
	Orientation  Orientation
	Status       JobStatus
	Pages        int
	ArtifactPath string
	ErrorMessage string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	CompletedAt  *time.Time
}

// NewJob creates a pending export job.
func NewJob(source SourceKind, orderID, fileName string, geom PageGeometry) (*Job, error) {
	if fileName == "" {
		return nil, shared.NewDomainError("INVALID_FILE_NAME", "File name cannot be empty")
	}
	now := time.Now()
	return &Job{
		ID:          uuid.New(),
		Source:      source,
		OrderID:     orderID,
		FileName:    fileName,
		Paper:       geom.Paper,
		Orientation: geom.Orientation,
		Status:      JobStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// StartRendering marks the job as rendering
func (j *Job) StartRendering() error {
	if !j.Status.CanTransitionTo(JobStatusRendering) {
		return shared.NewDomainError("INVALID_STATE",
			"Cannot start rendering from status: "+j.Status.String())
	}
	j.Status = JobStatusRendering
	j.UpdatedAt = time.Now()
	return nil
}

// Complete marks the job as completed with the artifact location and page count
func (j *Job) Complete(artifactPath string, pages int) error {
	if !j.Status.CanTransitionTo(JobStatusCompleted) {
		return shared.NewDomainError("INVALID_STATE",
			"Cannot complete from status: "+j.Status.String())
	}
	if pages < 1 {
		return shared.NewDomainError("INVALID_PAGE_COUNT", "Completed job must have at least one page")
	}
	now := time.Now()
	j.Status = JobStatusCompleted
	j.ArtifactPath = artifactPath
	j.Pages = pages
	j.CompletedAt = &now
	j.UpdatedAt = now
	return nil
}

// Fail marks the job as failed with an error message
func (j *Job) Fail(errorMessage string) error {
	if j.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE",
			"Cannot fail a job that is already in terminal status: "+j.Status.String())
	}
	j.Status = JobStatusFailed
	j.ErrorMessage = errorMessage
	j.UpdatedAt = time.Now()
	return nil
}

// IsCompleted returns true if the job completed successfully
func (j *Job) IsCompleted() bool {
	return j.Status == JobStatusCompleted
}

// IsFailed returns true if the job failed
func (j *Job) IsFailed() bool {
	return j.Status == JobStatusFailed
}

// JobRepository persists export jobs
type JobRepository interface {
	Save(ctx context.Context, job *Job) error
	Update(ctx context.Context, job *Job) error
	FindByID(ctx context.Context, id uuid.UUID) (*Job, error)
	List(ctx context.Context, limit, offset int) ([]Job, error)
}
