// Package persistence stores export job records with GORM.
package persistence

import (
	"time"

	"github.com/google/uuid"

	"github.com/shopfront/exporter/internal/domain/export"
)

// ExportJobModel is the database representation of an export job
type ExportJobModel struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Source       string    `gorm:"size:16;not null"`
	OrderID      string    `gorm:"size:64;index"`
	FileName     string    `gorm:"size:255;not null"`
	Paper        string    `gorm:"size:16;not null"`
	Orientation  string    `gorm:"size:16;not null"`
	Status       string    `gorm:"size:16;not null;index"`
	Pages        int
	ArtifactPath string `gorm:"size:512"`
	ErrorMessage string `gorm:"size:1024"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
	CompletedAt  *time.Time
}

// TableName overrides the default table name
func (ExportJobModel) TableName() string {
	return "export_jobs"
}

func toModel(job *export.Job) *ExportJobModel {
	return &ExportJobModel{
		ID:           job.ID,
		Source:       string(job.Source),
		OrderID:      job.OrderID,
		FileName:     job.FileName,
		Paper:        string(job.Paper),
		Orientation:  string(job.Orientation),
		Status:       string(job.Status),
		Pages:        job.Pages,
		ArtifactPath: job.ArtifactPath,
		ErrorMessage: job.ErrorMessage,
		CreatedAt:    job.CreatedAt,
		UpdatedAt:    job.UpdatedAt,
		CompletedAt:  job.CompletedAt,
	}
}

func fromModel(m *ExportJobModel) *export.Job {
	return &export.Job{
		ID:           m.ID,
		Source:       export.SourceKind(m.Source),
		OrderID:      m.OrderID,
		FileName:     m.FileName,
		Paper:        export.PaperSize(m.Paper),
		Orientation:  export.Orientation(m.Orientation),
		Status:       export.JobStatus(m.Status),
		Pages:        m.Pages,
		ArtifactPath: m.ArtifactPath,
		ErrorMessage: m.ErrorMessage,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
		CompletedAt:  m.CompletedAt,
	}
}
