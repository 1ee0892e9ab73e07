package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shopfront/exporter/internal/domain/export"
	"github.com/shopfront/exporter/internal/domain/shared"
)

// GormJobRepository persists export jobs through GORM
type GormJobRepository struct {
	db *gorm.DB
}

// NewGormJobRepository creates a new GormJobRepository
func NewGormJobRepository(db *gorm.DB) *GormJobRepository {
	return &GormJobRepository{db: db}
}

// Migrate creates or updates the export job table
func (r *GormJobRepository) Migrate() error {
	return r.db.AutoMigrate(&ExportJobModel{})
}

// Save inserts a new export job
func (r *GormJobRepository) Save(ctx context.Context, job *export.Job) error {
	if err := r.db.WithContext(ctx).Create(toModel(job)).Error; err != nil {
		return fmt.Errorf("failed to save export job: %w", err)
	}
	return nil
}

// Update persists the current state of an existing export job
func (r *GormJobRepository) Update(ctx context.Context, job *export.Job) error {
	result := r.db.WithContext(ctx).
		Model(&ExportJobModel{}).
		Where("id = ?", job.ID).
		Updates(toModel(job))
	if result.Error != nil {
		return fmt.Errorf("failed to update export job: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByID retrieves an export job by its identifier
func (r *GormJobRepository) FindByID(ctx context.Context, id uuid.UUID) (*export.Job, error) {
	var model ExportJobModel
	err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find export job: %w", err)
	}
	return fromModel(&model), nil
}

// List retrieves export jobs ordered by creation time, newest first
func (r *GormJobRepository) List(ctx context.Context, limit, offset int) ([]export.Job, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	var models []ExportJobModel
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list export jobs: %w", err)
	}

	jobs := make([]export.Job, len(models))
	for i := range models {
		jobs[i] = *fromModel(&models[i])
	}
	return jobs, nil
}

// Ensure GormJobRepository implements the domain repository
var _ export.JobRepository = (*GormJobRepository)(nil)
