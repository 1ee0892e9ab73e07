package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopfront/exporter/internal/domain/export"
	"github.com/shopfront/exporter/internal/domain/shared"
)

func newTestRepo(t *testing.T) *GormJobRepository {
	t.Helper()
	db, err := Open("sqlite", ":memory:")
	require.NoError(t, err)
	repo := NewGormJobRepository(db)
	require.NoError(t, repo.Migrate())
	return repo
}

func newTestJob(t *testing.T) *export.Job {
	t.Helper()
	geom, err := export.NewPageGeometry(export.PaperSizeA4, export.OrientationPortrait, 10)
	require.NoError(t, err)
	job, err := export.NewJob(export.SourceOrder, "ord-1", "invoice-SO-1.pdf", geom)
	require.NoError(t, err)
	return job
}

func TestGormJobRepository_SaveAndFind(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	job := newTestJob(t)
	require.NoError(t, repo.Save(ctx, job))

	found, err := repo.FindByID(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, job.ID, found.ID)
	assert.Equal(t, export.SourceOrder, found.Source)
	assert.Equal(t, "ord-1", found.OrderID)
	assert.Equal(t, export.JobStatusPending, found.Status)
	assert.Equal(t, export.PaperSizeA4, found.Paper)
}

func TestGormJobRepository_UpdateLifecycle(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	job := newTestJob(t)
	require.NoError(t, repo.Save(ctx, job))

	require.NoError(t, job.StartRendering())
	require.NoError(t, repo.Update(ctx, job))
	require.NoError(t, job.Complete("2025/08/"+job.ID.String()+".pdf", 3))
	require.NoError(t, repo.Update(ctx, job))

	found, err := repo.FindByID(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, export.JobStatusCompleted, found.Status)
	assert.Equal(t, 3, found.Pages)
	assert.NotNil(t, found.CompletedAt)
}

func TestGormJobRepository_NotFound(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	_, err := repo.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)

	job := newTestJob(t)
	assert.ErrorIs(t, repo.Update(ctx, job), shared.ErrNotFound)
}

func TestGormJobRepository_List(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Save(ctx, newTestJob(t)))
	}

	jobs, err := repo.List(ctx, 2, 0)
	require.NoError(t, err)
	assert.Len(t, jobs, 2)

	jobs, err = repo.List(ctx, 50, 0)
	require.NoError(t, err)
	assert.Len(t, jobs, 3)
}
