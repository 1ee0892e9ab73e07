package artifact

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Storage persists assembled artifacts and serves them back for download.
type Storage interface {
	// Store saves an artifact and returns its storage path
	Store(ctx context.Context, req *StoreRequest) (*StoreResult, error)
	// Get retrieves an artifact by its path
	Get(ctx context.Context, path string) (io.ReadCloser, error)
	// Delete removes an artifact
	Delete(ctx context.Context, path string) error
	// URL returns an accessible URL for a stored artifact
	URL(ctx context.Context, path string) (string, error)
}

// StoreRequest contains the parameters for storing an artifact
type StoreRequest struct {
	// JobID is the export job identifier
	JobID uuid.UUID
	// Data is the raw PDF content
	Data []byte
}

// StoreResult contains the result of storing an artifact
type StoreResult struct {
	// Path is the storage path (relative to base)
	Path string
	// Size is the artifact size in bytes
	Size int64
}

// FileSystemStorageConfig contains configuration for file system storage
type FileSystemStorageConfig struct {
	// BasePath is the root directory for artifact storage
	BasePath string
	// BaseURL is the URL prefix for accessing artifacts
	BaseURL string
	// Logger for operations
	Logger *zap.Logger
}

// FileSystemStorage stores artifacts on the local file system
type FileSystemStorage struct {
	config *FileSystemStorageConfig
	logger *zap.Logger
}

// NewFileSystemStorage creates a new file system based artifact storage
func NewFileSystemStorage(config *FileSystemStorageConfig) (*FileSystemStorage, error) {
	if config == nil {
		config = &FileSystemStorageConfig{}
	}
	if config.BasePath == "" {
		config.BasePath = "/data/exports"
	}
	if config.BaseURL == "" {
		config.BaseURL = "/api/v1/export/artifacts"
	}

	if err := os.MkdirAll(config.BasePath, 0755); err != nil {
		return nil, NewAssemblyError(ErrCodeStorageFailed,
			fmt.Sprintf("failed to create storage directory: %s", config.BasePath), err)
	}

	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &FileSystemStorage{config: config, logger: logger}, nil
}

// Store saves an artifact to the file system.
// Path structure: {base}/{year}/{month}/{job_id}.pdf
func (s *FileSystemStorage) Store(ctx context.Context, req *StoreRequest) (*StoreResult, error) {
	select {
	case <-ctx.Done():
		return nil, NewAssemblyError(ErrCodeStorageFailed, "operation cancelled", ctx.Err())
	default:
	}

	if req == nil {
		return nil, NewAssemblyError(ErrCodeStorageFailed, "store request is nil", nil)
	}
	if req.JobID == uuid.Nil {
		return nil, NewAssemblyError(ErrCodeStorageFailed, "job ID is required", nil)
	}
	if len(req.Data) == 0 {
		return nil, NewAssemblyError(ErrCodeStorageFailed, "artifact data is empty", nil)
	}

	now := time.Now()
	relPath := filepath.Join(
		fmt.Sprintf("%04d", now.Year()),
		fmt.Sprintf("%02d", now.Month()),
		req.JobID.String()+".pdf",
	)
	fullPath := filepath.Join(s.config.BasePath, relPath)

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return nil, NewAssemblyError(ErrCodeStorageFailed, "failed to create artifact directory", err)
	}
	if err := os.WriteFile(fullPath, req.Data, 0644); err != nil {
		return nil, NewAssemblyError(ErrCodeStorageFailed, "failed to write artifact", err)
	}

	s.logger.Debug("artifact stored",
		zap.String("path", relPath),
		zap.Int("bytes", len(req.Data)))

	return &StoreResult{
		Path: filepath.ToSlash(relPath),
		Size: int64(len(req.Data)),
	}, nil
}

// Get retrieves an artifact from the file system
func (s *FileSystemStorage) Get(ctx context.Context, path string) (io.ReadCloser, error) {
	select {
	case <-ctx.Done():
		return nil, NewAssemblyError(ErrCodeStorageFailed, "operation cancelled", ctx.Err())
	default:
	}

	fullPath, err := s.safePath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, NewAssemblyError(ErrCodeStorageFailed, "artifact not found: "+path, err)
		}
		return nil, NewAssemblyError(ErrCodeStorageFailed, "failed to open artifact", err)
	}
	return f, nil
}

// Delete removes an artifact from the file system
func (s *FileSystemStorage) Delete(ctx context.Context, path string) error {
	select {
	case <-ctx.Done():
		return NewAssemblyError(ErrCodeStorageFailed, "operation cancelled", ctx.Err())
	default:
	}

	fullPath, err := s.safePath(path)
	if err != nil {
		return err
	}
	if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
		return NewAssemblyError(ErrCodeStorageFailed, "failed to delete artifact", err)
	}
	return nil
}

// URL returns the download URL for a stored artifact
func (s *FileSystemStorage) URL(ctx context.Context, path string) (string, error) {
	return strings.TrimSuffix(s.config.BaseURL, "/") + "/" + strings.TrimPrefix(path, "/"), nil
}

// safePath resolves a relative artifact path and rejects traversal outside
// the storage root.
func (s *FileSystemStorage) safePath(path string) (string, error) {
	cleaned := filepath.Clean(filepath.FromSlash(path))
	if cleaned == "." || strings.HasPrefix(cleaned, "..") || filepath.IsAbs(cleaned) {
		return "", NewAssemblyError(ErrCodeStorageFailed, "invalid artifact path: "+path, nil)
	}
	return filepath.Join(s.config.BasePath, cleaned), nil
}

// Ensure FileSystemStorage implements Storage
var _ Storage = (*FileSystemStorage)(nil)
