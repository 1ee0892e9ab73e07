// Package export orchestrates the document export pipeline: fetch or accept
// content, render it, rasterize the result into a tall snapshot, slice the
// snapshot into pages, assemble the PDF, and store the artifact. Every call
// owns its job, snapshot, and browser tab; nothing mutable is shared between
// concurrent exports.
package export

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shopfront/exporter/internal/domain/export"
	"github.com/shopfront/exporter/internal/domain/order"
	"github.com/shopfront/exporter/internal/domain/shared"
	"github.com/shopfront/exporter/internal/infrastructure/artifact"
	"github.com/shopfront/exporter/internal/infrastructure/capture"
)

// cssPixelsPerMM converts physical millimeters to CSS reference pixels
// (96 per inch) when sizing the capture viewport.
const cssPixelsPerMM = 96.0 / 25.4

// OrderFetcher reads order documents from the storefront backend
type OrderFetcher interface {
	FetchOrder(ctx context.Context, id string) (*order.Document, error)
}

// InvoiceRenderer renders an order document into invoice markup
type InvoiceRenderer interface {
	Render(doc *order.Document) (string, error)
}

// Config holds the layout defaults applied when a request leaves its page
// options empty.
type Config struct {
	PaperSize   export.PaperSize
	Orientation export.Orientation
	MarginMM    float64
}

// Service coordinates one export from source content to stored PDF
type Service struct {
	orders    OrderFetcher
	renderer  InvoiceRenderer
	capturer  capture.Rasterizer
	assembler artifact.Assembler
	storage   artifact.Storage
	jobs      export.JobRepository
	cfg       Config
	logger    *zap.Logger
}

// NewService creates a new export service
func NewService(
	orders OrderFetcher,
	renderer InvoiceRenderer,
	capturer capture.Rasterizer,
	assembler artifact.Assembler,
	storage artifact.Storage,
	jobs export.JobRepository,
	cfg Config,
	logger *zap.Logger,
) *Service {
	if cfg.PaperSize == "" {
		cfg.PaperSize = export.PaperSizeA4
	}
	if cfg.Orientation == "" {
		cfg.Orientation = export.OrientationPortrait
	}
	if cfg.MarginMM == 0 {
		cfg.MarginMM = 10
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		orders:    orders,
		renderer:  renderer,
		capturer:  capturer,
		assembler: assembler,
		storage:   storage,
		jobs:      jobs,
		cfg:       cfg,
		logger:    logger,
	}
}

// ExportOrder renders an order's invoice and exports it as a PDF
func (s *Service) ExportOrder(ctx context.Context, req ExportOrderRequest) (*ExportResult, error) {
	doc, err := s.orders.FetchOrder(ctx, req.OrderID)
	if err != nil {
		return nil, err
	}

	html, err := s.renderer.Render(doc)
	if err != nil {
		return nil, err
	}

	geom, err := s.resolveGeometry(req.Options)
	if err != nil {
		return nil, err
	}

	fileName := req.FileName
	if fileName == "" {
		fileName = "order-" + doc.OrderNumber + ".pdf"
	}
	title := "Invoice " + doc.OrderNumber

	return s.run(ctx, export.SourceOrder, doc.ID, fileName, title, geom, &capture.Request{
		HTML:          html,
		ViewportWidth: viewportWidth(geom),
	})
}

// ExportHTML exports caller-supplied markup as a PDF
func (s *Service) ExportHTML(ctx context.Context, req ExportHTMLRequest) (*ExportResult, error) {
	if strings.TrimSpace(req.HTML) == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "HTML content cannot be empty")
	}

	geom, err := s.resolveGeometry(req.Options)
	if err != nil {
		return nil, err
	}

	fileName := req.FileName
	if fileName == "" {
		fileName = "document.pdf"
	}

	return s.run(ctx, export.SourceHTML, "", fileName, req.Title, geom, &capture.Request{
		HTML:          req.HTML,
		ViewportWidth: viewportWidth(geom),
	})
}

// ExportPage captures a live page region and exports it as a PDF
func (s *Service) ExportPage(ctx context.Context, req ExportPageRequest) (*ExportResult, error) {
	if strings.TrimSpace(req.URL) == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Page URL cannot be empty")
	}

	geom, err := s.resolveGeometry(req.Options)
	if err != nil {
		return nil, err
	}

	fileName := req.FileName
	if fileName == "" {
		fileName = "page.pdf"
	}

	return s.run(ctx, export.SourcePage, "", fileName, req.Title, geom, &capture.Request{
		URL:           req.URL,
		Selector:      req.Selector,
		ViewportWidth: viewportWidth(geom),
	})
}

// run executes the common pipeline: track the job, capture the snapshot,
// paginate, assemble, and store. Any failure after job creation is recorded
// on the job before the error propagates.
func (s *Service) run(ctx context.Context, source export.SourceKind, orderID, fileName, title string, geom export.PageGeometry, capReq *capture.Request) (*ExportResult, error) {
	job, err := export.NewJob(source, orderID, fileName, geom)
	if err != nil {
		return nil, err
	}
	if err := s.jobs.Save(ctx, job); err != nil {
		return nil, err
	}

	log := s.logger.With(
		zap.String("job_id", job.ID.String()),
		zap.String("source", string(source)),
	)
	log.Info("export started", zap.String("file_name", fileName))

	if err := job.StartRendering(); err != nil {
		return nil, err
	}
	if err := s.jobs.Update(ctx, job); err != nil {
		return nil, err
	}

	snapshot, err := s.capturer.Capture(ctx, capReq)
	if err != nil {
		return nil, s.failJob(ctx, job, log, fmt.Errorf("capture failed: %w", err))
	}

	placements, err := export.Paginate(snapshot.Width, snapshot.Height, geom)
	if err != nil {
		return nil, s.failJob(ctx, job, log, err)
	}

	pdf, err := s.assembler.Assemble(snapshot, geom, placements, title)
	if err != nil {
		return nil, s.failJob(ctx, job, log, fmt.Errorf("assembly failed: %w", err))
	}

	stored, err := s.storage.Store(ctx, &artifact.StoreRequest{JobID: job.ID, Data: pdf})
	if err != nil {
		return nil, s.failJob(ctx, job, log, fmt.Errorf("storage failed: %w", err))
	}

	if err := job.Complete(stored.Path, len(placements)); err != nil {
		return nil, err
	}
	if err := s.jobs.Update(ctx, job); err != nil {
		return nil, err
	}

	url, err := s.storage.URL(ctx, stored.Path)
	if err != nil {
		log.Warn("failed to build artifact URL", zap.Error(err))
		url = ""
	}

	log.Info("export completed",
		zap.Int("pages", len(placements)),
		zap.Int("bytes", len(pdf)),
		zap.String("artifact_path", stored.Path))

	return &ExportResult{
		JobID:        job.ID.String(),
		FileName:     fileName,
		Pages:        len(placements),
		ArtifactPath: stored.Path,
		URL:          url,
		PDF:          pdf,
	}, nil
}

// failJob records the failure on the job and returns the original error.
// A failed status update is logged but never masks the pipeline error.
func (s *Service) failJob(ctx context.Context, job *export.Job, log *zap.Logger, cause error) error {
	if err := job.Fail(cause.Error()); err != nil {
		log.Warn("failed to mark job as failed", zap.Error(err))
		return cause
	}
	if err := s.jobs.Update(ctx, job); err != nil {
		log.Warn("failed to persist job failure", zap.Error(err))
	}
	log.Error("export failed", zap.Error(cause))
	return cause
}

// GetJob retrieves one export job by identifier
func (s *Service) GetJob(ctx context.Context, id string) (*JobView, error) {
	jobID, err := uuid.Parse(id)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Invalid job id: "+id)
	}
	job, err := s.jobs.FindByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	view := toJobView(job)
	return &view, nil
}

// ListJobs retrieves export jobs, newest first
func (s *Service) ListJobs(ctx context.Context, limit, offset int) ([]JobView, error) {
	jobs, err := s.jobs.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	views := make([]JobView, len(jobs))
	for i := range jobs {
		views[i] = toJobView(&jobs[i])
	}
	return views, nil
}

// Artifact opens a stored artifact for download
func (s *Service) Artifact(ctx context.Context, path string) (io.ReadCloser, error) {
	return s.storage.Get(ctx, path)
}

// resolveGeometry merges request page options with the service defaults
func (s *Service) resolveGeometry(opts PageOptions) (export.PageGeometry, error) {
	paper := s.cfg.PaperSize
	if opts.PaperSize != "" {
		paper = export.PaperSize(strings.ToUpper(opts.PaperSize))
	}
	orientation := s.cfg.Orientation
	if opts.Orientation != "" {
		orientation = export.Orientation(strings.ToUpper(opts.Orientation))
	}
	margin := s.cfg.MarginMM
	if opts.Margin != "" {
		var err error
		margin, err = export.ParseMargin(opts.Margin)
		if err != nil {
			return export.PageGeometry{}, err
		}
	}
	return export.NewPageGeometry(paper, orientation, margin)
}

// viewportWidth sizes the capture layout to the content box so the snapshot
// maps onto the page width without horizontal cropping.
func viewportWidth(geom export.PageGeometry) int {
	return int(geom.ContentW * cssPixelsPerMM)
}
