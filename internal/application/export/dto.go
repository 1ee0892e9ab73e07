package export

import (
	"time"

	"github.com/shopfront/exporter/internal/domain/export"
)

// PageOptions selects the output page layout for one export. Zero values
// fall back to the service defaults.
type PageOptions struct {
	PaperSize   string `json:"paper_size"`
	Orientation string `json:"orientation"`
	Margin      string `json:"margin"` // with unit, e.g. "10mm"
}

// ExportOrderRequest asks for an invoice PDF of one order
type ExportOrderRequest struct {
	OrderID  string      `json:"order_id"`
	FileName string      `json:"file_name"`
	Options  PageOptions `json:"options"`
}

// ExportHTMLRequest asks for a PDF of caller-supplied markup
type ExportHTMLRequest struct {
	HTML     string      `json:"html"`
	Title    string      `json:"title"`
	FileName string      `json:"file_name"`
	Options  PageOptions `json:"options"`
}

// ExportPageRequest asks for a PDF of a live page region
type ExportPageRequest struct {
	URL      string      `json:"url"`
	Selector string      `json:"selector"`
	Title    string      `json:"title"`
	FileName string      `json:"file_name"`
	Options  PageOptions `json:"options"`
}

// ExportResult is the outcome of a completed export
type ExportResult struct {
	JobID        string `json:"job_id"`
	FileName     string `json:"file_name"`
	Pages        int    `json:"pages"`
	ArtifactPath string `json:"artifact_path"`
	URL          string `json:"url"`
	PDF          []byte `json:"-"`
}

// JobView is the read model of an export job
type JobView struct {
	ID           string     `json:"id"`
	Source       string     `json:"source"`
	OrderID      string     `json:"order_id,omitempty"`
	FileName     string     `json:"file_name"`
	Paper        string     `json:"paper"`
	Orientation  string     `json:"orientation"`
	Status       string     `json:"status"`
	Pages        int        `json:"pages,omitempty"`
	ArtifactPath string     `json:"artifact_path,omitempty"`
	ErrorMessage string     `json:"error_message,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
}

func toJobView(job *export.Job) JobView {
	return JobView{
		ID:           job.ID.String(),
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
		CompletedAt:  job.CompletedAt,
	}
}
