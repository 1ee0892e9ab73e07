// Package artifact assembles paginated raster snapshots into the final
// multi-page PDF and stores the result.
package artifact

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	"github.com/disintegration/imaging"
	"github.com/jung-kurt/gofpdf"
	"go.uber.org/zap"

	"github.com/shopfront/exporter/internal/domain/export"
	"github.com/shopfront/exporter/internal/infrastructure/capture"
)

// Strategy selects how page slices are produced from the snapshot.
type Strategy string

const (
	// StrategyClip draws the full snapshot on every page at a negative
	// vertical offset and relies on page-level clipping to discard the
	// off-page portion. Placement math stays purely additive and the bitmap
	// is encoded once.
	StrategyClip Strategy = "clip"
	// StrategyCrop physically crops one bitmap band per page. Visually
	// equivalent to clipping; trades extra encodes for smaller page
	// content streams.
	StrategyCrop Strategy = "crop"
)

// IsValid checks if the Strategy is a valid value
func (s Strategy) IsValid() bool {
	return s == StrategyClip || s == StrategyCrop
}

// Assembler turns a snapshot plus page placements into a binary document.
type Assembler interface {
	Assemble(snapshot *capture.Snapshot, geom export.PageGeometry, placements []export.Placement, title string) ([]byte, error)
}

// AssemblyError represents an error during artifact assembly
type AssemblyError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AssemblyError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *AssemblyError) Unwrap() error {
	return e.Cause
}

// Error codes for assembly failures
const (
	ErrCodeAssemblyFailed  = "ASSEMBLY_FAILED"
	ErrCodeInvalidSnapshot = "INVALID_SNAPSHOT"
	ErrCodeStorageFailed   = "STORAGE_FAILED"
)

// NewAssemblyError creates a new AssemblyError
func NewAssemblyError(code, message string, cause error) *AssemblyError {
	return &AssemblyError{Code: code, Message: message, Cause: cause}
}

// PDFAssembler assembles snapshots into PDF documents with gofpdf.
type PDFAssembler struct {
	strategy Strategy
	logger   *zap.Logger
}

// NewPDFAssembler creates a PDFAssembler using the given slicing strategy.
func NewPDFAssembler(strategy Strategy, logger *zap.Logger) *PDFAssembler {
	if !strategy.IsValid() {
		strategy = StrategyClip
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PDFAssembler{strategy: strategy, logger: logger}
}

// Assemble embeds one vertical slice of the snapshot per page placement.
// The slices, stacked in page order, reconstruct the continuous snapshot.
func (a *PDFAssembler) Assemble(snapshot *capture.Snapshot, geom export.PageGeometry, placements []export.Placement, title string) ([]byte, error) {
	if snapshot == nil || len(snapshot.PNG) == 0 {
		return nil, NewAssemblyError(ErrCodeInvalidSnapshot, "snapshot is empty", nil)
	}
	if snapshot.Width <= 0 || snapshot.Height <= 0 {
		return nil, NewAssemblyError(ErrCodeInvalidSnapshot, "snapshot has zero dimensions", nil)
	}
	if len(placements) == 0 {
		return nil, NewAssemblyError(ErrCodeInvalidSnapshot, "no page placements", nil)
	}

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P", // geometry dimensions already carry orientation
		UnitStr:        "mm",
		Size:           gofpdf.SizeType{Wd: geom.PageW, Ht: geom.PageH},
	})
	pdf.SetAutoPageBreak(false, 0)
	if title != "" {
		pdf.SetTitle(title, true)
	}
	pdf.SetCreator("shopfront-exporter", true)

	var err error
	switch a.strategy {
	case StrategyCrop:
		err = a.assembleCropped(pdf, snapshot, geom, placements)
	default:
		err = a.assembleClipped(pdf, snapshot, geom, placements)
	}
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, NewAssemblyError(ErrCodeAssemblyFailed, "failed to write PDF", err)
	}

	a.logger.Debug("artifact assembled",
		zap.Int("pages", len(placements)),
		zap.String("strategy", string(a.strategy)),
		zap.Int("bytes", buf.Len()))

	return buf.Bytes(), nil
}

// assembleClipped registers the snapshot once and redraws it on every page,
// shifted by the placement offset, inside a content-box clip rectangle.
func (a *PDFAssembler) assembleClipped(pdf *gofpdf.Fpdf, snapshot *capture.Snapshot, geom export.PageGeometry, placements []export.Placement) error {
	opt := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("snapshot", opt, bytes.NewReader(snapshot.PNG))
	if pdf.Err() {
		return NewAssemblyError(ErrCodeAssemblyFailed, "failed to register snapshot image", pdf.Error())
	}

	renderedH := export.RenderedHeight(snapshot.Width, snapshot.Height, geom)
	m := geom.MarginMM
	for _, p := range placements {
		pdf.AddPage()
		pdf.ClipRect(m, m, geom.ContentW, geom.ContentH, false)
		pdf.ImageOptions("snapshot", m, m+p.OffsetMM, geom.ContentW, renderedH, false, opt, 0, "")
		pdf.ClipEnd()
	}
	if pdf.Err() {
		return NewAssemblyError(ErrCodeAssemblyFailed, "failed to place snapshot", pdf.Error())
	}
	return nil
}

// assembleCropped decodes the snapshot once and embeds one physically
// cropped band per page.
func (a *PDFAssembler) assembleCropped(pdf *gofpdf.Fpdf, snapshot *capture.Snapshot, geom export.PageGeometry, placements []export.Placement) error {
	img, err := png.Decode(bytes.NewReader(snapshot.PNG))
	if err != nil {
		return NewAssemblyError(ErrCodeInvalidSnapshot, "failed to decode snapshot", err)
	}

	renderedH := export.RenderedHeight(snapshot.Width, snapshot.Height, geom)
	pxPerMM := float64(snapshot.Height) / renderedH
	m := geom.MarginMM
	opt := gofpdf.ImageOptions{ImageType: "PNG"}

	for _, p := range placements {
		startPx := int(-p.OffsetMM * pxPerMM)
		endPx := int((-p.OffsetMM + geom.ContentH) * pxPerMM)
		if endPx > snapshot.Height {
			endPx = snapshot.Height
		}
		if startPx >= endPx {
			continue
		}

		band := imaging.Crop(img, image.Rect(0, startPx, snapshot.Width, endPx))
		var bandBuf bytes.Buffer
		if err := imaging.Encode(&bandBuf, band, imaging.PNG); err != nil {
			return NewAssemblyError(ErrCodeAssemblyFailed,
				fmt.Sprintf("failed to encode page %d band", p.Page), err)
		}

		name := fmt.Sprintf("band-%d", p.Page)
		pdf.RegisterImageOptionsReader(name, opt, &bandBuf)
		bandH := float64(endPx-startPx) / pxPerMM
		pdf.AddPage()
		pdf.ImageOptions(name, m, m, geom.ContentW, bandH, false, opt, 0, "")
	}
	if pdf.Err() {
		return NewAssemblyError(ErrCodeAssemblyFailed, "failed to place snapshot bands", pdf.Error())
	}
	return nil
}

// Ensure PDFAssembler implements Assembler
var _ Assembler = (*PDFAssembler)(nil)
