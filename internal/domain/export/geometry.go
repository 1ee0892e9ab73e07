// Package export holds the domain model of the document export pipeline:
// page geometry, the pagination algorithm, and the export job aggregate.
package export

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopfront/exporter/internal/domain/shared"
)

// PaperSize represents the physical page format of the output document
type PaperSize string

const (
	PaperSizeA4     PaperSize = "A4"     // 210mm x 297mm
	PaperSizeLetter PaperSize = "LETTER" // 215.9mm x 279.4mm
)

// IsValid checks if the PaperSize is a valid value
func (p PaperSize) IsValid() bool {
	switch p {
	case PaperSizeA4, PaperSizeLetter:
		return true
	}
	return false
}

// String returns the string representation of PaperSize
func (p PaperSize) String() string {
	return string(p)
}

// Dimensions returns the portrait paper dimensions in millimeters (width, height)
func (p PaperSize) Dimensions() (width, height float64) {
	switch p {
	case PaperSizeA4:
		return 210, 297
	case PaperSizeLetter:
		return 215.9, 279.4
	default:
		return 210, 297
	}
}

// Orientation represents the page orientation of the output document
type Orientation string

const (
	OrientationPortrait  Orientation = "PORTRAIT"
	OrientationLandscape Orientation = "LANDSCAPE"
)

// IsValid checks if the Orientation is a valid value
func (o Orientation) IsValid() bool {
	switch o {
	case OrientationPortrait, OrientationLandscape:
		return true
	}
	return false
}

// String returns the string representation of Orientation
func (o Orientation) String() string {
	return string(o)
}

// PageGeometry describes the page layout for one export: paper size,
// orientation, a uniform margin on all four sides, and the derived content
// box. It is computed once per export call and immutable afterwards.
type PageGeometry struct {
	Paper       PaperSize
	Orientation Orientation
	MarginMM    float64
	PageW       float64 // page width in mm, orientation applied
	PageH       float64 // page height in mm, orientation applied
	ContentW    float64 // page width minus both margins
	ContentH    float64 // page height minus both margins
}

// NewPageGeometry computes the geometry for one export call.
func NewPageGeometry(paper PaperSize, orientation Orientation, marginMM float64) (PageGeometry, error) {
	if !paper.IsValid() {
		return PageGeometry{}, shared.NewDomainError("INVALID_PAPER_SIZE", "Invalid paper size: "+string(paper))
	}
	if !orientation.IsValid() {
		return PageGeometry{}, shared.NewDomainError("INVALID_ORIENTATION", "Invalid orientation: "+string(orientation))
	}
	if marginMM < 0 {
		return PageGeometry{}, shared.NewDomainError("INVALID_MARGIN", "Margin cannot be negative")
	}

	w, h := paper.Dimensions()
	if orientation == OrientationLandscape {
		w, h = h, w
	}
	if 2*marginMM >= w || 2*marginMM >= h {
		return PageGeometry{}, shared.NewDomainError("INVALID_MARGIN",
			fmt.Sprintf("Margin %.1fmm leaves no content area on %s paper", marginMM, paper))
	}

	return PageGeometry{
		Paper:       paper,
		Orientation: orientation,
		MarginMM:    marginMM,
		PageW:       w,
		PageH:       h,
		ContentW:    w - 2*marginMM,
		ContentH:    h - 2*marginMM,
	}, nil
}

// ParseMargin parses a margin string with unit ("10mm", "1.5cm", "0.5in")
// into millimeters. A bare number is treated as millimeters.
func ParseMargin(s string) (float64, error) {
	trimmed := strings.TrimSpace(strings.ToLower(s))
	if trimmed == "" {
		return 0, shared.NewDomainError("INVALID_MARGIN", "Margin cannot be empty")
	}

	factor := 1.0
	switch {
	case strings.HasSuffix(trimmed, "mm"):
		trimmed = strings.TrimSuffix(trimmed, "mm")
	case strings.HasSuffix(trimmed, "cm"):
		trimmed = strings.TrimSuffix(trimmed, "cm")
		factor = 10
	case strings.HasSuffix(trimmed, "in"):
		trimmed = strings.TrimSuffix(trimmed, "in")
		factor = 25.4
	}

	value, err := strconv.ParseFloat(strings.TrimSpace(trimmed), 64)
	if err != nil {
		return 0, shared.NewDomainError("INVALID_MARGIN", "Cannot parse margin: "+s)
	}
	if value < 0 {
		return 0, shared.NewDomainError("INVALID_MARGIN", "Margin cannot be negative")
	}
	return value * factor, nil
}
