// Package capture produces raster snapshots of rendered documents or live
// page regions. The snapshot is a single tall bitmap taken at an upscaled
// device pixel ratio so text stays legible after the paginator compresses it
// into the output pages.
package capture

import (
	"context"
	"time"
)

// Snapshot is a single bitmap capture of a rendered region. It is owned by
// the export orchestrator for the duration of one export and discarded once
// the paginator has consumed it.
type Snapshot struct {
	// PNG is the encoded bitmap.
	PNG []byte
	// Width and Height are the bitmap dimensions in device pixels.
	Width  int
	Height int
	// Scale is the device pixel ratio the capture was taken at.
	Scale float64
}

// Request describes one capture. Exactly one of HTML or URL must be set:
// HTML is injected into a fresh detached page (the off-screen container
// case), URL navigates to already-rendered content (the live region case).
type Request struct {
	// HTML is a complete markup document to inject and capture.
	HTML string
	// URL is a live page to navigate to and capture.
	URL string
	// Selector optionally restricts a URL capture to one region.
	Selector string
	// ViewportWidth is the layout width in CSS pixels.
	ViewportWidth int
	// ViewportHeight is the initial viewport height in CSS pixels; capture
	// always extends to the full content height.
	ViewportHeight int
	// Scale is the device pixel ratio; values below 1 fall back to the
	// configured default.
	Scale float64
	// Wait is the asset readiness strategy applied before the screenshot.
	Wait WaitStrategy
	// Timeout overrides the default capture timeout.
	Timeout time.Duration
}

// Rasterizer captures a request into a raster snapshot.
type Rasterizer interface {
	Capture(ctx context.Context, req *Request) (*Snapshot, error)
	// Close releases any resources held by the rasterizer
	Close() error
}

// CaptureError represents an error during snapshot capture
type CaptureError struct {
	Code    string
	Message string
	Cause   error
}

func (e *CaptureError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *CaptureError) Unwrap() error {
	return e.Cause
}

// Error codes for capture failures
const (
	ErrCodeCaptureTimeout = "CAPTURE_TIMEOUT"
	ErrCodeCaptureFailed  = "CAPTURE_FAILED"
	ErrCodeEmptyContent   = "EMPTY_CONTENT"
	ErrCodeEmptySnapshot  = "EMPTY_SNAPSHOT"
	ErrCodeInvalidSource  = "INVALID_SOURCE"
)

// NewCaptureError creates a new CaptureError
func NewCaptureError(code, message string, cause error) *CaptureError {
	return &CaptureError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}
