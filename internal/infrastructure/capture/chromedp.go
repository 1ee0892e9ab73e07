package capture

import (
	"bytes"
	"context"
	"fmt"
	"image/png"
	"strings"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

const (
	defaultCaptureTimeout = 30 * time.Second
	defaultScale          = 2.0
	defaultViewportHeight = 800
)

// ChromedpConfig contains configuration for the chromedp capturer
type ChromedpConfig struct {
	// DefaultTimeout for capture operations
	DefaultTimeout time.Duration
	// RemoteURL is the URL of a remote Chrome/Chromium instance (optional)
	// If empty, chromedp will launch a new browser instance
	RemoteURL string
	// NoSandbox runs Chrome without sandbox (required for Docker/root)
	NoSandbox bool
	// Scale is the default device pixel ratio for captures (default: 2.0,
	// kept at 2x or above to preserve text legibility after compression)
	Scale float64
	// Wait is the default asset readiness strategy
	Wait WaitStrategy
	// Logger for debug output
	Logger *zap.Logger
}

// ChromedpCapturer captures raster snapshots via the Chrome DevTools Protocol
type ChromedpCapturer struct {
	config      *ChromedpConfig
	logger      *zap.Logger
	allocCtx    context.Context
	allocCancel context.CancelFunc
}

// NewChromedpCapturer creates a new chromedp-based rasterizer
func NewChromedpCapturer(config *ChromedpConfig) (*ChromedpCapturer, error) {
	if config == nil {
		config = &ChromedpConfig{}
	}
	if config.DefaultTimeout == 0 {
		config.DefaultTimeout = defaultCaptureTimeout
	}
	if config.Scale < 1 {
		config.Scale = defaultScale
	}
	if config.Wait == nil {
		config.Wait = ImageLoad{}
	}

	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	capturer := &ChromedpCapturer{
		config: config,
		logger: logger,
	}
	capturer.initAllocator()

	return capturer, nil
}

// initAllocator initializes the Chrome allocator
func (c *ChromedpCapturer) initAllocator() {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-first-run", true),
		chromedp.Flag("disable-default-apps", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-dev-shm-usage", true), // Important for Docker
		chromedp.Flag("disable-background-networking", true),
		chromedp.Flag("disable-sync", true),
		chromedp.Flag("font-render-hinting", "none"),
	)

	if c.config.NoSandbox {
		opts = append(opts, chromedp.Flag("no-sandbox", true))
	}

	if c.config.RemoteURL != "" {
		c.allocCtx, c.allocCancel = chromedp.NewRemoteAllocator(context.Background(), c.config.RemoteURL)
	} else {
		c.allocCtx, c.allocCancel = chromedp.NewExecAllocator(context.Background(), opts...)
	}
}

// Capture renders the request in a fresh browser tab and screenshots it.
// The tab plays the role of the off-screen container: it is allocated per
// capture, never shared between concurrent exports, and torn down on every
// exit path by the deferred cancel.
func (c *ChromedpCapturer) Capture(ctx context.Context, req *Request) (*Snapshot, error) {
	if req == nil {
		return nil, NewCaptureError(ErrCodeInvalidSource, "capture request is nil", nil)
	}
	hasHTML := strings.TrimSpace(req.HTML) != ""
	hasURL := strings.TrimSpace(req.URL) != ""
	if hasHTML == hasURL {
		return nil, NewCaptureError(ErrCodeInvalidSource, "exactly one of HTML or URL must be provided", nil)
	}
	if req.ViewportWidth <= 0 {
		return nil, NewCaptureError(ErrCodeInvalidSource, "viewport width must be positive", nil)
	}

	startTime := time.Now()

	timeout := req.Timeout
	if timeout == 0 {
		timeout = c.config.DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	browserCtx, browserCancel := chromedp.NewContext(c.allocCtx,
		chromedp.WithLogf(func(format string, args ...interface{}) {
			c.logger.Debug(fmt.Sprintf(format, args...))
		}),
	)
	defer browserCancel()

	scale := req.Scale
	if scale < 1 {
		scale = c.config.Scale
	}
	viewportHeight := req.ViewportHeight
	if viewportHeight <= 0 {
		viewportHeight = defaultViewportHeight
	}
	wait := req.Wait
	if wait == nil {
		wait = c.config.Wait
	}

	actions := []chromedp.Action{
		chromedp.EmulateViewport(int64(req.ViewportWidth), int64(viewportHeight),
			chromedp.EmulateScale(scale)),
	}
	if hasHTML {
		actions = append(actions,
			chromedp.Navigate("about:blank"),
			chromedp.ActionFunc(func(ctx context.Context) error {
				frameTree, err := page.GetFrameTree().Do(ctx)
				if err != nil {
					return err
				}
				return page.SetDocumentContent(frameTree.Frame.ID, req.HTML).Do(ctx)
			}),
		)
	} else {
		actions = append(actions, chromedp.Navigate(req.URL))
	}
	actions = append(actions, wait.Action())

	var shot []byte
	if hasURL && strings.TrimSpace(req.Selector) != "" {
		actions = append(actions, chromedp.Screenshot(req.Selector, &shot,
			chromedp.NodeVisible, chromedp.ByQuery))
	} else {
		// quality 100 keeps the screenshot as lossless PNG
		actions = append(actions, chromedp.FullScreenshot(&shot, 100))
	}

	if err := chromedp.Run(browserCtx, actions...); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, NewCaptureError(ErrCodeCaptureTimeout,
				fmt.Sprintf("capture timed out after %v", timeout), err)
		}
		if ctx.Err() == context.Canceled {
			return nil, NewCaptureError(ErrCodeCaptureTimeout, "capture was cancelled", err)
		}

		c.logger.Error("chromedp capture failed", zap.Error(err))
		return nil, NewCaptureError(ErrCodeCaptureFailed, "chromedp execution failed", err)
	}

	if len(shot) == 0 {
		return nil, NewCaptureError(ErrCodeEmptySnapshot, "captured snapshot is empty", nil)
	}

	cfg, err := png.DecodeConfig(bytes.NewReader(shot))
	if err != nil {
		return nil, NewCaptureError(ErrCodeCaptureFailed, "captured snapshot is not a decodable PNG", err)
	}
	if cfg.Width == 0 || cfg.Height == 0 {
		return nil, NewCaptureError(ErrCodeEmptySnapshot, "captured snapshot has zero dimensions", nil)
	}

	c.logger.Info("snapshot captured",
		zap.Int("width", cfg.Width),
		zap.Int("height", cfg.Height),
		zap.Float64("scale", scale),
		zap.String("wait", wait.Name()),
		zap.Duration("duration", time.Since(startTime)))

	return &Snapshot{
		PNG:    shot,
		Width:  cfg.Width,
		Height: cfg.Height,
		Scale:  scale,
	}, nil
}

// Close releases resources held by the capturer
func (c *ChromedpCapturer) Close() error {
	if c.allocCancel != nil {
		c.allocCancel()
	}
	return nil
}

// Ensure ChromedpCapturer implements Rasterizer
var _ Rasterizer = (*ChromedpCapturer)(nil)
