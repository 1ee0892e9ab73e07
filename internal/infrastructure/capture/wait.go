package capture

import (
	"time"

	"github.com/chromedp/chromedp"
)

// WaitStrategy decides when embedded assets are ready for the screenshot.
// It is injectable so the coarse fixed-delay heuristic can be hardened into
// true per-image load tracking without touching orchestrator callers.
type WaitStrategy interface {
	// Action returns the chromedp action executed between content
	// attachment and the screenshot.
	Action() chromedp.Action
	// Name identifies the strategy in logs.
	Name() string
}

// FixedDelay waits a constant duration after content attachment. A coarse
// substitute for load-event tracking, kept for environments where image
// loading cannot be observed.
type FixedDelay struct {
	Delay time.Duration
}

func (w FixedDelay) Action() chromedp.Action {
	return chromedp.Sleep(w.Delay)
}

func (w FixedDelay) Name() string { return "fixed_delay" }

// ImageLoad polls the page until every embedded image has either loaded or
// failed, bounded by Timeout. Failed images count as settled so a dead image
// URL cannot stall the capture.
type ImageLoad struct {
	Interval time.Duration
	Timeout  time.Duration
}

const imagesSettledExpr = `Array.from(document.images).every((img) => img.complete)`

func (w ImageLoad) Action() chromedp.Action {
	interval := w.Interval
	if interval <= 0 {
		interval = 100 * time.Millisecond
	}
	timeout := w.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	var settled bool
	return chromedp.Poll(imagesSettledExpr, &settled,
		chromedp.WithPollingInterval(interval),
		chromedp.WithPollingTimeout(timeout),
	)
}

func (w ImageLoad) Name() string { return "image_load" }

// WaitStrategyFor maps a configuration value to a strategy. Unknown values
// fall back to the image-load strategy.
func WaitStrategyFor(name string, delay time.Duration) WaitStrategy {
	switch name {
	case "fixed":
		return FixedDelay{Delay: delay}
	default:
		return ImageLoad{Timeout: delay}
	}
}
