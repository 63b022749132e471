package fetch

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/rs/zerolog"
)

// MinContentLength is the minimum extracted text length to consider HTTP fetch successful.
// If content is shorter, we should fall back to browser rendering.
const MinContentLength = 500

// ShouldUseBrowser returns true if the extracted text is too short,
// indicating the page is likely a JavaScript-rendered SPA.
func ShouldUseBrowser(extractedText string) bool {
	return len(strings.TrimSpace(extractedText)) < MinContentLength
}

// BrowserOptions configures the headless browser.
type BrowserOptions struct {
	// Timeout bounds the whole browser run.
	Timeout time.Duration
	// Landmark is a CSS selector whose presence means the page has rendered
	// enough to be read. Missing it is not an error.
	Landmark        string
	LandmarkTimeout time.Duration
	// Settle is the pause after a missed landmark before the page is read.
	Settle       time.Duration
	Headless     bool
	ChromeBinary string
	UserAgent    string
	Logger       zerolog.Logger
}

// DefaultBrowserOptions returns options for a headless render.
func DefaultBrowserOptions() *BrowserOptions {
	return &BrowserOptions{
		Timeout:         45 * time.Second,
		Landmark:        "body",
		LandmarkTimeout: 15 * time.Second,
		Settle:          2 * time.Second,
		Headless:        true,
		UserAgent:       DefaultUserAgent,
		Logger:          zerolog.Nop(),
	}
}

func (o *BrowserOptions) withDefaults() *BrowserOptions {
	d := DefaultBrowserOptions()
	if o == nil {
		return d
	}
	out := *o
	if out.Timeout <= 0 {
		out.Timeout = d.Timeout
	}
	if out.LandmarkTimeout <= 0 {
		out.LandmarkTimeout = d.LandmarkTimeout
	}
	if out.UserAgent == "" {
		out.UserAgent = d.UserAgent
	}
	return &out
}

func allocatorOptions(o *BrowserOptions) []chromedp.ExecAllocatorOption {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", o.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.WindowSize(1400, 1000),
		chromedp.UserAgent(o.UserAgent),
	)
	if o.ChromeBinary != "" {
		opts = append(opts, chromedp.ExecPath(o.ChromeBinary))
	}
	return opts
}

// newBrowser starts a browser bound to ctx. The returned release function
// shuts the browser down and must be called on every path.
func newBrowser(ctx context.Context, o *BrowserOptions) (context.Context, func()) {
	timeoutCtx, cancelTimeout := context.WithTimeout(ctx, o.Timeout)
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(timeoutCtx, allocatorOptions(o)...)
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)

	release := func() {
		if err := chromedp.Cancel(browserCtx); err != nil && ctx.Err() == nil {
			o.Logger.Warn().Err(err).Msg("failed to close browser cleanly")
		}
		cancelBrowser()
		cancelAlloc()
		cancelTimeout()
	}
	return browserCtx, release
}

// waitLandmark waits up to timeout for selector. A miss is logged and
// reported as false; it never aborts the run.
func waitLandmark(ctx context.Context, selector string, timeout time.Duration, logger zerolog.Logger) bool {
	if selector == "" {
		return true
	}
	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := chromedp.Run(waitCtx, chromedp.WaitReady(selector, chromedp.ByQuery)); err != nil {
		logger.Warn().
			Err(err).
			Str("landmark", selector).
			Dur("timeout", timeout).
			Msg("landmark not found, continuing with partial page")
		return false
	}
	return true
}

func settle(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	_ = chromedp.Run(ctx, chromedp.Sleep(d))
}

// WithBrowser renders a page in a headless browser and returns the rendered
// HTML. A landmark timeout still returns whatever the page holds.
// Requires Chrome/Chromium to be installed on the system.
func WithBrowser(ctx context.Context, url string, opts *BrowserOptions) (string, error) {
	o := opts.withDefaults()
	o.Logger.Debug().Str("url", url).Msg("starting headless browser")

	browserCtx, release := newBrowser(ctx, o)
	defer release()

	if err := chromedp.Run(browserCtx, chromedp.Navigate(url)); err != nil {
		return "", fmt.Errorf("browser rendering failed: %w", err)
	}

	if !waitLandmark(browserCtx, o.Landmark, o.LandmarkTimeout, o.Logger) {
		settle(browserCtx, o.Settle)
	}

	var html string
	if err := chromedp.Run(browserCtx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return "", fmt.Errorf("browser rendering failed: %w", err)
	}

	o.Logger.Debug().Str("url", url).Int("bytes", len(html)).Msg("rendered page")
	return html, nil
}

// FindChrome returns the first Chrome or Chromium executable on PATH, or "".
func FindChrome() string {
	for _, name := range []string{"google-chrome", "google-chrome-stable", "chromium", "chromium-browser", "chrome"} {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}
	return ""
}

// PaperSize is a page size in inches.
type PaperSize struct {
	Width  float64
	Height float64
}

// Letter is US Letter paper.
var Letter = PaperSize{Width: 8.5, Height: 11}

// PrintToPDF loads pageURL in a headless browser and prints it to PDF with
// backgrounds. Margins come from the page's own CSS.
func PrintToPDF(ctx context.Context, pageURL string, paper PaperSize, opts *BrowserOptions) ([]byte, error) {
	o := opts.withDefaults()
	browserCtx, release := newBrowser(ctx, o)
	defer release()

	var pdf []byte
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(pageURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			pdf, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(paper.Width).
				WithPaperHeight(paper.Height).
				WithMarginTop(0).
				WithMarginBottom(0).
				WithMarginLeft(0).
				WithMarginRight(0).
				WithPreferCSSPageSize(true).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("print to pdf failed: %w", err)
	}
	o.Logger.Debug().Int("bytes", len(pdf)).Msg("printed page to pdf")
	return pdf, nil
}
