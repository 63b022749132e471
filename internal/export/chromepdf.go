package export

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/jonathan/resumind/internal/fetch"
	"github.com/jonathan/resumind/internal/rendering"
)

// writeChromePDF prints the HTML rendition with headless Chrome. The page is
// served from a temporary file so the browser applies the @page rules.
func writeChromePDF(ctx context.Context, w io.Writer, doc *rendering.Document, opts *Options) error {
	dir, err := os.MkdirTemp("", "resumind-")
	if err != nil {
		return err
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "index.html")
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := writeHTML(f, doc); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	browser := opts.Browser
	if browser == nil {
		browser = fetch.DefaultBrowserOptions()
		browser.Logger = opts.Logger
	}
	pdf, err := fetch.PrintToPDF(ctx, "file://"+path, fetch.PaperSize{Width: doc.Page.Width, Height: doc.Page.Height}, browser)
	if err != nil {
		return &Error{Format: FormatChromePDF, Message: "browser print failed", Cause: err}
	}
	_, err = w.Write(pdf)
	return err
}
