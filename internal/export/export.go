// Package export writes rendered resume documents in downloadable formats.
package export

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/resumind/internal/fetch"
	"github.com/jonathan/resumind/internal/rendering"
	"github.com/rs/zerolog"
)

// Format names an output format.
type Format string

const (
	FormatDOCX      Format = "docx"
	FormatPDF       Format = "pdf"
	FormatChromePDF Format = "chrome-pdf"
	FormatMarkdown  Format = "markdown"
	FormatHTML      Format = "html"
	FormatText      Format = "text"
	FormatJSON      Format = "json"
	FormatLaTeX     Format = "latex"
)

type formatInfo struct {
	ext  string
	mime string
}

var formatOrder = []Format{
	FormatDOCX, FormatPDF, FormatChromePDF, FormatMarkdown,
	FormatHTML, FormatText, FormatJSON, FormatLaTeX,
}

var formats = map[Format]formatInfo{
	FormatDOCX:      {"docx", "application/vnd.openxmlformats-officedocument.wordprocessingml.document"},
	FormatPDF:       {"pdf", "application/pdf"},
	FormatChromePDF: {"pdf", "application/pdf"},
	FormatMarkdown:  {"md", "text/markdown; charset=utf-8"},
	FormatHTML:      {"html", "text/html; charset=utf-8"},
	FormatText:      {"txt", "text/plain; charset=utf-8"},
	FormatJSON:      {"json", "application/json"},
	FormatLaTeX:     {"tex", "application/x-tex"},
}

var aliases = map[string]Format{
	"md":  FormatMarkdown,
	"txt": FormatText,
	"tex": FormatLaTeX,
	"htm": FormatHTML,
}

// ErrUnknownFormat is returned for a format name that is not supported.
var ErrUnknownFormat = errors.New("unknown export format")

// Error describes a sink that failed while writing.
type Error struct {
	Format  Format
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("export %s: %s: %v", e.Format, e.Message, e.Cause)
	}
	return fmt.Sprintf("export %s: %s", e.Format, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Formats lists every supported format.
func Formats() []Format {
	return append([]Format(nil), formatOrder...)
}

// ParseFormat resolves a format name or a common file extension.
func ParseFormat(s string) (Format, error) {
	key := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), "."))
	if f, ok := aliases[key]; ok {
		return f, nil
	}
	if _, ok := formats[Format(key)]; ok {
		return Format(key), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// Ext returns the file extension without the dot.
func (f Format) Ext() string {
	return formats[f].ext
}

// MIME returns the content type served for the format.
func (f Format) MIME() string {
	return formats[f].mime
}

// Filename returns the download name for a candidate, e.g.
// "Ada_Lovelace_Resume.docx". A blank name becomes "resume".
func Filename(name string, f Format) string {
	base := strings.Join(strings.Fields(name), "_")
	if base == "" {
		base = "resume"
	}
	return base + "_Resume." + f.Ext()
}

// Options configures sinks that need outside resources.
type Options struct {
	// Browser is used by the chrome-pdf sink.
	Browser *fetch.BrowserOptions
	Logger  zerolog.Logger
}

// Write writes doc to w in the given format with default options.
func Write(ctx context.Context, w io.Writer, doc *rendering.Document, format Format) error {
	return WriteWithOptions(ctx, w, doc, format, nil)
}

// WriteWithOptions writes doc to w in the given format.
func WriteWithOptions(ctx context.Context, w io.Writer, doc *rendering.Document, format Format, opts *Options) error {
	if doc == nil {
		return &Error{Format: format, Message: "no document"}
	}
	if opts == nil {
		opts = &Options{Logger: zerolog.Nop()}
	}

	var err error
	switch format {
	case FormatDOCX:
		err = writeDOCX(w, doc)
	case FormatPDF:
		err = writePDF(w, doc)
	case FormatChromePDF:
		err = writeChromePDF(ctx, w, doc, opts)
	case FormatMarkdown:
		err = writeMarkdown(w, doc)
	case FormatHTML:
		err = writeHTML(w, doc)
	case FormatText:
		err = writeText(w, doc)
	case FormatJSON:
		err = writeJSON(w, doc)
	case FormatLaTeX:
		err = writeLaTeX(w, doc)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	if err != nil {
		var exportErr *Error
		if errors.As(err, &exportErr) {
			return err
		}
		return &Error{Format: format, Message: "write failed", Cause: err}
	}
	opts.Logger.Debug().Str("format", string(format)).Str("template", string(doc.Template)).Msg("exported document")
	return nil
}

// PlainDocument wraps text in a document with one body paragraph per line,
// for re-exporting edited text.
func PlainDocument(text string) *rendering.Document {
	doc := &rendering.Document{Page: rendering.DefaultPage()}
	for _, line := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		doc.AddParagraph(line)
	}
	return doc
}
