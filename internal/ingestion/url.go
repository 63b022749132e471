package ingestion

import (
	"context"
	"errors"
	"fmt"

	"github.com/jonathan/resumind/internal/fetch"
	"github.com/rs/zerolog"
)

var (
	// ErrHTTPRequestFailed is returned when HTTP request fails
	ErrHTTPRequestFailed = errors.New("HTTP request failed")
	// ErrContentExtractionFailed is returned when content extraction fails
	ErrContentExtractionFailed = errors.New("content extraction failed")
)

// URLOptions configures IngestFromURL.
type URLOptions struct {
	// UseBrowser re-renders pages whose text looks too short, as happens on
	// script-rendered job boards.
	UseBrowser bool
	HTTP       *fetch.Options
	Browser    *fetch.BrowserOptions
	Render     fetch.RenderFunc
	Logger     zerolog.Logger
}

// IngestFromURL fetches a job posting, keeps the description text using
// platform-specific selectors, cleans it and returns it with metadata.
func IngestFromURL(ctx context.Context, urlStr string, opts *URLOptions) (string, *Metadata, error) {
	if opts == nil {
		opts = &URLOptions{Logger: zerolog.Nop()}
	}
	logger := opts.Logger

	platform := fetch.DetectPlatform(urlStr)
	logger.Debug().Str("url", urlStr).Str("platform", string(platform)).Msg("ingesting job posting")

	result, err := fetch.URL(ctx, urlStr, opts.HTTP)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrHTTPRequestFailed, err)
	}

	contentSelectors := fetch.PlatformContentSelectors(platform)
	noiseSelectors := fetch.PlatformNoiseSelectors(platform)

	textContent, err := fetch.ExtractMainText(result.HTML, contentSelectors, noiseSelectors...)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrContentExtractionFailed, err)
	}
	logger.Debug().Int("chars", len(textContent)).Msg("extracted text")

	if opts.UseBrowser && fetch.ShouldUseBrowser(textContent) {
		logger.Info().
			Int("chars", len(textContent)).
			Int("min", fetch.MinContentLength).
			Msg("content too short, falling back to browser rendering")

		render := opts.Render
		if render == nil {
			render = fetch.WithBrowser
		}
		browserHTML, browserErr := render(ctx, urlStr, opts.Browser)
		if browserErr != nil {
			logger.Warn().Err(browserErr).Msg("browser rendering failed, using HTTP content")
		} else if rendered, err := fetch.ExtractMainText(browserHTML, contentSelectors, noiseSelectors...); err != nil {
			logger.Warn().Err(err).Msg("browser content extraction failed, using HTTP content")
		} else {
			textContent = rendered
		}
	}

	cleanedText := CleanText(textContent)

	metadata := NewMetadata(cleanedText, urlStr)
	metadata.Platform = string(platform)

	return cleanedText, metadata, nil
}
