// Package pipeline orchestrates a profile import: validate the URL, fetch the
// page, extract the profile, adapt it and optionally render and export it.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jonathan/resumind/internal/adapter"
	"github.com/jonathan/resumind/internal/export"
	"github.com/jonathan/resumind/internal/extraction"
	"github.com/jonathan/resumind/internal/fetch"
	"github.com/jonathan/resumind/internal/pipeline/steps"
	"github.com/jonathan/resumind/internal/rendering"
	"github.com/jonathan/resumind/internal/types"
)

// ProgressEvent represents a progress update during pipeline execution
type ProgressEvent struct {
	Step     string `json:"step"`
	Category string `json:"category"`
	Status   string `json:"status"`
	Message  string `json:"message"`
	RunID    string `json:"run_id,omitempty"`
	Order    int    `json:"order"`
	Total    int    `json:"total"`
	Content  any    `json:"content,omitempty"`
}

// ProgressCallback is called when pipeline progress occurs
type ProgressCallback func(event ProgressEvent)

// Fetcher retrieves profile markup. LiveFetcher is the production source.
type Fetcher interface {
	Public(ctx context.Context, profileURL string) (string, error)
	SignedIn(ctx context.Context, profileURL string, creds types.Credentials) (*fetch.PageSet, error)
}

// LiveFetcher fetches over the network and through a headless browser.
type LiveFetcher struct {
	PublicOptions  *fetch.PublicOptions
	SessionOptions *fetch.SessionOptions
}

// NewLiveFetcher returns a LiveFetcher with default options logging to logger.
func NewLiveFetcher(logger zerolog.Logger) *LiveFetcher {
	session := fetch.DefaultSessionOptions()
	session.Browser.Logger = logger
	return &LiveFetcher{
		PublicOptions:  &fetch.PublicOptions{Logger: logger},
		SessionOptions: session,
	}
}

// Public implements Fetcher.
func (f *LiveFetcher) Public(ctx context.Context, profileURL string) (string, error) {
	return fetch.PublicProfile(ctx, profileURL, f.PublicOptions)
}

// SignedIn implements Fetcher.
func (f *LiveFetcher) SignedIn(ctx context.Context, profileURL string, creds types.Credentials) (*fetch.PageSet, error) {
	return fetch.SignedInProfile(ctx, profileURL, creds, f.SessionOptions)
}

// ImportOptions holds configuration for an import run
type ImportOptions struct {
	ProfileURL    string
	Authenticated bool
	Credentials   types.Credentials
	// Fetcher defaults to a LiveFetcher with default options.
	Fetcher   Fetcher
	Selectors *extraction.Selectors
	// Template, when set, renders the adapted record.
	Template rendering.TemplateID
	// Format and OutputDir, when both set, write the rendered document.
	Format    export.Format
	OutputDir string
	Export    *export.Options
	Logger    zerolog.Logger
	// OnProgress receives step events in order.
	OnProgress ProgressCallback
}

// ImportResult is everything an import run produced.
type ImportResult struct {
	RunID      string               `json:"run_id"`
	ProfileURL string               `json:"profile_url"`
	Profile    *types.Profile       `json:"profile"`
	Input      *types.DocumentInput `json:"input"`
	Document   *rendering.Document  `json:"document,omitempty"`
	OutputPath string               `json:"output_path,omitempty"`
	Steps      []steps.StepRecord   `json:"steps"`
	Duration   time.Duration        `json:"duration_ns"`
}

// run carries the state of one import.
type run struct {
	id      string
	opts    *ImportOptions
	tracker *steps.Tracker
	logger  zerolog.Logger
}

func (r *run) emit(step, status, message string, content any) {
	if r.opts.OnProgress == nil {
		return
	}
	def := steps.StepRegistry[step]
	r.opts.OnProgress(ProgressEvent{
		Step:     step,
		Category: def.Category,
		Status:   status,
		Message:  message,
		RunID:    r.id,
		Order:    def.Order,
		Total:    len(steps.StepRegistry),
		Content:  content,
	})
}

// do runs one step with dependency checks, status tracking and events.
func (r *run) do(step string, fn func() (string, any, error)) error {
	if err := r.tracker.Start(step); err != nil {
		return err
	}
	r.emit(step, steps.StatusInProgress, "", nil)

	message, content, err := fn()
	if err != nil {
		r.tracker.Fail(step, err)
		r.logger.Error().Err(err).Str("step", step).Msg("import step failed")
		r.emit(step, steps.StatusFailed, err.Error(), nil)
		return err
	}
	r.tracker.Complete(step)
	r.logger.Debug().Str("step", step).Msg(message)
	r.emit(step, steps.StatusCompleted, message, content)
	return nil
}

func (r *run) skip(step string) {
	r.tracker.Skip(step)
	r.emit(step, steps.StatusSkipped, "", nil)
}

// Import runs the import pipeline. Hard failures (invalid URL, missing
// credentials, missing login form, unavailable profile) abort the run and are
// returned; everything past fetching is best-effort extraction. The result is
// returned alongside any error so callers can report step status.
func Import(ctx context.Context, opts ImportOptions) (*ImportResult, error) {
	start := time.Now()
	r := &run{
		id:      uuid.New().String(),
		opts:    &opts,
		tracker: steps.NewTracker(),
	}
	r.logger = opts.Logger.With().Str("run_id", r.id).Logger()
	if opts.Fetcher == nil {
		opts.Fetcher = NewLiveFetcher(opts.Logger)
	}

	res := &ImportResult{RunID: r.id}
	defer func() {
		res.Steps = r.tracker.Records()
		res.Duration = time.Since(start)
	}()

	err := r.do(steps.ValidateURL, func() (string, any, error) {
		u, err := fetch.ProfileURL(opts.ProfileURL)
		if err != nil {
			return "", nil, err
		}
		res.ProfileURL = u
		return "validated profile URL " + u, nil, nil
	})
	if err != nil {
		return res, err
	}

	var pages *fetch.PageSet
	err = r.do(steps.FetchProfile, func() (string, any, error) {
		if opts.Authenticated {
			p, err := opts.Fetcher.SignedIn(ctx, res.ProfileURL, opts.Credentials)
			if err != nil {
				return "", nil, err
			}
			pages = p
			return "fetched profile and activity pages after signing in", nil, nil
		}
		html, err := opts.Fetcher.Public(ctx, res.ProfileURL)
		if err != nil {
			return "", nil, err
		}
		pages = &fetch.PageSet{Profile: html}
		return "fetched public profile page", nil, nil
	})
	if err != nil {
		return res, err
	}

	ex := extraction.New(extraction.WithSelectors(opts.Selectors), extraction.WithLogger(opts.Logger))
	_ = r.do(steps.ExtractProfile, func() (string, any, error) {
		res.Profile = ex.Extract(pages.Profile, res.ProfileURL)
		return fmt.Sprintf("extracted %d experiences, %d educations and %d skills",
			len(res.Profile.Experiences), len(res.Profile.Educations), len(res.Profile.Skills)), res.Profile, nil
	})
	_ = r.do(steps.ExtractPosts, func() (string, any, error) {
		source := pages.Activity
		if source == "" {
			source = pages.Profile
		}
		res.Profile.Posts = ex.ExtractPosts(source)
		return fmt.Sprintf("extracted %d posts", len(res.Profile.Posts)), nil, nil
	})
	_ = r.do(steps.Adapt, func() (string, any, error) {
		res.Input = adapter.Adapt(res.Profile)
		return "adapted profile to document input", res.Input, nil
	})

	if opts.Template == "" {
		r.skip(steps.Render)
		r.skip(steps.Export)
		return res, nil
	}
	err = r.do(steps.Render, func() (string, any, error) {
		doc, err := rendering.Render(opts.Template, res.Input)
		if err != nil {
			return "", nil, err
		}
		res.Document = doc
		return "rendered template " + string(opts.Template), nil, nil
	})
	if err != nil {
		return res, err
	}

	if opts.Format == "" || opts.OutputDir == "" {
		r.skip(steps.Export)
		return res, nil
	}
	err = r.do(steps.Export, func() (string, any, error) {
		path := filepath.Join(opts.OutputDir, export.Filename(res.Input.Name, opts.Format))
		if err := writeDocument(ctx, path, res.Document, opts.Format, opts.Export); err != nil {
			return "", nil, err
		}
		res.OutputPath = path
		return "wrote " + path, nil, nil
	})
	return res, err
}

// writeDocument writes one document to path, creating parent directories.
func writeDocument(ctx context.Context, path string, doc *rendering.Document, format export.Format, opts *export.Options) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := export.WriteWithOptions(ctx, f, doc, format, opts); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
