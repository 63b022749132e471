package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/jonathan/resumind/internal/adapter"
	"github.com/jonathan/resumind/internal/export"
	"github.com/jonathan/resumind/internal/extraction"
	"github.com/jonathan/resumind/internal/ingestion"
	"github.com/jonathan/resumind/internal/intake"
	"github.com/jonathan/resumind/internal/pipeline"
	"github.com/jonathan/resumind/internal/rendering"
	"github.com/jonathan/resumind/internal/scoring"
	"github.com/jonathan/resumind/internal/types"
)

// decodeJSON reads a bounded JSON body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return &ErrValidation{Field: "body", Message: "invalid JSON: " + err.Error()}
	}
	return nil
}

// handleTemplates lists the template catalog.
func (s *Server) handleTemplates(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]any{"templates": rendering.Templates()})
}

// handleFormats lists the export formats with their extensions and MIME types.
func (s *Server) handleFormats(w http.ResponseWriter, _ *http.Request) {
	type format struct {
		Name string `json:"name"`
		Ext  string `json:"ext"`
		MIME string `json:"mime"`
	}
	var out []format
	for _, f := range export.Formats() {
		out = append(out, format{Name: string(f), Ext: f.Ext(), MIME: f.MIME()})
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"formats": out})
}

// handleExtract extracts a profile and its posts from posted page markup.
func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	var req types.ExtractRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.errResponse(w, err)
		return
	}
	if err := req.Validate(); err != nil {
		s.errResponse(w, validationError(err))
		return
	}

	ex := s.extractor(r)
	profile := ex.Extract(req.HTML, req.URL)
	profile.Posts = ex.ExtractPosts(req.HTML)
	s.jsonResponse(w, http.StatusOK, profile)
}

func (s *Server) extractor(r *http.Request) *extraction.Extractor {
	logger := s.logger.With().Str("request_id", RequestID(r.Context())).Logger()
	return extraction.New(extraction.WithSelectors(s.selectors), extraction.WithLogger(logger))
}

// handleAdapt converts a posted profile into a document input record.
func (s *Server) handleAdapt(w http.ResponseWriter, r *http.Request) {
	var profile types.Profile
	if err := decodeJSON(w, r, &profile); err != nil {
		s.errResponse(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, adapter.Adapt(&profile))
}

// handleIntake converts a manual entry form into a document input record.
func (s *Server) handleIntake(w http.ResponseWriter, r *http.Request) {
	var form intake.Form
	if err := decodeJSON(w, r, &form); err != nil {
		s.errResponse(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, intake.FromForm(form))
}

// handleRender renders a document input record. Without a format the
// document model is returned as JSON; with one the exported file is returned
// as an attachment.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	var req types.RenderRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.errResponse(w, err)
		return
	}
	if err := req.Validate(); err != nil {
		s.errResponse(w, validationError(err))
		return
	}

	id, err := rendering.ParseTemplateID(req.Template)
	if err != nil {
		s.errResponse(w, err)
		return
	}
	data := []byte(req.Data)
	if len(bytes.TrimSpace(data)) == 0 || string(bytes.TrimSpace(data)) == "null" {
		data = []byte("{}")
	}
	in, err := rendering.DecodeInput(data)
	if err != nil {
		s.errResponse(w, err)
		return
	}
	doc, err := rendering.Render(id, in)
	if err != nil {
		s.errResponse(w, err)
		return
	}

	if req.Format == "" {
		s.jsonResponse(w, http.StatusOK, doc)
		return
	}
	format, err := export.ParseFormat(req.Format)
	if err != nil {
		s.errResponse(w, err)
		return
	}

	// buffered so a failed export can still answer with a JSON error
	var buf bytes.Buffer
	if err := export.WriteWithOptions(r.Context(), &buf, doc, format, s.export); err != nil {
		s.errResponse(w, err)
		return
	}
	w.Header().Set("Content-Type", format.MIME())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename(in.Name, format)))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		s.logger.Warn().Err(err).Msg("failed to write export")
	}
}

// handleScore scores resume text against a job description.
func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	var req types.ScoreRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.errResponse(w, err)
		return
	}
	if err := req.Validate(); err != nil {
		s.errResponse(w, validationError(err))
		return
	}
	s.jsonResponse(w, http.StatusOK, scoring.Score(req.Resume, req.JobDescription))
}

// handleScoreUpload scores an uploaded resume file (txt, md, pdf or docx)
// against a job description given as text or fetched from a posting URL.
func (s *Server) handleScoreUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseMultipartForm(maxBodyBytes); err != nil {
		s.errResponse(w, &ErrValidation{Field: "body", Message: "invalid multipart form: " + err.Error()})
		return
	}

	file, header, err := r.FormFile("resume")
	if err != nil {
		s.errResponse(w, &ErrValidation{Field: "resume", Message: "file is required"})
		return
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		s.errResponse(w, fmt.Errorf("failed to read upload: %w", err))
		return
	}
	resume, err := ingestion.ReadDocumentText(header.Filename, data)
	if err != nil {
		s.errResponse(w, err)
		return
	}

	jd := strings.TrimSpace(r.FormValue("job_description"))
	if jd == "" {
		jobURL := strings.TrimSpace(r.FormValue("job_url"))
		if jobURL == "" {
			s.errResponse(w, &ErrValidation{Field: "job_description", Message: "job_description or job_url is required"})
			return
		}
		jd, _, err = ingestion.IngestFromURL(r.Context(), jobURL, s.ingest)
		if err != nil {
			s.errResponse(w, err)
			return
		}
	}

	s.jsonResponse(w, http.StatusOK, scoring.Score(resume, jd))
}

// importOptions validates an import request and builds pipeline options.
func (s *Server) importOptions(w http.ResponseWriter, r *http.Request) (pipeline.ImportOptions, error) {
	var req types.ImportRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return pipeline.ImportOptions{}, err
	}
	if err := req.Validate(); err != nil {
		return pipeline.ImportOptions{}, validationError(err)
	}

	opts := pipeline.ImportOptions{
		ProfileURL:    req.URL,
		Authenticated: req.Authenticated,
		Credentials:   s.credentials,
		Fetcher:       s.fetcher,
		Selectors:     s.selectors,
		Logger:        s.logger.With().Str("request_id", RequestID(r.Context())).Logger(),
	}
	if req.Template != "" {
		id, err := rendering.ParseTemplateID(req.Template)
		if err != nil {
			return pipeline.ImportOptions{}, err
		}
		opts.Template = id
	}
	return opts, nil
}

// handleImport fetches, extracts and adapts a profile in one request.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	opts, err := s.importOptions(w, r)
	if err != nil {
		s.errResponse(w, err)
		return
	}

	res, err := pipeline.Import(r.Context(), opts)
	if err != nil {
		s.jsonResponse(w, HTTPStatus(err), map[string]any{
			"error":  err.Error(),
			"run_id": res.RunID,
			"steps":  res.Steps,
		})
		return
	}
	s.jsonResponse(w, http.StatusOK, res)
}

// handleImportStream runs an import and streams step events via SSE.
func (s *Server) handleImportStream(w http.ResponseWriter, r *http.Request) {
	opts, err := s.importOptions(w, r)
	if err != nil {
		s.errResponse(w, err)
		return
	}

	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	opts.OnProgress = func(event pipeline.ProgressEvent) {
		if err := sse.WriteEvent("step", event); err != nil {
			s.logger.Warn().Err(err).Msg("error writing SSE event")
		}
	}

	res, err := pipeline.Import(r.Context(), opts)
	if err != nil {
		if errors.Is(err, r.Context().Err()) {
			return
		}
		sse.WriteError(err.Error())
		sse.WriteComplete(res.RunID, "failed")
		return
	}
	if err := sse.WriteEvent("result", res); err != nil {
		s.logger.Warn().Err(err).Msg("error writing SSE result")
	}
	sse.WriteComplete(res.RunID, "completed")
}
