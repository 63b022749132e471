package server

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resumind/internal/fetch"
	"github.com/jonathan/resumind/internal/pipeline"
	"github.com/jonathan/resumind/internal/rendering"
	"github.com/jonathan/resumind/internal/scoring"
	"github.com/jonathan/resumind/internal/server/ratelimit"
	"github.com/jonathan/resumind/internal/types"
)

func fixture(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("..", "extraction", "testdata", name))
	require.NoError(t, err)
	return string(data)
}

// fakeFetcher serves fixture markup instead of touching the network.
type fakeFetcher struct {
	public string
	pages  *fetch.PageSet
	err    error
}

func (f *fakeFetcher) Public(_ context.Context, _ string) (string, error) {
	return f.public, f.err
}

func (f *fakeFetcher) SignedIn(_ context.Context, _ string, creds types.Credentials) (*fetch.PageSet, error) {
	if creds.Email == "" || creds.Password == "" {
		return nil, fetch.ErrMissingCredentials
	}
	return f.pages, f.err
}

func newTestServer(t *testing.T, fetcher *fakeFetcher, rl *ratelimit.Config) *Server {
	t.Helper()
	if rl == nil {
		rl = &ratelimit.Config{Enabled: false}
	}
	var f pipeline.Fetcher
	if fetcher != nil {
		f = fetcher
	}
	s, err := New(Config{
		Fetcher:   f,
		RateLimit: rl,
		Logger:    zerolog.Nop(),
	})
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return s
}

func doJSON(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if raw, ok := body.(string); ok {
			buf.WriteString(raw)
		} else {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func TestHandleHealth(t *testing.T) {
	s := newTestServer(t, nil, nil)
	w := doJSON(t, s, http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	var resp map[string]string
	decodeBody(t, w, &resp)
	assert.Equal(t, "ok", resp["status"])
}

func TestRequestID_Reused(t *testing.T) {
	s := newTestServer(t, nil, nil)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	assert.Equal(t, "abc-123", w.Header().Get("X-Request-ID"))
}

func TestCORS_Preflight(t *testing.T) {
	s := newTestServer(t, nil, nil)
	w := doJSON(t, s, http.MethodOptions, "/render", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestHandleTemplates(t *testing.T) {
	s := newTestServer(t, nil, nil)
	w := doJSON(t, s, http.MethodGet, "/templates", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Templates []rendering.Info `json:"templates"`
	}
	decodeBody(t, w, &resp)
	assert.Len(t, resp.Templates, len(rendering.IDs()))
}

func TestHandleFormats(t *testing.T) {
	s := newTestServer(t, nil, nil)
	w := doJSON(t, s, http.MethodGet, "/formats", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"name":"docx"`)
	assert.Contains(t, w.Body.String(), `"ext":"tex"`)
}

func TestHandleExtract(t *testing.T) {
	s := newTestServer(t, nil, nil)
	w := doJSON(t, s, http.MethodPost, "/extract", types.ExtractRequest{
		HTML: fixture(t, "public.html"),
		URL:  "https://www.linkedin.com/in/grace/",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var profile types.Profile
	decodeBody(t, w, &profile)
	assert.Equal(t, "Grace Hopper", profile.Name)
	assert.Equal(t, "https://www.linkedin.com/in/grace/", profile.ProfileURL)
	for _, e := range profile.Experiences {
		assert.NotEmpty(t, e.Title)
		assert.NotEmpty(t, e.Company)
	}
}

func TestHandleExtract_Validation(t *testing.T) {
	s := newTestServer(t, nil, nil)

	w := doJSON(t, s, http.MethodPost, "/extract", types.ExtractRequest{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "HTML")

	w = doJSON(t, s, http.MethodPost, "/extract", "{not json")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid JSON")
}

func TestHandleAdapt(t *testing.T) {
	s := newTestServer(t, nil, nil)
	profile := types.NewProfile("")
	profile.Name = "Ada Lovelace"
	profile.Experiences = []types.Experience{
		{Title: "Engineer", Company: "Acme", DateRange: "2020-2022", Summary: "Built things"},
	}

	w := doJSON(t, s, http.MethodPost, "/adapt", profile)
	require.Equal(t, http.StatusOK, w.Code)

	var in types.DocumentInput
	decodeBody(t, w, &in)
	assert.Equal(t, "Ada Lovelace", in.Name)
	assert.Equal(t, []string{"Engineer at Acme (2020-2022)\nBuilt things"}, in.Experience)
}

func TestHandleIntake(t *testing.T) {
	s := newTestServer(t, nil, nil)
	w := doJSON(t, s, http.MethodPost, "/intake", map[string]string{
		"name":             "Ada Lovelace",
		"skills":           "Mathematics\nPoetry",
		"personal_details": "Nationality: British",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var in types.DocumentInput
	decodeBody(t, w, &in)
	assert.Equal(t, []string{"Mathematics", "Poetry"}, in.Skills)
	assert.Equal(t, types.DefaultDeclaration, in.Declaration)
	v, ok := in.PersonalDetails.Get("Nationality")
	assert.True(t, ok)
	assert.Equal(t, "British", v)
}

func TestHandleRender_Document(t *testing.T) {
	s := newTestServer(t, nil, nil)
	w := doJSON(t, s, http.MethodPost, "/render", map[string]any{
		"template": "side-panel",
		"data":     map[string]any{"name": "Ada Lovelace", "skills": []string{"Mathematics"}},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var doc map[string]any
	decodeBody(t, w, &doc)
	assert.Equal(t, string(rendering.SidePanel), doc["template"])
	assert.Contains(t, w.Body.String(), types.DefaultDeclaration)
}

func TestHandleRender_EmptyData(t *testing.T) {
	s := newTestServer(t, nil, nil)
	w := doJSON(t, s, http.MethodPost, "/render", map[string]any{"template": "minimal"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), types.DefaultDeclaration)
}

func TestHandleRender_DOCXAttachment(t *testing.T) {
	s := newTestServer(t, nil, nil)
	w := doJSON(t, s, http.MethodPost, "/render", map[string]any{
		"template": "executive",
		"format":   "docx",
		"data":     map[string]any{"name": "Ada Lovelace"},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	assert.Equal(t, `attachment; filename="Ada_Lovelace_Resume.docx"`, w.Header().Get("Content-Disposition"))
	assert.Contains(t, w.Header().Get("Content-Type"), "wordprocessingml")
	_, err := zip.NewReader(bytes.NewReader(w.Body.Bytes()), int64(w.Body.Len()))
	assert.NoError(t, err)
}

func TestHandleRender_Errors(t *testing.T) {
	s := newTestServer(t, nil, nil)

	tests := []struct {
		name string
		body map[string]any
		want int
	}{
		{"missing template", map[string]any{"data": map[string]any{}}, http.StatusBadRequest},
		{"unknown template", map[string]any{"template": "nope"}, http.StatusNotFound},
		{"schema violation", map[string]any{"template": "minimal", "data": map[string]any{"skills": "Go"}}, http.StatusBadRequest},
		{"unknown field", map[string]any{"template": "minimal", "data": map[string]any{"age": "30"}}, http.StatusBadRequest},
		{"bad format", map[string]any{"template": "minimal", "format": "odt"}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, s, http.MethodPost, "/render", tt.body)
			assert.Equal(t, tt.want, w.Code, w.Body.String())
			assert.Contains(t, w.Body.String(), `"error"`)
		})
	}
}

func TestHandleScore(t *testing.T) {
	s := newTestServer(t, nil, nil)
	w := doJSON(t, s, http.MethodPost, "/score", types.ScoreRequest{
		Resume:         "I know Python and SQL.",
		JobDescription: "Looking for Python, SQL, AWS experience",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var res scoring.Result
	decodeBody(t, w, &res)
	assert.Equal(t, 67, res.Percentage)
	assert.Equal(t, []string{"aws"}, res.Missing)

	w = doJSON(t, s, http.MethodPost, "/score", types.ScoreRequest{Resume: "Go"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func multipartUpload(t *testing.T, filename, content string, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if filename != "" {
		fw, err := mw.CreateFormFile("resume", filename)
		require.NoError(t, err)
		_, err = fw.Write([]byte(content))
		require.NoError(t, err)
	}
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestHandleScoreUpload(t *testing.T) {
	s := newTestServer(t, nil, nil)

	tests := []struct {
		name     string
		filename string
		fields   map[string]string
		want     int
	}{
		{"text resume", "resume.txt", map[string]string{"job_description": "Python SQL AWS"}, http.StatusOK},
		{"missing file", "", map[string]string{"job_description": "Python"}, http.StatusBadRequest},
		{"unsupported type", "resume.odt", map[string]string{"job_description": "Python"}, http.StatusBadRequest},
		{"missing job description", "resume.txt", nil, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, contentType := multipartUpload(t, tt.filename, "Python and SQL", tt.fields)
			req := httptest.NewRequest(http.MethodPost, "/score/upload", body)
			req.Header.Set("Content-Type", contentType)
			w := httptest.NewRecorder()
			s.Handler().ServeHTTP(w, req)

			assert.Equal(t, tt.want, w.Code, w.Body.String())
			if tt.want == http.StatusOK {
				var res scoring.Result
				decodeBody(t, w, &res)
				assert.Equal(t, 67, res.Percentage)
			}
		})
	}
}

func TestHandleImport_Public(t *testing.T) {
	s := newTestServer(t, &fakeFetcher{public: fixture(t, "public.html")}, nil)
	w := doJSON(t, s, http.MethodPost, "/import", types.ImportRequest{
		URL:      "https://www.linkedin.com/in/grace",
		Template: "tech-modern",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var res struct {
		RunID   string              `json:"run_id"`
		Profile types.Profile       `json:"profile"`
		Input   types.DocumentInput `json:"input"`
		Steps   []map[string]any    `json:"steps"`
		Doc     map[string]any      `json:"document"`
	}
	decodeBody(t, w, &res)
	assert.NotEmpty(t, res.RunID)
	assert.Equal(t, "Grace Hopper", res.Profile.Name)
	assert.Equal(t, "Grace Hopper", res.Input.Name)
	assert.Equal(t, "tech-modern", res.Doc["template"])
	assert.NotEmpty(t, res.Steps)
}

func TestHandleImport_Errors(t *testing.T) {
	tests := []struct {
		name    string
		fetcher *fakeFetcher
		req     types.ImportRequest
		want    int
	}{
		{"not a profile URL", &fakeFetcher{}, types.ImportRequest{URL: "https://example.com/ada"}, http.StatusBadRequest},
		{"missing url", &fakeFetcher{}, types.ImportRequest{}, http.StatusBadRequest},
		{"unknown template", &fakeFetcher{}, types.ImportRequest{URL: "https://www.linkedin.com/in/ada", Template: "nope"}, http.StatusNotFound},
		{"missing credentials", &fakeFetcher{}, types.ImportRequest{URL: "https://www.linkedin.com/in/ada", Authenticated: true}, http.StatusPreconditionFailed},
		{"profile unavailable", &fakeFetcher{err: fetch.ErrProfileUnavailable}, types.ImportRequest{URL: "https://www.linkedin.com/in/ada"}, http.StatusBadGateway},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t, tt.fetcher, nil)
			w := doJSON(t, s, http.MethodPost, "/import", tt.req)
			assert.Equal(t, tt.want, w.Code, w.Body.String())
			assert.Contains(t, w.Body.String(), `"error"`)
		})
	}
}

func TestHandleImportStream(t *testing.T) {
	s := newTestServer(t, &fakeFetcher{public: fixture(t, "public.html")}, nil)
	w := doJSON(t, s, http.MethodPost, "/import/stream", types.ImportRequest{URL: "https://www.linkedin.com/in/grace"})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/event-stream", w.Header().Get("Content-Type"))
	body := w.Body.String()
	assert.True(t, strings.HasPrefix(body, "id: 1\nevent: step\n"))
	assert.Contains(t, body, `"step":"validate_url"`)
	assert.Contains(t, body, "event: result\n")
	assert.Contains(t, body, `"status":"completed"`)
	assert.True(t, strings.HasSuffix(body, "\n\n"))
}

func TestHandleImportStream_Failure(t *testing.T) {
	s := newTestServer(t, &fakeFetcher{err: fetch.ErrProfileUnavailable}, nil)
	w := doJSON(t, s, http.MethodPost, "/import/stream", types.ImportRequest{URL: "https://www.linkedin.com/in/grace"})

	body := w.Body.String()
	assert.Contains(t, body, "event: error\n")
	assert.Contains(t, body, fetch.ErrProfileUnavailable.Error())
	assert.Contains(t, body, `"status":"failed"`)
}

func TestRateLimit(t *testing.T) {
	s := newTestServer(t, nil, &ratelimit.Config{
		Enabled:       true,
		DefaultLimit:  100,
		DefaultWindow: time.Minute,
		EndpointConfigs: []ratelimit.EndpointConfig{
			{Path: "/score", Method: "POST", Limit: 1, Window: time.Hour, Burst: 1},
		},
	})
	body := types.ScoreRequest{Resume: "Go", JobDescription: "Python"}

	w := doJSON(t, s, http.MethodPost, "/score", body)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "1", w.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))

	w = doJSON(t, s, http.MethodPost, "/score", body)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.Contains(t, w.Body.String(), "rate_limit_exceeded")

	// health stays unlimited
	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, doJSON(t, s, http.MethodGet, "/health", nil).Code)
	}
}

func TestNew_InvalidPort(t *testing.T) {
	_, err := New(Config{Port: -1, RateLimit: &ratelimit.Config{}})
	assert.Error(t, err)
}
