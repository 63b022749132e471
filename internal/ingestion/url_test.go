package ingestion

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/jonathan/resumind/internal/fetch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIngestFromURL_InvalidURL(t *testing.T) {
	tests := []struct {
		name   string
		urlStr string
	}{
		{"empty URL", ""},
		{"malformed URL", "not-a-url"},
		{"no scheme", "example.com"},
		{"no host", "http://"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := IngestFromURL(context.Background(), tt.urlStr, nil)
			assert.ErrorIs(t, err, ErrHTTPRequestFailed)
		})
	}
}

func TestIngestFromURL_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		html := `<!DOCTYPE html>
<html>
<body>
<nav>Nav</nav>
<main>
<h1>Job Title</h1>
<p>Job description</p>
</main>
<footer>Footer</footer>
</body>
</html>`
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(html))
	}))
	defer server.Close()

	cleanedText, metadata, err := IngestFromURL(context.Background(), server.URL, nil)
	require.NoError(t, err)

	require.NotNil(t, metadata)
	assert.Equal(t, server.URL, metadata.URL)
	assert.Equal(t, string(fetch.PlatformUnknown), metadata.Platform)
	assert.Contains(t, cleanedText, "Job Title")
	assert.Contains(t, cleanedText, "Job description")
	assert.NotContains(t, cleanedText, "Nav")
	assert.NotContains(t, cleanedText, "Footer")
}

func TestIngestFromURL_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	_, _, err := IngestFromURL(context.Background(), server.URL, nil)
	assert.ErrorIs(t, err, ErrHTTPRequestFailed)

	var fetchErr *fetch.Error
	assert.ErrorAs(t, err, &fetchErr)
}

func TestIngestFromURL_NetworkError(t *testing.T) {
	_, _, err := IngestFromURL(context.Background(), "http://localhost:99999/nonexistent", nil)
	assert.Error(t, err)
}

func TestIngestFromURL_WithFixture(t *testing.T) {
	htmlContent, err := os.ReadFile("testdata/job_posting.html")
	require.NoError(t, err)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(htmlContent)
	}))
	defer server.Close()

	cleanedText, _, err := IngestFromURL(context.Background(), server.URL, nil)
	require.NoError(t, err)

	assert.Contains(t, cleanedText, "Senior Software Engineer")
	assert.Contains(t, cleanedText, "About the Role")
	assert.Contains(t, cleanedText, "Experience with AWS")
	assert.NotContains(t, cleanedText, "Resume upload")
	assert.NotContains(t, cleanedText, "Jobs Home")
}

func TestIngestFromURL_BrowserFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html><body><div id="root"></div></body></html>`))
	}))
	defer server.Close()

	var rendered string
	render := func(_ context.Context, url string, _ *fetch.BrowserOptions) (string, error) {
		rendered = url
		return `<html><body><div class="job-description">Rendered posting for a Go engineer</div></body></html>`, nil
	}

	text, _, err := IngestFromURL(context.Background(), server.URL, &URLOptions{UseBrowser: true, Render: render})
	require.NoError(t, err)
	assert.Equal(t, server.URL, rendered)
	assert.Equal(t, "Rendered posting for a Go engineer", text)
}

func TestIngestFromURL_BrowserFailureKeepsHTTPText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html><body><main>Short posting</main></body></html>`))
	}))
	defer server.Close()

	render := func(context.Context, string, *fetch.BrowserOptions) (string, error) {
		return "", errors.New("chrome not found")
	}

	text, _, err := IngestFromURL(context.Background(), server.URL, &URLOptions{UseBrowser: true, Render: render})
	require.NoError(t, err)
	assert.Equal(t, "Short posting", text)
}
