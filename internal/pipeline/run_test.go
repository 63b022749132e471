package pipeline

import (
	"archive/zip"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resumind/internal/export"
	"github.com/jonathan/resumind/internal/fetch"
	"github.com/jonathan/resumind/internal/pipeline/steps"
	"github.com/jonathan/resumind/internal/rendering"
	"github.com/jonathan/resumind/internal/types"
)

func fixture(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("..", "extraction", "testdata", name))
	require.NoError(t, err)
	return string(data)
}

type fakeFetcher struct {
	public    string
	pages     *fetch.PageSet
	err       error
	gotURL    string
	gotCreds  types.Credentials
	signedIn  bool
	publicHit bool
}

func (f *fakeFetcher) Public(_ context.Context, url string) (string, error) {
	f.publicHit = true
	f.gotURL = url
	return f.public, f.err
}

func (f *fakeFetcher) SignedIn(_ context.Context, url string, creds types.Credentials) (*fetch.PageSet, error) {
	f.signedIn = true
	f.gotURL = url
	f.gotCreds = creds
	return f.pages, f.err
}

func collect(events *[]ProgressEvent) ProgressCallback {
	return func(e ProgressEvent) { *events = append(*events, e) }
}

func TestImport_Public(t *testing.T) {
	fetcher := &fakeFetcher{public: fixture(t, "public.html")}
	var events []ProgressEvent

	res, err := Import(context.Background(), ImportOptions{
		ProfileURL: "https://www.linkedin.com/in/grace?trk=x",
		Fetcher:    fetcher,
		OnProgress: collect(&events),
	})
	require.NoError(t, err)

	assert.True(t, fetcher.publicHit)
	assert.False(t, fetcher.signedIn)
	assert.Equal(t, "https://www.linkedin.com/in/grace/", fetcher.gotURL)
	assert.NotEmpty(t, res.RunID)
	assert.Equal(t, "Grace Hopper", res.Profile.Name)
	assert.Equal(t, "Grace Hopper", res.Input.Name)
	assert.Equal(t, []string{"Senior Programmer at Eckert-Mauchly Computer Corporation (1949 - 1950)\nBuilt the A-0 compiler."}, res.Input.Experience[:1])
	assert.Nil(t, res.Document)

	statuses := map[string]string{}
	for _, rec := range res.Steps {
		statuses[rec.Step] = rec.Status
	}
	assert.Equal(t, steps.StatusCompleted, statuses[steps.Adapt])
	assert.Equal(t, steps.StatusSkipped, statuses[steps.Render])
	assert.Equal(t, steps.StatusSkipped, statuses[steps.Export])

	require.NotEmpty(t, events)
	assert.Equal(t, steps.ValidateURL, events[0].Step)
	for _, e := range events {
		assert.Equal(t, res.RunID, e.RunID)
		assert.Equal(t, len(steps.StepRegistry), e.Total)
	}
}

func TestImport_SignedInRendersAndExports(t *testing.T) {
	fetcher := &fakeFetcher{pages: &fetch.PageSet{
		Profile:  fixture(t, "signed_in.html"),
		Activity: fixture(t, "activity.html"),
	}}
	creds := types.Credentials{Email: "ada@example.com", Password: "secret"}
	dir := t.TempDir()

	res, err := Import(context.Background(), ImportOptions{
		ProfileURL:    "https://www.linkedin.com/in/ada",
		Authenticated: true,
		Credentials:   creds,
		Fetcher:       fetcher,
		Template:      rendering.SidePanel,
		Format:        export.FormatDOCX,
		OutputDir:     dir,
	})
	require.NoError(t, err)

	assert.True(t, fetcher.signedIn)
	assert.Equal(t, creds, fetcher.gotCreds)
	assert.Len(t, res.Profile.Posts, 2)
	require.NotNil(t, res.Document)
	assert.Equal(t, rendering.SidePanel, res.Document.Template)
	assert.Equal(t, filepath.Join(dir, "Ada_Lovelace_Resume.docx"), res.OutputPath)

	zr, err := zip.OpenReader(res.OutputPath)
	require.NoError(t, err)
	defer zr.Close()
	assert.NotEmpty(t, zr.File)
}

func TestImport_InvalidURL(t *testing.T) {
	fetcher := &fakeFetcher{}
	var events []ProgressEvent

	res, err := Import(context.Background(), ImportOptions{
		ProfileURL: "https://example.com/someone",
		Fetcher:    fetcher,
		OnProgress: collect(&events),
	})
	assert.ErrorIs(t, err, fetch.ErrInvalidProfileURL)
	assert.False(t, fetcher.publicHit)
	assert.Nil(t, res.Profile)
	assert.Equal(t, steps.StatusFailed, res.Steps[0].Status)
	assert.Equal(t, steps.StatusFailed, events[len(events)-1].Status)
}

func TestImport_HardFetchFailures(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"missing credentials", fetch.ErrMissingCredentials},
		{"login form", &fetch.LoginFormError{URL: "https://www.linkedin.com/login", Message: "form not found"}},
		{"unavailable", fetch.ErrProfileUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Import(context.Background(), ImportOptions{
				ProfileURL:    "https://www.linkedin.com/in/ada",
				Authenticated: true,
				Fetcher:       &fakeFetcher{err: tt.err},
			})
			assert.ErrorIs(t, err, tt.err)
			assert.Nil(t, res.Profile)
			assert.Equal(t, steps.StatusFailed, res.Steps[1].Status)
			assert.Equal(t, steps.StatusPending, res.Steps[2].Status)
		})
	}
}

func TestImport_UnknownTemplate(t *testing.T) {
	res, err := Import(context.Background(), ImportOptions{
		ProfileURL: "https://www.linkedin.com/in/grace",
		Fetcher:    &fakeFetcher{public: fixture(t, "public.html")},
		Template:   rendering.TemplateID("nope"),
	})
	var unknown *rendering.UnknownTemplateError
	assert.ErrorAs(t, err, &unknown)
	assert.NotNil(t, res.Input)
}

func TestWriteProfileJSON(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "out", "profile.json")
	p := types.NewProfile("https://www.linkedin.com/in/ada/")
	p.Name = "Ada Lovelace"
	require.NoError(t, WriteProfileJSON(path, p, nil))

	var got types.Profile
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "Ada Lovelace", got.Name)

	require.NoError(t, WriteProfileJSON(path, p, fetch.ErrMissingCredentials))
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	var record map[string]string
	require.NoError(t, json.Unmarshal(data, &record))
	assert.Equal(t, map[string]string{"error": fetch.ErrMissingCredentials.Error()}, record)
}

func TestGenerateAll(t *testing.T) {
	dir := t.TempDir()
	in := types.NewDocumentInput()
	in.Name = "Ada Lovelace"

	files, err := GenerateAll(context.Background(), in, export.FormatMarkdown, dir, nil)
	require.NoError(t, err)
	require.Len(t, files, len(rendering.IDs()))

	assert.Equal(t, rendering.Minimal, files[0].Template)
	assert.Equal(t, filepath.Join(dir, "Ada_Lovelace_Resume_minimal.md"), files[0].Path)
	for _, f := range files {
		info, err := os.Stat(f.Path)
		require.NoError(t, err)
		assert.NotZero(t, info.Size())
	}
}

func TestGenerateAll_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := GenerateAll(ctx, nil, export.FormatText, t.TempDir(), nil)
	assert.ErrorIs(t, err, context.Canceled)
}
