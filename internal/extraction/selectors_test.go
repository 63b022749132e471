package extraction

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSelectors_MergesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "selectors.yaml")
	src := `
name:
  - h2.custom-name
experience:
  fields:
    title:
      - span.role
posts:
  limit: 3
`
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))

	s, err := LoadSelectors(path)
	require.NoError(t, err)

	d := DefaultSelectors()
	assert.Equal(t, []string{"h2.custom-name"}, s.Name)
	assert.Equal(t, d.Headline, s.Headline)
	assert.Equal(t, []string{"span.role"}, s.Experience.Fields["title"])
	assert.Equal(t, d.Experience.Fields["company"], s.Experience.Fields["company"])
	assert.Equal(t, d.Experience.Sections, s.Experience.Sections)
	assert.Equal(t, d.Education, s.Education)
	assert.Equal(t, 3, s.Posts.Limit)
	assert.Equal(t, d.Posts.Items, s.Posts.Items)
}

func TestLoadSelectors_Errors(t *testing.T) {
	_, err := LoadSelectors(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "failed to read selector file")

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: [unterminated"), 0o644))
	_, err = LoadSelectors(path)
	assert.ErrorContains(t, err, "failed to parse selector file")
}

func TestMergeWithDefaults_ZeroValue(t *testing.T) {
	var s Selectors
	s.MergeWithDefaults()
	assert.Equal(t, *DefaultSelectors(), s)
}

func TestSplitIndex(t *testing.T) {
	tests := []struct {
		in      string
		wantSel string
		wantIdx int
	}{
		{"h4 span", "h4 span", 0},
		{"h4 span@1", "h4 span", 1},
		{"h4 span @2", "h4 span", 2},
		{"a[href*=@x]", "a[href*=@x]", 0},
		{"span@-1", "span@-1", 0},
		{"@3", "@3", 0},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			sel, idx := splitIndex(tt.in)
			assert.Equal(t, tt.wantSel, sel)
			assert.Equal(t, tt.wantIdx, idx)
		})
	}
}

func TestCleanText(t *testing.T) {
	assert.Equal(t, "", cleanText(""))
	assert.Equal(t, "a b c", cleanText("  a  b\n\tc "))
	assert.Equal(t, "file", cleanText("ﬁle"))
}

func TestCleanCompany(t *testing.T) {
	assert.Equal(t, "Acme", cleanCompany("Acme · Full-time"))
	assert.Equal(t, "Acme", cleanCompany(" Acme "))
	assert.Equal(t, "", cleanCompany("· Contract"))
}

func TestCleanMarkdown(t *testing.T) {
	got := cleanMarkdown("\n\nfirst  \n\n\n\nsecond\r\nthird\n\n")
	assert.Equal(t, "first\n\nsecond\nthird", got)
}
