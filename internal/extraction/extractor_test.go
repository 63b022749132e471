package extraction

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jonathan/resumind/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixture(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	return string(data)
}

func TestExtract_SignedInLayout(t *testing.T) {
	p := Extract(fixture(t, "signed_in.html"), "https://www.linkedin.com/in/ada")

	assert.Equal(t, "Ada Lovelace", p.Name)
	assert.Equal(t, "Analyst & Programmer at Engines Ltd", p.Headline)
	assert.Equal(t, "London, England, United Kingdom", p.Location)
	assert.Equal(t, "https://www.linkedin.com/in/ada", p.ProfileURL)

	require.Len(t, p.Experiences, 2)
	assert.Equal(t, types.Experience{
		Title:     "Lead Analyst",
		Company:   "Engines Ltd",
		DateRange: "Jan 1842 - Present · 10 yrs",
		Summary:   "Wrote the first published program.",
	}, p.Experiences[0])
	assert.Equal(t, "Translator", p.Experiences[1].Title)
	assert.Empty(t, p.Experiences[1].Summary)

	require.Len(t, p.Educations, 1)
	assert.Equal(t, "University of London", p.Educations[0].School)
	assert.Equal(t, "Private tutoring", p.Educations[0].Degree)
	assert.Equal(t, "Mathematics", p.Educations[0].Field)
	assert.Equal(t, "1829 - 1835", p.Educations[0].DateRange)

	assert.Equal(t, []string{"Mathematics", "Programming"}, p.Skills)
}

func TestExtract_2024Layout(t *testing.T) {
	p := Extract(fixture(t, "layout_2024.html"), "")

	assert.Equal(t, "Katherine Johnson", p.Name)
	assert.Equal(t, "Engineer", p.Headline)
	assert.Equal(t, "Hampton, Virginia", p.Location)

	require.Len(t, p.Experiences, 1)
	assert.Equal(t, types.Experience{
		Title:     "Engineer",
		Company:   "Acme",
		DateRange: "2020 - 2022 · 2 yrs",
		Summary:   "Flight path analysis.",
	}, p.Experiences[0])

	require.Len(t, p.Educations, 2)
	assert.Equal(t, types.Education{
		School:    "MIT",
		Degree:    "Master of Science",
		Field:     "Mathematics",
		DateRange: "1937 - 1939",
	}, p.Educations[0])
	assert.Equal(t, "Bachelor of Science", p.Educations[1].Degree)
	assert.Equal(t, "Physics", p.Educations[1].Field)

	assert.Equal(t, []string{"Orbital Mechanics", "Geometry"}, p.Skills)
}

func TestExtract_ScalarsIgnoreMarkupOutsideMain(t *testing.T) {
	html := `<header><h1>Feed</h1><div class="text-body-medium break-words">Promoted: Try Premium</div></header>
<main class="scaffold-layout__main"><section class="pv-top-card"><h1 class="text-heading-xlarge">Ada</h1></section>
<section class="artdeco-card"><div class="text-body-medium break-words">Engineer</div></section></main>`

	p := Extract(html, "")
	assert.Equal(t, "Ada", p.Name)
	assert.Equal(t, "Engineer", p.Headline)
}

func TestExtract_PublicLayout(t *testing.T) {
	p := Extract(fixture(t, "public.html"), "https://www.linkedin.com/in/grace")

	assert.Equal(t, "Grace Hopper", p.Name)
	assert.Equal(t, "Rear Admiral, Computer Scientist", p.Headline)
	assert.Equal(t, "Arlington, Virginia", p.Location)

	require.Len(t, p.Experiences, 1)
	assert.Equal(t, types.Experience{
		Title:     "Senior Programmer",
		Company:   "Eckert-Mauchly Computer Corporation",
		DateRange: "1949 - 1950",
		Summary:   "Built the A-0 compiler.",
	}, p.Experiences[0])

	require.Len(t, p.Educations, 1)
	assert.Equal(t, types.Education{
		School:    "Yale University",
		Degree:    "PhD",
		Field:     "Mathematics",
		DateRange: "1930 - 1934",
	}, p.Educations[0])

	assert.Equal(t, []string{"COBOL", "Compilers"}, p.Skills)
}

func TestExtract_LegacyLayout(t *testing.T) {
	p := Extract(fixture(t, "legacy.html"), "")

	assert.Equal(t, "Alan Turing", p.Name)
	assert.Equal(t, "Mathematician", p.Headline)
	assert.Equal(t, "Manchester", p.Location)

	require.Len(t, p.Experiences, 1)
	assert.Equal(t, types.Experience{
		Title:     "Reader",
		Company:   "University of Manchester",
		DateRange: "1948 - 1954",
		Summary:   "Worked on morphogenesis.",
	}, p.Experiences[0])

	require.Len(t, p.Educations, 1)
	assert.Equal(t, types.Education{
		School:    "Princeton University",
		Degree:    "PhD",
		Field:     "Mathematics",
		DateRange: "1936",
	}, p.Educations[0])

	// repeated chips collapse to one entry
	assert.Equal(t, []string{"Cryptanalysis", "Logic"}, p.Skills)
}

func TestExtract_WholeDocumentFallback(t *testing.T) {
	p := Extract(fixture(t, "fallback.html"), "")

	assert.Equal(t, "Katherine Johnson", p.Name)
	require.Len(t, p.Experiences, 2)
	assert.Equal(t, "Research Mathematician", p.Experiences[0].Title)
	assert.Equal(t, "NASA Langley", p.Experiences[0].Company)
	assert.Equal(t, "Calculated trajectories.", p.Experiences[0].Summary)
	assert.Equal(t, "NACA", p.Experiences[1].Company)
	assert.Empty(t, p.Educations)
}

func TestExtract_FallbackSkipsNestedItems(t *testing.T) {
	html := `<ul><li><h3>Outer</h3><h4>Outer Co</h4><ul><li><h3>Inner</h3><h4>Inner Co</h4></li></ul></li></ul>`
	p := Extract(html, "")
	require.Len(t, p.Experiences, 1)
	assert.Equal(t, "Inner", p.Experiences[0].Title)
}

func TestExtract_ExperiencesAlwaysHaveTitleAndCompany(t *testing.T) {
	for _, name := range []string{"signed_in.html", "public.html", "legacy.html", "fallback.html", "layout_2024.html"} {
		t.Run(name, func(t *testing.T) {
			p := Extract(fixture(t, name), "")
			for _, e := range p.Experiences {
				assert.NotEmpty(t, e.Title)
				assert.NotEmpty(t, e.Company)
			}
			for _, e := range p.Educations {
				assert.NotEmpty(t, e.School)
			}
		})
	}
}

func TestExtract_MalformedAndEmpty(t *testing.T) {
	tests := []struct {
		name string
		html string
	}{
		{"empty", ""},
		{"garbage", "<<<>>><div class=<li"},
		{"unclosed", "<html><body><section id=\"experience-section\"><ul><li><h3>Only title"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Extract(tt.html, "https://example.com")
			require.NotNil(t, p)
			assert.Equal(t, "https://example.com", p.ProfileURL)
			assert.NotNil(t, p.Experiences)
			assert.NotNil(t, p.Educations)
			assert.NotNil(t, p.Skills)
			assert.Empty(t, p.Experiences)
		})
	}
}

func TestExtractPosts(t *testing.T) {
	posts := New().ExtractPosts(fixture(t, "activity.html"))

	require.Len(t, posts, 2)
	assert.Contains(t, posts[0].Text, "[my notes](https://example.com/engine)")
	assert.Contains(t, posts[0].Text, "Second paragraph.")
	assert.Equal(t, "2 weeks ago", posts[0].Date)
	assert.Equal(t, "Plain post", posts[1].Text)
	assert.Equal(t, "1 month ago", posts[1].Date)
}

func TestExtractPosts_Limit(t *testing.T) {
	s := DefaultSelectors()
	s.Posts.Limit = 1

	posts := New(WithSelectors(s)).ExtractPosts(fixture(t, "activity.html"))
	assert.Len(t, posts, 1)
}

func TestExtractPosts_NoFeed(t *testing.T) {
	posts := New().ExtractPosts("<html><body><p>nothing</p></body></html>")
	assert.NotNil(t, posts)
	assert.Empty(t, posts)
}

func TestWithSelectors_CustomCascade(t *testing.T) {
	s := DefaultSelectors()
	s.Name = []string{"span.custom-name"}

	p := New(WithSelectors(s)).Extract(`<h1>Wrong</h1><span class="custom-name">Right</span>`, "")
	assert.Equal(t, "Right", p.Name)
}

func TestFirstText_IndexSuffix(t *testing.T) {
	s := DefaultSelectors()
	s.Headline = []string{"span.x@1"}
	got := New(WithSelectors(s)).Extract(`<span class="x">one</span><span class="x">two</span>`, "")
	assert.Equal(t, "two", got.Headline)

	s.Headline = []string{"span.x@5", "span.x"}
	got = New(WithSelectors(s)).Extract(`<span class="x">one</span>`, "")
	assert.Equal(t, "one", got.Headline)
}
