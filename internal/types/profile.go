// Package types provides type definitions for structured data used throughout resumind.
package types

// Profile is the normalized record extracted from a professional profile page.
// Every field is best-effort: a field that could not be found is left empty.
type Profile struct {
	Name        string       `json:"name"`
	Headline    string       `json:"headline"`
	Location    string       `json:"location"`
	Experiences []Experience `json:"experiences"`
	Educations  []Education  `json:"educations"`
	Skills      []string     `json:"skills"`
	Posts       []Post       `json:"posts,omitempty"`
	ProfileURL  string       `json:"profile_url"`
}

// Experience is a single position held. Title and Company are always non-empty
// for experiences produced by the extractor.
type Experience struct {
	Title     string `json:"title"`
	Company   string `json:"company"`
	DateRange string `json:"date_range"`
	Summary   string `json:"summary"`
}

// Education is a single education entry. School is always non-empty.
type Education struct {
	School    string `json:"school"`
	Degree    string `json:"degree"`
	Field     string `json:"field"`
	DateRange string `json:"date_range"`
}

// Post is a short activity entry from the profile's recent activity feed.
type Post struct {
	Text string `json:"text"`
	Date string `json:"date"`
}

// NewProfile returns an empty profile for the given source URL with non-nil lists.
func NewProfile(sourceURL string) *Profile {
	return &Profile{
		Experiences: []Experience{},
		Educations:  []Education{},
		Skills:      []string{},
		ProfileURL:  sourceURL,
	}
}

// IsEmpty reports whether nothing at all was extracted.
func (p *Profile) IsEmpty() bool {
	if p == nil {
		return true
	}
	return p.Name == "" && p.Headline == "" && p.Location == "" &&
		len(p.Experiences) == 0 && len(p.Educations) == 0 &&
		len(p.Skills) == 0 && len(p.Posts) == 0
}
