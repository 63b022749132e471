// Package intake builds document input records from hand-entered data: a
// form of free-text areas, or a Markdown resume.
package intake

import (
	"strings"

	"github.com/jonathan/resumind/internal/types"
)

// Form mirrors the manual entry form. List fields hold one entry per line;
// PersonalDetails holds one "Label: Value" pair per line.
type Form struct {
	Name            string `json:"name" yaml:"name"`
	Title           string `json:"title" yaml:"title"`
	Contact         string `json:"contact" yaml:"contact"`
	Summary         string `json:"summary" yaml:"summary"`
	Experience      string `json:"experience" yaml:"experience"`
	Education       string `json:"education" yaml:"education"`
	Skills          string `json:"skills" yaml:"skills"`
	Projects        string `json:"projects" yaml:"projects"`
	Certificates    string `json:"certificates" yaml:"certificates"`
	PersonalDetails string `json:"personal_details" yaml:"personal_details"`
	Hobbies         string `json:"hobbies" yaml:"hobbies"`
	Declaration     string `json:"declaration" yaml:"declaration"`
}

// FromForm converts a submitted form into a document input record. A blank
// declaration is filled with the default sentence.
func FromForm(f Form) *types.DocumentInput {
	in := &types.DocumentInput{
		Name:            strings.TrimSpace(f.Name),
		Title:           strings.TrimSpace(f.Title),
		Contact:         strings.TrimSpace(f.Contact),
		Summary:         strings.TrimSpace(f.Summary),
		Experience:      Lines(f.Experience),
		Education:       Lines(f.Education),
		Skills:          Lines(f.Skills),
		Projects:        Lines(f.Projects),
		Certificates:    Lines(f.Certificates),
		PersonalDetails: ParseDetails(f.PersonalDetails),
		Hobbies:         strings.TrimSpace(f.Hobbies),
		Declaration:     strings.TrimSpace(f.Declaration),
	}
	if in.Declaration == "" {
		in.Declaration = types.DefaultDeclaration
	}
	return in
}

// Lines splits s into trimmed, non-blank lines.
func Lines(s string) []string {
	out := []string{}
	for _, line := range strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

// ParseDetails reads "Label: Value" lines in order. Lines without a colon are
// skipped; only the first colon splits, so values may contain colons.
func ParseDetails(s string) *types.PersonalDetails {
	details := types.NewPersonalDetails()
	for _, line := range Lines(s) {
		label, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		details.Set(strings.TrimSpace(label), strings.TrimSpace(value))
	}
	return details
}
