// Package adapter maps an extracted profile onto the document input record
// consumed by the template engine.
package adapter

import (
	"fmt"

	"github.com/jonathan/resumind/internal/types"
)

// Adapt converts a profile into a document input record. It never fails; a nil
// profile yields the empty record. Projects, certificates, personal details,
// hobbies and declaration are left empty since profiles carry none of them.
func Adapt(p *types.Profile) *types.DocumentInput {
	out := types.NewDocumentInput()
	if p == nil {
		return out
	}

	out.Name = p.Name
	out.Title = p.Headline
	out.Contact = p.Location
	out.Summary = p.Headline

	for _, e := range p.Experiences {
		out.Experience = append(out.Experience, FormatExperience(e))
	}
	for _, e := range p.Educations {
		out.Education = append(out.Education, FormatEducation(e))
	}
	out.Skills = append(out.Skills, p.Skills...)

	return out
}

// FormatExperience renders "{title} at {company} ({date_range})\n{summary}".
func FormatExperience(e types.Experience) string {
	return fmt.Sprintf("%s at %s (%s)\n%s", e.Title, e.Company, e.DateRange, e.Summary)
}

// FormatEducation renders "{degree}, {field} at {school} ({date_range})".
func FormatEducation(e types.Education) string {
	return fmt.Sprintf("%s, %s at %s (%s)", e.Degree, e.Field, e.School, e.DateRange)
}
