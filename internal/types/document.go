package types

import (
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// DefaultDeclaration is used by every template when the declaration is absent or blank.
const DefaultDeclaration = "I hereby declare that the information provided is true to the best of my knowledge."

// PersonalDetails is an ordered label -> value mapping. Insertion order is kept
// through JSON and YAML round trips.
type PersonalDetails = orderedmap.OrderedMap[string, string]

// NewPersonalDetails returns an empty PersonalDetails map.
func NewPersonalDetails() *PersonalDetails {
	return orderedmap.New[string, string]()
}

// DocumentInput is the record consumed by the template engine. All fields are optional.
type DocumentInput struct {
	Name            string           `json:"name" yaml:"name"`
	Title           string           `json:"title" yaml:"title"`
	Contact         string           `json:"contact" yaml:"contact"`
	Summary         string           `json:"summary" yaml:"summary"`
	Experience      []string         `json:"experience" yaml:"experience"`
	Education       []string         `json:"education" yaml:"education"`
	Skills          []string         `json:"skills" yaml:"skills"`
	Projects        []string         `json:"projects" yaml:"projects"`
	Certificates    []string         `json:"certificates" yaml:"certificates"`
	PersonalDetails *PersonalDetails `json:"personal_details" yaml:"personal_details"`
	Hobbies         string           `json:"hobbies" yaml:"hobbies"`
	Declaration     string           `json:"declaration" yaml:"declaration"`
}

// Detail is one personal detail entry.
type Detail struct {
	Label string
	Value string
}

// NewDocumentInput returns an empty record with every list and map initialized.
func NewDocumentInput() *DocumentInput {
	d := &DocumentInput{}
	d.Normalize()
	return d
}

// Normalize replaces nil lists and maps with empty ones so the record always
// serializes with the same shape.
func (d *DocumentInput) Normalize() {
	if d.Experience == nil {
		d.Experience = []string{}
	}
	if d.Education == nil {
		d.Education = []string{}
	}
	if d.Skills == nil {
		d.Skills = []string{}
	}
	if d.Projects == nil {
		d.Projects = []string{}
	}
	if d.Certificates == nil {
		d.Certificates = []string{}
	}
	if d.PersonalDetails == nil {
		d.PersonalDetails = NewPersonalDetails()
	}
}

// Details returns personal details in insertion order. Safe on a nil map.
func (d *DocumentInput) Details() []Detail {
	if d == nil || d.PersonalDetails == nil {
		return nil
	}
	out := make([]Detail, 0, d.PersonalDetails.Len())
	for pair := d.PersonalDetails.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, Detail{Label: pair.Key, Value: pair.Value})
	}
	return out
}

// DeclarationText returns the declaration, falling back to DefaultDeclaration
// when it is absent or blank.
func (d *DocumentInput) DeclarationText() string {
	if d == nil || strings.TrimSpace(d.Declaration) == "" {
		return DefaultDeclaration
	}
	return d.Declaration
}
