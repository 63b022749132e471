package rendering

import (
	"strings"
)

// TemplateID identifies one of the built-in templates.
type TemplateID string

const (
	Minimal     TemplateID = "minimal"
	Corporate   TemplateID = "corporate"
	TechModern  TemplateID = "tech-modern"
	Creative    TemplateID = "creative"
	Infographic TemplateID = "infographic"
	Bordered    TemplateID = "bordered"
	SidePanel   TemplateID = "side-panel"
	Academic    TemplateID = "academic"
	Executive   TemplateID = "executive"
	SimpleATS   TemplateID = "simple-ats"
)

var (
	navy      = &Color{0, 51, 102}
	orange    = &Color{255, 102, 0}
	techBlue  = &Color{10, 102, 194}
	green     = &Color{76, 175, 80}
	black     = &Color{0, 0, 0}
	charcoal  = &Color{33, 33, 33}
	slate     = &Color{54, 69, 79}
	execGrey  = &Color{80, 80, 80}
	noColor   *Color
	sidePanel = sidePanelLayout{narrow: 2.3, wide: 6.0, split: 3}
)

// field names a region of the document input record.
type field int

const (
	fieldSummary field = iota
	fieldExperience
	fieldEducation
	fieldSkills
	fieldProjects
	fieldCertificates
	fieldPersonalDetails
	fieldHobbies
	fieldDeclaration
)

// mode is how a field is rendered below its section heading.
type mode int

const (
	// bullets renders each list item as its own bullet paragraph.
	bullets mode = iota
	// text renders a scalar field as one paragraph.
	text
	// joined renders a list as a single paragraph.
	joined
	// comma renders a list as one comma separated paragraph.
	comma
	// details renders personal details as "Label: Value" paragraphs.
	details
)

type section struct {
	heading string
	fields  []field
	mode    mode
	color   *Color
}

func sec(heading string, f field, m mode, color *Color) section {
	return section{heading: heading, fields: []field{f}, mode: m, color: color}
}

// headerKind selects how name, title and contact are laid out.
type headerKind int

const (
	// headerCentered is a centered name heading with title and contact paragraphs below.
	headerCentered headerKind = iota
	// headerStacked centers title and contact in one paragraph under the name.
	headerStacked
	// headerStyled uses named heading styles and labelled title/contact lines.
	headerStyled
)

type templateConfig struct {
	id       TemplateID
	name     string
	nameSize float64
	color    *Color
	header   headerKind
	// styledSections uses a Heading2 paragraph instead of the section heading primitive.
	styledSections bool
	rules          bool
	page           PageSetup
	layout         layout
	sections       []section
}

func page(top, bottom, left, right float64) PageSetup {
	p := DefaultPage()
	p.MarginTop, p.MarginBottom, p.MarginLeft, p.MarginRight = top, bottom, left, right
	return p
}

var templateOrder = []TemplateID{
	Minimal, Corporate, TechModern, Creative, Infographic,
	Bordered, SidePanel, Academic, Executive, SimpleATS,
}

var templates = map[TemplateID]*templateConfig{
	Minimal: {
		id: Minimal, name: "Minimal", nameSize: 20, color: noColor,
		page: DefaultPage(), layout: linearLayout{},
		sections: []section{
			sec("Summary", fieldSummary, text, noColor),
			sec("Experience", fieldExperience, bullets, noColor),
			sec("Education", fieldEducation, bullets, noColor),
			sec("Skills", fieldSkills, bullets, noColor),
			sec("Projects", fieldProjects, bullets, noColor),
			sec("Certifications", fieldCertificates, bullets, noColor),
			sec("Personal Details", fieldPersonalDetails, details, noColor),
			sec("Declaration", fieldDeclaration, text, noColor),
		},
	},
	Corporate: {
		id: Corporate, name: "Corporate", nameSize: 22, color: navy,
		page: DefaultPage(), layout: linearLayout{},
		sections: []section{
			sec("Professional Summary", fieldSummary, text, navy),
			sec("Work History", fieldExperience, bullets, navy),
			sec("Academic Background", fieldEducation, bullets, navy),
			sec("Core Competencies", fieldSkills, bullets, navy),
			sec("Projects", fieldProjects, bullets, navy),
			sec("Certifications", fieldCertificates, bullets, orange),
			sec("Personal Details", fieldPersonalDetails, details, orange),
			sec("Declaration", fieldDeclaration, text, orange),
		},
	},
	TechModern: {
		id: TechModern, name: "Tech Modern", nameSize: 24, color: techBlue,
		page: DefaultPage(), layout: linearLayout{},
		sections: []section{
			sec("Profile", fieldSummary, text, techBlue),
			{heading: "Projects & Experience", fields: []field{fieldExperience, fieldProjects}, mode: bullets, color: techBlue},
			sec("Education", fieldEducation, bullets, techBlue),
			sec("Technical Skills", fieldSkills, bullets, techBlue),
			sec("Certifications", fieldCertificates, joined, techBlue),
			sec("Personal Details", fieldPersonalDetails, details, orange),
			sec("Declaration", fieldDeclaration, text, orange),
		},
	},
	Creative: {
		id: Creative, name: "Creative", nameSize: 26, color: orange,
		page: DefaultPage(), layout: linearLayout{},
		sections: []section{
			sec("About Me", fieldSummary, text, orange),
			sec("Experience Highlights", fieldExperience, bullets, orange),
			sec("Education Path", fieldEducation, bullets, orange),
			sec("Skillset", fieldSkills, bullets, orange),
			sec("Projects", fieldProjects, bullets, orange),
			sec("Certifications", fieldCertificates, bullets, orange),
			sec("Personal Details", fieldPersonalDetails, details, orange),
			sec("Declaration", fieldDeclaration, text, orange),
		},
	},
	Infographic: {
		id: Infographic, name: "Infographic Style", nameSize: 24, color: green,
		page: DefaultPage(), layout: linearLayout{},
		sections: []section{
			sec("Snapshot", fieldSummary, text, green),
			sec("Key Experiences", fieldExperience, bullets, green),
			sec("Learning", fieldEducation, bullets, green),
			sec("Proficiencies", fieldSkills, bullets, green),
			sec("Projects", fieldProjects, bullets, green),
			sec("Certifications", fieldCertificates, bullets, green),
			sec("Personal Info", fieldPersonalDetails, details, orange),
			sec("Declaration", fieldDeclaration, text, orange),
		},
	},
	Bordered: {
		id: Bordered, name: "Simple Bordered", nameSize: 20, color: black, rules: true,
		page: page(0.5, 0.5, 0.5, 0.5), layout: linearLayout{},
		sections: []section{
			sec("Summary", fieldSummary, text, noColor),
			sec("Experience", fieldExperience, bullets, noColor),
			sec("Education", fieldEducation, bullets, noColor),
			sec("Skills", fieldSkills, bullets, noColor),
			sec("Projects", fieldProjects, joined, noColor),
			sec("Certifications & Achievements", fieldCertificates, joined, noColor),
			sec("Hobbies & Interests", fieldHobbies, text, noColor),
			sec("Personal Details", fieldPersonalDetails, details, noColor),
			sec("Declaration", fieldDeclaration, text, noColor),
		},
	},
	SidePanel: {
		id: SidePanel, name: "Side Panel", nameSize: 22, color: charcoal, header: headerStacked,
		page: page(0.5, 0.5, 0.3, 0.3), layout: sidePanel,
		sections: []section{
			// narrow column
			sec("Skills", fieldSkills, bullets, noColor),
			sec("Hobbies & Interests", fieldHobbies, text, noColor),
			sec("Personal Details", fieldPersonalDetails, details, noColor),
			// wide column
			sec("Profile Summary", fieldSummary, text, noColor),
			sec("Experience", fieldExperience, bullets, noColor),
			sec("Education", fieldEducation, bullets, noColor),
			sec("Projects", fieldProjects, joined, noColor),
			sec("Certifications", fieldCertificates, joined, noColor),
			sec("Declaration", fieldDeclaration, text, noColor),
		},
	},
	Academic: {
		id: Academic, name: "Academic / Research", nameSize: 18, color: slate,
		page: DefaultPage(), layout: linearLayout{},
		sections: []section{
			sec("Research Profile", fieldSummary, text, slate),
			sec("Teaching / Research Experience", fieldExperience, bullets, slate),
			sec("Education", fieldEducation, bullets, slate),
			sec("Publications & Skills", fieldSkills, bullets, slate),
			sec("Projects", fieldProjects, joined, noColor),
			sec("Certifications & Achievements", fieldCertificates, joined, noColor),
			sec("Hobbies & Interests", fieldHobbies, text, noColor),
			sec("Personal Details", fieldPersonalDetails, details, noColor),
			sec("Declaration", fieldDeclaration, text, noColor),
		},
	},
	Executive: {
		id: Executive, name: "Executive", nameSize: 20, color: black,
		page: DefaultPage(), layout: linearLayout{},
		sections: []section{
			sec("Executive Summary", fieldSummary, text, execGrey),
			sec("Professional Experience", fieldExperience, bullets, execGrey),
			sec("Education", fieldEducation, bullets, execGrey),
			sec("Key Skills", fieldSkills, bullets, execGrey),
			sec("Declaration", fieldDeclaration, text, execGrey),
		},
	},
	SimpleATS: {
		id: SimpleATS, name: "Simple ATS-Friendly", header: headerStyled, styledSections: true,
		page: DefaultPage(), layout: linearLayout{},
		sections: []section{
			sec("Summary", fieldSummary, text, noColor),
			sec("Experience", fieldExperience, bullets, noColor),
			sec("Education", fieldEducation, bullets, noColor),
			sec("Skills", fieldSkills, comma, noColor),
			sec("Projects", fieldProjects, bullets, noColor),
			sec("Declaration", fieldDeclaration, text, noColor),
		},
	},
}

// Info describes a template for listings.
type Info struct {
	ID       TemplateID `json:"id"`
	Name     string     `json:"name"`
	Layout   string     `json:"layout"`
	Sections []string   `json:"sections"`
	Accent   *Color     `json:"accent,omitempty"`
}

// Templates lists every template in display order.
func Templates() []Info {
	out := make([]Info, 0, len(templateOrder))
	for _, id := range templateOrder {
		cfg := templates[id]
		info := Info{ID: id, Name: cfg.name, Layout: cfg.layout.name(), Accent: cfg.color}
		for _, s := range cfg.sections {
			info.Sections = append(info.Sections, s.heading)
		}
		out = append(out, info)
	}
	return out
}

// IDs returns every template identifier in display order.
func IDs() []TemplateID {
	return append([]TemplateID(nil), templateOrder...)
}

// ParseTemplateID resolves an identifier or display name, ignoring case.
func ParseTemplateID(s string) (TemplateID, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	for _, id := range templateOrder {
		if key == string(id) || key == strings.ToLower(templates[id].name) {
			return id, nil
		}
	}
	return "", &UnknownTemplateError{ID: s}
}

// Name returns the display name of the template.
func (id TemplateID) Name() string {
	if cfg, ok := templates[id]; ok {
		return cfg.name
	}
	return string(id)
}
