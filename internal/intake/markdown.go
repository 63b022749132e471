package intake

import (
	"strings"

	"github.com/jonathan/resumind/internal/types"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

type field int

const (
	fieldNone field = iota
	fieldSummary
	fieldExperience
	fieldEducation
	fieldSkills
	fieldProjects
	fieldCertificates
	fieldPersonalDetails
	fieldHobbies
	fieldDeclaration
)

// headingRules map a lower-cased section heading to a field. The first rule
// whose keyword occurs in the heading wins.
var headingRules = []struct {
	keyword string
	field   field
}{
	{"summary", fieldSummary},
	{"profile", fieldSummary},
	{"objective", fieldSummary},
	{"about", fieldSummary},
	{"personal", fieldPersonalDetails},
	{"hobbi", fieldHobbies},
	{"interest", fieldHobbies},
	{"certific", fieldCertificates},
	{"achievement", fieldCertificates},
	{"award", fieldCertificates},
	{"education", fieldEducation},
	{"skill", fieldSkills},
	{"project", fieldProjects},
	{"experience", fieldExperience},
	{"employment", fieldExperience},
	{"work", fieldExperience},
	{"declaration", fieldDeclaration},
}

func fieldFor(heading string) field {
	h := strings.ToLower(heading)
	for _, r := range headingRules {
		if strings.Contains(h, r.keyword) {
			return r.field
		}
	}
	return fieldNone
}

// markdownReader accumulates a record while walking top level blocks.
type markdownReader struct {
	src     []byte
	in      *types.DocumentInput
	current field
	seenH2  bool
	// preamble counts paragraphs between the name and the first section.
	preamble int
	// openEntry is set after an H3 inside a list section; following
	// paragraphs extend that entry.
	openEntry bool
	summary   []string
}

// FromMarkdown reads a Markdown resume. The first level-one heading is the
// name. Before the first level-two heading, the first paragraph gives the
// title on its first line and the contact on the rest, and later paragraphs
// form the summary. Each level-two heading opens a section chosen by keyword;
// list items become entries, a level-three heading starts an entry that the
// paragraphs after it extend. Unknown sections are ignored.
func FromMarkdown(src []byte) *types.DocumentInput {
	r := &markdownReader{src: src, in: types.NewDocumentInput()}
	doc := goldmark.New().Parser().Parse(text.NewReader(src))

	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *ast.Heading:
			r.heading(node)
		case *ast.Paragraph:
			r.paragraph(lines(node, src))
		case *ast.List:
			r.list(node)
		}
	}

	if len(r.summary) > 0 {
		r.in.Summary = strings.Join(r.summary, "\n")
	}
	return r.in
}

func (r *markdownReader) heading(h *ast.Heading) {
	title := singleLine(lines(h, r.src))
	switch {
	case h.Level == 1 && r.in.Name == "" && !r.seenH2:
		r.in.Name = title
	case h.Level <= 2:
		r.seenH2 = true
		r.current = fieldFor(title)
		r.openEntry = false
	default:
		if r.isList() && title != "" {
			r.appendEntry(title)
			r.openEntry = true
		}
	}
}

func (r *markdownReader) paragraph(ls []string) {
	if len(ls) == 0 {
		return
	}
	if !r.seenH2 {
		r.preambleParagraph(ls)
		return
	}

	switch r.current {
	case fieldSummary:
		r.summary = append(r.summary, singleLine(ls))
	case fieldHobbies:
		r.in.Hobbies = joinNonEmpty(", ", r.in.Hobbies, singleLine(ls))
	case fieldDeclaration:
		r.in.Declaration = joinNonEmpty(" ", r.in.Declaration, singleLine(ls))
	case fieldPersonalDetails:
		for _, l := range ls {
			r.detail(l)
		}
	default:
		if !r.isList() {
			return
		}
		if r.openEntry {
			r.extendEntry(singleLine(ls))
			return
		}
		if r.current == fieldSkills {
			for _, skill := range splitSkills(singleLine(ls)) {
				r.appendEntry(skill)
			}
			return
		}
		r.appendEntry(singleLine(ls))
	}
}

// splitSkills splits an inline skill list such as "Go, SQL | Python".
func splitSkills(s string) []string {
	var out []string
	for _, part := range strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == '|' || r == '·' || r == ';'
	}) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func (r *markdownReader) preambleParagraph(ls []string) {
	r.preamble++
	if r.preamble == 1 {
		r.in.Title = ls[0]
		r.in.Contact = strings.Join(ls[1:], "\n")
		return
	}
	r.summary = append(r.summary, singleLine(ls))
}

func (r *markdownReader) list(l *ast.List) {
	r.openEntry = false
	for _, item := range listItems(l, r.src) {
		switch r.current {
		case fieldPersonalDetails:
			r.detail(item)
		case fieldHobbies:
			r.in.Hobbies = joinNonEmpty(", ", r.in.Hobbies, item)
		case fieldSummary:
			r.summary = append(r.summary, item)
		case fieldDeclaration:
			r.in.Declaration = joinNonEmpty(" ", r.in.Declaration, item)
		default:
			if r.isList() {
				r.appendEntry(item)
			}
		}
	}
}

func (r *markdownReader) detail(line string) {
	label, value, ok := strings.Cut(line, ":")
	if !ok {
		return
	}
	r.in.PersonalDetails.Set(strings.TrimSpace(label), strings.TrimSpace(value))
}

func (r *markdownReader) isList() bool {
	return r.target() != nil
}

func (r *markdownReader) target() *[]string {
	switch r.current {
	case fieldExperience:
		return &r.in.Experience
	case fieldEducation:
		return &r.in.Education
	case fieldSkills:
		return &r.in.Skills
	case fieldProjects:
		return &r.in.Projects
	case fieldCertificates:
		return &r.in.Certificates
	}
	return nil
}

func (r *markdownReader) appendEntry(s string) {
	if s == "" {
		return
	}
	t := r.target()
	*t = append(*t, s)
}

func (r *markdownReader) extendEntry(s string) {
	t := r.target()
	last := len(*t) - 1
	(*t)[last] += "\n" + s
}

// listItems flattens a list: each item contributes its own text, and nested
// list items follow as separate entries.
func listItems(l *ast.List, src []byte) []string {
	var out []string
	for item := l.FirstChild(); item != nil; item = item.NextSibling() {
		var own []string
		var nested []string
		for c := item.FirstChild(); c != nil; c = c.NextSibling() {
			if sub, ok := c.(*ast.List); ok {
				nested = append(nested, listItems(sub, src)...)
				continue
			}
			if s := singleLine(lines(c, src)); s != "" {
				own = append(own, s)
			}
		}
		if s := strings.Join(own, " "); s != "" {
			out = append(out, s)
		}
		out = append(out, nested...)
	}
	return out
}

// lines returns the inline text of a block split at line breaks.
func lines(n ast.Node, src []byte) []string {
	var sb strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *ast.Text:
			sb.Write(t.Segment.Value(src))
			if t.SoftLineBreak() || t.HardLineBreak() {
				sb.WriteString("\n")
			}
		case *ast.String:
			sb.Write(t.Value)
		case *ast.AutoLink:
			sb.Write(t.Label(src))
			return ast.WalkSkipChildren, nil
		case *ast.RawHTML:
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})

	var out []string
	for _, l := range strings.Split(sb.String(), "\n") {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return out
}

func singleLine(ls []string) string {
	return strings.Join(ls, " ")
}

func joinNonEmpty(sep, a, b string) string {
	switch {
	case a == "":
		return b
	case b == "":
		return a
	}
	return a + sep + b
}
