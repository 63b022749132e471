package rendering

import (
	"context"
	"fmt"
	"strings"

	"github.com/jonathan/resumind/internal/types"
	"golang.org/x/sync/errgroup"
)

// Render builds the document for a template. A nil record renders as the empty
// record; missing fields leave their region blank.
func Render(id TemplateID, data *types.DocumentInput) (*Document, error) {
	cfg, ok := templates[id]
	if !ok {
		return nil, &UnknownTemplateError{ID: string(id)}
	}
	if data == nil {
		data = types.NewDocumentInput()
	}

	doc := &Document{Template: id, Page: cfg.page}
	if err := cfg.layout.render(doc, cfg, data); err != nil {
		return nil, &RenderError{Template: id, Message: "layout failed", Cause: err}
	}
	return doc, nil
}

// RenderAll renders the record with every template concurrently.
// Documents are returned in display order.
func RenderAll(ctx context.Context, data *types.DocumentInput) ([]*Document, error) {
	ids := IDs()
	docs := make([]*Document, len(ids))

	g, ctx := errgroup.WithContext(ctx)
	for i, id := range ids {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			doc, err := Render(id, data)
			if err != nil {
				return err
			}
			docs[i] = doc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return docs, nil
}

// layout places header and sections onto a document.
type layout interface {
	name() string
	render(doc *Document, cfg *templateConfig, data *types.DocumentInput) error
}

// linearLayout emits every section top to bottom in one flow.
type linearLayout struct{}

func (linearLayout) name() string { return "linear" }

func (linearLayout) render(doc *Document, cfg *templateConfig, data *types.DocumentInput) error {
	if cfg.rules {
		doc.AddRule()
	}
	writeHeader(&doc.Flow, cfg, data)
	for _, s := range cfg.sections {
		writeSection(&doc.Flow, cfg, s, data)
	}
	if cfg.rules {
		doc.AddRule()
	}
	return nil
}

// sidePanelLayout puts the first split sections in a narrow column and the
// rest in a wide column next to it, below a full-width header.
type sidePanelLayout struct {
	narrow float64
	wide   float64
	split  int
}

func (sidePanelLayout) name() string { return "two-column" }

func (l sidePanelLayout) render(doc *Document, cfg *templateConfig, data *types.DocumentInput) error {
	if l.split <= 0 || l.split >= len(cfg.sections) {
		return fmt.Errorf("side panel split %d out of range for %d sections", l.split, len(cfg.sections))
	}
	writeHeader(&doc.Flow, cfg, data)

	cols := doc.AddColumns(l.narrow, l.wide)
	for _, s := range cfg.sections[:l.split] {
		writeSection(cols.Cells[0], cfg, s, data)
	}
	for _, s := range cfg.sections[l.split:] {
		writeSection(cols.Cells[1], cfg, s, data)
	}
	return nil
}

func writeHeader(f *Flow, cfg *templateConfig, data *types.DocumentInput) {
	switch cfg.header {
	case headerStyled:
		f.AddStyledHeading(data.Name, StyleHeading1)
		f.AddParagraph("Title: " + data.Title)
		f.AddParagraph("Contact: " + data.Contact)
	case headerStacked:
		f.AddHeading(data.Name, cfg.nameSize, true, cfg.color)
		p := f.AddParagraph(data.Title)
		p.Align = AlignCenter
		if data.Contact != "" {
			p.Runs = append(p.Runs, Run{Text: "\n" + data.Contact, Size: BodySize})
		}
	default:
		f.AddHeading(data.Name, cfg.nameSize, true, cfg.color)
		f.AddParagraph(data.Title)
		f.AddParagraph(data.Contact)
	}
}

func writeSection(f *Flow, cfg *templateConfig, s section, data *types.DocumentInput) {
	if cfg.styledSections {
		f.AddStyledHeading(s.heading, StyleHeading2)
	} else {
		f.AddSectionHeading(s.heading, s.color)
	}

	switch s.mode {
	case text:
		f.AddParagraph(scalarField(s.fields[0], data))
	case bullets:
		for _, fl := range s.fields {
			f.AddBulletList(listField(fl, data))
		}
	case joined:
		f.AddParagraph(joinItems(listField(s.fields[0], data), "; "))
	case comma:
		f.AddParagraph(joinItems(listField(s.fields[0], data), ", "))
	case details:
		for _, d := range data.Details() {
			f.AddParagraph(d.Label + ": " + d.Value)
		}
	}
}

func scalarField(fl field, data *types.DocumentInput) string {
	switch fl {
	case fieldSummary:
		return data.Summary
	case fieldHobbies:
		return data.Hobbies
	case fieldDeclaration:
		return data.DeclarationText()
	}
	return ""
}

func listField(fl field, data *types.DocumentInput) []string {
	switch fl {
	case fieldExperience:
		return data.Experience
	case fieldEducation:
		return data.Education
	case fieldSkills:
		return data.Skills
	case fieldProjects:
		return data.Projects
	case fieldCertificates:
		return data.Certificates
	}
	return nil
}

func joinItems(items []string, sep string) string {
	kept := make([]string, 0, len(items))
	for _, item := range items {
		if s := strings.TrimSpace(item); s != "" {
			kept = append(kept, s)
		}
	}
	return strings.Join(kept, sep)
}
