package rendering

import (
	"encoding/json"
	"strings"
)

// Color is an RGB text color.
type Color struct {
	R, G, B uint8
}

// Hex returns the color as RRGGBB.
func (c Color) Hex() string {
	const digits = "0123456789ABCDEF"
	b := []byte{
		digits[c.R>>4], digits[c.R&0x0F],
		digits[c.G>>4], digits[c.G&0x0F],
		digits[c.B>>4], digits[c.B&0x0F],
	}
	return string(b)
}

// Alignment is the horizontal alignment of a paragraph.
type Alignment string

const (
	AlignLeft   Alignment = "left"
	AlignCenter Alignment = "center"
)

// Paragraph styles understood by every sink.
const (
	StyleNormal   = "Normal"
	StyleBullet   = "ListBullet"
	StyleHeading1 = "Heading1"
	StyleHeading2 = "Heading2"
)

// Default sizes in points.
const (
	BodySize           = 11.0
	SectionHeadingSize = 12.0
)

// Run is a span of text sharing one format. Text may contain line breaks.
type Run struct {
	Text  string  `json:"text"`
	Size  float64 `json:"size,omitempty"`
	Bold  bool    `json:"bold,omitempty"`
	Color *Color  `json:"color,omitempty"`
}

// Block is one element of a document flow: *Paragraph, *Rule or *Columns.
type Block interface {
	blockType() string
}

// Paragraph is a styled sequence of runs.
type Paragraph struct {
	Style       string    `json:"style"`
	Align       Alignment `json:"align"`
	Runs        []Run     `json:"runs"`
	SpaceBefore float64   `json:"space_before,omitempty"`
	SpaceAfter  float64   `json:"space_after,omitempty"`
	// Section marks the paragraph as a section heading.
	Section bool `json:"section,omitempty"`
}

// Text returns the concatenated run text.
func (p *Paragraph) Text() string {
	var sb strings.Builder
	for _, r := range p.Runs {
		sb.WriteString(r.Text)
	}
	return sb.String()
}

// Rule is a full-width horizontal line.
type Rule struct{}

// Columns lays out flows side by side. Widths are in inches.
type Columns struct {
	Widths []float64 `json:"widths"`
	Cells  []*Flow   `json:"cells"`
}

func (*Paragraph) blockType() string { return "paragraph" }
func (*Rule) blockType() string      { return "rule" }
func (*Columns) blockType() string   { return "columns" }

// PageSetup holds page size and margins in inches.
type PageSetup struct {
	Width        float64 `json:"width"`
	Height       float64 `json:"height"`
	MarginTop    float64 `json:"margin_top"`
	MarginBottom float64 `json:"margin_bottom"`
	MarginLeft   float64 `json:"margin_left"`
	MarginRight  float64 `json:"margin_right"`
}

// DefaultPage is US Letter with one inch margins.
func DefaultPage() PageSetup {
	return PageSetup{Width: 8.5, Height: 11, MarginTop: 1, MarginBottom: 1, MarginLeft: 1, MarginRight: 1}
}

// ContentWidth returns the printable width in inches.
func (p PageSetup) ContentWidth() float64 {
	return p.Width - p.MarginLeft - p.MarginRight
}

// Document is an in-memory resume ready to be written by a sink.
type Document struct {
	Template TemplateID `json:"template"`
	Page     PageSetup  `json:"page"`
	Flow
}

// Flow is an ordered list of blocks with the shared layout primitives.
type Flow struct {
	Blocks []Block `json:"blocks"`
}

// AddParagraph appends a plain body paragraph.
func (f *Flow) AddParagraph(text string) *Paragraph {
	p := &Paragraph{Style: StyleNormal, Align: AlignLeft, Runs: []Run{{Text: text, Size: BodySize}}}
	f.Blocks = append(f.Blocks, p)
	return p
}

// AddHeading appends a centered heading, used for the candidate name.
func (f *Flow) AddHeading(text string, size float64, bold bool, color *Color) *Paragraph {
	p := &Paragraph{
		Style: StyleNormal,
		Align: AlignCenter,
		Runs:  []Run{{Text: text, Size: size, Bold: bold, Color: color}},
	}
	f.Blocks = append(f.Blocks, p)
	return p
}

// AddSectionHeading appends an upper-cased, bold, left aligned section title.
func (f *Flow) AddSectionHeading(text string, color *Color) *Paragraph {
	p := &Paragraph{
		Style:       StyleNormal,
		Align:       AlignLeft,
		Runs:        []Run{{Text: strings.ToUpper(text), Size: SectionHeadingSize, Bold: true, Color: color}},
		SpaceBefore: 12,
		SpaceAfter:  6,
		Section:     true,
	}
	f.Blocks = append(f.Blocks, p)
	return p
}

// AddBulletList appends one bullet paragraph per item. Blank items are skipped.
func (f *Flow) AddBulletList(items []string) {
	for _, item := range items {
		if strings.TrimSpace(item) == "" {
			continue
		}
		f.Blocks = append(f.Blocks, &Paragraph{
			Style: StyleBullet,
			Align: AlignLeft,
			Runs:  []Run{{Text: item, Size: BodySize}},
		})
	}
}

// AddStyledHeading appends a heading that relies on a named paragraph style
// rather than direct formatting.
func (f *Flow) AddStyledHeading(text, style string) *Paragraph {
	size := SectionHeadingSize + 1
	if style == StyleHeading1 {
		size = 20
	}
	p := &Paragraph{
		Style:   style,
		Align:   AlignLeft,
		Runs:    []Run{{Text: text, Size: size, Bold: true}},
		Section: style == StyleHeading2,
	}
	if p.Section {
		p.SpaceBefore = 12
		p.SpaceAfter = 6
	}
	f.Blocks = append(f.Blocks, p)
	return p
}

// AddRule appends a horizontal rule.
func (f *Flow) AddRule() {
	f.Blocks = append(f.Blocks, &Rule{})
}

// AddColumns appends a side-by-side block with one empty flow per width.
func (f *Flow) AddColumns(widths ...float64) *Columns {
	c := &Columns{Widths: widths, Cells: make([]*Flow, len(widths))}
	for i := range c.Cells {
		c.Cells[i] = &Flow{}
	}
	f.Blocks = append(f.Blocks, c)
	return c
}

// Text returns the plain text of the flow in reading order, one paragraph
// per line. Column cells are read left to right.
func (f *Flow) Text() string {
	var lines []string
	f.walk(func(p *Paragraph) {
		lines = append(lines, p.Text())
	})
	return strings.Join(lines, "\n")
}

// Sections returns the section heading texts in reading order.
func (f *Flow) Sections() []string {
	var out []string
	f.walk(func(p *Paragraph) {
		if p.Section {
			out = append(out, p.Text())
		}
	})
	return out
}

func (f *Flow) walk(fn func(*Paragraph)) {
	for _, b := range f.Blocks {
		switch v := b.(type) {
		case *Paragraph:
			fn(v)
		case *Columns:
			for _, cell := range v.Cells {
				cell.walk(fn)
			}
		}
	}
}

// MarshalJSON tags every block with its type.
func (f Flow) MarshalJSON() ([]byte, error) {
	out := make([]json.RawMessage, 0, len(f.Blocks))
	for _, b := range f.Blocks {
		body, err := json.Marshal(b)
		if err != nil {
			return nil, err
		}
		// splice the type tag into the block object
		tag := `{"type":"` + b.blockType() + `"`
		if len(body) > 2 {
			tag += ","
		}
		out = append(out, json.RawMessage(tag+string(body[1:])))
	}
	return json.Marshal(struct {
		Blocks []json.RawMessage `json:"blocks"`
	}{Blocks: out})
}

// MarshalJSON keeps template and page alongside the tagged blocks.
func (d Document) MarshalJSON() ([]byte, error) {
	flow, err := d.Flow.MarshalJSON()
	if err != nil {
		return nil, err
	}
	return json.Marshal(struct {
		Template TemplateID      `json:"template"`
		Page     PageSetup       `json:"page"`
		Flow     json.RawMessage `json:"flow"`
	}{d.Template, d.Page, flow})
}
