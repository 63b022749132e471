package export

import (
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/jonathan/resumind/internal/rendering"
)

// htmlBlock is the template view of one block.
type htmlBlock struct {
	Kind      string
	Tag       string
	Style     template.CSS
	Runs      []htmlRun
	Columns   []htmlColumn
	ListStart bool
	ListEnd   bool
}

type htmlRun struct {
	Lines []string
	Style template.CSS
}

type htmlColumn struct {
	Width  template.CSS
	Blocks []htmlBlock
}

type htmlPage struct {
	Title  string
	Page   template.CSS
	Blocks []htmlBlock
}

var htmlTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
@page { {{.Page}} }
body { font-family: Calibri, Arial, sans-serif; font-size: 11pt; margin: 0; }
p { margin: 0 0 4pt 0; }
ul { margin: 0 0 4pt 0; padding-left: 18pt; }
hr { border: 0; border-top: 1px solid #000; }
table.columns { width: 100%; border-collapse: collapse; }
table.columns td { vertical-align: top; padding: 0 8pt 0 0; }
</style>
</head>
<body>
{{template "blocks" .Blocks}}
</body>
</html>
{{define "blocks"}}{{range .}}{{template "block" .}}{{end}}{{end}}
{{define "runs"}}{{range .Runs}}<span style="{{.Style}}">{{range $i, $l := .Lines}}{{if $i}}<br>{{end}}{{$l}}{{end}}</span>{{end}}{{end}}
{{define "block"}}{{if eq .Kind "rule"}}<hr>
{{else if eq .Kind "columns"}}<table class="columns"><tr>{{range .Columns}}<td style="width: {{.Width}}">
{{template "blocks" .Blocks}}</td>{{end}}</tr></table>
{{else if eq .Kind "bullet"}}{{if .ListStart}}<ul>
{{end}}<li style="{{.Style}}">{{template "runs" .}}</li>
{{if .ListEnd}}</ul>
{{end}}{{else if eq .Tag "h1"}}<h1 style="{{.Style}}">{{template "runs" .}}</h1>
{{else if eq .Tag "h2"}}<h2 style="{{.Style}}">{{template "runs" .}}</h2>
{{else}}<p style="{{.Style}}">{{template "runs" .}}</p>
{{end}}{{end}}`))

func writeHTML(w io.Writer, doc *rendering.Document) error {
	return htmlTemplate.Execute(w, htmlPage{
		Title:  documentTitle(doc),
		Page:   pageCSS(doc.Page),
		Blocks: htmlBlocks(&doc.Flow, doc.Page.ContentWidth()),
	})
}

// documentTitle is the first title paragraph, or "Resume".
func documentTitle(doc *rendering.Document) string {
	for _, p := range paragraphs(&doc.Flow) {
		if roleOf(p) == roleTitle {
			if t := singleLine(p.Text()); t != "" {
				return t
			}
		}
	}
	return "Resume"
}

func pageCSS(p rendering.PageSetup) template.CSS {
	return template.CSS(fmt.Sprintf("size: %gin %gin; margin: %gin %gin %gin %gin",
		p.Width, p.Height, p.MarginTop, p.MarginRight, p.MarginBottom, p.MarginLeft))
}

func htmlBlocks(f *rendering.Flow, width float64) []htmlBlock {
	out := make([]htmlBlock, 0, len(f.Blocks))
	for _, b := range f.Blocks {
		switch v := b.(type) {
		case *rendering.Rule:
			out = append(out, htmlBlock{Kind: "rule"})
		case *rendering.Columns:
			block := htmlBlock{Kind: "columns"}
			for i, cell := range v.Cells {
				var w float64
				if i < len(v.Widths) {
					w = v.Widths[i]
				}
				block.Columns = append(block.Columns, htmlColumn{
					Width:  template.CSS(fmt.Sprintf("%.0f%%", percentOf(w, width))),
					Blocks: htmlBlocks(cell, w),
				})
			}
			out = append(out, block)
		case *rendering.Paragraph:
			out = append(out, htmlParagraph(v))
		}
	}

	// open and close <ul> around runs of bullets
	for i := range out {
		if out[i].Kind != "bullet" {
			continue
		}
		out[i].ListStart = i == 0 || out[i-1].Kind != "bullet"
		out[i].ListEnd = i == len(out)-1 || out[i+1].Kind != "bullet"
	}
	return out
}

func percentOf(part, whole float64) float64 {
	if whole <= 0 {
		return 0
	}
	return part / whole * 100
}

func htmlParagraph(p *rendering.Paragraph) htmlBlock {
	block := htmlBlock{Kind: "paragraph", Tag: "p"}
	switch roleOf(p) {
	case roleTitle:
		block.Tag = "h1"
	case roleSection:
		block.Tag = "h2"
	case roleBullet:
		block.Kind = "bullet"
	}

	var css []string
	css = append(css, "text-align: "+string(p.Align))
	if p.SpaceBefore > 0 {
		css = append(css, fmt.Sprintf("margin-top: %gpt", p.SpaceBefore))
	}
	if p.SpaceAfter > 0 {
		css = append(css, fmt.Sprintf("margin-bottom: %gpt", p.SpaceAfter))
	}
	block.Style = template.CSS(strings.Join(css, "; "))

	for _, r := range p.Runs {
		block.Runs = append(block.Runs, htmlRun{
			Lines: strings.Split(r.Text, "\n"),
			Style: runCSS(r),
		})
	}
	return block
}

func runCSS(r rendering.Run) template.CSS {
	var css []string
	if r.Size > 0 {
		css = append(css, fmt.Sprintf("font-size: %gpt", r.Size))
	}
	if r.Bold {
		css = append(css, "font-weight: bold")
	} else {
		css = append(css, "font-weight: normal")
	}
	if r.Color != nil {
		css = append(css, "color: #"+r.Color.Hex())
	}
	return template.CSS(strings.Join(css, "; "))
}
