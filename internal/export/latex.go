package export

import (
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/jonathan/resumind/internal/rendering"
)

var latexReplacer = strings.NewReplacer(
	`\`, `\textbackslash{}`,
	`{`, `\{`,
	`}`, `\}`,
	`$`, `\$`,
	`&`, `\&`,
	`%`, `\%`,
	`#`, `\#`,
	`^`, `\textasciicircum{}`,
	`_`, `\_`,
	`~`, `\textasciitilde{}`,
)

// EscapeLaTeX escapes the LaTeX special characters \ { } $ & % # ^ _ ~.
func EscapeLaTeX(text string) string {
	return latexReplacer.Replace(text)
}

type latexPage struct {
	Geometry string
	Body     string
}

var latexTemplate = template.Must(template.New("resume").Parse(`\documentclass[11pt]{article}
\usepackage[utf8]{inputenc}
\usepackage[T1]{fontenc}
\usepackage[{{.Geometry}}]{geometry}
\usepackage[dvipsnames]{xcolor}
\usepackage{enumitem}
\setlength{\parindent}{0pt}
\setlist[itemize]{noitemsep,topsep=2pt,leftmargin=*}
\pagestyle{empty}
\begin{document}
{{.Body}}\end{document}
`))

func writeLaTeX(w io.Writer, doc *rendering.Document) error {
	p := doc.Page
	var body strings.Builder
	latexFlow(&body, &doc.Flow)
	return latexTemplate.Execute(w, latexPage{
		Geometry: fmt.Sprintf("paperwidth=%gin,paperheight=%gin,top=%gin,bottom=%gin,left=%gin,right=%gin",
			p.Width, p.Height, p.MarginTop, p.MarginBottom, p.MarginLeft, p.MarginRight),
		Body: body.String(),
	})
}

func latexFlow(sb *strings.Builder, f *rendering.Flow) {
	inList := false
	for _, b := range f.Blocks {
		p, isPara := b.(*rendering.Paragraph)
		bullet := isPara && p.Style == rendering.StyleBullet
		if bullet && !inList {
			sb.WriteString("\\begin{itemize}\n")
		}
		if !bullet && inList {
			sb.WriteString("\\end{itemize}\n")
		}
		inList = bullet

		switch v := b.(type) {
		case *rendering.Paragraph:
			latexParagraph(sb, v)
		case *rendering.Rule:
			sb.WriteString("\\noindent\\rule{\\linewidth}{0.4pt}\n\n")
		case *rendering.Columns:
			for i, cell := range v.Cells {
				var w float64
				if i < len(v.Widths) {
					w = v.Widths[i]
				}
				fmt.Fprintf(sb, "\\begin{minipage}[t]{%gin}\n", w)
				latexFlow(sb, cell)
				sb.WriteString("\\end{minipage}")
				if i < len(v.Cells)-1 {
					sb.WriteString("\\hfill")
				}
				sb.WriteString("\n")
			}
			sb.WriteString("\n")
		}
	}
	if inList {
		sb.WriteString("\\end{itemize}\n")
	}
}

func latexParagraph(sb *strings.Builder, p *rendering.Paragraph) {
	var text strings.Builder
	for _, r := range p.Runs {
		text.WriteString(latexRun(r))
	}
	body := text.String()

	if p.Style == rendering.StyleBullet {
		sb.WriteString("\\item " + body + "\n")
		return
	}
	if strings.TrimSpace(body) == "" {
		sb.WriteString("\\mbox{}\n\n")
		return
	}
	if p.SpaceBefore > 0 {
		fmt.Fprintf(sb, "\\vspace{%gpt}\n", p.SpaceBefore)
	}
	if p.Align == rendering.AlignCenter {
		sb.WriteString("\\begin{center}\n" + body + "\n\\end{center}\n")
	} else {
		sb.WriteString(body + "\n\n")
	}
	if p.SpaceAfter > 0 {
		fmt.Fprintf(sb, "\\vspace{%gpt}\n", p.SpaceAfter)
	}
}

func latexRun(r rendering.Run) string {
	lines := strings.Split(r.Text, "\n")
	for i, l := range lines {
		lines[i] = EscapeLaTeX(l)
	}
	s := strings.Join(lines, "\\\\\n")
	if s == "" {
		return ""
	}
	if r.Bold {
		s = "\\textbf{" + s + "}"
	}
	if r.Color != nil {
		s = "\\textcolor[HTML]{" + r.Color.Hex() + "}{" + s + "}"
	}
	if r.Size > 0 && r.Size != rendering.BodySize {
		s = fmt.Sprintf("{\\fontsize{%g}{%g}\\selectfont %s}", r.Size, r.Size*1.2, s)
	}
	return s
}
