package export

import (
	"bufio"
	"encoding/json"
	"io"
	"strings"

	"github.com/jonathan/resumind/internal/rendering"
)

type role int

const (
	roleBody role = iota
	roleTitle
	roleSection
	roleBullet
)

// roleOf classifies a paragraph for sinks without direct formatting.
func roleOf(p *rendering.Paragraph) role {
	switch {
	case p.Section:
		return roleSection
	case p.Style == rendering.StyleHeading1:
		return roleTitle
	case p.Style == rendering.StyleBullet:
		return roleBullet
	case p.Align == rendering.AlignCenter && len(p.Runs) > 0 &&
		p.Runs[0].Bold && p.Runs[0].Size > rendering.SectionHeadingSize:
		return roleTitle
	}
	return roleBody
}

// paragraphs flattens the document in reading order. Column cells are read
// left to right.
func paragraphs(f *rendering.Flow) []*rendering.Paragraph {
	var out []*rendering.Paragraph
	for _, b := range f.Blocks {
		switch v := b.(type) {
		case *rendering.Paragraph:
			out = append(out, v)
		case *rendering.Columns:
			for _, cell := range v.Cells {
				out = append(out, paragraphs(cell)...)
			}
		}
	}
	return out
}

func writeText(w io.Writer, doc *rendering.Document) error {
	bw := bufio.NewWriter(w)
	for _, p := range paragraphs(&doc.Flow) {
		text := p.Text()
		switch roleOf(p) {
		case roleSection:
			bw.WriteString("\n" + text + "\n")
		case roleBullet:
			bw.WriteString("- " + text + "\n")
		default:
			bw.WriteString(text + "\n")
		}
	}
	return bw.Flush()
}

func writeMarkdown(w io.Writer, doc *rendering.Document) error {
	bw := bufio.NewWriter(w)
	prev := roleBody
	for i, p := range paragraphs(&doc.Flow) {
		text := p.Text()
		r := roleOf(p)
		if i > 0 && !(r == roleBullet && prev == roleBullet) {
			bw.WriteString("\n")
		}
		switch r {
		case roleTitle:
			bw.WriteString("# " + singleLine(text) + "\n")
		case roleSection:
			bw.WriteString("## " + singleLine(text) + "\n")
		case roleBullet:
			bw.WriteString("- " + strings.ReplaceAll(markdownEscape(text), "\n", "\n  ") + "\n")
		default:
			if strings.TrimSpace(text) != "" {
				// trailing double space keeps line breaks inside the paragraph
				bw.WriteString(strings.ReplaceAll(markdownEscape(text), "\n", "  \n") + "\n")
			}
		}
		prev = r
	}
	return bw.Flush()
}

var markdownReplacer = strings.NewReplacer(
	`\`, `\\`, "*", `\*`, "_", `\_`, "`", "\\`", "[", `\[`, "]", `\]`,
)

func markdownEscape(s string) string {
	return markdownReplacer.Replace(s)
}

func singleLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func writeJSON(w io.Writer, doc *rendering.Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
