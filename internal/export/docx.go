package export

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/jonathan/resumind/internal/rendering"
)

const (
	twipsPerInch = 1440
	wordNS       = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	relNS        = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
)

const contentTypesXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
<Default Extension="xml" ContentType="application/xml"/>
<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
<Override PartName="/word/styles.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"/>
<Override PartName="/word/numbering.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.numbering+xml"/>
</Types>`

const packageRelsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
</Relationships>`

const documentRelsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles" Target="styles.xml"/>
<Relationship Id="rId2" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/numbering" Target="numbering.xml"/>
</Relationships>`

const stylesXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:styles xmlns:w="` + wordNS + `">
<w:docDefaults><w:rPrDefault><w:rPr><w:rFonts w:ascii="Calibri" w:hAnsi="Calibri" w:cs="Calibri"/><w:sz w:val="22"/></w:rPr></w:rPrDefault>
<w:pPrDefault><w:pPr><w:spacing w:after="80"/></w:pPr></w:pPrDefault></w:docDefaults>
<w:style w:type="paragraph" w:default="1" w:styleId="Normal"><w:name w:val="Normal"/></w:style>
<w:style w:type="paragraph" w:styleId="Heading1"><w:name w:val="heading 1"/><w:basedOn w:val="Normal"/><w:next w:val="Normal"/><w:pPr><w:keepNext/><w:spacing w:before="240" w:after="120"/><w:outlineLvl w:val="0"/></w:pPr><w:rPr><w:b/><w:color w:val="1F3864"/><w:sz w:val="40"/></w:rPr></w:style>
<w:style w:type="paragraph" w:styleId="Heading2"><w:name w:val="heading 2"/><w:basedOn w:val="Normal"/><w:next w:val="Normal"/><w:pPr><w:keepNext/><w:spacing w:before="240" w:after="120"/><w:outlineLvl w:val="1"/></w:pPr><w:rPr><w:b/><w:color w:val="2F5496"/><w:sz w:val="26"/></w:rPr></w:style>
<w:style w:type="paragraph" w:styleId="ListBullet"><w:name w:val="List Bullet"/><w:basedOn w:val="Normal"/><w:pPr><w:numPr><w:numId w:val="1"/></w:numPr><w:spacing w:after="40"/></w:pPr></w:style>
<w:style w:type="table" w:default="1" w:styleId="TableNormal"><w:name w:val="Normal Table"/><w:tblPr><w:tblCellMar><w:left w:w="108" w:type="dxa"/><w:right w:w="108" w:type="dxa"/></w:tblCellMar></w:tblPr></w:style>
</w:styles>`

const numberingXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:numbering xmlns:w="` + wordNS + `">
<w:abstractNum w:abstractNumId="0"><w:multiLevelType w:val="singleLevel"/>
<w:lvl w:ilvl="0"><w:start w:val="1"/><w:numFmt w:val="bullet"/><w:lvlText w:val="•"/><w:lvlJc w:val="left"/><w:pPr><w:ind w:left="360" w:hanging="360"/></w:pPr></w:lvl>
</w:abstractNum>
<w:num w:numId="1"><w:abstractNumId w:val="0"/></w:num>
</w:numbering>`

// writeDOCX writes a WordprocessingML package. Paragraph styles come from
// styles.xml; run size, weight and color are direct formatting.
func writeDOCX(w io.Writer, doc *rendering.Document) error {
	zw := zip.NewWriter(w)
	parts := []struct {
		name string
		body string
	}{
		{"[Content_Types].xml", contentTypesXML},
		{"_rels/.rels", packageRelsXML},
		{"word/_rels/document.xml.rels", documentRelsXML},
		{"word/styles.xml", stylesXML},
		{"word/numbering.xml", numberingXML},
		{"word/document.xml", documentXML(doc)},
	}
	for _, p := range parts {
		f, err := zw.Create(p.name)
		if err != nil {
			return err
		}
		if _, err := io.WriteString(f, p.body); err != nil {
			return err
		}
	}
	return zw.Close()
}

func documentXML(doc *rendering.Document) string {
	var sb strings.Builder
	sb.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n")
	sb.WriteString(`<w:document xmlns:w="` + wordNS + `" xmlns:r="` + relNS + `"><w:body>`)
	writeFlowXML(&sb, &doc.Flow)

	page := doc.Page
	fmt.Fprintf(&sb, `<w:sectPr><w:pgSz w:w="%d" w:h="%d"/>`, twips(page.Width), twips(page.Height))
	fmt.Fprintf(&sb, `<w:pgMar w:top="%d" w:right="%d" w:bottom="%d" w:left="%d" w:header="720" w:footer="720" w:gutter="0"/></w:sectPr>`,
		twips(page.MarginTop), twips(page.MarginRight), twips(page.MarginBottom), twips(page.MarginLeft))
	sb.WriteString(`</w:body></w:document>`)
	return sb.String()
}

func writeFlowXML(sb *strings.Builder, f *rendering.Flow) {
	for _, b := range f.Blocks {
		switch v := b.(type) {
		case *rendering.Paragraph:
			writeParagraphXML(sb, v)
		case *rendering.Rule:
			sb.WriteString(`<w:p><w:pPr><w:pBdr><w:bottom w:val="single" w:sz="6" w:space="1" w:color="auto"/></w:pBdr></w:pPr></w:p>`)
		case *rendering.Columns:
			writeColumnsXML(sb, v)
		}
	}
}

// writeColumnsXML lays cells out as a borderless single-row table.
func writeColumnsXML(sb *strings.Builder, c *rendering.Columns) {
	total := 0
	for _, w := range c.Widths {
		total += twips(w)
	}
	fmt.Fprintf(sb, `<w:tbl><w:tblPr><w:tblW w:w="%d" w:type="dxa"/><w:tblLayout w:type="fixed"/>`, total)
	sb.WriteString(`<w:tblBorders><w:top w:val="nil"/><w:left w:val="nil"/><w:bottom w:val="nil"/><w:right w:val="nil"/><w:insideH w:val="nil"/><w:insideV w:val="nil"/></w:tblBorders></w:tblPr><w:tblGrid>`)
	for _, w := range c.Widths {
		fmt.Fprintf(sb, `<w:gridCol w:w="%d"/>`, twips(w))
	}
	sb.WriteString(`</w:tblGrid><w:tr>`)
	for i, cell := range c.Cells {
		var w float64
		if i < len(c.Widths) {
			w = c.Widths[i]
		}
		fmt.Fprintf(sb, `<w:tc><w:tcPr><w:tcW w:w="%d" w:type="dxa"/></w:tcPr>`, twips(w))
		// a cell must end with a paragraph
		writeFlowXML(sb, cell)
		sb.WriteString(`<w:p/></w:tc>`)
	}
	sb.WriteString(`</w:tr></w:tbl>`)
}

func writeParagraphXML(sb *strings.Builder, p *rendering.Paragraph) {
	sb.WriteString(`<w:p><w:pPr>`)
	if p.Style != "" && p.Style != rendering.StyleNormal {
		fmt.Fprintf(sb, `<w:pStyle w:val="%s"/>`, p.Style)
	}
	if p.SpaceBefore > 0 || p.SpaceAfter > 0 {
		fmt.Fprintf(sb, `<w:spacing w:before="%d" w:after="%d"/>`, int(p.SpaceBefore*20), int(p.SpaceAfter*20))
	}
	if p.Align == rendering.AlignCenter {
		sb.WriteString(`<w:jc w:val="center"/>`)
	}
	sb.WriteString(`</w:pPr>`)

	for _, r := range p.Runs {
		sb.WriteString(`<w:r>`)
		writeRunPropsXML(sb, r)
		for i, line := range strings.Split(r.Text, "\n") {
			if i > 0 {
				sb.WriteString(`<w:br/>`)
			}
			sb.WriteString(`<w:t xml:space="preserve">`)
			_ = xml.EscapeText(sb, []byte(line))
			sb.WriteString(`</w:t>`)
		}
		sb.WriteString(`</w:r>`)
	}
	sb.WriteString(`</w:p>`)
}

func writeRunPropsXML(sb *strings.Builder, r rendering.Run) {
	if !r.Bold && r.Color == nil && r.Size <= 0 {
		return
	}
	sb.WriteString(`<w:rPr>`)
	if r.Bold {
		sb.WriteString(`<w:b/>`)
	}
	if r.Color != nil {
		fmt.Fprintf(sb, `<w:color w:val="%s"/>`, r.Color.Hex())
	}
	if r.Size > 0 {
		fmt.Fprintf(sb, `<w:sz w:val="%d"/><w:szCs w:val="%d"/>`, int(r.Size*2), int(r.Size*2))
	}
	sb.WriteString(`</w:rPr>`)
}

func twips(inches float64) int {
	return int(math.Round(inches * twipsPerInch))
}
