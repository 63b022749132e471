package export

import (
	"io"
	"strings"

	"github.com/go-pdf/fpdf"
	"github.com/jonathan/resumind/internal/rendering"
)

const (
	pdfFont = "Helvetica"
	// leading is the line height as a multiple of the font size.
	leading      = 1.25
	pointsPerIn  = 72.0
	bulletIndent = 0.25
	columnGap    = 0.15
)

// pdfWriter draws a document flow with the fpdf core fonts. Units are inches.
type pdfWriter struct {
	pdf       *fpdf.Fpdf
	translate func(string) string
}

func writePDF(w io.Writer, doc *rendering.Document) error {
	page := doc.Page
	if page.Width <= 0 || page.Height <= 0 {
		page = rendering.DefaultPage()
	}

	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "in",
		Size:           fpdf.SizeType{Wd: page.Width, Ht: page.Height},
	})
	pdf.SetMargins(page.MarginLeft, page.MarginTop, page.MarginRight)
	pdf.SetAutoPageBreak(true, page.MarginBottom)
	pdf.SetTitle(documentTitle(doc), true)
	pdf.SetCreator("resumind", true)
	pdf.AddPage()
	pdf.SetFont(pdfFont, "", rendering.BodySize)

	pw := &pdfWriter{pdf: pdf, translate: pdf.UnicodeTranslatorFromDescriptor("")}
	pw.flow(&doc.Flow, page.MarginLeft, page.Width-page.MarginRight)

	if err := pdf.Error(); err != nil {
		return err
	}
	return pdf.Output(w)
}

// flow draws blocks between the left and right x positions.
func (pw *pdfWriter) flow(f *rendering.Flow, left, right float64) {
	for _, b := range f.Blocks {
		switch v := b.(type) {
		case *rendering.Paragraph:
			pw.paragraph(v, left, right)
		case *rendering.Rule:
			y := pw.pdf.GetY() + 0.05
			pw.pdf.SetLineWidth(0.01)
			pw.pdf.Line(left, y, right, y)
			pw.pdf.SetY(y + 0.1)
			pw.pdf.SetX(left)
		case *rendering.Columns:
			pw.columns(v, left, right)
		}
	}
}

// columns draws each cell from the same starting point and continues below
// the tallest one.
func (pw *pdfWriter) columns(c *rendering.Columns, left, right float64) {
	startPage, startY := pw.pdf.PageNo(), pw.pdf.GetY()
	endPage, endY := startPage, startY

	x := left
	for i, cell := range c.Cells {
		width := right - x
		if i < len(c.Widths) && c.Widths[i] > 0 {
			width = c.Widths[i]
		}
		cellRight := x + width
		if cellRight > right {
			cellRight = right
		}

		pw.pdf.SetPage(startPage)
		pw.pdf.SetY(startY)
		pw.flow(cell, x, cellRight-columnGap)

		if p, y := pw.pdf.PageNo(), pw.pdf.GetY(); p > endPage || (p == endPage && y > endY) {
			endPage, endY = p, y
		}
		x = cellRight
	}

	pw.pdf.SetPage(endPage)
	pw.pdf.SetY(endY)
	pw.restoreMargins(left, right)
}

func (pw *pdfWriter) restoreMargins(left, right float64) {
	pageWidth, _ := pw.pdf.GetPageSize()
	pw.pdf.SetLeftMargin(left)
	pw.pdf.SetRightMargin(pageWidth - right)
	pw.pdf.SetX(left)
}

func (pw *pdfWriter) paragraph(p *rendering.Paragraph, left, right float64) {
	if strings.TrimSpace(p.Text()) == "" && p.SpaceBefore == 0 {
		// blank fields still take a line so regions stay visible
		pw.pdf.SetY(pw.pdf.GetY() + lineHeight(rendering.BodySize)/2)
		return
	}
	if p.SpaceBefore > 0 {
		pw.pdf.SetY(pw.pdf.GetY() + p.SpaceBefore/pointsPerIn)
	}

	textLeft := left
	pw.restoreMargins(left, right)
	if p.Style == rendering.StyleBullet {
		pw.setFont(rendering.Run{Size: rendering.BodySize})
		pw.pdf.SetX(left + bulletIndent/3)
		pw.pdf.Write(lineHeight(rendering.BodySize), pw.translate("•"))
		textLeft = left + bulletIndent
		pw.pdf.SetLeftMargin(textLeft)
		pw.pdf.SetX(textLeft)
	}

	height := 0.0
	for _, r := range p.Runs {
		pw.setFont(r)
		lh := lineHeight(r.Size)
		if lh > height {
			height = lh
		}
		if p.Align == rendering.AlignCenter {
			for i, line := range strings.Split(r.Text, "\n") {
				if i > 0 || pw.pdf.GetX() > textLeft {
					pw.pdf.Ln(lh)
				}
				pw.pdf.WriteAligned(right-textLeft, lh, pw.translate(line), "C")
			}
			continue
		}
		pw.pdf.Write(lh, pw.translate(r.Text))
	}
	if height == 0 {
		height = lineHeight(rendering.BodySize)
	}
	pw.pdf.Ln(height)

	if p.SpaceAfter > 0 {
		pw.pdf.SetY(pw.pdf.GetY() + p.SpaceAfter/pointsPerIn)
	}
	pw.pdf.SetTextColor(0, 0, 0)
	pw.restoreMargins(left, right)
}

func (pw *pdfWriter) setFont(r rendering.Run) {
	style := ""
	if r.Bold {
		style = "B"
	}
	size := r.Size
	if size <= 0 {
		size = rendering.BodySize
	}
	pw.pdf.SetFont(pdfFont, style, size)
	if r.Color != nil {
		pw.pdf.SetTextColor(int(r.Color.R), int(r.Color.G), int(r.Color.B))
	} else {
		pw.pdf.SetTextColor(0, 0, 0)
	}
}

func lineHeight(size float64) float64 {
	if size <= 0 {
		size = rendering.BodySize
	}
	return size * leading / pointsPerIn
}
