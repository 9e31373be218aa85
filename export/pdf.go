package export

import (
	"io"

	"github.com/etnz/cashbook"
	"github.com/go-pdf/fpdf"
)

const (
	pageMargin = 10.0
	lineHeight = 7.0
)

func writePDF(w io.Writer, t cashbook.Table) error {
	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, pageMargin)
	// core fonts are cp1252, translate accents and the euro sign.
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 10, tr(t.Title), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pageWidth, _ := pdf.GetPageSize()
	cols := max(len(t.Headers), 1)
	width := (pageWidth - 2*pageMargin) / float64(cols)

	header := func() {
		pdf.SetFont("Helvetica", "B", 9)
		pdf.SetFillColor(230, 230, 230)
		for _, h := range t.Headers {
			pdf.CellFormat(width, lineHeight, tr(h), "1", 0, "L", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Helvetica", "", 9)
	}
	header()
	_, pageHeight := pdf.GetPageSize()
	for _, row := range t.Rows {
		if pdf.GetY()+lineHeight > pageHeight-pageMargin {
			pdf.AddPage()
			header()
		}
		for i := 0; i < cols; i++ {
			var c string
			if i < len(row) {
				c = row[i]
			}
			pdf.CellFormat(width, lineHeight, fit(pdf, tr(c), width), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}
	return pdf.Output(w)
}

// fit shortens s, already translated to cp1252, until it fits in width.
func fit(pdf *fpdf.Fpdf, s string, width float64) string {
	for len(s) > 0 && pdf.GetStringWidth(s) > width-2 {
		s = s[:len(s)-1]
	}
	return s
}
