package report

import (
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/go-pdf/fpdf"
)

// PDFRenderer lays the Table out on A4 portrait pages using the core
// Helvetica font. Text goes through the cp1252 translator so Spanish
// accents print correctly.
type PDFRenderer struct{}

func (PDFRenderer) ContentType() string { return "application/pdf" }
func (PDFRenderer) Extension() string   { return FormatPDF }

const (
	pdfMargin     = 15.0
	pdfRowHeight  = 7.0
	pdfLineHeight = 5.0
	maxColWeight  = 40
	minColWeight  = 4
)

func (PDFRenderer) Render(w io.Writer, t Table) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(true, pdfMargin)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, tr(t.Title), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "", 10)
	for _, m := range t.Meta {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(45, pdfLineHeight+1, tr(m.Label+":"), "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(0, pdfLineHeight+1, tr(m.Value), "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	pageW, _ := pdf.GetPageSize()
	widths := columnWidths(t, pageW-2*pdfMargin)

	drawHeader := func() {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.SetFillColor(30, 136, 229)
		pdf.SetTextColor(255, 255, 255)
		for i, h := range t.Header {
			pdf.CellFormat(widths[i], pdfRowHeight, tr(h), "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetTextColor(0, 0, 0)
		pdf.SetFont("Helvetica", "", 9)
	}
	drawHeader()

	_, pageH := pdf.GetPageSize()
	for n, row := range t.Rows {
		if pdf.GetY()+pdfRowHeight > pageH-pdfMargin {
			pdf.AddPage()
			drawHeader()
		}
		fill := n%2 == 1
		pdf.SetFillColor(235, 243, 252)
		for i := range t.Header {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			align := "C"
			if i == 0 || (len(t.Header) > 2 && i == 1 && len(cell) > 8) {
				align = "L"
			}
			pdf.CellFormat(widths[i], pdfRowHeight, tr(cell), "1", 0, align, fill, 0, "")
		}
		pdf.Ln(-1)
	}

	if len(t.Summary) > 0 {
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(0, pdfRowHeight, tr("Resumen"), "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		for _, line := range t.Summary {
			pdf.MultiCell(0, pdfLineHeight, tr(line), "", "L", false)
		}
	}
	if len(t.Notes) > 0 {
		pdf.Ln(3)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.SetTextColor(90, 90, 90)
		for _, line := range t.Notes {
			pdf.MultiCell(0, pdfLineHeight-1, tr(line), "", "L", false)
		}
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

// columnWidths splits the usable width in proportion to the longest text of
// each column, clamped so one long label cannot starve the others.
func columnWidths(t Table, usable float64) []float64 {
	weights := make([]int, len(t.Header))
	for i, h := range t.Header {
		weights[i] = utf8.RuneCountInString(h)
	}
	for _, row := range t.Rows {
		for i := 0; i < len(row) && i < len(weights); i++ {
			weights[i] = max(weights[i], utf8.RuneCountInString(row[i]))
		}
	}
	total := 0
	for i := range weights {
		weights[i] = min(max(weights[i], minColWeight), maxColWeight)
		total += weights[i]
	}
	widths := make([]float64, len(weights))
	for i, w := range weights {
		widths[i] = usable * float64(w) / float64(total)
	}
	return widths
}
