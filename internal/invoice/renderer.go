package invoice

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-pdf/fpdf"
)

// Layout in millimetres on A4 portrait.
const (
	pageWidth    = 210.0
	marginX      = 15.0
	contentWidth = pageWidth - 2*marginX
	rowHeight    = 8.0
	cellPadding  = 2.0
	footerY      = 282.0

	firstTableY = 80.0
	nextTableY  = 32.0
)

var columnWidths = []float64{90, 35, 20, 35}

var columnAligns = []string{"L", "R", "C", "R"}

// FileName is the artifact name for an order's invoice.
func FileName(orderID uint) string {
	return fmt.Sprintf("invoice_%d.pdf", orderID)
}

type Renderer interface {
	Render(doc *Document) (string, error)
}

// PDFRenderer writes invoices into a directory. A file is written under a
// temporary name and renamed into place, so the final path never holds a
// partial document.
type PDFRenderer struct {
	dir string
}

func NewPDFRenderer(dir string) *PDFRenderer {
	return &PDFRenderer{dir: dir}
}

func (r *PDFRenderer) Render(doc *Document) (string, error) {
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create invoice directory: %w", err)
	}

	finalPath := filepath.Join(r.dir, FileName(doc.OrderID))

	tmp, err := os.CreateTemp(r.dir, "invoice_*.pdf.tmp")
	if err != nil {
		return "", fmt.Errorf("failed to create temp invoice file: %w", err)
	}
	tmpPath := tmp.Name()
	renamed := false
	defer func() {
		if !renamed {
			_ = os.Remove(tmpPath)
		}
	}()

	pdf := draw(doc)
	if err := pdf.Output(tmp); err != nil {
		_ = tmp.Close()
		return "", fmt.Errorf("failed to write invoice PDF: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to close invoice PDF: %w", err)
	}
	if err := os.Rename(tmpPath, finalPath); err != nil {
		return "", fmt.Errorf("failed to move invoice into place: %w", err)
	}
	renamed = true

	return finalPath, nil
}

func draw(doc *Document) *fpdf.Fpdf {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(marginX, marginX, marginX)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AliasNbPages("")
	pdf.SetTitle(fmt.Sprintf("%s %s %s", doc.Title, DocumentLabel, doc.Number), true)
	pdf.SetCreator(doc.Title, true)
	pdf.SetCreationDate(doc.IssuedAt)
	pdf.SetModificationDate(doc.IssuedAt)

	tr := pdf.UnicodeTranslatorFromDescriptor("")

	for _, page := range doc.Pages {
		pdf.AddPage()

		y := nextTableY
		if page.Number == 1 {
			drawHeader(pdf, tr, doc)
			y = firstTableY
		} else {
			drawContinuation(pdf, tr, doc)
		}

		if page.ShowsTable() {
			y = drawTable(pdf, tr, doc, page.Rows, y)
		}
		if page.Last {
			drawTotals(pdf, tr, doc, y+rowHeight)
		}
		drawPageNumber(pdf, page.Number)
	}
	return pdf
}

func drawHeader(pdf *fpdf.Fpdf, tr func(string) string, doc *Document) {
	pdf.SetFillColor(33, 37, 41)
	pdf.Rect(0, 0, pageWidth, 35, "F")

	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 22)
	pdf.SetXY(marginX, 10)
	pdf.CellFormat(contentWidth/2, 10, tr(doc.Title), "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(contentWidth/2, 10, DocumentLabel, "", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetX(marginX)
	pdf.CellFormat(contentWidth, 6, fmt.Sprintf("Invoice %s", doc.Number), "", 1, "R", false, 0, "")
	pdf.SetX(marginX)
	pdf.CellFormat(contentWidth, 6, fmt.Sprintf("Issued %s", doc.IssueDate()), "", 1, "R", false, 0, "")

	pdf.SetTextColor(0, 0, 0)
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetFillColor(246, 246, 246)
	pdf.Rect(marginX, 44, 90, 26, "DF")

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetXY(marginX+4, 47)
	pdf.CellFormat(80, 5, "BILL TO", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetX(marginX + 4)
	pdf.CellFormat(82, 7, tr(doc.CustomerName), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetX(marginX + 4)
	pdf.CellFormat(82, 6, tr(doc.CustomerEmail), "", 1, "L", false, 0, "")
}

func drawContinuation(pdf *fpdf.Fpdf, tr func(string) string, doc *Document) {
	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginX, 15)
	pdf.CellFormat(contentWidth/2, 8, tr(doc.Title), "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(contentWidth/2, 8, fmt.Sprintf("%s %s (continued)", DocumentLabel, doc.Number), "", 1, "R", false, 0, "")
	pdf.SetDrawColor(200, 200, 200)
	pdf.Line(marginX, 25, pageWidth-marginX, 25)
}

// drawTable draws the column header and rows starting at y and returns the y
// below the last row.
func drawTable(pdf *fpdf.Fpdf, tr func(string) string, doc *Document, rows []Row, y float64) float64 {
	pdf.SetXY(marginX, y)
	pdf.SetFillColor(33, 37, 41)
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 10)
	for i, title := range Columns {
		pdf.CellFormat(columnWidths[i], rowHeight, title, "", 0, columnAligns[i], true, 0, "")
	}
	y += rowHeight

	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetFillColor(246, 246, 246)
	for i, row := range rows {
		cells := []string{
			fitText(pdf, tr(row.Product), columnWidths[0]),
			doc.Money(row.UnitPrice),
			strconv.Itoa(row.Quantity),
			doc.Money(row.LineTotal),
		}
		pdf.SetXY(marginX, y)
		for c, text := range cells {
			pdf.CellFormat(columnWidths[c], rowHeight, text, "B", 0, columnAligns[c], i%2 == 1, 0, "")
		}
		y += rowHeight
	}
	return y
}

// fitText shortens text, already in the font encoding, until it fits width at
// the current font, ending with "..." when cut.
func fitText(pdf *fpdf.Fpdf, text string, width float64) string {
	limit := width - 2*cellPadding
	if pdf.GetStringWidth(text) <= limit {
		return text
	}
	base := strings.TrimSuffix(text, truncateMarker)
	for n := len(base); n > 0; n-- {
		cut := strings.TrimRight(base[:n], " ") + truncateMarker
		if pdf.GetStringWidth(cut) <= limit {
			return cut
		}
	}
	return truncateMarker
}

func drawTotals(pdf *fpdf.Fpdf, tr func(string) string, doc *Document, y float64) {
	labelX := marginX + columnWidths[0]
	labelWidth := columnWidths[1] + columnWidths[2]
	valueWidth := columnWidths[3]

	lines := []struct {
		label string
		value string
		bold  bool
	}{
		{"Subtotal", doc.Money(doc.Totals.Subtotal), false},
		{doc.TaxLabel(), doc.Money(doc.Totals.Tax), false},
		{"Grand Total", doc.Money(doc.Totals.GrandTotal), true},
	}
	for _, line := range lines {
		style := ""
		if line.bold {
			style = "B"
			pdf.SetDrawColor(33, 37, 41)
			pdf.Line(labelX, y, pageWidth-marginX, y)
		}
		pdf.SetFont("Helvetica", style, 11)
		pdf.SetXY(labelX, y)
		pdf.CellFormat(labelWidth, rowHeight, line.label, "", 0, "L", false, 0, "")
		pdf.CellFormat(valueWidth, rowHeight, line.value, "", 0, "R", false, 0, "")
		y += rowHeight
	}

	y += rowHeight
	pdf.SetTextColor(90, 90, 90)
	pdf.SetFont("Helvetica", "I", 11)
	pdf.SetXY(marginX, y)
	pdf.CellFormat(contentWidth, rowHeight, ThankYouLine, "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetX(marginX)
	pdf.CellFormat(contentWidth, rowHeight, tr(doc.SupportLine), "", 1, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
}

func drawPageNumber(pdf *fpdf.Fpdf, number int) {
	pdf.SetTextColor(120, 120, 120)
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetXY(marginX, footerY)
	pdf.CellFormat(contentWidth, 6, fmt.Sprintf("Page %d of {nb}", number), "", 0, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
}
