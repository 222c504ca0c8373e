package invoice

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"

	"github.com/JonasWeidner/CoachDesk/internal/pkg/env"
)

const (
	pageLeftMargin  = 15.0
	pageTopMargin   = 15.0
	tableWidth      = 180.0
	rowHeight       = 8.0
	pageBreakLimit  = 255.0 // start a new page before drawing past this Y
	colDescription  = 95.0
	colQuantity     = 20.0
	colUnitPrice    = 32.5
	colLineTotal    = 32.5
	dateLayout      = "Jan 2, 2006" // fixed en-US, independent of host locale
	defaultCompany  = "CoachDesk"
	defaultFooter   = "Thank you for your business."
	logoWidth       = 28.0
)

// PDFRenderer renders invoices as fixed-layout A4 PDF documents.
type PDFRenderer struct {
	CompanyName    string
	CompanyAddress []string
	CompanyEmail   string
	LogoPath       string
	FooterNote     string
}

// NewPDFRenderer creates a renderer with explicit company details.
func NewPDFRenderer(companyName string, address []string, email, logoPath string) *PDFRenderer {
	if strings.TrimSpace(companyName) == "" {
		companyName = defaultCompany
	}
	return &PDFRenderer{
		CompanyName:    companyName,
		CompanyAddress: address,
		CompanyEmail:   email,
		LogoPath:       logoPath,
		FooterNote:     defaultFooter,
	}
}

// NewPDFRendererFromEnv creates a renderer from COMPANY_* configuration.
func NewPDFRendererFromEnv() *PDFRenderer {
	var address []string
	for _, line := range strings.Split(env.GetEnv("COMPANY_ADDRESS", ""), "|") {
		if line = strings.TrimSpace(line); line != "" {
			address = append(address, line)
		}
	}
	return NewPDFRenderer(
		env.GetEnv("COMPANY_NAME", defaultCompany),
		address,
		env.GetEnv("COMPANY_EMAIL", ""),
		env.GetEnv("COMPANY_LOGO_PATH", ""),
	)
}

// Render builds the invoice document. It never panics outward; any failure
// comes back as a structured result so the caller can degrade to an
// attachment-less email.
func (r *PDFRenderer) Render(inv Invoice) (result RenderResult) {
	defer func() {
		if rec := recover(); rec != nil {
			result = RenderResult{Success: false, Error: fmt.Sprintf("invoice render panic: %v", rec)}
		}
	}()

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Invoice "+inv.InvoiceNumber, false)
	pdf.SetMargins(pageLeftMargin, pageTopMargin, pageLeftMargin)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AliasNbPages("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.SetTextColor(130, 130, 130)
		pdf.CellFormat(tableWidth, 6, fmt.Sprintf("%s  -  Page %d of {nb}", r.FooterNote, pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	r.drawHeader(pdf, inv)
	r.drawBillTo(pdf, inv)
	r.drawItemTable(pdf, inv)
	r.drawTotals(pdf, inv)
	r.drawNotes(pdf, inv)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return RenderResult{Success: false, Error: fmt.Sprintf("invoice pdf output: %v", err)}
	}
	return RenderResult{PDF: buf.Bytes(), Success: true}
}

func (r *PDFRenderer) drawHeader(pdf *fpdf.Fpdf, inv Invoice) {
	// Missing logo assets must not abort rendering.
	if r.LogoPath != "" {
		if _, err := os.Stat(r.LogoPath); err == nil {
			pdf.ImageOptions(r.LogoPath, pageLeftMargin+tableWidth-logoWidth, pageTopMargin, logoWidth, 0, false, fpdf.ImageOptions{ReadDpi: true}, 0, "")
		}
	}

	pdf.SetFont("Helvetica", "B", 20)
	pdf.SetTextColor(40, 40, 40)
	pdf.CellFormat(tableWidth, 10, r.CompanyName, "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(100, 100, 100)
	for _, line := range r.CompanyAddress {
		pdf.CellFormat(tableWidth, 4.5, line, "", 1, "L", false, 0, "")
	}
	if r.CompanyEmail != "" {
		pdf.CellFormat(tableWidth, 4.5, r.CompanyEmail, "", 1, "L", false, 0, "")
	}
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetTextColor(40, 40, 40)
	pdf.CellFormat(tableWidth/2, 8, "INVOICE "+inv.InvoiceNumber, "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(100, 100, 100)
	pdf.CellFormat(tableWidth/2, 8, "Date: "+inv.IssuedAt.Format(dateLayout), "", 1, "R", false, 0, "")
	pdf.CellFormat(tableWidth/2, 5, "", "", 0, "L", false, 0, "")
	pdf.CellFormat(tableWidth/2, 5, "Due: "+inv.DueDate.Format(dateLayout), "", 1, "R", false, 0, "")
	pdf.Ln(4)
}

func (r *PDFRenderer) drawBillTo(pdf *fpdf.Fpdf, inv Invoice) {
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetTextColor(40, 40, 40)
	pdf.CellFormat(tableWidth, 6, "Bill To", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(60, 60, 60)
	pdf.CellFormat(tableWidth, 5, inv.ClientName, "", 1, "L", false, 0, "")
	pdf.CellFormat(tableWidth, 5, inv.ClientEmail, "", 1, "L", false, 0, "")
	pdf.Ln(6)
}

func (r *PDFRenderer) drawTableHeader(pdf *fpdf.Fpdf) {
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(45, 62, 80)
	pdf.SetTextColor(255, 255, 255)
	pdf.CellFormat(colDescription, rowHeight, "  Description", "", 0, "L", true, 0, "")
	pdf.CellFormat(colQuantity, rowHeight, "Qty", "", 0, "C", true, 0, "")
	pdf.CellFormat(colUnitPrice, rowHeight, "Unit Price", "", 0, "R", true, 0, "")
	pdf.CellFormat(colLineTotal, rowHeight, "Total  ", "", 1, "R", true, 0, "")
}

func (r *PDFRenderer) drawItemTable(pdf *fpdf.Fpdf, inv Invoice) {
	r.drawTableHeader(pdf)

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(60, 60, 60)
	for i, item := range inv.Items {
		if pdf.GetY()+rowHeight > pageBreakLimit {
			pdf.AddPage()
			r.drawTableHeader(pdf)
			pdf.SetFont("Helvetica", "", 9)
			pdf.SetTextColor(60, 60, 60)
		}
		fill := i%2 == 1
		pdf.SetFillColor(243, 245, 247)
		pdf.CellFormat(colDescription, rowHeight, "  "+item.Description, "", 0, "L", fill, 0, "")
		pdf.CellFormat(colQuantity, rowHeight, fmt.Sprintf("%d", item.Quantity), "", 0, "C", fill, 0, "")
		pdf.CellFormat(colUnitPrice, rowHeight, formatMoney(item.UnitPrice), "", 0, "R", fill, 0, "")
		pdf.CellFormat(colLineTotal, rowHeight, formatMoney(item.Total)+"  ", "", 1, "R", fill, 0, "")
	}
	pdf.Ln(4)
}

func (r *PDFRenderer) drawTotals(pdf *fpdf.Fpdf, inv Invoice) {
	if pdf.GetY()+3*rowHeight > pageBreakLimit {
		pdf.AddPage()
	}
	labelW := colDescription + colQuantity

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(60, 60, 60)
	pdf.CellFormat(labelW, 6, "", "", 0, "L", false, 0, "")
	pdf.CellFormat(colUnitPrice, 6, "Subtotal", "", 0, "R", false, 0, "")
	pdf.CellFormat(colLineTotal, 6, formatMoney(inv.Subtotal)+"  ", "", 1, "R", false, 0, "")

	pdf.CellFormat(labelW, 6, "", "", 0, "L", false, 0, "")
	pdf.CellFormat(colUnitPrice, 6, "Tax", "", 0, "R", false, 0, "")
	pdf.CellFormat(colLineTotal, 6, formatMoney(inv.TaxAmount)+"  ", "", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetTextColor(40, 40, 40)
	pdf.CellFormat(labelW, 8, "", "", 0, "L", false, 0, "")
	pdf.CellFormat(colUnitPrice, 8, "Total", "", 0, "R", false, 0, "")
	pdf.CellFormat(colLineTotal, 8, formatMoney(inv.Total)+"  ", "", 1, "R", false, 0, "")
}

func (r *PDFRenderer) drawNotes(pdf *fpdf.Fpdf, inv Invoice) {
	if strings.TrimSpace(inv.Notes) == "" {
		return
	}
	if pdf.GetY()+20 > pageBreakLimit {
		pdf.AddPage()
	}
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetTextColor(40, 40, 40)
	pdf.CellFormat(tableWidth, 5, "Notes", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(100, 100, 100)
	pdf.MultiCell(tableWidth, 4.5, inv.Notes, "", "L", false)
}

// formatMoney renders an amount as en-US USD, e.g. $1,234.50. Fixed format
// on purpose so documents do not change with the host locale.
func formatMoney(d decimal.Decimal) string {
	s := d.StringFixed(2)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	intPart, fracPart, _ := strings.Cut(s, ".")

	var b strings.Builder
	for i := 0; i < len(intPart); i++ {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteByte(intPart[i])
	}

	out := "$" + b.String() + "." + fracPart
	if neg {
		out = "-" + out
	}
	return out
}
