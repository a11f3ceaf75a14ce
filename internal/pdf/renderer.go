package pdf

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/pkg/errors"
)

// Document is the fully formatted content of one tax invoice. Amounts are
// pre-formatted strings so the renderer makes no numeric decisions.
type Document struct {
	Shop          ShopBlock
	InvoiceNo     string
	InvoiceDate   time.Time
	Customer      CustomerBlock
	Rows          []Row
	Totals        Totals
	AmountInWords string
}

type ShopBlock struct {
	Name          string
	GSTIN         string
	Address       string
	Cell          string
	State         string
	StateCode     string
	BankName      string
	BankAccountNo string
	BankIFSC      string
}

type CustomerBlock struct {
	Name    string
	Address string
	Cell    string
	GSTIN   string
}

// Row is one line of the goods table.
type Row struct {
	SNo         string
	Description string
	HSNSAC      string
	Quantity    string
	Rate        string
	Amount      string
}

type Totals struct {
	BeforeTax string
	CGST      string
	SGST      string
	IGST      string
	Total     string
}

// Renderer turns a Document into PDF bytes.
type Renderer interface {
	Render(doc Document) ([]byte, error)
}

const (
	pageMargin  = 15.0
	contentW    = 180.0
	minTableRow = 8
	lineH       = 6.0
)

var (
	columnHeaders = []string{"S. No", "Description of Goods", "HSN/SAC", "Qty.", "Rate", "Amount"}
	columnWidths  = []float64{15, 75, 25, 20, 20, 25}
	columnAligns  = []string{"C", "L", "C", "R", "R", "R"}
)

// GofpdfRenderer lays invoices out on an A4 portrait page.
type GofpdfRenderer struct{}

func NewGofpdfRenderer() *GofpdfRenderer {
	return &GofpdfRenderer{}
}

func (r *GofpdfRenderer) Render(doc Document) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, pageMargin)
	pdf.SetTitle("Tax Invoice "+doc.InvoiceNo, true)
	pdf.SetCreator(doc.Shop.Name, true)
	pdf.AddPage()

	tr := pdf.UnicodeTranslatorFromDescriptor("")

	r.header(pdf, tr, doc)
	r.customer(pdf, tr, doc)
	r.table(pdf, tr, doc.Rows)
	r.totals(pdf, doc.Totals)
	r.words(pdf, tr, doc.AmountInWords)
	r.bank(pdf, tr, doc.Shop)
	r.footer(pdf, tr, doc.Shop.Name)

	if err := pdf.Error(); err != nil {
		return nil, errors.Wrap(err, "layout invoice")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, errors.Wrap(err, "write pdf")
	}
	return buf.Bytes(), nil
}

func (r *GofpdfRenderer) header(pdf *gofpdf.Fpdf, tr func(string) string, doc Document) {
	third := contentW / 3

	pdf.SetFont("Arial", "B", 9)
	pdf.CellFormat(third, lineH, tr("GSTIN: "+doc.Shop.GSTIN), "", 0, "L", false, 0, "")
	pdf.SetFont("Arial", "BU", 12)
	pdf.CellFormat(third, lineH, "TAX INVOICE", "", 0, "C", false, 0, "")
	pdf.SetFont("Arial", "B", 9)
	pdf.CellFormat(third, lineH, tr("Cell: "+doc.Shop.Cell), "", 1, "R", false, 0, "")

	pdf.SetFont("Arial", "", 9)
	pdf.CellFormat(contentW, 5, tr(fmt.Sprintf("State: %s   Code: %s", doc.Shop.State, doc.Shop.StateCode)), "", 1, "R", false, 0, "")

	pdf.SetFont("Arial", "B", 20)
	pdf.CellFormat(contentW, 10, tr(doc.Shop.Name), "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 9)
	pdf.MultiCell(contentW, 5, tr(doc.Shop.Address), "", "C", false)
	pdf.Ln(2)

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(contentW/2, 7, tr("No. "+doc.InvoiceNo), "TB", 0, "L", false, 0, "")
	pdf.CellFormat(contentW/2, 7, "Date: "+doc.InvoiceDate.Format("02-01-2006"), "TB", 1, "R", false, 0, "")
	pdf.Ln(2)
}

func (r *GofpdfRenderer) customer(pdf *gofpdf.Fpdf, tr func(string) string, doc Document) {
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(contentW, lineH, "Details of Receive (Billed)", "LTR", 1, "L", false, 0, "")

	fields := [][2]string{
		{"Sri.", doc.Customer.Name},
		{"Address", doc.Customer.Address},
		{"Cell", doc.Customer.Cell},
		{"GSTIN", doc.Customer.GSTIN},
	}
	for i, f := range fields {
		border := "LR"
		if i == len(fields)-1 {
			border = "LRB"
		}
		pdf.SetFont("Arial", "B", 9)
		pdf.CellFormat(25, lineH, f[0]+":", borderLeft(border), 0, "L", false, 0, "")
		pdf.SetFont("Arial", "", 9)
		pdf.CellFormat(contentW-25, lineH, fit(pdf, tr(f[1]), contentW-27), borderRight(border), 1, "L", false, 0, "")
	}
	pdf.Ln(3)
}

func (r *GofpdfRenderer) table(pdf *gofpdf.Fpdf, tr func(string) string, rows []Row) {
	pdf.SetFont("Arial", "B", 9)
	pdf.SetFillColor(240, 240, 240)
	for i, h := range columnHeaders {
		pdf.CellFormat(columnWidths[i], 8, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for _, row := range rows {
		cells := []string{row.SNo, row.Description, row.HSNSAC, row.Quantity, row.Rate, row.Amount}
		for i, v := range cells {
			pdf.CellFormat(columnWidths[i], 7, fit(pdf, tr(v), columnWidths[i]-2), "LR", 0, columnAligns[i], false, 0, "")
		}
		pdf.Ln(-1)
	}
	for i := len(rows); i < minTableRow; i++ {
		for _, w := range columnWidths {
			pdf.CellFormat(w, 7, "", "LR", 0, "C", false, 0, "")
		}
		pdf.Ln(-1)
	}
	pdf.CellFormat(contentW, 0, "", "T", 1, "", false, 0, "")
}

func (r *GofpdfRenderer) totals(pdf *gofpdf.Fpdf, t Totals) {
	labelW := contentW - columnWidths[len(columnWidths)-1]
	valueW := columnWidths[len(columnWidths)-1]

	lines := [][2]string{
		{"Total Amount before Tax", t.BeforeTax},
		{"Add. CGST @ 9%", t.CGST},
		{"Add. SGST @ 9%", t.SGST},
		{"Add. IGST @ 18%", t.IGST},
	}
	pdf.SetFont("Arial", "", 9)
	for _, l := range lines {
		pdf.CellFormat(labelW, lineH, l[0], "1", 0, "R", false, 0, "")
		pdf.CellFormat(valueW, lineH, l[1], "1", 1, "R", false, 0, "")
	}
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(labelW, 7, "Total Amount", "1", 0, "R", false, 0, "")
	pdf.CellFormat(valueW, 7, t.Total, "1", 1, "R", false, 0, "")
	pdf.Ln(2)
}

func (r *GofpdfRenderer) words(pdf *gofpdf.Fpdf, tr func(string) string, words string) {
	pdf.SetFont("Arial", "B", 9)
	pdf.CellFormat(35, lineH, "Amount in words:", "", 0, "L", false, 0, "")
	pdf.SetFont("Arial", "I", 9)
	pdf.MultiCell(contentW-35, lineH, tr(words), "", "L", false)
	pdf.Ln(2)
}

func (r *GofpdfRenderer) bank(pdf *gofpdf.Fpdf, tr func(string) string, shop ShopBlock) {
	pdf.SetFont("Arial", "B", 9)
	pdf.CellFormat(contentW, lineH, "Bank Details", "LTR", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 9)
	pdf.CellFormat(contentW, lineH, tr("Bank: "+shop.BankName), "LR", 1, "L", false, 0, "")
	pdf.CellFormat(contentW/2, lineH, tr("A/c No: "+shop.BankAccountNo), "LB", 0, "L", false, 0, "")
	pdf.CellFormat(contentW/2, lineH, tr("IFSC: "+shop.BankIFSC), "RB", 1, "L", false, 0, "")
	pdf.Ln(4)
}

func (r *GofpdfRenderer) footer(pdf *gofpdf.Fpdf, tr func(string) string, shopName string) {
	half := contentW / 2

	pdf.SetFont("Arial", "B", 9)
	pdf.CellFormat(half, lineH, "Receivers Details", "", 0, "L", false, 0, "")
	pdf.CellFormat(half, lineH, tr("For "+shopName), "", 1, "R", false, 0, "")

	pdf.SetFont("Arial", "", 9)
	for _, label := range []string{"Bank Name:", "Cheque No.:", "Date:"} {
		pdf.CellFormat(half, lineH, label, "", 0, "L", false, 0, "")
		pdf.CellFormat(half, lineH, "", "", 1, "R", false, 0, "")
	}

	pdf.Ln(4)
	pdf.CellFormat(half, lineH, "Receiver's Signature", "", 0, "L", false, 0, "")
	pdf.SetFont("Arial", "B", 9)
	pdf.CellFormat(half, lineH, "Authorised Signatory", "", 1, "R", false, 0, "")
}

// fit trims s so that it renders within w millimetres.
func fit(pdf *gofpdf.Fpdf, s string, w float64) string {
	if pdf.GetStringWidth(s) <= w {
		return s
	}
	for len(s) > 0 && pdf.GetStringWidth(s+"...") > w {
		s = s[:len(s)-1]
	}
	return s + "..."
}

func borderLeft(b string) string {
	if b == "LRB" {
		return "LB"
	}
	return "L"
}

func borderRight(b string) string {
	if b == "LRB" {
		return "RB"
	}
	return "R"
}
