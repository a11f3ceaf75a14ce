package services

import (
	"strconv"
	"time"

	"gstinvoice/internal/gst"
	"gstinvoice/internal/models"
	"gstinvoice/internal/pdf"

	"github.com/shopspring/decimal"
)

// BuildInvoiceDocument assembles the printable invoice from persisted records.
func BuildInvoiceDocument(shop *models.Shop, order *models.Order, items []*models.OrderItem, invoiceNo string, date time.Time) pdf.Document {
	doc := pdf.Document{
		Shop: pdf.ShopBlock{
			Name:          shop.Name,
			GSTIN:         shop.GSTIN,
			Address:       shop.Address,
			Cell:          shop.Cell,
			State:         shop.State,
			StateCode:     shop.StateCode,
			BankName:      shop.BankName,
			BankAccountNo: shop.BankAccountNo,
			BankIFSC:      shop.BankIFSC,
		},
		InvoiceNo:   invoiceNo,
		InvoiceDate: date,
		Totals: pdf.Totals{
			BeforeTax: money(order.Subtotal),
			CGST:      money(order.CGST),
			SGST:      money(order.SGST),
			IGST:      money(order.IGST),
			Total:     money(order.Total),
		},
		AmountInWords: gst.AmountToWords(order.Total),
	}

	if c := order.Customer; c != nil {
		doc.Customer = pdf.CustomerBlock{
			Name:    c.Name,
			Address: c.Address,
			Cell:    c.Phone,
			GSTIN:   c.GSTIN,
		}
	}

	for _, it := range items {
		doc.Rows = append(doc.Rows, pdf.Row{
			SNo:         strconv.Itoa(it.SNo),
			Description: it.Description,
			HSNSAC:      it.HSNSAC,
			Quantity:    it.Quantity.String(),
			Rate:        money(it.Rate),
			Amount:      money(it.Amount),
		})
	}
	return doc
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}
