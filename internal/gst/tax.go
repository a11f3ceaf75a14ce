package gst

import (
	"strings"

	"github.com/shopspring/decimal"
)

// GST rates applied to the taxable value of an invoice.
var (
	CGSTRate = decimal.RequireFromString("0.09")
	SGSTRate = decimal.RequireFromString("0.09")
	IGSTRate = decimal.RequireFromString("0.18")
)

// TaxBreakdown holds the rounded tax components of an invoice.
type TaxBreakdown struct {
	Subtotal   decimal.Decimal `json:"subtotal"`
	CGST       decimal.Decimal `json:"cgst"`
	SGST       decimal.Decimal `json:"sgst"`
	IGST       decimal.Decimal `json:"igst"`
	Total      decimal.Decimal `json:"total"`
	InterState bool            `json:"is_inter_state"`
}

// IsIntraState reports whether the customer state code matches the home state code.
// A blank customer code never matches.
func IsIntraState(customerStateCode, homeStateCode string) bool {
	code := strings.TrimSpace(customerStateCode)
	return code != "" && code == strings.TrimSpace(homeStateCode)
}

// ComputeTax splits GST into CGST+SGST for intra-state supplies and IGST otherwise.
// Every component is rounded half-up to two decimals independently.
func ComputeTax(subtotal decimal.Decimal, customerStateCode, homeStateCode string) TaxBreakdown {
	subtotal = subtotal.Round(2)
	tb := TaxBreakdown{
		Subtotal: subtotal,
		CGST:     decimal.Zero,
		SGST:     decimal.Zero,
		IGST:     decimal.Zero,
	}

	if IsIntraState(customerStateCode, homeStateCode) {
		tb.CGST = subtotal.Mul(CGSTRate).Round(2)
		tb.SGST = subtotal.Mul(SGSTRate).Round(2)
	} else {
		tb.IGST = subtotal.Mul(IGSTRate).Round(2)
		tb.InterState = true
	}

	tb.Total = subtotal.Add(tb.CGST).Add(tb.SGST).Add(tb.IGST)
	return tb
}
