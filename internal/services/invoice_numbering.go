package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"gstinvoice/internal/models"
	"gstinvoice/internal/repositories"

	"github.com/pkg/errors"
)

// InvoiceNumber is a parsed "{prefix}-{year}-{sequence}" identifier.
type InvoiceNumber struct {
	Prefix   string
	Year     int
	Sequence int
}

// String zero-pads the sequence to four digits; larger sequences widen.
func (n InvoiceNumber) String() string {
	return fmt.Sprintf("%s-%d-%04d", n.Prefix, n.Year, n.Sequence)
}

// ParseInvoiceNumber splits an invoice number from the right so prefixes may
// contain dashes. A malformed sequence part parses as 0.
func ParseInvoiceNumber(s string) (InvoiceNumber, error) {
	last := strings.LastIndex(s, "-")
	if last <= 0 {
		return InvoiceNumber{}, errors.Errorf("malformed invoice number %q", s)
	}
	mid := strings.LastIndex(s[:last], "-")
	if mid <= 0 {
		return InvoiceNumber{}, errors.Errorf("malformed invoice number %q", s)
	}

	year, err := strconv.Atoi(s[mid+1 : last])
	if err != nil {
		return InvoiceNumber{}, errors.Errorf("malformed invoice year in %q", s)
	}
	seq, err := strconv.Atoi(s[last+1:])
	if err != nil || seq < 0 {
		seq = 0
	}
	return InvoiceNumber{Prefix: s[:mid], Year: year, Sequence: seq}, nil
}

// AllocateInvoiceNumber reserves the next number for prefix in the year of at.
// It must run inside the transaction that inserts the invoice so that a
// rollback releases the number.
func AllocateInvoiceNumber(ctx context.Context, invoices repositories.InvoiceRepository, prefix string, at time.Time) (InvoiceNumber, error) {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = models.DefaultInvoicePrefix
	}

	seq, err := invoices.NextSequence(ctx, prefix, at.Year())
	if err != nil {
		return InvoiceNumber{}, err
	}
	return InvoiceNumber{Prefix: prefix, Year: at.Year(), Sequence: seq}, nil
}

// PDFObjectName is the storage key for an invoice PDF, grouped by year and month.
func PDFObjectName(invoiceNo string, at time.Time) string {
	return fmt.Sprintf("invoices/%04d/%02d/invoice_%s.pdf", at.Year(), int(at.Month()), strings.ReplaceAll(invoiceNo, "-", "_"))
}

// DownloadFilename is the attachment name offered to clients.
func DownloadFilename(invoiceNo string) string {
	return fmt.Sprintf("invoice_%s.pdf", invoiceNo)
}
