package models

import (
	"time"

	"github.com/google/uuid"
)

// Invoice is created exactly once per order and never modified afterwards.
type Invoice struct {
	ID          uuid.UUID `json:"id" db:"id"`
	OrderID     uuid.UUID `json:"order_id" db:"order_id"`
	ShopID      uuid.UUID `json:"shop_id" db:"shop_id"`
	InvoiceNo   string    `json:"invoice_no" db:"invoice_no"`
	Prefix      string    `json:"prefix" db:"prefix"`
	Year        int       `json:"year" db:"year"`
	Sequence    int       `json:"sequence" db:"sequence"`
	InvoiceDate time.Time `json:"invoice_date" db:"invoice_date"`
	PDFPath     string    `json:"pdf_path" db:"pdf_path"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}
