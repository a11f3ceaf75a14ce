package models

import (
	"time"

	"github.com/google/uuid"
)

const DefaultInvoicePrefix = "SP"

// Shop is the invoicing business's own profile printed on every invoice.
type Shop struct {
	ID            uuid.UUID `json:"id" db:"id" toml:"-"`
	Name          string    `json:"name" db:"name" toml:"name"`
	GSTIN         string    `json:"gstin" db:"gstin" toml:"gstin"`
	Address       string    `json:"address" db:"address" toml:"address"`
	Cell          string    `json:"cell" db:"cell" toml:"cell"`
	State         string    `json:"state" db:"state" toml:"state"`
	StateCode     string    `json:"state_code" db:"state_code" toml:"state_code"`
	InvoicePrefix string    `json:"invoice_prefix" db:"invoice_prefix" toml:"invoice_prefix"`
	BankName      string    `json:"bank_name" db:"bank_name" toml:"bank_name"`
	BankAccountNo string    `json:"bank_account_no" db:"bank_account_no" toml:"bank_account_no"`
	BankIFSC      string    `json:"bank_ifsc" db:"bank_ifsc" toml:"bank_ifsc"`
	IsDefault     bool      `json:"is_default" db:"is_default" toml:"is_default"`
	CreatedAt     time.Time `json:"created_at" db:"created_at" toml:"-"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at" toml:"-"`
}
