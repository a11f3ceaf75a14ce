package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order holds the tax totals written at invoice generation time.
// Until then the totals are zero and must not be trusted.
type Order struct {
	ID           uuid.UUID       `json:"id" db:"id"`
	CustomerID   uuid.UUID       `json:"customer_id" db:"customer_id"`
	Subtotal     decimal.Decimal `json:"subtotal" db:"subtotal"`
	CGST         decimal.Decimal `json:"cgst" db:"cgst"`
	SGST         decimal.Decimal `json:"sgst" db:"sgst"`
	IGST         decimal.Decimal `json:"igst" db:"igst"`
	Total        decimal.Decimal `json:"total" db:"total"`
	IsInterState bool            `json:"is_inter_state" db:"is_inter_state"`
	CreatedAt    time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at" db:"updated_at"`
	Customer     *Customer       `json:"customer,omitempty" db:"-"`
	Items        []*OrderItem    `json:"items,omitempty" db:"-"`
}

// CustomerInput is the buyer block of an order submission.
type CustomerInput struct {
	Name      string `json:"name" validate:"required,max=255"`
	Address   string `json:"address" validate:"max=1000"`
	GSTIN     string `json:"gstin" validate:"omitempty,gstin"`
	Phone     string `json:"phone" validate:"max=20"`
	Email     string `json:"email" validate:"omitempty,email,max=254"`
	StateCode string `json:"state_code" validate:"max=10"`
}

// OrderItemInput is one submitted line. SNo defaults to the line position when zero.
type OrderItemInput struct {
	SNo         int              `json:"sno" validate:"gte=0,lte=32767"`
	Description string           `json:"description" validate:"required,max=255"`
	HSNSAC      string           `json:"hsn_sac" validate:"max=20"`
	Quantity    *decimal.Decimal `json:"quantity" validate:"required"`
	Rate        *decimal.Decimal `json:"rate" validate:"required"`
	Amount      *decimal.Decimal `json:"amount" validate:"required"`
}

// CreateOrderRequest is the payload for creating an order with its customer and items.
type CreateOrderRequest struct {
	Customer CustomerInput    `json:"customer" validate:"required"`
	Items    []OrderItemInput `json:"items" validate:"required,min=1,dive"`
}
