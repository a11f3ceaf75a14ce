package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const DefaultHSNSAC = "998313"

type OrderItem struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	OrderID     uuid.UUID       `json:"order_id" db:"order_id"`
	SNo         int             `json:"sno" db:"sno"`
	Description string          `json:"description" db:"description"`
	HSNSAC      string          `json:"hsn_sac" db:"hsn_sac"`
	Quantity    decimal.Decimal `json:"quantity" db:"quantity"`
	Rate        decimal.Decimal `json:"rate" db:"rate"`
	Amount      decimal.Decimal `json:"amount" db:"amount"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
}
