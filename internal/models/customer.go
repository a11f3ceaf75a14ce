package models

import (
	"time"

	"github.com/google/uuid"
)

// Customer is the buyer billed on an order. A new row is created for every order.
type Customer struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Address   string    `json:"address" db:"address"`
	GSTIN     string    `json:"gstin" db:"gstin"`
	Phone     string    `json:"phone" db:"phone"`
	Email     string    `json:"email" db:"email"`
	StateCode string    `json:"state_code" db:"state_code"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
