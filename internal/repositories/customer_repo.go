package repositories

import (
	"context"

	"gstinvoice/internal/models"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

type CustomerRepository interface {
	Create(ctx context.Context, customer *models.Customer) error
}

type customerRepo struct {
	db DBTX
}

func NewCustomerRepo(db DBTX) CustomerRepository {
	return &customerRepo{db: db}
}

func (r *customerRepo) Create(ctx context.Context, customer *models.Customer) error {
	if customer.ID == uuid.Nil {
		customer.ID = uuid.New()
	}
	query := `
		INSERT INTO customers (id, name, address, gstin, phone, email, state_code, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		RETURNING created_at
	`
	err := r.db.QueryRow(ctx, query, customer.ID, customer.Name, customer.Address, customer.GSTIN,
		customer.Phone, customer.Email, customer.StateCode).Scan(&customer.CreatedAt)
	return errors.Wrap(err, "insert customer")
}
