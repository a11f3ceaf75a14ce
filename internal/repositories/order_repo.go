package repositories

import (
	"context"

	"gstinvoice/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"
)

type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	// FindByIDForUpdate loads the order with its customer and locks the order
	// row until the surrounding transaction ends.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Order, error)
	UpdateTotals(ctx context.Context, order *models.Order) error
}

type orderRepo struct {
	db DBTX
}

func NewOrderRepo(db DBTX) OrderRepository {
	return &orderRepo{db: db}
}

const orderWithCustomerQuery = `
	SELECT o.id, o.customer_id, o.subtotal, o.cgst, o.sgst, o.igst, o.total, o.is_inter_state, o.created_at, o.updated_at,
		c.id, c.name, c.address, c.gstin, c.phone, c.email, c.state_code, c.created_at
	FROM orders o
	JOIN customers c ON c.id = o.customer_id
	WHERE o.id = $1
`

func (r *orderRepo) Create(ctx context.Context, order *models.Order) error {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	query := `
		INSERT INTO orders (id, customer_id, subtotal, cgst, sgst, igst, total, is_inter_state, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query, order.ID, order.CustomerID, order.Subtotal, order.CGST, order.SGST,
		order.IGST, order.Total, order.IsInterState).Scan(&order.CreatedAt, &order.UpdatedAt)
	return errors.Wrap(err, "insert order")
}

func (r *orderRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	order, err := r.scanWithCustomer(r.db.QueryRow(ctx, orderWithCustomerQuery, id))
	return order, errors.Wrap(err, "select order")
}

func (r *orderRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	order, err := r.scanWithCustomer(r.db.QueryRow(ctx, orderWithCustomerQuery+` FOR UPDATE OF o`, id))
	return order, errors.Wrap(err, "select order for update")
}

func (r *orderRepo) UpdateTotals(ctx context.Context, order *models.Order) error {
	query := `
		UPDATE orders
		SET subtotal = $1, cgst = $2, sgst = $3, igst = $4, total = $5, is_inter_state = $6, updated_at = NOW()
		WHERE id = $7
	`
	tag, err := r.db.Exec(ctx, query, order.Subtotal, order.CGST, order.SGST, order.IGST, order.Total,
		order.IsInterState, order.ID)
	if err != nil {
		return errors.Wrap(err, "update order totals")
	}
	if tag.RowsAffected() == 0 {
		return errors.Errorf("update order totals: order %s not found", order.ID)
	}
	return nil
}

func (r *orderRepo) scanWithCustomer(row pgx.Row) (*models.Order, error) {
	o := &models.Order{}
	c := &models.Customer{}
	err := row.Scan(&o.ID, &o.CustomerID, &o.Subtotal, &o.CGST, &o.SGST, &o.IGST, &o.Total, &o.IsInterState,
		&o.CreatedAt, &o.UpdatedAt,
		&c.ID, &c.Name, &c.Address, &c.GSTIN, &c.Phone, &c.Email, &c.StateCode, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	o.Customer = c
	return o, nil
}
