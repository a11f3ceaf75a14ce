package repositories

import (
	"context"

	"gstinvoice/internal/models"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

type OrderItemRepository interface {
	Create(ctx context.Context, item *models.OrderItem) error
	ListByOrderID(ctx context.Context, orderID uuid.UUID) ([]*models.OrderItem, error)
}

type orderItemRepo struct {
	db DBTX
}

func NewOrderItemRepo(db DBTX) OrderItemRepository {
	return &orderItemRepo{db: db}
}

func (r *orderItemRepo) Create(ctx context.Context, item *models.OrderItem) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	query := `
		INSERT INTO order_items (id, order_id, sno, description, hsn_sac, quantity, rate, amount, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
	`
	_, err := r.db.Exec(ctx, query, item.ID, item.OrderID, item.SNo, item.Description, item.HSNSAC,
		item.Quantity, item.Rate, item.Amount)
	return errors.Wrapf(err, "insert order item %d", item.SNo)
}

// ListByOrderID returns the order's lines in serial number order.
func (r *orderItemRepo) ListByOrderID(ctx context.Context, orderID uuid.UUID) ([]*models.OrderItem, error) {
	query := `
		SELECT id, order_id, sno, description, hsn_sac, quantity, rate, amount, created_at
		FROM order_items
		WHERE order_id = $1
		ORDER BY sno ASC
	`
	rows, err := r.db.Query(ctx, query, orderID)
	if err != nil {
		return nil, errors.Wrap(err, "select order items")
	}
	defer rows.Close()

	var items []*models.OrderItem
	for rows.Next() {
		item := &models.OrderItem{}
		if err := rows.Scan(&item.ID, &item.OrderID, &item.SNo, &item.Description, &item.HSNSAC,
			&item.Quantity, &item.Rate, &item.Amount, &item.CreatedAt); err != nil {
			return nil, errors.Wrap(err, "scan order item")
		}
		items = append(items, item)
	}
	return items, errors.Wrap(rows.Err(), "iterate order items")
}
