package repositories

import (
	"context"
	"testing"
	"time"

	"gstinvoice/internal/models"

	"github.com/google/uuid"
	pgx "github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var orderWithCustomerColumns = []string{
	"id", "customer_id", "subtotal", "cgst", "sgst", "igst", "total", "is_inter_state", "created_at", "updated_at",
	"id", "name", "address", "gstin", "phone", "email", "state_code", "created_at",
}

func TestOrderRepo_FindByIDForUpdate(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	orderID, customerID := uuid.New(), uuid.New()
	now := time.Now()
	mock.ExpectQuery(`FROM orders o JOIN customers c ON c.id = o.customer_id WHERE o.id = \$1 FOR UPDATE OF o`).
		WithArgs(orderID).
		WillReturnRows(pgxmock.NewRows(orderWithCustomerColumns).AddRow(
			orderID, customerID, decimal.Zero, decimal.Zero, decimal.Zero, decimal.Zero, decimal.Zero, false, now, now,
			customerID, "Ravi Traders", "Main Road", "", "9876543210", "ravi@example.com", "37", now,
		))

	order, err := NewOrderRepo(mock).FindByIDForUpdate(context.Background(), orderID)
	require.NoError(t, err)
	require.NotNil(t, order)
	assert.Equal(t, orderID, order.ID)
	require.NotNil(t, order.Customer)
	assert.Equal(t, "Ravi Traders", order.Customer.Name)
	assert.Equal(t, "37", order.Customer.StateCode)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepo_FindByID_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	id := uuid.New()
	mock.ExpectQuery(`FROM orders o JOIN customers c`).WithArgs(id).WillReturnError(pgx.ErrNoRows)

	order, err := NewOrderRepo(mock).FindByID(context.Background(), id)
	assert.NoError(t, err)
	assert.Nil(t, order)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepo_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	customerID := uuid.New()
	now := time.Now()
	order := &models.Order{CustomerID: customerID, Subtotal: decimal.Zero, CGST: decimal.Zero, SGST: decimal.Zero, IGST: decimal.Zero, Total: decimal.Zero}

	mock.ExpectQuery(`INSERT INTO orders`).
		WithArgs(pgxmock.AnyArg(), customerID, decimal.Zero, decimal.Zero, decimal.Zero, decimal.Zero, decimal.Zero, false).
		WillReturnRows(pgxmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	err = NewOrderRepo(mock).Create(context.Background(), order)
	assert.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, order.ID)
	assert.Equal(t, now, order.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepo_UpdateTotals(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	order := &models.Order{
		ID:       uuid.New(),
		Subtotal: decimal.RequireFromString("150.00"),
		CGST:     decimal.RequireFromString("13.50"),
		SGST:     decimal.RequireFromString("13.50"),
		IGST:     decimal.Zero,
		Total:    decimal.RequireFromString("177.00"),
	}

	mock.ExpectExec(`UPDATE orders SET subtotal = \$1, cgst = \$2, sgst = \$3, igst = \$4, total = \$5, is_inter_state = \$6`).
		WithArgs(order.Subtotal, order.CGST, order.SGST, order.IGST, order.Total, false, order.ID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	assert.NoError(t, NewOrderRepo(mock).UpdateTotals(context.Background(), order))

	mock.ExpectExec(`UPDATE orders`).
		WithArgs(order.Subtotal, order.CGST, order.SGST, order.IGST, order.Total, false, order.ID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err = NewOrderRepo(mock).UpdateTotals(context.Background(), order)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderItemRepo_ListByOrderID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	orderID := uuid.New()
	now := time.Now()
	rows := pgxmock.NewRows([]string{"id", "order_id", "sno", "description", "hsn_sac", "quantity", "rate", "amount", "created_at"}).
		AddRow(uuid.New(), orderID, 1, "Wall Putty", "3214", decimal.NewFromInt(2), decimal.NewFromInt(50), decimal.NewFromInt(100), now).
		AddRow(uuid.New(), orderID, 2, "Primer", "998313", decimal.NewFromInt(1), decimal.NewFromInt(50), decimal.NewFromInt(50), now)

	mock.ExpectQuery(`FROM order_items WHERE order_id = \$1 ORDER BY sno ASC`).WithArgs(orderID).WillReturnRows(rows)

	items, err := NewOrderItemRepo(mock).ListByOrderID(context.Background(), orderID)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, 1, items[0].SNo)
	assert.Equal(t, "Primer", items[1].Description)
	assert.True(t, decimal.NewFromInt(100).Equal(items[0].Amount))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderItemRepo_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	item := &models.OrderItem{OrderID: uuid.New(), SNo: 1, Description: "Emulsion", HSNSAC: models.DefaultHSNSAC,
		Quantity: decimal.NewFromInt(1), Rate: decimal.NewFromInt(10), Amount: decimal.NewFromInt(10)}

	mock.ExpectExec(`INSERT INTO order_items`).
		WithArgs(pgxmock.AnyArg(), item.OrderID, 1, "Emulsion", "998313", item.Quantity, item.Rate, item.Amount).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	assert.NoError(t, NewOrderItemRepo(mock).Create(context.Background(), item))
	assert.NotEqual(t, uuid.Nil, item.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
