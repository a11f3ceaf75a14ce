package services

import (
	"context"
	"fmt"
	"strings"

	"gstinvoice/internal/common"
	"gstinvoice/internal/gst"
	"gstinvoice/internal/models"
	"gstinvoice/internal/repositories"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// OrderServiceInterface defines the order operations exposed over HTTP
type OrderServiceInterface interface {
	CreateOrder(ctx context.Context, req *models.CreateOrderRequest) (*models.Order, error)
	GetOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
}

type OrderService struct {
	db       repositories.Pool
	validate *validator.Validate
}

func NewOrderService(db repositories.Pool, validate *validator.Validate) *OrderService {
	if validate == nil {
		validate = common.NewValidator()
	}
	return &OrderService{db: db, validate: validate}
}

// CreateOrder stores a customer, an order and its lines in one transaction.
// Totals stay zero until an invoice is generated.
func (s *OrderService) CreateOrder(ctx context.Context, req *models.CreateOrderRequest) (*models.Order, error) {
	normalizeOrderRequest(req)
	if verr := s.validateOrder(req); verr.HasErrors() {
		return nil, verr
	}

	c := req.Customer
	customer := &models.Customer{
		Name:      c.Name,
		Address:   c.Address,
		GSTIN:     c.GSTIN,
		Phone:     c.Phone,
		Email:     c.Email,
		StateCode: c.StateCode,
	}
	order := &models.Order{
		Subtotal: decimal.Zero,
		CGST:     decimal.Zero,
		SGST:     decimal.Zero,
		IGST:     decimal.Zero,
		Total:    decimal.Zero,
	}

	err := repositories.WithTx(ctx, s.db, func(tx pgx.Tx) error {
		if err := repositories.NewCustomerRepo(tx).Create(ctx, customer); err != nil {
			return err
		}

		order.CustomerID = customer.ID
		if err := repositories.NewOrderRepo(tx).Create(ctx, order); err != nil {
			return err
		}

		items := repositories.NewOrderItemRepo(tx)
		for _, in := range req.Items {
			item := &models.OrderItem{
				OrderID:     order.ID,
				SNo:         in.SNo,
				Description: in.Description,
				HSNSAC:      in.HSNSAC,
				Quantity:    *in.Quantity,
				Rate:        *in.Rate,
				Amount:      *in.Amount,
			}
			if err := items.Create(ctx, item); err != nil {
				return err
			}
			order.Items = append(order.Items, item)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	order.Customer = customer
	log.Info().
		Str("order_id", order.ID.String()).
		Int("items", len(order.Items)).
		Msg("Order created")
	return order, nil
}

// GetOrder returns the order with its customer and lines, or common.ErrOrderNotFound.
func (s *OrderService) GetOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	order, err := repositories.NewOrderRepo(s.db).FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, common.ErrOrderNotFound
	}

	items, err := repositories.NewOrderItemRepo(s.db).ListByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	order.Items = items
	return order, nil
}

func normalizeOrderRequest(req *models.CreateOrderRequest) {
	c := &req.Customer
	c.Name = strings.TrimSpace(c.Name)
	c.Address = strings.TrimSpace(c.Address)
	c.GSTIN = strings.ToUpper(strings.TrimSpace(c.GSTIN))
	c.Phone = strings.TrimSpace(c.Phone)
	c.Email = strings.TrimSpace(c.Email)
	c.StateCode = strings.TrimSpace(c.StateCode)

	for i := range req.Items {
		it := &req.Items[i]
		it.Description = strings.TrimSpace(it.Description)
		it.HSNSAC = strings.TrimSpace(it.HSNSAC)
		if it.SNo == 0 {
			it.SNo = i + 1
		}
		if it.HSNSAC == "" {
			it.HSNSAC = models.DefaultHSNSAC
		}
	}
}

func (s *OrderService) validateOrder(req *models.CreateOrderRequest) *common.ValidationError {
	verr := common.ValidateStruct(s.validate, req)

	seen := make(map[int]int, len(req.Items))
	subtotal := decimal.Zero
	for i, it := range req.Items {
		field := func(name string) string { return fmt.Sprintf("items[%d].%s", i, name) }

		for _, col := range itemNumericColumns {
			v := col.value(it)
			if v == nil {
				continue
			}
			switch {
			case v.IsNegative():
				verr.Add(field(col.name), "must not be negative")
			case !v.Equal(v.Truncate(col.scale)):
				verr.Add(field(col.name), fmt.Sprintf("must have at most %d decimal places", col.scale))
			case v.GreaterThanOrEqual(decimal.New(1, col.precision-col.scale)):
				verr.Add(field(col.name), fmt.Sprintf("must have at most %d digits before the decimal point", col.precision-col.scale))
			}
		}
		if it.Amount != nil && !it.Amount.IsNegative() {
			subtotal = subtotal.Add(*it.Amount)
		}

		if prev, ok := seen[it.SNo]; ok {
			verr.Add(field("sno"), fmt.Sprintf("duplicates items[%d].sno", prev))
		} else {
			seen[it.SNo] = i
		}

		if it.Quantity != nil && it.Rate != nil && it.Amount != nil {
			if expected := it.Quantity.Mul(*it.Rate).Round(2); !expected.Equal(it.Amount.Round(2)) {
				log.Warn().
					Int("sno", it.SNo).
					Str("amount", it.Amount.String()).
					Str("quantity_x_rate", expected.String()).
					Msg("Line amount differs from quantity x rate, using submitted amount")
			}
		}
	}

	if gst.ComputeTax(subtotal, "", "").Total.GreaterThanOrEqual(maxOrderTotal) {
		verr.Add("items", "order total including tax exceeds the largest storable amount")
	}
	return verr
}

// itemNumericColumns mirrors the NUMERIC(precision, scale) columns of order_items.
var itemNumericColumns = []struct {
	name             string
	precision, scale int32
	value            func(models.OrderItemInput) *decimal.Decimal
}{
	{"quantity", 12, 3, func(it models.OrderItemInput) *decimal.Decimal { return it.Quantity }},
	{"rate", 14, 2, func(it models.OrderItemInput) *decimal.Decimal { return it.Rate }},
	{"amount", 14, 2, func(it models.OrderItemInput) *decimal.Decimal { return it.Amount }},
}

// Order totals are NUMERIC(14,2).
var maxOrderTotal = decimal.New(1, 12)

