package handlers

import (
	"net/http"

	"gstinvoice/internal/common"
	"gstinvoice/internal/models"
	"gstinvoice/internal/services"

	"github.com/labstack/echo/v4"
)

// OrderHandlers handles HTTP requests for orders
type OrderHandlers struct {
	orderService services.OrderServiceInterface
}

// NewOrderHandlers creates a new order handlers instance
func NewOrderHandlers(orderService services.OrderServiceInterface) *OrderHandlers {
	return &OrderHandlers{orderService: orderService}
}

// CreateOrder handles POST /api/orders
func (h *OrderHandlers) CreateOrder(c echo.Context) error {
	var req models.CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "INVALID_REQUEST", "Invalid request format")
	}

	order, err := h.orderService.CreateOrder(c.Request().Context(), &req)
	if err != nil {
		return common.SendError(c, err)
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"order_id": order.ID,
	})
}

// GetOrder handles GET /api/orders/:order_id
func (h *OrderHandlers) GetOrder(c echo.Context) error {
	orderID, err := common.ValidateUUID(c.Param("order_id"), "order_id")
	if err != nil {
		return common.SendClientError(c, "INVALID_ORDER_ID", err.Error())
	}

	order, err := h.orderService.GetOrder(c.Request().Context(), orderID)
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, order)
}
