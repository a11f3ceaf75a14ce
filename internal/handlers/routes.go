package handlers

import "github.com/labstack/echo/v4"

// RegisterRoutes mounts every HTTP endpoint on e.
func RegisterRoutes(e *echo.Echo, orders *OrderHandlers, invoices *InvoiceHandlers, health *HealthHandlers) {
	e.GET("/health", health.HealthCheck)
	e.GET("/health/ready", health.ReadinessCheck)

	api := e.Group("/api")
	api.POST("/orders", orders.CreateOrder)
	api.GET("/orders/:order_id", orders.GetOrder)
	api.POST("/generate-invoice/:order_id", invoices.GenerateInvoice)
	api.GET("/generate-invoice/:order_id", invoices.GetInvoice)
	api.GET("/invoice/:order_id/pdf", invoices.DownloadPDF)
}
