package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"gstinvoice/internal/common"
	"gstinvoice/internal/models"
	"gstinvoice/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// InvoiceHandlers handles HTTP requests for invoices
type InvoiceHandlers struct {
	invoiceService services.InvoiceServiceInterface
}

// NewInvoiceHandlers creates a new invoice handlers instance
func NewInvoiceHandlers(invoiceService services.InvoiceServiceInterface) *InvoiceHandlers {
	return &InvoiceHandlers{invoiceService: invoiceService}
}

// InvoiceResponse is the invoice metadata returned to clients
type InvoiceResponse struct {
	OrderID     uuid.UUID `json:"order_id"`
	InvoiceNo   string    `json:"invoice_no"`
	InvoiceDate string    `json:"invoice_date"`
	PDFURL      string    `json:"pdf_url"`
	DownloadURL string    `json:"download_url,omitempty"`
	Created     bool      `json:"created"`
}

type generateInvoiceBody struct {
	Email interface{} `json:"email"`
}

// GenerateInvoice handles POST /api/generate-invoice/:order_id
// Returns 201 for a new invoice and 200 when the order was already invoiced.
func (h *InvoiceHandlers) GenerateInvoice(c echo.Context) error {
	orderID, err := common.ValidateUUID(c.Param("order_id"), "order_id")
	if err != nil {
		return common.SendClientError(c, "INVALID_ORDER_ID", err.Error())
	}

	sendEmail, err := emailFlag(c)
	if err != nil {
		return common.SendClientError(c, "INVALID_REQUEST", "Invalid request format")
	}

	invoice, created, err := h.invoiceService.GenerateInvoice(c.Request().Context(), orderID, sendEmail)
	if err != nil {
		return common.SendError(c, err)
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	return c.JSON(status, h.toResponse(c, invoice, created))
}

// GetInvoice handles GET /api/generate-invoice/:order_id
func (h *InvoiceHandlers) GetInvoice(c echo.Context) error {
	orderID, err := common.ValidateUUID(c.Param("order_id"), "order_id")
	if err != nil {
		return common.SendClientError(c, "INVALID_ORDER_ID", err.Error())
	}

	invoice, err := h.invoiceService.GetInvoice(c.Request().Context(), orderID)
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, h.toResponse(c, invoice, false))
}

// DownloadPDF handles GET /api/invoice/:order_id/pdf
func (h *InvoiceHandlers) DownloadPDF(c echo.Context) error {
	orderID, err := common.ValidateUUID(c.Param("order_id"), "order_id")
	if err != nil {
		return common.SendClientError(c, "INVALID_ORDER_ID", err.Error())
	}

	data, filename, err := h.invoiceService.FetchPDF(c.Request().Context(), orderID)
	if err != nil {
		return common.SendError(c, err)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Blob(http.StatusOK, "application/pdf", data)
}

func (h *InvoiceHandlers) toResponse(c echo.Context, invoice *models.Invoice, created bool) InvoiceResponse {
	resp := InvoiceResponse{
		OrderID:     invoice.OrderID,
		InvoiceNo:   invoice.InvoiceNo,
		InvoiceDate: invoice.InvoiceDate.Format("2006-01-02"),
		PDFURL:      fmt.Sprintf("/api/invoice/%s/pdf", invoice.OrderID),
		Created:     created,
	}

	url, err := h.invoiceService.PresignedPDFURL(c.Request().Context(), invoice)
	if err != nil {
		log.Debug().Err(err).Str("invoice_no", invoice.InvoiceNo).Msg("No presigned pdf url")
	} else {
		resp.DownloadURL = url
	}
	return resp
}

// emailFlag reads ?email=1|true|yes, falling back to a JSON body {"email": ...}.
func emailFlag(c echo.Context) (bool, error) {
	if v := c.QueryParam("email"); v != "" {
		return common.ParseBoolFlag(v), nil
	}

	req := c.Request()
	if req.ContentLength == 0 || !strings.HasPrefix(req.Header.Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		return false, nil
	}

	var body generateInvoiceBody
	if err := (&echo.DefaultBinder{}).BindBody(c, &body); err != nil {
		return false, err
	}
	if body.Email == nil {
		return false, nil
	}
	return common.ParseBoolFlag(fmt.Sprint(body.Email)), nil
}
