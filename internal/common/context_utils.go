package common

import (
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// State code, PAN (5 letters, 4 digits, 1 letter), entity code, Z, check character.
var gstinPattern = regexp.MustCompile(`^[0-9]{2}[A-Z]{5}[0-9]{4}[A-Z][1-9A-Z]Z[0-9A-Z]$`)

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Error struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details,omitempty"`
	} `json:"error"`
}

// CreateErrorResponse creates a standardized error response
func CreateErrorResponse(code string, message string, details map[string]string) *ErrorResponse {
	var resp ErrorResponse
	resp.Error.Code = code
	resp.Error.Message = message
	resp.Error.Details = details
	return &resp
}

// SendValidationError sends a validation error response
func SendValidationError(c echo.Context, details map[string]string) error {
	return c.JSON(http.StatusBadRequest, CreateErrorResponse("VALIDATION_ERROR", "Validation failed", details))
}

// SendClientError sends a client error response
func SendClientError(c echo.Context, code, message string) error {
	return c.JSON(http.StatusBadRequest, CreateErrorResponse(code, message, nil))
}

// SendConflictError sends a conflict response for operator-actionable setup problems
func SendConflictError(c echo.Context, code, message string) error {
	return c.JSON(http.StatusConflict, CreateErrorResponse(code, message, nil))
}

// SendServerError sends a server error response
func SendServerError(c echo.Context, message string) error {
	return c.JSON(http.StatusInternalServerError, CreateErrorResponse("SERVER_ERROR", message, nil))
}

// SendNotFoundError sends a not found error response
func SendNotFoundError(c echo.Context, code, message string) error {
	return c.JSON(http.StatusNotFound, CreateErrorResponse(code, message, nil))
}

// SendError maps a service error to its HTTP response. Unknown errors are
// logged with a reference id and reported without internal detail.
func SendError(c echo.Context, err error) error {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		return SendValidationError(c, verr.Details)
	case errors.Is(err, ErrValidation):
		return SendValidationError(c, nil)
	case errors.Is(err, ErrOrderNotFound):
		return SendNotFoundError(c, "ORDER_NOT_FOUND", "Order not found")
	case errors.Is(err, ErrEmptyOrder):
		return SendClientError(c, "EMPTY_ORDER", "Order has no items")
	case errors.Is(err, ErrNoShopConfigured):
		return SendConflictError(c, "NO_SHOP_CONFIGURED", "No shop is configured for invoicing")
	case errors.Is(err, ErrInvoiceNotFound):
		return SendNotFoundError(c, "INVOICE_NOT_FOUND", "Invoice not found")
	case errors.Is(err, ErrPDFNotFound):
		return SendNotFoundError(c, "PDF_NOT_FOUND", "Invoice PDF not found")
	}

	ref := uuid.NewString()
	log.Error().Err(err).Str("ref", ref).Str("path", c.Path()).Msg("Request failed")
	return SendServerError(c, fmt.Sprintf("Internal error (ref %s)", ref))
}

// ValidateUUID parses a path or query identifier
func ValidateUUID(idStr string, fieldName string) (uuid.UUID, error) {
	idStr = strings.TrimSpace(idStr)
	if idStr == "" {
		return uuid.Nil, fmt.Errorf("%s is required", fieldName)
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s must be a valid UUID", fieldName)
	}
	return id, nil
}

// IsValidGSTIN reports whether s is a well-formed GSTIN
func IsValidGSTIN(s string) bool {
	return gstinPattern.MatchString(s)
}

// ParseBoolFlag accepts 1, true and yes in any case
func ParseBoolFlag(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes":
		return true
	}
	return false
}
