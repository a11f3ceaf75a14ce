package common

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendError_StatusMapping(t *testing.T) {
	verr := NewValidationError()
	verr.Add("customer.name", "is required")

	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"validation", verr, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"wrapped validation", errors.Wrap(verr, "create order"), http.StatusBadRequest, "VALIDATION_ERROR"},
		{"order not found", errors.Wrap(ErrOrderNotFound, "generate"), http.StatusNotFound, "ORDER_NOT_FOUND"},
		{"empty order", ErrEmptyOrder, http.StatusBadRequest, "EMPTY_ORDER"},
		{"no shop", ErrNoShopConfigured, http.StatusConflict, "NO_SHOP_CONFIGURED"},
		{"invoice not found", ErrInvoiceNotFound, http.StatusNotFound, "INVOICE_NOT_FOUND"},
		{"pdf not found", ErrPDFNotFound, http.StatusNotFound, "PDF_NOT_FOUND"},
		{"unexpected", errors.New("storage unavailable"), http.StatusInternalServerError, "SERVER_ERROR"},
	}

	e := echo.New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

			require.NoError(t, SendError(c, tt.err))
			assert.Equal(t, tt.status, rec.Code)

			var body ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.code, body.Error.Code)
			assert.NotContains(t, body.Error.Message, "storage unavailable")
		})
	}
}

func TestValidationError(t *testing.T) {
	verr := NewValidationError()
	assert.False(t, verr.HasErrors())

	verr.Add("items", "at least one item is required")
	verr.Add("items", "ignored second message")
	verr.Add("customer.name", "is required")

	assert.True(t, verr.HasErrors())
	assert.Equal(t, "at least one item is required", verr.Details["items"])
	assert.True(t, errors.Is(verr, ErrValidation))
	assert.Equal(t, "validation failed: customer.name: is required; items: at least one item is required", verr.Error())
}

func TestIsValidGSTIN(t *testing.T) {
	valid := []string{"37PEFPS6526R1Z6", "29ABCDE1234F1Z5", "27AAPFU0939F1ZV", "07AAACB2894G1ZP"}
	for _, g := range valid {
		assert.True(t, IsValidGSTIN(g), g)
	}

	invalid := []string{
		"",
		"37PEFPS6526R1Z",   // short
		"37PEFPS6526R1Z66", // long
		"37pefps6526r1z6",  // lower case
		"ABCDE1234F1Z529",  // no state code
		"37ABCDEFGHIJ1A1",  // letters where the PAN has digits
		"37PEFPS6526R0Z6",  // entity code 0
		"37PEFPS6526R1X6",  // missing Z
	}
	for _, g := range invalid {
		assert.False(t, IsValidGSTIN(g), g)
	}
}

func TestValidateUUID(t *testing.T) {
	_, err := ValidateUUID("", "order_id")
	assert.EqualError(t, err, "order_id is required")

	_, err = ValidateUUID("42", "order_id")
	assert.EqualError(t, err, "order_id must be a valid UUID")

	id, err := ValidateUUID(" 7d3c6f8e-3c1a-4d4b-9a57-5f0c2f1f6b11 ", "order_id")
	assert.NoError(t, err)
	assert.Equal(t, "7d3c6f8e-3c1a-4d4b-9a57-5f0c2f1f6b11", id.String())
}

func TestParseBoolFlag(t *testing.T) {
	for _, s := range []string{"1", "true", "TRUE", "yes", " Yes "} {
		assert.True(t, ParseBoolFlag(s), s)
	}
	for _, s := range []string{"", "0", "false", "no", "on"} {
		assert.False(t, ParseBoolFlag(s), s)
	}
}
