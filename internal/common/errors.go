package common

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

var (
	ErrValidation       = errors.New("validation failed")
	ErrOrderNotFound    = errors.New("order not found")
	ErrNoShopConfigured = errors.New("no shop configured")
	ErrEmptyOrder       = errors.New("order has no items")
	ErrInvoiceNotFound  = errors.New("invoice not found")
	ErrPDFNotFound      = errors.New("invoice pdf not found")
)

// ValidationError carries per-field messages for a rejected request.
type ValidationError struct {
	Details map[string]string
}

func NewValidationError() *ValidationError {
	return &ValidationError{Details: make(map[string]string)}
}

// Add records the first message for field.
func (e *ValidationError) Add(field, message string) {
	if _, ok := e.Details[field]; !ok {
		e.Details[field] = message
	}
}

func (e *ValidationError) HasErrors() bool {
	return len(e.Details) > 0
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Details))
	for f := range e.Details {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f, e.Details[f]))
	}
	return fmt.Sprintf("%s: %s", ErrValidation, strings.Join(parts, "; "))
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}
