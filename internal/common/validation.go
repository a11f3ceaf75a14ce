package common

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

// NewValidator returns a validator that reports fields by their JSON names
// and understands the "gstin" tag.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation("gstin", func(fl validator.FieldLevel) bool {
		return IsValidGSTIN(fl.Field().String())
	})

	return v
}

// ValidateStruct runs tag validation and converts failures to a ValidationError.
func ValidateStruct(v *validator.Validate, s interface{}) *ValidationError {
	verr := NewValidationError()

	err := v.Struct(s)
	if err == nil {
		return verr
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		verr.Add("request", err.Error())
		return verr
	}

	for _, fe := range fieldErrs {
		verr.Add(fieldPath(fe.Namespace()), fieldMessage(fe))
	}
	return verr
}

// fieldPath drops the root struct name, e.g. "CreateOrderRequest.items[0].rate" -> "items[0].rate".
func fieldPath(ns string) string {
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("must contain at least %s item(s)", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "lte":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	case "email":
		return "must be a valid email address"
	case "gstin":
		return "must be a valid 15-character GSTIN"
	}
	return fmt.Sprintf("failed %s validation", fe.Tag())
}
