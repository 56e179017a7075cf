package core

// validation.go checks form input before it reaches the table.
//
// Validation is struct-tag driven (go-playground/validator). Field failures are
// translated into ValidationError values carrying the field name and a short
// human-readable message, so the web layer never sees validator types.

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// ValidationError represents a single validation error for a field.
type ValidationError struct {
	Field   string // Field/column name
	Value   string // The invalid value
	Message string // Human-readable error message
}

func (e ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

// inputValidator is shared; validator.Validate caches struct metadata and is
// safe for concurrent use.
var inputValidator = newInputValidator()

func newInputValidator() *validator.Validate {
	v := validator.New()
	// Decimals validate as float64 so numeric tags (gte, lte) apply to them.
	v.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{})
	return v
}

func decimalValue(field reflect.Value) interface{} {
	if d, ok := field.Interface().(decimal.Decimal); ok {
		return d.InexactFloat64()
	}
	return nil
}

// ValidateProductInput normalizes and validates add-form input.
// The SKU and description are trimmed in place.
func ValidateProductInput(in *ProductInput) error {
	in.SKU = strings.TrimSpace(in.SKU)
	in.Description = strings.TrimSpace(in.Description)
	return translate(inputValidator.Struct(in))
}

// ValidateEditInput normalizes and validates edit-form input.
func ValidateEditInput(in *EditInput) error {
	in.SKU = strings.TrimSpace(in.SKU)
	in.Description = strings.TrimSpace(in.Description)
	return translate(inputValidator.Struct(in))
}

// translate converts the first validator failure into a ValidationError.
func translate(err error) error {
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return ValidationError{Message: err.Error()}
	}
	fe := fieldErrs[0]
	return ValidationError{
		Field:   fe.Field(),
		Value:   fmt.Sprintf("%v", fe.Value()),
		Message: validationMessage(fe),
	}
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "required field is empty"
	case "gte":
		return "must not be negative"
	default:
		return "is invalid"
	}
}

// ParseQuantity parses a form quantity. Empty input is zero.
func ParseQuantity(field, raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	d, ok := ParseDecimal(raw)
	if !ok || !d.Equal(d.Truncate(0)) || d.Abs().GreaterThan(maxQuantity) {
		return 0, ValidationError{Field: field, Value: raw, Message: "invalid number, expected a whole number"}
	}
	return int(d.IntPart()), nil
}

// ParseMoney parses a form monetary value. Empty input is zero.
func ParseMoney(field, raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, nil
	}
	d, ok := ParseDecimal(raw)
	if !ok {
		return decimal.Zero, ValidationError{Field: field, Value: raw, Message: "invalid number format"}
	}
	return d, nil
}
