// Package validation provides the shared input validation error and struct-tag validation helpers.
package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Error reports missing or malformed user input. It is always recoverable by re-prompting.
type Error struct {
	Field   string
	Message string
}

func (e *Error) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("validation error: %s", e.Message)
	}
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// New returns a validation error for field.
func New(field, message string) *Error {
	return &Error{Field: field, Message: message}
}

// IsValidation reports whether err is or wraps a validation error.
func IsValidation(err error) bool {
	var ve *Error
	return errors.As(err, &ve)
}

// Required returns a validation error when value is blank.
func Required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return New(field, "is required")
	}
	return nil
}

var validate = validator.New()

// Struct validates v against its `validate` tags and converts the first failure into an *Error.
func Struct(v any) error {
	if err := validate.Struct(v); err != nil {
		return FromValidator(err)
	}
	return nil
}

// FromValidator converts a validator error into an *Error naming the first failing field.
func FromValidator(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return New(fe.Field(), describe(fe))
	}
	return New("", "invalid request")
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", fe.Param())
	case "gte":
		return fmt.Sprintf("must be >= %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be <= %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be > %s", fe.Param())
	case "lt":
		return fmt.Sprintf("must be < %s", fe.Param())
	default:
		return fe.Tag()
	}
}
