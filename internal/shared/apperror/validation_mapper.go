package apperror

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

func formatFieldName(s string) string {
	// recipient_phone -> Recipient Phone
	s = strings.ReplaceAll(s, "_", " ")
	caser := cases.Title(language.English)
	return caser.String(s)
}

func fieldMessage(e validator.FieldError) string {
	field := formatFieldName(e.Field())

	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "max":
		return fmt.Sprintf("%s may not be greater than %s", field, e.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, e.Param())
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, e.Param())
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", field, e.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(e.Param(), " ", ", "))
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "numeric", "number":
		return fmt.Sprintf("%s must be a number", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

// ValidationFields lists the per-field messages of a validator failure.
// ok is false when err is not a validator.ValidationErrors.
func ValidationFields(err error) (fields FieldErrors, ok bool) {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return nil, false
	}
	fields = FieldErrors{}
	for _, e := range errs {
		fields.Add(e.Field(), fieldMessage(e))
	}
	return fields, true
}

// MapValidationError turns binding/validator failures into a VALIDATION_ERROR
// listing every failing field. Field keys come from json tags, see Init.
func MapValidationError(err error) error {
	if fields, ok := ValidationFields(err); ok {
		return Validation(fields)
	}

	return Validation(FieldErrors{"body": {"Request body is malformed"}})
}
