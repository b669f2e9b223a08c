// Package validator wraps go-playground/validator for request DTOs.
package validator

import (
	"errors"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator reports fields by their json names.
func NewValidator() *CustomValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &CustomValidator{validator: v}
}

func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

// FormatValidationErrors maps each failing field to a readable message.
func (cv *CustomValidator) FormatValidationErrors(err error) map[string]string {
	out := make(map[string]string)

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return out
	}
	for _, e := range validationErrors {
		field := e.Field()
		switch e.Tag() {
		case "required":
			out[field] = field + " is required"
		case "datetime":
			out[field] = field + " must match " + e.Param()
		case "max":
			out[field] = field + " must be at most " + e.Param() + " characters"
		case "oneof":
			out[field] = field + " must be one of: " + e.Param()
		case "gte":
			out[field] = field + " must be greater than or equal to " + e.Param()
		default:
			out[field] = field + " is invalid"
		}
	}
	return out
}

// Summary joins the formatted errors into one sentence, ordered by field name.
func (cv *CustomValidator) Summary(err error) string {
	fields := cv.FormatValidationErrors(err)
	if len(fields) == 0 {
		return err.Error()
	}
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	msgs := make([]string, 0, len(names))
	for _, name := range names {
		msgs = append(msgs, fields[name])
	}
	return strings.Join(msgs, "; ")
}
