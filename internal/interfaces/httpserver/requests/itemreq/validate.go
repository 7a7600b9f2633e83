package itemreq

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"focusframe-server/internal/domain/item"
)

// NewValidator returns a validator that knows the "bucket" and "content"
// rules. Content is measured after trimming, as the item model stores it.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})
	_ = v.RegisterValidation("bucket", func(fl validator.FieldLevel) bool {
		_, ok := item.ParseBucket(fl.Field().String())
		return ok
	})
	_ = v.RegisterValidation("content", func(fl validator.FieldLevel) bool {
		n := utf8.RuneCountInString(strings.TrimSpace(fl.Field().String()))
		return n > 0 && n <= item.MaxContentLength
	})
	return v
}

// Validate checks req and reports the first failing field as a validation error.
func Validate(ctx context.Context, v *validator.Validate, req any) error {
	err := v.Struct(req)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return item.NewValidationError(ctx, "invalid request body")
	}
	return item.NewValidationError(ctx, describe(fieldErrs[0]))
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "content":
		if text, _ := fe.Value().(string); strings.TrimSpace(text) == "" {
			return fmt.Sprintf("%s is required", fe.Field())
		}
		return fmt.Sprintf("%s must be at most %d characters", fe.Field(), item.MaxContentLength)
	case "bucket":
		return fmt.Sprintf("%s must be one of control, influence, acceptance", fe.Field())
	case "startswith":
		return fmt.Sprintf("%s must be a data URI", fe.Field())
	}
	return fmt.Sprintf("%s is invalid", fe.Field())
}
