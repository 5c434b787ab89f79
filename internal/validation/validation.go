// Package validation enforces the entity schemas declared as struct tags on the
// model DTOs and converts failures into field-level errors.
package validation

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/devmart/internal/errs"
	"github.com/go-playground/validator/v10"
)

// slugPattern: lowercase alphanumerics separated by single hyphens.
var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

var (
	once     sync.Once
	instance *validator.Validate
)

func get() *validator.Validate {
	once.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(field reflect.StructField) string {
			name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return strings.ToLower(field.Name)
			}
			return name
		})
		_ = v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
			return IsSlug(fl.Field().String())
		})
		_ = v.RegisterValidation("urlorpath", func(fl validator.FieldLevel) bool {
			value := strings.TrimSpace(fl.Field().String())
			if strings.HasPrefix(value, "/") && !strings.HasPrefix(value, "//") {
				return true
			}
			return v.Var(value, "url") == nil
		})
		instance = v
	})
	return instance
}

// IsSlug reports whether s is a URL-safe slug.
func IsSlug(s string) bool {
	return len(s) <= 120 && slugPattern.MatchString(s)
}

// Struct validates v against its `validate` tags and returns a *errs.ValidationError
// with one entry per failing field.
func Struct(v any) error {
	err := get().Struct(v)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return fmt.Errorf("validate %T: %w", v, err)
	}

	fields := make([]errs.FieldError, 0, len(validationErrors))
	for _, fe := range validationErrors {
		fields = append(fields, errs.FieldError{Field: fe.Field(), Error: message(fe)})
	}
	return &errs.ValidationError{Fields: fields}
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must not exceed %s characters", fe.Param())
		}
		return fmt.Sprintf("must not exceed %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "email":
		return "must be a valid email address"
	case "slug":
		return "must contain only lowercase letters, digits and hyphens"
	case "hexcolor":
		return "must be a hex color such as #1a2b3c"
	case "url", "urlorpath":
		return "must be a valid URL"
	case "dive":
		return "some items are invalid"
	default:
		if fe.Param() != "" {
			return fmt.Sprintf("failed %s:%s", fe.Tag(), fe.Param())
		}
		return fmt.Sprintf("failed %s", fe.Tag())
	}
}
