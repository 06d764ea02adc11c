// Package form validates inbound request shapes and reports violations as
// field codes the UI can localize.
package form

import (
	"reflect"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return field.Name
		}
		return name
	})
	_ = v.RegisterValidation("notblank", notBlank)
	_ = v.RegisterValidation("password", strongPassword)
	return v
}

// RegisterStruct adds a cross-field rule for the given struct types. It must
// be called during package initialization.
func RegisterStruct(rule validator.StructLevelFunc, types ...any) {
	validate.RegisterStructValidation(rule, types...)
}

// Validate returns a field-to-code map describing every violation in v, or
// nil when v is valid.
func Validate(v any) map[string]string {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	violations, ok := err.(validator.ValidationErrors)
	if !ok {
		return map[string]string{"form": "invalid"}
	}

	fields := make(map[string]string, len(violations))
	for _, violation := range violations {
		name := fieldPath(violation.Namespace())
		if _, exists := fields[name]; exists {
			continue
		}
		fields[name] = code(violation.Tag())
	}
	return fields
}

func fieldPath(namespace string) string {
	if idx := strings.IndexByte(namespace, '.'); idx >= 0 {
		return namespace[idx+1:]
	}
	return namespace
}

func code(tag string) string {
	switch tag {
	case "required", "notblank":
		return "required"
	case "email":
		return "email"
	case "min":
		return "too_short"
	case "max":
		return "too_long"
	case "gte", "lte", "gt", "lt":
		return "out_of_range"
	case "oneof":
		return "invalid_choice"
	case "alphanum":
		return "invalid_format"
	case "datetime":
		return "invalid_date"
	case "password":
		return "password_weak"
	case "eqfield":
		return "password_mismatch"
	case "nefield":
		return "password_unchanged"
	default:
		return tag
	}
}

func notBlank(fl validator.FieldLevel) bool {
	field := fl.Field()
	if field.Kind() != reflect.String {
		return true
	}
	return strings.TrimSpace(field.String()) != ""
}

// StrongPassword reports whether password has at least eight characters and
// contains a letter, a digit and a special character.
func StrongPassword(password string) bool {
	if len([]rune(password)) < 8 {
		return false
	}

	var letter, digit, special bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			letter = true
		case unicode.IsDigit(r):
			digit = true
		case !unicode.IsSpace(r):
			special = true
		}
	}
	return letter && digit && special
}

func strongPassword(fl validator.FieldLevel) bool {
	return StrongPassword(fl.Field().String())
}
