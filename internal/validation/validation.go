package validation

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()

	// Report field names from json tags so errors match the wire format.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// Validate checks a struct against its validate tags and returns a
// single human-readable error for the first failing field.
func Validate(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	if _, ok := err.(*validator.InvalidValidationError); ok {
		return fmt.Errorf("invalid validation target: %w", err)
	}

	validationErrors := err.(validator.ValidationErrors)
	if len(validationErrors) == 0 {
		return err
	}

	first := validationErrors[0]
	switch first.Tag() {
	case "required":
		return fmt.Errorf("field '%s' is required", first.Field())
	case "email":
		return fmt.Errorf("field '%s' must be a valid email address", first.Field())
	case "oneof":
		return fmt.Errorf("field '%s' must be one of: %s", first.Field(), first.Param())
	case "min":
		return fmt.Errorf("field '%s' must be at least %s characters long", first.Field(), first.Param())
	case "max":
		return fmt.Errorf("field '%s' must be at most %s characters long", first.Field(), first.Param())
	default:
		return fmt.Errorf("field '%s' failed validation on '%s'", first.Field(), first.Tag())
	}
}
