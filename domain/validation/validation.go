// Package validation wraps go-playground/validator so that domain packages get
// field errors keyed by JSON name with human-readable messages.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/example/task-tracker-api/domain/apperror"
	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// Struct validates s against its `validate` tags. The returned map is empty
// (never nil) when s is valid.
func Struct(s any) apperror.FieldErrors {
	details := apperror.FieldErrors{}

	err := validate.Struct(s)
	if err == nil {
		return details
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		details.Add("_schema", err.Error())
		return details
	}
	for _, fe := range verrs {
		details.Add(fe.Field(), message(fe))
	}
	return details
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "Missing data for required field."
	case "min":
		return fmt.Sprintf("Length must be at least %s.", fe.Param())
	case "max":
		return fmt.Sprintf("Length must be at most %s.", fe.Param())
	case "email":
		return "Not a valid email address."
	default:
		return fmt.Sprintf("Failed %q validation.", fe.Tag())
	}
}
