package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate is a singleton validator instance
var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their YAML names so errors match the config file.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("yaml"), ",")
		switch name {
		case "-":
			return ""
		case "":
			return fld.Name
		}
		return name
	})
}

// Struct validates v against its `validate` struct tags and returns the
// first violation in a user-friendly format.
func Struct(v any) error {
	if errs := structErrors(v); len(errs) > 0 {
		return errs[0]
	}
	return nil
}

// structErrors returns every struct-tag violation of v.
func structErrors(v any) []error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return []error{err}
	}

	out := make([]error, 0, len(validationErrs))
	for _, e := range validationErrs {
		out = append(out, formatFieldError(e))
	}
	return out
}

// formatFieldError converts a validator error to a more user-friendly format.
// The field is reported by its namespace without the root struct name.
func formatFieldError(e validator.FieldError) error {
	field := trimRoot(e.Namespace())
	param := e.Param()

	switch e.Tag() {
	case "required":
		return fmt.Errorf("%s: field is required", field)
	case "required_if":
		return fmt.Errorf("%s: field is required when %s", field, param)
	case "min", "gte":
		return fmt.Errorf("%s: must be at least %s", field, param)
	case "max", "lte":
		return fmt.Errorf("%s: must not exceed %s", field, param)
	case "oneof":
		return fmt.Errorf("%s: %v must be one of [%s]", field, e.Value(), param)
	case "hostname_port":
		return fmt.Errorf("%s: %q is not a host:port address", field, e.Value())
	default:
		return fmt.Errorf("%s: validation failed (%s)", field, e.Tag())
	}
}

func trimRoot(namespace string) string {
	if _, rest, ok := strings.Cut(namespace, "."); ok {
		return rest
	}
	return namespace
}
