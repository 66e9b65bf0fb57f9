package serverutils

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidateRequest checks the `validate` tags of req. Failures are
// validator.ValidationErrors, which ErrorHandlerMiddleware turns into a 400.
func ValidateRequest(req interface{}) error {
	return validate.Struct(req)
}

// describeValidation renders one line per failed field, e.g.
// "goal_type is required".
func describeValidation(errs validator.ValidationErrors) string {
	parts := make([]string, 0, len(errs))
	for _, fe := range errs {
		field := toSnake(fe.Field())
		switch fe.Tag() {
		case "required":
			parts = append(parts, fmt.Sprintf("%s is required", field))
		case "max":
			parts = append(parts, fmt.Sprintf("%s must be at most %s characters", field, fe.Param()))
		case "datetime":
			parts = append(parts, fmt.Sprintf("%s must match %s", field, fe.Param()))
		default:
			parts = append(parts, fmt.Sprintf("%s failed %s", field, fe.Tag()))
		}
	}
	return strings.Join(parts, "; ")
}

func toSnake(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}

func asValidationErrors(err error) (validator.ValidationErrors, bool) {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
