package validation

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/wandero/tourbook/internal/errs"
)

// Validatable is implemented by request payload types that know how to
// validate themselves. The usual pattern: a struct with `validate` tags and
// a Validate method running validator.Struct on itself, returning
// validator.ValidationErrors (or CustomValidationErrors for rules tags
// cannot express).
type Validatable interface {
	Validate() error
}

// CustomValidationError is a single validation issue on a specific field
// that cannot be expressed through struct tags.
type CustomValidationError struct {
	Field   string
	Message string
}

// CustomValidationErrors satisfies error so custom checks plug into the
// same extraction path as tag validation.
type CustomValidationErrors []CustomValidationError

func (c CustomValidationErrors) Error() string {
	return "Validation failed"
}

// BindAndValidate binds the request into payload and validates it.
//
// payload must be a pointer so echo's Bind can populate it. On failure a
// *errs.HTTPError (400) carrying field errors is returned for the global
// error handler to write.
func BindAndValidate(c echo.Context, payload Validatable) error {
	if err := c.Bind(payload); err != nil {
		return errs.NewBadRequestError("Request body could not be parsed", "", nil)
	}

	if msg, fieldErrors := validateStruct(payload); fieldErrors != nil {
		return errs.NewBadRequestError(msg, "", fieldErrors)
	}

	return nil
}

func validateStruct(v Validatable) (string, []errs.FieldError) {
	if err := v.Validate(); err != nil {
		return extractValidationError(err)
	}
	return "", nil
}

// extractValidationError converts validator (or custom) errors into
// user-friendly field errors.
func extractValidationError(err error) (string, []errs.FieldError) {
	var fieldErrors []errs.FieldError

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		customErrors, isCustom := err.(CustomValidationErrors)
		if !isCustom {
			return "Validation failed", []errs.FieldError{{Field: "", Error: err.Error()}}
		}
		for _, ce := range customErrors {
			fieldErrors = append(fieldErrors, errs.FieldError{
				Field: ce.Field,
				Error: ce.Message,
			})
		}
	}

	for _, ve := range validationErrors {
		field := strings.ToLower(ve.Field())
		var msg string

		switch ve.Tag() {
		case "required":
			msg = "is required"

		case "min":
			if ve.Type().Kind() == reflect.String {
				msg = fmt.Sprintf("must be at least %s characters", ve.Param())
			} else {
				msg = fmt.Sprintf("must be at least %s", ve.Param())
			}

		case "max":
			if ve.Type().Kind() == reflect.String {
				msg = fmt.Sprintf("must not exceed %s characters", ve.Param())
			} else {
				msg = fmt.Sprintf("must not exceed %s", ve.Param())
			}

		case "oneof":
			msg = fmt.Sprintf("must be one of: %s", ve.Param())

		case "email":
			msg = "must be a valid email address"

		case "uuid":
			msg = "must be a valid UUID"

		case "eqfield":
			msg = fmt.Sprintf("must match %s", strings.ToLower(ve.Param()))

		case "gte":
			msg = fmt.Sprintf("must be at least %s", ve.Param())

		case "lte":
			msg = fmt.Sprintf("must not exceed %s", ve.Param())

		case "dive":
			msg = "some items are invalid"

		default:
			if ve.Param() != "" {
				msg = fmt.Sprintf("%s: %s:%s", field, ve.Tag(), ve.Param())
			} else {
				msg = fmt.Sprintf("%s: %s", field, ve.Tag())
			}
		}

		fieldErrors = append(fieldErrors, errs.FieldError{
			Field: field,
			Error: msg,
		})
	}

	return "Validation failed", fieldErrors
}
