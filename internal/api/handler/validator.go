package handler

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/storefront/storefront-api/internal/core/domain"
)

// formRequest is implemented by request types whose field errors use the
// messages of a specific form.
type formRequest interface {
	form() domain.Form
}

// echoValidator wraps go-playground/validator so Echo can call c.Validate(req).
type echoValidator struct {
	v *validator.Validate
}

// NewValidator returns an echoValidator ready to be assigned to echo.Echo.Validator.
// Field errors are reported under the name the client submitted.
func NewValidator() *echoValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"form", "json"} {
			name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
			if name != "" && name != "-" {
				return name
			}
		}
		return f.Name
	})
	_ = v.RegisterValidation("email_address", func(fl validator.FieldLevel) bool {
		return domain.ValidEmail(fl.Field().String())
	})
	return &echoValidator{v: v}
}

// Validate satisfies the echo.Validator interface. Schema failures are
// returned as *domain.ValidationError.
func (ev *echoValidator) Validate(i any) error {
	err := ev.v.Struct(i)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}

	var form domain.Form
	if fr, ok := i.(formRequest); ok {
		form = fr.form()
	}
	verr := &domain.ValidationError{Form: form}
	for _, fe := range ve {
		verr.Fields = append(verr.Fields, domain.NewFieldError(form, domain.FormField(fe.Field()), fieldErrorKind(fe)))
	}
	return verr
}

// fieldErrorKind classifies a single validator failure.
func fieldErrorKind(fe validator.FieldError) domain.FieldErrorKind {
	switch fe.Tag() {
	case "required":
		return domain.KindRequired
	case "email", "email_address":
		return domain.KindInvalidFormat
	case "min":
		if fe.Kind() == reflect.String {
			return domain.KindTooShort
		}
		return domain.KindOutOfRange
	case "gt", "gte", "lt", "lte", "max":
		return domain.KindOutOfRange
	case "eqfield":
		return domain.KindMismatch
	default:
		return domain.KindInvalid
	}
}
