package domain

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

type Validation struct {
	validator *validator.Validate
}

func NewValidation() *Validation {
	v := validator.New()
	v.RegisterValidation("notblank", validateNotBlank)

	// report json field names rather than Go field names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &Validation{validator: v}
}

func validateNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// ValidateProduct checks the value rules of a product and returns the
// first violation as a validation *Error.
func (v *Validation) ValidateProduct(p *Product) error {
	err := v.validator.Struct(p)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err
	}

	fe := fieldErrs[0]
	switch fe.Tag() {
	case "notblank":
		return NewValidationError(fe.Field(), "%s must not be empty", fe.Field())
	case "gte":
		return NewValidationError(fe.Field(), "%s must be greater than or equal to %s", fe.Field(), fe.Param())
	default:
		return NewValidationError(fe.Field(), "%s failed on the '%s' tag", fe.Field(), fe.Tag())
	}
}
