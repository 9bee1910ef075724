package dto

import (
	"errors"
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// ErrValidation is returned when a request fails its struct tags.
var ErrValidation = errors.New("validation failed")

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())

		// Registration only fails on an empty tag or a nil func.
		_ = validate.RegisterValidation("positive_amount", func(fl validator.FieldLevel) bool {
			s := fl.Field().String()
			if s == "" {
				return true
			}

			d, err := decimal.NewFromString(s)
			if err != nil {
				return false
			}

			return d.IsPositive()
		})
	})

	return validate
}

// Validate checks a request against its validate tags and reports the first
// failing field.
func Validate(req any) error {
	err := getValidator().Struct(req)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]

		switch fe.Tag() {
		case "required", "required_without":
			return fmt.Errorf("%w: %s is required", ErrValidation, fe.Namespace())
		case "positive_amount":
			return fmt.Errorf("%w: %s must be a positive decimal", ErrValidation, fe.Namespace())
		case "oneof":
			return fmt.Errorf("%w: %s must be one of [%s]", ErrValidation, fe.Namespace(), fe.Param())
		case "max":
			return fmt.Errorf("%w: %s must be at most %s", ErrValidation, fe.Namespace(), fe.Param())
		case "min":
			return fmt.Errorf("%w: %s must have at least %s item(s)", ErrValidation, fe.Namespace(), fe.Param())
		}

		return fmt.Errorf("%w: %s failed %q", ErrValidation, fe.Namespace(), fe.Tag())
	}

	return fmt.Errorf("%w: %w", ErrValidation, err)
}
