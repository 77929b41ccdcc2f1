package validator

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// ValidationError represents one failed field.
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
	Rule    string      `json:"rule,omitempty"`
}

type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "validation failed"
	}
	if len(ve) == 1 {
		return fmt.Sprintf("validation failed: %s %s", ve[0].Field, ve[0].Message)
	}
	return fmt.Sprintf("validation failed: %d field errors", len(ve))
}

// ToValidationErrors converts go-playground validator errors.
func ToValidationErrors(err error) ValidationErrors {
	var errors ValidationErrors
	if verrs, ok := err.(validator.ValidationErrors); ok {
		for _, verr := range verrs {
			errors = append(errors, ValidationError{
				Field:   verr.Field(),
				Message: errorMessage(verr),
				Value:   verr.Value(),
				Rule:    verr.Tag(),
			})
		}
		return errors
	}
	return ValidationErrors{{Message: err.Error()}}
}

func errorMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "max":
		return fmt.Sprintf("must be at most %s characters", err.Param())
	case "min":
		return fmt.Sprintf("must be at least %s characters", err.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", err.Param())
	case "language_code":
		return "is not a supported language code"
	case "content_type":
		return "is not a recognized content type"
	case "content_key":
		return "must be a dotted content path"
	default:
		return fmt.Sprintf("failed %s validation", err.Tag())
	}
}

// Validator bundles struct validation and business rules.
type Validator struct {
	business *BusinessValidator
}

func New() *Validator {
	return &Validator{
		business: NewBusinessValidator(),
	}
}

// Validate validates a struct's tags.
func (v *Validator) Validate(s interface{}) ValidationErrors {
	return v.business.Validate(s)
}

// GetBusinessValidator returns the business validator
func (v *Validator) GetBusinessValidator() *BusinessValidator {
	return v.business
}
