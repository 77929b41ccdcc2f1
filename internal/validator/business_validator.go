package validator

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/sinc-lab/institute-service/internal/models"
)

// contentKeyPattern matches dotted-path content keys, e.g. "home.description".
var contentKeyPattern = regexp.MustCompile(`^[a-z0-9_]+(\.[a-z0-9_]+)+$`)

// BusinessValidator handles business rule validation
type BusinessValidator struct {
	validate *validator.Validate
}

// NewBusinessValidator creates a new business validator
func NewBusinessValidator() *BusinessValidator {
	validate := validator.New()

	bv := &BusinessValidator{validate: validate}
	bv.registerBusinessRules()

	return bv
}

// Validate validates business rules for any struct
func (bv *BusinessValidator) Validate(s interface{}) ValidationErrors {
	err := bv.validate.Struct(s)
	if err != nil {
		return ToValidationErrors(err)
	}
	return nil
}

// ValidateCompleteRegistration validates the registration completion form.
func (bv *BusinessValidator) ValidateCompleteRegistration(req *CompleteRegistrationRequest) ValidationErrors {
	var errors ValidationErrors

	errors = append(errors, bv.Validate(req)...)

	// A staff claim without an institution cannot be verified by anyone.
	if req.IsStaff && strings.TrimSpace(valueOf(req.Institution)) == "" {
		errors = append(errors, ValidationError{
			Field:   "Institution",
			Message: "is required for staff registrations",
			Rule:    "staff_institution",
		})
	}

	return errors
}

// ValidateVerifyStaff validates a staff verification decision request.
func (bv *BusinessValidator) ValidateVerifyStaff(req *VerifyStaffRequest) ValidationErrors {
	return bv.Validate(req)
}

// ValidateLanguage validates a language selection request.
func (bv *BusinessValidator) ValidateLanguage(req *LanguageRequest) ValidationErrors {
	return bv.Validate(req)
}

// ValidateContentUpsert validates an admin content write.
func (bv *BusinessValidator) ValidateContentUpsert(req *ContentUpsertRequest) ValidationErrors {
	return bv.Validate(req)
}

// ValidateTranslationUpsert validates an admin translation write.
func (bv *BusinessValidator) ValidateTranslationUpsert(req *TranslationUpsertRequest) ValidationErrors {
	return bv.Validate(req)
}

// registerBusinessRules registers the closed-enum validators. Enumerations
// arrive as strings at the boundary and unrecognized values are rejected
// here rather than stored as-is.
func (bv *BusinessValidator) registerBusinessRules() {
	bv.validate.RegisterValidation("language_code", func(fl validator.FieldLevel) bool {
		_, ok := models.ParseLanguage(fl.Field().String())
		return ok
	})

	bv.validate.RegisterValidation("content_type", func(fl validator.FieldLevel) bool {
		_, ok := models.ParseContentType(fl.Field().String())
		return ok
	})

	bv.validate.RegisterValidation("content_key", func(fl validator.FieldLevel) bool {
		return contentKeyPattern.MatchString(fl.Field().String())
	})

	bv.validate.RegisterValidation("user_role", func(fl validator.FieldLevel) bool {
		_, ok := models.ParseUserRole(fl.Field().String())
		return ok
	})
}

func valueOf(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
