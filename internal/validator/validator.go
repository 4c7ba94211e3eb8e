package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/SAP-F-2025/auth-portal/internal/models"
)

// Field-level messages. They double as translation keys.
const (
	MsgInvalidEmail     = "Please enter a valid email address"
	MsgPasswordTooShort = "Password must be at least 6 characters"
	MsgUsernameTooShort = "Username must be at least 3 characters"
	MsgRoleRequired     = "Please select a role"
	MsgResetLinkInvalid = "This reset link is invalid or has expired. Please request a new one."
)

// ValidationError represents a single field failure
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

// ByField indexes the first message per field for rendering next to inputs
func (ve ValidationErrors) ByField() map[string]string {
	out := make(map[string]string, len(ve))
	for _, e := range ve {
		if _, ok := out[e.Field]; !ok {
			out[e.Field] = e.Message
		}
	}
	return out
}

// Validator checks the auth forms
type Validator struct {
	validate *validator.Validate
}

// New creates a validator with the auth form rules registered
func New() *Validator {
	validate := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their form name so messages line up with the inputs
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	v := &Validator{validate: validate}
	v.registerRules()
	return v
}

func (v *Validator) registerRules() {
	v.validate.RegisterValidation("user_role", func(fl validator.FieldLevel) bool {
		return models.UserRole(fl.Field().String()).IsValid()
	})
}

// Validate validates any struct carrying validate tags
func (v *Validator) Validate(s interface{}) ValidationErrors {
	err := v.validate.Struct(s)
	if err != nil {
		return ToValidationErrors(err)
	}
	return nil
}

// ToValidationErrors converts validator errors into field messages
func ToValidationErrors(err error) ValidationErrors {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return ValidationErrors{{Field: "form", Message: err.Error()}}
	}

	out := make(ValidationErrors, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, ValidationError{
			Field:   fe.Field(),
			Message: getErrorMessage(fe),
			Value:   redact(fe),
			Rule:    fe.Tag(),
		})
	}
	return out
}

// getErrorMessage returns user-friendly error messages
func getErrorMessage(fe validator.FieldError) string {
	switch fe.Field() {
	case "email":
		return MsgInvalidEmail
	case "password":
		return MsgPasswordTooShort
	case "username":
		return MsgUsernameTooShort
	case "role":
		return MsgRoleRequired
	case "token":
		return MsgResetLinkInvalid
	}

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
	case "email":
		return MsgInvalidEmail
	case "user_role":
		return MsgRoleRequired
	default:
		return fmt.Sprintf("validation failed for rule '%s'", fe.Tag())
	}
}

func redact(fe validator.FieldError) interface{} {
	if fe.Field() == "password" || fe.Field() == "token" {
		return nil
	}
	return fe.Value()
}
