// Package validation checks request parameters against struct tags.
//
// It wraps go-playground/validator and turns its errors into field level
// messages suitable for API responses.
//
// # Usage Example
//
//	type logsQuery struct {
//	    ID   string `param:"id" validate:"required,container_ref"`
//	    Tail string `query:"tail"`
//	}
//
//	v := validation.New()
//	result := v.Check(&q)
//	if !result.Valid {
//	    for _, err := range result.Errors {
//	        fmt.Printf("%s: %s\n", err.Field, err.Message)
//	    }
//	}
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// containerRef matches container ids and names as the engine accepts them.
var containerRef = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9_.-]{0,255}$`)

// Validator validates tagged structs.
type Validator struct {
	structValidator *validator.Validate
}

// ValidationError represents a single validation error with field-level details.
type ValidationError struct {
	// Field is the name of the field that failed validation
	Field string `json:"field"`

	// Message describes why the validation failed
	Message string `json:"message"`

	// Value is the invalid value that caused the error (optional)
	Value interface{} `json:"value,omitempty"`
}

// ValidationResult represents the complete result of a validation operation.
type ValidationResult struct {
	// Valid is true if validation passed, false otherwise
	Valid bool `json:"valid"`

	// Errors contains all validation errors found (empty if Valid is true)
	Errors []ValidationError `json:"errors,omitempty"`
}

// Error joins the messages of all errors.
func (r *ValidationResult) Error() string {
	parts := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		parts = append(parts, fmt.Sprintf("%s: %s", e.Field, e.Message))
	}
	return strings.Join(parts, "; ")
}

// New creates a Validator with the container_ref tag registered.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("container_ref", func(fl validator.FieldLevel) bool {
		return containerRef.MatchString(fl.Field().String())
	})
	v.RegisterTagNameFunc(fieldName)
	return &Validator{structValidator: v}
}

// fieldName reports the query or path parameter name of a field.
func fieldName(f reflect.StructField) string {
	for _, tag := range []string{"query", "param", "json"} {
		if name, _, _ := strings.Cut(f.Tag.Get(tag), ","); name != "" && name != "-" {
			return name
		}
	}
	return f.Name
}

// Check validates s and returns every violated constraint.
func (v *Validator) Check(s interface{}) *ValidationResult {
	err := v.structValidator.Struct(s)
	if err == nil {
		return &ValidationResult{Valid: true}
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return &ValidationResult{
			Errors: []ValidationError{{Field: "request", Message: err.Error()}},
		}
	}

	result := &ValidationResult{}
	for _, fe := range fieldErrs {
		result.Errors = append(result.Errors, ValidationError{
			Field:   fe.Field(),
			Message: message(fe),
			Value:   fe.Value(),
		})
	}
	return result
}

// Validate implements echo.Validator. The returned error is a
// *ValidationResult.
func (v *Validator) Validate(s interface{}) error {
	if result := v.Check(s); !result.Valid {
		return result
	}
	return nil
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", strings.Join(strings.Fields(fe.Param()), ", "))
	case "container_ref":
		return "must be a container id or name"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	default:
		return fmt.Sprintf("failed %q validation", fe.Tag())
	}
}
