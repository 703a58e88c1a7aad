package validation

import (
	"fmt"
	"strings"

	"github.com/kbukum/textforge/errors"
)

// Validator collects validation errors.
type Validator struct {
	errors []FieldError
}

// FieldError represents a validation error for a specific field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// New creates a new Validator.
func New() *Validator {
	return &Validator{
		errors: make([]FieldError, 0),
	}
}

// AddError adds a field error.
func (v *Validator) AddError(field, message string) {
	v.errors = append(v.errors, FieldError{
		Field:   field,
		Message: message,
	})
}

// HasErrors returns true if there are validation errors.
func (v *Validator) HasErrors() bool {
	return len(v.errors) > 0
}

// Errors returns all validation errors.
func (v *Validator) Errors() []FieldError {
	return v.errors
}

// Validate returns an AppError if there are validation errors, nil otherwise.
func (v *Validator) Validate() *errors.AppError {
	if !v.HasErrors() {
		return nil
	}

	messages := make([]string, len(v.errors))
	fields := make([]any, len(v.errors))
	for i, e := range v.errors {
		messages[i] = fmt.Sprintf("%s: %s", e.Field, e.Message)
		fields[i] = map[string]any{"field": e.Field, "message": e.Message}
	}

	return errors.Validation(strings.Join(messages, "; ")).WithDetail("fields", fields)
}

// Check adds message for field when ok is false.
func (v *Validator) Check(ok bool, field, message string) *Validator {
	if !ok {
		v.AddError(field, message)
	}
	return v
}

// Required checks if a string is non-empty.
func (v *Validator) Required(field, value string) *Validator {
	if strings.TrimSpace(value) == "" {
		v.AddError(field, "is required")
	}
	return v
}

// Positive checks that an integer is greater than zero.
func (v *Validator) Positive(field string, value int) *Validator {
	if value <= 0 {
		v.AddError(field, fmt.Sprintf("must be positive (got: %d)", value))
	}
	return v
}

// OneOf checks that value is one of allowed.
func (v *Validator) OneOf(field, value string, allowed []string) *Validator {
	for _, a := range allowed {
		if value == a {
			return v
		}
	}
	v.AddError(field, fmt.Sprintf("must be one of [%s] (got: %s)", strings.Join(allowed, ", "), value))
	return v
}

// Merge adds the field errors of err under prefix. Errors produced by this
// package keep their fields; any other error is recorded against prefix.
func (v *Validator) Merge(prefix string, err error) *Validator {
	if err == nil {
		return v
	}
	appErr, ok := errors.AsAppError(err)
	if ok {
		if fields, ok := appErr.Details["fields"].([]any); ok {
			for _, f := range fields {
				m, _ := f.(map[string]any)
				field, _ := m["field"].(string)
				msg, _ := m["message"].(string)
				v.AddError(join(prefix, field), msg)
			}
			return v
		}
		if field, ok := appErr.Details["field"].(string); ok {
			v.AddError(join(prefix, strings.TrimPrefix(field, prefix+".")), appErr.Message)
			return v
		}
	}
	v.AddError(prefix, err.Error())
	return v
}

func join(prefix, field string) string {
	switch {
	case prefix == "":
		return field
	case field == "":
		return prefix
	default:
		return prefix + "." + field
	}
}
