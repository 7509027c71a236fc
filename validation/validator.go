package validation

import (
	"fmt"
	"strings"

	"github.com/kbukum/fileflow/errors"
)

// FieldError is one violated rule.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Validator collects rule violations for the checks struct tags cannot
// express: cross-field conditions on config sections and uniqueness of
// task names. Rules chain and Validate reports them together.
type Validator struct {
	errors []FieldError
}

// New creates an empty Validator.
func New() *Validator {
	return &Validator{}
}

// AddError records a violation of field.
func (v *Validator) AddError(field, message string) {
	v.errors = append(v.errors, FieldError{Field: field, Message: message})
}

// Validate returns nil when no rule was violated, otherwise an
// INVALID_INPUT error listing every violation in the order recorded.
// The return type is error so a clean validator compares equal to nil.
func (v *Validator) Validate() error {
	if len(v.errors) == 0 {
		return nil
	}
	messages := make([]string, len(v.errors))
	for i, e := range v.errors {
		messages[i] = e.Field + ": " + e.Message
	}
	return errors.Validation(strings.Join(messages, "; ")).
		WithDetail("fields", append([]FieldError(nil), v.errors...))
}

// Required rejects an empty or blank value.
func (v *Validator) Required(field, value string) *Validator {
	if strings.TrimSpace(value) == "" {
		v.AddError(field, "is required")
	}
	return v
}

// OneOf rejects a value outside allowed.
func (v *Validator) OneOf(field, value string, allowed ...string) *Validator {
	for _, a := range allowed {
		if value == a {
			return v
		}
	}
	v.AddError(field, fmt.Sprintf("must be one of: %s (got: %q)", strings.Join(allowed, ", "), value))
	return v
}

// Between rejects a value outside [lo, hi].
func (v *Validator) Between(field string, value, lo, hi float64) *Validator {
	if value < lo || value > hi {
		v.AddError(field, fmt.Sprintf("must be between %v and %v (got: %v)", lo, hi, value))
	}
	return v
}

// Unique rejects every repeated value.
func (v *Validator) Unique(field string, values []string) *Validator {
	seen := make(map[string]bool, len(values))
	for _, val := range values {
		if seen[val] {
			v.AddError(field, fmt.Sprintf("duplicate entry %q", val))
			continue
		}
		seen[val] = true
	}
	return v
}

// Check records message against field unless ok holds.
func (v *Validator) Check(ok bool, field, message string) *Validator {
	if !ok {
		v.AddError(field, message)
	}
	return v
}
