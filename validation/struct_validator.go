package validation

import (
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/kbukum/fileflow/errors"
)

var (
	tags     *validator.Validate
	tagsOnce sync.Once
)

// structValidator is shared; validator caches struct metadata per type.
func structValidator() *validator.Validate {
	tagsOnce.Do(func() {
		tags = validator.New(validator.WithRequiredStructEnabled())
		tags.RegisterTagNameFunc(fieldName)
	})
	return tags
}

// fieldName reports a field under the key a flow file or task definition
// spells it with, falling back to the snake_case Go name.
func fieldName(fld reflect.StructField) string {
	for _, tag := range []string{"yaml", "json"} {
		name, _, _ := strings.Cut(fld.Tag.Get(tag), ",")
		if name != "" && name != "-" {
			return name
		}
	}
	return snakeCase(fld.Name)
}

// Validate checks s against its `validate` struct tags. Every violation is
// collected into one INVALID_INPUT error whose "fields" detail lists them.
func Validate(s any) error {
	err := structValidator().Struct(s)
	if err == nil {
		return nil
	}
	violations, ok := err.(validator.ValidationErrors)
	if !ok {
		return errors.Validation("validation failed").WithCause(err)
	}

	v := New()
	for _, fe := range violations {
		// Drop the root type name: "Definition.files[in x]" -> "files[in x]".
		_, path, _ := strings.Cut(fe.Namespace(), ".")
		v.AddError(path, describe(fe))
	}
	return v.Validate()
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return "must be one of: " + fe.Param()
	case "min":
		return "must be at least " + fe.Param()
	default:
		return "fails the " + fe.Tag() + " rule"
	}
}

func snakeCase(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}
