package taskdef

import (
	"regexp"
	"strings"

	apperrors "github.com/kbukum/fileflow/errors"
)

var placeholder = regexp.MustCompile(`\{([^{}]+)\}`)

// Expand replaces every {KEY} in tmpl with config[KEY]. An unknown key is a
// MISSING_FIELD error naming it.
func Expand(tmpl string, config map[string]string) (string, error) {
	var missing string
	out := placeholder.ReplaceAllStringFunc(tmpl, func(m string) string {
		key := m[1 : len(m)-1]
		v, ok := config[key]
		if !ok {
			if missing == "" {
				missing = key
			}
			return m
		}
		return v
	})
	if missing != "" {
		return "", apperrors.MissingField(missing).WithDetail("template", tmpl)
	}
	return out, nil
}

// Pattern returns an anchored regular expression matching any path tmpl
// could expand to.
func Pattern(tmpl string) *regexp.Regexp {
	parts := placeholder.Split(tmpl, -1)
	for i, p := range parts {
		parts[i] = regexp.QuoteMeta(p)
	}
	return regexp.MustCompile(`\A` + strings.Join(parts, ".+") + `\z`)
}
