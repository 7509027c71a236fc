package taskdef

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/kbukum/fileflow/dag"
	apperrors "github.com/kbukum/fileflow/errors"
	"github.com/kbukum/fileflow/validation"
)

// Env is the context every task function receives.
type Env[B any] struct {
	Base   B
	Config map[string]string
}

// Func is a task body. params has one field per declared file, holding the
// expanded path.
type Func[B, P any] func(ctx context.Context, env Env[B], params *P) error

type direction int

const (
	input direction = iota
	output
)

type fileTemplate struct {
	name     string
	template string
	dir      direction
	field    int
}

// Definition is a validated task template.
type Definition[B, P any] struct {
	Name  string            `validate:"required"`
	Files map[string]string `validate:"dive,keys,required,endkeys,required"`
	Run   Func[B, P]        `validate:"required"`

	files []fileTemplate
}

// Define validates a task template. Every declared file name must match a
// string field of P tagged `file:"<name>"` and every tagged field must be
// declared.
func Define[B, P any](name string, files map[string]string, run Func[B, P]) (*Definition[B, P], error) {
	d := &Definition[B, P]{Name: name, Files: files, Run: run}
	if err := validation.Validate(d); err != nil {
		return nil, err
	}

	parsed, err := parseFiles(files)
	if err != nil {
		return nil, fmt.Errorf("task %s: %w", name, err)
	}
	fields, err := fileFields(reflect.TypeOf((*P)(nil)).Elem())
	if err != nil {
		return nil, fmt.Errorf("task %s: %w", name, err)
	}

	for i, f := range parsed {
		idx, ok := fields[f.name]
		if !ok {
			return nil, apperrors.InvalidInput(f.name, fmt.Sprintf("task %s declares file %q but its parameters have no field tagged file:%q", name, f.name, f.name))
		}
		parsed[i].field = idx
		delete(fields, f.name)
	}
	if len(fields) > 0 {
		undeclared := make([]string, 0, len(fields))
		for tag := range fields {
			undeclared = append(undeclared, tag)
		}
		sort.Strings(undeclared)
		return nil, apperrors.InvalidInput(undeclared[0], fmt.Sprintf("task %s has parameters with no file declaration: %s", name, strings.Join(undeclared, ", ")))
	}

	d.files = parsed
	return d, nil
}

// MustDefine is Define that panics on error, for package-level definitions.
func MustDefine[B, P any](name string, files map[string]string, run Func[B, P]) *Definition[B, P] {
	d, err := Define(name, files, run)
	if err != nil {
		panic(err)
	}
	return d
}

// parseFiles classifies file keys. Keys are processed in lexical order so
// the resulting task footprint is stable.
func parseFiles(files map[string]string) ([]fileTemplate, error) {
	keys := make([]string, 0, len(files))
	for k := range files {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var parsed []fileTemplate
	for _, key := range keys {
		f := fileTemplate{template: files[key]}
		switch {
		case strings.HasPrefix(key, "in| "):
			f.name, f.dir = strings.TrimPrefix(key, "in| "), input
		case strings.HasPrefix(key, "in "):
			f.name, f.dir = strings.TrimPrefix(key, "in "), input
		case strings.HasPrefix(key, "out "):
			f.name, f.dir = strings.TrimPrefix(key, "out "), output
		case key == "base" || key == "config":
			continue
		default:
			return nil, apperrors.InvalidInput(key, "unexpected files key "+key)
		}
		f.name = strings.TrimSpace(f.name)
		if f.name == "" {
			return nil, apperrors.InvalidInput(key, "file key has no name")
		}
		parsed = append(parsed, f)
	}
	return parsed, nil
}

func fileFields(t reflect.Type) (map[string]int, error) {
	if t.Kind() != reflect.Struct {
		return nil, apperrors.InvalidInput("params", "parameters must be a struct, got "+t.Kind().String())
	}
	fields := make(map[string]int)
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		tag, ok := sf.Tag.Lookup("file")
		if !ok {
			continue
		}
		if sf.Type.Kind() != reflect.String || !sf.IsExported() {
			return nil, apperrors.InvalidInput(sf.Name, "file field must be an exported string")
		}
		if _, dup := fields[tag]; dup {
			return nil, apperrors.InvalidInput(sf.Name, fmt.Sprintf("file tag %q used twice", tag))
		}
		fields[tag] = i
	}
	return fields, nil
}

// TaskName returns the definition name.
func (d *Definition[B, P]) TaskName() string { return d.Name }

// OutputTemplates returns the unexpanded output templates.
func (d *Definition[B, P]) OutputTemplates() []string {
	var out []string
	for _, f := range d.files {
		if f.dir == output {
			out = append(out, f.template)
		}
	}
	return out
}

// Instantiate expands every template against config and returns the task.
func (d *Definition[B, P]) Instantiate(base B, config map[string]string) (*dag.Task, error) {
	var (
		params   P
		requires []string
		provides []string
	)
	pv := reflect.ValueOf(&params).Elem()

	for _, f := range d.files {
		path, err := Expand(f.template, config)
		if err != nil {
			return nil, fmt.Errorf("task %s: file %s: %w", d.Name, f.name, err)
		}
		pv.Field(f.field).SetString(path)
		if f.dir == input {
			requires = append(requires, path)
		} else {
			provides = append(provides, path)
		}
	}

	env := Env[B]{Base: base, Config: config}
	run := d.Run
	return dag.NewTask(d.Name, requires, provides, func(ctx context.Context) error {
		p := params
		return run(ctx, env, &p)
	}), nil
}
