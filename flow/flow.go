package flow

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"go.yaml.in/yaml/v3"

	apperrors "github.com/kbukum/fileflow/errors"
	"github.com/kbukum/fileflow/validation"
)

//go:embed schema.json
var schemaSource string

const schemaURL = "flow.schema.json"

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
)

func flowSchema() *jsonschema.Schema {
	schemaOnce.Do(func() {
		schema = jsonschema.MustCompileString(schemaURL, schemaSource)
	})
	return schema
}

// File is a decoded flow file.
type File struct {
	Name    string     `yaml:"name"`
	Vars    Vars       `yaml:"vars"`
	Include []string   `yaml:"include"`
	Tasks   []TaskSpec `yaml:"tasks" validate:"dive"`
}

// TaskSpec declares one task. A task with Steps is a composite and
// declares nothing else.
type TaskSpec struct {
	Name  string     `yaml:"name" validate:"required"`
	In    Paths      `yaml:"in"`
	Out   Paths      `yaml:"out"`
	Run   string     `yaml:"run"`
	Steps []TaskSpec `yaml:"steps" validate:"dive"`
}

// IsComposite reports whether the task groups steps.
func (t TaskSpec) IsComposite() bool { return len(t.Steps) > 0 }

// Paths accepts either a single path or a list of paths.
type Paths []string

// UnmarshalYAML implements yaml.Unmarshaler.
func (p *Paths) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		*p = Paths{value.Value}
		return nil
	}
	var list []string
	if err := value.Decode(&list); err != nil {
		return err
	}
	*p = list
	return nil
}

// ReadFile reads and parses the flow file at path.
func ReadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.NotFound("flow file", path).WithCause(err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Parse validates data against the flow schema and decodes it.
func Parse(data []byte) (*File, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, apperrors.InvalidInput("flow", "not valid YAML").WithCause(err)
	}
	normalized, err := toJSONValue(doc)
	if err != nil {
		return nil, apperrors.InvalidInput("flow", "cannot be represented as JSON").WithCause(err)
	}
	if err := flowSchema().Validate(normalized); err != nil {
		return nil, apperrors.InvalidInput("flow", "does not match the flow schema").WithCause(err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, apperrors.InvalidInput("flow", "cannot decode").WithCause(err)
	}
	if err := validation.Validate(&f); err != nil {
		return nil, err
	}
	if err := validation.New().Unique("tasks.name", f.taskNames()).Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// toJSONValue converts a decoded YAML document into the value types the
// schema validator expects.
func toJSONValue(doc any) (any, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

func (f *File) taskNames() []string {
	var names []string
	var walk func([]TaskSpec)
	walk = func(specs []TaskSpec) {
		for _, s := range specs {
			names = append(names, s.Name)
			walk(s.Steps)
		}
	}
	walk(f.Tasks)
	return names
}

// Vars maps variable names to values. Scalars of any YAML type are kept
// as written.
type Vars map[string]string

// UnmarshalYAML implements yaml.Unmarshaler.
func (v *Vars) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: vars must be a mapping", value.Line)
	}
	out := make(Vars, len(value.Content)/2)
	for i := 0; i+1 < len(value.Content); i += 2 {
		key, val := value.Content[i], value.Content[i+1]
		if val.Kind != yaml.ScalarNode {
			return fmt.Errorf("line %d: var %s must be a scalar", val.Line, key.Value)
		}
		out[key.Value] = val.Value
	}
	*v = out
	return nil
}
