package flow

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/kbukum/fileflow/dag"
	apperrors "github.com/kbukum/fileflow/errors"
	"github.com/kbukum/fileflow/logger"
	"github.com/kbukum/fileflow/process"
	"github.com/kbukum/fileflow/taskdef"
	"github.com/kbukum/fileflow/util"
)

// Flow is a compiled flow file.
type Flow struct {
	Name  string
	Path  string
	Vars  map[string]string
	Tasks []*dag.Task
	// Registry holds every leaf task of the flow and its includes, keyed by
	// name, with its unexpanded output templates.
	Registry *taskdef.Registry
}

// templates describes a leaf task to a taskdef.Registry.
type templates struct {
	name string
	out  []string
}

func (t templates) TaskName() string          { return t.name }
func (t templates) OutputTemplates() []string { return t.out }

// Loader compiles flow files into tasks.
type Loader struct {
	runner  *process.Runner
	log     *logger.Logger
	environ func() []string
	stdout  io.Writer
	stderr  io.Writer
}

// Option configures a Loader.
type Option func(*Loader)

// WithRunner sets the runner that executes task commands.
func WithRunner(r *process.Runner) Option {
	return func(l *Loader) { l.runner = r }
}

// WithLogger sets the logger.
func WithLogger(log *logger.Logger) Option {
	return func(l *Loader) { l.log = log }
}

// WithEnviron replaces os.Environ as the base of every flow's variables.
func WithEnviron(fn func() []string) Option {
	return func(l *Loader) { l.environ = fn }
}

// WithOutput sets where command output is streamed.
func WithOutput(stdout, stderr io.Writer) Option {
	return func(l *Loader) { l.stdout, l.stderr = stdout, stderr }
}

// NewLoader creates a Loader. Commands run through bash by default.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{
		environ: os.Environ,
		stdout:  os.Stdout,
		stderr:  os.Stderr,
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.runner == nil {
		l.runner = process.NewRunner(process.Config{})
	}
	if l.log == nil {
		l.log = logger.GetGlobalLogger()
	}
	l.log = l.log.WithComponent("flow")
	return l
}

// Load reads the flow file at path along with everything it includes.
func (l *Loader) Load(path string) (*Flow, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	c := &compilation{
		Loader:   l,
		stack:    make(map[string]bool),
		resolved: make(map[string]bool),
		registry: taskdef.NewRegistry(),
	}
	f, err := c.load(abs, l.baseVars(), nil)
	if err != nil {
		return nil, err
	}
	f.Registry = c.registry
	return f, nil
}

func (l *Loader) baseVars() map[string]string {
	vars := make(map[string]string)
	for _, kv := range l.environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			vars[k] = v
		}
	}
	return vars
}

// compilation tracks one Load call.
type compilation struct {
	*Loader
	stack    map[string]bool // files on the current include path
	resolved map[string]bool // files already compiled
	registry *taskdef.Registry
}

func (c *compilation) load(path string, inherited map[string]string, chain []string) (*Flow, error) {
	chain = append(chain, path)
	if c.stack[path] {
		return nil, apperrors.InvalidInput("include", "circular include: "+strings.Join(chain, " -> "))
	}
	c.stack[path] = true
	defer delete(c.stack, path)

	file, err := ReadFile(path)
	if err != nil {
		return nil, err
	}

	vars := make(map[string]string, len(inherited)+len(file.Vars))
	for k, v := range inherited {
		vars[k] = v
	}
	for k, v := range file.Vars {
		vars[k] = v
	}

	name := file.Name
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	flow := &Flow{Name: name, Path: path, Vars: vars}

	for _, inc := range file.Include {
		incPath, err := resolveInclude(filepath.Dir(path), inc)
		if err != nil {
			return nil, err
		}
		if c.resolved[incPath] {
			continue
		}
		sub, err := c.load(incPath, vars, chain)
		if err != nil {
			return nil, err
		}
		if len(sub.Tasks) > 0 {
			flow.Tasks = append(flow.Tasks, dag.NewComposite(sub.Name, sub.Tasks...))
		}
	}

	for _, spec := range file.Tasks {
		t, err := c.compile(spec, vars)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		flow.Tasks = append(flow.Tasks, t)
	}

	c.resolved[path] = true
	c.log.Debug("flow loaded", logger.Fields("flow", name, "path", path, "tasks", len(flow.Tasks)))
	return flow, nil
}

// resolveInclude finds name relative to dir, trying the .yaml and .yml
// extensions when name has none.
func resolveInclude(dir, name string) (string, error) {
	candidates := []string{name}
	if filepath.Ext(name) == "" {
		candidates = append(candidates, name+".yaml", name+".yml")
	}
	for _, cand := range candidates {
		if !filepath.IsAbs(cand) {
			cand = filepath.Join(dir, cand)
		}
		if info, err := os.Stat(cand); err == nil && !info.IsDir() {
			return cand, nil
		}
	}
	return "", apperrors.NotFound("included flow", name)
}

func (c *compilation) compile(spec TaskSpec, vars map[string]string) (*dag.Task, error) {
	if spec.IsComposite() {
		children := make([]*dag.Task, 0, len(spec.Steps))
		for _, step := range spec.Steps {
			child, err := c.compile(step, vars)
			if err != nil {
				return nil, err
			}
			children = append(children, child)
		}
		return dag.NewComposite(spec.Name, children...), nil
	}

	in, err := expandAll(spec.In, vars)
	if err != nil {
		return nil, fmt.Errorf("task %s: %w", spec.Name, err)
	}
	out, err := expandAll(spec.Out, vars)
	if err != nil {
		return nil, fmt.Errorf("task %s: %w", spec.Name, err)
	}

	c.registry.Register(templates{name: spec.Name, out: spec.Out})

	var action dag.Action
	if strings.TrimSpace(spec.Run) != "" {
		script := RenderCommand(spec.Run, in, out, vars)
		action = c.shellAction(spec.Name, script, vars)
	}
	return dag.NewTask(spec.Name, in, out, action), nil
}

func expandAll(templates []string, vars map[string]string) ([]string, error) {
	out := make([]string, 0, len(templates))
	for _, tmpl := range templates {
		p, err := taskdef.Expand(tmpl, vars)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func (c *compilation) shellAction(task, script string, vars map[string]string) dag.Action {
	env := make([]string, 0, len(vars))
	for _, k := range util.SortedKeys(vars) {
		env = append(env, k+"="+vars[k])
	}
	runner, log := c.runner, c.log
	stdout, stderr := c.stdout, c.stderr
	return func(ctx context.Context) error {
		log.Debug("running command", logger.Fields(logger.FieldTask, task, "command", script))
		res, err := runner.RunScript(ctx, script, process.Command{
			Env:    env,
			Stdout: stdout,
			Stderr: stderr,
		})
		if err != nil {
			if tail := res.StderrTail(5); tail != "" {
				return fmt.Errorf("%w\n%s", err, tail)
			}
			return err
		}
		return nil
	}
}

// RenderCommand substitutes $in, $out, ${in[i]} and ${out[i]} in run, and
// any flow variable referenced as $NAME or ${NAME}. Other references are
// left for the shell.
func RenderCommand(run string, in, out []string, vars map[string]string) string {
	return os.Expand(run, func(name string) string {
		switch name {
		case "in":
			return strings.Join(in, " ")
		case "out":
			return strings.Join(out, " ")
		}
		if v, ok := indexed(name, "in", in); ok {
			return v
		}
		if v, ok := indexed(name, "out", out); ok {
			return v
		}
		if v, ok := vars[name]; ok {
			return v
		}
		return "${" + name + "}"
	})
}

// indexed resolves names of the form prefix[i].
func indexed(name, prefix string, values []string) (string, bool) {
	rest, ok := strings.CutPrefix(name, prefix+"[")
	if !ok || !strings.HasSuffix(rest, "]") {
		return "", false
	}
	i, err := strconv.Atoi(strings.TrimSuffix(rest, "]"))
	if err != nil || i < 0 || i >= len(values) {
		return "", false
	}
	return values[i], true
}
