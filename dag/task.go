package dag

import (
	"context"
	"fmt"
	"sync"
)

// Action is the work a leaf task performs.
type Action func(ctx context.Context) error

// Task is one processing step. Leaf tasks declare their files; composite
// tasks derive them from their children on first inspection.
type Task struct {
	name     string
	requires *FileSet
	provides *FileSet
	children []*Task
	action   Action

	inspectOnce sync.Once
	inspectErr  error
	internal    *Graph
}

// NewTask creates a leaf task.
func NewTask(name string, requires, provides []string, action Action) *Task {
	return &Task{
		name:     name,
		requires: NewFileSet(requires...),
		provides: NewFileSet(provides...),
		action:   action,
	}
}

// NewComposite creates a task whose footprint is the sources and sinks of
// the graph over children. The children slice is copied.
func NewComposite(name string, children ...*Task) *Task {
	return &Task{
		name:     name,
		children: append([]*Task(nil), children...),
	}
}

// Name returns the task name.
func (t *Task) Name() string { return t.name }

// IsComposite reports whether the task wraps children.
func (t *Task) IsComposite() bool { return len(t.children) > 0 }

// Children returns the nested tasks in declaration order.
func (t *Task) Children() []*Task { return t.children }

// Action returns the leaf action, or nil for a composite.
func (t *Task) Action() Action { return t.action }

// Inspect derives a composite's requires and provides from its internal
// graph, which must be orderable. It runs once; later calls return the
// first result. Leaf tasks have nothing to derive.
func (t *Task) Inspect() error {
	if !t.IsComposite() {
		return nil
	}
	t.inspectOnce.Do(func() {
		g, err := Build(t.children)
		if err == nil {
			_, err = Order(g)
		}
		if err != nil {
			t.inspectErr = fmt.Errorf("task %s: %w", t.name, err)
			return
		}
		requires := NewFileSet()
		for _, v := range g.Sources() {
			if !v.IsTask() {
				requires.Add(v.File)
			}
		}
		provides := NewFileSet()
		for _, v := range g.Sinks() {
			provides.Add(v.File)
		}
		t.internal = g
		t.requires = requires
		t.provides = provides
	})
	return t.inspectErr
}

// Requires returns the files the task reads. For a composite whose
// inspection failed it returns nil.
func (t *Task) Requires() []string {
	if t.Inspect() != nil {
		return nil
	}
	return t.requires.Values()
}

// Provides returns the files the task writes. For a composite whose
// inspection failed it returns nil.
func (t *Task) Provides() []string {
	if t.Inspect() != nil {
		return nil
	}
	return t.provides.Values()
}

// InternalGraph returns the graph over a composite's children, or nil for
// a leaf task.
func (t *Task) InternalGraph() (*Graph, error) {
	if err := t.Inspect(); err != nil {
		return nil, err
	}
	return t.internal, nil
}

func (t *Task) String() string { return "task:" + t.name }
