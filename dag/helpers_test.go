package dag

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kbukum/fileflow/logger"
	"github.com/kbukum/fileflow/probe"
	"github.com/kbukum/fileflow/resilience"
	"github.com/kbukum/fileflow/storage"
	"github.com/kbukum/fileflow/storage/memory"
)

// world is an in-memory file system with a clock that only moves forward.
type world struct {
	t     *testing.T
	files *memory.Storage
	now   time.Time
	ran   []string
}

func newWorld(t *testing.T) *world {
	t.Helper()
	return &world{t: t, files: memory.New(), now: time.Unix(1700000000, 0)}
}

func (w *world) tick() time.Time {
	w.now = w.now.Add(time.Second)
	return w.now
}

// touch marks files as written now.
func (w *world) touch(files ...string) {
	at := w.tick()
	for _, f := range files {
		w.files.Put(f, at)
	}
}

// task returns a leaf task whose action writes every provided file.
func (w *world) task(name string, requires, provides []string) *Task {
	return NewTask(name, requires, provides, func(context.Context) error {
		w.ran = append(w.ran, name)
		w.touch(provides...)
		return nil
	})
}

// lazy returns a leaf task whose action writes nothing.
func (w *world) lazy(name string, requires, provides []string) *Task {
	return NewTask(name, requires, provides, func(context.Context) error {
		w.ran = append(w.ran, name)
		return nil
	})
}

func (w *world) failing(name string, requires, provides []string) *Task {
	return NewTask(name, requires, provides, func(context.Context) error {
		w.ran = append(w.ran, name)
		return errors.New("boom")
	})
}

func (w *world) prober() *probe.Router {
	w.t.Helper()
	cfg := probe.Config{Retry: resilience.RetryConfig{MaxAttempts: 1}}
	r, err := probe.New(context.Background(), cfg, storage.Config{}, logger.Nop(), probe.WithLocal(w.files))
	if err != nil {
		w.t.Fatalf("probe.New: %v", err)
	}
	return r
}

func (w *world) engine(opts ...Option) *Engine {
	opts = append([]Option{WithLogger(logger.Nop())}, opts...)
	return NewEngine(w.prober(), opts...)
}

func vertexNames(vs []Vertex) []string {
	names := make([]string, 0, len(vs))
	for _, v := range vs {
		names = append(names, v.String())
	}
	return names
}

func taskNames(ts []*Task) []string {
	names := make([]string, 0, len(ts))
	for _, t := range ts {
		names = append(names, t.Name())
	}
	return names
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
