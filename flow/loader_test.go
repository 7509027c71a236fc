package flow

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/kbukum/fileflow/dag"
	apperrors "github.com/kbukum/fileflow/errors"
	"github.com/kbukum/fileflow/logger"
	"github.com/kbukum/fileflow/probe"
	"github.com/kbukum/fileflow/storage"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func newTestLoader(stdout *bytes.Buffer) *Loader {
	return NewLoader(
		WithLogger(logger.Nop()),
		WithEnviron(func() []string { return []string{"FROM_ENV=env", "OUTPUT_DIR=/from/env"} }),
		WithOutput(stdout, io.Discard),
	)
}

func TestLoadVarsAndIncludes(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "main.yaml"), `
name: main
vars:
  OUTPUT_DIR: /work
include: [prep]
tasks:
  - name: report
    in: "{OUTPUT_DIR}/clean.csv"
    out: "{OUTPUT_DIR}/report.txt"
`)
	writeFile(t, filepath.Join(dir, "prep.yml"), `
name: prep
tasks:
  - name: fetch
    out: "{OUTPUT_DIR}/raw.csv"
  - name: clean
    in: "{OUTPUT_DIR}/raw.csv"
    out: "{OUTPUT_DIR}/clean.csv"
`)

	f, err := newTestLoader(&bytes.Buffer{}).Load(filepath.Join(dir, "main.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if f.Name != "main" || len(f.Tasks) != 2 {
		t.Fatalf("flow = %+v", f)
	}
	if f.Vars["OUTPUT_DIR"] != "/work" || f.Vars["FROM_ENV"] != "env" {
		t.Errorf("vars = %v", f.Vars)
	}

	prep := f.Tasks[0]
	if prep.Name() != "prep" || !prep.IsComposite() {
		t.Fatalf("first task = %s", prep)
	}
	if got := prep.Provides(); len(got) != 1 || got[0] != "/work/clean.csv" {
		t.Errorf("prep provides %v", got)
	}
	if got := prep.Requires(); len(got) != 0 {
		t.Errorf("prep requires %v", got)
	}

	if got := f.Registry.Suggest("/work/clean.csv"); len(got) != 1 || got[0] != "clean" {
		t.Errorf("Suggest = %v", got)
	}
	if got := f.Registry.List(); len(got) != 3 {
		t.Errorf("registry = %v", got)
	}

	g, err := dag.Build(f.Tasks)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	order, err := dag.TaskOrder(g)
	if err != nil || len(order) != 2 || order[0].Name() != "prep" {
		t.Errorf("order = %v, %v", order, err)
	}
}

func TestLoadCircularInclude(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.yaml"), "include: [b]\ntasks: []\n")
	writeFile(t, filepath.Join(dir, "b.yaml"), "include: [a]\ntasks: []\n")

	_, err := newTestLoader(&bytes.Buffer{}).Load(filepath.Join(dir, "a.yaml"))
	if !apperrors.HasCode(err, apperrors.ErrCodeInvalidInput) || !strings.Contains(err.Error(), "circular include") {
		t.Fatalf("err = %v, want circular include", err)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		code apperrors.ErrorCode
	}{
		{"missing include", "include: [nope]\ntasks: []\n", apperrors.ErrCodeNotFound},
		{"unknown placeholder", "tasks:\n  - name: a\n    out: \"{NOPE}/x\"\n", apperrors.ErrCodeMissingField},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "flow.yaml")
			writeFile(t, path, tt.src)
			_, err := newTestLoader(&bytes.Buffer{}).Load(path)
			if !apperrors.HasCode(err, tt.code) {
				t.Errorf("err = %v, want %s", err, tt.code)
			}
		})
	}

	if _, err := newTestLoader(&bytes.Buffer{}).Load(filepath.Join(t.TempDir(), "absent.yaml")); !apperrors.HasCode(err, apperrors.ErrCodeNotFound) {
		t.Errorf("absent file err = %v", err)
	}
}

func TestFlowRunsShellCommands(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "foo.csv")
	writeFile(t, in, "b\na\n")
	past := time.Now().Add(-time.Hour)
	if err := os.Chtimes(in, past, past); err != nil {
		t.Fatal(err)
	}

	flowPath := filepath.Join(dir, "flow.yaml")
	writeFile(t, flowPath, `
vars:
  OUTPUT_DIR: `+dir+`
tasks:
  - name: step2
    in: "{OUTPUT_DIR}/file1.csv"
    out: "{OUTPUT_DIR}/file2.csv"
    run: sort ${in[0]} > $out
  - name: step1
    in: "{OUTPUT_DIR}/foo.csv"
    out: "{OUTPUT_DIR}/file1.csv"
    run: cp $in $out && echo copied
`)

	var output bytes.Buffer
	f, err := newTestLoader(&output).Load(flowPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	p, err := probe.New(context.Background(), probe.Config{}, storage.Config{}, logger.Nop())
	if err != nil {
		t.Fatalf("probe.New: %v", err)
	}
	engine := dag.NewEngine(p, dag.WithLogger(logger.Nop()))

	res, err := engine.Run(context.Background(), f.Tasks, false)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := res.Names(dag.DecisionExecuted); len(got) != 2 || got[0] != "step1" {
		t.Errorf("executed = %v", got)
	}
	data, err := os.ReadFile(filepath.Join(dir, "file2.csv"))
	if err != nil || string(data) != "a\nb\n" {
		t.Errorf("file2.csv = %q, %v", data, err)
	}
	if !strings.Contains(output.String(), "copied") {
		t.Errorf("command output not streamed: %q", output.String())
	}
}

func TestFlowCommandFailure(t *testing.T) {
	dir := t.TempDir()
	flowPath := filepath.Join(dir, "flow.yaml")
	writeFile(t, flowPath, `
tasks:
  - name: broken
    out: `+filepath.Join(dir, "never.txt")+`
    run: echo nope >&2; exit 3
`)

	var output bytes.Buffer
	f, err := newTestLoader(&output).Load(flowPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	p, err := probe.New(context.Background(), probe.Config{}, storage.Config{}, logger.Nop())
	if err != nil {
		t.Fatalf("probe.New: %v", err)
	}

	_, err = dag.NewEngine(p, dag.WithLogger(logger.Nop())).Run(context.Background(), f.Tasks, false)
	if !apperrors.HasCode(err, apperrors.ErrCodeActionFailed) {
		t.Fatalf("err = %v, want ACTION_FAILED", err)
	}
	if !strings.Contains(err.Error(), "nope") {
		t.Errorf("error should carry stderr: %v", err)
	}
}
