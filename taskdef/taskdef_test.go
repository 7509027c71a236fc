package taskdef

import (
	"context"
	"testing"

	apperrors "github.com/kbukum/fileflow/errors"
)

type base struct{ Project string }

type sortParams struct {
	Table  string `file:"table"`
	Ref    string `file:"ref"`
	Sorted string `file:"sorted"`
}

var sortFiles = map[string]string{
	"in table":   "{OUTPUT_DIR}/{project}/table.csv",
	"in| ref":    "/ref/{genome}.fa",
	"out sorted": "{OUTPUT_DIR}/{project}/sorted.csv",
	"base":       "ignored",
	"config":     "ignored",
}

func TestExpand(t *testing.T) {
	cfg := map[string]string{"project": "p1", "n": "3"}
	tests := []struct {
		tmpl    string
		want    string
		missing string
	}{
		{tmpl: "plain.csv", want: "plain.csv"},
		{tmpl: "{project}/run{n}.csv", want: "p1/run3.csv"},
		{tmpl: "{project}/{sample}.csv", missing: "sample"},
	}
	for _, tt := range tests {
		t.Run(tt.tmpl, func(t *testing.T) {
			got, err := Expand(tt.tmpl, cfg)
			if tt.missing != "" {
				if !apperrors.HasCode(err, apperrors.ErrCodeMissingField) {
					t.Fatalf("err = %v, want MISSING_FIELD", err)
				}
				appErr, _ := apperrors.AsAppError(err)
				if appErr.Details["field"] != tt.missing {
					t.Errorf("field = %v, want %s", appErr.Details["field"], tt.missing)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("Expand = %q, %v; want %q", got, err, tt.want)
			}
		})
	}
}

func TestPattern(t *testing.T) {
	tests := []struct {
		tmpl string
		path string
		want bool
	}{
		{"{project}/sorted.csv", "p1/sorted.csv", true},
		{"{project}/sorted.csv", "p1/sorted.csv.bak", false},
		{"{project}/sorted.csv", "/sorted.csv", false},
		{"out.(1).csv", "out.(1).csv", true},
		{"out.(1).csv", "outx(1).csv", false},
	}
	for _, tt := range tests {
		if got := Pattern(tt.tmpl).MatchString(tt.path); got != tt.want {
			t.Errorf("Pattern(%q) match %q = %v, want %v", tt.tmpl, tt.path, got, tt.want)
		}
	}
}

func noop(context.Context, Env[base], *sortParams) error { return nil }

func TestDefineRejects(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
		run   Func[base, sortParams]
		code  apperrors.ErrorCode
	}{
		{"empty name", sortFiles, noop, apperrors.ErrCodeInvalidInput},
		{"nil func", sortFiles, nil, apperrors.ErrCodeInvalidInput},
		{"unexpected key", map[string]string{"inout x": "a"}, noop, apperrors.ErrCodeInvalidInput},
		{"undeclared field", map[string]string{"in table": "a", "out sorted": "b"}, noop, apperrors.ErrCodeInvalidInput},
		{"unknown file", map[string]string{"in table": "a", "in| ref": "r", "out sorted": "b", "out extra": "c"}, noop, apperrors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name := "sort"
			if tt.name == "empty name" {
				name = ""
			}
			_, err := Define[base, sortParams](name, tt.files, tt.run)
			if !apperrors.HasCode(err, tt.code) {
				t.Errorf("err = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestDefineRejectsNonStringField(t *testing.T) {
	type bad struct {
		Count int `file:"count"`
	}
	_, err := Define[base, bad]("bad", map[string]string{"out count": "n.txt"}, func(context.Context, Env[base], *bad) error { return nil })
	if !apperrors.HasCode(err, apperrors.ErrCodeInvalidInput) {
		t.Errorf("err = %v", err)
	}
}

func TestInstantiate(t *testing.T) {
	var (
		gotEnv    Env[base]
		gotParams sortParams
	)
	def, err := Define[base, sortParams]("sort", sortFiles, func(_ context.Context, env Env[base], p *sortParams) error {
		gotEnv, gotParams = env, *p
		return nil
	})
	if err != nil {
		t.Fatalf("Define: %v", err)
	}

	cfg := map[string]string{"project": "p1", "genome": "hg38", "OUTPUT_DIR": "/work"}
	task, err := def.Instantiate(base{Project: "demo"}, cfg)
	if err != nil {
		t.Fatalf("Instantiate: %v", err)
	}

	wantRequires := []string{"/work/p1/table.csv", "/ref/hg38.fa"}
	if got := task.Requires(); !equal(got, wantRequires) {
		t.Errorf("requires = %v, want %v", got, wantRequires)
	}
	wantProvides := []string{"/work/p1/sorted.csv"}
	if got := task.Provides(); !equal(got, wantProvides) {
		t.Errorf("provides = %v, want %v", got, wantProvides)
	}

	if err := task.Action()(context.Background()); err != nil {
		t.Fatalf("action: %v", err)
	}
	if gotEnv.Base.Project != "demo" || gotEnv.Config["genome"] != "hg38" {
		t.Errorf("env = %+v", gotEnv)
	}
	want := sortParams{Table: "/work/p1/table.csv", Ref: "/ref/hg38.fa", Sorted: "/work/p1/sorted.csv"}
	if gotParams != want {
		t.Errorf("params = %+v, want %+v", gotParams, want)
	}
}

func TestInstantiateRelativeOutputDir(t *testing.T) {
	type copyParams struct {
		Input  string `file:"input_file"`
		Output string `file:"output_file"`
	}
	def := MustDefine[base, copyParams]("copy", map[string]string{
		"in input_file":   "{OUTPUT_DIR}/foo.csv",
		"out output_file": "{OUTPUT_DIR}/file1.csv",
	}, func(context.Context, Env[base], *copyParams) error { return nil })

	task, err := def.Instantiate(base{}, map[string]string{"OUTPUT_DIR": "working"})
	if err != nil {
		t.Fatalf("Instantiate: %v", err)
	}
	if got := task.Requires(); !equal(got, []string{"working/foo.csv"}) {
		t.Errorf("requires = %v, want [working/foo.csv]", got)
	}
	if got := task.Provides(); !equal(got, []string{"working/file1.csv"}) {
		t.Errorf("provides = %v, want [working/file1.csv]", got)
	}
}

func TestInstantiateMissingKey(t *testing.T) {
	def := MustDefine[base, sortParams]("sort", sortFiles, noop)
	_, err := def.Instantiate(base{}, map[string]string{"project": "p1"})
	if !apperrors.HasCode(err, apperrors.ErrCodeMissingField) {
		t.Errorf("err = %v, want MISSING_FIELD", err)
	}
}

func TestRegistrySuggest(t *testing.T) {
	type countParams struct {
		In  string `file:"in"`
		Out string `file:"counts"`
	}
	count := MustDefine[base, countParams]("count", map[string]string{
		"in in":      "{project}/sorted.csv",
		"out counts": "{project}/counts.tsv",
	}, func(context.Context, Env[base], *countParams) error { return nil })

	r := NewRegistry()
	r.Register(MustDefine[base, sortParams]("sort", sortFiles, noop))
	r.Register(count)

	if got := r.List(); !equal(got, []string{"count", "sort"}) {
		t.Errorf("List = %v", got)
	}
	if _, ok := r.Get("sort"); !ok {
		t.Error("sort not registered")
	}

	tests := []struct {
		path string
		want []string
	}{
		{"work/p1/sorted.csv", []string{"sort"}},
		{"deep/dir/counts.tsv", []string{"count"}},
		{"counts.tsv", nil},
	}
	for _, tt := range tests {
		if got := r.Suggest(tt.path); !equal(got, tt.want) {
			t.Errorf("Suggest(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func equal(a, b []string) bool {
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
