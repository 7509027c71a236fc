package dag

import (
	"bytes"
	"strings"
	"testing"
)

func TestWriteDOT(t *testing.T) {
	w := newWorld(t)
	g, err := Build(chain(w))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	var buf bytes.Buffer
	if err := WriteDOT(&buf, g); err != nil {
		t.Fatalf("WriteDOT: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		`"file:in.csv" [label="in.csv", shape=ellipse];`,
		`"task:T1" [label="T1", shape=box];`,
		`"file:in.csv" -> "task:T1";`,
		`"task:T2" -> "file:out2.csv";`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Index(out, `"file:in.csv" [`) > strings.Index(out, `"file:out2.csv" [`) {
		t.Error("vertices are not in insertion order")
	}
}

func TestWriteDOTFileNamedLikeTask(t *testing.T) {
	w := newWorld(t)
	g, err := Build([]*Task{
		w.task("x", []string{"task:x"}, []string{"x.out"}),
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	var buf bytes.Buffer
	if err := WriteDOT(&buf, g); err != nil {
		t.Fatalf("WriteDOT: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		`"file:task:x" [label="task:x", shape=ellipse];`,
		`"task:x" [label="x", shape=box];`,
		`"file:task:x" -> "task:x";`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if n := strings.Count(out, `"task:x" [`); n != 1 {
		t.Errorf("expected one node declared as task:x, got %d:\n%s", n, out)
	}
}
