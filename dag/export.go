package dag

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/kbukum/fileflow/process"
)

// WriteDOT writes g in Graphviz DOT form. Files are ellipses and tasks are
// boxes; vertices and edges appear in insertion order. Node ids carry a
// "file:" or "task:" prefix so a file can never share an id with a task.
func WriteDOT(w io.Writer, g *Graph) error {
	var b bytes.Buffer
	b.WriteString("digraph fileflow {\n")
	b.WriteString("\trankdir=LR;\n")
	for _, v := range g.Vertices() {
		shape := "ellipse"
		label := v.File
		if v.IsTask() {
			shape = "box"
			label = v.Task.Name()
		}
		fmt.Fprintf(&b, "\t%s [label=%s, shape=%s];\n", dotID(v), strconv.Quote(label), shape)
	}
	for _, e := range g.Edges() {
		fmt.Fprintf(&b, "\t%s -> %s;\n", dotID(e.From), dotID(e.To))
	}
	b.WriteString("}\n")
	_, err := w.Write(b.Bytes())
	return err
}

func dotID(v Vertex) string {
	if v.IsTask() {
		return strconv.Quote("task:" + v.Task.Name())
	}
	return strconv.Quote("file:" + v.File)
}

// ExportGraph writes g to path. A .dot path receives the DOT source;
// any other extension is rendered by the Graphviz dot binary.
func ExportGraph(ctx context.Context, g *Graph, path string) error {
	var src bytes.Buffer
	if err := WriteDOT(&src, g); err != nil {
		return err
	}

	format := strings.TrimPrefix(filepath.Ext(path), ".")
	if format == "" || format == "dot" || format == "gv" {
		return os.WriteFile(path, src.Bytes(), 0o644)
	}

	res, err := process.Run(ctx, process.Command{
		Binary: "dot",
		Args:   []string{"-T" + format, "-o", path},
		Stdin:  &src,
	})
	if err != nil {
		if tail := res.StderrTail(3); tail != "" {
			return fmt.Errorf("render %s: %w: %s", path, err, tail)
		}
		return fmt.Errorf("render %s: %w", path, err)
	}
	return nil
}
