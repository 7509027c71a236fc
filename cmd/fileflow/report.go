package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/kbukum/fileflow/dag"
)

var (
	nameStyle = color.New(color.Bold).SprintFunc()
	faint     = color.New(color.Faint).SprintFunc()

	decisionStyles = map[dag.Decision]func(a ...interface{}) string{
		dag.DecisionExecuted:       color.New(color.FgGreen).SprintFunc(),
		dag.DecisionSkipped:        color.New(color.FgCyan).SprintFunc(),
		dag.DecisionFailed:         color.New(color.FgRed, color.Bold).SprintFunc(),
		dag.DecisionWouldRun:       color.New(color.FgYellow).SprintFunc(),
		dag.DecisionWouldSkip:      color.New(color.FgCyan).SprintFunc(),
		dag.DecisionCannotEvaluate: color.New(color.FgMagenta).SprintFunc(),
	}
)

// decisionWidth pads decisions so task names line up.
const decisionWidth = len(dag.DecisionCannotEvaluate)

// printReport writes a human summary of res. A nil result prints nothing.
func printReport(w io.Writer, res *dag.Result) {
	if res == nil {
		return
	}
	header := "run " + res.RunID
	if res.DryRun {
		header += " (dry run)"
	}
	fmt.Fprintln(w, faint(header))

	for _, f := range res.MissingSources {
		fmt.Fprintf(w, "  %s %s\n", decisionStyles[dag.DecisionCannotEvaluate]("missing input"), f)
	}
	for _, tr := range res.Tasks {
		writeTaskResult(w, tr, "  ")
	}

	var counts []string
	for _, d := range []dag.Decision{
		dag.DecisionExecuted, dag.DecisionSkipped, dag.DecisionFailed,
		dag.DecisionWouldRun, dag.DecisionWouldSkip, dag.DecisionCannotEvaluate,
	} {
		if n := res.Count(d); n > 0 {
			counts = append(counts, fmt.Sprintf("%d %s", n, d))
		}
	}
	if len(counts) == 0 {
		counts = append(counts, "no tasks")
	}
	fmt.Fprintf(w, "%s in %s\n", strings.Join(counts, ", "), res.Duration.Round(time.Millisecond))
}

func writeTaskResult(w io.Writer, tr dag.TaskResult, indent string) {
	label := fmt.Sprintf("%-*s", decisionWidth, tr.Decision)
	if style, ok := decisionStyles[tr.Decision]; ok {
		label = style(label)
	}
	line := fmt.Sprintf("%s%s %s", indent, label, tr.Name)
	if len(tr.Missing) > 0 {
		line += faint("  missing: " + strings.Join(tr.Missing, " "))
	}
	fmt.Fprintln(w, line)
	for _, child := range tr.Children {
		writeTaskResult(w, child, indent+"  ")
	}
}
