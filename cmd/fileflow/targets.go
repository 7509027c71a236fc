package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kbukum/fileflow/dag"
)

func listTargets(_ context.Context, s *session) error {
	g, err := dag.Build(s.flow.Tasks)
	if err != nil {
		return err
	}
	order, err := dag.TaskOrder(g)
	if err != nil {
		return err
	}
	w := s.out.OutOrStdout()
	for _, t := range order {
		writeTarget(w, t, "")
	}
	return nil
}

func writeTarget(w io.Writer, t *dag.Task, indent string) {
	fmt.Fprintf(w, "%s%s\n", indent, nameStyle(t.Name()))
	if in := t.Requires(); len(in) > 0 {
		fmt.Fprintf(w, "%s  in:  %s\n", indent, strings.Join(in, " "))
	}
	if out := t.Provides(); len(out) > 0 {
		fmt.Fprintf(w, "%s  out: %s\n", indent, strings.Join(out, " "))
	}
	if !t.IsComposite() {
		return
	}
	g, err := t.InternalGraph()
	if err != nil {
		return
	}
	children, err := dag.TaskOrder(g)
	if err != nil {
		return
	}
	for _, c := range children {
		writeTarget(w, c, indent+"    ")
	}
}

// newCmdTargets creates the `targets` command.
func newCmdTargets(global *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "targets",
		Short: "List tasks in execution order with their files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return global.execute(cmd, listTargets)
		},
	}
}
