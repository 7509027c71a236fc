package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/kbukum/fileflow/dag"
)

type graphOptions struct {
	output string
}

func (o *graphOptions) run(ctx context.Context, s *session) error {
	g, err := dag.Build(s.flow.Tasks)
	if err != nil {
		return err
	}
	if o.output == "" {
		return dag.WriteDOT(s.out.OutOrStdout(), g)
	}
	return dag.ExportGraph(ctx, g, o.output)
}

// newCmdGraph creates the `graph` command.
func newCmdGraph(global *globalOptions) *cobra.Command {
	o := &graphOptions{}
	command := &cobra.Command{
		Use:   "graph",
		Short: "Print the task graph in Graphviz DOT form",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return global.execute(cmd, o.run)
		},
	}
	command.Flags().StringVarP(&o.output, "output", "o", "", "write to this path instead of stdout; non-.dot paths are rendered with dot")
	return command
}
