package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/kbukum/fileflow/dag"
	"github.com/kbukum/fileflow/util"
)

// runOptions defines flags for run and plan.
type runOptions struct {
	dryRun bool
	graph  string
}

func (o *runOptions) addFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.graph, "graph", "", "write the task graph to this path (.dot, .svg, .png, .pdf)")
}

func (o *runOptions) run(ctx context.Context, s *session) error {
	var extra []dag.Option
	if graph := util.Coalesce(o.graph, s.cfg.Graph); graph != "" {
		extra = append(extra, dag.WithGraphExport(graph))
	}

	res, err := s.engine(extra...).Run(ctx, s.flow.Tasks, o.dryRun)
	printReport(s.out.OutOrStdout(), res)
	return err
}

// newCmdRun creates the `run` command.
func newCmdRun(global *globalOptions) *cobra.Command {
	o := &runOptions{}
	command := &cobra.Command{
		Use:   "run",
		Short: "Run every task whose outputs are missing or older than its inputs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return global.execute(cmd, o.run)
		},
	}
	o.addFlags(command)
	return command
}

// newCmdPlan creates the `plan` command, a dry run.
func newCmdPlan(global *globalOptions) *cobra.Command {
	o := &runOptions{dryRun: true}
	command := &cobra.Command{
		Use:     "plan",
		Aliases: []string{"dry-run"},
		Short:   "Report what run would do without executing anything",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return global.execute(cmd, o.run)
		},
	}
	o.addFlags(command)
	return command
}
