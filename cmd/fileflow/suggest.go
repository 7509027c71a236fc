package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	apperrors "github.com/kbukum/fileflow/errors"
)

// newCmdSuggest creates the `suggest` command.
func newCmdSuggest(global *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "suggest PATH",
		Short: "Name the tasks whose output templates could produce PATH",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return global.execute(cmd, func(_ context.Context, s *session) error {
				names := s.flow.Registry.Suggest(args[0])
				if len(names) == 0 {
					return apperrors.NotFound("task producing", args[0])
				}
				for _, n := range names {
					fmt.Fprintln(s.out.OutOrStdout(), n)
				}
				return nil
			})
		},
	}
}
