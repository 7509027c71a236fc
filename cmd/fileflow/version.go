package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kbukum/fileflow/version"
)

// newCmdVersion creates the `version` command.
func newCmdVersion() *cobra.Command {
	var short bool
	command := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if short {
				fmt.Fprintln(cmd.OutOrStdout(), version.Short())
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), version.Get().String())
			return nil
		},
	}
	command.Flags().BoolVar(&short, "short", false, "print only the version")
	return command
}
