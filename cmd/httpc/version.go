package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/adamwoolhether/httpc"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "httpc version %s\n", httpc.Version)
		},
	}
}
