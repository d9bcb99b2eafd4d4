package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"dasa.cc/pcv/session"
)

// version is set at link time.
var version = "dev"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "pcv %s %s session/v%d\n", version, runtime.Version(), session.Version)
		},
	}
}
