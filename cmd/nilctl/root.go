package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "nilctl",
		Short:        "Offline tools for NIL marketplace operators",
		SilenceUsage: true,
	}
	root.AddCommand(newRosterCmd(), newFMVCmd(), newMatchCmd())
	return root
}
