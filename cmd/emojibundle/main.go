package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:   "emojibundle",
		Short: "Build, cache, and publish the static emoji asset bundle",
	}

	root.AddCommand(newVersionCmd())
	root.AddCommand(newBuildCmd())
	root.AddCommand(newVerifyCmd())
	root.AddCommand(newCleanCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "emojibundle 0.1.0-dev")
		},
	}
}
