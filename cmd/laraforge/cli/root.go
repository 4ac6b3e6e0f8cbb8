// Package cli wires the laraforge subcommands.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "laraforge",
	Short:         "Provision a server for a Laravel application",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if f, ok := err.(interface{ FormatStderr() string }); ok {
			fmt.Fprint(os.Stderr, f.FormatStderr())
		} else {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		os.Exit(1)
	}
}
