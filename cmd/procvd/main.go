// Command procvd supervises groups of dependent processes described by
// an INI or JSON config file: it starts them in dependency order,
// restarts them on exit or on request, and streams their output and
// lifecycle events to the console, a rotated log file, and optionally a
// durable history backend.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := buildRoot()

	if err := root.Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func buildRoot() *cobra.Command {
	c := &command{}

	root := &cobra.Command{
		Use:           "procvd",
		Short:         "Supervise groups of dependent processes",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	root.AddCommand(newRunCommand(c))
	root.AddCommand(newConfigCommand(c))
	root.AddCommand(newMetricsCommand(c))

	return root
}
