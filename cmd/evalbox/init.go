package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/evalbox/evalbox/pkg/logger"
	"github.com/evalbox/evalbox/pkg/sandbox"
)

// newInitCmd is the sandbox side of "evalbox run" when no init_path is
// configured. It behaves exactly like evalbox-init.
func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:    "init",
		Short:  "Run as the sandbox process (reads a request on stdin)",
		Hidden: true,
		Args:   cobra.NoArgs,
		// no configuration is read by the sandbox
		PersistentPreRun: func(*cobra.Command, []string) {},
		Run: func(cmd *cobra.Command, args []string) {
			os.Exit(sandbox.Main(os.Stdin, logger.Sandbox()))
		},
	}
}
