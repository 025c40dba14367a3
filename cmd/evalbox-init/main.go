// Command evalbox-init is the single-shot sandbox process. It reads one JSON
// request from stdin until EOF, installs the requested address space and
// process count ceilings on itself and evaluates the code.
//
// It takes no flags and reads no environment; the outcome is its exit code.
package main

import (
	"os"

	"github.com/evalbox/evalbox/pkg/logger"
	"github.com/evalbox/evalbox/pkg/sandbox"
)

func main() {
	os.Exit(sandbox.Main(os.Stdin, logger.Sandbox()))
}
