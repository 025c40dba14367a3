// Command evalbox evaluates JavaScript or Lua in a resource limited sandbox process.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
