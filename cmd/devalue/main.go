// Command devalue exposes the four devalue entry points — uneval,
// stringify, parse, unflatten — as a small Cobra CLI, for quick manual
// inspection of what a value flattens to or an existing flat table
// revives into.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "devalue:", err)
		os.Exit(1)
	}
}
