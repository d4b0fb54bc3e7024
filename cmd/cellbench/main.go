// Command cellbench drives disjoint parallel writes through a world cell and reports what changed.
package main

import (
	"os"
)

func main() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
