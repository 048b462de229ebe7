// Command burgers extracts the Burger of the Day catalog and works with it
// from the command line: print it, export spreadsheets, populate the
// database and render backgrounds.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
