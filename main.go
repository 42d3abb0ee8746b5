// Command pathmate selects, inspects and archives files and directory trees.
package main

import (
	"fmt"
	"os"

	"github.com/idelchi/pathmate/internal/cli"
)

// Global variable for CI stamping.
var version = "unknown - unofficial & generated by unknown"

func main() {
	if err := cli.New(version).Execute(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
