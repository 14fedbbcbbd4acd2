// Package main provides the entry point for the docshelf CLI.
package main

import (
	"fmt"
	"os"

	"github.com/raphaelgruber/docshelf/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
