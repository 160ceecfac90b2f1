// Package main is the entry point for the part-cost CLI.
package main

import (
	"os"

	"part-cost/cmd/cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
