// Package main provides the entry point for the snapwatch CLI.
package main

import (
	"os"

	"github.com/snapwatch/snapwatch/cmd/snapwatch/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
