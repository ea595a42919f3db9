// Package main is the entry point for the posterjob CLI application.
package main

import (
	"fmt"
	"os"

	"github.com/hlybov/posterjob/internal/job"
)

// Version information (set via ldflags during build)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	// Set version info for CLI
	SetVersion(version, commit, date)

	if err := Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)

		// A failed pipeline step propagates its own exit code
		if code := job.ExitCode(err); code > 0 {
			os.Exit(code)
		}
		os.Exit(1)
	}
}
