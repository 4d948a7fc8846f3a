package main

import (
	"os"

	"github.com/cleared-dev/fintrack/internal/commands"
)

// Set via ldflags during build.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	rootCmd := commands.NewRootCommand(commands.BuildInfo{
		Version: version,
		Commit:  commit,
		Date:    date,
	})
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
