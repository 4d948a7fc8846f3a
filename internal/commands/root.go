package commands

import (
	"github.com/spf13/cobra"
)

// BuildInfo is stamped into the binary via ldflags.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

type rootOptions struct {
	logLevel string
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand(info BuildInfo) *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:     "fintrack",
		Short:   "Clean bank statements, raise alerts and track account balances",
		Version: info.Version + " (commit: " + info.Commit + ", built: " + info.Date + ")",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error); overrides the config")

	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newIngestCommand(opts))

	return rootCmd
}
