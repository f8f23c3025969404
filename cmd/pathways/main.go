package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	version = "0.1.0-dev"
	commit  = "none"
	date    = "unknown"
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "pathways",
		Short: "Pathways - quarantine inspection policy simulator",
		Long: `pathways simulates cut-flower shipments arriving at ports of entry and
measures how well an inspection policy intercepts pest.

Each run generates (or replays from an F280 record) a stream of shipments,
infests them, decides which to inspect, and reports the share of infested
shipments that slipped through.`,
		SilenceUsage: true,
	}

	// Global flags
	rootCmd.PersistentFlags().Bool("json", false, "Output as JSON")
	rootCmd.PersistentFlags().String("root", ".", "Project root directory")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: trace, debug, info, warn, error (default $PATHWAYS_LOG_LEVEL or info)")

	rootCmd.AddCommand(
		newVersionCmd(),
		newRunCmd(),
		newValidateCmd(),
		newHistoryCmd(),
	)
	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
